package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/cache"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/dto"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/model"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/repository"
	applogger "github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/logger"
)

var (
	ErrEmailTaken       = errors.New("email is already registered")
	ErrCannotDeleteSelf = errors.New("cannot delete your own account")
)

// UserService account management inside one organization
type UserService interface {
	List(ctx context.Context, caller Caller, req *dto.UserListRequest) ([]dto.UserResponse, error)
	Create(ctx context.Context, caller Caller, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	// ListFaculty returns the faculty roster used by slot editors.
	ListFaculty(ctx context.Context, caller Caller) ([]cache.Entry, error)
	Delete(ctx context.Context, caller Caller, id string) error
}

type userService struct {
	repo    *repository.Repository
	lookups *cache.LookupCache
	logger  *zap.Logger
}

// NewUserService creates a UserService
func NewUserService(repo *repository.Repository, lookups *cache.LookupCache, logger *zap.Logger) UserService {
	return &userService{repo: repo, lookups: lookups, logger: logger}
}

func (s *userService) List(ctx context.Context, caller Caller, req *dto.UserListRequest) ([]dto.UserResponse, error) {
	if !caller.IsAdmin() {
		return nil, ErrNoPermission
	}
	users, err := s.repo.User.List(ctx, caller.OrganizationID, req.Role)
	if err != nil {
		applogger.FromContext(ctx, s.logger).Error("list users failed", zap.Error(err))
		return nil, err
	}
	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}
	return result, nil
}

func (s *userService) Create(ctx context.Context, caller Caller, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !caller.IsAdmin() {
		return nil, ErrNoPermission
	}

	// 1. email must be unused
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		applogger.FromContext(ctx, s.logger).Error("query user failed", zap.Error(err))
		return nil, err
	}

	// 2. hash and persist
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		applogger.FromContext(ctx, s.logger).Error("hash password failed", zap.Error(err))
		return nil, err
	}
	user := &model.User{
		OrganizationID: caller.OrganizationID,
		Name:           strings.TrimSpace(req.Name),
		Email:          email,
		PasswordHash:   string(hash),
		Role:           req.Role,
	}
	user.CreatedBy = &caller.UserID
	user.UpdatedBy = &caller.UserID
	user.Version = 1

	if err := s.repo.User.Create(ctx, user); err != nil {
		applogger.FromContext(ctx, s.logger).Error("create user failed", zap.Error(err))
		return nil, err
	}

	// 3. a new faculty member changes the faculty lookup
	if user.Role == model.RoleFaculty {
		s.lookups.Invalidate(ctx, caller.OrganizationID, cache.Faculty)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) ListFaculty(ctx context.Context, caller Caller) ([]cache.Entry, error) {
	entries, err := s.lookups.Entries(ctx, caller.OrganizationID, cache.Faculty)
	if err != nil {
		applogger.FromContext(ctx, s.logger).Error("list faculty failed", zap.Error(err))
		return nil, err
	}
	return entries, nil
}

func (s *userService) Delete(ctx context.Context, caller Caller, id string) error {
	if !caller.IsAdmin() {
		return ErrNoPermission
	}
	if id == caller.UserID {
		return ErrCannotDeleteSelf
	}

	if err := s.repo.User.Delete(ctx, caller.OrganizationID, id, caller.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		applogger.FromContext(ctx, s.logger).Error("delete user failed", zap.String("id", id), zap.Error(err))
		return err
	}

	s.lookups.Invalidate(ctx, caller.OrganizationID, cache.Faculty)
	return nil
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:             u.UserID,
		OrganizationID: u.OrganizationID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		CreatedAt:      formatTime(u.CreatedAt),
	}
}
