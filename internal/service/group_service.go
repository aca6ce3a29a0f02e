package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/dto"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/model"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/repository"
	pkgerrors "github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/errors"
	applogger "github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/logger"
)

var (
	ErrGroupNotFound = errors.New("group not found")
	ErrUnknownMember = errors.New("member is not a user of this organization")
)

// GroupService user groups that timetables are assigned to
type GroupService interface {
	List(ctx context.Context, caller Caller) ([]dto.GroupResponse, error)
	GetByID(ctx context.Context, caller Caller, id string) (*dto.GroupResponse, error)
	Create(ctx context.Context, caller Caller, req *dto.GroupRequest) (*dto.GroupResponse, error)
	Update(ctx context.Context, caller Caller, id string, req *dto.GroupRequest) (*dto.GroupResponse, error)
	// SetMembers replaces the member list wholesale.
	SetMembers(ctx context.Context, caller Caller, id string, req *dto.SetMembersRequest) (*dto.GroupResponse, error)
	Delete(ctx context.Context, caller Caller, id string) error
}

type groupService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewGroupService creates a GroupService
func NewGroupService(repo *repository.Repository, logger *zap.Logger) GroupService {
	return &groupService{repo: repo, logger: logger}
}

func (s *groupService) List(ctx context.Context, caller Caller) ([]dto.GroupResponse, error) {
	groups, err := s.repo.Group.List(ctx, caller.OrganizationID)
	if err != nil {
		applogger.FromContext(ctx, s.logger).Error("list groups failed", zap.Error(err))
		return nil, err
	}
	result := make([]dto.GroupResponse, 0, len(groups))
	for i := range groups {
		// members only see the groups they belong to
		if !caller.IsAdmin() && !groups[i].MemberIDs.Contains(caller.UserID) {
			continue
		}
		result = append(result, toGroupResponse(&groups[i]))
	}
	return result, nil
}

func (s *groupService) GetByID(ctx context.Context, caller Caller, id string) (*dto.GroupResponse, error) {
	group, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && !group.MemberIDs.Contains(caller.UserID) {
		return nil, ErrGroupNotFound
	}
	resp := toGroupResponse(group)
	return &resp, nil
}

func (s *groupService) Create(ctx context.Context, caller Caller, req *dto.GroupRequest) (*dto.GroupResponse, error) {
	if !caller.IsAdmin() {
		return nil, ErrNoPermission
	}

	group := &model.Group{
		OrganizationID: caller.OrganizationID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		MemberIDs:      model.StringArray{},
	}
	group.CreatedBy = &caller.UserID
	group.UpdatedBy = &caller.UserID
	group.Version = 1

	if err := s.repo.Group.Create(ctx, group); err != nil {
		applogger.FromContext(ctx, s.logger).Error("create group failed", zap.Error(err))
		return nil, err
	}
	resp := toGroupResponse(group)
	return &resp, nil
}

func (s *groupService) Update(ctx context.Context, caller Caller, id string, req *dto.GroupRequest) (*dto.GroupResponse, error) {
	if !caller.IsAdmin() {
		return nil, ErrNoPermission
	}

	group, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if req.Version != 0 && req.Version != group.Version {
		return nil, pkgerrors.ErrOptimisticLock
	}

	group.Name = strings.TrimSpace(req.Name)
	group.Description = req.Description
	group.UpdatedBy = &caller.UserID

	if err := s.repo.Group.Update(ctx, group); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			applogger.FromContext(ctx, s.logger).Error("update group failed", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}
	resp := toGroupResponse(group)
	return &resp, nil
}

func (s *groupService) SetMembers(ctx context.Context, caller Caller, id string, req *dto.SetMembersRequest) (*dto.GroupResponse, error) {
	if !caller.IsAdmin() {
		return nil, ErrNoPermission
	}

	group, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if req.Version != group.Version {
		return nil, pkgerrors.ErrOptimisticLock
	}

	// 1. every member must be a live user of the caller's organization
	members := make(model.StringArray, 0, len(req.MemberIDs))
	seen := make(map[string]bool, len(req.MemberIDs))
	for _, uid := range req.MemberIDs {
		if seen[uid] {
			continue
		}
		seen[uid] = true

		user, err := s.repo.User.GetByID(ctx, uid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUnknownMember
			}
			applogger.FromContext(ctx, s.logger).Error("query user failed", zap.String("user_id", uid), zap.Error(err))
			return nil, err
		}
		if user.OrganizationID != caller.OrganizationID {
			return nil, ErrUnknownMember
		}
		members = append(members, uid)
	}

	// 2. replace wholesale
	group.MemberIDs = members
	group.UpdatedBy = &caller.UserID
	if err := s.repo.Group.Update(ctx, group); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			applogger.FromContext(ctx, s.logger).Error("set group members failed", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}
	resp := toGroupResponse(group)
	return &resp, nil
}

func (s *groupService) Delete(ctx context.Context, caller Caller, id string) error {
	if !caller.IsAdmin() {
		return ErrNoPermission
	}
	if err := s.repo.Group.Delete(ctx, caller.OrganizationID, id, caller.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		applogger.FromContext(ctx, s.logger).Error("delete group failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *groupService) load(ctx context.Context, caller Caller, id string) (*model.Group, error) {
	group, err := s.repo.Group.GetByID(ctx, caller.OrganizationID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		applogger.FromContext(ctx, s.logger).Error("query group failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return group, nil
}

func toGroupResponse(g *model.Group) dto.GroupResponse {
	members := []string(g.MemberIDs)
	if members == nil {
		members = []string{}
	}
	return dto.GroupResponse{
		ID:          g.GroupID,
		Name:        g.Name,
		Description: g.Description,
		MemberIDs:   members,
		Version:     g.Version,
	}
}
