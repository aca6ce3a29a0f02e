package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/config"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/cache"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/model"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/repository"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/jwt"
)

// ErrNoPermission the caller's role does not allow the operation
var ErrNoPermission = errors.New("no permission for this operation")

// Caller identity of the authenticated user, taken from the access token
type Caller struct {
	UserID         string
	Role           string
	OrganizationID string
}

// IsAdmin reports whether the caller administers its organization.
func (c Caller) IsAdmin() bool { return c.Role == model.RoleAdmin }

// TokenBlacklist revokes access tokens; *redis.Client implements it.
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// Service aggregates every service
type Service struct {
	Auth         AuthService
	User         UserService
	Group        GroupService
	Subject      SubjectService
	Lab          LabService
	Batch        BatchService
	Room         RoomService
	Timetable    TimetableService
	Availability AvailabilityService
	Export       ExportService
}

// NewService builds the aggregate. blacklist may be nil when Redis is not configured.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	lookups *cache.LookupCache,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) *Service {
	loc := campusLocation(cfg.Database.Timezone, logger)
	timetables := NewTimetableService(repo, lookups, loc, logger)
	return &Service{
		Auth:         NewAuthService(repo, jwtMgr, blacklist, logger),
		User:         NewUserService(repo, lookups, logger),
		Group:        NewGroupService(repo, logger),
		Subject:      NewSubjectService(repo, lookups, logger),
		Lab:          NewLabService(repo, lookups, logger),
		Batch:        NewBatchService(repo, lookups, logger),
		Room:         NewRoomService(repo, lookups, logger),
		Timetable:    timetables,
		Availability: NewAvailabilityService(repo, lookups, logger),
		Export:       NewExportService(timetables, loc, logger),
	}
}

func campusLocation(name string, logger *zap.Logger) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Warn("unknown timezone, falling back to UTC", zap.String("timezone", name), zap.Error(err))
		return time.UTC
	}
	return loc
}

// ── helpers ──

const timeLayout = "2006-01-02T15:04:05Z07:00"

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}
