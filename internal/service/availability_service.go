package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/cache"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/dto"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/model"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/repository"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/timetable"
	applogger "github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/logger"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/metrics"
)

// ErrInvalidWindow the window parameter is not "HH:MM-HH:MM"
var ErrInvalidWindow = errors.New("window must be HH:MM-HH:MM")

// AvailabilityService free faculty and free rooms across every timetable the
// caller can see.
//
// The faculty pool is the set of faculty teaching at least once that day;
// the room pool is every configured room of the organization.
type AvailabilityService interface {
	FreeByWindow(ctx context.Context, caller Caller, kind timetable.Kind, q *dto.AvailabilityQuery) (*dto.WindowAvailabilityResponse, error)
	FreeByResource(ctx context.Context, caller Caller, kind timetable.Kind, q *dto.ResourceAvailabilityQuery) (*dto.ResourceAvailabilityResponse, error)
}

type availabilityService struct {
	repo    *repository.Repository
	lookups *cache.LookupCache
	logger  *zap.Logger
}

// NewAvailabilityService creates an AvailabilityService
func NewAvailabilityService(repo *repository.Repository, lookups *cache.LookupCache, logger *zap.Logger) AvailabilityService {
	return &availabilityService{repo: repo, lookups: lookups, logger: logger}
}

func (s *availabilityService) FreeByWindow(ctx context.Context, caller Caller, kind timetable.Kind, q *dto.AvailabilityQuery) (*dto.WindowAvailabilityResponse, error) {
	if !model.IsValidDay(q.Day) {
		return nil, ErrInvalidDay
	}

	slots, pool, err := s.daySlotsAndPool(ctx, caller, kind, q.Day)
	if err != nil {
		return nil, err
	}
	metrics.IncAvailabilityQuery(kind.String(), "window")

	return &dto.WindowAvailabilityResponse{
		Day:     q.Day,
		Windows: timetable.FreeByWindow(kind, slots, pool, q.Search),
	}, nil
}

func (s *availabilityService) FreeByResource(ctx context.Context, caller Caller, kind timetable.Kind, q *dto.ResourceAvailabilityQuery) (*dto.ResourceAvailabilityResponse, error) {
	if !model.IsValidDay(q.Day) {
		return nil, ErrInvalidDay
	}

	var selected *timetable.Window
	if q.Window != "" {
		w, ok := timetable.ParseWindow(q.Window)
		if !ok {
			return nil, ErrInvalidWindow
		}
		selected = &w
	}

	slots, pool, err := s.daySlotsAndPool(ctx, caller, kind, q.Day)
	if err != nil {
		return nil, err
	}
	metrics.IncAvailabilityQuery(kind.String(), "resource")

	return &dto.ResourceAvailabilityResponse{
		Day:       q.Day,
		Window:    selected,
		Resources: timetable.FreeByResource(kind, pool, slots, selected, q.Search),
	}, nil
}

// daySlotsAndPool flattens the resolved slots of day across the visible
// timetables and builds the pool for kind.
func (s *availabilityService) daySlotsAndPool(ctx context.Context, caller Caller, kind timetable.Kind, day string) ([]model.Slot, []timetable.Resource, error) {
	// 1. visible timetables
	list, err := visibleTimetables(ctx, s.repo, caller)
	if err != nil {
		applogger.FromContext(ctx, s.logger).Error("list visible timetables failed", zap.Error(err))
		return nil, nil, err
	}

	// 2. resolve the day's slots
	lookups, err := s.lookups.Lookups(ctx, caller.OrganizationID)
	if err != nil {
		applogger.FromContext(ctx, s.logger).Error("load lookups failed", zap.Error(err))
		return nil, nil, err
	}
	var daySlots []model.Slot
	for i := range list {
		daySlots = append(daySlots, timetable.FilterDay(list[i].Slots, day)...)
	}
	slots := timetable.ResolveAll(daySlots, lookups)

	// 3. pool
	if kind == timetable.KindFaculty {
		return slots, timetable.FacultyPool(slots), nil
	}
	names, err := s.lookups.RoomNames(ctx, caller.OrganizationID)
	if err != nil {
		applogger.FromContext(ctx, s.logger).Error("load rooms failed", zap.Error(err))
		return nil, nil, err
	}
	return slots, timetable.RoomPool(names), nil
}
