package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/cache"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/dto"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/model"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/repository"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/timetable"
	pkgerrors "github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/errors"
	applogger "github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/logger"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/metrics"
)

// ── timetable errors ──

var (
	ErrTimetableNotFound = errors.New("timetable not found")
	ErrInvalidSlot       = errors.New("invalid slot")
	ErrInvalidDay        = errors.New("invalid day of week")
	ErrUnknownGroup      = errors.New("assigned group does not exist")
	ErrInvalidCalendar   = errors.New("file is not a valid iCalendar feed")
)

// SlotError locates a rejected slot. It matches ErrInvalidSlot with errors.Is.
type SlotError struct {
	Index  int
	Field  string
	Reason string
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("slots[%d].%s: %s", e.Index, e.Field, e.Reason)
}

func (e *SlotError) Unwrap() error { return ErrInvalidSlot }

// TimetableService timetables and their slots
//
// Writes resolve display names from the lookup tables and store the slots in
// canonical order; reads resolve again so renamed subjects, labs, batches and
// faculty show their current names.
type TimetableService interface {
	List(ctx context.Context, caller Caller) ([]dto.TimetableSummary, error)
	Get(ctx context.Context, caller Caller, id string) (*dto.TimetableResponse, error)
	Create(ctx context.Context, caller Caller, req *dto.CreateTimetableRequest) (*dto.TimetableResponse, error)
	// Update replaces the timetable wholesale; req.Version must match.
	Update(ctx context.Context, caller Caller, id string, req *dto.UpdateTimetableRequest) (*dto.TimetableResponse, error)
	Delete(ctx context.Context, caller Caller, id string) error
	// Day returns the resolved slots of one weekday in canonical order.
	Day(ctx context.Context, caller Caller, id, day string) (*dto.DayScheduleResponse, error)
	// ImportICS merges the weekly events of an iCalendar feed into the
	// timetable's slots; version must match.
	ImportICS(ctx context.Context, caller Caller, id string, version int, r io.Reader) (*dto.TimetableResponse, error)
}

type timetableService struct {
	repo    *repository.Repository
	lookups *cache.LookupCache
	loc     *time.Location
	logger  *zap.Logger
}

// NewTimetableService creates a TimetableService; loc is the campus timezone
// used for calendar imports.
func NewTimetableService(repo *repository.Repository, lookups *cache.LookupCache, loc *time.Location, logger *zap.Logger) TimetableService {
	return &timetableService{repo: repo, lookups: lookups, loc: loc, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Reads
// ════════════════════════════════════════════════════════════

func (s *timetableService) List(ctx context.Context, caller Caller) ([]dto.TimetableSummary, error) {
	list, err := visibleTimetables(ctx, s.repo, caller)
	if err != nil {
		applogger.FromContext(ctx, s.logger).Error("list timetables failed", zap.Error(err))
		return nil, err
	}
	result := make([]dto.TimetableSummary, 0, len(list))
	for i := range list {
		tt := &list[i]
		result = append(result, dto.TimetableSummary{
			ID:             tt.TimetableID,
			Name:           tt.Name,
			Description:    tt.Description,
			AssignedGroups: groupsOf(tt),
			SlotCount:      len(tt.Slots),
			Version:        tt.Version,
			UpdatedAt:      formatTime(tt.UpdatedAt),
		})
	}
	return result, nil
}

func (s *timetableService) Get(ctx context.Context, caller Caller, id string) (*dto.TimetableResponse, error) {
	tt, err := s.loadVisible(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	lookups, err := s.lookups.Lookups(ctx, caller.OrganizationID)
	if err != nil {
		applogger.FromContext(ctx, s.logger).Error("load lookups failed", zap.Error(err))
		return nil, err
	}
	return toTimetableResponse(tt, timetable.ResolveAll(tt.Slots, lookups)), nil
}

func (s *timetableService) Day(ctx context.Context, caller Caller, id, day string) (*dto.DayScheduleResponse, error) {
	if !model.IsValidDay(day) {
		return nil, ErrInvalidDay
	}
	tt, err := s.loadVisible(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	lookups, err := s.lookups.Lookups(ctx, caller.OrganizationID)
	if err != nil {
		applogger.FromContext(ctx, s.logger).Error("load lookups failed", zap.Error(err))
		return nil, err
	}
	slots := timetable.ResolveAll(timetable.FilterDay(tt.Slots, day), lookups)
	return &dto.DayScheduleResponse{
		TimetableID: tt.TimetableID,
		Day:         day,
		Slots:       timetable.Canonicalize(slots),
	}, nil
}

// ════════════════════════════════════════════════════════════
// Writes
// ════════════════════════════════════════════════════════════

func (s *timetableService) Create(ctx context.Context, caller Caller, req *dto.CreateTimetableRequest) (*dto.TimetableResponse, error) {
	if !caller.IsAdmin() {
		return nil, ErrNoPermission
	}

	// 1. validate and build slots
	groups, slots, err := s.prepare(ctx, caller, req)
	if err != nil {
		return nil, err
	}

	// 2. persist
	tt := &model.Timetable{
		OrganizationID: caller.OrganizationID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		AssignedGroups: groups,
		Slots:          slots,
	}
	tt.CreatedBy = &caller.UserID
	tt.UpdatedBy = &caller.UserID
	tt.Version = 1

	if err := s.repo.Timetable.Create(ctx, tt); err != nil {
		applogger.FromContext(ctx, s.logger).Error("create timetable failed", zap.Error(err))
		return nil, err
	}
	metrics.IncTimetableWrite("create")

	applogger.FromContext(ctx, s.logger).Info("timetable created",
		zap.String("timetable_id", tt.TimetableID),
		zap.String("organization_id", caller.OrganizationID),
		zap.Int("slots", len(slots)),
	)
	return toTimetableResponse(tt, tt.Slots), nil
}

func (s *timetableService) Update(ctx context.Context, caller Caller, id string, req *dto.UpdateTimetableRequest) (*dto.TimetableResponse, error) {
	if !caller.IsAdmin() {
		return nil, ErrNoPermission
	}

	// 1. load and check the version the client edited
	tt, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if req.Version != tt.Version {
		return nil, pkgerrors.ErrOptimisticLock
	}

	// 2. validate and build slots
	groups, slots, err := s.prepare(ctx, caller, &req.CreateTimetableRequest)
	if err != nil {
		return nil, err
	}

	// 3. replace wholesale
	tt.Name = strings.TrimSpace(req.Name)
	tt.Description = req.Description
	tt.AssignedGroups = groups
	tt.Slots = slots
	tt.UpdatedBy = &caller.UserID

	if err := s.repo.Timetable.Update(ctx, tt); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			applogger.FromContext(ctx, s.logger).Error("update timetable failed", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}
	metrics.IncTimetableWrite("update")

	return toTimetableResponse(tt, tt.Slots), nil
}

func (s *timetableService) ImportICS(ctx context.Context, caller Caller, id string, version int, r io.Reader) (*dto.TimetableResponse, error) {
	if !caller.IsAdmin() {
		return nil, ErrNoPermission
	}

	tt, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if version != tt.Version {
		return nil, pkgerrors.ErrOptimisticLock
	}

	// 1. parse the feed
	imported, err := ParseSlotsICS(r, s.loc)
	if err != nil {
		return nil, ErrInvalidCalendar
	}

	// 2. append events not already present
	type key struct{ day, start, end, title, room string }
	existing := make(map[key]bool, len(tt.Slots))
	for _, sl := range tt.Slots {
		existing[key{sl.DayOfWeek, sl.StartTime, sl.EndTime, sl.Title, sl.Room}] = true
	}
	merged := append([]model.Slot{}, tt.Slots...)
	added := 0
	for _, sl := range imported {
		if existing[key{sl.DayOfWeek, sl.StartTime, sl.EndTime, sl.Title, sl.Room}] {
			continue
		}
		merged = append(merged, sl)
		added++
	}

	// 3. same checks as a regular write
	slots, err := s.buildSlots(ctx, caller, merged)
	if err != nil {
		return nil, err
	}
	tt.Slots = slots
	tt.UpdatedBy = &caller.UserID

	if err := s.repo.Timetable.Update(ctx, tt); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			applogger.FromContext(ctx, s.logger).Error("import timetable failed", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}
	metrics.IncTimetableWrite("import")

	applogger.FromContext(ctx, s.logger).Info("calendar imported",
		zap.String("timetable_id", id),
		zap.Int("events", len(imported)),
		zap.Int("added", added),
	)
	return toTimetableResponse(tt, tt.Slots), nil
}

func (s *timetableService) Delete(ctx context.Context, caller Caller, id string) error {
	if !caller.IsAdmin() {
		return ErrNoPermission
	}
	if err := s.repo.Timetable.Delete(ctx, caller.OrganizationID, id, caller.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTimetableNotFound
		}
		applogger.FromContext(ctx, s.logger).Error("delete timetable failed", zap.String("id", id), zap.Error(err))
		return err
	}
	metrics.IncTimetableWrite("delete")
	return nil
}

// prepare validates the request and returns the assigned groups and the
// resolved, canonically ordered slots.
func (s *timetableService) prepare(ctx context.Context, caller Caller, req *dto.CreateTimetableRequest) (model.StringArray, model.SlotList, error) {
	// 1. groups must belong to the organization
	groups := make(model.StringArray, 0, len(req.AssignedGroups))
	seen := make(map[string]bool, len(req.AssignedGroups))
	for _, gid := range req.AssignedGroups {
		if seen[gid] {
			continue
		}
		seen[gid] = true
		if _, err := s.repo.Group.GetByID(ctx, caller.OrganizationID, gid); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, ErrUnknownGroup
			}
			applogger.FromContext(ctx, s.logger).Error("query group failed", zap.String("id", gid), zap.Error(err))
			return nil, nil, err
		}
		groups = append(groups, gid)
	}

	// 2. slots
	slots := make([]model.Slot, 0, len(req.Slots))
	for i := range req.Slots {
		slots = append(slots, slotFromRequest(&req.Slots[i]))
	}
	list, err := s.buildSlots(ctx, caller, slots)
	if err != nil {
		return nil, nil, err
	}
	return groups, list, nil
}

// buildSlots checks what the binding tags cannot express, resolves display
// names and returns the slots in canonical order.
func (s *timetableService) buildSlots(ctx context.Context, caller Caller, slots []model.Slot) (model.SlotList, error) {
	for i, slot := range slots {
		if timetable.Minutes(slot.EndTime) <= timetable.Minutes(slot.StartTime) {
			return nil, &SlotError{Index: i, Field: "end_time", Reason: "must be after start_time"}
		}
	}

	lookups, err := s.lookups.Lookups(ctx, caller.OrganizationID)
	if err != nil {
		applogger.FromContext(ctx, s.logger).Error("load lookups failed", zap.Error(err))
		return nil, err
	}
	resolved := timetable.ResolveAll(slots, lookups)

	// teaching slots need a title, typed or resolved
	for i, slot := range resolved {
		if model.TitleRequired(slot.Type) && strings.TrimSpace(slot.Title) == "" {
			return nil, &SlotError{Index: i, Field: "title", Reason: "required for " + slot.Type + " slots"}
		}
	}

	return model.SlotList(timetable.Canonicalize(resolved)), nil
}

// ── lookups & visibility ──

func (s *timetableService) load(ctx context.Context, caller Caller, id string) (*model.Timetable, error) {
	tt, err := s.repo.Timetable.GetByID(ctx, caller.OrganizationID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimetableNotFound
		}
		applogger.FromContext(ctx, s.logger).Error("query timetable failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return tt, nil
}

// loadVisible hides timetables the caller is not assigned to behind
// ErrTimetableNotFound.
func (s *timetableService) loadVisible(ctx context.Context, caller Caller, id string) (*model.Timetable, error) {
	tt, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if caller.IsAdmin() {
		return tt, nil
	}

	groupIDs, err := s.repo.Group.IDsByMember(ctx, caller.OrganizationID, caller.UserID)
	if err != nil {
		applogger.FromContext(ctx, s.logger).Error("query caller groups failed", zap.Error(err))
		return nil, err
	}
	for _, gid := range groupIDs {
		if tt.AssignedGroups.Contains(gid) {
			return tt, nil
		}
	}
	return nil, ErrTimetableNotFound
}

// visibleTimetables returns every timetable of the caller's organization for
// admins, and the ones assigned to one of the caller's groups otherwise.
func visibleTimetables(ctx context.Context, repo *repository.Repository, caller Caller) ([]model.Timetable, error) {
	if caller.IsAdmin() {
		return repo.Timetable.List(ctx, caller.OrganizationID)
	}
	groupIDs, err := repo.Group.IDsByMember(ctx, caller.OrganizationID, caller.UserID)
	if err != nil {
		return nil, err
	}
	return repo.Timetable.ListByGroups(ctx, caller.OrganizationID, groupIDs)
}

// ── conversions ──

func slotFromRequest(r *dto.SlotRequest) model.Slot {
	return model.Slot{
		DayOfWeek:     r.DayOfWeek,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Type:          r.Type,
		Title:         strings.TrimSpace(r.Title),
		SubjectID:     model.NormalizeRef(r.SubjectID),
		LabID:         model.NormalizeRef(r.LabID),
		BatchID:       model.NormalizeRef(r.BatchID),
		FacultyUserID: model.NormalizeRef(r.FacultyUserID),
		Faculty:       strings.TrimSpace(r.Faculty),
		Room:          strings.TrimSpace(r.Room),
		BatchName:     strings.TrimSpace(r.BatchName),
	}
}

func groupsOf(tt *model.Timetable) []string {
	if tt.AssignedGroups == nil {
		return []string{}
	}
	return []string(tt.AssignedGroups)
}

func toTimetableResponse(tt *model.Timetable, slots []model.Slot) *dto.TimetableResponse {
	if slots == nil {
		slots = []model.Slot{}
	}
	return &dto.TimetableResponse{
		ID:             tt.TimetableID,
		Name:           tt.Name,
		Description:    tt.Description,
		AssignedGroups: groupsOf(tt),
		Slots:          slots,
		Version:        tt.Version,
		CreatedAt:      formatTime(tt.CreatedAt),
		UpdatedAt:      formatTime(tt.UpdatedAt),
	}
}
