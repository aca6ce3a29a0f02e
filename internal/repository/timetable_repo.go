package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/model"
	pkgerrors "github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/errors"
)

// TimetableRepository timetable data access
type TimetableRepository interface {
	Create(ctx context.Context, tt *model.Timetable) error
	GetByID(ctx context.Context, orgID, id string) (*model.Timetable, error)
	// List returns every timetable of the organization, newest first.
	List(ctx context.Context, orgID string) ([]model.Timetable, error)
	// ListByGroups returns timetables assigned to at least one of groupIDs.
	ListByGroups(ctx context.Context, orgID string, groupIDs []string) ([]model.Timetable, error)
	// Update replaces name, description, groups and slots wholesale with a version check.
	Update(ctx context.Context, tt *model.Timetable) error
	Delete(ctx context.Context, orgID, id, deletedBy string) error
}

type timetableRepo struct {
	db *gorm.DB
}

// NewTimetableRepo creates a TimetableRepository
func NewTimetableRepo(db *gorm.DB) TimetableRepository {
	return &timetableRepo{db: db}
}

func (r *timetableRepo) Create(ctx context.Context, tt *model.Timetable) error {
	return r.db.WithContext(ctx).Create(tt).Error
}

func (r *timetableRepo) GetByID(ctx context.Context, orgID, id string) (*model.Timetable, error) {
	var tt model.Timetable
	err := r.db.WithContext(ctx).
		Where("timetable_id = ? AND organization_id = ?", id, orgID).
		First(&tt).Error
	if err != nil {
		return nil, err
	}
	return &tt, nil
}

func (r *timetableRepo) List(ctx context.Context, orgID string) ([]model.Timetable, error) {
	var list []model.Timetable
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *timetableRepo) ListByGroups(ctx context.Context, orgID string, groupIDs []string) ([]model.Timetable, error) {
	if len(groupIDs) == 0 {
		return []model.Timetable{}, nil
	}
	var list []model.Timetable
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND assigned_groups && ?::uuid[]", orgID, model.StringArray(groupIDs)).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *timetableRepo) Update(ctx context.Context, tt *model.Timetable) error {
	oldVersion := tt.Version
	result := r.db.WithContext(ctx).
		Model(&model.Timetable{}).
		Where("timetable_id = ? AND organization_id = ? AND version = ?", tt.TimetableID, tt.OrganizationID, oldVersion).
		Updates(map[string]interface{}{
			"name":            tt.Name,
			"description":     tt.Description,
			"assigned_groups": tt.AssignedGroups,
			"slots":           tt.Slots,
			"updated_by":      tt.UpdatedBy,
			"updated_at":      gorm.Expr("NOW()"),
			"version":         oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	tt.Version = oldVersion + 1
	return nil
}

func (r *timetableRepo) Delete(ctx context.Context, orgID, id, deletedBy string) error {
	return softDelete(ctx, r.db, &model.Timetable{}, "timetable_id", orgID, id, deletedBy)
}
