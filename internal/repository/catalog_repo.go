package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/model"
)

// CatalogRepository data access shared by the organization-scoped lookup
// tables (subjects, labs, batches, rooms).
type CatalogRepository[T any] interface {
	Create(ctx context.Context, item *T) error
	GetByID(ctx context.Context, orgID, id string) (*T, error)
	// List returns every live row of the organization ordered by name.
	List(ctx context.Context, orgID string) ([]T, error)
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, orgID, id, deletedBy string) error
}

type (
	// SubjectRepository subject data access
	SubjectRepository = CatalogRepository[model.Subject]
	// LabRepository lab data access
	LabRepository = CatalogRepository[model.Lab]
	// BatchRepository batch data access
	BatchRepository = CatalogRepository[model.Batch]
	// RoomRepository room data access
	RoomRepository = CatalogRepository[model.Room]
)

// catalogRepo GORM implementation; idColumn is the table's primary key column
type catalogRepo[T any] struct {
	db       *gorm.DB
	idColumn string
}

// NewSubjectRepo creates a SubjectRepository
func NewSubjectRepo(db *gorm.DB) SubjectRepository {
	return &catalogRepo[model.Subject]{db: db, idColumn: "subject_id"}
}

// NewLabRepo creates a LabRepository
func NewLabRepo(db *gorm.DB) LabRepository {
	return &catalogRepo[model.Lab]{db: db, idColumn: "lab_id"}
}

// NewBatchRepo creates a BatchRepository
func NewBatchRepo(db *gorm.DB) BatchRepository {
	return &catalogRepo[model.Batch]{db: db, idColumn: "batch_id"}
}

// NewRoomRepo creates a RoomRepository
func NewRoomRepo(db *gorm.DB) RoomRepository {
	return &catalogRepo[model.Room]{db: db, idColumn: "room_id"}
}

func (r *catalogRepo[T]) Create(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *catalogRepo[T]) GetByID(ctx context.Context, orgID, id string) (*T, error) {
	var item T
	err := r.db.WithContext(ctx).
		Where(r.idColumn+" = ? AND organization_id = ?", id, orgID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *catalogRepo[T]) List(ctx context.Context, orgID string) ([]T, error) {
	var items []T
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("name ASC").
		Find(&items).Error
	return items, err
}

func (r *catalogRepo[T]) Update(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *catalogRepo[T]) Delete(ctx context.Context, orgID, id, deletedBy string) error {
	var zero T
	return softDelete(ctx, r.db, &zero, r.idColumn, orgID, id, deletedBy)
}
