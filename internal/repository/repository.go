package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every repository
type Repository struct {
	db *gorm.DB

	Organization OrganizationRepository
	User         UserRepository
	Group        GroupRepository
	Subject      SubjectRepository
	Lab          LabRepository
	Batch        BatchRepository
	Room         RoomRepository
	Timetable    TimetableRepository
}

// NewRepository builds the aggregate over db
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		Organization: NewOrganizationRepo(db),
		User:         NewUserRepo(db),
		Group:        NewGroupRepo(db),
		Subject:      NewSubjectRepo(db),
		Lab:          NewLabRepo(db),
		Batch:        NewBatchRepo(db),
		Room:         NewRoomRepo(db),
		Timetable:    NewTimetableRepo(db),
	}
}

// BeginTx starts a transaction; pair with WithTx.
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx returns an aggregate whose repositories all run inside tx
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction runs fn in a transaction, rolling back when it returns an error.
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// softDelete marks one org-scoped row deleted. Returns gorm.ErrRecordNotFound
// when nothing matched.
func softDelete(ctx context.Context, db *gorm.DB, m interface{}, idColumn, orgID, id, deletedBy string) error {
	result := db.WithContext(ctx).
		Model(m).
		Where(idColumn+" = ? AND organization_id = ?", id, orgID).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
