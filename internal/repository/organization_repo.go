package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/model"
)

// OrganizationRepository organization data access
type OrganizationRepository interface {
	Create(ctx context.Context, org *model.Organization) error
	GetByID(ctx context.Context, id string) (*model.Organization, error)
	GetByName(ctx context.Context, name string) (*model.Organization, error)
}

type organizationRepo struct {
	db *gorm.DB
}

// NewOrganizationRepo creates an OrganizationRepository
func NewOrganizationRepo(db *gorm.DB) OrganizationRepository {
	return &organizationRepo{db: db}
}

func (r *organizationRepo) Create(ctx context.Context, org *model.Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}

func (r *organizationRepo) GetByID(ctx context.Context, id string) (*model.Organization, error) {
	var org model.Organization
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", id).
		First(&org).Error
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepo) GetByName(ctx context.Context, name string) (*model.Organization, error) {
	var org model.Organization
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&org).Error
	if err != nil {
		return nil, err
	}
	return &org, nil
}
