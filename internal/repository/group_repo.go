package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/model"
	pkgerrors "github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/errors"
)

// GroupRepository user group data access
type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	GetByID(ctx context.Context, orgID, id string) (*model.Group, error)
	List(ctx context.Context, orgID string) ([]model.Group, error)
	// Update writes name, description and members with a version check.
	Update(ctx context.Context, group *model.Group) error
	Delete(ctx context.Context, orgID, id, deletedBy string) error
	// IDsByMember returns the ids of the groups userID belongs to.
	IDsByMember(ctx context.Context, orgID, userID string) ([]string, error)
}

type groupRepo struct {
	db *gorm.DB
}

// NewGroupRepo creates a GroupRepository
func NewGroupRepo(db *gorm.DB) GroupRepository {
	return &groupRepo{db: db}
}

func (r *groupRepo) Create(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *groupRepo) GetByID(ctx context.Context, orgID, id string) (*model.Group, error) {
	var group model.Group
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND organization_id = ?", id, orgID).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepo) List(ctx context.Context, orgID string) ([]model.Group, error) {
	var groups []model.Group
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("name ASC").
		Find(&groups).Error
	return groups, err
}

func (r *groupRepo) Update(ctx context.Context, group *model.Group) error {
	oldVersion := group.Version
	result := r.db.WithContext(ctx).
		Model(&model.Group{}).
		Where("group_id = ? AND organization_id = ? AND version = ?", group.GroupID, group.OrganizationID, oldVersion).
		Updates(map[string]interface{}{
			"name":        group.Name,
			"description": group.Description,
			"member_ids":  group.MemberIDs,
			"updated_by":  group.UpdatedBy,
			"updated_at":  gorm.Expr("NOW()"),
			"version":     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	group.Version = oldVersion + 1
	return nil
}

func (r *groupRepo) Delete(ctx context.Context, orgID, id, deletedBy string) error {
	return softDelete(ctx, r.db, &model.Group{}, "group_id", orgID, id, deletedBy)
}

func (r *groupRepo) IDsByMember(ctx context.Context, orgID, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Group{}).
		Where("organization_id = ? AND ?::uuid = ANY(member_ids)", orgID, userID).
		Pluck("group_id", &ids).Error
	return ids, err
}
