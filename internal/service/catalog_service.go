package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/cache"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/dto"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/model"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/repository"
	applogger "github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/logger"
)

var (
	ErrSubjectNotFound = errors.New("subject not found")
	ErrLabNotFound     = errors.New("lab not found")
	ErrBatchNotFound   = errors.New("batch not found")
	ErrRoomNotFound    = errors.New("room not found")
)

// CatalogService CRUD over one lookup collection. Every successful write
// drops the collection from the lookup cache.
type CatalogService[Req any] interface {
	Create(ctx context.Context, caller Caller, req *Req) (*dto.CatalogResponse, error)
	GetByID(ctx context.Context, caller Caller, id string) (*dto.CatalogResponse, error)
	List(ctx context.Context, caller Caller) ([]dto.CatalogResponse, error)
	Update(ctx context.Context, caller Caller, id string, req *Req) (*dto.CatalogResponse, error)
	Delete(ctx context.Context, caller Caller, id string) error
}

type (
	SubjectService = CatalogService[dto.SubjectRequest]
	LabService     = CatalogService[dto.LabRequest]
	BatchService   = CatalogService[dto.BatchRequest]
	RoomService    = CatalogService[dto.RoomRequest]
)

// catalogService is parameterized by the row type and its request DTO.
// apply copies the request onto a row (new or loaded) and stamps the caller.
type catalogService[T any, Req any] struct {
	repo       repository.CatalogRepository[T]
	lookups    *cache.LookupCache
	collection cache.Collection
	notFound   error
	newRow     func(orgID string) *T
	apply      func(row *T, req *Req, callerID string)
	toResponse func(row *T) dto.CatalogResponse
	logger     *zap.Logger
}

// NewSubjectService creates a SubjectService
func NewSubjectService(repo *repository.Repository, lookups *cache.LookupCache, logger *zap.Logger) SubjectService {
	return &catalogService[model.Subject, dto.SubjectRequest]{
		repo:       repo.Subject,
		lookups:    lookups,
		collection: cache.Subjects,
		notFound:   ErrSubjectNotFound,
		newRow:     func(orgID string) *model.Subject { return &model.Subject{OrganizationID: orgID} },
		apply: func(row *model.Subject, req *dto.SubjectRequest, callerID string) {
			row.Name = strings.TrimSpace(req.Name)
			row.Abbreviation = strings.TrimSpace(req.Abbreviation)
			row.Code = strings.TrimSpace(req.Code)
			stamp(&row.BaseModel, callerID)
		},
		toResponse: func(row *model.Subject) dto.CatalogResponse {
			return dto.CatalogResponse{
				ID: row.SubjectID, Name: row.Name, Abbreviation: row.Abbreviation, Code: row.Code,
				CreatedAt: formatTime(row.CreatedAt), UpdatedAt: formatTime(row.UpdatedAt),
			}
		},
		logger: logger,
	}
}

// NewLabService creates a LabService
func NewLabService(repo *repository.Repository, lookups *cache.LookupCache, logger *zap.Logger) LabService {
	return &catalogService[model.Lab, dto.LabRequest]{
		repo:       repo.Lab,
		lookups:    lookups,
		collection: cache.Labs,
		notFound:   ErrLabNotFound,
		newRow:     func(orgID string) *model.Lab { return &model.Lab{OrganizationID: orgID} },
		apply: func(row *model.Lab, req *dto.LabRequest, callerID string) {
			row.Name = strings.TrimSpace(req.Name)
			row.Abbreviation = strings.TrimSpace(req.Abbreviation)
			stamp(&row.BaseModel, callerID)
		},
		toResponse: func(row *model.Lab) dto.CatalogResponse {
			return dto.CatalogResponse{
				ID: row.LabID, Name: row.Name, Abbreviation: row.Abbreviation,
				CreatedAt: formatTime(row.CreatedAt), UpdatedAt: formatTime(row.UpdatedAt),
			}
		},
		logger: logger,
	}
}

// NewBatchService creates a BatchService
func NewBatchService(repo *repository.Repository, lookups *cache.LookupCache, logger *zap.Logger) BatchService {
	return &catalogService[model.Batch, dto.BatchRequest]{
		repo:       repo.Batch,
		lookups:    lookups,
		collection: cache.Batches,
		notFound:   ErrBatchNotFound,
		newRow:     func(orgID string) *model.Batch { return &model.Batch{OrganizationID: orgID} },
		apply: func(row *model.Batch, req *dto.BatchRequest, callerID string) {
			row.Name = strings.TrimSpace(req.Name)
			stamp(&row.BaseModel, callerID)
		},
		toResponse: func(row *model.Batch) dto.CatalogResponse {
			return dto.CatalogResponse{
				ID: row.BatchID, Name: row.Name,
				CreatedAt: formatTime(row.CreatedAt), UpdatedAt: formatTime(row.UpdatedAt),
			}
		},
		logger: logger,
	}
}

// NewRoomService creates a RoomService
func NewRoomService(repo *repository.Repository, lookups *cache.LookupCache, logger *zap.Logger) RoomService {
	return &catalogService[model.Room, dto.RoomRequest]{
		repo:       repo.Room,
		lookups:    lookups,
		collection: cache.Rooms,
		notFound:   ErrRoomNotFound,
		newRow:     func(orgID string) *model.Room { return &model.Room{OrganizationID: orgID} },
		apply: func(row *model.Room, req *dto.RoomRequest, callerID string) {
			row.Name = strings.TrimSpace(req.Name)
			row.Building = strings.TrimSpace(req.Building)
			row.Capacity = req.Capacity
			stamp(&row.BaseModel, callerID)
		},
		toResponse: func(row *model.Room) dto.CatalogResponse {
			return dto.CatalogResponse{
				ID: row.RoomID, Name: row.Name, Building: row.Building, Capacity: row.Capacity,
				CreatedAt: formatTime(row.CreatedAt), UpdatedAt: formatTime(row.UpdatedAt),
			}
		},
		logger: logger,
	}
}

// stamp sets the audit user; CreatedBy only on first write.
func stamp(b *model.BaseModel, callerID string) {
	if b.CreatedBy == nil {
		b.CreatedBy = &callerID
	}
	b.UpdatedBy = &callerID
}

// ────────────────────── Create ──────────────────────

func (s *catalogService[T, Req]) Create(ctx context.Context, caller Caller, req *Req) (*dto.CatalogResponse, error) {
	if !caller.IsAdmin() {
		return nil, ErrNoPermission
	}

	row := s.newRow(caller.OrganizationID)
	s.apply(row, req, caller.UserID)

	if err := s.repo.Create(ctx, row); err != nil {
		applogger.FromContext(ctx, s.logger).Error("create failed", zap.String("collection", string(s.collection)), zap.Error(err))
		return nil, err
	}
	s.lookups.Invalidate(ctx, caller.OrganizationID, s.collection)

	resp := s.toResponse(row)
	return &resp, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *catalogService[T, Req]) GetByID(ctx context.Context, caller Caller, id string) (*dto.CatalogResponse, error) {
	row, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(row)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *catalogService[T, Req]) List(ctx context.Context, caller Caller) ([]dto.CatalogResponse, error) {
	rows, err := s.repo.List(ctx, caller.OrganizationID)
	if err != nil {
		applogger.FromContext(ctx, s.logger).Error("list failed", zap.String("collection", string(s.collection)), zap.Error(err))
		return nil, err
	}
	result := make([]dto.CatalogResponse, 0, len(rows))
	for i := range rows {
		result = append(result, s.toResponse(&rows[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *catalogService[T, Req]) Update(ctx context.Context, caller Caller, id string, req *Req) (*dto.CatalogResponse, error) {
	if !caller.IsAdmin() {
		return nil, ErrNoPermission
	}

	row, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	s.apply(row, req, caller.UserID)

	if err := s.repo.Update(ctx, row); err != nil {
		applogger.FromContext(ctx, s.logger).Error("update failed", zap.String("collection", string(s.collection)), zap.String("id", id), zap.Error(err))
		return nil, err
	}
	s.lookups.Invalidate(ctx, caller.OrganizationID, s.collection)

	resp := s.toResponse(row)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *catalogService[T, Req]) Delete(ctx context.Context, caller Caller, id string) error {
	if !caller.IsAdmin() {
		return ErrNoPermission
	}

	if err := s.repo.Delete(ctx, caller.OrganizationID, id, caller.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.notFound
		}
		applogger.FromContext(ctx, s.logger).Error("delete failed", zap.String("collection", string(s.collection)), zap.String("id", id), zap.Error(err))
		return err
	}
	s.lookups.Invalidate(ctx, caller.OrganizationID, s.collection)
	return nil
}

func (s *catalogService[T, Req]) load(ctx context.Context, caller Caller, id string) (*T, error) {
	row, err := s.repo.GetByID(ctx, caller.OrganizationID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.notFound
		}
		applogger.FromContext(ctx, s.logger).Error("query failed", zap.String("collection", string(s.collection)), zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return row, nil
}
