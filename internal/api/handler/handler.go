package handler

import (
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/dto"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/service"
)

// Handler aggregates every HTTP handler
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Group        *GroupHandler
	Subject      *CatalogHandler[dto.SubjectRequest]
	Lab          *CatalogHandler[dto.LabRequest]
	Batch        *CatalogHandler[dto.BatchRequest]
	Room         *CatalogHandler[dto.RoomRequest]
	Timetable    *TimetableHandler
	Availability *AvailabilityHandler
	Export       *ExportHandler
	Health       *HealthHandler
}

// NewHandler builds the aggregate.
func NewHandler(svc *service.Service, health *HealthHandler) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User),
		Group:        NewGroupHandler(svc.Group),
		Subject:      NewCatalogHandler(svc.Subject, service.ErrSubjectNotFound, 13001),
		Lab:          NewCatalogHandler(svc.Lab, service.ErrLabNotFound, 13002),
		Batch:        NewCatalogHandler(svc.Batch, service.ErrBatchNotFound, 13003),
		Room:         NewCatalogHandler(svc.Room, service.ErrRoomNotFound, 13004),
		Timetable:    NewTimetableHandler(svc.Timetable),
		Availability: NewAvailabilityHandler(svc.Availability),
		Export:       NewExportHandler(svc.Export),
		Health:       health,
	}
}
