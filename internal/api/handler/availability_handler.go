package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/dto"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/service"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/timetable"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/response"
)

// AvailabilityHandler free faculty / free room endpoints
type AvailabilityHandler struct {
	svc service.AvailabilityService
}

// NewAvailabilityHandler creates an AvailabilityHandler
func NewAvailabilityHandler(svc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc}
}

// FreeFaculty GET /api/v1/availability/faculty?day=&search=
func (h *AvailabilityHandler) FreeFaculty(c *gin.Context) {
	h.byWindow(c, timetable.KindFaculty)
}

// FreeRooms GET /api/v1/availability/rooms?day=&search=
func (h *AvailabilityHandler) FreeRooms(c *gin.Context) {
	h.byWindow(c, timetable.KindRoom)
}

// FacultyByResource GET /api/v1/availability/faculty/by-resource?day=&window=&search=
func (h *AvailabilityHandler) FacultyByResource(c *gin.Context) {
	h.byResource(c, timetable.KindFaculty)
}

// RoomsByResource GET /api/v1/availability/rooms/by-resource?day=&window=&search=
func (h *AvailabilityHandler) RoomsByResource(c *gin.Context) {
	h.byResource(c, timetable.KindRoom)
}

func (h *AvailabilityHandler) byWindow(c *gin.Context, kind timetable.Kind) {
	var q dto.AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	resp, err := h.svc.FreeByWindow(c.Request.Context(), caller, kind, &q)
	if err != nil {
		handleAvailabilityError(c, err)
		return
	}
	response.OK(c, resp)
}

func (h *AvailabilityHandler) byResource(c *gin.Context, kind timetable.Kind) {
	var q dto.ResourceAvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	resp, err := h.svc.FreeByResource(c.Request.Context(), caller, kind, &q)
	if err != nil {
		handleAvailabilityError(c, err)
		return
	}
	response.OK(c, resp)
}

func handleAvailabilityError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInvalidWindow) {
		response.BadRequest(c, 17001, err.Error())
		return
	}
	handleTimetableError(c, err)
}
