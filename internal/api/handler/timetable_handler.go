package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/dto"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/service"
	pkgerrors "github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/errors"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/response"
)

// TimetableHandler timetable endpoints
type TimetableHandler struct {
	svc service.TimetableService
}

// NewTimetableHandler creates a TimetableHandler
func NewTimetableHandler(svc service.TimetableService) *TimetableHandler {
	return &TimetableHandler{svc: svc}
}

// ListTimetables lists the timetables visible to the caller
// GET /api/v1/timetables
func (h *TimetableHandler) ListTimetables(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	list, err := h.svc.List(c.Request.Context(), caller)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// GetTimetable returns a timetable with resolved slots
// GET /api/v1/timetables/:id
func (h *TimetableHandler) GetTimetable(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	tt, err := h.svc.Get(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, tt)
}

// GetDay returns one weekday of a timetable in canonical order
// GET /api/v1/timetables/:id/days/:day
func (h *TimetableHandler) GetDay(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	day, err := h.svc.Day(c.Request.Context(), caller, c.Param("id"), c.Param("day"))
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, day)
}

// CreateTimetable POST /api/v1/timetables
func (h *TimetableHandler) CreateTimetable(c *gin.Context) {
	var req dto.CreateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	tt, err := h.svc.Create(c.Request.Context(), caller, &req)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.Created(c, tt)
}

// UpdateTimetable replaces a timetable wholesale
// PUT /api/v1/timetables/:id
func (h *TimetableHandler) UpdateTimetable(c *gin.Context) {
	var req dto.UpdateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	tt, err := h.svc.Update(c.Request.Context(), caller, c.Param("id"), &req)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, tt)
}

// DeleteTimetable DELETE /api/v1/timetables/:id
func (h *TimetableHandler) DeleteTimetable(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, nil)
}

// ImportICS merges an uploaded iCalendar file into a timetable
// POST /api/v1/timetables/:id/import/ics
//
// multipart/form-data: file=<.ics>, version=<current version>
func (h *TimetableHandler) ImportICS(c *gin.Context) {
	version, err := strconv.Atoi(c.PostForm("version"))
	if err != nil || version < 1 {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "invalid parameters",
			map[string]string{"version": "version is required"})
		return
	}
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "invalid parameters",
			map[string]string{"file": "file is required"})
		return
	}
	defer file.Close()

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	tt, err := h.svc.ImportICS(c.Request.Context(), caller, c.Param("id"), version, file)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, tt)
}

// handleTimetableError maps timetable errors; export and availability reuse it.
func handleTimetableError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	var slotErr *service.SlotError
	switch {
	case errors.As(err, &slotErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, 15002, "invalid slot",
			map[string]string{"slots[" + strconv.Itoa(slotErr.Index) + "]." + slotErr.Field: slotErr.Reason})
	case errors.Is(err, service.ErrTimetableNotFound):
		response.NotFound(c, 15001, "timetable not found")
	case errors.Is(err, service.ErrInvalidDay):
		response.BadRequest(c, 15003, err.Error())
	case errors.Is(err, service.ErrUnknownGroup):
		response.BadRequest(c, 15004, err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 15005, "timetable was modified by someone else, reload and retry")
	case errors.Is(err, service.ErrInvalidCalendar):
		response.BadRequest(c, 15006, err.Error())
	default:
		response.InternalError(c)
	}
}
