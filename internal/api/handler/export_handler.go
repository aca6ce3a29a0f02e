package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/service"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar; charset=utf-8"
)

// ExportHandler file download endpoints
type ExportHandler struct {
	exportSvc service.ExportService
	now       func() time.Time
}

// NewExportHandler creates an ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, now: time.Now}
}

// ExportExcel downloads a timetable as .xlsx
// GET /api/v1/timetables/:id/export/xlsx
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	buf, filename, err := h.exportSvc.ExportTimetableExcel(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	sendFile(c, buf, filename, xlsxContentType)
}

// ExportICS downloads a timetable as an iCalendar feed
// GET /api/v1/timetables/:id/export/ics
func (h *ExportHandler) ExportICS(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	buf, filename, err := h.exportSvc.ExportTimetableICS(c.Request.Context(), caller, c.Param("id"), h.now())
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	sendFile(c, buf, filename, icsContentType)
}

func sendFile(c *gin.Context, buf *bytes.Buffer, filename, contentType string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoSlots):
		response.BadRequest(c, 16101, "timetable has no slots to export")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		handleTimetableError(c, err)
	}
}
