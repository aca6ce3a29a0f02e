package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/service"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/response"
)

// CatalogHandler CRUD endpoints for one lookup collection (subjects, labs,
// batches or rooms). Req is the collection's request DTO.
type CatalogHandler[Req any] struct {
	svc          service.CatalogService[Req]
	notFound     error
	notFoundCode int
}

// NewCatalogHandler creates a CatalogHandler; notFound is the service's
// not-found sentinel and notFoundCode its business code.
func NewCatalogHandler[Req any](svc service.CatalogService[Req], notFound error, notFoundCode int) *CatalogHandler[Req] {
	return &CatalogHandler[Req]{svc: svc, notFound: notFound, notFoundCode: notFoundCode}
}

// List GET /api/v1/<collection>
func (h *CatalogHandler[Req]) List(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	items, err := h.svc.List(c.Request.Context(), caller)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": items})
}

// Get GET /api/v1/<collection>/:id
func (h *CatalogHandler[Req]) Get(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	item, err := h.svc.GetByID(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, item)
}

// Create POST /api/v1/<collection>
func (h *CatalogHandler[Req]) Create(c *gin.Context) {
	var req Req
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	item, err := h.svc.Create(c.Request.Context(), caller, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, item)
}

// Update PUT /api/v1/<collection>/:id
func (h *CatalogHandler[Req]) Update(c *gin.Context) {
	var req Req
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	item, err := h.svc.Update(c.Request.Context(), caller, c.Param("id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, item)
}

// Delete DELETE /api/v1/<collection>/:id
func (h *CatalogHandler[Req]) Delete(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *CatalogHandler[Req]) handleError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	if errors.Is(err, h.notFound) {
		response.NotFound(c, h.notFoundCode, err.Error())
		return
	}
	response.InternalError(c)
}
