package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/dto"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/service"
	pkgerrors "github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/errors"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/response"
)

// GroupHandler user group endpoints
type GroupHandler struct {
	groupSvc service.GroupService
}

// NewGroupHandler creates a GroupHandler
func NewGroupHandler(groupSvc service.GroupService) *GroupHandler {
	return &GroupHandler{groupSvc: groupSvc}
}

// ListGroups GET /api/v1/groups
func (h *GroupHandler) ListGroups(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	groups, err := h.groupSvc.List(c.Request.Context(), caller)
	if err != nil {
		h.handleGroupError(c, err)
		return
	}
	response.OK(c, gin.H{"list": groups})
}

// GetGroup GET /api/v1/groups/:id
func (h *GroupHandler) GetGroup(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	group, err := h.groupSvc.GetByID(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		h.handleGroupError(c, err)
		return
	}
	response.OK(c, group)
}

// CreateGroup POST /api/v1/groups
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req dto.GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	group, err := h.groupSvc.Create(c.Request.Context(), caller, &req)
	if err != nil {
		h.handleGroupError(c, err)
		return
	}
	response.Created(c, group)
}

// UpdateGroup PUT /api/v1/groups/:id
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	var req dto.GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	group, err := h.groupSvc.Update(c.Request.Context(), caller, c.Param("id"), &req)
	if err != nil {
		h.handleGroupError(c, err)
		return
	}
	response.OK(c, group)
}

// SetMembers PUT /api/v1/groups/:id/members
func (h *GroupHandler) SetMembers(c *gin.Context) {
	var req dto.SetMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	group, err := h.groupSvc.SetMembers(c.Request.Context(), caller, c.Param("id"), &req)
	if err != nil {
		h.handleGroupError(c, err)
		return
	}
	response.OK(c, group)
}

// DeleteGroup DELETE /api/v1/groups/:id
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	if err := h.groupSvc.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		h.handleGroupError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *GroupHandler) handleGroupError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrGroupNotFound):
		response.NotFound(c, 14001, "group not found")
	case errors.Is(err, service.ErrUnknownMember):
		response.BadRequest(c, 14002, err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 14003, "group was modified by someone else, reload and retry")
	default:
		response.InternalError(c)
	}
}
