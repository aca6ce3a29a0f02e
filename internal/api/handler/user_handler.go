package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/dto"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/service"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/response"
)

// UserHandler user management endpoints
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler creates a UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// ListUsers lists the organization's users
// GET /api/v1/users?role=
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	users, err := h.userSvc.List(c.Request.Context(), caller, &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, gin.H{"list": users})
}

// CreateUser creates an account in the caller's organization
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	user, err := h.userSvc.Create(c.Request.Context(), caller, &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.Created(c, user)
}

// ListFaculty returns the faculty roster
// GET /api/v1/users/faculty
func (h *UserHandler) ListFaculty(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	entries, err := h.userSvc.ListFaculty(c.Request.Context(), caller)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, gin.H{"list": entries})
}

// DeleteUser soft-deletes an account
// DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		response.Conflict(c, 12001, "email is already registered")
	case errors.Is(err, service.ErrCannotDeleteSelf):
		response.BadRequest(c, 12002, "cannot delete your own account")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12003, "user not found")
	default:
		response.InternalError(c)
	}
}
