package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/dto"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/service"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/response"
)

// context keys set by middleware.JWTAuth
const (
	ctxUserID         = "user_id"
	ctxRole           = "role"
	ctxOrganizationID = "organization_id"
	ctxTokenJTI       = "token_jti"
	ctxTokenExp       = "token_exp"
)

// MustGetUserID extracts user_id from the gin context.
// On failure it writes a 401 and returns false; the caller should return.
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, ctxUserID)
}

// MustGetRole extracts role from the gin context.
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, ctxRole)
}

// MustGetOrganizationID extracts organization_id from the gin context.
func MustGetOrganizationID(c *gin.Context) (string, bool) {
	return mustGetString(c, ctxOrganizationID)
}

// MustGetCaller assembles the service caller from the token claims.
func MustGetCaller(c *gin.Context) (service.Caller, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return service.Caller{}, false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return service.Caller{}, false
	}
	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return service.Caller{}, false
	}
	return service.Caller{UserID: userID, Role: role, OrganizationID: orgID}, true
}

// tokenInfo returns the jti and expiry of the current access token.
func tokenInfo(c *gin.Context) (string, time.Time) {
	jti := c.GetString(ctxTokenJTI)
	exp, _ := c.Get(ctxTokenExp)
	t, _ := exp.(time.Time)
	return jti, t
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	return s, true
}

// bindError writes a 10001 response, with per-field messages when the
// failure came from the validator.
func bindError(c *gin.Context, err error) {
	if fields := dto.FieldErrors(err); len(fields) > 0 {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "invalid parameters", fields)
		return
	}
	response.BadRequest(c, 10001, "invalid parameters")
}

// handleCommonError maps errors shared by every module. It reports whether
// it wrote a response.
func handleCommonError(c *gin.Context, err error) bool {
	if errors.Is(err, service.ErrNoPermission) {
		response.Forbidden(c, 10003, "no permission")
		return true
	}
	return false
}
