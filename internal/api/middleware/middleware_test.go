package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/config"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/jwt"
	applogger "github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubChecker struct {
	revoked bool
	err     error
}

func (s *stubChecker) IsBlacklisted(context.Context, string) (bool, error) {
	return s.revoked, s.err
}

type stubRate struct {
	allowed bool
	err     error
	calls   int
}

func (s *stubRate) CheckRateLimit(context.Context, string, int, time.Duration) (bool, error) {
	s.calls++
	return s.allowed, s.err
}

func newJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{JWTSecret: "test-secret-at-least-16", AccessTokenTTL: 15 * time.Minute})
}

func authRouter(mgr *jwt.Manager, checker TokenChecker, roles ...string) *gin.Engine {
	r := gin.New()
	chain := []gin.HandlerFunc{JWTAuth(mgr, checker, zap.NewNop())}
	if len(roles) > 0 {
		chain = append(chain, RoleAuth(roles...))
	}
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":         c.GetString("user_id"),
			"organization_id": c.GetString("organization_id"),
			"has_jti":         c.GetString("token_jti") != "",
		})
	})
	r.GET("/private", chain...)
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	mgr := newJWT()
	token, err := mgr.GenerateAccessToken("u-1", "faculty", "org-1")
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		w := get(authRouter(mgr, nil), "Bearer "+token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":"u-1"`)
		assert.Contains(t, w.Body.String(), `"organization_id":"org-1"`)
		assert.Contains(t, w.Body.String(), `"has_jti":true`)
	})

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(authRouter(mgr, nil), "").Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(authRouter(mgr, nil), "Token "+token).Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(authRouter(mgr, nil), "Bearer abc.def.ghi").Code)
	})

	t.Run("revoked", func(t *testing.T) {
		w := get(authRouter(mgr, &stubChecker{revoked: true}), "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "revoked")
	})

	t.Run("blacklist down lets the request through", func(t *testing.T) {
		w := get(authRouter(mgr, &stubChecker{err: errors.New("connection refused")}), "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRoleAuth(t *testing.T) {
	mgr := newJWT()
	faculty, _ := mgr.GenerateAccessToken("u-1", "faculty", "org-1")
	admin, _ := mgr.GenerateAccessToken("u-2", "admin", "org-1")

	r := authRouter(mgr, nil, "admin")
	assert.Equal(t, http.StatusForbidden, get(r, "Bearer "+faculty).Code)
	assert.Equal(t, http.StatusOK, get(r, "Bearer "+admin).Code)
}

func rateRouter(checker RateChecker, limit int) *gin.Engine {
	r := gin.New()
	r.POST("/login", RateLimit(checker, limit, time.Minute, zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func post(r *gin.Engine) int {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	return w.Code
}

func TestRateLimit_Local(t *testing.T) {
	r := rateRouter(nil, 3)
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, post(r), "request %d", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, post(r))
}

func TestRateLimit_Shared(t *testing.T) {
	checker := &stubRate{allowed: false}
	assert.Equal(t, http.StatusTooManyRequests, post(rateRouter(checker, 3)))
	assert.Equal(t, 1, checker.calls)
}

func TestRateLimit_SharedFailureFallsBack(t *testing.T) {
	checker := &stubRate{err: errors.New("redis down")}
	r := rateRouter(checker, 1)
	assert.Equal(t, http.StatusNoContent, post(r))
	assert.Equal(t, http.StatusTooManyRequests, post(r))
	assert.Equal(t, 2, checker.calls)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.GET("/", RequestID(), func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "abc-123", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 100))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc def\tinjected")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotContains(t, w.Header().Get("X-Request-ID"), "injected")
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}

func TestValidRequestID(t *testing.T) {
	assert.True(t, validRequestID("0af7651916cd43dd8448eb211c80319c"))
	assert.True(t, validRequestID("edge-1:req_42.a"))
	assert.False(t, validRequestID(""))
	assert.False(t, validRequestID("has space"))
	assert.False(t, validRequestID("ünïcode"))
	assert.False(t, validRequestID(strings.Repeat("a", 65)))
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.POST("/", BodyLimit(16), func(c *gin.Context) {
		var body map[string]string
		if err := c.ShouldBindJSON(&body); err != nil {
			_ = c.Error(err)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"b"}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a much longer body"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestLogger_RequestScopedLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), Logger(zap.New(core)))
	r.GET("/api/v1/timetables", func(c *gin.Context) {
		applogger.FromContext(c.Request.Context(), zap.NewNop()).Info("listing timetables")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/timetables", nil)
	req.Header.Set("X-Request-ID", "rid-42")
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "listing timetables", entries[0].Message)
	assert.Equal(t, "request completed", entries[1].Message)
	for _, e := range entries {
		assert.Equal(t, "rid-42", e.ContextMap()["request_id"])
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/api/v1/me", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Cache-Control"))
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestCORS(t *testing.T) {
	call := func(allow []string, method, origin string) *httptest.ResponseRecorder {
		r := gin.New()
		r.Use(CORS(allow))
		r.GET("/api/v1/timetables", func(c *gin.Context) { c.Status(http.StatusOK) })
		req := httptest.NewRequest(method, "/api/v1/timetables", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := call([]string{"https://campus.example/"}, http.MethodGet, "https://campus.example")
	assert.Equal(t, "https://campus.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = call([]string{"https://campus.example"}, http.MethodGet, "https://evil.example")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Methods"))

	w = call([]string{"*"}, http.MethodGet, "https://any.example")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))

	w = call([]string{"*", "https://campus.example"}, http.MethodOptions, "https://campus.example")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
