package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/config"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/api/handler"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/api/middleware"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/dto"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/model"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/jwt"
)

// Deps are the optional shared backends of the middleware chain. Either
// field may be nil when Redis is not configured.
type Deps struct {
	Blacklist   middleware.TokenChecker
	RateChecker middleware.RateChecker
}

// Setup builds the gin engine
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, deps Deps, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	dto.RegisterValidators()

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── health ──
	r.GET("/health", h.Health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	adminOnly := middleware.RoleAuth(model.RoleAdmin)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// public
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(deps.RateChecker, cfg.RateLimit.Requests, cfg.RateLimit.Window, logger), h.Auth.Login)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, deps.Blacklist, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			users := authorized.Group("/users")
			{
				users.GET("", adminOnly, h.User.ListUsers)
				users.POST("", adminOnly, h.User.CreateUser)
				users.GET("/faculty", h.User.ListFaculty)
				users.DELETE("/:id", adminOnly, h.User.DeleteUser)
			}

			groups := authorized.Group("/groups")
			{
				groups.GET("", h.Group.ListGroups)
				groups.GET("/:id", h.Group.GetGroup)
				groups.POST("", adminOnly, h.Group.CreateGroup)
				groups.PUT("/:id", adminOnly, h.Group.UpdateGroup)
				groups.PUT("/:id/members", adminOnly, h.Group.SetMembers)
				groups.DELETE("/:id", adminOnly, h.Group.DeleteGroup)
			}

			registerCatalog(authorized.Group("/subjects"), h.Subject, adminOnly)
			registerCatalog(authorized.Group("/labs"), h.Lab, adminOnly)
			registerCatalog(authorized.Group("/batches"), h.Batch, adminOnly)
			registerCatalog(authorized.Group("/rooms"), h.Room, adminOnly)

			timetables := authorized.Group("/timetables")
			{
				timetables.GET("", h.Timetable.ListTimetables)
				timetables.GET("/:id", h.Timetable.GetTimetable)
				timetables.GET("/:id/days/:day", h.Timetable.GetDay)
				timetables.POST("", adminOnly, h.Timetable.CreateTimetable)
				timetables.PUT("/:id", adminOnly, h.Timetable.UpdateTimetable)
				timetables.DELETE("/:id", adminOnly, h.Timetable.DeleteTimetable)
				timetables.POST("/:id/import/ics", adminOnly, h.Timetable.ImportICS)
				timetables.GET("/:id/export/xlsx", h.Export.ExportExcel)
				timetables.GET("/:id/export/ics", h.Export.ExportICS)
			}

			availability := authorized.Group("/availability")
			{
				availability.GET("/faculty", h.Availability.FreeFaculty)
				availability.GET("/faculty/by-resource", h.Availability.FacultyByResource)
				availability.GET("/rooms", h.Availability.FreeRooms)
				availability.GET("/rooms/by-resource", h.Availability.RoomsByResource)
			}
		}
	}

	return r
}

type catalogRoutes interface {
	List(*gin.Context)
	Get(*gin.Context)
	Create(*gin.Context)
	Update(*gin.Context)
	Delete(*gin.Context)
}

func registerCatalog(g *gin.RouterGroup, h catalogRoutes, adminOnly gin.HandlerFunc) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", adminOnly, h.Create)
	g.PUT("/:id", adminOnly, h.Update)
	g.DELETE("/:id", adminOnly, h.Delete)
}
