package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/config"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/api/handler"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/api/router"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/cache"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/repository"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/service"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/database"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/jwt"
	applogger "github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/logger"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/metrics"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// 0. .env is optional
	_ = godotenv.Load()

	// 1. configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting campus-sync",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. database
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB", zap.Error(err))
	}

	// 3.1 migrations
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	// 4. Redis is optional: without it the lookup cache reads through,
	// logout cannot revoke tokens and login throttling is per process
	var (
		store     cache.Store
		deps      router.Deps
		blackSvc  service.TokenBlacklist
		redisPing handler.PingFunc
	)
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, running degraded", zap.Error(err))
	} else {
		store = rdb
		blackSvc = rdb
		deps = router.Deps{Blacklist: rdb, RateChecker: rdb}
		redisPing = rdb.Ping
	}

	// 5. JWT + metrics
	jwtMgr := jwt.NewManager(&cfg.Auth)
	metrics.Register()

	// 6. Repository → Service → Handler
	repo := repository.NewRepository(db)
	lookups := cache.NewLookupCache(store, repo, cfg.Cache.LookupTTL, logger)
	svc := service.NewService(cfg, repo, lookups, jwtMgr, blackSvc, logger)
	h := handler.NewHandler(svc, handler.NewHealthHandler(sqlDB.PingContext, redisPing))

	// 7. routes
	engine := router.Setup(cfg, h, jwtMgr, deps, logger)

	// 8. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	// 9. wait for a signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	sqlDB.Close()
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
