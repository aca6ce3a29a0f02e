// Command seed loads an organization fixture (users, catalog, groups and
// timetables) into the database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/config"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/repository"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/database"
	applogger "github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	fixturePath := flag.String("file", "cmd/seed/testdata/campus.yaml", "seed fixture")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	fx, err := LoadFixture(*fixturePath)
	if err != nil {
		logger.Fatal("load fixture", zap.String("file", *fixturePath), zap.Error(err))
	}

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s := &seeder{repo: repository.NewRepository(db), cost: bcrypt.DefaultCost, logger: logger}
	orgID, err := s.Run(ctx, fx)
	if err != nil {
		logger.Fatal("seed", zap.Error(err))
	}

	logger.Info("seed complete",
		zap.String("organization_id", orgID),
		zap.Int("users", len(fx.Users)),
		zap.Int("timetables", len(fx.Timetables)),
	)
}
