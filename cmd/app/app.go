package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/aisclub/clubevents/internal/api"
	"github.com/aisclub/clubevents/internal/config"
	"github.com/aisclub/clubevents/internal/db"
	"github.com/aisclub/clubevents/internal/live"
	"github.com/aisclub/clubevents/internal/logger"
	"github.com/aisclub/clubevents/internal/storage"
)

const configPath = "./cmd/app/config.yml"

func Start() error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	defer func() { _ = zap.L().Sync() }()

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	store, err := storage.NewOSFileStore(conf.Storage.Root, conf.Storage.PublicURLPrefix)
	if err != nil {
		return fmt.Errorf("failed to initialize storage -> %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := live.NewHub()
	go hub.Run(ctx)

	s := api.NewServer(conf, postgresDB, store, hub)

	if err = config.Watch(configPath, s.Reload); err != nil {
		zap.L().Warn("config hot reload disabled", zap.Error(err))
	}

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}
