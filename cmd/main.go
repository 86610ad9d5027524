package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/bilgann/The-Backdoor-Mission-Project/internal/auth"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/config"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/db"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/export"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/httpapi"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/logging"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/metrics"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/model"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/repository"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/service"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/stats"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("backdoor: %v", err)
	}
}

func run() error {
	// 1. Config from .env and the environment.
	cfg, loadedEnv, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	if loadedEnv {
		logger.Info("loaded .env file")
	}

	// 2. Database and schema.
	gormDB, err := db.NewGormDB(cfg.DB, logging.Gorm(logger))
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	applied, err := model.Migrate(gormDB)
	if err != nil {
		return err
	}
	if len(applied) > 0 {
		logger.Info("migrations applied", zap.Strings("versions", applied))
	}

	// 3. Domain layers.
	m, err := metrics.New()
	if err != nil {
		return err
	}
	repos := repository.New(gormDB)
	services := service.New(repos, service.Options{
		Location: cfg.Location,
		Logger:   logger.Named("service"),
		Recorder: m,
	})
	engine := stats.NewEngine(repos.Usage, repos.Clients, stats.Options{
		Location: cfg.Location,
		Logger:   logger.Named("stats"),
	})

	gate, err := auth.NewGate(cfg.Auth)
	if err != nil {
		return err
	}
	if cfg.Auth.Defaulted() {
		logger.Warn("ADMIN_PASSWORD is not set, using the built-in default credentials")
	}

	// 4. HTTP.
	app := httpapi.NewApp(httpapi.Deps{
		Config:   cfg.HTTP,
		Services: services,
		Stats:    engine,
		Exporter: export.NewExporter(gormDB, cfg.Location),
		Gate:     gate,
		Metrics:  m,
		Logger:   logger.Named("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
		errCh <- app.Listen(cfg.HTTP.Addr)
	}()

	// 5. Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	if err := app.ShutdownWithTimeout(cfg.HTTP.ShutdownTimeout); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	return nil
}
