package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/brightforge-labs/discovery-crm-backend/config"
	"github.com/brightforge-labs/discovery-crm-backend/internal/bootstrap"
	"github.com/brightforge-labs/discovery-crm-backend/internal/bulkupload/archive"
	bulkuploadservice "github.com/brightforge-labs/discovery-crm-backend/internal/bulkupload/service"
	"github.com/brightforge-labs/discovery-crm-backend/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := bootstrap.NewLogger(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync()

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatalw("connect database", "error", err)
	}
	defer db.Close()

	if err := postgres.Migrate(db); err != nil {
		logger.Fatalw("run migrations", "error", err)
	}

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: postgres.DSN(&cfg.Database)})
	if err != nil {
		logger.Fatalw("open health pool", "error", err)
	}
	defer pool.Close()

	cache := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer cache.Close()

	var uploadArchive bulkuploadservice.Archive
	if cfg.Archive.Bucket != "" {
		s3Archive, err := archive.NewS3Archive(ctx, cfg.Archive.Bucket, cfg.Archive.Region, cfg.Archive.Endpoint)
		if err != nil {
			logger.Fatalw("init upload archive", "error", err)
		}
		uploadArchive = s3Archive
	}

	router, services := bootstrap.BuildRouter(bootstrap.RouterDeps{
		Config:  cfg,
		DB:      db,
		Pool:    pool,
		Cache:   cache,
		Archive: uploadArchive,
		Log:     logger,
	})

	scheduler, err := bootstrap.StartScheduler(services.Dashboard, logger)
	if err != nil {
		logger.Fatalw("start scheduler", "error", err)
	}
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infow("server listening", "port", cfg.Server.Port, "env", cfg.App.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("server shutdown", "error", err)
	}
}
