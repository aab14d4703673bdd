package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/vishwam-chepuri/matching-app/internal/config"
	"github.com/vishwam-chepuri/matching-app/internal/repository"
	"github.com/vishwam-chepuri/matching-app/internal/server"
	"github.com/vishwam-chepuri/matching-app/internal/service"
	"github.com/vishwam-chepuri/matching-app/pkg/database"
	"github.com/vishwam-chepuri/matching-app/pkg/jwt"
	"github.com/vishwam-chepuri/matching-app/pkg/logger"
	"github.com/vishwam-chepuri/matching-app/pkg/storage"
	"github.com/vishwam-chepuri/matching-app/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.NewDatabase(cfg.DatabaseURL, zlog)
	if err != nil {
		zlog.Fatal("failed to open database", zap.Error(err))
	}

	// Run migrations
	if err := database.RunMigrations(db, database.AdminSeed{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Name:     cfg.AdminName,
	}); err != nil {
		zlog.Fatal("failed to migrate database", zap.Error(err))
	}

	// Storage
	store, err := storage.New(ctx, cfg.StorageOptions())
	if err != nil {
		zlog.Fatal("failed to initialize storage", zap.Error(err))
	}
	zlog.Info("photo storage ready", zap.String("driver", cfg.StorageDriver))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	photoRepo := repository.NewPhotoRepository(db)

	validator := utils.NewValidator()
	tokens := jwt.NewManager(cfg.JWTSecret)

	// Services
	services := server.Services{
		Auth:     service.NewAuthService(userRepo, tokens, validator, zlog),
		Users:    service.NewUserService(userRepo, store, validator, zlog),
		Profiles: service.NewProfileService(profileRepo, store, cfg.BackendURL, zlog),
		Photos:   service.NewPhotoService(profileRepo, photoRepo, store, validator, cfg.BackendURL, zlog),
	}

	srvCfg := server.Config{
		FrontendURL:   cfg.FrontendURL,
		BodyLimitMB:   cfg.BodyLimitMB,
		AuthRateLimit: cfg.AuthRateLimit,
	}
	if local, ok := store.(*storage.LocalStorage); ok {
		srvCfg.UploadDir = local.Dir()
		srvCfg.UploadPrefix = local.Prefix()
	}
	app := server.New(srvCfg, services, zlog)

	go func() {
		<-ctx.Done()
		zlog.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zlog.Error("shutdown failed", zap.Error(err))
		}
	}()

	zlog.Info("listening", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
