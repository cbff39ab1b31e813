// Command admin_seed creates the admin account described by the ADMIN_*
// environment variables in the configured store.
package main

import (
	"context"
	"errors"
	"time"

	"topup/internal/config"
	"topup/internal/database"
	"topup/internal/logger"
	"topup/internal/models"
	"topup/internal/repositories"
	"topup/internal/services/auth"
	"topup/internal/utils"
	"topup/internal/validation"

	"github.com/sirupsen/logrus"
)

func main() {
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logger.New("topup-admin-seed", cfg.Env, cfg.LogLevel)

	req := models.RegisterRequest{
		Name:     config.GetEnv("ADMIN_NAME", "Administrator"),
		Email:    config.GetEnv("ADMIN_EMAIL", ""),
		Phone:    config.GetEnv("ADMIN_PHONE", ""),
		Password: config.GetEnv("ADMIN_PASSWORD", ""),
	}
	if req.Email == "" || req.Phone == "" || req.Password == "" {
		log.Fatal("ADMIN_EMAIL, ADMIN_PHONE and ADMIN_PASSWORD must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := database.Open(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open store")
	}
	defer store.Close()

	cacheRepo, err := database.OpenCache(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open cache")
	}
	defer cacheRepo.Close()

	authService := auth.NewService(
		store.Users(),
		cacheRepo,
		utils.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL),
		auth.Config{UserCacheTTL: cfg.UserCacheTTL},
		log,
	)

	admin, err := authService.RegisterAdmin(ctx, req)
	switch {
	case err == nil:
		log.WithFields(logrus.Fields{"user_id": admin.ID, "email": admin.Email}).Info("admin account created")
	case errors.Is(err, repositories.ErrEmailTaken):
		log.WithField("email", req.Email).Info("admin account already exists, skipping")
	case errors.Is(err, validation.ErrInvalid):
		log.WithField("errors", validation.ToDetails(err)).Error("invalid admin details")
	default:
		log.WithError(err).Error("failed to create admin account")
	}
}
