// Package main starts the topup HTTP API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"topup/internal/config"
	"topup/internal/database"
	"topup/internal/events"
	"topup/internal/logger"
	"topup/internal/routes"

	"github.com/sirupsen/logrus"
)

func main() {
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logger.New("topup", cfg.Env, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := database.Open(ctx, cfg, log)
	if err != nil {
		cancel()
		log.WithError(err).Fatal("failed to open store")
	}
	cacheRepo, err := database.OpenCache(ctx, cfg, log)
	cancel()
	if err != nil {
		_ = store.Close()
		log.WithError(err).Fatal("failed to open cache")
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.AMQPURL != "" {
		rabbit, err := events.NewRabbitPublisher(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			_ = cacheRepo.Close()
			_ = store.Close()
			log.WithError(err).Fatal("failed to connect to RabbitMQ")
		}
		log.WithField("queue", cfg.AMQPQueue).Info("publishing ledger events to RabbitMQ")
		publisher = rabbit
	}

	app := routes.NewApp(cfg, log)
	routes.Setup(app, routes.Deps{
		Config:    cfg,
		Log:       log,
		Store:     store,
		Cache:     cacheRepo,
		Publisher: publisher,
	})

	go func() {
		log.WithFields(logrus.Fields{
			"addr":  cfg.HTTPAddress(),
			"store": store.Name(),
		}).Info("server starting")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.WithField("signal", sig.String()).Info("shutting down")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}
	if err := publisher.Close(); err != nil {
		log.WithError(err).Error("failed to close publisher")
	}
	if err := cacheRepo.Close(); err != nil {
		log.WithError(err).Error("failed to close cache")
	}
	if err := store.Close(); err != nil {
		log.WithError(err).Error("failed to close store")
	}
	log.Info("shutdown complete")
}
