package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"blogapp/internal/config"
	"blogapp/internal/pkg/logger"
	"blogapp/internal/repository"
)

// app holds what every subcommand needs: config, logger and an open store.
type app struct {
	cfg   *config.Config
	log   *logrus.Logger
	store *repository.Store
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	store, err := repository.Open(ctx, repository.Options{
		MongoURI:      cfg.MongoURI,
		MongoDatabase: cfg.MongoDatabase,
		DatabaseURL:   cfg.DatabaseURL,
	}, log)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, log: log, store: store}, nil
}

func (a *app) close() {
	if err := a.store.Close(context.Background()); err != nil {
		a.log.WithError(err).Warn("close store")
	}
}
