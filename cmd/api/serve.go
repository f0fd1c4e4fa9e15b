package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"blogapp/internal/modules/auth"
	"blogapp/internal/modules/post"
	"blogapp/internal/modules/upload"
	"blogapp/internal/pkg/imagestore"
	"blogapp/internal/pkg/jwt"
	"blogapp/internal/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	cfg, log := a.cfg, a.log

	if err := a.store.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	images, err := imagestore.New(cfg.ImageStoreConfig())
	if err != nil {
		return fmt.Errorf("image store: %w", err)
	}

	stager := upload.NewStager(cfg.UploadStageDir, cfg.UploadMaxFileSize)
	stageLog := log.WithField("dir", stager.Dir())
	if n, err := stager.Sweep(time.Hour); err != nil {
		stageLog.WithError(err).Warn("sweep stage directory")
	} else if n > 0 {
		stageLog.WithField("removed", n).Info("removed stale staged uploads")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens := jwt.New(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	router := server.NewRouter(server.Deps{
		Store:  a.store,
		Images: images,
		Stager: stager,
		JWT:    tokens,
		Cookies: auth.CookieConfig{
			Secure:   cfg.CookieSecure,
			SameSite: auth.ParseSameSite(cfg.CookieSameSite),
			MaxAge:   tokens.AccessTTL(),
		},
		Posts: post.Config{
			Namespace:    cfg.ImageNamespace,
			PostsPerPage: cfg.PostsPerPage,
		},
		Origins: cfg.Origins(),
		Log:     log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":        srv.Addr,
			"env":         cfg.AppEnv,
			"image_store": cfg.ImageStore,
		}).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
