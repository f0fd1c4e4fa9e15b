package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"blogapp/internal/modules/auth"
	"blogapp/internal/modules/upload"
	"blogapp/internal/pkg/jwt"
)

func newIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create collection indexes (MongoDB) or migrate the schema (SQL)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.store.EnsureIndexes(cmd.Context()); err != nil {
				return fmt.Errorf("ensure indexes: %w", err)
			}
			a.log.Info("indexes are up to date")
			return nil
		},
	}
}

func newCleanupCmd() *cobra.Command {
	var maxAge time.Duration

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Drop stale refresh tokens and leftover staged uploads",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()
			cfg := a.cfg

			tokens := jwt.New(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
			pruned, err := auth.NewService(a.store.Users, tokens).PruneStaleSessions(cmd.Context())
			if err != nil {
				return fmt.Errorf("prune sessions: %w", err)
			}

			swept, err := upload.NewStager(cfg.UploadStageDir, cfg.UploadMaxFileSize).Sweep(maxAge)
			if err != nil {
				return fmt.Errorf("sweep stage directory: %w", err)
			}

			a.log.WithField("refresh_tokens", pruned).WithField("staged_files", swept).Info("cleanup completed")
			return nil
		},
	}
	cmd.Flags().DurationVar(&maxAge, "max-age", time.Hour, "remove staged uploads older than this")
	return cmd
}
