package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ahmetcoskunkizilkaya/social-feed/internal/config"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/database"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/logging"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/repository"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/services"
	"github.com/spf13/cobra"
)

type seedOptions struct {
	Reset    bool
	Password string
}

func newRootCommand(cfg *config.Config) *cobra.Command {
	opts := &seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with sample users, posts and likes",
		Long: `Create the owner, admin, alice, bob and charlie accounts together with a
few posts, follows and likes. Every account shares one password.

Seeding is skipped when the sample accounts already exist; pass --reset to
drop all tables first.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Connect(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			if opts.Reset {
				slog.Warn("dropping all tables")
				if err := database.Reset(db); err != nil {
					return err
				}
			}
			if err := database.Migrate(db); err != nil {
				return err
			}

			store := repository.NewGormStore(db)
			svc := services.NewSet(store, services.NewCredentials(cfg.JWTSecret, cfg.JWTExpiry, 0))
			return seed(cmd.Context(), store, svc, opts.Password, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.Reset, "reset", false, "drop all tables before seeding")
	cmd.Flags().StringVar(&opts.Password, "password", cfg.SeedPassword, "password for every seeded account")

	return cmd
}

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		// Tokens are never issued here, but the credentials need a key.
		cfg.JWTSecret = "seed"
	}

	if err := newRootCommand(cfg).ExecuteContext(context.Background()); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}
