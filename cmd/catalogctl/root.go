package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"catalognorm/internal/config"
	"catalognorm/internal/db"
	"catalognorm/internal/logging"
)

type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	noColor bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Operate the catalog normalization service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.cfg = config.Load()
			a.logger = logging.New(a.cfg)
			slog.SetDefault(a.logger)
			if a.noColor {
				color.NoColor = true
			}
		},
	}
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newSeedVocabularyCmd(a),
		newSeedTaxonomyCmd(a),
		newIngestCmd(a),
		newRetrainCmd(a),
		newReviewCmd(a),
		newExportCmd(a),
	)
	return root
}

// openDB connects to the configured database and applies migrations.
func (a *app) openDB(ctx context.Context) (*db.DB, error) {
	database, err := db.New(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.RunMigrations(a.cfg.DatabaseURL); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return database, nil
}

func success(cmd *cobra.Command, format string, args ...any) {
	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ "+format+"\n", args...)
}
