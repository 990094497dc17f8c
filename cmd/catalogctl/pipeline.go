package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"catalognorm/internal/classifier"
	"catalognorm/internal/db"
	"catalognorm/internal/export"
	"catalognorm/internal/ingest"
	"catalognorm/internal/models"
	"catalognorm/internal/normalize"
	"catalognorm/internal/retrain"
	"catalognorm/internal/review"
)

func (a *app) loadModel() *classifier.Handle {
	model := classifier.NewHandle()
	if loaded, err := model.LoadIfExists(a.cfg.ModelPath); err != nil {
		a.logger.Warn("failed to load model, classifier stage disabled", "path", a.cfg.ModelPath, "error", err)
	} else if !loaded {
		a.logger.Info("no model artifact, classifier stage disabled", "path", a.cfg.ModelPath)
	}
	return model
}

func (a *app) waterfall(database *db.DB, model *classifier.Handle) *normalize.Waterfall {
	policy := normalize.Policy{
		MatchThreshold:       a.cfg.MatchThreshold,
		AutoApproveThreshold: a.cfg.AutoApproveThreshold,
	}
	// Taxonomy entries are read once per run.
	taxonomy := normalize.NewCachedTaxonomy(database, a.cfg.VocabCacheTTL)
	return normalize.New(database, taxonomy, model, policy, normalize.WithLogger(a.logger))
}

func newIngestCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Normalize and store every record of a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			records, err := ingest.ReadCSV(f)
			if err != nil {
				return err
			}

			database, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			ing := ingest.New(a.waterfall(database, a.loadModel()), database, a.cfg.IngestWorkers, a.logger)
			report, err := ing.IngestBatch(ctx, records)
			if err != nil {
				return err
			}

			pending := 0
			for _, p := range report.Products {
				if p.NeedsReview {
					pending++
				}
			}
			success(cmd, "received %d, inserted %d, skipped %d, %d need review",
				report.Received, report.Inserted, report.Skipped, pending)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV file of raw product strings")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newRetrainCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "retrain",
		Short: "Train a new classifier from the accumulated corrections",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			database, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			runner := retrain.NewRunner(database, database, classifier.NewHandle(), retrain.Config{
				ArtifactPath: a.cfg.ModelPath,
				MinPairs:     a.cfg.MinTrainingPairs,
			}, a.logger)

			run, err := runner.Run(ctx)
			if err != nil {
				return err
			}
			if run.Status == models.RunSucceeded {
				success(cmd, "trained on %d pairs, saved to %s", run.PairCount, run.ArtifactPath)
				return nil
			}
			msg := run.Status
			if run.Error != nil {
				msg += ": " + *run.Error
			}
			fmt.Fprintf(cmd.OutOrStdout(), "retrain %s (%d of %d pairs)\n", msg, run.PairCount, run.MinPairs)
			return nil
		},
	}
}

func newReviewCmd(a *app) *cobra.Command {
	var (
		apiURL string
		token  string
		batch  int
	)

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review pending products in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				token = a.cfg.APIToken
			}
			client, err := review.NewClient(apiURL, token)
			if err != nil {
				return err
			}
			return review.NewConsole(client, cmd.InOrStdin(), cmd.OutOrStdout(), batch).Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&apiURL, "api", "http://localhost:8000", "catalognorm API base URL")
	cmd.Flags().StringVar(&token, "token", "", "API bearer token (default $API_TOKEN)")
	cmd.Flags().IntVar(&batch, "batch", 20, "products fetched per page")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		what   string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export products or training pairs as CSV or XLSX",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			dataset, err := export.ParseDataset(what)
			if err != nil {
				return err
			}

			database, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				file, err := os.Create(out)
				if err != nil {
					return err
				}
				defer file.Close()
				w = file
			}

			n, err := export.NewExporter(database).Export(ctx, w, dataset, f)
			if err != nil {
				return err
			}
			if out != "" && out != "-" {
				success(cmd, "exported %d %s to %s", n, dataset, out)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "csv or xlsx")
	cmd.Flags().StringVar(&what, "what", "pairs", "products or pairs")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}
