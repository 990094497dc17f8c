package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"catalognorm/internal/config"
	"catalognorm/internal/models"
	"catalognorm/internal/seed"
)

func loadSeedFile(path string) (*config.SeedConfig, error) {
	sc, err := config.LoadSeedConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	return sc, nil
}

func newSeedVocabularyCmd(a *app) *cobra.Command {
	var (
		seedFile   string
		category   string
		noDefaults bool
	)

	cmd := &cobra.Command{
		Use:   "seed-vocabulary",
		Short: "Upsert the built-in abbreviations and any seed file vocabulary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if seedFile == "" {
				seedFile = a.cfg.SeedFile
			}
			sc, err := loadSeedFile(seedFile)
			if err != nil {
				return err
			}

			var rows []config.VocabularySeed
			if !noDefaults {
				rows = append(rows, seed.DefaultVocabulary...)
			}
			if category != "" {
				rows = append(rows, sc.VocabularyByCategory(category)...)
			} else if sc != nil {
				rows = append(rows, sc.Vocabulary...)
			}
			if len(rows) == 0 {
				return errors.New("no vocabulary to seed")
			}

			database, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			n, err := seed.SeedVocabulary(ctx, database, seed.VocabularyEntries(rows))
			if err != nil {
				return err
			}
			success(cmd, "seeded %d vocabulary entries", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&seedFile, "seed-file", "", "seed YAML file (default $SEED_FILE)")
	cmd.Flags().StringVar(&category, "category", "", "only seed file rows in this category")
	cmd.Flags().BoolVar(&noDefaults, "no-defaults", false, "skip the built-in abbreviation list")
	return cmd
}

func newSeedTaxonomyCmd(a *app) *cobra.Command {
	var (
		file     string
		url      string
		seedFile string
	)

	cmd := &cobra.Command{
		Use:   "seed-taxonomy",
		Short: "Replace the taxonomy reference set",
		Long: `Replace the taxonomy reference set from a file, a URL or the seed file.
Lines are "id<TAB>path" or a bare path; '#' starts a comment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if file != "" && url != "" {
				return errors.New("use either --file or --url")
			}

			var (
				entries []models.TaxonomyEntry
				err     error
			)
			switch {
			case file != "":
				entries, err = seed.LoadTaxonomyFile(file)
			case url != "":
				entries, err = seed.FetchTaxonomy(ctx, url)
			default:
				entries, err = taxonomyFromSeedFile(a, seedFile)
			}
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return errors.New("no taxonomy entries found")
			}

			database, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			n, err := database.ReplaceTaxonomy(ctx, entries)
			if err != nil {
				return err
			}
			success(cmd, "loaded %d taxonomy entries", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "taxonomy text file")
	cmd.Flags().StringVar(&url, "url", "", "taxonomy URL, e.g. "+seed.DefaultTaxonomyURL)
	cmd.Flags().StringVar(&seedFile, "seed-file", "", "seed YAML file (default $SEED_FILE)")
	return cmd
}

func taxonomyFromSeedFile(a *app, path string) ([]models.TaxonomyEntry, error) {
	if path == "" {
		path = a.cfg.SeedFile
	}
	sc, err := loadSeedFile(path)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, fmt.Errorf("no --file or --url given and seed file %s not found", path)
	}

	var entries []models.TaxonomyEntry
	if sc.Taxonomy.File != "" {
		entries, err = seed.LoadTaxonomyFile(sc.Taxonomy.File)
		if err != nil {
			return nil, err
		}
	}
	return append(entries, seed.ParseTaxonomyLines(sc.Taxonomy.Entries)...), nil
}
