package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"catalognorm/internal/classifier"
	"catalognorm/internal/config"
	"catalognorm/internal/db"
	"catalognorm/internal/email"
	"catalognorm/internal/feedback"
	"catalognorm/internal/handlers/api"
	"catalognorm/internal/ingest"
	"catalognorm/internal/jobs"
	"catalognorm/internal/logging"
	"catalognorm/internal/metrics"
	"catalognorm/internal/models"
	"catalognorm/internal/normalize"
	"catalognorm/internal/retrain"
	"catalognorm/internal/server"
)

func main() {
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()
	logger := logging.New(cfg)
	slog.SetDefault(logger)

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("migrations completed successfully")

	// Load the classifier artifact if one has been trained
	model := classifier.NewHandle()
	loaded, err := model.LoadIfExists(cfg.ModelPath)
	switch {
	case err != nil:
		logger.Warn("failed to load model, classifier stage disabled until retrain", "path", cfg.ModelPath, "error", err)
	case !loaded:
		logger.Info("no model artifact yet, classifier stage disabled until retrain", "path", cfg.ModelPath)
	default:
		logger.Info("model loaded", "path", cfg.ModelPath, "classes", model.Info().Classes)
	}

	// Normalization pipeline
	vocab := normalize.NewCachedVocabulary(database, cfg.VocabCacheTTL)
	taxonomy := normalize.NewCachedTaxonomy(database, cfg.VocabCacheTTL)
	policy := normalize.Policy{
		MatchThreshold:       cfg.MatchThreshold,
		AutoApproveThreshold: cfg.AutoApproveThreshold,
	}
	waterfall := normalize.New(vocab, taxonomy, model, policy, normalize.WithLogger(logger))

	ingester := ingest.New(waterfall, database, cfg.IngestWorkers, logger)
	ingester.OnBatch(metrics.RecordStages)

	feedbackService := feedback.NewService(database, logger)
	feedbackService.OnSaved(metrics.RecordFeedback)

	runner := retrain.NewRunner(database, database, model, retrain.Config{
		ArtifactPath: cfg.ModelPath,
		MinPairs:     cfg.MinTrainingPairs,
	}, logger)

	notifier := email.NewNotifier(email.NewService(cfg, logger), cfg.ReviewerEmails)
	runner.OnFinish(func(run models.RetrainRun) {
		metrics.RecordRetrain(run)
		notifier.NotifyRetrainFinished(run)
	})

	metrics.Init(database)

	// Scheduled retraining
	if cfg.RetrainInterval > 0 {
		scheduler := jobs.NewRetrainScheduler(runner, cfg.RetrainInterval, logger)
		go scheduler.Start(ctx)
	}
	if cfg.BacklogAlertSize > 0 && notifier.Enabled() {
		alert := jobs.NewBacklogAlert(database, notifier, cfg.BacklogAlertSize, cfg.BacklogCheckInterval, logger)
		go alert.Start(ctx)
	}

	srv := server.New(cfg, logger)
	srv.RegisterRoutes(server.Handlers{
		Products: api.NewProductHandler(waterfall, ingester, database),
		Feedback: api.NewFeedbackHandler(feedbackService),
		Model:    api.NewModelHandler(runner, database, model, cfg.ModelPath),
		Vocabulary: api.NewVocabularyHandler(database, func() {
			vocab.Invalidate()
		}),
		Health: api.NewHealthHandler(database, model),
	})

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("server error", "error", err)
		}
	}()

	logger.Info("server started", "addr", cfg.ServerAddr, "auth", cfg.AuthEnabled())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	cancel()
	if err := srv.Shutdown(); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	runner.Wait()
	logger.Info("server exited")
}
