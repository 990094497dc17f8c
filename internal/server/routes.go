package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"catalognorm/internal/handlers/api"
	"catalognorm/internal/middleware"
)

// Handlers bundles the API handlers mounted by RegisterRoutes.
type Handlers struct {
	Products   *api.ProductHandler
	Feedback   *api.FeedbackHandler
	Model      *api.ModelHandler
	Vocabulary *api.VocabularyHandler
	Health     *api.HealthHandler
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(h Handlers) {
	auth := middleware.NewAuthMiddleware(s.Cfg.APIToken)
	if !auth.Enabled() {
		s.logger.Warn("API_TOKEN is not set, mutating routes are unauthenticated")
	}

	s.App.Get("/livez", h.Health.Liveness)
	s.App.Get("/healthz", h.Health.Check)
	s.App.Get("/readyz", h.Health.Check)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	apiGroup := s.App.Group("/api")

	// Read-only routes
	apiGroup.Post("/normalize", h.Products.Normalize)
	apiGroup.Get("/products", h.Products.List)
	apiGroup.Get("/products/review", h.Products.ReviewQueue)
	apiGroup.Get("/products/:id", h.Products.Get)
	apiGroup.Get("/retrain/runs", h.Model.ListRuns)
	apiGroup.Get("/retrain/runs/:id", h.Model.GetRun)
	apiGroup.Get("/model", h.Model.Info)
	apiGroup.Get("/vocabulary", h.Vocabulary.List)

	// Mutating routes
	apiGroup.Post("/products", auth.RequireToken, h.Products.Ingest)
	apiGroup.Post("/products/upload", auth.RequireToken, h.Products.Upload)
	apiGroup.Post("/feedback", auth.RequireToken, h.Feedback.Submit)
	apiGroup.Post("/retrain", auth.RequireToken, h.Model.Retrain)
	apiGroup.Post("/model/reload", auth.RequireToken, h.Model.Reload)
	apiGroup.Put("/vocabulary", auth.RequireToken, h.Vocabulary.Upsert)
	apiGroup.Delete("/vocabulary/:token", auth.RequireToken, h.Vocabulary.Delete)
}
