package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/eduforge/aigen-api/internal/api"
	apiMiddleware "github.com/eduforge/aigen-api/internal/api/middleware"
)

// setupRouter creates the application router with all routes and
// middleware. Generation, usage, and content endpoints require a valid
// bearer token; the health endpoint is public.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	generateHandler := api.NewGenerateHandler(app.generationService, app.eventEmitter)
	usageHandler := api.NewUsageHandler(app.usageReporter)
	contentHandler := api.NewContentHandler(app.contentStore)
	healthHandler := api.NewHealthHandler(app.healthChecker)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Generation endpoints
			r.Post("/generate/quiz", generateHandler.GenerateQuiz)
			r.Post("/generate/summary", generateHandler.GenerateSummary)
			r.Post("/generate/flashcards", generateHandler.GenerateFlashcards)
			r.Post("/generate/async", generateHandler.GenerateAsync)

			// Usage reporting
			r.Get("/usage", usageHandler.GetUsage)

			// Generated content review
			r.Get("/content/{id}", contentHandler.GetContent)
			r.Post("/content/{id}/review", contentHandler.ReviewContent)
		})
	})

	// Health check endpoint (public)
	r.Get("/health", healthHandler.GetHealth)

	return r
}
