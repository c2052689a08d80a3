package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/riya23dhim/task-management-ai/internal/api"
	apiMiddleware "github.com/riya23dhim/task-management-ai/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		app.logger,
	)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		r.Use(apiMiddleware.APIRateLimit())

		// Authentication endpoints (public, tighter rate limit)
		r.Group(func(r chi.Router) {
			r.Use(apiMiddleware.AuthRateLimit())
			r.Post("/users/register", authHandler.Register)
			r.Post("/users/login", authHandler.Login)
			r.Post("/users/refresh", authHandler.RefreshToken)
		})

		// Task endpoints (protected)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/tasks", taskHandler.CreateTask)
			r.Get("/tasks", taskHandler.ListTasks)
			r.Get("/tasks/{id}", taskHandler.GetTask)
			r.Put("/tasks/{id}", taskHandler.UpdateTask)
			r.Patch("/tasks/{id}/status", taskHandler.UpdateTaskStatus)
			r.Delete("/tasks/{id}", taskHandler.DeleteTask)

			// Summarization gets its own budget on top of the API limit
			// since each call costs an upstream model request.
			r.With(apiMiddleware.SummarizeRateLimit()).
				Post("/tasks/{id}/summarize", taskHandler.GenerateSummary)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
