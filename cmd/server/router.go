package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/task-api/internal/api"
	"github.com/phrazzld/task-api/internal/api/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.NewTraceMiddleware(app.logger))
	r.Use(app.metrics.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})
	r.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	taskHandler := api.NewTaskHandler(app.taskService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NewRateLimiter(
			app.config.RateLimit.RequestsPerSecond,
			app.config.RateLimit.Burst,
		))
		if app.jwtService != nil {
			r.Use(middleware.NewAuthMiddleware(app.jwtService).Authenticate)
		}

		create := http.Handler(http.HandlerFunc(taskHandler.CreateTask))
		if app.idempotencyStore != nil {
			create = middleware.NewIdempotency(app.idempotencyStore)(create)
		}
		r.Method(http.MethodPost, "/tasks", create)
		r.Get("/tasks", taskHandler.ListTasks)
		r.Get("/tasks/{id}", taskHandler.GetTask)
		r.Patch("/tasks/{id}", taskHandler.UpdateTask)
		r.Delete("/tasks/{id}", taskHandler.DeleteTask)
	})

	return r
}
