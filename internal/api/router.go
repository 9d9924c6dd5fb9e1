package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tasktrack/tasktrack/internal/api/handler"
	"github.com/tasktrack/tasktrack/internal/api/middleware"
	"github.com/tasktrack/tasktrack/internal/logging"
	"github.com/tasktrack/tasktrack/internal/service"
)

// NewRouter creates and configures the HTTP router. toolEndpoint serves
// POST /mcp and may be nil.
func NewRouter(svc *service.TaskService, toolEndpoint http.Handler, logger *slog.Logger) *chi.Mux {
	logger = logging.OrDefault(logger)
	r := chi.NewRouter()

	// Global middleware chain
	r.Use(middleware.Recovery(logger))
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.ClientID)
	r.Use(middleware.Logging(logger))

	// Initialize handlers
	systemHandler := handler.NewSystemHandler()
	taskHandler := handler.NewTaskHandler(svc)

	r.NotFound(systemHandler.NotFound)
	r.MethodNotAllowed(systemHandler.MethodNotAllowed)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", systemHandler.Health)

		// Task CRUD
		r.Get("/tasks", taskHandler.ListTasks)
		r.Post("/tasks", taskHandler.CreateTask)
		r.Get("/tasks/{id}", taskHandler.GetTask)
		r.Delete("/tasks/{id}", taskHandler.DeleteTask)

		// Status transitions
		r.Patch("/tasks/{id}/status", taskHandler.UpdateStatus)
	})

	if toolEndpoint != nil {
		r.Method(http.MethodPost, "/mcp", toolEndpoint)
	}

	return r
}
