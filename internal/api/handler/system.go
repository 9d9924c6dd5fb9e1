package handler

import (
	"net/http"

	"github.com/tasktrack/tasktrack/internal/api/response"
)

// SystemHandler handles system-level operations.
type SystemHandler struct{}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{}
}

// Health handles GET /api/health.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{"status": "ok"})
}

// NotFound answers unmatched routes with the standard error body.
func (h *SystemHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusNotFound, response.ErrorResponse{
		Error: response.ErrorBody{
			Code:    "ROUTE_NOT_FOUND",
			Message: "No route for " + r.Method + " " + r.URL.Path,
		},
	})
}

// MethodNotAllowed answers known routes called with the wrong method.
func (h *SystemHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusMethodNotAllowed, response.ErrorResponse{
		Error: response.ErrorBody{
			Code:    "METHOD_NOT_ALLOWED",
			Message: "Method " + r.Method + " is not allowed on " + r.URL.Path,
		},
	})
}
