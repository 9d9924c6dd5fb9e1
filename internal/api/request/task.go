package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tasktrack/tasktrack/internal/domain"
)

// MaxBodyBytes caps the size of a request body.
const MaxBodyBytes = 1 << 20

// CreateTaskRequest represents a request to create a task.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Validate validates the create task request.
func (r *CreateTaskRequest) Validate() []string {
	return domain.ValidateTaskFields(r.Title, r.Description)
}

// UpdateStatusRequest represents a request to change a task's status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Parse validates the request and returns the target status.
func (r *UpdateStatusRequest) Parse() (domain.TaskStatus, []string) {
	if r.Status == "" {
		return "", []string{"status is required"}
	}
	status, ok := domain.ParseStatus(r.Status)
	if !ok {
		return "", []string{invalidStatusMessage(r.Status)}
	}
	return status, nil
}

// DecodeJSON decodes a single JSON object from the request body into v.
// Bodies over MaxBodyBytes and unknown fields are rejected.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return fmt.Errorf("request body exceeds %d bytes", MaxBodyBytes)
		case errors.Is(err, io.EOF):
			return errors.New("request body is empty")
		default:
			return fmt.Errorf("invalid JSON body: %v", err)
		}
	}
	if dec.More() {
		return errors.New("invalid JSON body: trailing data")
	}
	return nil
}

// ParseStatus extracts the optional status filter from query parameters.
func ParseStatus(r *http.Request) (*domain.TaskStatus, []string) {
	s := r.URL.Query().Get("status")
	if s == "" {
		return nil, nil
	}

	status, ok := domain.ParseStatus(s)
	if !ok {
		return nil, []string{invalidStatusMessage(s)}
	}
	return &status, nil
}

func invalidStatusMessage(s string) string {
	return fmt.Sprintf("invalid status %q: must be one of NEW, IN_PROGRESS, DONE", s)
}
