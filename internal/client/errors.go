package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"syscall"

	"github.com/tasktrack/tasktrack/internal/domain"
)

// Client-specific errors.
var (
	// ErrServerNotRunning indicates the server is not reachable.
	ErrServerNotRunning = errors.New("server is not running or unreachable")
	// ErrServerUnhealthy indicates the health check failed.
	ErrServerUnhealthy = errors.New("server health check failed")
)

// APIError represents an error response from the API.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// apiErrorResponse wraps the error in the API response format.
type apiErrorResponse struct {
	Error APIError `json:"error"`
}

// parseErrorResponse parses an error response from the API and returns the
// appropriate domain error or a generic API error.
func parseErrorResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read error response: %w", err)
	}

	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error.Code == "" {
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, string(body))
	}

	return mapAPIErrorToDomain(resp.StatusCode, &apiErr.Error)
}

// mapAPIErrorToDomain maps an API error to the appropriate domain error. The
// server's message is kept verbatim.
func mapAPIErrorToDomain(statusCode int, apiErr *APIError) error {
	switch {
	case statusCode == http.StatusNotFound && apiErr.Code == string(domain.ErrCodeTaskNotFound):
		taskID, _ := apiErr.Context["id"].(string)
		return domain.NewTaskNotFoundError(taskID)

	case statusCode == http.StatusBadRequest && apiErr.Code == string(domain.ErrCodeValidationFailed):
		details := extractStringSlice(apiErr.Context, "details")
		err := domain.NewValidationError(details)
		err.Message = apiErr.Message
		return err

	default:
		return &domain.DomainError{
			Code:    domain.ErrorCode(apiErr.Code),
			Message: apiErr.Message,
			Context: apiErr.Context,
		}
	}
}

// extractStringSlice extracts a string slice from a context map.
func extractStringSlice(ctx map[string]interface{}, key string) []string {
	val, ok := ctx[key]
	if !ok {
		return nil
	}

	// JSON unmarshals arrays as []interface{}
	slice, ok := val.([]interface{})
	if !ok {
		return nil
	}

	result := make([]string, 0, len(slice))
	for _, v := range slice {
		if s, ok := v.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

// isConnectionRefused checks if the error is a connection refused error.
func isConnectionRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED)
}
