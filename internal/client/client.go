package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tasktrack/tasktrack/internal/domain"
)

// DefaultClientID identifies the CLI to the server.
const DefaultClientID = "tasktrack-cli"

// Client is an HTTP client for the tasktrack server API.
type Client struct {
	baseURL  string       // http://host:port
	clientID string       // X-Tasktrack-Client header value
	http     *http.Client // HTTP client
}

// NewClient creates a new tasktrack API client for the server at addr
// (host:port).
func NewClient(addr string, clientID string) *Client {
	if clientID == "" {
		clientID = DefaultClientID
	}
	return &Client{
		baseURL:  "http://" + addr,
		clientID: clientID,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Health checks if the server is healthy.
func (c *Client) Health(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return ErrServerNotRunning
		}
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ErrServerUnhealthy
	}

	return nil
}

// CreateTask creates a new task.
func (c *Client) CreateTask(ctx context.Context, title, description string) (*domain.Task, error) {
	body := createTaskRequest{Title: title, Description: description}

	req, err := c.newJSONRequest(ctx, http.MethodPost, "/api/tasks", body)
	if err != nil {
		return nil, err
	}

	var task domain.Task
	if err := c.do(req, "create task", http.StatusCreated, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTask retrieves a task by ID.
func (c *Client) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	req, err := c.newRequest(ctx, http.MethodGet, taskPath(id), nil)
	if err != nil {
		return nil, err
	}

	var task domain.Task
	if err := c.do(req, "get task", http.StatusOK, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasks lists tasks, optionally only those in status.
func (c *Client) ListTasks(ctx context.Context, status string) ([]domain.Task, error) {
	path := "/api/tasks"
	if status != "" {
		params := url.Values{}
		params.Set("status", status)
		path = path + "?" + params.Encode()
	}

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	tasks := []domain.Task{}
	if err := c.do(req, "list tasks", http.StatusOK, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateStatus moves a task to status.
func (c *Client) UpdateStatus(ctx context.Context, id, status string) (*domain.Task, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPatch, taskPath(id)+"/status", updateStatusRequest{Status: status})
	if err != nil {
		return nil, err
	}

	var task domain.Task
	if err := c.do(req, "update status", http.StatusOK, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, taskPath(id), nil)
	if err != nil {
		return err
	}
	return c.do(req, "delete task", http.StatusNoContent, nil)
}

// do sends req and decodes the body into out when the response has status
// want. Any other status is turned into a domain error.
func (c *Client) do(req *http.Request, op string, want int, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return ErrServerNotRunning
		}
		return fmt.Errorf("%s failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return parseErrorResponse(resp)
	}
	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}

func taskPath(id string) string {
	return "/api/tasks/" + url.PathEscape(id)
}

// newRequest creates a new HTTP request with common headers.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	reqURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Tasktrack-Client", c.clientID)

	return req, nil
}

// newJSONRequest creates a new HTTP request with JSON body.
func (c *Client) newJSONRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, &buf)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	return req, nil
}
