package client

import (
	"context"

	"github.com/tasktrack/tasktrack/internal/domain"
	"github.com/tasktrack/tasktrack/internal/service"
)

// RemoteService exposes the lifecycle operations of a running server with
// the same signatures as service.TaskService. Every call goes through the
// server's HTTP API, so the server's store stays the only writer.
type RemoteService struct {
	client *Client
}

// NewRemoteService wraps c.
func NewRemoteService(c *Client) *RemoteService {
	return &RemoteService{client: c}
}

// Create creates a task.
func (s *RemoteService) Create(ctx context.Context, input service.CreateTaskInput) (domain.Task, error) {
	task, err := s.client.CreateTask(ctx, input.Title, input.Description)
	if err != nil {
		return domain.Task{}, err
	}
	return *task, nil
}

// Get retrieves a task by id.
func (s *RemoteService) Get(ctx context.Context, id string) (domain.Task, error) {
	task, err := s.client.GetTask(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	return *task, nil
}

// List lists tasks, filtered by input.Status when set.
func (s *RemoteService) List(ctx context.Context, input service.ListTasksInput) ([]domain.Task, error) {
	status := ""
	if input.Status != nil {
		status = string(*input.Status)
	}
	return s.client.ListTasks(ctx, status)
}

// UpdateStatus moves a task to target.
func (s *RemoteService) UpdateStatus(ctx context.Context, id string, target domain.TaskStatus) (domain.Task, error) {
	task, err := s.client.UpdateStatus(ctx, id, string(target))
	if err != nil {
		return domain.Task{}, err
	}
	return *task, nil
}

// Delete deletes a task.
func (s *RemoteService) Delete(ctx context.Context, id string) error {
	return s.client.DeleteTask(ctx, id)
}
