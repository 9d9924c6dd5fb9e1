// Package service implements the task lifecycle on top of a store.Store.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/tasktrack/tasktrack/internal/domain"
	"github.com/tasktrack/tasktrack/internal/logging"
	"github.com/tasktrack/tasktrack/internal/store"
	"github.com/tasktrack/tasktrack/pkg/idgen"
)

// TaskService handles task business logic.
type TaskService struct {
	store  store.Store
	now    func() time.Time
	newID  func() (string, error)
	logger *slog.Logger
}

// Option configures a TaskService.
type Option func(*TaskService)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		s.now = now
	}
}

// WithIDGenerator overrides how new task ids are produced.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(s *TaskService) {
		s.newID = gen
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *TaskService) {
		s.logger = logger
	}
}

// NewTaskService creates a new TaskService.
func NewTaskService(st store.Store, opts ...Option) *TaskService {
	s := &TaskService{
		store: st,
		now:   time.Now,
		newID: idgen.Generate,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrDefault(s.logger)
	return s
}

// CreateTaskInput contains the input for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
}

// Create creates a new task in status NEW.
func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (domain.Task, error) {
	if details := domain.ValidateTaskFields(input.Title, input.Description); len(details) > 0 {
		return domain.Task{}, domain.NewValidationError(details)
	}

	id, err := s.newID()
	if err != nil {
		return domain.Task{}, s.internal(ctx, "create", "", err)
	}

	task := domain.NewTask(id, input.Title, input.Description, s.now())
	saved, err := s.store.Save(ctx, task)
	if err != nil {
		return domain.Task{}, s.internal(ctx, "create", id, err)
	}

	s.logger.InfoContext(ctx, "task created", "task_id", saved.ID)
	return saved, nil
}

// Get retrieves a task by ID.
func (s *TaskService) Get(ctx context.Context, id string) (domain.Task, error) {
	task, ok, err := s.store.FindByID(ctx, id)
	if err != nil {
		return domain.Task{}, s.internal(ctx, "get", id, err)
	}
	if !ok {
		return domain.Task{}, domain.NewTaskNotFoundError(id)
	}
	return task, nil
}

// ListTasksInput contains the input for listing tasks.
type ListTasksInput struct {
	Status *domain.TaskStatus
}

// List returns all tasks, or only those in Status when it is set.
// The result is never nil.
func (s *TaskService) List(ctx context.Context, input ListTasksInput) ([]domain.Task, error) {
	var (
		tasks []domain.Task
		err   error
	)
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, domain.NewValidationError([]string{"invalid status: " + string(*input.Status)})
		}
		tasks, err = s.store.FindByStatus(ctx, *input.Status)
	} else {
		tasks, err = s.store.FindAll(ctx)
	}
	if err != nil {
		return nil, s.internal(ctx, "list", "", err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	removed, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return s.internal(ctx, "delete", id, err)
	}
	if !removed {
		return domain.NewTaskNotFoundError(id)
	}

	s.logger.InfoContext(ctx, "task deleted", "task_id", id)
	return nil
}

// internal logs a store failure and hides it behind an INTERNAL_ERROR.
func (s *TaskService) internal(ctx context.Context, op, id string, err error) error {
	s.logger.ErrorContext(ctx, "task store failure", "op", op, "task_id", id, "error", err)
	return domain.NewInternalError(err)
}
