package service

import (
	"context"
	"errors"

	"github.com/tasktrack/tasktrack/internal/domain"
	"github.com/tasktrack/tasktrack/internal/store"
)

// UpdateStatus moves a task to target. The transition is checked against the
// value read inside the same store update that writes the result.
func (s *TaskService) UpdateStatus(ctx context.Context, id string, target domain.TaskStatus) (domain.Task, error) {
	if !target.IsValid() {
		return domain.Task{}, domain.NewValidationError([]string{"invalid status: " + string(target)})
	}

	var from domain.TaskStatus
	task, err := s.store.Update(ctx, id, func(current domain.Task) (domain.Task, error) {
		if !domain.CanTransition(current.Status, target) {
			return domain.Task{}, domain.NewInvalidTransitionError(current.Status, target)
		}
		from = current.Status
		return current.WithStatus(target, s.now()), nil
	})
	if err != nil {
		var domainErr *domain.DomainError
		switch {
		case errors.Is(err, store.ErrNotFound):
			return domain.Task{}, domain.NewTaskNotFoundError(id)
		case errors.As(err, &domainErr):
			return domain.Task{}, domainErr
		default:
			return domain.Task{}, s.internal(ctx, "update_status", id, err)
		}
	}

	s.logger.InfoContext(ctx, "task status changed",
		"task_id", id, "from", string(from), "to", string(target))
	return task, nil
}
