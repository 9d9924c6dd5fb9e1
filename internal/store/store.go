// Package store owns the durable task collection.
//
// Every Store method is one critical section over the whole collection:
// readers share the lock, writers exclude everybody else. Callers that need
// to decide on the current value and write a new one in the same critical
// section use Update.
package store

import (
	"context"
	"errors"
	"sort"

	"github.com/tasktrack/tasktrack/internal/domain"
)

// ErrNotFound is returned by Update when no task has the given id.
var ErrNotFound = errors.New("task not found")

// UpdateFunc receives the stored task and returns its replacement. Returning
// an error aborts the update; nothing is written and the error is passed back
// to the caller of Update unchanged.
type UpdateFunc func(current domain.Task) (domain.Task, error)

// Store is the task persistence contract.
type Store interface {
	// Save inserts or replaces the task with the same id and returns the
	// stored value. The collection is durable when Save returns.
	Save(ctx context.Context, task domain.Task) (domain.Task, error)

	// FindByID returns the task and true, or a zero Task and false when absent.
	FindByID(ctx context.Context, id string) (domain.Task, bool, error)

	// FindAll returns a snapshot of every task, oldest first.
	FindAll(ctx context.Context) ([]domain.Task, error)

	// FindByStatus returns a snapshot of the tasks in status, oldest first.
	FindByStatus(ctx context.Context, status domain.TaskStatus) ([]domain.Task, error)

	// ExistsByID reports whether a task with id is stored.
	ExistsByID(ctx context.Context, id string) (bool, error)

	// DeleteByID removes the task and reports whether it was present.
	DeleteByID(ctx context.Context, id string) (bool, error)

	// Update applies fn to the stored task under one exclusive lock
	// acquisition. It returns ErrNotFound if id is absent.
	Update(ctx context.Context, id string, fn UpdateFunc) (domain.Task, error)

	// Close releases any resources held by the store.
	Close() error
}

// sortTasks orders tasks by creation time, then id.
func sortTasks(tasks []domain.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
}

// errIDChanged guards Update against a replacement with a different identity.
var errIDChanged = errors.New("update must not change the task id")
