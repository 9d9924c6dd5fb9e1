package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/tasktrack/tasktrack/internal/domain"
	"github.com/tasktrack/tasktrack/internal/logging"
)

// TasksFileName is the name of the document holding the whole collection.
const TasksFileName = "tasks.json"

// FileStore keeps the task collection as one JSON document mapping id to
// task. Every call reads the document from disk; mutating calls write the
// whole document back before returning.
type FileStore struct {
	dir    string
	path   string
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewFileStore opens the collection stored in dir, creating the directory
// and an empty document if they do not exist yet.
func NewFileStore(dir string, logger *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &FileStore{
		dir:    dir,
		path:   filepath.Join(dir, TasksFileName),
		logger: logging.OrDefault(logger),
	}

	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		if err := s.persist(map[string]domain.Task{}); err != nil {
			return nil, err
		}
		s.logger.Info("initialized tasks file", "path", s.path)
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat tasks file: %w", err)
	}

	return s, nil
}

// Path returns the location of the backing document.
func (s *FileStore) Path() string {
	return s.path
}

// Save inserts or replaces a task.
func (s *FileStore) Save(_ context.Context, task domain.Task) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return domain.Task{}, err
	}
	tasks[task.ID] = task
	if err := s.persist(tasks); err != nil {
		return domain.Task{}, err
	}

	s.logger.Debug("saved task", "task_id", task.ID)
	return task, nil
}

// FindByID looks up a task.
func (s *FileStore) FindByID(_ context.Context, id string) (domain.Task, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks, err := s.load()
	if err != nil {
		return domain.Task{}, false, err
	}
	task, ok := tasks[id]
	return task, ok, nil
}

// FindAll returns every task.
func (s *FileStore) FindAll(_ context.Context) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks, err := s.load()
	if err != nil {
		return nil, err
	}

	out := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task)
	}
	sortTasks(out)
	return out, nil
}

// FindByStatus returns the tasks in status.
func (s *FileStore) FindByStatus(_ context.Context, status domain.TaskStatus) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks, err := s.load()
	if err != nil {
		return nil, err
	}

	out := make([]domain.Task, 0)
	for _, task := range tasks {
		if task.Status == status {
			out = append(out, task)
		}
	}
	sortTasks(out)
	return out, nil
}

// ExistsByID reports whether id is stored.
func (s *FileStore) ExistsByID(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks, err := s.load()
	if err != nil {
		return false, err
	}
	_, ok := tasks[id]
	return ok, nil
}

// DeleteByID removes a task. The document is only rewritten when something
// was removed.
func (s *FileStore) DeleteByID(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return false, err
	}
	if _, ok := tasks[id]; !ok {
		return false, nil
	}
	delete(tasks, id)
	if err := s.persist(tasks); err != nil {
		return false, err
	}

	s.logger.Debug("deleted task", "task_id", id)
	return true, nil
}

// Update reads, transforms and writes one task under the write lock.
func (s *FileStore) Update(_ context.Context, id string, fn UpdateFunc) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return domain.Task{}, err
	}
	current, ok := tasks[id]
	if !ok {
		return domain.Task{}, ErrNotFound
	}

	next, err := fn(current)
	if err != nil {
		return domain.Task{}, err
	}
	if next.ID != id {
		return domain.Task{}, errIDChanged
	}

	tasks[id] = next
	if err := s.persist(tasks); err != nil {
		return domain.Task{}, err
	}

	s.logger.Debug("updated task", "task_id", id)
	return next, nil
}

// Close is a no-op; the file is not held open between calls.
func (s *FileStore) Close() error {
	return nil
}

// load reads the whole document. A missing or empty file is an empty
// collection.
func (s *FileStore) load() (map[string]domain.Task, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]domain.Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks from file: %w", err)
	}
	if len(data) == 0 {
		return map[string]domain.Task{}, nil
	}

	tasks := map[string]domain.Task{}
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks file: %w", err)
	}
	return tasks, nil
}

// persist replaces the document atomically: the new content is written to a
// temporary file in the same directory, synced, then renamed over the old one.
func (s *FileStore) persist(tasks map[string]domain.Task) error {
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+TasksFileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("failed to save tasks to file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to sync tasks file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace tasks file: %w", err)
	}

	syncDir(s.dir)
	return nil
}

// syncDir flushes the directory entry of a rename. Not every platform
// supports it, so failures are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	d.Sync()
	d.Close()
}
