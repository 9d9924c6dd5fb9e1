package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tasktrack/tasktrack/internal/domain"
	"github.com/tasktrack/tasktrack/internal/logging"
)

// schema bootstraps the tasks table. There are no migrations.
const schema = `
CREATE TABLE IF NOT EXISTS tasks (
    id          TEXT PRIMARY KEY,
    title       TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    status      TEXT NOT NULL DEFAULT 'NEW'
                CHECK (status IN ('NEW', 'IN_PROGRESS', 'DONE')),
    created_at  TEXT NOT NULL,
    updated_at  TEXT NOT NULL
);

-- Index for listing tasks by status
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);

-- Index for ordered listing
CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at, id);
`

// timeLayout is fixed width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const taskColumns = "id, title, description, status, created_at, updated_at"

// SQLiteStore implements Store on a single SQLite table, one row per task.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewSQLiteStore opens the database at dsn. The dsn can be a file path or
// ":memory:" for an in-memory database.
func NewSQLiteStore(dsn string, logger *slog.Logger) (*SQLiteStore, error) {
	// Configure connection string with pragmas
	connStr := dsn
	if !strings.Contains(dsn, "?") {
		connStr += "?"
	} else {
		connStr += "&"
	}
	connStr += "_journal_mode=WAL&_busy_timeout=5000&_synchronous=FULL"

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if strings.HasPrefix(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, logger: logging.OrDefault(logger)}, nil
}

// Save inserts or replaces a task.
func (s *SQLiteStore) Save(ctx context.Context, task domain.Task) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := upsertTask(ctx, s.db, task); err != nil {
		return domain.Task{}, fmt.Errorf("failed to save task: %w", err)
	}

	s.logger.Debug("saved task", "task_id", task.ID)
	return task, nil
}

// FindByID looks up a task.
func (s *SQLiteStore) FindByID(ctx context.Context, id string) (domain.Task, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, false, nil
	}
	if err != nil {
		return domain.Task{}, false, fmt.Errorf("failed to load task: %w", err)
	}
	return task, true, nil
}

// FindAll returns every task.
func (s *SQLiteStore) FindAll(ctx context.Context) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.query(ctx, "SELECT "+taskColumns+" FROM tasks ORDER BY created_at ASC, id ASC")
}

// FindByStatus returns the tasks in status.
func (s *SQLiteStore) FindByStatus(ctx context.Context, status domain.TaskStatus) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.query(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE status = ? ORDER BY created_at ASC, id ASC",
		string(status))
}

// ExistsByID reports whether id is stored.
func (s *SQLiteStore) ExistsByID(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks WHERE id = ?", id).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check task: %w", err)
	}
	return n > 0, nil
}

// DeleteByID removes a task.
func (s *SQLiteStore) DeleteByID(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}

	if rowsAffected > 0 {
		s.logger.Debug("deleted task", "task_id", id)
	}
	return rowsAffected > 0, nil
}

// Update reads, transforms and writes one task in a single transaction
// under the write lock.
func (s *SQLiteStore) Update(ctx context.Context, id string, fn UpdateFunc) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Task{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	current, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, ErrNotFound
	}
	if err != nil {
		return domain.Task{}, fmt.Errorf("failed to load task: %w", err)
	}

	next, err := fn(current)
	if err != nil {
		return domain.Task{}, err
	}
	if next.ID != id {
		return domain.Task{}, errIDChanged
	}

	if err := upsertTask(ctx, tx, next); err != nil {
		return domain.Task{}, fmt.Errorf("failed to save task: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Task{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Debug("updated task", "task_id", id)
	return next, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func upsertTask(ctx context.Context, db execer, task domain.Task) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			status = excluded.status,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`,
		task.ID,
		task.Title,
		task.Description,
		string(task.Status),
		task.CreatedAt.UTC().Format(timeLayout),
		task.UpdatedAt.UTC().Format(timeLayout),
	)
	return err
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...interface{}) ([]domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row scanner) (domain.Task, error) {
	var task domain.Task
	var status, createdAt, updatedAt string

	if err := row.Scan(&task.ID, &task.Title, &task.Description, &status, &createdAt, &updatedAt); err != nil {
		return domain.Task{}, err
	}

	task.Status = domain.TaskStatus(status)

	var err error
	if task.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return domain.Task{}, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	if task.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return domain.Task{}, fmt.Errorf("invalid updated_at %q: %w", updatedAt, err)
	}
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	return task, nil
}
