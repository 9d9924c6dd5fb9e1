package tools

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/tasktrack/tasktrack/internal/domain"
	"github.com/tasktrack/tasktrack/internal/service"
)

// Tool names.
const (
	ReadTasksTool  = "readTasks"
	WriteTasksTool = "writeTasks"
)

// Write operations accepted by writeTasks.
const (
	OpCreate       = "create"
	OpUpdateStatus = "update_status"
	OpDelete       = "delete"
)

const (
	msgInvalidStatus    = "Invalid status value. Allowed values are: NEW, IN_PROGRESS, DONE"
	msgOperationMissing = "Operation is required. Allowed values: create, update_status, delete"
	msgInvalidOperation = "Invalid operation. Allowed values: create, update_status, delete"
	msgDeleted          = "Task deleted successfully"
)

const readTasksDescription = `Retrieves task information from the task tracker.
If 'id' is provided, returns that task.
If 'id' is omitted, lists all tasks, optionally filtered by 'status' (NEW, IN_PROGRESS or DONE).`

const writeTasksDescription = `Performs write operations on tasks. Specify the operation:
- 'create': creates a task in status NEW. Requires 'title', optional 'description'.
- 'update_status': changes a task's status. Requires 'id' and 'status'.
  Allowed moves: NEW->IN_PROGRESS, IN_PROGRESS->NEW, IN_PROGRESS->DONE. DONE is final.
- 'delete': deletes a task. Requires 'id'.`

// Optional arguments accept null, which reads as absent.
var readTasksSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "id": {"type": ["string", "null"], "description": "Task id. When set, a single task is returned."},
    "status": {"type": ["string", "null"], "description": "Status filter when listing: NEW, IN_PROGRESS or DONE."}
  },
  "additionalProperties": false
}`)

var writeTasksSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "operation": {"type": "string", "description": "One of create, update_status, delete."},
    "id": {"type": ["string", "null"], "description": "Task id, required for update_status and delete."},
    "title": {"type": ["string", "null"], "description": "Task title (1-200 characters), required for create."},
    "description": {"type": ["string", "null"], "description": "Task description (at most 1000 characters)."},
    "status": {"type": ["string", "null"], "description": "Target status for update_status: NEW, IN_PROGRESS or DONE."}
  },
  "required": ["operation"],
  "additionalProperties": false
}`)

type readTasksArgs struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type writeTasksArgs struct {
	Operation   string `json:"operation"`
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// TaskOperations is the lifecycle contract the task tools call into.
// *service.TaskService satisfies it in-process; client.RemoteService
// satisfies it through a running server's HTTP API.
type TaskOperations interface {
	Create(ctx context.Context, input service.CreateTaskInput) (domain.Task, error)
	Get(ctx context.Context, id string) (domain.Task, error)
	List(ctx context.Context, input service.ListTasksInput) ([]domain.Task, error)
	UpdateStatus(ctx context.Context, id string, target domain.TaskStatus) (domain.Task, error)
	Delete(ctx context.Context, id string) error
}

// TaskTools binds the task tools to a set of task operations.
type TaskTools struct {
	svc TaskOperations
}

// NewTaskRegistry returns a registry holding readTasks and writeTasks.
func NewTaskRegistry(svc TaskOperations, logger *slog.Logger) (*Registry, error) {
	t := &TaskTools{svc: svc}
	r := NewRegistry(logger)

	if err := r.Register(Definition{
		Name:        ReadTasksTool,
		Description: readTasksDescription,
		InputSchema: readTasksSchema,
	}, t.ReadTasks); err != nil {
		return nil, err
	}
	if err := r.Register(Definition{
		Name:        WriteTasksTool,
		Description: writeTasksDescription,
		InputSchema: writeTasksSchema,
	}, t.WriteTasks); err != nil {
		return nil, err
	}
	return r, nil
}

// ReadTasks returns one task when id is set, otherwise the (filtered) list.
func (t *TaskTools) ReadTasks(ctx context.Context, raw json.RawMessage) Result {
	var args readTasksArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return invalidArguments("Arguments do not match the tool schema", err.Error())
	}

	if id := strings.TrimSpace(args.ID); id != "" {
		task, err := t.svc.Get(ctx, id)
		if err != nil {
			return errorResult(err)
		}
		return taskResult(task)
	}

	var filter *domain.TaskStatus
	if strings.TrimSpace(args.Status) != "" {
		status, ok := domain.ParseStatus(args.Status)
		if !ok {
			return invalidArguments(msgInvalidStatus)
		}
		filter = &status
	}

	tasks, err := t.svc.List(ctx, service.ListTasksInput{Status: filter})
	if err != nil {
		return errorResult(err)
	}
	return tasksResult(tasks)
}

// WriteTasks dispatches on the operation argument.
func (t *TaskTools) WriteTasks(ctx context.Context, raw json.RawMessage) Result {
	var args writeTasksArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return invalidArguments("Arguments do not match the tool schema", err.Error())
	}

	op := strings.ToLower(strings.TrimSpace(args.Operation))
	switch op {
	case "":
		return invalidArguments(msgOperationMissing)
	case OpCreate:
		return t.create(ctx, args)
	case OpUpdateStatus:
		return t.updateStatus(ctx, args)
	case OpDelete:
		return t.delete(ctx, args)
	default:
		return invalidArguments(msgInvalidOperation)
	}
}

func (t *TaskTools) create(ctx context.Context, args writeTasksArgs) Result {
	if strings.TrimSpace(args.Title) == "" {
		return invalidArguments("Title is required for create operation")
	}

	task, err := t.svc.Create(ctx, service.CreateTaskInput{
		Title:       args.Title,
		Description: args.Description,
	})
	if err != nil {
		return errorResult(err)
	}
	return taskResult(task)
}

func (t *TaskTools) updateStatus(ctx context.Context, args writeTasksArgs) Result {
	id := strings.TrimSpace(args.ID)
	if id == "" {
		return invalidArguments("ID is required for update_status operation")
	}
	if strings.TrimSpace(args.Status) == "" {
		return invalidArguments("Status is required for update_status operation")
	}
	status, ok := domain.ParseStatus(args.Status)
	if !ok {
		return invalidArguments(msgInvalidStatus)
	}

	task, err := t.svc.UpdateStatus(ctx, id, status)
	if err != nil {
		return errorResult(err)
	}
	return taskResult(task)
}

func (t *TaskTools) delete(ctx context.Context, args writeTasksArgs) Result {
	id := strings.TrimSpace(args.ID)
	if id == "" {
		return invalidArguments("ID is required for delete operation")
	}

	if err := t.svc.Delete(ctx, id); err != nil {
		return errorResult(err)
	}
	return messageResult(msgDeleted, id)
}
