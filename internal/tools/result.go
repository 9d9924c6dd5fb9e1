package tools

import (
	"encoding/json"
	"errors"

	"github.com/tasktrack/tasktrack/internal/domain"
)

// Kind tags which field of a Result is populated.
type Kind string

const (
	KindTask    Kind = "task"
	KindTasks   Kind = "tasks"
	KindMessage Kind = "message"
	KindError   Kind = "error"
)

// Result is the outcome of one tool call.
type Result struct {
	Kind    Kind
	Task    *domain.Task
	Tasks   []domain.Task
	Message string
	ID      string
	Error   *ErrorInfo
}

// ErrorInfo describes a failed tool call.
type ErrorInfo struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// IsError reports whether the call failed.
func (r Result) IsError() bool {
	return r.Kind == KindError
}

// MarshalJSON writes only the fields that belong to the result kind. A tasks
// result always carries an array, even when empty.
func (r Result) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{"kind": r.Kind}
	switch r.Kind {
	case KindTask:
		out["task"] = r.Task
	case KindTasks:
		tasks := r.Tasks
		if tasks == nil {
			tasks = []domain.Task{}
		}
		out["tasks"] = tasks
	case KindMessage:
		out["message"] = r.Message
		if r.ID != "" {
			out["id"] = r.ID
		}
	case KindError:
		out["error"] = r.Error
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the wire shape written by MarshalJSON.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind    Kind          `json:"kind"`
		Task    *domain.Task  `json:"task"`
		Tasks   []domain.Task `json:"tasks"`
		Message string        `json:"message"`
		ID      string        `json:"id"`
		Error   *ErrorInfo    `json:"error"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Result{
		Kind:    raw.Kind,
		Task:    raw.Task,
		Tasks:   raw.Tasks,
		Message: raw.Message,
		ID:      raw.ID,
		Error:   raw.Error,
	}
	return nil
}

func taskResult(task domain.Task) Result {
	return Result{Kind: KindTask, Task: &task}
}

func tasksResult(tasks []domain.Task) Result {
	return Result{Kind: KindTasks, Tasks: tasks}
}

func messageResult(message, id string) Result {
	return Result{Kind: KindMessage, Message: message, ID: id}
}

// errorResult converts a service error into an error result. Errors that are
// not domain errors are reported as opaque internal errors.
func errorResult(err error) Result {
	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		domainErr = domain.NewInternalError(err)
	}
	return Result{
		Kind: KindError,
		Error: &ErrorInfo{
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
			Context: domainErr.Context,
		},
	}
}

// invalidArguments reports a call whose arguments were rejected before
// reaching the service.
func invalidArguments(message string, details ...string) Result {
	ctx := map[string]interface{}{}
	if len(details) > 0 {
		ctx["details"] = details
	}
	return Result{
		Kind: KindError,
		Error: &ErrorInfo{
			Code:    string(domain.ErrCodeValidationFailed),
			Message: message,
			Context: ctx,
		},
	}
}
