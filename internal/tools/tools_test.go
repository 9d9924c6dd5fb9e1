package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/tasktrack/tasktrack/internal/domain"
	"github.com/tasktrack/tasktrack/internal/logging"
	"github.com/tasktrack/tasktrack/internal/service"
	"github.com/tasktrack/tasktrack/internal/store"
)

func setupRegistry(t *testing.T) *Registry {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir(), logging.Discard())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	svc := service.NewTaskService(st, service.WithLogger(logging.Discard()))
	r, err := NewTaskRegistry(svc, logging.Discard())
	if err != nil {
		t.Fatalf("failed to create registry: %v", err)
	}
	return r
}

func call(t *testing.T, r *Registry, name, args string) Result {
	t.Helper()
	result, err := r.Call(context.Background(), name, json.RawMessage(args))
	if err != nil {
		t.Fatalf("call %s(%s) failed: %v", name, args, err)
	}
	return result
}

func mustCreate(t *testing.T, r *Registry, title string) domain.Task {
	t.Helper()
	result := call(t, r, WriteTasksTool, `{"operation":"create","title":"`+title+`"}`)
	if result.Kind != KindTask || result.Task == nil {
		t.Fatalf("expected task result, got %+v", result)
	}
	return *result.Task
}

func requireErrorCode(t *testing.T, result Result, code domain.ErrorCode) {
	t.Helper()
	if result.Kind != KindError || result.Error == nil {
		t.Fatalf("expected error result, got %+v", result)
	}
	if result.Error.Code != string(code) {
		t.Fatalf("expected code %s, got %s (%s)", code, result.Error.Code, result.Error.Message)
	}
}

func TestDefinitions(t *testing.T) {
	r := setupRegistry(t)

	defs := r.Definitions()
	if len(defs) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(defs))
	}
	if defs[0].Name != ReadTasksTool || defs[1].Name != WriteTasksTool {
		t.Errorf("unexpected tool names %s, %s", defs[0].Name, defs[1].Name)
	}
	for _, def := range defs {
		if def.Description == "" {
			t.Errorf("%s: expected description", def.Name)
		}
		var schema map[string]interface{}
		if err := json.Unmarshal(def.InputSchema, &schema); err != nil {
			t.Errorf("%s: schema is not JSON: %v", def.Name, err)
		}
		if schema["type"] != "object" {
			t.Errorf("%s: expected object schema", def.Name)
		}
	}
}

func TestRegister_Duplicate(t *testing.T) {
	r := NewRegistry(logging.Discard())
	def := Definition{Name: "x", InputSchema: json.RawMessage(`{"type":"object"}`)}
	noop := func(context.Context, json.RawMessage) Result { return messageResult("ok", "") }

	if err := r.Register(def, noop); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(def, noop); err == nil {
		t.Error("expected duplicate registration to fail")
	}
	if err := r.Register(Definition{Name: "bad", InputSchema: json.RawMessage(`{"type":`)}, noop); err == nil {
		t.Error("expected invalid schema to fail")
	}
}

func TestCall_UnknownTool(t *testing.T) {
	r := setupRegistry(t)

	_, err := r.Call(context.Background(), "get_all_tasks", nil)
	if !errors.Is(err, ErrUnknownTool) {
		t.Errorf("expected ErrUnknownTool, got %v", err)
	}
}

func TestCall_SchemaValidation(t *testing.T) {
	r := setupRegistry(t)

	tests := []struct {
		name string
		tool string
		args string
	}{
		{"missing operation", WriteTasksTool, `{}`},
		{"wrong type", WriteTasksTool, `{"operation":"create","title":42}`},
		{"unknown argument", WriteTasksTool, `{"operation":"create","title":"x","completed":true}`},
		{"read unknown argument", ReadTasksTool, `{"limit":3}`},
		{"not an object", ReadTasksTool, `[1,2]`},
		{"malformed json", ReadTasksTool, `{"id":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := call(t, r, tt.tool, tt.args)
			requireErrorCode(t, result, domain.ErrCodeValidationFailed)

			details, _ := result.Error.Context["details"].([]string)
			for _, d := range details {
				if strings.Contains(d, "file://") {
					t.Errorf("details leak a filesystem location: %q", d)
				}
			}
		})
	}
}

func TestCall_NullOptionalArguments(t *testing.T) {
	r := setupRegistry(t)
	task := mustCreate(t, r, "Nullable")

	result := call(t, r, ReadTasksTool, `{"id":null,"status":null}`)
	if result.Kind != KindTasks || len(result.Tasks) != 1 {
		t.Fatalf("expected list of one task, got %+v", result)
	}

	result = call(t, r, WriteTasksTool, `{"operation":"create","title":"Second","description":null,"id":null,"status":null}`)
	if result.Kind != KindTask || result.Task.Description != "" {
		t.Fatalf("expected created task, got %+v", result)
	}

	result = call(t, r, WriteTasksTool, `{"operation":"update_status","id":"`+task.ID+`","status":"IN_PROGRESS","title":null,"description":null}`)
	if result.Kind != KindTask || result.Task.Status != domain.StatusInProgress {
		t.Fatalf("expected updated task, got %+v", result)
	}

	result = call(t, r, WriteTasksTool, `{"operation":"delete","id":null}`)
	requireErrorCode(t, result, domain.ErrCodeValidationFailed)
	if result.Error.Message != "ID is required for delete operation" {
		t.Errorf("unexpected message %q", result.Error.Message)
	}
}

func TestReadTasks(t *testing.T) {
	r := setupRegistry(t)

	empty := call(t, r, ReadTasksTool, ``)
	if empty.Kind != KindTasks || len(empty.Tasks) != 0 {
		t.Fatalf("expected empty tasks result, got %+v", empty)
	}

	a := mustCreate(t, r, "a")
	b := mustCreate(t, r, "b")
	call(t, r, WriteTasksTool, `{"operation":"update_status","id":"`+b.ID+`","status":"in_progress"}`)

	one := call(t, r, ReadTasksTool, `{"id":"`+a.ID+`"}`)
	if one.Kind != KindTask || one.Task.ID != a.ID {
		t.Errorf("expected task %s, got %+v", a.ID, one)
	}

	all := call(t, r, ReadTasksTool, `{}`)
	if all.Kind != KindTasks || len(all.Tasks) != 2 {
		t.Errorf("expected 2 tasks, got %+v", all)
	}

	filtered := call(t, r, ReadTasksTool, `{"status":" In_Progress "}`)
	if filtered.Kind != KindTasks || len(filtered.Tasks) != 1 || filtered.Tasks[0].ID != b.ID {
		t.Errorf("expected only %s, got %+v", b.ID, filtered)
	}

	// id wins over status
	byID := call(t, r, ReadTasksTool, `{"id":"`+a.ID+`","status":"DONE"}`)
	if byID.Kind != KindTask {
		t.Errorf("expected task result when id is set, got %s", byID.Kind)
	}

	missing := call(t, r, ReadTasksTool, `{"id":"nope"}`)
	requireErrorCode(t, missing, domain.ErrCodeTaskNotFound)

	bad := call(t, r, ReadTasksTool, `{"status":"ARCHIVED"}`)
	requireErrorCode(t, bad, domain.ErrCodeValidationFailed)
	if bad.Error.Message != msgInvalidStatus {
		t.Errorf("unexpected message %q", bad.Error.Message)
	}
}

func TestWriteTasks_Create(t *testing.T) {
	r := setupRegistry(t)

	result := call(t, r, WriteTasksTool, `{"operation":"CREATE","title":"Write spec","description":"draft"}`)
	if result.Kind != KindTask {
		t.Fatalf("expected task, got %+v", result)
	}
	if result.Task.Status != domain.StatusNew || result.Task.Description != "draft" {
		t.Errorf("unexpected task %+v", result.Task)
	}

	blank := call(t, r, WriteTasksTool, `{"operation":"create","title":"  "}`)
	requireErrorCode(t, blank, domain.ErrCodeValidationFailed)
	if blank.Error.Message != "Title is required for create operation" {
		t.Errorf("unexpected message %q", blank.Error.Message)
	}

	long := call(t, r, WriteTasksTool, `{"operation":"create","title":"`+strings.Repeat("t", 201)+`"}`)
	requireErrorCode(t, long, domain.ErrCodeValidationFailed)
}

func TestWriteTasks_UpdateStatus(t *testing.T) {
	r := setupRegistry(t)
	task := mustCreate(t, r, "move")

	tests := []struct {
		name     string
		args     string
		wantKind Kind
		wantCode domain.ErrorCode
	}{
		{"missing id", `{"operation":"update_status","status":"DONE"}`, KindError, domain.ErrCodeValidationFailed},
		{"missing status", `{"operation":"update_status","id":"` + task.ID + `"}`, KindError, domain.ErrCodeValidationFailed},
		{"bad status", `{"operation":"update_status","id":"` + task.ID + `","status":"LATER"}`, KindError, domain.ErrCodeValidationFailed},
		{"illegal", `{"operation":"update_status","id":"` + task.ID + `","status":"DONE"}`, KindError, domain.ErrCodeInvalidTransition},
		{"unknown id", `{"operation":"update_status","id":"nope","status":"IN_PROGRESS"}`, KindError, domain.ErrCodeTaskNotFound},
		{"legal", `{"operation":"update_status","id":"` + task.ID + `","status":"in_progress"}`, KindTask, ""},
		{"legal again", `{"operation":"Update_Status","id":"` + task.ID + `","status":"DONE"}`, KindTask, ""},
		{"terminal", `{"operation":"update_status","id":"` + task.ID + `","status":"NEW"}`, KindError, domain.ErrCodeInvalidTransition},
	}

	for _, tt := range tests {
		result := call(t, r, WriteTasksTool, tt.args)
		if result.Kind != tt.wantKind {
			t.Fatalf("%s: expected %s, got %+v", tt.name, tt.wantKind, result)
		}
		if tt.wantCode != "" {
			requireErrorCode(t, result, tt.wantCode)
		}
	}

	final := call(t, r, ReadTasksTool, `{"id":"`+task.ID+`"}`)
	if final.Task.Status != domain.StatusDone {
		t.Errorf("expected DONE, got %s", final.Task.Status)
	}
}

func TestWriteTasks_Delete(t *testing.T) {
	r := setupRegistry(t)
	task := mustCreate(t, r, "remove")

	result := call(t, r, WriteTasksTool, `{"operation":"delete","id":"`+task.ID+`"}`)
	if result.Kind != KindMessage || result.Message != "Task deleted successfully" || result.ID != task.ID {
		t.Fatalf("unexpected delete result %+v", result)
	}

	again := call(t, r, WriteTasksTool, `{"operation":"delete","id":"`+task.ID+`"}`)
	requireErrorCode(t, again, domain.ErrCodeTaskNotFound)

	noID := call(t, r, WriteTasksTool, `{"operation":"delete"}`)
	requireErrorCode(t, noID, domain.ErrCodeValidationFailed)
}

func TestWriteTasks_Operation(t *testing.T) {
	r := setupRegistry(t)

	blank := call(t, r, WriteTasksTool, `{"operation":" "}`)
	requireErrorCode(t, blank, domain.ErrCodeValidationFailed)
	if blank.Error.Message != msgOperationMissing {
		t.Errorf("unexpected message %q", blank.Error.Message)
	}

	unknown := call(t, r, WriteTasksTool, `{"operation":"archive"}`)
	requireErrorCode(t, unknown, domain.ErrCodeValidationFailed)
	if unknown.Error.Message != msgInvalidOperation {
		t.Errorf("unexpected message %q", unknown.Error.Message)
	}
}

func TestResult_WireShape(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   []string
		absent []string
	}{
		{"empty tasks", tasksResult(nil), []string{`"kind":"tasks"`, `"tasks":[]`}, []string{`"task"`, `"error"`}},
		{"message", messageResult(msgDeleted, "abc"), []string{`"kind":"message"`, `"id":"abc"`}, []string{`"tasks"`}},
		{"error", errorResult(domain.NewTaskNotFoundError("abc")), []string{`"kind":"error"`, `"code":"TASK_NOT_FOUND"`}, []string{`"task"`}},
		{"internal", errorResult(errors.New("secret")), []string{`"code":"INTERNAL_ERROR"`}, []string{"secret"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.result)
			if err != nil {
				t.Fatalf("marshal failed: %v", err)
			}
			for _, s := range tt.want {
				if !strings.Contains(string(data), s) {
					t.Errorf("expected %s in %s", s, data)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(string(data), s) {
					t.Errorf("did not expect %s in %s", s, data)
				}
			}

			var back Result
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if back.Kind != tt.result.Kind {
				t.Errorf("expected kind %s, got %s", tt.result.Kind, back.Kind)
			}
		})
	}
}
