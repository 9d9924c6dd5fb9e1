package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/tasktrack/tasktrack/internal/domain"
	"github.com/tasktrack/tasktrack/internal/logging"
	"github.com/tasktrack/tasktrack/internal/service"
	"github.com/tasktrack/tasktrack/internal/tools"
)

func TestRemoteService_Lifecycle(t *testing.T) {
	server := newAPIServer(t)
	remote := NewRemoteService(newTestClient(server))
	ctx := context.Background()

	task, err := remote.Create(ctx, service.CreateTaskInput{Title: "Write spec", Description: "draft"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if task.Status != domain.StatusNew || task.Description != "draft" {
		t.Fatalf("unexpected task %+v", task)
	}

	got, err := remote.Get(ctx, task.ID)
	if err != nil || got.ID != task.ID {
		t.Fatalf("get = %+v, %v", got, err)
	}

	for _, target := range []domain.TaskStatus{domain.StatusInProgress, domain.StatusDone} {
		if _, err := remote.UpdateStatus(ctx, task.ID, target); err != nil {
			t.Fatalf("update to %s failed: %v", target, err)
		}
	}
	if _, err := remote.UpdateStatus(ctx, task.ID, domain.StatusNew); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("expected invalid transition, got %v", err)
	}

	done := domain.StatusDone
	list, err := remote.List(ctx, service.ListTasksInput{Status: &done})
	if err != nil || len(list) != 1 {
		t.Fatalf("list DONE = %v, %v", list, err)
	}

	if err := remote.Delete(ctx, task.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := remote.Get(ctx, task.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

// Tool calls made through a RemoteService and plain REST calls land in the
// same store, so concurrent writers from both sides are all kept.
func TestRemoteService_ToolsShareServerStore(t *testing.T) {
	server := newAPIServer(t)
	rest := newTestClient(server)

	registry, err := tools.NewTaskRegistry(NewRemoteService(newTestClient(server)), logging.Discard())
	if err != nil {
		t.Fatalf("failed to create registry: %v", err)
	}

	const perSide = 50
	var wg sync.WaitGroup
	for i := 0; i < perSide; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			args := json.RawMessage(fmt.Sprintf(`{"operation":"create","title":"tool %d","description":null}`, i))
			result, err := registry.Call(context.Background(), tools.WriteTasksTool, args)
			if err != nil || result.IsError() {
				t.Errorf("tool create %d failed: %v %+v", i, err, result.Error)
			}
		}(i)
		go func(i int) {
			defer wg.Done()
			if _, err := rest.CreateTask(context.Background(), fmt.Sprintf("rest %d", i), ""); err != nil {
				t.Errorf("rest create %d failed: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	tasks, err := rest.ListTasks(context.Background(), "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 2*perSide {
		t.Errorf("expected %d persisted tasks, got %d", 2*perSide, len(tasks))
	}

	result, err := registry.Call(context.Background(), tools.ReadTasksTool, json.RawMessage(`{"id":null,"status":null}`))
	if err != nil || result.Kind != tools.KindTasks || len(result.Tasks) != 2*perSide {
		t.Errorf("readTasks through the server = %+v, %v", result, err)
	}
}
