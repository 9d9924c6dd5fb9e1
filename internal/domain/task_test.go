package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestTaskStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status TaskStatus
		want   bool
	}{
		{"StatusNew is valid", StatusNew, true},
		{"StatusInProgress is valid", StatusInProgress, true},
		{"StatusDone is valid", StatusDone, true},
		{"empty string is invalid", TaskStatus(""), false},
		{"random string is invalid", TaskStatus("random"), false},
		{"lower case is invalid", TaskStatus("new"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.IsValid(); got != tt.want {
				t.Errorf("TaskStatus.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTaskStatus_IsTerminal(t *testing.T) {
	for _, s := range ValidStatuses {
		want := s == StatusDone
		if got := s.IsTerminal(); got != want {
			t.Errorf("%s.IsTerminal() = %v, want %v", s, got, want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in     string
		want   TaskStatus
		wantOK bool
	}{
		{"NEW", StatusNew, true},
		{"in_progress", StatusInProgress, true},
		{"  Done ", StatusDone, true},
		{"", "", false},
		{"CLOSED", "", false},
		{"IN PROGRESS", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseStatus(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseStatus(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNewTask(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	task := NewTask("id-1", "Write spec", "details", now)

	if task.ID != "id-1" {
		t.Errorf("ID = %q, want %q", task.ID, "id-1")
	}
	if task.Status != StatusNew {
		t.Errorf("Status = %v, want %v", task.Status, StatusNew)
	}
	if !task.CreatedAt.Equal(task.UpdatedAt) {
		t.Errorf("CreatedAt %v != UpdatedAt %v", task.CreatedAt, task.UpdatedAt)
	}
	if task.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt location = %v, want UTC", task.CreatedAt.Location())
	}
}

func TestTask_WithStatus(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	task := NewTask("id-1", "Title", "Desc", created)

	t.Run("returns copy and leaves original untouched", func(t *testing.T) {
		updated := task.WithStatus(StatusInProgress, created.Add(time.Minute))

		if task.Status != StatusNew {
			t.Errorf("original Status = %v, want %v", task.Status, StatusNew)
		}
		if updated.Status != StatusInProgress {
			t.Errorf("updated Status = %v, want %v", updated.Status, StatusInProgress)
		}
		if updated.ID != task.ID || updated.Title != task.Title ||
			updated.Description != task.Description || !updated.CreatedAt.Equal(task.CreatedAt) {
			t.Errorf("immutable fields changed: %+v -> %+v", task, updated)
		}
	})

	t.Run("updatedAt strictly increases even when clock does not", func(t *testing.T) {
		updated := task.WithStatus(StatusInProgress, created)
		if !updated.UpdatedAt.After(task.UpdatedAt) {
			t.Errorf("UpdatedAt %v not after %v", updated.UpdatedAt, task.UpdatedAt)
		}

		backwards := task.WithStatus(StatusInProgress, created.Add(-time.Hour))
		if !backwards.UpdatedAt.After(task.UpdatedAt) {
			t.Errorf("UpdatedAt %v not after %v", backwards.UpdatedAt, task.UpdatedAt)
		}
	})
}

func TestTask_JSONShape(t *testing.T) {
	task := NewTask("id-1", "Title", "Desc", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	for _, key := range []string{"id", "title", "description", "status", "createdAt", "updatedAt"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("JSON missing key %q: %s", key, data)
		}
	}
	if raw["status"] != "NEW" {
		t.Errorf("status = %v, want NEW", raw["status"])
	}
	if raw["createdAt"] != "2026-01-02T03:04:05Z" {
		t.Errorf("createdAt = %v, want ISO-8601 instant", raw["createdAt"])
	}
}

func TestTask_JSONShape_EmptyDescription(t *testing.T) {
	task := NewTask("id-1", "Title", "", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	desc, ok := raw["description"]
	if !ok {
		t.Fatalf("JSON missing key %q: %s", "description", data)
	}
	if desc != "" {
		t.Errorf("description = %v, want empty string", desc)
	}
}

func TestValidateTaskFields(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		wantErrs    int
	}{
		{"valid", "Title", "Desc", 0},
		{"empty title", "", "", 1},
		{"blank title", "   ", "", 1},
		{"title at limit", strings.Repeat("a", MaxTitleLength), "", 0},
		{"title over limit", strings.Repeat("a", MaxTitleLength+1), "", 1},
		{"multibyte title at limit", strings.Repeat("é", MaxTitleLength), "", 0},
		{"description over limit", "Title", strings.Repeat("d", MaxDescriptionLength+1), 1},
		{"both invalid", "", strings.Repeat("d", MaxDescriptionLength+1), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateTaskFields(tt.title, tt.description)
			if len(got) != tt.wantErrs {
				t.Errorf("ValidateTaskFields() = %v, want %d errors", got, tt.wantErrs)
			}
		})
	}
}
