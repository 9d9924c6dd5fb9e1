package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	StatusNew        TaskStatus = "NEW"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
)

// Field length limits, counted in runes.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
)

// ValidStatuses contains all valid task status values in lifecycle order.
var ValidStatuses = []TaskStatus{StatusNew, StatusInProgress, StatusDone}

// IsValid checks if the status is a valid task status.
func (s TaskStatus) IsValid() bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition can leave this status.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusDone
}

func (s TaskStatus) String() string {
	return string(s)
}

// ParseStatus converts a wire token into a TaskStatus. Matching ignores case
// and surrounding whitespace, so "in_progress" and " DONE " are accepted.
func ParseStatus(s string) (TaskStatus, bool) {
	status := TaskStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", false
	}
	return status, true
}

// Task represents a unit of work in the system.
//
// Task values are snapshots. A status change produces a new value through
// WithStatus; nothing outside this package assigns Status directly.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewTask creates a task in status NEW with both timestamps set to now.
func NewTask(id, title, description string, now time.Time) Task {
	now = now.UTC()
	return Task{
		ID:          id,
		Title:       title,
		Description: description,
		Status:      StatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// WithStatus returns a copy of t moved to status and stamped with now.
// It does not check the transition; callers validate with CanTransition first.
// The returned UpdatedAt is always strictly after t.UpdatedAt.
func (t Task) WithStatus(status TaskStatus, now time.Time) Task {
	now = now.UTC()
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Nanosecond)
	}
	t.Status = status
	t.UpdatedAt = now
	return t
}

// ValidateTaskFields checks title and description against the field rules
// and returns one message per violation.
func ValidateTaskFields(title, description string) []string {
	var details []string

	if strings.TrimSpace(title) == "" {
		details = append(details, "title is required and cannot be blank")
	} else if utf8.RuneCountInString(title) > MaxTitleLength {
		details = append(details, "title must be between 1 and 200 characters")
	}

	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		details = append(details, "description cannot exceed 1000 characters")
	}

	return details
}
