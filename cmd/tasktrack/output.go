package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/tasktrack/tasktrack/internal/domain"
)

const timeFormat = "2006-01-02 15:04:05"

func writeJSON(w io.Writer, v interface{}) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// printTask prints a single task to the writer
func printTask(w io.Writer, task *domain.Task, jsonOutput bool) {
	if jsonOutput {
		writeJSON(w, task)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", task.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", task.Title)
	fmt.Fprintf(tw, "Status:\t%s\n", task.Status)
	if task.Description != "" {
		fmt.Fprintf(tw, "Description:\t%s\n", task.Description)
	}
	fmt.Fprintf(tw, "Created:\t%s\n", task.CreatedAt.Local().Format(timeFormat))
	fmt.Fprintf(tw, "Updated:\t%s\n", task.UpdatedAt.Local().Format(timeFormat))
	tw.Flush()
}

// printTaskList prints tasks as a table
func printTaskList(w io.Writer, tasks []domain.Task, jsonOutput bool) {
	if jsonOutput {
		if tasks == nil {
			tasks = []domain.Task{}
		}
		writeJSON(w, tasks)
		return
	}

	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tTITLE\tSTATUS\tUPDATED\n")
	fmt.Fprintf(tw, "--\t-----\t------\t-------\n")
	for _, task := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			task.ID, truncate(task.Title, 40), task.Status, task.UpdatedAt.Local().Format(timeFormat))
	}
	tw.Flush()
}

// printError prints an error message. Domain errors carry their code.
func printError(w io.Writer, err error, jsonOutput bool) {
	if jsonOutput {
		body := map[string]interface{}{
			"message": err.Error(),
		}
		var de *domain.DomainError
		if errors.As(err, &de) {
			body["code"] = string(de.Code)
			body["message"] = de.Message
			if len(de.Context) > 0 {
				body["context"] = de.Context
			}
		}
		writeJSON(w, map[string]interface{}{"error": body})
		return
	}

	fmt.Fprintf(w, "Error: %s\n", err.Error())
	if hint := transitionHint(err); hint != "" {
		fmt.Fprintln(w, hint)
	}
}

// transitionHint names the statuses a rejected status change could have
// targeted instead. It is empty for every other error.
func transitionHint(err error) string {
	var de *domain.DomainError
	if !domain.IsInvalidTransition(err) || !errors.As(err, &de) {
		return ""
	}

	allowed := de.AllowedFromContext()
	if len(allowed) == 0 {
		return "Hint: DONE is final; the task can no longer change status."
	}
	names := make([]string, len(allowed))
	for i, s := range allowed {
		names[i] = string(s)
	}
	return "Hint: allowed next status: " + strings.Join(names, ", ")
}

// printSuccess prints a success message
func printSuccess(w io.Writer, message string, jsonOutput bool) {
	if jsonOutput {
		writeJSON(w, map[string]interface{}{
			"message": message,
		})
		return
	}

	fmt.Fprintln(w, message)
}

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
