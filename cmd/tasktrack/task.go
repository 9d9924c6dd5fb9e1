package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new task",
	Long:  `Create a new task with the given title. New tasks start in status NEW.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := validateCreateArgs(args); err != nil {
			handleError(err)
		}

		description, _ := cmd.Flags().GetString("description")

		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		task, err := c.CreateTask(context.Background(), args[0], description)
		if err != nil {
			handleError(err)
		}

		printTask(os.Stdout, task, jsonOutput)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long:  `List tasks, oldest first, with optional filtering by status.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		status, _ := cmd.Flags().GetString("status")

		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		tasks, err := c.ListTasks(context.Background(), normalizeStatus(status))
		if err != nil {
			handleError(err)
		}

		printTaskList(os.Stdout, tasks, jsonOutput)
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show task details",
	Long:  `Display detailed information about a task.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		task, err := c.GetTask(context.Background(), args[0])
		if err != nil {
			handleError(err)
		}

		printTask(os.Stdout, task, jsonOutput)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <id> <STATUS>",
	Short: "Change a task's status",
	Long: `Move a task to a new status.

Allowed transitions:
  NEW         -> IN_PROGRESS
  IN_PROGRESS -> NEW, DONE
  DONE is final.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		task, err := c.UpdateStatus(context.Background(), args[0], normalizeStatus(args[1]))
		if err != nil {
			handleError(err)
		}

		printTask(os.Stdout, task, jsonOutput)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task",
	Long:  `Permanently delete a task.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		if err := c.DeleteTask(context.Background(), args[0]); err != nil {
			handleError(err)
		}

		printSuccess(os.Stdout, fmt.Sprintf("Task %s deleted", args[0]), jsonOutput)
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server health",
	Long:  `Check that the tasktrack server is running and healthy.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		if err := c.Health(context.Background()); err != nil {
			handleError(err)
		}

		printSuccess(os.Stdout, "Server is healthy", jsonOutput)
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(healthCmd)

	createCmd.Flags().StringP("description", "d", "", "Task description")
	listCmd.Flags().StringP("status", "s", "", "Filter by status (NEW, IN_PROGRESS, DONE)")
}

func validateCreateArgs(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(args[0]) == "" {
		return fmt.Errorf("title cannot be empty")
	}
	return nil
}

// normalizeStatus accepts lower case and dashed spellings such as in-progress.
func normalizeStatus(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
}
