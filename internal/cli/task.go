package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/datawork/pkg/models"
)

// errRepoNotInitialized is returned by every command that needs TaskRepo.
var errRepoNotInitialized = errors.New("task repository not initialized")

// Flag values for "dw add".
var (
	addDescription string
	addStatus      string
	addPriority    string
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new task",
	Long: `Add a new task with the given title.

Status defaults to pending and priority to medium. Multi-word titles can be
given unquoted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskRepo == nil {
			return errRepoNotInitialized
		}

		title := strings.TrimSpace(strings.Join(args, " "))
		if title == "" {
			return fmt.Errorf("title must not be empty")
		}

		input := models.NewTask{
			Title:       title,
			Description: strings.TrimSpace(addDescription),
		}
		if addStatus != "" {
			status, err := models.ParseTaskStatus(addStatus)
			if err != nil {
				return err
			}
			input.Status = status
		}
		if addPriority != "" {
			priority, err := models.ParsePriority(addPriority)
			if err != nil {
				return err
			}
			input.Priority = priority
		}

		task, err := TaskRepo.Add(cmdContext(cmd), input)
		if err != nil {
			return fmt.Errorf("adding task: %w", err)
		}

		fmt.Printf("Added task %s\n", task.ID)
		fmt.Printf("  Title:    %s\n", task.Title)
		fmt.Printf("  Status:   %s\n", task.Status)
		fmt.Printf("  Priority: %s\n", task.Priority)
		return nil
	},
}

// Flag values for "dw list".
var (
	listStatuses   []string
	listPriorities []string
	listSearch     string
	listJSON       bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks, newest first",
	Long: `List tasks, newest first.

Filter with --status and --priority (repeatable or comma-separated) and
--search, which matches title or description case-insensitively.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskRepo == nil {
			return errRepoNotInitialized
		}

		filter := models.TaskFilter{Search: listSearch}
		for _, s := range listStatuses {
			status, err := models.ParseTaskStatus(s)
			if err != nil {
				return err
			}
			filter.Statuses = append(filter.Statuses, status)
		}
		for _, p := range listPriorities {
			priority, err := models.ParsePriority(p)
			if err != nil {
				return err
			}
			filter.Priorities = append(filter.Priorities, priority)
		}

		tasks := TaskRepo.List(cmdContext(cmd), filter)

		if listJSON {
			return printJSON(tasks)
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}
		printTaskTable(tasks)
		return nil
	},
}

var showJSON bool

var showCmd = &cobra.Command{
	Use:               "show <task-id>",
	Short:             "Show one task in full",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTaskIDs(),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskRepo == nil {
			return errRepoNotInitialized
		}

		task := TaskRepo.Get(cmdContext(cmd), args[0])
		if task == nil {
			return fmt.Errorf("task %s not found", args[0])
		}

		if showJSON {
			return printJSON(task)
		}
		printTaskDetail(task)
		return nil
	},
}

// Flag values for "dw update". Only flags the user set are applied.
var (
	updateTitle       string
	updateDescription string
	updateStatus      string
	updatePriority    string
)

var updateCmd = &cobra.Command{
	Use:   "update <task-id>",
	Short: "Change a task's title, description, status, or priority",
	Long: `Change any of a task's title, description, status, or priority.

Only the flags given are changed. Moving a task to completed records its
completion time; the time is kept if the task is later reopened.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTaskIDs(),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskRepo == nil {
			return errRepoNotInitialized
		}

		var patch models.TaskPatch
		flags := cmd.Flags()
		if flags.Changed("title") {
			title := strings.TrimSpace(updateTitle)
			if title == "" {
				return fmt.Errorf("title must not be empty")
			}
			patch.Title = &title
		}
		if flags.Changed("description") {
			desc := strings.TrimSpace(updateDescription)
			patch.Description = &desc
		}
		if flags.Changed("status") {
			status, err := models.ParseTaskStatus(updateStatus)
			if err != nil {
				return err
			}
			patch.Status = &status
		}
		if flags.Changed("priority") {
			priority, err := models.ParsePriority(updatePriority)
			if err != nil {
				return err
			}
			patch.Priority = &priority
		}
		if patch.IsEmpty() {
			return fmt.Errorf("nothing to update: set at least one of --title, --description, --status, --priority")
		}

		return applyPatch(cmdContext(cmd), args[0], patch)
	},
}

var doneCmd = &cobra.Command{
	Use:               "done <task-id>",
	Short:             "Mark a task as completed",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTaskIDs(models.StatusCompleted),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskRepo == nil {
			return errRepoNotInitialized
		}
		status := models.StatusCompleted
		return applyPatch(cmdContext(cmd), args[0], models.TaskPatch{Status: &status})
	},
}

var removeCmd = &cobra.Command{
	Use:               "remove <task-id>",
	Aliases:           []string{"rm"},
	Short:             "Delete a task",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTaskIDs(),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskRepo == nil {
			return errRepoNotInitialized
		}

		removed, err := TaskRepo.Remove(cmdContext(cmd), args[0])
		if err != nil {
			return fmt.Errorf("removing task %s: %w", args[0], err)
		}
		if !removed {
			return fmt.Errorf("task %s not found", args[0])
		}
		fmt.Printf("Removed task %s\n", args[0])
		return nil
	},
}

var clearForce bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every task",
	Long:  `Delete all stored task data. Requires --force.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskRepo == nil {
			return errRepoNotInitialized
		}
		if !clearForce {
			return fmt.Errorf("refusing to delete all tasks without --force")
		}

		if err := TaskRepo.Clear(cmdContext(cmd)); err != nil {
			return fmt.Errorf("clearing tasks: %w", err)
		}
		fmt.Println("All tasks deleted.")
		return nil
	},
}

func applyPatch(ctx context.Context, id string, patch models.TaskPatch) error {
	task, err := TaskRepo.Update(ctx, id, patch)
	if err != nil {
		return fmt.Errorf("updating task %s: %w", id, err)
	}
	if task == nil {
		return fmt.Errorf("task %s not found", id)
	}

	fmt.Printf("Updated task %s\n", task.ID)
	fmt.Printf("  Title:    %s\n", task.Title)
	fmt.Printf("  Status:   %s\n", task.Status)
	fmt.Printf("  Priority: %s\n", task.Priority)
	return nil
}

// printTaskTable prints tasks as a table with columns ID, status, priority,
// created date, and title.
func printTaskTable(tasks []models.Task) {
	fmt.Printf("  %-36s %-11s %-8s %-16s %s\n", "ID", "STATUS", "PRIORITY", "CREATED", "TITLE")
	fmt.Printf("  %-36s %-11s %-8s %-16s %s\n", "--", "------", "--------", "-------", "-----")
	for _, t := range tasks {
		fmt.Printf("  %-36s %-11s %-8s %-16s %s\n",
			t.ID, t.Status, t.Priority, t.CreatedAt.Local().Format("2006-01-02 15:04"), t.Title)
	}
	fmt.Printf("\n%d task(s)\n", len(tasks))
}

func printTaskDetail(t *models.Task) {
	fmt.Printf("%s\n", t.Title)
	fmt.Printf("  ID:          %s\n", t.ID)
	fmt.Printf("  Status:      %s\n", t.Status)
	fmt.Printf("  Priority:    %s\n", t.Priority)
	fmt.Printf("  Created:     %s\n", t.CreatedAt.Local().Format(time.RFC3339))
	fmt.Printf("  Updated:     %s\n", t.UpdatedAt.Local().Format(time.RFC3339))
	if t.CompletedAt != nil {
		fmt.Printf("  Completed:   %s\n", t.CompletedAt.Local().Format(time.RFC3339))
	}
	if t.Description != "" {
		fmt.Printf("\n%s\n", t.Description)
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("formatting as JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// cmdContext returns the command's context, or Background when the command
// is invoked directly (as in tests).
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Task description")
	addCmd.Flags().StringVarP(&addStatus, "status", "s", "", "Initial status (pending, in_progress, completed)")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "", "Priority (high, medium, low)")
	_ = addCmd.RegisterFlagCompletionFunc("status", completeStatuses)
	_ = addCmd.RegisterFlagCompletionFunc("priority", completePriorities)

	listCmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Only tasks with this status (repeatable)")
	listCmd.Flags().StringSliceVarP(&listPriorities, "priority", "p", nil, "Only tasks with this priority (repeatable)")
	listCmd.Flags().StringVarP(&listSearch, "search", "q", "", "Text to find in title or description")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output tasks as JSON")
	_ = listCmd.RegisterFlagCompletionFunc("status", completeStatuses)
	_ = listCmd.RegisterFlagCompletionFunc("priority", completePriorities)

	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output the task as JSON")

	updateCmd.Flags().StringVarP(&updateTitle, "title", "t", "", "New title")
	updateCmd.Flags().StringVarP(&updateDescription, "description", "d", "", "New description")
	updateCmd.Flags().StringVarP(&updateStatus, "status", "s", "", "New status (pending, in_progress, completed)")
	updateCmd.Flags().StringVarP(&updatePriority, "priority", "p", "", "New priority (high, medium, low)")
	_ = updateCmd.RegisterFlagCompletionFunc("status", completeStatuses)
	_ = updateCmd.RegisterFlagCompletionFunc("priority", completePriorities)

	clearCmd.Flags().BoolVar(&clearForce, "force", false, "Confirm deletion of all tasks")

	rootCmd.AddCommand(addCmd, listCmd, showCmd, updateCmd, doneCmd, removeCmd, clearCmd)
}
