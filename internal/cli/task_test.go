package cli

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/datawork/pkg/models"
)

func TestTaskCommands_NilRepository(t *testing.T) {
	orig := TaskRepo
	defer func() { TaskRepo = orig }()
	TaskRepo = nil

	tests := []struct {
		cmd  *cobra.Command
		args []string
	}{
		{addCmd, []string{"title"}},
		{listCmd, nil},
		{showCmd, []string{"id"}},
		{updateCmd, []string{"id"}},
		{doneCmd, []string{"id"}},
		{removeCmd, []string{"id"}},
		{clearCmd, nil},
		{statsCmd, nil},
		{dashboardCmd, nil},
		{mcpServeCmd, nil},
	}
	for _, tt := range tests {
		t.Run(tt.cmd.Name(), func(t *testing.T) {
			err := tt.cmd.RunE(tt.cmd, tt.args)
			if err == nil {
				t.Fatal("expected error when TaskRepo is nil")
			}
			if !strings.Contains(err.Error(), "task repository not initialized") {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestTaskCommands_Registration(t *testing.T) {
	want := map[string]bool{
		"add": false, "list": false, "show": false, "update": false,
		"done": false, "remove": false, "clear": false,
	}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered on root", name)
		}
	}
}

// --- add ---

func TestAddCmd_Defaults(t *testing.T) {
	repo := useTestRepo(t)
	resetFlags(t, addCmd)

	out := captureStdout(t, func() {
		if err := addCmd.RunE(addCmd, []string{"Write", "the", "report"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	tasks := repo.LoadAll(context.Background())
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(tasks))
	}
	task := tasks[0]
	if task.Title != "Write the report" {
		t.Errorf("Title = %q, want %q", task.Title, "Write the report")
	}
	if task.Status != models.StatusPending {
		t.Errorf("Status = %q, want pending", task.Status)
	}
	if task.Priority != models.PriorityMedium {
		t.Errorf("Priority = %q, want medium", task.Priority)
	}
	if !strings.Contains(out, "Added task "+task.ID) {
		t.Errorf("output should name the new task, got:\n%s", out)
	}
}

func TestAddCmd_WithFlags(t *testing.T) {
	repo := useTestRepo(t)
	resetFlags(t, addCmd)
	addDescription = "  quarterly numbers  "
	addStatus = "In-Progress"
	addPriority = "HIGH"

	captureStdout(t, func() {
		if err := addCmd.RunE(addCmd, []string{"Report"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	task := repo.LoadAll(context.Background())[0]
	if task.Description != "quarterly numbers" {
		t.Errorf("Description = %q, want trimmed text", task.Description)
	}
	if task.Status != models.StatusInProgress {
		t.Errorf("Status = %q, want in_progress", task.Status)
	}
	if task.Priority != models.PriorityHigh {
		t.Errorf("Priority = %q, want high", task.Priority)
	}
}

func TestAddCmd_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		status   string
		priority string
		want     string
	}{
		{"blank title", []string{"   "}, "", "", "title must not be empty"},
		{"bad status", []string{"x"}, "blocked", "", "invalid status"},
		{"bad priority", []string{"x"}, "", "urgent", "invalid priority"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := useTestRepo(t)
			resetFlags(t, addCmd)
			addStatus = tt.status
			addPriority = tt.priority

			err := addCmd.RunE(addCmd, tt.args)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
			if n := len(repo.LoadAll(context.Background())); n != 0 {
				t.Errorf("no task should be stored, got %d", n)
			}
		})
	}
}

// --- list ---

func TestListCmd_Empty(t *testing.T) {
	useTestRepo(t)
	resetFlags(t, listCmd)

	out := captureStdout(t, func() {
		if err := listCmd.RunE(listCmd, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	if !strings.Contains(out, "No tasks found.") {
		t.Errorf("expected empty message, got:\n%s", out)
	}
}

func TestListCmd_Table(t *testing.T) {
	repo := useTestRepo(t)
	resetFlags(t, listCmd)
	a := seedTask(t, repo, "Alpha", models.StatusPending, models.PriorityLow)
	b := seedTask(t, repo, "Beta", models.StatusCompleted, models.PriorityHigh)

	out := captureStdout(t, func() {
		if err := listCmd.RunE(listCmd, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	for _, want := range []string{"ID", "STATUS", a.ID, b.ID, "Alpha", "Beta", "2 task(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestListCmd_FiltersAndJSON(t *testing.T) {
	repo := useTestRepo(t)
	resetFlags(t, listCmd)
	seedTask(t, repo, "Buy milk", models.StatusPending, models.PriorityLow)
	want := seedTask(t, repo, "Ship release", models.StatusInProgress, models.PriorityHigh)
	seedTask(t, repo, "Ship docs", models.StatusCompleted, models.PriorityHigh)

	if err := listCmd.Flags().Set("status", "todo,in-progress"); err != nil {
		t.Fatal(err)
	}
	if err := listCmd.Flags().Set("priority", "high"); err != nil {
		t.Fatal(err)
	}
	listSearch = "SHIP"
	listJSON = true

	out := captureStdout(t, func() {
		if err := listCmd.RunE(listCmd, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	var got []models.Task
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not a JSON task list: %v\n%s", err, out)
	}
	if len(got) != 1 || got[0].ID != want.ID {
		t.Errorf("got %+v, want only %s", got, want.ID)
	}
}

func TestListCmd_InvalidFilter(t *testing.T) {
	useTestRepo(t)
	resetFlags(t, listCmd)
	listPriorities = []string{"critical"}

	err := listCmd.RunE(listCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "invalid priority") {
		t.Errorf("expected invalid priority error, got %v", err)
	}
}

// --- show ---

func TestShowCmd(t *testing.T) {
	repo := useTestRepo(t)
	resetFlags(t, showCmd)
	task, err := repo.Add(context.Background(), models.NewTask{Title: "Plan", Description: "Draft the plan"})
	if err != nil {
		t.Fatal(err)
	}

	out := captureStdout(t, func() {
		if err := showCmd.RunE(showCmd, []string{task.ID}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	for _, want := range []string{"Plan", task.ID, "pending", "medium", "Draft the plan"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Completed:") {
		t.Errorf("an open task should not show a completion time:\n%s", out)
	}
}

func TestShowCmd_JSON(t *testing.T) {
	repo := useTestRepo(t)
	resetFlags(t, showCmd)
	task := seedTask(t, repo, "Plan", models.StatusCompleted, models.PriorityLow)
	showJSON = true

	out := captureStdout(t, func() {
		if err := showCmd.RunE(showCmd, []string{task.ID}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if got["id"] != task.ID || got["status"] != "completed" {
		t.Errorf("unexpected JSON: %v", got)
	}
	if _, ok := got["createdAt"]; !ok {
		t.Errorf("JSON should use createdAt, got keys %v", got)
	}
}

func TestShowCmd_NotFound(t *testing.T) {
	useTestRepo(t)
	err := showCmd.RunE(showCmd, []string{"missing"})
	if err == nil || !strings.Contains(err.Error(), "task missing not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

// --- update / done ---

func TestUpdateCmd_OnlyChangedFields(t *testing.T) {
	repo := useTestRepo(t)
	resetFlags(t, updateCmd)
	task, err := repo.Add(context.Background(), models.NewTask{Title: "Old", Description: "keep me"})
	if err != nil {
		t.Fatal(err)
	}

	if err := updateCmd.Flags().Set("title", "New"); err != nil {
		t.Fatal(err)
	}
	if err := updateCmd.Flags().Set("priority", "low"); err != nil {
		t.Fatal(err)
	}

	out := captureStdout(t, func() {
		if err := updateCmd.RunE(updateCmd, []string{task.ID}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	if !strings.Contains(out, "Updated task "+task.ID) {
		t.Errorf("unexpected output:\n%s", out)
	}

	got := repo.Get(context.Background(), task.ID)
	if got.Title != "New" || got.Priority != models.PriorityLow {
		t.Errorf("got title %q priority %q, want New/low", got.Title, got.Priority)
	}
	if got.Description != "keep me" || got.Status != models.StatusPending {
		t.Errorf("untouched fields changed: %+v", got)
	}
}

func TestUpdateCmd_ClearDescription(t *testing.T) {
	repo := useTestRepo(t)
	resetFlags(t, updateCmd)
	task, err := repo.Add(context.Background(), models.NewTask{Title: "T", Description: "drop me"})
	if err != nil {
		t.Fatal(err)
	}

	if err := updateCmd.Flags().Set("description", ""); err != nil {
		t.Fatal(err)
	}
	captureStdout(t, func() {
		if err := updateCmd.RunE(updateCmd, []string{task.ID}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	if got := repo.Get(context.Background(), task.ID); got.Description != "" {
		t.Errorf("Description = %q, want empty", got.Description)
	}
}

func TestUpdateCmd_Errors(t *testing.T) {
	tests := []struct {
		name  string
		flags map[string]string
		id    string
		want  string
	}{
		{"no flags", nil, "", "nothing to update"},
		{"blank title", map[string]string{"title": " "}, "", "title must not be empty"},
		{"bad status", map[string]string{"status": "archived"}, "", "invalid status"},
		{"bad priority", map[string]string{"priority": "p0"}, "", "invalid priority"},
		{"unknown task", map[string]string{"status": "completed"}, "missing", "task missing not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := useTestRepo(t)
			resetFlags(t, updateCmd)
			task := seedTask(t, repo, "T", models.StatusPending, models.PriorityMedium)
			id := task.ID
			if tt.id != "" {
				id = tt.id
			}
			for k, v := range tt.flags {
				if err := updateCmd.Flags().Set(k, v); err != nil {
					t.Fatal(err)
				}
			}

			err := updateCmd.RunE(updateCmd, []string{id})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
			if got := repo.Get(context.Background(), task.ID); got.UpdatedAt != task.UpdatedAt || got.Status != task.Status {
				t.Errorf("task should be unchanged, got %+v", got)
			}
		})
	}
}

func TestDoneCmd(t *testing.T) {
	repo := useTestRepo(t)
	task := seedTask(t, repo, "Finish", models.StatusInProgress, models.PriorityHigh)

	captureStdout(t, func() {
		if err := doneCmd.RunE(doneCmd, []string{task.ID}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	got := repo.Get(context.Background(), task.ID)
	if got.Status != models.StatusCompleted {
		t.Errorf("Status = %q, want completed", got.Status)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(testNow) {
		t.Errorf("CompletedAt = %v, want %v", got.CompletedAt, testNow)
	}
}

func TestDoneCmd_NotFound(t *testing.T) {
	useTestRepo(t)
	err := doneCmd.RunE(doneCmd, []string{"nope"})
	if err == nil || !strings.Contains(err.Error(), "task nope not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

// --- remove / clear ---

func TestRemoveCmd(t *testing.T) {
	repo := useTestRepo(t)
	keep := seedTask(t, repo, "Keep", models.StatusPending, models.PriorityLow)
	drop := seedTask(t, repo, "Drop", models.StatusPending, models.PriorityLow)

	out := captureStdout(t, func() {
		if err := removeCmd.RunE(removeCmd, []string{drop.ID}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	if !strings.Contains(out, "Removed task "+drop.ID) {
		t.Errorf("unexpected output:\n%s", out)
	}

	tasks := repo.LoadAll(context.Background())
	if len(tasks) != 1 || tasks[0].ID != keep.ID {
		t.Errorf("remaining tasks = %+v, want only %s", tasks, keep.ID)
	}
}

func TestRemoveCmd_NotFound(t *testing.T) {
	repo := useTestRepo(t)
	seedTask(t, repo, "Keep", models.StatusPending, models.PriorityLow)

	err := removeCmd.RunE(removeCmd, []string{"ghost"})
	if err == nil || !strings.Contains(err.Error(), "task ghost not found") {
		t.Errorf("expected not found error, got %v", err)
	}
	if n := len(repo.LoadAll(context.Background())); n != 1 {
		t.Errorf("got %d tasks, want 1", n)
	}
}

func TestClearCmd_RequiresForce(t *testing.T) {
	repo := useTestRepo(t)
	resetFlags(t, clearCmd)
	seedTask(t, repo, "Keep", models.StatusPending, models.PriorityLow)

	err := clearCmd.RunE(clearCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "--force") {
		t.Errorf("expected --force error, got %v", err)
	}
	if n := len(repo.LoadAll(context.Background())); n != 1 {
		t.Errorf("tasks should survive a refused clear, got %d", n)
	}
}

func TestClearCmd_Force(t *testing.T) {
	repo := useTestRepo(t)
	resetFlags(t, clearCmd)
	seedTask(t, repo, "A", models.StatusPending, models.PriorityLow)
	seedTask(t, repo, "B", models.StatusCompleted, models.PriorityHigh)
	clearForce = true

	out := captureStdout(t, func() {
		if err := clearCmd.RunE(clearCmd, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	if !strings.Contains(out, "All tasks deleted.") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if n := len(repo.LoadAll(context.Background())); n != 0 {
		t.Errorf("got %d tasks after clear, want 0", n)
	}
}

// --- end to end through the root command ---

func TestRootCommand_AddThenList(t *testing.T) {
	repo := useTestRepo(t)
	resetFlags(t, addCmd)
	resetFlags(t, listCmd)

	out := captureStdout(t, func() {
		rootCmd.SetArgs([]string{"add", "-p", "high", "Call", "the", "bank"})
		if err := Execute(); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		rootCmd.SetArgs([]string{"ls", "--priority", "high"})
		if err := Execute(); err != nil {
			t.Fatalf("list failed: %v", err)
		}
	})
	rootCmd.SetArgs(nil)

	tasks := repo.LoadAll(context.Background())
	if len(tasks) != 1 || tasks[0].Title != "Call the bank" || tasks[0].Priority != models.PriorityHigh {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}
	if !strings.Contains(out, "1 task(s)") {
		t.Errorf("list output missing count:\n%s", out)
	}
}
