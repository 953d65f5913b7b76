// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the task repository as MCP tools for AI assistants.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/datawork/internal/core"
	"github.com/valter-silva-au/datawork/internal/observability"
	"github.com/valter-silva-au/datawork/pkg/models"
)

// Server wraps the task repository and exposes it as MCP tools.
type Server struct {
	server      *gomcp.Server
	repo        core.TaskRepository
	metricsCalc observability.MetricsCalculator
}

// NewServer creates a new MCP server over repo. metricsCalc may be nil if
// the event log is disabled.
func NewServer(repo core.TaskRepository, metricsCalc observability.MetricsCalculator, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		repo:        repo,
		metricsCalc: metricsCalc,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "dw", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run serves MCP over stdio, blocking until the client disconnects or the
// context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type taskIDInput struct {
	TaskID string `json:"task_id" jsonschema:"the task identifier"`
}

type taskOutput struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	CompletedAt string `json:"completed_at,omitempty"`
}

type listTasksInput struct {
	Status   string `json:"status,omitempty" jsonschema:"only tasks with this status (pending, in_progress, completed)"`
	Priority string `json:"priority,omitempty" jsonschema:"only tasks with this priority (high, medium, low)"`
	Search   string `json:"search,omitempty" jsonschema:"case-insensitive text to find in title or description"`
}

type listTasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type addTaskInput struct {
	Title       string `json:"title" jsonschema:"short title of the task"`
	Description string `json:"description,omitempty" jsonschema:"longer free-form description"`
	Status      string `json:"status,omitempty" jsonschema:"initial status, defaults to pending"`
	Priority    string `json:"priority,omitempty" jsonschema:"priority, defaults to medium"`
}

type updateTaskInput struct {
	TaskID      string  `json:"task_id" jsonschema:"the task identifier"`
	Title       *string `json:"title,omitempty" jsonschema:"new title"`
	Description *string `json:"description,omitempty" jsonschema:"new description"`
	Status      *string `json:"status,omitempty" jsonschema:"new status (pending, in_progress, completed)"`
	Priority    *string `json:"priority,omitempty" jsonschema:"new priority (high, medium, low)"`
}

type removeTaskOutput struct {
	Message string `json:"message"`
}

type getStatisticsInput struct{}

type getMetricsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for metrics (e.g. 7d, 30d, 24h). Defaults to 7d."`
}

type metricsOutput struct {
	TasksCreated      int            `json:"tasks_created"`
	TasksUpdated      int            `json:"tasks_updated"`
	TasksCompleted    int            `json:"tasks_completed"`
	TasksRemoved      int            `json:"tasks_removed"`
	Clears            int            `json:"clears"`
	ReadFailures      int            `json:"read_failures"`
	CreatedByPriority map[string]int `json:"created_by_priority"`
	StatusTransitions map[string]int `json:"status_transitions"`
	EventCount        int            `json:"event_count"`
	OldestEvent       string         `json:"oldest_event,omitempty"`
	NewestEvent       string         `json:"newest_event,omitempty"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks newest first, optionally filtered by status, priority, or a search string.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_task",
		Description: "Get a single task by ID.",
	}, s.handleGetTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "add_task",
		Description: "Create a task. Status defaults to pending and priority to medium.",
	}, s.handleAddTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "update_task",
		Description: "Change any of a task's title, description, status, or priority. Setting status to completed records the completion time.",
	}, s.handleUpdateTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "remove_task",
		Description: "Delete a task by ID.",
	}, s.handleRemoveTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_statistics",
		Description: "Summary counts: totals by status and priority, completion percentage, tasks created today and this week.",
	}, s.handleGetStatistics)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_metrics",
		Description: "Activity metrics from the event log: tasks created, updated, completed, removed, and status transitions.",
	}, s.handleGetMetrics)
}

// --- Tool handlers ---

func (s *Server) handleListTasks(ctx context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	var filter models.TaskFilter
	if input.Status != "" {
		status, err := models.ParseTaskStatus(input.Status)
		if err != nil {
			return errorResult(err.Error()), listTasksOutput{}, nil
		}
		filter.Statuses = []models.TaskStatus{status}
	}
	if input.Priority != "" {
		priority, err := models.ParsePriority(input.Priority)
		if err != nil {
			return errorResult(err.Error()), listTasksOutput{}, nil
		}
		filter.Priorities = []models.Priority{priority}
	}
	filter.Search = input.Search

	tasks := s.repo.List(ctx, filter)
	out := listTasksOutput{
		Tasks: make([]taskOutput, len(tasks)),
		Count: len(tasks),
	}
	for i := range tasks {
		out.Tasks[i] = taskToOutput(&tasks[i])
	}
	return nil, out, nil
}

func (s *Server) handleGetTask(ctx context.Context, _ *gomcp.CallToolRequest, input taskIDInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), taskOutput{}, nil
	}

	task := s.repo.Get(ctx, input.TaskID)
	if task == nil {
		return errorResult(fmt.Sprintf("task %s not found", input.TaskID)), taskOutput{}, nil
	}
	return nil, taskToOutput(task), nil
}

func (s *Server) handleAddTask(ctx context.Context, _ *gomcp.CallToolRequest, input addTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.Title == "" {
		return errorResult("title is required"), taskOutput{}, nil
	}

	newTask := models.NewTask{Title: input.Title, Description: input.Description}
	if input.Status != "" {
		status, err := models.ParseTaskStatus(input.Status)
		if err != nil {
			return errorResult(err.Error()), taskOutput{}, nil
		}
		newTask.Status = status
	}
	if input.Priority != "" {
		priority, err := models.ParsePriority(input.Priority)
		if err != nil {
			return errorResult(err.Error()), taskOutput{}, nil
		}
		newTask.Priority = priority
	}

	task, err := s.repo.Add(ctx, newTask)
	if err != nil {
		return errorResult(fmt.Sprintf("adding task: %s", err)), taskOutput{}, nil
	}
	return nil, taskToOutput(task), nil
}

func (s *Server) handleUpdateTask(ctx context.Context, _ *gomcp.CallToolRequest, input updateTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), taskOutput{}, nil
	}

	patch := models.TaskPatch{Title: input.Title, Description: input.Description}
	if input.Title != nil && *input.Title == "" {
		return errorResult("title must not be empty"), taskOutput{}, nil
	}
	if input.Status != nil {
		status, err := models.ParseTaskStatus(*input.Status)
		if err != nil {
			return errorResult(err.Error()), taskOutput{}, nil
		}
		patch.Status = &status
	}
	if input.Priority != nil {
		priority, err := models.ParsePriority(*input.Priority)
		if err != nil {
			return errorResult(err.Error()), taskOutput{}, nil
		}
		patch.Priority = &priority
	}

	task, err := s.repo.Update(ctx, input.TaskID, patch)
	if err != nil {
		return errorResult(fmt.Sprintf("updating task %s: %s", input.TaskID, err)), taskOutput{}, nil
	}
	if task == nil {
		return errorResult(fmt.Sprintf("task %s not found", input.TaskID)), taskOutput{}, nil
	}
	return nil, taskToOutput(task), nil
}

func (s *Server) handleRemoveTask(ctx context.Context, _ *gomcp.CallToolRequest, input taskIDInput) (*gomcp.CallToolResult, removeTaskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), removeTaskOutput{}, nil
	}

	removed, err := s.repo.Remove(ctx, input.TaskID)
	if err != nil {
		return errorResult(fmt.Sprintf("removing task %s: %s", input.TaskID, err)), removeTaskOutput{}, nil
	}
	if !removed {
		return errorResult(fmt.Sprintf("task %s not found", input.TaskID)), removeTaskOutput{}, nil
	}
	return nil, removeTaskOutput{Message: fmt.Sprintf("task %s removed", input.TaskID)}, nil
}

func (s *Server) handleGetStatistics(ctx context.Context, _ *gomcp.CallToolRequest, _ getStatisticsInput) (*gomcp.CallToolResult, models.TaskStatistics, error) {
	return nil, s.repo.Statistics(ctx), nil
}

func (s *Server) handleGetMetrics(_ context.Context, _ *gomcp.CallToolRequest, input getMetricsInput) (*gomcp.CallToolResult, metricsOutput, error) {
	if s.metricsCalc == nil {
		return errorResult("metrics calculator not available (event log may be disabled)"), emptyMetricsOutput(), nil
	}

	sinceStr := input.Since
	if sinceStr == "" {
		sinceStr = "7d"
	}

	sinceTime, err := observability.ParseSince(sinceStr, time.Now().UTC())
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since duration: %s", err)), emptyMetricsOutput(), nil
	}

	metrics, err := s.metricsCalc.Calculate(sinceTime)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating metrics: %s", err)), emptyMetricsOutput(), nil
	}

	out := metricsOutput{
		TasksCreated:      metrics.TasksCreated,
		TasksUpdated:      metrics.TasksUpdated,
		TasksCompleted:    metrics.TasksCompleted,
		TasksRemoved:      metrics.TasksRemoved,
		Clears:            metrics.Clears,
		ReadFailures:      metrics.ReadFailures,
		CreatedByPriority: metrics.CreatedByPriority,
		StatusTransitions: metrics.StatusTransitions,
		EventCount:        metrics.EventCount,
	}
	if metrics.OldestEvent != nil {
		out.OldestEvent = metrics.OldestEvent.Format(time.RFC3339)
	}
	if metrics.NewestEvent != nil {
		out.NewestEvent = metrics.NewestEvent.Format(time.RFC3339)
	}
	return nil, out, nil
}

// --- Helpers ---

func taskToOutput(t *models.Task) taskOutput {
	out := taskOutput{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
	}
	if t.CompletedAt != nil {
		out.CompletedAt = t.CompletedAt.Format(time.RFC3339)
	}
	return out
}

func emptyMetricsOutput() metricsOutput {
	return metricsOutput{
		CreatedByPriority: make(map[string]int),
		StatusTransitions: make(map[string]int),
	}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
