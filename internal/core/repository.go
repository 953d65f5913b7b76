package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/valter-silva-au/datawork/pkg/models"
)

var (
	// ErrStoreRead marks a failure reading or decoding the task collection.
	ErrStoreRead = errors.New("task store read failed")
	// ErrStoreWrite marks a failure encoding or persisting the task collection.
	ErrStoreWrite = errors.New("task store write failed")
)

// maxIDAttempts bounds how many times Add asks for a fresh ID when the
// generator returns one already present in the collection.
const maxIDAttempts = 5

// TaskRepository owns the task collection. It is the only writer to the
// key-value store: every operation loads the whole collection, and every
// mutation writes the whole collection back.
//
// Not-found is reported through the result, never as an error: Get and
// Update return a nil task, Remove returns false.
type TaskRepository interface {
	LoadAll(ctx context.Context) []models.Task
	Get(ctx context.Context, id string) *models.Task
	List(ctx context.Context, filter models.TaskFilter) []models.Task
	Add(ctx context.Context, input models.NewTask) (*models.Task, error)
	Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error)
	Remove(ctx context.Context, id string) (bool, error)
	Statistics(ctx context.Context) models.TaskStatistics
	Clear(ctx context.Context) error
}

// RepositoryDeps carries the collaborators of a TaskRepository. Store and
// Codec are required; everything else has a default.
type RepositoryDeps struct {
	Store KeyValueStore
	Codec TaskCodec
	// Key defaults to DefaultStoreKey.
	Key string
	// IDGen defaults to random UUIDs.
	IDGen TaskIDGenerator
	// Clock defaults to the wall clock.
	Clock Clock
	// Location sets day and week boundaries for statistics. Defaults to time.Local.
	Location *time.Location
	// Logger defaults to a discarding logger.
	Logger *slog.Logger
	// Events may be nil.
	Events EventLogger
}

type taskRepository struct {
	store  KeyValueStore
	codec  TaskCodec
	key    string
	idGen  TaskIDGenerator
	clock  Clock
	loc    *time.Location
	logger *slog.Logger
	events EventLogger
}

// NewTaskRepository creates a TaskRepository over deps.Store.
func NewTaskRepository(deps RepositoryDeps) (TaskRepository, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("creating task repository: store is required")
	}
	if deps.Codec == nil {
		return nil, fmt.Errorf("creating task repository: codec is required")
	}

	r := &taskRepository{
		store:  deps.Store,
		codec:  deps.Codec,
		key:    deps.Key,
		idGen:  deps.IDGen,
		clock:  deps.Clock,
		loc:    deps.Location,
		logger: deps.Logger,
		events: deps.Events,
	}
	if r.key == "" {
		r.key = DefaultStoreKey
	}
	if r.idGen == nil {
		r.idGen = NewUUIDTaskIDGenerator()
	}
	if r.clock == nil {
		r.clock = RealClock()
	}
	if r.loc == nil {
		r.loc = time.Local
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	return r, nil
}

// LoadAll returns the stored collection. A missing key, a failed read, or an
// undecodable blob all yield an empty collection; failures are only logged.
func (r *taskRepository) LoadAll(ctx context.Context) []models.Task {
	return r.loadRecovered(ctx, "load_all")
}

// Get returns the task with the given ID, or nil if there is none.
func (r *taskRepository) Get(ctx context.Context, id string) *models.Task {
	tasks := r.loadRecovered(ctx, "get")
	if idx := indexOfTask(tasks, id); idx >= 0 {
		t := tasks[idx]
		return &t
	}
	return nil
}

// List returns the tasks matching filter, newest first.
func (r *taskRepository) List(ctx context.Context, filter models.TaskFilter) []models.Task {
	return FilterTasks(r.loadRecovered(ctx, "list"), filter)
}

// Add creates a task with a fresh ID and CreatedAt == UpdatedAt == now,
// appends it, and persists the collection.
func (r *taskRepository) Add(ctx context.Context, input models.NewTask) (*models.Task, error) {
	tasks := r.loadRecovered(ctx, "add")

	id, err := r.newID(ctx, tasks)
	if err != nil {
		return nil, fmt.Errorf("adding task: %w", err)
	}

	now := r.now()
	task := models.Task{
		ID:          id,
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}

	tasks = append(tasks, task)
	if err := r.persist(ctx, tasks); err != nil {
		return nil, fmt.Errorf("adding task: %w", err)
	}

	r.emit(EventTaskCreated, map[string]any{
		"task_id":  task.ID,
		"status":   string(task.Status),
		"priority": string(task.Priority),
	})
	return &task, nil
}

// Update merges patch over the task with the given ID. It returns (nil, nil)
// when no such task exists, in which case nothing is written.
func (r *taskRepository) Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	tasks := r.loadRecovered(ctx, "update")

	idx := indexOfTask(tasks, id)
	if idx < 0 {
		return nil, nil
	}

	task := tasks[idx]
	oldStatus := task.Status
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}

	now := r.now()
	task.UpdatedAt = now
	newlyCompleted := false
	if task.Status == models.StatusCompleted && task.CompletedAt == nil {
		completedAt := now
		task.CompletedAt = &completedAt
		newlyCompleted = true
	}

	tasks[idx] = task
	if err := r.persist(ctx, tasks); err != nil {
		return nil, fmt.Errorf("updating task %s: %w", id, err)
	}

	data := map[string]any{"task_id": task.ID}
	if oldStatus != task.Status {
		data["old_status"] = string(oldStatus)
		data["new_status"] = string(task.Status)
	}
	r.emit(EventTaskUpdated, data)
	if newlyCompleted {
		r.emit(EventTaskCompleted, map[string]any{"task_id": task.ID})
	}
	return &task, nil
}

// Remove deletes the task with the given ID. It reports false, and writes
// nothing, when no task had that ID.
func (r *taskRepository) Remove(ctx context.Context, id string) (bool, error) {
	tasks := r.loadRecovered(ctx, "remove")

	kept := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(tasks) {
		return false, nil
	}

	if err := r.persist(ctx, kept); err != nil {
		return false, fmt.Errorf("removing task %s: %w", id, err)
	}

	r.emit(EventTaskRemoved, map[string]any{"task_id": id})
	return true, nil
}

// Statistics computes TaskStatistics over the current collection. It never
// fails: a read failure produces the zero value.
func (r *taskRepository) Statistics(ctx context.Context) models.TaskStatistics {
	return ComputeStatistics(r.loadRecovered(ctx, "statistics"), r.clock.Now(), r.loc)
}

// Clear deletes all persisted task data.
func (r *taskRepository) Clear(ctx context.Context) error {
	if err := r.store.Remove(ctx, r.key); err != nil {
		return fmt.Errorf("clearing tasks: removing %s: %w: %w", r.key, ErrStoreWrite, err)
	}
	r.emit(EventTasksCleared, map[string]any{"key": r.key})
	return nil
}

// load reads and decodes the collection, reporting failures as ErrStoreRead.
func (r *taskRepository) load(ctx context.Context) ([]models.Task, error) {
	raw, found, err := r.store.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w: %w", r.key, ErrStoreRead, err)
	}
	if !found || raw == "" {
		return []models.Task{}, nil
	}

	tasks, err := r.codec.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w: %w", r.key, ErrStoreRead, err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// loadRecovered is load with failures swallowed into an empty collection.
// A mutation that follows a recovered failure overwrites whatever was stored.
func (r *taskRepository) loadRecovered(ctx context.Context, op string) []models.Task {
	tasks, err := r.load(ctx)
	if err != nil {
		r.logger.WarnContext(ctx, "loading tasks failed, treating as empty",
			"op", op, "key", r.key, "error", err)
		r.emit(EventStoreReadError, map[string]any{"op": op, "error": err.Error()})
		return []models.Task{}
	}
	return tasks
}

func (r *taskRepository) persist(ctx context.Context, tasks []models.Task) error {
	data, err := r.codec.Encode(tasks)
	if err != nil {
		return fmt.Errorf("encoding %s: %w: %w", r.key, ErrStoreWrite, err)
	}
	if err := r.store.Set(ctx, r.key, data); err != nil {
		return fmt.Errorf("writing %s: %w: %w", r.key, ErrStoreWrite, err)
	}
	return nil
}

// newID asks the generator for an ID not already present in tasks.
func (r *taskRepository) newID(ctx context.Context, tasks []models.Task) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := r.idGen.GenerateTaskID(ctx)
		if err != nil {
			return "", fmt.Errorf("generating task id: %w", err)
		}
		if id == "" {
			return "", fmt.Errorf("generating task id: generator returned an empty id")
		}
		if indexOfTask(tasks, id) < 0 {
			return id, nil
		}
		r.logger.WarnContext(ctx, "generated task id already in use, retrying", "id", id)
	}
	return "", fmt.Errorf("generating task id: no unused id after %d attempts", maxIDAttempts)
}

// now returns the clock's time in UTC with the monotonic reading stripped,
// so stored and reloaded timestamps compare equal.
func (r *taskRepository) now() time.Time {
	return r.clock.Now().UTC().Round(0)
}

func (r *taskRepository) emit(eventType string, data map[string]any) {
	if r.events == nil {
		return
	}
	if err := r.events.LogEvent(eventType, data); err != nil {
		r.logger.Debug("writing event failed", "type", eventType, "error", err)
	}
}

func indexOfTask(tasks []models.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
