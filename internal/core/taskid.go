package core

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// TaskIDGenerator defines the interface for generating unique task IDs.
type TaskIDGenerator interface {
	GenerateTaskID(ctx context.Context) (string, error)
}

type uuidTaskIDGenerator struct{}

// NewUUIDTaskIDGenerator returns a generator producing random (v4) UUIDs.
func NewUUIDTaskIDGenerator() TaskIDGenerator {
	return uuidTaskIDGenerator{}
}

func (uuidTaskIDGenerator) GenerateTaskID(_ context.Context) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generating uuid: %w", err)
	}
	return id.String(), nil
}

// sequenceTaskIDGenerator implements TaskIDGenerator by persisting a counter
// in the same key-value store that holds the tasks.
type sequenceTaskIDGenerator struct {
	store    KeyValueStore
	key      string
	prefix   string
	padWidth int
}

// NewSequenceTaskIDGenerator creates a TaskIDGenerator that keeps its counter
// under counterKey in store. padWidth controls the zero-padding width of the
// numeric portion. Use 0 for no padding (e.g., TASK-1).
func NewSequenceTaskIDGenerator(store KeyValueStore, counterKey, prefix string, padWidth int) TaskIDGenerator {
	return &sequenceTaskIDGenerator{
		store:    store,
		key:      counterKey,
		prefix:   prefix,
		padWidth: padWidth,
	}
}

// SequenceCounterKey derives the counter key from the task collection key.
func SequenceCounterKey(taskKey string) string {
	return taskKey + ":seq"
}

// GenerateTaskID reads the current counter, increments it, writes it back,
// and returns the formatted task ID. A missing counter starts from 1.
// Format: {prefix}-{counter:0Nd} (e.g., TASK-00001).
func (g *sequenceTaskIDGenerator) GenerateTaskID(ctx context.Context) (string, error) {
	counter := 0
	raw, found, err := g.store.Get(ctx, g.key)
	if err != nil {
		return "", fmt.Errorf("reading task counter: %w", err)
	}
	if found {
		trimmed := strings.TrimSpace(raw)
		counter, err = strconv.Atoi(trimmed)
		if err != nil {
			return "", fmt.Errorf("parsing task counter %q: %w", trimmed, err)
		}
	}

	counter++

	if err := g.store.Set(ctx, g.key, strconv.Itoa(counter)); err != nil {
		return "", fmt.Errorf("writing task counter: %w", err)
	}

	if g.padWidth > 0 {
		return fmt.Sprintf("%s-%0*d", g.prefix, g.padWidth, counter), nil
	}
	return fmt.Sprintf("%s-%d", g.prefix, counter), nil
}
