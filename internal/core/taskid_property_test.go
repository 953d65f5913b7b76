package core

import (
	"context"
	"strconv"
	"testing"

	"pgregory.net/rapid"
)

// Property: every call to a sequence generator yields a fresh ID and leaves
// the stored counter equal to the number of calls.
func TestProperty_SequenceTaskIDUniqueness(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(2, 100).Draw(rt, "n")
		prefix := rapid.StringMatching(`[A-Z]{2,6}`).Draw(rt, "prefix")
		pad := rapid.IntRange(0, 8).Draw(rt, "pad")

		store := newFakeKV()
		gen := NewSequenceTaskIDGenerator(store, "seq", prefix, pad)

		seen := make(map[string]struct{}, n)
		for i := 0; i < n; i++ {
			id, err := gen.GenerateTaskID(context.Background())
			if err != nil {
				rt.Fatalf("GenerateTaskID failed on call %d: %v", i+1, err)
			}
			if _, exists := seen[id]; exists {
				rt.Fatalf("duplicate task ID %q on call %d", id, i+1)
			}
			seen[id] = struct{}{}
		}

		if got := store.data["seq"]; got != strconv.Itoa(n) {
			rt.Fatalf("expected counter %d, got %q", n, got)
		}
	})
}
