package cli

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/valter-silva-au/datawork/internal/core"
	"github.com/valter-silva-au/datawork/internal/observability"
	"github.com/valter-silva-au/datawork/internal/storage"
	"github.com/valter-silva-au/datawork/pkg/models"
)

// captureStdout captures stdout output during fn execution.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("creating pipe: %v", err)
	}
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = origStdout

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading pipe: %v", err)
	}
	return string(out)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// testNow is a Wednesday afternoon, so "this week" started three days earlier.
var testNow = time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC)

// useTestRepo installs a repository over an in-memory store as TaskRepo for
// the duration of the test.
func useTestRepo(t *testing.T) core.TaskRepository {
	t.Helper()
	repo, err := core.NewTaskRepository(core.RepositoryDeps{
		Store:    storage.NewMemoryStore(),
		Codec:    storage.YAMLCodec{},
		Clock:    fixedClock{now: testNow},
		Location: time.UTC,
	})
	if err != nil {
		t.Fatalf("creating repository: %v", err)
	}

	orig := TaskRepo
	TaskRepo = repo
	t.Cleanup(func() { TaskRepo = orig })
	return repo
}

func seedTask(t *testing.T, repo core.TaskRepository, title string, status models.TaskStatus, priority models.Priority) *models.Task {
	t.Helper()
	task, err := repo.Add(context.Background(), models.NewTask{Title: title, Status: status, Priority: priority})
	if err != nil {
		t.Fatalf("seeding task: %v", err)
	}
	return task
}

// resetFlags restores every flag on cmd to its default and clears Changed
// when the test finishes, since commands and their flag values are package
// state shared between tests.
func resetFlags(t *testing.T, cmd *cobra.Command) {
	t.Helper()
	t.Cleanup(func() {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if sv, ok := f.Value.(pflag.SliceValue); ok {
				_ = sv.Replace(nil)
			} else {
				_ = f.Value.Set(f.DefValue)
			}
			f.Changed = false
		})
	})
}

type fakeMetricsCalculator struct {
	metrics *observability.Metrics
	err     error
	since   time.Time
}

func (f *fakeMetricsCalculator) Calculate(since time.Time) (*observability.Metrics, error) {
	f.since = since
	if f.err != nil {
		return nil, f.err
	}
	return f.metrics, nil
}

func useMetricsCalc(t *testing.T, calc observability.MetricsCalculator) {
	t.Helper()
	orig := MetricsCalc
	MetricsCalc = calc
	t.Cleanup(func() { MetricsCalc = orig })
}
