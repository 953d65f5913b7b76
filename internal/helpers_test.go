package internal

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// newTestApp creates a fully wired App in a temporary directory, writing
// configYAML to .dwconfig first when it is not empty. The app is closed
// automatically when the test finishes.
func newTestApp(t *testing.T, configYAML string) *App {
	t.Helper()
	dir := t.TempDir()
	writeConfig(t, dir, configYAML)
	return openTestApp(t, dir)
}

// openTestApp creates an App over an existing directory.
func openTestApp(t *testing.T, dir string) *App {
	t.Helper()
	app, err := newApp(context.Background(), dir, io.Discard)
	if err != nil {
		t.Fatalf("creating test app: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func writeConfig(t *testing.T, dir, configYAML string) {
	t.Helper()
	if configYAML == "" {
		return
	}
	if err := os.WriteFile(filepath.Join(dir, ".dwconfig"), []byte(configYAML), 0o644); err != nil {
		t.Fatalf("writing .dwconfig: %v", err)
	}
}

// resolvedTempDir returns t.TempDir with symlinks resolved, so it compares
// equal to os.Getwd after a chdir.
func resolvedTempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })
}
