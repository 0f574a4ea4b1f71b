package handlers

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xolan/certtrack/internal/cli"
	"github.com/xolan/certtrack/internal/config"
	"github.com/xolan/certtrack/internal/service"
	"github.com/xolan/certtrack/internal/storage"
)

type testEnv struct {
	deps        *cli.Deps
	stdout      *bytes.Buffer
	stderr      *bytes.Buffer
	exitCode    *int
	storagePath string
	configPath  string
}

func setupTestDeps(t *testing.T) *testEnv {
	t.Helper()
	return setupTestDepsWithStdin(t, "")
}

func setupTestDepsWithStdin(t *testing.T, stdin string) *testEnv {
	t.Helper()
	tmpDir := t.TempDir()
	storagePath := filepath.Join(tmpDir, "tracker.json")
	configPath := filepath.Join(tmpDir, "config.toml")

	services := service.NewServicesWithStore(storage.NewFileStore(storagePath), configPath, config.DefaultConfig(), nil)
	t.Cleanup(func() { _ = services.Close() })

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	exitCode := 0

	deps := &cli.Deps{
		Stdout:   stdout,
		Stderr:   stderr,
		Stdin:    strings.NewReader(stdin),
		Exit:     func(code int) { exitCode = code },
		Services: services,
	}

	return &testEnv{
		deps:        deps,
		stdout:      stdout,
		stderr:      stderr,
		exitCode:    &exitCode,
		storagePath: storagePath,
		configPath:  configPath,
	}
}

// seed writes a tracker document directly to the store file
func (e *testEnv) seed(t *testing.T, doc string) {
	t.Helper()
	if err := os.WriteFile(e.storagePath, []byte(doc), 0644); err != nil {
		t.Fatalf("failed to seed document: %v", err)
	}
}

// reset clears captured output between steps of one test
func (e *testEnv) reset() {
	e.stdout.Reset()
	e.stderr.Reset()
	*e.exitCode = 0
}

func (e *testEnv) addCourse(t *testing.T, name, duration string) {
	t.Helper()
	AddCourse(context.Background(), e.deps, service.AddRequest{Name: name, Time: duration})
	if *e.exitCode != 0 {
		t.Fatalf("AddCourse(%q) failed: %s", name, e.stderr.String())
	}
	e.reset()
}

func boolPtr(b bool) *bool {
	return &b
}

func strPtr(s string) *string {
	return &s
}

func assertContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Errorf("expected output to contain %q, got:\n%s", want, output)
	}
}
