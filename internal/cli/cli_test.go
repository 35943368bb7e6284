package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
	"github.com/idilsaglam/tasks/internal/store/jsonstore"
)

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

type harness struct {
	t    *testing.T
	dir  string
	args []string
}

func newHarness(t *testing.T, extra ...string) *harness {
	dir := t.TempDir()
	args := append([]string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--data-dir", filepath.Join(dir, "data"),
		"--no-color",
		"--theme", "mono",
	}, extra...)
	return &harness{t: t, dir: dir, args: args}
}

// run executes one command line with stdin and returns exit code and output.
func (h *harness) run(stdin string, args ...string) (int, string, string) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	a := newApp(strings.NewReader(stdin), &out, &errOut, func() time.Time { return now })
	a.runTUI = func(*store.Store) error { return errors.New("no terminal") }
	code := a.execute(append(append([]string{}, h.args...), args...))
	return code, out.String(), errOut.String()
}

func (h *harness) snapshot() []model.Item {
	h.t.Helper()
	s := store.New(jsonstore.New(filepath.Join(h.dir, "data")))
	s.Load()
	return s.Items(model.All)
}

func TestAddListScenario(t *testing.T) {
	h := newHarness(t)

	code, out, _ := h.run("", "add", "Pay", "rent")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "added #1")

	code, out, _ = h.run("", "add", "Walk the dog")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "added #2")

	code, out, _ = h.run("", "ls")
	require.Equal(t, 0, code)
	walk := strings.Index(out, "Walk the dog")
	rent := strings.Index(out, "Pay rent")
	require.True(t, walk >= 0 && rent >= 0, out)
	assert.Less(t, walk, rent, "newest first")
	assert.Contains(t, out, "Just now")
	assert.Contains(t, out, "Total 2")

	code, out, _ = h.run("", "done", "1")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "completed #1")

	code, out, _ = h.run("", "stats")
	require.Equal(t, 0, code)
	assert.Equal(t, "total 2  completed 1  pending 1\n", out)

	code, out, _ = h.run("", "ls", "--filter", "pending")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Walk the dog")
	assert.NotContains(t, out, "Pay rent")

	code, out, _ = h.run("", "ls", "-f", "completed")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Pay rent")
	assert.NotContains(t, out, "Walk the dog")

	code, out, _ = h.run("", "done", "1")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "reopened #1")
}

func TestAddBlankIsUsageError(t *testing.T) {
	h := newHarness(t)
	code, _, errOut := h.run("", "add", "   ")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "task text is empty")
	assert.Empty(t, h.snapshot())

	code, _, errOut = h.run("", "add")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "usage: tasks add")
}

func TestDoneErrors(t *testing.T) {
	h := newHarness(t)

	code, _, errOut := h.run("", "done", "abc")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "not a number: abc")

	code, _, errOut = h.run("", "done", "42")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "task not found: 42")

	code, _, _ = h.run("", "done")
	assert.Equal(t, 2, code)
}

func TestRemoveConfirms(t *testing.T) {
	h := newHarness(t)
	h.run("", "add", "keep")
	h.run("", "add", "drop")

	code, out, _ := h.run("n\n", "rm", "2")
	require.Equal(t, 0, code)
	assert.Contains(t, out, `Are you sure you want to delete "drop"? [y/N]`)
	assert.Contains(t, out, "cancelled")
	assert.Len(t, h.snapshot(), 2)

	code, out, _ = h.run("y\n", "rm", "2")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "removed #2")
	assert.Len(t, h.snapshot(), 1)

	code, _, errOut := h.run("", "rm", "2")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "task not found")

	code, out, _ = h.run("", "rm", "--yes", "1")
	require.Equal(t, 0, code)
	assert.NotContains(t, out, "Are you sure")
	assert.Empty(t, h.snapshot())
}

func TestEmptyStates(t *testing.T) {
	h := newHarness(t)
	_, out, _ := h.run("", "ls")
	assert.Contains(t, out, "No tasks yet")

	h.run("", "add", "open task")
	_, out, _ = h.run("", "ls", "--filter", "completed")
	assert.Contains(t, out, "No completed tasks yet!")

	h.run("", "done", "1")
	_, out, _ = h.run("", "ls", "--filter", "pending")
	assert.Contains(t, out, "All tasks completed!")
}

func TestGroupedList(t *testing.T) {
	h := newHarness(t)
	h.run("", "add", "first")
	h.run("", "add", "second")
	h.run("", "done", "1")

	code, out, _ := h.run("", "ls", "--group")
	require.Equal(t, 0, code)
	pending := strings.Index(out, "Pending")
	done := strings.Index(out, "Done")
	require.True(t, pending >= 0 && done > pending, out)
	assert.Greater(t, strings.Index(out, "first"), done)
	assert.Less(t, strings.Index(out, "second"), done)
}

func TestUnknownFilterAndCommand(t *testing.T) {
	h := newHarness(t)
	code, _, errOut := h.run("", "ls", "--filter", "archived")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "unknown filter")

	code, _, errOut = h.run("", "frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "tasks --help")

	code, _, _ = h.run("", "ls", "--bogus")
	assert.Equal(t, 2, code)
}

func TestCorruptSnapshotStartsEmpty(t *testing.T) {
	h := newHarness(t)
	data := filepath.Join(h.dir, "data")
	require.NoError(t, os.MkdirAll(data, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(data, "tasks.json"), []byte("][ nope"), 0o644))

	code, out, _ := h.run("", "stats")
	require.Equal(t, 0, code)
	assert.Equal(t, "total 0  completed 0  pending 0\n", out)
}

func TestSQLiteBackend(t *testing.T) {
	h := newHarness(t, "--backend", "sqlite")
	code, _, _ := h.run("", "add", "stored in sqlite")
	require.Equal(t, 0, code)
	_, err := os.Stat(filepath.Join(h.dir, "data", "tasks.db"))
	require.NoError(t, err)

	code, out, _ := h.run("", "ls")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "stored in sqlite")
}

func TestMemoryBackendForgets(t *testing.T) {
	h := newHarness(t, "--backend", "memory")
	code, _, _ := h.run("", "add", "fleeting")
	require.Equal(t, 0, code)

	_, out, _ := h.run("", "stats")
	assert.Equal(t, "total 0  completed 0  pending 0\n", out)
}

func TestBadBackendFlag(t *testing.T) {
	h := newHarness(t, "--backend", "redis")
	code, _, errOut := h.run("", "stats")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "unknown backend")
}

func TestConfigInitAndShow(t *testing.T) {
	h := newHarness(t, "--backend", "sqlite")
	code, out, _ := h.run("", "config", "init")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "wrote")
	_, err := os.Stat(filepath.Join(h.dir, "config.yaml"))
	require.NoError(t, err)

	code, out, _ = h.run("", "config", "show")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "backend: sqlite")
	assert.Contains(t, out, "theme: mono")
}

func TestTUIFailureIsRuntimeError(t *testing.T) {
	h := newHarness(t)
	code, _, errOut := h.run("")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "tui: no terminal")

	code, _, _ = h.run("", "tui")
	assert.Equal(t, 1, code)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ééé...", truncate("éééééééé", 6))
}

func TestDotKeyRejectedUpFront(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(filepath.Join(h.dir, "config.yaml"), []byte("storage:\n  key: \"..\"\n"), 0o644))

	code, _, errOut := h.run("", "add", "never stored")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "storage.key")
}
