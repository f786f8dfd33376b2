package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests here swap the global logger and must not run in parallel.

func readLog(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(GetLogPath())
	require.NoError(t, err)
	return string(data)
}

func TestInit_WritesLevels(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	t.Cleanup(Close)

	assert.Equal(t, filepath.Join(dir, "debug.log"), GetLogPath())

	LogInfo("hello %d", 1)
	LogError("broken %s", "thing")
	SetDebug(false)
	LogDebug("hidden")
	SetDebug(true)
	Debug{}.Printf("round %s", "r1")
	SetDebug(false)
	LogPanic("boom")

	out := readLog(t)
	assert.Contains(t, out, "Logger initialized")
	assert.Contains(t, out, "[INFO] hello 1")
	assert.Contains(t, out, "[ERROR] broken thing")
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[DEBUG] round r1")
	assert.Contains(t, out, "[PANIC] boom")
	assert.Contains(t, out, "logger_test.go", "caller file is recorded")
}

func TestInit_Rotates(t *testing.T) {
	dir := t.TempDir()
	big := make([]byte, maxLogSize+1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "debug.log"), big, 0o644))

	require.NoError(t, Init(dir))
	t.Cleanup(Close)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "the old log is kept under a new name")

	info, err := os.Stat(GetLogPath())
	require.NoError(t, err)
	assert.Less(t, info.Size(), int64(1024))
}

func TestClose_Twice(t *testing.T) {
	require.NoError(t, Init(t.TempDir()))
	assert.NotPanics(t, func() {
		Close()
		Close()
	})
}
