package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"trace": LevelTrace,
		"DEBUG": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"none":  LevelNone,
		"":      LevelNone,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.ErrorContains(t, err, `unknown log level "loud"`)
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New("trace", "", &buf)
	require.NoError(t, err)
	defer closer.Close()

	logger.Log(context.Background(), LevelTrace, "reduce", "depth", 2)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "TRACE", record["level"])
	assert.Equal(t, "reduce", record["msg"])
	assert.Equal(t, float64(2), record["depth"])
}

func TestNewNoneIsSilent(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New("none", "", &buf)
	require.NoError(t, err)

	logger.Error("boom")
	assert.Zero(t, buf.Len())
}

func TestFileWriterReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "spirit.log")

	logger, closer, err := New("info", path, nil)
	require.NoError(t, err)
	defer closer.Close()

	logger.Info("first")
	require.NoError(t, os.Rename(path, path+".bak"))
	require.NoError(t, closer.(*fileWriter).Reopen())
	logger.Info("second")

	old, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Contains(t, string(old), `"msg":"first"`)

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(current), `"msg":"second"`)
	assert.NotContains(t, string(current), "first")
}
