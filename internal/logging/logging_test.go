package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/courtdocs/internal/common"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew_StdoutOnly(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := New(common.LogConfig{Level: "warn"}, &buf)
	defer closer.Close()

	logger.Info("parser.parse.ok")
	logger.Warn("tagger.cache.get_failed", "error", "boom")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "tagger.cache.get_failed", rec["msg"])
	assert.Equal(t, "boom", rec["error"])
}

func TestNew_WritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courtdocs.log")
	var buf bytes.Buffer
	logger, closer := New(common.LogConfig{Level: "info", File: path, MaxSizeMB: 1}, &buf)

	logger.Info("batch.done", "total", 3)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"batch.done"`)
	assert.Contains(t, buf.String(), `"total":3`)
}
