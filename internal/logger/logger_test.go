package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", DEBUG},
		{" INFO ", INFO},
		{"warning", WARN},
		{"WARN", WARN},
		{"error", ERROR},
		{"verbose", INFO},
		{"", INFO},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "ParseLevel(%q)", tt.in)
	}
}

func TestLogger_LevelFilterAndFormat(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&Config{Level: WARN, Output: &buf})
	require.NoError(t, err)

	l.Info("hidden %d", 1)
	l.Warn("write failed: %s", "read-only")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN]")
	assert.Contains(t, out, "[logger_test.go:")
	assert.Contains(t, out, "write failed: read-only")
	assert.Equal(t, 1, strings.Count(out, "\n"))

	l.SetLevel(DEBUG)
	assert.Equal(t, DEBUG, l.GetLevel())
	l.Debug("now visible")
	assert.Contains(t, buf.String(), "[DEBUG]")
}

func TestLogger_FileOutput(t *testing.T) {
	dir := t.TempDir()
	l, err := New(&Config{Level: INFO, EnableFile: true, LogDir: dir, LogFile: "test.log"})
	require.NoError(t, err)

	l.Error("engine exited")
	assert.FileExists(t, dir+"/test.log")
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("nothing")
	assert.Greater(t, int(l.GetLevel()), int(ERROR))
}
