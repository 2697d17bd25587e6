package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"info":    LevelInfo,
		"":        LevelInfo,
		"bogus":   LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "input %q", in)
	}
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	// buffers are not terminals, so no ANSI escapes
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestRedactionAppliesToMessagesAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	r := NewRedactor()
	sinks := New(&buf, Options{Level: LevelDebug, Redactor: r})
	r.Add("hunter2", "")

	sinks.Logger.Info("password is hunter2",
		"arg", "db_password=hunter2",
		"error", errors.New("bad hunter2"),
		slog.Group("step", slog.String("cmd", "x=hunter2")),
		"argv", []string{"-e", "db_password=hunter2"},
		"count", 3,
	)

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "password is ******")
	assert.Contains(t, out, "db_password=******")
	assert.Contains(t, out, "count=3")
}

func TestRedactionOfBoundAttrs(t *testing.T) {
	var buf bytes.Buffer
	r := NewRedactor()
	r.Add("s3cr3t")
	sinks := New(&buf, Options{Level: LevelInfo, Redactor: r})

	sinks.Logger.With("token", "s3cr3t").WithGroup("g").Info("bound")
	assert.NotContains(t, buf.String(), "s3cr3t")
}

func TestNewWritesRedactedJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deployctl.log")
	var console bytes.Buffer
	r := NewRedactor()
	r.Add("hunter2")

	sinks := New(&console, Options{Level: LevelInfo, File: path, Redactor: r})
	require.NotNil(t, sinks.File)

	sinks.Logger.Info("running step", "command", "ansible-playbook -e db_password=hunter2")
	sinks.File.Info("file only")
	sinks.Logger.Debug("filtered")
	require.NoError(t, sinks.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hunter2")
	assert.NotContains(t, string(data), "filtered")

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "running step", first["msg"])
	assert.Equal(t, "ansible-playbook -e db_password=******", first["command"])

	assert.Contains(t, console.String(), "running step")
	assert.NotContains(t, console.String(), "file only")
}

func TestNewWithoutFile(t *testing.T) {
	sinks := New(&bytes.Buffer{}, Options{})
	assert.Nil(t, sinks.File)
	assert.NoError(t, sinks.Close())
}

func TestWriterSplitsLines(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	w := NewWriter(logger, "stream", "stdout")

	_, err := w.Write([]byte("first\nsec"))
	require.NoError(t, err)
	_, err = w.Write([]byte("ond\r\n\npartial"))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(buf.String(), "command output"))

	require.NoError(t, w.Close())
	out := buf.String()
	assert.Equal(t, 3, strings.Count(out, "command output"))
	assert.Contains(t, out, "line=first stream=stdout")
	assert.Contains(t, out, "line=second stream=stdout")
	assert.Contains(t, out, "line=partial stream=stdout")
}
