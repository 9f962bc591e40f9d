package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"DEBUG":   LevelDebug,
		"error":   LevelError,
		"off":     LevelSilent,
		"silent":  LevelSilent,
		"info":    LevelInfo,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)

	l.Debug("hidden %d", 1)
	l.Info("shown %d", 2)
	l.Error("failed %s", "x")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO: shown 2")
	assert.Contains(t, out, "ERROR: failed x")
}

func TestLogger_Silent(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelSilent, &buf)

	l.Error("nothing")
	assert.Empty(t, buf.String())
}

func TestLogger_NilIsNoop(t *testing.T) {
	var l *Logger

	assert.NotPanics(t, func() {
		l.Info("x")
		l.Debug("y")
		l.Error("z")
	})
	assert.Equal(t, LevelSilent, l.Level())
	assert.NoError(t, l.Close())
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "breathe.log")

	l, err := Open(LevelDebug, path)
	require.NoError(t, err)
	l.Debug("phase %s", "inhale")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "DEBUG: phase inhale")
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open(LevelInfo, filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	assert.Error(t, err)
}
