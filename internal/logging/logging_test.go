package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStripsTimeAndLevel(t *testing.T) {
	t.Setenv(DebugEnv, "")
	var buf bytes.Buffer
	New(&buf, false).Info("compiled", "statements", 3)

	out := buf.String()
	assert.Contains(t, out, "msg=compiled")
	assert.Contains(t, out, "statements=3")
	assert.NotContains(t, out, "time=")
	assert.NotContains(t, out, "level=")
}

func TestDebugLevel(t *testing.T) {
	t.Setenv(DebugEnv, "")
	var buf bytes.Buffer
	New(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())

	New(&buf, true).Debug("shown")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestDebugFromEnvironment(t *testing.T) {
	t.Setenv(DebugEnv, "1")
	var buf bytes.Buffer
	New(&buf, false).Debug("token")
	assert.Contains(t, buf.String(), "msg=token")
}

func TestDiscard(t *testing.T) {
	assert.False(t, Discard().Enabled(context.Background(), slog.LevelError))
}
