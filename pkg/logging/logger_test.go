package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetLogger() {
	_ = Setup(os.Stderr, slog.LevelInfo, "compact")
}

func TestCompactHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Setup(&buf, slog.LevelDebug, "compact"))
	t.Cleanup(resetLogger)

	ctx := WithRenderID(context.Background(), "0123456789abcdef")
	InfoContext(ctx, "wrote diagram", "path", "out dir/a.png", "nodes", 11)

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "[INFO]  "), line)
	assert.Contains(t, line, "wrote diagram |")
	assert.Contains(t, line, "render=01234567")
	assert.Contains(t, line, `path="out dir/a.png"`)
	assert.Contains(t, line, "nodes=11")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestCompactHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Setup(&buf, slog.LevelWarn, "compact"))
	t.Cleanup(resetLogger)

	Debug("hidden")
	Info("hidden too")
	WarnContext(context.Background(), "shown", "error", "boom")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN]")
	assert.Contains(t, out, `error="boom"`)
}

func TestCompactHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := NewCompactHandler(&buf, nil)
	l := slog.New(h).With("scene", "npc")
	l.Info("loaded")

	assert.Contains(t, buf.String(), "loaded | scene=npc")
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Setup(&buf, slog.LevelInfo, "json"))
	t.Cleanup(resetLogger)

	Info("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"k":"v"`)

	assert.Error(t, Setup(&buf, slog.LevelInfo, "xml"))
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)

	l, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestWithRenderIDGenerates(t *testing.T) {
	ctx := WithRenderID(context.Background(), "")
	id := RenderID(ctx)
	assert.Len(t, id, 36)
	assert.Empty(t, RenderID(context.Background()))
}
