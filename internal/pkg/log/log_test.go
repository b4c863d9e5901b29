package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"focus-quest/internal/pkg/ctxkey"
	"focus-quest/internal/pkg/xerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONLogger(buf *bytes.Buffer) Logger {
	return NewLogger(NewContextHandler(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestContextHandler_LiftsContextValues(t *testing.T) {
	var buf bytes.Buffer
	logger := newJSONLogger(&buf)

	ctx := ctxkey.WithValue(context.Background(), ctxkey.RequestID, "req-42")
	ctx = ctxkey.WithUserID(ctx, "user-7")
	logger.InfoContext(ctx, "hello")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "req-42", entry["request_id"])
	assert.Equal(t, "user-7", entry["user_id"])
}

func TestStructuredLogger_ErrorAddsErrorAttr(t *testing.T) {
	var buf bytes.Buffer
	logger := newJSONLogger(&buf)

	logger.Error("save failed", errors.New("boom"), "key", "user:1")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "user:1", entry["key"])
	assert.Equal(t, "ERROR", entry["level"])
}

func TestLogAppError_UsesErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newJSONLogger(&buf)

	LogAppError(context.Background(), logger, "attack rejected", xerrors.NewRaidCompletedError("u-1", "b-1"))

	entry := decodeLine(t, &buf)
	assert.Equal(t, "WARN", entry["level"])
	appErr, ok := entry["app_error"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, xerrors.CodeRaidAlreadyComplete, appErr["code"])
}

func TestLogBusinessEvent(t *testing.T) {
	var buf bytes.Buffer
	logger := newJSONLogger(&buf)

	LogBusinessEvent(context.Background(), logger, "level_up", "user", "u-1", map[string]any{"new_level": 10})

	entry := decodeLine(t, &buf)
	assert.Equal(t, "level_up", entry["event"])
	assert.Equal(t, "u-1", entry["entity_id"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}
