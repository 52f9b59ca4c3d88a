package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSONWithSessionID(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	SetupWriter(&buf, slog.LevelInfo, "json")

	ctx := WithSessionID(context.Background(), "abc-123")
	FromContext(ctx).Info("session analyzed", slog.Int("resumes", 2))
	FromContext(ctx).Debug("hidden")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "session analyzed", line["msg"])
	assert.Equal(t, "abc-123", line["session_id"])
	assert.Equal(t, float64(2), line["resumes"])
}

func TestGetSessionIDMissing(t *testing.T) {
	assert.Equal(t, "", GetSessionID(context.Background()))
}
