package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Levels(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, New("svc", "debug", "json").GetLevel())
	assert.Equal(t, logrus.WarnLevel, New("svc", " warn ", "text").GetLevel())
	assert.Equal(t, logrus.InfoLevel, New("svc", "bogus", "json").GetLevel())
}

func TestNew_Formats(t *testing.T) {
	_, isText := New("svc", "info", "TEXT").Formatter.(*logrus.TextFormatter)
	assert.True(t, isText)

	_, isJSON := New("svc", "info", "").Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)
}

func TestTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	id := NewTraceID()
	require.NotEmpty(t, id)
	assert.NotEqual(t, id, NewTraceID())

	ctx = WithTraceID(ctx, id)
	assert.Equal(t, id, GetTraceID(ctx))
}

func TestLogRequest_IncludesFields(t *testing.T) {
	var buf bytes.Buffer
	l := New("rainwater", "info", "json")
	l.SetOutput(&buf)

	ctx := WithTraceID(context.Background(), "trace-1")
	l.LogRequest(ctx, "POST", "/v1/trap", 400, 15*time.Millisecond)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "rainwater", entry["service"])
	assert.Equal(t, "trace-1", entry["trace_id"])
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, float64(400), entry["status"])
	assert.Equal(t, "warning", entry["level"])
}

func TestLogComputation_DebugOnly(t *testing.T) {
	var buf bytes.Buffer
	l := New("rainwater", "info", "json")
	l.SetOutput(&buf)

	l.LogComputation(context.Background(), "prefix", 12, 6, time.Microsecond)
	assert.Zero(t, buf.Len())

	l.SetLevel(logrus.DebugLevel)
	l.LogComputation(context.Background(), "prefix", 12, 6, time.Microsecond)
	assert.Contains(t, buf.String(), `"water":6`)
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Error("ignored")
	l.LogSecurityEvent(context.Background(), "test", map[string]interface{}{"k": "v"})
}
