package logging

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/songpeng/inferBind/pkg/errors"
)

// newTestLogger returns a logger that writes JSON entries to a buffer.
func newTestLogger(t *testing.T) (Logger, *zaptest.Buffer) {
	t.Helper()
	buf := &zaptest.Buffer{}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), buf, zapcore.DebugLevel)
	return &zapLogger{z: zap.New(core)}, buf
}

func TestNewLogger_JSONFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gift.log")
	l, err := NewLogger(LogConfig{Level: LevelInfo, Format: "json", OutputPaths: []string{path}})
	require.NoError(t, err)

	l.Info("hello", String("k", "v"))
	l.Debug("hidden")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"k":"v"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: LevelDebug, Format: "console", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_NoOutputPaths(t *testing.T) {
	l, err := NewLogger(LogConfig{OutputPaths: []string{}})
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestNopLogger_AllMethodsNoOp(t *testing.T) {
	l := NewNopLogger()
	l.Debug("msg")
	l.Info("msg")
	l.Warn("msg")
	l.Error("msg")
	assert.Equal(t, l, l.With(String("k", "v")))
	assert.Equal(t, l, l.WithError(errors.New("x")))
	assert.Equal(t, l, l.Named("x"))
	assert.NoError(t, l.Sync())
}

func TestZapLogger_LevelsAndFields(t *testing.T) {
	l, buf := newTestLogger(t)
	l.Debug("debug msg", Int("rows", 3))
	l.Warn("warn msg", Bool("ok", true))
	l.Error("error msg", Float64("alpha", 0.05))

	out := buf.String()
	assert.Contains(t, out, `"level":"debug"`)
	assert.Contains(t, out, `"rows":3`)
	assert.Contains(t, out, `"ok":true`)
	assert.Contains(t, out, `"alpha":0.05`)
}

func TestZapLogger_With_AddsFields(t *testing.T) {
	l, buf := newTestLogger(t)
	l.With(String(FieldRunID, "abc")).Info("msg")
	assert.Contains(t, buf.String(), `"run_id":"abc"`)
}

func TestZapLogger_WithError_AppError(t *testing.T) {
	l, buf := newTestLogger(t)
	appErr := apperrors.New(apperrors.ErrCodeDuplicateName, "dup")
	l.WithError(appErr).Error("msg")
	assert.Contains(t, buf.String(), `"error_code":"DAT_003"`)
	assert.Contains(t, buf.String(), `"error":"[DAT_003] dup"`)
}

func TestZapLogger_WithError_StandardError(t *testing.T) {
	l, buf := newTestLogger(t)
	l.WithError(errors.New("std error")).Error("msg")
	assert.Contains(t, buf.String(), `"error":"std error"`)
	assert.NotContains(t, buf.String(), "error_code")
}

func TestZapLogger_WithError_NilError(t *testing.T) {
	l, buf := newTestLogger(t)
	l.WithError(nil).Info("msg")
	assert.NotContains(t, buf.String(), `"error"`)
}

func TestNewLoggerFromCore_Observed(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewLoggerFromCore(core).Named("prep")
	l.Info("stage completed", String(FieldStage, "adjacency"))

	entries := logs.FilterMessage("stage completed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "prep", entries[0].LoggerName)
	assert.Equal(t, "adjacency", entries[0].ContextMap()[FieldStage])
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug": LevelDebug, "INFO": LevelInfo, "": LevelInfo, "warning": LevelWarn, "error": LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
	assert.Equal(t, "debug", LevelDebug.String())
}

func TestLogStageDuration(t *testing.T) {
	l, buf := newTestLogger(t)
	LogStageDuration(l, "estimate", time.Now(), Int("cells", 4))
	out := buf.String()
	assert.Contains(t, out, "stage completed")
	assert.Contains(t, out, `"stage":"estimate"`)
	assert.Contains(t, out, "duration_ms")
	assert.Contains(t, out, `"cells":4`)
}

func TestLogStageElapsed_SlowStageWarns(t *testing.T) {
	l, buf := newTestLogger(t)
	LogStageElapsed(l, "estimate", time.Minute)
	out := buf.String()
	assert.Contains(t, out, "stage completed slowly")
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"duration_ms":60000`)
}
