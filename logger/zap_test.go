package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func setupTestZap(level zapcore.Level) (*zap.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(&buf),
		level,
	)
	return zap.New(core), &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		entry := map[string]interface{}{}
		require.NoError(t, json.Unmarshal(line, &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestNewZapLogger(t *testing.T) {
	zapLogger, _ := setupTestZap(zapcore.InfoLevel)

	zapAdapter := NewZapLogger(zapLogger, Config{
		LogLevel:             Info,
		SlowThreshold:        100 * time.Millisecond,
		ParameterizedQueries: true,
	})

	require.NotNil(t, zapAdapter)
	assert.Equal(t, Info, zapAdapter.(*ZapLogger).LogLevel)
	assert.Equal(t, 100*time.Millisecond, zapAdapter.(*ZapLogger).SlowThreshold)
	assert.True(t, zapAdapter.(*ZapLogger).Parameterized)
}

func TestZapLogger_LogMode(t *testing.T) {
	logger := NewZapLogger(zap.NewNop(), Config{LogLevel: Error})

	infoLogger := logger.LogMode(Info)
	assert.Equal(t, Info, infoLogger.(*ZapLogger).LogLevel)
	assert.Equal(t, Error, logger.(*ZapLogger).LogLevel)
}

func TestZapLogger_Messages(t *testing.T) {
	zapLogger, buf := setupTestZap(zapcore.DebugLevel)
	logger := NewZapLogger(zapLogger, Config{LogLevel: Warn})
	ctx := WithTxID(context.Background(), "tx-1")

	logger.Info(ctx, "hidden %d", 1)
	logger.Warn(ctx, "model %s registered twice", "user")
	logger.Error(ctx, "save failed: %v", errors.New("boom"))

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "warn", entries[0]["level"])
	assert.Equal(t, "model user registered twice", entries[0]["msg"])
	assert.Equal(t, "tx-1", entries[0]["tx"])
	assert.NotEmpty(t, entries[0]["file"])
	assert.Equal(t, "error", entries[1]["level"])
	assert.Equal(t, "save failed: boom", entries[1]["msg"])
}

func TestZapLogger_Trace(t *testing.T) {
	fc := func() (string, int64) { return `SELECT * FROM "users"`, 2 }

	t.Run("info", func(t *testing.T) {
		zapLogger, buf := setupTestZap(zapcore.InfoLevel)
		logger := NewZapLogger(zapLogger, Config{LogLevel: Info})

		logger.Trace(WithTxID(context.Background(), "tx-2"), time.Now(), fc, nil)

		entries := decodeLines(t, buf)
		require.Len(t, entries, 1)
		assert.Equal(t, "SQL executed", entries[0]["msg"])
		assert.Equal(t, `SELECT * FROM "users"`, entries[0]["sql"])
		assert.EqualValues(t, 2, entries[0]["rows"])
		assert.Equal(t, "tx-2", entries[0]["tx"])
	})

	t.Run("error", func(t *testing.T) {
		zapLogger, buf := setupTestZap(zapcore.InfoLevel)
		logger := NewZapLogger(zapLogger, Config{LogLevel: Error})

		logger.Trace(context.Background(), time.Now(), fc, errors.New("no such table"))

		entries := decodeLines(t, buf)
		require.Len(t, entries, 1)
		assert.Equal(t, "error", entries[0]["level"])
		assert.Equal(t, "no such table", entries[0]["error"])
		assert.NotContains(t, entries[0], "tx")
	})

	t.Run("slow", func(t *testing.T) {
		zapLogger, buf := setupTestZap(zapcore.InfoLevel)
		logger := NewZapLogger(zapLogger, Config{LogLevel: Warn, SlowThreshold: time.Millisecond})

		logger.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) { return "DELETE FROM posts", -1 }, nil)

		entries := decodeLines(t, buf)
		require.Len(t, entries, 1)
		assert.Equal(t, "SLOW SQL executed", entries[0]["msg"])
		assert.Equal(t, "1ms", entries[0]["slow_threshold"])
		assert.NotContains(t, entries[0], "rows")
	})

	t.Run("silent", func(t *testing.T) {
		zapLogger, buf := setupTestZap(zapcore.DebugLevel)
		logger := NewZapLogger(zapLogger, Config{LogLevel: Silent})

		called := false
		logger.Trace(context.Background(), time.Now(), func() (string, int64) { called = true; return "", 0 }, errors.New("x"))

		assert.False(t, called)
		assert.Zero(t, buf.Len())
	})
}

func TestZapLogger_ParamsFilter(t *testing.T) {
	params := []interface{}{"ann", 3}

	logger := NewZapLogger(zap.NewNop(), Config{ParameterizedQueries: true}).(ParamsFilter)
	sql, got := logger.ParamsFilter(context.Background(), "SELECT ?", params...)
	assert.Equal(t, "SELECT ?", sql)
	assert.Nil(t, got)

	logger = NewZapLogger(zap.NewNop(), Config{}).(ParamsFilter)
	_, got = logger.ParamsFilter(context.Background(), "SELECT ?", params...)
	assert.Equal(t, params, got)
}

func TestZapLogger_WithFields(t *testing.T) {
	zapLogger, buf := setupTestZap(zapcore.InfoLevel)
	logger := NewZapLogger(zapLogger, Config{LogLevel: Info}).(*ZapLogger).WithFields(zap.String("component", "registry"))

	logger.Info(context.Background(), "ready")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "registry", entries[0]["component"])
}

func TestZapLevel(t *testing.T) {
	assert.Equal(t, zapcore.FatalLevel, ZapLevel(Silent))
	assert.Equal(t, zapcore.ErrorLevel, ZapLevel(Error))
	assert.Equal(t, zapcore.WarnLevel, ZapLevel(Warn))
	assert.Equal(t, zapcore.InfoLevel, ZapLevel(Info))
}

func TestNewZapLoggerWithConfig(t *testing.T) {
	logger, err := NewZapLoggerWithConfig(Config{LogLevel: Warn})
	require.NoError(t, err)
	assert.Equal(t, Warn, logger.(*ZapLogger).LogLevel)
}
