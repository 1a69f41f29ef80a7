package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestZerolog() (zerolog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return zerolog.New(&buf).With().Timestamp().Logger(), &buf
}

func TestNewZerologLogger(t *testing.T) {
	zerologLogger, _ := setupTestZerolog()

	adapter := NewZerologLogger(zerologLogger, Config{
		LogLevel:      Info,
		SlowThreshold: 100 * time.Millisecond,
	})

	require.NotNil(t, adapter)
	assert.Equal(t, Info, adapter.(*ZerologLogger).LogLevel)
	assert.Equal(t, 100*time.Millisecond, adapter.(*ZerologLogger).SlowThreshold)
}

func TestZerologLogger_LogMode(t *testing.T) {
	zerologLogger, _ := setupTestZerolog()
	logger := NewZerologLogger(zerologLogger, Config{LogLevel: Error})

	infoLogger := logger.LogMode(Info)
	assert.Equal(t, Info, infoLogger.(*ZerologLogger).LogLevel)
	assert.Equal(t, Error, logger.(*ZerologLogger).LogLevel)
}

func TestZerologLogger_Messages(t *testing.T) {
	zerologLogger, buf := setupTestZerolog()
	logger := NewZerologLogger(zerologLogger, Config{LogLevel: Info})

	logger.Info(WithTxID(context.Background(), "tx-4"), "found %d rows", 2)
	logger.Error(context.Background(), "failed")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "found 2 rows", entries[0]["message"])
	assert.Equal(t, "tx-4", entries[0]["tx"])
	assert.Equal(t, "error", entries[1]["level"])
}

func TestZerologLogger_Trace(t *testing.T) {
	fc := func() (string, int64) { return "INSERT INTO posts (title) VALUES ('hi')", 1 }

	t.Run("info", func(t *testing.T) {
		zerologLogger, buf := setupTestZerolog()
		logger := NewZerologLogger(zerologLogger, Config{LogLevel: Info})

		logger.Trace(context.Background(), time.Now(), fc, nil)

		entries := decodeLines(t, buf)
		require.Len(t, entries, 1)
		assert.Equal(t, "SQL executed", entries[0]["message"])
		assert.Equal(t, "INSERT INTO posts (title) VALUES ('hi')", entries[0]["sql"])
		assert.EqualValues(t, 1, entries[0]["rows"])
	})

	t.Run("error", func(t *testing.T) {
		zerologLogger, buf := setupTestZerolog()
		logger := NewZerologLogger(zerologLogger, Config{LogLevel: Error})

		logger.Trace(WithTxID(context.Background(), "tx-5"), time.Now(), fc, errors.New("constraint"))

		entries := decodeLines(t, buf)
		require.Len(t, entries, 1)
		assert.Equal(t, "error", entries[0]["level"])
		assert.Equal(t, "constraint", entries[0]["error"])
		assert.Equal(t, "tx-5", entries[0]["tx"])
	})

	t.Run("slow", func(t *testing.T) {
		zerologLogger, buf := setupTestZerolog()
		logger := NewZerologLogger(zerologLogger, Config{LogLevel: Warn, SlowThreshold: time.Millisecond})

		logger.Trace(context.Background(), time.Now().Add(-time.Second), fc, nil)

		entries := decodeLines(t, buf)
		require.Len(t, entries, 1)
		assert.Equal(t, "warn", entries[0]["level"])
		assert.Equal(t, "1ms", entries[0]["slow_threshold"])
	})

	t.Run("skipped", func(t *testing.T) {
		zerologLogger, buf := setupTestZerolog()
		logger := NewZerologLogger(zerologLogger, Config{LogLevel: Warn})

		called := false
		logger.Trace(context.Background(), time.Now(), func() (string, int64) { called = true; return "", 0 }, nil)

		assert.False(t, called)
		assert.Zero(t, buf.Len())
	})
}

func TestZerologLevel(t *testing.T) {
	assert.Equal(t, zerolog.Disabled, ZerologLevel(Silent))
	assert.Equal(t, zerolog.ErrorLevel, ZerologLevel(Error))
	assert.Equal(t, zerolog.WarnLevel, ZerologLevel(Warn))
	assert.Equal(t, zerolog.InfoLevel, ZerologLevel(Info))
}

func TestNewZerologConsoleLogger(t *testing.T) {
	logger := NewZerologConsoleLogger(Config{LogLevel: Warn})
	assert.Equal(t, Warn, logger.(*ZerologLogger).LogLevel)
}
