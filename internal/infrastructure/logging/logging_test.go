package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/uexcorp-go/internal/adapters/persistence"
	appLogging "github.com/andrescamacho/uexcorp-go/internal/application/logging"
	"github.com/andrescamacho/uexcorp-go/internal/infrastructure/logging"
	"github.com/andrescamacho/uexcorp-go/test/helpers"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		explicit string
		debug    string
		want     zerolog.Level
	}{
		{explicit: "", debug: "off", want: zerolog.WarnLevel},
		{explicit: "", debug: "on", want: zerolog.InfoLevel},
		{explicit: "", debug: "extensive", want: zerolog.DebugLevel},
		{explicit: "error", debug: "extensive", want: zerolog.ErrorLevel},
		{explicit: "DEBUG", debug: "off", want: zerolog.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.explicit+"/"+tt.debug, func(t *testing.T) {
			got, err := logging.ResolveLevel(tt.explicit, tt.debug)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := logging.ResolveLevel("verbose", "off")
	assert.Error(t, err)
}

func TestZerologLogger_WritesStructuredEntries(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := logging.New(&buf, "json", zerolog.InfoLevel)

	// Act
	logger.Log(appLogging.LevelDebug, "hidden", nil)
	logger.Log(appLogging.LevelInfo, "Executing function", map[string]interface{}{
		"operation": "get_ship_information",
		"arguments": map[string]interface{}{"shipName": "Cutlass"},
	})
	logger.Log(appLogging.LevelWarning, "Using stale trading data", map[string]interface{}{"age": "26h"})

	// Assert
	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "Executing function", lines[0]["message"])
	assert.Equal(t, "get_ship_information", lines[0]["operation"])
	assert.Equal(t, map[string]interface{}{"shipName": "Cutlass"}, lines[0]["arguments"])
	assert.Contains(t, lines[0], "time")
	assert.Equal(t, "warn", lines[1]["level"])
}

func TestZerologLogger_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, "console", zerolog.DebugLevel)

	logger.Log(appLogging.LevelError, "UEX corp rejected the API key", map[string]interface{}{"status": 401})

	out := buf.String()
	assert.Contains(t, out, "UEX corp rejected the API key")
	assert.Contains(t, out, "status=")
}

type fakeErrorLog struct {
	mu      sync.Mutex
	entries []persistence.ErrorLogEntry
	err     error
}

func (f *fakeErrorLog) Record(ctx context.Context, entry persistence.ErrorLogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

func TestErrorLogRecorder_PersistsWarningsAndErrors(t *testing.T) {
	// Arrange
	next := helpers.NewRecordingLogger()
	store := &fakeErrorLog{}
	recorder := logging.NewErrorLogRecorder(next, store)

	// Act
	recorder.Log(appLogging.LevelInfo, "Executing function", nil)
	recorder.Log(appLogging.LevelWarning, "Using stale trading data", nil)
	recorder.Log(appLogging.LevelError, "Function call failed", map[string]interface{}{
		"request_id": "2b1f",
		"operation":  "get_best_trading_route",
		"error":      "boom",
	})
	recorder.Wait()

	// Assert
	assert.Len(t, next.Entries(""), 3)
	require.Len(t, store.entries, 2)
	var failed persistence.ErrorLogEntry
	for _, e := range store.entries {
		if e.Level == appLogging.LevelError {
			failed = e
		}
	}
	assert.Equal(t, "2b1f", failed.RequestID)
	assert.Equal(t, "get_best_trading_route", failed.Operation)
	assert.Equal(t, "boom", failed.Metadata["error"])
}

func TestErrorLogRecorder_ReportsPersistFailures(t *testing.T) {
	next := helpers.NewRecordingLogger()
	recorder := logging.NewErrorLogRecorder(next, &fakeErrorLog{err: errors.New("database is locked")})

	recorder.Log(appLogging.LevelWarning, "Using stale trading data", nil)
	recorder.Wait()

	errs := next.Entries(appLogging.LevelError)
	require.Len(t, errs, 1)
	assert.Equal(t, "Failed to persist log entry", errs[0].Message)
	assert.Equal(t, "database is locked", errs[0].Metadata["error"])
}

func TestErrorLogRecorder_WithDatabase(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormErrorLogRepository(db, nil)
	recorder := logging.NewErrorLogRecorder(appLogging.NoOp(), repo)

	// Act
	recorder.Log(appLogging.LevelError, "Function call failed", map[string]interface{}{"request_id": "abc"})
	recorder.Wait()

	// Assert
	entries, err := repo.Recent(context.Background(), persistence.ErrorLogFilter{RequestID: "abc"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Function call failed", entries[0].Message)
}
