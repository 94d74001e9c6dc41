package logging

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andrescamacho/uexcorp-go/internal/adapters/persistence"
	appLogging "github.com/andrescamacho/uexcorp-go/internal/application/logging"
)

const persistTimeout = 5 * time.Second

// ErrorLogWriter persists diagnostics entries
type ErrorLogWriter interface {
	Record(ctx context.Context, entry persistence.ErrorLogEntry) error
}

// ErrorLogRecorder forwards every entry to the wrapped logger and also
// persists warnings and errors to the error log. Writes happen in the
// background so callers never wait on the database.
type ErrorLogRecorder struct {
	next   appLogging.Logger
	writer ErrorLogWriter
	wg     sync.WaitGroup
}

// NewErrorLogRecorder wraps next
func NewErrorLogRecorder(next appLogging.Logger, writer ErrorLogWriter) *ErrorLogRecorder {
	return &ErrorLogRecorder{next: next, writer: writer}
}

// Log implements logging.Logger
func (r *ErrorLogRecorder) Log(level, message string, metadata map[string]interface{}) {
	r.next.Log(level, message, metadata)

	if level != appLogging.LevelWarning && level != appLogging.LevelError {
		return
	}

	entry := persistence.ErrorLogEntry{
		Level:     level,
		Message:   message,
		RequestID: stringField(metadata, "request_id"),
		Operation: stringField(metadata, "operation"),
		Metadata:  copyMetadata(metadata),
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		if err := r.writer.Record(ctx, entry); err != nil {
			r.next.Log(appLogging.LevelError, "Failed to persist log entry", map[string]interface{}{
				"error":   err.Error(),
				"message": message,
			})
		}
	}()
}

// Wait blocks until every pending write has finished
func (r *ErrorLogRecorder) Wait() {
	r.wg.Wait()
}

func stringField(metadata map[string]interface{}, key string) string {
	v, ok := metadata[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func copyMetadata(metadata map[string]interface{}) map[string]interface{} {
	if len(metadata) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(metadata))
	for k, v := range metadata {
		out[k] = v
	}
	return out
}
