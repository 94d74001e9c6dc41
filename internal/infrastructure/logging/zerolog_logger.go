package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	appLogging "github.com/andrescamacho/uexcorp-go/internal/application/logging"
	"github.com/andrescamacho/uexcorp-go/internal/infrastructure/config"
)

// ZerologLogger writes application log entries as structured zerolog events
type ZerologLogger struct {
	logger zerolog.Logger
}

// New creates a logger writing to w. format is "json" or "console".
func New(w io.Writer, format string, level zerolog.Level) *ZerologLogger {
	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return &ZerologLogger{
		logger: zerolog.New(w).Level(level).With().Timestamp().Logger(),
	}
}

// NewFromConfig creates the process logger. The returned closer releases the
// log file when output is "file" and is a no-op otherwise.
func NewFromConfig(cfg config.LoggingConfig, debug string) (*ZerologLogger, io.Closer, error) {
	level, err := ResolveLevel(cfg.Level, debug)
	if err != nil {
		return nil, nil, err
	}

	var (
		w      io.Writer
		closer io.Closer = nopCloser{}
	)
	switch cfg.Output {
	case "stdout":
		w = os.Stdout
	case "file":
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w, closer = f, f
	default:
		w = os.Stderr
	}

	return New(w, cfg.Format, level), closer, nil
}

// ResolveLevel picks the minimum level. An explicit level wins; otherwise the
// assistant debug setting decides: off logs warnings and errors, on adds
// info, extensive adds debug.
func ResolveLevel(explicit, debug string) (zerolog.Level, error) {
	switch strings.ToLower(explicit) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warning", "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "":
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", explicit)
	}

	switch debug {
	case "extensive":
		return zerolog.DebugLevel, nil
	case "on":
		return zerolog.InfoLevel, nil
	default:
		return zerolog.WarnLevel, nil
	}
}

// Log implements logging.Logger
func (l *ZerologLogger) Log(level, message string, metadata map[string]interface{}) {
	var event *zerolog.Event
	switch level {
	case appLogging.LevelDebug:
		event = l.logger.Debug()
	case appLogging.LevelWarning:
		event = l.logger.Warn()
	case appLogging.LevelError:
		event = l.logger.Error()
	default:
		event = l.logger.Info()
	}
	if event == nil {
		return
	}

	// sorted for stable console output
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		event = event.Interface(k, metadata[k])
	}
	event.Msg(message)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
