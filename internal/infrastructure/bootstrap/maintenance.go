package bootstrap

import (
	"context"
	"errors"
	"time"

	"github.com/andrescamacho/uexcorp-go/internal/application/datacache"
	appLogging "github.com/andrescamacho/uexcorp-go/internal/application/logging"
)

const pruneInterval = 24 * time.Hour

// RefreshLoop refetches trading data every interval until ctx is done.
// A failed refresh keeps the current data.
func (a *App) RefreshLoop(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return nil
	}
	ctx = a.Context(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if _, err := a.Data.Refresh(ctx); err != nil {
			var stale *datacache.StaleDataError
			if errors.As(err, &stale) || ctx.Err() != nil {
				continue
			}
			a.Logger.Log(appLogging.LevelWarning, "Scheduled trading data refresh failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

// PruneLoop deletes error log entries older than logging.retention_days,
// once at start and then daily
func (a *App) PruneLoop(ctx context.Context) error {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		a.pruneErrorLog(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (a *App) pruneErrorLog(ctx context.Context) {
	retention := time.Duration(a.Config.Logging.RetentionDays) * 24 * time.Hour
	removed, err := a.ErrorLog.Prune(ctx, a.clock.Now().Add(-retention))
	if err != nil {
		if ctx.Err() == nil {
			a.Logger.Log(appLogging.LevelWarning, "Failed to prune error log", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return
	}
	if removed > 0 {
		a.Logger.Log(appLogging.LevelInfo, "Pruned error log", map[string]interface{}{
			"removed":        removed,
			"retention_days": a.Config.Logging.RetentionDays,
		})
	}
}
