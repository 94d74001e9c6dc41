package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/uexcorp-go/internal/domain/shared"
)

// ErrorLogEntry is one persisted warning or error
type ErrorLogEntry struct {
	ID        int
	Timestamp time.Time
	Level     string
	Message   string
	RequestID string
	Operation string
	Metadata  map[string]interface{}
}

// ErrorLogFilter narrows Recent. Zero values mean no restriction.
type ErrorLogFilter struct {
	Level     string
	RequestID string
	Since     time.Time
	Limit     int
}

// GormErrorLogRepository stores the diagnostics log.
// Identical messages without a request id are written once per dedup window,
// so a provider outage does not flood the table.
type GormErrorLogRepository struct {
	db    *gorm.DB
	clock shared.Clock

	dedupCache   map[string]time.Time
	dedupMu      sync.Mutex
	dedupWindow  time.Duration
	dedupMaxSize int
}

// NewGormErrorLogRepository creates the repository. If clock is nil RealClock is used.
func NewGormErrorLogRepository(db *gorm.DB, clock shared.Clock) *GormErrorLogRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormErrorLogRepository{
		db:           db,
		clock:        clock,
		dedupCache:   make(map[string]time.Time),
		dedupWindow:  60 * time.Second,
		dedupMaxSize: 10000,
	}
}

// Record persists an entry. The timestamp is taken from the clock when unset.
func (r *GormErrorLogRepository) Record(ctx context.Context, entry ErrorLogEntry) error {
	now := r.clock.Now()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = now
	}

	if entry.RequestID == "" && r.isDuplicate(entry.Level+"|"+entry.Message, now) {
		return nil
	}

	var metadataJSON string
	if len(entry.Metadata) > 0 {
		if b, err := json.Marshal(entry.Metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	model := &ErrorLogModel{
		Timestamp: entry.Timestamp,
		Level:     entry.Level,
		Message:   entry.Message,
		RequestID: entry.RequestID,
		Operation: entry.Operation,
		Metadata:  metadataJSON,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to record error log: %w", err)
	}
	return nil
}

func (r *GormErrorLogRepository) isDuplicate(key string, now time.Time) bool {
	r.dedupMu.Lock()
	defer r.dedupMu.Unlock()

	if last, ok := r.dedupCache[key]; ok && now.Sub(last) < r.dedupWindow {
		return true
	}
	if len(r.dedupCache) >= r.dedupMaxSize {
		cutoff := now.Add(-r.dedupWindow)
		for k, ts := range r.dedupCache {
			if ts.Before(cutoff) {
				delete(r.dedupCache, k)
			}
		}
	}
	r.dedupCache[key] = now
	return false
}

// Recent returns matching entries, newest first
func (r *GormErrorLogRepository) Recent(ctx context.Context, filter ErrorLogFilter) ([]ErrorLogEntry, error) {
	query := r.db.WithContext(ctx).Model(&ErrorLogModel{})
	if filter.Level != "" {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.RequestID != "" {
		query = query.Where("request_id = ?", filter.RequestID)
	}
	if !filter.Since.IsZero() {
		query = query.Where("timestamp > ?", filter.Since)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var models []ErrorLogModel
	if err := query.Order("timestamp DESC").Order("id DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to query error log: %w", err)
	}

	entries := make([]ErrorLogEntry, len(models))
	for i, m := range models {
		entries[i] = ErrorLogEntry{
			ID:        m.ID,
			Timestamp: m.Timestamp,
			Level:     m.Level,
			Message:   m.Message,
			RequestID: m.RequestID,
			Operation: m.Operation,
		}
		if m.Metadata != "" {
			_ = json.Unmarshal([]byte(m.Metadata), &entries[i].Metadata)
		}
	}
	return entries, nil
}

// Prune deletes entries older than the cutoff and returns how many were removed
func (r *GormErrorLogRepository) Prune(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("timestamp < ?", before).Delete(&ErrorLogModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune error log: %w", result.Error)
	}
	return result.RowsAffected, nil
}
