package persistence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/uexcorp-go/internal/application/logging"
	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
	"github.com/andrescamacho/uexcorp-go/internal/domain/shared"
)

// DataLoad is one recorded attempt to obtain trading data
type DataLoad struct {
	Timestamp   time.Time
	Source      string
	Success     bool
	Duration    time.Duration
	Commodities int
	Locations   int
	Offers      int
	Ships       int
}

const recordTimeout = 5 * time.Second

// GormDataLoadRepository keeps the trading data load history. It implements
// the cache service's recorder: the counts of a published snapshot are
// attached to the successful load that produced it.
type GormDataLoadRepository struct {
	db     *gorm.DB
	clock  shared.Clock
	logger logging.Logger

	mu         sync.Mutex
	lastLoadID int
}

// NewGormDataLoadRepository creates the repository. Recording failures are
// reported through logger, which may be nil.
func NewGormDataLoadRepository(db *gorm.DB, clock shared.Clock, logger logging.Logger) *GormDataLoadRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &GormDataLoadRepository{db: db, clock: clock, logger: logger}
}

// RecordLoad appends a load attempt
func (r *GormDataLoadRepository) RecordLoad(source string, success bool, duration time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	model := &DataLoadModel{
		Timestamp:  r.clock.Now(),
		Source:     source,
		Success:    success,
		DurationMs: duration.Milliseconds(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Log(logging.LevelWarning, "Failed to record trading data load", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if success {
		r.mu.Lock()
		r.lastLoadID = model.ID
		r.mu.Unlock()
	}
}

// RecordSnapshot stores the dataset size on the latest successful load
func (r *GormDataLoadRepository) RecordSnapshot(snapshot market.Snapshot) {
	r.mu.Lock()
	id := r.lastLoadID
	r.mu.Unlock()
	if id == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	err := r.db.WithContext(ctx).Model(&DataLoadModel{}).Where("id = ?", id).Updates(map[string]interface{}{
		"commodities": len(snapshot.Commodities),
		"locations":   len(snapshot.Locations),
		"offers":      len(snapshot.Offers),
		"ships":       len(snapshot.Ships),
	}).Error
	if err != nil {
		r.logger.Log(logging.LevelWarning, "Failed to record trading data size", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// History returns the most recent loads, newest first
func (r *GormDataLoadRepository) History(ctx context.Context, limit int) ([]DataLoad, error) {
	if limit <= 0 {
		limit = 20
	}
	var models []DataLoadModel
	if err := r.db.WithContext(ctx).Order("timestamp DESC").Order("id DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to query data load history: %w", err)
	}
	out := make([]DataLoad, len(models))
	for i, m := range models {
		out[i] = DataLoad{
			Timestamp:   m.Timestamp,
			Source:      m.Source,
			Success:     m.Success,
			Duration:    time.Duration(m.DurationMs) * time.Millisecond,
			Commodities: m.Commodities,
			Locations:   m.Locations,
			Offers:      m.Offers,
			Ships:       m.Ships,
		}
	}
	return out, nil
}
