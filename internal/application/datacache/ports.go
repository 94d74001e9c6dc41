package datacache

import (
	"context"
	"time"

	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
)

// Fetcher downloads every dataset from the trading data provider and
// assembles one snapshot. A failure of any dataset fails the whole fetch.
type Fetcher interface {
	FetchSnapshot(ctx context.Context) (market.Snapshot, error)
}

// circuitResetter is implemented by fetchers that stop calling a failing
// provider. An explicit refresh always gets one more attempt.
type circuitResetter interface {
	ResetCircuit()
}

// Store persists the last known good snapshot.
// Load returns market.ErrCacheMiss when nothing usable is stored.
type Store interface {
	Load(ctx context.Context) (market.Snapshot, error)
	Save(ctx context.Context, snapshot market.Snapshot) error
}

// Recorder receives cache events for metrics and load history
type Recorder interface {
	RecordLoad(source string, success bool, duration time.Duration)
	RecordSnapshot(snapshot market.Snapshot)
}

type noopRecorder struct{}

func (noopRecorder) RecordLoad(string, bool, time.Duration) {}
func (noopRecorder) RecordSnapshot(market.Snapshot)         {}

// MultiRecorder forwards every event to each recorder in order
func MultiRecorder(recorders ...Recorder) Recorder {
	out := make(multiRecorder, 0, len(recorders))
	for _, r := range recorders {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

type multiRecorder []Recorder

func (m multiRecorder) RecordLoad(source string, success bool, duration time.Duration) {
	for _, r := range m {
		r.RecordLoad(source, success, duration)
	}
}

func (m multiRecorder) RecordSnapshot(snapshot market.Snapshot) {
	for _, r := range m {
		r.RecordSnapshot(snapshot)
	}
}

// Load sources reported to the Recorder
const (
	SourceDisk  = "disk"
	SourceAPI   = "api"
	SourceStale = "stale"
)
