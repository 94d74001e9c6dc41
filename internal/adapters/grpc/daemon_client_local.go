package grpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andrescamacho/uexcorp-go/internal/adapters/persistence"
	"github.com/andrescamacho/uexcorp-go/internal/application/assistant"
	"github.com/andrescamacho/uexcorp-go/internal/application/logging"
	"github.com/andrescamacho/uexcorp-go/internal/domain/daemon"
	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
	"github.com/andrescamacho/uexcorp-go/internal/domain/shared"
)

// FunctionCaller is the assistant facade
type FunctionCaller interface {
	Call(ctx context.Context, name string, args map[string]interface{}) (*assistant.Result, error)
	Functions() []assistant.FunctionSpec
	AdditionalContext(ctx context.Context) (string, error)
}

// CatalogSource returns the active dataset, or nil before the first load
type CatalogSource interface {
	Catalog() *market.Catalog
}

// ErrorLogReader reads the persisted diagnostics log
type ErrorLogReader interface {
	Recent(ctx context.Context, filter persistence.ErrorLogFilter) ([]persistence.ErrorLogEntry, error)
}

// LoadHistoryReader reads the trading data load history
type LoadHistoryReader interface {
	History(ctx context.Context, limit int) ([]persistence.DataLoad, error)
}

// LocalClientConfig wires the in-process client. Errors and Loads may be
// nil when no database is configured; Circuit may be nil as well.
type LocalClientConfig struct {
	Assistant FunctionCaller
	Catalogs  CatalogSource
	Errors    ErrorLogReader
	Loads     LoadHistoryReader
	Circuit   func() string
	Clock     shared.Clock
	MaxAge    time.Duration
	Version   string

	// Logger is attached to every call context when set
	Logger logging.Logger
}

// DaemonClientLocal implements daemon.Client by calling the assistant directly.
// The daemon serves it over gRPC; the CLI uses it when running without a daemon.
type DaemonClientLocal struct {
	cfg     LocalClientConfig
	closers []func() error
}

// NewDaemonClientLocal creates a new local client. closers run on Close in order.
func NewDaemonClientLocal(cfg LocalClientConfig, closers ...func() error) *DaemonClientLocal {
	if cfg.Clock == nil {
		cfg.Clock = shared.NewRealClock()
	}
	return &DaemonClientLocal{cfg: cfg, closers: closers}
}

// Call executes one function
func (c *DaemonClientLocal) Call(ctx context.Context, name string, args map[string]interface{}) (*daemon.FunctionResult, error) {
	if c.cfg.Logger != nil {
		ctx = logging.WithLogger(ctx, c.cfg.Logger)
	}
	result, err := c.cfg.Assistant.Call(ctx, name, args)
	if err != nil {
		if errors.Is(err, assistant.ErrUnknownOperation) {
			return nil, fmt.Errorf("%w: %s", daemon.ErrUnknownFunction, name)
		}
		return nil, err
	}
	return &daemon.FunctionResult{
		Operation: string(result.Operation),
		Text:      result.Text,
		RequestID: result.RequestID,
		Failed:    result.Failed,
	}, nil
}

// ListFunctions returns the declared functions and the model context
func (c *DaemonClientLocal) ListFunctions(ctx context.Context) (*daemon.FunctionCatalog, error) {
	text, err := c.cfg.Assistant.AdditionalContext(ctx)
	if err != nil {
		return nil, err
	}

	specs := c.cfg.Assistant.Functions()
	out := &daemon.FunctionCatalog{
		Functions: make([]daemon.FunctionInfo, 0, len(specs)),
		Context:   text,
	}
	for _, fn := range specs {
		info := daemon.FunctionInfo{Name: string(fn.Name), Description: fn.Description}
		for _, p := range fn.Parameters {
			info.Parameters = append(info.Parameters, daemon.ParameterInfo{
				Name:        p.Name,
				Type:        string(p.Type),
				Description: p.Description,
				Required:    p.Required,
				Default:     p.Default,
			})
		}
		out.Functions = append(out.Functions, info)
	}
	return out, nil
}

// Health reports whether trading data is loaded and fresh
func (c *DaemonClientLocal) Health(ctx context.Context) (*daemon.HealthStatus, error) {
	h := &daemon.HealthStatus{Status: "no_data", Version: c.cfg.Version}
	if c.cfg.Circuit != nil {
		h.CircuitState = c.cfg.Circuit()
	}

	catalog := c.cfg.Catalogs.Catalog()
	if catalog == nil {
		return h, nil
	}
	snapshot := catalog.Snapshot()
	h.DataLoaded = true
	h.FetchedAt = snapshot.FetchedAt
	h.Commodities = len(snapshot.Commodities)
	h.Locations = len(snapshot.Locations)
	h.Offers = len(snapshot.Offers)
	h.Ships = len(snapshot.Ships)
	h.Status = "ok"
	if c.cfg.MaxAge > 0 && !snapshot.IsFresh(c.cfg.Clock.Now(), c.cfg.MaxAge) {
		h.Status = "stale"
	}
	return h, nil
}

// RecentErrors returns persisted warnings and errors, newest first
func (c *DaemonClientLocal) RecentErrors(ctx context.Context, filter daemon.ErrorFilter) ([]daemon.ErrorEntry, error) {
	if c.cfg.Errors == nil {
		return nil, nil
	}
	entries, err := c.cfg.Errors.Recent(ctx, persistence.ErrorLogFilter{
		Level:     filter.Level,
		RequestID: filter.RequestID,
		Since:     filter.Since,
		Limit:     filter.Limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]daemon.ErrorEntry, len(entries))
	for i, e := range entries {
		out[i] = daemon.ErrorEntry{
			Timestamp: e.Timestamp,
			Level:     e.Level,
			Message:   e.Message,
			RequestID: e.RequestID,
			Operation: e.Operation,
			Metadata:  e.Metadata,
		}
	}
	return out, nil
}

// LoadHistory returns the most recent trading data loads
func (c *DaemonClientLocal) LoadHistory(ctx context.Context, limit int) ([]daemon.DataLoadEntry, error) {
	if c.cfg.Loads == nil {
		return nil, nil
	}
	loads, err := c.cfg.Loads.History(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]daemon.DataLoadEntry, len(loads))
	for i, l := range loads {
		out[i] = daemon.DataLoadEntry{
			Timestamp:   l.Timestamp,
			Source:      l.Source,
			Success:     l.Success,
			Duration:    l.Duration,
			Commodities: l.Commodities,
			Locations:   l.Locations,
			Offers:      l.Offers,
			Ships:       l.Ships,
		}
	}
	return out, nil
}

// Close runs the registered closers
func (c *DaemonClientLocal) Close() error {
	var errs []error
	for _, fn := range c.closers {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
