package daemon

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnknownFunction is returned when a call names an operation the assistant does not offer
	ErrUnknownFunction = errors.New("unknown function")

	// ErrDaemonUnavailable is returned when the daemon socket cannot be reached
	ErrDaemonUnavailable = errors.New("daemon unavailable")
)

// FunctionResult is the answer to one function call
type FunctionResult struct {
	Operation string
	Text      string
	RequestID string // set when the call failed unexpectedly
	Failed    bool
}

// ParameterInfo describes one declared function parameter
type ParameterInfo struct {
	Name        string
	Type        string
	Description string
	Required    bool
	Default     interface{}
}

// FunctionInfo describes one callable operation
type FunctionInfo struct {
	Name        string
	Description string
	Parameters  []ParameterInfo
}

// FunctionCatalog lists the offered operations together with the context
// text a summarizing model should be given
type FunctionCatalog struct {
	Functions []FunctionInfo
	Context   string
}

// HealthStatus reports whether the daemon has usable trading data
type HealthStatus struct {
	Status       string // "ok", "stale" or "no_data"
	Version      string
	DataLoaded   bool
	FetchedAt    time.Time
	Commodities  int
	Locations    int
	Offers       int
	Ships        int
	CircuitState string
}

// ErrorEntry is one persisted warning or error
type ErrorEntry struct {
	Timestamp time.Time
	Level     string
	Message   string
	RequestID string
	Operation string
	Metadata  map[string]interface{}
}

// ErrorFilter narrows RecentErrors. Zero values mean no restriction.
type ErrorFilter struct {
	Level     string
	RequestID string
	Since     time.Time
	Limit     int
}

// DataLoadEntry is one recorded attempt to obtain trading data
type DataLoadEntry struct {
	Timestamp   time.Time
	Source      string
	Success     bool
	Duration    time.Duration
	Commodities int
	Locations   int
	Offers      int
	Ships       int
}

// Client is the assistant as seen by the CLI, either in process or through
// the daemon socket
type Client interface {
	Call(ctx context.Context, name string, args map[string]interface{}) (*FunctionResult, error)
	ListFunctions(ctx context.Context) (*FunctionCatalog, error)
	Health(ctx context.Context) (*HealthStatus, error)
	RecentErrors(ctx context.Context, filter ErrorFilter) ([]ErrorEntry, error)
	LoadHistory(ctx context.Context, limit int) ([]DataLoadEntry, error)
	Close() error
}
