// Package bootstrap wires configuration, storage, the UEX client and the
// assistant into one App. The daemon serves it over gRPC and the CLI uses it
// in process with --local.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gorm.io/gorm"

	"github.com/andrescamacho/uexcorp-go/internal/adapters/api"
	"github.com/andrescamacho/uexcorp-go/internal/adapters/cache"
	"github.com/andrescamacho/uexcorp-go/internal/adapters/cli"
	"github.com/andrescamacho/uexcorp-go/internal/adapters/grpc"
	"github.com/andrescamacho/uexcorp-go/internal/adapters/metrics"
	"github.com/andrescamacho/uexcorp-go/internal/adapters/persistence"
	"github.com/andrescamacho/uexcorp-go/internal/application/assistant"
	"github.com/andrescamacho/uexcorp-go/internal/application/datacache"
	appLogging "github.com/andrescamacho/uexcorp-go/internal/application/logging"
	"github.com/andrescamacho/uexcorp-go/internal/application/mediator"
	"github.com/andrescamacho/uexcorp-go/internal/application/setup"
	"github.com/andrescamacho/uexcorp-go/internal/application/trading/services"
	"github.com/andrescamacho/uexcorp-go/internal/domain/daemon"
	"github.com/andrescamacho/uexcorp-go/internal/domain/shared"
	"github.com/andrescamacho/uexcorp-go/internal/domain/trading"
	"github.com/andrescamacho/uexcorp-go/internal/infrastructure/config"
	"github.com/andrescamacho/uexcorp-go/internal/infrastructure/database"
	"github.com/andrescamacho/uexcorp-go/internal/infrastructure/logging"
)

// Options tune New for the running binary
type Options struct {
	Version string

	// Metrics registers the prometheus collectors when metrics.enabled is set.
	// Only the daemon exposes them.
	Metrics bool

	// Clock defaults to the real clock
	Clock shared.Clock

	// Fetcher replaces the UEX client as the data source (tests)
	Fetcher datacache.Fetcher

	// LogWriter replaces the configured log output (tests)
	LogWriter io.Writer
}

// App holds every long-lived component
type App struct {
	Config   *config.Config
	Logger   appLogging.Logger
	DB       *gorm.DB
	ErrorLog *persistence.GormErrorLogRepository
	Loads    *persistence.GormDataLoadRepository
	UEX      *api.UEXClient
	Data     *datacache.Service
	Mediator mediator.Mediator
	Facade   *assistant.Facade

	version   string
	clock     shared.Clock
	recorder  *logging.ErrorLogRecorder
	logCloser io.Closer
}

// New builds the application from cfg. Close releases the database and the
// log output.
func New(cfg *config.Config, opts Options) (*App, error) {
	clock := opts.Clock
	if clock == nil {
		clock = shared.NewRealClock()
	}

	zl, logCloser, err := newLogger(cfg, opts.LogWriter)
	if err != nil {
		return nil, err
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	policy, err := tradingPolicy(cfg.Trading)
	if err != nil {
		database.Close(db)
		logCloser.Close()
		return nil, err
	}

	app := &App{
		Config:    cfg,
		DB:        db,
		version:   opts.Version,
		clock:     clock,
		logCloser: logCloser,
	}

	app.ErrorLog = persistence.NewGormErrorLogRepository(db, clock)
	app.recorder = logging.NewErrorLogRecorder(zl, app.ErrorLog)
	app.Logger = app.recorder
	app.Loads = persistence.NewGormDataLoadRepository(db, clock, app.recorder)
	app.Mediator = mediator.NewMediator()

	var (
		apiRecorder   api.RequestRecorder
		cacheRecorder datacache.Recorder = app.Loads
	)
	if opts.Metrics && cfg.Metrics.Enabled {
		collectors, err := registerMetrics()
		if err != nil {
			app.Close()
			return nil, err
		}
		apiRecorder = collectors.api
		cacheRecorder = datacache.MultiRecorder(app.Loads, collectors.cache)
		app.Mediator.RegisterMiddleware(metrics.PrometheusMiddleware(collectors.command))
	}

	app.UEX = api.NewUEXClient(api.Config{
		BaseURL:             cfg.API.BaseURL,
		APIKey:              cfg.API.APIKey,
		Timeout:             cfg.API.Timeout,
		RequestsPerSecond:   cfg.API.RateLimit.Requests,
		Burst:               cfg.API.RateLimit.Burst,
		MaxRetries:          cfg.API.Retry.MaxAttempts,
		BackoffBase:         cfg.API.Retry.BackoffBase,
		BreakerMaxFailures:  cfg.API.CircuitBreaker.MaxFailures,
		BreakerResetTimeout: cfg.API.CircuitBreaker.ResetTimeout,
	}, clock, apiRecorder)

	var fetcher datacache.Fetcher = app.UEX
	if opts.Fetcher != nil {
		fetcher = opts.Fetcher
	}

	// a nil *FileStore must not become a non-nil Store
	var store datacache.Store
	if cfg.Cache.Enabled {
		format, err := cache.ParseFormat(cfg.Cache.Format)
		if err != nil {
			app.Close()
			return nil, shared.NewConfigurationError("cache.format", err.Error())
		}
		fileStore, err := cache.NewFileStore(cfg.Cache.Path, format)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to open trading data cache: %w", err)
		}
		store = fileStore
	}

	app.Data = datacache.NewService(fetcher, store, clock, cacheRecorder, datacache.Options{
		Enabled: cfg.Cache.Enabled,
		MaxAge:  cfg.Cache.MaxAge(),
	})

	registry := setup.NewHandlerRegistry(app.Data, app.Data, policy, clock)
	if err := registry.RegisterAll(app.Mediator); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to register handlers: %w", err)
	}

	app.Facade = assistant.NewFacade(app.Mediator, app.Data, clock, assistant.Options{
		Debug:                assistant.DebugLevel(cfg.Assistant.Debug),
		AdditionalContext:    cfg.Assistant.AdditionalContext,
		RememberArguments:    cfg.Assistant.RememberArguments,
		DefaultRouteCount:    cfg.Trading.DefaultRouteCount,
		DefaultLocationCount: cfg.Trading.DefaultLocationCount,
	})

	return app, nil
}

func newLogger(cfg *config.Config, w io.Writer) (*logging.ZerologLogger, io.Closer, error) {
	if w == nil {
		zl, closer, err := logging.NewFromConfig(cfg.Logging, cfg.Assistant.Debug)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create logger: %w", err)
		}
		return zl, closer, nil
	}
	level, err := logging.ResolveLevel(cfg.Logging.Level, cfg.Assistant.Debug)
	if err != nil {
		return nil, nil, shared.NewConfigurationError("logging.level", err.Error())
	}
	return logging.New(w, cfg.Logging.Format, level), nopCloser{}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type metricCollectors struct {
	api     *metrics.APIMetricsCollector
	cache   *metrics.CacheMetricsCollector
	command *metrics.CommandMetricsCollector
}

func registerMetrics() (*metricCollectors, error) {
	metrics.InitRegistry()

	c := &metricCollectors{
		api:     metrics.NewAPIMetricsCollector(),
		cache:   metrics.NewCacheMetricsCollector(),
		command: metrics.NewCommandMetricsCollector(),
	}
	if err := c.api.Register(); err != nil {
		return nil, fmt.Errorf("failed to register API metrics: %w", err)
	}
	if err := c.cache.Register(); err != nil {
		return nil, fmt.Errorf("failed to register cache metrics: %w", err)
	}
	if err := c.command.Register(); err != nil {
		return nil, fmt.Errorf("failed to register command metrics: %w", err)
	}
	return c, nil
}

// tradingPolicy converts the trading section. Rules were validated with the
// configuration; NewBlacklistRule still guards programmatic configs.
func tradingPolicy(cfg config.TradingConfig) (services.TradingPolicy, error) {
	blacklist := make(trading.Blacklist, 0, len(cfg.Blacklist))
	for i, r := range cfg.Blacklist {
		rule, err := trading.NewBlacklistRule(r.Location, r.Commodity)
		if err != nil {
			return services.TradingPolicy{}, shared.NewConfigurationError(fmt.Sprintf("trading.blacklist[%d]", i), err.Error())
		}
		blacklist = append(blacklist, rule)
	}

	return services.TradingPolicy{
		TradeStartMandatory:  cfg.TradeStartMandatory,
		SummarizeByCommodity: cfg.SummarizeRoutesByCommodity,
		Blacklist:            blacklist,
		DefaultRouteCount:    cfg.DefaultRouteCount,
		DefaultLocationCount: cfg.DefaultLocationCount,
		HullTradingLocations: cfg.HullTradingLocations,
		HullTradingShips:     cfg.HullTradingShips,
	}, nil
}

// Context returns ctx carrying the application logger
func (a *App) Context(ctx context.Context) context.Context {
	return appLogging.WithLogger(ctx, a.Logger)
}

// NewClient returns the in-process daemon client. closers run on its Close.
func (a *App) NewClient(closers ...func() error) *grpc.DaemonClientLocal {
	return grpc.NewDaemonClientLocal(grpc.LocalClientConfig{
		Assistant: a.Facade,
		Catalogs:  a.Data,
		Errors:    a.ErrorLog,
		Loads:     a.Loads,
		Circuit:   func() string { return a.UEX.CircuitState().String() },
		Clock:     a.clock,
		Logger:    a.Logger,
		MaxAge:    a.Config.Cache.MaxAge(),
		Version:   a.version,
	}, closers...)
}

// Close waits for pending error log writes, then closes the database and
// the log output
func (a *App) Close() error {
	var errs []error
	if a.recorder != nil {
		a.recorder.Wait()
	}
	if a.DB != nil {
		if err := database.Close(a.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}
	if a.logCloser != nil {
		if err := a.logCloser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close log output: %w", err))
		}
	}
	return errors.Join(errs...)
}

// LocalClientFactory loads the configuration and builds an App for one CLI
// invocation. The client closes the App.
func LocalClientFactory(version string) cli.LocalClientFactory {
	return func(ctx context.Context, configPath string) (daemon.Client, error) {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		app, err := New(cfg, Options{Version: version})
		if err != nil {
			return nil, err
		}
		return app.NewClient(app.Close), nil
	}
}
