package grpc_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/andrescamacho/uexcorp-go/internal/adapters/grpc"
	"github.com/andrescamacho/uexcorp-go/internal/adapters/persistence"
	"github.com/andrescamacho/uexcorp-go/internal/application/assistant"
	"github.com/andrescamacho/uexcorp-go/internal/application/datacache"
	"github.com/andrescamacho/uexcorp-go/internal/application/mediator"
	"github.com/andrescamacho/uexcorp-go/internal/application/setup"
	"github.com/andrescamacho/uexcorp-go/internal/application/trading/services"
	"github.com/andrescamacho/uexcorp-go/internal/domain/daemon"
	"github.com/andrescamacho/uexcorp-go/internal/domain/shared"
	"github.com/andrescamacho/uexcorp-go/test/helpers"
)

type daemonFixture struct {
	client  *grpc.DaemonClientGRPC
	service *datacache.Service
	clock   *shared.MockClock
	errors  *persistence.GormErrorLogRepository
	loads   *persistence.GormDataLoadRepository
}

func newDaemonFixture(t *testing.T) *daemonFixture {
	t.Helper()
	clock := shared.NewMockClock(helpers.FixtureTime)
	db := helpers.NewTestDB(t)
	errorLog := persistence.NewGormErrorLogRepository(db, clock)
	loads := persistence.NewGormDataLoadRepository(db, clock, nil)

	svc := datacache.NewService(helpers.NewMockFetcher(helpers.StantonScenario()), nil, clock, loads,
		datacache.Options{MaxAge: time.Hour})
	policy := services.TradingPolicy{DefaultRouteCount: 3, DefaultLocationCount: 3}
	med := mediator.NewMediator()
	require.NoError(t, setup.NewHandlerRegistry(svc, svc, policy, clock).RegisterAll(med))
	facade := assistant.NewFacade(med, svc, clock, assistant.Options{DefaultRouteCount: 3, DefaultLocationCount: 3})

	local := grpc.NewDaemonClientLocal(grpc.LocalClientConfig{
		Assistant: facade,
		Catalogs:  svc,
		Errors:    errorLog,
		Loads:     loads,
		Circuit:   func() string { return "closed" },
		Clock:     clock,
		MaxAge:    time.Hour,
		Version:   "test",
	})

	listener := bufconn.Listen(1 << 20)
	server := grpc.NewDaemonServerWithListener(local, listener, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, time.Second) }()

	conn, err := grpclib.NewClient("passthrough:///bufnet",
		grpclib.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpclib.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	client := grpc.NewDaemonClientWithConn(conn)

	t.Cleanup(func() {
		client.Close()
		cancel()
		require.NoError(t, <-done)
	})

	return &daemonFixture{client: client, service: svc, clock: clock, errors: errorLog, loads: loads}
}

func TestDaemon_CallRoundTrip(t *testing.T) {
	// Arrange
	f := newDaemonFixture(t)

	// Act
	result, err := f.client.Call(context.Background(), "get_ship_information", map[string]interface{}{
		"shipName": "cutlass black",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "get_ship_information", result.Operation)
	assert.Contains(t, result.Text, "Lorville TDD")
	assert.False(t, result.Failed)
}

func TestDaemon_CallWithListArgument(t *testing.T) {
	f := newDaemonFixture(t)

	result, err := f.client.Call(context.Background(), "get_ship_comparison", map[string]interface{}{
		"shipNames": []interface{}{"Freelancer", "Caterpillar"},
	})

	require.NoError(t, err)
	assert.Contains(t, result.Text, "Caterpillar")
}

func TestDaemon_UnknownFunction(t *testing.T) {
	f := newDaemonFixture(t)

	_, err := f.client.Call(context.Background(), "launch_missiles", nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, daemon.ErrUnknownFunction), "error: %v", err)
}

func TestDaemon_ListFunctions(t *testing.T) {
	f := newDaemonFixture(t)

	catalog, err := f.client.ListFunctions(context.Background())

	require.NoError(t, err)
	var names []string
	for _, fn := range catalog.Functions {
		names = append(names, fn.Name)
	}
	assert.Contains(t, names, "get_multiple_best_trading_routes")
	assert.NotContains(t, names, "show_cached_function_values")
	assert.Contains(t, catalog.Context, "profit per run")

	for _, fn := range catalog.Functions {
		if fn.Name != "get_best_location_to_buy_from" {
			continue
		}
		for _, p := range fn.Parameters {
			if p.Name == "commodityName" {
				assert.True(t, p.Required)
				assert.Equal(t, "string", p.Type)
			}
		}
	}
}

func TestDaemon_Health(t *testing.T) {
	// Arrange
	f := newDaemonFixture(t)
	ctx := context.Background()

	// Act
	before, err := f.client.Health(ctx)
	require.NoError(t, err)
	_, err = f.service.Startup(ctx)
	require.NoError(t, err)
	loaded, err := f.client.Health(ctx)
	require.NoError(t, err)
	f.clock.Advance(2 * time.Hour)
	stale, err := f.client.Health(ctx)
	require.NoError(t, err)
	serving, err := f.client.Serving(ctx)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "no_data", before.Status)
	assert.False(t, before.DataLoaded)
	assert.Equal(t, "ok", loaded.Status)
	assert.Equal(t, "test", loaded.Version)
	assert.Equal(t, "closed", loaded.CircuitState)
	assert.Equal(t, 4, loaded.Commodities)
	assert.True(t, loaded.FetchedAt.Equal(helpers.FixtureTime))
	assert.Equal(t, "stale", stale.Status)
	assert.True(t, serving)
}

func TestDaemon_RecentErrorsAndLoadHistory(t *testing.T) {
	// Arrange
	f := newDaemonFixture(t)
	ctx := context.Background()
	require.NoError(t, f.errors.Record(ctx, persistence.ErrorLogEntry{
		Level: "ERROR", Message: "Function call failed", RequestID: "r-1", Operation: "get_best_trading_route",
		Metadata: map[string]interface{}{"error": "boom"},
	}))
	require.NoError(t, f.errors.Record(ctx, persistence.ErrorLogEntry{Level: "WARNING", Message: "stale"}))
	_, err := f.service.Startup(ctx)
	require.NoError(t, err)

	// Act
	entries, err := f.client.RecentErrors(ctx, daemon.ErrorFilter{Level: "ERROR"})
	require.NoError(t, err)
	loads, err := f.client.LoadHistory(ctx, 5)
	require.NoError(t, err)

	// Assert
	require.Len(t, entries, 1)
	assert.Equal(t, "r-1", entries[0].RequestID)
	assert.Equal(t, "boom", entries[0].Metadata["error"])
	require.Len(t, loads, 1)
	assert.Equal(t, "api", loads[0].Source)
	assert.True(t, loads[0].Success)
	assert.Equal(t, 4, loads[0].Commodities)
}
