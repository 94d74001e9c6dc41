package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/uexcorp-go/internal/adapters/persistence"
	"github.com/andrescamacho/uexcorp-go/internal/domain/shared"
	"github.com/andrescamacho/uexcorp-go/test/helpers"
)

var epoch = time.Date(2955, 3, 1, 12, 0, 0, 0, time.UTC)

func TestErrorLogRepository_RecordAndRecent(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(epoch)
	repo := persistence.NewGormErrorLogRepository(db, clock)
	ctx := context.Background()

	// Act
	require.NoError(t, repo.Record(ctx, persistence.ErrorLogEntry{
		Level:   "WARNING",
		Message: "Using stale trading data",
	}))
	clock.Advance(time.Minute)
	require.NoError(t, repo.Record(ctx, persistence.ErrorLogEntry{
		Level:     "ERROR",
		Message:   "Function call failed",
		RequestID: "req-1",
		Operation: "get_best_trading_route",
		Metadata:  map[string]interface{}{"shipName": "Cutlass"},
	}))

	entries, err := repo.Recent(ctx, persistence.ErrorLogFilter{})

	// Assert
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "req-1", entries[0].RequestID)
	assert.Equal(t, "get_best_trading_route", entries[0].Operation)
	assert.Equal(t, "Cutlass", entries[0].Metadata["shipName"])
	assert.True(t, entries[0].Timestamp.Equal(epoch.Add(time.Minute)))
	assert.Equal(t, "WARNING", entries[1].Level)
	assert.Nil(t, entries[1].Metadata)
}

func TestErrorLogRepository_DeduplicatesWithinWindow(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(epoch)
	repo := persistence.NewGormErrorLogRepository(db, clock)
	ctx := context.Background()
	warning := persistence.ErrorLogEntry{Level: "WARNING", Message: "UEX corp unreachable"}

	// Act
	require.NoError(t, repo.Record(ctx, warning))
	clock.Advance(30 * time.Second)
	require.NoError(t, repo.Record(ctx, warning))
	clock.Advance(31 * time.Second)
	require.NoError(t, repo.Record(ctx, warning))

	// Assert
	entries, err := repo.Recent(ctx, persistence.ErrorLogFilter{})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestErrorLogRepository_RequestScopedEntriesAreNeverDeduplicated(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormErrorLogRepository(db, shared.NewMockClock(epoch))
	ctx := context.Background()

	for _, id := range []string{"req-1", "req-2"} {
		require.NoError(t, repo.Record(ctx, persistence.ErrorLogEntry{
			Level: "ERROR", Message: "Function call failed", RequestID: id,
		}))
	}

	entries, err := repo.Recent(ctx, persistence.ErrorLogFilter{})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestErrorLogRepository_Filters(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(epoch)
	repo := persistence.NewGormErrorLogRepository(db, clock)
	ctx := context.Background()
	for i, level := range []string{"WARNING", "ERROR", "ERROR", "WARNING"} {
		require.NoError(t, repo.Record(ctx, persistence.ErrorLogEntry{
			Level:     level,
			Message:   "entry",
			RequestID: []string{"a", "b", "c", "d"}[i],
		}))
		clock.Advance(time.Hour)
	}

	tests := []struct {
		name   string
		filter persistence.ErrorLogFilter
		want   []string
	}{
		{name: "by level", filter: persistence.ErrorLogFilter{Level: "ERROR"}, want: []string{"c", "b"}},
		{name: "by request", filter: persistence.ErrorLogFilter{RequestID: "d"}, want: []string{"d"}},
		{name: "since", filter: persistence.ErrorLogFilter{Since: epoch.Add(90 * time.Minute)}, want: []string{"d", "c"}},
		{name: "limit", filter: persistence.ErrorLogFilter{Limit: 1}, want: []string{"d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			entries, err := repo.Recent(ctx, tt.filter)

			// Assert
			require.NoError(t, err)
			var got []string
			for _, e := range entries {
				got = append(got, e.RequestID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestErrorLogRepository_Prune(t *testing.T) {
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(epoch)
	repo := persistence.NewGormErrorLogRepository(db, clock)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, persistence.ErrorLogEntry{Level: "ERROR", Message: "old", RequestID: "1"}))
	clock.Advance(48 * time.Hour)
	require.NoError(t, repo.Record(ctx, persistence.ErrorLogEntry{Level: "ERROR", Message: "new", RequestID: "2"}))

	removed, err := repo.Prune(ctx, clock.Now().Add(-24*time.Hour))

	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	entries, err := repo.Recent(ctx, persistence.ErrorLogFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "new", entries[0].Message)
}
