package cache_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/uexcorp-go/internal/adapters/cache"
	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
	"github.com/andrescamacho/uexcorp-go/test/helpers"
)

func TestFileStore_PersistsSnapshotInEitherFormat(t *testing.T) {
	for _, format := range []cache.Format{cache.FormatJSON, cache.FormatMsgpack} {
		t.Run(string(format), func(t *testing.T) {
			// Arrange
			store, err := cache.NewFileStore(t.TempDir(), format)
			require.NoError(t, err)
			snapshot := helpers.StantonScenario()

			// Act
			require.NoError(t, store.Save(context.Background(), snapshot))
			loaded, err := store.Load(context.Background())

			// Assert
			require.NoError(t, err)
			assert.True(t, snapshot.FetchedAt.Equal(loaded.FetchedAt))
			require.Len(t, loaded.Offers, len(snapshot.Offers))
			assert.True(t, snapshot.Offers[0].Price.Equal(loaded.Offers[0].Price))
			assert.Equal(t, snapshot.Offers[0].MaxQuantity == nil, loaded.Offers[0].MaxQuantity == nil)
			assert.Len(t, loaded.Locations, len(snapshot.Locations))
			assert.Equal(t, filepath.Ext(store.Path()), "."+string(format))
		})
	}
}

func TestFileStore_MissingFileIsCacheMiss(t *testing.T) {
	store, err := cache.NewFileStore(filepath.Join(t.TempDir(), "nested", "dir"), cache.FormatJSON)
	require.NoError(t, err)

	_, err = store.Load(context.Background())

	assert.ErrorIs(t, err, market.ErrCacheMiss)
}

func TestFileStore_OtherFormatVersionIsCacheMiss(t *testing.T) {
	// Arrange
	store, err := cache.NewFileStore(t.TempDir(), cache.FormatJSON)
	require.NoError(t, err)
	old := helpers.IronScenario()
	old.Version = market.SnapshotVersion - 1
	require.NoError(t, store.Save(context.Background(), old))

	// Act
	_, err = store.Load(context.Background())

	// Assert
	assert.ErrorIs(t, err, market.ErrCacheMiss)
	assert.ErrorIs(t, err, market.ErrSnapshotVersion)
}

func TestFileStore_CorruptFileIsReported(t *testing.T) {
	dir := t.TempDir()
	store, err := cache.NewFileStore(dir, cache.FormatJSON)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0644))

	_, err = store.Load(context.Background())

	require.Error(t, err)
	assert.NotErrorIs(t, err, market.ErrCacheMiss)
	assert.Contains(t, err.Error(), "failed to parse snapshot cache")
}

func TestFileStore_SaveLeavesNoTemporaryFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := cache.NewFileStore(dir, cache.FormatMsgpack)
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), helpers.IronScenario()))
	require.NoError(t, store.Save(context.Background(), helpers.StantonScenario()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(store.Path()), entries[0].Name())
}

func TestFileStore_Clear(t *testing.T) {
	store, err := cache.NewFileStore(t.TempDir(), cache.FormatJSON)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), helpers.IronScenario()))

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, market.ErrCacheMiss)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    cache.Format
		wantErr bool
	}{
		{in: "", want: cache.FormatJSON},
		{in: "JSON", want: cache.FormatJSON},
		{in: " msgpack ", want: cache.FormatMsgpack},
		{in: "yaml", wantErr: true},
	}
	for _, tt := range tests {
		got, err := cache.ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
