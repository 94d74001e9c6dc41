package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
)

// MockFetcher is a test double for the trading data provider
type MockFetcher struct {
	mu       sync.Mutex
	Snapshot market.Snapshot
	Err      error
	calls    int
	resets   int
}

// NewMockFetcher creates a fetcher that returns the given snapshot
func NewMockFetcher(snapshot market.Snapshot) *MockFetcher {
	return &MockFetcher{Snapshot: snapshot}
}

func (m *MockFetcher) FetchSnapshot(ctx context.Context) (market.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.Err != nil {
		return market.Snapshot{}, m.Err
	}
	return m.Snapshot, nil
}

// SetError makes subsequent fetches fail
func (m *MockFetcher) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}

// Calls returns how many fetches were attempted
func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// ResetCircuit counts explicit circuit resets
func (m *MockFetcher) ResetCircuit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets++
}

// Resets returns how many times ResetCircuit was called
func (m *MockFetcher) Resets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resets
}

// MockStore is an in-memory snapshot store
type MockStore struct {
	mu       sync.Mutex
	snapshot *market.Snapshot
	LoadErr  error
	SaveErr  error
	loads    int
	saves    int
}

// NewMockStore creates an empty store
func NewMockStore() *MockStore {
	return &MockStore{}
}

// NewMockStoreWith creates a store already holding a snapshot
func NewMockStoreWith(snapshot market.Snapshot) *MockStore {
	return &MockStore{snapshot: &snapshot}
}

func (m *MockStore) Load(ctx context.Context) (market.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.LoadErr != nil {
		return market.Snapshot{}, m.LoadErr
	}
	if m.snapshot == nil {
		return market.Snapshot{}, market.ErrCacheMiss
	}
	return *m.snapshot, nil
}

func (m *MockStore) Save(ctx context.Context, snapshot market.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.snapshot = &snapshot
	return nil
}

// Loads returns how many times Load was called
func (m *MockStore) Loads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads
}

// Saves returns how many times Save was called
func (m *MockStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// StaticCatalogProvider serves a fixed catalog
type StaticCatalogProvider struct {
	Catalog *market.Catalog
	Err     error
}

// NewStaticCatalogProvider sanitizes the snapshot and serves its catalog
func NewStaticCatalogProvider(snapshot market.Snapshot) *StaticCatalogProvider {
	clean, _ := market.Sanitize(snapshot)
	return &StaticCatalogProvider{Catalog: market.NewCatalog(clean)}
}

func (p *StaticCatalogProvider) Current(ctx context.Context) (*market.Catalog, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Catalog, nil
}
