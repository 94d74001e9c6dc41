package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andrescamacho/uexcorp-go/internal/application/datacache"
	"github.com/andrescamacho/uexcorp-go/internal/application/mediator"
	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
)

// Refresher re-downloads the market data
type Refresher interface {
	Refresh(ctx context.Context) (*market.Catalog, error)
}

// RefreshPricesCommand forces a fresh download, bypassing the cache age
type RefreshPricesCommand struct{}

// RefreshPricesResponse summarizes the snapshot now in use
type RefreshPricesResponse struct {
	FetchedAt   time.Time
	Commodities int
	TradePorts  int
	Offers      int
	Ships       int

	// Stale is set when the download failed and the previous data is kept
	Stale bool
}

// RefreshPricesHandler handles price refresh commands
type RefreshPricesHandler struct {
	refresher Refresher
}

// NewRefreshPricesHandler creates a new refresh handler
func NewRefreshPricesHandler(refresher Refresher) *RefreshPricesHandler {
	return &RefreshPricesHandler{refresher: refresher}
}

// Handle executes the refresh. A failed download with data still loaded
// returns the previous snapshot summary together with the *datacache.StaleDataError.
func (h *RefreshPricesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*RefreshPricesCommand); !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	catalog, err := h.refresher.Refresh(ctx)
	var stale *datacache.StaleDataError
	if err != nil && !errors.As(err, &stale) {
		return nil, err
	}

	resp := summarize(catalog)
	if stale != nil {
		resp.Stale = true
		return resp, err
	}
	return resp, nil
}

func summarize(catalog *market.Catalog) *RefreshPricesResponse {
	snapshot := catalog.Snapshot()
	return &RefreshPricesResponse{
		FetchedAt:   snapshot.FetchedAt,
		Commodities: len(snapshot.Commodities),
		TradePorts:  len(catalog.TradePorts()),
		Offers:      len(snapshot.Offers),
		Ships:       len(snapshot.Ships),
	}
}
