package market

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OfferKind is the direction of an offer from the player's point of view
type OfferKind string

const (
	// OfferBuy means the player can buy the commodity at the location
	OfferBuy OfferKind = "buy"
	// OfferSell means the player can sell the commodity at the location
	OfferSell OfferKind = "sell"
)

// ParseOfferKind converts a string into an OfferKind
func ParseOfferKind(s string) (OfferKind, error) {
	switch OfferKind(strings.ToLower(strings.TrimSpace(s))) {
	case OfferBuy:
		return OfferBuy, nil
	case OfferSell:
		return OfferSell, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidOfferKind, s)
}

// Offer is a priced opportunity to trade one commodity at one trade port.
// A missing price means the offer does not exist; it is never stored with a zero price.
type Offer struct {
	LocationID  int             `json:"location_id" msgpack:"location_id"`
	CommodityID int             `json:"commodity_id" msgpack:"commodity_id"`
	Kind        OfferKind       `json:"kind" msgpack:"kind"`
	Price       decimal.Decimal `json:"price" msgpack:"price"`
	MaxQuantity *int            `json:"max_quantity,omitempty" msgpack:"max_quantity,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at" msgpack:"updated_at"`
}

// NewOffer builds an offer from raw provider values. It reports false when the
// price is absent, which callers treat as "no offer".
func NewOffer(locationID, commodityID int, kind OfferKind, price float64, maxQuantity int, updatedAt time.Time) (Offer, bool) {
	if price <= 0 {
		return Offer{}, false
	}
	o := Offer{
		LocationID:  locationID,
		CommodityID: commodityID,
		Kind:        kind,
		Price:       decimal.NewFromFloat(price),
		UpdatedAt:   updatedAt,
	}
	if maxQuantity > 0 {
		q := maxQuantity
		o.MaxQuantity = &q
	}
	return o, true
}

// QuantityCap returns the max transactable quantity and whether one is known
func (o Offer) QuantityCap() (int, bool) {
	if o.MaxQuantity == nil {
		return 0, false
	}
	return *o.MaxQuantity, true
}
