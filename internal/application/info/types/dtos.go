package types

// ShipOfferDTO is an in-game place to buy or rent a ship
type ShipOfferDTO struct {
	Location   string  `json:"location"`
	Breadcrumb string  `json:"breadcrumb"`
	Price      float64 `json:"price"`
}

// ShipDTO describes one ship
type ShipDTO struct {
	Name            string          `json:"name"`
	FullName        string          `json:"full_name"`
	Manufacturer    string          `json:"manufacturer"`
	CargoCapacity   int             `json:"cargo_scu"`
	PledgePrice     float64         `json:"pledge_price_usd,omitempty"`
	Crew            string          `json:"crew,omitempty"`
	HullTradingOnly bool            `json:"hull_trading_only,omitempty"`
	BuyAt           []*ShipOfferDTO `json:"buy_at,omitempty"`
	RentAt          []*ShipOfferDTO `json:"rent_at,omitempty"`
}

// ShipDeltaDTO compares one ship against the first ship of a comparison
type ShipDeltaDTO struct {
	Name             string  `json:"name"`
	Against          string  `json:"against"`
	CargoDelta       int     `json:"cargo_delta_scu"`
	PriceDelta       float64 `json:"pledge_price_delta"`
	SameManufacturer bool    `json:"same_manufacturer"`
}

// CommodityPriceDTO is one commodity price at a trade port
type CommodityPriceDTO struct {
	Commodity   string  `json:"commodity"`
	Price       float64 `json:"price"`
	MaxQuantity *int    `json:"max_scu,omitempty"`
	Illegal     bool    `json:"illegal,omitempty"`
}

// NamedLocationDTO is a location reference
type NamedLocationDTO struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}
