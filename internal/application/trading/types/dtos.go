package types

// RouteDTO is a ranked trading route ready for serialization
type RouteDTO struct {
	Commodity         string  `json:"commodity"`
	Illegal           bool    `json:"illegal,omitempty"`
	Quantity          int     `json:"cargo_scu"`
	BuyLocation       string  `json:"buy_at"`
	BuyBreadcrumb     string  `json:"buy_location"`
	SellLocation      string  `json:"sell_at"`
	SellBreadcrumb    string  `json:"sell_location"`
	BuyPrice          float64 `json:"buy_price"`
	SellPrice         float64 `json:"sell_price"`
	TotalCost         float64 `json:"total_cost"`
	TotalRevenue      float64 `json:"total_revenue"`
	Profit            float64 `json:"profit"`
	ProfitPerUnit     float64 `json:"profit_per_unit"`
	BuyMaxQuantity    *int    `json:"buy_max_scu,omitempty"`
	SellMaxQuantity   *int    `json:"sell_max_scu,omitempty"`
	PricesUpdatedDays int     `json:"prices_age_days"`
}

// LocationPriceDTO is one trade port offering a commodity
type LocationPriceDTO struct {
	Location    string   `json:"location"`
	Breadcrumb  string   `json:"breadcrumb"`
	UnitPrice   float64  `json:"unit_price"`
	MaxQuantity *int     `json:"max_scu,omitempty"`
	Quantity    int      `json:"quantity,omitempty"`
	Total       *float64 `json:"total,omitempty"`
}
