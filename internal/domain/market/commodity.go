package market

// Commodity is a tradable good. Immutable per snapshot.
type Commodity struct {
	ID          int    `json:"id" msgpack:"id"`
	Code        string `json:"code" msgpack:"code"`
	Name        string `json:"name" msgpack:"name"`
	Kind        string `json:"kind" msgpack:"kind"`
	Illegal     bool   `json:"illegal" msgpack:"illegal"`
	Buyable     bool   `json:"buyable" msgpack:"buyable"`
	Sellable    bool   `json:"sellable" msgpack:"sellable"`
	Minable     bool   `json:"minable" msgpack:"minable"`
	Harvestable bool   `json:"harvestable" msgpack:"harvestable"`

	// Reference prices published by the data provider, 0 when unknown
	PriceBuy  float64 `json:"price_buy" msgpack:"price_buy"`
	PriceSell float64 `json:"price_sell" msgpack:"price_sell"`
}

// Legality returns a human readable legality label
func (c Commodity) Legality() string {
	if c.Illegal {
		return "illegal"
	}
	return "legal"
}
