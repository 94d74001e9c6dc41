package market

import (
	"strings"

	"github.com/shopspring/decimal"
)

// manufacturerNames maps provider manufacturer codes to full names
var manufacturerNames = map[string]string{
	"AEGS": "Aegis Dynamics",
	"ANVL": "Anvil Aerospace",
	"AOPO": "Aopoa",
	"ARGO": "ARGO Astronautics",
	"BANU": "Banu",
	"CNOU": "Consolidated Outland",
	"CRUS": "Crusader Industries",
	"DRAK": "Drake Interplanetary",
	"ESPR": "Esperia",
	"GATA": "Gatac",
	"GRIN": "Greycat Industrial",
	"KRIG": "Kruger Intergalactic",
	"MIRA": "Mirai",
	"MISC": "Musashi Industrial & Starflight Concern",
	"ORIG": "Origin Jumpworks",
	"RSIN": "Roberts Space Industries",
	"TMBL": "Tumbril Land Systems",
	"VNDL": "Vanduul",
}

// ManufacturerName resolves a manufacturer code to its full name. Unknown codes
// and values that already are full names are returned unchanged.
func ManufacturerName(code string) string {
	if name, ok := manufacturerNames[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return name
	}
	return code
}

// ManufacturerTokens returns every word used in manufacturer codes and names.
// The fuzzy matcher discounts these when a user omits the manufacturer.
func ManufacturerTokens() []string {
	out := make([]string, 0, len(manufacturerNames)*3)
	for code, name := range manufacturerNames {
		out = append(out, code)
		out = append(out, strings.Fields(name)...)
	}
	return out
}

// Ship is a flyable vehicle with a cargo hold. Immutable per snapshot.
type Ship struct {
	ID            int             `json:"id" msgpack:"id"`
	Name          string          `json:"name" msgpack:"name"`
	FullName      string          `json:"full_name" msgpack:"full_name"`
	Manufacturer  string          `json:"manufacturer" msgpack:"manufacturer"`
	CargoCapacity int             `json:"cargo_capacity" msgpack:"cargo_capacity"`
	PledgePrice   decimal.Decimal `json:"pledge_price" msgpack:"pledge_price"`
	Crew          string          `json:"crew,omitempty" msgpack:"crew,omitempty"`
}

// ShipOfferKind distinguishes in-game purchase from rental
type ShipOfferKind string

const (
	ShipOfferBuy  ShipOfferKind = "buy"
	ShipOfferRent ShipOfferKind = "rent"
)

// ShipOffer is an in-game place to buy or rent a ship
type ShipOffer struct {
	ShipID     int             `json:"ship_id" msgpack:"ship_id"`
	LocationID int             `json:"location_id" msgpack:"location_id"`
	Kind       ShipOfferKind   `json:"kind" msgpack:"kind"`
	Price      decimal.Decimal `json:"price" msgpack:"price"`
}
