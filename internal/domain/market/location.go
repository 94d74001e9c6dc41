package market

import (
	"fmt"
	"strings"
)

// LocationKind is the level of a location in the universe hierarchy
type LocationKind string

const (
	LocationSystem    LocationKind = "system"
	LocationPlanet    LocationKind = "planet"
	LocationMoon      LocationKind = "moon"
	LocationCity      LocationKind = "city"
	LocationStation   LocationKind = "station"
	LocationOutpost   LocationKind = "outpost"
	LocationTradePort LocationKind = "trade_port"
)

// locationRank orders kinds from broadest to narrowest. Name lookups that hit
// several levels prefer the broadest one.
var locationRank = map[LocationKind]int{
	LocationSystem:    0,
	LocationPlanet:    1,
	LocationMoon:      2,
	LocationCity:      3,
	LocationStation:   4,
	LocationOutpost:   5,
	LocationTradePort: 6,
}

// ParseLocationKind converts a string into a LocationKind
func ParseLocationKind(s string) (LocationKind, error) {
	k := LocationKind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := locationRank[k]; !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidLocationKind, s)
	}
	return k, nil
}

// Rank returns the broadness rank of the kind (0 = star system)
func (k LocationKind) Rank() int {
	return locationRank[k]
}

// Label returns the display label used in breadcrumbs
func (k LocationKind) Label() string {
	switch k {
	case LocationSystem:
		return "Star-System"
	case LocationPlanet:
		return "Planet"
	case LocationMoon:
		return "Moon"
	case LocationCity:
		return "City"
	case LocationStation:
		return "Station"
	case LocationOutpost:
		return "Outpost"
	case LocationTradePort:
		return "Trade Point"
	}
	return string(k)
}

// Location is any node of the universe hierarchy:
// system -> planet -> moon -> city/station/outpost -> trade port.
// Parent references are 0 when the level does not apply.
// Trade ports are the only locations that carry offers.
type Location struct {
	ID        int          `json:"id" msgpack:"id"`
	Kind      LocationKind `json:"kind" msgpack:"kind"`
	Name      string       `json:"name" msgpack:"name"`
	Code      string       `json:"code,omitempty" msgpack:"code,omitempty"`
	SystemID  int          `json:"system_id,omitempty" msgpack:"system_id,omitempty"`
	PlanetID  int          `json:"planet_id,omitempty" msgpack:"planet_id,omitempty"`
	MoonID    int          `json:"moon_id,omitempty" msgpack:"moon_id,omitempty"`
	CityID    int          `json:"city_id,omitempty" msgpack:"city_id,omitempty"`
	StationID int          `json:"station_id,omitempty" msgpack:"station_id,omitempty"`
	OutpostID int          `json:"outpost_id,omitempty" msgpack:"outpost_id,omitempty"`
}

// Key identifies a location across kinds. Provider ids are only unique per kind.
type Key struct {
	Kind LocationKind
	ID   int
}

// Key returns the location's composite key
func (l Location) Key() Key {
	return Key{Kind: l.Kind, ID: l.ID}
}

// IsTradePort reports whether offers can be attached to the location
func (l Location) IsTradePort() bool {
	return l.Kind == LocationTradePort
}

// parentKeys lists every ancestor of the location, broadest first
func (l Location) parentKeys() []Key {
	var keys []Key
	add := func(kind LocationKind, id int) {
		if id != 0 && kind.Rank() < l.Kind.Rank() {
			keys = append(keys, Key{Kind: kind, ID: id})
		}
	}
	add(LocationSystem, l.SystemID)
	add(LocationPlanet, l.PlanetID)
	add(LocationMoon, l.MoonID)
	add(LocationCity, l.CityID)
	add(LocationStation, l.StationID)
	add(LocationOutpost, l.OutpostID)
	return keys
}

// parentID returns the reference the location holds to the given level
func (l Location) parentID(kind LocationKind) int {
	switch kind {
	case LocationSystem:
		return l.SystemID
	case LocationPlanet:
		return l.PlanetID
	case LocationMoon:
		return l.MoonID
	case LocationCity:
		return l.CityID
	case LocationStation:
		return l.StationID
	case LocationOutpost:
		return l.OutpostID
	}
	return 0
}
