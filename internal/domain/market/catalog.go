package market

import (
	"sort"
	"strings"
)

// Catalog is a read-only index over one sanitized Snapshot. It is rebuilt
// wholesale whenever the snapshot is replaced and is safe for concurrent reads.
type Catalog struct {
	snapshot Snapshot

	commodities       map[int]Commodity
	commodityByName   map[string]int
	locations         map[Key]Location
	locationsByName   map[string][]Key
	ships             map[int]Ship
	shipByName        map[string]int
	offersByPort      map[int][]Offer
	offersByCommodity map[int][]Offer
	shipOffersByShip  map[int][]ShipOffer

	sortedCommodities []Commodity
	sortedLocations   []Location
	sortedShips       []Ship
}

// NewCatalog indexes a snapshot. The snapshot is expected to be sanitized;
// records with dangling references are skipped.
func NewCatalog(s Snapshot) *Catalog {
	c := &Catalog{
		snapshot:          s,
		commodities:       make(map[int]Commodity, len(s.Commodities)),
		commodityByName:   make(map[string]int, len(s.Commodities)),
		locations:         make(map[Key]Location, len(s.Locations)),
		locationsByName:   make(map[string][]Key, len(s.Locations)),
		ships:             make(map[int]Ship, len(s.Ships)),
		shipByName:        make(map[string]int, len(s.Ships)),
		offersByPort:      make(map[int][]Offer),
		offersByCommodity: make(map[int][]Offer),
		shipOffersByShip:  make(map[int][]ShipOffer),
	}

	for _, com := range s.Commodities {
		c.commodities[com.ID] = com
		if _, taken := c.commodityByName[nameKey(com.Name)]; !taken {
			c.commodityByName[nameKey(com.Name)] = com.ID
		}
		c.sortedCommodities = append(c.sortedCommodities, com)
	}
	sort.SliceStable(c.sortedCommodities, func(i, j int) bool {
		return c.sortedCommodities[i].Name < c.sortedCommodities[j].Name
	})

	for _, l := range s.Locations {
		c.locations[l.Key()] = l
		c.sortedLocations = append(c.sortedLocations, l)
	}
	sort.SliceStable(c.sortedLocations, func(i, j int) bool {
		a, b := c.sortedLocations[i], c.sortedLocations[j]
		if a.Kind.Rank() != b.Kind.Rank() {
			return a.Kind.Rank() < b.Kind.Rank()
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	for _, l := range c.sortedLocations {
		k := nameKey(l.Name)
		c.locationsByName[k] = append(c.locationsByName[k], l.Key())
	}

	for _, sh := range s.Ships {
		c.ships[sh.ID] = sh
		for _, n := range []string{sh.Name, sh.FullName} {
			if n == "" {
				continue
			}
			if _, taken := c.shipByName[nameKey(n)]; !taken {
				c.shipByName[nameKey(n)] = sh.ID
			}
		}
		c.sortedShips = append(c.sortedShips, sh)
	}
	sort.SliceStable(c.sortedShips, func(i, j int) bool {
		return c.sortedShips[i].Name < c.sortedShips[j].Name
	})

	for _, o := range s.Offers {
		if _, ok := c.commodities[o.CommodityID]; !ok {
			continue
		}
		if _, ok := c.locations[Key{Kind: LocationTradePort, ID: o.LocationID}]; !ok {
			continue
		}
		c.offersByPort[o.LocationID] = append(c.offersByPort[o.LocationID], o)
		c.offersByCommodity[o.CommodityID] = append(c.offersByCommodity[o.CommodityID], o)
	}

	for _, so := range s.ShipOffers {
		c.shipOffersByShip[so.ShipID] = append(c.shipOffersByShip[so.ShipID], so)
	}

	return c
}

func nameKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Snapshot returns the snapshot the catalog was built from
func (c *Catalog) Snapshot() Snapshot {
	return c.snapshot
}

// Commodities returns every commodity ordered by name
func (c *Catalog) Commodities() []Commodity {
	return c.sortedCommodities
}

func (c *Catalog) Commodity(id int) (Commodity, bool) {
	com, ok := c.commodities[id]
	return com, ok
}

// CommodityByName finds a commodity by case-insensitive name
func (c *Catalog) CommodityByName(name string) (Commodity, bool) {
	id, ok := c.commodityByName[nameKey(name)]
	if !ok {
		return Commodity{}, false
	}
	return c.commodities[id], true
}

// Ships returns every ship ordered by name
func (c *Catalog) Ships() []Ship {
	return c.sortedShips
}

func (c *Catalog) Ship(id int) (Ship, bool) {
	sh, ok := c.ships[id]
	return sh, ok
}

// ShipByName finds a ship by case-insensitive short or full name
func (c *Catalog) ShipByName(name string) (Ship, bool) {
	id, ok := c.shipByName[nameKey(name)]
	if !ok {
		return Ship{}, false
	}
	return c.ships[id], true
}

// Locations returns every location, broadest level first, then by name
func (c *Catalog) Locations() []Location {
	return c.sortedLocations
}

func (c *Catalog) Location(key Key) (Location, bool) {
	l, ok := c.locations[key]
	return l, ok
}

// TradePort returns the trade port with the given id
func (c *Catalog) TradePort(id int) (Location, bool) {
	return c.Location(Key{Kind: LocationTradePort, ID: id})
}

// LocationByName finds a location by case-insensitive name. When several
// levels share the name, the broadest one wins (a system over a planet over a
// moon, and so on down to trade ports).
func (c *Catalog) LocationByName(name string) (Location, bool) {
	keys := c.locationsByName[nameKey(name)]
	if len(keys) == 0 {
		return Location{}, false
	}
	return c.locations[keys[0]], true
}

// TradePorts returns every trade port
func (c *Catalog) TradePorts() []Location {
	var out []Location
	for _, l := range c.sortedLocations {
		if l.IsTradePort() {
			out = append(out, l)
		}
	}
	return out
}

// TradePortsWithin returns every trade port located under loc at any depth.
// A trade port contains only itself.
func (c *Catalog) TradePortsWithin(loc Location) []Location {
	if loc.IsTradePort() {
		if _, ok := c.locations[loc.Key()]; ok {
			return []Location{loc}
		}
		return nil
	}
	var out []Location
	for _, l := range c.sortedLocations {
		if l.IsTradePort() && l.parentID(loc.Kind) == loc.ID {
			out = append(out, l)
		}
	}
	return out
}

// Children returns the locations whose nearest ancestor is loc
func (c *Catalog) Children(loc Location) []Location {
	var out []Location
	for _, l := range c.sortedLocations {
		if l.Kind.Rank() <= loc.Kind.Rank() {
			continue
		}
		parents := l.parentKeys()
		if len(parents) > 0 && parents[len(parents)-1] == loc.Key() {
			out = append(out, l)
		}
	}
	return out
}

// Ancestors returns the known ancestors of loc, broadest first
func (c *Catalog) Ancestors(loc Location) []Location {
	var out []Location
	for _, k := range loc.parentKeys() {
		if l, ok := c.locations[k]; ok {
			out = append(out, l)
		}
	}
	return out
}

// Breadcrumb renders the hierarchy path of a location, for example
// "Star-System: Stanton >> Planet: Hurston >> City: Lorville >> Trade Point: TDD".
func (c *Catalog) Breadcrumb(loc Location) string {
	parts := make([]string, 0, 5)
	for _, a := range c.Ancestors(loc) {
		parts = append(parts, a.Kind.Label()+": "+a.Name)
	}
	parts = append(parts, loc.Kind.Label()+": "+loc.Name)
	return strings.Join(parts, " >> ")
}

// OfferFilter narrows an offer query. Zero values mean "no restriction".
type OfferFilter struct {
	CommodityID    int
	Kind           OfferKind
	LocationIDs    []int
	ExcludeIllegal bool
}

// Offers returns every offer matching the filter, ordered by trade port name,
// then commodity name, then direction.
func (c *Catalog) Offers(f OfferFilter) []Offer {
	var ports map[int]bool
	if len(f.LocationIDs) > 0 {
		ports = make(map[int]bool, len(f.LocationIDs))
		for _, id := range f.LocationIDs {
			ports[id] = true
		}
	}

	var candidates []Offer
	switch {
	case f.CommodityID != 0:
		candidates = c.offersByCommodity[f.CommodityID]
	case ports != nil:
		for id := range ports {
			candidates = append(candidates, c.offersByPort[id]...)
		}
	default:
		for _, offers := range c.offersByPort {
			candidates = append(candidates, offers...)
		}
	}

	out := make([]Offer, 0, len(candidates))
	for _, o := range candidates {
		if f.CommodityID != 0 && o.CommodityID != f.CommodityID {
			continue
		}
		if f.Kind != "" && o.Kind != f.Kind {
			continue
		}
		if ports != nil && !ports[o.LocationID] {
			continue
		}
		if f.ExcludeIllegal && c.commodities[o.CommodityID].Illegal {
			continue
		}
		out = append(out, o)
	}
	c.sortOffers(out)
	return out
}

func (c *Catalog) sortOffers(offers []Offer) {
	sort.SliceStable(offers, func(i, j int) bool {
		a, b := offers[i], offers[j]
		if a.LocationID != b.LocationID {
			pa, pb := c.locations[Key{LocationTradePort, a.LocationID}], c.locations[Key{LocationTradePort, b.LocationID}]
			if pa.Name != pb.Name {
				return pa.Name < pb.Name
			}
			return a.LocationID < b.LocationID
		}
		if a.CommodityID != b.CommodityID {
			ca, cb := c.commodities[a.CommodityID], c.commodities[b.CommodityID]
			if ca.Name != cb.Name {
				return ca.Name < cb.Name
			}
			return a.CommodityID < b.CommodityID
		}
		return a.Kind < b.Kind
	})
}

// HasOffers reports whether any trade port offers the commodity in the given direction
func (c *Catalog) HasOffers(commodityID int, kind OfferKind) bool {
	for _, o := range c.offersByCommodity[commodityID] {
		if o.Kind == kind {
			return true
		}
	}
	return false
}

// ShipOffers returns the in-game purchase and rental options of a ship
func (c *Catalog) ShipOffers(shipID int) []ShipOffer {
	return c.shipOffersByShip[shipID]
}
