package market

import (
	"fmt"
	"time"
)

// SnapshotVersion is bumped whenever the persisted snapshot layout changes.
// A persisted snapshot with a different version is treated as a cache miss.
const SnapshotVersion = 3

// Snapshot is the complete dataset fetched from the trading data provider.
// It is replaced as a whole, never mutated in place.
type Snapshot struct {
	Version     int         `json:"version" msgpack:"version"`
	FetchedAt   time.Time   `json:"fetched_at" msgpack:"fetched_at"`
	Commodities []Commodity `json:"commodities" msgpack:"commodities"`
	Locations   []Location  `json:"locations" msgpack:"locations"`
	Offers      []Offer     `json:"offers" msgpack:"offers"`
	Ships       []Ship      `json:"ships" msgpack:"ships"`
	ShipOffers  []ShipOffer `json:"ship_offers" msgpack:"ship_offers"`
}

// Age returns how long ago the snapshot was fetched
func (s Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

// IsFresh reports whether the snapshot is younger than maxAge
func (s Snapshot) IsFresh(now time.Time, maxAge time.Duration) bool {
	if s.FetchedAt.IsZero() {
		return false
	}
	return s.Age(now) < maxAge
}

// Anomaly describes one record dropped while sanitizing a snapshot
type Anomaly struct {
	Entity string
	Reason string
}

func (a Anomaly) String() string {
	return fmt.Sprintf("%s: %s", a.Entity, a.Reason)
}

// Sanitize drops every record that references an entity missing from the
// snapshot, plus offers that are not attached to a trade port or carry no
// price. Duplicate offers keep the most recently updated one. The input is
// not modified.
func Sanitize(s Snapshot) (Snapshot, []Anomaly) {
	var anomalies []Anomaly
	out := Snapshot{Version: s.Version, FetchedAt: s.FetchedAt}

	commodities := make(map[int]bool, len(s.Commodities))
	for _, c := range s.Commodities {
		if commodities[c.ID] {
			anomalies = append(anomalies, Anomaly{Entity: fmt.Sprintf("commodity %d", c.ID), Reason: "duplicate id"})
			continue
		}
		commodities[c.ID] = true
		out.Commodities = append(out.Commodities, c)
	}

	locations := make(map[Key]bool, len(s.Locations))
	var unique []Location
	for _, l := range s.Locations {
		if _, ok := locationRank[l.Kind]; !ok {
			anomalies = append(anomalies, Anomaly{Entity: fmt.Sprintf("location %q", l.Name), Reason: "unknown kind " + string(l.Kind)})
			continue
		}
		if locations[l.Key()] {
			anomalies = append(anomalies, Anomaly{Entity: fmt.Sprintf("%s %d", l.Kind, l.ID), Reason: "duplicate id"})
			continue
		}
		locations[l.Key()] = true
		unique = append(unique, l)
	}
	for _, l := range unique {
		missing := false
		for _, parent := range l.parentKeys() {
			if !locations[parent] {
				anomalies = append(anomalies, Anomaly{
					Entity: fmt.Sprintf("%s %q", l.Kind, l.Name),
					Reason: fmt.Sprintf("parent %s %d missing", parent.Kind, parent.ID),
				})
				missing = true
				break
			}
		}
		if missing {
			continue
		}
		out.Locations = append(out.Locations, l)
	}
	// Locations whose parent was dropped are gone too, so rebuild the set
	kept := make(map[Key]bool, len(out.Locations))
	for _, l := range out.Locations {
		kept[l.Key()] = true
	}

	type offerKey struct {
		location  int
		commodity int
		kind      OfferKind
	}
	offerIndex := make(map[offerKey]int)
	for _, o := range s.Offers {
		entity := fmt.Sprintf("%s offer commodity %d at %d", o.Kind, o.CommodityID, o.LocationID)
		switch {
		case o.Kind != OfferBuy && o.Kind != OfferSell:
			anomalies = append(anomalies, Anomaly{Entity: entity, Reason: "invalid direction"})
			continue
		case !o.Price.IsPositive():
			anomalies = append(anomalies, Anomaly{Entity: entity, Reason: "no price"})
			continue
		case !commodities[o.CommodityID]:
			anomalies = append(anomalies, Anomaly{Entity: entity, Reason: "unknown commodity"})
			continue
		case !kept[Key{Kind: LocationTradePort, ID: o.LocationID}]:
			anomalies = append(anomalies, Anomaly{Entity: entity, Reason: "unknown trade port"})
			continue
		}
		k := offerKey{o.LocationID, o.CommodityID, o.Kind}
		if i, dup := offerIndex[k]; dup {
			if o.UpdatedAt.After(out.Offers[i].UpdatedAt) {
				out.Offers[i] = o
			}
			continue
		}
		offerIndex[k] = len(out.Offers)
		out.Offers = append(out.Offers, o)
	}

	ships := make(map[int]bool, len(s.Ships))
	for _, sh := range s.Ships {
		if ships[sh.ID] {
			anomalies = append(anomalies, Anomaly{Entity: fmt.Sprintf("ship %d", sh.ID), Reason: "duplicate id"})
			continue
		}
		ships[sh.ID] = true
		out.Ships = append(out.Ships, sh)
	}
	for _, so := range s.ShipOffers {
		entity := fmt.Sprintf("%s offer ship %d at %d", so.Kind, so.ShipID, so.LocationID)
		if !ships[so.ShipID] {
			anomalies = append(anomalies, Anomaly{Entity: entity, Reason: "unknown ship"})
			continue
		}
		if !kept[Key{Kind: LocationTradePort, ID: so.LocationID}] {
			anomalies = append(anomalies, Anomaly{Entity: entity, Reason: "unknown trade port"})
			continue
		}
		out.ShipOffers = append(out.ShipOffers, so)
	}

	return out, anomalies
}
