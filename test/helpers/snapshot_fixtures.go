package helpers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
)

// FixtureTime is the fetch time stamped on every fixture snapshot
var FixtureTime = time.Date(2954, time.March, 1, 10, 0, 0, 0, time.UTC)

// SnapshotBuilder assembles market snapshots for tests
type SnapshotBuilder struct {
	snapshot market.Snapshot
}

// NewSnapshotBuilder creates an empty builder stamped with FixtureTime
func NewSnapshotBuilder() *SnapshotBuilder {
	return &SnapshotBuilder{snapshot: market.Snapshot{
		Version:   market.SnapshotVersion,
		FetchedAt: FixtureTime,
	}}
}

// System adds a star system
func (b *SnapshotBuilder) System(id int, name string) market.Location {
	loc := market.Location{ID: id, Kind: market.LocationSystem, Name: name, SystemID: id}
	b.snapshot.Locations = append(b.snapshot.Locations, loc)
	return loc
}

// Child adds a location of the given kind under parent, inheriting every
// ancestor reference of the parent
func (b *SnapshotBuilder) Child(kind market.LocationKind, id int, name string, parent market.Location) market.Location {
	loc := market.Location{
		ID:        id,
		Kind:      kind,
		Name:      name,
		SystemID:  parent.SystemID,
		PlanetID:  parent.PlanetID,
		MoonID:    parent.MoonID,
		CityID:    parent.CityID,
		StationID: parent.StationID,
		OutpostID: parent.OutpostID,
	}
	switch parent.Kind {
	case market.LocationSystem:
		loc.SystemID = parent.ID
	case market.LocationPlanet:
		loc.PlanetID = parent.ID
	case market.LocationMoon:
		loc.MoonID = parent.ID
	case market.LocationCity:
		loc.CityID = parent.ID
	case market.LocationStation:
		loc.StationID = parent.ID
	case market.LocationOutpost:
		loc.OutpostID = parent.ID
	}
	b.snapshot.Locations = append(b.snapshot.Locations, loc)
	return loc
}

// TradePort adds a trade port under parent
func (b *SnapshotBuilder) TradePort(id int, name string, parent market.Location) market.Location {
	return b.Child(market.LocationTradePort, id, name, parent)
}

// Commodity adds a commodity
func (b *SnapshotBuilder) Commodity(id int, name string, illegal bool) market.Commodity {
	c := market.Commodity{
		ID:       id,
		Code:     name,
		Name:     name,
		Kind:     "Metal",
		Illegal:  illegal,
		Buyable:  true,
		Sellable: true,
	}
	if illegal {
		c.Kind = "Drug"
	}
	b.snapshot.Commodities = append(b.snapshot.Commodities, c)
	return c
}

// Ship adds a ship
func (b *SnapshotBuilder) Ship(id int, name, manufacturer string, cargo int) market.Ship {
	s := market.Ship{
		ID:            id,
		Name:          name,
		FullName:      market.ManufacturerName(manufacturer) + " " + name,
		Manufacturer:  manufacturer,
		CargoCapacity: cargo,
		PledgePrice:   decimal.NewFromInt(int64(cargo) * 1000),
	}
	b.snapshot.Ships = append(b.snapshot.Ships, s)
	return s
}

// ReferencePrices sets the provider's published average prices of a commodity
func (b *SnapshotBuilder) ReferencePrices(c market.Commodity, buy, sell float64) {
	for i := range b.snapshot.Commodities {
		if b.snapshot.Commodities[i].ID == c.ID {
			b.snapshot.Commodities[i].PriceBuy = buy
			b.snapshot.Commodities[i].PriceSell = sell
		}
	}
}

// Crew sets the crew size text of a ship, e.g. "1,2"
func (b *SnapshotBuilder) Crew(ship market.Ship, crew string) {
	for i := range b.snapshot.Ships {
		if b.snapshot.Ships[i].ID == ship.ID {
			b.snapshot.Ships[i].Crew = crew
		}
	}
}

// ShipOffer adds an in-game purchase or rental option
func (b *SnapshotBuilder) ShipOffer(ship market.Ship, port market.Location, kind market.ShipOfferKind, price int64) {
	b.snapshot.ShipOffers = append(b.snapshot.ShipOffers, market.ShipOffer{
		ShipID:     ship.ID,
		LocationID: port.ID,
		Kind:       kind,
		Price:      decimal.NewFromInt(price),
	})
}

// Buy adds an offer where the player can buy the commodity. maxQuantity <= 0 means unknown.
func (b *SnapshotBuilder) Buy(port market.Location, c market.Commodity, price float64, maxQuantity int) {
	b.offer(port, c, market.OfferBuy, price, maxQuantity)
}

// Sell adds an offer where the player can sell the commodity. maxQuantity <= 0 means unknown.
func (b *SnapshotBuilder) Sell(port market.Location, c market.Commodity, price float64, maxQuantity int) {
	b.offer(port, c, market.OfferSell, price, maxQuantity)
}

func (b *SnapshotBuilder) offer(port market.Location, c market.Commodity, kind market.OfferKind, price float64, maxQuantity int) {
	o, ok := market.NewOffer(port.ID, c.ID, kind, price, maxQuantity, FixtureTime)
	if !ok {
		return
	}
	b.snapshot.Offers = append(b.snapshot.Offers, o)
}

// RawOffer appends an offer without any validation, for sanitization tests
func (b *SnapshotBuilder) RawOffer(o market.Offer) {
	b.snapshot.Offers = append(b.snapshot.Offers, o)
}

// Build returns the assembled snapshot
func (b *SnapshotBuilder) Build() market.Snapshot {
	return b.snapshot
}

// IronScenario builds the reference trading dataset: Iron can be bought at
// Port A for 10/unit (max 50) and sold at Port B for 15/unit (max 100).
// Port A sits on Hurston and Port B on Crusader, both in Stanton. The
// "Hauler" ship carries 20 SCU.
func IronScenario() market.Snapshot {
	b := NewSnapshotBuilder()
	stanton := b.System(1, "Stanton")
	hurston := b.Child(market.LocationPlanet, 1, "Hurston", stanton)
	crusader := b.Child(market.LocationPlanet, 2, "Crusader", stanton)
	portA := b.TradePort(1, "Port A", hurston)
	portB := b.TradePort(2, "Port B", crusader)
	iron := b.Commodity(1, "Iron", false)
	b.Buy(portA, iron, 10, 50)
	b.Sell(portB, iron, 15, 100)
	b.Ship(1, "Hauler", "MISC", 20)
	return b.Build()
}

// StantonScenario builds a richer dataset with several levels of hierarchy,
// an illegal commodity and ships from different manufacturers.
func StantonScenario() market.Snapshot {
	b := NewSnapshotBuilder()
	stanton := b.System(1, "Stanton")
	pyro := b.System(2, "Pyro")
	hurston := b.Child(market.LocationPlanet, 1, "Hurston", stanton)
	crusader := b.Child(market.LocationPlanet, 2, "Crusader", stanton)
	arial := b.Child(market.LocationMoon, 1, "Arial", hurston)
	lorville := b.Child(market.LocationCity, 1, "Lorville", hurston)
	orison := b.Child(market.LocationCity, 2, "Orison", crusader)
	everus := b.Child(market.LocationStation, 1, "Everus Harbor", hurston)
	ruin := b.Child(market.LocationStation, 2, "Ruin Station", pyro)

	tdd := b.TradePort(1, "Lorville TDD", lorville)
	everusPort := b.TradePort(2, "Everus Harbor Admin", everus)
	orisonTdd := b.TradePort(3, "Orison TDO", orison)
	arialOutpost := b.TradePort(4, "HDMS-Bezdek", arial)
	ruinPort := b.TradePort(5, "Ruin Station Trade", ruin)

	laranite := b.Commodity(1, "Laranite", false)
	agricium := b.Commodity(2, "Agricium", false)
	widow := b.Commodity(3, "WiDoW", true)
	titanium := b.Commodity(4, "Titanium", false)
	b.ReferencePrices(laranite, 28, 30)

	b.Buy(arialOutpost, laranite, 27, 0)
	b.Sell(tdd, laranite, 31, 0)
	b.Sell(orisonTdd, laranite, 30.5, 0)
	b.Sell(everusPort, laranite, 29, 0)

	b.Buy(tdd, agricium, 25, 500)
	b.Sell(orisonTdd, agricium, 27.25, 200)
	b.Sell(ruinPort, agricium, 28, 0)

	b.Buy(ruinPort, widow, 20, 0)
	b.Sell(everusPort, widow, 40, 0)

	b.Buy(tdd, titanium, 8, 0)
	b.Buy(orisonTdd, titanium, 8, 300)
	b.Buy(everusPort, titanium, 9, 0)
	b.Sell(arialOutpost, titanium, 9.5, 0)

	cutlassBlack := b.Ship(1, "Cutlass Black", "DRAK", 46)
	b.Ship(2, "Cutlass Red", "DRAK", 12)
	b.Ship(3, "Freelancer", "MISC", 66)
	b.Ship(4, "Hull C", "MISC", 4608)
	b.Ship(5, "Caterpillar", "DRAK", 576)

	b.Crew(cutlassBlack, "1,2")

	b.ShipOffer(cutlassBlack, tdd, market.ShipOfferBuy, 2_500_000)
	b.ShipOffer(cutlassBlack, everusPort, market.ShipOfferRent, 150_000)

	return b.Build()
}
