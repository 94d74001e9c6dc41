package api

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/andrescamacho/uexcorp-go/internal/application/logging"
	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
)

// Endpoint names of the UEX 2.0 API
const (
	EndpointStarSystems      = "star_systems"
	EndpointPlanets          = "planets"
	EndpointMoons            = "moons"
	EndpointCities           = "cities"
	EndpointSpaceStations    = "space_stations"
	EndpointOutposts         = "outposts"
	EndpointTerminals        = "terminals"
	EndpointCommodities      = "commodities"
	EndpointCommodityPrices  = "commodities_prices_all"
	EndpointVehicles         = "vehicles"
	EndpointVehiclePrices    = "vehicles_prices"
	EndpointVehiclePurchases = "vehicles_purchases_prices_all"
	EndpointVehicleRentals   = "vehicles_rentals_prices_all"
)

// terminal types that can act as trade ports
var tradePortTypes = map[string]bool{
	"":             true,
	"commodity":    true,
	"vehicle_buy":  true,
	"vehicle_rent": true,
}

// uexDataset collects the raw response of every endpoint of one fetch
type uexDataset struct {
	systems     []uexStarSystem
	planets     []uexPlanet
	moons       []uexMoon
	cities      []uexCity
	stations    []uexSpaceStation
	outposts    []uexOutpost
	terminals   []uexTerminal
	commodities []uexCommodity
	prices      []uexCommodityPrice
	vehicles    []uexVehicle
	pledges     []uexVehiclePrice
	purchases   []uexVehiclePurchase
	rentals     []uexVehicleRental
}

// FetchSnapshot downloads every dataset concurrently. The fetch is all or
// nothing: when one endpoint fails the whole snapshot is discarded.
func (c *UEXClient) FetchSnapshot(ctx context.Context) (market.Snapshot, error) {
	var ds uexDataset

	g, gctx := errgroup.WithContext(ctx)
	fetch := func(endpoint string, out interface{}) {
		g.Go(func() error {
			return c.getList(gctx, endpoint, out)
		})
	}
	fetch(EndpointStarSystems, &ds.systems)
	fetch(EndpointPlanets, &ds.planets)
	fetch(EndpointMoons, &ds.moons)
	fetch(EndpointCities, &ds.cities)
	fetch(EndpointSpaceStations, &ds.stations)
	fetch(EndpointOutposts, &ds.outposts)
	fetch(EndpointTerminals, &ds.terminals)
	fetch(EndpointCommodities, &ds.commodities)
	fetch(EndpointCommodityPrices, &ds.prices)
	fetch(EndpointVehicles, &ds.vehicles)
	fetch(EndpointVehiclePrices, &ds.pledges)
	fetch(EndpointVehiclePurchases, &ds.purchases)
	fetch(EndpointVehicleRentals, &ds.rentals)

	if err := g.Wait(); err != nil {
		if IsAuthError(err) {
			logging.LoggerFromContext(ctx).Log(logging.LevelError, "UEX corp rejected the API key", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return market.Snapshot{}, fmt.Errorf("failed to fetch trading data: %w", err)
	}

	return ds.toSnapshot(c.clock.Now()), nil
}

func (ds *uexDataset) toSnapshot(fetchedAt time.Time) market.Snapshot {
	snapshot := market.Snapshot{
		Version:   market.SnapshotVersion,
		FetchedAt: fetchedAt,
	}
	snapshot.Locations = ds.locations()
	snapshot.Commodities = ds.commodityList()
	snapshot.Offers = ds.offers()
	snapshot.Ships = ds.ships()
	snapshot.ShipOffers = ds.shipOffers()
	return snapshot
}

func (ds *uexDataset) locations() []market.Location {
	var out []market.Location
	for _, s := range ds.systems {
		if !bool(s.IsAvailable) {
			continue
		}
		out = append(out, market.Location{ID: s.ID, Kind: market.LocationSystem, Name: s.Name, Code: s.Code, SystemID: s.ID})
	}
	for _, p := range ds.planets {
		out = append(out, market.Location{ID: p.ID, Kind: market.LocationPlanet, Name: p.Name, Code: p.Code,
			SystemID: p.StarSystemID, PlanetID: p.ID})
	}
	for _, m := range ds.moons {
		out = append(out, market.Location{ID: m.ID, Kind: market.LocationMoon, Name: m.Name, Code: m.Code,
			SystemID: m.StarSystemID, PlanetID: m.PlanetID, MoonID: m.ID})
	}
	for _, c := range ds.cities {
		out = append(out, market.Location{ID: c.ID, Kind: market.LocationCity, Name: c.Name, Code: c.Code,
			SystemID: c.StarSystemID, PlanetID: c.PlanetID, MoonID: c.MoonID, CityID: c.ID})
	}
	for _, s := range ds.stations {
		out = append(out, market.Location{ID: s.ID, Kind: market.LocationStation, Name: firstNonEmpty(s.Name, s.Nickname),
			SystemID: s.StarSystemID, PlanetID: s.PlanetID, MoonID: s.MoonID, CityID: s.CityID, StationID: s.ID})
	}
	for _, o := range ds.outposts {
		out = append(out, market.Location{ID: o.ID, Kind: market.LocationOutpost, Name: firstNonEmpty(o.Name, o.Nickname),
			SystemID: o.StarSystemID, PlanetID: o.PlanetID, MoonID: o.MoonID, OutpostID: o.ID})
	}
	for _, t := range ds.terminals {
		if !bool(t.IsAvailable) || !tradePortTypes[t.Type] {
			continue
		}
		out = append(out, market.Location{
			ID:        t.ID,
			Kind:      market.LocationTradePort,
			Name:      firstNonEmpty(t.Name, t.Nickname),
			Code:      t.Code,
			SystemID:  t.StarSystemID,
			PlanetID:  t.PlanetID,
			MoonID:    t.MoonID,
			CityID:    t.CityID,
			StationID: t.SpaceStationID,
			OutpostID: t.OutpostID,
		})
	}
	return out
}

func (ds *uexDataset) commodityList() []market.Commodity {
	out := make([]market.Commodity, 0, len(ds.commodities))
	for _, c := range ds.commodities {
		if !bool(c.IsAvailable) {
			continue
		}
		out = append(out, market.Commodity{
			ID:          c.ID,
			Code:        c.Code,
			Name:        c.Name,
			Kind:        c.Kind,
			Illegal:     bool(c.IsIllegal),
			Buyable:     bool(c.IsBuyable),
			Sellable:    bool(c.IsSellable),
			Minable:     bool(c.IsMineral),
			Harvestable: bool(c.IsHarvestable),
			PriceBuy:    float64(c.PriceBuy),
			PriceSell:   float64(c.PriceSell),
		})
	}
	return out
}

// offers splits every price row into a buy and a sell offer; a side without
// a price does not exist
func (ds *uexDataset) offers() []market.Offer {
	out := make([]market.Offer, 0, len(ds.prices)*2)
	for _, p := range ds.prices {
		updatedAt := time.Unix(p.DateModified, 0).UTC()
		if o, ok := market.NewOffer(p.TerminalID, p.CommodityID, market.OfferBuy, float64(p.PriceBuy), scu(p.SCUBuy), updatedAt); ok {
			out = append(out, o)
		}
		if o, ok := market.NewOffer(p.TerminalID, p.CommodityID, market.OfferSell, float64(p.PriceSell), scu(p.SCUSell), updatedAt); ok {
			out = append(out, o)
		}
	}
	return out
}

func (ds *uexDataset) ships() []market.Ship {
	pledge := make(map[int]float64, len(ds.pledges))
	for _, p := range ds.pledges {
		if float64(p.Price) > 0 {
			pledge[p.VehicleID] = float64(p.Price)
		}
	}
	out := make([]market.Ship, 0, len(ds.vehicles))
	for _, v := range ds.vehicles {
		out = append(out, market.Ship{
			ID:            v.ID,
			Name:          v.Name,
			FullName:      firstNonEmpty(v.NameFull, v.Name),
			Manufacturer:  v.CompanyName,
			CargoCapacity: scu(v.SCU),
			PledgePrice:   decimal.NewFromFloat(pledge[v.ID]),
			Crew:          string(v.Crew),
		})
	}
	return out
}

func (ds *uexDataset) shipOffers() []market.ShipOffer {
	out := make([]market.ShipOffer, 0, len(ds.purchases)+len(ds.rentals))
	for _, p := range ds.purchases {
		if float64(p.PriceBuy) <= 0 {
			continue
		}
		out = append(out, market.ShipOffer{ShipID: p.VehicleID, LocationID: p.TerminalID, Kind: market.ShipOfferBuy,
			Price: decimal.NewFromFloat(float64(p.PriceBuy))})
	}
	for _, r := range ds.rentals {
		if float64(r.PriceRent) <= 0 {
			continue
		}
		out = append(out, market.ShipOffer{ShipID: r.VehicleID, LocationID: r.TerminalID, Kind: market.ShipOfferRent,
			Price: decimal.NewFromFloat(float64(r.PriceRent))})
	}
	return out
}

func scu(n number) int {
	if n <= 0 {
		return 0
	}
	return int(math.Floor(float64(n)))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
