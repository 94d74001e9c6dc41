package assistant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	infoQueries "github.com/andrescamacho/uexcorp-go/internal/application/info/queries"
	infoTypes "github.com/andrescamacho/uexcorp-go/internal/application/info/types"
	tradingQueries "github.com/andrescamacho/uexcorp-go/internal/application/trading/queries"
	"github.com/andrescamacho/uexcorp-go/internal/application/trading/types"
)

const (
	textNoRoutes  = "No trading routes found."
	textReloaded  = "Reloaded current commodity prices from UEX corp."
	textRouteHint = "List possible commodities with just their profit and only give further information on request (e.g. 86 SCU Astatine for a profit of 45,567 aUEC)."
)

func money(f float64) string {
	return humanize.CommafWithDigits(f, 2) + " aUEC"
}

func scu(n int) string {
	return humanize.Comma(int64(n)) + " SCU"
}

// compactJSON renders v without HTML escaping so breadcrumbs keep their ">>"
func compactJSON(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return strings.TrimRight(buf.String(), "\n")
}

type routeView struct {
	Commodity string `json:"commodity"`
	Cargo     string `json:"cargo"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Buy       string `json:"buy"`
	Sell      string `json:"sell"`
	Profit    string `json:"profit"`
	Illegal   bool   `json:"illegal,omitempty"`
	PriceAge  string `json:"prices_updated,omitempty"`
}

func toRouteView(r *types.RouteDTO) routeView {
	v := routeView{
		Commodity: r.Commodity,
		Cargo:     scu(r.Quantity),
		Start:     r.BuyBreadcrumb,
		End:       r.SellBreadcrumb,
		Buy:       money(r.TotalCost),
		Sell:      money(r.TotalRevenue),
		Profit:    money(r.Profit),
		Illegal:   r.Illegal,
	}
	if r.PricesUpdatedDays > 0 {
		v.PriceAge = fmt.Sprintf("%d days ago", r.PricesUpdatedDays)
	}
	return v
}

func formatRoutes(op Operation, resp *tradingQueries.FindTradingRoutesResponse) string {
	if len(resp.Routes) == 0 {
		return textNoRoutes
	}
	if op.single() {
		return compactJSON(toRouteView(resp.Routes[0]))
	}

	views := make([]routeView, len(resp.Routes))
	for i, r := range resp.Routes {
		views[i] = toRouteView(r)
	}
	var b strings.Builder
	b.WriteString(textRouteHint)
	if len(resp.Routes) >= resp.Limit {
		b.WriteString(" Tell the player there might be more routes with lower profit, but they are not shown to keep it short.")
	} else {
		fmt.Fprintf(&b, " Tell the player there are only %d routes available.", len(resp.Routes))
	}
	b.WriteString(" JSON: ")
	b.WriteString(compactJSON(views))
	return b.String()
}

type locationView struct {
	Location string `json:"location"`
	Price    string `json:"price_per_scu"`
	Amount   string `json:"amount,omitempty"`
	Total    string `json:"total,omitempty"`
	Max      string `json:"max_available,omitempty"`
}

func formatLocations(verb string, resp *tradingQueries.FindBestLocationsResponse) string {
	if len(resp.Locations) == 0 {
		return fmt.Sprintf("No locations found to %s %s.", verb, resp.Commodity)
	}
	views := make([]locationView, len(resp.Locations))
	for i, l := range resp.Locations {
		views[i] = locationView{
			Location: l.Breadcrumb,
			Price:    money(l.UnitPrice),
		}
		if l.Total != nil {
			views[i].Amount = scu(l.Quantity)
			views[i].Total = money(*l.Total)
		}
		if l.MaxQuantity != nil {
			views[i].Max = scu(*l.MaxQuantity)
		}
	}
	heading := fmt.Sprintf("Here are the best %d locations to %s %s %s:", len(views), verb, scu(resp.Amount), resp.Commodity)
	if len(views) == 1 {
		heading = fmt.Sprintf("Here is the best location to %s %s %s:", verb, scu(resp.Amount), resp.Commodity)
	}
	return heading + " JSON: " + compactJSON(views)
}

func formatShip(resp *infoQueries.GetShipInfoResponse) string {
	ship := resp.Ship
	view := map[string]interface{}{
		"name":         ship.FullName,
		"manufacturer": ship.Manufacturer,
		"cargo":        scu(ship.CargoCapacity),
	}
	if ship.Crew != "" {
		view["crew"] = ship.Crew
	}
	if ship.PledgePrice > 0 {
		view["pledge_price"] = "$" + humanize.CommafWithDigits(ship.PledgePrice, 2)
	}
	if len(ship.BuyAt) == 0 && len(ship.RentAt) == 0 {
		view["availability"] = "Cannot be bought or rented in game."
	}
	if len(ship.BuyAt) > 0 {
		view["buy_at"] = shipOffers(ship.BuyAt)
	}
	if len(ship.RentAt) > 0 {
		view["rent_at"] = shipOffers(ship.RentAt)
	}
	if ship.HullTradingOnly {
		view["note"] = "This ship can only trade at hull trading locations."
	}
	return compactJSON(view)
}

func shipOffers(offers []*infoTypes.ShipOfferDTO) []string {
	out := make([]string, 0, len(offers))
	for _, o := range offers {
		out = append(out, fmt.Sprintf("%s for %s", o.Breadcrumb, money(o.Price)))
	}
	return out
}

func formatComparison(resp *infoQueries.CompareShipsResponse) string {
	ships := make([]map[string]interface{}, 0, len(resp.Ships))
	for _, s := range resp.Ships {
		ship := map[string]interface{}{
			"name":         s.FullName,
			"manufacturer": s.Manufacturer,
			"cargo":        scu(s.CargoCapacity),
		}
		if s.PledgePrice > 0 {
			ship["pledge_price"] = "$" + humanize.CommafWithDigits(s.PledgePrice, 2)
		}
		ships = append(ships, ship)
	}
	deltas := make([]string, 0, len(resp.Deltas))
	for _, d := range resp.Deltas {
		manufacturer := "different manufacturer"
		if d.SameManufacturer {
			manufacturer = "same manufacturer"
		}
		deltas = append(deltas, fmt.Sprintf("%s vs %s: cargo %+d SCU, pledge price %s$%s, %s",
			d.Name, d.Against, d.CargoDelta, sign(d.PriceDelta), humanize.CommafWithDigits(abs(d.PriceDelta), 2), manufacturer))
	}
	view := map[string]interface{}{
		"ships":          ships,
		"differences":    deltas,
		"largest_cargo":  resp.LargestCargo,
		"smallest_cargo": resp.SmallestCargo,
		"cheapest":       resp.Cheapest,
		"most_expensive": resp.MostExpensive,
	}
	text := compactJSON(view)
	if len(resp.Unresolved) > 0 {
		text += " These ships do not exist in game, ask for clarification: " + strings.Join(resp.Unresolved, ", ")
	}
	return text
}

func sign(f float64) string {
	if f < 0 {
		return "-"
	}
	return "+"
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func formatLocation(resp *infoQueries.GetLocationInfoResponse) string {
	view := map[string]interface{}{
		"name":     resp.Name,
		"type":     resp.Kind,
		"location": resp.Breadcrumb,
	}
	if resp.IsTradePort {
		view["buyable_commodities"] = commodityPrices(resp.Buy)
		view["sellable_commodities"] = commodityPrices(resp.Sell)
		if resp.HullTrading {
			view["hull_trading"] = "Supports hull cargo ships."
		}
		return compactJSON(view)
	}
	children := make([]string, 0, len(resp.Children))
	for _, c := range resp.Children {
		children = append(children, c.Kind+": "+c.Name)
	}
	if len(children) > 0 {
		view["contains"] = children
	}
	view["trade_points"] = resp.TradePorts
	return compactJSON(view)
}

func commodityPrices(prices []*infoTypes.CommodityPriceDTO) []string {
	out := make([]string, 0, len(prices))
	for _, p := range prices {
		line := fmt.Sprintf("%s for %s per SCU", p.Commodity, money(p.Price))
		if p.Illegal {
			line += " (illegal)"
		}
		out = append(out, line)
	}
	return out
}

func formatCommodity(resp *infoQueries.GetCommodityInfoResponse) string {
	view := map[string]interface{}{
		"name":     resp.Name,
		"type":     resp.Kind,
		"legality": resp.Legality,
		"buyable":  priceRangeText(resp.Buyable, resp.Buy),
		"sellable": priceRangeText(resp.Sellable, resp.Sell),
	}
	if resp.Minable {
		view["minable"] = "Yes"
	}
	if resp.Harvestable {
		view["harvestable"] = "Yes"
	}
	return compactJSON(view)
}

func priceRangeText(available bool, r infoQueries.PriceRange) string {
	if !available || r.Locations == 0 {
		return "No"
	}
	where := english.Plural(r.Locations, "location", "")
	text := fmt.Sprintf("Yes, at %s for %s to %s per SCU", where, money(*r.Min), money(*r.Max))
	if *r.Min == *r.Max {
		text = fmt.Sprintf("Yes, at %s for %s per SCU", where, money(*r.Min))
	}
	if r.Reference > 0 {
		text += fmt.Sprintf(" (reference price %s per SCU)", money(r.Reference))
	}
	return text
}

func formatStaleReload(fetchedAt, now time.Time) string {
	return "Reloading prices from UEX corp failed. Still using the prices loaded " +
		humanize.RelTime(fetchedAt, now, "ago", "from now") + "."
}

func formatMemory(values map[string]interface{}) string {
	if len(values) == 0 {
		return "No function argument values are remembered."
	}
	names := make([]string, 0, len(values))
	for k := range values {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, fmt.Sprintf("%s: %v", n, values[n]))
	}
	return "Remembered function argument values: " + strings.Join(parts, ", ")
}
