package resolver

import (
	"strings"

	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
	"github.com/andrescamacho/uexcorp-go/internal/domain/matching"
)

// Resolver turns free-text names into catalog entities using fuzzy matching.
// "No match" is reported with a false flag, never an error.
type Resolver struct {
	matcher *matching.Matcher
}

// New creates a resolver that discounts omitted manufacturer names
func New() *Resolver {
	return &Resolver{matcher: matching.NewMatcher(market.ManufacturerTokens()...)}
}

// Ships returns every ship matching the name, best first
func (r *Resolver) Ships(c *market.Catalog, name string) []market.Ship {
	ships := c.Ships()
	cands := make([]matching.Candidate[market.Ship], 0, len(ships))
	for _, s := range ships {
		aliases := []string{s.FullName}
		if s.Manufacturer != "" {
			aliases = append(aliases, s.Manufacturer+" "+s.Name, market.ManufacturerName(s.Manufacturer)+" "+s.Name)
		}
		cands = append(cands, matching.Candidate[market.Ship]{Name: s.Name, Aliases: aliases, Value: s})
	}
	return values(matching.Resolve(r.matcher, name, cands))
}

// Ship returns the best matching ship
func (r *Resolver) Ship(c *market.Catalog, name string) (market.Ship, bool) {
	return first(r.Ships(c, name))
}

// Commodity returns the best matching commodity, by name or code
func (r *Resolver) Commodity(c *market.Catalog, name string) (market.Commodity, bool) {
	commodities := c.Commodities()
	cands := make([]matching.Candidate[market.Commodity], 0, len(commodities))
	for _, com := range commodities {
		var aliases []string
		if com.Code != "" && !strings.EqualFold(com.Code, com.Name) {
			aliases = []string{com.Code}
		}
		cands = append(cands, matching.Candidate[market.Commodity]{Name: com.Name, Aliases: aliases, Value: com})
	}
	return first(values(matching.Resolve(r.matcher, name, cands)))
}

// Location returns the best matching location at any level. On equal scores
// the broader level wins.
func (r *Resolver) Location(c *market.Catalog, name string) (market.Location, bool) {
	return first(values(matching.Resolve(r.matcher, name, r.locationCandidates(c, nil))))
}

// TradePort returns the best matching trade port only
func (r *Resolver) TradePort(c *market.Catalog, name string) (market.Location, bool) {
	return first(values(matching.Resolve(r.matcher, name, r.locationCandidates(c, func(l market.Location) bool {
		return l.IsTradePort()
	}))))
}

func (r *Resolver) locationCandidates(c *market.Catalog, keep func(market.Location) bool) []matching.Candidate[market.Location] {
	locations := c.Locations()
	cands := make([]matching.Candidate[market.Location], 0, len(locations))
	for _, l := range locations {
		if keep != nil && !keep(l) {
			continue
		}
		var aliases []string
		if l.Code != "" {
			aliases = []string{l.Code}
		}
		cands = append(cands, matching.Candidate[market.Location]{Name: l.Name, Aliases: aliases, Value: l})
	}
	return cands
}

func values[T any](matches []matching.Match[T]) []T {
	out := make([]T, len(matches))
	for i, m := range matches {
		out[i] = m.Value
	}
	return out
}

func first[T any](items []T) (T, bool) {
	if len(items) == 0 {
		var zero T
		return zero, false
	}
	return items[0], true
}
