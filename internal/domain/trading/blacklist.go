package trading

import (
	"strings"

	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
)

// BlacklistRule excludes offers by location, commodity or both. It is a pure
// predicate: offers are filtered out, never modified.
type BlacklistRule struct {
	location  string
	commodity string
}

// NewBlacklistRule creates a rule. At least one field must be set.
func NewBlacklistRule(location, commodity string) (BlacklistRule, error) {
	location, commodity = strings.TrimSpace(location), strings.TrimSpace(commodity)
	if location == "" && commodity == "" {
		return BlacklistRule{}, ErrEmptyBlacklistRule
	}
	return BlacklistRule{location: location, commodity: commodity}, nil
}

func (r BlacklistRule) Location() string  { return r.location }
func (r BlacklistRule) Commodity() string { return r.commodity }

// Matches reports whether every field set on the rule equals the offer's
// corresponding value. The location field matches the trade port itself or
// any location containing it.
func (r BlacklistRule) Matches(port market.Location, ancestors []market.Location, commodity market.Commodity) bool {
	if r.location == "" && r.commodity == "" {
		return false
	}
	if r.commodity != "" && !strings.EqualFold(r.commodity, commodity.Name) {
		return false
	}
	if r.location != "" && !r.matchesLocation(port, ancestors) {
		return false
	}
	return true
}

func (r BlacklistRule) matchesLocation(port market.Location, ancestors []market.Location) bool {
	if strings.EqualFold(r.location, port.Name) {
		return true
	}
	for _, a := range ancestors {
		if strings.EqualFold(r.location, a.Name) {
			return true
		}
	}
	return false
}

// Blacklist is an ordered list of rules; an offer is excluded when any rule matches
type Blacklist []BlacklistRule

// Excludes reports whether any rule matches the offer
func (b Blacklist) Excludes(catalog *market.Catalog, o market.Offer) bool {
	if len(b) == 0 {
		return false
	}
	port, ok := catalog.TradePort(o.LocationID)
	if !ok {
		return true
	}
	commodity, ok := catalog.Commodity(o.CommodityID)
	if !ok {
		return true
	}
	ancestors := catalog.Ancestors(port)
	for _, rule := range b {
		if rule.Matches(port, ancestors, commodity) {
			return true
		}
	}
	return false
}
