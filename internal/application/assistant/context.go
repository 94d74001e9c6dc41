package assistant

import (
	"context"
	"strings"

	"github.com/andrescamacho/uexcorp-go/internal/domain/market"
)

const (
	instructionNoAssumptions = "Only give functions parameters that were previously clearly provided by a request. Never assume any values, not the current ship, not the location, not the available money, nothing! Always send a None-value instead."
	instructionNoAdvice      = "If you are not using one of the defined functions, dont give any trading recommendations."
	instructionEnglish       = "If you execute a function that requires a commodity name, make sure to always provide the name in english."
	limitationProfitPerRun   = "Trading routes are ranked by profit per run only. Flight time and distance are not taken into account, so tell the player that a lower profit route can still earn more per hour."
)

// AdditionalContext returns the instructions the summarizing model should
// receive alongside the function declarations. With additional context
// enabled it also lists every known ship, commodity and location name.
func (f *Facade) AdditionalContext(ctx context.Context) (string, error) {
	lines := []string{instructionNoAssumptions, instructionNoAdvice, instructionEnglish, limitationProfitPerRun}
	if !f.opts.AdditionalContext {
		return strings.Join(lines, "\n"), nil
	}

	catalog, err := f.catalogs.Current(ctx)
	if err != nil {
		return "", err
	}
	names := knownNames(catalog)
	lines = append([]string{
		`Possible values for function parameter "shipName". If none is explicitly given by player, use "None": ` + strings.Join(names.ships, ", "),
		`Possible values for function parameter "commodityName": ` + strings.Join(names.commodities, ", "),
		`Possible values for function parameters "positionStartName", "positionEndName", "positionName" and "locationName": ` + strings.Join(names.locations, ", "),
	}, lines...)
	return strings.Join(lines, "\n"), nil
}

type nameLists struct {
	ships       []string
	commodities []string
	locations   []string
}

func knownNames(catalog *market.Catalog) nameLists {
	var n nameLists
	for _, s := range catalog.Ships() {
		n.ships = append(n.ships, s.FullName)
	}
	for _, c := range catalog.Commodities() {
		n.commodities = append(n.commodities, c.Name)
	}
	for _, l := range catalog.Locations() {
		n.locations = append(n.locations, l.Name)
	}
	return n
}
