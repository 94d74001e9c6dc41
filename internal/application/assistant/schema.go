package assistant

// ParamType is the JSON type of a parameter as announced to the caller
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
	TypeArray   ParamType = "array"
)

// ParameterSpec declares one function parameter
type ParameterSpec struct {
	Name        string      `json:"name"`
	Type        ParamType   `json:"type"`
	Description string      `json:"description,omitempty"`
	Required    bool        `json:"required,omitempty"`
	Default     interface{} `json:"default,omitempty"`

	// Remember marks parameters kept in the argument memory between calls
	Remember bool `json:"-"`

	// Missing is the clarification returned when a required value is absent
	Missing string `json:"-"`
}

// FunctionSpec declares one callable operation
type FunctionSpec struct {
	Name        Operation       `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterSpec `json:"parameters"`
}

// Parameter returns the declared parameter with the given name
func (f FunctionSpec) Parameter(name string) (ParameterSpec, bool) {
	for _, p := range f.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterSpec{}, false
}

const (
	missingShip      = "No ship given. Ask for a ship."
	missingCommodity = "No commodity given. Ask for a commodity."
	missingLocation  = "No location given. Ask for a location."
	missingShips     = "Name at least two ships to compare."
)

func shipParam(required bool) ParameterSpec {
	p := ParameterSpec{Name: "shipName", Type: TypeString, Description: "The ship name", Remember: true}
	if required {
		p.Required = true
		p.Missing = missingShip
	}
	return p
}

func commodityParam(required bool) ParameterSpec {
	p := ParameterSpec{Name: "commodityName", Type: TypeString, Description: "The commodity name", Remember: true}
	if required {
		p.Required = true
		p.Missing = missingCommodity
	}
	return p
}

func routeParams() []ParameterSpec {
	return []ParameterSpec{
		shipParam(false),
		{Name: "positionStartName", Type: TypeString, Description: "The name of the start position (system, planet, moon, city, station or trade port)"},
		{Name: "positionEndName", Type: TypeString, Description: "The name of the end position"},
		{Name: "moneyToSpend", Type: TypeNumber, Description: "The amount of money (aUEC) to spend"},
		{Name: "freeCargoSpace", Type: TypeNumber, Description: "The amount of free cargo space in SCU"},
		commodityParam(false),
		{Name: "illegalCommoditesAllowed", Type: TypeBoolean, Description: "Whether illegal commodities are allowed", Default: true, Remember: true},
	}
}

func locationParams() []ParameterSpec {
	return []ParameterSpec{
		commodityParam(true),
		shipParam(false),
		{Name: "positionName", Type: TypeString, Description: "Only search in this area (system, planet, moon, city, station or trade port)"},
		{Name: "commodityAmount", Type: TypeNumber, Description: "The amount of commodity in SCU", Default: 1},
	}
}

// buildFunctions declares every operation. defaultRoutes and defaultLocations
// fill the result count parameters of the multi-result operations.
func buildFunctions(defaultRoutes, defaultLocations int, withDebug bool) []FunctionSpec {
	functions := []FunctionSpec{
		{
			Name:        OpBestTradingRoute,
			Description: "Finds the best trade route for a given spaceship and position.",
			Parameters:  routeParams(),
		},
		{
			Name:        OpMultipleBestTradingRoutes,
			Description: "Finds all possible commodity trade options and gives back a selection of the best options. If an alternative route is searched for, execute this function.",
			Parameters: append(routeParams(), ParameterSpec{
				Name: "maximalNumberOfRoutes", Type: TypeNumber, Description: "The maximal number of routes", Default: defaultRoutes,
			}),
		},
		{
			Name:        OpBestBuyLocation,
			Description: "Finds the best location at what the player can buy cargo at. Only give positionName if the player specifically wanted to filter for it.",
			Parameters:  locationParams(),
		},
		{
			Name:        OpMultipleBestBuyLocations,
			Description: "Finds the best locations at what the player can buy cargo at. If an alternative buy location is searched for, execute this function.",
			Parameters: append(locationParams(), ParameterSpec{
				Name: "maximalNumberOfLocations", Type: TypeNumber, Description: "The maximal number of locations", Default: defaultLocations,
			}),
		},
		{
			Name:        OpBestSellLocation,
			Description: "Finds the best location at what the player can sell cargo at.",
			Parameters:  locationParams(),
		},
		{
			Name:        OpMultipleBestSellLocations,
			Description: "Finds the best locations at what the player can sell cargo at. If an alternative sell location is searched for, execute this function.",
			Parameters: append(locationParams(), ParameterSpec{
				Name: "maximalNumberOfLocations", Type: TypeNumber, Description: "The maximal number of locations", Default: defaultLocations,
			}),
		},
		{
			Name:        OpShipInformation,
			Description: "Gives information about the given ship. If a player asks to rent something or buy a ship, this function needs to be executed.",
			Parameters:  []ParameterSpec{shipParam(true)},
		},
		{
			Name:        OpShipComparison,
			Description: "Compares the given ships by cargo capacity, price and manufacturer.",
			Parameters: []ParameterSpec{
				{Name: "shipNames", Type: TypeArray, Description: "The ship names to compare", Required: true, Missing: missingShips},
			},
		},
		{
			Name:        OpLocationInformation,
			Description: "Gives information and commodity prices of this location. Execute this if the player asks for all buy or sell options for a specific location.",
			Parameters: []ParameterSpec{
				{Name: "locationName", Type: TypeString, Description: "The location name", Required: true, Missing: missingLocation},
			},
		},
		{
			Name:        OpCommodityInformation,
			Description: "Gives information about the given commodity. If a player asks for information about a commodity, this function needs to be executed.",
			Parameters:  []ParameterSpec{commodityParam(true)},
		},
		{
			Name:        OpReloadPrices,
			Description: "Reloads the current commodity prices from UEX corp.",
		},
	}
	if withDebug {
		functions = append(functions, FunctionSpec{
			Name:        OpShowCachedValues,
			Description: "Shows the remembered function argument values.",
		})
	}
	return functions
}
