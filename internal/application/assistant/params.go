package assistant

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

// RouteParams are the arguments of the trading route operations
type RouteParams struct {
	ShipName                 string   `mapstructure:"shipName"`
	PositionStartName        string   `mapstructure:"positionStartName"`
	PositionEndName          string   `mapstructure:"positionEndName"`
	MoneyToSpend             *float64 `mapstructure:"moneyToSpend"`
	FreeCargoSpace           *int     `mapstructure:"freeCargoSpace"`
	CommodityName            string   `mapstructure:"commodityName"`
	IllegalCommoditesAllowed bool     `mapstructure:"illegalCommoditesAllowed"`
	MaximalNumberOfRoutes    int      `mapstructure:"maximalNumberOfRoutes" validate:"omitempty,gte=1,lte=100"`
}

// LocationParams are the arguments of the buy and sell location operations
type LocationParams struct {
	CommodityName            string `mapstructure:"commodityName"`
	ShipName                 string `mapstructure:"shipName"`
	PositionName             string `mapstructure:"positionName"`
	CommodityAmount          int    `mapstructure:"commodityAmount" validate:"gte=1"`
	MaximalNumberOfLocations int    `mapstructure:"maximalNumberOfLocations" validate:"omitempty,gte=1,lte=100"`
}

// ShipParams are the arguments of get_ship_information
type ShipParams struct {
	ShipName string `mapstructure:"shipName"`
}

// ComparisonParams are the arguments of get_ship_comparison
type ComparisonParams struct {
	ShipNames []string `mapstructure:"shipNames" validate:"min=2,dive,required"`
}

// LocationInfoParams are the arguments of get_location_information
type LocationInfoParams struct {
	LocationName string `mapstructure:"locationName"`
}

// CommodityParams are the arguments of get_commodity_information
type CommodityParams struct {
	CommodityName string `mapstructure:"commodityName"`
}

// argumentDecoder turns loosely typed caller arguments into parameter structs.
// Numbers may arrive as strings and booleans as "true"/"false".
type argumentDecoder struct {
	validate *validator.Validate
}

func newArgumentDecoder() *argumentDecoder {
	return &argumentDecoder{validate: validator.New()}
}

func (d *argumentDecoder) decode(args map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(args); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	if err := d.validate.Struct(out); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidArguments, formatValidationError(err))
	}
	return nil
}

func formatValidationError(err error) string {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf("field '%s' failed validation: %s (value: '%v')", e.Field(), e.Tag(), e.Value()))
	}
	return strings.Join(messages, "; ")
}

// isAbsent reports whether a caller value means "not given". Language models
// tend to send "None" or "null" instead of leaving a parameter out.
func isAbsent(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "", "none", "null", "undefined":
			return true
		}
	case []interface{}:
		return len(t) == 0
	case []string:
		return len(t) == 0
	}
	return false
}

// isCurrent reports whether the caller refers to the remembered value
func isCurrent(v interface{}) bool {
	s, ok := v.(string)
	return ok && strings.EqualFold(strings.TrimSpace(s), "current")
}
