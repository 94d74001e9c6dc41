package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/uexcorp-go/internal/domain/shared"
)

// Validator is a wrapper around go-playground/validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance with custom validation rules
func NewValidator() *Validator {
	v := validator.New()
	// report settings by their config file names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(blacklistRuleValidation, BlacklistRuleConfig{})

	return &Validator{
		validate: v,
	}
}

// blacklistRuleValidation rejects rules with neither a location nor a
// commodity, since such a rule would exclude every offer
func blacklistRuleValidation(sl validator.StructLevel) {
	rule := sl.Current().Interface().(BlacklistRuleConfig)
	if strings.TrimSpace(rule.Location) == "" && strings.TrimSpace(rule.Commodity) == "" {
		sl.ReportError(rule.Location, "location", "Location", "location_or_commodity", "")
	}
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors into readable messages.
// Each message names the offending setting so the user can fix it.
func (v *Validator) formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	var messages []string
	var first *shared.ConfigurationError
	for _, e := range validationErrs {
		setting := settingName(e.Namespace())
		var msg string
		switch {
		case e.Tag() == "location_or_commodity":
			msg = fmt.Sprintf("setting '%s' failed validation: a blacklist rule needs a location, a commodity or both", setting)
		case setting == "api.api_key":
			msg = "missing UEX corp API key: set api.api_key or " + APIKeyEnv + " (get one at https://uexcorp.space/api)"
		default:
			msg = fmt.Sprintf("field '%s' failed validation: %s (value: '%v')", setting, e.Tag(), e.Value())
		}
		messages = append(messages, msg)
		if first == nil {
			first = shared.NewConfigurationError(setting, msg)
		}
	}
	return fmt.Errorf("%w\nvalidation failed:\n  %s", first, strings.Join(messages, "\n  "))
}

// settingName turns "Config.trading.blacklist[1].location" into "trading.blacklist[1]"
func settingName(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	if n := len(parts); n > 1 && strings.HasSuffix(parts[n-2], "]") && parts[n-1] == "location" {
		parts = parts[:n-1]
	}
	return strings.Join(parts, ".")
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	v := NewValidator()
	return v.Validate(cfg)
}
