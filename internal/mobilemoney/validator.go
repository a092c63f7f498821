// Package mobilemoney validates and formats payer numbers for the
// supported mobile-money carriers.
package mobilemoney

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spendwise-tracker/internal/config"
	"github.com/spendwise-tracker/internal/domain/shared"
)

// PayerDigits is the length of a national subscriber number.
const PayerDigits = 9

// DefaultPatterns is the numbering plan used when none is configured.
var DefaultPatterns = map[shared.CarrierService]string{
	shared.CarrierServiceMTN:    `^6[5-9]\d{7}$`,
	shared.CarrierServiceOrange: `^(6[0-5]|69)\d{7}$`,
	shared.CarrierServiceMoov:   `^(6[0-5]|69)\d{7}$`,
}

// DefaultCountryCode prefixes formatted numbers when none is configured.
const DefaultCountryCode = "237"

var nonDigits = regexp.MustCompile(`\D`)

// Validator checks payer numbers against a per-carrier numbering plan
type Validator struct {
	patterns    map[shared.CarrierService]*regexp.Regexp
	countryCode string
}

// NewValidator compiles the given plan. Carriers absent from patterns fall
// back to DefaultPatterns.
func NewValidator(patterns map[shared.CarrierService]string, countryCode string) (*Validator, error) {
	compiled := make(map[shared.CarrierService]*regexp.Regexp, len(shared.CarrierServices))
	for _, service := range shared.CarrierServices {
		expr, ok := patterns[service]
		if !ok || strings.TrimSpace(expr) == "" {
			expr = DefaultPatterns[service]
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid payer pattern for %s: %w", service, err)
		}
		compiled[service] = re
	}

	countryCode = strings.TrimPrefix(strings.TrimSpace(countryCode), "+")
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}

	return &Validator{patterns: compiled, countryCode: countryCode}, nil
}

// Normalize strips every non-digit character.
func Normalize(number string) string {
	return nonDigits.ReplaceAllString(number, "")
}

// IsValidPayerNumber reports whether number, once stripped of non-digits,
// is a nine digit number within the carrier's numbering plan.
func (v *Validator) IsValidPayerNumber(number string, service shared.CarrierService) bool {
	re, ok := v.patterns[service]
	if !ok {
		return false
	}
	clean := Normalize(number)
	if len(clean) != PayerDigits {
		return false
	}
	return re.MatchString(clean)
}

// FormatPayerNumber renders a nine digit number with the country prefix for
// display. Anything else is returned unchanged.
func (v *Validator) FormatPayerNumber(number string) string {
	clean := Normalize(number)
	if len(clean) != PayerDigits {
		return number
	}
	return "+" + v.countryCode + " " + clean
}

// FromConfig builds a Validator from the configured numbering plan.
func FromConfig(cfg config.PayerConfig) (*Validator, error) {
	return NewValidator(map[shared.CarrierService]string{
		shared.CarrierServiceMTN:    cfg.PatternMTN,
		shared.CarrierServiceOrange: cfg.PatternOrange,
		shared.CarrierServiceMoov:   cfg.PatternMoov,
	}, cfg.CountryCode)
}
