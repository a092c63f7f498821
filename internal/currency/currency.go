// Package currency renders amounts for display in the currencies the
// tracker supports.
package currency

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/spendwise-tracker/internal/domain/shared"
)

// Info describes a supported currency
type Info struct {
	Value  shared.Currency `json:"value"`
	Label  string          `json:"label"`
	Symbol string          `json:"symbol"`
}

var supported = []Info{
	{Value: shared.CurrencyXAF, Label: "Central African CFA Franc", Symbol: "FCFA"},
	{Value: shared.CurrencyUSD, Label: "US Dollar", Symbol: "$"},
	{Value: shared.CurrencyNGN, Label: "Nigerian Naira", Symbol: "₦"},
	{Value: shared.CurrencyEUR, Label: "Euro", Symbol: "€"},
}

// Supported returns the currencies in display order.
func Supported() []Info {
	out := make([]Info, len(supported))
	copy(out, supported)
	return out
}

func lookup(code shared.Currency) (Info, bool) {
	for _, info := range supported {
		if info.Value == code {
			return info, true
		}
	}
	return Info{}, false
}

// Symbol returns the display symbol for code, or "" when unsupported.
func Symbol(code shared.Currency) string {
	info, _ := lookup(code)
	return info.Symbol
}

// Format renders amount with en-US digit grouping. Francs have no minor
// unit and are shown whole after a spaced symbol; the others carry two
// fraction digits and a leading symbol. Unsupported codes fall back to the
// bare amount with two fraction digits.
func Format(amount decimal.Decimal, code shared.Currency) string {
	info, ok := lookup(code)
	if !ok {
		return amount.StringFixed(2)
	}

	switch info.Value {
	case shared.CurrencyXAF:
		return info.Symbol + " " + group(amount, 0)
	case shared.CurrencyUSD, shared.CurrencyNGN, shared.CurrencyEUR:
		return info.Symbol + group(amount, 2)
	}
	return amount.StringFixed(2)
}

func group(amount decimal.Decimal, places int32) string {
	f := amount.Round(places).InexactFloat64()
	if places == 0 {
		return humanize.FormatFloat("#,###.", f)
	}
	return humanize.FormatFloat("#,###.##", f)
}
