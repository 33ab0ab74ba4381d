package renderer

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency used to display amounts when none is configured.
const DefaultCurrency = "EUR"

// FormatAmount formats v in the given currency, e.g. "$1,234.50" for USD.
//
// Unknown currency codes fall back to a plain two decimals rendering followed
// by the code.
func FormatAmount(v decimal.Decimal, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = DefaultCurrency
	}
	if money.GetCurrency(code) == nil {
		return v.StringFixed(2) + " " + code
	}
	cur := *money.New(0, code).Currency()
	fraction := int32(cur.Fraction)
	return cur.Formatter().Format(v.Round(fraction).Shift(fraction).IntPart())
}

// FormatSigned is like FormatAmount but always shows the sign of v.
func FormatSigned(v decimal.Decimal, currency string) string {
	s := FormatAmount(v, currency)
	if v.IsPositive() {
		return "+" + s
	}
	return s
}
