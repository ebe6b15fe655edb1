package market

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseNullable converts an upstream numeric string into an optional
// decimal. Placeholders such as "None", "-" or "" yield an invalid value.
func ParseNullable(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "-", "none", "null", "n/a", "nan":
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
