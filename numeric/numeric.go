// Package numeric normalizes locale-formatted rate strings into
// canonical fixed-precision values.
//
// Upstream sources render rates the Venezuelan way: comma as the decimal
// separator, often with trailing currency symbols ("102,15700000 Bs").
// Normalize strips the noise and yields a 2-decimal value.
package numeric

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrNotANumber = errors.New("value is not a number")

// Unavailable is the sentinel recorded by extractors when a rate
// is missing from the source page. It never normalizes to a number
const Unavailable = "No disponible"

// Normalize converts a raw locale-formatted rate string into a decimal
// value rounded to exactly 2 decimal places.
//
// Every rune that is not a digit or comma is dropped, and the decimal
// comma is replaced with a period before parsing. An unparseable result
// (such as the "No disponible" sentinel) is an error, never zero
func Normalize(raw string) (decimal.Decimal, error) {
	var sb strings.Builder

	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == ',' {
			sb.WriteRune(r)
		}
	}

	cleaned := strings.ReplaceAll(sb.String(), ",", ".")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotANumber, raw)
	}

	v, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotANumber, raw)
	}

	return v.Round(2), nil
}
