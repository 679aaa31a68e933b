// Package money holds the currency helpers shared by pricing and documents.
// Amounts are shopspring decimals; rounding is half-up to cents.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Round2 rounds half away from zero to two fraction digits, which is
// half-up for the non-negative amounts used in quotes.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FromFloat converts a float input into a decimal rounded to cents.
func FromFloat(f float64) decimal.Decimal {
	return Round2(decimal.NewFromFloat(f))
}

// NonNegative clamps negative amounts to zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// FormatEUR renders an amount in German notation: "1.234,56 €".
func FormatEUR(d decimal.Decimal) string {
	return FormatNumber(d, 2) + " €"
}

// FormatNumber renders d with a dot thousands separator and a comma
// decimal separator using the given number of fraction digits.
func FormatNumber(d decimal.Decimal, places int32) string {
	s := d.Abs().StringFixed(places)

	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}

	var b strings.Builder
	if d.Round(places).IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if fracPart != "" {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return b.String()
}

// FormatQuantity renders a quantity without trailing zeros, German style.
func FormatQuantity(f float64) string {
	d := decimal.NewFromFloat(f)
	if d.Equal(d.Truncate(0)) {
		return FormatNumber(d, 0)
	}
	return strings.Replace(d.Round(2).String(), ".", ",", 1)
}
