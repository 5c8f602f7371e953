// Package types provides common money and quantity types.
package types

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Rupiah is a money amount in whole Rupiah (the smallest unit in use).
type Rupiah = int64

// Decimal is used where fractional precision matters: ratios and
// stock-opname quantities and valuations.
type Decimal = decimal.Decimal

// Hundred is the percentage scale.
var Hundred = decimal.NewFromInt(100)

// Zero returns zero Decimal value.
func Zero() Decimal {
	return decimal.Zero
}

// NewDecimalFromString parses a decimal value.
func NewDecimalFromString(s string) (Decimal, error) {
	return decimal.NewFromString(s)
}

// MustDecimal creates a Decimal from a string, panics on error.
// Use only for constants and tests.
func MustDecimal(s string) Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Percent returns part/whole*100 rounded to two places, or zero when whole is not positive.
func Percent(part, whole Rupiah) Decimal {
	if whole <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part).
		Mul(Hundred).
		DivRound(decimal.NewFromInt(whole), 2)
}

// RoundRupiah rounds a decimal amount half-up to whole Rupiah.
func RoundRupiah(d Decimal) Rupiah {
	return d.Round(0).IntPart()
}

// Abs returns the absolute value of an amount.
func Abs(v Rupiah) Rupiah {
	if v < 0 {
		return -v
	}
	return v
}

// FormatRupiah renders an amount as "Rp 1.250.000" (Indonesian grouping).
func FormatRupiah(v Rupiah) string {
	neg := v < 0
	digits := strconv.FormatInt(Abs(v), 10)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("Rp ")
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// SignedRupiah renders an amount with an explicit sign ("+Rp 1.000", "-Rp 500", "Rp 0").
func SignedRupiah(v Rupiah) string {
	if v > 0 {
		return "+" + FormatRupiah(v)
	}
	return FormatRupiah(v)
}
