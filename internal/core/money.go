// Package core holds the domain model and the pure derivation logic for
// income entries: money arithmetic, status derivation and KPI rollups.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a fixed-point monetary amount kept at two decimal places.
// Every arithmetic operation rounds its result to two decimals (half away
// from zero), so sums never accumulate floating-point drift.
type Money struct {
	d decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{}

// ParseAmount parses a decimal string into Money, rounding to two decimals.
// Both dot (12.34) and comma (12,34) separators are accepted. Negative
// amounts are rejected.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return Money{}, ErrNegativeAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	if d.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	return Money{d: d.Round(2)}, nil
}

// MoneyFromFloat converts a float to Money, rounding to two decimals.
func MoneyFromFloat(f float64) Money {
	return Money{d: decimal.NewFromFloat(f).Round(2)}
}

// MoneyFromCents converts an integer number of cents to Money.
func MoneyFromCents(cents int64) Money {
	return Money{d: decimal.New(cents, -2)}
}

// Cents returns the amount as an integer number of cents.
func (m Money) Cents() int64 {
	return m.d.Round(2).Shift(2).IntPart()
}

func (m Money) Add(o Money) Money {
	return Money{d: m.d.Add(o.d).Round(2)}
}

func (m Money) Sub(o Money) Money {
	return Money{d: m.d.Sub(o.d).Round(2)}
}

func (m Money) Mul(o Money) Money {
	return Money{d: m.d.Mul(o.d).Round(2)}
}

// Div divides and rounds to two decimals. Division by zero returns Zero,
// callers guard where the distinction matters.
func (m Money) Div(o Money) Money {
	if o.d.IsZero() {
		return Zero
	}
	return Money{d: m.d.Div(o.d).Round(2)}
}

func (m Money) IsZero() bool {
	return m.d.IsZero()
}

func (m Money) IsNegative() bool {
	return m.d.IsNegative()
}

func (m Money) IsPositive() bool {
	return m.d.IsPositive()
}

func (m Money) Equal(o Money) bool {
	return m.d.Equal(o.d)
}

func (m Money) Cmp(o Money) int {
	return m.d.Cmp(o.d)
}

// String formats the amount with exactly two decimals, e.g. "1234.50".
func (m Money) String() string {
	return m.d.StringFixed(2)
}

// Float64 returns the amount as a float for display purposes only.
func (m Money) Float64() float64 {
	f, _ := m.d.Round(2).Float64()
	return f
}

// MarshalJSON encodes the amount as a plain JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.d.StringFixed(2)), nil
}

// UnmarshalJSON accepts both JSON numbers and numeric strings.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*m = Zero
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	m.d = d.Round(2)
	return nil
}
