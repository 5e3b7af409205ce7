// Package types defines precise numeric types for inventory quantities and money.
//
// Float64 is never used for stock or amounts. Quantity is a fixed-point
// integer with 4 decimal places, which covers kg/L/m material units down to
// a tenth of a gram. Money wraps shopspring/decimal for unit-price math.
package types

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// QuantityScale is the fixed-point denominator for Quantity (4 decimal places).
const QuantityScale = 10_000

// Quantity is a material quantity stored as an integer number of 1/10000 units.
// It is safe for exact addition and subtraction in stock ledgers.
type Quantity int64

// QuantityFromFloat converts a float to Quantity, rounding half away from zero.
func QuantityFromFloat(f float64) Quantity {
	return Quantity(math.Round(f * QuantityScale))
}

// QuantityFromInt converts whole units to Quantity.
func QuantityFromInt(n int64) Quantity {
	return Quantity(n * QuantityScale)
}

// ParseQuantity parses a decimal string like "12.5" into a Quantity.
// At most 4 fractional digits are accepted.
func ParseQuantity(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty quantity")
	}
	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		s = s[1:]
	}
	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	if intPart == "" && fracPart == "" {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	if len(fracPart) > 4 {
		return 0, fmt.Errorf("quantity %q has more than 4 decimal places", s)
	}
	var whole int64
	var err error
	if intPart != "" {
		whole, err = strconv.ParseInt(intPart, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid quantity %q: %w", s, err)
		}
	}
	frac := int64(0)
	if fracPart != "" {
		frac, err = strconv.ParseInt(fracPart, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid quantity %q: %w", s, err)
		}
		for i := len(fracPart); i < 4; i++ {
			frac *= 10
		}
	}
	q := whole*QuantityScale + frac
	if neg {
		q = -q
	}
	return Quantity(q), nil
}

// Float returns the quantity as float64. For display only, never for arithmetic.
func (q Quantity) Float() float64 {
	return float64(q) / QuantityScale
}

// Int64 returns the raw fixed-point value.
func (q Quantity) Int64() int64 {
	return int64(q)
}

// IsZero reports whether the quantity is zero.
func (q Quantity) IsZero() bool {
	return q == 0
}

// IsNegative reports whether the quantity is below zero.
func (q Quantity) IsNegative() bool {
	return q < 0
}

// Abs returns the absolute value.
func (q Quantity) Abs() Quantity {
	if q < 0 {
		return -q
	}
	return q
}

// Neg returns the negated quantity.
func (q Quantity) Neg() Quantity {
	return -q
}

// MulRate multiplies the quantity by a decimal rate, rounding to quantity scale.
// Used for BOM loss-rate adjustment: actual = planned * (1 + lossRate/100).
func (q Quantity) MulRate(rate decimal.Decimal) Quantity {
	d := decimal.NewFromInt(int64(q)).Mul(rate)
	return Quantity(d.Round(0).IntPart())
}

// Decimal returns the quantity as a decimal.Decimal with 4-digit exponent.
func (q Quantity) Decimal() decimal.Decimal {
	return decimal.New(int64(q), -4)
}

// QuantityFromDecimal converts a decimal to Quantity, rounding half away
// from zero at the 4th decimal place.
func QuantityFromDecimal(d decimal.Decimal) Quantity {
	return Quantity(d.Shift(4).Round(0).IntPart())
}

// String formats the quantity with trailing zeros trimmed.
func (q Quantity) String() string {
	neg := q < 0
	v := int64(q)
	if neg {
		v = -v
	}
	whole := v / QuantityScale
	frac := v % QuantityScale
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(strconv.FormatInt(whole, 10))
	if frac != 0 {
		fs := fmt.Sprintf("%04d", frac)
		fs = strings.TrimRight(fs, "0")
		b.WriteByte('.')
		b.WriteString(fs)
	}
	return b.String()
}

// MarshalJSON renders the quantity as a JSON number string preserving precision.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalJSON accepts both numbers and quoted strings.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		*q = 0
		return nil
	}
	parsed, err := ParseQuantity(s)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// Value implements driver.Valuer, storing the raw fixed-point integer.
func (q Quantity) Value() (driver.Value, error) {
	return int64(q), nil
}

// Scan implements sql.Scanner.
func (q *Quantity) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		*q = Quantity(v)
		return nil
	case nil:
		*q = 0
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Quantity", src)
	}
}

// Money is a monetary amount. Stored in the database as NUMERIC.
type Money = decimal.Decimal

// NewMoney creates a Money from major and exponent parts.
func NewMoney(value int64, exp int32) Money {
	return decimal.New(value, exp)
}

// MoneyFromString parses a Money value.
func MoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// ZeroMoney is the Money zero value.
func ZeroMoney() Money {
	return decimal.Zero
}
