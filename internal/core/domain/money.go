package domain

import (
	"bytes"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// moneyScale is the number of implied fractional digits in a Money value.
const moneyScale = 2

// maxMajorDigits is the most integer digits an amount in range can have;
// math.MaxInt64 cents is 92233720368547758.07.
const maxMajorDigits = 17

var (
	minMinorUnits = decimal.NewFromInt(math.MinInt64)
	maxMinorUnits = decimal.NewFromInt(math.MaxInt64)
)

// Money is an exact monetary amount stored as a count of minor units (cents).
// The zero value is Zero and two values are equal iff their minor units are.
type Money struct {
	minor int64
}

// Zero is the empty amount.
var Zero = Money{}

// FromMinorUnits builds a Money from an amount already expressed in cents.
func FromMinorUnits(minor int64) Money {
	return Money{minor: minor}
}

// FromMajorUnits rounds v to two decimal places, half away from zero.
// The order of magnitude is checked first so extreme exponents are
// rejected without expanding the coefficient.
func FromMajorUnits(v decimal.Decimal) (Money, error) {
	if v.IsZero() {
		return Zero, nil
	}
	// |v| < 10^magnitude
	magnitude := v.NumDigits() + int(v.Exponent())
	switch {
	case magnitude > maxMajorDigits:
		return Zero, fmt.Errorf("%w: order of magnitude 1e%d", ErrMoneyOutOfRange, magnitude-1)
	case magnitude < -moneyScale:
		// below 0.001, rounds to zero
		return Zero, nil
	}

	minor := v.Round(moneyScale).Shift(moneyScale)
	if minor.LessThan(minMinorUnits) || minor.GreaterThan(maxMinorUnits) {
		return Zero, fmt.Errorf("%w: %s", ErrMoneyOutOfRange, v.String())
	}
	return Money{minor: minor.IntPart()}, nil
}

// FromFloat converts a float amount in whole currency units.
func FromFloat(v float64) (Money, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Zero, ErrMoneyNotFinite
	}
	return FromMajorUnits(decimal.NewFromFloat(v))
}

// ParseMoney parses a decimal string such as "100.00" or "-3.5".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q", ErrMoneyMalformed, s)
	}
	return FromMajorUnits(d)
}

// MustParseMoney is ParseMoney for literals known to be valid.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// MinorUnits returns the amount in cents.
func (m Money) MinorUnits() int64 {
	return m.minor
}

// Decimal returns the amount in whole currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.minor, -moneyScale)
}

// Add returns m+other, or ErrMoneyOutOfRange if the sum does not fit.
func (m Money) Add(other Money) (Money, error) {
	sum := m.minor + other.minor
	if (other.minor > 0 && sum < m.minor) || (other.minor < 0 && sum > m.minor) {
		return Zero, fmt.Errorf("%w: %s + %s", ErrMoneyOutOfRange, m, other)
	}
	return Money{minor: sum}, nil
}

// Subtract returns m-other, or ErrMoneyOutOfRange if the difference does
// not fit.
func (m Money) Subtract(other Money) (Money, error) {
	diff := m.minor - other.minor
	if (other.minor > 0 && diff > m.minor) || (other.minor < 0 && diff < m.minor) {
		return Zero, fmt.Errorf("%w: %s - %s", ErrMoneyOutOfRange, m, other)
	}
	return Money{minor: diff}, nil
}

func (m Money) IsGreaterThan(other Money) bool {
	return m.minor > other.minor
}

func (m Money) IsLessThanOrEqualToZero() bool {
	return m.minor <= 0
}

func (m Money) IsNegative() bool {
	return m.minor < 0
}

// String renders the amount with exactly two decimals, e.g. "-50.26".
func (m Money) String() string {
	return m.Decimal().StringFixed(moneyScale)
}

// MarshalJSON encodes the amount as a string so no precision is lost.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts both JSON strings and numbers.
func (m *Money) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	parsed, err := ParseMoney(string(bytes.Trim(data, `"`)))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
