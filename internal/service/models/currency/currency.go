package currency

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	CurrencyBRL Currency = "BRL"
)

var (
	ErrInvalidCurrency = errors.New("invalid currency")
	ErrOutOfRange      = errors.New("amount out of range")
)

var (
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

func (c Currency) String() string {
	return string(c)
}

func (c Currency) Value() (driver.Value, error) {
	return c.String(), nil
}

func ParseCurrency(s string) (Currency, error) {
	switch s {
	case CurrencyBRL.String():
		return CurrencyBRL, nil
	default:
		return "", ErrInvalidCurrency
	}
}

// ToDecimal converts cents to a decimal amount, e.g. 1198 -> 11.98.
func ToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// FromDecimal converts an amount to cents, rounding half away from zero.
func FromDecimal(amount decimal.Decimal) (int64, error) {
	cents := amount.Shift(2).Round(0)
	if cents.GreaterThan(maxCents) || cents.LessThan(minCents) {
		return 0, ErrOutOfRange
	}

	return cents.IntPart(), nil
}

// Amount renders cents as an exact JSON number with two decimals.
func Amount(cents int64) json.Number {
	return json.Number(ToDecimal(cents).StringFixed(2))
}

// MulCents returns quantity times unitCents, or ErrOutOfRange on overflow.
func MulCents(quantity, unitCents int64) (int64, error) {
	if quantity == 0 || unitCents == 0 {
		return 0, nil
	}
	product := quantity * unitCents
	if product/quantity != unitCents || (quantity == -1 && unitCents == math.MinInt64) {
		return 0, ErrOutOfRange
	}

	return product, nil
}

// AddCents returns a+b, or ErrOutOfRange on overflow.
func AddCents(a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, ErrOutOfRange
	}

	return sum, nil
}
