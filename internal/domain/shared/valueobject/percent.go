package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Percent is a value object representing a percentage in the range [0, 100].
// It is used for discount and tax rates. Immutable.
type Percent struct {
	value decimal.Decimal
}

// NewPercent creates a new Percent, rejecting values outside [0, 100]
func NewPercent(value decimal.Decimal) (Percent, error) {
	if value.IsNegative() || value.GreaterThan(hundred) {
		return Percent{}, fmt.Errorf("percent must be between 0 and 100, got %s", value.String())
	}
	return Percent{value: value}, nil
}

// NewPercentFromFloat creates Percent from a float64 value
func NewPercentFromFloat(value float64) (Percent, error) {
	return NewPercent(decimal.NewFromFloat(value))
}

// ZeroPercent returns a zero percent
func ZeroPercent() Percent {
	return Percent{value: decimal.Zero}
}

// Value returns the decimal percentage value
func (p Percent) Value() decimal.Decimal {
	return p.value
}

// IsZero returns true if the percent is zero
func (p Percent) IsZero() bool {
	return p.value.IsZero()
}

// Of returns the given amount scaled by this percentage,
// rounded to the currency scale with ties away from zero.
func (p Percent) Of(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(p.value).Div(hundred).Round(CurrencyScale)
}

// String returns a string representation of the Percent
func (p Percent) String() string {
	return p.value.String() + "%"
}
