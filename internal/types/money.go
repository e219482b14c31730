// README: Common money value object used across modules.
package types

import (
	"github.com/shopspring/decimal"
)

const DefaultCurrency = "KES"

// Money is a fixed-point amount in a single currency.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func NewMoney(amount decimal.Decimal, currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{Amount: amount, Currency: currency}
}

// Whole rounds to the nearest whole currency unit, halves rounding up.
func (m Money) Whole() Money {
	return Money{Amount: RoundHalfUp(m.Amount, 0), Currency: m.Currency}
}

func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.Currency
}

// RoundHalfUp rounds non-negative amounts half-up at the given number of places.
// Negative amounts mirror the positive case so -2.5 becomes -3.
func RoundHalfUp(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

// Km rounds a distance to two decimal places for use in fee calculations.
func Km(d decimal.Decimal) decimal.Decimal {
	return RoundHalfUp(d, 2)
}
