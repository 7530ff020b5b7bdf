package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// PriceScale is the number of fractional digits kept for stored amounts.
const PriceScale = 2

// maxPriceDigits is the integer part allowed by NUMERIC(18,2).
const maxPriceDigits = 18 - PriceScale

var maxPriceAmount = decimal.New(1, maxPriceDigits)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func ZeroMoney(cur currency.Unit) Money {
	return Money{Amount: decimal.Zero, Currency: cur}
}

func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}

	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

func (m Money) Mul(n int64) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(n)), Currency: m.Currency}
}

// Round returns the money rounded to PriceScale, the precision of the price column.
func (m Money) Round() Money {
	return Money{Amount: m.Amount.Round(PriceScale), Currency: m.Currency}
}

func (m Money) String() string {
	return m.Amount.StringFixed(PriceScale) + " " + m.Currency.String()
}
