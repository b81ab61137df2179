package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func ZeroMoney(cur currency.Unit) Money {
	return Money{Amount: decimal.Zero, Currency: cur}
}

func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}

	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

func (m Money) Mul(quantity int) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(int64(quantity))), Currency: m.Currency}
}

func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

func (m Money) String() string {
	return m.Currency.String() + " " + m.Amount.String()
}
