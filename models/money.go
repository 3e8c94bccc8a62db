package models

import "github.com/shopspring/decimal"

// Money is stored as numeric(14,2) and serialized as a decimal string.
type Money = decimal.Decimal

// NewMoney builds a Money from a float literal, rounded to cents.
func NewMoney(v float64) Money {
	return decimal.NewFromFloat(v).Round(2)
}

// ParseMoney parses a decimal string such as "199000" or "12.50".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Round(2), nil
}
