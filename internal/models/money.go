package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// MaxPrice is the exclusive upper bound of a decimal(10,2) column.
var MaxPrice = decimal.New(1, 8)

// Money is a decimal amount with two fractional digits. It serializes as a
// fixed-point string such as "100.00".
type Money struct {
	decimal.Decimal
}

func NewMoney(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, err
	}
	return Money{Decimal: d}, nil
}

func MustMoney(value string) Money {
	m, err := NewMoney(value)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) String() string {
	return m.StringFixed(2)
}

// ValidPrice reports whether m is positive, has at most two decimals and fits
// the price column.
func (m Money) ValidPrice() bool {
	return m.IsPositive() && m.Equal(m.Round(2)) && m.LessThan(MaxPrice)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.StringFixed(2))
}

// UnmarshalJSON accepts both JSON numbers and numeric strings.
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.Decimal.UnmarshalJSON(data)
}
