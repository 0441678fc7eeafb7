package entities

import (
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// Currency is a catalog entry, keyed by its unique symbol.
type Currency struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// ExchangeRate is a directed rate. No reciprocal entry is implied: the
// catalog stores (from, to) and (to, from) independently.
type ExchangeRate struct {
	ID             int             `json:"id"`
	FromCurrencyID int             `json:"fromCurrencyId"`
	ToCurrencyID   int             `json:"toCurrencyId"`
	Rate           decimal.Decimal `json:"rate"`
	UpdatedAt      null.Time       `json:"updatedAt"`
}

// ConversionPreview is the result of a dry-run conversion
type ConversionPreview struct {
	FromCurrency    string          `json:"fromCurrency"`
	ToCurrency      string          `json:"toCurrency"`
	Amount          decimal.Decimal `json:"amount"`
	Rate            decimal.Decimal `json:"rate"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
}
