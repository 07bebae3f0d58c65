package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate stores how many units of ToCurrencyCode one unit of FromCurrencyCode buys.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	DateEffective    time.Time       `json:"dateEffective"`
	AuditFields
}

// Conversion is the result of converting an amount between two currencies.
type Conversion struct {
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Amount           decimal.Decimal `json:"amount"`
	Converted        decimal.Decimal `json:"converted"`
	Rate             decimal.Decimal `json:"rate"`
}

// ExchangeRateFilter narrows exchange rate listings. Empty codes match any currency.
type ExchangeRateFilter struct {
	FromCurrencyCode string
	ToCurrencyCode   string
	Limit            int
	Offset           int
}
