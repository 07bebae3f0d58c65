package utils

import (
	"sync"

	"github.com/Rhymond/go-money"
	"github.com/SscSPs/banquito_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// go-money keeps its currency registry in an unguarded package map. Every lookup and
// registration goes through registerMu; formatting only uses the resolved values.
var (
	registerMu sync.RWMutex
	resolved   = map[string]*money.Currency{}
)

// FormatMoney renders an amount with the currency's grapheme and thousands separators,
// e.g. "C$1,234.50". Currencies unknown to go-money are registered from the stored
// symbol and precision.
func FormatMoney(amount decimal.Decimal, currency domain.Currency) string {
	cur := lookupCurrency(currency)
	minor := amount.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(minor.IntPart())
}

func lookupCurrency(currency domain.Currency) *money.Currency {
	registerMu.RLock()
	cur, ok := resolved[currency.CurrencyCode]
	registerMu.RUnlock()
	if ok {
		return cur
	}

	registerMu.Lock()
	defer registerMu.Unlock()
	if cur, ok := resolved[currency.CurrencyCode]; ok {
		return cur
	}
	cur = money.GetCurrency(currency.CurrencyCode)
	if cur == nil {
		symbol := currency.Symbol
		if symbol == "" {
			symbol = currency.CurrencyCode + " "
		}
		cur = money.AddCurrency(currency.CurrencyCode, symbol, "$1", ".", ",", precisionOf(currency))
	}
	resolved[currency.CurrencyCode] = cur
	return cur
}

func precisionOf(currency domain.Currency) int {
	if currency.Precision < 0 {
		return domain.DefaultPrecision
	}
	return currency.Precision
}
