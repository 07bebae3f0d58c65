package domain

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary Key (e.g., "NIO")
	Symbol       string `json:"symbol"`       // e.g., "C$"
	Name         string `json:"name"`         // e.g., "Córdoba"
	Precision    int    `json:"precision"`    // decimal places used for rounding and display
	AuditFields
}

// DefaultPrecision is used when a currency is unknown or has no precision set.
const DefaultPrecision = 2

// MaxPrecision is the largest precision a currency may use; money columns store 8 decimals.
const MaxPrecision = 8
