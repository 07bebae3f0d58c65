package models

// Currency represents a row of the currencies table.
type Currency struct {
	CurrencyCode string `db:"currency_code"` // Primary Key (e.g., "NIO")
	Symbol       string `db:"symbol"`        // e.g., "C$"
	Name         string `db:"name"`          // e.g., "Córdoba"
	Precision    int    `db:"precision"`
	AuditFields
}
