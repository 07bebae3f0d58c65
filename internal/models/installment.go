package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Installment represents a row of the installments table.
type Installment struct {
	InstallmentID string          `db:"installment_id"`
	LoanID        string          `db:"loan_id"`
	Amount        decimal.Decimal `db:"amount"`
	PaymentDate   time.Time       `db:"payment_date"`
	Notes         string          `db:"notes"`
	AuditFields
}
