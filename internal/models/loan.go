package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan represents a row of the loans table.
type Loan struct {
	LoanID        string          `db:"loan_id"`
	ClientID      string          `db:"client_id"` // FK -> clients, ON DELETE CASCADE
	Principal     decimal.Decimal `db:"principal"`
	InterestRate  decimal.Decimal `db:"interest_rate"`
	PaymentPeriod string          `db:"payment_period"`
	TermPeriods   int             `db:"term_periods"`
	StartDate     time.Time       `db:"start_date"`
	DueDate       time.Time       `db:"due_date"`
	CurrencyCode  string          `db:"currency_code"`
	Status        string          `db:"status"`
	PaidAmount    decimal.Decimal `db:"paid_amount"` // running total of installments
	Notes         string          `db:"notes"`
	AuditFields
}
