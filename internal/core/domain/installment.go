package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Installment (cuota) is a payment applied against a loan's balance, in the loan's currency.
type Installment struct {
	InstallmentID string          `json:"installmentID"`
	LoanID        string          `json:"loanID"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   time.Time       `json:"paymentDate"`
	Notes         string          `json:"notes"`
	AuditFields
}
