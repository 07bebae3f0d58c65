package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentPeriod is the interval between installments and the unit the interest rate applies to.
type PaymentPeriod string

const (
	Daily      PaymentPeriod = "DAILY"
	Weekly     PaymentPeriod = "WEEKLY"
	Biweekly   PaymentPeriod = "BIWEEKLY"
	Monthly    PaymentPeriod = "MONTHLY"
	Quarterly  PaymentPeriod = "QUARTERLY"
	Semiannual PaymentPeriod = "SEMIANNUAL"
	Annual     PaymentPeriod = "ANNUAL"
)

// LoanStatus is the persisted lifecycle state of a loan.
type LoanStatus string

const (
	LoanActive  LoanStatus = "ACTIVE"
	LoanPaid    LoanStatus = "PAID"
	LoanOverdue LoanStatus = "OVERDUE"
)

// IsValid reports whether s is a known status.
func (s LoanStatus) IsValid() bool {
	switch s {
	case LoanActive, LoanPaid, LoanOverdue:
		return true
	}
	return false
}

// Loan (préstamo) granted to a client. InterestRate is a percentage charged per PaymentPeriod.
type Loan struct {
	LoanID        string          `json:"loanID"`
	ClientID      string          `json:"clientID"`
	Principal     decimal.Decimal `json:"principal"`
	InterestRate  decimal.Decimal `json:"interestRate"`
	PaymentPeriod PaymentPeriod   `json:"paymentPeriod"`
	TermPeriods   int             `json:"termPeriods"`
	StartDate     time.Time       `json:"startDate"`
	DueDate       time.Time       `json:"dueDate"`
	CurrencyCode  string          `json:"currencyCode"`
	Status        LoanStatus      `json:"status"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	Notes         string          `json:"notes"`
	AuditFields
}

// LoanFilter narrows loan listings.
type LoanFilter struct {
	ClientID string
	Status   LoanStatus
	Limit    int
	Offset   int
}

// ScheduleEntry is one expected installment in a loan's payment plan.
type ScheduleEntry struct {
	Number     int             `json:"number"`
	DueDate    time.Time       `json:"dueDate"`
	Amount     decimal.Decimal `json:"amount"`
	Cumulative decimal.Decimal `json:"cumulative"`
}

// LoanFigures are the amounts derived from a loan's terms and payments at a point in time.
type LoanFigures struct {
	InterestPerPeriod decimal.Decimal `json:"interestPerPeriod"`
	TotalInterest     decimal.Decimal `json:"totalInterest"`
	TotalDue          decimal.Decimal `json:"totalDue"`
	InstallmentAmount decimal.Decimal `json:"installmentAmount"`
	AccruedInterest   decimal.Decimal `json:"accruedInterest"`
	PaidAmount        decimal.Decimal `json:"paidAmount"`
	RemainingBalance  decimal.Decimal `json:"remainingBalance"`
	ExpectedPaid      decimal.Decimal `json:"expectedPaid"`
	Status            LoanStatus      `json:"status"`
	IsLate            bool            `json:"isLate"`
	ElapsedDays       int             `json:"elapsedDays"`
	AsOf              time.Time       `json:"asOf"`
}

// LoanDetails bundles a loan with its computed figures and schedule.
type LoanDetails struct {
	Loan     Loan            `json:"loan"`
	Currency Currency        `json:"currency"`
	Figures  LoanFigures     `json:"figures"`
	Schedule []ScheduleEntry `json:"schedule,omitempty"`
	Display  *DisplayFigures `json:"display,omitempty"`
}

// DisplayFigures are a loan's main amounts converted to another currency.
type DisplayFigures struct {
	Currency         Currency        `json:"currency"`
	Rate             decimal.Decimal `json:"rate"`
	Principal        decimal.Decimal `json:"principal"`
	TotalDue         decimal.Decimal `json:"totalDue"`
	PaidAmount       decimal.Decimal `json:"paidAmount"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	AccruedInterest  decimal.Decimal `json:"accruedInterest"`
}
