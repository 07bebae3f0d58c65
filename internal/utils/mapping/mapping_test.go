package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/banquito_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoanMapping_KeepsTypedFields(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	loan := domain.Loan{
		LoanID:        "loan-1",
		ClientID:      "client-1",
		Principal:     decimal.NewFromInt(1000),
		InterestRate:  decimal.RequireFromString("12.5"),
		PaymentPeriod: domain.Biweekly,
		TermPeriods:   6,
		StartDate:     now,
		DueDate:       now.AddDate(0, 0, 90),
		CurrencyCode:  "NIO",
		Status:        domain.LoanOverdue,
		PaidAmount:    decimal.NewFromInt(250),
		AuditFields:   domain.NewAuditFields("user-1", now),
	}

	model := ToModelLoan(loan)
	assert.Equal(t, "BIWEEKLY", model.PaymentPeriod)
	assert.Equal(t, "OVERDUE", model.Status)
	assert.Equal(t, "user-1", model.CreatedBy)

	assert.Equal(t, loan, ToDomainLoan(model))
}

func TestSliceMapping_Empty(t *testing.T) {
	assert.Empty(t, ToDomainClientSlice(nil))
	assert.NotNil(t, ToDomainInstallmentSlice(nil))
}
