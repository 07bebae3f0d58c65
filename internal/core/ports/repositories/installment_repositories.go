package repositories

import (
	"context"

	"github.com/SscSPs/banquito_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LoanSettler is called with the loan row locked and the paid amount it would have
// after the change. It returns the loan status to persist, or an error to abort.
type LoanSettler func(locked domain.Loan, newPaid decimal.Decimal) (domain.LoanStatus, error)

// InstallmentReader defines read operations for installment data
type InstallmentReader interface {
	FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error)

	// ListInstallmentsByLoan returns a page of payments, newest payment date first,
	// and the token of the next page (nil on the last page).
	ListInstallmentsByLoan(ctx context.Context, loanID string, limit int, nextToken *string) ([]domain.Installment, *string, error)

	CountInstallmentsByLoan(ctx context.Context, loanID string) (int, error)
}

// InstallmentWriter defines write operations for installment data.
// Both operations run in one transaction that locks the loan row.
type InstallmentWriter interface {
	RecordInstallment(ctx context.Context, installment domain.Installment, settle LoanSettler) (*domain.Loan, error)
	DeleteInstallment(ctx context.Context, installmentID, userID string, settle LoanSettler) (*domain.Installment, *domain.Loan, error)
}

// InstallmentRepositoryFacade combines all installment-related repository interfaces
type InstallmentRepositoryFacade interface {
	InstallmentReader
	InstallmentWriter
}
