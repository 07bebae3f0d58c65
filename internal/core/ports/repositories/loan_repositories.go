package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/banquito_backend/internal/core/domain"
)

// LoanReader defines read operations for loan data
type LoanReader interface {
	FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)
	ListLoans(ctx context.Context, filter domain.LoanFilter) ([]domain.Loan, error)
}

// LoanWriter defines write operations for loan data
type LoanWriter interface {
	SaveLoan(ctx context.Context, loan domain.Loan) error
	// UpdateLoan rewrites terms and notes; paid amount is owned by the installment repository.
	UpdateLoan(ctx context.Context, loan domain.Loan) error
	DeleteLoan(ctx context.Context, loanID string) error
	// MarkOverdue flips ACTIVE loans whose due date is before asOf to OVERDUE and
	// returns how many rows changed.
	MarkOverdue(ctx context.Context, asOf time.Time, userID string) (int64, error)
}

// LoanRepositoryFacade combines all loan-related repository interfaces
type LoanRepositoryFacade interface {
	LoanReader
	LoanWriter
}
