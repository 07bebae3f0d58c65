package services

import (
	"context"
	"time"

	"github.com/SscSPs/banquito_backend/internal/core/domain"
	"github.com/SscSPs/banquito_backend/internal/dto"
)

// LoanReaderSvc defines read operations for loans. Every read carries the figures
// computed at the current date; displayCurrency, when set, adds converted amounts.
type LoanReaderSvc interface {
	GetLoan(ctx context.Context, loanID string, displayCurrency string) (*domain.LoanDetails, error)
	ListLoans(ctx context.Context, params dto.ListLoansParams) ([]domain.LoanDetails, error)
	// GetSchedule returns the payment plan of a loan.
	GetSchedule(ctx context.Context, loanID string) ([]domain.ScheduleEntry, error)
	// Describe computes the figures of an already loaded loan.
	Describe(ctx context.Context, loan domain.Loan, asOf time.Time, displayCurrency string) (*domain.LoanDetails, error)
}

// LoanWriterSvc defines write operations for loans
type LoanWriterSvc interface {
	CreateLoan(ctx context.Context, req dto.CreateLoanRequest, userID string) (*domain.LoanDetails, error)
	// UpdateLoan changes notes at any time and terms only while no installment is recorded.
	UpdateLoan(ctx context.Context, loanID string, req dto.UpdateLoanRequest, userID string) (*domain.LoanDetails, error)
	DeleteLoan(ctx context.Context, loanID string, userID string) error
	// RefreshStatuses persists OVERDUE for active loans past their due date.
	RefreshStatuses(ctx context.Context, asOf time.Time, userID string) (int64, error)
}

// LoanSvcFacade combines all loan-related service interfaces
type LoanSvcFacade interface {
	LoanReaderSvc
	LoanWriterSvc
}
