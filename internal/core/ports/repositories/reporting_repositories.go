package repositories

import (
	"context"

	"github.com/SscSPs/banquito_backend/internal/core/domain"
)

// ReportingRepository defines the reads behind portfolio reports
type ReportingRepository interface {
	CountClients(ctx context.Context) (int, error)

	// ListPortfolioLoans returns every loan regardless of status.
	ListPortfolioLoans(ctx context.Context) ([]domain.Loan, error)
}
