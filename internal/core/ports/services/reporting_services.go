package services

import (
	"context"
	"time"

	"github.com/SscSPs/banquito_backend/internal/core/domain"
)

// ReportingSvcFacade builds portfolio reports.
type ReportingSvcFacade interface {
	// GetPortfolioSummary aggregates every loan in currencyCode (base currency when empty).
	GetPortfolioSummary(ctx context.Context, currencyCode string, asOf time.Time) (*domain.PortfolioSummary, error)
	// GetClientStatement returns a client with all its loans, totals in currencyCode.
	GetClientStatement(ctx context.Context, clientID string, currencyCode string) (*domain.ClientStatement, error)
	// InvalidateSummaries drops cached summaries after a change to loans or payments.
	InvalidateSummaries(ctx context.Context)
}
