package dto

import (
	"github.com/SscSPs/banquito_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SummaryParams are the query parameters of the portfolio summary.
type SummaryParams struct {
	Currency string `form:"currency" binding:"omitempty,len=3"`
	AsOf     string `form:"asOf" binding:"omitempty,datetime=2006-01-02"`
}

// PortfolioSummaryResponse is the portfolio overview in one currency.
type PortfolioSummaryResponse struct {
	CurrencyCode     string            `json:"currencyCode"`
	AsOf             string            `json:"asOf"`
	TotalClients     int               `json:"totalClients"`
	ActiveLoans      int               `json:"activeLoans"`
	PaidLoans        int               `json:"paidLoans"`
	OverdueLoans     int               `json:"overdueLoans"`
	LateLoans        int               `json:"lateLoans"`
	TotalLent        decimal.Decimal   `json:"totalLent"`
	TotalCollected   decimal.Decimal   `json:"totalCollected"`
	TotalOutstanding decimal.Decimal   `json:"totalOutstanding"`
	ExpectedInterest decimal.Decimal   `json:"expectedInterest"`
	AccruedInterest  decimal.Decimal   `json:"accruedInterest"`
	Formatted        map[string]string `json:"formatted,omitempty"`
}

// ToPortfolioSummaryResponse converts a summary; formatted holds the display strings.
func ToPortfolioSummaryResponse(s domain.PortfolioSummary, formatted map[string]string) PortfolioSummaryResponse {
	return PortfolioSummaryResponse{
		CurrencyCode:     s.CurrencyCode,
		AsOf:             s.AsOf.Format(DateLayout),
		TotalClients:     s.TotalClients,
		ActiveLoans:      s.ActiveLoans,
		PaidLoans:        s.PaidLoans,
		OverdueLoans:     s.OverdueLoans,
		LateLoans:        s.LateLoans,
		TotalLent:        s.TotalLent,
		TotalCollected:   s.TotalCollected,
		TotalOutstanding: s.TotalOutstanding,
		ExpectedInterest: s.ExpectedInterest,
		AccruedInterest:  s.AccruedInterest,
		Formatted:        formatted,
	}
}
