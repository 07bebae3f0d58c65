package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioSummary aggregates every loan's figures in a single display currency.
type PortfolioSummary struct {
	CurrencyCode     string          `json:"currencyCode"`
	AsOf             time.Time       `json:"asOf"`
	TotalClients     int             `json:"totalClients"`
	ActiveLoans      int             `json:"activeLoans"`
	PaidLoans        int             `json:"paidLoans"`
	OverdueLoans     int             `json:"overdueLoans"`
	LateLoans        int             `json:"lateLoans"`
	TotalLent        decimal.Decimal `json:"totalLent"`
	TotalCollected   decimal.Decimal `json:"totalCollected"`
	TotalOutstanding decimal.Decimal `json:"totalOutstanding"`
	ExpectedInterest decimal.Decimal `json:"expectedInterest"`
	AccruedInterest  decimal.Decimal `json:"accruedInterest"`
}

// ClientStatement is a client with every loan they hold.
type ClientStatement struct {
	Client Client        `json:"client"`
	Loans  []LoanDetails `json:"loans"`
	// Totals are in the statement's display currency.
	CurrencyCode     string          `json:"currencyCode"`
	TotalBorrowed    decimal.Decimal `json:"totalBorrowed"`
	TotalPaid        decimal.Decimal `json:"totalPaid"`
	TotalOutstanding decimal.Decimal `json:"totalOutstanding"`
}
