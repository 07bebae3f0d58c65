package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/banquito_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/banquito_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/banquito_backend/internal/core/ports/services"
	"github.com/SscSPs/banquito_backend/internal/utils/lending"
	"github.com/shopspring/decimal"
)

type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	clientRepo    portsrepo.ClientReader
	loanRepo      portsrepo.LoanReader
	loanSvc       portssvc.LoanReaderSvc
	baseCurrency  string
	summaries     *summaryCache
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingBaseCurrency sets the currency reports default to.
func WithReportingBaseCurrency(code string) ReportingServiceOption {
	return func(s *reportingService) {
		s.baseCurrency = strings.ToUpper(code)
	}
}

// WithReportingCache caches portfolio summaries for ttl.
func WithReportingCache(cache portsrepo.Cache, ttl time.Duration) ReportingServiceOption {
	return func(s *reportingService) {
		s.summaries = newSummaryCache(cache, ttl)
	}
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, clientRepo portsrepo.ClientReader, loanRepo portsrepo.LoanReader, loanSvc portssvc.LoanReaderSvc, options ...ReportingServiceOption) portssvc.ReportingSvcFacade {
	svc := &reportingService{
		reportingRepo: reportingRepo,
		clientRepo:    clientRepo,
		loanRepo:      loanRepo,
		loanSvc:       loanSvc,
		baseCurrency:  "NIO",
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// displayed are the loan amounts in the report currency.
type displayed struct {
	principal, totalDue, paid, remaining, accrued decimal.Decimal
}

func amountsOf(d domain.LoanDetails) displayed {
	if d.Display != nil {
		return displayed{
			principal: d.Display.Principal,
			totalDue:  d.Display.TotalDue,
			paid:      d.Display.PaidAmount,
			remaining: d.Display.RemainingBalance,
			accrued:   d.Display.AccruedInterest,
		}
	}
	return displayed{
		principal: d.Loan.Principal,
		totalDue:  d.Figures.TotalDue,
		paid:      d.Figures.PaidAmount,
		remaining: d.Figures.RemainingBalance,
		accrued:   d.Figures.AccruedInterest,
	}
}

func (s *reportingService) currencyOrBase(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return s.baseCurrency
	}
	return code
}

func (s *reportingService) GetPortfolioSummary(ctx context.Context, currencyCode string, asOf time.Time) (*domain.PortfolioSummary, error) {
	code := s.currencyOrBase(currencyCode)
	if asOf.IsZero() {
		asOf = s.Today()
	}
	asOf = lending.DateOnly(asOf)

	key := summaryKey(code, asOf)
	var cached domain.PortfolioSummary
	if s.summaries.get(ctx, key, &cached) {
		s.LogDebug(ctx, "Portfolio summary served from cache", slog.String("key", key))
		return &cached, nil
	}

	clients, err := s.reportingRepo.CountClients(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to count clients")
		return nil, fmt.Errorf("failed to count clients: %w", err)
	}
	loans, err := s.reportingRepo.ListPortfolioLoans(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list portfolio loans")
		return nil, fmt.Errorf("failed to list portfolio loans: %w", err)
	}

	summary := domain.PortfolioSummary{
		CurrencyCode:     code,
		AsOf:             asOf,
		TotalClients:     clients,
		TotalLent:        decimal.Zero,
		TotalCollected:   decimal.Zero,
		TotalOutstanding: decimal.Zero,
		ExpectedInterest: decimal.Zero,
		AccruedInterest:  decimal.Zero,
	}
	for _, loan := range loans {
		d, err := s.loanSvc.Describe(ctx, loan, asOf, code)
		if err != nil {
			return nil, err
		}
		switch d.Figures.Status {
		case domain.LoanPaid:
			summary.PaidLoans++
		case domain.LoanOverdue:
			summary.OverdueLoans++
		default:
			summary.ActiveLoans++
		}
		if d.Figures.IsLate {
			summary.LateLoans++
		}
		a := amountsOf(*d)
		summary.TotalLent = summary.TotalLent.Add(a.principal)
		summary.TotalCollected = summary.TotalCollected.Add(a.paid)
		summary.TotalOutstanding = summary.TotalOutstanding.Add(a.remaining)
		summary.ExpectedInterest = summary.ExpectedInterest.Add(a.totalDue.Sub(a.principal))
		summary.AccruedInterest = summary.AccruedInterest.Add(a.accrued)
	}

	s.summaries.set(ctx, key, summary)
	return &summary, nil
}

func (s *reportingService) GetClientStatement(ctx context.Context, clientID string, currencyCode string) (*domain.ClientStatement, error) {
	client, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	loans, err := s.loanRepo.ListLoans(ctx, domain.LoanFilter{ClientID: clientID, Limit: 200})
	if err != nil {
		s.LogError(ctx, err, "Failed to list client loans", slog.String("client_id", clientID))
		return nil, fmt.Errorf("failed to list client loans: %w", err)
	}

	code := s.currencyOrBase(currencyCode)
	today := s.Today()
	statement := &domain.ClientStatement{
		Client:           *client,
		Loans:            make([]domain.LoanDetails, 0, len(loans)),
		CurrencyCode:     code,
		TotalBorrowed:    decimal.Zero,
		TotalPaid:        decimal.Zero,
		TotalOutstanding: decimal.Zero,
	}
	for _, loan := range loans {
		d, err := s.loanSvc.Describe(ctx, loan, today, code)
		if err != nil {
			return nil, err
		}
		a := amountsOf(*d)
		statement.TotalBorrowed = statement.TotalBorrowed.Add(a.principal)
		statement.TotalPaid = statement.TotalPaid.Add(a.paid)
		statement.TotalOutstanding = statement.TotalOutstanding.Add(a.remaining)
		statement.Loans = append(statement.Loans, *d)
	}
	return statement, nil
}

func (s *reportingService) InvalidateSummaries(ctx context.Context) {
	s.summaries.invalidate(ctx)
}
