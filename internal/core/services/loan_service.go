package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/banquito_backend/internal/apperrors"
	"github.com/SscSPs/banquito_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/banquito_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/banquito_backend/internal/core/ports/services"
	"github.com/SscSPs/banquito_backend/internal/dto"
	"github.com/SscSPs/banquito_backend/internal/utils/lending"
	"github.com/google/uuid"
)

type loanService struct {
	BaseService
	loanRepo        portsrepo.LoanRepositoryFacade
	clientRepo      portsrepo.ClientReader
	installmentRepo portsrepo.InstallmentReader
	currencySvc     portssvc.CurrencyReaderSvc
	rateSvc         portssvc.ExchangeRateReaderSvc
	baseCurrency    string
	summaries       *summaryCache
}

// LoanServiceOption is a functional option for configuring the loan service
type LoanServiceOption func(*loanService)

// WithLoanCurrencies sets the services used for loan currency precision and display conversion.
func WithLoanCurrencies(currencySvc portssvc.CurrencyReaderSvc, rateSvc portssvc.ExchangeRateReaderSvc) LoanServiceOption {
	return func(s *loanService) {
		s.currencySvc = currencySvc
		s.rateSvc = rateSvc
	}
}

// WithLoanBaseCurrency sets the currency new loans default to.
func WithLoanBaseCurrency(code string) LoanServiceOption {
	return func(s *loanService) {
		s.baseCurrency = strings.ToUpper(code)
	}
}

// WithLoanCache invalidates cached summaries on every loan write.
func WithLoanCache(cache portsrepo.Cache) LoanServiceOption {
	return func(s *loanService) {
		s.summaries = newSummaryCache(cache, 0)
	}
}

// NewLoanService creates a new loan service.
func NewLoanService(loanRepo portsrepo.LoanRepositoryFacade, clientRepo portsrepo.ClientReader, installmentRepo portsrepo.InstallmentReader, options ...LoanServiceOption) portssvc.LoanSvcFacade {
	svc := &loanService{
		loanRepo:        loanRepo,
		clientRepo:      clientRepo,
		installmentRepo: installmentRepo,
		baseCurrency:    "NIO",
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.LoanSvcFacade = (*loanService)(nil)

func parseDate(field, raw string) (time.Time, error) {
	d, err := time.Parse(dto.DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", apperrors.ErrValidation, field)
	}
	return d, nil
}

// applyTerms validates the loan terms and derives the due date and status.
func (s *loanService) applyTerms(loan *domain.Loan, precision int) error {
	terms := lending.TermsOf(*loan, precision)
	if err := lending.ValidateTerms(terms); err != nil {
		return err
	}
	due, err := lending.DueDate(terms)
	if err != nil {
		return err
	}
	status, err := lending.Status(terms, loan.PaidAmount, s.Today())
	if err != nil {
		return err
	}
	loan.DueDate = due
	loan.Status = status
	return nil
}

func (s *loanService) lookupCurrency(ctx context.Context, code string) (*domain.Currency, error) {
	if s.currencySvc == nil {
		c := currencyOrDefault(ctx, nil, code)
		return &c, nil
	}
	currency, err := s.currencySvc.GetCurrencyByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: currency code '%s' not found", apperrors.ErrValidation, code)
		}
		return nil, err
	}
	return currency, nil
}

func (s *loanService) CreateLoan(ctx context.Context, req dto.CreateLoanRequest, userID string) (*domain.LoanDetails, error) {
	if _, err := s.clientRepo.FindClientByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: client %s not found", apperrors.ErrValidation, req.ClientID)
		}
		return nil, fmt.Errorf("failed to verify client: %w", err)
	}

	period, err := lending.ParsePaymentPeriod(req.PaymentPeriod)
	if err != nil {
		return nil, err
	}
	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		return nil, err
	}

	code := strings.ToUpper(strings.TrimSpace(req.CurrencyCode))
	if code == "" {
		code = s.baseCurrency
	}
	currency, err := s.lookupCurrency(ctx, code)
	if err != nil {
		return nil, err
	}

	loan := domain.Loan{
		LoanID:        uuid.NewString(),
		ClientID:      req.ClientID,
		Principal:     req.Principal,
		InterestRate:  req.InterestRate,
		PaymentPeriod: period,
		TermPeriods:   req.TermPeriods,
		StartDate:     start,
		CurrencyCode:  code,
		Notes:         req.Notes,
		AuditFields:   domain.NewAuditFields(userID, time.Now()),
	}
	if err := s.applyTerms(&loan, currency.Precision); err != nil {
		return nil, err
	}

	if err := s.loanRepo.SaveLoan(ctx, loan); err != nil {
		s.LogError(ctx, err, "Failed to save loan", slog.String("client_id", loan.ClientID))
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}
	s.summaries.invalidate(ctx)
	s.LogInfo(ctx, "Loan created",
		slog.String("loan_id", loan.LoanID),
		slog.String("client_id", loan.ClientID),
		slog.String("principal", loan.Principal.String()),
		slog.String("currency", code))

	return s.describe(ctx, loan, *currency, s.Today(), "")
}

func (s *loanService) GetLoan(ctx context.Context, loanID string, displayCurrency string) (*domain.LoanDetails, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	return s.Describe(ctx, *loan, s.Today(), displayCurrency)
}

func (s *loanService) ListLoans(ctx context.Context, params dto.ListLoansParams) ([]domain.LoanDetails, error) {
	filter := domain.LoanFilter{
		ClientID: params.ClientID,
		Status:   domain.LoanStatus(strings.ToUpper(params.Status)),
		Limit:    params.Limit,
		Offset:   params.Offset,
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown loan status '%s'", apperrors.ErrValidation, params.Status)
	}
	loans, err := s.loanRepo.ListLoans(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list loans")
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}

	today := s.Today()
	details := make([]domain.LoanDetails, 0, len(loans))
	for _, loan := range loans {
		d, err := s.Describe(ctx, loan, today, params.Currency)
		if err != nil {
			return nil, err
		}
		d.Schedule = nil
		details = append(details, *d)
	}
	return details, nil
}

func (s *loanService) GetSchedule(ctx context.Context, loanID string) ([]domain.ScheduleEntry, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	currency := currencyOrDefault(ctx, s.currencySvc, loan.CurrencyCode)
	return lending.Schedule(lending.TermsOf(*loan, currency.Precision))
}

// Describe computes a loan's figures at asOf in its own currency, plus converted
// amounts when displayCurrency names a different one.
func (s *loanService) Describe(ctx context.Context, loan domain.Loan, asOf time.Time, displayCurrency string) (*domain.LoanDetails, error) {
	currency := currencyOrDefault(ctx, s.currencySvc, loan.CurrencyCode)
	return s.describe(ctx, loan, currency, asOf, displayCurrency)
}

func (s *loanService) describe(ctx context.Context, loan domain.Loan, currency domain.Currency, asOf time.Time, displayCurrency string) (*domain.LoanDetails, error) {
	figures, schedule, err := lending.Figures(loan, currency.Precision, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute loan figures", slog.String("loan_id", loan.LoanID))
		return nil, fmt.Errorf("failed to compute figures of loan %s: %w", loan.LoanID, err)
	}
	details := &domain.LoanDetails{Loan: loan, Currency: currency, Figures: figures, Schedule: schedule}

	displayCurrency = strings.ToUpper(strings.TrimSpace(displayCurrency))
	if displayCurrency == "" || displayCurrency == loan.CurrencyCode {
		return details, nil
	}
	if s.rateSvc == nil {
		return nil, fmt.Errorf("%w: currency conversion is not available", apperrors.ErrValidation)
	}
	target, err := s.lookupCurrency(ctx, displayCurrency)
	if err != nil {
		return nil, err
	}
	rate, err := s.rateSvc.GetExchangeRate(ctx, loan.CurrencyCode, displayCurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to convert loan %s to %s: %w", loan.LoanID, displayCurrency, err)
	}
	p := int32(target.Precision)
	details.Display = &domain.DisplayFigures{
		Currency:         *target,
		Rate:             rate.Rate,
		Principal:        loan.Principal.Mul(rate.Rate).Round(p),
		TotalDue:         figures.TotalDue.Mul(rate.Rate).Round(p),
		PaidAmount:       figures.PaidAmount.Mul(rate.Rate).Round(p),
		RemainingBalance: figures.RemainingBalance.Mul(rate.Rate).Round(p),
		AccruedInterest:  figures.AccruedInterest.Mul(rate.Rate).Round(p),
	}
	return details, nil
}

func (s *loanService) UpdateLoan(ctx context.Context, loanID string, req dto.UpdateLoanRequest, userID string) (*domain.LoanDetails, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get loan for update: %w", err)
	}

	currency := currencyOrDefault(ctx, s.currencySvc, loan.CurrencyCode)
	if req.HasTermChanges() {
		count, err := s.installmentRepo.CountInstallmentsByLoan(ctx, loanID)
		if err != nil {
			return nil, fmt.Errorf("failed to count installments: %w", err)
		}
		if count > 0 {
			return nil, apperrors.NewConflictError("loan terms cannot change once installments are recorded")
		}

		if req.Principal != nil {
			loan.Principal = *req.Principal
		}
		if req.InterestRate != nil {
			loan.InterestRate = *req.InterestRate
		}
		if req.PaymentPeriod != nil {
			if loan.PaymentPeriod, err = lending.ParsePaymentPeriod(*req.PaymentPeriod); err != nil {
				return nil, err
			}
		}
		if req.TermPeriods != nil {
			loan.TermPeriods = *req.TermPeriods
		}
		if req.StartDate != nil {
			if loan.StartDate, err = parseDate("startDate", *req.StartDate); err != nil {
				return nil, err
			}
		}
		if req.CurrencyCode != nil {
			code := strings.ToUpper(strings.TrimSpace(*req.CurrencyCode))
			c, err := s.lookupCurrency(ctx, code)
			if err != nil {
				return nil, err
			}
			loan.CurrencyCode = code
			currency = *c
		}
		if err := s.applyTerms(loan, currency.Precision); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		loan.Notes = *req.Notes
	}
	loan.Touch(userID, time.Now())

	if err := s.loanRepo.UpdateLoan(ctx, *loan); err != nil {
		s.LogError(ctx, err, "Failed to update loan", slog.String("loan_id", loanID))
		return nil, fmt.Errorf("failed to update loan: %w", err)
	}
	s.summaries.invalidate(ctx)
	return s.describe(ctx, *loan, currency, s.Today(), "")
}

func (s *loanService) DeleteLoan(ctx context.Context, loanID string, userID string) error {
	if err := s.loanRepo.DeleteLoan(ctx, loanID); err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}
	s.summaries.invalidate(ctx)
	s.LogInfo(ctx, "Loan deleted with its installments", slog.String("loan_id", loanID), slog.String("user_id", userID))
	return nil
}

func (s *loanService) RefreshStatuses(ctx context.Context, asOf time.Time, userID string) (int64, error) {
	if asOf.IsZero() {
		asOf = s.Today()
	}
	updated, err := s.loanRepo.MarkOverdue(ctx, lending.DateOnly(asOf), userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to refresh loan statuses")
		return 0, fmt.Errorf("failed to refresh loan statuses: %w", err)
	}
	if updated > 0 {
		s.summaries.invalidate(ctx)
	}
	s.LogInfo(ctx, "Loan statuses refreshed", slog.Int64("overdue", updated), slog.Time("as_of", asOf))
	return updated, nil
}
