package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/banquito_backend/internal/apperrors"
	"github.com/SscSPs/banquito_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/banquito_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/banquito_backend/internal/core/ports/services"
	"github.com/SscSPs/banquito_backend/internal/dto"
	"github.com/SscSPs/banquito_backend/internal/utils/lending"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type installmentService struct {
	BaseService
	installmentRepo portsrepo.InstallmentRepositoryFacade
	loanRepo        portsrepo.LoanReader
	loanSvc         portssvc.LoanReaderSvc
	currencySvc     portssvc.CurrencyReaderSvc
	summaries       *summaryCache
}

// InstallmentServiceOption is a functional option for configuring the installment service
type InstallmentServiceOption func(*installmentService)

// WithInstallmentCurrencies sets the service used to read loan currency precision.
func WithInstallmentCurrencies(currencySvc portssvc.CurrencyReaderSvc) InstallmentServiceOption {
	return func(s *installmentService) {
		s.currencySvc = currencySvc
	}
}

// WithInstallmentCache invalidates cached summaries on every payment change.
func WithInstallmentCache(cache portsrepo.Cache) InstallmentServiceOption {
	return func(s *installmentService) {
		s.summaries = newSummaryCache(cache, 0)
	}
}

// NewInstallmentService creates a new installment service.
func NewInstallmentService(installmentRepo portsrepo.InstallmentRepositoryFacade, loanRepo portsrepo.LoanReader, loanSvc portssvc.LoanReaderSvc, options ...InstallmentServiceOption) portssvc.InstallmentSvcFacade {
	svc := &installmentService{
		installmentRepo: installmentRepo,
		loanRepo:        loanRepo,
		loanSvc:         loanSvc,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.InstallmentSvcFacade = (*installmentService)(nil)

func (s *installmentService) RecordInstallment(ctx context.Context, loanID string, req dto.CreateInstallmentRequest, userID string) (*domain.Installment, *domain.LoanDetails, error) {
	if !req.Amount.IsPositive() {
		return nil, nil, fmt.Errorf("%w: installment amount must be positive", apperrors.ErrValidation)
	}
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get loan: %w", err)
	}
	precision := currencyOrDefault(ctx, s.currencySvc, loan.CurrencyCode).Precision
	if !req.Amount.Equal(req.Amount.Round(int32(precision))) {
		return nil, nil, fmt.Errorf("%w: amount has more than %d decimals", apperrors.ErrValidation, precision)
	}

	today := s.Today()
	paymentDate := today
	if req.PaymentDate != "" {
		if paymentDate, err = parseDate("paymentDate", req.PaymentDate); err != nil {
			return nil, nil, err
		}
	}
	if paymentDate.Before(lending.DateOnly(loan.StartDate)) {
		return nil, nil, fmt.Errorf("%w: payment date cannot be before the loan start date", apperrors.ErrValidation)
	}
	if paymentDate.After(today) {
		return nil, nil, fmt.Errorf("%w: payment date cannot be in the future", apperrors.ErrValidation)
	}

	installment := domain.Installment{
		InstallmentID: uuid.NewString(),
		LoanID:        loanID,
		Amount:        req.Amount,
		PaymentDate:   paymentDate,
		Notes:         req.Notes,
		AuditFields:   domain.NewAuditFields(userID, time.Now()),
	}

	settle := func(locked domain.Loan, newPaid decimal.Decimal) (domain.LoanStatus, error) {
		terms := lending.TermsOf(locked, precision)
		if err := lending.ValidatePayment(lending.RemainingBalance(terms, locked.PaidAmount), installment.Amount); err != nil {
			return "", err
		}
		return lending.Status(terms, newPaid, today)
	}

	updated, err := s.installmentRepo.RecordInstallment(ctx, installment, settle)
	if err != nil {
		s.LogError(ctx, err, "Failed to record installment",
			slog.String("loan_id", loanID), slog.String("amount", req.Amount.String()))
		return nil, nil, fmt.Errorf("failed to record installment: %w", err)
	}
	s.summaries.invalidate(ctx)
	s.LogInfo(ctx, "Installment recorded",
		slog.String("loan_id", loanID),
		slog.String("installment_id", installment.InstallmentID),
		slog.String("amount", installment.Amount.String()),
		slog.String("status", string(updated.Status)))

	details, err := s.loanSvc.Describe(ctx, *updated, today, "")
	if err != nil {
		return nil, nil, err
	}
	return &installment, details, nil
}

func (s *installmentService) DeleteInstallment(ctx context.Context, installmentID string, userID string) (*domain.LoanDetails, error) {
	existing, err := s.installmentRepo.FindInstallmentByID(ctx, installmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get installment: %w", err)
	}
	loan, err := s.loanRepo.FindLoanByID(ctx, existing.LoanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	precision := currencyOrDefault(ctx, s.currencySvc, loan.CurrencyCode).Precision
	today := s.Today()

	settle := func(locked domain.Loan, newPaid decimal.Decimal) (domain.LoanStatus, error) {
		return lending.Status(lending.TermsOf(locked, precision), newPaid, today)
	}
	_, updated, err := s.installmentRepo.DeleteInstallment(ctx, installmentID, userID, settle)
	if err != nil {
		s.LogError(ctx, err, "Failed to delete installment", slog.String("installment_id", installmentID))
		return nil, fmt.Errorf("failed to delete installment: %w", err)
	}
	s.summaries.invalidate(ctx)
	s.LogInfo(ctx, "Installment deleted",
		slog.String("installment_id", installmentID), slog.String("loan_id", updated.LoanID), slog.String("user_id", userID))
	return s.loanSvc.Describe(ctx, *updated, today, "")
}

func (s *installmentService) GetInstallment(ctx context.Context, installmentID string) (*domain.Installment, error) {
	installment, err := s.installmentRepo.FindInstallmentByID(ctx, installmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get installment: %w", err)
	}
	return installment, nil
}

func (s *installmentService) ListInstallments(ctx context.Context, loanID string, params dto.ListInstallmentsParams) ([]domain.Installment, *string, error) {
	if _, err := s.loanRepo.FindLoanByID(ctx, loanID); err != nil {
		return nil, nil, fmt.Errorf("failed to get loan: %w", err)
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	items, next, err := s.installmentRepo.ListInstallmentsByLoan(ctx, loanID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list installments", slog.String("loan_id", loanID))
		return nil, nil, fmt.Errorf("failed to list installments: %w", err)
	}
	if items == nil {
		items = []domain.Installment{}
	}
	return items, next, nil
}
