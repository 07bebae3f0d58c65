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
)

type currencyService struct {
	BaseService
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

// NewCurrencyService creates a new currency service.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade) portssvc.CurrencySvcFacade {
	return &currencyService{currencyRepo: currencyRepo}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	code := strings.ToUpper(strings.TrimSpace(req.CurrencyCode))
	if len(code) != 3 {
		return nil, fmt.Errorf("%w: currency code must be 3 letters", apperrors.ErrValidation)
	}
	precision := domain.DefaultPrecision
	if req.Precision != nil {
		precision = *req.Precision
	}
	if precision < 0 || precision > domain.MaxPrecision {
		return nil, fmt.Errorf("%w: precision must be between 0 and %d", apperrors.ErrValidation, domain.MaxPrecision)
	}

	now := time.Now()
	currency := domain.Currency{
		CurrencyCode: code,
		Symbol:       strings.TrimSpace(req.Symbol),
		Name:         strings.TrimSpace(req.Name),
		Precision:    precision,
		AuditFields:  domain.NewAuditFields(creatorUserID, now),
	}

	existing, err := s.currencyRepo.FindCurrencyByCode(ctx, code)
	switch {
	case err == nil:
		currency.CreatedAt = existing.CreatedAt
		currency.CreatedBy = existing.CreatedBy
	case !errors.Is(err, apperrors.ErrNotFound):
		s.LogError(ctx, err, "Failed to look up currency", slog.String("currency_code", code))
		return nil, fmt.Errorf("failed to look up currency: %w", err)
	}

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		s.LogError(ctx, err, "Failed to save currency", slog.String("currency_code", code))
		return nil, fmt.Errorf("failed to create currency in service: %w", err)
	}

	s.LogInfo(ctx, "Currency saved", slog.String("currency_code", code), slog.String("user_id", creatorUserID))
	return &currency, nil
}

func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, strings.ToUpper(currencyCode))
	if err != nil {
		return nil, fmt.Errorf("failed to get currency by code in service: %w", err)
	}
	return currency, nil
}

func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list currencies")
		return nil, fmt.Errorf("failed to list currencies in service: %w", err)
	}
	// Return empty slice if no currencies found, not nil
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}

// currencyOrDefault returns a currency, falling back to the default precision
// when it cannot be read.
func currencyOrDefault(ctx context.Context, currencies portssvc.CurrencyReaderSvc, code string) domain.Currency {
	if currencies != nil {
		if c, err := currencies.GetCurrencyByCode(ctx, code); err == nil && c != nil {
			return *c
		}
	}
	return domain.Currency{CurrencyCode: code, Symbol: code, Precision: domain.DefaultPrecision}
}
