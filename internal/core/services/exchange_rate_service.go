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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ratePrecision is the number of decimals kept for derived (inverse or cross) rates.
const ratePrecision = 12

type exchangeRateService struct {
	BaseService
	rateRepo     portsrepo.ExchangeRateRepositoryFacade
	currencySvc  portssvc.CurrencyReaderSvc
	baseCurrency string
	summaries    *summaryCache
}

// ExchangeRateServiceOption configures the exchange rate service
type ExchangeRateServiceOption func(*exchangeRateService)

// WithBaseCurrency sets the currency cross rates are computed through.
func WithBaseCurrency(code string) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.baseCurrency = strings.ToUpper(code)
	}
}

// WithRateCache invalidates cached summaries, which hold converted totals, when a rate is saved.
func WithRateCache(cache portsrepo.Cache) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.summaries = newSummaryCache(cache, 0)
	}
}

// NewExchangeRateService creates a new exchange rate service.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, currencySvc portssvc.CurrencyReaderSvc, options ...ExchangeRateServiceOption) portssvc.ExchangeRateSvcFacade {
	svc := &exchangeRateService{
		rateRepo:     rateRepo,
		currencySvc:  currencySvc,
		baseCurrency: "NIO",
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

// CreateExchangeRate handles the creation of a new exchange rate.
func (s *exchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	from := strings.ToUpper(req.FromCurrencyCode)
	to := strings.ToUpper(req.ToCurrencyCode)

	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if from == to {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}

	for _, code := range []string{from, to} {
		if _, err := s.currencySvc.GetCurrencyByCode(ctx, code); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: currency code '%s' not found", apperrors.ErrValidation, code)
			}
			return nil, fmt.Errorf("failed to validate currency '%s': %w", code, err)
		}
	}

	effective := s.Today()
	if req.DateEffective != "" {
		d, err := time.Parse(dto.DateLayout, req.DateEffective)
		if err != nil {
			return nil, fmt.Errorf("%w: dateEffective must be YYYY-MM-DD", apperrors.ErrValidation)
		}
		effective = d
	}

	rate := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             req.Rate,
		DateEffective:    effective,
		AuditFields:      domain.NewAuditFields(creatorUserID, time.Now()),
	}

	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		s.LogError(ctx, err, "Failed to save exchange rate",
			slog.String("from", from), slog.String("to", to))
		return nil, fmt.Errorf("failed to create exchange rate in service: %w", err)
	}
	s.summaries.invalidate(ctx)

	s.LogInfo(ctx, "Exchange rate saved",
		slog.String("from", from), slog.String("to", to), slog.String("rate", rate.Rate.String()))
	return &rate, nil
}

// GetExchangeRate retrieves the latest rate for a currency pair. When neither the pair
// nor its inverse is stored the rate is crossed through the base currency.
func (s *exchangeRateService) GetExchangeRate(ctx context.Context, fromCode, toCode string) (*domain.ExchangeRate, error) {
	fromCode = strings.ToUpper(fromCode)
	toCode = strings.ToUpper(toCode)
	if len(fromCode) != 3 || len(toCode) != 3 {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}

	rate, err := s.rateRepo.FindExchangeRate(ctx, fromCode, toCode)
	if err == nil {
		return rate, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) || fromCode == s.baseCurrency || toCode == s.baseCurrency {
		return nil, fmt.Errorf("failed to get exchange rate in service: %w", err)
	}

	toBase, err := s.rateRepo.FindExchangeRate(ctx, fromCode, s.baseCurrency)
	if err != nil {
		return nil, fmt.Errorf("no exchange rate from %s to %s: %w", fromCode, toCode, err)
	}
	fromBase, err := s.rateRepo.FindExchangeRate(ctx, s.baseCurrency, toCode)
	if err != nil {
		return nil, fmt.Errorf("no exchange rate from %s to %s: %w", fromCode, toCode, err)
	}

	effective := toBase.DateEffective
	if fromBase.DateEffective.Before(effective) {
		effective = fromBase.DateEffective
	}
	s.LogDebug(ctx, "Using cross rate through base currency",
		slog.String("from", fromCode), slog.String("to", toCode), slog.String("base", s.baseCurrency))
	return &domain.ExchangeRate{
		FromCurrencyCode: fromCode,
		ToCurrencyCode:   toCode,
		Rate:             toBase.Rate.Mul(fromBase.Rate).Round(ratePrecision),
		DateEffective:    effective,
	}, nil
}

func (s *exchangeRateService) ListExchangeRates(ctx context.Context, params dto.ListExchangeRatesParams) ([]domain.ExchangeRate, error) {
	rates, err := s.rateRepo.ListExchangeRates(ctx, domain.ExchangeRateFilter{
		FromCurrencyCode: strings.ToUpper(params.From),
		ToCurrencyCode:   strings.ToUpper(params.To),
		Limit:            params.Limit,
		Offset:           params.Offset,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list exchange rates")
		return nil, fmt.Errorf("failed to list exchange rates in service: %w", err)
	}
	if rates == nil {
		return []domain.ExchangeRate{}, nil
	}
	return rates, nil
}

// Convert converts an amount to another currency, rounded to that currency's precision.
func (s *exchangeRateService) Convert(ctx context.Context, amount decimal.Decimal, fromCode, toCode string) (*domain.Conversion, error) {
	fromCode = strings.ToUpper(fromCode)
	toCode = strings.ToUpper(toCode)

	target, err := s.currencySvc.GetCurrencyByCode(ctx, toCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: currency code '%s' not found", apperrors.ErrValidation, toCode)
		}
		return nil, err
	}

	rate := decimal.NewFromInt(1)
	if fromCode != toCode {
		r, err := s.GetExchangeRate(ctx, fromCode, toCode)
		if err != nil {
			return nil, err
		}
		rate = r.Rate
	}

	return &domain.Conversion{
		FromCurrencyCode: fromCode,
		ToCurrencyCode:   toCode,
		Amount:           amount,
		Converted:        amount.Mul(rate).Round(int32(target.Precision)),
		Rate:             rate,
	}, nil
}
