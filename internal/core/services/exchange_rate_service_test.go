package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/banquito_backend/internal/apperrors"
	"github.com/SscSPs/banquito_backend/internal/core/domain"
	portssvc "github.com/SscSPs/banquito_backend/internal/core/ports/services"
	"github.com/SscSPs/banquito_backend/internal/core/services"
	"github.com/SscSPs/banquito_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type ExchangeRateServiceTestSuite struct {
	suite.Suite
	mockRateRepo     *MockExchangeRateRepository
	mockCurrencyRepo *MockCurrencyRepository
	mockCache        *MockCache
	service          portssvc.ExchangeRateSvcFacade
}

func (suite *ExchangeRateServiceTestSuite) SetupTest() {
	suite.mockRateRepo = new(MockExchangeRateRepository)
	suite.mockCurrencyRepo = new(MockCurrencyRepository)
	suite.mockCache = new(MockCache)
	suite.service = services.NewExchangeRateService(
		suite.mockRateRepo,
		services.NewCurrencyService(suite.mockCurrencyRepo),
		services.WithBaseCurrency("NIO"),
		services.WithRateCache(suite.mockCache),
	)
}

func rate(from, to, value string) *domain.ExchangeRate {
	return &domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             decimal.RequireFromString(value),
		DateEffective:    time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
	}
}

// --- Test Cases ---

func (suite *ExchangeRateServiceTestSuite) TestCreateExchangeRate_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateExchangeRateRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "NIO",
		Rate:             decimal.RequireFromString("36.6243"),
		DateEffective:    "2024-05-01",
	}

	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "NIO").Return(&domain.Currency{CurrencyCode: "NIO"}, nil).Once()
	suite.mockRateRepo.On("SaveExchangeRate", ctx, mock.MatchedBy(func(r domain.ExchangeRate) bool {
		return r.FromCurrencyCode == "USD" && r.ToCurrencyCode == "NIO" &&
			r.DateEffective.Equal(time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC))
	})).Return(nil).Once()
	suite.mockCache.On("DeletePrefix", ctx, "banquito:summary:").Return(nil).Once()

	created, err := suite.service.CreateExchangeRate(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.ExchangeRateID)
	suite.True(req.Rate.Equal(created.Rate))
	suite.Equal(creatorUserID, created.CreatedBy)
	suite.mockRateRepo.AssertExpectations(suite.T())
	suite.mockCurrencyRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestCreateExchangeRate_InvalidRate() {
	ctx := context.Background()
	req := dto.CreateExchangeRateRequest{FromCurrencyCode: "USD", ToCurrencyCode: "NIO", Rate: decimal.Zero}

	created, err := suite.service.CreateExchangeRate(ctx, req, "user")

	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "SaveExchangeRate", mock.Anything, mock.Anything)
	suite.mockCache.AssertNotCalled(suite.T(), "DeletePrefix", mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestCreateExchangeRate_SameCurrency() {
	req := dto.CreateExchangeRateRequest{FromCurrencyCode: "USD", ToCurrencyCode: "USD", Rate: decimal.NewFromInt(1)}

	_, err := suite.service.CreateExchangeRate(context.Background(), req, "user")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExchangeRateServiceTestSuite) TestCreateExchangeRate_UnknownCurrency() {
	ctx := context.Background()
	req := dto.CreateExchangeRateRequest{FromCurrencyCode: "XYZ", ToCurrencyCode: "NIO", Rate: decimal.NewFromInt(2)}
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "XYZ").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateExchangeRate(ctx, req, "user")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "XYZ")
}

func (suite *ExchangeRateServiceTestSuite) TestGetExchangeRate_Direct() {
	ctx := context.Background()
	suite.mockRateRepo.On("FindExchangeRate", ctx, "USD", "NIO").Return(rate("USD", "NIO", "36.6243"), nil).Once()

	got, err := suite.service.GetExchangeRate(ctx, "usd", "nio")

	suite.Require().NoError(err)
	suite.Equal("36.6243", got.Rate.String())
}

func (suite *ExchangeRateServiceTestSuite) TestGetExchangeRate_CrossThroughBase() {
	ctx := context.Background()
	suite.mockRateRepo.On("FindExchangeRate", ctx, "USD", "EUR").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRateRepo.On("FindExchangeRate", ctx, "USD", "NIO").Return(rate("USD", "NIO", "36.6"), nil).Once()
	suite.mockRateRepo.On("FindExchangeRate", ctx, "NIO", "EUR").Return(rate("NIO", "EUR", "0.025"), nil).Once()

	got, err := suite.service.GetExchangeRate(ctx, "USD", "EUR")

	suite.Require().NoError(err)
	suite.Equal("USD", got.FromCurrencyCode)
	suite.Equal("EUR", got.ToCurrencyCode)
	suite.True(decimal.RequireFromString("0.915").Equal(got.Rate), "got %s", got.Rate)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestGetExchangeRate_NoPathThroughBase() {
	ctx := context.Background()
	suite.mockRateRepo.On("FindExchangeRate", ctx, "USD", "NIO").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetExchangeRate(ctx, "USD", "NIO")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRateRepo.AssertNumberOfCalls(suite.T(), "FindExchangeRate", 1)
}

func (suite *ExchangeRateServiceTestSuite) TestGetExchangeRate_BadCode() {
	_, err := suite.service.GetExchangeRate(context.Background(), "US", "NIO")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExchangeRateServiceTestSuite) TestConvert_RoundsToTargetPrecision() {
	ctx := context.Background()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "NIO").Return(&domain.Currency{CurrencyCode: "NIO", Precision: 2}, nil).Once()
	suite.mockRateRepo.On("FindExchangeRate", ctx, "USD", "NIO").Return(rate("USD", "NIO", "36.6243"), nil).Once()

	conv, err := suite.service.Convert(ctx, decimal.RequireFromString("100.005"), "USD", "NIO")

	suite.Require().NoError(err)
	suite.Equal("3662.61", conv.Converted.String())
	suite.Equal("36.6243", conv.Rate.String())
}

func (suite *ExchangeRateServiceTestSuite) TestConvert_SameCurrency() {
	ctx := context.Background()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD", Precision: 2}, nil).Once()

	conv, err := suite.service.Convert(ctx, decimal.RequireFromString("12.345"), "USD", "USD")

	suite.Require().NoError(err)
	suite.Equal("12.35", conv.Converted.String())
	suite.Equal("1", conv.Rate.String())
	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindExchangeRate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestListExchangeRates_UppercasesFilter() {
	ctx := context.Background()
	suite.mockRateRepo.On("ListExchangeRates", ctx, domain.ExchangeRateFilter{FromCurrencyCode: "USD", Limit: 5}).
		Return([]domain.ExchangeRate{*rate("USD", "NIO", "36.6")}, nil).Once()

	rates, err := suite.service.ListExchangeRates(ctx, dto.ListExchangeRatesParams{From: "usd", Limit: 5})

	suite.Require().NoError(err)
	suite.Len(rates, 1)
}

func TestExchangeRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}
