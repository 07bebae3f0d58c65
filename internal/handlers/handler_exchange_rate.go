package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	portssvc "github.com/SscSPs/banquito_backend/internal/core/ports/services"
	"github.com/SscSPs/banquito_backend/internal/dto"
	"github.com/SscSPs/banquito_backend/internal/middleware"
	"github.com/SscSPs/banquito_backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
	currencyService     portssvc.CurrencyReaderSvc
}

// registerExchangeRateRoutes registers routes related to exchange rates and conversion.
func registerExchangeRateRoutes(rg *gin.RouterGroup, ers portssvc.ExchangeRateSvcFacade, cs portssvc.CurrencyReaderSvc) {
	h := &exchangeRateHandler{exchangeRateService: ers, currencyService: cs}

	rates := rg.Group("/exchange-rates")
	{
		rates.POST("", h.createExchangeRate)
		rates.GET("", h.listExchangeRates)
		rates.GET("/:fromCurrency/:toCurrency", h.getExchangeRate)
	}
	rg.GET("/convert", h.convert)
}

// createExchangeRate godoc
// @Summary Create a new exchange rate
// @Description Adds a rate between two currencies, effective on a date (today when omitted).
// @Tags exchange-rates
// @Accept  json
// @Produce  json
// @Param   exchangeRate body dto.CreateExchangeRateRequest true "Exchange Rate details"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 409 {object} ErrorResponse "Rate already exists for the pair and date"
// @Failure 500 {object} ErrorResponse "Failed to create exchange rate"
// @Security BearerAuth
// @Router /exchange-rates [post]
func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}
	creatorUserID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("from_currency", req.FromCurrencyCode), slog.String("to_currency", req.ToCurrencyCode))
	rate, err := h.exchangeRateService.CreateExchangeRate(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, logger, err, "Failed to create exchange rate")
		return
	}

	logger.Info("Exchange rate created", slog.String("exchange_rate_id", rate.ExchangeRateID))
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(*rate))
}

// listExchangeRates godoc
// @Summary List exchange rates
// @Tags exchange-rates
// @Produce  json
// @Param from query string false "Source currency"
// @Param to query string false "Target currency"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /exchange-rates [get]
func (h *exchangeRateHandler) listExchangeRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListExchangeRatesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	rates, err := h.exchangeRateService.ListExchangeRates(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list exchange rates")
		return
	}
	c.JSON(http.StatusOK, dto.ToListExchangeRateResponse(rates))
}

// getExchangeRate godoc
// @Summary Get the exchange rate between two currencies
// @Description Uses the direct rate, its inverse, or a cross rate through the base currency.
// @Tags exchange-rates
// @Produce  json
// @Param   fromCurrency path string true "Source Currency Code"
// @Param   toCurrency path string true "Target Currency Code"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Exchange rate not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /exchange-rates/{fromCurrency}/{toCurrency} [get]
func (h *exchangeRateHandler) getExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from := strings.ToUpper(c.Param("fromCurrency"))
	to := strings.ToUpper(c.Param("toCurrency"))
	if len(from) != 3 || len(to) != 3 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Currency codes must be 3 letters"})
		return
	}

	rate, err := h.exchangeRateService.GetExchangeRate(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve exchange rate")
		return
	}
	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(*rate))
}

// convert godoc
// @Summary Convert an amount between currencies
// @Tags exchange-rates
// @Produce json
// @Param amount query string true "Amount to convert"
// @Param from query string true "Source currency"
// @Param to query string true "Target currency"
// @Success 200 {object} dto.ConversionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "No rate between the currencies"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /convert [get]
func (h *exchangeRateHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ConvertParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}
	amount, err := decimal.NewFromString(params.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Amount must be a decimal number"})
		return
	}

	conv, err := h.exchangeRateService.Convert(c.Request.Context(), amount, strings.ToUpper(params.From), strings.ToUpper(params.To))
	if err != nil {
		respondError(c, logger, err, "Failed to convert amount")
		return
	}

	res := dto.ConversionResponse{
		FromCurrencyCode: conv.FromCurrencyCode,
		ToCurrencyCode:   conv.ToCurrencyCode,
		Amount:           conv.Amount,
		Converted:        conv.Converted,
		Rate:             conv.Rate,
	}
	if target, err := h.currencyService.GetCurrencyByCode(c.Request.Context(), conv.ToCurrencyCode); err == nil {
		res.Formatted = utils.FormatMoney(conv.Converted, *target)
	}
	c.JSON(http.StatusOK, res)
}
