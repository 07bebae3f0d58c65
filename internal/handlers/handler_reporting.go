package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	portssvc "github.com/SscSPs/banquito_backend/internal/core/ports/services"
	"github.com/SscSPs/banquito_backend/internal/dto"
	"github.com/SscSPs/banquito_backend/internal/middleware"
	"github.com/SscSPs/banquito_backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
	currencyService  portssvc.CurrencyReaderSvc
}

func registerReportingRoutes(rg *gin.RouterGroup, rs portssvc.ReportingSvcFacade, cs portssvc.CurrencyReaderSvc) {
	h := &reportingHandler{reportingService: rs, currencyService: cs}

	reports := rg.Group("/reports")
	{
		reports.GET("/summary", h.getSummary)
	}
}

// getSummary godoc
// @Summary Portfolio summary
// @Description Totals over every loan, converted into one currency. Results are cached briefly.
// @Tags reports
// @Produce json
// @Param currency query string false "Report currency, the base currency by default"
// @Param asOf query string false "Reference date (YYYY-MM-DD), today by default"
// @Success 200 {object} dto.PortfolioSummaryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/summary [get]
func (h *reportingHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.SummaryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	asOf := time.Now()
	if params.AsOf != "" {
		parsed, err := time.Parse(dto.DateLayout, params.AsOf)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "asOf must be a date in YYYY-MM-DD format"})
			return
		}
		asOf = parsed
	}

	summary, err := h.reportingService.GetPortfolioSummary(c.Request.Context(), strings.ToUpper(params.Currency), asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to build portfolio summary")
		return
	}

	var formatted map[string]string
	if curr, err := h.currencyService.GetCurrencyByCode(c.Request.Context(), summary.CurrencyCode); err == nil {
		formatted = map[string]string{
			"totalLent":        utils.FormatMoney(summary.TotalLent, *curr),
			"totalCollected":   utils.FormatMoney(summary.TotalCollected, *curr),
			"totalOutstanding": utils.FormatMoney(summary.TotalOutstanding, *curr),
			"expectedInterest": utils.FormatMoney(summary.ExpectedInterest, *curr),
			"accruedInterest":  utils.FormatMoney(summary.AccruedInterest, *curr),
		}
	} else {
		logger.Warn("Summary currency lookup failed, returning raw amounts", slog.String("currency", summary.CurrencyCode), slog.String("error", err.Error()))
	}
	c.JSON(http.StatusOK, dto.ToPortfolioSummaryResponse(*summary, formatted))
}
