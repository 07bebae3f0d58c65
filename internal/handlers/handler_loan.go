package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/banquito_backend/internal/core/ports/services"
	"github.com/SscSPs/banquito_backend/internal/dto"
	"github.com/SscSPs/banquito_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// loanHandler handles HTTP requests related to loans.
type loanHandler struct {
	loanService     portssvc.LoanSvcFacade
	contractService portssvc.ContractSvcFacade
}

func registerLoanRoutes(rg *gin.RouterGroup, ls portssvc.LoanSvcFacade, cs portssvc.ContractSvcFacade) {
	h := &loanHandler{loanService: ls, contractService: cs}

	loans := rg.Group("/loans")
	{
		loans.POST("", h.createLoan)
		loans.GET("", h.listLoans)
		loans.POST("/refresh-status", h.refreshStatuses)
		loans.GET("/:loanID", h.getLoan)
		loans.PUT("/:loanID", h.updateLoan)
		loans.DELETE("/:loanID", h.deleteLoan)
		loans.GET("/:loanID/schedule", h.getSchedule)
		loans.GET("/:loanID/contract", h.getContract)
	}
}

// createLoan godoc
// @Summary Grant a loan
// @Description Creates a loan for an existing client. The currency defaults to the base currency.
// @Tags loans
// @Accept json
// @Produce json
// @Param loan body dto.CreateLoanRequest true "Loan terms"
// @Success 201 {object} dto.LoanResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans [post]
func (h *loanHandler) createLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	details, err := h.loanService.CreateLoan(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create loan")
		return
	}
	logger.Info("Loan created", slog.String("loan_id", details.Loan.LoanID), slog.String("client_id", details.Loan.ClientID))
	c.JSON(http.StatusCreated, dto.ToLoanResponse(*details))
}

// listLoans godoc
// @Summary List loans
// @Tags loans
// @Produce json
// @Param clientID query string false "Only loans of this client"
// @Param status query string false "ACTIVE, PAID or OVERDUE"
// @Param currency query string false "Display currency"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.ListLoansResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans [get]
func (h *loanHandler) listLoans(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListLoansParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	loans, err := h.loanService.ListLoans(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list loans")
		return
	}
	c.JSON(http.StatusOK, dto.ToListLoansResponse(loans))
}

// getLoan godoc
// @Summary Get a loan with its figures
// @Description Returns the loan, its schedule and the amounts computed today.
// @Tags loans
// @Produce json
// @Param loanID path string true "Loan ID"
// @Param currency query string false "Also show the main amounts in this currency"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loanID} [get]
func (h *loanHandler) getLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("loan_id", c.Param("loanID")))
	var params dto.DisplayParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	details, err := h.loanService.GetLoan(c.Request.Context(), c.Param("loanID"), params.Currency)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve loan")
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponse(*details))
}

// updateLoan godoc
// @Summary Update a loan
// @Description Notes can always change; terms only while no installment has been recorded.
// @Tags loans
// @Accept json
// @Produce json
// @Param loanID path string true "Loan ID"
// @Param loan body dto.UpdateLoanRequest true "Fields to change"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Loan already has installments"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loanID} [put]
func (h *loanHandler) updateLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("loan_id", c.Param("loanID")))
	var req dto.UpdateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	details, err := h.loanService.UpdateLoan(c.Request.Context(), c.Param("loanID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update loan")
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponse(*details))
}

// deleteLoan godoc
// @Summary Delete a loan
// @Description Removes the loan and all of its installments.
// @Tags loans
// @Param loanID path string true "Loan ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loanID} [delete]
func (h *loanHandler) deleteLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("loan_id", c.Param("loanID")))
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.loanService.DeleteLoan(c.Request.Context(), c.Param("loanID"), userID); err != nil {
		respondError(c, logger, err, "Failed to delete loan")
		return
	}
	logger.Info("Loan deleted")
	c.Status(http.StatusNoContent)
}

// getSchedule godoc
// @Summary Payment plan of a loan
// @Tags loans
// @Produce json
// @Param loanID path string true "Loan ID"
// @Success 200 {array} dto.ScheduleEntryResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loanID}/schedule [get]
func (h *loanHandler) getSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("loan_id", c.Param("loanID")))
	schedule, err := h.loanService.GetSchedule(c.Request.Context(), c.Param("loanID"))
	if err != nil {
		respondError(c, logger, err, "Failed to build schedule")
		return
	}
	c.JSON(http.StatusOK, dto.ToScheduleResponse(schedule))
}

// refreshStatuses godoc
// @Summary Mark overdue loans
// @Description Persists OVERDUE for active loans whose due date has passed.
// @Tags loans
// @Produce json
// @Param asOf query string false "Reference date (YYYY-MM-DD), today by default"
// @Success 200 {object} dto.RefreshStatusResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/refresh-status [post]
func (h *loanHandler) refreshStatuses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	asOf := time.Now()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse(dto.DateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "asOf must be a date in YYYY-MM-DD format"})
			return
		}
		asOf = parsed
	}

	updated, err := h.loanService.RefreshStatuses(c.Request.Context(), asOf, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to refresh loan statuses")
		return
	}
	logger.Info("Loan statuses refreshed", slog.Int64("updated", updated))
	c.JSON(http.StatusOK, dto.RefreshStatusResponse{AsOf: asOf.Format(dto.DateLayout), Updated: updated})
}

// getContract godoc
// @Summary Download the loan contract
// @Tags loans
// @Produce application/pdf
// @Param loanID path string true "Loan ID"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loanID}/contract [get]
func (h *loanHandler) getContract(c *gin.Context) {
	loanID := c.Param("loanID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("loan_id", loanID))

	doc, contentType, err := h.contractService.GenerateContract(c.Request.Context(), loanID)
	if err != nil {
		respondError(c, logger, err, "Failed to generate contract")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="contrato_%s.pdf"`, loanID))
	c.Data(http.StatusOK, contentType, doc)
}
