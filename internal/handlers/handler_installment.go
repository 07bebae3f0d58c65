package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/banquito_backend/internal/core/ports/services"
	"github.com/SscSPs/banquito_backend/internal/dto"
	"github.com/SscSPs/banquito_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// installmentHandler handles HTTP requests related to payments.
type installmentHandler struct {
	installmentService portssvc.InstallmentSvcFacade
}

func registerInstallmentRoutes(rg *gin.RouterGroup, is portssvc.InstallmentSvcFacade) {
	h := &installmentHandler{installmentService: is}

	rg.POST("/loans/:loanID/installments", h.recordInstallment)
	rg.GET("/loans/:loanID/installments", h.listInstallments)

	installments := rg.Group("/installments")
	{
		installments.GET("/:installmentID", h.getInstallment)
		installments.DELETE("/:installmentID", h.deleteInstallment)
	}
}

// recordInstallment godoc
// @Summary Record a payment
// @Description Applies a payment to the loan balance. It cannot exceed the remaining balance.
// @Tags installments
// @Accept json
// @Produce json
// @Param loanID path string true "Loan ID"
// @Param installment body dto.CreateInstallmentRequest true "Payment"
// @Success 201 {object} dto.RecordInstallmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loanID}/installments [post]
func (h *installmentHandler) recordInstallment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("loan_id", c.Param("loanID")))
	var req dto.CreateInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	inst, details, err := h.installmentService.RecordInstallment(c.Request.Context(), c.Param("loanID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to record installment")
		return
	}
	logger.Info("Installment recorded", slog.String("installment_id", inst.InstallmentID), slog.String("amount", inst.Amount.String()))
	c.JSON(http.StatusCreated, dto.RecordInstallmentResponse{
		Installment: dto.ToInstallmentResponse(*inst),
		Loan:        dto.ToLoanResponse(*details),
	})
}

// listInstallments godoc
// @Summary List the payments of a loan
// @Description Newest first. Pass nextToken from the previous page to continue.
// @Tags installments
// @Produce json
// @Param loanID path string true "Loan ID"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListInstallmentsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loanID}/installments [get]
func (h *installmentHandler) listInstallments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("loan_id", c.Param("loanID")))
	var params dto.ListInstallmentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	items, next, err := h.installmentService.ListInstallments(c.Request.Context(), c.Param("loanID"), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list installments")
		return
	}
	c.JSON(http.StatusOK, dto.ToListInstallmentsResponse(items, next))
}

// getInstallment godoc
// @Summary Get a payment
// @Tags installments
// @Produce json
// @Param installmentID path string true "Installment ID"
// @Success 200 {object} dto.InstallmentResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /installments/{installmentID} [get]
func (h *installmentHandler) getInstallment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("installment_id", c.Param("installmentID")))
	inst, err := h.installmentService.GetInstallment(c.Request.Context(), c.Param("installmentID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve installment")
		return
	}
	c.JSON(http.StatusOK, dto.ToInstallmentResponse(*inst))
}

// deleteInstallment godoc
// @Summary Delete a payment
// @Description Gives the amount back to the loan balance and returns the loan afterwards.
// @Tags installments
// @Produce json
// @Param installmentID path string true "Installment ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /installments/{installmentID} [delete]
func (h *installmentHandler) deleteInstallment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("installment_id", c.Param("installmentID")))
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	details, err := h.installmentService.DeleteInstallment(c.Request.Context(), c.Param("installmentID"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to delete installment")
		return
	}
	logger.Info("Installment deleted")
	c.JSON(http.StatusOK, dto.ToLoanResponse(*details))
}
