package dto

import (
	"time"

	"github.com/SscSPs/banquito_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateInstallmentRequest records a payment against a loan. PaymentDate defaults to today.
type CreateInstallmentRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate string          `json:"paymentDate" binding:"omitempty,datetime=2006-01-02"`
	Notes       string          `json:"notes" binding:"omitempty,max=2000"`
}

// ListInstallmentsParams are the query parameters of the installment listing.
type ListInstallmentsParams struct {
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=200"`
	NextToken *string `form:"nextToken"`
}

// InstallmentResponse defines the data returned for an installment.
type InstallmentResponse struct {
	InstallmentID string          `json:"installmentID"`
	LoanID        string          `json:"loanID"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   string          `json:"paymentDate"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}

// ListInstallmentsResponse is a page of installments.
type ListInstallmentsResponse struct {
	Installments []InstallmentResponse `json:"installments"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// RecordInstallmentResponse returns the stored payment and the loan after it.
type RecordInstallmentResponse struct {
	Installment InstallmentResponse `json:"installment"`
	Loan        LoanResponse        `json:"loan"`
}

// ToInstallmentResponse converts a domain.Installment to InstallmentResponse DTO
func ToInstallmentResponse(i domain.Installment) InstallmentResponse {
	return InstallmentResponse{
		InstallmentID: i.InstallmentID,
		LoanID:        i.LoanID,
		Amount:        i.Amount,
		PaymentDate:   i.PaymentDate.Format(DateLayout),
		Notes:         i.Notes,
		CreatedAt:     i.CreatedAt,
		CreatedBy:     i.CreatedBy,
	}
}

// ToListInstallmentsResponse converts a page of installments.
func ToListInstallmentsResponse(items []domain.Installment, nextToken *string) ListInstallmentsResponse {
	res := ListInstallmentsResponse{
		Installments: make([]InstallmentResponse, len(items)),
		NextToken:    nextToken,
	}
	for i, item := range items {
		res.Installments[i] = ToInstallmentResponse(item)
	}
	return res
}
