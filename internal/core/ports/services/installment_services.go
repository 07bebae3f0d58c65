package services

import (
	"context"

	"github.com/SscSPs/banquito_backend/internal/core/domain"
	"github.com/SscSPs/banquito_backend/internal/dto"
)

// InstallmentReaderSvc defines read operations for installments
type InstallmentReaderSvc interface {
	GetInstallment(ctx context.Context, installmentID string) (*domain.Installment, error)
	ListInstallments(ctx context.Context, loanID string, params dto.ListInstallmentsParams) ([]domain.Installment, *string, error)
}

// InstallmentWriterSvc defines write operations for installments
type InstallmentWriterSvc interface {
	// RecordInstallment applies a payment and returns it with the loan as it stands afterwards.
	RecordInstallment(ctx context.Context, loanID string, req dto.CreateInstallmentRequest, userID string) (*domain.Installment, *domain.LoanDetails, error)
	// DeleteInstallment removes a payment and gives its amount back to the loan balance.
	DeleteInstallment(ctx context.Context, installmentID string, userID string) (*domain.LoanDetails, error)
}

// InstallmentSvcFacade combines all installment-related service interfaces
type InstallmentSvcFacade interface {
	InstallmentReaderSvc
	InstallmentWriterSvc
}
