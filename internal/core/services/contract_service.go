package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/banquito_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/banquito_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/banquito_backend/internal/core/ports/services"
)

type contractService struct {
	BaseService
	loanRepo   portsrepo.LoanReader
	clientRepo portsrepo.ClientReader
	profileSvc portssvc.ProfileSvcFacade
	loanSvc    portssvc.LoanReaderSvc
	renderer   portsrepo.ContractRenderer
}

// NewContractService creates the loan contract service.
func NewContractService(loanRepo portsrepo.LoanReader, clientRepo portsrepo.ClientReader, profileSvc portssvc.ProfileSvcFacade, loanSvc portssvc.LoanReaderSvc, renderer portsrepo.ContractRenderer) portssvc.ContractSvcFacade {
	return &contractService{
		loanRepo:   loanRepo,
		clientRepo: clientRepo,
		profileSvc: profileSvc,
		loanSvc:    loanSvc,
		renderer:   renderer,
	}
}

func (s *contractService) GenerateContract(ctx context.Context, loanID string) ([]byte, string, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get loan: %w", err)
	}
	client, err := s.clientRepo.FindClientByID(ctx, loan.ClientID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get borrower: %w", err)
	}
	profile, err := s.profileSvc.GetProfile(ctx)
	if err != nil {
		return nil, "", err
	}
	details, err := s.loanSvc.Describe(ctx, *loan, s.Today(), "")
	if err != nil {
		return nil, "", err
	}

	data := domain.ContractData{
		Lender:   *profile,
		Borrower: *client,
		Loan:     details.Loan,
		Currency: details.Currency,
		Figures:  details.Figures,
		Schedule: details.Schedule,
		IssuedAt: time.Now(),
	}
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, data); err != nil {
		s.LogError(ctx, err, "Failed to render contract", slog.String("loan_id", loanID))
		return nil, "", fmt.Errorf("failed to render contract: %w", err)
	}
	return buf.Bytes(), s.renderer.ContentType(), nil
}
