package mapping

import (
	"github.com/SscSPs/banquito_backend/internal/core/domain"
	"github.com/SscSPs/banquito_backend/internal/models"
)

// ToModelLoan converts a domain Loan to a model Loan
func ToModelLoan(d domain.Loan) models.Loan {
	return models.Loan{
		LoanID:        d.LoanID,
		ClientID:      d.ClientID,
		Principal:     d.Principal,
		InterestRate:  d.InterestRate,
		PaymentPeriod: string(d.PaymentPeriod),
		TermPeriods:   d.TermPeriods,
		StartDate:     d.StartDate,
		DueDate:       d.DueDate,
		CurrencyCode:  d.CurrencyCode,
		Status:        string(d.Status),
		PaidAmount:    d.PaidAmount,
		Notes:         d.Notes,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLoan converts a model Loan to a domain Loan
func ToDomainLoan(m models.Loan) domain.Loan {
	return domain.Loan{
		LoanID:        m.LoanID,
		ClientID:      m.ClientID,
		Principal:     m.Principal,
		InterestRate:  m.InterestRate,
		PaymentPeriod: domain.PaymentPeriod(m.PaymentPeriod),
		TermPeriods:   m.TermPeriods,
		StartDate:     m.StartDate,
		DueDate:       m.DueDate,
		CurrencyCode:  m.CurrencyCode,
		Status:        domain.LoanStatus(m.Status),
		PaidAmount:    m.PaidAmount,
		Notes:         m.Notes,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLoanSlice converts a slice of model Loans to domain Loans
func ToDomainLoanSlice(ms []models.Loan) []domain.Loan {
	return toDomainSlice(ms, ToDomainLoan)
}
