package mapping

import (
	"github.com/SscSPs/banquito_backend/internal/core/domain"
	"github.com/SscSPs/banquito_backend/internal/models"
)

// ToModelClient converts a domain Client to a model Client
func ToModelClient(d domain.Client) models.Client {
	return models.Client{
		ClientID:    d.ClientID,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Cedula:      d.Cedula,
		Phone:       d.Phone,
		Address:     d.Address,
		Email:       d.Email,
		Notes:       d.Notes,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainClient converts a model Client to a domain Client
func ToDomainClient(m models.Client) domain.Client {
	return domain.Client{
		ClientID:    m.ClientID,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Cedula:      m.Cedula,
		Phone:       m.Phone,
		Address:     m.Address,
		Email:       m.Email,
		Notes:       m.Notes,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainClientSlice converts a slice of model Clients to domain Clients
func ToDomainClientSlice(ms []models.Client) []domain.Client {
	return toDomainSlice(ms, ToDomainClient)
}
