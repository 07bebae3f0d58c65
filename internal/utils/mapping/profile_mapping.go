package mapping

import (
	"github.com/SscSPs/banquito_backend/internal/core/domain"
	"github.com/SscSPs/banquito_backend/internal/models"
)

// ToModelProfile converts a domain CompanyProfile to a model CompanyProfile
func ToModelProfile(d domain.CompanyProfile) models.CompanyProfile {
	return models.CompanyProfile{
		ProfileID:    d.ProfileID,
		BusinessName: d.BusinessName,
		OwnerName:    d.OwnerName,
		Cedula:       d.Cedula,
		Phone:        d.Phone,
		Address:      d.Address,
		City:         d.City,
		Email:        d.Email,
		BaseCurrency: d.BaseCurrency,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainProfile converts a model CompanyProfile to a domain CompanyProfile
func ToDomainProfile(m models.CompanyProfile) domain.CompanyProfile {
	return domain.CompanyProfile{
		ProfileID:    m.ProfileID,
		BusinessName: m.BusinessName,
		OwnerName:    m.OwnerName,
		Cedula:       m.Cedula,
		Phone:        m.Phone,
		Address:      m.Address,
		City:         m.City,
		Email:        m.Email,
		BaseCurrency: m.BaseCurrency,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
