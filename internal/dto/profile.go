package dto

import (
	"time"

	"github.com/SscSPs/banquito_backend/internal/core/domain"
)

// UpdateProfileRequest replaces the company profile printed on contracts.
type UpdateProfileRequest struct {
	BusinessName string `json:"businessName" binding:"required,max=200"`
	OwnerName    string `json:"ownerName" binding:"required,max=200"`
	Cedula       string `json:"cedula" binding:"omitempty,cedula"`
	Phone        string `json:"phone" binding:"omitempty,max=30"`
	Address      string `json:"address" binding:"omitempty,max=300"`
	City         string `json:"city" binding:"omitempty,max=100"`
	Email        string `json:"email" binding:"omitempty,email"`
	BaseCurrency string `json:"baseCurrency" binding:"omitempty,len=3,uppercase"`
}

// ProfileResponse defines the company profile returned by the API.
type ProfileResponse struct {
	BusinessName  string    `json:"businessName"`
	OwnerName     string    `json:"ownerName"`
	Cedula        string    `json:"cedula"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	Email         string    `json:"email"`
	BaseCurrency  string    `json:"baseCurrency"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// ToProfileResponse converts a domain.CompanyProfile to ProfileResponse DTO
func ToProfileResponse(p domain.CompanyProfile) ProfileResponse {
	return ProfileResponse{
		BusinessName:  p.BusinessName,
		OwnerName:     p.OwnerName,
		Cedula:        p.Cedula,
		Phone:         p.Phone,
		Address:       p.Address,
		City:          p.City,
		Email:         p.Email,
		BaseCurrency:  p.BaseCurrency,
		LastUpdatedAt: p.LastUpdatedAt,
		LastUpdatedBy: p.LastUpdatedBy,
	}
}
