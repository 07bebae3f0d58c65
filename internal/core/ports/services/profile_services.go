package services

import (
	"context"

	"github.com/SscSPs/banquito_backend/internal/core/domain"
	"github.com/SscSPs/banquito_backend/internal/dto"
)

// ProfileSvcFacade reads and updates the company profile.
type ProfileSvcFacade interface {
	// GetProfile returns the stored profile, or an empty one in the base currency.
	GetProfile(ctx context.Context) (*domain.CompanyProfile, error)
	UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest, userID string) (*domain.CompanyProfile, error)
}
