package repositories

import (
	"context"

	"github.com/SscSPs/banquito_backend/internal/core/domain"
)

// ProfileRepositoryFacade reads and writes the single company profile row.
type ProfileRepositoryFacade interface {
	// FindProfile returns apperrors.ErrNotFound until a profile has been saved.
	FindProfile(ctx context.Context) (*domain.CompanyProfile, error)
	SaveProfile(ctx context.Context, profile domain.CompanyProfile) error
}
