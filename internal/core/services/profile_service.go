package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/banquito_backend/internal/apperrors"
	"github.com/SscSPs/banquito_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/banquito_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/banquito_backend/internal/core/ports/services"
	"github.com/SscSPs/banquito_backend/internal/dto"
)

type profileService struct {
	BaseService
	profileRepo  portsrepo.ProfileRepositoryFacade
	currencySvc  portssvc.CurrencyReaderSvc
	baseCurrency string
}

// NewProfileService creates the company profile service.
func NewProfileService(profileRepo portsrepo.ProfileRepositoryFacade, currencySvc portssvc.CurrencyReaderSvc, baseCurrency string) portssvc.ProfileSvcFacade {
	return &profileService{profileRepo: profileRepo, currencySvc: currencySvc, baseCurrency: baseCurrency}
}

func (s *profileService) GetProfile(ctx context.Context) (*domain.CompanyProfile, error) {
	profile, err := s.profileRepo.FindProfile(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.CompanyProfile{ProfileID: domain.DefaultProfileID, BaseCurrency: s.baseCurrency}, nil
		}
		s.LogError(ctx, err, "Failed to read company profile")
		return nil, fmt.Errorf("failed to get company profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest, userID string) (*domain.CompanyProfile, error) {
	current, err := s.GetProfile(ctx)
	if err != nil {
		return nil, err
	}

	cedula := ""
	if strings.TrimSpace(req.Cedula) != "" {
		var ok bool
		if cedula, ok = domain.NormalizeCedula(req.Cedula); !ok {
			return nil, fmt.Errorf("%w: cedula must look like 001-010190-0001A", apperrors.ErrValidation)
		}
	}

	base := strings.ToUpper(strings.TrimSpace(req.BaseCurrency))
	if base == "" {
		base = s.baseCurrency
	}
	if _, err := s.currencySvc.GetCurrencyByCode(ctx, base); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: currency code '%s' not found", apperrors.ErrValidation, base)
		}
		return nil, err
	}

	now := time.Now()
	profile := domain.CompanyProfile{
		ProfileID:    domain.DefaultProfileID,
		BusinessName: strings.TrimSpace(req.BusinessName),
		OwnerName:    strings.TrimSpace(req.OwnerName),
		Cedula:       cedula,
		Phone:        strings.TrimSpace(req.Phone),
		Address:      strings.TrimSpace(req.Address),
		City:         strings.TrimSpace(req.City),
		Email:        strings.TrimSpace(req.Email),
		BaseCurrency: base,
		AuditFields:  current.AuditFields,
	}
	if profile.CreatedAt.IsZero() {
		profile.AuditFields = domain.NewAuditFields(userID, now)
	} else {
		profile.Touch(userID, now)
	}

	if err := s.profileRepo.SaveProfile(ctx, profile); err != nil {
		s.LogError(ctx, err, "Failed to save company profile", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to save company profile: %w", err)
	}
	s.LogInfo(ctx, "Company profile updated", slog.String("user_id", userID))
	return &profile, nil
}
