package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/banquito_backend/internal/apperrors"
	"github.com/SscSPs/banquito_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/banquito_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/banquito_backend/internal/core/ports/services"
	"github.com/SscSPs/banquito_backend/internal/dto"
	"github.com/google/uuid"
)

type clientService struct {
	BaseService
	clientRepo portsrepo.ClientRepositoryFacade
	summaries  *summaryCache
}

// ClientServiceOption is a functional option for configuring the client service
type ClientServiceOption func(*clientService)

// WithClientCache invalidates cached summaries when clients are created, changed or deleted.
func WithClientCache(cache portsrepo.Cache) ClientServiceOption {
	return func(s *clientService) {
		s.summaries = newSummaryCache(cache, 0)
	}
}

// NewClientService creates a new client service.
func NewClientService(clientRepo portsrepo.ClientRepositoryFacade, options ...ClientServiceOption) portssvc.ClientSvcFacade {
	svc := &clientService{clientRepo: clientRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ClientSvcFacade = (*clientService)(nil)

func normalizeCedula(raw string) (string, error) {
	cedula, ok := domain.NormalizeCedula(raw)
	if !ok {
		return "", fmt.Errorf("%w: cedula must look like 001-010190-0001A", apperrors.ErrValidation)
	}
	return cedula, nil
}

func (s *clientService) CreateClient(ctx context.Context, req dto.CreateClientRequest, userID string) (*domain.Client, error) {
	cedula, err := normalizeCedula(req.Cedula)
	if err != nil {
		return nil, err
	}
	client := domain.Client{
		ClientID:    uuid.NewString(),
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Cedula:      cedula,
		Phone:       strings.TrimSpace(req.Phone),
		Address:     strings.TrimSpace(req.Address),
		Email:       strings.TrimSpace(req.Email),
		Notes:       req.Notes,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(userID, time.Now()),
	}
	if client.FirstName == "" || client.LastName == "" {
		return nil, fmt.Errorf("%w: first and last name are required", apperrors.ErrValidation)
	}

	if err := s.clientRepo.SaveClient(ctx, client); err != nil {
		s.LogError(ctx, err, "Failed to save client", slog.String("cedula", cedula))
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	s.summaries.invalidate(ctx)
	s.LogInfo(ctx, "Client created", slog.String("client_id", client.ClientID), slog.String("user_id", userID))
	return &client, nil
}

func (s *clientService) GetClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	client, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

func (s *clientService) ListClients(ctx context.Context, params dto.ListClientsParams) ([]domain.Client, error) {
	clients, err := s.clientRepo.ListClients(ctx, domain.ClientFilter{
		Query:    strings.TrimSpace(params.Q),
		IsActive: params.Active,
		Limit:    params.Limit,
		Offset:   params.Offset,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list clients")
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	if clients == nil {
		return []domain.Client{}, nil
	}
	return clients, nil
}

func (s *clientService) UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest, userID string) (*domain.Client, error) {
	client, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get client for update: %w", err)
	}

	if req.FirstName != nil {
		client.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		client.LastName = strings.TrimSpace(*req.LastName)
	}
	if client.FirstName == "" || client.LastName == "" {
		return nil, fmt.Errorf("%w: first and last name cannot be empty", apperrors.ErrValidation)
	}
	if req.Cedula != nil {
		if client.Cedula, err = normalizeCedula(*req.Cedula); err != nil {
			return nil, err
		}
	}
	if req.Phone != nil {
		client.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		client.Address = strings.TrimSpace(*req.Address)
	}
	if req.Email != nil {
		client.Email = strings.TrimSpace(*req.Email)
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
	}
	if req.IsActive != nil {
		client.IsActive = *req.IsActive
	}
	client.Touch(userID, time.Now())

	if err := s.clientRepo.UpdateClient(ctx, *client); err != nil {
		s.LogError(ctx, err, "Failed to update client", slog.String("client_id", clientID))
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	s.summaries.invalidate(ctx)
	return client, nil
}

func (s *clientService) DeleteClient(ctx context.Context, clientID string, userID string) error {
	if err := s.clientRepo.DeleteClient(ctx, clientID); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	s.summaries.invalidate(ctx)
	s.LogInfo(ctx, "Client deleted with its loans", slog.String("client_id", clientID), slog.String("user_id", userID))
	return nil
}
