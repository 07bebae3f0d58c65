package repositories

import (
	"context"

	"github.com/SscSPs/banquito_backend/internal/core/domain"
)

// ClientReader defines read operations for client data
type ClientReader interface {
	FindClientByID(ctx context.Context, clientID string) (*domain.Client, error)
	ListClients(ctx context.Context, filter domain.ClientFilter) ([]domain.Client, error)
}

// ClientWriter defines write operations for client data.
// A cédula already held by another client yields apperrors.ErrDuplicate.
type ClientWriter interface {
	SaveClient(ctx context.Context, client domain.Client) error
	UpdateClient(ctx context.Context, client domain.Client) error
	// DeleteClient removes the client together with its loans and installments.
	DeleteClient(ctx context.Context, clientID string) error
}

// ClientRepositoryFacade combines all client-related repository interfaces
type ClientRepositoryFacade interface {
	ClientReader
	ClientWriter
}
