package services

import (
	"context"
)

// ContractSvcFacade renders loan contracts.
type ContractSvcFacade interface {
	// GenerateContract returns the rendered document and its content type.
	GenerateContract(ctx context.Context, loanID string) ([]byte, string, error)
}
