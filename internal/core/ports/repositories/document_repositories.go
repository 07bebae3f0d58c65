package repositories

import (
	"io"

	"github.com/SscSPs/banquito_backend/internal/core/domain"
)

// ContractRenderer writes a printable loan contract.
type ContractRenderer interface {
	ContentType() string
	Render(w io.Writer, data domain.ContractData) error
}
