package dto

import (
	"time"

	"github.com/SscSPs/banquito_backend/internal/core/domain"
)

// BackupFileResponse describes one backup slot.
type BackupFileResponse struct {
	Slot       int        `json:"slot"`
	Name       string     `json:"name"`
	Exists     bool       `json:"exists"`
	SizeBytes  int64      `json:"sizeBytes"`
	ModifiedAt *time.Time `json:"modifiedAt,omitempty"`
}

// ListBackupsResponse lists every slot, newest first.
type ListBackupsResponse struct {
	Backups []BackupFileResponse `json:"backups"`
}

// RestoreResponse reports what a restore loaded.
type RestoreResponse struct {
	Source        string    `json:"source"`
	CreatedAt     time.Time `json:"createdAt"`
	Clients       int       `json:"clients"`
	Loans         int       `json:"loans"`
	Installments  int       `json:"installments"`
	Currencies    int       `json:"currencies"`
	ExchangeRates int       `json:"exchangeRates"`
}

// ToBackupFileResponse converts a domain.BackupFile to its DTO.
func ToBackupFileResponse(f domain.BackupFile) BackupFileResponse {
	res := BackupFileResponse{Slot: f.Slot, Name: f.Name, Exists: f.Exists, SizeBytes: f.SizeBytes}
	if f.Exists {
		mod := f.ModifiedAt
		res.ModifiedAt = &mod
	}
	return res
}

// ToListBackupsResponse converts every slot.
func ToListBackupsResponse(files []domain.BackupFile) ListBackupsResponse {
	res := ListBackupsResponse{Backups: make([]BackupFileResponse, len(files))}
	for i, f := range files {
		res.Backups[i] = ToBackupFileResponse(f)
	}
	return res
}

// ToRestoreResponse summarises a restored snapshot.
func ToRestoreResponse(source string, s domain.Snapshot) RestoreResponse {
	return RestoreResponse{
		Source:        source,
		CreatedAt:     s.CreatedAt,
		Clients:       len(s.Clients),
		Loans:         len(s.Loans),
		Installments:  len(s.Installments),
		Currencies:    len(s.Currencies),
		ExchangeRates: len(s.ExchangeRates),
	}
}
