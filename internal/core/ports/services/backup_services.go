package services

import (
	"context"
	"io"

	"github.com/SscSPs/banquito_backend/internal/core/domain"
)

// BackupSvcFacade creates, lists and restores rotated backups.
type BackupSvcFacade interface {
	// CreateBackup snapshots the database into slot 0 and mirrors the file.
	// Backups are serialized; a second call waits for the running one.
	CreateBackup(ctx context.Context) (*domain.BackupFile, error)
	ListBackups(ctx context.Context) ([]domain.BackupFile, error)
	OpenBackup(ctx context.Context, slot int) (io.ReadCloser, *domain.BackupFile, error)
	// RestoreSlot replaces the bookkeeping tables with a slot's snapshot.
	RestoreSlot(ctx context.Context, slot int, userID string) (*domain.Snapshot, error)
	// RestoreUpload replaces the bookkeeping tables with an uploaded archive.
	RestoreUpload(ctx context.Context, r io.ReaderAt, size int64, userID string) (*domain.Snapshot, error)
}
