package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/SscSPs/banquito_backend/internal/apperrors"
	"github.com/SscSPs/banquito_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/banquito_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/banquito_backend/internal/core/ports/services"
)

type backupService struct {
	BaseService
	snapshots portsrepo.SnapshotRepository
	store     portsrepo.BackupStore
	mirrors   []portsrepo.BackupMirror
	summaries *summaryCache

	// mu serializes backups and restores.
	mu sync.Mutex
}

// BackupServiceOption is a functional option for configuring the backup service
type BackupServiceOption func(*backupService)

// WithBackupMirrors uploads every new backup to the given mirrors.
func WithBackupMirrors(mirrors ...portsrepo.BackupMirror) BackupServiceOption {
	return func(s *backupService) {
		s.mirrors = append(s.mirrors, mirrors...)
	}
}

// WithBackupCache invalidates cached summaries after a restore.
func WithBackupCache(cache portsrepo.Cache) BackupServiceOption {
	return func(s *backupService) {
		s.summaries = newSummaryCache(cache, 0)
	}
}

// NewBackupService creates the backup service.
func NewBackupService(snapshots portsrepo.SnapshotRepository, store portsrepo.BackupStore, options ...BackupServiceOption) portssvc.BackupSvcFacade {
	svc := &backupService{snapshots: snapshots, store: store}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.BackupSvcFacade = (*backupService)(nil)

func checkSlot(slot int) error {
	if slot < 0 || slot >= domain.BackupSlots {
		return fmt.Errorf("%w: backup slot must be between 0 and %d", apperrors.ErrValidation, domain.BackupSlots-1)
	}
	return nil
}

func (s *backupService) CreateBackup(ctx context.Context) (*domain.BackupFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.snapshots.ExportSnapshot(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to export snapshot")
		return nil, fmt.Errorf("failed to export snapshot: %w", err)
	}
	file, err := s.store.Save(ctx, *snapshot)
	if err != nil {
		s.LogError(ctx, err, "Failed to write backup")
		return nil, fmt.Errorf("failed to write backup: %w", err)
	}
	s.LogInfo(ctx, "Backup written",
		slog.String("file", file.Name),
		slog.Int64("size_bytes", file.SizeBytes),
		slog.Int("clients", len(snapshot.Clients)),
		slog.Int("loans", len(snapshot.Loans)))

	for _, mirror := range s.mirrors {
		if err := mirror.Upload(ctx, *file); err != nil {
			s.LogError(ctx, err, "Backup mirror upload failed", slog.String("mirror", mirror.Name()))
			continue
		}
		s.LogInfo(ctx, "Backup mirrored", slog.String("mirror", mirror.Name()), slog.String("file", file.Name))
	}
	return file, nil
}

func (s *backupService) ListBackups(ctx context.Context) ([]domain.BackupFile, error) {
	files, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}
	return files, nil
}

func (s *backupService) OpenBackup(ctx context.Context, slot int) (io.ReadCloser, *domain.BackupFile, error) {
	if err := checkSlot(slot); err != nil {
		return nil, nil, err
	}
	return s.store.Open(ctx, slot)
}

func (s *backupService) RestoreSlot(ctx context.Context, slot int, userID string) (*domain.Snapshot, error) {
	if err := checkSlot(slot); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.store.Load(ctx, slot)
	if err != nil {
		s.LogError(ctx, err, "Failed to read backup", slog.Int("slot", slot))
		return nil, fmt.Errorf("failed to read backup slot %d: %w", slot, err)
	}
	return s.restore(ctx, snapshot, fmt.Sprintf("slot %d", slot), userID)
}

func (s *backupService) RestoreUpload(ctx context.Context, r io.ReaderAt, size int64, userID string) (*domain.Snapshot, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: uploaded backup is empty", apperrors.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.store.LoadFrom(ctx, r, size)
	if err != nil {
		s.LogError(ctx, err, "Failed to read uploaded backup")
		return nil, fmt.Errorf("failed to read uploaded backup: %w", err)
	}
	return s.restore(ctx, snapshot, "upload", userID)
}

func (s *backupService) restore(ctx context.Context, snapshot *domain.Snapshot, source, userID string) (*domain.Snapshot, error) {
	if err := s.snapshots.ImportSnapshot(ctx, *snapshot); err != nil {
		s.LogError(ctx, err, "Failed to restore backup", slog.String("source", source))
		return nil, fmt.Errorf("failed to restore backup: %w", err)
	}
	s.summaries.invalidate(ctx)
	s.LogInfo(ctx, "Backup restored",
		slog.String("source", source),
		slog.String("user_id", userID),
		slog.Time("backup_created_at", snapshot.CreatedAt),
		slog.Int("clients", len(snapshot.Clients)),
		slog.Int("loans", len(snapshot.Loans)),
		slog.Int("installments", len(snapshot.Installments)))
	return snapshot, nil
}
