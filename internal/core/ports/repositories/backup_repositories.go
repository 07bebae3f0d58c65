package repositories

import (
	"context"
	"io"

	"github.com/SscSPs/banquito_backend/internal/core/domain"
)

// SnapshotRepository moves the bookkeeping tables in and out of the database as a whole.
type SnapshotRepository interface {
	// ExportSnapshot reads every table from one consistent view.
	ExportSnapshot(ctx context.Context) (*domain.Snapshot, error)

	// ImportSnapshot replaces every bookkeeping table with the snapshot in one transaction.
	ImportSnapshot(ctx context.Context, snapshot domain.Snapshot) error
}

// BackupStore keeps the rotated backup files.
type BackupStore interface {
	// Save writes the snapshot to a temporary file, verifies it and then rotates it
	// into slot 0, shifting older slots and dropping the oldest.
	Save(ctx context.Context, snapshot domain.Snapshot) (*domain.BackupFile, error)

	// Load reads the snapshot held in a slot.
	Load(ctx context.Context, slot int) (*domain.Snapshot, error)

	// LoadFrom reads a snapshot from an uploaded archive.
	LoadFrom(ctx context.Context, r io.ReaderAt, size int64) (*domain.Snapshot, error)

	// List describes every slot, including the empty ones.
	List(ctx context.Context) ([]domain.BackupFile, error)

	// Open returns the raw archive of a slot for download.
	Open(ctx context.Context, slot int) (io.ReadCloser, *domain.BackupFile, error)
}

// BackupMirror copies a finished backup to a remote location.
type BackupMirror interface {
	Name() string
	Upload(ctx context.Context, file domain.BackupFile) error
}
