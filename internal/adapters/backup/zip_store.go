// Package backup keeps rotated zip backups of the bookkeeping data on disk and copies
// them to optional remote mirrors.
package backup

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/SscSPs/banquito_backend/internal/apperrors"
	"github.com/SscSPs/banquito_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/banquito_backend/internal/core/ports/repositories"
)

const (
	// EntryName is the SQLite file stored inside every backup archive.
	EntryName = "banquito.db"

	baseName = "banquito_backup"
	tempName = baseName + ".tmp"

	// DefaultMaxEntryBytes caps how large banquito.db may inflate to during a restore.
	DefaultMaxEntryBytes int64 = 512 << 20
)

// ErrInvalidBackup is returned for archives that are not readable backups.
var ErrInvalidBackup = apperrors.NewValidationError("invalid backup archive")

// SlotName returns the file name of a rotation slot: banquito_backup.zip for the
// current backup, banquito_backup_N.zip for older ones.
func SlotName(slot int) string {
	if slot == 0 {
		return baseName + ".zip"
	}
	return fmt.Sprintf("%s_%d.zip", baseName, slot)
}

// ZipStore writes backups into a directory with a fixed number of rotation slots.
type ZipStore struct {
	dir           string
	now           func() time.Time
	maxEntryBytes int64
}

// NewZipStore creates the backup directory if needed.
func NewZipStore(dir string) (*ZipStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create backup directory %s: %w", dir, err)
	}
	return &ZipStore{dir: dir, now: time.Now, maxEntryBytes: DefaultMaxEntryBytes}, nil
}

var _ portsrepo.BackupStore = (*ZipStore)(nil)

func (s *ZipStore) slotPath(slot int) string {
	return filepath.Join(s.dir, SlotName(slot))
}

func (s *ZipStore) Save(ctx context.Context, snapshot domain.Snapshot) (*domain.BackupFile, error) {
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = s.now()
	}
	if snapshot.FormatVersion == 0 {
		snapshot.FormatVersion = domain.SnapshotFormatVersion
	}

	work, err := os.MkdirTemp(s.dir, "work-")
	if err != nil {
		return nil, fmt.Errorf("failed to create backup work directory: %w", err)
	}
	defer os.RemoveAll(work)

	dbPath := filepath.Join(work, EntryName)
	if err := writeSnapshotDB(ctx, dbPath, snapshot); err != nil {
		return nil, err
	}

	tmp := filepath.Join(s.dir, tempName)
	if err := zipFile(tmp, dbPath, EntryName); err != nil {
		os.Remove(tmp)
		return nil, err
	}
	info, err := os.Stat(tmp)
	if err != nil {
		return nil, fmt.Errorf("backup file was not written: %w", err)
	}
	if info.Size() == 0 {
		os.Remove(tmp)
		return nil, fmt.Errorf("backup file %s is empty", tmp)
	}

	if err := s.rotate(tmp); err != nil {
		return nil, err
	}
	return s.describe(0)
}

// rotate drops the oldest slot, shifts the others down by one and moves tmp into slot 0.
func (s *ZipStore) rotate(tmp string) error {
	oldest := s.slotPath(domain.BackupSlots - 1)
	if err := os.Remove(oldest); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to drop oldest backup: %w", err)
	}
	for slot := domain.BackupSlots - 2; slot >= 0; slot-- {
		err := os.Rename(s.slotPath(slot), s.slotPath(slot+1))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to rotate backup slot %d: %w", slot, err)
		}
	}
	if err := os.Rename(tmp, s.slotPath(0)); err != nil {
		return fmt.Errorf("failed to move new backup into place: %w", err)
	}
	return nil
}

func zipFile(dst, src, entry string) (err error) {
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create backup archive: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close backup archive: %w", cerr)
		}
	}()

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open backup database: %w", err)
	}
	defer in.Close()

	zw := zip.NewWriter(out)
	w, err := zw.CreateHeader(&zip.FileHeader{Name: entry, Method: zip.Deflate, Modified: time.Now()})
	if err != nil {
		return fmt.Errorf("failed to add %s to archive: %w", entry, err)
	}
	if _, err = io.Copy(w, in); err != nil {
		return fmt.Errorf("failed to compress backup database: %w", err)
	}
	if err = zw.Close(); err != nil {
		return fmt.Errorf("failed to finish backup archive: %w", err)
	}
	return nil
}

func (s *ZipStore) describe(slot int) (*domain.BackupFile, error) {
	path := s.slotPath(slot)
	file := &domain.BackupFile{Slot: slot, Name: SlotName(slot), Path: path}
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return file, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat backup %s: %w", file.Name, err)
	}
	file.Exists = true
	file.SizeBytes = info.Size()
	file.ModifiedAt = info.ModTime()
	return file, nil
}

func (s *ZipStore) existing(slot int) (*domain.BackupFile, error) {
	file, err := s.describe(slot)
	if err != nil {
		return nil, err
	}
	if !file.Exists || file.SizeBytes == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("backup %s does not exist", file.Name))
	}
	return file, nil
}

func (s *ZipStore) Load(ctx context.Context, slot int) (*domain.Snapshot, error) {
	file, err := s.existing(slot)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(file.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup %s: %w", file.Name, err)
	}
	defer f.Close()
	return s.LoadFrom(ctx, f, file.SizeBytes)
}

func (s *ZipStore) LoadFrom(ctx context.Context, r io.ReaderAt, size int64) (*domain.Snapshot, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: archive is empty", ErrInvalidBackup)
	}
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	var entry *zip.File
	for _, f := range zr.File {
		if f.Name == EntryName {
			entry = f
			break
		}
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: %s not found in archive", ErrInvalidBackup, EntryName)
	}
	if entry.UncompressedSize64 > uint64(s.maxEntryBytes) {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrInvalidBackup, EntryName, s.maxEntryBytes)
	}

	work, err := os.MkdirTemp(s.dir, "restore-")
	if err != nil {
		return nil, fmt.Errorf("failed to create restore work directory: %w", err)
	}
	defer os.RemoveAll(work)

	dbPath := filepath.Join(work, EntryName)
	if err := extract(entry, dbPath, s.maxEntryBytes); err != nil {
		return nil, err
	}
	return readSnapshotDB(ctx, dbPath)
}

// extract copies the entry to dst, reading at most limit bytes whatever the
// archive header claims.
func extract(entry *zip.File, dst string, limit int64) (err error) {
	rc, err := entry.Open()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	defer rc.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create restore file: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close restore file: %w", cerr)
		}
	}()

	n, err := io.Copy(out, io.LimitReader(rc, limit+1))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if n > limit {
		return fmt.Errorf("%w: %s exceeds %d bytes", ErrInvalidBackup, EntryName, limit)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s is empty", ErrInvalidBackup, EntryName)
	}
	return nil
}

func (s *ZipStore) List(ctx context.Context) ([]domain.BackupFile, error) {
	files := make([]domain.BackupFile, 0, domain.BackupSlots)
	for slot := 0; slot < domain.BackupSlots; slot++ {
		file, err := s.describe(slot)
		if err != nil {
			return nil, err
		}
		files = append(files, *file)
	}
	return files, nil
}

func (s *ZipStore) Open(ctx context.Context, slot int) (io.ReadCloser, *domain.BackupFile, error) {
	file, err := s.existing(slot)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(file.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open backup %s: %w", file.Name, err)
	}
	return f, file, nil
}
