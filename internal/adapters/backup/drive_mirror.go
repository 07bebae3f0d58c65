package backup

import (
	"context"
	"fmt"
	"os"

	"github.com/SscSPs/banquito_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/banquito_backend/internal/core/ports/repositories"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveMirror uploads every backup to a Google Drive folder using a service account.
// Each upload is a new file named after the backup's creation time.
type DriveMirror struct {
	files    *drive.FilesService
	folderID string
}

// NewDriveMirror reads service account credentials from credentialsFile.
func NewDriveMirror(ctx context.Context, credentialsFile, folderID string) (*DriveMirror, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read drive credentials: %w", err)
	}
	return newDriveMirror(ctx, data, folderID)
}

func newDriveMirror(ctx context.Context, credentialsJSON []byte, folderID string) (*DriveMirror, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, drive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse drive credentials: %w", err)
	}
	srv, err := drive.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive client: %w", err)
	}
	return &DriveMirror{files: srv.Files, folderID: folderID}, nil
}

var _ portsrepo.BackupMirror = (*DriveMirror)(nil)

func (m *DriveMirror) Name() string { return "google-drive" }

func (m *DriveMirror) Upload(ctx context.Context, file domain.BackupFile) error {
	f, err := os.Open(file.Path)
	if err != nil {
		return fmt.Errorf("failed to open backup %s: %w", file.Name, err)
	}
	defer f.Close()

	meta := &drive.File{
		Name:     fmt.Sprintf("%s_%s.zip", baseName, file.ModifiedAt.UTC().Format("20060102T150405Z")),
		MimeType: "application/zip",
	}
	if m.folderID != "" {
		meta.Parents = []string{m.folderID}
	}
	if _, err := m.files.Create(meta).Media(f).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to upload %s to drive: %w", meta.Name, err)
	}
	return nil
}
