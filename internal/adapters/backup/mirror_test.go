package backup

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/banquito_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFTPMirror_Defaults(t *testing.T) {
	m := NewFTPMirror(FTPConfig{Host: "ftp.example.test"})
	assert.Equal(t, "ftp", m.Name())
	assert.Equal(t, 21, m.cfg.Port)
	assert.Equal(t, "/", m.cfg.Dir)
	assert.Equal(t, 15*time.Second, m.cfg.ConnTimeout)
}

func TestFTPMirror_UploadFailsWithoutServer(t *testing.T) {
	ctx := context.Background()
	store, err := NewZipStore(t.TempDir())
	require.NoError(t, err)
	file, err := store.Save(ctx, snapshotAt(time.Now().UTC()))
	require.NoError(t, err)

	// Reserve a port and close it so nothing is listening there.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	m := NewFTPMirror(FTPConfig{Host: "127.0.0.1", Port: port, ConnTimeout: time.Second})
	assert.Error(t, m.Upload(ctx, *file))
}

func TestFTPMirror_UploadMissingFile(t *testing.T) {
	m := NewFTPMirror(FTPConfig{Host: "127.0.0.1"})
	err := m.Upload(context.Background(), domain.BackupFile{Name: "gone.zip", Path: filepath.Join(t.TempDir(), "gone.zip")})
	assert.ErrorContains(t, err, "gone.zip")
}

func TestNewDriveMirror_RejectsBadCredentials(t *testing.T) {
	_, err := newDriveMirror(context.Background(), []byte(`{"type":`), "folder")
	assert.Error(t, err)

	_, err = NewDriveMirror(context.Background(), filepath.Join(t.TempDir(), "missing.json"), "folder")
	assert.ErrorContains(t, err, "drive credentials")
}
