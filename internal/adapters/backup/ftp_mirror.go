package backup

import (
	"context"
	"fmt"
	"net"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/SscSPs/banquito_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/banquito_backend/internal/core/ports/repositories"
	"github.com/jlaffaye/ftp"
)

// FTPConfig locates the FTP server backups are copied to.
type FTPConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	Dir         string
	ConnTimeout time.Duration
}

// FTPMirror uploads the current backup to an FTP server, overwriting the previous copy.
type FTPMirror struct {
	cfg FTPConfig
}

// NewFTPMirror returns a mirror for cfg. Port defaults to 21 and Dir to the login directory.
func NewFTPMirror(cfg FTPConfig) *FTPMirror {
	if cfg.Port == 0 {
		cfg.Port = 21
	}
	if cfg.Dir == "" {
		cfg.Dir = "/"
	}
	if cfg.ConnTimeout == 0 {
		cfg.ConnTimeout = 15 * time.Second
	}
	return &FTPMirror{cfg: cfg}
}

var _ portsrepo.BackupMirror = (*FTPMirror)(nil)

func (m *FTPMirror) Name() string { return "ftp" }

func (m *FTPMirror) connect(ctx context.Context) (*ftp.ServerConn, error) {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	c, err := ftp.Dial(addr, ftp.DialWithTimeout(m.cfg.ConnTimeout), ftp.DialWithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ftp server %s: %w", addr, err)
	}
	if err := c.Login(m.cfg.User, m.cfg.Password); err != nil {
		_ = c.Quit()
		return nil, fmt.Errorf("failed to log in to ftp server %s: %w", addr, err)
	}
	return c, nil
}

// Upload stores the file under a temporary name and renames it once complete so a
// failed transfer never replaces the last good copy.
func (m *FTPMirror) Upload(ctx context.Context, file domain.BackupFile) error {
	f, err := os.Open(file.Path)
	if err != nil {
		return fmt.Errorf("failed to open backup %s: %w", file.Name, err)
	}
	defer f.Close()

	c, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer c.Quit()

	target := path.Join(m.cfg.Dir, file.Name)
	partial := target + ".part"
	if err := c.Stor(partial, f); err != nil {
		return fmt.Errorf("failed to upload %s: %w", partial, err)
	}
	// Some servers refuse to rename onto an existing file.
	_ = c.Delete(target)
	if err := c.Rename(partial, target); err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", partial, target, err)
	}
	return nil
}
