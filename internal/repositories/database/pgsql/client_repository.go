package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/banquito_backend/internal/apperrors"
	"github.com/SscSPs/banquito_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/banquito_backend/internal/core/ports/repositories"
	"github.com/SscSPs/banquito_backend/internal/models"
	"github.com/SscSPs/banquito_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	clientColumns = `client_id, first_name, last_name, cedula, phone, address, email, notes, is_active,
	created_at, created_by, last_updated_at, last_updated_by`
	clientCedulaConstraint = "clients_cedula_key"
)

type PgxClientRepository struct {
	BaseRepository
}

func newPgxClientRepository(pool *pgxpool.Pool) portsrepo.ClientRepositoryFacade {
	return &PgxClientRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ClientRepositoryFacade = (*PgxClientRepository)(nil)

func scanClient(row pgx.Row) (models.Client, error) {
	var m models.Client
	err := row.Scan(
		&m.ClientID, &m.FirstName, &m.LastName, &m.Cedula, &m.Phone,
		&m.Address, &m.Email, &m.Notes, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func duplicateCedula(err error, cedula string) error {
	if isViolation(err, uniqueViolation, clientCedulaConstraint) {
		return fmt.Errorf("a client with cédula %s already exists: %w", cedula, apperrors.ErrDuplicate)
	}
	return nil
}

func insertClient(ctx context.Context, db execer, m models.Client) error {
	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := db.Exec(ctx, query,
		m.ClientID, m.FirstName, m.LastName, m.Cedula, m.Phone,
		m.Address, m.Email, m.Notes, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return err
}

func (r *PgxClientRepository) SaveClient(ctx context.Context, client domain.Client) error {
	m := mapping.ToModelClient(client)
	if err := insertClient(ctx, r.Pool, m); err != nil {
		if dup := duplicateCedula(err, m.Cedula); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to save client: %w", err)
	}
	return nil
}

func (r *PgxClientRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE client_id = $1;`
	m, err := scanClient(r.Pool.QueryRow(ctx, query, clientID))
	if err != nil {
		return nil, lookupError(err, "client", clientID)
	}
	d := mapping.ToDomainClient(m)
	return &d, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes % and _ in a search term match literally.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// ListClients matches Query against the full name and the cédula, ignoring case.
// The query is matched as plain text; LIKE wildcards in it are escaped.
func (r *PgxClientRepository) ListClients(ctx context.Context, filter domain.ClientFilter) ([]domain.Client, error) {
	limit, offset := normalizePage(filter.Limit, filter.Offset)
	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE ($1::text = ''
		       OR (first_name || ' ' || last_name) ILIKE '%' || $1 || '%' ESCAPE '\'
		       OR cedula ILIKE '%' || $1 || '%' ESCAPE '\')
		  AND ($2::boolean IS NULL OR is_active = $2)
		ORDER BY last_name, first_name, client_id
		LIMIT $3 OFFSET $4;
	`
	rows, err := r.Pool.Query(ctx, query, escapeLike(strings.TrimSpace(filter.Query)), filter.IsActive, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	ms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Client, error) {
		return scanClient(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan clients: %w", err)
	}
	return mapping.ToDomainClientSlice(ms), nil
}

func (r *PgxClientRepository) UpdateClient(ctx context.Context, client domain.Client) error {
	m := mapping.ToModelClient(client)
	query := `
		UPDATE clients
		SET first_name = $1, last_name = $2, cedula = $3, phone = $4, address = $5,
		    email = $6, notes = $7, is_active = $8, last_updated_at = $9, last_updated_by = $10
		WHERE client_id = $11;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.FirstName, m.LastName, m.Cedula, m.Phone, m.Address,
		m.Email, m.Notes, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy,
		m.ClientID,
	)
	if err != nil {
		if dup := duplicateCedula(err, m.Cedula); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to update client %s: %w", m.ClientID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteClient relies on ON DELETE CASCADE to remove loans and installments.
func (r *PgxClientRepository) DeleteClient(ctx context.Context, clientID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM clients WHERE client_id = $1;`, clientID)
	if err != nil {
		if isViolation(err, invalidTextRepresentation, "") {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to delete client %s: %w", clientID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
