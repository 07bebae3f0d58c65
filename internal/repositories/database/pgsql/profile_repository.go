package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/banquito_backend/internal/apperrors"
	"github.com/SscSPs/banquito_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/banquito_backend/internal/core/ports/repositories"
	"github.com/SscSPs/banquito_backend/internal/models"
	"github.com/SscSPs/banquito_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const profileColumns = `profile_id, business_name, owner_name, cedula, phone, address, city, email, base_currency,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxProfileRepository struct {
	BaseRepository
}

func newPgxProfileRepository(pool *pgxpool.Pool) portsrepo.ProfileRepositoryFacade {
	return &PgxProfileRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ProfileRepositoryFacade = (*PgxProfileRepository)(nil)

func scanProfile(row pgx.Row) (models.CompanyProfile, error) {
	var m models.CompanyProfile
	err := row.Scan(
		&m.ProfileID, &m.BusinessName, &m.OwnerName, &m.Cedula, &m.Phone,
		&m.Address, &m.City, &m.Email, &m.BaseCurrency,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxProfileRepository) FindProfile(ctx context.Context) (*domain.CompanyProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM company_profile WHERE profile_id = $1;`
	m, err := scanProfile(r.Pool.QueryRow(ctx, query, domain.DefaultProfileID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find company profile: %w", err)
	}
	d := mapping.ToDomainProfile(m)
	return &d, nil
}

// SaveProfile upserts the profile row; creation audit fields are kept on update.
func (r *PgxProfileRepository) SaveProfile(ctx context.Context, profile domain.CompanyProfile) error {
	m := mapping.ToModelProfile(profile)
	m.ProfileID = domain.DefaultProfileID
	if err := upsertProfile(ctx, r.Pool, m); err != nil {
		if isViolation(err, foreignKeyViolation, "") {
			return apperrors.NewValidationError("unknown base currency " + m.BaseCurrency)
		}
		return fmt.Errorf("failed to save company profile: %w", err)
	}
	return nil
}

func upsertProfile(ctx context.Context, db execer, m models.CompanyProfile) error {
	query := `
		INSERT INTO company_profile (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (profile_id) DO UPDATE SET
			business_name = EXCLUDED.business_name,
			owner_name = EXCLUDED.owner_name,
			cedula = EXCLUDED.cedula,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			email = EXCLUDED.email,
			base_currency = EXCLUDED.base_currency,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := db.Exec(ctx, query,
		m.ProfileID, m.BusinessName, m.OwnerName, m.Cedula, m.Phone,
		m.Address, m.City, m.Email, m.BaseCurrency,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return err
}
