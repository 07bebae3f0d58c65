package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/banquito_backend/internal/apperrors"
	"github.com/SscSPs/banquito_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/banquito_backend/internal/core/ports/repositories"
	"github.com/SscSPs/banquito_backend/internal/models"
	"github.com/SscSPs/banquito_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// snapshotRepository copies the bookkeeping tables in and out for backups.
// The users table is never touched.
type snapshotRepository struct {
	BaseRepository
}

func newSnapshotRepository(pool *pgxpool.Pool) portsrepo.SnapshotRepository {
	return &snapshotRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SnapshotRepository = (*snapshotRepository)(nil)

// ExportSnapshot reads every table inside one REPEATABLE READ transaction.
func (r *snapshotRepository) ExportSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin snapshot transaction", err)
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	snap := &domain.Snapshot{
		FormatVersion: domain.SnapshotFormatVersion,
		CreatedAt:     time.Now().UTC(),
	}

	profile, err := scanProfile(tx.QueryRow(ctx, `SELECT `+profileColumns+` FROM company_profile WHERE profile_id = $1;`, domain.DefaultProfileID))
	switch {
	case err == nil:
		d := mapping.ToDomainProfile(profile)
		snap.Profile = &d
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("failed to export company profile: %w", err)
	}

	if snap.Currencies, err = exportRows(ctx, tx, `SELECT `+currencyColumns+` FROM currencies ORDER BY currency_code;`,
		scanCurrency, mapping.ToDomainCurrency); err != nil {
		return nil, fmt.Errorf("failed to export currencies: %w", err)
	}
	if snap.ExchangeRates, err = exportRows(ctx, tx, `SELECT `+exchangeRateColumns+` FROM exchange_rates ORDER BY date_effective, exchange_rate_id;`,
		scanExchangeRate, mapping.ToDomainExchangeRate); err != nil {
		return nil, fmt.Errorf("failed to export exchange rates: %w", err)
	}
	if snap.Clients, err = exportRows(ctx, tx, `SELECT `+clientColumns+` FROM clients ORDER BY created_at, client_id;`,
		scanClient, mapping.ToDomainClient); err != nil {
		return nil, fmt.Errorf("failed to export clients: %w", err)
	}
	if snap.Loans, err = exportRows(ctx, tx, `SELECT `+loanColumns+` FROM loans ORDER BY created_at, loan_id;`,
		scanLoan, mapping.ToDomainLoan); err != nil {
		return nil, fmt.Errorf("failed to export loans: %w", err)
	}
	if snap.Installments, err = exportRows(ctx, tx, `SELECT `+installmentColumns+` FROM installments ORDER BY created_at, installment_id;`,
		scanInstallment, mapping.ToDomainInstallment); err != nil {
		return nil, fmt.Errorf("failed to export installments: %w", err)
	}
	return snap, nil
}

func exportRows[M any, D any](ctx context.Context, tx pgx.Tx, query string, scan func(pgx.Row) (M, error), conv func(M) D) ([]D, error) {
	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	ms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (M, error) {
		return scan(row)
	})
	if err != nil {
		return nil, err
	}
	out := make([]D, len(ms))
	for i, m := range ms {
		out[i] = conv(m)
	}
	return out, nil
}

// ImportSnapshot empties the bookkeeping tables and reloads them from the snapshot.
// Either everything is replaced or nothing is.
func (r *snapshotRepository) ImportSnapshot(ctx context.Context, snap domain.Snapshot) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		for _, table := range []string{"installments", "loans", "clients", "exchange_rates", "company_profile", "currencies"} {
			if _, err := tx.Exec(ctx, "DELETE FROM "+table+";"); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		for _, c := range snap.Currencies {
			if err := insertCurrency(ctx, tx, mapping.ToModelCurrency(c)); err != nil {
				return fmt.Errorf("failed to restore currency %s: %w", c.CurrencyCode, err)
			}
		}
		if snap.Profile != nil {
			m := mapping.ToModelProfile(*snap.Profile)
			m.ProfileID = domain.DefaultProfileID
			if err := upsertProfile(ctx, tx, m); err != nil {
				return fmt.Errorf("failed to restore company profile: %w", err)
			}
		}
		for _, er := range snap.ExchangeRates {
			if err := insertExchangeRate(ctx, tx, mapping.ToModelExchangeRate(er)); err != nil {
				return fmt.Errorf("failed to restore exchange rate %s: %w", er.ExchangeRateID, err)
			}
		}
		for _, c := range snap.Clients {
			if err := insertClient(ctx, tx, mapping.ToModelClient(c)); err != nil {
				return fmt.Errorf("failed to restore client %s: %w", c.ClientID, err)
			}
		}
		for _, l := range snap.Loans {
			if err := insertLoan(ctx, tx, mapping.ToModelLoan(l)); err != nil {
				return fmt.Errorf("failed to restore loan %s: %w", l.LoanID, err)
			}
		}
		for _, i := range snap.Installments {
			if err := insertInstallment(ctx, tx, mapping.ToModelInstallment(i)); err != nil {
				return fmt.Errorf("failed to restore installment %s: %w", i.InstallmentID, err)
			}
		}
		return nil
	})
}

func insertCurrency(ctx context.Context, db execer, m models.Currency) error {
	_, err := db.Exec(ctx, `INSERT INTO currencies (`+currencyColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		m.CurrencyCode, m.Symbol, m.Name, m.Precision,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	return err
}

func insertExchangeRate(ctx context.Context, db execer, m models.ExchangeRate) error {
	_, err := db.Exec(ctx, `INSERT INTO exchange_rates (`+exchangeRateColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`,
		m.ExchangeRateID, m.FromCurrencyCode, m.ToCurrencyCode,
		m.Rate, m.DateEffective, m.CreatedAt,
		m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	return err
}
