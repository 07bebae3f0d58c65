package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/banquito_backend/internal/apperrors"
	"github.com/SscSPs/banquito_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/banquito_backend/internal/core/ports/repositories"
	"github.com/SscSPs/banquito_backend/internal/models"
	"github.com/SscSPs/banquito_backend/internal/utils/mapping"
	"github.com/SscSPs/banquito_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const installmentColumns = `installment_id, loan_id, amount, payment_date, notes,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxInstallmentRepository struct {
	BaseRepository
}

func newPgxInstallmentRepository(pool *pgxpool.Pool) portsrepo.InstallmentRepositoryFacade {
	return &PgxInstallmentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InstallmentRepositoryFacade = (*PgxInstallmentRepository)(nil)

func scanInstallment(row pgx.Row) (models.Installment, error) {
	var m models.Installment
	err := row.Scan(
		&m.InstallmentID, &m.LoanID, &m.Amount, &m.PaymentDate, &m.Notes,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func insertInstallment(ctx context.Context, db execer, m models.Installment) error {
	query := `
		INSERT INTO installments (` + installmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := db.Exec(ctx, query,
		m.InstallmentID, m.LoanID, m.Amount, m.PaymentDate, m.Notes,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return err
}

// RecordInstallment locks the loan, lets settle validate the new paid amount and
// writes the payment plus the loan's new paid amount and status together.
func (r *PgxInstallmentRepository) RecordInstallment(ctx context.Context, installment domain.Installment, settle portsrepo.LoanSettler) (*domain.Loan, error) {
	var loan domain.Loan
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		loan, err = lockLoan(ctx, tx, installment.LoanID)
		if err != nil {
			return err
		}
		newPaid := loan.PaidAmount.Add(installment.Amount)
		status, err := settle(loan, newPaid)
		if err != nil {
			return err
		}
		if err := insertInstallment(ctx, tx, mapping.ToModelInstallment(installment)); err != nil {
			return fmt.Errorf("failed to insert installment: %w", err)
		}
		return updateLoanPayment(ctx, tx, &loan, newPaid, status, installment.LastUpdatedBy, installment.LastUpdatedAt)
	})
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// DeleteInstallment removes a payment and gives its amount back to the loan balance.
func (r *PgxInstallmentRepository) DeleteInstallment(ctx context.Context, installmentID, userID string, settle portsrepo.LoanSettler) (*domain.Installment, *domain.Loan, error) {
	var (
		installment domain.Installment
		loan        domain.Loan
	)
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		query := `SELECT ` + installmentColumns + ` FROM installments WHERE installment_id = $1;`
		m, err := scanInstallment(tx.QueryRow(ctx, query, installmentID))
		if err != nil {
			return lookupError(err, "installment", installmentID)
		}
		installment = mapping.ToDomainInstallment(m)

		loan, err = lockLoan(ctx, tx, installment.LoanID)
		if err != nil {
			return err
		}
		newPaid := loan.PaidAmount.Sub(installment.Amount)
		if newPaid.IsNegative() {
			newPaid = decimal.Zero
		}
		status, err := settle(loan, newPaid)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM installments WHERE installment_id = $1;`, installmentID); err != nil {
			return fmt.Errorf("failed to delete installment %s: %w", installmentID, err)
		}
		return updateLoanPayment(ctx, tx, &loan, newPaid, status, userID, time.Now().UTC())
	})
	if err != nil {
		return nil, nil, err
	}
	return &installment, &loan, nil
}

func (r *PgxInstallmentRepository) FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE installment_id = $1;`
	m, err := scanInstallment(r.Pool.QueryRow(ctx, query, installmentID))
	if err != nil {
		return nil, lookupError(err, "installment", installmentID)
	}
	d := mapping.ToDomainInstallment(m)
	return &d, nil
}

// ListInstallmentsByLoan pages with a (payment_date, created_at) cursor. One extra row
// is fetched to know whether another page exists.
func (r *PgxInstallmentRepository) ListInstallmentsByLoan(ctx context.Context, loanID string, limit int, nextToken *string) ([]domain.Installment, *string, error) {
	limit, _ = normalizePage(limit, 0)

	var afterDate, afterCreated *time.Time
	if nextToken != nil && *nextToken != "" {
		d, c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		afterDate, afterCreated = &d, &c
	}

	query := `
		SELECT ` + installmentColumns + `
		FROM installments
		WHERE loan_id = $1
		  AND ($2::date IS NULL OR (payment_date, created_at) < ($2::date, $3::timestamptz))
		ORDER BY payment_date DESC, created_at DESC
		LIMIT $4;
	`
	rows, err := r.Pool.Query(ctx, query, loanID, afterDate, afterCreated, limit+1)
	if err != nil {
		if isViolation(err, invalidTextRepresentation, "") {
			return nil, nil, fmt.Errorf("loan %s: %w", loanID, apperrors.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("failed to query installments: %w", err)
	}
	ms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Installment, error) {
		return scanInstallment(row)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan installments: %w", err)
	}

	var next *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		token := pagination.EncodeToken(last.PaymentDate, last.CreatedAt)
		next = &token
	}
	return mapping.ToDomainInstallmentSlice(ms), next, nil
}

func (r *PgxInstallmentRepository) CountInstallmentsByLoan(ctx context.Context, loanID string) (int, error) {
	var n int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM installments WHERE loan_id = $1;`, loanID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count installments of loan %s: %w", loanID, err)
	}
	return n, nil
}
