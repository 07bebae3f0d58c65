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
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const loanColumns = `loan_id, client_id, principal, interest_rate, payment_period, term_periods, start_date, due_date,
	currency_code, status, paid_amount, notes, created_at, created_by, last_updated_at, last_updated_by`

type PgxLoanRepository struct {
	BaseRepository
}

func newPgxLoanRepository(pool *pgxpool.Pool) portsrepo.LoanRepositoryFacade {
	return &PgxLoanRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LoanRepositoryFacade = (*PgxLoanRepository)(nil)

func scanLoan(row pgx.Row) (models.Loan, error) {
	var m models.Loan
	err := row.Scan(
		&m.LoanID, &m.ClientID, &m.Principal, &m.InterestRate, &m.PaymentPeriod,
		&m.TermPeriods, &m.StartDate, &m.DueDate, &m.CurrencyCode, &m.Status,
		&m.PaidAmount, &m.Notes, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func collectLoans(rows pgx.Rows) ([]domain.Loan, error) {
	ms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Loan, error) {
		return scanLoan(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan loans: %w", err)
	}
	return mapping.ToDomainLoanSlice(ms), nil
}

func insertLoan(ctx context.Context, db execer, m models.Loan) error {
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := db.Exec(ctx, query,
		m.LoanID, m.ClientID, m.Principal, m.InterestRate, m.PaymentPeriod,
		m.TermPeriods, m.StartDate, m.DueDate, m.CurrencyCode, m.Status,
		m.PaidAmount, m.Notes, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return err
}

func (r *PgxLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	m := mapping.ToModelLoan(loan)
	if err := insertLoan(ctx, r.Pool, m); err != nil {
		if isViolation(err, foreignKeyViolation, "") {
			return apperrors.NewValidationError("loan references an unknown client or currency")
		}
		return fmt.Errorf("failed to save loan: %w", err)
	}
	return nil
}

func (r *PgxLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1;`
	m, err := scanLoan(r.Pool.QueryRow(ctx, query, loanID))
	if err != nil {
		return nil, lookupError(err, "loan", loanID)
	}
	d := mapping.ToDomainLoan(m)
	return &d, nil
}

func (r *PgxLoanRepository) ListLoans(ctx context.Context, filter domain.LoanFilter) ([]domain.Loan, error) {
	limit, offset := normalizePage(filter.Limit, filter.Offset)
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE ($1::text = '' OR client_id::text = $1)
		  AND ($2::text = '' OR status = $2)
		ORDER BY start_date DESC, created_at DESC
		LIMIT $3 OFFSET $4;
	`
	rows, err := r.Pool.Query(ctx, query, filter.ClientID, string(filter.Status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans: %w", err)
	}
	return collectLoans(rows)
}

func (r *PgxLoanRepository) UpdateLoan(ctx context.Context, loan domain.Loan) error {
	m := mapping.ToModelLoan(loan)
	query := `
		UPDATE loans
		SET principal = $1, interest_rate = $2, payment_period = $3, term_periods = $4,
		    start_date = $5, due_date = $6, currency_code = $7, status = $8, notes = $9,
		    last_updated_at = $10, last_updated_by = $11
		WHERE loan_id = $12;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.Principal, m.InterestRate, m.PaymentPeriod, m.TermPeriods,
		m.StartDate, m.DueDate, m.CurrencyCode, m.Status, m.Notes,
		m.LastUpdatedAt, m.LastUpdatedBy, m.LoanID,
	)
	if err != nil {
		if isViolation(err, foreignKeyViolation, "") {
			return apperrors.NewValidationError("unknown currency " + m.CurrencyCode)
		}
		return fmt.Errorf("failed to update loan %s: %w", m.LoanID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteLoan removes the loan; its installments go with it through the FK cascade.
func (r *PgxLoanRepository) DeleteLoan(ctx context.Context, loanID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM loans WHERE loan_id = $1;`, loanID)
	if err != nil {
		if isViolation(err, invalidTextRepresentation, "") {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to delete loan %s: %w", loanID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxLoanRepository) MarkOverdue(ctx context.Context, asOf time.Time, userID string) (int64, error) {
	query := `
		UPDATE loans
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE status = $4 AND due_date < $5::date;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		string(domain.LoanOverdue), time.Now().UTC(), userID, string(domain.LoanActive), asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue loans: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

// lockLoan reads a loan row with FOR UPDATE inside tx.
func lockLoan(ctx context.Context, tx pgx.Tx, loanID string) (domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1 FOR UPDATE;`
	m, err := scanLoan(tx.QueryRow(ctx, query, loanID))
	if err != nil {
		return domain.Loan{}, lookupError(err, "loan", loanID)
	}
	return mapping.ToDomainLoan(m), nil
}

func updateLoanPayment(ctx context.Context, tx pgx.Tx, loan *domain.Loan, paid decimal.Decimal, status domain.LoanStatus, userID string, at time.Time) error {
	query := `
		UPDATE loans
		SET paid_amount = $1, status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE loan_id = $5;
	`
	if _, err := tx.Exec(ctx, query, paid, string(status), at, userID, loan.LoanID); err != nil {
		return fmt.Errorf("failed to update paid amount of loan %s: %w", loan.LoanID, err)
	}
	loan.PaidAmount = paid
	loan.Status = status
	loan.Touch(userID, at)
	return nil
}
