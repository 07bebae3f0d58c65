package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/banquito_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/banquito_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

func (r *reportingRepository) CountClients(ctx context.Context) (int, error) {
	var n int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count clients: %w", err)
	}
	return n, nil
}

func (r *reportingRepository) ListPortfolioLoans(ctx context.Context) ([]domain.Loan, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+loanColumns+` FROM loans ORDER BY start_date, created_at;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio loans: %w", err)
	}
	return collectLoans(rows)
}
