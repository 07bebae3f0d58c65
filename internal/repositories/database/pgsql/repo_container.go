package pgsql

import (
	portsrepo "github.com/SscSPs/banquito_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ClientRepo:       newPgxClientRepository(dbPool),
		LoanRepo:         newPgxLoanRepository(dbPool),
		InstallmentRepo:  newPgxInstallmentRepository(dbPool),
		CurrencyRepo:     newPgxCurrencyRepository(dbPool),
		ExchangeRateRepo: newPgxExchangeRateRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
		ProfileRepo:      newPgxProfileRepository(dbPool),
		ReportingRepo:    newReportingRepository(dbPool),
		SnapshotRepo:     newSnapshotRepository(dbPool),
	}
}
