package services

import (
	portsrepo "github.com/SscSPs/banquito_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/banquito_backend/internal/core/ports/services"
	"github.com/SscSPs/banquito_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.ExchangeRate = NewExchangeRateService(
		repos.ExchangeRateRepo,
		container.Currency,
		WithBaseCurrency(cfg.BaseCurrency),
		WithRateCache(repos.Cache),
	)

	container.User = NewUserService(repos.UserRepo)
	container.TokenService = NewTokenService(cfg)
	container.Profile = NewProfileService(repos.ProfileRepo, container.Currency, cfg.BaseCurrency)

	container.Client = NewClientService(repos.ClientRepo, WithClientCache(repos.Cache))
	container.Loan = NewLoanService(
		repos.LoanRepo,
		repos.ClientRepo,
		repos.InstallmentRepo,
		WithLoanCurrencies(container.Currency, container.ExchangeRate),
		WithLoanBaseCurrency(cfg.BaseCurrency),
		WithLoanCache(repos.Cache),
	)
	container.Installment = NewInstallmentService(
		repos.InstallmentRepo,
		repos.LoanRepo,
		container.Loan,
		WithInstallmentCurrencies(container.Currency),
		WithInstallmentCache(repos.Cache),
	)
	container.Reporting = NewReportingService(
		repos.ReportingRepo,
		repos.ClientRepo,
		repos.LoanRepo,
		container.Loan,
		WithReportingBaseCurrency(cfg.BaseCurrency),
		WithReportingCache(repos.Cache, cfg.CacheTTL),
	)
	container.Contract = NewContractService(repos.LoanRepo, repos.ClientRepo, container.Profile, container.Loan, repos.ContractRenderer)
	container.Backup = NewBackupService(
		repos.SnapshotRepo,
		repos.BackupStore,
		WithBackupMirrors(repos.BackupMirrors...),
		WithBackupCache(repos.Cache),
	)

	return container
}
