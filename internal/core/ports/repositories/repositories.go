package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	ClientRepo       ClientRepositoryFacade
	LoanRepo         LoanRepositoryFacade
	InstallmentRepo  InstallmentRepositoryFacade
	CurrencyRepo     CurrencyRepositoryFacade
	ExchangeRateRepo ExchangeRateRepositoryFacade
	UserRepo         UserRepositoryFacade
	ProfileRepo      ProfileRepositoryFacade
	ReportingRepo    ReportingRepository
	SnapshotRepo     SnapshotRepository

	// Non-database adapters.
	Cache            Cache
	BackupStore      BackupStore
	BackupMirrors    []BackupMirror
	ContractRenderer ContractRenderer
}
