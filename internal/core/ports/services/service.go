package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Client       ClientSvcFacade
	Loan         LoanSvcFacade
	Installment  InstallmentSvcFacade
	Currency     CurrencySvcFacade
	ExchangeRate ExchangeRateSvcFacade
	User         UserSvcFacade
	TokenService TokenSvcFacade
	Profile      ProfileSvcFacade
	Reporting    ReportingSvcFacade
	Contract     ContractSvcFacade
	Backup       BackupSvcFacade
}
