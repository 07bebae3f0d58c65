package domain

import "time"

// ContractData is everything printed on a loan contract.
type ContractData struct {
	Lender   CompanyProfile
	Borrower Client
	Loan     Loan
	Currency Currency
	Figures  LoanFigures
	Schedule []ScheduleEntry
	IssuedAt time.Time
}
