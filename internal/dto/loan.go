package dto

import (
	"time"

	"github.com/SscSPs/banquito_backend/internal/core/domain"
	"github.com/SscSPs/banquito_backend/internal/utils"
	"github.com/shopspring/decimal"
)

// CreateLoanRequest defines the data needed to grant a loan.
// InterestRate is the percentage charged per payment period.
type CreateLoanRequest struct {
	ClientID      string          `json:"clientID" binding:"required,uuid"`
	Principal     decimal.Decimal `json:"principal" binding:"required"`
	InterestRate  decimal.Decimal `json:"interestRate"`
	PaymentPeriod string          `json:"paymentPeriod" binding:"required,payment_period"`
	TermPeriods   int             `json:"termPeriods" binding:"required,min=1,max=3650"`
	StartDate     string          `json:"startDate" binding:"required,datetime=2006-01-02"`
	CurrencyCode  string          `json:"currencyCode" binding:"omitempty,len=3,uppercase"`
	Notes         string          `json:"notes" binding:"omitempty,max=2000"`
}

// UpdateLoanRequest carries the loan fields to change. Terms can only change while
// the loan has no installments; notes can always change.
type UpdateLoanRequest struct {
	Principal     *decimal.Decimal `json:"principal"`
	InterestRate  *decimal.Decimal `json:"interestRate"`
	PaymentPeriod *string          `json:"paymentPeriod" binding:"omitempty,payment_period"`
	TermPeriods   *int             `json:"termPeriods" binding:"omitempty,min=1,max=3650"`
	StartDate     *string          `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	CurrencyCode  *string          `json:"currencyCode" binding:"omitempty,len=3,uppercase"`
	Notes         *string          `json:"notes" binding:"omitempty,max=2000"`
}

// HasTermChanges reports whether the request touches anything other than notes.
func (r UpdateLoanRequest) HasTermChanges() bool {
	return r.Principal != nil || r.InterestRate != nil || r.PaymentPeriod != nil ||
		r.TermPeriods != nil || r.StartDate != nil || r.CurrencyCode != nil
}

// ListLoansParams are the query parameters of the loan listing.
type ListLoansParams struct {
	ClientID string `form:"clientID" binding:"omitempty,uuid"`
	Status   string `form:"status" binding:"omitempty,oneof=ACTIVE PAID OVERDUE"`
	Currency string `form:"currency" binding:"omitempty,len=3"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset   int    `form:"offset" binding:"omitempty,min=0"`
}

// DisplayParams selects the currency amounts are shown in.
type DisplayParams struct {
	Currency string `form:"currency" binding:"omitempty,len=3"`
}

// LoanFiguresResponse are the computed amounts of a loan, raw and formatted.
type LoanFiguresResponse struct {
	InterestPerPeriod decimal.Decimal   `json:"interestPerPeriod"`
	TotalInterest     decimal.Decimal   `json:"totalInterest"`
	TotalDue          decimal.Decimal   `json:"totalDue"`
	InstallmentAmount decimal.Decimal   `json:"installmentAmount"`
	AccruedInterest   decimal.Decimal   `json:"accruedInterest"`
	PaidAmount        decimal.Decimal   `json:"paidAmount"`
	RemainingBalance  decimal.Decimal   `json:"remainingBalance"`
	ExpectedPaid      decimal.Decimal   `json:"expectedPaid"`
	Status            string            `json:"status"`
	IsLate            bool              `json:"isLate"`
	ElapsedDays       int               `json:"elapsedDays"`
	AsOf              string            `json:"asOf"`
	Formatted         map[string]string `json:"formatted"`
}

// ScheduleEntryResponse is one expected installment.
type ScheduleEntryResponse struct {
	Number     int             `json:"number"`
	DueDate    string          `json:"dueDate"`
	Amount     decimal.Decimal `json:"amount"`
	Cumulative decimal.Decimal `json:"cumulative"`
}

// DisplayFiguresResponse are the main amounts in the requested display currency.
type DisplayFiguresResponse struct {
	CurrencyCode     string            `json:"currencyCode"`
	Rate             decimal.Decimal   `json:"rate"`
	Principal        decimal.Decimal   `json:"principal"`
	TotalDue         decimal.Decimal   `json:"totalDue"`
	PaidAmount       decimal.Decimal   `json:"paidAmount"`
	RemainingBalance decimal.Decimal   `json:"remainingBalance"`
	AccruedInterest  decimal.Decimal   `json:"accruedInterest"`
	Formatted        map[string]string `json:"formatted"`
}

// LoanResponse defines the data returned for a loan.
type LoanResponse struct {
	LoanID        string                  `json:"loanID"`
	ClientID      string                  `json:"clientID"`
	Principal     decimal.Decimal         `json:"principal"`
	InterestRate  decimal.Decimal         `json:"interestRate"`
	PaymentPeriod string                  `json:"paymentPeriod"`
	TermPeriods   int                     `json:"termPeriods"`
	StartDate     string                  `json:"startDate"`
	DueDate       string                  `json:"dueDate"`
	CurrencyCode  string                  `json:"currencyCode"`
	Status        string                  `json:"status"`
	Notes         string                  `json:"notes"`
	Figures       LoanFiguresResponse     `json:"figures"`
	Schedule      []ScheduleEntryResponse `json:"schedule,omitempty"`
	Display       *DisplayFiguresResponse `json:"display,omitempty"`
	CreatedAt     time.Time               `json:"createdAt"`
	CreatedBy     string                  `json:"createdBy"`
	LastUpdatedAt time.Time               `json:"lastUpdatedAt"`
	LastUpdatedBy string                  `json:"lastUpdatedBy"`
}

// ListLoansResponse wraps a page of loans.
type ListLoansResponse struct {
	Loans []LoanResponse `json:"loans"`
}

// RefreshStatusResponse reports how many loans were marked overdue.
type RefreshStatusResponse struct {
	AsOf    string `json:"asOf"`
	Updated int64  `json:"updated"`
}

// ToScheduleResponse converts a payment plan.
func ToScheduleResponse(entries []domain.ScheduleEntry) []ScheduleEntryResponse {
	res := make([]ScheduleEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = ScheduleEntryResponse{
			Number:     e.Number,
			DueDate:    e.DueDate.Format(DateLayout),
			Amount:     e.Amount,
			Cumulative: e.Cumulative,
		}
	}
	return res
}

// ToLoanResponse converts loan details, formatting amounts in the loan currency.
func ToLoanResponse(d domain.LoanDetails) LoanResponse {
	l, f := d.Loan, d.Figures
	res := LoanResponse{
		LoanID:        l.LoanID,
		ClientID:      l.ClientID,
		Principal:     l.Principal,
		InterestRate:  l.InterestRate,
		PaymentPeriod: string(l.PaymentPeriod),
		TermPeriods:   l.TermPeriods,
		StartDate:     l.StartDate.Format(DateLayout),
		DueDate:       l.DueDate.Format(DateLayout),
		CurrencyCode:  l.CurrencyCode,
		Status:        string(f.Status),
		Notes:         l.Notes,
		Figures: LoanFiguresResponse{
			InterestPerPeriod: f.InterestPerPeriod,
			TotalInterest:     f.TotalInterest,
			TotalDue:          f.TotalDue,
			InstallmentAmount: f.InstallmentAmount,
			AccruedInterest:   f.AccruedInterest,
			PaidAmount:        f.PaidAmount,
			RemainingBalance:  f.RemainingBalance,
			ExpectedPaid:      f.ExpectedPaid,
			Status:            string(f.Status),
			IsLate:            f.IsLate,
			ElapsedDays:       f.ElapsedDays,
			AsOf:              f.AsOf.Format(DateLayout),
			Formatted: map[string]string{
				"principal":         utils.FormatMoney(l.Principal, d.Currency),
				"totalDue":          utils.FormatMoney(f.TotalDue, d.Currency),
				"installmentAmount": utils.FormatMoney(f.InstallmentAmount, d.Currency),
				"accruedInterest":   utils.FormatMoney(f.AccruedInterest, d.Currency),
				"paidAmount":        utils.FormatMoney(f.PaidAmount, d.Currency),
				"remainingBalance":  utils.FormatMoney(f.RemainingBalance, d.Currency),
			},
		},
		CreatedAt:     l.CreatedAt,
		CreatedBy:     l.CreatedBy,
		LastUpdatedAt: l.LastUpdatedAt,
		LastUpdatedBy: l.LastUpdatedBy,
	}
	if len(d.Schedule) > 0 {
		res.Schedule = ToScheduleResponse(d.Schedule)
	}
	if d.Display != nil {
		dp := d.Display
		res.Display = &DisplayFiguresResponse{
			CurrencyCode:     dp.Currency.CurrencyCode,
			Rate:             dp.Rate,
			Principal:        dp.Principal,
			TotalDue:         dp.TotalDue,
			PaidAmount:       dp.PaidAmount,
			RemainingBalance: dp.RemainingBalance,
			AccruedInterest:  dp.AccruedInterest,
			Formatted: map[string]string{
				"principal":        utils.FormatMoney(dp.Principal, dp.Currency),
				"totalDue":         utils.FormatMoney(dp.TotalDue, dp.Currency),
				"paidAmount":       utils.FormatMoney(dp.PaidAmount, dp.Currency),
				"remainingBalance": utils.FormatMoney(dp.RemainingBalance, dp.Currency),
				"accruedInterest":  utils.FormatMoney(dp.AccruedInterest, dp.Currency),
			},
		}
	}
	return res
}

// ToListLoansResponse converts loans to their DTOs.
func ToListLoansResponse(loans []domain.LoanDetails) ListLoansResponse {
	res := ListLoansResponse{Loans: make([]LoanResponse, len(loans))}
	for i, l := range loans {
		res.Loans[i] = ToLoanResponse(l)
	}
	return res
}
