// Package lending holds the loan arithmetic: simple interest charged per payment
// period, fixed installments and accrual of interest earned to date.
package lending

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/banquito_backend/internal/apperrors"
	"github.com/SscSPs/banquito_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Limits accepted for new loans.
var (
	MaxPrincipal    = decimal.NewFromInt(1_000_000_000)
	MaxInterestRate = decimal.NewFromInt(1000) // percent per period
)

// MaxTermPeriods caps the number of installments of a single loan.
const MaxTermPeriods = 3650

var hundred = decimal.NewFromInt(100)

type periodSpec struct {
	days   int // accrual basis
	months int // calendar step; zero means the step is `days`
}

var periods = map[domain.PaymentPeriod]periodSpec{
	domain.Daily:      {days: 1},
	domain.Weekly:     {days: 7},
	domain.Biweekly:   {days: 15},
	domain.Monthly:    {days: 30, months: 1},
	domain.Quarterly:  {days: 90, months: 3},
	domain.Semiannual: {days: 180, months: 6},
	domain.Annual:     {days: 360, months: 12},
}

var periodAliases = map[string]domain.PaymentPeriod{
	"DIARIO":     domain.Daily,
	"SEMANAL":    domain.Weekly,
	"QUINCENAL":  domain.Biweekly,
	"MENSUAL":    domain.Monthly,
	"TRIMESTRAL": domain.Quarterly,
	"SEMESTRAL":  domain.Semiannual,
	"ANUAL":      domain.Annual,
}

// ParsePaymentPeriod accepts the canonical names (MONTHLY) and the Spanish labels (Mensual).
func ParsePaymentPeriod(s string) (domain.PaymentPeriod, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	if _, ok := periods[domain.PaymentPeriod(key)]; ok {
		return domain.PaymentPeriod(key), nil
	}
	if p, ok := periodAliases[key]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown payment period '%s'", apperrors.ErrValidation, s)
}

// PeriodDays returns the number of days one period accrues interest over.
func PeriodDays(p domain.PaymentPeriod) (int, error) {
	spec, ok := periods[p]
	if !ok {
		return 0, fmt.Errorf("%w: unknown payment period '%s'", apperrors.ErrValidation, p)
	}
	return spec.days, nil
}

// AdvancePeriods returns start moved forward by n payment periods.
// Calendar periods are computed from start each time and clamp to the last day of a
// shorter month, so a loan started on Jan 31 falls due on Feb 28 (29) then Mar 31.
func AdvancePeriods(start time.Time, p domain.PaymentPeriod, n int) (time.Time, error) {
	spec, ok := periods[p]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: unknown payment period '%s'", apperrors.ErrValidation, p)
	}
	start = DateOnly(start)
	if spec.months > 0 {
		return addMonthsClamped(start, spec.months*n), nil
	}
	return start.AddDate(0, 0, spec.days*n), nil
}

func addMonthsClamped(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	lastDay := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// DateOnly drops the clock part of t, keeping its calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ElapsedDays counts whole calendar days from start to asOf, never negative.
func ElapsedDays(start, asOf time.Time) int {
	d := int(DateOnly(asOf).Sub(DateOnly(start)).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// Terms are the inputs every calculation works from.
type Terms struct {
	Principal    decimal.Decimal
	InterestRate decimal.Decimal // percent per period
	Period       domain.PaymentPeriod
	TermPeriods  int
	StartDate    time.Time
	Precision    int32
}

// TermsOf extracts the calculation terms of a loan, rounding to precision decimals.
func TermsOf(loan domain.Loan, precision int) Terms {
	return Terms{
		Principal:    loan.Principal,
		InterestRate: loan.InterestRate,
		Period:       loan.PaymentPeriod,
		TermPeriods:  loan.TermPeriods,
		StartDate:    loan.StartDate,
		Precision:    int32(precision),
	}
}

// ValidateTerms checks ranges before a loan is stored.
func ValidateTerms(t Terms) error {
	if t.Principal.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: principal must be positive", apperrors.ErrValidation)
	}
	if t.Principal.GreaterThan(MaxPrincipal) {
		return fmt.Errorf("%w: principal exceeds the maximum of %s", apperrors.ErrValidation, MaxPrincipal.String())
	}
	if t.InterestRate.IsNegative() {
		return fmt.Errorf("%w: interest rate cannot be negative", apperrors.ErrValidation)
	}
	if t.InterestRate.GreaterThan(MaxInterestRate) {
		return fmt.Errorf("%w: interest rate exceeds the maximum of %s%%", apperrors.ErrValidation, MaxInterestRate.String())
	}
	if t.TermPeriods < 1 {
		return fmt.Errorf("%w: term must be at least one period", apperrors.ErrValidation)
	}
	if t.TermPeriods > MaxTermPeriods {
		return fmt.Errorf("%w: term exceeds the maximum of %d periods", apperrors.ErrValidation, MaxTermPeriods)
	}
	if t.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", apperrors.ErrValidation)
	}
	if _, ok := periods[t.Period]; !ok {
		return fmt.Errorf("%w: unknown payment period '%s'", apperrors.ErrValidation, t.Period)
	}
	return nil
}

// InterestPerPeriod is the interest charged for a single period: principal × rate / 100.
func InterestPerPeriod(t Terms) decimal.Decimal {
	return t.Principal.Mul(t.InterestRate).Div(hundred).Round(t.Precision)
}

// TotalInterest is the simple interest over the whole term.
func TotalInterest(t Terms) decimal.Decimal {
	return t.Principal.Mul(t.InterestRate).Div(hundred).
		Mul(decimal.NewFromInt(int64(t.TermPeriods))).
		Round(t.Precision)
}

// TotalDue is principal plus total interest.
func TotalDue(t Terms) decimal.Decimal {
	return t.Principal.Add(TotalInterest(t)).Round(t.Precision)
}

// InstallmentAmount is the regular installment: total due split evenly over the term.
func InstallmentAmount(t Terms) decimal.Decimal {
	if t.TermPeriods < 1 {
		return decimal.Zero
	}
	return TotalDue(t).Div(decimal.NewFromInt(int64(t.TermPeriods))).Round(t.Precision)
}

// DueDate is the date of the last installment.
func DueDate(t Terms) (time.Time, error) {
	return AdvancePeriods(t.StartDate, t.Period, t.TermPeriods)
}

// Schedule is the payment plan. Every installment is InstallmentAmount and the last
// one absorbs the rounding difference so the plan sums to TotalDue. When rounding up
// would overshoot the total the amounts are spread by cumulative rounding instead.
func Schedule(t Terms) ([]domain.ScheduleEntry, error) {
	if err := ValidateTerms(t); err != nil {
		return nil, err
	}
	total := TotalDue(t)
	term := decimal.NewFromInt(int64(t.TermPeriods))
	regular := InstallmentAmount(t)
	last := total.Sub(regular.Mul(term.Sub(decimal.NewFromInt(1))))
	spread := !last.IsPositive()

	entries := make([]domain.ScheduleEntry, 0, t.TermPeriods)
	cumulative := decimal.Zero
	for i := 1; i <= t.TermPeriods; i++ {
		due, err := AdvancePeriods(t.StartDate, t.Period, i)
		if err != nil {
			return nil, err
		}
		var amount decimal.Decimal
		switch {
		case spread:
			next := total.Mul(decimal.NewFromInt(int64(i))).Div(term).Round(t.Precision)
			amount = next.Sub(cumulative)
		case i == t.TermPeriods:
			amount = last
		default:
			amount = regular
		}
		cumulative = cumulative.Add(amount)
		entries = append(entries, domain.ScheduleEntry{
			Number:     i,
			DueDate:    due,
			Amount:     amount,
			Cumulative: cumulative,
		})
	}
	return entries, nil
}

// AccruedInterest is the interest earned (ganancia) from the start date up to asOf,
// proportional to elapsed days and capped at the total interest of the loan.
func AccruedInterest(t Terms, asOf time.Time) (decimal.Decimal, error) {
	days, err := PeriodDays(t.Period)
	if err != nil {
		return decimal.Zero, err
	}
	elapsed := decimal.NewFromInt(int64(ElapsedDays(t.StartDate, asOf)))
	accrued := t.Principal.Mul(t.InterestRate).Div(hundred).
		Mul(elapsed).
		Div(decimal.NewFromInt(int64(days)))
	if total := TotalInterest(t); accrued.GreaterThan(total) {
		accrued = total
	}
	return accrued.Round(t.Precision), nil
}

// RemainingBalance is what is still owed; it never goes below zero.
func RemainingBalance(t Terms, paid decimal.Decimal) decimal.Decimal {
	remaining := TotalDue(t).Sub(paid)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// ExpectedPaid is how much should have been paid by asOf according to the schedule.
func ExpectedPaid(schedule []domain.ScheduleEntry, asOf time.Time) decimal.Decimal {
	day := DateOnly(asOf)
	expected := decimal.Zero
	for _, entry := range schedule {
		if entry.DueDate.After(day) {
			break
		}
		expected = entry.Cumulative
	}
	return expected
}

// Status derives the loan state at asOf: PAID once nothing is owed, OVERDUE after the
// due date with a balance left, ACTIVE otherwise.
func Status(t Terms, paid decimal.Decimal, asOf time.Time) (domain.LoanStatus, error) {
	if !RemainingBalance(t, paid).IsPositive() {
		return domain.LoanPaid, nil
	}
	due, err := DueDate(t)
	if err != nil {
		return "", err
	}
	if DateOnly(asOf).After(due) {
		return domain.LoanOverdue, nil
	}
	return domain.LoanActive, nil
}

// ValidatePayment rejects non-positive payments and payments above the remaining balance.
func ValidatePayment(remaining, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: installment amount must be positive", apperrors.ErrValidation)
	}
	if amount.GreaterThan(remaining) {
		return fmt.Errorf("%w: installment amount %s exceeds remaining balance %s", apperrors.ErrValidation, amount.String(), remaining.String())
	}
	return nil
}

// Figures computes every derived amount of a loan at asOf, plus its schedule.
func Figures(loan domain.Loan, precision int, asOf time.Time) (domain.LoanFigures, []domain.ScheduleEntry, error) {
	t := TermsOf(loan, precision)
	schedule, err := Schedule(t)
	if err != nil {
		return domain.LoanFigures{}, nil, err
	}
	accrued, err := AccruedInterest(t, asOf)
	if err != nil {
		return domain.LoanFigures{}, nil, err
	}
	status, err := Status(t, loan.PaidAmount, asOf)
	if err != nil {
		return domain.LoanFigures{}, nil, err
	}
	expected := ExpectedPaid(schedule, asOf)

	figures := domain.LoanFigures{
		InterestPerPeriod: InterestPerPeriod(t),
		TotalInterest:     TotalInterest(t),
		TotalDue:          TotalDue(t),
		InstallmentAmount: InstallmentAmount(t),
		AccruedInterest:   accrued,
		PaidAmount:        loan.PaidAmount,
		RemainingBalance:  RemainingBalance(t, loan.PaidAmount),
		ExpectedPaid:      expected,
		Status:            status,
		IsLate:            status != domain.LoanPaid && loan.PaidAmount.LessThan(expected),
		ElapsedDays:       ElapsedDays(loan.StartDate, asOf),
		AsOf:              DateOnly(asOf),
	}
	return figures, schedule, nil
}
