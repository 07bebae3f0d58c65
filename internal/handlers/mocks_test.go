package handlers_test

import (
	"context"
	"io"
	"time"

	"github.com/SscSPs/banquito_backend/internal/core/domain"
	portssvc "github.com/SscSPs/banquito_backend/internal/core/ports/services"
	"github.com/SscSPs/banquito_backend/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock LoanService ---
type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) GetLoan(ctx context.Context, loanID string, displayCurrency string) (*domain.LoanDetails, error) {
	args := m.Called(ctx, loanID, displayCurrency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanDetails), args.Error(1)
}
func (m *MockLoanService) ListLoans(ctx context.Context, params dto.ListLoansParams) ([]domain.LoanDetails, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoanDetails), args.Error(1)
}
func (m *MockLoanService) GetSchedule(ctx context.Context, loanID string) ([]domain.ScheduleEntry, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScheduleEntry), args.Error(1)
}
func (m *MockLoanService) Describe(ctx context.Context, loan domain.Loan, asOf time.Time, displayCurrency string) (*domain.LoanDetails, error) {
	args := m.Called(ctx, loan, asOf, displayCurrency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanDetails), args.Error(1)
}
func (m *MockLoanService) CreateLoan(ctx context.Context, req dto.CreateLoanRequest, userID string) (*domain.LoanDetails, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanDetails), args.Error(1)
}
func (m *MockLoanService) UpdateLoan(ctx context.Context, loanID string, req dto.UpdateLoanRequest, userID string) (*domain.LoanDetails, error) {
	args := m.Called(ctx, loanID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanDetails), args.Error(1)
}
func (m *MockLoanService) DeleteLoan(ctx context.Context, loanID string, userID string) error {
	args := m.Called(ctx, loanID, userID)
	return args.Error(0)
}
func (m *MockLoanService) RefreshStatuses(ctx context.Context, asOf time.Time, userID string) (int64, error) {
	args := m.Called(ctx, asOf, userID)
	return args.Get(0).(int64), args.Error(1)
}

var _ portssvc.LoanSvcFacade = (*MockLoanService)(nil)

// --- Mock InstallmentService ---
type MockInstallmentService struct {
	mock.Mock
}

func (m *MockInstallmentService) GetInstallment(ctx context.Context, installmentID string) (*domain.Installment, error) {
	args := m.Called(ctx, installmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}
func (m *MockInstallmentService) ListInstallments(ctx context.Context, loanID string, params dto.ListInstallmentsParams) ([]domain.Installment, *string, error) {
	args := m.Called(ctx, loanID, params)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Installment), next, args.Error(2)
}
func (m *MockInstallmentService) RecordInstallment(ctx context.Context, loanID string, req dto.CreateInstallmentRequest, userID string) (*domain.Installment, *domain.LoanDetails, error) {
	args := m.Called(ctx, loanID, req, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Installment), args.Get(1).(*domain.LoanDetails), args.Error(2)
}
func (m *MockInstallmentService) DeleteInstallment(ctx context.Context, installmentID string, userID string) (*domain.LoanDetails, error) {
	args := m.Called(ctx, installmentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanDetails), args.Error(1)
}

var _ portssvc.InstallmentSvcFacade = (*MockInstallmentService)(nil)

// --- Mock CurrencyService ---
type MockCurrencyService struct {
	mock.Mock
}

func (m *MockCurrencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}
func (m *MockCurrencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}
func (m *MockCurrencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

var _ portssvc.CurrencySvcFacade = (*MockCurrencyService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) GetPortfolioSummary(ctx context.Context, currencyCode string, asOf time.Time) (*domain.PortfolioSummary, error) {
	args := m.Called(ctx, currencyCode, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PortfolioSummary), args.Error(1)
}
func (m *MockReportingService) GetClientStatement(ctx context.Context, clientID string, currencyCode string) (*domain.ClientStatement, error) {
	args := m.Called(ctx, clientID, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClientStatement), args.Error(1)
}
func (m *MockReportingService) InvalidateSummaries(ctx context.Context) {
	m.Called(ctx)
}

var _ portssvc.ReportingSvcFacade = (*MockReportingService)(nil)

// --- Mock ContractService ---
type MockContractService struct {
	mock.Mock
}

func (m *MockContractService) GenerateContract(ctx context.Context, loanID string) ([]byte, string, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

var _ portssvc.ContractSvcFacade = (*MockContractService)(nil)

// --- Mock BackupService ---
type MockBackupService struct {
	mock.Mock
}

func (m *MockBackupService) CreateBackup(ctx context.Context) (*domain.BackupFile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BackupFile), args.Error(1)
}
func (m *MockBackupService) ListBackups(ctx context.Context) ([]domain.BackupFile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BackupFile), args.Error(1)
}
func (m *MockBackupService) OpenBackup(ctx context.Context, slot int) (io.ReadCloser, *domain.BackupFile, error) {
	args := m.Called(ctx, slot)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*domain.BackupFile), args.Error(2)
}
func (m *MockBackupService) RestoreSlot(ctx context.Context, slot int, userID string) (*domain.Snapshot, error) {
	args := m.Called(ctx, slot, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Snapshot), args.Error(1)
}
func (m *MockBackupService) RestoreUpload(ctx context.Context, r io.ReaderAt, size int64, userID string) (*domain.Snapshot, error) {
	args := m.Called(ctx, r, size, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Snapshot), args.Error(1)
}

var _ portssvc.BackupSvcFacade = (*MockBackupService)(nil)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Mock TokenService ---
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

var _ portssvc.TokenSvcFacade = (*MockTokenService)(nil)
