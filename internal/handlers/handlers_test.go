package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/banquito_backend/internal/apperrors"
	"github.com/SscSPs/banquito_backend/internal/core/domain"
	portssvc "github.com/SscSPs/banquito_backend/internal/core/ports/services"
	"github.com/SscSPs/banquito_backend/internal/dto"
	"github.com/SscSPs/banquito_backend/internal/handlers"
	"github.com/SscSPs/banquito_backend/internal/platform/config"
	"github.com/SscSPs/banquito_backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testSecret = "test-secret-key-that-is-long-enough"
	testIssuer = "banquito-test"
	testUserID = "11111111-2222-3333-4444-555555555555"
)

type HandlerTestSuite struct {
	suite.Suite
	router *gin.Engine

	loans        *MockLoanService
	installments *MockInstallmentService
	currencies   *MockCurrencyService
	reporting    *MockReportingService
	contracts    *MockContractService
	backups      *MockBackupService
	users        *MockUserService
	tokens       *MockTokenService
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	suite.loans = new(MockLoanService)
	suite.installments = new(MockInstallmentService)
	suite.currencies = new(MockCurrencyService)
	suite.reporting = new(MockReportingService)
	suite.contracts = new(MockContractService)
	suite.backups = new(MockBackupService)
	suite.users = new(MockUserService)
	suite.tokens = new(MockTokenService)

	cfg := &config.Config{
		IsProduction:       true,
		JWTSecret:          testSecret,
		JWTIssuer:          testIssuer,
		LoginRateLimit:     "100-M",
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}
	services := &portssvc.ServiceContainer{
		Loan:         suite.loans,
		Installment:  suite.installments,
		Currency:     suite.currencies,
		Reporting:    suite.reporting,
		Contract:     suite.contracts,
		Backup:       suite.backups,
		User:         suite.users,
		TokenService: suite.tokens,
	}
	suite.Require().NoError(handlers.RegisterRoutes(suite.router, cfg, services))
}

func (suite *HandlerTestSuite) TearDownTest() {
	suite.loans.AssertExpectations(suite.T())
	suite.installments.AssertExpectations(suite.T())
	suite.currencies.AssertExpectations(suite.T())
	suite.reporting.AssertExpectations(suite.T())
	suite.contracts.AssertExpectations(suite.T())
	suite.backups.AssertExpectations(suite.T())
	suite.users.AssertExpectations(suite.T())
	suite.tokens.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) token() string {
	token, _, err := utils.GenerateJWT(testUserID, "prestamista", testSecret, time.Hour, testIssuer)
	suite.Require().NoError(err)
	return token
}

func (suite *HandlerTestSuite) do(method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req, err := http.NewRequest(method, path, body)
	suite.Require().NoError(err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Authorization", "Bearer "+suite.token())
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) doJSON(method, path string, payload any) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		suite.Require().NoError(err)
		body = bytes.NewReader(raw)
	}
	return suite.do(method, path, body, "application/json")
}

func nio() domain.Currency {
	return domain.Currency{CurrencyCode: "NIO", Symbol: "C$", Name: "Córdoba", Precision: 2}
}

func sampleDetails(loanID string) *domain.LoanDetails {
	start := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	return &domain.LoanDetails{
		Loan: domain.Loan{
			LoanID:        loanID,
			ClientID:      uuid.NewString(),
			Principal:     decimal.NewFromInt(1000),
			InterestRate:  decimal.NewFromInt(10),
			PaymentPeriod: domain.Monthly,
			TermPeriods:   3,
			StartDate:     start,
			DueDate:       start.AddDate(0, 3, 0),
			CurrencyCode:  "NIO",
			Status:        domain.LoanActive,
			PaidAmount:    decimal.Zero,
		},
		Currency: nio(),
		Figures: domain.LoanFigures{
			TotalDue:          decimal.NewFromInt(1300),
			InstallmentAmount: decimal.RequireFromString("433.33"),
			RemainingBalance:  decimal.NewFromInt(1300),
			Status:            domain.LoanActive,
			AsOf:              start,
		},
	}
}

func decodeBody[T any](suite *HandlerTestSuite, w *httptest.ResponseRecorder) T {
	var out T
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// --- Test Cases ---

func (suite *HandlerTestSuite) TestHealthAndHomeArePublic() {
	for _, path := range []string{"/health", "/"} {
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		suite.router.ServeHTTP(w, req)
		suite.Equal(http.StatusOK, w.Code, path)
	}
}

func (suite *HandlerTestSuite) TestProtectedRoutesRequireToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/loans", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestLogin_Success() {
	user := &domain.User{UserID: testUserID, Username: "prestamista", Name: "Ana"}
	expires := time.Now().Add(time.Hour).UTC()
	suite.users.On("AuthenticateUser", mock.Anything, "prestamista", "secreto123").Return(user, nil).Once()
	suite.tokens.On("GenerateAccessToken", mock.Anything, user).Return("signed-token", expires, nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{Username: "prestamista", Password: "secreto123"})

	suite.Equal(http.StatusOK, w.Code)
	res := decodeBody[dto.AuthResponse](suite, w)
	suite.Equal("signed-token", res.AccessToken)
	suite.Equal("Bearer", res.TokenType)
	suite.Equal(testUserID, res.User.UserID)
}

func (suite *HandlerTestSuite) TestLogin_BadCredentials() {
	suite.users.On("AuthenticateUser", mock.Anything, "prestamista", "wrong-pass").
		Return(nil, fmt.Errorf("invalid username or password: %w", apperrors.ErrUnauthorized)).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{Username: "prestamista", Password: "wrong-pass"})
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestCreateLoan_Success() {
	clientID := uuid.NewString()
	details := sampleDetails(uuid.NewString())
	suite.loans.On("CreateLoan", mock.Anything, mock.MatchedBy(func(req dto.CreateLoanRequest) bool {
		return req.ClientID == clientID && req.Principal.Equal(decimal.NewFromInt(1000)) && req.PaymentPeriod == "Mensual"
	}), testUserID).Return(details, nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/loans", map[string]any{
		"clientID":      clientID,
		"principal":     "1000",
		"interestRate":  "10",
		"paymentPeriod": "Mensual",
		"termPeriods":   3,
		"startDate":     "2024-01-15",
	})

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	res := decodeBody[dto.LoanResponse](suite, w)
	suite.Equal(details.Loan.LoanID, res.LoanID)
	suite.Equal("2024-04-15", res.DueDate)
	suite.Equal("ACTIVE", res.Status)
	suite.Contains(res.Figures.Formatted["totalDue"], "1,300.00")
}

func (suite *HandlerTestSuite) TestCreateLoan_RejectsUnknownPeriod() {
	w := suite.doJSON(http.MethodPost, "/api/v1/loans", map[string]any{
		"clientID":      uuid.NewString(),
		"principal":     "1000",
		"paymentPeriod": "HOURLY",
		"termPeriods":   3,
		"startDate":     "2024-01-15",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.loans.AssertNotCalled(suite.T(), "CreateLoan", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestGetLoan_PassesDisplayCurrency() {
	loanID := uuid.NewString()
	suite.loans.On("GetLoan", mock.Anything, loanID, "USD").Return(sampleDetails(loanID), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/loans/"+loanID+"?currency=USD", nil, "")
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestGetLoan_NotFound() {
	loanID := uuid.NewString()
	suite.loans.On("GetLoan", mock.Anything, loanID, "").Return(nil, apperrors.NewNotFoundError("loan "+loanID)).Once()

	w := suite.do(http.MethodGet, "/api/v1/loans/"+loanID, nil, "")
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestUpdateLoan_TermsLockedAfterPayments() {
	loanID := uuid.NewString()
	suite.loans.On("UpdateLoan", mock.Anything, loanID, mock.AnythingOfType("dto.UpdateLoanRequest"), testUserID).
		Return(nil, apperrors.NewConflictError("loan terms cannot change once installments exist")).Once()

	w := suite.doJSON(http.MethodPut, "/api/v1/loans/"+loanID, map[string]any{"termPeriods": 6})
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteLoan() {
	loanID := uuid.NewString()
	suite.loans.On("DeleteLoan", mock.Anything, loanID, testUserID).Return(nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/loans/"+loanID, nil, "")
	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *HandlerTestSuite) TestRefreshStatuses() {
	suite.loans.On("RefreshStatuses", mock.Anything, mock.MatchedBy(func(t time.Time) bool {
		return t.Format(dto.DateLayout) == "2024-05-01"
	}), testUserID).Return(int64(4), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/loans/refresh-status?asOf=2024-05-01", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	res := decodeBody[dto.RefreshStatusResponse](suite, w)
	suite.Equal(int64(4), res.Updated)
	suite.Equal("2024-05-01", res.AsOf)

	w = suite.do(http.MethodPost, "/api/v1/loans/refresh-status?asOf=01/05/2024", nil, "")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestGetContract() {
	loanID := uuid.NewString()
	suite.contracts.On("GenerateContract", mock.Anything, loanID).Return([]byte("%PDF-1.3 fake"), "application/pdf", nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/loans/"+loanID+"/contract", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("application/pdf", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), "contrato_"+loanID+".pdf")
	suite.Equal("%PDF-1.3 fake", w.Body.String())
}

func (suite *HandlerTestSuite) TestRecordInstallment_Success() {
	loanID := uuid.NewString()
	inst := &domain.Installment{
		InstallmentID: uuid.NewString(),
		LoanID:        loanID,
		Amount:        decimal.RequireFromString("433.33"),
		PaymentDate:   time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC),
	}
	details := sampleDetails(loanID)
	suite.installments.On("RecordInstallment", mock.Anything, loanID, mock.MatchedBy(func(req dto.CreateInstallmentRequest) bool {
		return req.Amount.Equal(decimal.RequireFromString("433.33")) && req.PaymentDate == "2024-02-15"
	}), testUserID).Return(inst, details, nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/loans/"+loanID+"/installments", map[string]any{
		"amount":      "433.33",
		"paymentDate": "2024-02-15",
	})

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	res := decodeBody[dto.RecordInstallmentResponse](suite, w)
	suite.Equal(inst.InstallmentID, res.Installment.InstallmentID)
	suite.Equal("2024-02-15", res.Installment.PaymentDate)
	suite.Equal(loanID, res.Loan.LoanID)
}

func (suite *HandlerTestSuite) TestRecordInstallment_ExceedsBalance() {
	loanID := uuid.NewString()
	suite.installments.On("RecordInstallment", mock.Anything, loanID, mock.Anything, testUserID).
		Return(nil, nil, fmt.Errorf("%w: installment amount 5000 exceeds remaining balance 1300", apperrors.ErrValidation)).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/loans/"+loanID+"/installments", map[string]any{"amount": "5000"})

	suite.Equal(http.StatusBadRequest, w.Code)
	res := decodeBody[handlers.ErrorResponse](suite, w)
	suite.Contains(res.Error, "exceeds remaining balance")
}

func (suite *HandlerTestSuite) TestListInstallments_ReturnsNextToken() {
	loanID := uuid.NewString()
	next := "opaque-token"
	items := []domain.Installment{{InstallmentID: uuid.NewString(), LoanID: loanID, Amount: decimal.NewFromInt(100)}}
	suite.installments.On("ListInstallments", mock.Anything, loanID, mock.MatchedBy(func(p dto.ListInstallmentsParams) bool {
		return p.Limit == 1
	})).Return(items, &next, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/loans/"+loanID+"/installments?limit=1", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	res := decodeBody[dto.ListInstallmentsResponse](suite, w)
	suite.Len(res.Installments, 1)
	suite.Require().NotNil(res.NextToken)
	suite.Equal(next, *res.NextToken)
}

func (suite *HandlerTestSuite) TestDeleteInstallment_ReturnsLoan() {
	instID := uuid.NewString()
	details := sampleDetails(uuid.NewString())
	suite.installments.On("DeleteInstallment", mock.Anything, instID, testUserID).Return(details, nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/installments/"+instID, nil, "")
	suite.Equal(http.StatusOK, w.Code)
	res := decodeBody[dto.LoanResponse](suite, w)
	suite.Equal(details.Loan.LoanID, res.LoanID)
}

func (suite *HandlerTestSuite) TestSummary_FormatsInReportCurrency() {
	summary := &domain.PortfolioSummary{
		CurrencyCode:     "NIO",
		AsOf:             time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		ActiveLoans:      2,
		TotalLent:        decimal.NewFromInt(2000),
		TotalOutstanding: decimal.NewFromInt(1500),
	}
	suite.reporting.On("GetPortfolioSummary", mock.Anything, "", mock.MatchedBy(func(t time.Time) bool {
		return t.Format(dto.DateLayout) == "2024-03-01"
	})).Return(summary, nil).Once()
	currency := nio()
	suite.currencies.On("GetCurrencyByCode", mock.Anything, "NIO").Return(&currency, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/summary?asOf=2024-03-01", nil, "")

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	res := decodeBody[dto.PortfolioSummaryResponse](suite, w)
	suite.Equal("NIO", res.CurrencyCode)
	suite.Equal(2, res.ActiveLoans)
	suite.Contains(res.Formatted["totalLent"], "2,000.00")
}

func (suite *HandlerTestSuite) TestSummary_RejectsBadCurrency() {
	w := suite.do(http.MethodGet, "/api/v1/reports/summary?currency=DOLLAR", nil, "")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestCreateBackup() {
	file := &domain.BackupFile{Slot: 0, Name: "banquito_backup.zip", SizeBytes: 2048, Exists: true, ModifiedAt: time.Now().UTC()}
	suite.backups.On("CreateBackup", mock.Anything).Return(file, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/backups", nil, "")
	suite.Equal(http.StatusCreated, w.Code)
	res := decodeBody[dto.BackupFileResponse](suite, w)
	suite.Equal(int64(2048), res.SizeBytes)
	suite.NotNil(res.ModifiedAt)
}

func (suite *HandlerTestSuite) TestDownloadBackup() {
	content := "zip-bytes"
	file := &domain.BackupFile{Slot: 1, Name: "banquito_backup_1.zip", SizeBytes: int64(len(content)), Exists: true}
	suite.backups.On("OpenBackup", mock.Anything, 1).Return(io.NopCloser(strings.NewReader(content)), file, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/backups/1/download", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("application/zip", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), "banquito_backup_1.zip")
	suite.Equal(content, w.Body.String())
}

func (suite *HandlerTestSuite) TestDownloadBackup_MissingSlot() {
	suite.backups.On("OpenBackup", mock.Anything, 2).Return(nil, nil, apperrors.NewNotFoundError("backup slot 2 is empty")).Once()

	w := suite.do(http.MethodGet, "/api/v1/backups/2/download", nil, "")
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/backups/latest/download", nil, "")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestRestoreSlot() {
	snap := &domain.Snapshot{CreatedAt: time.Now().UTC(), Clients: make([]domain.Client, 3), Loans: make([]domain.Loan, 2)}
	suite.backups.On("RestoreSlot", mock.Anything, 0, testUserID).Return(snap, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/backups/0/restore", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	res := decodeBody[dto.RestoreResponse](suite, w)
	suite.Equal("slot 0", res.Source)
	suite.Equal(3, res.Clients)
	suite.Equal(2, res.Loans)
}

func (suite *HandlerTestSuite) TestRestoreUpload() {
	payload := []byte("PK fake archive")
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "copia.zip")
	suite.Require().NoError(err)
	_, err = part.Write(payload)
	suite.Require().NoError(err)
	suite.Require().NoError(mw.Close())

	snap := &domain.Snapshot{CreatedAt: time.Now().UTC(), Installments: make([]domain.Installment, 5)}
	suite.backups.On("RestoreUpload", mock.Anything, mock.Anything, int64(len(payload)), testUserID).Return(snap, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/backups/restore", &body, mw.FormDataContentType())
	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	res := decodeBody[dto.RestoreResponse](suite, w)
	suite.Equal("copia.zip", res.Source)
	suite.Equal(5, res.Installments)
}

func (suite *HandlerTestSuite) TestRestoreUpload_InvalidArchive() {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "roto.zip")
	suite.Require().NoError(err)
	_, _ = part.Write([]byte("garbage"))
	suite.Require().NoError(mw.Close())

	suite.backups.On("RestoreUpload", mock.Anything, mock.Anything, int64(7), testUserID).
		Return(nil, apperrors.NewValidationError("invalid backup archive")).Once()

	w := suite.do(http.MethodPost, "/api/v1/backups/restore", &body, mw.FormDataContentType())
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestRestoreUpload_MissingFile() {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	suite.Require().NoError(mw.WriteField("note", "no file"))
	suite.Require().NoError(mw.Close())

	w := suite.do(http.MethodPost, "/api/v1/backups/restore", &body, mw.FormDataContentType())
	suite.Equal(http.StatusBadRequest, w.Code)
}
