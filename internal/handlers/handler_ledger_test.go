package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/paywave/paywave_backend/internal/apperrors"
	portssvc "github.com/paywave/paywave_backend/internal/core/ports/services"
	"github.com/paywave/paywave_backend/internal/dto"
	"github.com/paywave/paywave_backend/internal/handlers"
	"github.com/paywave/paywave_backend/internal/middleware"
	"github.com/paywave/paywave_backend/internal/utils"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

func (m *MockLedgerService) ListEntries(ctx context.Context, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}

func (m *MockLedgerService) GetTransfer(ctx context.Context, accountID string, transferID string) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, accountID, transferID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}

// --- Test Suite Setup ---
type LedgerHandlerTestSuite struct {
	suite.Suite
	router            *gin.Engine
	mockLedgerService *MockLedgerService
	jwtSecret         string
	accountID         string
}

func (suite *LedgerHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.mockLedgerService = new(MockLedgerService)
	suite.jwtSecret = "handler-test-secret"
	suite.accountID = uuid.NewString()

	suite.router = gin.New()
	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	h := handlers.NewLedgerHandler(suite.mockLedgerService)
	v1 := suite.router.Group("/api/v1")
	v1.GET("/transactions", h.ListTransactions)
	v1.GET("/transactions/:transferID", h.GetTransaction)
}

func (suite *LedgerHandlerTestSuite) get(path string) *httptest.ResponseRecorder {
	token, err := utils.GenerateJWT(suite.accountID, suite.jwtSecret, time.Hour, "paywave-backend")
	suite.Require().NoError(err)
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *LedgerHandlerTestSuite) TestListTransactions_Success() {
	resp := &dto.ListEntriesResponse{
		Entries: []dto.LedgerEntryResponse{
			{EntryID: "e1", TransferID: "tr-1", Amount: decimal.NewFromInt(10), Direction: "DEBIT"},
		},
	}
	suite.mockLedgerService.On("ListEntries", mock.Anything, suite.accountID, dto.ListEntriesParams{}).Return(resp, nil).Once()

	w := suite.get("/api/v1/transactions")

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ListEntriesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Len(body.Entries, 1)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestListTransactions_MalformedTokenIsBadRequest() {
	suite.mockLedgerService.On("ListEntries", mock.Anything, suite.accountID, mock.Anything).
		Return(nil, apperrors.NewAppError(400, "invalid nextToken", nil)).Once()

	w := suite.get("/api/v1/transactions?nextToken=%25%25%25garbage")

	suite.Equal(http.StatusBadRequest, w.Code)
	var body handlers.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("invalid nextToken", body.Error)
}

func (suite *LedgerHandlerTestSuite) TestListTransactions_InfrastructureFailureIsInternal() {
	suite.mockLedgerService.On("ListEntries", mock.Anything, suite.accountID, mock.Anything).
		Return(nil, apperrors.NewAppError(500, "failed to list ledger entries", nil)).Once()

	w := suite.get("/api/v1/transactions")

	suite.Equal(http.StatusInternalServerError, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestListTransactions_InvalidLimit() {
	w := suite.get("/api/v1/transactions?limit=abc")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedgerService.AssertNotCalled(suite.T(), "ListEntries", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestGetTransaction_Success() {
	resp := &dto.ListEntriesResponse{
		Entries: []dto.LedgerEntryResponse{
			{EntryID: "e1", TransferID: "tr-1", Direction: "DEBIT", Amount: decimal.NewFromInt(10)},
			{EntryID: "e2", TransferID: "tr-1", Direction: "CREDIT", Amount: decimal.NewFromInt(10)},
		},
	}
	suite.mockLedgerService.On("GetTransfer", mock.Anything, suite.accountID, "tr-1").Return(resp, nil).Once()

	w := suite.get("/api/v1/transactions/tr-1")

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ListEntriesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Len(body.Entries, 2)
}

func (suite *LedgerHandlerTestSuite) TestGetTransaction_NotFound() {
	suite.mockLedgerService.On("GetTransfer", mock.Anything, suite.accountID, "tr-missing").
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.get("/api/v1/transactions/tr-missing")

	suite.Equal(http.StatusNotFound, w.Code)
}

func TestLedgerHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerHandlerTestSuite))
}
