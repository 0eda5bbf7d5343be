package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/banking-records-ledger/internal/api_gateway/middleware"
	"github.com/banking-records-ledger/internal/banking"
	"github.com/banking-records-ledger/internal/domain/account"
	"github.com/banking-records-ledger/internal/domain/credential"
	"github.com/banking-records-ledger/internal/domain/ledger"
	"github.com/banking-records-ledger/internal/domain/profile"
	"github.com/banking-records-ledger/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Deposit(ctx context.Context, caller credential.Caller, accountNumber string, amount decimal.Decimal) (*account.Account, error) {
	args := m.Called(ctx, caller, accountNumber, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountService) Withdraw(ctx context.Context, caller credential.Caller, accountNumber string, amount decimal.Decimal) (*account.Account, error) {
	args := m.Called(ctx, caller, accountNumber, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountService) CheckBalance(ctx context.Context, caller credential.Caller, accountNumber string) (*account.Account, error) {
	args := m.Called(ctx, caller, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) Create(ctx context.Context, caller credential.Caller, details profile.Details, openingBalance decimal.Decimal) (*banking.CreatedAccount, error) {
	args := m.Called(ctx, caller, details, openingBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*banking.CreatedAccount), args.Error(1)
}

func (m *MockCustomerService) Update(ctx context.Context, caller credential.Caller, accountNumber, field, value string) (*profile.Profile, error) {
	args := m.Called(ctx, caller, accountNumber, field, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

func (m *MockCustomerService) Deactivate(ctx context.Context, caller credential.Caller, accountNumber, reason string, confirmed bool) (bool, error) {
	args := m.Called(ctx, caller, accountNumber, reason, confirmed)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerService) Restore(ctx context.Context, caller credential.Caller, accountNumber string) (bool, error) {
	args := m.Called(ctx, caller, accountNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerService) Find(ctx context.Context, caller credential.Caller, accountNumber string) (*profile.Profile, error) {
	args := m.Called(ctx, caller, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

func (m *MockCustomerService) Search(ctx context.Context, caller credential.Caller, field, value string) (profile.Profiles, error) {
	args := m.Called(ctx, caller, field, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(profile.Profiles), args.Error(1)
}

type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) QueryByAccount(ctx context.Context, caller credential.Caller, accountNumber string) ([]*ledger.TransactionRecord, error) {
	args := m.Called(ctx, caller, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.TransactionRecord), args.Error(1)
}

type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) Transfer(ctx context.Context, caller credential.Caller, from, to string, amount decimal.Decimal) (*banking.TransferResult, error) {
	args := m.Called(ctx, caller, from, to, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*banking.TransferResult), args.Error(1)
}

type MockInterestService struct {
	mock.Mock
}

func (m *MockInterestService) Apply(ctx context.Context, caller credential.Caller) (*banking.InterestRun, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*banking.InterestRun), args.Error(1)
}

func (m *MockInterestService) History(ctx context.Context, caller credential.Caller) ([]*ledger.InterestEntry, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.InterestEntry), args.Error(1)
}

type MockCommandService struct {
	mock.Mock
}

func (m *MockCommandService) Submit(ctx context.Context, command *shared.CommandRequest) (*shared.CommandOutcome, error) {
	args := m.Called(ctx, command)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.CommandOutcome), args.Error(1)
}

func (m *MockCommandService) GetOutcome(ctx context.Context, commandID uuid.UUID) (*shared.CommandOutcome, error) {
	args := m.Called(ctx, commandID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.CommandOutcome), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CorrelationID(), middleware.Caller())
	return r
}

var (
	asAdmin = map[string]string{middleware.CallerRoleHeader: "admin"}
	asOwner = map[string]string{middleware.CallerRoleHeader: "user", middleware.CallerAccountHeader: "2004"}
)

func performRequest(t *testing.T, router *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(encoded)
		}
		reader = bytes.NewBufferString(raw)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) (Response, map[string]any) {
	t.Helper()
	var response Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data, _ := response.Data.(map[string]any)
	return response, data
}

// amountOf matches a decimal argument by value rather than representation
func amountOf(s string) any {
	want := decimal.RequireFromString(s)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}
