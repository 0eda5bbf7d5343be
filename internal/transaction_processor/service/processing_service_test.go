package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/banking-records-ledger/internal/domain/account"
	"github.com/banking-records-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCommandValidator struct {
	mock.Mock
}

func (m *MockCommandValidator) Validate(ctx context.Context, command *shared.CommandRequest) error {
	args := m.Called(ctx, command)
	return args.Error(0)
}

func (m *MockCommandValidator) CheckIdempotency(ctx context.Context, command *shared.CommandRequest) (bool, error) {
	args := m.Called(ctx, command)
	return args.Bool(0), args.Error(1)
}

type MockCommandExecutor struct {
	mock.Mock
}

func (m *MockCommandExecutor) Execute(ctx context.Context, command *shared.CommandRequest) (string, error) {
	args := m.Called(ctx, command)
	return args.String(0), args.Error(1)
}

type MockOutcomeRecorder struct {
	mock.Mock
}

func (m *MockOutcomeRecorder) RecordSuccess(ctx context.Context, command *shared.CommandRequest, note string) error {
	args := m.Called(ctx, command, note)
	return args.Error(0)
}

func (m *MockOutcomeRecorder) RecordFailure(ctx context.Context, command *shared.CommandRequest, reason shared.FailureReason) error {
	args := m.Called(ctx, command, reason)
	return args.Error(0)
}

func newDeposit() *shared.CommandRequest {
	return &shared.CommandRequest{
		CommandID:     uuid.New(),
		Type:          shared.CommandTypeDeposit,
		AccountNumber: "2004",
		Amount:        decimal.NewFromInt(100),
		CorrelationID: "corr-1",
	}
}

func TestProcessingService_ProcessCommand(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	storageErr := &shared.StorageError{Table: "accounts", Op: "rewrite", Err: errors.New("disk full")}

	tests := []struct {
		name          string
		setupMocks    func(v *MockCommandValidator, e *MockCommandExecutor, r *MockOutcomeRecorder, cmd *shared.CommandRequest)
		expectedError bool
	}{
		{
			name: "successful processing",
			setupMocks: func(v *MockCommandValidator, e *MockCommandExecutor, r *MockOutcomeRecorder, cmd *shared.CommandRequest) {
				v.On("Validate", mock.Anything, cmd).Return(nil)
				v.On("CheckIdempotency", mock.Anything, cmd).Return(false, nil)
				e.On("Execute", mock.Anything, cmd).Return("balance 1100.00", nil)
				r.On("RecordSuccess", mock.Anything, cmd, "balance 1100.00").Return(nil)
			},
		},
		{
			name: "validation failure is recorded and acknowledged",
			setupMocks: func(v *MockCommandValidator, e *MockCommandExecutor, r *MockOutcomeRecorder, cmd *shared.CommandRequest) {
				v.On("Validate", mock.Anything, cmd).Return(shared.ErrMissingAccount)
				r.On("RecordFailure", mock.Anything, cmd, shared.FailureReasonInvalidCommand).Return(nil)
			},
		},
		{
			name: "already processed",
			setupMocks: func(v *MockCommandValidator, e *MockCommandExecutor, r *MockOutcomeRecorder, cmd *shared.CommandRequest) {
				v.On("Validate", mock.Anything, cmd).Return(nil)
				v.On("CheckIdempotency", mock.Anything, cmd).Return(true, nil)
			},
		},
		{
			name: "idempotency check failure is retried",
			setupMocks: func(v *MockCommandValidator, e *MockCommandExecutor, r *MockOutcomeRecorder, cmd *shared.CommandRequest) {
				v.On("Validate", mock.Anything, cmd).Return(nil)
				v.On("CheckIdempotency", mock.Anything, cmd).Return(false, storageErr)
			},
			expectedError: true,
		},
		{
			name: "insufficient funds is recorded as failed",
			setupMocks: func(v *MockCommandValidator, e *MockCommandExecutor, r *MockOutcomeRecorder, cmd *shared.CommandRequest) {
				v.On("Validate", mock.Anything, cmd).Return(nil)
				v.On("CheckIdempotency", mock.Anything, cmd).Return(false, nil)
				e.On("Execute", mock.Anything, cmd).Return("", account.ErrInsufficientFunds)
				r.On("RecordFailure", mock.Anything, cmd, shared.FailureReasonInsufficientFunds).Return(nil)
			},
		},
		{
			name: "missing account is recorded as failed",
			setupMocks: func(v *MockCommandValidator, e *MockCommandExecutor, r *MockOutcomeRecorder, cmd *shared.CommandRequest) {
				v.On("Validate", mock.Anything, cmd).Return(nil)
				v.On("CheckIdempotency", mock.Anything, cmd).Return(false, nil)
				e.On("Execute", mock.Anything, cmd).Return("", account.ErrAccountNotFound{AccountNumber: "2004"})
				r.On("RecordFailure", mock.Anything, cmd, shared.FailureReasonAccountNotFound).Return(nil)
			},
		},
		{
			name: "storage failure is retried without an outcome",
			setupMocks: func(v *MockCommandValidator, e *MockCommandExecutor, r *MockOutcomeRecorder, cmd *shared.CommandRequest) {
				v.On("Validate", mock.Anything, cmd).Return(nil)
				v.On("CheckIdempotency", mock.Anything, cmd).Return(false, nil)
				e.On("Execute", mock.Anything, cmd).Return("", storageErr)
			},
			expectedError: true,
		},
		{
			name: "missing audit records complete the command",
			setupMocks: func(v *MockCommandValidator, e *MockCommandExecutor, r *MockOutcomeRecorder, cmd *shared.CommandRequest) {
				v.On("Validate", mock.Anything, cmd).Return(nil)
				v.On("CheckIdempotency", mock.Anything, cmd).Return(false, nil)
				e.On("Execute", mock.Anything, cmd).Return("", &shared.AuditIncompleteError{Operation: "deposit", Err: storageErr})
				r.On("RecordSuccess", mock.Anything, cmd, AuditIncompleteNote).Return(nil)
			},
		},
		{
			name: "outcome recording failure does not retry",
			setupMocks: func(v *MockCommandValidator, e *MockCommandExecutor, r *MockOutcomeRecorder, cmd *shared.CommandRequest) {
				v.On("Validate", mock.Anything, cmd).Return(nil)
				v.On("CheckIdempotency", mock.Anything, cmd).Return(false, nil)
				e.On("Execute", mock.Anything, cmd).Return("ok", nil)
				r.On("RecordSuccess", mock.Anything, cmd, "ok").Return(storageErr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := new(MockCommandValidator)
			executor := new(MockCommandExecutor)
			recorder := new(MockOutcomeRecorder)
			cmd := newDeposit()
			tt.setupMocks(validator, executor, recorder, cmd)

			svc := NewProcessingService(validator, executor, recorder, logger)
			err := svc.ProcessCommand(context.Background(), cmd)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			validator.AssertExpectations(t)
			executor.AssertExpectations(t)
			recorder.AssertExpectations(t)
		})
	}
}

func TestProcessingService_MissingCommandIDIsNotRecorded(t *testing.T) {
	validator := new(MockCommandValidator)
	executor := new(MockCommandExecutor)
	recorder := new(MockOutcomeRecorder)

	cmd := newDeposit()
	cmd.CommandID = uuid.Nil
	validator.On("Validate", mock.Anything, cmd).Return(shared.ErrMissingCommandID)

	svc := NewProcessingService(validator, executor, recorder, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.NoError(t, svc.ProcessCommand(context.Background(), cmd))
	recorder.AssertNotCalled(t, "RecordFailure", mock.Anything, mock.Anything, mock.Anything)
}
