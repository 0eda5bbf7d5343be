package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/banking-records-ledger/internal/banking"
	"github.com/banking-records-ledger/internal/domain/credential"
	"github.com/banking-records-ledger/internal/domain/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockInterestApplier struct {
	mock.Mock
}

func (m *MockInterestApplier) Apply(ctx context.Context, caller credential.Caller) (*banking.InterestRun, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*banking.InterestRun), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInterestScheduler_RunOnce(t *testing.T) {
	t.Run("RunsAsAdmin", func(t *testing.T) {
		applier := &MockInterestApplier{}
		applier.On("Apply", mock.Anything, credential.Admin()).
			Return(&banking.InterestRun{Applied: []*ledger.InterestEntry{{AccountNumber: "2004"}}}, nil).Once()

		NewInterestScheduler(applier, time.Hour, testLogger()).runOnce(context.Background())

		applier.AssertExpectations(t)
	})

	t.Run("ErrorIsLogged", func(t *testing.T) {
		applier := &MockInterestApplier{}
		applier.On("Apply", mock.Anything, mock.Anything).Return(nil, errors.New("disk error")).Once()

		assert.NotPanics(t, func() {
			NewInterestScheduler(applier, time.Hour, testLogger()).runOnce(context.Background())
		})
		applier.AssertExpectations(t)
	})
}

func TestInterestScheduler_Start(t *testing.T) {
	applier := &MockInterestApplier{}
	applier.On("Apply", mock.Anything, mock.Anything).Return(&banking.InterestRun{}, nil)

	s := NewInterestScheduler(applier, 10*time.Millisecond, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	time.Sleep(55 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after context cancellation")
	}
	// One immediate pass plus ticks
	assert.GreaterOrEqual(t, len(applier.Calls), 2)
}
