package components

import (
	"context"

	"github.com/banking-records-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockCommandLog struct {
	mock.Mock
}

func (m *MockCommandLog) Get(ctx context.Context, id uuid.UUID) (*shared.CommandOutcome, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.CommandOutcome), args.Error(1)
}

func (m *MockCommandLog) Record(ctx context.Context, outcome *shared.CommandOutcome) error {
	args := m.Called(ctx, outcome)
	return args.Error(0)
}
