package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCommandType = fmt.Errorf("%w: invalid command type", ErrValidation)
	ErrMissingAccount     = fmt.Errorf("%w: account number is required", ErrValidation)
	ErrMissingCommandID   = fmt.Errorf("%w: command id is required", ErrValidation)
)

// CommandRequest defines a Kafka message asking the processor to move money
type CommandRequest struct {
	CommandID     uuid.UUID       `json:"command_id"`
	Type          CommandType     `json:"type"`
	AccountNumber string          `json:"account_number,omitempty"`
	TargetAccount string          `json:"target_account,omitempty"` // Receiver for TRANSFER
	Amount        decimal.Decimal `json:"amount"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
}

// Validate checks that the command carries what its type needs. Amounts are
// checked by the ledger when the command runs.
func (r *CommandRequest) Validate() error {
	if r.CommandID == uuid.Nil {
		return ErrMissingCommandID
	}
	switch r.Type {
	case CommandTypeDeposit, CommandTypeWithdrawal:
		if r.AccountNumber == "" {
			return ErrMissingAccount
		}
	case CommandTypeTransfer:
		if r.AccountNumber == "" || r.TargetAccount == "" {
			return fmt.Errorf("%w: transfer needs source and target accounts", ErrMissingAccount)
		}
	case CommandTypeApplyInterest:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidCommandType, r.Type)
	}
	return nil
}

// CommandOutcome is the processor's record of a handled command. Its presence
// marks the command id as already processed.
type CommandOutcome struct {
	CommandID  uuid.UUID
	Status     CommandStatus
	Reason     string
	RecordedAt time.Time
}

// CommandLogRepository stores one outcome per handled command id
type CommandLogRepository interface {
	// Get returns nil without error when the command was never handled
	Get(ctx context.Context, id uuid.UUID) (*CommandOutcome, error)
	Record(ctx context.Context, outcome *CommandOutcome) error
}
