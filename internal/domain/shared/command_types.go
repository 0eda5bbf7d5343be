package shared

import "errors"

// CommandType defines the operations accepted on the command topic
type CommandType string

const (
	CommandTypeDeposit       CommandType = "DEPOSIT"
	CommandTypeWithdrawal    CommandType = "WITHDRAWAL"
	CommandTypeTransfer      CommandType = "TRANSFER"
	CommandTypeApplyInterest CommandType = "APPLY_INTEREST"
)

// CommandStatus defines the recorded outcome of a command
type CommandStatus string

const (
	CommandStatusCompleted CommandStatus = "COMPLETED"
	CommandStatusFailed    CommandStatus = "FAILED"
)

// FailureReason defines command failure categories
type FailureReason string

const (
	FailureReasonInvalidCommand    FailureReason = "INVALID_COMMAND"
	FailureReasonAccountNotFound   FailureReason = "ACCOUNT_NOT_FOUND"
	FailureReasonInvalidAmount     FailureReason = "INVALID_AMOUNT"
	FailureReasonInsufficientFunds FailureReason = "INSUFFICIENT_FUNDS"
	FailureReasonAccountInactive   FailureReason = "ACCOUNT_INACTIVE"
	FailureReasonAccessDenied      FailureReason = "ACCESS_DENIED"
	FailureReasonSameAccount       FailureReason = "SAME_ACCOUNT"
	FailureReasonUnknownError      FailureReason = "UNKNOWN_ERROR"
)

// FailureReasonFor maps a business error onto its failure category
func FailureReasonFor(err error) FailureReason {
	switch {
	case errors.Is(err, ErrInvalidCommandType), errors.Is(err, ErrMissingAccount), errors.Is(err, ErrMissingCommandID):
		return FailureReasonInvalidCommand
	case errors.Is(err, ErrSameAccount):
		return FailureReasonSameAccount
	case errors.Is(err, ErrNotFound):
		return FailureReasonAccountNotFound
	case errors.Is(err, ErrInsufficientFunds):
		return FailureReasonInsufficientFunds
	case errors.Is(err, ErrAccountInactive):
		return FailureReasonAccountInactive
	case errors.Is(err, ErrAccessDenied):
		return FailureReasonAccessDenied
	case errors.Is(err, ErrValidation):
		return FailureReasonInvalidAmount
	default:
		return FailureReasonUnknownError
	}
}
