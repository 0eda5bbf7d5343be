package service

import (
	"context"

	"github.com/banking-records-ledger/internal/banking"
	"github.com/banking-records-ledger/internal/domain/account"
	"github.com/banking-records-ledger/internal/domain/credential"
	"github.com/banking-records-ledger/internal/domain/ledger"
	"github.com/banking-records-ledger/internal/domain/profile"
	"github.com/banking-records-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountService moves money on a single account
type AccountService interface {
	Deposit(ctx context.Context, caller credential.Caller, accountNumber string, amount decimal.Decimal) (*account.Account, error)
	Withdraw(ctx context.Context, caller credential.Caller, accountNumber string, amount decimal.Decimal) (*account.Account, error)
	CheckBalance(ctx context.Context, caller credential.Caller, accountNumber string) (*account.Account, error)
}

// CustomerService manages profiles and the Active/Inactive lifecycle
type CustomerService interface {
	Create(ctx context.Context, caller credential.Caller, details profile.Details, openingBalance decimal.Decimal) (*banking.CreatedAccount, error)
	Update(ctx context.Context, caller credential.Caller, accountNumber, field, value string) (*profile.Profile, error)
	Deactivate(ctx context.Context, caller credential.Caller, accountNumber, reason string, confirmed bool) (bool, error)
	Restore(ctx context.Context, caller credential.Caller, accountNumber string) (bool, error)
	Find(ctx context.Context, caller credential.Caller, accountNumber string) (*profile.Profile, error)
	Search(ctx context.Context, caller credential.Caller, field, value string) (profile.Profiles, error)
}

// TransactionService reads the transaction history
type TransactionService interface {
	QueryByAccount(ctx context.Context, caller credential.Caller, accountNumber string) ([]*ledger.TransactionRecord, error)
}

// TransferService moves money between two accounts
type TransferService interface {
	Transfer(ctx context.Context, caller credential.Caller, from, to string, amount decimal.Decimal) (*banking.TransferResult, error)
}

// InterestService runs and reports monthly interest
type InterestService interface {
	Apply(ctx context.Context, caller credential.Caller) (*banking.InterestRun, error)
	History(ctx context.Context, caller credential.Caller) ([]*ledger.InterestEntry, error)
}

// CommandService hands commands to the asynchronous processor
type CommandService interface {
	// Submit publishes the command unless it was already handled, in which
	// case the recorded outcome is returned instead
	Submit(ctx context.Context, command *shared.CommandRequest) (*shared.CommandOutcome, error)

	// GetOutcome returns nil while the command is still pending
	GetOutcome(ctx context.Context, commandID uuid.UUID) (*shared.CommandOutcome, error)
}

var (
	_ AccountService     = (*banking.AccountLedger)(nil)
	_ CustomerService    = (*banking.CustomerDirectory)(nil)
	_ TransactionService = (*banking.TransactionLog)(nil)
	_ TransferService    = (*banking.TransferCoordinator)(nil)
	_ InterestService    = (*banking.InterestEngine)(nil)
)
