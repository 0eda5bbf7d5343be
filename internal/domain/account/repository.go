package account

import (
	"context"
	"fmt"

	"github.com/banking-records-ledger/internal/domain/record"
	"github.com/banking-records-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Repository defines account persistence operations
type Repository interface {
	// LoadAll reads every well-formed account, skipping malformed lines
	LoadAll(ctx context.Context) (Accounts, error)

	// LoadForUpdate reads the table for a read-modify-rewrite cycle and
	// refuses when malformed lines would be lost by the rewrite
	LoadForUpdate(ctx context.Context) (Accounts, error)

	// SaveAll rewrites the whole table in one atomic replace
	SaveAll(ctx context.Context, accounts Accounts) error

	Append(ctx context.Context, account *Account) error
}

// ErrAccountNotFound indicates missing account
type ErrAccountNotFound struct {
	AccountNumber string
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.AccountNumber
}

// Is implements the errors.Is interface for ErrAccountNotFound
func (e ErrAccountNotFound) Is(target error) bool {
	if target == shared.ErrNotFound {
		return true
	}
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	// An empty target number matches any missing account
	return t.AccountNumber == "" || t.AccountNumber == e.AccountNumber
}

// ToRecord encodes an account as an accounts table line
func ToRecord(a *Account) record.Record {
	return record.Record{a.Number, a.OwnerName, a.Balance.StringFixed(2)}
}

// FromRecord decodes an accounts table line
func FromRecord(rec record.Record) (*Account, error) {
	if len(rec) != record.Accounts.Fields {
		return nil, fmt.Errorf("account line has %d fields", len(rec))
	}
	balance, err := decimal.NewFromString(rec[2])
	if err != nil {
		return nil, fmt.Errorf("invalid balance %q: %w", rec[2], err)
	}
	return &Account{Number: rec[0], OwnerName: rec[1], Balance: balance}, nil
}
