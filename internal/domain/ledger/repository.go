package ledger

import (
	"context"
)

// TransactionRepository manages the append-only transaction log
type TransactionRepository interface {
	// Append writes all records in one call, in order
	Append(ctx context.Context, records ...*TransactionRecord) error
	LoadAll(ctx context.Context) ([]*TransactionRecord, error)
	GetByAccount(ctx context.Context, accountNumber string) ([]*TransactionRecord, error)
}

// InterestRepository manages the interest log, the witness of monthly accruals
type InterestRepository interface {
	Append(ctx context.Context, entries ...*InterestEntry) error
	LoadAll(ctx context.Context) ([]*InterestEntry, error)
}
