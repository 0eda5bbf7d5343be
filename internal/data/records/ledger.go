package records

import (
	"context"
	"log/slog"

	"github.com/banking-records-ledger/internal/domain/ledger"
	"github.com/banking-records-ledger/internal/domain/record"
)

// TransactionRepository implements ledger.TransactionRepository
type TransactionRepository struct {
	store  record.Store
	logger *slog.Logger
}

func NewTransactionRepository(logger *slog.Logger, store record.Store) *TransactionRepository {
	return &TransactionRepository{store: store, logger: logger}
}

func (r *TransactionRepository) Append(ctx context.Context, txs ...*ledger.TransactionRecord) error {
	recs := make([]record.Record, 0, len(txs))
	for _, tx := range txs {
		recs = append(recs, tx.ToRecord())
	}
	return r.store.Append(ctx, record.Transactions, recs...)
}

func (r *TransactionRepository) LoadAll(ctx context.Context) ([]*ledger.TransactionRecord, error) {
	return loadTable(ctx, r.store, r.logger, record.Transactions, false, ledger.TransactionFromRecord)
}

// GetByAccount returns the account's records in log order
func (r *TransactionRepository) GetByAccount(ctx context.Context, accountNumber string) ([]*ledger.TransactionRecord, error) {
	all, err := r.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []*ledger.TransactionRecord
	for _, tx := range all {
		if tx.AccountNumber == accountNumber {
			out = append(out, tx)
		}
	}
	return out, nil
}

// InterestRepository implements ledger.InterestRepository
type InterestRepository struct {
	store  record.Store
	logger *slog.Logger
}

func NewInterestRepository(logger *slog.Logger, store record.Store) *InterestRepository {
	return &InterestRepository{store: store, logger: logger}
}

func (r *InterestRepository) Append(ctx context.Context, entries ...*ledger.InterestEntry) error {
	recs := make([]record.Record, 0, len(entries))
	for _, e := range entries {
		recs = append(recs, e.ToRecord())
	}
	return r.store.Append(ctx, record.InterestLog, recs...)
}

func (r *InterestRepository) LoadAll(ctx context.Context) ([]*ledger.InterestEntry, error) {
	return loadTable(ctx, r.store, r.logger, record.InterestLog, false, ledger.InterestFromRecord)
}

var (
	_ ledger.TransactionRepository = (*TransactionRepository)(nil)
	_ ledger.InterestRepository    = (*InterestRepository)(nil)
)
