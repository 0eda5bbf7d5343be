package records

import (
	"context"
	"log/slog"

	"github.com/banking-records-ledger/internal/domain/account"
	"github.com/banking-records-ledger/internal/domain/record"
)

// AccountRepository implements account.Repository on the accounts table
type AccountRepository struct {
	store  record.Store
	logger *slog.Logger
}

func NewAccountRepository(logger *slog.Logger, store record.Store) *AccountRepository {
	return &AccountRepository{store: store, logger: logger}
}

func (r *AccountRepository) LoadAll(ctx context.Context) (account.Accounts, error) {
	return loadTable(ctx, r.store, r.logger, record.Accounts, false, account.FromRecord)
}

func (r *AccountRepository) LoadForUpdate(ctx context.Context) (account.Accounts, error) {
	return loadTable(ctx, r.store, r.logger, record.Accounts, true, account.FromRecord)
}

func (r *AccountRepository) SaveAll(ctx context.Context, accounts account.Accounts) error {
	recs := make([]record.Record, 0, len(accounts))
	for _, a := range accounts {
		recs = append(recs, account.ToRecord(a))
	}
	return r.store.RewriteAll(ctx, record.Accounts, recs)
}

func (r *AccountRepository) Append(ctx context.Context, a *account.Account) error {
	return r.store.Append(ctx, record.Accounts, account.ToRecord(a))
}

var _ account.Repository = (*AccountRepository)(nil)
