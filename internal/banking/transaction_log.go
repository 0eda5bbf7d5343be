package banking

import (
	"context"

	"github.com/banking-records-ledger/internal/domain/credential"
	"github.com/banking-records-ledger/internal/domain/ledger"
)

// TransactionLog reads and appends the transaction history
type TransactionLog struct {
	gate         *lifecycleGate
	transactions ledger.TransactionRepository
}

func NewTransactionLog(gate *lifecycleGate, transactions ledger.TransactionRepository) *TransactionLog {
	return &TransactionLog{gate: gate, transactions: transactions}
}

// Append writes records in order with a single store call
func (t *TransactionLog) Append(ctx context.Context, records ...*ledger.TransactionRecord) error {
	return t.transactions.Append(ctx, records...)
}

// QueryByAccount returns the account's records in log order
func (t *TransactionLog) QueryByAccount(ctx context.Context, caller credential.Caller, accountNumber string) ([]*ledger.TransactionRecord, error) {
	if err := caller.AuthorizeAccount(accountNumber); err != nil {
		return nil, err
	}
	if err := t.gate.ensureActive(ctx, accountNumber); err != nil {
		return nil, err
	}
	if _, err := t.gate.ensureExists(ctx, accountNumber); err != nil {
		return nil, err
	}
	return t.transactions.GetByAccount(ctx, accountNumber)
}
