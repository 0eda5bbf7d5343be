package banking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/banking-records-ledger/internal/domain/account"
	"github.com/banking-records-ledger/internal/domain/credential"
	"github.com/banking-records-ledger/internal/domain/ledger"
	"github.com/banking-records-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransferResult holds both accounts after a transfer
type TransferResult struct {
	From      *account.Account `json:"from"`
	To        *account.Account `json:"to"`
	Amount    decimal.Decimal  `json:"amount"`
	Timestamp time.Time        `json:"timestamp"`
}

// TransferCoordinator moves money between two accounts with a single rewrite
type TransferCoordinator struct {
	logger       *slog.Logger
	lock         *WriterLock
	gate         *lifecycleGate
	accounts     account.Repository
	transactions ledger.TransactionRepository
	now          Clock
}

func NewTransferCoordinator(logger *slog.Logger, lock *WriterLock, gate *lifecycleGate, accounts account.Repository, transactions ledger.TransactionRepository, now Clock) *TransferCoordinator {
	return &TransferCoordinator{
		logger:       logger,
		lock:         lock,
		gate:         gate,
		accounts:     accounts,
		transactions: transactions,
		now:          now,
	}
}

// Transfer debits from and credits to. Both balances are computed from one
// snapshot and written in one rewrite before the two records are appended.
func (c *TransferCoordinator) Transfer(ctx context.Context, caller credential.Caller, from, to string, amount decimal.Decimal) (*TransferResult, error) {
	if err := caller.AuthorizeAccount(from); err != nil {
		return nil, err
	}
	if from == to {
		return nil, fmt.Errorf("%w: %s", shared.ErrSameAccount, from)
	}

	release, err := c.lock.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := c.gate.ensureActive(ctx, from, to); err != nil {
		return nil, err
	}

	accounts, err := c.accounts.LoadForUpdate(ctx)
	if err != nil {
		return nil, err
	}
	sender := accounts.Find(from)
	if sender == nil {
		return nil, account.ErrAccountNotFound{AccountNumber: from}
	}
	receiver := accounts.Find(to)
	if receiver == nil {
		return nil, account.ErrAccountNotFound{AccountNumber: to}
	}

	if err := account.ValidateAmount(amount); err != nil {
		return nil, err
	}
	if !sender.CanWithdraw(amount) {
		return nil, account.ErrInsufficientFunds
	}
	if err := sender.Withdraw(amount); err != nil {
		return nil, err
	}
	if err := receiver.Deposit(amount); err != nil {
		return nil, err
	}

	if err := c.accounts.SaveAll(ctx, accounts); err != nil {
		return nil, err
	}

	now := c.now()
	out := ledger.NewTransactionRecord(from, ledger.TransferTo(to), amount, now)
	in := ledger.NewTransactionRecord(to, ledger.TransferFrom(from), amount, now)
	if err := c.transactions.Append(ctx, out, in); err != nil {
		c.logger.Error("Transfer saved but transaction records were not written",
			"from", from,
			"to", to,
			"error", err)
		return nil, &shared.AuditIncompleteError{Operation: "transfer", Err: err}
	}

	c.logger.Info("Transfer completed",
		"from", from,
		"to", to,
		"amount", amount.StringFixed(2))

	fromCopy, toCopy := *sender, *receiver
	return &TransferResult{From: &fromCopy, To: &toCopy, Amount: amount, Timestamp: out.Timestamp}, nil
}
