package banking

import (
	"context"
	"log/slog"

	"github.com/banking-records-ledger/internal/domain/account"
	"github.com/banking-records-ledger/internal/domain/credential"
	"github.com/banking-records-ledger/internal/domain/ledger"
	"github.com/banking-records-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AccountLedger moves money in and out of a single account
type AccountLedger struct {
	logger       *slog.Logger
	lock         *WriterLock
	gate         *lifecycleGate
	accounts     account.Repository
	transactions ledger.TransactionRepository
	now          Clock
}

func NewAccountLedger(logger *slog.Logger, lock *WriterLock, gate *lifecycleGate, accounts account.Repository, transactions ledger.TransactionRepository, now Clock) *AccountLedger {
	return &AccountLedger{
		logger:       logger,
		lock:         lock,
		gate:         gate,
		accounts:     accounts,
		transactions: transactions,
		now:          now,
	}
}

// Deposit credits amount and appends a Deposit record
func (l *AccountLedger) Deposit(ctx context.Context, caller credential.Caller, accountNumber string, amount decimal.Decimal) (*account.Account, error) {
	return l.move(ctx, caller, accountNumber, amount, ledger.KindDeposit)
}

// Withdraw debits amount and appends a Withdraw record. The balance is checked
// before anything is written.
func (l *AccountLedger) Withdraw(ctx context.Context, caller credential.Caller, accountNumber string, amount decimal.Decimal) (*account.Account, error) {
	return l.move(ctx, caller, accountNumber, amount, ledger.KindWithdraw)
}

func (l *AccountLedger) move(ctx context.Context, caller credential.Caller, accountNumber string, amount decimal.Decimal, kind ledger.Kind) (*account.Account, error) {
	if err := caller.AuthorizeAccount(accountNumber); err != nil {
		return nil, err
	}

	release, err := l.lock.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := l.gate.ensureActive(ctx, accountNumber); err != nil {
		return nil, err
	}
	if err := account.ValidateAmount(amount); err != nil {
		return nil, err
	}

	accounts, err := l.accounts.LoadForUpdate(ctx)
	if err != nil {
		return nil, err
	}
	acc := accounts.Find(accountNumber)
	if acc == nil {
		return nil, account.ErrAccountNotFound{AccountNumber: accountNumber}
	}

	if kind == ledger.KindDeposit {
		err = acc.Deposit(amount)
	} else {
		err = acc.Withdraw(amount)
	}
	if err != nil {
		return nil, err
	}

	if err := l.accounts.SaveAll(ctx, accounts); err != nil {
		return nil, err
	}

	tx := ledger.NewTransactionRecord(accountNumber, kind, amount, l.now())
	if err := l.transactions.Append(ctx, tx); err != nil {
		l.logger.Error("Balance saved but transaction record was not written",
			"account_number", accountNumber,
			"kind", kind,
			"error", err)
		return nil, &shared.AuditIncompleteError{Operation: string(kind), Err: err}
	}

	l.logger.Info("Balance updated",
		"account_number", accountNumber,
		"kind", kind,
		"amount", amount.StringFixed(2),
		"balance", acc.Balance.StringFixed(2))

	result := *acc
	return &result, nil
}

// CheckBalance returns the account with its current balance
func (l *AccountLedger) CheckBalance(ctx context.Context, caller credential.Caller, accountNumber string) (*account.Account, error) {
	if err := caller.AuthorizeAccount(accountNumber); err != nil {
		return nil, err
	}
	if err := l.gate.ensureActive(ctx, accountNumber); err != nil {
		return nil, err
	}
	return l.gate.ensureExists(ctx, accountNumber)
}
