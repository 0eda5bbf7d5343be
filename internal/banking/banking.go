// Package banking implements the ledger operations: money movement, customer
// lifecycle and monthly interest. Every read-modify-rewrite runs under one
// WriterLock so HTTP handlers, command workers and the scheduler can share
// the same service instances. When the store offers a record.Locker the
// WriterLock also excludes writers in other processes on the same store.
package banking

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/banking-records-ledger/internal/config"
	"github.com/banking-records-ledger/internal/domain/account"
	"github.com/banking-records-ledger/internal/domain/credential"
	"github.com/banking-records-ledger/internal/domain/ledger"
	"github.com/banking-records-ledger/internal/domain/profile"
	"github.com/banking-records-ledger/internal/domain/record"
	"github.com/shopspring/decimal"
)

// WriterLock serialises every operation that rewrites a table
type WriterLock struct {
	mu     sync.Mutex
	shared record.Locker
}

// Acquire takes the in-process lock, then the store-wide one when present.
// The returned func releases both.
func (l *WriterLock) Acquire(ctx context.Context) (func(), error) {
	l.mu.Lock()
	if l.shared == nil {
		return l.mu.Unlock, nil
	}
	release, err := l.shared.LockWriter(ctx)
	if err != nil {
		l.mu.Unlock()
		return nil, fmt.Errorf("failed to acquire writer lock: %w", err)
	}
	return func() {
		release()
		l.mu.Unlock()
	}, nil
}

// Clock returns the current time
type Clock func() time.Time

// Options holds the business rules
type Options struct {
	AnnualRate            decimal.Decimal
	AccountNumberSeed     int
	InitialPasswordPrefix string
	Clock                 Clock
}

// OptionsFromConfig maps BANK_* settings onto Options
func OptionsFromConfig(cfg config.BankConfig) Options {
	return Options{
		AnnualRate:            cfg.AnnualInterestRate,
		AccountNumberSeed:     cfg.AccountNumberSeed,
		InitialPasswordPrefix: cfg.InitialPasswordPrefix,
		Clock:                 time.Now,
	}
}

// Repositories the services persist through
type Repositories struct {
	Accounts     account.Repository
	Profiles     profile.Repository
	Audit        profile.AuditRepository
	Transactions ledger.TransactionRepository
	Interest     ledger.InterestRepository
	Credentials  credential.Repository
	// Locker is optional; without it writers are only serialised in-process.
	Locker       record.Locker
}

// Bank groups the services built over one set of repositories and one lock
type Bank struct {
	Accounts     *AccountLedger
	Customers    *CustomerDirectory
	Transactions *TransactionLog
	Interest     *InterestEngine
	Transfers    *TransferCoordinator
}

// New wires every service to the same WriterLock
func New(logger *slog.Logger, repos Repositories, opts Options) *Bank {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	lock := &WriterLock{shared: repos.Locker}
	gate := &lifecycleGate{profiles: repos.Profiles, accounts: repos.Accounts}

	return &Bank{
		Accounts:     NewAccountLedger(logger, lock, gate, repos.Accounts, repos.Transactions, opts.Clock),
		Customers:    NewCustomerDirectory(logger, lock, repos, opts),
		Transactions: NewTransactionLog(gate, repos.Transactions),
		Interest:     NewInterestEngine(logger, lock, repos, opts),
		Transfers:    NewTransferCoordinator(logger, lock, gate, repos.Accounts, repos.Transactions, opts.Clock),
	}
}

// lifecycleGate answers the status and existence checks that precede most operations
type lifecycleGate struct {
	profiles profile.Repository
	accounts account.Repository
}

// ensureActive fails with AccountInactive when the profile is Inactive.
// An account without a profile line is not treated as inactive.
func (g *lifecycleGate) ensureActive(ctx context.Context, accountNumbers ...string) error {
	profiles, err := g.profiles.LoadAll(ctx)
	if err != nil {
		return err
	}
	for _, n := range accountNumbers {
		if p := profiles.Find(n); p != nil && !p.IsActive() {
			return profile.ErrInactive{AccountNumber: n}
		}
	}
	return nil
}

// ensureExists fails with AccountNotFound when no account line matches
func (g *lifecycleGate) ensureExists(ctx context.Context, accountNumber string) (*account.Account, error) {
	accounts, err := g.accounts.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	a := accounts.Find(accountNumber)
	if a == nil {
		return nil, account.ErrAccountNotFound{AccountNumber: accountNumber}
	}
	return a, nil
}
