package banking

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/banking-records-ledger/internal/domain/account"
	"github.com/banking-records-ledger/internal/domain/credential"
	"github.com/banking-records-ledger/internal/domain/ledger"
	"github.com/banking-records-ledger/internal/domain/profile"
	"github.com/banking-records-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var monthsPerYear = decimal.NewFromInt(12)

// InterestRun summarises one invocation of the engine
type InterestRun struct {
	Applied []*ledger.InterestEntry `json:"applied"`
	Skipped int                     `json:"skipped"` // Eligible accounts already credited this month
}

// AccountNumbers lists the accounts credited by the run
func (r *InterestRun) AccountNumbers() []string {
	numbers := make([]string, 0, len(r.Applied))
	for _, entry := range r.Applied {
		numbers = append(numbers, entry.AccountNumber)
	}
	return numbers
}

// InterestEngine credits monthly interest to Active Savings accounts, at most
// once per account per calendar month. The interest log is the witness.
type InterestEngine struct {
	logger       *slog.Logger
	lock         *WriterLock
	accounts     account.Repository
	profiles     profile.Repository
	interest     ledger.InterestRepository
	transactions ledger.TransactionRepository
	annualRate   decimal.Decimal
	now          Clock
}

func NewInterestEngine(logger *slog.Logger, lock *WriterLock, repos Repositories, opts Options) *InterestEngine {
	return &InterestEngine{
		logger:       logger,
		lock:         lock,
		accounts:     repos.Accounts,
		profiles:     repos.Profiles,
		interest:     repos.Interest,
		transactions: repos.Transactions,
		annualRate:   opts.AnnualRate,
		now:          opts.Clock,
	}
}

// MonthlyRate is the fraction credited each month
func (e *InterestEngine) MonthlyRate() decimal.Decimal {
	return e.annualRate.Div(monthsPerYear)
}

// Apply credits interest to every eligible account not yet credited this month
func (e *InterestEngine) Apply(ctx context.Context, caller credential.Caller) (*InterestRun, error) {
	if err := caller.AuthorizeAdmin("apply interest"); err != nil {
		return nil, err
	}

	release, err := e.lock.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	now := e.now()
	history, err := e.interest.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	applied := ledger.AppliedIn(history, now)

	profiles, err := e.profiles.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	accounts, err := e.accounts.LoadForUpdate(ctx)
	if err != nil {
		return nil, err
	}

	monthly := e.MonthlyRate()
	ratePercent := monthly.Mul(decimal.NewFromInt(100)).Round(2)
	run := &InterestRun{}
	var txs []*ledger.TransactionRecord

	for _, p := range profiles {
		if !p.InterestEligible() {
			continue
		}
		if _, done := applied[p.AccountNumber]; done {
			run.Skipped++
			continue
		}
		acc := accounts.Find(p.AccountNumber)
		if acc == nil {
			e.logger.Warn("Savings profile has no account line", "account_number", p.AccountNumber)
			continue
		}

		interest := acc.Balance.Mul(monthly).Round(2)
		acc.Balance = acc.Balance.Add(interest).Round(2)
		// Mark as applied so a duplicated profile line cannot credit twice
		applied[p.AccountNumber] = struct{}{}

		run.Applied = append(run.Applied, &ledger.InterestEntry{
			AccountNumber:  p.AccountNumber,
			Date:           now,
			InterestAmount: interest,
			RatePercent:    ratePercent,
		})
		txs = append(txs, ledger.NewTransactionRecord(p.AccountNumber, ledger.KindInterest, interest, now))
	}

	if len(run.Applied) == 0 {
		e.logger.Info("No accounts due for interest", "skipped", run.Skipped)
		return run, nil
	}

	// The witness is written before any balance changes, so a failed run
	// can never be credited again in the same month.
	if err := e.interest.Append(ctx, run.Applied...); err != nil {
		return nil, err
	}
	if err := e.accounts.SaveAll(ctx, accounts); err != nil {
		e.logger.Error("Interest logged but balances not saved",
			"accounts", run.AccountNumbers(),
			"error", err)
		return nil, fmt.Errorf("interest log written but balances not saved: %w", err)
	}
	if err := e.transactions.Append(ctx, txs...); err != nil {
		return nil, &shared.AuditIncompleteError{Operation: "apply interest", Err: err}
	}

	e.logger.Info("Interest applied",
		"accounts", len(run.Applied),
		"skipped", run.Skipped,
		"rate_percent", ratePercent.StringFixed(2))

	return run, nil
}

// History returns the interest log in file order
func (e *InterestEngine) History(ctx context.Context, caller credential.Caller) ([]*ledger.InterestEntry, error) {
	if err := caller.AuthorizeAdmin("view interest history"); err != nil {
		return nil, err
	}
	return e.interest.LoadAll(ctx)
}
