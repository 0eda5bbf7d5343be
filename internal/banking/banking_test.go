package banking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/banking-records-ledger/internal/data/flatfile"
	"github.com/banking-records-ledger/internal/data/records"
	"github.com/banking-records-ledger/internal/domain/account"
	"github.com/banking-records-ledger/internal/domain/credential"
	"github.com/banking-records-ledger/internal/domain/record"
	"github.com/banking-records-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var errDiskFull = errors.New("disk full")

// faultyStore fails appends to one table
type faultyStore struct {
	record.Store
	failAppend string
}

func (s *faultyStore) Append(ctx context.Context, t record.Table, recs ...record.Record) error {
	if t.Name == s.failAppend {
		return &shared.StorageError{Table: t.Name, Op: "append", Err: errDiskFull}
	}
	return s.Store.Append(ctx, t, recs...)
}

type fixture struct {
	t     *testing.T
	dir   string
	now   time.Time
	store *faultyStore
	repos Repositories
	bank  *Bank
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()
	fileStore, err := flatfile.NewRecordStore(logger, dir)
	require.NoError(t, err)

	f := &fixture{
		t:     t,
		dir:   dir,
		now:   time.Date(2024, time.March, 15, 10, 30, 0, 0, time.Local),
		store: &faultyStore{Store: fileStore},
	}
	f.repos = Repositories{
		Accounts:     records.NewAccountRepository(logger, f.store),
		Profiles:     records.NewProfileRepository(logger, f.store),
		Audit:        records.NewAuditRepository(f.store),
		Transactions: records.NewTransactionRepository(logger, f.store),
		Interest:     records.NewInterestRepository(logger, f.store),
		Credentials:  records.NewCredentialRepository(logger, f.store),
		Locker:       fileStore,
	}
	f.bank = New(logger, f.repos, Options{
		AnnualRate:            decimal.RequireFromString("0.03"),
		AccountNumberSeed:     2003,
		InitialPasswordPrefix: "pass",
		Clock:                 func() time.Time { return f.now },
	})
	return f
}

// seed writes account and profile lines directly
func (f *fixture) seed(number, balance, accountType, status string) {
	f.t.Helper()
	f.appendLine(record.Accounts, number+"|HOLDER "+number+"|"+balance)
	f.appendLine(record.Profiles, number+"|HOLDER "+number+"|123456789V|1990-01-01|0771234567|h"+number+"@bank.lk|Colombo|Female|"+accountType+"|"+status)
}

func (f *fixture) appendLine(t record.Table, line string) {
	f.t.Helper()
	file, err := os.OpenFile(filepath.Join(f.dir, t.FileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(f.t, err)
	_, err = file.WriteString(line + "\n")
	require.NoError(f.t, err)
	require.NoError(f.t, file.Close())
}

func (f *fixture) lines(t record.Table) []string {
	f.t.Helper()
	content, err := os.ReadFile(filepath.Join(f.dir, t.FileName))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(f.t, err)
	return strings.Split(strings.TrimRight(string(content), "\n"), "\n")
}

func (f *fixture) balance(number string) string {
	f.t.Helper()
	accounts, err := f.repos.Accounts.LoadAll(context.Background())
	require.NoError(f.t, err)
	a := accounts.Find(number)
	require.NotNil(f.t, a, "account %s", number)
	return a.Balance.StringFixed(2)
}

func (f *fixture) total() decimal.Decimal {
	f.t.Helper()
	accounts, err := f.repos.Accounts.LoadAll(context.Background())
	require.NoError(f.t, err)
	return account.Accounts(accounts).Total()
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var admin = credential.Admin()
