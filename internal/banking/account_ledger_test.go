package banking

import (
	"context"
	"sync"
	"testing"

	"github.com/banking-records-ledger/internal/domain/credential"
	"github.com/banking-records-ledger/internal/domain/ledger"
	"github.com/banking-records-ledger/internal/domain/profile"
	"github.com/banking-records-ledger/internal/domain/record"
	"github.com/banking-records-ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountLedger_OpenThenDeposit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.bank.Customers.Create(ctx, admin, profile.Details{
		Name:        "alice perera",
		NIC:         "199012345678",
		DateOfBirth: "1990-05-20",
		Phone:       "0771234567",
		Email:       "alice@bank.lk",
		Address:     "12 Galle Road",
		Gender:      "female",
		AccountType: profile.AccountTypeSavings,
	}, amount("1000.00"))
	require.NoError(t, err)
	number := created.Account.Number

	acc, err := f.bank.Accounts.Deposit(ctx, credential.User(number), number, amount("500.00"))
	require.NoError(t, err)
	assert.Equal(t, "1500.00", acc.Balance.StringFixed(2))
	assert.Equal(t, "1500.00", f.balance(number))

	txs, err := f.bank.Transactions.QueryByAccount(ctx, admin, number)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, ledger.KindOpeningBalance, txs[0].Kind)
	assert.Equal(t, "1000.00", txs[0].Amount.StringFixed(2))
	assert.Equal(t, ledger.KindDeposit, txs[1].Kind)
	assert.Equal(t, "500.00", txs[1].Amount.StringFixed(2))
	assert.True(t, f.now.Equal(txs[1].Timestamp))
}

func TestAccountLedger_Withdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		f.seed("2004", "300.00", "Current", "Active")

		acc, err := f.bank.Accounts.Withdraw(ctx, admin, "2004", amount("120.50"))
		require.NoError(t, err)
		assert.Equal(t, "179.50", acc.Balance.StringFixed(2))
		assert.Equal(t, []string{"2004|Withdraw|120.50|2024-03-15 10:30:00"}, f.lines(record.Transactions))
	})

	t.Run("OverdraftLeavesBalanceUnchanged", func(t *testing.T) {
		f := newFixture(t)
		f.seed("2004", "100.00", "Current", "Active")

		_, err := f.bank.Accounts.Withdraw(ctx, admin, "2004", amount("100.01"))
		assert.ErrorIs(t, err, shared.ErrInsufficientFunds)
		assert.Equal(t, "100.00", f.balance("2004"))
		assert.Empty(t, f.lines(record.Transactions))
	})

	t.Run("FullBalance", func(t *testing.T) {
		f := newFixture(t)
		f.seed("2004", "100.00", "Current", "Active")

		acc, err := f.bank.Accounts.Withdraw(ctx, admin, "2004", amount("100.00"))
		require.NoError(t, err)
		assert.True(t, acc.Balance.IsZero())
	})
}

func TestAccountLedger_PreconditionOrder(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name        string
		caller      credential.Caller
		account     string
		amount      string
		expectedErr error
	}{
		{"OtherCustomerDeniedBeforeLifecycle", credential.User("2005"), "2006", "10.00", shared.ErrAccessDenied},
		{"InactiveBeforeAmount", admin, "2006", "-5", shared.ErrAccountInactive},
		{"AmountBeforeExistence", admin, "9999", "0", shared.ErrValidation},
		{"TooManyDecimals", admin, "2004", "1.005", shared.ErrValidation},
		{"MissingAccount", admin, "9999", "10.00", shared.ErrNotFound},
		{"OwnerAllowed", credential.User("2004"), "2004", "10.00", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.seed("2004", "50.00", "Savings", "Active")
			f.seed("2005", "50.00", "Savings", "Active")
			f.seed("2006", "50.00", "Savings", "Inactive")

			_, err := f.bank.Accounts.Deposit(ctx, tc.caller, tc.account, amount(tc.amount))
			if tc.expectedErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Equal(t, "50.00", f.balance("2004"))
			assert.Empty(t, f.lines(record.Transactions))
		})
	}
}

func TestAccountLedger_AuditIncomplete(t *testing.T) {
	f := newFixture(t)
	f.seed("2004", "100.00", "Current", "Active")
	f.store.failAppend = record.Transactions.Name

	_, err := f.bank.Accounts.Deposit(context.Background(), admin, "2004", amount("25.00"))

	var auditErr *shared.AuditIncompleteError
	require.ErrorAs(t, err, &auditErr)
	assert.ErrorIs(t, err, shared.ErrIO)
	assert.False(t, shared.IsBusinessError(err))
	assert.Equal(t, "125.00", f.balance("2004"), "balance rewrite stands")
}

func TestAccountLedger_MalformedTableBlocksRewrite(t *testing.T) {
	f := newFixture(t)
	f.seed("2004", "100.00", "Current", "Active")
	f.appendLine(record.Accounts, "2005|broken")

	_, err := f.bank.Accounts.Deposit(context.Background(), admin, "2004", amount("25.00"))
	assert.ErrorIs(t, err, record.ErrMalformedTable{Table: record.Accounts.Name})
	assert.Equal(t, []string{"2004|HOLDER 2004|100.00", "2005|broken"}, f.lines(record.Accounts))
}

func TestAccountLedger_CheckBalance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed("2004", "42.10", "Current", "Active")
	f.seed("2005", "1.00", "Current", "Inactive")
	f.appendLine(record.Accounts, "2006|NO PROFILE|7.00")

	acc, err := f.bank.Accounts.CheckBalance(ctx, credential.User("2004"), "2004")
	require.NoError(t, err)
	assert.Equal(t, "42.10", acc.Balance.StringFixed(2))

	_, err = f.bank.Accounts.CheckBalance(ctx, admin, "2005")
	assert.ErrorIs(t, err, shared.ErrAccountInactive)

	acc, err = f.bank.Accounts.CheckBalance(ctx, admin, "2006")
	require.NoError(t, err)
	assert.Equal(t, "7.00", acc.Balance.StringFixed(2))

	_, err = f.bank.Accounts.CheckBalance(ctx, admin, "2007")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAccountLedger_ConcurrentDeposits(t *testing.T) {
	f := newFixture(t)
	f.seed("2004", "0.00", "Current", "Active")

	const workers = 40
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.bank.Accounts.Deposit(context.Background(), admin, "2004", amount("1.25"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, "50.00", f.balance("2004"))
	assert.Len(t, f.lines(record.Transactions), workers)
}
