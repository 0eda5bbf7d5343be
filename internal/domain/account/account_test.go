package account

import (
	"errors"
	"testing"

	"github.com/banking-records-ledger/internal/domain/record"
	"github.com/banking-records-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount(t *testing.T) {
	t.Run("SuccessfulCreation", func(t *testing.T) {
		acc, err := NewAccount("2004", "JOHN DOE", decimal.RequireFromString("1000"))

		require.NoError(t, err)
		assert.Equal(t, "2004", acc.Number)
		assert.Equal(t, "JOHN DOE", acc.OwnerName)
		assert.True(t, acc.Balance.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("ZeroOpeningBalance", func(t *testing.T) {
		_, err := NewAccount("2004", "JOHN DOE", decimal.Zero)
		assert.NoError(t, err)
	})

	t.Run("NegativeOpeningBalance", func(t *testing.T) {
		_, err := NewAccount("2004", "JOHN DOE", decimal.NewFromInt(-1))
		assert.ErrorIs(t, err, ErrNegativeOpeningBalance)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("EmptyOwner", func(t *testing.T) {
		_, err := NewAccount("2004", "  ", decimal.Zero)
		assert.ErrorIs(t, err, ErrEmptyOwnerName)
	})
}

func TestAccount_Deposit(t *testing.T) {
	t.Run("SuccessfulDeposit", func(t *testing.T) {
		acc := &Account{Number: "2004", Balance: decimal.RequireFromString("1000.00")}

		err := acc.Deposit(decimal.RequireFromString("500"))

		require.NoError(t, err)
		assert.Equal(t, "1500.00", acc.Balance.StringFixed(2))
	})

	t.Run("RejectsNonPositive", func(t *testing.T) {
		acc := &Account{Balance: decimal.NewFromInt(10)}

		assert.ErrorIs(t, acc.Deposit(decimal.Zero), ErrInvalidAmount)
		assert.ErrorIs(t, acc.Deposit(decimal.NewFromInt(-5)), ErrInvalidAmount)
		assert.True(t, acc.Balance.Equal(decimal.NewFromInt(10)))
	})

	t.Run("RejectsSubCentAmount", func(t *testing.T) {
		acc := &Account{Balance: decimal.Zero}
		assert.ErrorIs(t, acc.Deposit(decimal.RequireFromString("0.005")), ErrInvalidAmount)
	})
}

func TestAccount_Withdraw(t *testing.T) {
	t.Run("SuccessfulWithdrawal", func(t *testing.T) {
		acc := &Account{Balance: decimal.RequireFromString("100.00")}

		require.NoError(t, acc.Withdraw(decimal.RequireFromString("30.50")))
		assert.Equal(t, "69.50", acc.Balance.StringFixed(2))
	})

	t.Run("WithdrawEntireBalance", func(t *testing.T) {
		acc := &Account{Balance: decimal.RequireFromString("100.00")}

		require.NoError(t, acc.Withdraw(decimal.NewFromInt(100)))
		assert.True(t, acc.Balance.IsZero())
	})

	t.Run("InsufficientFunds", func(t *testing.T) {
		acc := &Account{Balance: decimal.RequireFromString("100.00")}

		err := acc.Withdraw(decimal.RequireFromString("100.01"))
		assert.ErrorIs(t, err, shared.ErrInsufficientFunds)
		assert.Equal(t, "100.00", acc.Balance.StringFixed(2))
	})
}

func TestAccount_CanWithdraw(t *testing.T) {
	acc := &Account{Balance: decimal.NewFromInt(1000)}
	assert.True(t, acc.CanWithdraw(decimal.NewFromInt(500)))
	assert.True(t, acc.CanWithdraw(decimal.NewFromInt(1000)))
	assert.False(t, acc.CanWithdraw(decimal.NewFromInt(1001)))
}

func TestAccounts(t *testing.T) {
	accounts := Accounts{
		{Number: "2004", Balance: decimal.NewFromInt(10)},
		{Number: "2010", Balance: decimal.RequireFromString("5.25")},
		{Number: "legacy", Balance: decimal.Zero},
	}

	assert.Equal(t, "2010", accounts.Find("2010").Number)
	assert.Nil(t, accounts.Find("9999"))
	assert.Equal(t, "2011", accounts.NextNumber(2003))
	assert.Equal(t, "2004", Accounts{}.NextNumber(2003))
	assert.Equal(t, "2013", accounts.NextNumber(2003, "2012", "bad"))
	assert.Equal(t, "2011", accounts.NextNumber(2003, "2008"))
	assert.Equal(t, "15.25", accounts.Total().StringFixed(2))
}

func TestAccountCodec(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		acc := &Account{Number: "2004", OwnerName: "JOHN DOE", Balance: decimal.RequireFromString("1002.5")}

		rec := ToRecord(acc)
		assert.Equal(t, record.Record{"2004", "JOHN DOE", "1002.50"}, rec)

		decoded, err := FromRecord(rec)
		require.NoError(t, err)
		assert.Equal(t, acc.Number, decoded.Number)
		assert.True(t, acc.Balance.Equal(decoded.Balance))
	})

	t.Run("InvalidBalance", func(t *testing.T) {
		_, err := FromRecord(record.Record{"2004", "JOHN DOE", "lots"})
		assert.Error(t, err)
	})
}

func TestErrAccountNotFound_Is(t *testing.T) {
	err := ErrAccountNotFound{AccountNumber: "2004"}

	assert.True(t, errors.Is(err, shared.ErrNotFound))
	assert.True(t, errors.Is(err, ErrAccountNotFound{}))
	assert.True(t, errors.Is(err, ErrAccountNotFound{AccountNumber: "2004"}))
	assert.False(t, errors.Is(err, ErrAccountNotFound{AccountNumber: "2005"}))
	assert.Equal(t, "account not found: 2004", err.Error())
}
