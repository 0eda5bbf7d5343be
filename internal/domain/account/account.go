package account

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/banking-records-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrInsufficientFunds      = fmt.Errorf("%w for withdrawal", shared.ErrInsufficientFunds)
	ErrInvalidAmount          = fmt.Errorf("%w: amount must be positive with at most two decimal places", shared.ErrValidation)
	ErrNegativeOpeningBalance = fmt.Errorf("%w: opening balance must be non-negative with at most two decimal places", shared.ErrValidation)
	ErrEmptyOwnerName         = fmt.Errorf("%w: owner name cannot be empty", shared.ErrValidation)
)

// Account is the balance-bearing record of a customer
type Account struct {
	Number    string          `json:"account_number"`
	OwnerName string          `json:"owner_name"`
	Balance   decimal.Decimal `json:"balance"`
}

// NewAccount creates an account with an opening balance
func NewAccount(number, ownerName string, openingBalance decimal.Decimal) (*Account, error) {
	if strings.TrimSpace(ownerName) == "" {
		return nil, ErrEmptyOwnerName
	}
	if openingBalance.IsNegative() || !openingBalance.Equal(openingBalance.Round(2)) {
		return nil, ErrNegativeOpeningBalance
	}

	return &Account{
		Number:    number,
		OwnerName: ownerName,
		Balance:   openingBalance,
	}, nil
}

// ValidateAmount checks a money movement amount
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
		return ErrInvalidAmount
	}
	return nil
}

// Deposit adds the specified amount to the account balance
func (a *Account) Deposit(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}

	a.Balance = a.Balance.Add(amount)
	return nil
}

// Withdraw subtracts the specified amount from the account balance
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}

	if !a.CanWithdraw(amount) {
		return ErrInsufficientFunds
	}

	a.Balance = a.Balance.Sub(amount)
	return nil
}

// CanWithdraw checks if the account has sufficient funds for a withdrawal
func (a *Account) CanWithdraw(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// Accounts is the ordered content of the account table
type Accounts []*Account

// Find returns the account with the given number, or nil
func (as Accounts) Find(number string) *Account {
	for _, a := range as {
		if a.Number == number {
			return a
		}
	}
	return nil
}

// NextNumber returns one past the highest numeric account number, never below
// seed+1. taken lists numbers held outside the account table, such as profile
// lines whose account line was never written.
func (as Accounts) NextNumber(seed int, taken ...string) string {
	highest := seed
	consider := func(number string) {
		if n, err := strconv.Atoi(number); err == nil && n > highest {
			highest = n
		}
	}
	for _, a := range as {
		consider(a.Number)
	}
	for _, number := range taken {
		consider(number)
	}
	return strconv.Itoa(highest + 1)
}

// Total sums every balance
func (as Accounts) Total() decimal.Decimal {
	total := decimal.Zero
	for _, a := range as {
		total = total.Add(a.Balance)
	}
	return total
}
