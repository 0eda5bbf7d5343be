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

var ErrDeactivationNotConfirmed = fmt.Errorf("%w: deactivation must be confirmed", shared.ErrValidation)

// CreatedAccount is the result of opening an account. Password is the initial
// clear-text password and is not stored anywhere.
type CreatedAccount struct {
	Account  *account.Account `json:"account"`
	Profile  *profile.Profile `json:"profile"`
	Username string           `json:"username"`
	Password string           `json:"password"`
}

// CustomerDirectory owns customer profiles and their Active/Inactive lifecycle
type CustomerDirectory struct {
	logger       *slog.Logger
	lock         *WriterLock
	profiles     profile.Repository
	audit        profile.AuditRepository
	accounts     account.Repository
	credentials  credential.Repository
	transactions ledger.TransactionRepository
	opts         Options
}

func NewCustomerDirectory(logger *slog.Logger, lock *WriterLock, repos Repositories, opts Options) *CustomerDirectory {
	return &CustomerDirectory{
		logger:       logger,
		lock:         lock,
		profiles:     repos.Profiles,
		audit:        repos.Audit,
		accounts:     repos.Accounts,
		credentials:  repos.Credentials,
		transactions: repos.Transactions,
		opts:         opts,
	}
}

// Create opens an account with the next free number
func (d *CustomerDirectory) Create(ctx context.Context, caller credential.Caller, details profile.Details, openingBalance decimal.Decimal) (*CreatedAccount, error) {
	if err := caller.AuthorizeAdmin("create account"); err != nil {
		return nil, err
	}

	release, err := d.lock.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	// Strict loads: a malformed line may still hold a number in use
	accounts, err := d.accounts.LoadForUpdate(ctx)
	if err != nil {
		return nil, err
	}
	profiles, err := d.profiles.LoadForUpdate(ctx)
	if err != nil {
		return nil, err
	}
	number := accounts.NextNumber(d.opts.AccountNumberSeed, profiles.AccountNumbers()...)

	p, err := profile.NewProfile(number, details)
	if err != nil {
		return nil, err
	}
	acc, err := account.NewAccount(number, p.Name, openingBalance)
	if err != nil {
		return nil, err
	}
	cred, password, err := credential.NewInitial(number, d.opts.InitialPasswordPrefix)
	if err != nil {
		return nil, err
	}

	// The account line goes first so a failed create never leaves a profile
	// without an account.
	if err := d.accounts.Append(ctx, acc); err != nil {
		return nil, err
	}
	if err := d.profiles.Append(ctx, p); err != nil {
		return nil, err
	}

	opening := ledger.NewTransactionRecord(number, ledger.KindOpeningBalance, acc.Balance, d.opts.Clock())
	if err := d.credentials.Append(ctx, cred); err != nil {
		return nil, &shared.AuditIncompleteError{Operation: "create account", Err: err}
	}
	if err := d.transactions.Append(ctx, opening); err != nil {
		return nil, &shared.AuditIncompleteError{Operation: "create account", Err: err}
	}

	d.logger.Info("Account created",
		"account_number", number,
		"account_type", p.AccountType,
		"opening_balance", acc.Balance.StringFixed(2))

	return &CreatedAccount{Account: acc, Profile: p, Username: cred.Username, Password: password}, nil
}

// Update changes one profile field. An unknown field name changes nothing and
// returns the profile as stored.
func (d *CustomerDirectory) Update(ctx context.Context, caller credential.Caller, accountNumber, fieldName, value string) (*profile.Profile, error) {
	if err := caller.AuthorizeAdmin("update profile"); err != nil {
		return nil, err
	}

	release, err := d.lock.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	profiles, err := d.profiles.LoadForUpdate(ctx)
	if err != nil {
		return nil, err
	}
	p := profiles.Find(accountNumber)
	if p == nil {
		return nil, profile.ErrProfileNotFound{AccountNumber: accountNumber}
	}
	if !p.IsActive() {
		return nil, profile.ErrInactive{AccountNumber: accountNumber}
	}

	field, ok := profile.ParseField(fieldName)
	if !ok {
		d.logger.Debug("Ignoring update of unknown profile field", "account_number", accountNumber, "field", fieldName)
		return p, nil
	}

	entry, err := p.Update(field, value)
	if err != nil {
		return nil, err
	}
	if err := d.profiles.SaveAll(ctx, profiles); err != nil {
		return nil, err
	}
	if err := d.audit.AppendChange(ctx, entry); err != nil {
		return nil, &shared.AuditIncompleteError{Operation: "update profile", Err: err}
	}

	d.logger.Info("Profile updated", "account_number", accountNumber, "field", field)
	return p, nil
}

// Deactivate flips the profile to Inactive. It reports false when the profile
// was already Inactive.
func (d *CustomerDirectory) Deactivate(ctx context.Context, caller credential.Caller, accountNumber, reason string, confirmed bool) (bool, error) {
	if err := caller.AuthorizeAdmin("deactivate account"); err != nil {
		return false, err
	}
	if !confirmed {
		return false, ErrDeactivationNotConfirmed
	}

	release, err := d.lock.Acquire(ctx)
	if err != nil {
		return false, err
	}
	defer release()

	profiles, err := d.profiles.LoadForUpdate(ctx)
	if err != nil {
		return false, err
	}
	p := profiles.Find(accountNumber)
	if p == nil {
		return false, profile.ErrProfileNotFound{AccountNumber: accountNumber}
	}
	if !p.Deactivate() {
		return false, nil
	}
	if err := d.profiles.SaveAll(ctx, profiles); err != nil {
		return false, err
	}

	entry := profile.DeactivationLogEntry{AccountNumber: accountNumber, At: d.opts.Clock(), Reason: reason}
	if err := d.audit.AppendDeactivation(ctx, entry); err != nil {
		return true, &shared.AuditIncompleteError{Operation: "deactivate account", Err: err}
	}

	d.logger.Info("Account deactivated", "account_number", accountNumber, "reason", reason)
	return true, nil
}

// Restore flips the profile back to Active. It reports false when the profile
// was already Active.
func (d *CustomerDirectory) Restore(ctx context.Context, caller credential.Caller, accountNumber string) (bool, error) {
	if err := caller.AuthorizeAdmin("restore account"); err != nil {
		return false, err
	}

	release, err := d.lock.Acquire(ctx)
	if err != nil {
		return false, err
	}
	defer release()

	profiles, err := d.profiles.LoadForUpdate(ctx)
	if err != nil {
		return false, err
	}
	p := profiles.Find(accountNumber)
	if p == nil {
		return false, profile.ErrProfileNotFound{AccountNumber: accountNumber}
	}
	if !p.Restore() {
		return false, nil
	}
	if err := d.profiles.SaveAll(ctx, profiles); err != nil {
		return false, err
	}

	entry := profile.ChangeLogEntry{
		AccountNumber: accountNumber,
		Field:         "Status",
		Old:           string(profile.StatusInactive),
		New:           string(profile.StatusActive),
	}
	if err := d.audit.AppendChange(ctx, entry); err != nil {
		return true, &shared.AuditIncompleteError{Operation: "restore account", Err: err}
	}

	d.logger.Info("Account restored", "account_number", accountNumber)
	return true, nil
}

// Find returns the profile of an Active account
func (d *CustomerDirectory) Find(ctx context.Context, caller credential.Caller, accountNumber string) (*profile.Profile, error) {
	if err := caller.AuthorizeAccount(accountNumber); err != nil {
		return nil, err
	}
	profiles, err := d.profiles.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	p := profiles.Find(accountNumber)
	if p == nil {
		return nil, profile.ErrProfileNotFound{AccountNumber: accountNumber}
	}
	if !p.IsActive() {
		return nil, profile.ErrInactive{AccountNumber: accountNumber}
	}
	return p, nil
}

// Search scans every profile for an exact NIC or phone match
func (d *CustomerDirectory) Search(ctx context.Context, caller credential.Caller, field, value string) (profile.Profiles, error) {
	if err := caller.AuthorizeAdmin("search profiles"); err != nil {
		return nil, err
	}
	searchField, err := profile.ParseSearchField(field)
	if err != nil {
		return nil, err
	}
	profiles, err := d.profiles.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return profiles.Search(searchField, value), nil
}
