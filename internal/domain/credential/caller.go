package credential

import (
	"fmt"

	"github.com/banking-records-ledger/internal/domain/shared"
)

// Caller is the authenticated identity behind a request
type Caller struct {
	Role          Role
	AccountNumber string // Own account for users, empty for admins
}

// Admin returns an administrative caller
func Admin() Caller {
	return Caller{Role: RoleAdmin}
}

// User returns a customer caller bound to their own account
func User(accountNumber string) Caller {
	return Caller{Role: RoleUser, AccountNumber: accountNumber}
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// AuthorizeAccount allows admins and the owner of accountNumber
func (c Caller) AuthorizeAccount(accountNumber string) error {
	if c.IsAdmin() {
		return nil
	}
	if c.Role == RoleUser && c.AccountNumber != "" && c.AccountNumber == accountNumber {
		return nil
	}
	return fmt.Errorf("%w: account %s belongs to another customer", shared.ErrAccessDenied, accountNumber)
}

// AuthorizeAdmin allows admins only
func (c Caller) AuthorizeAdmin(operation string) error {
	if c.IsAdmin() {
		return nil
	}
	return fmt.Errorf("%w: %s requires an administrator", shared.ErrAccessDenied, operation)
}

func (c Caller) String() string {
	if c.IsAdmin() {
		return string(RoleAdmin)
	}
	return fmt.Sprintf("%s:%s", c.Role, c.AccountNumber)
}
