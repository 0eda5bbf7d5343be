// Package credential covers the initial login entry written for a new account
// and the caller identity every operation is authorised against.
package credential

import (
	"context"
	"fmt"

	"github.com/banking-records-ledger/internal/domain/record"
	"golang.org/x/crypto/bcrypt"
)

// Role of a caller
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole accepts admin or user
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleUser:
		return Role(s), true
	}
	return "", false
}

// Credential is one line of the credential table
type Credential struct {
	Username     string
	PasswordHash string
	Role         Role
}

// Username returns the login name issued for an account
func Username(accountNumber string) string {
	return "user" + accountNumber
}

// NewInitial issues the first credential of an account. The clear-text
// password is returned once so it can be handed to the customer.
func NewInitial(accountNumber, passwordPrefix string) (*Credential, string, error) {
	password := passwordPrefix + accountNumber
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash initial password: %w", err)
	}
	return &Credential{
		Username:     Username(accountNumber),
		PasswordHash: string(hash),
		Role:         RoleUser,
	}, password, nil
}

// Matches reports whether password is the one the hash was made from
func (c *Credential) Matches(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
}

// ToRecord encodes a credential as a username:hash:role line
func (c *Credential) ToRecord() record.Record {
	return record.Record{c.Username, c.PasswordHash, string(c.Role)}
}

// FromRecord decodes a credential line
func FromRecord(rec record.Record) (*Credential, error) {
	if len(rec) != record.Credentials.Fields {
		return nil, fmt.Errorf("credential line has %d fields", len(rec))
	}
	role, ok := ParseRole(rec[2])
	if !ok {
		return nil, fmt.Errorf("unknown role %q", rec[2])
	}
	return &Credential{Username: rec[0], PasswordHash: rec[1], Role: role}, nil
}

// Repository appends to the external credential store
type Repository interface {
	Append(ctx context.Context, credential *Credential) error
	GetByUsername(ctx context.Context, username string) (*Credential, error)
}

// ErrCredentialNotFound indicates missing login entry
type ErrCredentialNotFound struct {
	Username string
}

func (e ErrCredentialNotFound) Error() string {
	return "credential not found: " + e.Username
}
