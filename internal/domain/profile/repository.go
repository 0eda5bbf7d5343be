package profile

import (
	"context"
	"fmt"

	"github.com/banking-records-ledger/internal/domain/record"
	"github.com/banking-records-ledger/internal/domain/shared"
)

// Repository defines profile persistence operations
type Repository interface {
	LoadAll(ctx context.Context) (Profiles, error)

	// LoadForUpdate refuses when malformed lines would be lost by a rewrite
	LoadForUpdate(ctx context.Context) (Profiles, error)
	SaveAll(ctx context.Context, profiles Profiles) error
	Append(ctx context.Context, profile *Profile) error
}

// AuditRepository appends to the free-text change and deactivation logs
type AuditRepository interface {
	AppendChange(ctx context.Context, entry ChangeLogEntry) error
	AppendDeactivation(ctx context.Context, entry DeactivationLogEntry) error
}

// ErrProfileNotFound indicates missing customer profile
type ErrProfileNotFound struct {
	AccountNumber string
}

func (e ErrProfileNotFound) Error() string {
	return "customer profile not found: " + e.AccountNumber
}

// Is implements the errors.Is interface for ErrProfileNotFound
func (e ErrProfileNotFound) Is(target error) bool {
	if target == shared.ErrNotFound {
		return true
	}
	t, ok := target.(ErrProfileNotFound)
	if !ok {
		return false
	}
	return t.AccountNumber == "" || t.AccountNumber == e.AccountNumber
}

// ErrInactive indicates an operation on a deactivated account
type ErrInactive struct {
	AccountNumber string
}

func (e ErrInactive) Error() string {
	return "account is inactive: " + e.AccountNumber
}

// Is implements the errors.Is interface for ErrInactive
func (e ErrInactive) Is(target error) bool {
	if target == shared.ErrAccountInactive {
		return true
	}
	t, ok := target.(ErrInactive)
	if !ok {
		return false
	}
	return t.AccountNumber == "" || t.AccountNumber == e.AccountNumber
}

// ToRecord encodes a profile as a ten-field profile line
func ToRecord(p *Profile) record.Record {
	return record.Record{
		p.AccountNumber,
		p.Name,
		p.NIC,
		p.DateOfBirth,
		p.Phone,
		p.Email,
		p.Address,
		p.Gender,
		string(p.AccountType),
		string(p.Status),
	}
}

// FromRecord decodes a profile line. Nine-field lines predate the status
// column and are read as Active.
func FromRecord(rec record.Record) (*Profile, error) {
	if len(rec) != 9 && len(rec) != 10 {
		return nil, fmt.Errorf("profile line has %d fields", len(rec))
	}
	p := &Profile{
		AccountNumber: rec[0],
		Name:          rec[1],
		NIC:           rec[2],
		DateOfBirth:   rec[3],
		Phone:         rec[4],
		Email:         rec[5],
		Address:       rec[6],
		Gender:        rec[7],
		AccountType:   AccountType(rec[8]),
		Status:        StatusActive,
	}
	if len(rec) == 10 {
		switch Status(rec[9]) {
		case StatusActive, StatusInactive:
			p.Status = Status(rec[9])
		default:
			return nil, fmt.Errorf("unknown profile status %q", rec[9])
		}
	}
	return p, nil
}
