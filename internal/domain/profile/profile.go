// Package profile holds customer identity records and their lifecycle.
package profile

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/banking-records-ledger/internal/domain/shared"
)

// AccountType decides interest eligibility
type AccountType string

const (
	AccountTypeSavings AccountType = "Savings"
	AccountTypeCurrent AccountType = "Current"
)

// Status gates money movement and most reads
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// DateLayout is the stored date of birth format
const DateLayout = "2006-01-02"

// Profile is the identity record of an account holder
type Profile struct {
	AccountNumber string      `json:"account_number"`
	Name          string      `json:"name"`
	NIC           string      `json:"nic"`
	DateOfBirth   string      `json:"date_of_birth"`
	Phone         string      `json:"phone"`
	Email         string      `json:"email"`
	Address       string      `json:"address"`
	Gender        string      `json:"gender"`
	AccountType   AccountType `json:"account_type"`
	Status        Status      `json:"status"`
}

// Details are the caller-supplied fields of a new profile
type Details struct {
	Name        string
	NIC         string
	DateOfBirth string
	Phone       string
	Email       string
	Address     string
	Gender      string
	AccountType AccountType
}

// NewProfile validates and normalises details into an Active profile
func NewProfile(accountNumber string, d Details) (*Profile, error) {
	p := &Profile{AccountNumber: accountNumber, Status: StatusActive}

	fields := []struct {
		field Field
		value string
	}{
		{FieldName, d.Name},
		{FieldNIC, d.NIC},
		{FieldDateOfBirth, d.DateOfBirth},
		{FieldGender, d.Gender},
		{FieldPhone, d.Phone},
		{FieldEmail, d.Email},
		{FieldAddress, d.Address},
	}
	for _, f := range fields {
		normalized, err := NormalizeField(f.field, f.value)
		if err != nil {
			return nil, err
		}
		p.set(f.field, normalized)
	}

	accountType, err := ParseAccountType(string(d.AccountType))
	if err != nil {
		return nil, err
	}
	p.AccountType = accountType

	return p, nil
}

// ParseAccountType accepts Savings or Current in any case
func ParseAccountType(s string) (AccountType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "savings":
		return AccountTypeSavings, nil
	case "current":
		return AccountTypeCurrent, nil
	default:
		return "", fmt.Errorf("%w: account type must be Savings or Current", shared.ErrValidation)
	}
}

// IsActive reports whether money may move on the account
func (p *Profile) IsActive() bool {
	return p.Status != StatusInactive
}

// InterestEligible reports whether monthly interest applies
func (p *Profile) InterestEligible() bool {
	return p.AccountType == AccountTypeSavings && p.Status == StatusActive
}

// Deactivate flips the profile to Inactive. It returns false when it already was.
func (p *Profile) Deactivate() bool {
	if p.Status == StatusInactive {
		return false
	}
	p.Status = StatusInactive
	return true
}

// Restore flips the profile back to Active. It returns false when it already was.
func (p *Profile) Restore() bool {
	if p.Status == StatusActive {
		return false
	}
	p.Status = StatusActive
	return true
}

// Get returns the current value of an updatable field
func (p *Profile) Get(f Field) string {
	switch f {
	case FieldPhone:
		return p.Phone
	case FieldEmail:
		return p.Email
	case FieldAddress:
		return p.Address
	case FieldName:
		return p.Name
	case FieldNIC:
		return p.NIC
	case FieldDateOfBirth:
		return p.DateOfBirth
	case FieldGender:
		return p.Gender
	}
	return ""
}

// Update sets a field after validation and returns the change to log
func (p *Profile) Update(f Field, value string) (ChangeLogEntry, error) {
	normalized, err := NormalizeField(f, value)
	if err != nil {
		return ChangeLogEntry{}, err
	}
	entry := ChangeLogEntry{
		AccountNumber: p.AccountNumber,
		Field:         f.Label(),
		Old:           p.Get(f),
		New:           normalized,
	}
	p.set(f, normalized)
	return entry, nil
}

func (p *Profile) set(f Field, value string) {
	switch f {
	case FieldPhone:
		p.Phone = value
	case FieldEmail:
		p.Email = value
	case FieldAddress:
		p.Address = value
	case FieldName:
		p.Name = value
	case FieldNIC:
		p.NIC = value
	case FieldDateOfBirth:
		p.DateOfBirth = value
	case FieldGender:
		p.Gender = value
	}
}

// Profiles is the ordered content of the profile table
type Profiles []*Profile

// AccountNumbers lists the number of every profile line in file order
func (ps Profiles) AccountNumbers() []string {
	numbers := make([]string, 0, len(ps))
	for _, p := range ps {
		numbers = append(numbers, p.AccountNumber)
	}
	return numbers
}

// Find returns the profile with the given account number, or nil
func (ps Profiles) Find(accountNumber string) *Profile {
	for _, p := range ps {
		if p.AccountNumber == accountNumber {
			return p
		}
	}
	return nil
}

// Search returns every profile whose NIC or phone equals value
func (ps Profiles) Search(field SearchField, value string) Profiles {
	var matches Profiles
	for _, p := range ps {
		switch field {
		case SearchByNIC:
			if p.NIC == value {
				matches = append(matches, p)
			}
		case SearchByPhone:
			if p.Phone == value {
				matches = append(matches, p)
			}
		}
	}
	return matches
}

// SearchField names the profile attributes that support lookup
type SearchField string

const (
	SearchByNIC   SearchField = "nic"
	SearchByPhone SearchField = "phone"
)

// ParseSearchField validates a search field name
func ParseSearchField(s string) (SearchField, error) {
	switch SearchField(strings.ToLower(strings.TrimSpace(s))) {
	case SearchByNIC:
		return SearchByNIC, nil
	case SearchByPhone:
		return SearchByPhone, nil
	default:
		return "", fmt.Errorf("%w: search field must be nic or phone", shared.ErrValidation)
	}
}

// ChangeLogEntry records one profile field update
type ChangeLogEntry struct {
	AccountNumber string
	Field         string
	Old           string
	New           string
}

func (e ChangeLogEntry) String() string {
	return fmt.Sprintf("%s - %s changed from %s to %s", e.AccountNumber, e.Field, e.Old, e.New)
}

// DeactivationLogEntry records why and when a profile was deactivated
type DeactivationLogEntry struct {
	AccountNumber string
	At            time.Time
	Reason        string
}

func (e DeactivationLogEntry) String() string {
	return fmt.Sprintf("%s | Deactivated on %s | Reason: %s", e.AccountNumber, e.At.Format(time.DateTime), e.Reason)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
