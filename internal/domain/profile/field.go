package profile

import (
	"fmt"
	"strings"
	"time"

	"github.com/banking-records-ledger/internal/domain/shared"
)

// Field names an updatable profile attribute
type Field string

const (
	FieldPhone       Field = "phone"
	FieldEmail       Field = "email"
	FieldAddress     Field = "address"
	FieldName        Field = "name"
	FieldNIC         Field = "nic"
	FieldDateOfBirth Field = "dob"
	FieldGender      Field = "gender"
)

var fieldLabels = map[Field]string{
	FieldPhone:       "Phone",
	FieldEmail:       "Email",
	FieldAddress:     "Address",
	FieldName:        "Name",
	FieldNIC:         "NIC",
	FieldDateOfBirth: "DOB",
	FieldGender:      "Gender",
}

// ParseField returns the field for a name and whether it is known
func ParseField(s string) (Field, bool) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	_, ok := fieldLabels[f]
	return f, ok
}

// Label is the field name written to the change log
func (f Field) Label() string {
	return fieldLabels[f]
}

// NormalizeField validates value for f and returns the form that is stored
func NormalizeField(f Field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: %s can't be empty", shared.ErrValidation, f.Label())
	}

	switch f {
	case FieldName:
		return strings.ToUpper(value), nil
	case FieldNIC:
		if !validNIC(value) {
			return "", fmt.Errorf("%w: NIC must be 9 digits followed by V or X, or 12 digits", shared.ErrValidation)
		}
	case FieldDateOfBirth:
		if _, err := time.Parse(DateLayout, value); err != nil {
			return "", fmt.Errorf("%w: date of birth must be YYYY-MM-DD", shared.ErrValidation)
		}
	case FieldPhone:
		if len(value) != 10 || !allDigits(value) {
			return "", fmt.Errorf("%w: phone number must have exactly 10 digits", shared.ErrValidation)
		}
	case FieldEmail:
		if !validEmail(value) {
			return "", fmt.Errorf("%w: invalid email address %q", shared.ErrValidation, value)
		}
	case FieldGender:
		gender := capitalize(value)
		if gender != "Male" && gender != "Female" {
			return "", fmt.Errorf("%w: gender must be Male or Female", shared.ErrValidation)
		}
		return gender, nil
	case FieldAddress:
	default:
		return "", fmt.Errorf("%w: unknown profile field %q", shared.ErrValidation, string(f))
	}
	return value, nil
}

func validNIC(s string) bool {
	switch len(s) {
	case 10:
		last := strings.ToUpper(s[9:])
		return allDigits(s[:9]) && (last == "V" || last == "X")
	case 12:
		return allDigits(s)
	default:
		return false
	}
}

func validEmail(s string) bool {
	if !strings.Contains(s, "@") || !strings.Contains(s, ".") {
		return false
	}
	return !strings.HasPrefix(s, "@") && !strings.HasSuffix(s, "@") && !strings.Contains(s, "..")
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
