package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/banking-records-ledger/internal/domain/record"
	"github.com/shopspring/decimal"
)

// DateLayout is the stored interest date format
const DateLayout = time.DateOnly

// InterestEntry witnesses one monthly accrual on one account
type InterestEntry struct {
	AccountNumber  string          `json:"account_number"`
	Date           time.Time       `json:"date"`
	InterestAmount decimal.Decimal `json:"interest_amount"`
	RatePercent    decimal.Decimal `json:"rate_percent"` // Monthly rate, 0.25 for 3% a year
}

// SameMonth reports whether the entry was applied in the calendar month of t
func (e *InterestEntry) SameMonth(t time.Time) bool {
	return e.Date.Year() == t.Year() && e.Date.Month() == t.Month()
}

// ToRecord encodes an interest entry as a log line
func (e *InterestEntry) ToRecord() record.Record {
	return record.Record{
		e.AccountNumber,
		e.Date.Format(DateLayout),
		e.InterestAmount.StringFixed(2),
		e.RatePercent.StringFixed(2) + "%",
	}
}

// InterestFromRecord decodes an interest log line
func InterestFromRecord(rec record.Record) (*InterestEntry, error) {
	if len(rec) != record.InterestLog.Fields {
		return nil, fmt.Errorf("interest line has %d fields", len(rec))
	}
	date, err := time.ParseInLocation(DateLayout, rec[1], time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", rec[1], err)
	}
	amount, err := decimal.NewFromString(rec[2])
	if err != nil {
		return nil, fmt.Errorf("invalid interest amount %q: %w", rec[2], err)
	}
	rate, err := decimal.NewFromString(strings.TrimSuffix(rec[3], "%"))
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", rec[3], err)
	}
	return &InterestEntry{
		AccountNumber:  rec[0],
		Date:           date,
		InterestAmount: amount,
		RatePercent:    rate,
	}, nil
}

// AppliedIn returns the accounts already credited in the calendar month of t
func AppliedIn(entries []*InterestEntry, t time.Time) map[string]struct{} {
	applied := make(map[string]struct{})
	for _, e := range entries {
		if e.SameMonth(t) {
			applied[e.AccountNumber] = struct{}{}
		}
	}
	return applied
}
