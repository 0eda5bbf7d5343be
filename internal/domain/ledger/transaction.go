// Package ledger holds the append-only money movement and interest logs.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/banking-records-ledger/internal/domain/record"
	"github.com/shopspring/decimal"
)

// TimestampLayout is the stored transaction timestamp format
const TimestampLayout = time.DateTime

// Kind describes what moved the money
type Kind string

const (
	KindDeposit        Kind = "Deposit"
	KindWithdraw       Kind = "Withdraw"
	KindInterest       Kind = "Interest"
	KindOpeningBalance Kind = "Opening Balance"
)

const (
	transferToPrefix   = "Transfer to "
	transferFromPrefix = "Transfer from "
)

// TransferTo is the kind written on the sending account
func TransferTo(account string) Kind {
	return Kind(transferToPrefix + account)
}

// TransferFrom is the kind written on the receiving account
func TransferFrom(account string) Kind {
	return Kind(transferFromPrefix + account)
}

// Counterparty returns the other account of a transfer kind
func (k Kind) Counterparty() (string, bool) {
	s := string(k)
	switch {
	case strings.HasPrefix(s, transferToPrefix):
		return strings.TrimPrefix(s, transferToPrefix), true
	case strings.HasPrefix(s, transferFromPrefix):
		return strings.TrimPrefix(s, transferFromPrefix), true
	}
	return "", false
}

// TransactionRecord is one line of the transaction log
type TransactionRecord struct {
	AccountNumber string          `json:"account_number"`
	Kind          Kind            `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	Timestamp     time.Time       `json:"timestamp"`
}

// NewTransactionRecord stamps a record at second precision, the stored resolution
func NewTransactionRecord(accountNumber string, kind Kind, amount decimal.Decimal, at time.Time) *TransactionRecord {
	return &TransactionRecord{
		AccountNumber: accountNumber,
		Kind:          kind,
		Amount:        amount,
		Timestamp:     at.Truncate(time.Second),
	}
}

// ToRecord encodes a transaction as a log line
func (t *TransactionRecord) ToRecord() record.Record {
	return record.Record{
		t.AccountNumber,
		string(t.Kind),
		t.Amount.StringFixed(2),
		t.Timestamp.Format(TimestampLayout),
	}
}

// TransactionFromRecord decodes a transaction log line
func TransactionFromRecord(rec record.Record) (*TransactionRecord, error) {
	if len(rec) != record.Transactions.Fields {
		return nil, fmt.Errorf("transaction line has %d fields", len(rec))
	}
	amount, err := decimal.NewFromString(rec[2])
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", rec[2], err)
	}
	ts, err := time.ParseInLocation(TimestampLayout, rec[3], time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q: %w", rec[3], err)
	}
	return &TransactionRecord{
		AccountNumber: rec[0],
		Kind:          Kind(rec[1]),
		Amount:        amount,
		Timestamp:     ts,
	}, nil
}
