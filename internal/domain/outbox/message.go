package outbox

import (
	"encoding/json"
	"time"

	"github.com/banking-records-ledger/internal/domain/ledger"
)

// Message is a transaction log record waiting to be published. Offset is its
// zero-based position in the log, which is what the relay cursor tracks.
type Message struct {
	Offset        int             `json:"offset"`
	AccountNumber string          `json:"account_number"`
	Payload       json.RawMessage `json:"payload"`
	Attempts      int             `json:"attempts"`
	LastAttemptAt *time.Time      `json:"last_attempt_at,omitempty"`
}

func NewMessage(offset int, tx *ledger.TransactionRecord) (*Message, error) {
	payload, err := json.Marshal(tx)
	if err != nil {
		return nil, err
	}

	return &Message{
		Offset:        offset,
		AccountNumber: tx.AccountNumber,
		Payload:       payload,
	}, nil
}

func (m *Message) IncrementAttempts() {
	m.Attempts++
	now := time.Now()
	m.LastAttemptAt = &now
}

// Exhausted reports whether the message has used up its publish attempts
func (m *Message) Exhausted(maxAttempts int) bool {
	return m.Attempts >= maxAttempts
}

// GetTransaction extracts the transaction record from the payload
func (m *Message) GetTransaction() (*ledger.TransactionRecord, error) {
	var tx ledger.TransactionRecord
	if err := json.Unmarshal(m.Payload, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}
