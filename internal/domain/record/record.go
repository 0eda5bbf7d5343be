// Package record defines the line-oriented tables every backend persists and
// the contract a RecordStore implements.
package record

import (
	"fmt"
	"strings"

	"github.com/banking-records-ledger/internal/domain/shared"
)

// Table describes one flat table: where it lives and how a line splits into fields
type Table struct {
	Name         string // Logical name, used as key by database backends
	FileName     string // File name used by the flat-file backend
	Delimiter    string // Empty for free-text tables
	Fields       int    // Expected field count, 0 for free-text tables
	LegacyFields []int  // Older field counts still accepted on read
}

// Tables used by the ledger
var (
	Accounts        = Table{Name: "accounts", FileName: "AccountDetails.txt", Delimiter: "|", Fields: 3}
	Profiles        = Table{Name: "profiles", FileName: "CustomerProfiles.txt", Delimiter: "|", Fields: 10, LegacyFields: []int{9}}
	Transactions    = Table{Name: "transactions", FileName: "transactions.txt", Delimiter: "|", Fields: 4}
	InterestLog     = Table{Name: "interest_log", FileName: "interestlog.txt", Delimiter: "|", Fields: 4}
	Credentials     = Table{Name: "credentials", FileName: "credentials.txt", Delimiter: ":", Fields: 3}
	ChangeLog       = Table{Name: "change_log", FileName: "change_log.txt"}
	DeactivationLog = Table{Name: "deactivation_log", FileName: "deactivation_log.txt"}
	EventCursor     = Table{Name: "event_cursor", FileName: "event_cursor.txt", Delimiter: "|", Fields: 1}
	CommandLog      = Table{Name: "command_log", FileName: "command_log.txt", Delimiter: "|", Fields: 4}
)

// FreeText reports whether lines are stored whole rather than split into fields
func (t Table) FreeText() bool {
	return t.Fields == 0
}

// Accepts reports whether a line with n fields is well formed for this table
func (t Table) Accepts(n int) bool {
	if n == t.Fields {
		return true
	}
	for _, legacy := range t.LegacyFields {
		if n == legacy {
			return true
		}
	}
	return false
}

// Record is one parsed line
type Record []string

// SkippedLine is a line that could not be parsed into a record
type SkippedLine struct {
	Line   int    // 1-based position in the table
	Raw    string // Line content as stored
	Reason string
}

// Snapshot is the full ordered content of a table at load time
type Snapshot struct {
	Records []Record
	Lines   []int // 1-based position of each record
	Skipped []SkippedLine
}

// Decode parses a raw stored line. Blank lines yield neither a record nor a skip.
func Decode(t Table, lineNo int, raw string) (Record, *SkippedLine) {
	line := strings.TrimRight(raw, "\r\n")
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}
	if t.FreeText() {
		return Record{line}, nil
	}
	fields := strings.Split(strings.TrimSpace(line), t.Delimiter)
	if !t.Accepts(len(fields)) {
		return nil, &SkippedLine{
			Line:   lineNo,
			Raw:    line,
			Reason: fmt.Sprintf("expected %d fields, got %d", t.Fields, len(fields)),
		}
	}
	return Record(fields), nil
}

// Encode renders a record as a stored line without the trailing newline
func Encode(t Table, rec Record) (string, error) {
	if t.FreeText() {
		if len(rec) != 1 {
			return "", fmt.Errorf("%w: free-text table %s takes one field, got %d", shared.ErrValidation, t.Name, len(rec))
		}
		if strings.ContainsAny(rec[0], "\r\n") {
			return "", fmt.Errorf("%w: line for %s contains a line break", shared.ErrValidation, t.Name)
		}
		return rec[0], nil
	}
	if len(rec) != t.Fields {
		return "", fmt.Errorf("%w: table %s takes %d fields, got %d", shared.ErrValidation, t.Name, t.Fields, len(rec))
	}
	for i, field := range rec {
		if strings.Contains(field, t.Delimiter) || strings.ContainsAny(field, "\r\n") {
			return "", fmt.Errorf("%w: field %d for %s contains %q or a line break", shared.ErrValidation, i+1, t.Name, t.Delimiter)
		}
	}
	return strings.Join(rec, t.Delimiter), nil
}

// EncodeAll renders records in order, failing on the first invalid one
func EncodeAll(t Table, records []Record) ([]string, error) {
	lines := make([]string, 0, len(records))
	for _, rec := range records {
		line, err := Encode(t, rec)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// DecodeAll parses raw lines in order into a snapshot
func DecodeAll(t Table, lines []string) *Snapshot {
	snapshot := &Snapshot{}
	for i, raw := range lines {
		rec, skipped := Decode(t, i+1, raw)
		if skipped != nil {
			snapshot.Skipped = append(snapshot.Skipped, *skipped)
			continue
		}
		if rec != nil {
			snapshot.Records = append(snapshot.Records, rec)
			snapshot.Lines = append(snapshot.Lines, i+1)
		}
	}
	return snapshot
}

// ErrMalformedTable is returned when a table holding unparseable lines would be
// rewritten, which would drop those lines
type ErrMalformedTable struct {
	Table string
	Lines []int
}

func (e ErrMalformedTable) Error() string {
	return fmt.Sprintf("table %s has %d malformed line(s) %v; repair them before rewriting", e.Table, len(e.Lines), e.Lines)
}

// Is implements the errors.Is interface for ErrMalformedTable
func (e ErrMalformedTable) Is(target error) bool {
	if target == shared.ErrValidation {
		return true
	}
	t, ok := target.(ErrMalformedTable)
	if !ok {
		return false
	}
	return t.Table == "" || t.Table == e.Table
}
