// Package records implements the domain repositories on top of a record.Store,
// so every backend serves the same typed tables.
package records

import (
	"context"
	"log/slog"

	"github.com/banking-records-ledger/internal/domain/record"
)

// loadTable reads a table and decodes each record. Lines that fail to split or
// to decode are logged and left out. In strict mode their presence is an error,
// because the caller is about to rewrite the table and would drop them.
func loadTable[T any](ctx context.Context, store record.Store, logger *slog.Logger, t record.Table, strict bool, decode func(record.Record) (T, error)) ([]T, error) {
	snapshot, err := store.LoadAll(ctx, t)
	if err != nil {
		return nil, err
	}

	var malformed []int
	for _, skipped := range snapshot.Skipped {
		logger.Warn("Skipping malformed line",
			"table", t.Name,
			"line", skipped.Line,
			"reason", skipped.Reason)
		malformed = append(malformed, skipped.Line)
	}

	items := make([]T, 0, len(snapshot.Records))
	for i, rec := range snapshot.Records {
		item, err := decode(rec)
		if err != nil {
			line := 0
			if i < len(snapshot.Lines) {
				line = snapshot.Lines[i]
			}
			logger.Warn("Skipping undecodable line",
				"table", t.Name,
				"line", line,
				"error", err)
			malformed = append(malformed, line)
			continue
		}
		items = append(items, item)
	}

	if strict && len(malformed) > 0 {
		return nil, record.ErrMalformedTable{Table: t.Name, Lines: malformed}
	}
	return items, nil
}
