// Package postgres provides the PostgreSQL implementation of record.Store.
// Each table is a set of rows in record_lines ordered by id, so the stored
// lines are exactly what the flat-file backend would hold.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/banking-records-ledger/internal/domain/record"
	"github.com/banking-records-ledger/internal/domain/shared"
	"github.com/banking-records-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

const (
	selectLinesQuery = `
		SELECT line
		FROM record_lines
		WHERE table_name = $1
		ORDER BY id
	`
	deleteLinesQuery = `DELETE FROM record_lines WHERE table_name = $1`
	insertLinesQuery = `
		INSERT INTO record_lines (table_name, line)
		SELECT $1, l.line
		FROM unnest($2::text[]) WITH ORDINALITY AS l(line, ord)
		ORDER BY l.ord
	`
)

// writerLockQuery holds the lock until the locking transaction ends
const writerLockQuery = `SELECT pg_advisory_xact_lock($1)`

// writerLockKey identifies the ledger's advisory lock
const writerLockKey int64 = 0x6c6564676572

// Pool is the subset of *pgxpool.Pool the store needs
type Pool interface {
	persistence.Querier
	persistence.TxBeginner
}

// RecordStore implements record.Store for PostgreSQL
type RecordStore struct {
	pool   Pool
	logger *slog.Logger
}

// NewRecordStore creates a new PostgreSQL record store.
// It expects db.Pool() to satisfy Pool.
func NewRecordStore(logger *slog.Logger, db *persistence.PostgresDB) *RecordStore {
	return &RecordStore{
		pool:   db.Pool(),
		logger: logger,
	}
}

// LoadAll reads every line of the table in insertion order
func (s *RecordStore) LoadAll(ctx context.Context, t record.Table) (*record.Snapshot, error) {
	rows, err := s.pool.Query(ctx, selectLinesQuery, t.Name)
	if err != nil {
		s.logger.Error("Failed to load table", "table", t.Name, "error", err)
		return nil, &shared.StorageError{Table: t.Name, Op: "load", Err: err}
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, &shared.StorageError{Table: t.Name, Op: "load", Err: fmt.Errorf("failed to scan line: %w", err)}
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, &shared.StorageError{Table: t.Name, Op: "load", Err: err}
	}

	return record.DecodeAll(t, lines), nil
}

// RewriteAll deletes and reinserts the table inside one transaction
func (s *RecordStore) RewriteAll(ctx context.Context, t record.Table, records []record.Record) error {
	lines, err := record.EncodeAll(t, records)
	if err != nil {
		return err
	}

	err = persistence.ExecuteTx(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, deleteLinesQuery, t.Name); err != nil {
			return fmt.Errorf("failed to clear table: %w", err)
		}
		if len(lines) == 0 {
			return nil
		}
		if _, err := tx.Exec(ctx, insertLinesQuery, t.Name, lines); err != nil {
			return fmt.Errorf("failed to insert lines: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to rewrite table", "table", t.Name, "error", err)
		return &shared.StorageError{Table: t.Name, Op: "rewrite", Err: err}
	}

	s.logger.Debug("Rewrote table", "table", t.Name, "lines", len(lines))
	return nil
}

// Append inserts all records with one statement
func (s *RecordStore) Append(ctx context.Context, t record.Table, records ...record.Record) error {
	if len(records) == 0 {
		return nil
	}
	lines, err := record.EncodeAll(t, records)
	if err != nil {
		return err
	}

	if _, err := s.pool.Exec(ctx, insertLinesQuery, t.Name, lines); err != nil {
		s.logger.Error("Failed to append to table", "table", t.Name, "error", err)
		return &shared.StorageError{Table: t.Name, Op: "append", Err: err}
	}
	return nil
}

// LockWriter opens a transaction holding the ledger's advisory lock. The
// table writes run on other connections; the transaction only carries the
// lock and is rolled back on release.
func (s *RecordStore) LockWriter(ctx context.Context) (func(), error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, &shared.StorageError{Table: "writer_lock", Op: "lock", Err: fmt.Errorf("failed to begin transaction: %w", err)}
	}
	if _, err := tx.Exec(ctx, writerLockQuery, writerLockKey); err != nil {
		_ = tx.Rollback(ctx)
		s.logger.Error("Failed to acquire writer lock", "error", err)
		return nil, &shared.StorageError{Table: "writer_lock", Op: "lock", Err: err}
	}

	return func() {
		if err := tx.Rollback(context.Background()); err != nil {
			s.logger.Error("Failed to release writer lock", "error", err)
		}
	}, nil
}

var (
	_ record.Store  = (*RecordStore)(nil)
	_ record.Locker = (*RecordStore)(nil)
)
