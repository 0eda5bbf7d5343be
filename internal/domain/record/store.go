package record

import "context"

// Store persists flat tables. Implementations must make RewriteAll atomic from
// a reader's point of view: either the old or the new content is visible,
// never a mix. Failures are returned as *shared.StorageError.
type Store interface {
	// LoadAll returns every line of the table in stored order.
	// A table that does not exist yet loads as an empty snapshot.
	LoadAll(ctx context.Context, t Table) (*Snapshot, error)
	// RewriteAll replaces the whole table with records
	RewriteAll(ctx context.Context, t Table, records []Record) error
	// Append adds records to the end of the table in one write
	Append(ctx context.Context, t Table, records ...Record) error
}

// Locker serialises writers across every process sharing one store. A
// read-modify-rewrite cycle must hold the writer lock from its load to its
// last write, otherwise a concurrent rewrite from another process is lost.
type Locker interface {
	// LockWriter blocks until the caller is the only writer or ctx ends.
	// release must be called exactly once.
	LockWriter(ctx context.Context) (release func(), err error)
}
