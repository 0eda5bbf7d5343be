package records

import (
	"context"
	"strconv"

	"github.com/banking-records-ledger/internal/domain/outbox"
	"github.com/banking-records-ledger/internal/domain/record"
)

// CursorRepository implements outbox.CursorRepository as a one-line table
type CursorRepository struct {
	store record.Store
}

func NewCursorRepository(store record.Store) *CursorRepository {
	return &CursorRepository{store: store}
}

func (r *CursorRepository) Load(ctx context.Context) (int, error) {
	snapshot, err := r.store.LoadAll(ctx, record.EventCursor)
	if err != nil {
		return 0, err
	}
	if len(snapshot.Records) == 0 {
		return 0, nil
	}
	value := snapshot.Records[len(snapshot.Records)-1][0]
	offset, err := strconv.Atoi(value)
	if err != nil || offset < 0 {
		return 0, outbox.ErrInvalidCursor{Value: value}
	}
	return offset, nil
}

func (r *CursorRepository) Save(ctx context.Context, offset int) error {
	return r.store.RewriteAll(ctx, record.EventCursor, []record.Record{{strconv.Itoa(offset)}})
}

var _ outbox.CursorRepository = (*CursorRepository)(nil)
