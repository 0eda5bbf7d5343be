package outbox

import (
	"context"
	"strconv"
)

// CursorRepository persists how far the relay has published the transaction log
type CursorRepository interface {
	// Load returns the offset of the next record to publish, 0 when none was saved
	Load(ctx context.Context) (int, error)
	Save(ctx context.Context, offset int) error
}

// ErrInvalidCursor indicates a stored cursor that is not a non-negative offset
type ErrInvalidCursor struct {
	Value string
}

func (e ErrInvalidCursor) Error() string {
	return "invalid relay cursor: " + strconv.Quote(e.Value)
}
