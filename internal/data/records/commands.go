package records

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/banking-records-ledger/internal/domain/record"
	"github.com/banking-records-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// CommandLogRepository records processed command ids and their outcome
type CommandLogRepository struct {
	store  record.Store
	logger *slog.Logger
}

func NewCommandLogRepository(logger *slog.Logger, store record.Store) *CommandLogRepository {
	return &CommandLogRepository{store: store, logger: logger}
}

// Get returns the outcome recorded for id, or nil when the command is new
func (r *CommandLogRepository) Get(ctx context.Context, id uuid.UUID) (*shared.CommandOutcome, error) {
	outcomes, err := loadTable(ctx, r.store, r.logger, record.CommandLog, false, outcomeFromRecord)
	if err != nil {
		return nil, err
	}
	for _, o := range outcomes {
		if o.CommandID == id {
			return o, nil
		}
	}
	return nil, nil
}

func (r *CommandLogRepository) Record(ctx context.Context, outcome *shared.CommandOutcome) error {
	rec := record.Record{
		outcome.CommandID.String(),
		string(outcome.Status),
		outcome.Reason,
		outcome.RecordedAt.Format(time.RFC3339),
	}
	return r.store.Append(ctx, record.CommandLog, rec)
}

func outcomeFromRecord(rec record.Record) (*shared.CommandOutcome, error) {
	id, err := uuid.Parse(rec[0])
	if err != nil {
		return nil, fmt.Errorf("invalid command id %q: %w", rec[0], err)
	}
	at, err := time.Parse(time.RFC3339, rec[3])
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q: %w", rec[3], err)
	}
	return &shared.CommandOutcome{
		CommandID:  id,
		Status:     shared.CommandStatus(rec[1]),
		Reason:     rec[2],
		RecordedAt: at,
	}, nil
}

var _ shared.CommandLogRepository = (*CommandLogRepository)(nil)
