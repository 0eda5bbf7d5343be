package records

import (
	"context"
	"log/slog"

	"github.com/banking-records-ledger/internal/domain/profile"
	"github.com/banking-records-ledger/internal/domain/record"
)

// ProfileRepository implements profile.Repository on the profiles table
type ProfileRepository struct {
	store  record.Store
	logger *slog.Logger
}

func NewProfileRepository(logger *slog.Logger, store record.Store) *ProfileRepository {
	return &ProfileRepository{store: store, logger: logger}
}

func (r *ProfileRepository) LoadAll(ctx context.Context) (profile.Profiles, error) {
	return loadTable(ctx, r.store, r.logger, record.Profiles, false, profile.FromRecord)
}

func (r *ProfileRepository) LoadForUpdate(ctx context.Context) (profile.Profiles, error) {
	return loadTable(ctx, r.store, r.logger, record.Profiles, true, profile.FromRecord)
}

// SaveAll rewrites every profile in the ten-field form
func (r *ProfileRepository) SaveAll(ctx context.Context, profiles profile.Profiles) error {
	recs := make([]record.Record, 0, len(profiles))
	for _, p := range profiles {
		recs = append(recs, profile.ToRecord(p))
	}
	return r.store.RewriteAll(ctx, record.Profiles, recs)
}

func (r *ProfileRepository) Append(ctx context.Context, p *profile.Profile) error {
	return r.store.Append(ctx, record.Profiles, profile.ToRecord(p))
}

// AuditRepository implements profile.AuditRepository on the free-text logs
type AuditRepository struct {
	store record.Store
}

func NewAuditRepository(store record.Store) *AuditRepository {
	return &AuditRepository{store: store}
}

func (r *AuditRepository) AppendChange(ctx context.Context, entry profile.ChangeLogEntry) error {
	return r.store.Append(ctx, record.ChangeLog, record.Record{entry.String()})
}

func (r *AuditRepository) AppendDeactivation(ctx context.Context, entry profile.DeactivationLogEntry) error {
	return r.store.Append(ctx, record.DeactivationLog, record.Record{entry.String()})
}

var (
	_ profile.Repository      = (*ProfileRepository)(nil)
	_ profile.AuditRepository = (*AuditRepository)(nil)
)
