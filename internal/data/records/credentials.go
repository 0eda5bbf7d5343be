package records

import (
	"context"
	"log/slog"

	"github.com/banking-records-ledger/internal/domain/credential"
	"github.com/banking-records-ledger/internal/domain/record"
)

// CredentialRepository implements credential.Repository on the credentials table
type CredentialRepository struct {
	store  record.Store
	logger *slog.Logger
}

func NewCredentialRepository(logger *slog.Logger, store record.Store) *CredentialRepository {
	return &CredentialRepository{store: store, logger: logger}
}

func (r *CredentialRepository) Append(ctx context.Context, c *credential.Credential) error {
	return r.store.Append(ctx, record.Credentials, c.ToRecord())
}

// GetByUsername returns the last entry for username, so a later line wins
func (r *CredentialRepository) GetByUsername(ctx context.Context, username string) (*credential.Credential, error) {
	all, err := loadTable(ctx, r.store, r.logger, record.Credentials, false, credential.FromRecord)
	if err != nil {
		return nil, err
	}
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Username == username {
			return all[i], nil
		}
	}
	return nil, credential.ErrCredentialNotFound{Username: username}
}

var _ credential.Repository = (*CredentialRepository)(nil)
