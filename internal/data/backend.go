// Package data opens the configured record store and builds the repositories
// the services run on.
package data

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/banking-records-ledger/internal/banking"
	"github.com/banking-records-ledger/internal/config"
	"github.com/banking-records-ledger/internal/data/flatfile"
	"github.com/banking-records-ledger/internal/data/mongo"
	"github.com/banking-records-ledger/internal/data/postgres"
	"github.com/banking-records-ledger/internal/data/records"
	"github.com/banking-records-ledger/internal/domain/record"
	"github.com/banking-records-ledger/internal/platform/persistence"
)

// CloseFunc releases the backend's connections
type CloseFunc func(ctx context.Context) error

// OpenStore connects the backend selected by STORAGE_BACKEND
func OpenStore(ctx context.Context, logger *slog.Logger, cfg *config.Config) (record.Store, CloseFunc, error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		store, err := flatfile.NewRecordStore(logger, cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return store, func(context.Context) error { return nil }, nil

	case config.BackendPostgres:
		db, err := persistence.NewPostgresDB(ctx, logger, &cfg.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
		}
		return postgres.NewRecordStore(logger, db), func(context.Context) error {
			db.Close()
			return nil
		}, nil

	case config.BackendMongo:
		db, err := persistence.NewMongoDB(ctx, logger, &cfg.MongoDB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize MongoDB: %w", err)
		}
		return mongo.NewRecordStore(logger, db.RecordCollection()), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// Repositories groups every typed table over one store
type Repositories struct {
	Accounts     *records.AccountRepository
	Profiles     *records.ProfileRepository
	Audit        *records.AuditRepository
	Transactions *records.TransactionRepository
	Interest     *records.InterestRepository
	Credentials  *records.CredentialRepository
	Cursor       *records.CursorRepository
	Commands     *records.CommandLogRepository
	// Locker is nil when the store cannot exclude writers across processes
	Locker       record.Locker
}

func NewRepositories(logger *slog.Logger, store record.Store) *Repositories {
	locker, _ := store.(record.Locker)
	return &Repositories{
		Accounts:     records.NewAccountRepository(logger, store),
		Profiles:     records.NewProfileRepository(logger, store),
		Audit:        records.NewAuditRepository(store),
		Transactions: records.NewTransactionRepository(logger, store),
		Interest:     records.NewInterestRepository(logger, store),
		Credentials:  records.NewCredentialRepository(logger, store),
		Cursor:       records.NewCursorRepository(store),
		Commands:     records.NewCommandLogRepository(logger, store),
		Locker:       locker,
	}
}

// Banking exposes the tables the banking services persist through
func (r *Repositories) Banking() banking.Repositories {
	return banking.Repositories{
		Accounts:     r.Accounts,
		Profiles:     r.Profiles,
		Audit:        r.Audit,
		Transactions: r.Transactions,
		Interest:     r.Interest,
		Credentials:  r.Credentials,
		Locker:       r.Locker,
	}
}
