// Package mongo provides the MongoDB implementation of record.Store. Each
// table is a single document holding its lines in order, so a rewrite is one
// document replace and is atomic on its own.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/banking-records-ledger/internal/domain/record"
	"github.com/banking-records-ledger/internal/domain/shared"
)

// tableDocument is the stored form of one table
type tableDocument struct {
	Table string   `bson:"_id"`
	Lines []string `bson:"lines"`
}

const (
	writerLockID      = "writer_lock"
	writerLeaseTTL    = 30 * time.Second
	lockRetryInterval = 20 * time.Millisecond
)

// writerLease is the document that marks the current writer. Table documents
// are keyed by table name, so the lease shares their collection.
type writerLease struct {
	ID        string    `bson:"_id"`
	Owner     string    `bson:"owner"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// Collection is the subset of *mongo.Collection the store uses
type Collection interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	ReplaceOne(ctx context.Context, filter interface{}, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

var _ Collection = (*mongo.Collection)(nil)

// RecordStore implements record.Store for MongoDB
type RecordStore struct {
	collection Collection
	logger     *slog.Logger
	now        func() time.Time
}

// NewRecordStore creates a new MongoDB record store
func NewRecordStore(logger *slog.Logger, collection Collection) *RecordStore {
	return &RecordStore{
		collection: collection,
		logger:     logger,
		now:        time.Now,
	}
}

// LoadAll reads the table document. A missing document is an empty table.
func (s *RecordStore) LoadAll(ctx context.Context, t record.Table) (*record.Snapshot, error) {
	var doc tableDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": t.Name}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &record.Snapshot{}, nil
		}
		s.logger.Error("Failed to load table", "table", t.Name, "error", err)
		return nil, &shared.StorageError{Table: t.Name, Op: "load", Err: err}
	}

	return record.DecodeAll(t, doc.Lines), nil
}

// RewriteAll replaces the table document, creating it when absent
func (s *RecordStore) RewriteAll(ctx context.Context, t record.Table, records []record.Record) error {
	lines, err := record.EncodeAll(t, records)
	if err != nil {
		return err
	}

	doc := tableDocument{Table: t.Name, Lines: lines}
	if doc.Lines == nil {
		doc.Lines = []string{}
	}
	_, err = s.collection.ReplaceOne(ctx, bson.M{"_id": t.Name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		s.logger.Error("Failed to rewrite table", "table", t.Name, "error", err)
		return &shared.StorageError{Table: t.Name, Op: "rewrite", Err: fmt.Errorf("failed to replace document: %w", err)}
	}
	return nil
}

// Append pushes all lines onto the table document in one update
func (s *RecordStore) Append(ctx context.Context, t record.Table, records ...record.Record) error {
	if len(records) == 0 {
		return nil
	}
	lines, err := record.EncodeAll(t, records)
	if err != nil {
		return err
	}

	update := bson.M{"$push": bson.M{"lines": bson.M{"$each": lines}}}
	_, err = s.collection.UpdateOne(ctx, bson.M{"_id": t.Name}, update, options.Update().SetUpsert(true))
	if err != nil {
		s.logger.Error("Failed to append to table", "table", t.Name, "error", err)
		return &shared.StorageError{Table: t.Name, Op: "append", Err: fmt.Errorf("failed to push lines: %w", err)}
	}
	return nil
}

// LockWriter inserts the writer lease, waiting while another owner holds it.
// A lease left by a crashed writer is removed once it has expired.
func (s *RecordStore) LockWriter(ctx context.Context) (func(), error) {
	owner := uuid.NewString()
	for {
		lease := writerLease{ID: writerLockID, Owner: owner, ExpiresAt: s.now().Add(writerLeaseTTL)}
		_, err := s.collection.InsertOne(ctx, lease)
		if err == nil {
			break
		}
		if !mongo.IsDuplicateKeyError(err) {
			s.logger.Error("Failed to acquire writer lock", "error", err)
			return nil, &shared.StorageError{Table: writerLockID, Op: "lock", Err: err}
		}

		expired := bson.M{"_id": writerLockID, "expires_at": bson.M{"$lt": s.now()}}
		if _, err := s.collection.DeleteOne(ctx, expired); err != nil {
			return nil, &shared.StorageError{Table: writerLockID, Op: "lock", Err: err}
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}

	return func() {
		_, err := s.collection.DeleteOne(context.Background(), bson.M{"_id": writerLockID, "owner": owner})
		if err != nil {
			s.logger.Error("Failed to release writer lock", "error", err)
		}
	}, nil
}

var (
	_ record.Store  = (*RecordStore)(nil)
	_ record.Locker = (*RecordStore)(nil)
)
