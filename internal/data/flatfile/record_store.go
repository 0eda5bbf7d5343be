// Package flatfile stores record tables as line-oriented text files in one
// data directory. It is the default backend and reads the files the ledger
// has always written.
package flatfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/banking-records-ledger/internal/domain/record"
	"github.com/banking-records-ledger/internal/domain/shared"
	"golang.org/x/sys/unix"
)

const (
	filePerm          = 0o644
	lockFileName      = ".writer.lock"
	lockRetryInterval = 5 * time.Millisecond
)

// RecordStore implements record.Store on plain files
type RecordStore struct {
	dir    string
	logger *slog.Logger
	mu     sync.Mutex // Orders appends against rename-based rewrites
}

// NewRecordStore creates the data directory if needed
func NewRecordStore(logger *slog.Logger, dir string) (*RecordStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	logger.Info("Using flat-file record store", "dir", dir)
	return &RecordStore{dir: dir, logger: logger}, nil
}

func (s *RecordStore) path(t record.Table) string {
	return filepath.Join(s.dir, t.FileName)
}

// LoadAll reads the table file line by line. A missing file is an empty table.
func (s *RecordStore) LoadAll(ctx context.Context, t record.Table) (*record.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path(t))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &record.Snapshot{}, nil
		}
		return nil, &shared.StorageError{Table: t.Name, Op: "load", Err: err}
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, &shared.StorageError{Table: t.Name, Op: "load", Err: err}
	}

	return record.DecodeAll(t, lines), nil
}

// RewriteAll writes the new content to a temp file in the same directory,
// syncs it and renames it over the table file
func (s *RecordStore) RewriteAll(ctx context.Context, t record.Table, records []record.Record) error {
	lines, err := record.EncodeAll(t, records)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.replace(t, lines); err != nil {
		s.logger.Error("Failed to rewrite table", "table", t.Name, "error", err)
		return &shared.StorageError{Table: t.Name, Op: "rewrite", Err: err}
	}
	return nil
}

func (s *RecordStore) replace(t record.Table, lines []string) error {
	tmp, err := os.CreateTemp(s.dir, t.FileName+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			tmp.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		return err
	}
	if err := os.Rename(tmpName, s.path(t)); err != nil {
		return err
	}
	committed = true
	return nil
}

// Append adds records at the end of the table file with a single write
func (s *RecordStore) Append(ctx context.Context, t record.Table, records ...record.Record) error {
	if len(records) == 0 {
		return nil
	}
	lines, err := record.EncodeAll(t, records)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf []byte
	for _, line := range lines {
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path(t), os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return &shared.StorageError{Table: t.Name, Op: "append", Err: err}
	}
	if _, err := f.Write(buf); err != nil {
		f.Close()
		s.logger.Error("Failed to append to table", "table", t.Name, "error", err)
		return &shared.StorageError{Table: t.Name, Op: "append", Err: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return &shared.StorageError{Table: t.Name, Op: "append", Err: err}
	}
	if err := f.Close(); err != nil {
		return &shared.StorageError{Table: t.Name, Op: "append", Err: err}
	}
	return nil
}

// LockWriter takes an exclusive flock on the lock file of the data directory.
// Each call opens its own descriptor, so two stores on one directory exclude
// each other even inside a single process.
func (s *RecordStore) LockWriter(ctx context.Context) (func(), error) {
	f, err := os.OpenFile(filepath.Join(s.dir, lockFileName), os.O_CREATE|os.O_RDWR, filePerm)
	if err != nil {
		return nil, &shared.StorageError{Table: lockFileName, Op: "lock", Err: err}
	}

	for {
		err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			break
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
			f.Close()
			return nil, &shared.StorageError{Table: lockFileName, Op: "lock", Err: err}
		}
		select {
		case <-ctx.Done():
			f.Close()
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}

	return func() {
		if err := unix.Flock(int(f.Fd()), unix.LOCK_UN); err != nil {
			s.logger.Error("Failed to release writer lock", "error", err)
		}
		f.Close()
	}, nil
}

var (
	_ record.Store  = (*RecordStore)(nil)
	_ record.Locker = (*RecordStore)(nil)
)
