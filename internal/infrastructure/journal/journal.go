// Package journal internal/infrastructure/journal/journal.go
package journal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v3"

	"github.com/devi-jewellers/rate-service/internal/infrastructure/logger"
)

// Entry records the outcome of one sync cycle. Entries are append-only and
// surfaced by the diagnostics endpoint; they never influence sync behavior.
type Entry struct {
	At        time.Time `json:"at"`
	Pipeline  string    `json:"pipeline"`
	OK        bool      `json:"ok"`
	UsedTable string    `json:"usedTable,omitempty"`
	Skipped   bool      `json:"skipped,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// BadgerJournal persists sync entries in a local BadgerDB so cycle history
// survives restarts without touching Postgres.
type BadgerJournal struct {
	db     *badger.DB
	logger logger.Logger
}

// Open opens (or creates) the journal at path.
func Open(path string, log logger.Logger) (*BadgerJournal, error) {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Badger's own logger is too chatty

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	return &BadgerJournal{db: db, logger: log}, nil
}

// Close releases the underlying database.
func (j *BadgerJournal) Close() error {
	return j.db.Close()
}

// Record appends an entry. Keys are nanosecond timestamps so iteration order
// is chronological.
func (j *BadgerJournal) Record(entry Entry) error {
	if entry.At.IsZero() {
		entry.At = time.Now()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}

	key := fmt.Sprintf("sync:%020d", entry.At.UnixNano())
	err = j.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("failed to store journal entry: %w", err)
	}
	return nil
}

// Recent returns up to n entries, newest first.
func (j *BadgerJournal) Recent(n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}

	entries := make([]Entry, 0, n)
	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte("sync:")
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration needs a seek key past every "sync:" entry.
		for it.Seek([]byte("sync:\xff")); it.Valid() && len(entries) < n; it.Next() {
			var entry Entry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			})
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	return entries, nil
}
