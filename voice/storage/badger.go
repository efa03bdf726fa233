package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"

	badger "github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

var profilePrefix = []byte("profile:")

// Badger is a Storage implementation backed by BadgerDB v4.
type Badger struct {
	db  *badger.DB
	log *zap.Logger
}

// BadgerOption configures a Badger store.
type BadgerOption func(*badgerConfig)

type badgerConfig struct {
	inMemory bool
	log      *zap.Logger
}

// WithInMemory runs BadgerDB in memory-only mode (no disk persistence).
// Useful for testing against the real engine.
func WithInMemory() BadgerOption {
	return func(c *badgerConfig) {
		c.inMemory = true
	}
}

// WithLogger sets the logger used for skipped-record warnings.
func WithLogger(log *zap.Logger) BadgerOption {
	return func(c *badgerConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// NewBadger opens a BadgerDB-backed profile storage in dir. dir may be
// empty only in in-memory mode.
func NewBadger(dir string, opts ...BadgerOption) (*Badger, error) {
	cfg := badgerConfig{log: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if !cfg.inMemory && dir == "" {
		return nil, errors.New("storage: badger dir is required for on-disk mode")
	}

	dbOpts := badger.DefaultOptions(dir).WithLogger(nil)
	if cfg.inMemory {
		dbOpts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("storage: open badger: %w", err)
	}

	return &Badger{db: db, log: cfg.log}, nil
}

func profileKey(name string) []byte {
	return append(append([]byte(nil), profilePrefix...), name...)
}

// Save replaces the stored collection with records.
func (b *Badger) Save(ctx context.Context, records []Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	keep := make(map[string]struct{}, len(records))
	for _, r := range records {
		keep[r.Name] = struct{}{}
	}

	return b.db.Update(func(txn *badger.Txn) error {
		// Drop profiles removed since the last save.
		it := txn.NewIterator(badger.IteratorOptions{Prefix: profilePrefix})
		var stale [][]byte
		for it.Seek(profilePrefix); it.ValidForPrefix(profilePrefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			name := string(key[len(profilePrefix):])
			if _, ok := keep[name]; !ok {
				stale = append(stale, key)
			}
		}
		it.Close()

		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}

		for _, r := range records {
			data, err := encodeRecord(r)
			if err != nil {
				return fmt.Errorf("storage: encode %q: %w", r.Name, err)
			}
			if err := txn.Set(profileKey(r.Name), data); err != nil {
				return err
			}
		}

		return nil
	})
}

// Load returns all readable records in name order, skipping records that
// fail to decode or validate.
func (b *Badger) Load(ctx context.Context) ([]Record, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	var records []Record
	skipped := 0

	err := b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: profilePrefix})
		defer it.Close()

		for it.Seek(profilePrefix); it.ValidForPrefix(profilePrefix); it.Next() {
			item := it.Item()

			data, err := item.ValueCopy(nil)
			if err != nil {
				skipped++
				b.log.Warn("skipping unreadable profile record",
					zap.ByteString("key", item.KeyCopy(nil)),
					zap.Error(err))
				continue
			}

			rec, err := decodeRecord(data)
			if err != nil || !rec.Valid() {
				skipped++
				b.log.Warn("skipping malformed profile record",
					zap.ByteString("key", item.KeyCopy(nil)),
					zap.Error(err))
				continue
			}

			records = append(records, rec)
		}

		return nil
	})
	if err != nil {
		return nil, skipped, fmt.Errorf("storage: load: %w", err)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })

	return records, skipped, nil
}

// Close releases the underlying database.
func (b *Badger) Close() error {
	return b.db.Close()
}

// putRaw writes raw bytes under a profile name, bypassing the codec.
// Test hook for exercising malformed-record recovery.
func (b *Badger) putRaw(name string, data []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(profileKey(name), data)
	})
}
