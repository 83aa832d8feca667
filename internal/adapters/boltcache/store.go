// Package boltcache implements the ports.ResultCache interface using bbolt
// (embedded B+ tree). A single bucket maps file paths to msgpack-encoded
// entries that carry the hashes the result was computed under. Writes are
// transactional: a crash mid-write cannot corrupt previously committed
// entries.
package boltcache

import (
	"fmt"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/lint"
)

var bucketResults = []byte("results")

// Store implements ports.ResultCache backed by bbolt.
type Store struct {
	db *bolt.DB
}

// entry is the stored form of one file's results. Mtime and Size are
// informational; a hit is decided by the hashes alone.
type entry struct {
	ContentHash string            `msgpack:"content_hash"`
	RulesetHash string            `msgpack:"ruleset_hash"`
	Mtime       time.Time         `msgpack:"mtime"`
	Size        int64             `msgpack:"size"`
	Diagnostics []lint.Diagnostic `msgpack:"diagnostics"`
	CachedAt    time.Time         `msgpack:"cached_at"`
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get retrieves the cached diagnostics for path. A missing entry, an
// undecodable entry, or an entry computed from different content or a
// different ruleset is a miss.
func (s *Store) Get(path, contentHash, rulesetHash string) ([]lint.Diagnostic, bool) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketResults)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(path)); v != nil {
			raw = make([]byte, len(v))
			copy(raw, v)
		}
		return nil
	})
	if err != nil || raw == nil {
		return nil, false
	}

	var e entry
	if err := msgpack.Unmarshal(raw, &e); err != nil {
		return nil, false
	}
	if e.ContentHash != contentHash || e.RulesetHash != rulesetHash {
		return nil, false
	}
	return e.Diagnostics, true
}

// Put stores the diagnostics for path, overwriting any prior entry.
func (s *Store) Put(path, contentHash, rulesetHash string, diags []lint.Diagnostic) error {
	e := entry{
		ContentHash: contentHash,
		RulesetHash: rulesetHash,
		Diagnostics: diags,
		CachedAt:    time.Now().UTC(),
	}
	if st, err := os.Stat(path); err == nil {
		e.Mtime = st.ModTime().UTC()
		e.Size = st.Size()
	}

	raw, err := msgpack.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketResults)
		if err != nil {
			return err
		}
		return b.Put([]byte(path), raw)
	})
}

// Invalidate removes the entry for path. Removing a path with no entry
// is not an error.
func (s *Store) Invalidate(path string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketResults)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(path))
	})
}
