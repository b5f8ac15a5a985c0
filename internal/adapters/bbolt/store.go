// Package bbolt implements the ports.UsageStorage interface using bbolt
// (embedded B+ tree). One bucket holds one JSON record per entry id.
// Writes are transactional — a crash mid-write cannot corrupt previously
// committed data, which is what lets the learner write through on every
// launch and still guarantee at most one launch lost.
package bbolt

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/corey/lumen/internal/ports"
)

var bucketUsage = []byte("usage")

// Store implements ports.UsageStorage backed by bbolt.
type Store struct {
	db *bolt.DB
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

// SaveSnapshot persists the full usage snapshot, replacing prior state.
// Entries evicted from the snapshot (stale apps) disappear from disk too.
func (s *Store) SaveSnapshot(snap *ports.UsageSnapshot) error {
	if snap == nil {
		return fmt.Errorf("nil snapshot")
	}

	encoded := make(map[string][]byte, len(snap.Stats))
	for id, stat := range snap.Stats {
		data, err := json.Marshal(stat)
		if err != nil {
			return fmt.Errorf("marshal stat %q: %w", id, err)
		}
		encoded[id] = data
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketUsage) != nil {
			if err := tx.DeleteBucket(bucketUsage); err != nil {
				return err
			}
		}
		b, err := tx.CreateBucket(bucketUsage)
		if err != nil {
			return err
		}
		for id, data := range encoded {
			if err := b.Put([]byte(id), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadSnapshot retrieves the persisted snapshot.
// Returns nil, nil if nothing has been saved yet (fresh install).
func (s *Store) LoadSnapshot() (*ports.UsageSnapshot, error) {
	var snap *ports.UsageSnapshot

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUsage)
		if b == nil {
			return nil
		}
		snap = &ports.UsageSnapshot{Stats: make(map[string]ports.UsageStat)}
		return b.ForEach(func(k, v []byte) error {
			var stat ports.UsageStat
			if err := json.Unmarshal(v, &stat); err != nil {
				return fmt.Errorf("unmarshal stat %q: %w", k, err)
			}
			snap.Stats[string(k)] = stat
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Wipe deletes all persisted usage data. Idempotent.
func (s *Store) Wipe() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketUsage) == nil {
			return nil
		}
		return tx.DeleteBucket(bucketUsage)
	})
}
