// Package weathercache persists weather snapshots in BoltDB so a restart
// does not throw away lookups that are already paid for. The in-memory cache
// inside the task core stays authoritative; this store only seeds it.
package weathercache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/taskdeck/backend/domain"
)

type Store struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the BoltDB file and ensures the snapshots bucket exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	bucket := []byte("snapshots")
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, bucket: bucket}, nil
}

// Put stores a snapshot under its exact location key, replacing any prior one.
func (s *Store) Put(snapshot domain.WeatherSnapshot) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if snapshot.Location == "" {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(snapshot.Location), payload)
	})
}

// All returns every persisted snapshot.
func (s *Store) All() ([]domain.WeatherSnapshot, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	var snapshots []domain.WeatherSnapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).ForEach(func(_, v []byte) error {
			var snapshot domain.WeatherSnapshot
			if err := json.Unmarshal(v, &snapshot); err != nil {
				return nil // skip corrupt entries
			}
			snapshots = append(snapshots, snapshot)
			return nil
		})
	})
	return snapshots, err
}

// Prune removes snapshots fetched before the cutoff, bounding file growth.
func (s *Store) Prune(olderThan time.Time) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var snapshot domain.WeatherSnapshot
			if err := json.Unmarshal(v, &snapshot); err != nil {
				continue
			}
			if snapshot.FetchedAt.Before(olderThan) {
				if err := c.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Size returns the number of persisted snapshots.
func (s *Store) Size() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(s.bucket).Stats().KeyN
		return nil
	})
	return count, err
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
