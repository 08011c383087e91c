// Package boltdb provides a bbolt-backed implementation of the storage.Store interface.
// Records are stored as JSON, keyed by big-endian sequence numbers or IDs.
package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mmynk/splitledger/internal/storage"
)

// Bucket names.
var (
	bucketTransactions = []byte("transactions")
	bucketSettlements  = []byte("settlements")
	bucketGroups       = []byte("groups")
	bucketGroupNames   = []byte("group_names")
	bucketUsers        = []byte("users")
	bucketUserEmails   = []byte("user_emails")
)

var _ storage.Store = (*Store)(nil)

// Store represents the bbolt database wrapper.
type Store struct {
	db *bolt.DB
}

// New opens (or creates) the database at dbPath and initializes buckets.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		buckets := [][]byte{
			bucketTransactions, bucketSettlements,
			bucketGroups, bucketGroupNames,
			bucketUsers, bucketUserEmails,
		}
		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// view and update honour ctx cancellation before touching the database.
func (s *Store) view(ctx context.Context, fn func(tx *bolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(fn)
}

func (s *Store) update(ctx context.Context, fn func(tx *bolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(fn)
}

func putJSON(b *bolt.Bucket, key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return b.Put(key, data)
}

func getJSON(b *bolt.Bucket, key []byte, value any) error {
	data := b.Get(key)
	if data == nil {
		return storage.ErrNotFound
	}
	return decodeJSON(data, value)
}

func decodeJSON(data []byte, value any) error {
	if err := json.Unmarshal(data, value); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return nil
}

// itob returns an 8-byte big endian representation of v, so keys sort numerically.
func itob(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}
