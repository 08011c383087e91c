package boltdb

import (
	"context"
	"strings"

	bolt "go.etcd.io/bbolt"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

type userRecord struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	PasswordHash string `json:"password_hash"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

// CreateUser stores the user and indexes the lower-cased email.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return s.update(ctx, func(tx *bolt.Tx) error {
		emails := tx.Bucket(bucketUserEmails)
		key := []byte(strings.ToLower(user.Email))
		if emails.Get(key) != nil {
			return storage.ErrDuplicate
		}
		if err := emails.Put(key, []byte(user.ID)); err != nil {
			return err
		}
		return putJSON(tx.Bucket(bucketUsers), []byte(user.ID), userRecord(*user))
	})
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var rec userRecord
	err := s.view(ctx, func(tx *bolt.Tx) error {
		id := tx.Bucket(bucketUserEmails).Get([]byte(strings.ToLower(email)))
		if id == nil {
			return storage.ErrNotFound
		}
		return getJSON(tx.Bucket(bucketUsers), id, &rec)
	})
	if err != nil {
		return nil, err
	}
	return (*models.User)(&rec), nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var rec userRecord
	err := s.view(ctx, func(tx *bolt.Tx) error {
		return getJSON(tx.Bucket(bucketUsers), []byte(id), &rec)
	})
	if err != nil {
		return nil, err
	}
	return (*models.User)(&rec), nil
}
