package boltdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

type groupRecord struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Members   []string `json:"members"`
	CreatedAt int64    `json:"created_at"`
}

// CreateGroup stores the group and claims its name in the name index.
func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	return s.update(ctx, func(tx *bolt.Tx) error {
		names := tx.Bucket(bucketGroupNames)
		if names.Get([]byte(group.Name)) != nil {
			return storage.ErrDuplicate
		}
		if err := names.Put([]byte(group.Name), []byte(group.ID)); err != nil {
			return err
		}

		var members []string
		for _, m := range group.Members {
			if !containsString(members, m) {
				members = append(members, m)
			}
		}
		return putJSON(tx.Bucket(bucketGroups), []byte(group.ID), groupRecord{
			ID:        group.ID,
			Name:      group.Name,
			Members:   members,
			CreatedAt: group.CreatedAt,
		})
	})
}

func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	var rec groupRecord
	err := s.view(ctx, func(tx *bolt.Tx) error {
		return getJSON(tx.Bucket(bucketGroups), []byte(groupID), &rec)
	})
	if err != nil {
		return nil, err
	}
	return (*models.Group)(&rec), nil
}

func (s *Store) GetGroupByName(ctx context.Context, name string) (*models.Group, error) {
	var rec groupRecord
	err := s.view(ctx, func(tx *bolt.Tx) error {
		id := tx.Bucket(bucketGroupNames).Get([]byte(name))
		if id == nil {
			return storage.ErrNotFound
		}
		return getJSON(tx.Bucket(bucketGroups), id, &rec)
	})
	if err != nil {
		return nil, err
	}
	return (*models.Group)(&rec), nil
}

// ListGroups returns every group ordered by name.
func (s *Store) ListGroups(ctx context.Context) ([]*models.Group, error) {
	var out []*models.Group
	err := s.view(ctx, func(tx *bolt.Tx) error {
		return tx.Bucket(bucketGroups).ForEach(func(k, v []byte) error {
			var rec groupRecord
			if err := decodeJSON(v, &rec); err != nil {
				return err
			}
			out = append(out, (*models.Group)(&rec))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) AddGroupMembers(ctx context.Context, groupID string, members []string) error {
	return s.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketGroups)
		var rec groupRecord
		if err := getJSON(b, []byte(groupID), &rec); err != nil {
			return err
		}
		for _, m := range members {
			if !containsString(rec.Members, m) {
				rec.Members = append(rec.Members, m)
			}
		}
		return putJSON(b, []byte(groupID), rec)
	})
}

// DeleteGroup removes the group and its name, and detaches its records.
func (s *Store) DeleteGroup(ctx context.Context, groupID string) error {
	return s.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketGroups)
		var rec groupRecord
		if err := getJSON(b, []byte(groupID), &rec); err != nil {
			return err
		}
		if err := b.Delete([]byte(groupID)); err != nil {
			return err
		}
		if err := tx.Bucket(bucketGroupNames).Delete([]byte(rec.Name)); err != nil {
			return err
		}
		return detachGroup(tx, groupID)
	})
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
