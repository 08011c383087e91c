// Package memory provides an in-process implementation of the storage.Store
// interface. Nothing survives a restart.
package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps all records in maps guarded by a single RWMutex.
type Store struct {
	mu sync.RWMutex

	nextTxnID    int64
	transactions map[int64]*models.Transaction
	settlements  []*models.Settlement
	groups       map[string]*models.Group
	users        map[string]*models.User
}

// New returns an empty store.
func New() *Store {
	return &Store{
		transactions: make(map[int64]*models.Transaction),
		groups:       make(map[string]*models.Group),
		users:        make(map[string]*models.User),
	}
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

func (s *Store) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTxnID++
	txn.ID = s.nextTxnID
	if txn.CreatedAt == 0 {
		txn.CreatedAt = time.Now().Unix()
	}
	s.transactions[txn.ID] = copyTransaction(txn)
	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txn, ok := s.transactions[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyTransaction(txn), nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.transactions, id)
	return nil
}

func (s *Store) ListTransactions(ctx context.Context, filter storage.TransactionFilter) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Transaction
	for _, id := range s.sortedTxnIDs() {
		txn := s.transactions[id]
		if filter.Match(txn) {
			out = append(out, copyTransaction(txn))
		}
	}
	return out, nil
}

func (s *Store) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *settlement
	s.settlements = append(s.settlements, &cp)
	return nil
}

func (s *Store) ListSettlements(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Settlement
	for _, st := range s.settlements {
		if groupID == "" || st.GroupID == groupID {
			cp := *st
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) Snapshot(ctx context.Context, groupID string) (*storage.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &storage.Snapshot{}
	for _, id := range s.sortedTxnIDs() {
		txn := s.transactions[id]
		if groupID == "" || txn.GroupID == groupID {
			snap.Transactions = append(snap.Transactions, *copyTransaction(txn))
		}
	}
	for _, st := range s.settlements {
		if groupID == "" || st.GroupID == groupID {
			snap.Settlements = append(snap.Settlements, *st)
		}
	}
	return snap, nil
}

func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.groups {
		if g.Name == group.Name {
			return storage.ErrDuplicate
		}
	}
	s.groups[group.ID] = copyGroup(group)
	return nil
}

func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[groupID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyGroup(g), nil
}

func (s *Store) GetGroupByName(ctx context.Context, name string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, g := range s.groups {
		if g.Name == name {
			return copyGroup(g), nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) ListGroups(ctx context.Context) ([]*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Group, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, copyGroup(g))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) AddGroupMembers(ctx context.Context, groupID string, members []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[groupID]
	if !ok {
		return storage.ErrNotFound
	}
	for _, m := range members {
		if !g.HasMember(m) {
			g.Members = append(g.Members, m)
		}
	}
	return nil
}

func (s *Store) DeleteGroup(ctx context.Context, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[groupID]; !ok {
		return storage.ErrNotFound
	}
	delete(s.groups, groupID)

	for _, txn := range s.transactions {
		if txn.GroupID == groupID {
			txn.GroupID = ""
		}
	}
	for _, st := range s.settlements {
		if st.GroupID == groupID {
			st.GroupID = ""
		}
	}
	return nil
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return storage.ErrDuplicate
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// sortedTxnIDs must be called with s.mu held.
func (s *Store) sortedTxnIDs() []int64 {
	ids := make([]int64, 0, len(s.transactions))
	for id := range s.transactions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func copyTransaction(txn *models.Transaction) *models.Transaction {
	cp := *txn
	cp.Participants = slices.Clone(txn.Participants)
	if txn.Split != nil {
		split, err := models.NewSplit(txn.Split.Kind(), txn.Split.Values())
		if err == nil {
			cp.Split = split
		}
	}
	return &cp
}

func copyGroup(g *models.Group) *models.Group {
	cp := *g
	cp.Members = slices.Clone(g.Members)
	return &cp
}
