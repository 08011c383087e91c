package boltdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// transactionRecord is the stored form of models.Transaction.
type transactionRecord struct {
	ID           int64     `json:"id"`
	Payer        string    `json:"payer"`
	Amount       float64   `json:"amount"`
	Participants []string  `json:"participants"`
	SplitKind    string    `json:"split_kind"`
	SplitValues  []float64 `json:"split_values,omitempty"`
	Description  string    `json:"description,omitempty"`
	GroupID      string    `json:"group_id,omitempty"`
	Settled      bool      `json:"settled,omitempty"`
	CreatedAt    int64     `json:"created_at"`
	CreatedBy    string    `json:"created_by,omitempty"`
}

func toTransactionRecord(txn *models.Transaction) transactionRecord {
	return transactionRecord{
		ID:           txn.ID,
		Payer:        txn.Payer,
		Amount:       txn.Amount,
		Participants: txn.Participants,
		SplitKind:    models.SplitKindOf(txn.Split).String(),
		SplitValues:  models.SplitValuesOf(txn.Split),
		Description:  txn.Description,
		GroupID:      txn.GroupID,
		Settled:      txn.Settled,
		CreatedAt:    txn.CreatedAt,
		CreatedBy:    txn.CreatedBy,
	}
}

func (r transactionRecord) model() (*models.Transaction, error) {
	kind, err := models.ParseSplitKind(r.SplitKind)
	if err != nil {
		return nil, fmt.Errorf("transaction %d: %w", r.ID, err)
	}
	split, err := models.NewSplit(kind, r.SplitValues)
	if err != nil {
		return nil, fmt.Errorf("transaction %d: %w", r.ID, err)
	}
	return &models.Transaction{
		ID:           r.ID,
		Payer:        r.Payer,
		Amount:       r.Amount,
		Participants: r.Participants,
		Split:        split,
		Description:  r.Description,
		GroupID:      r.GroupID,
		Settled:      r.Settled,
		CreatedAt:    r.CreatedAt,
		CreatedBy:    r.CreatedBy,
	}, nil
}

// settlementRecord is the stored form of models.Settlement.
type settlementRecord struct {
	ID         string  `json:"id"`
	GroupID    string  `json:"group_id,omitempty"`
	FromUserID string  `json:"from"`
	ToUserID   string  `json:"to"`
	Amount     float64 `json:"amount"`
	CreatedAt  int64   `json:"created_at"`
	CreatedBy  string  `json:"created_by,omitempty"`
	Note       string  `json:"note,omitempty"`
}

// CreateTransaction stores txn under the next bucket sequence.
func (s *Store) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	if txn.CreatedAt == 0 {
		txn.CreatedAt = time.Now().Unix()
	}

	return s.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTransactions)
		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate transaction ID: %w", err)
		}
		txn.ID = int64(seq)
		return putJSON(b, itob(txn.ID), toTransactionRecord(txn))
	})
}

func (s *Store) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	var rec transactionRecord
	err := s.view(ctx, func(tx *bolt.Tx) error {
		return getJSON(tx.Bucket(bucketTransactions), itob(id), &rec)
	})
	if err != nil {
		return nil, err
	}
	return rec.model()
}

func (s *Store) DeleteTransaction(ctx context.Context, id int64) error {
	return s.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTransactions)
		if b.Get(itob(id)) == nil {
			return storage.ErrNotFound
		}
		return b.Delete(itob(id))
	})
}

// ListTransactions scans the bucket in key order, which is ID order.
func (s *Store) ListTransactions(ctx context.Context, filter storage.TransactionFilter) ([]*models.Transaction, error) {
	var out []*models.Transaction
	err := s.view(ctx, func(tx *bolt.Tx) error {
		return forEachTransaction(tx, func(txn *models.Transaction) {
			if filter.Match(txn) {
				out = append(out, txn)
			}
		})
	})
	if err != nil {
		return nil, err
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

	return s.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSettlements)
		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate settlement key: %w", err)
		}
		return putJSON(b, itob(int64(seq)), settlementRecord(*settlement))
	})
}

func (s *Store) ListSettlements(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	var out []*models.Settlement
	err := s.view(ctx, func(tx *bolt.Tx) error {
		return forEachSettlement(tx, func(st *models.Settlement) {
			if groupID == "" || st.GroupID == groupID {
				out = append(out, st)
			}
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Snapshot reads both buckets inside one read-only bbolt transaction.
func (s *Store) Snapshot(ctx context.Context, groupID string) (*storage.Snapshot, error) {
	snap := &storage.Snapshot{}
	err := s.view(ctx, func(tx *bolt.Tx) error {
		err := forEachTransaction(tx, func(txn *models.Transaction) {
			if groupID == "" || txn.GroupID == groupID {
				snap.Transactions = append(snap.Transactions, *txn)
			}
		})
		if err != nil {
			return err
		}
		return forEachSettlement(tx, func(st *models.Settlement) {
			if groupID == "" || st.GroupID == groupID {
				snap.Settlements = append(snap.Settlements, *st)
			}
		})
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func forEachTransaction(tx *bolt.Tx, fn func(txn *models.Transaction)) error {
	return tx.Bucket(bucketTransactions).ForEach(func(k, v []byte) error {
		var rec transactionRecord
		if err := decodeJSON(v, &rec); err != nil {
			return err
		}
		txn, err := rec.model()
		if err != nil {
			return err
		}
		fn(txn)
		return nil
	})
}

func forEachSettlement(tx *bolt.Tx, fn func(st *models.Settlement)) error {
	return tx.Bucket(bucketSettlements).ForEach(func(k, v []byte) error {
		var rec settlementRecord
		if err := decodeJSON(v, &rec); err != nil {
			return err
		}
		st := models.Settlement(rec)
		fn(&st)
		return nil
	})
}

// detachGroup clears groupID from every transaction and settlement that carries it.
func detachGroup(tx *bolt.Tx, groupID string) error {
	tb := tx.Bucket(bucketTransactions)
	var txns []transactionRecord
	err := tb.ForEach(func(k, v []byte) error {
		var rec transactionRecord
		if err := decodeJSON(v, &rec); err != nil {
			return err
		}
		if rec.GroupID == groupID {
			rec.GroupID = ""
			txns = append(txns, rec)
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, rec := range txns {
		if err := putJSON(tb, itob(rec.ID), rec); err != nil {
			return err
		}
	}

	sb := tx.Bucket(bucketSettlements)
	type keyed struct {
		key []byte
		rec settlementRecord
	}
	var settlements []keyed
	err = sb.ForEach(func(k, v []byte) error {
		var rec settlementRecord
		if err := decodeJSON(v, &rec); err != nil {
			return err
		}
		if rec.GroupID == groupID {
			rec.GroupID = ""
			settlements = append(settlements, keyed{key: append([]byte(nil), k...), rec: rec})
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, st := range settlements {
		if err := putJSON(sb, st.key, st.rec); err != nil {
			return err
		}
	}
	return nil
}
