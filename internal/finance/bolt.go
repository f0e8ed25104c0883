package finance

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"
)

const (
	transactionBucket = "transactions"
	categoryBucket    = "categories"
)

// BoltStore implements Store on an embedded bbolt file. It backs the
// local, single-user mode; hosted deployments use the Postgres store.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (or creates) the database file and its buckets.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt store: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range []string{transactionBucket, categoryBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// SaveTransaction inserts or updates a transaction.
func (b *BoltStore) SaveTransaction(t *Transaction) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("marshaling transaction: %w", err)
		}
		return tx.Bucket([]byte(transactionBucket)).Put([]byte(t.ID), data)
	})
}

// GetTransaction retrieves one of the user's transactions by id.
func (b *BoltStore) GetTransaction(userID, id string) (*Transaction, error) {
	var t *Transaction
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(transactionBucket)).Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		if err := json.Unmarshal(data, &t); err != nil {
			return fmt.Errorf("unmarshaling transaction: %w", err)
		}
		if t.UserID != userID {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTransactions returns the user's transactions, newest first.
func (b *BoltStore) ListTransactions(userID string, limit, offset int) ([]*Transaction, error) {
	all, err := b.userTransactions(userID)
	if err != nil {
		return nil, err
	}

	sort.Slice(all, func(i, j int) bool {
		if !all[i].TransactionDate.Equal(all[j].TransactionDate) {
			return all[i].TransactionDate.After(all[j].TransactionDate)
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return []*Transaction{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (b *BoltStore) userTransactions(userID string) ([]*Transaction, error) {
	out := make([]*Transaction, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(transactionBucket)).ForEach(func(k, v []byte) error {
			var t Transaction
			if err := json.Unmarshal(v, &t); err != nil {
				return fmt.Errorf("unmarshaling transaction: %w", err)
			}
			if t.UserID == userID {
				out = append(out, &t)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteTransaction removes one of the user's transactions.
func (b *BoltStore) DeleteTransaction(userID, id string) error {
	if _, err := b.GetTransaction(userID, id); err != nil {
		return err
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(transactionBucket)).Delete([]byte(id))
	})
}

// DeleteAllTransactions removes every transaction of the user.
func (b *BoltStore) DeleteAllTransactions(userID string) error {
	all, err := b.userTransactions(userID)
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(transactionBucket))
		for _, t := range all {
			if err := bucket.Delete([]byte(t.ID)); err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveCategory inserts or updates a category.
func (b *BoltStore) SaveCategory(c *Category) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshaling category: %w", err)
		}
		return tx.Bucket([]byte(categoryBucket)).Put([]byte(c.ID), data)
	})
}

// GetCategory retrieves a category by id.
func (b *BoltStore) GetCategory(id string) (*Category, error) {
	var c *Category
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(categoryBucket)).Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCategories returns defaults plus the user's custom categories.
func (b *BoltStore) ListCategories(userID string) ([]*Category, error) {
	out := make([]*Category, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(categoryBucket)).ForEach(func(k, v []byte) error {
			var c Category
			if err := json.Unmarshal(v, &c); err != nil {
				return fmt.Errorf("unmarshaling category: %w", err)
			}
			if c.IsDefault || c.UserID == userID {
				out = append(out, &c)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// DeleteCategory removes one of the user's custom categories.
func (b *BoltStore) DeleteCategory(userID, id string) error {
	c, err := b.GetCategory(id)
	if err != nil {
		return err
	}
	if c.UserID != userID {
		return ErrNotFound
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(categoryBucket)).Delete([]byte(id))
	})
}

// ReassignCategory moves the user's transactions between categories.
func (b *BoltStore) ReassignCategory(userID, fromID, toID string) error {
	all, err := b.userTransactions(userID)
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(transactionBucket))
		for _, t := range all {
			if t.CategoryID != fromID {
				continue
			}
			t.CategoryID = toID
			data, err := json.Marshal(t)
			if err != nil {
				return fmt.Errorf("marshaling transaction: %w", err)
			}
			if err := bucket.Put([]byte(t.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close closes the database file.
func (b *BoltStore) Close() error {
	return b.db.Close()
}
