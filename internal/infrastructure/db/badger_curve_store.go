package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/damon-houk/bond-curve-interpolation/internal/domain/entity"
	"github.com/dgraph-io/badger/v3"
)

const curveKeyPrefix = "curve:"

// BadgerCurveStore implements the curve store interface using BadgerDB
type BadgerCurveStore struct {
	db *badger.DB
}

// NewBadgerCurveStore creates a new BadgerDB curve store
func NewBadgerCurveStore(db *badger.DB) *BadgerCurveStore {
	return &BadgerCurveStore{db: db}
}

// OpenBadger opens a BadgerDB at path, or an in-memory instance when inMemory is set
func OpenBadger(path string, inMemory bool) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", path, err)
	}
	return db, nil
}

// Store saves a curve table and returns its ID
func (r *BadgerCurveStore) Store(ctx context.Context, table *entity.CurveTable) (string, error) {
	if table.ID == "" {
		return "", errors.New("curve table has no ID")
	}

	data, err := json.Marshal(table)
	if err != nil {
		return "", fmt.Errorf("failed to marshal curve table: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(curveKeyPrefix+table.ID), data)
	})
	if err != nil {
		return "", fmt.Errorf("failed to store curve table: %w", err)
	}

	return table.ID, nil
}

// FindByID retrieves a curve table by its unique identifier
func (r *BadgerCurveStore) FindByID(ctx context.Context, id string) (*entity.CurveTable, error) {
	var table entity.CurveTable

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(curveKeyPrefix + id))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &table)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", entity.ErrCurveNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve curve table: %w", err)
	}

	return &table, nil
}

// List returns the IDs of all stored curve tables
func (r *BadgerCurveStore) List(ctx context.Context) ([]string, error) {
	var ids []string

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		prefix := []byte(curveKeyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			ids = append(ids, string(key[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list curve tables: %w", err)
	}

	return ids, nil
}

// Delete removes a curve table
func (r *BadgerCurveStore) Delete(ctx context.Context, id string) error {
	key := []byte(curveKeyPrefix + id)

	err := r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: %s", entity.ErrCurveNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete curve table: %w", err)
	}

	return nil
}
