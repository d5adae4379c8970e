package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Entity provides generic CRUD operations for any domain type.
type Entity[T any] struct {
	store   *Store
	prefix  string
	indexes []Index[T]
}

// Index defines a secondary index on an entity.
type Index[T any] struct {
	name            string
	keyGen          func(*T) []string
	lookupTransform func(string) string // Optional transformation for lookups
}

// NewEntity creates a new Entity instance for type T.
func NewEntity[T any](s *Store, prefix string) *Entity[T] {
	return &Entity[T]{
		store:   s,
		prefix:  prefix,
		indexes: make([]Index[T], 0),
	}
}

// WithIndex adds a secondary index to the entity.
func (e *Entity[T]) WithIndex(name string, keyGen func(*T) []string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{
		name:   name,
		keyGen: keyGen,
	})
	return e
}

// WithIndexTransform adds a secondary index with lookup transformation.
// The lookupTransform function is applied to search values before index lookup,
// enabling case-insensitive searches, normalization, etc.
func (e *Entity[T]) WithIndexTransform(name string, keyGen func(*T) []string, lookupTransform func(string) string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{
		name:            name,
		keyGen:          keyGen,
		lookupTransform: lookupTransform,
	})
	return e
}

// Create creates a new entity with the given ID.
// Returns ErrAlreadyExists if an entity with this ID already exists
// or an index value is already taken.
func (e *Entity[T]) Create(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := e.prefix + id

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		// Check if key already exists
		_, err := txn.Get([]byte(key))
		if err == nil {
			return ErrAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to check existing key: %w", err)
		}

		// Check for index conflicts
		for _, idx := range e.indexes {
			for _, indexKey := range idx.keyGen(entity) {
				idxKey := e.prefix + "idx:" + idx.name + ":" + indexKey
				_, err := txn.Get([]byte(idxKey))
				if err == nil {
					return fmt.Errorf("index %s conflict on key %s: %w", idx.name, indexKey, ErrAlreadyExists)
				}
				if !errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("failed to check index key: %w", err)
				}
			}
		}

		// Set the primary key
		if err := txn.Set([]byte(key), data); err != nil {
			return fmt.Errorf("failed to set key: %w", err)
		}

		// Set index keys
		for _, idx := range e.indexes {
			for _, indexKey := range idx.keyGen(entity) {
				idxKey := e.prefix + "idx:" + idx.name + ":" + indexKey
				if err := txn.Set([]byte(idxKey), []byte(id)); err != nil {
					return fmt.Errorf("failed to set index key: %w", err)
				}
			}
		}

		return nil
	})
}

// Get retrieves an entity by ID.
// Returns ErrNotFound if the entity does not exist.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := e.prefix + id
	var entity T

	err := e.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get key: %w", err)
		}

		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &entity); err != nil {
				return fmt.Errorf("failed to unmarshal entity: %w", err)
			}
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	return &entity, nil
}

// GetByIndex retrieves an entity by secondary index.
// If the index has a lookup transform, it will be applied to the value before lookup.
func (e *Entity[T]) GetByIndex(ctx context.Context, indexName, value string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Find the index and apply transformation if available
	transformedValue := value
	for _, idx := range e.indexes {
		if idx.name == indexName && idx.lookupTransform != nil {
			transformedValue = idx.lookupTransform(value)
			break
		}
	}

	indexKey := []byte(e.prefix + "idx:" + indexName + ":" + transformedValue)

	var id string
	err := e.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(indexKey)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	return e.Get(ctx, id)
}

// Update replaces an existing entity.
// Returns ErrNotFound if the entity does not exist.
func (e *Entity[T]) Update(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		old, err := e.getInTxn(txn, id)
		if err != nil {
			return err
		}

		if err := e.swapIndexesInTxn(txn, id, old, entity); err != nil {
			return err
		}

		if err := txn.Set([]byte(e.prefix+id), data); err != nil {
			return fmt.Errorf("failed to set key: %w", err)
		}

		return nil
	})
}

// Mutate applies fn to the stored entity inside a single transaction.
// The read, the mutation, and the write all happen atomically, so
// concurrent mutations of the same entity cannot lose updates.
// Returns ErrNotFound if the entity does not exist; if fn returns an
// error the transaction is aborted and nothing is written. A transaction
// aborted by a conflicting commit is retried once; a second conflict
// returns ErrTxnConflict.
func (e *Entity[T]) Mutate(ctx context.Context, id string, fn func(*T) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := e.mutateTxn(id, fn)
	if errors.Is(err, badger.ErrConflict) {
		// A concurrent commit touched the same keys. The retry re-reads
		// fresh state, so the mutation still applies cleanly.
		err = e.mutateTxn(id, fn)
		if errors.Is(err, badger.ErrConflict) {
			return ErrTxnConflict
		}
	}
	return err
}

func (e *Entity[T]) mutateTxn(id string, fn func(*T) error) error {
	return e.store.db.Update(func(txn *badger.Txn) error {
		entity, err := e.getInTxn(txn, id)
		if err != nil {
			return err
		}

		// Snapshot index keys before mutation.
		oldIndexKeys := e.indexKeysFor(entity)

		if err := fn(entity); err != nil {
			return err
		}

		data, err := json.Marshal(entity)
		if err != nil {
			return fmt.Errorf("failed to marshal entity: %w", err)
		}

		// Re-point any index whose value changed.
		newIndexKeys := e.indexKeysFor(entity)
		for _, oldKey := range oldIndexKeys {
			if !containsKey(newIndexKeys, oldKey) {
				if err := txn.Delete([]byte(oldKey)); err != nil {
					return fmt.Errorf("failed to delete old index key: %w", err)
				}
			}
		}
		for _, newKey := range newIndexKeys {
			if !containsKey(oldIndexKeys, newKey) {
				if err := txn.Set([]byte(newKey), []byte(id)); err != nil {
					return fmt.Errorf("failed to set index key: %w", err)
				}
			}
		}

		if err := txn.Set([]byte(e.prefix+id), data); err != nil {
			return fmt.Errorf("failed to set key: %w", err)
		}

		return nil
	})
}

// Delete deletes an entity by ID.
// This operation is idempotent - it does not return an error if the entity does not exist.
func (e *Entity[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := e.prefix + id

	return e.store.db.Update(func(txn *badger.Txn) error {
		entity, err := e.getInTxn(txn, id)
		if errors.Is(err, ErrNotFound) {
			// Idempotent - no error if doesn't exist
			return nil
		}
		if err != nil {
			return err
		}

		// Delete index keys
		for _, idxKey := range e.indexKeysFor(entity) {
			if err := txn.Delete([]byte(idxKey)); err != nil {
				return fmt.Errorf("failed to delete index key: %w", err)
			}
		}

		// Delete the primary key
		if err := txn.Delete([]byte(key)); err != nil {
			return fmt.Errorf("failed to delete key: %w", err)
		}

		return nil
	})
}

// List returns an iterator over all entities.
func (e *Entity[T]) List(ctx context.Context) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		//nolint:errcheck // iteration errors are delivered through yield
		e.store.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(e.prefix)
			opts.PrefetchValues = true

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek([]byte(e.prefix)); it.ValidForPrefix([]byte(e.prefix)); it.Next() {
				if ctx.Err() != nil {
					yield(nil, ctx.Err())
					return ctx.Err()
				}

				// Skip index keys
				key := string(it.Item().Key())
				if len(key) > len(e.prefix) {
					remainder := key[len(e.prefix):]
					if strings.HasPrefix(remainder, "idx:") {
						continue
					}
				}

				var entity T
				err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &entity)
				})

				if err != nil {
					yield(nil, err)
					return err
				}

				if !yield(&entity, nil) {
					return nil // Consumer stopped early
				}
			}

			return nil
		})
	}
}

// getInTxn reads and unmarshals an entity inside an open transaction.
func (e *Entity[T]) getInTxn(txn *badger.Txn, id string) (*T, error) {
	item, err := txn.Get([]byte(e.prefix + id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}

	var entity T
	err = item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, &entity); err != nil {
			return fmt.Errorf("failed to unmarshal entity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &entity, nil
}

// swapIndexesInTxn moves index entries from the old entity state to the new one.
// Conflicting index values held by other entities abort the transaction.
func (e *Entity[T]) swapIndexesInTxn(txn *badger.Txn, id string, old, updated *T) error {
	oldKeys := e.indexKeysFor(old)
	newKeys := e.indexKeysFor(updated)

	for _, oldKey := range oldKeys {
		if !containsKey(newKeys, oldKey) {
			if err := txn.Delete([]byte(oldKey)); err != nil {
				return fmt.Errorf("failed to delete old index key: %w", err)
			}
		}
	}

	for _, newKey := range newKeys {
		if containsKey(oldKeys, newKey) {
			continue
		}

		_, err := txn.Get([]byte(newKey))
		if err == nil {
			return fmt.Errorf("index conflict on key %s: %w", newKey, ErrAlreadyExists)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to check index key: %w", err)
		}

		if err := txn.Set([]byte(newKey), []byte(id)); err != nil {
			return fmt.Errorf("failed to set index key: %w", err)
		}
	}

	return nil
}

// indexKeysFor returns the full database keys for every index entry of the entity.
func (e *Entity[T]) indexKeysFor(entity *T) []string {
	var keys []string
	for _, idx := range e.indexes {
		for _, indexKey := range idx.keyGen(entity) {
			keys = append(keys, e.prefix+"idx:"+idx.name+":"+indexKey)
		}
	}
	return keys
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
