package store

import (
	"encoding/json"
	"fmt"
)

// Collection persists a whole []T as one JSON value under a single key.
//
// Load never fails: an absent key and a value that does not decode both
// yield the empty sequence, so a corrupt or missing record degrades to a
// fresh start instead of taking the app down. Save replaces the stored
// value wholesale; there are no partial updates.
type Collection[T any] struct {
	store Store
	key   string
}

// NewCollection returns a Collection over s at key.
func NewCollection[T any](s Store, key string) Collection[T] {
	return Collection[T]{store: s, key: key}
}

// Load returns the decoded sequence, or nil when the key is absent or the
// stored value is malformed.
func (c Collection[T]) Load() []T {
	raw, err := c.store.Get(c.key)
	if err != nil {
		return nil
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}

// Save serializes items and replaces the stored value.
func (c Collection[T]) Save(items []T) error {
	if items == nil {
		items = []T{} // store "[]", not "null"
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", c.key, err)
	}
	return c.store.Set(c.key, string(data))
}

// Object persists a single record under one key, with the same degrade-to-
// absent read semantics as Collection.
type Object[T any] struct {
	store Store
	key   string
}

// NewObject returns an Object over s at key.
func NewObject[T any](s Store, key string) Object[T] {
	return Object[T]{store: s, key: key}
}

// Load returns the stored record and true, or the zero value and false when
// the key is absent or malformed.
func (o Object[T]) Load() (T, bool) {
	var v T
	raw, err := o.store.Get(o.key)
	if err != nil {
		return v, false
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// Save serializes v and replaces the stored value.
func (o Object[T]) Save(v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", o.key, err)
	}
	return o.store.Set(o.key, string(data))
}

// Clear removes the stored record, if any.
func (o Object[T]) Clear() error {
	return o.store.Delete(o.key)
}
