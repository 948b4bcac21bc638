// Package registry holds named values that may be looked up from several
// goroutines at once.
package registry

import (
	"slices"

	"github.com/alphadose/haxmap"
)

// Registry maps a name to a value. Registering a name twice replaces the
// earlier value.
type Registry[K ~string, T any] interface {
	Lookup(key K) (T, bool)
	Register(key K, value T)
	Keys() []K
	Len() int
}

type table[K ~string, T any] struct {
	entries *haxmap.Map[K, T]
}

// New returns an empty registry.
func New[K ~string, T any]() Registry[K, T] {
	return &table[K, T]{entries: haxmap.New[K, T]()}
}

func (t *table[K, T]) Lookup(key K) (T, bool) {
	return t.entries.Get(key)
}

func (t *table[K, T]) Register(key K, value T) {
	t.entries.Set(key, value)
}

// Keys returns the registered names in sorted order.
func (t *table[K, T]) Keys() []K {
	keys := make([]K, 0, t.entries.Len())
	t.entries.ForEach(func(key K, _ T) bool {
		keys = append(keys, key)
		return true
	})
	slices.Sort(keys)
	return keys
}

func (t *table[K, T]) Len() int {
	return int(t.entries.Len())
}
