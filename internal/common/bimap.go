package common

import "fmt"

// BiMap is an injective mapping kept in lock-step with its inverse.
// Keys and values are compared by identity; nil is never stored.
type BiMap[K comparable, V comparable] struct {
	forward map[K]V
	reverse map[V]K
	order   []K
}

// NewBiMap creates an empty BiMap.
func NewBiMap[K comparable, V comparable]() *BiMap[K, V] {
	return &BiMap[K, V]{
		forward: make(map[K]V),
		reverse: make(map[V]K),
	}
}

// AlreadyMappedError is returned by Map when either side already has an entry.
type AlreadyMappedError[K comparable, V comparable] struct {
	Key   K
	Value V
	// Forward is true when Key was mapped before, false when Value was.
	Forward bool
}

func (e *AlreadyMappedError[K, V]) Error() string {
	if e.Forward {
		return fmt.Sprintf("%v is already mapped", e.Key)
	}

	return fmt.Sprintf("%v is already a mapping target", e.Value)
}

// Map records k -> v. It fails without modifying the map if k or v is already present.
func (m *BiMap[K, V]) Map(k K, v V) error {
	if _, ok := m.forward[k]; ok {
		return &AlreadyMappedError[K, V]{Key: k, Value: v, Forward: true}
	}

	if _, ok := m.reverse[v]; ok {
		return &AlreadyMappedError[K, V]{Key: k, Value: v}
	}

	m.forward[k] = v
	m.reverse[v] = k
	m.order = append(m.order, k)

	return nil
}

// Get returns the value mapped to k.
func (m *BiMap[K, V]) Get(k K) (V, bool) {
	v, ok := m.forward[k]
	return v, ok
}

// Reverse returns the key mapped to v.
func (m *BiMap[K, V]) Reverse(v V) (K, bool) {
	k, ok := m.reverse[v]
	return k, ok
}

// HasKey reports whether k is mapped.
func (m *BiMap[K, V]) HasKey(k K) bool {
	_, ok := m.forward[k]
	return ok
}

// HasValue reports whether v is a mapping target.
func (m *BiMap[K, V]) HasValue(v V) bool {
	_, ok := m.reverse[v]
	return ok
}

// Len returns the number of entries.
func (m *BiMap[K, V]) Len() int {
	return len(m.order)
}

// Keys returns mapped keys in insertion order.
func (m *BiMap[K, V]) Keys() []K {
	return append([]K(nil), m.order...)
}
