package envblock

import (
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// SecretSet is an insertion-ordered mapping from secret key to value.
// The zero value is not usable; create sets with NewSecretSet. A nil *SecretSet reads as empty.
type SecretSet struct {
	m *orderedmap.OrderedMap[string, string]
}

// NewSecretSet creates an empty set.
func NewSecretSet() *SecretSet {
	return &SecretSet{m: orderedmap.New[string, string]()}
}

// FromPairs builds a set from alternating key, value arguments.
func FromPairs(kv ...string) *SecretSet {
	s := NewSecretSet()
	for i := 0; i+1 < len(kv); i += 2 {
		s.Set(kv[i], kv[i+1])
	}
	return s
}

// Set stores value under key. An existing key keeps its position.
func (s *SecretSet) Set(key, value string) {
	s.m.Set(key, value)
}

// Get returns the value stored under key.
func (s *SecretSet) Get(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	return s.m.Get(key)
}

// Delete removes key from the set.
func (s *SecretSet) Delete(key string) {
	if s == nil {
		return
	}
	s.m.Delete(key)
}

// Len returns the number of keys.
func (s *SecretSet) Len() int {
	if s == nil {
		return 0
	}
	return s.m.Len()
}

// Keys returns the keys in insertion order.
func (s *SecretSet) Keys() []string {
	keys := make([]string, 0, s.Len())
	for k := range s.All() {
		keys = append(keys, k)
	}
	return keys
}

// All iterates over the entries in insertion order.
func (s *SecretSet) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if s == nil {
			return
		}
		for pair := s.m.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Map returns a plain map copy of the set.
func (s *SecretSet) Map() map[string]string {
	out := make(map[string]string, s.Len())
	for k, v := range s.All() {
		out[k] = v
	}
	return out
}

// Equal reports whether both sets hold the same keys and values. Order is ignored.
func (s *SecretSet) Equal(other *SecretSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for k, v := range s.All() {
		ov, ok := other.Get(k)
		if !ok || ov != v {
			return false
		}
	}
	return true
}
