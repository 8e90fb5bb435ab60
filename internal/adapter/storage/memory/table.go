package memory

import "sort"

// Table is a keyed collection of records. The key of a record is derived by
// the key function the table was built with, so a record can never be stored
// under a key that disagrees with its own fields.
type Table[K comparable, R any] struct {
	key  func(R) K
	rows map[K]R
}

// NewTable returns an empty table that indexes records with key.
func NewTable[K comparable, R any](key func(R) K) *Table[K, R] {
	return &Table[K, R]{key: key, rows: make(map[K]R)}
}

// Find returns the record stored under k.
func (t *Table[K, R]) Find(k K) (R, bool) {
	r, ok := t.rows[k]
	return r, ok
}

// Emplace inserts r. It returns false if a record with the same key exists.
func (t *Table[K, R]) Emplace(r R) bool {
	k := t.key(r)
	if _, exists := t.rows[k]; exists {
		return false
	}
	t.rows[k] = r
	return true
}

// Modify replaces the stored record that shares r's key. It returns false if
// there is none.
func (t *Table[K, R]) Modify(r R) bool {
	k := t.key(r)
	if _, exists := t.rows[k]; !exists {
		return false
	}
	t.rows[k] = r
	return true
}

// Erase removes the record stored under k and reports whether it existed.
func (t *Table[K, R]) Erase(k K) bool {
	if _, exists := t.rows[k]; !exists {
		return false
	}
	delete(t.rows, k)
	return true
}

// Len returns the number of records.
func (t *Table[K, R]) Len() int {
	return len(t.rows)
}

// Select returns the records matching keep, ordered by less.
func (t *Table[K, R]) Select(keep func(R) bool, less func(a, b R) bool) []R {
	out := make([]R, 0)
	for _, r := range t.rows {
		if keep == nil || keep(r) {
			out = append(out, r)
		}
	}
	if less != nil {
		sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

// Clone returns a shallow copy. Records are stored by value.
func (t *Table[K, R]) Clone() *Table[K, R] {
	c := &Table[K, R]{key: t.key, rows: make(map[K]R, len(t.rows))}
	for k, r := range t.rows {
		c.rows[k] = r
	}
	return c
}
