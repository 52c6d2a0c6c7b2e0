package progress

import (
	"errors"
	"fmt"
)

// ErrInvalidFormat is returned when an import payload is not a JSON object.
var ErrInvalidFormat = errors.New("invalid progress format")

// ImportResult reports how many entries an import merged and skipped.
type ImportResult struct {
	Accepted int
	Skipped  int
}

// Store maps set keys to completion. Absent keys read as false.
// A Store belongs to one session and is not safe for concurrent use.
type Store struct {
	entries map[Key]bool
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{entries: map[Key]bool{}}
}

// Get reports whether the set is done.
func (s *Store) Get(key Key) bool {
	return s.entries[key]
}

// Set overwrites a single entry.
func (s *Store) Set(key Key, done bool) {
	s.entries[key] = done
}

// SetMany overwrites every key with the same value.
func (s *Store) SetMany(keys []Key, done bool) {
	for _, k := range keys {
		s.entries[k] = done
	}
}

// Ensure creates absent keys as not done. Existing entries are untouched.
func (s *Store) Ensure(keys []Key) {
	for _, k := range keys {
		if _, ok := s.entries[k]; !ok {
			s.entries[k] = false
		}
	}
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Range calls fn for every entry in unspecified order.
func (s *Store) Range(fn func(Key, bool)) {
	for k, v := range s.entries {
		fn(k, v)
	}
}

// ExportAll returns every entry keyed by its export string.
func (s *Store) ExportAll() map[string]bool {
	out := make(map[string]bool, len(s.entries))
	for k, v := range s.entries {
		out[k.String()] = v
	}
	return out
}

// ImportMerge overlays incoming onto the store. incoming must be a
// map[string]any (as produced by encoding/json) or map[string]bool, anything
// else yields ErrInvalidFormat. Entries with a malformed key or a non-bool
// value are skipped. Accepted entries are applied together after the scan.
func (s *Store) ImportMerge(incoming any) (ImportResult, error) {
	var (
		staged = map[Key]bool{}
		res    ImportResult
	)
	accept := func(raw string, v any) {
		done, ok := v.(bool)
		if !ok {
			res.Skipped++
			return
		}
		key, err := ParseKey(raw)
		if err != nil {
			res.Skipped++
			return
		}
		staged[key] = done
		res.Accepted++
	}
	switch m := incoming.(type) {
	case map[string]any:
		for k, v := range m {
			accept(k, v)
		}
	case map[string]bool:
		for k, v := range m {
			accept(k, v)
		}
	default:
		return ImportResult{}, fmt.Errorf("%w: expected an object, got %T", ErrInvalidFormat, incoming)
	}
	for k, v := range staged {
		s.entries[k] = v
	}
	return res, nil
}
