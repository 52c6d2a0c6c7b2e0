package progress

import "sort"

func (s *Store) Has(key Key) bool {
	_, ok := s.entries[key]
	return ok
}

// Keys returns all keys sorted by date, day, exercise then set.
func (s *Store) Keys() []Key {
	keys := make([]Key, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		if a.Exercise != b.Exercise {
			return a.Exercise < b.Exercise
		}
		return a.Set < b.Set
	})
	return keys
}

func (s *Store) Clone() *Store {
	out := &Store{entries: make(map[Key]bool, len(s.entries))}
	for k, v := range s.entries {
		out.entries[k] = v
	}
	return out
}

func (s *Store) Equal(other *Store) bool {
	if len(s.entries) != len(other.entries) {
		return false
	}
	for k, v := range s.entries {
		if ov, ok := other.entries[k]; !ok || ov != v {
			return false
		}
	}
	return true
}
