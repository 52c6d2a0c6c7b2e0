package progress

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetDefaultsToFalse(t *testing.T) {
	s := NewStore()
	k := NewKey("2024-01-01", "Day 1", 0, 0)
	require.False(t, s.Get(k))
	require.False(t, s.Has(k))
	require.Equal(t, 0, s.Len())
}

func TestSetIsIdempotent(t *testing.T) {
	s := NewStore()
	k := NewKey("2024-01-01", "Day 1", 0, 0)
	s.Set(k, true)
	s.Set(k, true)
	require.True(t, s.Get(k))
	require.Equal(t, 1, s.Len())

	s.Set(k, false)
	require.False(t, s.Get(k))
	require.True(t, s.Has(k), "reset keeps the key")
}

func TestSetManyAndEnsure(t *testing.T) {
	s := NewStore()
	keys := []Key{
		NewKey("2024-01-01", "Day 1", 0, 0),
		NewKey("2024-01-01", "Day 1", 0, 1),
		NewKey("2024-01-01", "Day 1", 1, 0),
	}
	s.Set(keys[0], true)
	s.Ensure(keys)
	require.True(t, s.Get(keys[0]), "ensure must not overwrite")
	require.Equal(t, 3, s.Len())

	s.SetMany(keys, true)
	for _, k := range keys {
		require.True(t, s.Get(k))
	}
	s.SetMany(keys, false)
	for _, k := range keys {
		require.False(t, s.Get(k))
	}
	require.Equal(t, 3, s.Len())
}

func TestKeysSorted(t *testing.T) {
	s := NewStore()
	s.Set(NewKey("2024-01-02", "Day 1", 0, 0), true)
	s.Set(NewKey("2024-01-01", "Day 2", 0, 0), true)
	s.Set(NewKey("2024-01-01", "Day 1", 1, 0), true)
	s.Set(NewKey("2024-01-01", "Day 1", 0, 10), true)
	s.Set(NewKey("2024-01-01", "Day 1", 0, 2), true)

	require.Equal(t, []Key{
		NewKey("2024-01-01", "Day 1", 0, 2),
		NewKey("2024-01-01", "Day 1", 0, 10),
		NewKey("2024-01-01", "Day 1", 1, 0),
		NewKey("2024-01-01", "Day 2", 0, 0),
		NewKey("2024-01-02", "Day 1", 0, 0),
	}, s.Keys())
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewStore()
	k := NewKey("2024-01-01", "Day 1", 0, 0)
	s.Set(k, true)
	c := s.Clone()
	require.True(t, c.Equal(s))
	c.Set(k, false)
	require.True(t, s.Get(k))
	require.False(t, c.Equal(s))
}

func TestExportAll(t *testing.T) {
	s := NewStore()
	s.Set(NewKey("2024-01-01", "Day 1", 0, 0), true)
	s.Set(NewKey("2024-01-01", "Day 1", 0, 1), false)
	require.Equal(t, map[string]bool{
		"chk::2024-01-01::Day 1::ex0::set0": true,
		"chk::2024-01-01::Day 1::ex0::set1": false,
	}, s.ExportAll())
}

func TestImportMergeRoundTrip(t *testing.T) {
	src := NewStore()
	for d := 0; d < 3; d++ {
		date := fmt.Sprintf("2024-01-0%d", d+1)
		for ex := 0; ex < 4; ex++ {
			for set := 0; set < 3; set++ {
				src.Set(NewKey(date, "Day 2 – Pull", ex, set), (d+ex+set)%2 == 0)
			}
		}
	}

	dst := NewStore()
	res, err := dst.ImportMerge(src.ExportAll())
	require.NoError(t, err)
	require.Equal(t, ImportResult{Accepted: src.Len()}, res)
	require.True(t, dst.Equal(src))
}

func TestImportMergeIsLenient(t *testing.T) {
	s := NewStore()
	res, err := s.ImportMerge(map[string]any{
		"garbage":                           1,
		"valid::key::shape::ex0::set0":      true,
		"chk::2024-01-01::Day 1::ex0::set0": "yes",
		"chk::2024-01-01::Day 1::ex0::set1": nil,
	})
	require.NoError(t, err)
	require.Equal(t, ImportResult{Accepted: 1, Skipped: 3}, res)
	require.True(t, s.Get(Key{Date: "key", Day: "shape"}))
	require.Equal(t, 1, s.Len())
}

func TestImportMergeSkipsNonCanonicalIndices(t *testing.T) {
	k := NewKey("2024-01-01", "Day 1", 1, 0)
	for i := 0; i < 50; i++ {
		s := NewStore()
		res, err := s.ImportMerge(map[string]any{
			"chk::2024-01-01::Day 1::ex1::set0":  true,
			"chk::2024-01-01::Day 1::ex01::set0": false,
			"chk::2024-01-01::Day 1::ex1::set00": false,
		})
		require.NoError(t, err)
		require.Equal(t, ImportResult{Accepted: 1, Skipped: 2}, res)
		require.True(t, s.Get(k))
		require.Equal(t, 1, s.Len())
	}
}

func TestImportMergeOverwrites(t *testing.T) {
	s := NewStore()
	k := NewKey("2024-01-01", "Day 1", 0, 0)
	other := NewKey("2024-01-01", "Day 1", 0, 1)
	s.Set(k, true)
	s.Set(other, true)

	_, err := s.ImportMerge(map[string]bool{k.String(): false})
	require.NoError(t, err)
	require.False(t, s.Get(k))
	require.True(t, s.Get(other), "merge leaves unrelated keys alone")
}

func TestImportMergeRejectsNonObject(t *testing.T) {
	s := NewStore()
	s.Set(NewKey("2024-01-01", "Day 1", 0, 0), true)
	before := s.Clone()

	for _, payload := range []any{nil, []any{true}, "chk", 3.0, true} {
		_, err := s.ImportMerge(payload)
		require.True(t, errors.Is(err, ErrInvalidFormat), "%T", payload)
	}
	require.True(t, s.Equal(before))
}
