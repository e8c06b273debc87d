package cowset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// equalUnsorted reports whether two slices hold the same elements
// regardless of order, accounting for duplicates.
func equalUnsorted[E comparable](s1, s2 []E) bool {
	if len(s1) != len(s2) {
		return false
	}
	matched := make([]bool, len(s2))
outer:
	for _, a := range s1 {
		for i, b := range s2 {
			if !matched[i] && a == b {
				matched[i] = true
				continue outer
			}
		}
		return false
	}
	return true
}

func TestSetAddRemove(t *testing.T) {
	var s Set[string]
	require.Equal(t, 0, s.Len())

	s = s.Add("a")
	s = s.Add("b")
	s = s.Add("a") // duplicate, no-op
	require.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("a"))
	assert.True(t, s.Contains("b"))
	assert.False(t, s.Contains("c"))

	s2 := s.Remove("a")
	assert.Equal(t, 1, s2.Len())
	assert.False(t, s2.Contains("a"))
	// original unaffected by copy-on-write semantics.
	assert.True(t, s.Contains("a"))
}

func TestSetRemoveMissingIsNoop(t *testing.T) {
	s := New("a", "b")
	s2 := s.Remove("z")
	assert.True(t, equalUnsorted(s.Snapshot(), s2.Snapshot()))
}

func TestSetAllSnapshotIsolation(t *testing.T) {
	s := New(1, 2, 3)
	var seen []int
	for v := range s.All() {
		seen = append(seen, v)
		s = s.Add(99) // mutating the local variable must not affect the in-flight iteration
	}
	assert.True(t, equalUnsorted(seen, []int{1, 2, 3}))
}

func TestSetSnapshotIndependence(t *testing.T) {
	s := New("x")
	snap := s.Snapshot()
	snap[0] = "mutated"
	assert.True(t, s.Contains("x"))
}
