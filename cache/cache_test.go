package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheHitAndMiss(t *testing.T) {
	epoch := uint64(0)
	c, err := New[string](8, func() uint64 { return epoch })
	require.NoError(t, err)

	_, ok := c.Get("ple")
	assert.False(t, ok)

	want := map[string]float64{"A": 1.0}
	c.Put("ple", want)

	got, ok := c.Get("ple")
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestCacheInvalidatesOnEpochChange(t *testing.T) {
	epoch := uint64(0)
	c, err := New[string](8, func() uint64 { return epoch })
	require.NoError(t, err)

	c.Put("ple", map[string]float64{"A": 1.0})
	epoch++

	_, ok := c.Get("ple")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCacheEviction(t *testing.T) {
	c, err := New[string](1, func() uint64 { return 0 })
	require.NoError(t, err)

	c.Put("a", map[string]float64{"A": 1})
	c.Put("b", map[string]float64{"B": 2})

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)
}

func TestCachePurge(t *testing.T) {
	c, err := New[string](8, func() uint64 { return 0 })
	require.NoError(t, err)
	c.Put("a", map[string]float64{"A": 1})
	c.Purge()
	assert.Equal(t, 0, c.Len())
}
