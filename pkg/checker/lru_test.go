package checker

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU(t *testing.T) {
	c := newLRU[string, int](2)
	build := func(v int) func() (int, error) {
		return func() (int, error) { return v, nil }
	}

	v, hit, err := c.getOrAdd("a", build(1))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, v)

	v, hit, _ = c.getOrAdd("a", build(99))
	assert.True(t, hit)
	assert.Equal(t, 1, v)

	_, _, _ = c.getOrAdd("b", build(2))
	_, _ = c.get("a")
	_, _, _ = c.getOrAdd("c", build(3))

	_, ok := c.get("b")
	assert.False(t, ok, "least recently used entry is evicted")
	_, ok = c.get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, c.len())

	_, _, err = c.getOrAdd("d", func() (int, error) { return 0, errors.New("nope") })
	assert.Error(t, err)
	_, ok = c.get("d")
	assert.False(t, ok)

	c.purge()
	assert.Equal(t, 0, c.len())
}
