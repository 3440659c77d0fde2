package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreparedStatementCacheGetSet(t *testing.T) {
	var cache preparedStatementCache

	_, ok := cache.get("select 1")
	assert.False(t, ok)

	prepare := &PreparedStatement{id: 7}
	cache.set("select 1", prepare)

	got, ok := cache.get("select 1")
	require.True(t, ok)
	assert.Same(t, prepare, got)
}

func TestPreparedStatementCacheCloseAllEmptiesCache(t *testing.T) {
	var cache preparedStatementCache
	cache.set("select 1", &PreparedStatement{})
	cache.set("select 2", &PreparedStatement{})

	cache.closeAll(nil)

	_, ok := cache.get("select 1")
	assert.False(t, ok)
	_, ok = cache.get("select 2")
	assert.False(t, ok)
}

func TestPreparedStatementCloseNoopWithoutID(t *testing.T) {
	prepare := &PreparedStatement{}
	prepare.close(nil)
	assert.Equal(t, int32(0), prepare.ID())
}
