package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBumpChangesKey(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	k1, err := m.Key(ctx, "dashboard", "inventory", "invoices")
	require.NoError(t, err)
	assert.Equal(t, "dmc-erp:dashboard:inventory@0:invoices@0", k1)

	require.NoError(t, m.Set(ctx, k1, map[string]int{"n": 3}, 0))
	var got map[string]int
	hit, err := m.Get(ctx, k1, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 3, got["n"])

	require.NoError(t, m.Bump(ctx, "invoices"))
	k2, err := m.Key(ctx, "dashboard", "inventory", "invoices")
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)

	hit, err = m.Get(ctx, k2, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestBuildKeyNilVersion(t *testing.T) {
	key := buildKey("x", []string{"a", "b"}, []interface{}{nil, "4"})
	assert.Equal(t, "dmc-erp:x:a@0:b@4", key)
}

func TestNop(t *testing.T) {
	var s Store = Nop{}
	hit, err := s.Get(context.Background(), "k", new(int))
	require.NoError(t, err)
	assert.False(t, hit)
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStoreBumpChangesKey(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	k1, err := s.Key(ctx, "dashboard", "inventory", "invoices")
	require.NoError(t, err)
	assert.Equal(t, "dmc-erp:dashboard:inventory@0:invoices@0", k1)

	var got map[string]int
	hit, err := s.Get(ctx, k1, &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, s.Set(ctx, k1, map[string]int{"n": 3}, time.Minute))
	hit, err = s.Get(ctx, k1, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 3, got["n"])
	assert.Equal(t, time.Minute, mr.TTL(k1))

	require.NoError(t, s.Bump(ctx, "invoices"))
	k2, err := s.Key(ctx, "dashboard", "inventory", "invoices")
	require.NoError(t, err)
	assert.Equal(t, "dmc-erp:dashboard:inventory@0:invoices@1", k2)

	got = nil
	hit, err = s.Get(ctx, k2, &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, got)

	// bumping an unrelated collection keeps the key
	require.NoError(t, s.Bump(ctx, "vendors"))
	k3, err := s.Key(ctx, "dashboard", "inventory", "invoices")
	require.NoError(t, err)
	assert.Equal(t, k2, k3)
}

func TestRedisStoreRejectsCorruptEntry(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)
	require.NoError(t, mr.Set("dmc-erp:broken", "{not json"))

	var got map[string]int
	hit, err := s.Get(ctx, "dmc-erp:broken", &got)
	assert.Error(t, err)
	assert.False(t, hit)
}
