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

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAside_MissThenHit(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *string) func() error {
		return func() error {
			fetches++
			*dest = "from-db"
			return nil
		}
	}

	var v string
	require.NoError(t, Aside(ctx, "k", &v, time.Minute, fetch(&v)))
	assert.Equal(t, "from-db", v)
	assert.Equal(t, 1, fetches)

	var again string
	require.NoError(t, Aside(ctx, "k", &again, time.Minute, fetch(&again)))
	assert.Equal(t, "from-db", again)
	assert.Equal(t, 1, fetches, "second read must not touch the source")
}

func TestAside_ExpiredEntryRefetches(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	var v int
	fetch := func() error {
		fetches++
		v = fetches * 10
		return nil
	}

	require.NoError(t, Aside(ctx, "n", &v, time.Minute, fetch))
	mr.FastForward(2 * time.Minute)

	require.NoError(t, Aside(ctx, "n", &v, time.Minute, fetch))
	assert.Equal(t, 2, fetches)
	assert.Equal(t, 20, v)
}

func TestAside_NoClientDegradesToFetch(t *testing.T) {
	SetClient(nil)

	fetches := 0
	var v string
	err := Aside(context.Background(), "k", &v, time.Minute, func() error {
		fetches++
		v = "direct"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "direct", v)
	assert.Equal(t, 1, fetches)
}

func TestInvalidateSpotLists(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, SpotListKey(""), []int{1}, time.Minute))
	require.NoError(t, SetJSON(ctx, SpotListKey("category=bar"), []int{2}, time.Minute))
	require.NoError(t, SetJSON(ctx, SpotKey(7), map[string]int{"id": 7}, time.Minute))

	InvalidateSpotLists(ctx)

	assert.False(t, mr.Exists("spots:all"))
	assert.False(t, mr.Exists("spots:category=bar"))
	assert.True(t, mr.Exists("spot:7"), "single-spot entries survive listing invalidation")
}

func TestInvalidateUser(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, UserKey(3), map[string]int{"id": 3}, time.Minute))
	require.NoError(t, SetJSON(ctx, UserListKey, []int{3}, time.Minute))

	InvalidateUser(ctx, 3)

	assert.False(t, mr.Exists("user:3"))
	assert.False(t, mr.Exists("users"))
}
