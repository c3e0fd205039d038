package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satchelhq/satchel/pkg/adapters/redis"
	"github.com/satchelhq/satchel/pkg/domain"
	"github.com/satchelhq/satchel/pkg/ports"
)

func newTestStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	return redis.NewFromClient(client, opts...), mr
}

func TestRedisStore_Contract(t *testing.T) {
	store, _ := newTestStore(t)
	ports.RunDonationStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	store, mr := newTestStore(t, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, ports.Donation{Key: "d1", JSON: `{}`}))

	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, keys, "d1")

	// miniredis only expires when the clock is advanced explicitly.
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "d1")
	assert.ErrorIs(t, err, domain.ErrDonationNotFound)

	// Index pruning compares against time.Now(), so real time has to
	// pass the TTL before List drops the entry.
	time.Sleep(1200 * time.Millisecond)

	keys, err = store.List(ctx)
	require.NoError(t, err)
	assert.NotContains(t, keys, "d1")
}

func TestRedisStore_Prefix(t *testing.T) {
	store, mr := newTestStore(t, redis.WithPrefix("custom:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, ports.Donation{Key: "d1", JSON: `{}`}))
	assert.True(t, mr.Exists("custom:d1"))
}
