package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satchelhq/satchel/pkg/domain"
)

// RunDonationStoreContract verifies that a DonationStore implementation
// adheres to the interface contract. Store adapters call it from their
// own tests.
func RunDonationStoreContract(t *testing.T, store DonationStore) {
	ctx := context.Background()
	key := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		d := Donation{
			Key:        key,
			JSON:       `{"views":3}`,
			ReceivedAt: time.Now().UTC().Truncate(time.Second),
		}
		require.NoError(t, store.Save(ctx, d))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, d.Key, loaded.Key)
		assert.Equal(t, d.JSON, loaded.JSON)
		assert.True(t, d.ReceivedAt.Equal(loaded.ReceivedAt))
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, Donation{Key: key, JSON: `1`}))
		require.NoError(t, store.Save(ctx, Donation{Key: key, JSON: `2`}))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, `2`, loaded.JSON)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrDonationNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, Donation{Key: key, JSON: `{}`}))
		require.NoError(t, store.Delete(ctx, key))

		_, err := store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrDonationNotFound)
	})

	t.Run("List", func(t *testing.T) {
		k1, k2 := key+"-1", key+"-2"
		require.NoError(t, store.Save(ctx, Donation{Key: k1, JSON: `{}`}))
		require.NoError(t, store.Save(ctx, Donation{Key: k2, JSON: `{}`}))
		defer func() {
			_ = store.Delete(ctx, k1)
			_ = store.Delete(ctx, k2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, k1)
		assert.Contains(t, keys, k2)
	})
}
