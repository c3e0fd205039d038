package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satchelhq/satchel/pkg/adapters/memory"
	"github.com/satchelhq/satchel/pkg/adapters/middleware"
	"github.com/satchelhq/satchel/pkg/ports"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func TestEncryptionRoundTrip(t *testing.T) {
	underlying := memory.NewStore()
	key := generateKey(t)
	secure := middleware.NewEncryption(middleware.EncryptionConfig{ActiveKey: key})(underlying)

	ctx := context.Background()
	donation := ports.Donation{Key: "s1-Chat", JSON: `{"secret":"my-secret-sauce"}`}
	require.NoError(t, secure.Save(ctx, donation))

	// The underlying store only ever sees the sealed envelope.
	stored, err := underlying.Load(ctx, "s1-Chat")
	require.NoError(t, err)
	assert.NotContains(t, stored.JSON, "my-secret-sauce")
	assert.Contains(t, stored.JSON, "__encrypted__")

	loaded, err := secure.Load(ctx, "s1-Chat")
	require.NoError(t, err)
	assert.JSONEq(t, donation.JSON, loaded.JSON)
}

func TestEncryptionKeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	ctx := context.Background()
	oldStore := middleware.NewEncryption(middleware.EncryptionConfig{ActiveKey: oldKey})(underlying)
	require.NoError(t, oldStore.Save(ctx, ports.Donation{Key: "rotated", JSON: `{"v":1}`}))

	rotated := middleware.NewEncryption(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlying)

	loaded, err := rotated.Load(ctx, "rotated")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, loaded.JSON)

	// Re-saving seals with the new key, so the old key alone no longer works.
	require.NoError(t, rotated.Save(ctx, loaded))
	_, err = oldStore.Load(ctx, "rotated")
	assert.Error(t, err)
}

func TestEncryptionFailsClosedOnPlainData(t *testing.T) {
	underlying := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, underlying.Save(ctx, ports.Donation{Key: "plain", JSON: `{"v":1}`}))

	secure := middleware.NewEncryption(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	_, err := secure.Load(ctx, "plain")
	assert.ErrorContains(t, err, "encryption envelope")
}

func TestEncryptionRejectsShortKey(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryption(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	})
}
