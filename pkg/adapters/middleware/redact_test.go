package middleware_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satchelhq/satchel/pkg/adapters/memory"
	"github.com/satchelhq/satchel/pkg/adapters/middleware"
	"github.com/satchelhq/satchel/pkg/ports"
)

func TestRedactionMasksMatchingKeys(t *testing.T) {
	underlying := memory.NewStore()
	store := middleware.NewRedaction([]string{"password", "ssn"})(underlying)

	ctx := context.Background()
	err := store.Save(ctx, ports.Donation{Key: "s1-Chat", JSON: `{
		"username": "jdoe",
		"user_password": "secret123",
		"details": {"address": "123 St", "ssn_number": "999-99-9999"},
		"entries": [{"password": "hunter2"}, {"note": "ok"}]
	}`})
	require.NoError(t, err)

	stored, err := underlying.Load(ctx, "s1-Chat")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"username": "jdoe",
		"user_password": "***",
		"details": {"address": "123 St", "ssn_number": "***"},
		"entries": [{"password": "***"}, {"note": "ok"}]
	}`, stored.JSON)
}

func TestRedactionLeavesNonObjectPayloads(t *testing.T) {
	underlying := memory.NewStore()
	store := middleware.NewRedaction([]string{"password"})(underlying)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, ports.Donation{Key: "raw", JSON: `"just a string"`}))

	stored, err := underlying.Load(ctx, "raw")
	require.NoError(t, err)
	assert.Equal(t, `"just a string"`, stored.JSON)
}

func TestChainOrdersMiddleware(t *testing.T) {
	underlying := memory.NewStore()
	store := middleware.Chain(underlying,
		middleware.NewRedaction([]string{"token"}),
	)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, ports.Donation{Key: "k", JSON: `{"token":"abc"}`}))
	stored, err := underlying.Load(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"***"}`, stored.JSON)

	// The chained store still satisfies the full contract.
	ports.RunDonationStoreContract(t, middleware.Chain(memory.NewStore(),
		middleware.NewRedaction([]string{"nothing-matches"}),
	))
}
