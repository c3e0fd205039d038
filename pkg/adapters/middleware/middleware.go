// Package middleware wraps a DonationStore with cross-cutting behavior
// such as encryption at rest and redaction of sensitive keys. Middleware
// composes: Chain(store, A, B) saves through B first, then A, then the
// underlying store.
package middleware

import "github.com/satchelhq/satchel/pkg/ports"

// Middleware wraps a DonationStore to add behavior.
type Middleware func(ports.DonationStore) ports.DonationStore

// Chain applies middlewares around a store, outermost first.
func Chain(store ports.DonationStore, mws ...Middleware) ports.DonationStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
