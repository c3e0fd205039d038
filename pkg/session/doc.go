/*
Package session tracks the live donation sessions of a host process.

A session is a running flow goroutine behind its adapter; it cannot be
persisted or migrated, so the registry's job is bookkeeping: handing
out adapters by ID, refusing duplicate IDs, and abandoning sessions
that are removed or have gone idle.
*/
package session
