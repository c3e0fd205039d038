// Package bridge adapts the strict one-command-per-resume engine
// contract to what flows actually need: a step may emit any number of
// donate/log commands before its next prompt, host-supplied file
// handles arrive as ordinary read/seek streams, and anything the flow
// logs becomes a SystemLog command interleaved in emission order.
//
// Hosts drive the adapter with NextCommand/Resume; buffered commands
// are drained in order without requiring a payload between them.
package bridge
