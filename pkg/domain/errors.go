package domain

import "errors"

// ErrNotAwaiting is returned when a session is resumed although no
// rendered command is waiting for a payload. This is a protocol
// violation and fatal for the session.
var ErrNotAwaiting = errors.New("session is not awaiting a payload")

// ErrAwaitingPayload is returned when the host asks for the next command
// while the previously delivered command has not been answered yet.
var ErrAwaitingPayload = errors.New("session is awaiting a payload for the previous command")

// ErrSessionDone is returned when a terminated session is driven further.
var ErrSessionDone = errors.New("session already terminated")

// ErrSessionAbandoned is returned from both sides of an abandoned
// session: the flow's pending emit and any later host call.
var ErrSessionAbandoned = errors.New("session abandoned")

// ErrSessionNotFound is returned when a session ID cannot be found in the registry.
var ErrSessionNotFound = errors.New("session not found")

// ErrClosedStream is returned for reads or seeks on a closed file stream.
var ErrClosedStream = errors.New("operation on closed file stream")

// ErrDonationNotFound is returned when a donation key is absent from a store.
var ErrDonationNotFound = errors.New("donation not found")
