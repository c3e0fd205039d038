package ports

import (
	"context"
	"time"
)

// Donation is one received SystemDonate, as persisted by a host.
type Donation struct {
	Key        string    `json:"key"`
	JSON       string    `json:"json_string"`
	ReceivedAt time.Time `json:"received_at"`
}

// DonationStore persists donations on the host side of the protocol.
// The flow core never touches it; adapters drain SystemDonate commands
// into it.
type DonationStore interface {
	// Save persists a donation under its key.
	Save(ctx context.Context, d Donation) error

	// Load retrieves a donation by key.
	// Returns domain.ErrDonationNotFound if absent.
	Load(ctx context.Context, key string) (Donation, error)

	// Delete removes a donation by key.
	Delete(ctx context.Context, key string) error

	// List returns the stored donation keys.
	List(ctx context.Context) ([]string, error)
}
