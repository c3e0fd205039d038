// Package redis implements ports.DonationStore on Redis, for hosts
// that outlive a single process or run multiple replicas.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/satchelhq/satchel/pkg/domain"
	"github.com/satchelhq/satchel/pkg/ports"
)

// Store implements ports.DonationStore using Redis. Each donation is a
// JSON value under a prefixed key, with a ZSET index for listing.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for donations. Zero means keep forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithPrefix sets the key prefix for donations.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// New creates a Redis store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "satchel:donation:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(donationKey string) string {
	return s.prefix + donationKey
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the donation and indexes it.
func (s *Store) Save(ctx context.Context, d ports.Donation) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal donation: %w", err)
	}

	// Index score is the expiry instant so List can prune lazily;
	// without a TTL the entry never expires.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(d.Key), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: d.Key})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves a donation by key.
func (s *Store) Load(ctx context.Context, key string) (ports.Donation, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if err == backend.Nil {
			return ports.Donation{}, domain.ErrDonationNotFound
		}
		return ports.Donation{}, fmt.Errorf("failed to get from redis: %w", err)
	}

	var d ports.Donation
	if err := json.Unmarshal([]byte(val), &d); err != nil {
		return ports.Donation{}, fmt.Errorf("failed to unmarshal donation: %w", err)
	}
	return d, nil
}

// Delete removes a donation and its index entry.
func (s *Store) Delete(ctx context.Context, key string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(key))
	pipe.ZRem(ctx, s.indexKey(), key)
	_, err := pipe.Exec(ctx)
	return err
}

// List returns the stored donation keys, pruning expired index entries
// first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune expired donations: %w", err)
	}

	keys, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	return keys, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
