package session

import (
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/satchelhq/satchel/internal/logging"
	"github.com/satchelhq/satchel/pkg/bridge"
	"github.com/satchelhq/satchel/pkg/domain"
	"github.com/satchelhq/satchel/pkg/engine"
)

// ErrDuplicateSession rejects starting a session under an ID that is
// still live.
var ErrDuplicateSession = errors.New("session: id already in use")

// entry pairs an adapter with its last-activity timestamp.
type entry struct {
	adapter *bridge.Adapter
	touched time.Time
}

// Registry owns the live sessions of one host process.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry

	logger *slog.Logger
	now    func() time.Time
}

// Option configures the Registry.
type Option func(*Registry)

// WithLogger configures a logger for registry events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// withClock overrides the time source, for tests.
func withClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[string]*entry),
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start launches a flow under cfg and registers its adapter. The
// session ID must not collide with a live session.
func (r *Registry) Start(cfg engine.Config, flow bridge.Flow) (*bridge.Adapter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg.SessionID != "" {
		if _, exists := r.entries[cfg.SessionID]; exists {
			return nil, ErrDuplicateSession
		}
	}
	a := bridge.Start(cfg, flow)
	id := a.Config().SessionID
	if _, exists := r.entries[id]; exists {
		// Generated ID collided; do not orphan the new goroutine.
		a.Abandon()
		return nil, ErrDuplicateSession
	}
	r.entries[id] = &entry{adapter: a, touched: r.now()}
	r.logger.Info("session started", "session_id", id)
	return a, nil
}

// Get returns the adapter for a live session and refreshes its
// activity timestamp.
func (r *Registry) Get(sessionID string) (*bridge.Adapter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	e.touched = r.now()
	return e.adapter, nil
}

// Remove abandons a session and forgets it. Removing an unknown ID is
// an error so hosts can distinguish a double-abandon.
func (r *Registry) Remove(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	delete(r.entries, sessionID)
	e.adapter.Abandon()
	r.logger.Info("session removed", "session_id", sessionID)
	return nil
}

// List returns the live session IDs, sorted.
func (r *Registry) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep abandons and forgets sessions idle for longer than maxIdle,
// plus any session that already terminated. It returns the IDs swept.
func (r *Registry) Sweep(maxIdle time.Duration) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxIdle)
	var swept []string
	for id, e := range r.entries {
		if e.adapter.Terminated() || e.touched.Before(cutoff) {
			delete(r.entries, id)
			e.adapter.Abandon()
			swept = append(swept, id)
		}
	}
	if len(swept) > 0 {
		sort.Strings(swept)
		r.logger.Info("sessions swept", "count", len(swept))
	}
	return swept
}

// Close abandons every live session.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, e := range r.entries {
		e.adapter.Abandon()
		delete(r.entries, id)
	}
}
