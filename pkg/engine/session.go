package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/satchelhq/satchel/internal/logging"
	"github.com/satchelhq/satchel/pkg/domain"
)

// Flow is a complete donation script: linear code that emits Commands
// and blocks on the Handle until the host answers.
type Flow func(h *Handle) error

// Config carries the per-session parameters supplied by the host.
type Config struct {
	// SessionID scopes donation keys. Generated when empty.
	SessionID string
	// Locale selects the translation used for user-facing copy.
	Locale string
	// Logger receives engine-internal diagnostics. Defaults to no-op.
	Logger *slog.Logger
}

type sessionState int

const (
	stateRunning  sessionState = iota // flow executing, no command delivered
	stateAwaiting                     // command delivered, payload required
	stateDone                         // terminal exit delivered
	stateAbandoned
)

// Session is one suspended/resumable run of a Flow.
type Session struct {
	cfg Config

	cmds     chan domain.Command
	payloads chan domain.Payload

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	state       sessionState
	exitEmitted bool

	abandonOnce sync.Once
}

// Start launches the flow and returns its session. The flow runs until
// its first EmitAndWait and then parks; drive it with Next/Resume.
func Start(cfg Config, flow Flow) *Session {
	if cfg.SessionID == "" {
		cfg.SessionID = uuid.NewString()
	}
	if cfg.Locale == "" {
		cfg.Locale = domain.DefaultLocale
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		cfg:      cfg,
		cmds:     make(chan domain.Command),
		payloads: make(chan domain.Payload),
		ctx:      ctx,
		cancel:   cancel,
	}
	go s.run(flow)
	return s
}

// Config returns the session parameters.
func (s *Session) Config() Config {
	return s.cfg
}

// Terminated reports whether the terminal exit has been delivered or
// the session was abandoned.
func (s *Session) Terminated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateDone || s.state == stateAbandoned
}

// run executes the flow and guarantees exactly one terminal command:
// when the flow returns without having emitted a SystemExit itself, one
// is synthesized.
func (s *Session) run(flow Flow) {
	h := &Handle{s: s}
	err := flow(h)

	s.mu.Lock()
	emitted := s.exitEmitted
	s.mu.Unlock()
	if emitted {
		return
	}

	exit := domain.SystemExit{Code: 0, Message: "End of script"}
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrSessionAbandoned), errors.Is(err, domain.ErrSessionDone):
		return
	default:
		s.cfg.Logger.Error("flow failed", "session_id", s.cfg.SessionID, "err", err)
		exit = domain.SystemExit{Code: 1, Message: err.Error()}
	}

	select {
	case s.cmds <- exit:
	case <-s.ctx.Done():
	}
}

// Next returns the next Command, blocking until the flow emits one or
// terminates. Calling Next while the previous command still awaits its
// payload is a protocol violation.
func (s *Session) Next(ctx context.Context) (domain.Command, error) {
	s.mu.Lock()
	switch s.state {
	case stateAwaiting:
		s.mu.Unlock()
		return nil, domain.ErrAwaitingPayload
	case stateDone:
		s.mu.Unlock()
		return nil, domain.ErrSessionDone
	case stateAbandoned:
		s.mu.Unlock()
		return nil, domain.ErrSessionAbandoned
	}
	s.mu.Unlock()

	select {
	case cmd := <-s.cmds:
		s.mu.Lock()
		if _, terminal := cmd.(domain.SystemExit); terminal {
			s.state = stateDone
		} else {
			s.state = stateAwaiting
		}
		s.mu.Unlock()
		return cmd, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.ctx.Done():
		return nil, domain.ErrSessionAbandoned
	}
}

// Resume answers the command delivered by the last Next. A nil payload
// is coerced to VoidPayload, the acknowledgement for renders that
// request no input. Resuming without a delivered, unanswered command is
// rejected with ErrNotAwaiting.
func (s *Session) Resume(p domain.Payload) error {
	s.mu.Lock()
	switch s.state {
	case stateAbandoned:
		s.mu.Unlock()
		return domain.ErrSessionAbandoned
	case stateDone:
		s.mu.Unlock()
		return domain.ErrSessionDone
	case stateRunning:
		s.mu.Unlock()
		return domain.ErrNotAwaiting
	}
	s.state = stateRunning
	s.mu.Unlock()

	if p == nil {
		p = domain.VoidPayload{}
	}
	select {
	case s.payloads <- p:
		return nil
	case <-s.ctx.Done():
		return domain.ErrSessionAbandoned
	}
}

// Abandon cancels the session. The flow's pending emit (and every later
// one) fails with ErrSessionAbandoned so the goroutine unwinds and its
// resources are released. Safe to call more than once and after
// termination.
func (s *Session) Abandon() {
	s.abandonOnce.Do(func() {
		s.mu.Lock()
		if s.state != stateDone {
			s.state = stateAbandoned
		}
		s.mu.Unlock()
		s.cancel()
	})
}

// Handle is the flow-side view of a session.
type Handle struct {
	s *Session
}

// SessionID returns the session identifier.
func (h *Handle) SessionID() string { return h.s.cfg.SessionID }

// Locale returns the session locale.
func (h *Handle) Locale() string { return h.s.cfg.Locale }

// Context is cancelled when the session is abandoned. Long extractions
// should check it.
func (h *Handle) Context() context.Context { return h.s.ctx }

// EmitAndWait hands one Command to the host and parks the flow until a
// Payload arrives. Emitting a SystemExit is terminal: it returns
// immediately with VoidPayload and every later emit fails with
// ErrSessionDone.
func (h *Handle) EmitAndWait(cmd domain.Command) (domain.Payload, error) {
	s := h.s

	s.mu.Lock()
	if s.exitEmitted {
		s.mu.Unlock()
		return nil, domain.ErrSessionDone
	}
	_, terminal := cmd.(domain.SystemExit)
	if terminal {
		s.exitEmitted = true
	}
	s.mu.Unlock()

	select {
	case s.cmds <- cmd:
	case <-s.ctx.Done():
		return nil, domain.ErrSessionAbandoned
	}

	if terminal {
		return domain.VoidPayload{}, nil
	}

	select {
	case p := <-s.payloads:
		return p, nil
	case <-s.ctx.Done():
		return nil, domain.ErrSessionAbandoned
	}
}
