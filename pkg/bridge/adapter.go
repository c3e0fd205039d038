package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/satchelhq/satchel/pkg/domain"
	"github.com/satchelhq/satchel/pkg/engine"
)

// Flow is a donation script written against the adapter handle.
type Flow func(h *Handle) error

// Adapter wraps an engine session with the command queue the host
// drains. Buffered commands (donate, log) never require a payload;
// only prompts suspend the flow.
type Adapter struct {
	sess *engine.Session

	mu    sync.Mutex
	queue []domain.Command
	meta  []domain.MetaEntry
}

// Start launches the flow behind an adapter.
func Start(cfg engine.Config, flow Flow) *Adapter {
	a := &Adapter{}
	a.sess = engine.Start(cfg, func(eh *engine.Handle) error {
		return flow(&Handle{eh: eh, a: a})
	})
	return a
}

// NextCommand returns the next Command for the host: buffered commands
// first, in emission order, then the engine is driven forward.
func (a *Adapter) NextCommand(ctx context.Context) (domain.Command, error) {
	if cmd, ok := a.pop(); ok {
		return cmd, nil
	}
	cmd, err := a.sess.Next(ctx)
	if err != nil {
		return nil, err
	}
	// A host parked here sees the engine command as soon as the flow
	// suspends, even when the flow buffered commands just before the
	// suspension. Those were emitted first and must surface first, so
	// the engine command queues behind them.
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.queue) == 0 {
		return cmd, nil
	}
	a.queue = append(a.queue, cmd)
	first := a.queue[0]
	a.queue = a.queue[1:]
	return first, nil
}

// Resume answers the pending prompt.
func (a *Adapter) Resume(p domain.Payload) error {
	return a.sess.Resume(p)
}

// Abandon cancels the underlying session.
func (a *Adapter) Abandon() {
	a.sess.Abandon()
}

// Terminated reports whether the session has delivered its terminal
// exit or was abandoned. Buffered commands may still be pending drain.
func (a *Adapter) Terminated() bool {
	return a.sess.Terminated()
}

// Config returns the session parameters.
func (a *Adapter) Config() engine.Config {
	return a.sess.Config()
}

// Meta returns a copy of the accumulated session log.
func (a *Adapter) Meta() []domain.MetaEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.MetaEntry, len(a.meta))
	copy(out, a.meta)
	return out
}

func (a *Adapter) push(cmd domain.Command) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.queue = append(a.queue, cmd)
}

func (a *Adapter) pop() (domain.Command, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.queue) == 0 {
		return nil, false
	}
	cmd := a.queue[0]
	a.queue = a.queue[1:]
	return cmd, true
}

func (a *Adapter) appendMeta(level domain.LogLevel, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.meta = append(a.meta, domain.MetaEntry{Level: level, Message: message})
}

// Handle is the flow-side view: prompts suspend, emits buffer.
type Handle struct {
	eh *engine.Handle
	a  *Adapter

	loggerOnce sync.Once
	logger     *slog.Logger
}

// SessionID returns the session identifier.
func (h *Handle) SessionID() string { return h.eh.SessionID() }

// Locale returns the session locale.
func (h *Handle) Locale() string { return h.eh.Locale() }

// Context is cancelled when the session is abandoned.
func (h *Handle) Context() context.Context { return h.eh.Context() }

// Emit buffers a command for the host without suspending the flow.
func (h *Handle) Emit(cmd domain.Command) {
	h.a.push(cmd)
}

// Prompt renders a page and suspends until the host answers.
func (h *Handle) Prompt(page domain.Page) (domain.Payload, error) {
	return h.eh.EmitAndWait(domain.RenderUI{Page: page})
}

// PromptFile renders a file prompt. When the host answers with a file,
// its capability is wrapped in a FileStream so extractors get ordinary
// random-access reads; any other payload reports ok=false ("skip").
func (h *Handle) PromptFile(page domain.Page) (*FileStream, bool, error) {
	p, err := h.Prompt(page)
	if err != nil {
		return nil, false, err
	}
	fp, ok := p.(domain.FilePayload)
	if !ok || fp.File == nil {
		return nil, false, nil
	}
	return NewFileStream(fp.File), true, nil
}

// Show renders a page that requests no input, such as extraction
// progress. The host acknowledges it with a void payload.
func (h *Handle) Show(page domain.Page) error {
	_, err := h.Prompt(page)
	return err
}

// ShowEnd renders the closing page. Hosts acknowledge it like any
// other render before the flow exits.
func (h *Handle) ShowEnd() error {
	_, err := h.eh.EmitAndWait(domain.RenderUI{Page: domain.EndPage{}})
	return err
}

// Donate buffers a SystemDonate under "{sessionID}-{topic}". Strings
// and []byte are taken as pre-serialized JSON; everything else is
// marshalled.
func (h *Handle) Donate(topic string, v any) error {
	var payload string
	switch val := v.(type) {
	case string:
		payload = val
	case []byte:
		payload = string(val)
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Errorf("marshal donation %q: %w", topic, err)
		}
		payload = string(raw)
	}
	h.Emit(domain.SystemDonate{Key: h.SessionID() + "-" + topic, JSON: payload})
	return nil
}

// Exit emits the terminal command and suspends no further.
func (h *Handle) Exit(code int, message string) error {
	_, err := h.eh.EmitAndWait(domain.SystemExit{Code: code, Message: message})
	return err
}

// Meta returns a copy of the accumulated session log.
func (h *Handle) Meta() []domain.MetaEntry {
	return h.a.Meta()
}

// Logger returns a logger whose records become SystemLog commands in
// the adapter queue, interleaved with the step's other commands in
// emission order, and are mirrored into the session meta log.
func (h *Handle) Logger() *slog.Logger {
	h.loggerOnce.Do(func() {
		h.logger = slog.New(&commandSink{h: h})
	})
	return h.logger
}

func (h *Handle) log(level domain.LogLevel, message string) {
	h.a.appendMeta(level, message)
	h.a.push(domain.SystemLog{Level: level, Message: message})
}
