package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/satchelhq/satchel/pkg/domain"
)

// commandSink is a slog.Handler that turns records into SystemLog
// commands. Attrs are rendered as "key=value" suffixes; groups prefix
// the key the way slog's text handler does.
type commandSink struct {
	h      *Handle
	prefix string
	attrs  []slog.Attr
}

func (s *commandSink) Enabled(_ context.Context, _ slog.Level) bool {
	// Filtering belongs to the host; the protocol carries every level.
	return true
}

func (s *commandSink) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)
	for _, a := range s.attrs {
		writeAttr(&b, s.prefix, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, s.prefix, a)
		return true
	})
	s.h.log(domain.LevelFromSlog(r.Level), b.String())
	return nil
}

func (s *commandSink) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(s.attrs)+len(attrs))
	merged = append(merged, s.attrs...)
	merged = append(merged, attrs...)
	return &commandSink{h: s.h, prefix: s.prefix, attrs: merged}
}

func (s *commandSink) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	return &commandSink{h: s.h, prefix: s.prefix + name + ".", attrs: s.attrs}
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	fmt.Fprintf(b, " %s%s=%v", prefix, a.Key, a.Value.Resolve().Any())
}
