// Package chatlog extracts aggregate statistics from a chat-export
// archive: message volume per day, clustered chat sessions, and
// per-contact counts under stable pseudonyms. No message content and
// no contact names leave this package.
package chatlog

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/satchelhq/satchel/pkg/domain"
	"github.com/satchelhq/satchel/pkg/extract"
	"github.com/satchelhq/satchel/pkg/ports"
)

// messagesPattern matches the export's message file wherever the
// platform nests it.
const messagesPattern = "*messages.json"

// Extractor reads chat-export archives.
type Extractor struct {
	gap time.Duration
}

// Option configures the extractor.
type Option func(*Extractor)

// WithSessionGap overrides the inactivity threshold used to split
// messages into chat sessions.
func WithSessionGap(gap time.Duration) Option {
	return func(e *Extractor) { e.gap = gap }
}

// New builds a chat-export extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{gap: extract.DefaultSessionGap}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Platform names the export source.
func (e *Extractor) Platform() string { return "Chat" }

// Extract locates the message file, normalizes its keys, and reduces
// the messages to three aggregate tables. Wrong or unreadable input is
// classified, never raised.
func (e *Extractor) Extract(ctx context.Context, f ports.File, progress ports.ProgressFunc) domain.Outcome {
	progress("opening archive", 5)
	r, err := extract.OpenArchive(f)
	if err != nil {
		if errors.Is(err, extract.ErrNotArchive) {
			return domain.Invalid(err.Error())
		}
		return domain.Malformed(err.Error())
	}

	progress("reading messages", 20)
	v, found, err := extract.ReadJSON(r, messagesPattern)
	if err != nil {
		return domain.Malformed(err.Error())
	}
	if !found {
		return domain.Invalid("no messages file in archive")
	}

	owner := extract.NestedString(v, "userid")
	ids := extract.NewIdentityMap(owner)

	conversations := extract.NestedSlice(v, "conversations")
	if len(conversations) == 0 {
		return domain.EmptyData()
	}

	var (
		timestamps []time.Time
		bySender   = map[int]int{}
	)
	for i, conv := range conversations {
		if ctx.Err() != nil {
			return domain.Invalid("extraction cancelled")
		}
		for _, m := range extract.NestedSlice(conv, "messages") {
			sender := extract.NestedString(m, "from")
			if sender != "" {
				bySender[ids.IDFor(sender)]++
			}
			if t, err := time.Parse(time.RFC3339, extract.NestedString(m, "timestamp")); err == nil {
				timestamps = append(timestamps, t)
			}
		}
		progress("reading conversations", 20+float64(i+1)/float64(len(conversations))*60)
	}

	if len(timestamps) == 0 && len(bySender) == 0 {
		return domain.EmptyData()
	}

	progress("building tables", 90)
	return domain.Success(
		perDayTable(timestamps),
		sessionsTable(timestamps, e.gap),
		contactsTable(bySender),
	)
}

func perDayTable(ts []time.Time) domain.ExtractionResult {
	counts := extract.CountByBucket(ts, extract.DayBucket)
	rows := make([][]any, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []any{c.Key, c.Count})
	}
	return domain.ExtractionResult{
		ID:          "messages_per_day",
		Title:       domain.Text{"en": "Messages per day", "nl": "Berichten per dag"},
		Description: domain.Text{"en": "How many messages were sent on each day.", "nl": "Hoeveel berichten er per dag zijn verstuurd."},
		Table:       domain.DataTable{Columns: []string{"day", "messages"}, Rows: rows},
	}
}

func sessionsTable(ts []time.Time, gap time.Duration) domain.ExtractionResult {
	spans := extract.ClusterSessions(ts, gap)
	rows := make([][]any, 0, len(spans))
	for _, s := range spans {
		rows = append(rows, []any{
			s.Start.Format(time.RFC3339),
			s.End.Format(time.RFC3339),
			s.Duration.Minutes(),
		})
	}
	return domain.ExtractionResult{
		ID:          "chat_sessions",
		Title:       domain.Text{"en": "Chat sessions", "nl": "Chatsessies"},
		Description: domain.Text{"en": "Periods of continuous chat activity.", "nl": "Periodes van aaneengesloten chatactiviteit."},
		Table:       domain.DataTable{Columns: []string{"start", "end", "duration_minutes"}, Rows: rows},
	}
}

// contactsTable reports message counts per pseudonym. Pseudonym 1 is
// always the account owner when the export names one.
func contactsTable(bySender map[int]int) domain.ExtractionResult {
	pseudonyms := make([]int, 0, len(bySender))
	for id := range bySender {
		pseudonyms = append(pseudonyms, id)
	}
	sort.Ints(pseudonyms)

	rows := make([][]any, 0, len(pseudonyms))
	for _, id := range pseudonyms {
		rows = append(rows, []any{id, bySender[id]})
	}
	return domain.ExtractionResult{
		ID:          "contacts",
		Title:       domain.Text{"en": "Messages per contact", "nl": "Berichten per contact"},
		Description: domain.Text{"en": "Message counts per anonymized contact. Contact 1 is you.", "nl": "Aantal berichten per geanonimiseerd contact. Contact 1 bent u."},
		Table:       domain.DataTable{Columns: []string{"contact", "messages"}, Rows: rows},
	}
}
