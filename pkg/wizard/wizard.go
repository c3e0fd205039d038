package wizard

import (
	"encoding/json"
	"fmt"

	"github.com/samber/lo"

	"github.com/satchelhq/satchel/pkg/bridge"
	"github.com/satchelhq/satchel/pkg/domain"
	"github.com/satchelhq/satchel/pkg/ports"
)

// Footer milestones. The file prompt and the consent review are the two
// places the participant can linger, so they anchor the progress bar.
const (
	progressSelect  = 25
	progressExtract = 50
	progressConsent = 75
)

const defaultExtensions = "application/zip"

// Wizard drives one platform's donation flow. The zero value is not
// usable; construct with New.
type Wizard struct {
	extractor  ports.Extractor
	extensions string
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithExtensions overrides the mime types accepted by the file prompt.
func WithExtensions(ext string) Option {
	return func(w *Wizard) { w.extensions = ext }
}

// New builds a wizard around a platform extractor.
func New(e ports.Extractor, opts ...Option) *Wizard {
	w := &Wizard{extractor: e, extensions: defaultExtensions}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Flow returns the donation flow to run behind a session adapter.
func (w *Wizard) Flow() bridge.Flow {
	return w.run
}

// run loops select-extract-retry until the extraction is usable, the
// participant skips, or they give up. Every path ends in exactly one
// exit, and every non-skip path donates exactly once.
func (w *Wizard) run(h *bridge.Handle) error {
	platform := w.extractor.Platform()
	log := h.Logger()
	log.Info("donation flow started", "platform", platform)

	for {
		file, picked, err := h.PromptFile(w.selectFilePage())
		if err != nil {
			return err
		}
		if !picked {
			log.Info("file selection skipped", "platform", platform)
			return w.finish(h, "file selection skipped")
		}

		outcome := w.extract(h, file)
		_ = file.Close()

		if outcome.Usable() {
			log.Info("extraction succeeded",
				"platform", platform,
				"file", file.Name(),
				"tables", len(outcome.Results))
			return w.review(h, outcome.Results)
		}

		log.Warn("extraction yielded no usable data",
			"platform", platform,
			"file", file.Name(),
			"kind", string(outcome.Kind),
			"reason", outcome.Reason)

		again, err := w.askRetry(h, outcome.Kind)
		if err != nil {
			return err
		}
		if !again {
			log.Info("participant gave up", "platform", platform)
			if err := h.Donate(platform, map[string]string{"status": "no-data"}); err != nil {
				return err
			}
			return w.finish(h, "no usable data")
		}
	}
}

// extract runs the platform extractor inside the session, surfacing its
// progress as renders. A panicking extractor is contained here: the
// panic is logged and downgraded to an invalid-input outcome so the
// participant gets the retry prompt instead of a dead session.
func (w *Wizard) extract(h *bridge.Handle, f ports.File) (out domain.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			h.Logger().Error("extractor panicked",
				"platform", w.extractor.Platform(),
				"panic", fmt.Sprint(r))
			out = domain.Invalid(fmt.Sprintf("extractor panic: %v", r))
		}
	}()
	progress := func(message string, percentage float64) {
		_ = h.Show(w.progressPage(message, percentage))
	}
	return w.extractor.Extract(h.Context(), f, progress)
}

// askRetry reports whether the participant wants to pick another file.
// An affirmative answer means try again; anything else means give up.
func (w *Wizard) askRetry(h *bridge.Handle, kind domain.OutcomeKind) (bool, error) {
	p, err := h.Prompt(w.retryPage(kind))
	if err != nil {
		return false, err
	}
	_, again := p.(domain.TruePayload)
	return again, nil
}

// review renders the consent form until the participant donates or
// declines. An affirmative answer re-renders the page for another look;
// the loop can only end by donating, declining, or session abandonment.
func (w *Wizard) review(h *bridge.Handle, results []domain.ExtractionResult) error {
	platform := w.extractor.Platform()
	for {
		p, err := h.Prompt(w.consentPage(results, h.Meta()))
		if err != nil {
			return err
		}
		switch answer := p.(type) {
		case domain.JSONPayload:
			if err := h.Donate(platform, mergeMeta(answer.Value, h.Meta())); err != nil {
				return err
			}
			h.Logger().Info("donation received", "platform", platform)
			return w.finish(h, "donation received")
		case domain.FalsePayload:
			if err := h.Donate(platform, map[string]string{"status": "donation declined"}); err != nil {
				return err
			}
			h.Logger().Info("donation declined", "platform", platform)
			return w.finish(h, "donation declined")
		case domain.TruePayload:
			// Review again.
		default:
			h.Logger().Warn("unexpected consent answer", "type", p.PayloadType())
		}
	}
}

// finish shows the closing page and exits cleanly.
func (w *Wizard) finish(h *bridge.Handle, message string) error {
	if err := h.ShowEnd(); err != nil {
		return err
	}
	return h.Exit(0, message)
}

func (w *Wizard) page(progress float64, body ...domain.Prop) domain.Page {
	platform := w.extractor.Platform()
	return domain.Page{
		Platform: platform,
		Header:   domain.Header{Title: domain.NewText(platform)},
		Body:     body,
		Footer:   &domain.Footer{Progress: progress},
	}
}

func (w *Wizard) selectFilePage() domain.Page {
	return w.page(progressSelect, domain.FileInput{
		Description: selectFileText(w.extractor.Platform()),
		Extensions:  w.extensions,
	})
}

func (w *Wizard) progressPage(message string, percentage float64) domain.Page {
	return w.page(progressExtract, domain.Progress{
		Description: extractingText(w.extractor.Platform()),
		Message:     message,
		Percentage:  percentage,
	})
}

func (w *Wizard) retryPage(kind domain.OutcomeKind) domain.Page {
	return w.page(progressSelect, domain.Confirm{
		Text:   retryText(w.extractor.Platform(), kind),
		OK:     retryOKText,
		Cancel: retryCancelText,
	})
}

// consentPage renders every extracted table, including empty ones, plus
// the session log, followed by the donate controls.
func (w *Wizard) consentPage(results []domain.ExtractionResult, meta []domain.MetaEntry) domain.Page {
	body := []domain.Prop{
		domain.TextBlock{Title: consentTitleText, Text: consentIntroText},
	}
	for _, r := range results {
		body = append(body, r.ConsentTable())
	}
	body = append(body,
		logTable(meta),
		domain.DonateButtons{Question: donateQuestionText, Button: donateButtonText},
	)
	return w.page(progressConsent, body...)
}

// logTable exposes the session log on the consent form so participants
// see the same diagnostics that ride along with their donation.
func logTable(meta []domain.MetaEntry) domain.ConsentFormTable {
	rows := lo.Map(meta, func(e domain.MetaEntry, _ int) []any {
		return []any{string(e.Level), e.Message}
	})
	return domain.ConsentFormTable{
		ID:          "session_log",
		Title:       logTableTitleText,
		Description: logTableDescriptionText,
		Table:       domain.DataTable{Columns: []string{"level", "message"}, Rows: rows},
	}
}

// mergeMeta attaches the ordered session log to the consented payload.
// An object payload gains a "meta" field; any other JSON shape is
// wrapped so the log can still ride along.
func mergeMeta(value string, meta []domain.MetaEntry) any {
	entries := lo.Map(meta, func(e domain.MetaEntry, _ int) map[string]string {
		return map[string]string{"level": string(e.Level), "message": e.Message}
	})
	var obj map[string]any
	if err := json.Unmarshal([]byte(value), &obj); err == nil && obj != nil {
		obj["meta"] = entries
		return obj
	}
	return map[string]any{"consent": json.RawMessage(value), "meta": entries}
}
