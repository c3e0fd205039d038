package domain

import (
	"encoding/json"
	"sort"
)

// DefaultLocale is the fallback used when a requested locale has no entry.
const DefaultLocale = "en"

// Text is a translatable string: a mapping from locale code to copy.
type Text map[string]string

// NewText wraps a single-locale string in the default locale.
func NewText(s string) Text {
	return Text{DefaultLocale: s}
}

// Resolve returns the translation for the given locale, falling back to
// the default locale and finally to the lexicographically smallest entry,
// so the result is deterministic for any non-empty Text.
func (t Text) Resolve(locale string) string {
	if s, ok := t[locale]; ok {
		return s
	}
	if s, ok := t[DefaultLocale]; ok {
		return s
	}
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	return t[keys[0]]
}

// MarshalJSON serializes the text in the host wire shape:
// {"translations": {"en": "...", ...}}.
func (t Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Translations map[string]string `json:"translations"`
	}{Translations: map[string]string(t)})
}

// UnmarshalJSON accepts the wire shape produced by MarshalJSON.
func (t *Text) UnmarshalJSON(data []byte) error {
	var raw struct {
		Translations map[string]string `json:"translations"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Text(raw.Translations)
	return nil
}
