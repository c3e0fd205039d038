package middleware

import (
	"context"
	"encoding/json"
	"regexp"

	"github.com/satchelhq/satchel/pkg/ports"
)

const mask = "***"

type redactStore struct {
	next     ports.DonationStore
	patterns []*regexp.Regexp
}

// NewRedaction creates a middleware that masks values of JSON keys
// matching the patterns before a donation is stored. Matching recurses
// through nested objects and arrays; non-object payloads pass through
// unchanged.
func NewRedaction(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.DonationStore) ports.DonationStore {
		return &redactStore{next: next, patterns: patterns}
	}
}

func (s *redactStore) Save(ctx context.Context, d ports.Donation) error {
	var tree map[string]any
	if err := json.Unmarshal([]byte(d.JSON), &tree); err == nil {
		maskTree(tree, s.patterns)
		if masked, err := json.Marshal(tree); err == nil {
			d.JSON = string(masked)
		}
	}
	return s.next.Save(ctx, d)
}

func (s *redactStore) Load(ctx context.Context, key string) (ports.Donation, error) {
	return s.next.Load(ctx, key)
}

func (s *redactStore) Delete(ctx context.Context, key string) error {
	return s.next.Delete(ctx, key)
}

func (s *redactStore) List(ctx context.Context) ([]string, error) {
	return s.next.List(ctx)
}

func maskTree(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		matched := false
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = mask
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		maskValue(v, patterns)
	}
}

func maskValue(v any, patterns []*regexp.Regexp) {
	switch node := v.(type) {
	case map[string]any:
		maskTree(node, patterns)
	case []any:
		for _, item := range node {
			maskValue(item, patterns)
		}
	}
}
