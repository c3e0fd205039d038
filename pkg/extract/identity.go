package extract

// IdentityMap allocates small positive integer pseudonyms for string
// identities in first-seen order. The owning participant can be
// pre-registered so they always receive 1 regardless of where they
// first appear in the data. Assignments are never reused or changed.
type IdentityMap struct {
	ids   map[string]int
	order []string
}

// NewIdentityMap creates a map, pre-registering owner when non-empty.
func NewIdentityMap(owner string) *IdentityMap {
	m := &IdentityMap{ids: make(map[string]int)}
	if owner != "" {
		m.IDFor(owner)
	}
	return m
}

// IDFor returns the pseudonym for key, allocating the next integer on
// first sight. Idempotent.
func (m *IdentityMap) IDFor(key string) int {
	if id, ok := m.ids[key]; ok {
		return id
	}
	id := len(m.ids) + 1
	m.ids[key] = id
	m.order = append(m.order, key)
	return id
}

// Known reports whether key already has a pseudonym.
func (m *IdentityMap) Known(key string) bool {
	_, ok := m.ids[key]
	return ok
}

// Len returns the number of registered identities.
func (m *IdentityMap) Len() int { return len(m.ids) }

// Keys returns the identities in first-seen order.
func (m *IdentityMap) Keys() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}
