package domain

import "encoding/json"

// DataTable is plain tabular data: named columns and row-major values.
type DataTable struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Empty reports whether the table holds no rows.
func (t DataTable) Empty() bool {
	return len(t.Rows) == 0
}

// JSON renders the table as a compact JSON string, the shape consent
// form tables carry over the wire.
func (t DataTable) JSON() string {
	raw, err := json.Marshal(t)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

// ExtractionResult is one named, titled, described table produced by a
// platform extractor and shown on the consent form. Immutable once
// produced.
type ExtractionResult struct {
	ID          string          `json:"id"`
	Title       Text            `json:"title"`
	Description Text            `json:"description"`
	Table       DataTable       `json:"table"`
	Headers     map[string]Text `json:"headers,omitempty"` // per-column label overrides
}

// Empty reports whether the result carries no rows.
func (r ExtractionResult) Empty() bool {
	return r.Table.Empty()
}

// ConsentTable converts the result into its consent form prop.
func (r ExtractionResult) ConsentTable() ConsentFormTable {
	return ConsentFormTable{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Table:       r.Table,
		Headers:     r.Headers,
	}
}
