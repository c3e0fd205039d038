package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func table(rows ...[]any) DataTable {
	return DataTable{Columns: []string{"a"}, Rows: rows}
}

func TestSuccessDowngradesWhenAllTablesEmpty(t *testing.T) {
	o := Success(
		ExtractionResult{ID: "one", Table: table()},
		ExtractionResult{ID: "two", Table: table()},
	)
	assert.Equal(t, OutcomeEmpty, o.Kind)
	assert.False(t, o.Usable())
	assert.Len(t, o.Results, 2, "empty tables are kept for diagnostics")
}

func TestSuccessWithMixedTablesIsUsable(t *testing.T) {
	o := Success(
		ExtractionResult{ID: "empty", Table: table()},
		ExtractionResult{ID: "full", Table: table([]any{1})},
	)
	assert.Equal(t, OutcomeSuccess, o.Kind)
	assert.True(t, o.Usable())
}

func TestFailureOutcomesAreNeverUsable(t *testing.T) {
	assert.False(t, EmptyData().Usable())
	assert.False(t, Invalid("not a zip").Usable())
	assert.False(t, Malformed("truncated json").Usable())
	assert.Equal(t, "not a zip", Invalid("not a zip").Reason)
}
