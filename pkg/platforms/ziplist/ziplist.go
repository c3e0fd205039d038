// Package ziplist is the demonstration extractor: it lists the entries
// of any zip archive as a single table. Useful for wiring tests and as
// a template for real platform extractors.
package ziplist

import (
	"context"
	"errors"

	"github.com/satchelhq/satchel/pkg/domain"
	"github.com/satchelhq/satchel/pkg/extract"
	"github.com/satchelhq/satchel/pkg/ports"
)

// Extractor lists archive contents.
type Extractor struct{}

// New returns the zip-contents extractor.
func New() Extractor { return Extractor{} }

// Platform names the export source.
func (Extractor) Platform() string { return "Zip" }

// Extract reads the archive's central directory and tabulates every
// entry. A non-zip file is an invalid input, not an error.
func (Extractor) Extract(ctx context.Context, f ports.File, progress ports.ProgressFunc) domain.Outcome {
	r, err := extract.OpenArchive(f)
	if err != nil {
		if errors.Is(err, extract.ErrNotArchive) {
			return domain.Invalid(err.Error())
		}
		return domain.Malformed(err.Error())
	}

	total := len(r.File)
	if total == 0 {
		return domain.EmptyData()
	}

	rows := make([][]any, 0, total)
	for i, entry := range r.File {
		if ctx.Err() != nil {
			return domain.Invalid("extraction cancelled")
		}
		rows = append(rows, []any{
			entry.Name,
			int64(entry.CompressedSize64),
			int64(entry.UncompressedSize64),
		})
		progress("listing entries", float64(i+1)/float64(total)*100)
	}

	return domain.Success(domain.ExtractionResult{
		ID:          "zip_contents",
		Title:       domain.Text{"en": "Archive contents", "nl": "Archiefinhoud"},
		Description: domain.Text{"en": "The files inside the archive you selected.", "nl": "De bestanden in het archief dat u heeft geselecteerd."},
		Table: domain.DataTable{
			Columns: []string{"filename", "compressed_size", "uncompressed_size"},
			Rows:    rows,
		},
	})
}
