package ports

import (
	"context"
	"io"

	"github.com/satchelhq/satchel/pkg/domain"
)

// File is the random-access view a platform extractor gets of the
// participant's upload. Reads are serviced lazily from the host's file
// capability; no whole-file copy is made.
type File interface {
	io.Reader
	io.Seeker
	io.ReaderAt
	io.Closer

	// Name returns the file name as presented by the host.
	Name() string
	// Size returns the total size in bytes.
	Size() int64
}

// ProgressFunc reports extraction progress back into the running
// session, where it surfaces as a progress render. Percentage is in
// [0, 100].
type ProgressFunc func(message string, percentage float64)

// Extractor turns a raw export file into reviewable tables. It runs
// inside the session, between protocol steps; the context is cancelled
// when the session is abandoned.
//
// Recoverable failures are returned as Outcome variants, never as
// errors or panics.
type Extractor interface {
	// Platform names the export source, e.g. "TikTok".
	Platform() string
	// Extract reads the file and classifies the result.
	Extract(ctx context.Context, f File, progress ProgressFunc) domain.Outcome
}
