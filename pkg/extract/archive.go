package extract

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/satchelhq/satchel/pkg/ports"
)

// ErrNotArchive marks a file whose contents are not a zip archive.
// Extractors use it to tell "wrong file picked" apart from genuine
// read failures.
var ErrNotArchive = errors.New("extract: file is not a zip archive")

// OpenArchive opens f as a zip archive without materializing it.
// Reads go straight through the file's random-access interface, so
// only the central directory and the entries actually opened are
// transferred from the host.
func OpenArchive(f ports.File) (*zip.Reader, error) {
	r, err := zip.NewReader(f, f.Size())
	if err != nil {
		if errors.Is(err, zip.ErrFormat) {
			return nil, fmt.Errorf("%w: %s", ErrNotArchive, f.Name())
		}
		return nil, fmt.Errorf("extract: open archive %s: %w", f.Name(), err)
	}
	return r, nil
}

// FindEntry returns the first archive entry whose name matches
// pattern. Pattern segments may contain '*', which matches any run of
// characters including '/'. Exports nest their payload under
// locale-dependent folder names, so matching must cross separators.
func FindEntry(r *zip.Reader, pattern string) (*zip.File, bool) {
	for _, f := range r.File {
		if MatchEntry(pattern, f.Name) {
			return f, true
		}
	}
	return nil, false
}

// MatchEntry reports whether name matches pattern, where each '*'
// matches any run of characters including path separators.
func MatchEntry(pattern, name string) bool {
	parts := strings.Split(pattern, "*")
	if len(parts) == 1 {
		return pattern == name
	}
	if !strings.HasPrefix(name, parts[0]) {
		return false
	}
	name = name[len(parts[0]):]
	for _, part := range parts[1 : len(parts)-1] {
		idx := strings.Index(name, part)
		if idx < 0 {
			return false
		}
		name = name[idx+len(part):]
	}
	return strings.HasSuffix(name, parts[len(parts)-1])
}

// ReadJSON decodes the first entry matching pattern as JSON with all
// keys lower-cased. A missing entry reports ok=false without error so
// callers can treat optional files as absent data.
func ReadJSON(r *zip.Reader, pattern string) (any, bool, error) {
	entry, found := FindEntry(r, pattern)
	if !found {
		return nil, false, nil
	}
	rc, err := entry.Open()
	if err != nil {
		return nil, false, fmt.Errorf("extract: open %s: %w", entry.Name, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, false, fmt.Errorf("extract: read %s: %w", entry.Name, err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false, fmt.Errorf("extract: decode %s: %w", entry.Name, err)
	}
	return NormalizeKeys(v), true, nil
}
