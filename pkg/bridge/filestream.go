package bridge

import (
	"fmt"
	"io"

	"github.com/satchelhq/satchel/pkg/domain"
)

// maxChunk bounds a single ReadSlice against the host capability, so
// large archives are pulled across the boundary piecemeal.
const maxChunk int64 = 1 << 20

// FileStream wraps the host's opaque file capability in a seekable
// byte stream. Reads are serviced lazily, in bounded chunks; no
// whole-file copy is made up front. It satisfies ports.File.
type FileStream struct {
	ref    domain.FileRef
	pos    int64
	size   int64
	closed bool
}

// NewFileStream wraps a host file capability.
func NewFileStream(ref domain.FileRef) *FileStream {
	return &FileStream{ref: ref, size: ref.Size()}
}

// Name returns the file name as presented by the host.
func (f *FileStream) Name() string { return f.ref.Name() }

// Size returns the total size in bytes.
func (f *FileStream) Size() int64 { return f.size }

// Read implements io.Reader.
func (f *FileStream) Read(p []byte) (int, error) {
	if f.closed {
		return 0, domain.ErrClosedStream
	}
	if f.pos >= f.size {
		return 0, io.EOF
	}
	want := int64(len(p))
	if want > maxChunk {
		want = maxChunk
	}
	if rest := f.size - f.pos; want > rest {
		want = rest
	}
	data, err := f.ref.ReadSlice(f.pos, want)
	n := copy(p, data)
	f.pos += int64(n)
	if err != nil {
		return n, fmt.Errorf("read slice at %d: %w", f.pos-int64(n), err)
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// ReadAt implements io.ReaderAt without moving the stream position,
// which is what archive readers need for random access.
func (f *FileStream) ReadAt(p []byte, off int64) (int, error) {
	if f.closed {
		return 0, domain.ErrClosedStream
	}
	if off < 0 {
		return 0, fmt.Errorf("negative offset %d", off)
	}
	total := 0
	for total < len(p) && off < f.size {
		want := int64(len(p) - total)
		if want > maxChunk {
			want = maxChunk
		}
		if rest := f.size - off; want > rest {
			want = rest
		}
		data, err := f.ref.ReadSlice(off, want)
		n := copy(p[total:], data)
		total += n
		off += int64(n)
		if err != nil {
			return total, fmt.Errorf("read slice at %d: %w", off-int64(n), err)
		}
		if n == 0 {
			break
		}
	}
	if total < len(p) {
		return total, io.EOF
	}
	return total, nil
}

// Seek implements io.Seeker. The resulting position is clamped to
// [0, size].
func (f *FileStream) Seek(offset int64, whence int) (int64, error) {
	if f.closed {
		return 0, domain.ErrClosedStream
	}
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = f.pos + offset
	case io.SeekEnd:
		pos = f.size + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if pos < 0 {
		pos = 0
	}
	if pos > f.size {
		pos = f.size
	}
	f.pos = pos
	return pos, nil
}

// Close releases the stream and, when the host capability holds a
// resource of its own, closes it too. Further reads and seeks fail.
func (f *FileStream) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if c, ok := f.ref.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
