package bridge_test

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satchelhq/satchel/pkg/bridge"
	"github.com/satchelhq/satchel/pkg/domain"
)

// memRef is a host file capability backed by a byte slice. It records
// the slices requested, so tests can assert reads stay lazy and bounded.
type memRef struct {
	name  string
	data  []byte
	calls []int64 // lengths requested
}

func newMemRef(name string, data []byte) *memRef {
	return &memRef{name: name, data: data}
}

func (m *memRef) Name() string { return m.name }
func (m *memRef) Size() int64  { return int64(len(m.data)) }

func (m *memRef) ReadSlice(offset, length int64) ([]byte, error) {
	if offset < 0 || offset > int64(len(m.data)) {
		return nil, fmt.Errorf("offset %d out of range", offset)
	}
	m.calls = append(m.calls, length)
	end := offset + length
	if end > int64(len(m.data)) {
		end = int64(len(m.data))
	}
	return m.data[offset:end], nil
}

var _ domain.FileRef = (*memRef)(nil)

func TestFileStream_ReadAndSeek(t *testing.T) {
	ref := newMemRef("f", []byte("abcdefghij"))
	s := bridge.NewFileStream(ref)

	buf := make([]byte, 4)
	n, err := s.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(buf[:n]))

	pos, err := s.Seek(2, io.SeekCurrent)
	require.NoError(t, err)
	assert.EqualValues(t, 8, pos)

	n, err = s.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "ij", string(buf[:n]))

	_, err = s.Read(buf)
	assert.ErrorIs(t, err, io.EOF)
}

func TestFileStream_SeekClampsToBounds(t *testing.T) {
	s := bridge.NewFileStream(newMemRef("f", []byte("abc")))

	pos, err := s.Seek(-10, io.SeekStart)
	require.NoError(t, err)
	assert.EqualValues(t, 0, pos)

	pos, err = s.Seek(100, io.SeekStart)
	require.NoError(t, err)
	assert.EqualValues(t, 3, pos)

	pos, err = s.Seek(-1, io.SeekEnd)
	require.NoError(t, err)
	assert.EqualValues(t, 2, pos)

	_, err = s.Seek(0, 42)
	assert.Error(t, err)
}

func TestFileStream_ReadAt(t *testing.T) {
	s := bridge.NewFileStream(newMemRef("f", []byte("abcdefghij")))

	buf := make([]byte, 3)
	n, err := s.ReadAt(buf, 5)
	require.NoError(t, err)
	assert.Equal(t, "fgh", string(buf[:n]))

	// Position is untouched by ReadAt.
	head := make([]byte, 2)
	_, err = s.Read(head)
	require.NoError(t, err)
	assert.Equal(t, "ab", string(head))

	// Short read at the tail reports EOF.
	n, err = s.ReadAt(buf, 8)
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, err, io.EOF)

	_, err = s.ReadAt(buf, -1)
	assert.Error(t, err)
}

func TestFileStream_ClosedStreamErrors(t *testing.T) {
	s := bridge.NewFileStream(newMemRef("f", []byte("abc")))
	require.NoError(t, s.Close())

	_, err := s.Read(make([]byte, 1))
	assert.ErrorIs(t, err, domain.ErrClosedStream)
	_, err = s.ReadAt(make([]byte, 1), 0)
	assert.ErrorIs(t, err, domain.ErrClosedStream)
	_, err = s.Seek(0, io.SeekStart)
	assert.ErrorIs(t, err, domain.ErrClosedStream)
}

// closableRef wraps memRef with a resource-holding Close, like the CLI
// capability backed by an open file.
type closableRef struct {
	*memRef
	closes int
}

func (c *closableRef) Close() error {
	c.closes++
	return nil
}

func TestFileStream_CloseReleasesCapability(t *testing.T) {
	ref := &closableRef{memRef: newMemRef("f", []byte("abc"))}
	s := bridge.NewFileStream(ref)

	require.NoError(t, s.Close())
	assert.Equal(t, 1, ref.closes)

	// Idempotent: the capability is closed once.
	require.NoError(t, s.Close())
	assert.Equal(t, 1, ref.closes)
}

func TestFileStream_ReadsAreBounded(t *testing.T) {
	data := make([]byte, 3<<20)
	ref := newMemRef("big", data)
	s := bridge.NewFileStream(ref)

	buf := make([]byte, len(data))
	total := 0
	for total < len(data) {
		n, err := s.Read(buf[total:])
		require.NoError(t, err)
		total += n
	}
	assert.Equal(t, len(data), total)
	for _, length := range ref.calls {
		assert.LessOrEqual(t, length, int64(1<<20))
	}
	assert.GreaterOrEqual(t, len(ref.calls), 3)
}
