package ziplist

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satchelhq/satchel/pkg/domain"
)

type memFile struct {
	*bytes.Reader
	name string
	size int64
}

func newMemFile(name string, data []byte) *memFile {
	return &memFile{Reader: bytes.NewReader(data), name: name, size: int64(len(data))}
}

func (f *memFile) Name() string { return f.name }
func (f *memFile) Size() int64  { return f.size }
func (f *memFile) Close() error { return nil }

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, body := range entries {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestExtractListsEntries(t *testing.T) {
	data := buildZip(t, map[string]string{
		"a.txt":       "hello",
		"dir/b.json":  `{"k":"v"}`,
		"dir/c.empty": "",
	})

	var reports int
	out := New().Extract(context.Background(), newMemFile("export.zip", data), func(string, float64) {
		reports++
	})

	require.Equal(t, domain.OutcomeSuccess, out.Kind)
	require.Len(t, out.Results, 1)
	table := out.Results[0].Table
	assert.Equal(t, []string{"filename", "compressed_size", "uncompressed_size"}, table.Columns)
	assert.Len(t, table.Rows, 3)
	assert.Equal(t, 3, reports)

	names := make([]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		names = append(names, row[0].(string))
	}
	assert.Contains(t, names, "a.txt")
	assert.Contains(t, names, "dir/b.json")
}

func TestExtractRejectsNonZip(t *testing.T) {
	out := New().Extract(context.Background(), newMemFile("notes.txt", []byte("plain text")), func(string, float64) {})
	assert.Equal(t, domain.OutcomeInvalid, out.Kind)
	assert.False(t, out.Usable())
}

func TestExtractEmptyArchive(t *testing.T) {
	data := buildZip(t, nil)
	out := New().Extract(context.Background(), newMemFile("export.zip", data), func(string, float64) {})
	assert.Equal(t, domain.OutcomeEmpty, out.Kind)
}
