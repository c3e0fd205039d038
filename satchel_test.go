package satchel_test

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satchelhq/satchel"
	"github.com/satchelhq/satchel/pkg/bridge"
	"github.com/satchelhq/satchel/pkg/domain"
	"github.com/satchelhq/satchel/pkg/engine"
)

type memRef struct {
	name string
	data []byte
}

func (m memRef) Name() string { return m.name }
func (m memRef) Size() int64  { return int64(len(m.data)) }

func (m memRef) ReadSlice(offset, length int64) ([]byte, error) {
	end := offset + length
	if end > int64(len(m.data)) {
		end = int64(len(m.data))
	}
	return m.data[offset:end], nil
}

func smallZip(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, err := w.Create("readme.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestRunDrivesBuiltinZipFlow(t *testing.T) {
	flows := satchel.Flows()
	require.Contains(t, flows, "zip")
	require.Contains(t, flows, "chat")

	a := bridge.Start(engine.Config{SessionID: "s1"}, flows["zip"])

	host := func(_ context.Context, cmd domain.RenderUI) (domain.Payload, error) {
		page, ok := cmd.Page.(domain.Page)
		if !ok {
			return domain.VoidPayload{}, nil
		}
		for _, prop := range page.Body {
			switch prop.(type) {
			case domain.FileInput:
				return domain.FilePayload{File: memRef{name: "export.zip", data: smallZip(t)}}, nil
			case domain.DonateButtons:
				return domain.JSONPayload{Value: `{"entries":1}`}, nil
			}
		}
		return domain.VoidPayload{}, nil
	}

	res, err := satchel.Run(context.Background(), a, host)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Exit.Code)
	require.Len(t, res.Donations, 1)
	assert.Equal(t, "s1-Zip", res.Donations[0].Key)
	assert.NotEmpty(t, res.Logs)
}

func TestRunHostErrorAbandonsSession(t *testing.T) {
	a := bridge.Start(engine.Config{SessionID: "s2"}, satchel.Flows()["zip"])

	_, err := satchel.Run(context.Background(), a, func(context.Context, domain.RenderUI) (domain.Payload, error) {
		return nil, context.Canceled
	})
	require.Error(t, err)
	assert.True(t, a.Terminated())
}
