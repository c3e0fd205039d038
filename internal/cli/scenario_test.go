package cli

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satchelhq/satchel"
	"github.com/satchelhq/satchel/pkg/bridge"
	"github.com/satchelhq/satchel/pkg/engine"
)

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func writeZip(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, err := w.Create("a.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("hi"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "export.zip")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeScenario(t, `
platform: zip
locale: en
answers:
  - prompt: file
    path: export.zip
  - prompt: consent
    action: donate
expect:
  exit_code: 0
  donations: 1
`)
	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "zip", sc.Platform)
	require.Len(t, sc.Answers, 2)
	assert.Equal(t, "export.zip", sc.Answers[0].Path)
	assert.Equal(t, "donate", sc.Answers[1].Action)
	require.NotNil(t, sc.Expect.ExitCode)
	assert.Equal(t, 0, *sc.Expect.ExitCode)
}

func TestLoadScenarioRejectsBadInput(t *testing.T) {
	_, err := LoadScenario(writeScenario(t, `answers: []`))
	assert.ErrorContains(t, err, "platform is required")

	_, err = LoadScenario(writeScenario(t, "platform: zip\nanswers:\n  - prompt: dance\n"))
	assert.ErrorContains(t, err, "unknown prompt")

	_, err = LoadScenario(writeScenario(t, "platform: zip\nanswers:\n  - prompt: file\n    pth: oops\n"))
	assert.ErrorContains(t, err, "answer 1")
}

func TestScenarioDrivesFullSession(t *testing.T) {
	zipPath := writeZip(t)
	path := writeScenario(t, `
platform: zip
answers:
  - prompt: file
    path: `+zipPath+`
  - prompt: consent
    action: donate
expect:
  exit_code: 0
  donations: 1
`)
	sc, err := LoadScenario(path)
	require.NoError(t, err)

	var out bytes.Buffer
	printer := NewPrinter(&out, sc.Locale, false)
	a := bridge.Start(engine.Config{SessionID: "scripted"}, satchel.Flows()[sc.Platform])

	res, err := satchel.Run(context.Background(), a, sc.Host(printer))
	require.NoError(t, err)
	require.NoError(t, sc.Check(res))

	assert.Contains(t, out.String(), "Archive contents")
	assert.Contains(t, out.String(), "session finished")
}

func TestScenarioDeclineAndExpectMismatch(t *testing.T) {
	zipPath := writeZip(t)
	path := writeScenario(t, `
platform: zip
answers:
  - prompt: file
    path: `+zipPath+`
  - prompt: consent
    action: decline
expect:
  donations: 0
`)
	sc, err := LoadScenario(path)
	require.NoError(t, err)

	var out bytes.Buffer
	a := bridge.Start(engine.Config{SessionID: "declined"}, satchel.Flows()[sc.Platform])
	res, err := satchel.Run(context.Background(), a, sc.Host(NewPrinter(&out, "", false)))
	require.NoError(t, err)

	// Declining still submits the decline marker, so the expectation
	// of zero donations fails.
	assert.ErrorContains(t, sc.Check(res), "expected 0 donations")
}

func TestScenarioAnswerMismatchAbandons(t *testing.T) {
	path := writeScenario(t, `
platform: zip
answers:
  - prompt: confirm
    again: true
`)
	sc, err := LoadScenario(path)
	require.NoError(t, err)

	var out bytes.Buffer
	a := bridge.Start(engine.Config{SessionID: "mismatch"}, satchel.Flows()[sc.Platform])
	_, err = satchel.Run(context.Background(), a, sc.Host(NewPrinter(&out, "", false)))
	assert.ErrorContains(t, err, `answer 1 is for "confirm"`)
	assert.True(t, a.Terminated())
}
