package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderUIRoundTrip(t *testing.T) {
	cmd := RenderUI{Page: Page{
		Platform: "Chat",
		Header:   Header{Title: NewText("Your chat data")},
		Body: []Prop{
			FileInput{Description: NewText("Pick your export"), Extensions: "application/zip"},
			Confirm{Text: NewText("Try again?"), OK: NewText("Yes"), Cancel: NewText("No")},
			ConsentFormTable{
				ID:    "messages",
				Title: NewText("Messages"),
				Table: DataTable{Columns: []string{"day", "count"}, Rows: [][]any{{"2024-01-01", float64(3)}}},
			},
			DonateButtons{Question: NewText("Donate?"), Button: NewText("Yes, donate")},
		},
		Footer: &Footer{Progress: 75},
	}}

	raw, err := json.Marshal(cmd)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"__type__":"CommandUIRender"`)
	assert.Contains(t, string(raw), `"__type__":"PropsUIPageDataSubmission"`)

	back, err := UnmarshalCommand(raw)
	require.NoError(t, err)
	render, ok := back.(RenderUI)
	require.True(t, ok)
	page, ok := render.Page.(Page)
	require.True(t, ok)

	assert.Equal(t, "Chat", page.Platform)
	require.Len(t, page.Body, 4)
	input, ok := page.Body[0].(FileInput)
	require.True(t, ok)
	assert.Equal(t, "application/zip", input.Extensions)
	consent, ok := page.Body[2].(ConsentFormTable)
	require.True(t, ok)
	assert.Equal(t, [][]any{{"2024-01-01", float64(3)}}, consent.Table.Rows)
	require.NotNil(t, page.Footer)
	assert.Equal(t, 75.0, page.Footer.Progress)
}

func TestRenderUICarriesEndPage(t *testing.T) {
	raw, err := json.Marshal(RenderUI{Page: EndPage{}})
	require.NoError(t, err)

	back, err := UnmarshalCommand(raw)
	require.NoError(t, err)
	render, ok := back.(RenderUI)
	require.True(t, ok)
	assert.IsType(t, EndPage{}, render.Page)
}

func TestSystemCommandsRoundTrip(t *testing.T) {
	for _, cmd := range []Command{
		SystemDonate{Key: "s1-Chat", JSON: `{"tables":[]}`},
		SystemLog{Level: LevelWarn, Message: "slow extraction"},
		SystemExit{Code: 1, Message: "flow error"},
	} {
		raw, err := json.Marshal(cmd)
		require.NoError(t, err)
		back, err := UnmarshalCommand(raw)
		require.NoError(t, err)
		assert.Equal(t, cmd, back)
	}
}

func TestUnmarshalCommandRejectsUnknownType(t *testing.T) {
	_, err := UnmarshalCommand([]byte(`{"__type__":"CommandTeleport"}`))
	assert.ErrorContains(t, err, "unknown command type")

	_, err = UnmarshalCommand([]byte(`not json`))
	assert.Error(t, err)
}

func TestPayloadRoundTrip(t *testing.T) {
	for _, p := range []Payload{
		StringPayload{Value: "hello"},
		JSONPayload{Value: `{"ok":true}`},
		TruePayload{},
		FalsePayload{},
		VoidPayload{},
	} {
		raw, err := json.Marshal(p)
		require.NoError(t, err)
		back, err := UnmarshalPayload(raw)
		require.NoError(t, err)
		assert.Equal(t, p, back)
	}
}

func TestFilePayloadIsHostLocal(t *testing.T) {
	raw, err := json.Marshal(FilePayload{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"__type__":"PayloadFile","name":"","size":0}`, string(raw))

	// The capability cannot be rebuilt from the wire form.
	_, err = UnmarshalPayload(raw)
	assert.ErrorContains(t, err, "host-local")
}

func TestUnmarshalPayloadRejectsUnknownType(t *testing.T) {
	_, err := UnmarshalPayload([]byte(`{"__type__":"PayloadShrug"}`))
	assert.ErrorContains(t, err, "unknown payload type")
}

func TestOptionalTextSerializesAsNull(t *testing.T) {
	raw, err := json.Marshal(DonateButtons{Waiting: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"__type__":"PropsUIDataSubmissionButtons","donateQuestion":null,"donateButton":null,"waiting":true}`, string(raw))
}

func TestUnmarshalPropRejectsUnknownType(t *testing.T) {
	var page Page
	err := json.Unmarshal([]byte(`{"__type__":"PropsUIPageDataSubmission","platform":"x","header":{"title":{"translations":{"en":"t"}}},"body":[{"__type__":"PropsUIHologram"}]}`), &page)
	assert.ErrorContains(t, err, "unknown prop type")
}
