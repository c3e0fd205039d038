package domain

import (
	"encoding/json"
	"fmt"
)

// Prop is one node of the UI tree carried by a RenderUI command. The
// set of props is closed; hosts render them, the core only constructs
// and serializes them.
type Prop interface {
	// PropType returns the wire discriminant of the prop.
	PropType() string
	isProp()
}

// Header is the page header.
type Header struct {
	Title Text
}

// Footer carries the overall progress through the flow.
type Footer struct {
	Progress float64
}

// FileInput prompts the participant to pick a file.
type FileInput struct {
	Description Text
	Extensions  string // accepted mime types, e.g. "application/zip"
}

// Progress reports extraction progress while the flow is busy.
type Progress struct {
	Description Text
	Message     string
	Percentage  float64
}

// Confirm asks a yes/no question, typically "try again" vs "continue".
type Confirm struct {
	Text   Text
	OK     Text
	Cancel Text
}

// TextBlock displays static copy. Title is optional.
type TextBlock struct {
	Title Text
	Text  Text
}

// ConsentFormTable is one reviewable table on the consent form.
type ConsentFormTable struct {
	ID          string
	Title       Text
	Description Text
	Table       DataTable
	Headers     map[string]Text
}

// DonateButtons is the donate/decline control of the consent form.
type DonateButtons struct {
	Question Text
	Button   Text
	Waiting  bool
}

// Page is the tree rendered by a RenderUI command.
type Page struct {
	Platform string
	Header   Header
	Body     []Prop
	Footer   *Footer
}

// EndPage tells the host the participant is done.
type EndPage struct{}

func (Header) PropType() string           { return "PropsUIHeader" }
func (Footer) PropType() string           { return "PropsUIFooter" }
func (FileInput) PropType() string        { return "PropsUIPromptFileInput" }
func (Progress) PropType() string         { return "PropsUIPromptProgress" }
func (Confirm) PropType() string          { return "PropsUIPromptConfirm" }
func (TextBlock) PropType() string        { return "PropsUIPromptText" }
func (ConsentFormTable) PropType() string { return "PropsUIPromptConsentFormTable" }
func (DonateButtons) PropType() string    { return "PropsUIDataSubmissionButtons" }
func (Page) PropType() string             { return "PropsUIPageDataSubmission" }
func (EndPage) PropType() string          { return "PropsUIPageEnd" }

func (Header) isProp()           {}
func (Footer) isProp()           {}
func (FileInput) isProp()        {}
func (Progress) isProp()         {}
func (Confirm) isProp()          {}
func (TextBlock) isProp()        {}
func (ConsentFormTable) isProp() {}
func (DonateButtons) isProp()    {}
func (Page) isProp()             {}
func (EndPage) isProp()          {}

// textOrNull keeps optional Text fields as JSON null instead of an
// empty translations object.
func textOrNull(t Text) any {
	if len(t) == 0 {
		return nil
	}
	return t
}

func (p Header) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"__type__"`
		Title Text   `json:"title"`
	}{p.PropType(), p.Title})
}

func (p Footer) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string  `json:"__type__"`
		Progress float64 `json:"progressPercentage"`
	}{p.PropType(), p.Progress})
}

func (p FileInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type        string `json:"__type__"`
		Description Text   `json:"description"`
		Extensions  string `json:"extensions"`
	}{p.PropType(), p.Description, p.Extensions})
}

func (p Progress) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type        string  `json:"__type__"`
		Description Text    `json:"description"`
		Message     string  `json:"message"`
		Percentage  float64 `json:"percentage"`
	}{p.PropType(), p.Description, p.Message, p.Percentage})
}

func (p Confirm) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string `json:"__type__"`
		Text   Text   `json:"text"`
		OK     Text   `json:"ok"`
		Cancel Text   `json:"cancel"`
	}{p.PropType(), p.Text, p.OK, p.Cancel})
}

func (p TextBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"__type__"`
		Title any    `json:"title"`
		Text  Text   `json:"text"`
	}{p.PropType(), textOrNull(p.Title), p.Text})
}

func (p ConsentFormTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type        string          `json:"__type__"`
		ID          string          `json:"id"`
		Title       Text            `json:"title"`
		Description Text            `json:"description"`
		DataFrame   string          `json:"data_frame"`
		Headers     map[string]Text `json:"headers,omitempty"`
	}{p.PropType(), p.ID, p.Title, p.Description, p.Table.JSON(), p.Headers})
}

func (p DonateButtons) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string `json:"__type__"`
		Question any    `json:"donateQuestion"`
		Button   any    `json:"donateButton"`
		Waiting  bool   `json:"waiting"`
	}{p.PropType(), textOrNull(p.Question), textOrNull(p.Button), p.Waiting})
}

func (p Page) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string  `json:"__type__"`
		Platform string  `json:"platform"`
		Header   Header  `json:"header"`
		Body     []Prop  `json:"body"`
		Footer   *Footer `json:"footer,omitempty"`
	}{p.PropType(), p.Platform, p.Header, p.Body, p.Footer})
}

func (p EndPage) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"__type__"`
	}{p.PropType()})
}

// UnmarshalJSON rebuilds the body props via their discriminants.
func (p *Page) UnmarshalJSON(data []byte) error {
	var raw struct {
		Platform string            `json:"platform"`
		Header   headerWire        `json:"header"`
		Body     []json.RawMessage `json:"body"`
		Footer   *footerWire       `json:"footer"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Platform = raw.Platform
	p.Header = Header{Title: raw.Header.Title}
	if raw.Footer != nil {
		p.Footer = &Footer{Progress: raw.Footer.Progress}
	} else {
		p.Footer = nil
	}
	p.Body = p.Body[:0]
	for _, item := range raw.Body {
		prop, err := unmarshalProp(item)
		if err != nil {
			return err
		}
		p.Body = append(p.Body, prop)
	}
	return nil
}

type headerWire struct {
	Title Text `json:"title"`
}

type footerWire struct {
	Progress float64 `json:"progressPercentage"`
}

func unmarshalProp(data []byte) (Prop, error) {
	var tag struct {
		Type string `json:"__type__"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, err
	}
	switch tag.Type {
	case "PropsUIHeader":
		var w headerWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return Header{Title: w.Title}, nil
	case "PropsUIFooter":
		var w footerWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return Footer{Progress: w.Progress}, nil
	case "PropsUIPromptFileInput":
		var w struct {
			Description Text   `json:"description"`
			Extensions  string `json:"extensions"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return FileInput{Description: w.Description, Extensions: w.Extensions}, nil
	case "PropsUIPromptProgress":
		var w struct {
			Description Text    `json:"description"`
			Message     string  `json:"message"`
			Percentage  float64 `json:"percentage"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return Progress{Description: w.Description, Message: w.Message, Percentage: w.Percentage}, nil
	case "PropsUIPromptConfirm":
		var w struct {
			Text   Text `json:"text"`
			OK     Text `json:"ok"`
			Cancel Text `json:"cancel"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return Confirm{Text: w.Text, OK: w.OK, Cancel: w.Cancel}, nil
	case "PropsUIPromptText":
		var w struct {
			Title Text `json:"title"`
			Text  Text `json:"text"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return TextBlock{Title: w.Title, Text: w.Text}, nil
	case "PropsUIPromptConsentFormTable":
		var w struct {
			ID          string          `json:"id"`
			Title       Text            `json:"title"`
			Description Text            `json:"description"`
			DataFrame   string          `json:"data_frame"`
			Headers     map[string]Text `json:"headers"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		var table DataTable
		if err := json.Unmarshal([]byte(w.DataFrame), &table); err != nil {
			return nil, fmt.Errorf("consent table %s: %w", w.ID, err)
		}
		return ConsentFormTable{ID: w.ID, Title: w.Title, Description: w.Description, Table: table, Headers: w.Headers}, nil
	case "PropsUIDataSubmissionButtons":
		var w struct {
			Question Text `json:"donateQuestion"`
			Button   Text `json:"donateButton"`
			Waiting  bool `json:"waiting"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return DonateButtons{Question: w.Question, Button: w.Button, Waiting: w.Waiting}, nil
	case "PropsUIPageDataSubmission":
		var page Page
		if err := page.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return page, nil
	case "PropsUIPageEnd":
		return EndPage{}, nil
	default:
		return nil, fmt.Errorf("unknown prop type %q", tag.Type)
	}
}
