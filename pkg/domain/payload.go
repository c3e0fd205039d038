package domain

import (
	"encoding/json"
	"fmt"
)

// FileRef is the opaque file-reading capability the host supplies when
// answering a file prompt. Reads are sliced on demand; no whole-file
// copy is implied.
type FileRef interface {
	// Name returns the file name as presented by the host.
	Name() string
	// Size returns the total size in bytes.
	Size() int64
	// ReadSlice returns the bytes in [offset, offset+length), truncated
	// at end of file. offset is guaranteed to be within [0, Size].
	ReadSlice(offset, length int64) ([]byte, error)
}

// Payload is a message sent by the host into the flow, answering the
// most recent RenderUI command. The union is closed.
type Payload interface {
	// PayloadType returns the wire discriminant of the payload.
	PayloadType() string
	isPayload()
}

// StringPayload answers a text prompt.
type StringPayload struct {
	Value string
}

// JSONPayload answers a consent form with the consented JSON blob.
type JSONPayload struct {
	Value string
}

// FilePayload answers a file prompt with an opaque file capability.
// It does not survive a JSON round trip; hosts resolve the capability
// out of band (upload, filesystem path) and construct it directly.
type FilePayload struct {
	File FileRef
}

// TruePayload is the affirmative answer to a confirm prompt.
type TruePayload struct{}

// FalsePayload is the negative answer to a confirm prompt.
type FalsePayload struct{}

// VoidPayload acknowledges a render that requests no input, such as a
// progress page.
type VoidPayload struct{}

func (StringPayload) PayloadType() string { return "PayloadString" }
func (JSONPayload) PayloadType() string   { return "PayloadJSON" }
func (FilePayload) PayloadType() string   { return "PayloadFile" }
func (TruePayload) PayloadType() string   { return "PayloadTrue" }
func (FalsePayload) PayloadType() string  { return "PayloadFalse" }
func (VoidPayload) PayloadType() string   { return "PayloadVoid" }

func (StringPayload) isPayload() {}
func (JSONPayload) isPayload()   {}
func (FilePayload) isPayload()   {}
func (TruePayload) isPayload()   {}
func (FalsePayload) isPayload()  {}
func (VoidPayload) isPayload()   {}

func (p StringPayload) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"__type__"`
		Value string `json:"value"`
	}{p.PayloadType(), p.Value})
}

func (p JSONPayload) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"__type__"`
		Value string `json:"value"`
	}{p.PayloadType(), p.Value})
}

// MarshalJSON serializes only the file metadata; the capability itself
// is host-local.
func (p FilePayload) MarshalJSON() ([]byte, error) {
	var name string
	var size int64
	if p.File != nil {
		name = p.File.Name()
		size = p.File.Size()
	}
	return json.Marshal(struct {
		Type string `json:"__type__"`
		Name string `json:"name"`
		Size int64  `json:"size"`
	}{p.PayloadType(), name, size})
}

func (p TruePayload) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"__type__"`
		Value bool   `json:"value"`
	}{p.PayloadType(), true})
}

func (p FalsePayload) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"__type__"`
		Value bool   `json:"value"`
	}{p.PayloadType(), false})
}

func (p VoidPayload) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"__type__"`
	}{p.PayloadType()})
}

// UnmarshalPayload rebuilds a Payload from its wire form. PayloadFile
// cannot be rebuilt from JSON because the capability is host-local;
// callers answering file prompts construct FilePayload directly.
func UnmarshalPayload(data []byte) (Payload, error) {
	var tag struct {
		Type string `json:"__type__"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, err
	}
	switch tag.Type {
	case "PayloadString":
		var w struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return StringPayload{Value: w.Value}, nil
	case "PayloadJSON":
		var w struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return JSONPayload{Value: w.Value}, nil
	case "PayloadTrue":
		return TruePayload{}, nil
	case "PayloadFalse":
		return FalsePayload{}, nil
	case "PayloadVoid":
		return VoidPayload{}, nil
	case "PayloadFile":
		return nil, fmt.Errorf("file payloads carry a host-local capability and cannot be decoded from JSON")
	default:
		return nil, fmt.Errorf("unknown payload type %q", tag.Type)
	}
}
