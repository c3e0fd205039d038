package domain

import (
	"encoding/json"
	"fmt"
)

// Command is a message emitted by the flow towards the host.
// The union is closed: RenderUI, SystemDonate, SystemLog, SystemExit.
type Command interface {
	// CommandType returns the wire discriminant of the command.
	CommandType() string
	isCommand()
}

// RenderUI asks the host to render a page and, for input prompts,
// answer with exactly one Payload. Page is either a data-submission
// Page or the closing EndPage.
type RenderUI struct {
	Page Prop
}

// SystemDonate submits a consented payload. Key identifies the
// submission within a session ("{sessionID}-{topic}"), JSON is the
// UTF-8 serialized payload.
type SystemDonate struct {
	Key  string
	JSON string
}

// SystemLog forwards one log line to the host.
type SystemLog struct {
	Level   LogLevel
	Message string
}

// SystemExit terminates the session. No further commands follow it.
type SystemExit struct {
	Code    int
	Message string
}

func (RenderUI) CommandType() string     { return "CommandUIRender" }
func (SystemDonate) CommandType() string { return "CommandSystemDonate" }
func (SystemLog) CommandType() string    { return "CommandSystemLog" }
func (SystemExit) CommandType() string   { return "CommandSystemExit" }

func (RenderUI) isCommand()     {}
func (SystemDonate) isCommand() {}
func (SystemLog) isCommand()    {}
func (SystemExit) isCommand()   {}

func (c RenderUI) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"__type__"`
		Page Prop   `json:"page"`
	}{c.CommandType(), c.Page})
}

func (c SystemDonate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"__type__"`
		Key  string `json:"key"`
		JSON string `json:"json_string"`
	}{c.CommandType(), c.Key, c.JSON})
}

func (c SystemLog) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string   `json:"__type__"`
		Level   LogLevel `json:"level"`
		Message string   `json:"message"`
	}{c.CommandType(), c.Level, c.Message})
}

func (c SystemExit) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string `json:"__type__"`
		Code    int    `json:"code"`
		Message string `json:"info"`
	}{c.CommandType(), c.Code, c.Message})
}

// UnmarshalCommand rebuilds a Command from its wire form. Unknown
// discriminants are rejected.
func UnmarshalCommand(data []byte) (Command, error) {
	var tag struct {
		Type string `json:"__type__"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, err
	}
	switch tag.Type {
	case "CommandUIRender":
		var w struct {
			Page json.RawMessage `json:"page"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		page, err := unmarshalProp(w.Page)
		if err != nil {
			return nil, err
		}
		return RenderUI{Page: page}, nil
	case "CommandSystemDonate":
		var w struct {
			Key  string `json:"key"`
			JSON string `json:"json_string"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return SystemDonate{Key: w.Key, JSON: w.JSON}, nil
	case "CommandSystemLog":
		var w struct {
			Level   LogLevel `json:"level"`
			Message string   `json:"message"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return SystemLog{Level: w.Level, Message: w.Message}, nil
	case "CommandSystemExit":
		var w struct {
			Code    int    `json:"code"`
			Message string `json:"info"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return SystemExit{Code: w.Code, Message: w.Message}, nil
	default:
		return nil, fmt.Errorf("unknown command type %q", tag.Type)
	}
}
