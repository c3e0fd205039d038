package satchel

import (
	"github.com/satchelhq/satchel/pkg/bridge"
	"github.com/satchelhq/satchel/pkg/platforms/chatlog"
	"github.com/satchelhq/satchel/pkg/platforms/ziplist"
	"github.com/satchelhq/satchel/pkg/wizard"
)

// Version is the library version, overridable at build time via
// -ldflags "-X github.com/satchelhq/satchel.Version=...".
var Version = "0.1.0"

// Flows returns the built-in donation flows, keyed by the platform
// name used on the CLI and the HTTP API.
func Flows() map[string]bridge.Flow {
	return map[string]bridge.Flow{
		"zip":  wizard.New(ziplist.New()).Flow(),
		"chat": wizard.New(chatlog.New()).Flow(),
	}
}
