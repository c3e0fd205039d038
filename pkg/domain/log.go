package domain

import "log/slog"

// LogLevel is the level vocabulary of SystemLog commands.
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// LevelFromSlog maps slog levels onto the protocol vocabulary.
// Anything at or above error collapses to "error".
func LevelFromSlog(l slog.Level) LogLevel {
	switch {
	case l < slog.LevelInfo:
		return LevelDebug
	case l < slog.LevelWarn:
		return LevelInfo
	case l < slog.LevelError:
		return LevelWarn
	default:
		return LevelError
	}
}

// MetaEntry is one line of the per-session log that is donated as the
// "meta" side channel next to the consented payload.
type MetaEntry struct {
	Level   LogLevel `json:"level"`
	Message string   `json:"message"`
}
