package paracl

import (
	"fmt"
	"go/token"
	"io"
	"log/slog"
	"strings"
)

// Config holds components shared by interpreters that run side by side,
// such as the cases of a suite. Streams are per interpreter and are not part of it.
type Config struct {
	// Fset is the shared file set. Sharing it keeps positions of all
	// programs comparable in one place.
	Fset *token.FileSet

	// Logger is the shared logger for all interpreters.
	Logger *slog.Logger
}

// Options returns the options that apply c. Unset fields are skipped.
func (c Config) Options() []Option {
	var options []Option
	if c.Fset != nil {
		options = append(options, WithFileSet(c.Fset))
	}
	if c.Logger != nil {
		options = append(options, WithLogger(c.Logger))
	}
	return options
}

// ParseLogLevel maps "debug", "info", "warn" and "error" to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// NewLogger returns a text logger writing to w at the given level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
