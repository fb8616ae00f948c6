// Package logging builds the process logger: a slog text handler whose
// output never carries API keys.
package logging

import (
	"fmt"
	"io"
	"log/slog"
)

// Options configures New.
type Options struct {
	// Level is a slog level name ("debug", "info", "warn", "error").
	// Empty means info.
	Level string
	// Redact lists literal values scrubbed from every record.
	Redact []string
}

// New returns a logger writing text records to w.
func New(w io.Writer, opts Options) (*slog.Logger, error) {
	var level slog.Level
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
	}

	inner := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewRedactingHandler(inner, NewRedactor(opts.Redact...))), nil
}
