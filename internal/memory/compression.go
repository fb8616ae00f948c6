package memory

import (
	"context"
	"log/slog"
	"strings"

	"github.com/flemzord/agentmem/pkg/message"
)

// Compression accumulates messages until the threshold is reached, then
// replaces the entire history with one compressed summary.
type Compression struct {
	cfg       CompressionConfig
	completer Completer
	logger    *slog.Logger
	history   message.Log
	summaries []string
}

var _ Strategy = (*Compression)(nil)

// NewCompression returns an empty Compression memory.
func NewCompression(cfg CompressionConfig, completer Completer, opts ...Option) (*Compression, error) {
	if completer == nil {
		return nil, ErrNoCompleter
	}
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &Compression{cfg: cfg, completer: completer, logger: o.logger}, nil
}

// Name implements Strategy.
func (c *Compression) Name() string { return KindCompression }

// AddMessage implements Strategy. Reaching the threshold compresses the
// whole history, leaving it empty. A failed completion keeps the history,
// the new message included.
func (c *Compression) AddMessage(ctx context.Context, role message.Role, content string) error {
	c.history.Append(message.New(role, content))
	if c.history.Len() < c.cfg.CompressionThreshold {
		return nil
	}

	summary, err := c.completer.Complete(ctx, buildPrompt(c.cfg.CompressionPrompt, c.history.Render()))
	if err != nil {
		return &ConsolidationError{Strategy: KindCompression, Op: "compress", Err: err}
	}

	c.logger.Debug("memory: compressed history", "messages", c.history.Len(), "summaries", len(c.summaries)+1)
	c.summaries = append(c.summaries, summary)
	c.history.Reset()
	return nil
}

// Context implements Strategy. Each non-empty side is rendered as its own
// labelled section.
func (c *Compression) Context(_ context.Context, _ string) (string, error) {
	var sections []string
	if compressed := strings.Join(c.summaries, "\n"); compressed != "" {
		sections = append(sections, "Compressed Past:\n"+compressed)
	}
	if current := c.history.Render(); current != "" {
		sections = append(sections, "Current Conversation:\n"+current)
	}
	return strings.Join(sections, "\n\n"), nil
}

// Clear implements Strategy.
func (c *Compression) Clear() {
	c.history.Reset()
	c.summaries = nil
}

// History returns a copy of the uncompressed messages.
func (c *Compression) History() []message.Message {
	return c.history.Messages()
}

// Summaries returns a copy of the compressed summaries, oldest first.
func (c *Compression) Summaries() []string {
	if len(c.summaries) == 0 {
		return nil
	}
	out := make([]string, len(c.summaries))
	copy(out, c.summaries)
	return out
}
