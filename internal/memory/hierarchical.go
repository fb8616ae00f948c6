package memory

import (
	"context"
	"log/slog"

	"github.com/flemzord/agentmem/pkg/message"
)

// Hierarchical keeps a short-term tier of recent messages and folds older
// ones into an accumulating long-term summary.
type Hierarchical struct {
	cfg       HierarchicalConfig
	completer Completer
	logger    *slog.Logger
	shortTerm message.Log
	longTerm  string
}

var _ Strategy = (*Hierarchical)(nil)

// NewHierarchical returns an empty Hierarchical memory.
func NewHierarchical(cfg HierarchicalConfig, completer Completer, opts ...Option) (*Hierarchical, error) {
	if completer == nil {
		return nil, ErrNoCompleter
	}
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &Hierarchical{cfg: cfg, completer: completer, logger: o.logger}, nil
}

// Name implements Strategy.
func (h *Hierarchical) Name() string { return KindHierarchical }

// AddMessage implements Strategy. When the short-term tier grows past the
// threshold, everything except the newest message is summarized and the
// summary is appended to the long-term tier. A failed completion leaves
// both tiers untouched, the new message included; the next call retries.
func (h *Hierarchical) AddMessage(ctx context.Context, role message.Role, content string) error {
	h.shortTerm.Append(message.New(role, content))
	if h.shortTerm.Len() <= h.cfg.ShortTermThreshold {
		return nil
	}
	return h.consolidate(ctx)
}

func (h *Hierarchical) consolidate(ctx context.Context) error {
	msgs := h.shortTerm.Messages()
	older := msgs[:len(msgs)-1]

	summary, err := h.completer.Complete(ctx, buildPrompt(h.cfg.SummaryPrompt, message.Render(older)))
	if err != nil {
		return &ConsolidationError{Strategy: KindHierarchical, Op: "consolidate", Err: err}
	}

	if h.longTerm == "" {
		h.longTerm = summary
	} else {
		h.longTerm += "\n" + summary
	}
	h.shortTerm.DropFront(len(older))

	h.logger.Debug("memory: folded short-term messages into long-term summary", "messages", len(older))
	return nil
}

// Context implements Strategy. Both section headers are always present
// once anything has been recorded; an untouched memory yields "".
func (h *Hierarchical) Context(_ context.Context, _ string) (string, error) {
	if h.longTerm == "" && h.shortTerm.Len() == 0 {
		return "", nil
	}
	return "Summary of past conversation:\n" + h.longTerm +
		"\n\nCurrent conversation:\n" + h.shortTerm.Render(), nil
}

// Clear implements Strategy.
func (h *Hierarchical) Clear() {
	h.shortTerm.Reset()
	h.longTerm = ""
}

// ShortTerm returns a copy of the short-term tier.
func (h *Hierarchical) ShortTerm() []message.Message {
	return h.shortTerm.Messages()
}

// LongTerm returns the accumulated long-term summary.
func (h *Hierarchical) LongTerm() string {
	return h.longTerm
}
