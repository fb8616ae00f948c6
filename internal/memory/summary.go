package memory

import (
	"context"
	"log/slog"

	"github.com/flemzord/agentmem/pkg/message"
)

// Summarizing records every message and answers Context with a model
// summary of the full history.
type Summarizing struct {
	cfg       SummaryConfig
	completer Completer
	logger    *slog.Logger
	history   message.Log

	// cached holds the last summary when CacheSummary is enabled; it is
	// valid until the next AddMessage or Clear.
	cached      string
	cachedValid bool
}

var _ Strategy = (*Summarizing)(nil)

// NewSummarizing returns an empty Summarizing memory.
func NewSummarizing(cfg SummaryConfig, completer Completer, opts ...Option) (*Summarizing, error) {
	if completer == nil {
		return nil, ErrNoCompleter
	}
	o := buildOptions(opts)
	return &Summarizing{cfg: cfg.withDefaults(), completer: completer, logger: o.logger}, nil
}

// Name implements Strategy.
func (s *Summarizing) Name() string { return KindSummary }

// AddMessage implements Strategy. It never calls the completer.
func (s *Summarizing) AddMessage(_ context.Context, role message.Role, content string) error {
	s.history.Append(message.New(role, content))
	s.cachedValid = false
	return nil
}

// Context implements Strategy. An empty history yields the empty string
// without a model call; otherwise every call issues one completion unless
// caching is enabled.
func (s *Summarizing) Context(ctx context.Context, _ string) (string, error) {
	if s.history.Len() == 0 {
		return "", nil
	}
	if s.cfg.CacheSummary && s.cachedValid {
		return s.cached, nil
	}

	summary, err := s.completer.Complete(ctx, buildPrompt(s.cfg.SummaryPrompt, s.history.Render()))
	if err != nil {
		return "", &ConsolidationError{Strategy: KindSummary, Op: "summarize", Err: err}
	}
	s.logger.Debug("memory: summarized history", "messages", s.history.Len())

	if s.cfg.CacheSummary {
		s.cached, s.cachedValid = summary, true
	}
	return summary, nil
}

// Clear implements Strategy.
func (s *Summarizing) Clear() {
	s.history.Reset()
	s.cached, s.cachedValid = "", false
}

// Messages returns a copy of the recorded history.
func (s *Summarizing) Messages() []message.Message {
	return s.history.Messages()
}
