package memory

import (
	"context"
	"log/slog"

	"github.com/flemzord/agentmem/pkg/message"
)

// SlidingWindow retains only the most recent WindowSize messages.
type SlidingWindow struct {
	cfg     WindowConfig
	logger  *slog.Logger
	history message.Log
}

var _ Strategy = (*SlidingWindow)(nil)

// NewSlidingWindow returns an empty SlidingWindow.
func NewSlidingWindow(cfg WindowConfig, opts ...Option) (*SlidingWindow, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &SlidingWindow{cfg: cfg, logger: o.logger}, nil
}

// Name implements Strategy.
func (w *SlidingWindow) Name() string { return KindWindow }

// AddMessage implements Strategy. The oldest message is evicted before
// appending when the window is full.
func (w *SlidingWindow) AddMessage(_ context.Context, role message.Role, content string) error {
	if excess := w.history.Len() - w.cfg.WindowSize + 1; excess > 0 {
		w.history.DropFront(excess)
		w.logger.Debug("memory: window evicted messages", "count", excess)
	}
	w.history.Append(message.New(role, content))
	return nil
}

// Context implements Strategy.
func (w *SlidingWindow) Context(_ context.Context, _ string) (string, error) {
	return w.history.Render(), nil
}

// Clear implements Strategy.
func (w *SlidingWindow) Clear() {
	w.history.Reset()
}

// Messages returns a copy of the retained messages, oldest first.
func (w *SlidingWindow) Messages() []message.Message {
	return w.history.Messages()
}
