package memory

import (
	"context"
	"log/slog"

	"github.com/flemzord/agentmem/pkg/message"
)

// Paged groups messages into fixed-size pages and keeps at most MaxPages
// committed pages plus the page being filled.
type Paged struct {
	cfg     PagedConfig
	logger  *slog.Logger
	pages   [][]message.Message
	current message.Log
}

var _ Strategy = (*Paged)(nil)

// NewPaged returns an empty Paged memory.
func NewPaged(cfg PagedConfig, opts ...Option) (*Paged, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &Paged{cfg: cfg, logger: o.logger}, nil
}

// Name implements Strategy.
func (p *Paged) Name() string { return KindPaged }

// AddMessage implements Strategy. A full current page is committed, and
// the oldest committed page is evicted once more than MaxPages exist.
func (p *Paged) AddMessage(_ context.Context, role message.Role, content string) error {
	p.current.Append(message.New(role, content))
	if p.current.Len() < p.cfg.PageSize {
		return nil
	}

	p.pages = append(p.pages, p.current.Messages())
	p.current.Reset()

	if len(p.pages) > p.cfg.MaxPages {
		p.pages = append([][]message.Message(nil), p.pages[1:]...)
		p.logger.Debug("memory: evicted oldest page", "pages", len(p.pages))
	}
	return nil
}

// Context implements Strategy. Committed pages render oldest first,
// followed by the current page, as one contiguous history.
func (p *Paged) Context(_ context.Context, _ string) (string, error) {
	var all []message.Message
	for _, page := range p.pages {
		all = append(all, page...)
	}
	all = append(all, p.current.Messages()...)
	return message.Render(all), nil
}

// Clear implements Strategy.
func (p *Paged) Clear() {
	p.pages = nil
	p.current.Reset()
}

// Pages returns a copy of the committed pages, oldest first.
func (p *Paged) Pages() [][]message.Message {
	if len(p.pages) == 0 {
		return nil
	}
	out := make([][]message.Message, len(p.pages))
	for i, page := range p.pages {
		out[i] = append([]message.Message(nil), page...)
	}
	return out
}

// CurrentPage returns a copy of the uncommitted page.
func (p *Paged) CurrentPage() []message.Message {
	return p.current.Messages()
}
