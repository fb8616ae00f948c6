package memory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/flemzord/agentmem/pkg/message"
)

// Retrieval records every message and rebuilds a similarity index over the
// chunked history after each one. Queries return the k most similar chunks;
// without a query the full history is returned.
//
// Each AddMessage re-chunks and re-indexes the whole history, so the cost
// of a conversation grows quadratically with its length.
type Retrieval struct {
	cfg      RetrievalConfig
	indexer  Indexer
	splitter *Splitter
	logger   *slog.Logger
	history  message.Log
	index    Index
}

var _ Strategy = (*Retrieval)(nil)

// NewRetrieval returns an empty Retrieval memory.
func NewRetrieval(cfg RetrievalConfig, indexer Indexer, opts ...Option) (*Retrieval, error) {
	if indexer == nil {
		return nil, ErrNoIndexer
	}
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	splitter, err := NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap, cfg.Separator, opts...)
	if err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &Retrieval{cfg: cfg, indexer: indexer, splitter: splitter, logger: o.logger}, nil
}

// Name implements Strategy.
func (r *Retrieval) Name() string { return KindRetrieval }

// AddMessage implements Strategy. If indexing fails the message stays in
// the history and the previous index is dropped, so Context returns the
// full history until a later rebuild succeeds.
func (r *Retrieval) AddMessage(ctx context.Context, role message.Role, content string) error {
	r.history.Append(message.New(role, content))

	chunks := r.splitter.Split(r.history.Render())
	if len(chunks) == 0 {
		r.closeIndex()
		return nil
	}

	idx, err := r.indexer.Index(ctx, chunks)
	if err != nil {
		r.closeIndex()
		return fmt.Errorf("memory: retrieval index: %w", err)
	}
	r.closeIndex()
	r.index = idx

	r.logger.Debug("memory: rebuilt retrieval index", "chunks", len(chunks), "messages", r.history.Len())
	return nil
}

// Context implements Strategy.
func (r *Retrieval) Context(ctx context.Context, query string) (string, error) {
	if query == "" || r.index == nil {
		return r.history.Render(), nil
	}
	chunks, err := r.index.Search(ctx, query, r.cfg.K)
	if err != nil {
		return "", fmt.Errorf("memory: retrieval search: %w", err)
	}
	return strings.Join(chunks, "\n"), nil
}

// Clear implements Strategy.
func (r *Retrieval) Clear() {
	r.history.Reset()
	r.closeIndex()
}

func (r *Retrieval) closeIndex() {
	if r.index == nil {
		return
	}
	if err := r.index.Close(); err != nil {
		r.logger.Warn("memory: closing retrieval index", "error", err)
	}
	r.index = nil
}

// Messages returns a copy of the recorded history.
func (r *Retrieval) Messages() []message.Message {
	return r.history.Messages()
}
