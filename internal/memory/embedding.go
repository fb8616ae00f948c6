package memory

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/flemzord/agentmem/pkg/message"
)

// EmbeddingAugmented records every message and maintains a single embedding
// of the whole conversation. Context returns the raw history; the embedding
// is available to callers through Embedding.
type EmbeddingAugmented struct {
	cfg      EmbeddingConfig
	embedder Embedder
	logger   *slog.Logger
	history  message.Log
	vector   []float32
}

var _ Strategy = (*EmbeddingAugmented)(nil)

// NewEmbeddingAugmented returns an empty EmbeddingAugmented memory.
func NewEmbeddingAugmented(cfg EmbeddingConfig, embedder Embedder, opts ...Option) (*EmbeddingAugmented, error) {
	if embedder == nil {
		return nil, ErrNoEmbedder
	}
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &EmbeddingAugmented{cfg: cfg, embedder: embedder, logger: o.logger}, nil
}

// Name implements Strategy.
func (e *EmbeddingAugmented) Name() string { return KindEmbedding }

// AddMessage implements Strategy. The rendered history is truncated to
// MaxChars before embedding. On failure the previous embedding is kept.
func (e *EmbeddingAugmented) AddMessage(ctx context.Context, role message.Role, content string) error {
	e.history.Append(message.New(role, content))

	vecs, err := e.embedder.Embed(ctx, []string{truncateRunes(e.history.Render(), e.cfg.MaxChars)})
	if err != nil {
		return fmt.Errorf("memory: embed history: %w", err)
	}
	if len(vecs) != 1 {
		return fmt.Errorf("%w: 1 text, %d vectors", ErrEmbedMismatch, len(vecs))
	}
	e.vector = vecs[0]
	e.logger.Debug("memory: embedded history", "messages", e.history.Len(), "dims", len(e.vector))
	return nil
}

// Context implements Strategy.
func (e *EmbeddingAugmented) Context(_ context.Context, _ string) (string, error) {
	return e.history.Render(), nil
}

// Clear implements Strategy.
func (e *EmbeddingAugmented) Clear() {
	e.history.Reset()
	e.vector = nil
}

// Embedding returns a copy of the current conversation embedding, or nil
// if nothing has been recorded.
func (e *EmbeddingAugmented) Embedding() []float32 {
	return slices.Clone(e.vector)
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
