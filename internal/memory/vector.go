package memory

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
)

// VectorIndexer builds in-memory indexes ranked by cosine similarity of
// embeddings produced by an Embedder.
type VectorIndexer struct {
	embedder Embedder
}

var _ Indexer = (*VectorIndexer)(nil)

// NewVectorIndexer returns a VectorIndexer backed by embedder.
func NewVectorIndexer(embedder Embedder) (*VectorIndexer, error) {
	if embedder == nil {
		return nil, ErrNoEmbedder
	}
	return &VectorIndexer{embedder: embedder}, nil
}

// Index embeds every chunk in a single call.
func (v *VectorIndexer) Index(ctx context.Context, chunks []string) (Index, error) {
	vecs, err := v.embedder.Embed(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("memory: embed chunks: %w", err)
	}
	if len(vecs) != len(chunks) {
		return nil, fmt.Errorf("%w: %d chunks, %d vectors", ErrEmbedMismatch, len(chunks), len(vecs))
	}
	return &vectorIndex{
		embedder: v.embedder,
		chunks:   slices.Clone(chunks),
		vecs:     vecs,
	}, nil
}

type vectorIndex struct {
	embedder Embedder
	chunks   []string
	vecs     [][]float32
}

type scored struct {
	pos   int
	score float64
}

// Search ranks chunks by descending similarity; ties keep chunk order.
func (x *vectorIndex) Search(ctx context.Context, query string, k int) ([]string, error) {
	if k <= 0 || len(x.chunks) == 0 {
		return nil, nil
	}
	qv, err := x.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("memory: embed query: %w", err)
	}
	if len(qv) != 1 {
		return nil, fmt.Errorf("%w: 1 query, %d vectors", ErrEmbedMismatch, len(qv))
	}

	ranked := make([]scored, len(x.vecs))
	for i, v := range x.vecs {
		ranked[i] = scored{pos: i, score: Cosine(qv[0], v)}
	}
	slices.SortStableFunc(ranked, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	k = min(k, len(ranked))
	out := make([]string, k)
	for i := range k {
		out[i] = x.chunks[ranked[i].pos]
	}
	return out, nil
}

func (x *vectorIndex) Close() error { return nil }

// Cosine returns the cosine similarity of a and b. Vectors of different
// length, or with zero magnitude, score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
