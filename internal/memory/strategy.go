package memory

import (
	"context"

	"github.com/flemzord/agentmem/pkg/message"
)

// Strategy kinds, as accepted by the memory.strategy configuration key.
const (
	KindSequential   = "sequential"
	KindWindow       = "sliding_window"
	KindSummary      = "summary"
	KindHierarchical = "hierarchical"
	KindCompression  = "compression"
	KindPaged        = "paged"
	KindGraph        = "graph"
	KindRetrieval    = "retrieval"
	KindEmbedding    = "embedding"
)

// Strategy is the contract shared by every memory implementation.
type Strategy interface {
	// Name returns the strategy kind.
	Name() string

	// AddMessage records one message. Consolidating strategies may call
	// their Completer before returning; on failure the message stays
	// recorded and the error is returned unchanged in meaning.
	AddMessage(ctx context.Context, role message.Role, content string) error

	// Context returns the text representing the conversation so far.
	// The query is consulted only by retrieval strategies. An empty
	// memory yields the empty string.
	Context(ctx context.Context, query string) (string, error)

	// Clear discards all recorded state. A cleared strategy is
	// indistinguishable from a freshly constructed one.
	Clear()
}

// Completer turns a prompt into a completion. It is the only model
// capability the consolidating strategies need.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

// Complete implements Completer.
func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Embedder maps texts to dense vectors, one vector per input text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Indexer builds a searchable index over a set of text chunks.
type Indexer interface {
	Index(ctx context.Context, chunks []string) (Index, error)
}

// Index answers similarity queries over the chunks it was built from.
type Index interface {
	// Search returns at most k chunks, most relevant first.
	Search(ctx context.Context, query string, k int) ([]string, error)

	// Close releases resources held by the index.
	Close() error
}
