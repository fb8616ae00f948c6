package memory

import (
	"fmt"
	"slices"
)

// Deps carries the backends that strategies are constructed with. Each
// strategy uses only the fields it needs.
type Deps struct {
	Completer Completer
	Indexer   Indexer
	Embedder  Embedder
}

// Decoder fills a strategy Config from raw options, such as a YAML node.
type Decoder func(v any) error

var kinds = []string{
	KindSequential,
	KindWindow,
	KindSummary,
	KindHierarchical,
	KindCompression,
	KindPaged,
	KindGraph,
	KindRetrieval,
	KindEmbedding,
}

// Kinds returns every strategy kind New accepts.
func Kinds() []string {
	return slices.Clone(kinds)
}

// New constructs the strategy of the given kind. A nil decode leaves every
// option at its default.
func New(kind string, decode Decoder, deps Deps, opts ...Option) (Strategy, error) {
	if decode == nil {
		decode = func(any) error { return nil }
	}

	switch kind {
	case KindSequential:
		return NewSequential(opts...), nil
	case KindGraph:
		return NewGraphMemory(opts...), nil
	case KindWindow:
		var cfg WindowConfig
		if err := decodeConfig(decode, &cfg); err != nil {
			return nil, err
		}
		return NewSlidingWindow(cfg, opts...)
	case KindSummary:
		var cfg SummaryConfig
		if err := decodeConfig(decode, &cfg); err != nil {
			return nil, err
		}
		return NewSummarizing(cfg, deps.Completer, opts...)
	case KindHierarchical:
		var cfg HierarchicalConfig
		if err := decodeConfig(decode, &cfg); err != nil {
			return nil, err
		}
		return NewHierarchical(cfg, deps.Completer, opts...)
	case KindCompression:
		var cfg CompressionConfig
		if err := decodeConfig(decode, &cfg); err != nil {
			return nil, err
		}
		return NewCompression(cfg, deps.Completer, opts...)
	case KindPaged:
		var cfg PagedConfig
		if err := decodeConfig(decode, &cfg); err != nil {
			return nil, err
		}
		return NewPaged(cfg, opts...)
	case KindRetrieval:
		var cfg RetrievalConfig
		if err := decodeConfig(decode, &cfg); err != nil {
			return nil, err
		}
		return NewRetrieval(cfg, deps.Indexer, opts...)
	case KindEmbedding:
		var cfg EmbeddingConfig
		if err := decodeConfig(decode, &cfg); err != nil {
			return nil, err
		}
		return NewEmbeddingAugmented(cfg, deps.Embedder, opts...)
	default:
		return nil, invalidConfig("unknown strategy %q", kind)
	}
}

func decodeConfig(decode Decoder, v any) error {
	if err := decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// NeedsCompleter reports whether strategies of kind consolidate through a
// Completer.
func NeedsCompleter(kind string) bool {
	switch kind {
	case KindSummary, KindHierarchical, KindCompression:
		return true
	}
	return false
}
