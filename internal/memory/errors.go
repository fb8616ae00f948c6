package memory

import (
	"errors"
	"fmt"
)

// Sentinel errors for strategy construction and retrieval.
var (
	ErrInvalidConfig = errors.New("memory: invalid configuration")
	ErrNoCompleter   = errors.New("memory: completer is required")
	ErrNoIndexer     = errors.New("memory: indexer is required")
	ErrNoEmbedder    = errors.New("memory: embedder is required")
	ErrEmbedMismatch = errors.New("memory: embedder returned wrong number of vectors")
)

// ConsolidationError reports a failed model call made while consolidating
// history. The strategy state is left as it was before the call.
type ConsolidationError struct {
	Strategy string
	Op       string
	Err      error
}

func (e *ConsolidationError) Error() string {
	return fmt.Sprintf("memory: %s %s: %v", e.Strategy, e.Op, e.Err)
}

func (e *ConsolidationError) Unwrap() error { return e.Err }

func invalidConfig(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
