package memory_test

import (
	"testing"

	"github.com/flemzord/agentmem/internal/memory"
	"github.com/flemzord/agentmem/internal/memory/memorytest"
)

func newKind(t *testing.T, kind string) memory.Strategy {
	t.Helper()
	s, err := memory.New(kind, nil, memory.Deps{
		Completer: &memorytest.Completer{},
		Indexer:   memory.KeywordIndexer{},
		Embedder:  &memorytest.Embedder{},
	})
	if err != nil {
		t.Fatalf("New(%q): %v", kind, err)
	}
	return s
}

func TestStrategies_EmptyOnConstructionAndClear(t *testing.T) {
	t.Parallel()

	for _, kind := range memory.Kinds() {
		t.Run(kind, func(t *testing.T) {
			t.Parallel()

			s := newKind(t, kind)
			if s.Name() != kind {
				t.Errorf("Name() = %q, want %q", s.Name(), kind)
			}
			if got := mustContext(t, s, ""); got != "" {
				t.Errorf("fresh Context() = %q, want empty", got)
			}
			if got := mustContext(t, s, "anything"); got != "" {
				t.Errorf("fresh Context(query) = %q, want empty", got)
			}

			addAll(t, s, "Msg 1", "Msg 2", "Msg 3", "Msg 4", "Msg 5", "Msg 6")
			if got := mustContext(t, s, ""); got == "" {
				t.Error("Context() after messages should not be empty")
			}

			s.Clear()
			if got := mustContext(t, s, ""); got != "" {
				t.Errorf("Context() after Clear = %q, want empty", got)
			}

			addAll(t, s, "again")
			if got := mustContext(t, s, ""); got == "" {
				t.Error("cleared strategy should accept new messages")
			}
		})
	}
}

func TestStrategies_IdempotentContext(t *testing.T) {
	t.Parallel()

	kinds := []string{
		memory.KindSequential,
		memory.KindWindow,
		memory.KindPaged,
		memory.KindGraph,
		memory.KindHierarchical,
		memory.KindCompression,
		memory.KindEmbedding,
	}
	for _, kind := range kinds {
		t.Run(kind, func(t *testing.T) {
			t.Parallel()

			s := newKind(t, kind)
			addAll(t, s, "one", "two", "three", "four", "five", "six", "seven")

			first := mustContext(t, s, "")
			second := mustContext(t, s, "")
			if first != second {
				t.Errorf("Context() not idempotent:\nfirst:  %q\nsecond: %q", first, second)
			}
		})
	}
}
