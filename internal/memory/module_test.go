package memory_test

import (
	"testing"

	"github.com/flemzord/agentmem/internal/core"
	"github.com/flemzord/agentmem/internal/memory"
	"github.com/flemzord/agentmem/internal/memory/memorytest"
	"gopkg.in/yaml.v3"
)

func mustNode(t *testing.T, src string) yaml.Node {
	t.Helper()
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	return *doc.Content[0]
}

func TestModule_RegisteredForEveryKind(t *testing.T) {
	t.Parallel()

	for _, kind := range memory.Kinds() {
		if _, ok := core.GetModule("memory." + kind); !ok {
			t.Errorf("module memory.%s is not registered", kind)
		}
	}
	for _, id := range []string{"index.keyword", "index.vector"} {
		if _, ok := core.GetModule(id); !ok {
			t.Errorf("module %s is not registered", id)
		}
	}
}

func TestModule_ProvisionPublishesStrategy(t *testing.T) {
	t.Parallel()

	ctx := core.NewAppContext(nil).WithModuleConfigs(map[string]yaml.Node{
		"memory.paged": mustNode(t, "page_size: 3\nmax_pages: 1"),
	})

	mod, err := ctx.LoadModule("memory.paged")
	if err != nil {
		t.Fatalf("LoadModule: %v", err)
	}

	s, err := core.ServiceAs[memory.Strategy](ctx, memory.ServiceStrategy)
	if err != nil {
		t.Fatalf("ServiceAs: %v", err)
	}
	if s.Name() != memory.KindPaged {
		t.Errorf("Name() = %q, want %q", s.Name(), memory.KindPaged)
	}
	if mod.(*memory.Module).Strategy() != s {
		t.Error("module and service should hold the same strategy")
	}

	addAll(t, s, "1", "2", "3", "4", "5", "6")
	if got := mustContext(t, s, ""); got != "assistant: 4\nuser: 5\nassistant: 6" {
		t.Errorf("Context() = %q, options were not applied", got)
	}
}

func TestModule_ResolvesCompleterService(t *testing.T) {
	t.Parallel()

	ctx := core.NewAppContext(nil)
	if _, err := ctx.LoadModule("memory.hierarchical"); err == nil {
		t.Fatal("expected error without a completer service")
	}

	ctx.RegisterService(memory.ServiceCompleter, &memorytest.Completer{})
	if _, err := ctx.LoadModule("memory.hierarchical"); err != nil {
		t.Fatalf("LoadModule: %v", err)
	}
}

func TestModule_WrongServiceType(t *testing.T) {
	t.Parallel()

	ctx := core.NewAppContext(nil)
	ctx.RegisterService(memory.ServiceCompleter, "not a completer")
	if _, err := ctx.LoadModule("memory.summary"); err == nil {
		t.Fatal("expected error for mistyped completer service")
	}
}

func TestIndexModules(t *testing.T) {
	t.Parallel()

	ctx := core.NewAppContext(nil)
	if _, err := ctx.LoadModule("index.vector"); err == nil {
		t.Fatal("index.vector should require an embedder")
	}

	if _, err := ctx.LoadModule("index.keyword"); err != nil {
		t.Fatalf("LoadModule(index.keyword): %v", err)
	}
	if _, err := core.ServiceAs[memory.Indexer](ctx, memory.ServiceIndexer); err != nil {
		t.Errorf("index.keyword did not publish an indexer: %v", err)
	}

	ctx.RegisterService(memory.ServiceEmbedder, &memorytest.Embedder{})
	if _, err := ctx.LoadModule("index.vector"); err != nil {
		t.Fatalf("LoadModule(index.vector): %v", err)
	}
	ix, _ := core.ServiceAs[memory.Indexer](ctx, memory.ServiceIndexer)
	if _, ok := ix.(*memory.VectorIndexer); !ok {
		t.Errorf("indexer = %T, want *memory.VectorIndexer", ix)
	}

	if _, err := ctx.LoadModule("memory.retrieval"); err != nil {
		t.Fatalf("LoadModule(memory.retrieval): %v", err)
	}
}
