package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/flemzord/agentmem/internal/config"
	"github.com/flemzord/agentmem/internal/memory"
	"github.com/flemzord/agentmem/internal/memory/memorytest"

	_ "github.com/flemzord/agentmem/modules/memory/sqlite"
	_ "github.com/flemzord/agentmem/modules/provider/openai_compatible"
)

// parse decodes raw without validating it: tests inject a completer in
// place of the provider that validation would require.
func parse(t *testing.T, raw string) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return cfg
}

func build(t *testing.T, cfg *config.Config, opts Options) *Runtime {
	t.Helper()
	rt, err := Build(context.Background(), cfg, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close(context.Background()) })
	return rt
}

func TestBuild_WithCompleter(t *testing.T) {
	cfg := parse(t, `
version: "1"
memory:
  strategy: memory.hierarchical
  options:
    short_term_threshold: 2
`)
	completer := &memorytest.Completer{Reply: "ok"}
	rt := build(t, cfg, Options{Completer: completer})

	if rt.Strategy.Name() != memory.KindHierarchical {
		t.Errorf("strategy = %q", rt.Strategy.Name())
	}

	ctx := context.Background()
	for _, in := range []string{"one", "two"} {
		if _, err := rt.Agent.Chat(ctx, in); err != nil {
			t.Fatalf("Chat(%q): %v", in, err)
		}
	}

	// Two replies plus at least one fold of the short-term tier.
	if completer.Calls() < 3 {
		t.Errorf("completer calls = %d, want >= 3", completer.Calls())
	}

	mfs, err := rt.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	var found bool
	for _, mf := range mfs {
		if mf.GetName() == "agentmem_memory_operations_total" {
			found = true
		}
	}
	if !found {
		t.Error("memory operation metrics not registered")
	}
}

func TestBuild_RetrievalDefaultsToKeywordIndex(t *testing.T) {
	cfg := parse(t, `
version: "1"
memory:
  strategy: memory.retrieval
  options:
    chunk_size: 20
    k: 1
`)
	rt := build(t, cfg, Options{Completer: &memorytest.Completer{}})

	ctx := context.Background()
	_ = rt.Agent.Remember(ctx, "user", "the sky is blue")
	_ = rt.Agent.Remember(ctx, "user", "grass grows fast")

	got, err := rt.Agent.Context(ctx, "grass")
	if err != nil {
		t.Fatalf("Context: %v", err)
	}
	if !strings.Contains(got, "grass") {
		t.Errorf("context = %q, want the grass chunk", got)
	}
}

func TestBuild_SQLiteIndex(t *testing.T) {
	cfg := parse(t, `
version: "1"
memory:
  strategy: memory.retrieval
  options:
    chunk_size: 20
    k: 1
index:
  id: index.sqlite
`)
	rt := build(t, cfg, Options{Completer: &memorytest.Completer{}})

	ctx := context.Background()
	_ = rt.Agent.Remember(ctx, "user", "the sky is blue")
	_ = rt.Agent.Remember(ctx, "user", "grass grows fast")

	got, err := rt.Agent.Context(ctx, "grass")
	if err != nil {
		t.Fatalf("Context: %v", err)
	}
	if !strings.Contains(got, "grass") {
		t.Errorf("context = %q, want the grass chunk", got)
	}
}

func TestBuild_NoProvider(t *testing.T) {
	cfg := parse(t, `
version: "1"
memory:
  strategy: memory.sequential
`)
	_, err := Build(context.Background(), cfg, Options{})
	if !errors.Is(err, ErrNoProvider) {
		t.Fatalf("err = %v, want ErrNoProvider", err)
	}
}

func TestBuild_OpenAICompatibleProvider(t *testing.T) {
	var prompts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		for _, m := range body.Messages {
			prompts = append(prompts, m.Content)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"pong"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	cfg := parse(t, `
version: "1"
memory:
  strategy: memory.sliding_window
  options:
    window_size: 2
provider:
  id: provider.openai_compatible
  options:
    base_url: `+srv.URL+`
    api_key: test
    model: test-model
`)
	rt := build(t, cfg, Options{})

	turn, err := rt.Agent.Chat(context.Background(), "ping")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if turn.Reply != "pong" {
		t.Errorf("reply = %q", turn.Reply)
	}
	if len(prompts) != 1 || prompts[0] != "user: ping" {
		t.Errorf("prompts = %q", prompts)
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	cfg := parse(t, `
version: "1"
memory:
  strategy: memory.sequential
gateway:
  addr: 127.0.0.1:0
  clear_schedule: "@hourly"
`)
	rt := build(t, cfg, Options{Completer: &memorytest.Completer{}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, rt) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agentmem.yaml")
	if err := os.WriteFile(path, []byte("version: \"1\"\nmemory:\n  strategy: memory.paged\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Memory.Strategy != "memory.paged" {
		t.Errorf("strategy = %q", cfg.Memory.Strategy)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agentmem.yaml")
	if err := os.WriteFile(path, []byte("version: \"2\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestResolveConfigPath_Env(t *testing.T) {
	t.Setenv("AGENTMEM_CONFIG", "/etc/agentmem.yaml")
	got, err := ResolveConfigPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/etc/agentmem.yaml" {
		t.Errorf("got %q", got)
	}
}

func TestResolveConfigPath_XDGConfigHome(t *testing.T) {
	t.Setenv("AGENTMEM_CONFIG", "")
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "agentmem")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	cfgPath := filepath.Join(cfgDir, "agentmem.yaml")
	if err := os.WriteFile(cfgPath, []byte("version: \"1\""), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := ResolveConfigPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != cfgPath {
		t.Errorf("got %q, want %q", got, cfgPath)
	}
}

func TestResolveConfigPath_NotFound(t *testing.T) {
	t.Setenv("AGENTMEM_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/nonexistent/path")
	t.Chdir(t.TempDir())

	if _, err := ResolveConfigPath(); err == nil {
		t.Error("expected error when no config file found")
	}
}
