package anthropic

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/flemzord/agentmem/internal/core"
	"github.com/flemzord/agentmem/internal/provider"
	"gopkg.in/yaml.v3"
)

func decodeNode(t *testing.T, src string) *yaml.Node {
	t.Helper()
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if len(doc.Content) == 0 {
		return &yaml.Node{Kind: yaml.MappingNode}
	}
	return doc.Content[0]
}

func TestModule_ProvisionRegistersProvider(t *testing.T) {
	t.Parallel()

	a := &Anthropic{}
	if err := a.Configure(decodeNode(t, "api_key: sk-test\nmodel: claude-test\n")); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	ctx := core.NewAppContext(slog.New(slog.DiscardHandler))
	if err := a.Provision(ctx); err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if err := a.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	p, err := core.ServiceAs[provider.Provider](ctx, provider.ServiceProvider)
	if err != nil {
		t.Fatalf("ServiceAs: %v", err)
	}
	if got := p.ModelName(); got != "claude-test" {
		t.Errorf("ModelName() = %q, want %q", got, "claude-test")
	}
}

func TestModule_APIKeyFromEnv(t *testing.T) {
	t.Setenv("AGENTMEM_TEST_ANTHROPIC_KEY", "sk-env")

	a := &Anthropic{}
	if err := a.Configure(decodeNode(t, "api_key_env: AGENTMEM_TEST_ANTHROPIC_KEY\n")); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if err := a.Provision(core.NewAppContext(slog.New(slog.DiscardHandler))); err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if a.apiKey != "sk-env" {
		t.Errorf("apiKey = %q, want %q", a.apiKey, "sk-env")
	}
	if a.ModelName() != defaultModel {
		t.Errorf("ModelName() = %q, want %q", a.ModelName(), defaultModel)
	}
}

func TestModule_MissingKey(t *testing.T) {
	t.Setenv("AGENTMEM_TEST_EMPTY_KEY", "")

	a := &Anthropic{}
	if err := a.Configure(decodeNode(t, "api_key_env: AGENTMEM_TEST_EMPTY_KEY\n")); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if err := a.Provision(core.NewAppContext(slog.New(slog.DiscardHandler))); err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if err := a.Validate(); !errors.Is(err, provider.ErrAuthentication) {
		t.Errorf("Validate() = %v, want ErrAuthentication", err)
	}
}
