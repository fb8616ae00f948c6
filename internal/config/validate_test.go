package config

import (
	"strings"
	"sync"
	"testing"

	"github.com/flemzord/agentmem/internal/core"
)

// stubModule is a basic module for testing.
type stubModule struct {
	id string
}

func (m *stubModule) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  core.ModuleID(m.id),
		New: func() core.Module { return &stubModule{id: m.id} },
	}
}

var registerOnce sync.Once

// registerStubs registers modules that stand in for the provider adapters,
// which live outside this package.
func registerStubs() {
	registerOnce.Do(func() {
		core.RegisterModule(&stubModule{id: "provider.stub"})
		core.RegisterModule(&stubModule{id: "index.stub"})
	})
}

func TestValidate(t *testing.T) {
	registerStubs()

	tests := []struct {
		name    string
		yaml    string
		wantErr []string
	}{
		{
			name: "sequential without provider",
			yaml: "version: \"1\"\nmemory: {strategy: memory.sequential}\n",
		},
		{
			name: "hierarchical with provider",
			yaml: "version: \"1\"\nmemory: {strategy: memory.hierarchical}\nprovider: {id: provider.stub}\n",
		},
		{
			name: "retrieval defaults to keyword index",
			yaml: "version: \"1\"\nmemory: {strategy: memory.retrieval}\n",
		},
		{
			name:    "missing version",
			yaml:    "memory: {strategy: memory.sequential}\n",
			wantErr: []string{"version"},
		},
		{
			name:    "unsupported version",
			yaml:    "version: \"99\"\nmemory: {strategy: memory.sequential}\n",
			wantErr: []string{"unsupported"},
		},
		{
			name:    "missing strategy",
			yaml:    "version: \"1\"\n",
			wantErr: []string{"memory.strategy is required"},
		},
		{
			name:    "unknown strategy",
			yaml:    "version: \"1\"\nmemory: {strategy: memory.nope}\n",
			wantErr: []string{"unknown module \"memory.nope\""},
		},
		{
			name:    "summary needs provider",
			yaml:    "version: \"1\"\nmemory: {strategy: memory.summary}\n",
			wantErr: []string{"requires provider.id"},
		},
		{
			name:    "embedding needs provider",
			yaml:    "version: \"1\"\nmemory: {strategy: memory.embedding}\n",
			wantErr: []string{"embeddings require"},
		},
		{
			name:    "vector index needs provider",
			yaml:    "version: \"1\"\nmemory: {strategy: memory.retrieval}\nindex: {id: index.vector}\n",
			wantErr: []string{"embeddings require"},
		},
		{
			name:    "wrong namespace",
			yaml:    "version: \"1\"\nmemory: {strategy: memory.sequential}\nprovider: {id: index.stub}\n",
			wantErr: []string{"not in the provider namespace"},
		},
		{
			name:    "bad schedule",
			yaml:    "version: \"1\"\nmemory: {strategy: memory.sequential}\ngateway: {clear_schedule: \"every now and then\"}\n",
			wantErr: []string{"clear_schedule"},
		},
		{
			name:    "bad log level",
			yaml:    "version: \"1\"\nmemory: {strategy: memory.sequential}\nlogging: {level: chatty}\n",
			wantErr: []string{"logging.level"},
		},
		{
			name:    "errors are joined",
			yaml:    "memory: {strategy: memory.compression}\n",
			wantErr: []string{"version", "requires provider.id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}

			err = Validate(cfg)
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q does not contain %q", err.Error(), want)
				}
			}
		})
	}
}

func TestValidate_AcceptsDescriptorSchedule(t *testing.T) {
	cfg := &Config{
		Version: "1",
		Memory:  MemoryConfig{Strategy: "memory.sliding_window"},
		Gateway: GatewayConfig{ClearSchedule: "@daily"},
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
