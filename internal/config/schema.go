// Package config handles YAML configuration loading, environment variable
// expansion, and structural validation for agentmem.
package config

import (
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultRetrievalIndex is used by memory.retrieval when no index is set.
const DefaultRetrievalIndex = "index.keyword"

// Config is the top-level configuration structure.
type Config struct {
	// Version is the config format version. Currently only "1" is supported.
	Version string `yaml:"version"`

	// Memory selects the strategy module and its options.
	Memory MemoryConfig `yaml:"memory"`

	// Provider selects the completion backend. Required by strategies that
	// consolidate and by the agent.
	Provider ModuleRef `yaml:"provider"`

	// Index selects the similarity backend for memory.retrieval.
	Index ModuleRef `yaml:"index"`

	Agent     AgentConfig     `yaml:"agent"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// MemoryConfig names a memory.* module.
type MemoryConfig struct {
	// Strategy is a module ID such as "memory.hierarchical".
	Strategy string    `yaml:"strategy"`
	Options  yaml.Node `yaml:"options"`
}

// ModuleRef names a module and carries its raw options.
type ModuleRef struct {
	ID      string    `yaml:"id"`
	Options yaml.Node `yaml:"options"`
}

// AgentConfig shapes chat turns and the completions sent to the provider.
type AgentConfig struct {
	Timeout time.Duration `yaml:"timeout"`

	// QueryWithInput passes each user input to the memory as the Context
	// query.
	QueryWithInput bool     `yaml:"query_with_input"`
	SystemPrompt   string   `yaml:"system_prompt"`
	MaxTokens      int      `yaml:"max_tokens"`
	Temperature    *float64 `yaml:"temperature"`
}

// GatewayConfig configures the HTTP surface of `agentmem serve`.
type GatewayConfig struct {
	Addr string `yaml:"addr"`
	// ClearSchedule is a cron expression; when set the memory is cleared
	// on that schedule.
	ClearSchedule string     `yaml:"clear_schedule"`
	Auth          AuthConfig `yaml:"auth"`
}

// AuthConfig protects the gateway's /v1 routes.
type AuthConfig struct {
	BearerToken string `yaml:"bearer_token"`
	BasicUser   string `yaml:"basic_user"`
	BasicPass   string `yaml:"basic_pass"`
}

// TelemetryConfig configures tracing export. An empty endpoint disables it.
type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	ServiceName  string `yaml:"service_name"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
	// Redact lists extra literal values scrubbed from every log record.
	Redact []string `yaml:"redact"`
}

// IndexID returns the configured index module, falling back to
// DefaultRetrievalIndex for memory.retrieval.
func (c *Config) IndexID() string {
	if c.Index.ID != "" {
		return c.Index.ID
	}
	if c.Memory.Strategy == "memory.retrieval" {
		return DefaultRetrievalIndex
	}
	return ""
}

// ModuleIDs returns the modules to load, in dependency order: provider,
// index, then memory.
func (c *Config) ModuleIDs() []string {
	var ids []string
	if c.Provider.ID != "" {
		ids = append(ids, c.Provider.ID)
	}
	if id := c.IndexID(); id != "" {
		ids = append(ids, id)
	}
	if c.Memory.Strategy != "" {
		ids = append(ids, c.Memory.Strategy)
	}
	return ids
}

// ModuleConfigs returns the raw options keyed by module ID. Modules with
// no options are left out so they load with an empty mapping.
func (c *Config) ModuleConfigs() map[string]yaml.Node {
	configs := make(map[string]yaml.Node, 3)
	add := func(id string, node yaml.Node) {
		if id != "" && node.Kind != 0 {
			configs[id] = node
		}
	}
	add(c.Provider.ID, c.Provider.Options)
	add(c.Index.ID, c.Index.Options)
	add(c.Memory.Strategy, c.Memory.Options)
	return configs
}
