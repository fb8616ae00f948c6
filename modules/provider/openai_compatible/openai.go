// Package openaicompat provides a provider module for any API implementing
// the OpenAI chat completions interface (Mistral, Groq, vLLM, Ollama,
// LiteLLM, etc.) via a configurable base_url. When embedding_model is set
// it also serves the /embeddings endpoint to embedding-backed memories.
package openaicompat

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/flemzord/agentmem/internal/core"
	"github.com/flemzord/agentmem/internal/memory"
	"github.com/flemzord/agentmem/internal/provider"
	"gopkg.in/yaml.v3"
)

func init() {
	core.RegisterModule(&Provider{})
}

// Compile-time interface assertions.
var (
	_ core.Module       = (*Provider)(nil)
	_ core.Configurable = (*Provider)(nil)
	_ core.Provisioner  = (*Provider)(nil)
	_ core.Validator    = (*Provider)(nil)
	_ provider.Provider = (*Provider)(nil)
	_ memory.Embedder   = (*Provider)(nil)
)

// Provider is an OpenAI-compatible LLM provider.
type Provider struct {
	config Config
	apiKey string
	client *http.Client
	logger *slog.Logger
}

// ModuleInfo implements core.Module.
func (p *Provider) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "provider.openai_compatible",
		New: func() core.Module { return &Provider{} },
	}
}

// Configure implements core.Configurable.
func (p *Provider) Configure(node *yaml.Node) error {
	if err := node.Decode(&p.config); err != nil {
		return err
	}
	p.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (p *Provider) Provision(ctx *core.AppContext) error {
	p.logger = ctx.Logger
	p.client = &http.Client{Timeout: p.config.Timeout}

	p.apiKey = p.config.APIKey
	if p.apiKey == "" && p.config.APIKeyEnv != "" {
		p.apiKey = os.Getenv(p.config.APIKeyEnv)
	}

	ctx.RegisterService(provider.ServiceProvider, p)
	if p.config.EmbeddingModel != "" {
		ctx.RegisterService(memory.ServiceEmbedder, p)
	}
	p.logger.Info("openai-compatible provider ready",
		"base_url", p.config.BaseURL,
		"model", p.config.Model,
		"embedding_model", p.config.EmbeddingModel,
	)
	return nil
}

// Validate implements core.Validator.
func (p *Provider) Validate() error {
	return p.config.validate()
}

// Complete implements provider.Provider.
func (p *Provider) Complete(ctx context.Context, req provider.CompletionRequest) (provider.CompletionResponse, error) {
	var resp oaiResponse
	if err := p.post(ctx, "/chat/completions", buildRequest(p.config.Model, p.config.MaxTokens, req), &resp); err != nil {
		return provider.CompletionResponse{}, err
	}

	cr := parseResponse(resp)
	if cr.Content == "" {
		return provider.CompletionResponse{}, provider.ErrEmptyResponse
	}
	return cr, nil
}

// Embed implements memory.Embedder using the /embeddings endpoint.
func (p *Provider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if p.config.EmbeddingModel == "" {
		return nil, fmt.Errorf("provider.openai_compatible: %w: embedding_model is not set", memory.ErrNoEmbedder)
	}
	if len(texts) == 0 {
		return nil, nil
	}

	var resp oaiEmbeddingResponse
	req := oaiEmbeddingRequest{Model: p.config.EmbeddingModel, Input: texts}
	if err := p.post(ctx, "/embeddings", req, &resp); err != nil {
		return nil, err
	}
	return parseEmbeddings(resp, len(texts))
}

// ModelName implements provider.Provider.
func (p *Provider) ModelName() string {
	return p.config.Model
}
