// Package anthropic implements the provider.anthropic module, which sends
// memory consolidation prompts and agent turns to the Anthropic Messages API.
package anthropic

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	sdkanthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/flemzord/agentmem/internal/core"
	"github.com/flemzord/agentmem/internal/provider"
	"gopkg.in/yaml.v3"
)

func init() {
	core.RegisterModule(&Anthropic{})
}

// Interface guards.
var (
	_ core.Module       = (*Anthropic)(nil)
	_ core.Configurable = (*Anthropic)(nil)
	_ core.Provisioner  = (*Anthropic)(nil)
	_ core.Validator    = (*Anthropic)(nil)
	_ provider.Provider = (*Anthropic)(nil)
)

// Anthropic is the provider.anthropic module.
type Anthropic struct {
	config Config
	apiKey string
	client *sdkanthropic.Client
	logger *slog.Logger
}

// ModuleInfo implements core.Module.
func (a *Anthropic) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "provider.anthropic",
		New: func() core.Module { return &Anthropic{} },
	}
}

// Configure implements core.Configurable.
func (a *Anthropic) Configure(node *yaml.Node) error {
	if err := node.Decode(&a.config); err != nil {
		return err
	}
	a.config.defaults()
	return nil
}

// Provision implements core.Provisioner. The API key comes from the config,
// then from the variable named by api_key_env.
func (a *Anthropic) Provision(ctx *core.AppContext) error {
	a.logger = ctx.Logger

	a.apiKey = a.config.APIKey
	if a.apiKey == "" {
		a.apiKey = os.Getenv(a.config.APIKeyEnv)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(a.apiKey),
		// Strategies never retry; neither does the transport.
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{Timeout: a.config.Timeout}),
	}
	if a.config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(a.config.BaseURL))
	}

	client := sdkanthropic.NewClient(opts...)
	a.client = &client

	ctx.RegisterService(provider.ServiceProvider, a)
	a.logger.Info("anthropic provider ready", "model", a.config.Model)
	return nil
}

// Validate implements core.Validator.
func (a *Anthropic) Validate() error {
	if a.config.Model == "" {
		return errors.New("provider.anthropic: model must not be empty")
	}
	if a.apiKey == "" {
		return fmt.Errorf("provider.anthropic: %w: set api_key or %s", provider.ErrAuthentication, a.config.APIKeyEnv)
	}
	if a.client == nil {
		return errors.New("provider.anthropic: client not initialized (Provision not called)")
	}
	return nil
}

// ModelName implements provider.Provider.
func (a *Anthropic) ModelName() string {
	return a.config.Model
}
