package provider

import (
	"context"
	"log/slog"
	"time"
)

// CompleterConfig shapes the requests a TextCompleter sends.
type CompleterConfig struct {
	// SystemPrompt, when set, is sent as a leading system message.
	SystemPrompt string `yaml:"system_prompt"`

	// MaxTokens caps the completion length. Zero defers to the provider.
	MaxTokens int `yaml:"max_tokens"`

	// Temperature overrides the provider's sampling temperature.
	Temperature *float64 `yaml:"temperature"`
}

// TextCompleter turns a Provider into a prompt-in/text-out completer. Each
// prompt is sent as a single user message.
type TextCompleter struct {
	provider Provider
	cfg      CompleterConfig
	logger   *slog.Logger
}

// NewTextCompleter wraps p. A nil logger uses slog.Default.
func NewTextCompleter(p Provider, cfg CompleterConfig, logger *slog.Logger) *TextCompleter {
	if logger == nil {
		logger = slog.Default()
	}
	return &TextCompleter{provider: p, cfg: cfg, logger: logger}
}

// Complete sends prompt and returns the response text. Provider errors are
// returned unchanged.
func (c *TextCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	req := CompletionRequest{
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}
	if c.cfg.SystemPrompt != "" {
		req.Messages = append(req.Messages, LLMMessage{Role: MessageRoleSystem, Content: c.cfg.SystemPrompt})
	}
	req.Messages = append(req.Messages, LLMMessage{Role: MessageRoleUser, Content: prompt})

	start := time.Now()
	resp, err := c.provider.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	c.logger.Debug("provider: completion",
		"model", c.provider.ModelName(),
		"latency", time.Since(start),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)
	return resp.Content, nil
}

// Provider returns the wrapped provider.
func (c *TextCompleter) Provider() Provider { return c.provider }
