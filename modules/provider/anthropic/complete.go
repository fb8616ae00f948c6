package anthropic

import (
	"context"

	sdkanthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/flemzord/agentmem/internal/provider"
)

// Complete sends a synchronous completion request to the Anthropic Messages API.
func (a *Anthropic) Complete(ctx context.Context, req provider.CompletionRequest) (provider.CompletionResponse, error) {
	msg, err := a.client.Messages.New(ctx, a.convertRequest(req))
	if err != nil {
		return provider.CompletionResponse{}, mapError(err)
	}

	resp := convertResponse(msg)
	if resp.Content == "" {
		return provider.CompletionResponse{}, provider.ErrEmptyResponse
	}
	return resp, nil
}

// convertRequest maps a provider request onto Messages API parameters.
// Leading system messages move into the dedicated System field; later
// ones are dropped with a warning since the API has no inline system role.
func (a *Anthropic) convertRequest(req provider.CompletionRequest) sdkanthropic.MessageNewParams {
	params := sdkanthropic.MessageNewParams{
		Model:     sdkanthropic.Model(a.config.Model),
		MaxTokens: int64(a.config.MaxTokens),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = int64(req.MaxTokens)
	}
	if req.Temperature != nil {
		params.Temperature = sdkanthropic.Float(*req.Temperature)
	}

	leading := true
	for i, m := range req.Messages {
		switch m.Role {
		case provider.MessageRoleSystem:
			if !leading {
				if a.logger != nil {
					a.logger.Warn("anthropic: dropping non-leading system message", "index", i)
				}
				continue
			}
			params.System = append(params.System, sdkanthropic.TextBlockParam{Text: m.Content})
		case provider.MessageRoleAssistant:
			leading = false
			params.Messages = append(params.Messages, sdkanthropic.NewAssistantMessage(sdkanthropic.NewTextBlock(m.Content)))
		default:
			leading = false
			params.Messages = append(params.Messages, sdkanthropic.NewUserMessage(sdkanthropic.NewTextBlock(m.Content)))
		}
	}
	return params
}

// convertResponse joins every text block of msg.
func convertResponse(msg *sdkanthropic.Message) provider.CompletionResponse {
	var content string
	for _, block := range msg.Content {
		if v, ok := block.AsAny().(sdkanthropic.TextBlock); ok {
			if content != "" {
				content += "\n"
			}
			content += v.Text
		}
	}

	return provider.CompletionResponse{
		Content:      content,
		FinishReason: convertStopReason(msg.StopReason),
		Usage: provider.TokenUsage{
			PromptTokens:     int(msg.Usage.InputTokens),
			CompletionTokens: int(msg.Usage.OutputTokens),
			TotalTokens:      int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
	}
}

func convertStopReason(reason sdkanthropic.StopReason) provider.FinishReason {
	switch reason {
	case sdkanthropic.StopReasonMaxTokens:
		return provider.FinishReasonLength
	case sdkanthropic.StopReasonRefusal:
		return provider.FinishReasonFiltering
	default:
		return provider.FinishReasonStop
	}
}
