// Package provider defines the contract between agentmem and text
// completion backends, and adapts a backend to the prompt-in/text-out
// Completer the memory strategies consume.
package provider

import "context"

// Provider is a chat-completion backend. Concrete implementations live
// under modules/provider and register themselves as core modules.
type Provider interface {
	// Complete sends a completion request and returns the full response.
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)

	// ModelName returns the identifier of the underlying model.
	ModelName() string
}

// ServiceProvider is the service name under which provider modules
// publish their Provider.
const ServiceProvider = "provider"
