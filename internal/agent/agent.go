// Package agent drives a conversation through a memory strategy: every
// turn is recorded in memory and the model answers from the memory's
// context rather than from the raw transcript.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/flemzord/agentmem/internal/memory"
	"github.com/flemzord/agentmem/pkg/message"
)

// DefaultTimeout bounds one Chat turn, consolidation included.
const DefaultTimeout = 2 * time.Minute

// ErrEmptyInput is returned by Chat for blank input.
var ErrEmptyInput = errors.New("agent: input is empty")

// Config controls an Agent.
type Config struct {
	// Timeout bounds a Chat turn. Zero selects DefaultTimeout.
	Timeout time.Duration

	// QueryWithInput passes the user's input as the Context query, which
	// lets retrieval memories rank chunks against it. Off, the agent asks
	// for the full context.
	QueryWithInput bool
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Turn is the result of one Chat call.
type Turn struct {
	Reply string
	// Context is what the model was shown.
	Context  string
	Duration time.Duration
}

// Agent pairs a memory strategy with a completer. Its methods are safe for
// concurrent use; calls are serialized since a strategy holds a single
// conversation.
type Agent struct {
	memory    memory.Strategy
	completer memory.Completer
	config    Config
	logger    *slog.Logger

	mu sync.Mutex
}

// New returns an Agent. A nil logger discards output.
func New(mem memory.Strategy, completer memory.Completer, cfg Config, logger *slog.Logger) (*Agent, error) {
	if mem == nil {
		return nil, errors.New("agent: memory strategy is required")
	}
	if completer == nil {
		return nil, fmt.Errorf("agent: %w", memory.ErrNoCompleter)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Agent{
		memory:    mem,
		completer: completer,
		config:    cfg.withDefaults(),
		logger:    logger,
	}, nil
}

// Chat records input as a user message, asks the model to answer from the
// memory context, and records the reply. If the model call fails the user
// message stays in memory and no reply is recorded.
func (a *Agent) Chat(ctx context.Context, input string) (Turn, error) {
	if input == "" {
		return Turn{}, ErrEmptyInput
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()
	start := time.Now()

	if err := a.memory.AddMessage(ctx, message.RoleUser, input); err != nil {
		return Turn{}, fmt.Errorf("agent: record input: %w", err)
	}

	query := ""
	if a.config.QueryWithInput {
		query = input
	}
	memCtx, err := a.memory.Context(ctx, query)
	if err != nil {
		return Turn{}, fmt.Errorf("agent: build context: %w", err)
	}

	reply, err := a.completer.Complete(ctx, memCtx)
	if err != nil {
		return Turn{}, fmt.Errorf("agent: complete: %w", err)
	}

	if err := a.memory.AddMessage(ctx, message.RoleAssistant, reply); err != nil {
		return Turn{}, fmt.Errorf("agent: record reply: %w", err)
	}

	turn := Turn{Reply: reply, Context: memCtx, Duration: time.Since(start)}
	a.logger.Debug("chat turn",
		"strategy", a.memory.Name(),
		"context_chars", len([]rune(memCtx)),
		"duration", turn.Duration,
	)
	return turn, nil
}

// Remember appends a message without asking the model.
func (a *Agent) Remember(ctx context.Context, role message.Role, content string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.memory.AddMessage(ctx, role, content)
}

// Context returns the memory's current context for query.
func (a *Agent) Context(ctx context.Context, query string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.memory.Context(ctx, query)
}

// Clear empties the memory.
func (a *Agent) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.memory.Clear()
	a.logger.Info("memory cleared", "strategy", a.memory.Name())
}

// Strategy returns the name of the memory strategy.
func (a *Agent) Strategy() string {
	return a.memory.Name()
}
