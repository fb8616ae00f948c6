package memory

import (
	"context"

	"github.com/flemzord/agentmem/pkg/message"
)

// Sequential records every message and returns the full history verbatim.
type Sequential struct {
	history message.Log
}

var _ Strategy = (*Sequential)(nil)

// NewSequential returns an empty Sequential memory.
func NewSequential(_ ...Option) *Sequential {
	return &Sequential{}
}

// Name implements Strategy.
func (s *Sequential) Name() string { return KindSequential }

// AddMessage implements Strategy.
func (s *Sequential) AddMessage(_ context.Context, role message.Role, content string) error {
	s.history.Append(message.New(role, content))
	return nil
}

// Context implements Strategy.
func (s *Sequential) Context(_ context.Context, _ string) (string, error) {
	return s.history.Render(), nil
}

// Clear implements Strategy.
func (s *Sequential) Clear() {
	s.history.Reset()
}

// Messages returns a copy of the recorded history.
func (s *Sequential) Messages() []message.Message {
	return s.history.Messages()
}
