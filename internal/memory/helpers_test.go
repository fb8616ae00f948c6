package memory_test

import (
	"context"
	"testing"

	"github.com/flemzord/agentmem/internal/memory"
	"github.com/flemzord/agentmem/pkg/message"
)

// addAll appends messages with alternating user/assistant roles.
func addAll(t *testing.T, s memory.Strategy, contents ...string) {
	t.Helper()
	for i, c := range contents {
		role := message.RoleUser
		if i%2 == 1 {
			role = message.RoleAssistant
		}
		if err := s.AddMessage(context.Background(), role, c); err != nil {
			t.Fatalf("AddMessage(%q): %v", c, err)
		}
	}
}

func mustContext(t *testing.T, s memory.Strategy, query string) string {
	t.Helper()
	got, err := s.Context(context.Background(), query)
	if err != nil {
		t.Fatalf("Context: %v", err)
	}
	return got
}
