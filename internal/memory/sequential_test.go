package memory_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/flemzord/agentmem/internal/memory"
	"github.com/flemzord/agentmem/pkg/message"
)

func TestSequential_RendersInOrder(t *testing.T) {
	t.Parallel()

	s := memory.NewSequential()
	addAll(t, s, "Hi", "Hello")

	if got, want := mustContext(t, s, ""), "user: Hi\nassistant: Hello"; got != want {
		t.Errorf("Context() = %q, want %q", got, want)
	}
}

func TestSequential_NoLoss(t *testing.T) {
	t.Parallel()

	s := memory.NewSequential()
	var want []string
	var contents []string
	for i := range 50 {
		c := fmt.Sprintf("message %d", i)
		contents = append(contents, c)
		role := message.RoleUser
		if i%2 == 1 {
			role = message.RoleAssistant
		}
		want = append(want, string(role)+": "+c)
	}
	addAll(t, s, contents...)

	if got := mustContext(t, s, ""); got != strings.Join(want, "\n") {
		t.Errorf("Context() lost or reordered messages:\n%s", got)
	}
	if n := len(s.Messages()); n != 50 {
		t.Errorf("Messages() = %d, want 50", n)
	}
}

func TestSequential_QueryIgnored(t *testing.T) {
	t.Parallel()

	s := memory.NewSequential()
	addAll(t, s, "Hi")

	if mustContext(t, s, "unrelated") != mustContext(t, s, "") {
		t.Error("query should not affect Sequential context")
	}
}
