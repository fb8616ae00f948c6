package memory

import (
	"context"

	"github.com/flemzord/agentmem/internal/graph"
	"github.com/flemzord/agentmem/pkg/message"
)

// Graph node kinds and edge labels used by GraphMemory.
const (
	NodeKindMessage = "message"
	EdgeFollows     = "follows"
)

// GraphMemory records each message as a graph node linked to its
// predecessor by a "follows" edge.
type GraphMemory struct {
	g    *graph.Graph
	last graph.NodeID
}

var _ Strategy = (*GraphMemory)(nil)

// NewGraphMemory returns an empty GraphMemory.
func NewGraphMemory(_ ...Option) *GraphMemory {
	return &GraphMemory{g: graph.New()}
}

// Name implements Strategy.
func (m *GraphMemory) Name() string { return KindGraph }

// AddMessage implements Strategy.
func (m *GraphMemory) AddMessage(_ context.Context, role message.Role, content string) error {
	id := m.g.AddNode(NodeKindMessage, map[string]string{
		"role":    string(role),
		"content": content,
	})
	if m.last != "" {
		if err := m.g.AddEdge(m.last, id, EdgeFollows); err != nil {
			return err
		}
	}
	m.last = id
	return nil
}

// Context implements Strategy. Message nodes render in creation order.
func (m *GraphMemory) Context(_ context.Context, _ string) (string, error) {
	return message.Render(m.Messages()), nil
}

// Clear implements Strategy.
func (m *GraphMemory) Clear() {
	m.g.Reset()
	m.last = ""
}

// Messages returns the recorded messages in creation order.
func (m *GraphMemory) Messages() []message.Message {
	nodes := m.g.Nodes(NodeKindMessage)
	if len(nodes) == 0 {
		return nil
	}
	msgs := make([]message.Message, len(nodes))
	for i, n := range nodes {
		msgs[i] = message.New(message.Role(n.Attrs["role"]), n.Attrs["content"])
	}
	return msgs
}

// Graph exposes the underlying graph for inspection.
func (m *GraphMemory) Graph() *graph.Graph {
	return m.g
}
