package graph

import (
	"errors"
	"testing"
)

func TestGraph_AddNodeAndEdge(t *testing.T) {
	t.Parallel()

	g := New()
	a := g.AddNode("message", map[string]string{"content": "a"})
	b := g.AddNode("message", map[string]string{"content": "b"})

	if a == b {
		t.Fatal("node identities should be unique")
	}
	if err := g.AddEdge(a, b, "follows"); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	if g.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", g.NodeCount())
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}

	got := g.Neighbors(a, "follows")
	if len(got) != 1 || got[0] != b {
		t.Errorf("Neighbors(a) = %v, want [%s]", got, b)
	}
	if in := g.In(b); len(in) != 1 || in[0].From != a {
		t.Errorf("In(b) = %v, want edge from a", in)
	}
	if len(g.Neighbors(a, "mentions")) != 0 {
		t.Error("Neighbors should filter by label")
	}
}

func TestGraph_AddEdgeMissingNode(t *testing.T) {
	t.Parallel()

	g := New()
	a := g.AddNode("message", nil)

	if err := g.AddEdge(a, "missing", "follows"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("AddEdge error = %v, want ErrNodeNotFound", err)
	}
	if err := g.AddEdge("missing", a, "follows"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("AddEdge error = %v, want ErrNodeNotFound", err)
	}
}

func TestGraph_NodesCreationOrder(t *testing.T) {
	t.Parallel()

	g := New()
	for _, c := range []string{"first", "second", "third"} {
		g.AddNode("message", map[string]string{"content": c})
	}
	g.AddNode("entity", map[string]string{"name": "x"})

	msgs := g.Nodes("message")
	if len(msgs) != 3 {
		t.Fatalf("Nodes(message) = %d, want 3", len(msgs))
	}
	for i, want := range []string{"first", "second", "third"} {
		if msgs[i].Attrs["content"] != want {
			t.Errorf("Nodes[%d].content = %q, want %q", i, msgs[i].Attrs["content"], want)
		}
		if msgs[i].Seq != i {
			t.Errorf("Nodes[%d].Seq = %d, want %d", i, msgs[i].Seq, i)
		}
	}
	if all := g.Nodes(""); len(all) != 4 {
		t.Errorf("Nodes(\"\") = %d, want 4", len(all))
	}
}

func TestGraph_NodeAttrsAreCopied(t *testing.T) {
	t.Parallel()

	attrs := map[string]string{"content": "original"}
	g := New()
	id := g.AddNode("message", attrs)
	attrs["content"] = "changed"

	n, ok := g.Node(id)
	if !ok {
		t.Fatal("Node not found")
	}
	if n.Attrs["content"] != "original" {
		t.Errorf("content = %q, want %q", n.Attrs["content"], "original")
	}

	n.Attrs["content"] = "mutated"
	again, _ := g.Node(id)
	if again.Attrs["content"] != "original" {
		t.Error("Node() should return a copy")
	}
}

func TestGraph_Reset(t *testing.T) {
	t.Parallel()

	g := New()
	a := g.AddNode("message", nil)
	b := g.AddNode("message", nil)
	_ = g.AddEdge(a, b, "follows")

	g.Reset()

	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Errorf("after Reset: nodes=%d edges=%d, want 0 0", g.NodeCount(), g.EdgeCount())
	}
	if _, ok := g.Node(a); ok {
		t.Error("node should be gone after Reset")
	}

	n, _ := g.Node(g.AddNode("message", nil))
	if n.Seq != 0 {
		t.Errorf("Seq after Reset = %d, want 0", n.Seq)
	}
}
