// Package memorytest provides test doubles for the memory package.
package memorytest

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"
	"unicode"

	"github.com/flemzord/agentmem/internal/memory"
)

// Completer is a configurable test double for memory.Completer. With no
// CompleteFunc it answers with Reply, or "summary" when Reply is empty.
// Every prompt is recorded. Safe for concurrent use.
type Completer struct {
	CompleteFunc func(ctx context.Context, prompt string) (string, error)
	Reply        string

	mu      sync.Mutex
	prompts []string
}

// Complete records the prompt and delegates to CompleteFunc.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	c.mu.Lock()
	c.prompts = append(c.prompts, prompt)
	c.mu.Unlock()

	if c.CompleteFunc != nil {
		return c.CompleteFunc(ctx, prompt)
	}
	if c.Reply != "" {
		return c.Reply, nil
	}
	return "summary", nil
}

// Calls returns the number of Complete calls.
func (c *Completer) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.prompts)
}

// Prompts returns a copy of every prompt received, in order.
func (c *Completer) Prompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.prompts...)
}

// LastPrompt returns the most recent prompt, or "" if none.
func (c *Completer) LastPrompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.prompts) == 0 {
		return ""
	}
	return c.prompts[len(c.prompts)-1]
}

// Embedder is a deterministic bag-of-words embedder: each lowercased
// term is hashed into one of Dims buckets. Texts that share terms have
// positive cosine similarity. Set EmbedFunc to override.
type Embedder struct {
	Dims      int
	EmbedFunc func(ctx context.Context, texts []string) ([][]float32, error)

	mu    sync.Mutex
	calls int
}

// Embed implements memory.Embedder.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()

	if e.EmbedFunc != nil {
		return e.EmbedFunc(ctx, texts)
	}
	dims := e.Dims
	if dims <= 0 {
		dims = 64
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = BagOfWords(t, dims)
	}
	return out, nil
}

// Calls returns the number of Embed calls.
func (e *Embedder) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// BagOfWords hashes the terms of text into a vector of the given size.
func BagOfWords(text string, dims int) []float32 {
	v := make([]float32, dims)
	terms := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, term := range terms {
		h := fnv.New32a()
		_, _ = h.Write([]byte(term))
		v[h.Sum32()%uint32(dims)]++
	}
	return v
}

// Indexer is a test double for memory.Indexer that records every chunk
// set it is asked to index. Search results come from SearchFunc, or the
// first k chunks when SearchFunc is nil.
type Indexer struct {
	IndexErr   error
	SearchFunc func(chunks []string, query string, k int) ([]string, error)

	mu     sync.Mutex
	builds [][]string
	closed int
}

// Index implements memory.Indexer.
func (x *Indexer) Index(_ context.Context, chunks []string) (memory.Index, error) {
	if x.IndexErr != nil {
		return nil, x.IndexErr
	}
	x.mu.Lock()
	x.builds = append(x.builds, append([]string(nil), chunks...))
	x.mu.Unlock()
	return &index{parent: x, chunks: append([]string(nil), chunks...)}, nil
}

// Builds returns every chunk set indexed so far.
func (x *Indexer) Builds() [][]string {
	x.mu.Lock()
	defer x.mu.Unlock()
	out := make([][]string, len(x.builds))
	copy(out, x.builds)
	return out
}

// Closed returns how many indexes have been closed.
func (x *Indexer) Closed() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.closed
}

type index struct {
	parent *Indexer
	chunks []string
}

func (i *index) Search(_ context.Context, query string, k int) ([]string, error) {
	if i.parent.SearchFunc != nil {
		return i.parent.SearchFunc(i.chunks, query, k)
	}
	return i.chunks[:min(k, len(i.chunks))], nil
}

func (i *index) Close() error {
	i.parent.mu.Lock()
	i.parent.closed++
	i.parent.mu.Unlock()
	return nil
}

// Interface guards.
var (
	_ memory.Completer = (*Completer)(nil)
	_ memory.Embedder  = (*Embedder)(nil)
	_ memory.Indexer   = (*Indexer)(nil)
)
