package main

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"

	"github.com/flemzord/agentmem/internal/memory"
)

// echoCompleter answers without a model: it repeats the last line of the
// prompt, cut to a few words. It lets the demo and config checks run with
// no provider and no network.
type echoCompleter struct{}

var _ memory.Completer = echoCompleter{}

const echoWords = 12

func (echoCompleter) Complete(_ context.Context, prompt string) (string, error) {
	lines := strings.Split(strings.TrimSpace(prompt), "\n")
	last := lines[len(lines)-1]
	words := strings.Fields(last)
	if len(words) > echoWords {
		words = append(words[:echoWords], "...")
	}
	return "(echo) " + strings.Join(words, " "), nil
}

// hashEmbedder is a feature-hashing embedder: each lowercased term adds
// one to the bucket its FNV hash selects.
type hashEmbedder struct {
	dims int
}

var _ memory.Embedder = hashEmbedder{}

func (e hashEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v := make([]float32, e.dims)
		terms := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, term := range terms {
			h := fnv.New32a()
			_, _ = h.Write([]byte(term))
			v[h.Sum32()%uint32(e.dims)]++
		}
		out[i] = v
	}
	return out, nil
}
