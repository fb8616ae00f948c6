package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"unicode"
)

// KeywordIndexer builds in-memory indexes that rank chunks by how many
// distinct query terms they contain. It needs no model backend.
type KeywordIndexer struct{}

var _ Indexer = KeywordIndexer{}

// Index implements Indexer.
func (KeywordIndexer) Index(_ context.Context, chunks []string) (Index, error) {
	idx := &keywordIndex{
		chunks: slices.Clone(chunks),
		terms:  make([]map[string]struct{}, len(chunks)),
	}
	for i, c := range chunks {
		idx.terms[i] = termSet(c)
	}
	return idx, nil
}

type keywordIndex struct {
	chunks []string
	terms  []map[string]struct{}
}

// Search returns the k chunks sharing the most terms with the query. Chunks
// with equal scores keep their original order, so when fewer than k chunks
// match the rest are filled from the unmatched chunks in index order.
func (x *keywordIndex) Search(_ context.Context, query string, k int) ([]string, error) {
	if k <= 0 {
		return nil, nil
	}
	q := termSet(query)

	ranked := make([]scored, len(x.terms))
	for i, terms := range x.terms {
		hits := 0
		for t := range q {
			if _, ok := terms[t]; ok {
				hits++
			}
		}
		ranked[i] = scored{pos: i, score: float64(hits)}
	}
	slices.SortStableFunc(ranked, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	out := make([]string, 0, min(k, len(ranked)))
	for _, r := range ranked[:min(k, len(ranked))] {
		out = append(out, x.chunks[r.pos])
	}
	return out, nil
}

func (x *keywordIndex) Close() error { return nil }

// termSet lowercases text and splits it on anything that is not a letter
// or digit.
func termSet(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
