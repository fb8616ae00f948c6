package memory

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Splitter cuts text on a separator and greedily merges the pieces into
// chunks of at most Size characters, carrying up to Overlap characters of
// trailing context into the next chunk. A single piece longer than Size is
// emitted as its own oversized chunk.
type Splitter struct {
	size      int
	overlap   int
	separator string
	logger    *slog.Logger
}

// NewSplitter returns a Splitter. The overlap must not exceed the size.
func NewSplitter(size, overlap int, separator string, opts ...Option) (*Splitter, error) {
	cfg := RetrievalConfig{ChunkSize: size, ChunkOverlap: overlap, Separator: separator, K: 1}.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &Splitter{
		size:      cfg.ChunkSize,
		overlap:   cfg.ChunkOverlap,
		separator: cfg.Separator,
		logger:    o.logger,
	}, nil
}

// Split returns the chunks of text, in order. Empty text has no chunks.
func (s *Splitter) Split(text string) []string {
	var pieces []string
	for _, p := range strings.Split(text, s.separator) {
		if p != "" {
			pieces = append(pieces, p)
		}
	}
	return s.merge(pieces)
}

func (s *Splitter) merge(pieces []string) []string {
	sepLen := utf8.RuneCountInString(s.separator)
	joinCost := func(n int) int {
		if n > 0 {
			return sepLen
		}
		return 0
	}

	var (
		chunks []string
		window []string
		total  int
	)
	for _, p := range pieces {
		n := utf8.RuneCountInString(p)
		if total+n+joinCost(len(window)) > s.size {
			if total > s.size {
				s.logger.Warn("memory: chunk exceeds chunk size", "length", total, "chunk_size", s.size)
			}
			if len(window) > 0 {
				if c := s.join(window); c != "" {
					chunks = append(chunks, c)
				}
				for total > s.overlap || (total+n+joinCost(len(window)) > s.size && total > 0) {
					total -= utf8.RuneCountInString(window[0]) + joinCost(len(window)-1)
					window = window[1:]
				}
			}
		}
		window = append(window, p)
		total += n + joinCost(len(window)-1)
	}
	if c := s.join(window); c != "" {
		chunks = append(chunks, c)
	}
	return chunks
}

func (s *Splitter) join(pieces []string) string {
	return strings.TrimSpace(strings.Join(pieces, s.separator))
}
