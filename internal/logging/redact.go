package logging

import (
	"regexp"
	"strings"
	"sync"
)

// Placeholder replaces every redacted value.
const Placeholder = "***REDACTED***"

// defaultPatterns match API key formats of the supported providers.
var defaultPatterns = []*regexp.Regexp{
	// Anthropic before OpenAI: both start with sk-.
	regexp.MustCompile(`sk-ant-[a-zA-Z0-9\-_]{20,}`),
	regexp.MustCompile(`sk-(proj-)?[a-zA-Z0-9\-_]{20,}`),
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-_.=]{16,}`),
}

// Redactor scrubs API keys from strings. Safe for concurrent use.
type Redactor struct {
	mu       sync.RWMutex
	literals []string
}

// NewRedactor returns a Redactor that also scrubs the given literal values.
// Empty literals are ignored.
func NewRedactor(literals ...string) *Redactor {
	r := &Redactor{}
	for _, l := range literals {
		r.AddLiteral(l)
	}
	return r
}

// AddLiteral registers a value, such as a configured API key, to scrub.
func (r *Redactor) AddLiteral(secret string) {
	if secret == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.literals = append(r.literals, secret)
}

// Redact replaces known key patterns and literals in s with Placeholder.
func (r *Redactor) Redact(s string) string {
	if s == "" {
		return s
	}

	r.mu.RLock()
	literals := r.literals
	r.mu.RUnlock()

	for _, lit := range literals {
		s = strings.ReplaceAll(s, lit, Placeholder)
	}
	for _, p := range defaultPatterns {
		s = p.ReplaceAllString(s, Placeholder)
	}
	return s
}
