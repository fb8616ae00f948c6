package gateway

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/flemzord/agentmem/internal/agent"
	"github.com/flemzord/agentmem/internal/memory"
	"github.com/flemzord/agentmem/internal/memory/memorytest"
	"github.com/prometheus/client_golang/prometheus"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// newTestGateway returns a gateway over a sequential memory and the
// completer double behind it.
func newTestGateway(t *testing.T, cfg Config) (*Gateway, *memorytest.Completer) {
	t.Helper()
	completer := &memorytest.Completer{Reply: "hello back"}
	a, err := agent.New(memory.NewSequential(), completer, agent.Config{}, testLogger())
	if err != nil {
		t.Fatalf("agent.New: %v", err)
	}
	g, err := New(cfg, a, prometheus.NewRegistry(), testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g, completer
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
