package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/flemzord/agentmem/internal/agent"
	"github.com/flemzord/agentmem/internal/memory"
	"github.com/flemzord/agentmem/internal/provider"
)

func TestNew_RequiresAgent(t *testing.T) {
	if _, err := New(Config{}, nil, nil, testLogger()); err == nil {
		t.Fatal("expected error for nil agent")
	}
}

func TestNew_InvalidAddr(t *testing.T) {
	g, _ := newTestGateway(t, Config{})
	if _, err := New(Config{Addr: "not an addr"}, g.agent, nil, testLogger()); err == nil {
		t.Fatal("expected error for invalid addr")
	}
}

func TestHealth(t *testing.T) {
	g, _ := newTestGateway(t, Config{})
	rec := do(t, g.Handler(), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestChat(t *testing.T) {
	g, completer := newTestGateway(t, Config{})
	h := g.Handler()

	rec := do(t, h, http.MethodPost, "/v1/messages?include_context=true", `{"content":"hi there"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp ChatResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Reply != "hello back" {
		t.Errorf("reply = %q", resp.Reply)
	}
	if resp.Context != "user: hi there" {
		t.Errorf("context = %q", resp.Context)
	}
	if completer.LastPrompt() != "user: hi there" {
		t.Errorf("prompt = %q", completer.LastPrompt())
	}

	rec = do(t, h, http.MethodGet, "/v1/context", "")
	var ctxResp ContextResponse
	if err := json.NewDecoder(rec.Body).Decode(&ctxResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := "user: hi there\nassistant: hello back"
	if ctxResp.Context != want {
		t.Errorf("context = %q, want %q", ctxResp.Context, want)
	}
	if ctxResp.Strategy != memory.KindSequential {
		t.Errorf("strategy = %q", ctxResp.Strategy)
	}
}

func TestChat_BadRequests(t *testing.T) {
	g, _ := newTestGateway(t, Config{})
	h := g.Handler()

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"empty content", `{"content":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/messages", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestChat_ProviderErrorStatus(t *testing.T) {
	g, completer := newTestGateway(t, Config{})
	completer.CompleteFunc = func(context.Context, string) (string, error) {
		return "", fmt.Errorf("anthropic: %w", provider.ErrRateLimit)
	}

	rec := do(t, g.Handler(), http.MethodPost, "/v1/messages", `{"content":"hi"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
}

func TestRememberAndClear(t *testing.T) {
	g, completer := newTestGateway(t, Config{})
	h := g.Handler()

	rec := do(t, h, http.MethodPost, "/v1/memory", `{"role":"system","content":"be brief"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("remember status = %d", rec.Code)
	}
	if completer.Calls() != 0 {
		t.Errorf("remember called the completer %d times", completer.Calls())
	}

	rec = do(t, h, http.MethodGet, "/v1/context", "")
	if !strings.Contains(rec.Body.String(), "system: be brief") {
		t.Errorf("context = %s", rec.Body.String())
	}

	rec = do(t, h, http.MethodDelete, "/v1/memory", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("clear status = %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/v1/context", "")
	var resp ContextResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Context != "" {
		t.Errorf("context after clear = %q", resp.Context)
	}
}

func TestRemember_MissingRole(t *testing.T) {
	g, _ := newTestGateway(t, Config{})
	rec := do(t, g.Handler(), http.MethodPost, "/v1/memory", `{"content":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestStatus(t *testing.T) {
	g, _ := newTestGateway(t, Config{})
	rec := do(t, g.Handler(), http.MethodGet, "/v1/status", "")
	var resp StatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Strategy != memory.KindSequential {
		t.Errorf("strategy = %q", resp.Strategy)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	g, _ := newTestGateway(t, Config{})
	rec := do(t, g.Handler(), http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAuth(t *testing.T) {
	g, _ := newTestGateway(t, Config{Auth: AuthConfig{BearerToken: "secret"}})
	h := g.Handler()

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer secret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/v1/status", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := serve(h, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}

	// Health stays public.
	if rec := do(t, h, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", rec.Code)
	}
}

func TestAuth_Basic(t *testing.T) {
	g, _ := newTestGateway(t, Config{Auth: AuthConfig{BasicUser: "u", BasicPass: "p"}})

	req, _ := http.NewRequest(http.MethodGet, "/v1/status", nil)
	req.SetBasicAuth("u", "p")
	if rec := serve(g.Handler(), req); rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"empty input", agent.ErrEmptyInput, http.StatusBadRequest},
		{"rate limit", fmt.Errorf("x: %w", provider.ErrRateLimit), http.StatusTooManyRequests},
		{"down", provider.ErrProviderDown, http.StatusBadGateway},
		{"deadline", fmt.Errorf("x: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"consolidation", &memory.ConsolidationError{Strategy: "summary", Op: "summarize", Err: errors.New("boom")}, http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStartStop(t *testing.T) {
	g, _ := newTestGateway(t, Config{Addr: "127.0.0.1:0"})
	if err := g.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	resp, err := http.Get("http://" + g.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	if err := g.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestStop_NotStarted(t *testing.T) {
	g, _ := newTestGateway(t, Config{})
	if err := g.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestWebsocketChat(t *testing.T) {
	g, _ := newTestGateway(t, Config{Addr: "127.0.0.1:0"})
	if err := g.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = g.Stop(context.Background()) })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws://"+g.Addr().String()+"/v1/ws", nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "") }()

	for _, body := range []string{`{"content":"one"}`, `{"content":""}`} {
		if err := conn.Write(ctx, websocket.MessageText, []byte(body)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	var first, second wsFrame
	readFrame(ctx, t, conn, &first)
	readFrame(ctx, t, conn, &second)

	if first.Reply != "hello back" || first.Error != "" {
		t.Errorf("first frame = %+v", first)
	}
	if second.Error == "" {
		t.Errorf("second frame should carry an error: %+v", second)
	}
}

func readFrame(ctx context.Context, t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
}
