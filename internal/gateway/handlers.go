package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/flemzord/agentmem/internal/agent"
	"github.com/flemzord/agentmem/internal/memory"
	"github.com/flemzord/agentmem/internal/provider"
	"github.com/flemzord/agentmem/pkg/message"
)

// ChatRequest is the body of POST /v1/messages.
type ChatRequest struct {
	Content string `json:"content"`
}

// ChatResponse is returned by POST /v1/messages and over the websocket.
type ChatResponse struct {
	Reply      string `json:"reply"`
	Context    string `json:"context,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// RememberRequest is the body of POST /v1/memory.
type RememberRequest struct {
	Role    message.Role `json:"role"`
	Content string       `json:"content"`
}

// ContextResponse is returned by GET /v1/context.
type ContextResponse struct {
	Strategy string `json:"strategy"`
	Context  string `json:"context"`
}

// StatusResponse is returned by GET /v1/status.
type StatusResponse struct {
	Strategy      string `json:"strategy"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (g *Gateway) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (g *Gateway) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, StatusResponse{
			Strategy:      g.agent.Strategy(),
			UptimeSeconds: int64(time.Since(g.startedAt).Seconds()),
		})
	}
}

func (g *Gateway) handleChat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		turn, err := g.agent.Chat(r.Context(), req.Content)
		if err != nil {
			g.fail(w, "chat", err)
			return
		}
		writeJSON(w, http.StatusOK, chatResponse(turn, r.URL.Query().Get("include_context") == "true"))
	}
}

func (g *Gateway) handleRemember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RememberRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(string(req.Role)) == "" {
			writeError(w, http.StatusBadRequest, "role is required")
			return
		}

		if err := g.agent.Remember(r.Context(), req.Role, req.Content); err != nil {
			g.fail(w, "remember", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (g *Gateway) handleClear() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		g.agent.Clear()
		w.WriteHeader(http.StatusNoContent)
	}
}

func (g *Gateway) handleContext() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := g.agent.Context(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			g.fail(w, "context", err)
			return
		}
		writeJSON(w, http.StatusOK, ContextResponse{Strategy: g.agent.Strategy(), Context: out})
	}
}

func (g *Gateway) fail(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		g.logger.Error("gateway: request failed", "op", op, "error", err)
	}
	writeError(w, status, err.Error())
}

// statusFor maps agent and provider errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, agent.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, provider.ErrRateLimit):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, provider.ErrProviderDown),
		errors.Is(err, provider.ErrAuthentication),
		errors.Is(err, provider.ErrContextLength),
		errors.Is(err, provider.ErrEmptyResponse):
		return http.StatusBadGateway
	}
	var cerr *memory.ConsolidationError
	if errors.As(err, &cerr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func chatResponse(turn agent.Turn, withContext bool) ChatResponse {
	resp := ChatResponse{Reply: turn.Reply, DurationMS: turn.Duration.Milliseconds()}
	if withContext {
		resp.Context = turn.Context
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
