// Package gateway serves one conversation's agent over HTTP and
// websocket.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/flemzord/agentmem/internal/agent"
	"github.com/prometheus/client_golang/prometheus"
)

// Gateway is the HTTP server in front of an Agent. Every endpoint goes
// through the agent, which serializes access to the memory.
type Gateway struct {
	config    Config
	agent     *agent.Agent
	gatherer  prometheus.Gatherer
	logger    *slog.Logger
	server    *http.Server
	startedAt time.Time
	addr      net.Addr
}

// New returns a Gateway for a. A nil gatherer disables /metrics.
func New(cfg Config, a *agent.Agent, gatherer prometheus.Gatherer, logger *slog.Logger) (*Gateway, error) {
	if a == nil {
		return nil, errors.New("gateway: agent is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	cfg.defaults()
	if _, err := net.ResolveTCPAddr("tcp", cfg.Addr); err != nil {
		return nil, fmt.Errorf("gateway: invalid addr %q: %w", cfg.Addr, err)
	}
	return &Gateway{
		config:   cfg,
		agent:    a,
		gatherer: gatherer,
		logger:   logger,
	}, nil
}

// Handler returns the gateway's routes.
func (g *Gateway) Handler() http.Handler {
	return g.buildRouter()
}

// Start listens on the configured address and serves in the background.
func (g *Gateway) Start() error {
	g.startedAt = time.Now()

	g.server = &http.Server{
		Addr:         g.config.Addr,
		Handler:      g.buildRouter(),
		ReadTimeout:  g.config.ReadTimeout,
		WriteTimeout: g.config.WriteTimeout,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", g.config.Addr)
	if err != nil {
		return fmt.Errorf("gateway: listen failed: %w", err)
	}
	g.addr = ln.Addr()

	go func() {
		g.logger.Info("gateway listening", "addr", g.addr.String())
		if err := g.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.logger.Error("gateway serve error", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound address once Start has returned.
func (g *Gateway) Addr() net.Addr {
	return g.addr
}

// Stop shuts the server down gracefully within the configured timeout.
func (g *Gateway) Stop(ctx context.Context) error {
	if g.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, g.config.ShutdownTimeout)
	defer cancel()

	g.logger.Info("gateway shutting down")
	return g.server.Shutdown(shutdownCtx)
}
