// Package app assembles the agentmem runtime from a configuration: the
// provider, index and memory modules, the telemetry wrappers around them,
// and the agent that drives a conversation.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/flemzord/agentmem/internal/agent"
	"github.com/flemzord/agentmem/internal/config"
	"github.com/flemzord/agentmem/internal/core"
	"github.com/flemzord/agentmem/internal/logging"
	"github.com/flemzord/agentmem/internal/memory"
	"github.com/flemzord/agentmem/internal/provider"
	"github.com/flemzord/agentmem/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// ErrNoProvider is returned by Build when the configuration names no
// provider. The agent needs one to answer.
var ErrNoProvider = errors.New("app: provider.id is required to chat")

// Options tunes Build.
type Options struct {
	// LogOutput receives log records. Nil selects io.Discard.
	LogOutput io.Writer

	// Completer, when set, replaces the configured provider. The demo and
	// tests use it to run without network access.
	Completer memory.Completer

	// Embedder, when set, is published as the embedding backend.
	Embedder memory.Embedder
}

// Runtime is a built agentmem process.
type Runtime struct {
	Config   *config.Config
	Logger   *slog.Logger
	Agent    *agent.Agent
	Strategy memory.Strategy
	Registry *prometheus.Registry

	app         *core.App
	stopTracing func(context.Context) error
}

// Build loads every module cfg references, wraps the completer and the
// strategy with metrics and tracing, and returns the runtime. cfg must
// already be validated.
func Build(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	out := opts.LogOutput
	if out == nil {
		out = io.Discard
	}
	logger, err := logging.New(out, logging.Options{
		Level:  cfg.Logging.Level,
		Redact: cfg.Logging.Redact,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Provider.ID == "" && opts.Completer == nil {
		return nil, ErrNoProvider
	}

	stopTracing, err := telemetry.SetupTracing(ctx, telemetry.TracingConfig{
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		ServiceName: cfg.Telemetry.ServiceName,
	})
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.NewMetrics(reg)
	tracer := telemetry.Tracer()

	appCtx := core.NewAppContext(logger).WithModuleConfigs(cfg.ModuleConfigs())
	application := core.NewApp(appCtx)

	rt := &Runtime{
		Config:      cfg,
		Logger:      logger,
		Registry:    reg,
		app:         application,
		stopTracing: stopTracing,
	}
	fail := func(err error) (*Runtime, error) {
		_ = rt.Close(context.Background())
		return nil, err
	}

	completer := opts.Completer
	if completer == nil {
		if err := application.Load(cfg.Provider.ID); err != nil {
			return fail(err)
		}
		p, err := core.ServiceAs[provider.Provider](appCtx, provider.ServiceProvider)
		if err != nil {
			return fail(fmt.Errorf("app: %w", err))
		}
		completer = provider.NewTextCompleter(p, provider.CompleterConfig{
			SystemPrompt: cfg.Agent.SystemPrompt,
			MaxTokens:    cfg.Agent.MaxTokens,
			Temperature:  cfg.Agent.Temperature,
		}, logger.With("component", "completer"))
	}
	if opts.Embedder != nil {
		appCtx.RegisterService(memory.ServiceEmbedder, opts.Embedder)
	}
	completer = telemetry.InstrumentCompleter(telemetry.TraceCompleter(completer, tracer), metrics)
	appCtx.RegisterService(memory.ServiceCompleter, completer)

	var rest []string
	if id := cfg.IndexID(); id != "" {
		rest = append(rest, id)
	}
	rest = append(rest, cfg.Memory.Strategy)
	if err := application.Load(rest...); err != nil {
		return fail(err)
	}

	strategy, err := core.ServiceAs[memory.Strategy](appCtx, memory.ServiceStrategy)
	if err != nil {
		return fail(fmt.Errorf("app: %w", err))
	}
	rt.Strategy = telemetry.InstrumentStrategy(telemetry.TraceStrategy(strategy, tracer), metrics)

	rt.Agent, err = agent.New(rt.Strategy, completer, agent.Config{
		Timeout:        cfg.Agent.Timeout,
		QueryWithInput: cfg.Agent.QueryWithInput,
	}, logger.With("component", "agent"))
	if err != nil {
		return fail(err)
	}

	logger.Info("agentmem ready",
		"strategy", rt.Strategy.Name(),
		"provider", cfg.Provider.ID,
		"index", cfg.IndexID(),
	)
	return rt, nil
}

// Close stops every module in reverse load order and flushes traces.
func (r *Runtime) Close(ctx context.Context) error {
	var errs []error
	if r.app != nil {
		errs = append(errs, r.app.Stop(ctx))
	}
	if r.stopTracing != nil {
		errs = append(errs, r.stopTracing(ctx))
		r.stopTracing = nil
	}
	return errors.Join(errs...)
}
