package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/flemzord/agentmem/internal/config"
	"github.com/flemzord/agentmem/internal/memory"
	"github.com/flemzord/agentmem/pkg/app"
	"github.com/spf13/cobra"
)

var demoMessages = []string{
	"What is the capital of France?",
	"Tell me more about its history.",
	"And what about its famous landmarks?",
	"Can you summarize our conversation so far?",
}

// demoOptions are small enough that four turns reach every strategy's
// consolidation or eviction path.
var demoOptions = map[string]map[string]any{
	memory.KindWindow:       {"window_size": 3},
	memory.KindHierarchical: {"short_term_threshold": 2},
	memory.KindCompression:  {"compression_threshold": 2},
	memory.KindPaged:        {"page_size": 2, "max_pages": 2},
	memory.KindRetrieval:    {"chunk_size": 200, "k": 2},
}

func demoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted conversation through every memory strategy",
		Long: `Runs the same four-turn conversation through each strategy and prints
the final context. Without --config the model is replaced by an offline
echo completer, so no API key is needed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			base := &config.Config{Version: "1"}
			var opts app.Options
			if path, _ := cmd.Flags().GetString("config"); path != "" {
				cfg, err := app.LoadConfig(path)
				if err != nil {
					return err
				}
				base = cfg
			} else {
				opts.Completer = echoCompleter{}
				opts.Embedder = hashEmbedder{dims: 256}
			}
			if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
				base.Logging.Level = lvl
				opts.LogOutput = cmd.ErrOrStderr()
			}

			kinds := memory.Kinds()
			if only, _ := cmd.Flags().GetString("strategy"); only != "" {
				kinds = []string{only}
			}
			return runDemo(cmd.Context(), cmd.OutOrStdout(), base, opts, kinds)
		},
	}
	cmd.Flags().String("strategy", "", "Run a single strategy kind (e.g. hierarchical)")
	return cmd
}

func runDemo(ctx context.Context, w io.Writer, base *config.Config, opts app.Options, kinds []string) error {
	var errs []error
	for _, kind := range kinds {
		if err := demoStrategy(ctx, w, base, opts, kind); err != nil {
			fmt.Fprintf(w, "An error occurred: %v\n", err)
			errs = append(errs, fmt.Errorf("%s: %w", kind, err))
		}
	}
	return errors.Join(errs...)
}

func demoStrategy(ctx context.Context, w io.Writer, base *config.Config, opts app.Options, kind string) error {
	fmt.Fprintf(w, "\n--- Running agent with %s memory ---\n", kind)

	cfg := *base
	cfg.Memory = config.MemoryConfig{Strategy: "memory." + kind}
	cfg.Telemetry = config.TelemetryConfig{}
	if o, ok := demoOptions[kind]; ok {
		if err := cfg.Memory.Options.Encode(o); err != nil {
			return err
		}
	}
	if kind != memory.KindRetrieval {
		cfg.Index = config.ModuleRef{}
	}

	rt, err := app.Build(ctx, &cfg, opts)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close(context.Background()) }()

	for _, msg := range demoMessages {
		fmt.Fprintf(w, "You: %s\n", msg)
		turn, err := rt.Agent.Chat(ctx, msg)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Agent: %s\n", turn.Reply)
	}

	query := ""
	if kind == memory.KindRetrieval {
		query = "What did we talk about?"
	}
	final, err := rt.Agent.Context(ctx, query)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\n--- Final context ---\n%s\n", final)

	rt.Agent.Clear()
	fmt.Fprintf(w, "--- %s memory cleared ---\n", kind)
	return nil
}
