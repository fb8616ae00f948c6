package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/flemzord/agentmem/internal/config"
	"github.com/flemzord/agentmem/pkg/app"
	"github.com/flemzord/agentmem/pkg/message"
	"github.com/spf13/cobra"
)

// loadConfig resolves and validates the --config file and applies
// --log-level.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := app.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	return cfg, nil
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the configured memory over stdin",
		Long: `Reads one message per line and prints the reply.

Commands:
  /context  print the current memory context
  /clear    empty the memory
  /exit     quit`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := app.Build(ctx, cfg, app.Options{LogOutput: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close(context.Background()) }()

			return repl(ctx, rt, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// repl runs chat turns until in is exhausted, ctx is done, or /exit.
func repl(ctx context.Context, rt *app.Runtime, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "agentmem chat (%s). /exit to quit.\n", rt.Strategy.Name())

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "/exit":
			return nil
		case line == "/clear":
			rt.Agent.Clear()
			fmt.Fprintln(out, "(memory cleared)")
			continue
		case line == "/context":
			c, err := rt.Agent.Context(ctx, "")
			if err != nil {
				fmt.Fprintln(out, "error:", err)
				continue
			}
			fmt.Fprintln(out, c)
			continue
		case strings.HasPrefix(line, "/system "):
			if err := rt.Agent.Remember(ctx, message.RoleSystem, strings.TrimPrefix(line, "/system ")); err != nil {
				fmt.Fprintln(out, "error:", err)
			}
			continue
		}

		turn, err := rt.Agent.Chat(ctx, line)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintln(out, "error:", err)
			continue
		}
		fmt.Fprintln(out, turn.Reply)
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the configured memory over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.Gateway.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := app.Build(ctx, cfg, app.Options{LogOutput: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close(context.Background()) }()

			return app.Serve(ctx, rt)
		},
	}
	cmd.Flags().String("addr", "", "Override gateway.addr")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check [path]",
		Short: "Validate configuration and provision its modules",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if len(args) == 1 {
				path = args[0]
			}
			cfg, err := app.LoadConfig(path)
			if err != nil {
				return err
			}

			var opts app.Options
			if cfg.Provider.ID == "" {
				opts.Completer = echoCompleter{}
			}
			rt, err := app.Build(cmd.Context(), cfg, opts)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close(context.Background()) }()

			out := cmd.OutOrStdout()
			ids := cfg.ModuleIDs()
			fmt.Fprintf(out, "Configuration OK (%d modules)\n", len(ids))
			for _, id := range ids {
				fmt.Fprintf(out, "  %s\n", id)
			}
			if cfg.Provider.ID == "" {
				fmt.Fprintln(out, "note: no provider configured; chat and serve need provider.id")
			}
			return nil
		},
	})
	return cmd
}
