// Package main is the entry point for the agentmem CLI.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/flemzord/agentmem/internal/core"
	"github.com/spf13/cobra"
)

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "agentmem",
		Short:         "Conversational memory strategies for LLM agents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "Path to configuration file")
	root.PersistentFlags().String("log-level", "", "Override logging.level (debug, info, warn, error)")
	root.AddCommand(
		versionCmd(),
		strategiesCmd(),
		chatCmd(),
		serveCmd(),
		demoCmd(),
		initCmd(),
		configCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and compiled modules",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "agentmem %s (commit: %s, built: %s)\n", version, commit, date)
			fmt.Fprintln(out, "\nCompiled modules:")
			for _, mod := range core.GetModules() {
				fmt.Fprintf(out, "  %s\n", mod.ID)
			}
		},
	}
}

func strategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List memory strategies, providers and index backends",
		Run: func(cmd *cobra.Command, _ []string) {
			listModules(cmd.OutOrStdout())
		},
	}
}

func listModules(w io.Writer) {
	for _, ns := range core.Namespaces() {
		fmt.Fprintf(w, "%s:\n", ns)
		for _, mod := range core.GetModulesByNamespace(ns) {
			fmt.Fprintf(w, "  %s\n", mod.ID)
		}
	}
}
