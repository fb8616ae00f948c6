package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/flemzord/agentmem/internal/memory"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// initAnswers holds what `agentmem init` asks for.
type initAnswers struct {
	Strategy  string
	Provider  string
	BaseURL   string
	Model     string
	APIKeyEnv string
	Addr      string
}

func defaultAnswers() initAnswers {
	return initAnswers{
		Strategy:  memory.KindSequential,
		Provider:  "provider.openai_compatible",
		BaseURL:   "https://api.openai.com/v1",
		Model:     "gpt-4o-mini",
		APIKeyEnv: "OPENAI_API_KEY",
		Addr:      "127.0.0.1:8080",
	}
}

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			output, _ := cmd.Flags().GetString("output")
			force, _ := cmd.Flags().GetBool("force")
			yes, _ := cmd.Flags().GetBool("yes")

			if _, err := os.Stat(output); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", output)
			}

			answers := defaultAnswers()
			if s, _ := cmd.Flags().GetString("strategy"); s != "" {
				answers.Strategy = s
			}
			if !yes {
				if err := initForm(&answers).Run(); err != nil {
					if errors.Is(err, huh.ErrUserAborted) {
						return nil
					}
					return err
				}
			}

			raw, err := renderConfig(answers)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, raw, 0o600); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "agentmem.yaml", "File to write")
	cmd.Flags().Bool("force", false, "Overwrite an existing file")
	cmd.Flags().BoolP("yes", "y", false, "Accept defaults without prompting")
	cmd.Flags().String("strategy", "", "Memory strategy kind")
	return cmd
}

func initForm(a *initAnswers) *huh.Form {
	strategies := make([]huh.Option[string], 0, len(memory.Kinds()))
	for _, kind := range memory.Kinds() {
		strategies = append(strategies, huh.NewOption(kind, kind))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Memory strategy").
				Options(strategies...).
				Value(&a.Strategy),
			huh.NewSelect[string]().
				Title("Provider").
				Options(
					huh.NewOption("OpenAI-compatible (OpenAI, Ollama, vLLM)", "provider.openai_compatible"),
					huh.NewOption("Anthropic", "provider.anthropic"),
				).
				Value(&a.Provider),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Base URL").
				Value(&a.BaseURL),
		).WithHideFunc(func() bool { return a.Provider != "provider.openai_compatible" }),
		huh.NewGroup(
			huh.NewInput().
				Title("Model").
				Value(&a.Model).
				Validate(notBlank("model")),
			huh.NewInput().
				Title("API key environment variable").
				Value(&a.APIKeyEnv).
				Validate(notBlank("environment variable")),
			huh.NewInput().
				Title("Gateway address").
				Value(&a.Addr),
		),
	)
}

func notBlank(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

type initFile struct {
	Version  string     `yaml:"version"`
	Memory   initMemory `yaml:"memory"`
	Provider initModule `yaml:"provider"`
	Gateway  struct {
		Addr string `yaml:"addr"`
	} `yaml:"gateway"`
}

type initMemory struct {
	Strategy string `yaml:"strategy"`
}

type initModule struct {
	ID      string         `yaml:"id"`
	Options map[string]any `yaml:"options"`
}

// renderConfig renders answers as a configuration file. The API key is
// referenced through the environment, never written.
func renderConfig(a initAnswers) ([]byte, error) {
	var f initFile
	f.Version = "1"
	f.Memory.Strategy = "memory." + a.Strategy
	f.Provider.ID = a.Provider
	f.Provider.Options = map[string]any{
		"model":       a.Model,
		"api_key_env": a.APIKeyEnv,
	}
	if a.Provider == "provider.openai_compatible" {
		f.Provider.Options["base_url"] = a.BaseURL
	}
	f.Gateway.Addr = a.Addr

	raw, err := yaml.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("rendering config: %w", err)
	}
	return raw, nil
}
