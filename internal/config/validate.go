package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/flemzord/agentmem/internal/core"
	"github.com/flemzord/agentmem/internal/memory"
	"github.com/robfig/cron/v3"
)

// Validate checks the structural validity of a Config: the version, that
// every referenced module is registered under the expected namespace, that
// strategies get the backends they need, and that the clear schedule
// parses.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Version == "" {
		errs = append(errs, errors.New("config: version field is required"))
	} else if cfg.Version != "1" {
		errs = append(errs, fmt.Errorf("config: unsupported version %q (supported: \"1\")", cfg.Version))
	}

	if cfg.Memory.Strategy == "" {
		errs = append(errs, errors.New("config: memory.strategy is required"))
	} else {
		errs = append(errs, checkModule("memory.strategy", cfg.Memory.Strategy, core.NamespaceMemory)...)
	}

	if cfg.Provider.ID != "" {
		errs = append(errs, checkModule("provider.id", cfg.Provider.ID, core.NamespaceProvider)...)
	}
	if cfg.Index.ID != "" {
		errs = append(errs, checkModule("index.id", cfg.Index.ID, core.NamespaceIndex)...)
	}

	kind := core.ModuleID(cfg.Memory.Strategy).Name()
	if memory.NeedsCompleter(kind) && cfg.Provider.ID == "" {
		errs = append(errs, fmt.Errorf("config: memory strategy %q requires provider.id", cfg.Memory.Strategy))
	}
	if kind == memory.KindEmbedding || cfg.IndexID() == "index.vector" {
		if cfg.Provider.ID == "" {
			errs = append(errs, errors.New("config: embeddings require provider.id with an embedding model"))
		}
	}

	if cfg.Gateway.ClearSchedule != "" {
		if _, err := cron.ParseStandard(cfg.Gateway.ClearSchedule); err != nil {
			errs = append(errs, fmt.Errorf("config: gateway.clear_schedule: %w", err))
		}
	}

	if cfg.Logging.Level != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
			errs = append(errs, fmt.Errorf("config: logging.level: %w", err))
		}
	}

	return errors.Join(errs...)
}

func checkModule(field, id, namespace string) []error {
	if _, ok := core.GetModule(id); !ok {
		return []error{fmt.Errorf("config: %s: unknown module %q", field, id)}
	}
	if ns := core.ModuleID(id).Namespace(); ns != namespace {
		return []error{fmt.Errorf("config: %s: module %q is not in the %s namespace", field, id, namespace)}
	}
	return nil
}
