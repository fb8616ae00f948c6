package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/flemzord/agentmem/internal/config"
	"github.com/flemzord/agentmem/internal/cron"
	"github.com/flemzord/agentmem/internal/gateway"
)

// Serve runs the HTTP gateway, and the memory clear job when a schedule is
// configured, until ctx is cancelled.
func Serve(ctx context.Context, rt *Runtime) error {
	gw, err := gateway.New(gateway.Config{
		Addr: rt.Config.Gateway.Addr,
		Auth: gateway.AuthConfig{
			BearerToken: rt.Config.Gateway.Auth.BearerToken,
			BasicUser:   rt.Config.Gateway.Auth.BasicUser,
			BasicPass:   rt.Config.Gateway.Auth.BasicPass,
		},
	}, rt.Agent, rt.Registry, rt.Logger.With("component", "gateway"))
	if err != nil {
		return err
	}

	var sched *cron.Scheduler
	if expr := rt.Config.Gateway.ClearSchedule; expr != "" {
		sched = cron.NewScheduler(rt.Logger.With("component", "cron"))
		if err := sched.RegisterJob(&cron.ClearMemoryJob{
			Memory:       rt.Agent,
			Logger:       rt.Logger,
			ScheduleExpr: expr,
		}); err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
	}

	if err := gw.Start(); err != nil {
		if sched != nil {
			_ = sched.Stop(context.Background())
		}
		return err
	}

	<-ctx.Done()

	// The parent context is done; shut down on a fresh one.
	stopCtx := context.WithoutCancel(ctx)
	var errs []error
	errs = append(errs, gw.Stop(stopCtx))
	if sched != nil {
		errs = append(errs, sched.Stop(stopCtx))
	}
	return errors.Join(errs...)
}

// LoadConfig loads and validates the configuration at path. An empty path
// is resolved with ResolveConfigPath.
func LoadConfig(path string) (*config.Config, error) {
	if path == "" {
		resolved, err := ResolveConfigPath()
		if err != nil {
			return nil, err
		}
		path = resolved
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolveConfigPath searches for a config file in standard locations.
// Search order: $AGENTMEM_CONFIG → $XDG_CONFIG_HOME/agentmem/agentmem.yaml
// → ~/.config/agentmem/agentmem.yaml → ./agentmem.yaml
func ResolveConfigPath() (string, error) {
	if p := os.Getenv("AGENTMEM_CONFIG"); p != "" {
		return p, nil
	}

	var candidates []string

	if xdg, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		candidates = append(candidates, filepath.Join(xdg, "agentmem", "agentmem.yaml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "agentmem", "agentmem.yaml"))
	}

	candidates = append(candidates, "agentmem.yaml")

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no configuration file found (searched: %v)", candidates)
}
