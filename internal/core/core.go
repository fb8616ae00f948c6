package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// DefaultStopTimeout bounds how long Stop waits for all modules.
const DefaultStopTimeout = 30 * time.Second

// ErrNamespaceTaken is returned by Load when a second module is loaded into
// a namespace that already has one.
var ErrNamespaceTaken = errors.New("core: namespace already loaded")

// App owns the modules of one runtime: at most one provider, one index and
// one memory strategy.
type App struct {
	ctx    *AppContext
	logger *slog.Logger
	loaded []loadedModule
}

type loadedModule struct {
	id     ModuleID
	module Module
}

// NewApp returns an App that loads modules through ctx.
func NewApp(ctx *AppContext) *App {
	return &App{ctx: ctx, logger: ctx.Logger.With("component", "core")}
}

// Context returns the AppContext modules are loaded with.
func (a *App) Context() *AppContext { return a.ctx }

// Load loads modules in order. A failure stops every module loaded so far.
func (a *App) Load(ids ...string) error {
	for _, id := range ids {
		ns := ModuleID(id).Namespace()
		if prev, ok := a.inNamespace(ns); ok {
			a.Stop(context.Background())
			return fmt.Errorf("%w: %s holds %s, cannot load %s", ErrNamespaceTaken, prev, ns, id)
		}
		mod, err := a.ctx.LoadModule(id)
		if err != nil {
			a.Stop(context.Background())
			return err
		}
		a.loaded = append(a.loaded, loadedModule{id: ModuleID(id), module: mod})
		a.logger.Debug("module loaded", "module", id)
	}
	return nil
}

func (a *App) inNamespace(ns string) (ModuleID, bool) {
	for _, lm := range a.loaded {
		if lm.id.Namespace() == ns {
			return lm.id, true
		}
	}
	return "", false
}

// Module returns a loaded module by ID.
func (a *App) Module(id string) (Module, bool) {
	for _, lm := range a.loaded {
		if string(lm.id) == id {
			return lm.module, true
		}
	}
	return nil, false
}

// Stop stops loaded modules in reverse order and returns the joined
// errors. The App is empty afterwards and may load a fresh set.
func (a *App) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultStopTimeout)
	defer cancel()

	var errs []error
	for i := len(a.loaded) - 1; i >= 0; i-- {
		lm := a.loaded[i]
		s, ok := lm.module.(Stopper)
		if !ok {
			continue
		}
		if err := s.Stop(ctx); err != nil {
			a.logger.Error("module stop failed", "module", string(lm.id), "error", err)
			errs = append(errs, fmt.Errorf("stopping module %s: %w", lm.id, err))
		}
	}
	a.loaded = nil
	return errors.Join(errs...)
}
