package memory

import (
	"fmt"

	"github.com/flemzord/agentmem/internal/core"
	"gopkg.in/yaml.v3"
)

// Service names through which modules exchange memory backends.
const (
	ServiceCompleter = "memory.completer"
	ServiceEmbedder  = "memory.embedder"
	ServiceIndexer   = "memory.indexer"
	ServiceStrategy  = "memory.strategy"
)

func init() {
	for _, kind := range kinds {
		core.RegisterModule(&Module{kind: kind})
	}
	core.RegisterModule(&keywordIndexModule{})
	core.RegisterModule(&vectorIndexModule{})
}

// Module exposes one strategy kind as the core module "memory.<kind>".
// Backends are resolved from the services published by provider and index
// modules, and the built strategy is published as ServiceStrategy.
type Module struct {
	kind     string
	node     *yaml.Node
	strategy Strategy
}

var (
	_ core.Configurable = (*Module)(nil)
	_ core.Provisioner  = (*Module)(nil)
	_ core.Validator    = (*Module)(nil)
)

// ModuleInfo implements core.Module.
func (m *Module) ModuleInfo() core.ModuleInfo {
	kind := m.kind
	return core.ModuleInfo{
		ID:  core.ModuleID("memory." + kind),
		New: func() core.Module { return &Module{kind: kind} },
	}
}

// Configure implements core.Configurable. Decoding is deferred to
// Provision where the concrete config type is known.
func (m *Module) Configure(node *yaml.Node) error {
	m.node = node
	return nil
}

// Provision implements core.Provisioner.
func (m *Module) Provision(ctx *core.AppContext) error {
	var deps Deps
	if svc, ok := ctx.Service(ServiceCompleter); ok {
		c, ok := svc.(Completer)
		if !ok {
			return fmt.Errorf("memory: service %s has type %T", ServiceCompleter, svc)
		}
		deps.Completer = c
	}
	if svc, ok := ctx.Service(ServiceIndexer); ok {
		ix, ok := svc.(Indexer)
		if !ok {
			return fmt.Errorf("memory: service %s has type %T", ServiceIndexer, svc)
		}
		deps.Indexer = ix
	}
	if svc, ok := ctx.Service(ServiceEmbedder); ok {
		e, ok := svc.(Embedder)
		if !ok {
			return fmt.Errorf("memory: service %s has type %T", ServiceEmbedder, svc)
		}
		deps.Embedder = e
	}

	var decode Decoder
	if m.node != nil {
		decode = m.node.Decode
	}
	s, err := New(m.kind, decode, deps, WithLogger(ctx.Logger))
	if err != nil {
		return err
	}
	m.strategy = s
	ctx.RegisterService(ServiceStrategy, s)
	return nil
}

// Validate implements core.Validator.
func (m *Module) Validate() error {
	if m.strategy == nil {
		return fmt.Errorf("memory: %s strategy was not provisioned", m.kind)
	}
	return nil
}

// Strategy returns the provisioned strategy.
func (m *Module) Strategy() Strategy { return m.strategy }

// keywordIndexModule publishes a KeywordIndexer as "index.keyword".
type keywordIndexModule struct{}

func (keywordIndexModule) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "index.keyword",
		New: func() core.Module { return &keywordIndexModule{} },
	}
}

func (keywordIndexModule) Provision(ctx *core.AppContext) error {
	ctx.RegisterService(ServiceIndexer, KeywordIndexer{})
	return nil
}

// vectorIndexModule publishes a VectorIndexer over the registered embedder
// as "index.vector".
type vectorIndexModule struct{}

func (vectorIndexModule) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "index.vector",
		New: func() core.Module { return &vectorIndexModule{} },
	}
}

func (vectorIndexModule) Provision(ctx *core.AppContext) error {
	embedder, err := core.ServiceAs[Embedder](ctx, ServiceEmbedder)
	if err != nil {
		return fmt.Errorf("index.vector: %w", err)
	}
	ix, err := NewVectorIndexer(embedder)
	if err != nil {
		return err
	}
	ctx.RegisterService(ServiceIndexer, ix)
	return nil
}
