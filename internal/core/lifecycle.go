package core

import (
	"context"

	"gopkg.in/yaml.v3"
)

// Configurable is implemented by modules that accept YAML options. The node
// is an empty mapping when the configuration has no entry for the module.
type Configurable interface {
	Configure(node *yaml.Node) error
}

// Provisioner is implemented by modules that resolve dependencies or
// publish services once configured.
type Provisioner interface {
	Provision(ctx *AppContext) error
}

// Validator is implemented by modules that check their final state.
// Validate must not have side effects.
type Validator interface {
	Validate() error
}

// Stopper is implemented by modules that hold resources such as database
// handles. Stop is called in reverse load order when the runtime closes.
type Stopper interface {
	Stop(ctx context.Context) error
}
