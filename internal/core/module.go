// Package core provides the module registry and lifecycle that assemble an
// agentmem runtime from configuration.
package core

import (
	"slices"
	"strings"
)

// Module namespaces. Every registered ID lives in one of them and the
// configuration selects at most one module per namespace.
const (
	NamespaceMemory   = "memory"
	NamespaceProvider = "provider"
	NamespaceIndex    = "index"
)

// Namespaces returns the module namespaces in the order they are loaded:
// a provider first, then the index it may embed with, then the strategy.
func Namespaces() []string {
	return []string{NamespaceProvider, NamespaceIndex, NamespaceMemory}
}

func knownNamespace(ns string) bool {
	return slices.Contains(Namespaces(), ns)
}

// ModuleID is a dotted identifier of the form "namespace.name", for
// example "memory.hierarchical" or "provider.anthropic".
type ModuleID string

// Namespace returns the part of the ID before the first dot.
func (id ModuleID) Namespace() string {
	ns, _, _ := strings.Cut(string(id), ".")
	return ns
}

// Name returns the part of the ID after the first dot.
func (id ModuleID) Name() string {
	_, name, found := strings.Cut(string(id), ".")
	if !found {
		return string(id)
	}
	return name
}

// ModuleInfo describes a registered module.
type ModuleInfo struct {
	ID  ModuleID
	New func() Module
}

// Module is implemented by every registrable component.
type Module interface {
	ModuleInfo() ModuleInfo
}
