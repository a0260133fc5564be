// Package registry aggregates scrapectl commands from their discovery
// sources into the name-to-command table the dispatcher looks names up in.
//
// Sources are merged in a fixed order: the built-in command packages, then
// extension entry points, then the project's own command packages. A later
// source replaces an earlier command of the same name.
package registry

import (
	"errors"
	"fmt"
	"path"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/louisbranch/scrapectl/internal/command"
	"github.com/louisbranch/scrapectl/internal/extension"
)

// BuiltinRoot is the package tree holding the built-in commands.
const BuiltinRoot = "github.com/louisbranch/scrapectl/internal/commands"

// Factory builds a fresh command instance.
type Factory func() command.Command

// Definition is one compiled-in command type.
type Definition struct {
	// Package is the import path of the package declaring the type.
	Package string
	// Type is the declared type name.
	Type string
	New  Factory
}

// Name is the command name: the last element of the declaring package path.
func (d Definition) Name() string {
	return path.Base(d.Package)
}

// Table maps command names to instances.
type Table map[string]command.Command

// Names returns the command names in lexical order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ConfigError reports an extension entry point that cannot serve as a command.
type ConfigError struct {
	Entry string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid entry point %s: %v", e.Entry, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ErrNotCommandFactory is wrapped by ConfigError when an entry point loads to
// something other than a command factory.
var ErrNotCommandFactory = errors.New("entry point is not a command factory")

// Catalog is a table of compiled-in command definitions.
type Catalog struct {
	mu   sync.RWMutex
	defs []Definition
}

var defaultCatalog = &Catalog{}

// DefaultCatalog returns the process-wide catalog that Declare writes to.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

// Declare adds definitions to the catalog.
func (c *Catalog) Declare(defs ...Definition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defs = append(c.defs, defs...)
}

// Declare adds definitions to the process-wide catalog. Command packages call
// it from init.
func Declare(defs ...Definition) {
	defaultCatalog.Declare(defs...)
}

// Scan returns the definitions declared in root or any package below it, in
// declaration order.
func (c *Catalog) Scan(root string) []Definition {
	root = strings.TrimSuffix(strings.TrimSpace(root), "/")
	if root == "" {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Definition
	for _, def := range c.defs {
		if def.Package == root || strings.HasPrefix(def.Package, root+"/") {
			out = append(out, def)
		}
	}
	return out
}

// Scanner lists compiled-in definitions below a package root.
type Scanner interface {
	Scan(root string) []Definition
}

// EntryPointSource lists extension entry points of a group.
type EntryPointSource interface {
	EntryPoints(group string) []extension.EntryPoint
}

// Builder assembles a Table from the three discovery sources.
type Builder struct {
	Catalog     Scanner
	Extensions  EntryPointSource
	BuiltinRoot string
	Group       string
}

// NewBuilder returns a builder over the process-wide catalog and extension
// registry.
func NewBuilder() Builder {
	return Builder{
		Catalog:     defaultCatalog,
		Extensions:  extension.Default(),
		BuiltinRoot: BuiltinRoot,
		Group:       extension.CommandsGroup,
	}
}

// Build merges the built-in commands, the extension commands and the commands
// below projectModule. Outside a project, commands that require one are
// dropped from the scanned sources; extension commands are always kept.
func (b Builder) Build(projectModule string, inProject bool) (Table, error) {
	table := Table{}
	if b.Catalog != nil {
		for name, cmd := range commandsFromPackages(b.Catalog, b.BuiltinRoot, inProject) {
			table[name] = cmd
		}
	}
	if b.Extensions != nil {
		extCmds, err := commandsFromEntryPoints(b.Extensions, b.Group)
		if err != nil {
			return nil, err
		}
		for name, cmd := range extCmds {
			table[name] = cmd
		}
	}
	if b.Catalog != nil && strings.TrimSpace(projectModule) != "" {
		for name, cmd := range commandsFromPackages(b.Catalog, projectModule, inProject) {
			table[name] = cmd
		}
	}
	return table, nil
}

var sentinelTypes = []reflect.Type{
	reflect.TypeOf(command.Base{}),
	reflect.TypeOf(command.RunSpiderBase{}),
}

func commandsFromPackages(scanner Scanner, root string, inProject bool) map[string]command.Command {
	out := map[string]command.Command{}
	for _, def := range scanner.Scan(root) {
		cmd, ok := instantiate(def)
		if !ok {
			continue
		}
		if inProject || !cmd.RequiresProject() {
			out[def.Name()] = cmd
		}
	}
	return out
}

// instantiate builds the definition's command, refusing sentinel base types
// and types declared outside the definition's package.
func instantiate(def Definition) (command.Command, bool) {
	if def.New == nil {
		return nil, false
	}
	cmd := def.New()
	if cmd == nil {
		return nil, false
	}
	t := reflect.TypeOf(cmd)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() != def.Package {
		return nil, false
	}
	for _, sentinel := range sentinelTypes {
		if t == sentinel {
			return nil, false
		}
	}
	return cmd, true
}

func commandsFromEntryPoints(src EntryPointSource, group string) (map[string]command.Command, error) {
	out := map[string]command.Command{}
	for _, ep := range src.EntryPoints(group) {
		value, err := ep.Load()
		if err != nil {
			return nil, &ConfigError{Entry: ep.Name, Err: err}
		}
		factory, ok := asFactory(value)
		if !ok {
			return nil, &ConfigError{Entry: ep.Name, Err: fmt.Errorf("%w: %T", ErrNotCommandFactory, value)}
		}
		cmd := factory()
		if cmd == nil {
			return nil, &ConfigError{Entry: ep.Name, Err: errors.New("factory returned nil")}
		}
		out[ep.Name] = cmd
	}
	return out, nil
}

func asFactory(value any) (Factory, bool) {
	switch f := value.(type) {
	case Factory:
		return f, f != nil
	case func() command.Command:
		return f, f != nil
	}
	return nil, false
}
