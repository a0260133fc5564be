// Package extension is the process-wide entry-point registry through which
// separately built packages advertise objects to scrapectl.
//
// An entry point is a (group, name) pair that loads to a value. Packages add
// entry points directly with Register, or export values under a symbol with
// Export and let a YAML manifest bind names to those symbols.
package extension

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// CommandsGroup is the group scrapectl reads command entry points from.
const CommandsGroup = "scrapectl.commands"

// ErrUnknownSymbol is returned when a manifest refers to an object nobody
// exported.
var ErrUnknownSymbol = errors.New("unknown extension symbol")

// EntryPoint is one advertised object.
type EntryPoint struct {
	Group  string
	Name   string
	Object string

	load func() (any, error)
}

// Load resolves the entry point to its value.
func (ep EntryPoint) Load() (any, error) {
	if ep.load == nil {
		return nil, fmt.Errorf("entry point %s has no loader", ep.Name)
	}
	return ep.load()
}

// Manifest is the on-disk entry point list.
type Manifest struct {
	EntryPoints []ManifestEntry `yaml:"entry_points"`
}

// ManifestEntry binds a name in a group to an exported symbol.
type ManifestEntry struct {
	Name   string `yaml:"name"`
	Group  string `yaml:"group"`
	Object string `yaml:"object"`
}

// Registry holds entry points and exported symbols.
type Registry struct {
	mu      sync.RWMutex
	entries []EntryPoint
	symbols map[string]any
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{symbols: map[string]any{}}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Register adds an entry point whose value is known now.
func (r *Registry) Register(group, name string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, EntryPoint{
		Group:  group,
		Name:   name,
		Object: fmt.Sprintf("%T", value),
		load:   func() (any, error) { return value, nil },
	})
}

// Export makes value reachable from manifests as symbol.
func (r *Registry) Export(symbol string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.symbols[symbol] = value
}

// EntryPoints returns the entry points of group in registration order.
func (r *Registry) EntryPoints(group string) []EntryPoint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []EntryPoint
	for _, ep := range r.entries {
		if ep.Group == group {
			out = append(out, ep)
		}
	}
	return out
}

// AddManifest registers every manifest entry. Symbols are resolved lazily on
// Load so a manifest may be read before the exporting package initialises.
func (r *Registry) AddManifest(m Manifest) error {
	for i, entry := range m.EntryPoints {
		name := strings.TrimSpace(entry.Name)
		group := strings.TrimSpace(entry.Group)
		object := strings.TrimSpace(entry.Object)
		if name == "" || group == "" || object == "" {
			return fmt.Errorf("manifest entry %d: name, group and object are required", i)
		}
		r.mu.Lock()
		r.entries = append(r.entries, EntryPoint{
			Group:  group,
			Name:   name,
			Object: object,
			load:   func() (any, error) { return r.lookup(object) },
		})
		r.mu.Unlock()
	}
	return nil
}

// LoadManifest reads a YAML manifest from path and registers its entries.
func (r *Registry) LoadManifest(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read extension manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("parse extension manifest %s: %w", path, err)
	}
	if err := r.AddManifest(m); err != nil {
		return fmt.Errorf("extension manifest %s: %w", path, err)
	}
	return nil
}

func (r *Registry) lookup(symbol string) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok := r.symbols[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	return value, nil
}

// Register adds an entry point to the process-wide registry.
func Register(group, name string, value any) {
	defaultRegistry.Register(group, name, value)
}

// Export exports a symbol in the process-wide registry.
func Export(symbol string, value any) {
	defaultRegistry.Export(symbol, value)
}

// EntryPoints lists entry points of group in the process-wide registry.
func EntryPoints(group string) []EntryPoint {
	return defaultRegistry.EntryPoints(group)
}

// LoadManifest loads a manifest into the process-wide registry.
func LoadManifest(path string) error {
	return defaultRegistry.LoadManifest(path)
}
