package providers

import (
	"fmt"
	"strings"
	"sync"

	"github.com/oxhq/windjammer/providers/catalog"
)

// Registry manages registered target backends with thread-safe operations,
// grounded on the teacher's providers.Registry (canonical name -> provider
// map) paired with internal/registry.Registry's alias/extension bookkeeping,
// generalized from a language registry to a code-generation target registry.
type Registry struct {
	mu      sync.RWMutex
	backends map[string]Backend
	aliases  map[string]string
}

// NewRegistry returns an empty backend registry.
func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[string]Backend),
		aliases:  make(map[string]string),
	}
}

// Register adds backend under its canonical Name(), plus any aliases, and
// records its metadata in the shared catalog for extension-based lookup.
func (r *Registry) Register(backend Backend, aliases ...string) error {
	if backend == nil {
		return fmt.Errorf("backend cannot be nil")
	}
	name := strings.ToLower(backend.Name())
	if name == "" {
		return fmt.Errorf("backend must have a non-empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.backends[name]; exists {
		return fmt.Errorf("backend %q already registered", name)
	}
	r.backends[name] = backend

	for _, alias := range aliases {
		alias = strings.ToLower(alias)
		if alias == "" {
			continue
		}
		if existing, exists := r.aliases[alias]; exists {
			return fmt.Errorf("alias %q conflicts with existing mapping to %q", alias, existing)
		}
		r.aliases[alias] = name
	}

	catalog.Register(catalog.BackendInfo{
		ID:         name,
		Extensions: []string{backend.FileExtension()},
	})
	return nil
}

// Get retrieves a backend by its canonical name or a registered alias.
func (r *Registry) Get(name string) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name = strings.ToLower(name)
	if b, ok := r.backends[name]; ok {
		return b, true
	}
	if canonical, ok := r.aliases[name]; ok {
		b, ok := r.backends[canonical]
		return b, ok
	}
	return nil, false
}

// List returns every registered backend.
func (r *Registry) List() []Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Backend, 0, len(r.backends))
	for _, b := range r.backends {
		result = append(result, b)
	}
	return result
}
