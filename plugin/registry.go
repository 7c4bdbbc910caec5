package plugin

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Registry is the single source of truth for generator plugins that are
// already resolved (bundled into the binary or previously loaded). It is
// constructed once at the host's entry point and threaded through calls;
// there is no process-global default instance.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
	logger  *zap.SugaredLogger
}

// NewRegistry creates a new plugin registry
func NewRegistry(logger *zap.SugaredLogger) *Registry {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Registry{
		plugins: make(map[string]Plugin),
		logger:  logger,
	}
}

// Register inserts a plugin, overwriting any previous entry for the same
// name. The last registration wins; an overwrite is logged but not an
// error. No validation happens here beyond what the caller already
// guarantees — the Loader is the validation boundary for dynamically
// discovered plugins.
func (r *Registry) Register(p Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, exists := r.plugins[name]; exists {
		r.logger.Warnw("Overwriting registered generator plugin", "name", name)
	}
	r.plugins[name] = p
}

// Has reports whether a plugin with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.plugins[name]
	return ok
}

// Get retrieves a plugin by name. Returns NotFoundError if absent.
func (r *Registry) Get(name string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plugins[name]
	if !ok {
		return nil, NewNotFoundError(name, nil)
	}
	return p, nil
}

// List returns all registered plugin names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
