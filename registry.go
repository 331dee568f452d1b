package filterfx

import (
	"sort"
	"sync"
)

// FilterFactory creates a new Filter instance for a kind.
type FilterFactory func() Filter

// Registry maps primitive kinds to their implementations.
//
// A Registry is an explicitly constructed, injectable service rather than
// a package-level singleton, so tests can build isolated instances.
// Registration is expected at startup; resolution happens on every chain
// execution, so reads take a shared lock and never block each other.
//
// Registry is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[Kind]FilterFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Kind]FilterFactory)}
}

// Register installs a factory for a kind. Re-registering the same kind
// replaces the previous factory (last write wins), which lets callers
// swap in alternative implementations without tearing the registry down.
// A nil factory removes the registration.
func (r *Registry) Register(kind Kind, factory FilterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if factory == nil {
		delete(r.factories, kind)
		return
	}
	r.factories[kind] = factory
}

// Resolve returns a Filter instance for the kind.
// Returns a NotFoundError if no factory is registered.
func (r *Registry) Resolve(kind Kind) (Filter, error) {
	r.mu.RLock()
	factory, ok := r.factories[kind]
	r.mu.RUnlock()

	if !ok {
		return nil, &NotFoundError{Kind: kind}
	}
	return factory(), nil
}

// IsRegistered reports whether a factory exists for the kind.
func (r *Registry) IsRegistered(kind Kind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[kind]
	return ok
}

// Kinds returns the registered kinds sorted by name.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]Kind, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i].String() < kinds[j].String() })
	return kinds
}
