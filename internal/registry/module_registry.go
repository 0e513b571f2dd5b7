package registry

import "sync"

// ModuleRegistry is the process-wide catalogue of module descriptors. One
// instance exists per server process, built once at bootstrap and read-only
// after composition completes.
//
// Registration order is a contract: All returns descriptors in exactly the
// order they were registered, because mount order decides which of two
// overlapping prefixes wins in the router, and startup must be reproducible
// across restarts.
type ModuleRegistry struct {
	mu       sync.RWMutex
	modules  []*Module
	byName   map[string]*Module
	byPrefix map[string]*Module
}

func NewModuleRegistry() *ModuleRegistry {
	return &ModuleRegistry{
		byName:   make(map[string]*Module),
		byPrefix: make(map[string]*Module),
	}
}

// Register inserts a module descriptor. Registering the same descriptor
// object again is a silent no-op, so a bootstrap list that runs twice does
// no harm. A distinct descriptor reusing an already-taken name or prefix
// fails with DuplicateModuleError, even when it is equal field-for-field.
func (r *ModuleRegistry) Register(m *Module) error {
	if err := m.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byName[m.Name]; ok {
		if existing == m {
			return nil
		}
		return &DuplicateModuleError{Field: "name", Value: m.Name, Existing: existing.Name}
	}
	if existing, ok := r.byPrefix[m.Prefix]; ok {
		return &DuplicateModuleError{Field: "prefix", Value: m.Prefix, Existing: existing.Name}
	}

	r.modules = append(r.modules, m)
	r.byName[m.Name] = m
	r.byPrefix[m.Prefix] = m
	return nil
}

// All returns the registered descriptors in registration order. The slice is
// a copy; callers may not use it to mutate the registry.
func (r *ModuleRegistry) All() []*Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Module, len(r.modules))
	copy(out, r.modules)
	return out
}

// ByName returns the descriptor registered under name, if any.
func (r *ModuleRegistry) ByName(name string) (*Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byName[name]
	return m, ok
}
