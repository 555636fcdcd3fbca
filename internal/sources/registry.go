package sources

import (
	"fmt"
	"sort"
)

// Registry maps configured source names to adapter constructors.
type Registry struct {
	factories map[string]func() Adapter
}

// DefaultRegistry knows every scraped board. Google needs credentials and is
// constructed separately.
func DefaultRegistry() *Registry {
	r := &Registry{factories: make(map[string]func() Adapter)}
	r.Register(IndeedName, func() Adapter { return NewIndeed() })
	r.Register(LinkedInName, func() Adapter { return NewLinkedIn() })
	r.Register(GlassdoorName, func() Adapter { return NewGlassdoor() })
	r.Register(InternshalaName, func() Adapter { return NewInternshala() })
	r.Register(MySchemeName, func() Adapter { return NewMyScheme() })
	return r
}

// Register adds or replaces the constructor for name.
func (r *Registry) Register(name string, factory func() Adapter) {
	r.factories[name] = factory
}

// Names lists registered sources alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.factories[name]
	return ok
}

// Build constructs adapters for names, preserving their order.
func (r *Registry) Build(names []string) ([]Adapter, error) {
	adapters := make([]Adapter, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		factory, ok := r.factories[name]
		if !ok {
			return nil, fmt.Errorf("unknown source %q (known: %v)", name, r.Names())
		}
		seen[name] = true
		adapters = append(adapters, factory())
	}
	return adapters, nil
}
