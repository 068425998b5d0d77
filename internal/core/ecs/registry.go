package ecs

import "fmt"

// Registry holds a world's component stores under the names used in
// diagnostics. Destroying an entity drops it from every store.
type Registry struct {
	names  []string
	stores []Removable
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds store under name. Names must be unique.
func (r *Registry) Register(name string, store Removable) {
	for _, n := range r.names {
		if n == name {
			panic(fmt.Sprintf("ecs: store %q registered twice", name))
		}
	}
	r.names = append(r.names, name)
	r.stores = append(r.stores, store)
}

// RemoveAll clears id from every registered store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}

// Holding returns the names of the stores that still hold id.
func (r *Registry) Holding(id EntityID) []string {
	var names []string
	for i, s := range r.stores {
		if s.Has(id) {
			names = append(names, r.names[i])
		}
	}
	return names
}

// Sizes reports each store's entry count in registration order.
func (r *Registry) Sizes(fn func(name string, n int)) {
	for i, s := range r.stores {
		fn(r.names[i], s.Len())
	}
}
