package dsl

import "sort"

// Resolver selects element schemas by element name for Extensions fields.
// It is consulted at parse time, so registrations made after a schema is
// built are visible.
type Resolver interface {
	ResolveExtension(name string) (Element, bool)
	ExtensionNames() []string
}

// StaticResolver is a fixed name -> element table.
type StaticResolver map[string]Element

// ResolveExtension implements Resolver.
func (r StaticResolver) ResolveExtension(name string) (Element, bool) {
	el, ok := r[name]
	return el, ok
}

// ExtensionNames implements Resolver.
func (r StaticResolver) ExtensionNames() []string {
	out := make([]string, 0, len(r))
	for k := range r {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
