package dsl

import (
	"fmt"
	"reflect"
	"strings"
)

// Collection is an ordered, keyed list of configuration elements. Keys are
// the canonical text of the item's key attributes; items without key
// attributes are never considered duplicates.
type Collection[E any] struct {
	items []E
	keyOf func(any) string
}

// NewCollection builds a collection keyed by keyOf. keyOf may be nil.
func NewCollection[E any](keyOf func(E) string, items ...E) (Collection[E], error) {
	c := Collection[E]{}
	if keyOf != nil {
		c.keyOf = func(v any) string { return keyOf(v.(E)) }
	}
	for _, it := range items {
		if err := c.Add(it); err != nil {
			return Collection[E]{}, err
		}
	}
	return c, nil
}

// Items returns the items in document order.
func (c Collection[E]) Items() []E { return append([]E(nil), c.items...) }

// Len returns the number of items.
func (c Collection[E]) Len() int { return len(c.items) }

// Get returns the item whose key attributes equal key, in declaration order.
func (c Collection[E]) Get(key ...string) (E, bool) {
	k := strings.Join(key, keySep)
	for _, it := range c.items {
		if c.key(it) == k {
			return it, true
		}
	}
	var zero E
	return zero, false
}

// Find returns the first item matching fn.
func (c Collection[E]) Find(fn func(E) bool) (E, bool) {
	for _, it := range c.items {
		if fn(it) {
			return it, true
		}
	}
	var zero E
	return zero, false
}

// Add appends v, failing when an item with the same key exists.
func (c *Collection[E]) Add(v E) error {
	if k := c.key(v); k != "" {
		for _, it := range c.items {
			if c.key(it) == k {
				return fmt.Errorf("dsl: duplicate key %q", strings.ReplaceAll(k, keySep, ","))
			}
		}
	}
	c.items = append(c.items, v)
	return nil
}

// Set replaces the item with the same key or appends v.
func (c *Collection[E]) Set(v E) {
	if k := c.key(v); k != "" {
		for i, it := range c.items {
			if c.key(it) == k {
				c.items[i] = v
				return
			}
		}
	}
	c.items = append(c.items, v)
}

// Remove deletes the item with the given key. It reports whether one existed.
func (c *Collection[E]) Remove(key ...string) bool {
	k := strings.Join(key, keySep)
	for i, it := range c.items {
		if c.key(it) == k {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes every item.
func (c *Collection[E]) Clear() { c.items = nil }

// Clone returns a copy with its own item slice.
func (c Collection[E]) Clone() Collection[E] {
	return Collection[E]{items: c.Items(), keyOf: c.keyOf}
}

func (c Collection[E]) key(v E) string {
	if c.keyOf == nil {
		return ""
	}
	return c.keyOf(v)
}

const keySep = "\x00"

// collectionField is how element schemas fill and read Collection fields
// without knowing E.
type collectionField interface {
	bind(keyOf func(any) string)
	appendValue(v reflect.Value)
	values() []reflect.Value
	indexOfKey(k string) int
	removeAt(i int)
	setAt(i int, v reflect.Value)
	Clear()
}

func (c *Collection[E]) bind(keyOf func(any) string) { c.keyOf = keyOf }

func (c *Collection[E]) appendValue(v reflect.Value) { c.items = append(c.items, v.Interface().(E)) }

func (c *Collection[E]) values() []reflect.Value {
	out := make([]reflect.Value, len(c.items))
	for i := range c.items {
		out[i] = reflect.ValueOf(&c.items[i]).Elem()
	}
	return out
}

func (c *Collection[E]) indexOfKey(k string) int {
	for i, it := range c.items {
		if c.key(it) == k {
			return i
		}
	}
	return -1
}

func (c *Collection[E]) removeAt(i int) { c.items = append(c.items[:i:i], c.items[i+1:]...) }

func (c *Collection[E]) setAt(i int, v reflect.Value) { c.items[i] = v.Interface().(E) }

// Extensions holds elements selected by element name through a Resolver, in
// document order. Each name appears at most once.
type Extensions[I any] struct {
	names []string
	items []I
}

// Names returns the element names in document order.
func (x Extensions[I]) Names() []string { return append([]string(nil), x.names...) }

// Items returns the values in document order.
func (x Extensions[I]) Items() []I { return append([]I(nil), x.items...) }

// Len returns the number of extension elements.
func (x Extensions[I]) Len() int { return len(x.items) }

// Get returns the value registered under name.
func (x Extensions[I]) Get(name string) (I, bool) {
	for i, n := range x.names {
		if n == name {
			return x.items[i], true
		}
	}
	var zero I
	return zero, false
}

// Add appends v under name, failing when name is already present.
func (x *Extensions[I]) Add(name string, v I) error {
	if _, ok := x.Get(name); ok {
		return fmt.Errorf("dsl: extension %q already present", name)
	}
	x.names = append(x.names, name)
	x.items = append(x.items, v)
	return nil
}

// Remove deletes name, reporting whether it was present.
func (x *Extensions[I]) Remove(name string) bool {
	for i, n := range x.names {
		if n == name {
			x.names = append(x.names[:i:i], x.names[i+1:]...)
			x.items = append(x.items[:i:i], x.items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes every element.
func (x *Extensions[I]) Clear() { x.names, x.items = nil, nil }

// Clone returns a copy with its own slices. Values themselves are shared.
func (x Extensions[I]) Clone() Extensions[I] {
	return Extensions[I]{names: x.Names(), items: x.Items()}
}

// extensionsField is how element schemas fill and read Extensions fields.
type extensionsField interface {
	put(name string, v reflect.Value) error
	entries() ([]string, []reflect.Value)
	has(name string) bool
}

// put stores v, or a pointer to a copy of v when only *V implements I.
func (x *Extensions[I]) put(name string, v reflect.Value) error {
	iface := reflect.TypeOf((*I)(nil)).Elem()
	switch {
	case v.Type().AssignableTo(iface):
	case reflect.PointerTo(v.Type()).AssignableTo(iface):
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		v = p
	default:
		return fmt.Errorf("dsl: %s does not implement %s", v.Type(), iface)
	}
	return x.Add(name, v.Interface().(I))
}

func (x *Extensions[I]) entries() ([]string, []reflect.Value) {
	vals := make([]reflect.Value, len(x.items))
	for i, it := range x.items {
		v := reflect.ValueOf(any(it))
		for v.IsValid() && v.Kind() == reflect.Pointer && !v.IsNil() {
			v = v.Elem()
		}
		vals[i] = v
	}
	return x.Names(), vals
}

func (x *Extensions[I]) has(name string) bool {
	_, ok := x.Get(name)
	return ok
}
