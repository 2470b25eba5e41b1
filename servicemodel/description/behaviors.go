package description

import (
	"fmt"
	"reflect"
)

// ServiceBehavior customizes a whole service.
type ServiceBehavior interface {
	Validate(d *ServiceDescription) error
}

// EndpointBehavior customizes one endpoint.
type EndpointBehavior interface {
	ValidateEndpoint(ep *ServiceEndpoint) error
}

// Behaviors holds at most one behavior per dynamic type, in insertion order.
type Behaviors[T any] struct {
	items []T
}

// Items returns the behaviors in insertion order.
func (b Behaviors[T]) Items() []T { return append([]T(nil), b.items...) }

// Len returns the number of behaviors.
func (b Behaviors[T]) Len() int { return len(b.items) }

// Add appends v, failing when a behavior of the same type is present.
func (b *Behaviors[T]) Add(v T) error {
	if i := b.index(reflect.TypeOf(v)); i >= 0 {
		return fmt.Errorf("behavior of type %s already present", reflect.TypeOf(v))
	}
	b.items = append(b.items, v)
	return nil
}

// Set replaces the behavior of the same type as v, or appends v. It reports
// whether a behavior was replaced.
func (b *Behaviors[T]) Set(v T) bool {
	if i := b.index(reflect.TypeOf(v)); i >= 0 {
		b.items[i] = v
		return true
	}
	b.items = append(b.items, v)
	return false
}

// Contains reports whether a behavior of type t is present.
func (b Behaviors[T]) Contains(t reflect.Type) bool { return b.index(t) >= 0 }

// Remove deletes the behavior of type t, reporting whether one existed.
func (b *Behaviors[T]) Remove(t reflect.Type) bool {
	i := b.index(t)
	if i < 0 {
		return false
	}
	b.items = append(b.items[:i:i], b.items[i+1:]...)
	return true
}

func (b Behaviors[T]) index(t reflect.Type) int {
	for i, it := range b.items {
		if reflect.TypeOf(it) == t {
			return i
		}
	}
	return -1
}

// Find returns the behavior of type B held in b.
func Find[B any, T any](b Behaviors[T]) (B, bool) {
	for _, it := range b.items {
		if v, ok := any(it).(B); ok {
			return v, true
		}
	}
	var zero B
	return zero, false
}
