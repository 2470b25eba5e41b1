package configuration

import (
	"context"
	"fmt"
	"reflect"

	svcconfig "github.com/reoring/svcconfig"
	"github.com/reoring/svcconfig/dsl"
	"github.com/reoring/svcconfig/servicemodel/channels"
)

// CustomBindingElement is <customBinding><binding>: a binding assembled from
// binding element extensions in document order, transport last.
type CustomBindingElement struct {
	StandardBinding
	Elements dsl.Extensions[BindingElementExtension]
}

func (CustomBindingElement) NewBinding() *channels.CustomBinding { return channels.NewCustomBinding() }

// ApplyConfiguration replaces the element stack of b with the configured one.
func (e CustomBindingElement) ApplyConfiguration(b *channels.CustomBinding) error {
	e.applyTimeouts(b)
	names := e.Elements.Names()
	stack := make([]channels.BindingElement, 0, e.Elements.Len())
	for i, ext := range e.Elements.Items() {
		be := ext.CreateBindingElement()
		if err := ext.ApplyConfiguration(be); err != nil {
			return fmt.Errorf("%s: %w", names[i], err)
		}
		stack = append(stack, be)
	}
	b.Elements = stack
	_, err := b.Transport()
	return err
}

// InitializeFrom rebuilds the element list from the stack of b, resolving
// each binding element to the extension name registered for it in r.
func (e *CustomBindingElement) InitializeFrom(r *Registry, b *channels.CustomBinding) error {
	e.initializeTimeouts(b)
	e.Elements.Clear()
	for _, be := range b.Elements {
		name, ext, err := r.extensionFor(be)
		if err != nil {
			return err
		}
		if err := ext.(interface {
			InitializeFrom(channels.BindingElement) error
		}).InitializeFrom(be); err != nil {
			return err
		}
		if err := e.Elements.Add(name, reflect.ValueOf(ext).Elem().Interface().(BindingElementExtension)); err != nil {
			return invalidf("%v", err)
		}
	}
	return nil
}

// extensionFor finds the binding element extension whose CreateBindingElement
// yields the type of be and returns a new pointer to it.
func (r *Registry) extensionFor(be channels.BindingElement) (string, any, error) {
	want := reflect.TypeOf(be)
	for _, name := range r.Names(KindBindingElement) {
		t, _ := r.Lookup(KindBindingElement, name)
		p := reflect.New(t.GoType)
		ext, ok := p.Elem().Interface().(BindingElementExtension)
		if !ok || reflect.TypeOf(ext.CreateBindingElement()) != want {
			continue
		}
		if _, ok := p.Interface().(interface {
			InitializeFrom(channels.BindingElement) error
		}); ok {
			return name, p.Interface(), nil
		}
	}
	return "", nil, fmt.Errorf("%w: no binding element extension for %T", ErrNotFound, be)
}

// checkStack requires exactly one transport, placed last, and at most one
// message encoder.
func checkStack(_ context.Context, e CustomBindingElement) error {
	names, items := e.Elements.Names(), e.Elements.Items()
	var iss svcconfig.Issues
	transports, encoders := 0, 0
	for i, ext := range items {
		p := svcconfig.Root().Elem(names[i])
		switch ext.CreateBindingElement().(type) {
		case channels.TransportBindingElement:
			transports++
			if i != len(items)-1 {
				iss = append(iss, p.Issue(svcconfig.CodeCustom, "transport element must be the last element of the binding"))
			}
		case channels.MessageEncodingBindingElement:
			encoders++
			if encoders > 1 {
				iss = append(iss, p.Issue(svcconfig.CodeCustom, "binding declares more than one message encoder"))
			}
		}
	}
	if transports == 0 {
		iss = append(iss, svcconfig.Root().Issue(svcconfig.CodeRequired, "binding has no transport element", "binding", e.Name))
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

func customBindingSchema(r *Registry) *dsl.ElementSchema[CustomBindingElement] {
	return standardBinding[CustomBindingElement]().
		Extensions("elements", r.Resolver(KindBindingElement, 0)).
		Refine("stack", checkStack).
		MustBuild()
}

// CustomBindingCollection is <customBinding>.
type CustomBindingCollection = StandardBindingCollection[CustomBindingElement, *channels.CustomBinding]

func customBindingCollectionSchema(r *Registry) *dsl.ElementSchema[CustomBindingCollection] {
	return bindingCollectionSchema[CustomBindingElement, *channels.CustomBinding]("customBinding", customBindingSchema(r))
}

var customBindingCollectionType = reflect.TypeOf(CustomBindingCollection{})
