package dsl

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	svcconfig "github.com/reoring/svcconfig"
)

// ElementOf starts a typed element builder binding element name to T.
//
//	binding := dsl.ElementOf[Binding]("binding").
//		Attr("name", dsl.String().NonEmpty()).Key().Required().
//		Attr("sendTimeout", dsl.TimeSpan()).Default(time.Minute).
//		Child("security", securityEl).
//		MustBuild()
func ElementOf[T any](name string) *ElementBuilder[T] {
	return &ElementBuilder[T]{name: name}
}

// ElementBuilder collects attribute, child, collection and extension
// declarations for T. Declaration order is the write order.
type ElementBuilder[T any] struct {
	name      string
	attrs     []*attrSpec
	children  []*childSpec
	unknown   svcconfig.UnknownPolicy
	refines   []refineSpec[T]
	normalize func(context.Context, T) (T, error)
	errs      []error
}

type attrSpec struct {
	name     string
	ad       AttrAdapter
	index    []int
	def      any
	hasDef   bool
	required bool
	key      bool
}

type childKind int

const (
	kindSingle childKind = iota
	kindCollection
	kindExtensions
)

type childSpec struct {
	kind           childKind
	name           string
	el             Element
	index          []int
	ptr            bool
	wrapped        bool
	addRemoveClear bool
	inherit        []any
	resolver       Resolver
}

type refineSpec[T any] struct {
	name string
	fn   func(context.Context, T) error
}

// AttrStep is returned by Attr so that Default, Required and Key apply to the
// attribute just declared. Builder methods remain available through embedding.
type AttrStep[T any] struct {
	*ElementBuilder[T]
	spec *attrSpec
}

// CollectionStep is returned by Collection for collection options.
type CollectionStep[T any] struct {
	*ElementBuilder[T]
	spec *childSpec
}

// Attr declares attribute name converted by ad.
func (b *ElementBuilder[T]) Attr(name string, ad AttrAdapter) *AttrStep[T] {
	if ad.parse == nil {
		b.errs = append(b.errs, fmt.Errorf("attribute %q: nil converter", name))
	}
	s := &attrSpec{name: name, ad: ad}
	b.attrs = append(b.attrs, s)
	return &AttrStep[T]{ElementBuilder: b, spec: s}
}

// Default sets the value used when the attribute is absent. v is either a
// value of the field type or, for non-string fields, its configuration text.
func (a *AttrStep[T]) Default(v any) *AttrStep[T] {
	a.spec.def, a.spec.hasDef = v, true
	return a
}

// Required reports absence of the attribute as a required issue when the
// element is present in the document.
func (a *AttrStep[T]) Required() *AttrStep[T] {
	a.spec.required = true
	return a
}

// Key makes the attribute part of the element's collection key.
func (a *AttrStep[T]) Key() *AttrStep[T] {
	a.spec.key = true
	return a
}

// Child declares a single nested element. A value field is materialized with
// defaults when the child is absent; a pointer field stays nil.
func (b *ElementBuilder[T]) Child(name string, el Element) *ElementBuilder[T] {
	b.children = append(b.children, &childSpec{kind: kindSingle, name: name, el: el})
	return b
}

// Collection declares a repeated child bound to a Collection[E] field. By
// default items appear directly under this element, named after item.
func (b *ElementBuilder[T]) Collection(name string, item Element) *CollectionStep[T] {
	s := &childSpec{kind: kindCollection, name: name, el: item}
	b.children = append(b.children, s)
	return &CollectionStep[T]{ElementBuilder: b, spec: s}
}

// Wrapped places the items under a <name> wrapper element.
func (c *CollectionStep[T]) Wrapped() *CollectionStep[T] {
	c.spec.wrapped = true
	return c
}

// AddRemoveClear accepts <remove> (by key) and <clear/> between items.
func (c *CollectionStep[T]) AddRemoveClear() *CollectionStep[T] {
	c.spec.addRemoveClear = true
	return c
}

// Inherit seeds the collection with items in effect before the document,
// such as machine-wide defaults. <remove> and <clear/> drop them and an item
// with the same key replaces one instead of being a duplicate. Items must be
// values of the item element's type.
func (c *CollectionStep[T]) Inherit(items ...any) *CollectionStep[T] {
	c.spec.inherit = append(c.spec.inherit, items...)
	return c
}

// Extensions binds every undeclared child element to an Extensions[I] field,
// selecting the element schema by name through r.
func (b *ElementBuilder[T]) Extensions(name string, r Resolver) *ElementBuilder[T] {
	for _, c := range b.children {
		if c.kind == kindExtensions {
			b.errs = append(b.errs, fmt.Errorf("element %q: only one extensions field is supported", b.name))
		}
	}
	b.children = append(b.children, &childSpec{kind: kindExtensions, name: name, resolver: r})
	return b
}

// UnknownStrip drops undeclared attributes and elements instead of reporting them.
func (b *ElementBuilder[T]) UnknownStrip() *ElementBuilder[T] {
	b.unknown = svcconfig.UnknownStrip
	return b
}

// UnknownStrict reports undeclared attributes and elements (the default).
func (b *ElementBuilder[T]) UnknownStrict() *ElementBuilder[T] {
	b.unknown = svcconfig.UnknownStrict
	return b
}

// Refine registers a cross-attribute rule run after binding. Issues returned
// by fn are relative to the element; other errors become custom issues.
func (b *ElementBuilder[T]) Refine(name string, fn func(context.Context, T) error) *ElementBuilder[T] {
	if fn != nil {
		b.refines = append(b.refines, refineSpec[T]{name: name, fn: fn})
	}
	return b
}

// Normalize registers a hook applied after defaults and before Refine.
func (b *ElementBuilder[T]) Normalize(fn func(context.Context, T) (T, error)) *ElementBuilder[T] {
	b.normalize = fn
	return b
}

// Build resolves struct fields and returns the element schema.
func (b *ElementBuilder[T]) Build() (*ElementSchema[T], error) {
	var zero T
	typ := reflect.TypeOf(&zero).Elem()
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("dsl: element %q: %s is not a struct", b.name, typ)
	}
	errs := append([]error(nil), b.errs...)
	fields := map[string]reflect.StructField{}
	var infoIndex []int
	infoType := reflect.TypeOf(svcconfig.ElementInfo{})
	for _, sf := range reflect.VisibleFields(typ) {
		if !sf.IsExported() {
			continue
		}
		if sf.Type == infoType {
			infoIndex = sf.Index
			continue
		}
		if sf.Anonymous {
			continue
		}
		key := svcconfig.ResolveStructKey(sf)
		if key == "-" {
			continue
		}
		if _, dup := fields[key]; !dup {
			fields[key] = sf
		}
	}

	s := &ElementSchema[T]{
		name:      b.name,
		typ:       typ,
		unknown:   b.unknown,
		refines:   b.refines,
		normalize: b.normalize,
		infoIndex: infoIndex,
		attrIdx:   map[string]*attrSpec{},
		childIdx:  map[string]*childSpec{},
	}
	for _, a := range b.attrs {
		if _, dup := s.attrIdx[a.name]; dup {
			errs = append(errs, fmt.Errorf("attribute %q declared twice", a.name))
			continue
		}
		sf, ok := fields[a.name]
		if !ok {
			errs = append(errs, fmt.Errorf("attribute %q: no field of %s", a.name, typ))
			continue
		}
		if !a.ad.typ.ConvertibleTo(sf.Type) {
			errs = append(errs, fmt.Errorf("attribute %q: %s cannot hold %s", a.name, sf.Type, a.ad.typ))
			continue
		}
		a.index = sf.Index
		if a.hasDef {
			if _, err := a.defaultValue(context.Background(), sf.Type); err != nil {
				errs = append(errs, fmt.Errorf("attribute %q: default: %w", a.name, err))
			}
		}
		s.attrIdx[a.name] = a
		s.attrs = append(s.attrs, a)
	}
	for _, c := range b.children {
		sf, ok := fields[c.name]
		if !ok {
			errs = append(errs, fmt.Errorf("child %q: no field of %s", c.name, typ))
			continue
		}
		c.index = sf.Index
		switch c.kind {
		case kindSingle:
			et := c.el.Adapter().goType
			switch {
			case sf.Type == et:
			case sf.Type.Kind() == reflect.Pointer && sf.Type.Elem() == et:
				c.ptr = true
			default:
				errs = append(errs, fmt.Errorf("child %q: field %s does not hold %s", c.name, sf.Type, et))
				continue
			}
		case kindCollection:
			if !reflect.PointerTo(sf.Type).Implements(reflect.TypeOf((*collectionField)(nil)).Elem()) {
				errs = append(errs, fmt.Errorf("collection %q: field %s is not a dsl.Collection", c.name, sf.Type))
				continue
			}
			if len(c.inherit) > 0 && !c.addRemoveClear {
				errs = append(errs, fmt.Errorf("collection %q: inherited items need AddRemoveClear", c.name))
			}
			for _, it := range c.inherit {
				if t := reflect.TypeOf(it); t != c.el.Adapter().goType {
					errs = append(errs, fmt.Errorf("collection %q: inherited item %v is not %s", c.name, t, c.el.Adapter().goType))
				}
			}
		case kindExtensions:
			if !reflect.PointerTo(sf.Type).Implements(reflect.TypeOf((*extensionsField)(nil)).Elem()) {
				errs = append(errs, fmt.Errorf("extensions %q: field %s is not a dsl.Extensions", c.name, sf.Type))
				continue
			}
			if c.resolver == nil {
				errs = append(errs, fmt.Errorf("extensions %q: nil resolver", c.name))
				continue
			}
			s.ext = c
		}
		for _, tag := range c.tags() {
			if _, dup := s.childIdx[tag]; dup {
				errs = append(errs, fmt.Errorf("child element %q declared twice", tag))
			}
			s.childIdx[tag] = c
		}
		s.children = append(s.children, c)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("dsl: element %q: %w", b.name, errors.Join(errs...))
	}
	return s, nil
}

// MustBuild is Build that panics on declaration errors.
func (b *ElementBuilder[T]) MustBuild() *ElementSchema[T] {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// tags are the element names a child declaration claims in the parent.
func (c *childSpec) tags() []string {
	switch c.kind {
	case kindSingle:
		return []string{c.name}
	case kindCollection:
		if c.wrapped {
			return []string{c.name}
		}
		return c.itemTags()
	}
	return nil
}

func (c *childSpec) itemTags() []string {
	tags := []string{c.el.Adapter().name}
	if c.addRemoveClear {
		tags = append(tags, "remove", "clear")
	}
	return tags
}

// defaultValue converts the declared default to the field type t.
func (a *attrSpec) defaultValue(ctx context.Context, t reflect.Type) (reflect.Value, error) {
	if a.def == nil {
		return reflect.Zero(t), nil
	}
	dv := reflect.ValueOf(a.def)
	if s, ok := a.def.(string); ok && a.ad.typ.Kind() != reflect.String {
		v, err := a.ad.parse(ctx, s)
		if err != nil {
			return reflect.Value{}, err
		}
		dv = reflect.ValueOf(v)
	}
	if !dv.Type().ConvertibleTo(t) {
		return reflect.Value{}, fmt.Errorf("%s is not convertible to %s", dv.Type(), t)
	}
	return dv.Convert(t), nil
}
