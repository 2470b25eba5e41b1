package configuration

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/reoring/svcconfig/dsl"
	"github.com/reoring/svcconfig/servicemodel/channels"
	"github.com/reoring/svcconfig/servicemodel/description"
)

// Kind is the extension point an element name is registered under. The
// names match the children of <extensions>.
type Kind int

const (
	KindBinding Kind = iota + 1
	KindBindingElement
	KindBehavior
)

func (k Kind) String() string {
	switch k {
	case KindBinding:
		return "bindingExtensions"
	case KindBindingElement:
		return "bindingElementExtensions"
	case KindBehavior:
		return "behaviorExtensions"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Scope is where a behavior extension may appear.
type Scope uint8

const (
	ScopeService Scope = 1 << iota
	ScopeEndpoint
)

// BindingCollectionElement is a child of <bindings>, such as
// <basicHttpBinding>, holding the configured bindings of one binding type.
type BindingCollectionElement interface {
	// NewBinding returns a binding with runtime defaults.
	NewBinding() channels.Binding
	// ConfiguredNames lists the configured binding names in document order.
	ConfiguredNames() []string
	Contains(name string) bool
	// ApplyConfiguration applies the binding configured as name onto b.
	ApplyConfiguration(name string, b channels.Binding) error
}

// BindingElementExtension is a child of <customBinding><binding>.
type BindingElementExtension interface {
	CreateBindingElement() channels.BindingElement
	ApplyConfiguration(e channels.BindingElement) error
}

// BindingResolver resolves the binding references some behaviors carry
// (serviceMetadata httpGetBinding, for example).
type BindingResolver interface {
	LookupBinding(section, name string) (channels.Binding, error)
}

// ServiceBehaviorExtension is a behavior valid under <serviceBehaviors>.
type ServiceBehaviorExtension interface {
	CreateServiceBehavior(r BindingResolver) (description.ServiceBehavior, error)
}

// EndpointBehaviorExtension is a behavior valid under <endpointBehaviors>.
type EndpointBehaviorExtension interface {
	CreateEndpointBehavior(r BindingResolver) (description.EndpointBehavior, error)
}

var (
	bindingCollectionType = reflect.TypeOf((*BindingCollectionElement)(nil)).Elem()
	bindingElementType    = reflect.TypeOf((*BindingElementExtension)(nil)).Elem()
	serviceBehaviorType   = reflect.TypeOf((*ServiceBehaviorExtension)(nil)).Elem()
	endpointBehaviorType  = reflect.TypeOf((*EndpointBehaviorExtension)(nil)).Elem()
)

// ExtensionType is a Go implementation of an extension element, known under
// a type name that <extensions> entries refer to.
type ExtensionType struct {
	TypeName string
	Kind     Kind
	// Scope is set for behaviors from the interfaces the type implements.
	Scope  Scope
	GoType reflect.Type

	element func(*Registry) dsl.Element
}

// NewExtensionType describes T, declared by s, as an extension of kind.
func NewExtensionType[T any](typeName string, kind Kind, s *dsl.ElementSchema[T]) ExtensionType {
	return ExtensionType{
		TypeName: typeName,
		Kind:     kind,
		Scope:    scopeOf(s.Adapter().Type()),
		GoType:   s.Adapter().Type(),
		element:  func(*Registry) dsl.Element { return s },
	}
}

// registryBound describes an element whose schema dispatches through the
// registry it is resolved in (customBinding).
func registryBound(typeName string, kind Kind, goType reflect.Type, build func(*Registry) dsl.Element) ExtensionType {
	return ExtensionType{TypeName: typeName, Kind: kind, Scope: scopeOf(goType), GoType: goType, element: build}
}

func scopeOf(t reflect.Type) Scope {
	var s Scope
	if implements(t, serviceBehaviorType) {
		s |= ScopeService
	}
	if implements(t, endpointBehaviorType) {
		s |= ScopeEndpoint
	}
	return s
}

func implements(t, iface reflect.Type) bool {
	return t.Implements(iface) || reflect.PointerTo(t).Implements(iface)
}

func (t ExtensionType) check() error {
	if t.TypeName == "" || t.GoType == nil || t.element == nil {
		return fmt.Errorf("%w: incomplete extension type %q", ErrInvalidConfiguration, t.TypeName)
	}
	var ok bool
	switch t.Kind {
	case KindBinding:
		ok = implements(t.GoType, bindingCollectionType)
	case KindBindingElement:
		ok = implements(t.GoType, bindingElementType)
	case KindBehavior:
		ok = t.Scope != 0
	}
	if !ok {
		return fmt.Errorf("%w: %s (%s) is not a valid %s type", ErrInvalidConfiguration, t.TypeName, t.GoType, t.Kind)
	}
	return nil
}

// Registry maps extension element names to registered types. It is safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]ExtensionType
	names map[Kind]map[string]string
	elems map[string]dsl.Element
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types: map[string]ExtensionType{},
		names: map[Kind]map[string]string{},
		elems: map[string]dsl.Element{},
	}
}

// RegisterType makes t available to Register and <extensions> entries.
// Registering a type name again replaces it.
func (r *Registry) RegisterType(t ExtensionType) error {
	if err := t.check(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[t.TypeName] = t
	delete(r.elems, t.TypeName)
	return nil
}

// TypeFor returns the type registered as typeName. An assembly-qualified
// name ("Type, Assembly, Version=...") matches on the part before the first
// comma.
func (r *Registry) TypeFor(typeName string) (ExtensionType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.typeFor(typeName)
}

func (r *Registry) typeFor(typeName string) (ExtensionType, bool) {
	name := strings.TrimSpace(typeName)
	if t, ok := r.types[name]; ok {
		return t, true
	}
	if i := strings.IndexByte(name, ','); i >= 0 {
		t, ok := r.types[strings.TrimSpace(name[:i])]
		return t, ok
	}
	return ExtensionType{}, false
}

// Register binds element name to the type registered as typeName. Binding
// the same name to the same type again is a no-op.
func (r *Registry) Register(kind Kind, name, typeName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.typeFor(typeName)
	if !ok {
		return fmt.Errorf("%w: extension type %q", ErrNotFound, typeName)
	}
	if t.Kind != kind {
		return fmt.Errorf("%w: %s is a %s type, not %s", ErrInvalidConfiguration, t.TypeName, t.Kind, kind)
	}
	byName := r.names[kind]
	if byName == nil {
		byName = map[string]string{}
		r.names[kind] = byName
	}
	if prev, ok := byName[name]; ok && prev != t.TypeName {
		return fmt.Errorf("%w: %s %q is already bound to %s", ErrExtensionConflict, kind, name, prev)
	}
	byName[name] = t.TypeName
	return nil
}

// Lookup returns the type bound to name.
func (r *Registry) Lookup(kind Kind, name string) (ExtensionType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tn, ok := r.names[kind][name]
	if !ok {
		return ExtensionType{}, false
	}
	t, ok := r.types[tn]
	return t, ok
}

// Names returns the element names registered under kind, sorted.
func (r *Registry) Names(kind Kind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.names[kind]))
	for n := range r.names[kind] {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy; registrations on the copy do not
// affect r.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := NewRegistry()
	for k, t := range r.types {
		c.types[k] = t
	}
	for kind, byName := range r.names {
		m := make(map[string]string, len(byName))
		for n, tn := range byName {
			m[n] = tn
		}
		c.names[kind] = m
	}
	return c
}

// Element returns the element schema of the type bound to name.
func (r *Registry) Element(kind Kind, name string) (dsl.Element, bool) {
	t, ok := r.Lookup(kind, name)
	if !ok {
		return nil, false
	}
	return r.element(t), true
}

func (r *Registry) element(t ExtensionType) dsl.Element {
	r.mu.RLock()
	el, ok := r.elems[t.TypeName]
	r.mu.RUnlock()
	if ok {
		return el
	}
	el = t.element(r)
	r.mu.Lock()
	r.elems[t.TypeName] = el
	r.mu.Unlock()
	return el
}

// Resolver returns a dsl.Resolver over the names of kind. For behaviors only
// types valid in scope resolve.
func (r *Registry) Resolver(kind Kind, scope Scope) dsl.Resolver {
	return registryResolver{r: r, kind: kind, scope: scope}
}

type registryResolver struct {
	r     *Registry
	kind  Kind
	scope Scope
}

func (rr registryResolver) ResolveExtension(name string) (dsl.Element, bool) {
	t, ok := rr.r.Lookup(rr.kind, name)
	if !ok || (rr.scope != 0 && t.Scope&rr.scope == 0) {
		return nil, false
	}
	return rr.r.element(t), true
}

func (rr registryResolver) ExtensionNames() []string {
	var out []string
	for _, n := range rr.r.Names(rr.kind) {
		if t, ok := rr.r.Lookup(rr.kind, n); ok && (rr.scope == 0 || t.Scope&rr.scope != 0) {
			out = append(out, n)
		}
	}
	return out
}
