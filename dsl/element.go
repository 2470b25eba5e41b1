package dsl

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	svcconfig "github.com/reoring/svcconfig"
	"github.com/reoring/svcconfig/i18n"
	js "github.com/reoring/svcconfig/jsonschema"
)

// Element is anything usable as a nested element declaration. Every
// *ElementSchema[T] is an Element.
type Element interface {
	Adapter() ElementAdapter
}

// ElementAdapter is the untyped view of an element schema. Paths passed to
// its functions are absolute; a nil PresenceMap disables presence tracking on
// parse and selects canonical output on encode.
type ElementAdapter struct {
	name      string
	goType    reflect.Type
	keyNames  []string
	parse     func(ctx context.Context, n *svcconfig.Node, p svcconfig.PathRef, pm svcconfig.PresenceMap, present bool) (reflect.Value, svcconfig.Issues)
	encode    func(ctx context.Context, v reflect.Value, p svcconfig.PathRef, pm svcconfig.PresenceMap) (*svcconfig.Node, error)
	validate  func(ctx context.Context, v reflect.Value, p svcconfig.PathRef) svcconfig.Issues
	keyOf     func(ctx context.Context, v reflect.Value) (string, []string)
	keyOfNode func(ctx context.Context, n *svcconfig.Node) (string, error)
	schema    func() (*js.Schema, error)
}

// Name returns the element name.
func (a ElementAdapter) Name() string { return a.name }

// Type returns the bound Go type.
func (a ElementAdapter) Type() reflect.Type { return a.goType }

// KeyNames returns the key attribute names in declaration order.
func (a ElementAdapter) KeyNames() []string { return append([]string(nil), a.keyNames...) }

// JSONSchema projects the element into JSON Schema.
func (a ElementAdapter) JSONSchema() (*js.Schema, error) { return a.schema() }

// ElementSchema binds one configuration element to T. It implements
// svcconfig.Schema[T] and Element.
type ElementSchema[T any] struct {
	name      string
	typ       reflect.Type
	attrs     []*attrSpec
	attrIdx   map[string]*attrSpec
	children  []*childSpec
	childIdx  map[string]*childSpec
	ext       *childSpec
	unknown   svcconfig.UnknownPolicy
	refines   []refineSpec[T]
	normalize func(context.Context, T) (T, error)
	infoIndex []int
}

var _ svcconfig.Schema[struct{}] = (*ElementSchema[struct{}])(nil)

// ElementName returns the element name the schema binds.
func (s *ElementSchema[T]) ElementName() string { return s.name }

// Parse binds n into T.
func (s *ElementSchema[T]) Parse(ctx context.Context, n *svcconfig.Node) (T, error) {
	var zero T
	if iss := s.checkRoot(n); iss != nil {
		return zero, iss
	}
	rv, iss := s.parseNode(ctx, n, svcconfig.Root(), nil, true)
	if len(iss) > 0 {
		return zero, iss
	}
	return rv.Interface().(T), nil
}

// ParseWithMeta binds n into T and records presence by path.
func (s *ElementSchema[T]) ParseWithMeta(ctx context.Context, n *svcconfig.Node) (svcconfig.Decoded[T], error) {
	d := svcconfig.Decoded[T]{Presence: svcconfig.PresenceMap{}, Locks: map[string]svcconfig.Locks{}}
	if iss := s.checkRoot(n); iss != nil {
		return d, iss
	}
	rv, iss := s.parseNode(withLocks(ctx, d.Locks), n, svcconfig.Root(), d.Presence, true)
	if len(iss) > 0 {
		return d, iss
	}
	d.Value = rv.Interface().(T)
	return d, nil
}

// New returns T with every default applied, as if the element were absent.
func (s *ElementSchema[T]) New() T {
	rv, _ := s.parseNode(context.Background(), svcconfig.NewNode(s.name), svcconfig.Root(), nil, false)
	return rv.Interface().(T)
}

// ValidateValue runs attribute validators, nested validation and Refine on v.
func (s *ElementSchema[T]) ValidateValue(ctx context.Context, v T) error {
	if iss := s.validateValue(ctx, reflect.ValueOf(&v).Elem(), svcconfig.Root()); len(iss) > 0 {
		return iss
	}
	return nil
}

// Encode writes v canonically: every attribute with a default or a non-zero
// value, every value child and every collection item.
func (s *ElementSchema[T]) Encode(ctx context.Context, v T) (*svcconfig.Node, error) {
	return s.encodeValue(ctx, reflect.ValueOf(&v).Elem(), svcconfig.Root(), nil)
}

// EncodePreserving writes only what the document carried, plus values that
// changed away from their zero value since parsing. Lock attributes come
// from d.Locks.
func (s *ElementSchema[T]) EncodePreserving(ctx context.Context, d svcconfig.Decoded[T]) (*svcconfig.Node, error) {
	if d.Presence == nil {
		return nil, svcconfig.ErrEncodePreserveRequiresPresence
	}
	return s.encodeValue(withLocks(ctx, d.Locks), reflect.ValueOf(&d.Value).Elem(), svcconfig.Root(), d.Presence)
}

// JSONSchema projects the element into JSON Schema, following the shape the
// yaml and json drivers read.
func (s *ElementSchema[T]) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{Type: "object", Title: s.name, Properties: map[string]*js.Schema{}}
	for _, a := range s.attrs {
		as, err := a.ad.jsonSchema()
		if err != nil {
			return nil, err
		}
		as = as.Clone()
		if a.hasDef {
			as.Default = jsonDefault(a)
		}
		out.Properties[a.name] = as
		if a.required {
			out.Required = append(out.Required, a.name)
		}
	}
	for _, c := range s.children {
		switch c.kind {
		case kindSingle:
			cs, err := c.el.Adapter().schema()
			if err != nil {
				return nil, err
			}
			out.Properties[c.name] = cs
		case kindCollection:
			is, err := c.el.Adapter().schema()
			if err != nil {
				return nil, err
			}
			arr := &js.Schema{Type: "array", Items: is}
			if !c.wrapped {
				out.Properties[c.el.Adapter().name] = arr
				continue
			}
			wrapper := &js.Schema{Type: "object", Properties: map[string]*js.Schema{c.el.Adapter().name: arr}}
			if c.addRemoveClear {
				wrapper.Properties["remove"] = &js.Schema{Type: "array", Items: &js.Schema{Type: "object"}}
				wrapper.Properties["clear"] = &js.Schema{Type: "object"}
			}
			out.Properties[c.name] = wrapper
		case kindExtensions:
			for _, name := range c.resolver.ExtensionNames() {
				el, ok := c.resolver.ResolveExtension(name)
				if !ok {
					continue
				}
				es, err := el.Adapter().schema()
				if err != nil {
					return nil, err
				}
				out.Properties[name] = es
			}
		}
	}
	for _, name := range []string{svcconfig.LockAttributesAttr, svcconfig.LockAllAttributesExceptAttr, svcconfig.LockElementsAttr, svcconfig.LockAllElementsExceptAttr} {
		out.Properties[name] = &js.Schema{Type: "string"}
	}
	out.Properties[svcconfig.LockItemAttr] = &js.Schema{Type: "boolean"}
	if s.unknown != svcconfig.UnknownStrip {
		out.AdditionalProperties = false
	}
	return out, nil
}

// Adapter exposes the untyped element view for nesting.
func (s *ElementSchema[T]) Adapter() ElementAdapter {
	var keys []string
	for _, a := range s.attrs {
		if a.key {
			keys = append(keys, a.name)
		}
	}
	return ElementAdapter{
		name:      s.name,
		goType:    s.typ,
		keyNames:  keys,
		parse:     s.parseNode,
		encode:    s.encodeValue,
		validate:  s.validateValue,
		keyOf:     s.keyOf,
		keyOfNode: s.keyOfNode,
		schema:    s.JSONSchema,
	}
}

func (s *ElementSchema[T]) checkRoot(n *svcconfig.Node) svcconfig.Issues {
	if n == nil {
		return svcconfig.Issues{{Path: "/", Code: svcconfig.CodeRequired, Message: i18n.T(svcconfig.CodeRequired, map[string]string{"name": s.name})}}
	}
	if n.Name != s.name {
		return svcconfig.Issues{{Path: "/", Code: svcconfig.CodeUnknownElement, Message: i18n.T(svcconfig.CodeUnknownElement, map[string]string{"name": n.Name}), Hint: "expected <" + s.name + ">"}}
	}
	return nil
}

func (s *ElementSchema[T]) policy(ctx context.Context) svcconfig.UnknownPolicy {
	if p, ok := svcconfig.UnknownPolicyFrom(ctx); ok && p != svcconfig.UnknownDefault {
		return p
	}
	if s.unknown == svcconfig.UnknownDefault {
		return svcconfig.UnknownStrict
	}
	return s.unknown
}

// ---- parse ----

type parseState struct {
	ctx      context.Context
	iss      svcconfig.Issues
	failFast bool
	info     *svcconfig.ElementInfo
	locks    svcconfig.Locks
}

func (st *parseState) add(more ...svcconfig.Issue) { st.iss = svcconfig.AppendIssues(st.iss, more...) }

func (st *parseState) stop() bool { return st.failFast && len(st.iss) > 0 }

func (st *parseState) set(name string) {
	if st.info != nil {
		st.info.MarkSet(name)
	}
}

func (s *ElementSchema[T]) parseNode(ctx context.Context, n *svcconfig.Node, p svcconfig.PathRef, pm svcconfig.PresenceMap, present bool) (reflect.Value, svcconfig.Issues) {
	rv := reflect.New(s.typ).Elem()
	st := &parseState{ctx: ctx, failFast: svcconfig.IsFailFast(ctx)}
	if s.infoIndex != nil {
		st.info = rv.FieldByIndex(s.infoIndex).Addr().Interface().(*svcconfig.ElementInfo)
		st.info.Present = present
	}
	if pm != nil && present {
		pm.Mark(p.String(), svcconfig.PresenceSeen)
	}
	policy := s.policy(ctx)

	s.parseAttrs(st, n, rv, p, pm, present, policy)
	if st.stop() {
		return rv, st.iss
	}
	if !st.locks.IsZero() {
		if st.info != nil {
			st.info.Locks = st.locks
		}
		if m := locksFrom(ctx); m != nil {
			m[p.String()] = st.locks
		}
	}
	for _, c := range s.children {
		switch c.kind {
		case kindSingle:
			s.parseSingle(st, c, n, rv, p, pm)
		case kindCollection:
			s.parseCollection(st, c, n, rv, p, pm, policy)
		}
		if st.stop() {
			return rv, st.iss
		}
	}
	s.parseRest(st, n, rv, p, pm, policy)
	if len(st.iss) > 0 {
		return rv, st.iss
	}

	v := rv.Interface().(T)
	if s.normalize != nil {
		nv, err := s.normalize(ctx, v)
		if err != nil {
			return rv, refineIssues(p, err)
		}
		v = nv
	}
	for _, r := range s.refines {
		if err := r.fn(ctx, v); err != nil {
			st.add(refineIssues(p, err)...)
			if st.failFast {
				break
			}
		}
	}
	out := reflect.New(s.typ).Elem()
	out.Set(reflect.ValueOf(&v).Elem())
	return out, st.iss
}

func (s *ElementSchema[T]) parseAttrs(st *parseState, n *svcconfig.Node, rv reflect.Value, p svcconfig.PathRef, pm svcconfig.PresenceMap, present bool, policy svcconfig.UnknownPolicy) {
	seen := map[string]bool{}
	for _, a := range n.Attrs {
		if svcconfig.IsNamespaceAttr(a.Name) || seen[a.Name] {
			continue
		}
		seen[a.Name] = true
		ap := p.Attr(a.Name)
		if svcconfig.IsLockAttr(a.Name) {
			s.parseLock(st, a, ap)
			if st.stop() {
				return
			}
			continue
		}
		spec := s.attrIdx[a.Name]
		if spec == nil {
			if policy != svcconfig.UnknownStrip {
				st.add(ap.Issue(svcconfig.CodeUnknownAttribute, i18n.T(svcconfig.CodeUnknownAttribute, map[string]string{"name": a.Name}), "name", a.Name))
				if st.stop() {
					return
				}
			}
			continue
		}
		v, err := spec.ad.decode(st.ctx, a.Value)
		if err != nil {
			st.add(svcconfig.RebaseIssues(ap.String(), err)...)
			if st.stop() {
				return
			}
			continue
		}
		assign(rv.FieldByIndex(spec.index), v)
		st.set(a.Name)
		if pm != nil {
			pm.Mark(ap.String(), svcconfig.PresenceSeen)
		}
	}
	for _, spec := range s.attrs {
		if seen[spec.name] {
			continue
		}
		ap := p.Attr(spec.name)
		if spec.required && present {
			st.add(ap.Issue(svcconfig.CodeRequired, i18n.T(svcconfig.CodeRequired, map[string]string{"name": spec.name}), "name", spec.name))
			if st.stop() {
				return
			}
			continue
		}
		if !spec.hasDef {
			continue
		}
		fv := rv.FieldByIndex(spec.index)
		dv, err := spec.defaultValue(st.ctx, fv.Type())
		if err != nil {
			st.add(svcconfig.RebaseIssues(ap.String(), err)...)
			continue
		}
		fv.Set(dv)
		if pm != nil {
			pm.Mark(ap.String(), svcconfig.PresenceDefaultApplied)
		}
	}
}

// parseLock checks a lock attribute against the declared attributes and
// child elements and records it on st.
func (s *ElementSchema[T]) parseLock(st *parseState, a svcconfig.Attr, ap svcconfig.PathRef) {
	if a.Name == svcconfig.LockItemAttr {
		b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(a.Value)))
		if err != nil {
			it := ap.Issue(svcconfig.CodeInvalidType, i18n.T(svcconfig.CodeInvalidType, map[string]string{"value": strconv.Quote(a.Value)}))
			it.Hint = "expected true or false"
			st.add(it)
			return
		}
		st.locks.Item = b
		return
	}
	names := svcconfig.SplitLockList(a.Value)
	if len(names) == 0 {
		st.add(ap.Issue(svcconfig.CodeInvalidFormat, a.Name+" must name at least one attribute or element"))
		return
	}
	elements := a.Name == svcconfig.LockElementsAttr || a.Name == svcconfig.LockAllElementsExceptAttr
	allowAll := a.Name == svcconfig.LockAttributesAttr || a.Name == svcconfig.LockElementsAttr
	for _, name := range names {
		switch {
		case name == svcconfig.LockAll && allowAll:
		case elements && s.lockableElement(name):
		case !elements && s.attrIdx[name] != nil:
			if s.attrIdx[name].required {
				st.add(ap.Issue(svcconfig.CodeCustom, fmt.Sprintf("required attribute %q cannot be locked", name), "name", name))
			}
		default:
			st.add(ap.Issue(svcconfig.CodeInvalidFormat, fmt.Sprintf("%q is not valid in %s of <%s>", name, a.Name, s.name), "name", name))
		}
		if st.stop() {
			return
		}
	}
	switch a.Name {
	case svcconfig.LockAttributesAttr:
		st.locks.Attributes = names
	case svcconfig.LockAllAttributesExceptAttr:
		st.locks.AllAttributesExcept = names
	case svcconfig.LockElementsAttr:
		st.locks.Elements = names
	case svcconfig.LockAllElementsExceptAttr:
		st.locks.AllElementsExcept = names
	}
}

func (s *ElementSchema[T]) lockableElement(name string) bool {
	if _, ok := s.childIdx[name]; ok {
		return true
	}
	if s.ext != nil {
		_, ok := s.ext.resolver.ResolveExtension(name)
		return ok
	}
	return false
}

func (s *ElementSchema[T]) parseSingle(st *parseState, c *childSpec, n *svcconfig.Node, rv reflect.Value, p svcconfig.PathRef, pm svcconfig.PresenceMap) {
	nodes := n.ChildrenNamed(c.name)
	cp := p.Elem(c.name)
	if len(nodes) > 1 {
		st.add(p.Index(c.name, 1).Issue(svcconfig.CodeDuplicateElement, i18n.T(svcconfig.CodeDuplicateElement, map[string]string{"name": c.name}), "name", c.name))
		if st.stop() {
			return
		}
	}
	fv := rv.FieldByIndex(c.index)
	if len(nodes) == 0 {
		if c.ptr {
			return
		}
		cv, iss := c.el.Adapter().parse(st.ctx, svcconfig.NewNode(c.name), cp, pm, false)
		st.add(iss...)
		fv.Set(cv)
		return
	}
	st.set(c.name)
	cv, iss := c.el.Adapter().parse(st.ctx, nodes[0], cp, pm, true)
	st.add(iss...)
	if c.ptr {
		pv := reflect.New(cv.Type())
		pv.Elem().Set(cv)
		fv.Set(pv)
		return
	}
	fv.Set(cv)
}

func (s *ElementSchema[T]) parseCollection(st *parseState, c *childSpec, n *svcconfig.Node, rv reflect.Value, p svcconfig.PathRef, pm svcconfig.PresenceMap, policy svcconfig.UnknownPolicy) {
	item := c.el.Adapter()
	coll := rv.FieldByIndex(c.index).Addr().Interface().(collectionField)
	coll.bind(func(v any) string {
		k, _ := item.keyOf(context.Background(), reflect.ValueOf(v))
		return k
	})
	// Keys of inherited items still in effect. An <add> may replace one.
	inherited := map[string]bool{}
	for _, it := range c.inherit {
		v := reflect.ValueOf(it)
		k, _ := item.keyOf(st.ctx, v)
		coll.appendValue(v)
		inherited[k] = true
	}

	container, base := n, p
	if c.wrapped {
		wrappers := n.ChildrenNamed(c.name)
		if len(wrappers) == 0 {
			return
		}
		if len(wrappers) > 1 {
			st.add(p.Index(c.name, 1).Issue(svcconfig.CodeDuplicateElement, i18n.T(svcconfig.CodeDuplicateElement, map[string]string{"name": c.name}), "name", c.name))
		}
		container, base = wrappers[0], p.Elem(c.name)
		st.set(c.name)
		if pm != nil {
			pm.Mark(base.String(), svcconfig.PresenceSeen)
		}
		for _, a := range container.Attrs {
			if !svcconfig.IsNamespaceAttr(a.Name) && policy != svcconfig.UnknownStrip {
				st.add(base.Attr(a.Name).Issue(svcconfig.CodeUnknownAttribute, i18n.T(svcconfig.CodeUnknownAttribute, map[string]string{"name": a.Name}), "name", a.Name))
			}
		}
	}

	idx := 0
	for _, cn := range container.Children {
		if st.stop() {
			return
		}
		switch {
		case cn.Name == item.name:
			ip := itemPath(base, item, cn, idx)
			idx++
			st.set(item.name)
			v, iss := item.parse(st.ctx, cn, ip, pm, true)
			if len(iss) > 0 {
				st.add(iss...)
				continue
			}
			if k, pairs := item.keyOf(st.ctx, v); k != "" {
				if i := coll.indexOfKey(k); i >= 0 {
					if !inherited[k] {
						st.add(ip.Issue(svcconfig.CodeDuplicateKey, i18n.T(svcconfig.CodeDuplicateKey, map[string]string{"key": strings.Join(pairs, ",")}), "key", pairs))
						continue
					}
					delete(inherited, k)
					coll.setAt(i, v)
					continue
				}
			}
			coll.appendValue(v)
		case c.addRemoveClear && cn.Name == "remove":
			k, err := item.keyOfNode(st.ctx, cn)
			if err != nil {
				st.add(svcconfig.RebaseIssues(base.Elem("remove").String(), err)...)
				continue
			}
			if i := coll.indexOfKey(k); i >= 0 {
				coll.removeAt(i)
			}
			delete(inherited, k)
		case c.addRemoveClear && cn.Name == "clear":
			coll.Clear()
			clear(inherited)
		case c.wrapped:
			if policy != svcconfig.UnknownStrip {
				st.add(base.Elem(cn.Name).Issue(svcconfig.CodeUnknownElement, i18n.T(svcconfig.CodeUnknownElement, map[string]string{"name": cn.Name}), "name", cn.Name))
			}
		}
	}
}

// parseRest handles children no declaration claims: extension dispatch or
// unknown elements.
func (s *ElementSchema[T]) parseRest(st *parseState, n *svcconfig.Node, rv reflect.Value, p svcconfig.PathRef, pm svcconfig.PresenceMap, policy svcconfig.UnknownPolicy) {
	var ext extensionsField
	if s.ext != nil {
		ext = rv.FieldByIndex(s.ext.index).Addr().Interface().(extensionsField)
	}
	for _, cn := range n.Children {
		if st.stop() {
			return
		}
		if _, claimed := s.childIdx[cn.Name]; claimed {
			continue
		}
		cp := p.Elem(cn.Name)
		if ext == nil {
			if policy != svcconfig.UnknownStrip {
				st.add(cp.Issue(svcconfig.CodeUnknownElement, i18n.T(svcconfig.CodeUnknownElement, map[string]string{"name": cn.Name}), "name", cn.Name))
			}
			continue
		}
		el, ok := s.ext.resolver.ResolveExtension(cn.Name)
		if !ok {
			if policy != svcconfig.UnknownStrip {
				it := cp.Issue(svcconfig.CodeUnknownExtension, i18n.T(svcconfig.CodeUnknownExtension, map[string]string{"name": cn.Name}), "name", cn.Name)
				it.Hint = "registered: " + strings.Join(s.ext.resolver.ExtensionNames(), ", ")
				st.add(it)
			}
			continue
		}
		if ext.has(cn.Name) {
			st.add(cp.Issue(svcconfig.CodeExtensionConflict, i18n.T(svcconfig.CodeExtensionConflict, map[string]string{"name": cn.Name}), "name", cn.Name))
			continue
		}
		st.set(cn.Name)
		v, iss := el.Adapter().parse(st.ctx, cn, cp, pm, true)
		if len(iss) > 0 {
			st.add(iss...)
			continue
		}
		if err := ext.put(cn.Name, v); err != nil {
			st.add(svcconfig.RebaseIssues(cp.String(), err)...)
		}
	}
}

// itemPath renders name[k=v,...] from the raw key attributes, or name[i]
// when the item has no non-empty key.
func itemPath(base svcconfig.PathRef, item ElementAdapter, n *svcconfig.Node, i int) svcconfig.PathRef {
	var pairs []string
	nonEmpty := false
	for _, k := range item.keyNames {
		v, _ := n.Attr(k)
		if v != "" {
			nonEmpty = true
		}
		pairs = append(pairs, k, v)
	}
	if !nonEmpty {
		return base.Index(n.Name, i)
	}
	return base.Keyed(n.Name, pairs...)
}

func itemPathOf(base svcconfig.PathRef, name string, pairs []string, i int) svcconfig.PathRef {
	for j := 1; j < len(pairs); j += 2 {
		if pairs[j] != "" {
			return base.Keyed(name, pairs...)
		}
	}
	return base.Index(name, i)
}

// assign stores a converted attribute value; nil stores the zero value.
func assign(fv reflect.Value, v any) {
	if v == nil {
		fv.Set(reflect.Zero(fv.Type()))
		return
	}
	fv.Set(reflect.ValueOf(v).Convert(fv.Type()))
}

func refineIssues(p svcconfig.PathRef, err error) svcconfig.Issues {
	if _, ok := svcconfig.AsIssues(err); ok {
		return svcconfig.RebaseIssues(p.String(), err)
	}
	return svcconfig.Issues{p.Issue(svcconfig.CodeCustom, err.Error())}
}

// ---- keys ----

// keyOf returns the joined canonical key text and the name/value pairs.
func (s *ElementSchema[T]) keyOf(ctx context.Context, v reflect.Value) (string, []string) {
	var parts, pairs []string
	for _, a := range s.attrs {
		if !a.key {
			continue
		}
		txt, _ := a.ad.format(ctx, v.FieldByIndex(a.index).Interface())
		parts = append(parts, txt)
		pairs = append(pairs, a.name, txt)
	}
	if parts == nil {
		return "", nil
	}
	return strings.Join(parts, keySep), pairs
}

// keyOfNode computes the key of a <remove> element from its raw attributes.
func (s *ElementSchema[T]) keyOfNode(ctx context.Context, n *svcconfig.Node) (string, error) {
	var parts []string
	for _, a := range s.attrs {
		if !a.key {
			continue
		}
		var val any
		if raw, ok := n.Attr(a.name); ok {
			v, err := a.ad.decode(ctx, raw)
			if err != nil {
				return "", svcconfig.RebaseIssues(svcconfig.Root().Attr(a.name).String(), err)
			}
			val = v
		} else {
			dv, err := a.defaultValue(ctx, a.ad.typ)
			if err != nil {
				return "", err
			}
			val = dv.Interface()
		}
		txt, err := a.ad.format(ctx, val)
		if err != nil {
			return "", err
		}
		parts = append(parts, txt)
	}
	return strings.Join(parts, keySep), nil
}

// ---- validate ----

func (s *ElementSchema[T]) validateValue(ctx context.Context, rv reflect.Value, p svcconfig.PathRef) svcconfig.Issues {
	var out svcconfig.Issues
	for _, a := range s.attrs {
		fv := rv.FieldByIndex(a.index)
		if iss := a.ad.validate(fv.Convert(a.ad.typ).Interface()); len(iss) > 0 {
			out = append(out, svcconfig.RebaseIssues(p.Attr(a.name).String(), iss)...)
		}
	}
	for _, c := range s.children {
		fv := rv.FieldByIndex(c.index)
		switch c.kind {
		case kindSingle:
			if c.ptr {
				if fv.IsNil() {
					continue
				}
				fv = fv.Elem()
			}
			out = append(out, c.el.Adapter().validate(ctx, fv, p.Elem(c.name))...)
		case kindCollection:
			item := c.el.Adapter()
			base := p
			if c.wrapped {
				base = p.Elem(c.name)
			}
			for i, v := range fv.Addr().Interface().(collectionField).values() {
				_, pairs := item.keyOf(ctx, v)
				out = append(out, item.validate(ctx, v, itemPathOf(base, item.name, pairs, i))...)
			}
		case kindExtensions:
			names, vals := fv.Addr().Interface().(extensionsField).entries()
			for i, name := range names {
				el, ok := c.resolver.ResolveExtension(name)
				if !ok {
					out = append(out, p.Elem(name).Issue(svcconfig.CodeUnknownExtension, i18n.T(svcconfig.CodeUnknownExtension, map[string]string{"name": name}), "name", name))
					continue
				}
				out = append(out, el.Adapter().validate(ctx, vals[i], p.Elem(name))...)
			}
		}
	}
	if len(out) > 0 {
		return out
	}
	v := rv.Interface().(T)
	for _, r := range s.refines {
		if err := r.fn(ctx, v); err != nil {
			out = append(out, refineIssues(p, err)...)
		}
	}
	return out
}

// ---- encode ----

func (s *ElementSchema[T]) encodeValue(ctx context.Context, rv reflect.Value, p svcconfig.PathRef, pm svcconfig.PresenceMap) (*svcconfig.Node, error) {
	n := svcconfig.NewNode(s.name)
	for _, a := range s.attrs {
		fv := rv.FieldByIndex(a.index)
		ap := p.Attr(a.name).String()
		if pm != nil {
			if pm.DefaultOnly(ap) {
				continue
			}
			if pm[ap] == 0 && fv.IsZero() {
				continue
			}
		} else if fv.IsZero() && !a.hasDef && !a.required {
			continue
		}
		txt, err := a.ad.format(ctx, fv.Convert(a.ad.typ).Interface())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ap, err)
		}
		n.Attrs = append(n.Attrs, svcconfig.Attr{Name: a.name, Value: txt})
	}
	n.Attrs = append(n.Attrs, s.locksOf(ctx, rv, p).Attrs()...)
	for _, c := range s.children {
		fv := rv.FieldByIndex(c.index)
		switch c.kind {
		case kindSingle:
			cp := p.Elem(c.name)
			if c.ptr {
				if fv.IsNil() {
					continue
				}
				fv = fv.Elem()
			}
			if pm != nil && pm[cp.String()]&svcconfig.PresenceSeen == 0 && !c.ptr {
				continue
			}
			cn, err := c.el.Adapter().encode(ctx, fv, cp, pm)
			if err != nil {
				return nil, err
			}
			cn.Name = c.name
			n.Children = append(n.Children, cn)
		case kindCollection:
			if err := encodeCollection(ctx, n, c, fv, p, pm); err != nil {
				return nil, err
			}
		case kindExtensions:
			names, vals := fv.Addr().Interface().(extensionsField).entries()
			for i, name := range names {
				el, ok := c.resolver.ResolveExtension(name)
				if !ok {
					return nil, fmt.Errorf("%s: extension %q is not registered", p.Elem(name), name)
				}
				cn, err := el.Adapter().encode(ctx, vals[i], p.Elem(name), pm)
				if err != nil {
					return nil, err
				}
				cn.Name = name
				n.Children = append(n.Children, cn)
			}
		}
	}
	return n, nil
}

func encodeCollection(ctx context.Context, n *svcconfig.Node, c *childSpec, fv reflect.Value, p svcconfig.PathRef, pm svcconfig.PresenceMap) error {
	item := c.el.Adapter()
	vals := fv.Addr().Interface().(collectionField).values()
	parent, base := n, p
	if c.wrapped {
		base = p.Elem(c.name)
		if len(vals) == 0 && (pm == nil || pm[base.String()]&svcconfig.PresenceSeen == 0) {
			return nil
		}
		parent = svcconfig.NewNode(c.name)
		n.Children = append(n.Children, parent)
	}
	keys := make([]string, len(vals))
	for i, v := range vals {
		keys[i], _ = item.keyOf(ctx, v)
	}
	// Inherited items the document dropped are written as <remove>.
	for _, it := range c.inherit {
		k, pairs := item.keyOf(ctx, reflect.ValueOf(it))
		if slices.Contains(keys, k) {
			continue
		}
		rn := svcconfig.NewNode("remove")
		for j := 0; j+1 < len(pairs); j += 2 {
			rn.SetAttr(pairs[j], pairs[j+1])
		}
		parent.Children = append(parent.Children, rn)
	}
	for i, v := range vals {
		_, pairs := item.keyOf(ctx, v)
		ip := itemPathOf(base, item.name, pairs, i)
		if pm != nil && pm[ip.String()]&svcconfig.PresenceSeen == 0 && c.inherited(ctx, keys[i], v) {
			continue
		}
		cn, err := item.encode(ctx, v, ip, pm)
		if err != nil {
			return err
		}
		parent.Children = append(parent.Children, cn)
	}
	return nil
}

// inherited reports whether v is an unchanged inherited item.
func (c *childSpec) inherited(ctx context.Context, key string, v reflect.Value) bool {
	item := c.el.Adapter()
	for _, it := range c.inherit {
		if k, _ := item.keyOf(ctx, reflect.ValueOf(it)); k == key {
			return reflect.DeepEqual(it, v.Interface())
		}
	}
	return false
}

type locksKey struct{}

// withLocks makes m the lock store for parsing (filled) or preserving
// encode (read).
func withLocks(ctx context.Context, m map[string]svcconfig.Locks) context.Context {
	if m == nil {
		return ctx
	}
	return context.WithValue(ctx, locksKey{}, m)
}

func locksFrom(ctx context.Context) map[string]svcconfig.Locks {
	m, _ := ctx.Value(locksKey{}).(map[string]svcconfig.Locks)
	return m
}

// locksOf returns the locks to write for the element at p: the lock store
// entry when there is one, else the element's ElementInfo.
func (s *ElementSchema[T]) locksOf(ctx context.Context, rv reflect.Value, p svcconfig.PathRef) svcconfig.Locks {
	if l, ok := locksFrom(ctx)[p.String()]; ok {
		return l
	}
	if s.infoIndex != nil {
		return rv.FieldByIndex(s.infoIndex).Interface().(svcconfig.ElementInfo).Locks
	}
	return svcconfig.Locks{}
}

func jsonDefault(a *attrSpec) any {
	switch a.ad.typ.Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if a.ad.typ.PkgPath() == "" {
			return a.def
		}
	case reflect.String:
		if s, ok := a.def.(string); ok {
			return s
		}
	}
	dv, err := a.defaultValue(context.Background(), a.ad.typ)
	if err != nil {
		return nil
	}
	txt, err := a.ad.format(context.Background(), dv.Interface())
	if err != nil {
		return nil
	}
	return txt
}
