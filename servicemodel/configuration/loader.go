package configuration

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strings"

	"github.com/rs/zerolog"

	svcconfig "github.com/reoring/svcconfig"
	"github.com/reoring/svcconfig/internal/logging"
	"github.com/reoring/svcconfig/servicemodel/channels"
	"github.com/reoring/svcconfig/servicemodel/description"
)

// LoadOption configures Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	registry *Registry
	parse    svcconfig.ParseOpt
	hostname func() (string, error)
}

// WithRegistry resolves extension names through r instead of
// DefaultRegistry. r itself is never modified.
func WithRegistry(r *Registry) LoadOption { return func(o *loadOptions) { o.registry = r } }

// WithParseOpt sets the structural limits and unknown-element policy.
func WithParseOpt(p svcconfig.ParseOpt) LoadOption { return func(o *loadOptions) { o.parse = p } }

// WithHostname replaces the host name source used for "*" base addresses.
func WithHostname(fn func() (string, error)) LoadOption { return func(o *loadOptions) { o.hostname = fn } }

// ServiceModel is a loaded <system.serviceModel> section together with the
// registry its extension names were resolved in.
type ServiceModel struct {
	Section  ServiceModelSection
	Registry *Registry

	presence svcconfig.PresenceMap
	locks    map[string]svcconfig.Locks
	log      *zerolog.Logger
	hostname func() (string, error)
}

// Load reads src, whose document element is <configuration> or
// <system.serviceModel>. The <extensions> section is applied to a copy of
// the registry before the rest of the section is parsed, so names it adds
// resolve anywhere in the document.
func Load(ctx context.Context, src svcconfig.Source, opts ...LoadOption) (*ServiceModel, error) {
	o := loadOptions{registry: DefaultRegistry(), hostname: os.Hostname}
	for _, opt := range opts {
		opt(&o)
	}
	root, err := svcconfig.LoadRoot(src, o.parse)
	if err != nil {
		return nil, err
	}
	node, err := sectionNode(root)
	if err != nil {
		return nil, err
	}
	ctx = svcconfig.ContextFor(ctx, o.parse)
	reg := o.registry.Clone()
	if err := applyExtensions(ctx, reg, node); err != nil {
		return nil, err
	}
	d, err := SectionSchema(reg).ParseWithMeta(ctx, node)
	if err != nil {
		return nil, err
	}
	sec := d.Value
	log := logging.FromContext(ctx)
	log.Debug().
		Int("services", sec.Services.Services.Len()).
		Int("client_endpoints", sec.Client.Endpoints.Len()).
		Strs("bindings", sec.Bindings.Collections.Names()).
		Msg("service model loaded")
	return &ServiceModel{Section: sec, Registry: reg, presence: d.Presence, locks: d.Locks, log: log, hostname: o.hostname}, nil
}

// Encode renders Section as a <system.serviceModel> node. With preserve set
// only the attributes and elements the loaded document carried are written,
// plus values changed since loading.
func (m *ServiceModel) Encode(ctx context.Context, preserve bool) (*svcconfig.Node, error) {
	s := SectionSchema(m.Registry)
	if !preserve {
		return s.Encode(ctx, m.Section)
	}
	return s.EncodePreserving(ctx, svcconfig.Decoded[ServiceModelSection]{Value: m.Section, Presence: m.presence, Locks: m.locks})
}

func sectionNode(root *svcconfig.Node) (*svcconfig.Node, error) {
	switch root.Name {
	case SectionName:
		return root, nil
	case "configuration":
		if n := root.Child(SectionName); n != nil {
			return n, nil
		}
		return svcconfig.NewNode(SectionName), nil
	}
	return nil, svcconfig.Issues{svcconfig.Root().Issue(svcconfig.CodeUnknownElement,
		fmt.Sprintf("document element must be configuration or %s, got %s", SectionName, root.Name), "name", root.Name)}
}

// applyExtensions registers the names of <extensions> in r.
func applyExtensions(ctx context.Context, r *Registry, section *svcconfig.Node) error {
	n := section.Child("extensions")
	if n == nil {
		return nil
	}
	ext, err := extensionsSchema.Parse(ctx, n)
	if err != nil {
		return svcconfig.RebaseIssues("/extensions", err)
	}
	var iss svcconfig.Issues
	for _, kind := range []Kind{KindBindingElement, KindBinding, KindBehavior} {
		for _, e := range ext.byKind(kind) {
			err := r.Register(kind, e.Name, e.Type)
			if err == nil {
				continue
			}
			p := svcconfig.Root().Elem("extensions").Elem(kind.String()).Keyed("add", "name", e.Name)
			code := svcconfig.CodeInvalidType
			switch {
			case errors.Is(err, ErrNotFound):
				code = svcconfig.CodeNotFound
			case errors.Is(err, ErrExtensionConflict):
				code = svcconfig.CodeExtensionConflict
			}
			iss = append(iss, p.Attr("type").Issue(code, err.Error(), "name", e.Name, "type", e.Type))
			if svcconfig.IsFailFast(ctx) {
				return iss
			}
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

// ---- bindings ----

// LookupBinding returns a binding of the collection named section with the
// configuration name applied. An empty name yields the default binding:
// the configured name="" entry when there is one, runtime defaults
// otherwise. A name that is not configured is ErrNotFound.
func (m *ServiceModel) LookupBinding(section, name string) (channels.Binding, error) {
	if section == "" {
		return nil, invalidf("binding section name is empty")
	}
	coll, ok := m.Section.Bindings.Collection(section)
	if !ok {
		t, ok := m.Registry.Lookup(KindBinding, section)
		if !ok {
			return nil, fmt.Errorf("%w: binding section %q", ErrNotFound, section)
		}
		coll = reflect.New(t.GoType).Elem().Interface().(BindingCollectionElement)
	}
	b := coll.NewBinding()
	found := coll.Contains(name)
	m.log.Debug().Bool("found_binding", found).Str("binding", section).Str("name", name).Msg("lookup binding")
	if !found {
		if name != "" {
			return nil, fmt.Errorf("%w: %s configuration %q", ErrNotFound, section, name)
		}
		return b, nil
	}
	if err := coll.ApplyConfiguration(name, b); err != nil {
		return nil, fmt.Errorf("%s %q: %w", section, name, err)
	}
	return b, nil
}

// ---- protocol mapping ----

// LookupProtocolMapping returns the binding used for scheme by default
// endpoints. Schemes compare case-insensitively.
func (m *ServiceModel) LookupProtocolMapping(scheme string) (ProtocolMappingElement, bool) {
	return m.Section.ProtocolMapping.Mappings.Get(strings.ToLower(scheme))
}

// ---- services ----

// LookupService returns the <service> named name. When several match the
// last one wins.
func (m *ServiceModel) LookupService(name string) (ServiceElement, bool) {
	var (
		found ServiceElement
		ok    bool
	)
	for _, s := range m.Section.Services.Services.Items() {
		if s.Name == name {
			found, ok = s, true
		}
	}
	return found, ok
}

// LoadServiceDescription builds the description of the service configured
// as name. contracts are the contracts the service implements; endpoints
// refer to them by ConfigurationName. A service that is not configured
// still receives the default ("") service behavior.
func (m *ServiceModel) LoadServiceDescription(name string, contracts ...description.ContractDescription) (*description.ServiceDescription, error) {
	d := description.NewServiceDescription(name)
	svc, configured := m.LookupService(name)
	if configured {
		if err := m.loadHost(svc.Host, d); err != nil {
			return nil, fmt.Errorf("service %q: %w", name, err)
		}
	}
	if be, ok := m.Section.Behaviors.ServiceBehaviors.Get(svc.BehaviorConfiguration); ok {
		if err := loadBehaviors(m.log, be.Behaviors.Names(), be.Behaviors.Items(), func(x ServiceBehaviorExtension) (description.ServiceBehavior, error) {
			return x.CreateServiceBehavior(m)
		}, &d.Behaviors); err != nil {
			return nil, fmt.Errorf("service %q: behavior %q: %w", name, be.Name, err)
		}
	} else if svc.BehaviorConfiguration != "" {
		return nil, fmt.Errorf("service %q: %w: service behavior %q", name, ErrNotFound, svc.BehaviorConfiguration)
	}
	if !configured {
		return d, nil
	}

	resolve := contractResolver(d, contracts)
	bindings := map[string]channels.Binding{}
	for _, ep := range svc.Endpoints.Items() {
		se, err := m.loadEndpoint(ep, d, resolve, bindings)
		if err != nil {
			return nil, fmt.Errorf("service %q: %w", name, err)
		}
		d.Endpoints = append(d.Endpoints, se)
	}
	return d, nil
}

func contractResolver(d *description.ServiceDescription, contracts []description.ContractDescription) func(string) (description.ContractDescription, error) {
	byName := map[string]description.ContractDescription{}
	for _, c := range contracts {
		byName[c.ConfigurationName] = c
	}
	if _, ok := description.Find[*description.ServiceMetadata](d.Behaviors); ok {
		byName[description.MetadataExchangeContract.ConfigurationName] = description.MetadataExchangeContract
	}
	return func(name string) (description.ContractDescription, error) {
		if c, ok := byName[name]; ok {
			return c, nil
		}
		if name == "" {
			return description.ContractDescription{}, fmt.Errorf("%w: endpoint has no contract", ErrInvalidConfiguration)
		}
		return description.ContractDescription{}, fmt.Errorf("%w: contract %q is not implemented by the service", ErrNotFound, name)
	}
}

func (m *ServiceModel) loadHost(h HostElement, d *description.ServiceDescription) error {
	seen := map[string]bool{}
	for _, ba := range h.BaseAddresses.Items() {
		u, err := m.cookBaseAddress(ba.BaseAddress)
		if err != nil {
			return err
		}
		if seen[u.Scheme] {
			return invalidf("more than one base address with scheme %q", u.Scheme)
		}
		seen[u.Scheme] = true
		d.BaseAddresses = append(d.BaseAddresses, u)
	}
	if h.Timeouts.OpenTimeout != 0 {
		d.OpenTimeout = h.Timeouts.OpenTimeout
	}
	if h.Timeouts.CloseTimeout != 0 {
		d.CloseTimeout = h.Timeouts.CloseTimeout
	}
	return nil
}

// cookBaseAddress replaces a "*" host with the local host name.
func (m *ServiceModel) cookBaseAddress(u *url.URL) (*url.URL, error) {
	if u == nil {
		return nil, invalidf("base address is empty")
	}
	if u.Hostname() != "*" {
		return u, nil
	}
	host, err := m.hostname()
	if err != nil {
		return nil, fmt.Errorf("resolve base address %s: %w", u, err)
	}
	c := *u
	if port := u.Port(); port != "" {
		c.Host = host + ":" + port
	} else {
		c.Host = host
	}
	return &c, nil
}

func (m *ServiceModel) loadEndpoint(ep ServiceEndpointElement, d *description.ServiceDescription,
	resolve func(string) (description.ContractDescription, error), bindings map[string]channels.Binding,
) (*description.ServiceEndpoint, error) {
	if ep.Kind != "" {
		return nil, fmt.Errorf("%w: standard endpoint kind %q", ErrUnsupported, ep.Kind)
	}
	contract, err := resolve(ep.Contract)
	if err != nil {
		return nil, err
	}

	key := ep.Binding + ":" + ep.BindingConfiguration
	b, ok := bindings[key]
	if !ok {
		if b, err = m.LookupBinding(ep.Binding, ep.BindingConfiguration); err != nil {
			return nil, err
		}
		bindings[key] = b
	}
	if ep.BindingName != "" {
		b.SetName(ep.BindingName)
	}
	if ep.BindingNamespace != "" {
		b.SetNamespace(ep.BindingNamespace)
	}

	address := ep.Address
	if address == nil {
		address = &url.URL{}
	}
	via, err := makeAbsolute(address, b, d.BaseAddresses)
	if err != nil {
		return nil, err
	}
	se := &description.ServiceEndpoint{
		Name:          ep.Name,
		Address:       &description.EndpointAddress{URI: via, Identity: ep.Identity.Identity()},
		ListenURIMode: ep.ListenURIMode,
		Binding:       b,
		Contract:      &contract,
	}
	if se.Name == "" {
		se.Name = b.Name() + "_" + contract.Name
	}
	if ep.ListenURI != nil {
		if se.ListenURI, err = makeAbsolute(ep.ListenURI, b, d.BaseAddresses); err != nil {
			return nil, err
		}
	}
	if err := m.loadEndpointBehaviors(ep.BehaviorConfiguration, &se.Behaviors); err != nil {
		return nil, fmt.Errorf("endpoint %s: %w", via, err)
	}
	if ep.Info.IsSet("isSystemEndpoint") {
		se.IsSystemEndpoint = ep.IsSystemEndpoint
	}
	return se, nil
}

func (m *ServiceModel) loadEndpointBehaviors(name string, into *description.Behaviors[description.EndpointBehavior]) error {
	be, ok := m.Section.Behaviors.EndpointBehaviors.Get(name)
	if !ok {
		if name != "" {
			return fmt.Errorf("%w: endpoint behavior %q", ErrNotFound, name)
		}
		return nil
	}
	err := loadBehaviors(m.log, be.Behaviors.Names(), be.Behaviors.Items(), func(x EndpointBehaviorExtension) (description.EndpointBehavior, error) {
		return x.CreateEndpointBehavior(m)
	}, into)
	if err != nil {
		return fmt.Errorf("behavior %q: %w", name, err)
	}
	return nil
}

// loadBehaviors adds the behaviors created from exts to into. The same
// behavior type twice within exts is an error; a type already in into
// from an outer scope is replaced.
func loadBehaviors[X any, B any](log *zerolog.Logger, names []string, exts []X, create func(X) (B, error), into *description.Behaviors[B]) error {
	var scope description.Behaviors[B]
	for i, x := range exts {
		b, err := create(x)
		if err != nil {
			return fmt.Errorf("%s: %w", names[i], err)
		}
		t := reflect.TypeOf(b)
		if t == nil {
			log.Warn().Str("behavior", names[i]).Msg("behavior element created no behavior; skipped")
			continue
		}
		if err := scope.Add(b); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfiguration, names[i], err)
		}
		if into.Remove(t) {
			log.Debug().Str("behavior", names[i]).Str("type", t.String()).Msg("replaced behavior from outer scope")
		}
		into.Set(b)
	}
	return nil
}

// makeAbsolute resolves a relative address against the base address whose
// scheme is the binding's transport scheme.
func makeAbsolute(u *url.URL, b channels.Binding, bases []*url.URL) (*url.URL, error) {
	if u.IsAbs() {
		return u, nil
	}
	scheme := b.Scheme()
	if scheme == "" {
		return nil, invalidf("binding %s has no transport", b.Name())
	}
	schemes := make([]string, 0, len(bases))
	for _, base := range bases {
		if strings.EqualFold(base.Scheme, scheme) {
			return joinAddress(base, u), nil
		}
		schemes = append(schemes, base.Scheme)
	}
	return nil, fmt.Errorf("%w: no base address matches scheme %q of binding %s; base address schemes are [%s]",
		ErrNotFound, scheme, b.Name(), strings.Join(schemes, ", "))
}

// joinAddress appends rel to base. Leading slashes of rel are dropped, so
// rel always lands below base.
func joinAddress(base, rel *url.URL) *url.URL {
	r := *rel
	r.Path = strings.TrimLeft(r.Path, "/\\")
	r.RawPath = ""
	if r.Path == "" && r.RawQuery == "" && r.Fragment == "" {
		return base
	}
	b := *base
	if !strings.HasSuffix(b.Path, "/") {
		b.Path += "/"
		b.RawPath = ""
	}
	return b.ResolveReference(&r)
}

// ---- client ----

// LookupChannel returns the client endpoint configured for contract under
// configurationName. "*" matches any name but must select exactly one
// endpoint.
func (m *ServiceModel) LookupChannel(configurationName string, contract description.ContractDescription) (*description.ServiceEndpoint, error) {
	wildcard := configurationName == "*"
	var (
		match ChannelEndpointElement
		found bool
	)
	for _, ep := range m.Section.Client.Endpoints.Items() {
		if ep.Contract != contract.ConfigurationName || (!wildcard && ep.Name != configurationName) {
			continue
		}
		if found {
			if wildcard {
				return nil, fmt.Errorf("%w: more than one client endpoint for contract %q", ErrAmbiguousMatch, contract.ConfigurationName)
			}
			return nil, fmt.Errorf("%w: more than one client endpoint named %q for contract %q", ErrAmbiguousMatch, configurationName, contract.ConfigurationName)
		}
		match, found = ep, true
	}
	m.log.Debug().Bool("found_channel", found).Str("name", configurationName).Str("contract", contract.ConfigurationName).Msg("lookup channel")
	if !found {
		if wildcard {
			return nil, fmt.Errorf("%w: no client endpoint for contract %q", ErrNotFound, contract.ConfigurationName)
		}
		return nil, fmt.Errorf("%w: no client endpoint named %q for contract %q", ErrNotFound, configurationName, contract.ConfigurationName)
	}
	if match.Kind != "" {
		return nil, fmt.Errorf("%w: standard endpoint kind %q", ErrUnsupported, match.Kind)
	}

	c := contract
	se := &description.ServiceEndpoint{Name: match.Name, Contract: &c}
	if match.Binding != "" {
		b, err := m.LookupBinding(match.Binding, match.BindingConfiguration)
		if err != nil {
			return nil, fmt.Errorf("client endpoint %q: %w", match.Name, err)
		}
		se.Binding = b
	}
	if match.Address != nil && match.Address.String() != "" {
		se.Address = &description.EndpointAddress{URI: match.Address, Identity: match.Identity.Identity()}
	}
	if err := m.loadEndpointBehaviors(match.BehaviorConfiguration, &se.Behaviors); err != nil {
		return nil, fmt.Errorf("client endpoint %q: %w", match.Name, err)
	}
	return se, nil
}
