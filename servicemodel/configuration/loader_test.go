package configuration_test

import (
	"context"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	svcconfig "github.com/reoring/svcconfig"
	"github.com/reoring/svcconfig/servicemodel/channels"
	"github.com/reoring/svcconfig/servicemodel/configuration"
	"github.com/reoring/svcconfig/servicemodel/description"
	_ "github.com/reoring/svcconfig/source/xml"
)

var orderContract = description.ContractDescription{
	Name:              "IOrderService",
	Namespace:         "http://example.com/orders",
	ConfigurationName: "Orders.IOrderService",
}

func loadFixture(t *testing.T) *configuration.ServiceModel {
	t.Helper()
	b, err := os.ReadFile("testdata/service.config")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	m, err := configuration.Load(context.Background(), svcconfig.XMLBytes(b))
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return m
}

func loadString(t *testing.T, doc string, opts ...configuration.LoadOption) (*configuration.ServiceModel, error) {
	t.Helper()
	return configuration.Load(context.Background(), svcconfig.XMLBytes([]byte(doc)), opts...)
}

func behaviorTypes[T any](b description.Behaviors[T]) []string {
	var out []string
	for _, it := range b.Items() {
		out = append(out, reflect.TypeOf(it).Elem().Name())
	}
	return out
}

func TestLoad_DocumentElement(t *testing.T) {
	m, err := loadString(t, `<configuration><appSettings/></configuration>`)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if m.Section.Services.Services.Len() != 0 {
		t.Fatalf("expected empty section")
	}
	if _, err := loadString(t, `<system.serviceModel/>`); err != nil {
		t.Fatalf("bare section should load: %v", err)
	}
	_, err = loadString(t, `<settings/>`)
	iss, ok := svcconfig.AsIssues(err)
	if !ok || iss[0].Code != svcconfig.CodeUnknownElement {
		t.Fatalf("expected unknown_element, got %v", err)
	}
}

func TestLookupBinding_DefaultAndNamed(t *testing.T) {
	m := loadFixture(t)

	b, err := m.LookupBinding("basicHttpBinding", "")
	if err != nil {
		t.Fatalf("default binding: %v", err)
	}
	basic := b.(*channels.BasicHTTPBinding)
	if basic.MaxReceivedMessageSize != 1048576 || basic.MaxBufferSize != 1048576 {
		t.Fatalf("name=\"\" entry not applied: %d/%d", basic.MaxReceivedMessageSize, basic.MaxBufferSize)
	}

	b, err = m.LookupBinding("basicHttpBinding", "large")
	if err != nil {
		t.Fatalf("large: %v", err)
	}
	large := b.(*channels.BasicHTTPBinding)
	if large.TransferMode != channels.Streamed || large.Security.Mode != channels.BasicHTTPSecurityTransport {
		t.Fatalf("unexpected large binding: %+v", large)
	}
	if large.MaxBufferSize != 65536 {
		t.Fatalf("streamed binding keeps the default buffer size, got %d", large.MaxBufferSize)
	}
	if large.Timeouts().Send != 5*time.Minute || large.ReaderQuotas.MaxDepth != 64 {
		t.Fatalf("timeouts or quotas not applied: %+v %+v", large.Timeouts(), large.ReaderQuotas)
	}
	if large.Security.Transport.Realm != "orders" || large.Scheme() != "https" {
		t.Fatalf("transport security not applied: %+v", large.Security.Transport)
	}
}

func TestLookupBinding_Unconfigured(t *testing.T) {
	m := loadFixture(t)

	b, err := m.LookupBinding("wsHttpBinding", "")
	if err != nil {
		t.Fatalf("registered but unconfigured section: %v", err)
	}
	if diff := cmp.Diff(channels.NewWSHTTPBinding(), b, cmp.Exporter(func(reflect.Type) bool { return true })); diff != "" {
		t.Fatalf("expected runtime defaults (-want +got):\n%s", diff)
	}
	if _, err := m.LookupBinding("basicHttpBinding", "missing"); !errors.Is(err, configuration.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := m.LookupBinding("fooBinding", ""); !errors.Is(err, configuration.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown section, got %v", err)
	}
	if _, err := m.LookupBinding("", ""); !errors.Is(err, configuration.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestLookupBinding_Custom(t *testing.T) {
	m := loadFixture(t)
	b, err := m.LookupBinding("customBinding", "binaryHttp")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	cb := b.(*channels.CustomBinding)
	if len(cb.Elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(cb.Elements))
	}
	rs, ok := cb.Elements[0].(*channels.ReliableSession)
	if !ok || !rs.Ordered || rs.MaxRetryCount != 4 {
		t.Fatalf("unexpected reliable session: %#v", cb.Elements[0])
	}
	if enc, ok := cb.Elements[1].(*channels.BinaryMessageEncoding); !ok || enc.MaxSessionSize != 4096 {
		t.Fatalf("unexpected encoder: %#v", cb.Elements[1])
	}
	tr, ok := cb.Elements[2].(*channels.HTTPTransport)
	if !ok || tr.MaxReceivedMessageSize != 131072 || tr.MaxBufferSize != 131072 || tr.KeepAliveEnabled {
		t.Fatalf("unexpected transport: %#v", cb.Elements[2])
	}
	if cb.Scheme() != "http" || cb.Timeouts().Receive != 20*time.Minute {
		t.Fatalf("unexpected scheme %q or timeouts %+v", cb.Scheme(), cb.Timeouts())
	}
}

func TestLoadServiceDescription(t *testing.T) {
	m := loadFixture(t)
	d, err := m.LoadServiceDescription("Orders.OrderService", orderContract)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if d.OpenTimeout != 30*time.Second || d.CloseTimeout != 10*time.Second {
		t.Fatalf("unexpected host timeouts %v/%v", d.OpenTimeout, d.CloseTimeout)
	}
	want := []string{"ServiceAuthorization", "ServiceDebug", "ServiceThrottling", "ServiceMetadata"}
	if diff := cmp.Diff(want, behaviorTypes(d.Behaviors)); diff != "" {
		t.Fatalf("service behaviors (-want +got):\n%s", diff)
	}
	dbg, _ := description.Find[*description.ServiceDebug](d.Behaviors)
	if !dbg.IncludeExceptionDetailInFaults {
		t.Fatalf("serviceDebug not applied")
	}
	thr, _ := description.Find[*description.ServiceThrottling](d.Behaviors)
	if thr.MaxConcurrentCalls != 32 {
		t.Fatalf("serviceThrottling not applied: %+v", thr)
	}

	var uris, names []string
	for _, ep := range d.Endpoints {
		uris = append(uris, ep.Address.String())
		names = append(names, ep.Name)
	}
	wantURIs := []string{
		"http://localhost:8080/orders",
		"net.tcp://localhost:8081/orders/tcp",
		"http://localhost:8080/orders/mex",
	}
	if diff := cmp.Diff(wantURIs, uris); diff != "" {
		t.Fatalf("endpoint addresses (-want +got):\n%s", diff)
	}
	wantNames := []string{"BasicHttpBinding_IOrderService", "SecureTcp_IOrderService", "BasicHttpBinding_IMetadataExchange"}
	if diff := cmp.Diff(wantNames, names); diff != "" {
		t.Fatalf("endpoint names (-want +got):\n%s", diff)
	}

	tcp := d.Endpoints[1]
	if id := tcp.Address.Identity; id == nil || id.Kind != description.IdentityDNS || id.Value != "orders.example.com" {
		t.Fatalf("unexpected identity %+v", tcp.Address.Identity)
	}
	nt := tcp.Binding.(*channels.NetTCPBinding)
	if !nt.PortSharingEnabled || nt.MaxConnections != 50 || nt.Security.Transport.ClientCredentialType != channels.TCPCredentialCertificate {
		t.Fatalf("secure binding not applied: %+v", nt)
	}
	if diff := cmp.Diff([]string{"CallbackDebug", "SynchronousReceive"}, behaviorTypes(tcp.Behaviors)); diff != "" {
		t.Fatalf("endpoint behaviors (-want +got):\n%s", diff)
	}
	if d.Endpoints[2].Contract.ConfigurationName != description.MetadataExchangeContract.ConfigurationName {
		t.Fatalf("mex endpoint should use the metadata exchange contract")
	}
	if d.Endpoints[0].Binding != d.Endpoints[2].Binding {
		t.Fatalf("endpoints with the same binding configuration share one binding")
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("description should validate: %v", err)
	}
}

func TestLoadServiceDescription_Unconfigured(t *testing.T) {
	m := loadFixture(t)
	d, err := m.LoadServiceDescription("Other.Service")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(d.Endpoints) != 0 {
		t.Fatalf("unconfigured service has no endpoints")
	}
	if _, ok := description.Find[*description.ServiceMetadata](d.Behaviors); !ok {
		t.Fatalf("default service behavior should apply")
	}
}

func TestLoadServiceDescription_Errors(t *testing.T) {
	tests := []struct {
		name    string
		service string
		want    error
	}{
		{
			name: "missing behavior",
			service: `<service name="S" behaviorConfiguration="nope">
				<endpoint address="http://h/s" binding="basicHttpBinding" contract="C"/></service>`,
			want: configuration.ErrNotFound,
		},
		{
			name:    "unknown contract",
			service: `<service name="S"><endpoint address="http://h/s" binding="basicHttpBinding" contract="Other"/></service>`,
			want:    configuration.ErrNotFound,
		},
		{
			name:    "no base address for scheme",
			service: `<service name="S"><endpoint address="rel" binding="netTcpBinding" contract="C"/></service>`,
			want:    configuration.ErrNotFound,
		},
		{
			name:    "standard endpoint",
			service: `<service name="S"><endpoint kind="mexEndpoint" contract="C"/></service>`,
			want:    configuration.ErrUnsupported,
		},
		{
			name: "duplicate base address scheme",
			service: `<service name="S"><host><baseAddresses>
				<add baseAddress="http://a/"/><add baseAddress="http://b/"/>
				</baseAddresses></host></service>`,
			want: configuration.ErrInvalidConfiguration,
		},
	}
	contract := description.ContractDescription{Name: "C", ConfigurationName: "C"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := loadString(t, `<system.serviceModel><services>`+tt.service+`</services></system.serviceModel>`)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if _, err := m.LoadServiceDescription("S", contract); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadServiceDescription_WildcardHost(t *testing.T) {
	doc := `<system.serviceModel><services><service name="S">
		<host><baseAddresses><add baseAddress="http://*:9000/s"/></baseAddresses></host>
		<endpoint address="/api" binding="basicHttpBinding" contract="C" listenUri="listen"/>
		</service></services></system.serviceModel>`
	m, err := loadString(t, doc, configuration.WithHostname(func() (string, error) { return "box", nil }))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	d, err := m.LoadServiceDescription("S", description.ContractDescription{Name: "C", ConfigurationName: "C"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := d.Endpoints[0].Address.String(); got != "http://box:9000/s/api" {
		t.Fatalf("unexpected address %q", got)
	}
	if got := d.Endpoints[0].ListenURI.String(); got != "http://box:9000/s/listen" {
		t.Fatalf("unexpected listen uri %q", got)
	}
}

func TestLoadServiceDescription_BehaviorScopes(t *testing.T) {
	doc := `<system.serviceModel>
		<behaviors><serviceBehaviors>
			<behavior name="twice"><serviceDebug/><serviceDebug/></behavior>
		</serviceBehaviors></behaviors>
		<services><service name="S" behaviorConfiguration="twice"/></services>
		</system.serviceModel>`
	_, err := loadString(t, doc)
	iss, ok := svcconfig.AsIssues(err)
	if !ok || iss[0].Code != svcconfig.CodeExtensionConflict {
		t.Fatalf("expected extension_conflict for a repeated behavior element, got %v", err)
	}

	doc = `<system.serviceModel>
		<behaviors><endpointBehaviors>
			<behavior name="svc"><serviceDebug/></behavior>
		</endpointBehaviors></behaviors>
		</system.serviceModel>`
	_, err = loadString(t, doc)
	iss, ok = svcconfig.AsIssues(err)
	if !ok || iss[0].Code != svcconfig.CodeUnknownExtension {
		t.Fatalf("service behavior in endpoint scope should be unknown, got %v", err)
	}
}

func TestLookupChannel(t *testing.T) {
	m := loadFixture(t)

	ep, err := m.LookupChannel("primary", orderContract)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ep.Address.String() != "http://orders.example.com/svc" {
		t.Fatalf("unexpected address %q", ep.Address)
	}
	if b := ep.Binding.(*channels.BasicHTTPBinding); b.TransferMode != channels.Streamed {
		t.Fatalf("bindingConfiguration not applied")
	}
	via, ok := description.Find[*description.ClientVia](ep.Behaviors)
	if !ok || via.URI.String() != "http://router.example.com/orders" {
		t.Fatalf("clientVia not applied: %+v", ep.Behaviors.Items())
	}

	if _, err := m.LookupChannel("*", orderContract); !errors.Is(err, configuration.ErrAmbiguousMatch) {
		t.Fatalf("expected ErrAmbiguousMatch, got %v", err)
	}
	audit := description.ContractDescription{Name: "IAuditService", ConfigurationName: "Audit.IAuditService"}
	ep, err = m.LookupChannel("*", audit)
	if err != nil || ep.Name != "audit" {
		t.Fatalf("wildcard with one match: %v %+v", err, ep)
	}
	if _, err := m.LookupChannel("nope", orderContract); !errors.Is(err, configuration.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLookupProtocolMapping(t *testing.T) {
	m := loadFixture(t)
	pm, ok := m.LookupProtocolMapping("http")
	if !ok || pm.Binding != "wsHttpBinding" {
		t.Fatalf("configured mapping should win: %+v", pm)
	}
	pm, ok = m.LookupProtocolMapping("net.tcp")
	if !ok || pm.Binding != "netTcpBinding" {
		t.Fatalf("built-in mapping expected: %+v", pm)
	}
	if _, ok := m.LookupProtocolMapping("gopher"); ok {
		t.Fatalf("unexpected mapping for unknown scheme")
	}
}

func TestLookupProtocolMapping_ClearAndRemove(t *testing.T) {
	tests := []struct {
		name    string
		section string
		want    map[string]string
	}{
		{
			name:    "clear drops built-ins",
			section: `<clear/><add scheme="net.tcp" binding="netTcpBinding"/>`,
			want:    map[string]string{"http": "", "https": "", "net.tcp": "netTcpBinding", "net.pipe": ""},
		},
		{
			name:    "remove drops one built-in",
			section: `<remove scheme="http"/>`,
			want:    map[string]string{"http": "", "https": "basicHttpBinding", "net.tcp": "netTcpBinding"},
		},
		{
			name:    "scheme case is ignored",
			section: `<remove scheme="HTTPS"/><add scheme="HTTP" binding="wsHttpBinding"/>`,
			want:    map[string]string{"http": "wsHttpBinding", "HTTP": "wsHttpBinding", "Https": ""},
		},
		{
			name:    "re-add after remove",
			section: `<remove scheme="net.pipe"/><add scheme="net.pipe" binding="netTcpBinding"/>`,
			want:    map[string]string{"net.pipe": "netTcpBinding", "http": "basicHttpBinding"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := loadString(t, `<system.serviceModel><protocolMapping>`+tt.section+`</protocolMapping></system.serviceModel>`)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			got := map[string]string{}
			for scheme := range tt.want {
				if pm, ok := m.LookupProtocolMapping(scheme); ok {
					got[scheme] = pm.Binding
				} else {
					got[scheme] = ""
				}
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("mappings (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_ProtocolMappingDuplicateAdd(t *testing.T) {
	_, err := loadString(t, `<system.serviceModel><protocolMapping>
		<add scheme="http" binding="wsHttpBinding"/>
		<add scheme="Http" binding="basicHttpBinding"/>
		</protocolMapping></system.serviceModel>`)
	iss, ok := svcconfig.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Code != svcconfig.CodeDuplicateKey {
		t.Fatalf("expected one duplicate_key, got %v", err)
	}
}

func TestServiceModel_EncodeRemovedMapping(t *testing.T) {
	ctx := context.Background()
	m, err := loadString(t, `<system.serviceModel><protocolMapping><remove scheme="http"/></protocolMapping></system.serviceModel>`)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, preserve := range []bool{false, true} {
		n, err := m.Encode(ctx, preserve)
		if err != nil {
			t.Fatalf("encode(preserve=%v): %v", preserve, err)
		}
		pmn := n.Child("protocolMapping")
		if pmn == nil {
			t.Fatalf("encode(preserve=%v): protocolMapping missing", preserve)
		}
		removed := pmn.ChildrenNamed("remove")
		if len(removed) != 1 {
			t.Fatalf("encode(preserve=%v): want one <remove>, got %+v", preserve, pmn.Children)
		}
		if v, _ := removed[0].Attr("scheme"); v != "http" {
			t.Fatalf("encode(preserve=%v): removed scheme %q", preserve, v)
		}
		if preserve && len(pmn.ChildrenNamed("add")) != 0 {
			t.Fatalf("preserving encode wrote inherited mappings: %+v", pmn.Children)
		}
		again, err := configuration.Load(ctx, svcconfig.NodeSource(n))
		if err != nil {
			t.Fatalf("reload(preserve=%v): %v", preserve, err)
		}
		if _, ok := again.LookupProtocolMapping("http"); ok {
			t.Fatalf("reload(preserve=%v): http mapping came back", preserve)
		}
		if _, ok := again.LookupProtocolMapping("https"); !ok {
			t.Fatalf("reload(preserve=%v): https mapping lost", preserve)
		}
	}
}

func TestLoad_LockAttributes(t *testing.T) {
	ctx := context.Background()
	doc := `<system.serviceModel><bindings><basicHttpBinding>
		<binding name="a" lockAttributes="sendTimeout, openTimeout" lockItem="true"/>
		</basicHttpBinding></bindings>
		<client lockElements="endpoint"/>
		</system.serviceModel>`
	m, err := loadString(t, doc)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	coll, _ := m.Section.Bindings.Collection("basicHttpBinding")
	b, ok := coll.(configuration.BasicHTTPBindingCollection).Bindings.Get("a")
	if !ok {
		t.Fatalf("binding a missing")
	}
	want := svcconfig.Locks{Attributes: []string{"sendTimeout", "openTimeout"}, Item: true}
	if diff := cmp.Diff(want, b.Info.Locks); diff != "" {
		t.Fatalf("locks (-want +got):\n%s", diff)
	}
	if !b.Info.Locks.AttributeLocked("sendTimeout") || b.Info.Locks.AttributeLocked("closeTimeout") {
		t.Fatalf("unexpected lock answers: %+v", b.Info.Locks)
	}

	kept, err := m.Encode(ctx, true)
	if err != nil {
		t.Fatalf("encode preserving: %v", err)
	}
	bn := kept.Child("bindings").Child("basicHttpBinding").ChildrenNamed("binding")[0]
	if v, _ := bn.Attr("lockAttributes"); v != "sendTimeout,openTimeout" {
		t.Fatalf("lockAttributes not preserved: %+v", bn.Attrs)
	}
	if v, _ := bn.Attr("lockItem"); v != "true" {
		t.Fatalf("lockItem not preserved: %+v", bn.Attrs)
	}
	if v, _ := kept.Child("client").Attr("lockElements"); v != "endpoint" {
		t.Fatalf("lockElements on <client> not preserved: %+v", kept.Child("client"))
	}

	full, err := m.Encode(ctx, false)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	for _, bn := range full.Child("bindings").Child("basicHttpBinding").ChildrenNamed("binding") {
		if name, _ := bn.Attr("name"); name == "a" {
			if v, _ := bn.Attr("lockAttributes"); v != "sendTimeout,openTimeout" {
				t.Fatalf("canonical encode dropped lockAttributes: %+v", bn.Attrs)
			}
		}
	}
}

func TestLoad_LockAttributeErrors(t *testing.T) {
	tests := []struct {
		name string
		attr string
		code string
	}{
		{"undeclared attribute", `lockAttributes="colour"`, svcconfig.CodeInvalidFormat},
		{"star in except list", `lockAllAttributesExcept="*"`, svcconfig.CodeInvalidFormat},
		{"empty list", `lockElements=" , "`, svcconfig.CodeInvalidFormat},
		{"undeclared element", `lockElements="nothing"`, svcconfig.CodeInvalidFormat},
		{"lockItem not bool", `lockItem="yes"`, svcconfig.CodeInvalidType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadString(t, `<system.serviceModel><bindings><basicHttpBinding><binding name="a" `+tt.attr+`/></basicHttpBinding></bindings></system.serviceModel>`)
			iss, ok := svcconfig.AsIssues(err)
			if !ok || len(iss) != 1 {
				t.Fatalf("expected one issue, got %v", err)
			}
			attr := tt.attr[:strings.Index(tt.attr, "=")]
			if iss[0].Code != tt.code || iss[0].Path != "/bindings/basicHttpBinding/binding[name=a]/@"+attr {
				t.Fatalf("unexpected issue %+v", iss[0])
			}
		})
	}

	_, err := loadString(t, `<system.serviceModel><protocolMapping><add scheme="http" binding="wsHttpBinding" lockAttributes="scheme"/></protocolMapping></system.serviceModel>`)
	iss, ok := svcconfig.AsIssues(err)
	if !ok || iss[0].Code != svcconfig.CodeCustom || iss[0].Path != "/protocolMapping/add[scheme=http]/@lockAttributes" {
		t.Fatalf("locking a required attribute should fail, got %v", err)
	}
}

func TestLoad_Extensions(t *testing.T) {
	doc := `<system.serviceModel>
		<extensions><bindingExtensions>
			<add name="fastBinding" type="System.ServiceModel.Configuration.NetTcpBindingCollectionElement, System.ServiceModel, Version=4.0.0.0"/>
		</bindingExtensions></extensions>
		<bindings><fastBinding><binding name="x" maxConnections="5"/></fastBinding></bindings>
		</system.serviceModel>`
	m, err := loadString(t, doc)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	b, err := m.LookupBinding("fastBinding", "x")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if nt, ok := b.(*channels.NetTCPBinding); !ok || nt.MaxConnections != 5 {
		t.Fatalf("unexpected binding %#v", b)
	}
	if _, ok := configuration.DefaultRegistry().Lookup(configuration.KindBinding, "fastBinding"); ok {
		t.Fatalf("<extensions> must not leak into the shared registry")
	}
}

func TestLoad_ExtensionErrors(t *testing.T) {
	tests := []struct {
		name string
		add  string
		code string
	}{
		{"unknown type", `<bindingExtensions><add name="x" type="Contoso.Missing"/></bindingExtensions>`, svcconfig.CodeNotFound},
		{"conflict", `<bindingExtensions><add name="basicHttpBinding" type="System.ServiceModel.Configuration.NetTcpBindingCollectionElement"/></bindingExtensions>`, svcconfig.CodeExtensionConflict},
		{"wrong kind", `<behaviorExtensions><add name="x" type="System.ServiceModel.Configuration.HttpTransportElement"/></behaviorExtensions>`, svcconfig.CodeInvalidType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadString(t, `<system.serviceModel><extensions>`+tt.add+`</extensions></system.serviceModel>`)
			iss, ok := svcconfig.AsIssues(err)
			if !ok || len(iss) != 1 {
				t.Fatalf("expected one issue, got %v", err)
			}
			if iss[0].Code != tt.code || !strings.HasSuffix(iss[0].Path, "/@type") {
				t.Fatalf("unexpected issue %+v", iss[0])
			}
		})
	}
}

func TestLoad_IssuePaths(t *testing.T) {
	doc := `<system.serviceModel><bindings><basicHttpBinding>
		<binding name="a" maxReceivedMessageSize="-1"/>
		</basicHttpBinding></bindings></system.serviceModel>`
	_, err := loadString(t, doc)
	iss, ok := svcconfig.AsIssues(err)
	if !ok {
		t.Fatalf("expected issues, got %v", err)
	}
	want := "/bindings/basicHttpBinding/binding[name=a]/@maxReceivedMessageSize"
	if iss[0].Path != want {
		t.Fatalf("path = %q, want %q", iss[0].Path, want)
	}
}

func TestServiceModel_Encode(t *testing.T) {
	ctx := context.Background()
	m := loadFixture(t)

	full, err := m.Encode(ctx, false)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if full.Child("diagnostics") == nil {
		t.Fatalf("canonical output carries every declared child")
	}

	kept, err := m.Encode(ctx, true)
	if err != nil {
		t.Fatalf("encode preserving: %v", err)
	}
	if kept.Child("diagnostics") != nil {
		t.Fatalf("preserving output should omit sections absent from the document")
	}
	basic := kept.Child("bindings").Child("basicHttpBinding")
	if basic == nil || len(basic.ChildrenNamed("binding")) != 2 {
		t.Fatalf("bindings not preserved: %+v", kept.Child("bindings"))
	}
	if v, ok := basic.ChildrenNamed("binding")[0].Attr("openTimeout"); ok {
		t.Fatalf("default openTimeout %q should not be written", v)
	}

	again, err := configuration.Load(ctx, svcconfig.NodeSource(kept))
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if diff := cmp.Diff(m.Section.Client.Endpoints.Len(), again.Section.Client.Endpoints.Len()); diff != "" {
		t.Fatalf("client endpoints (-want +got):\n%s", diff)
	}
}
