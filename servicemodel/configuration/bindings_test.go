package configuration_test

import (
	"context"
	"errors"
	"net/url"
	"reflect"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	svcconfig "github.com/reoring/svcconfig"
	"github.com/reoring/svcconfig/dsl"
	"github.com/reoring/svcconfig/servicemodel/channels"
	"github.com/reoring/svcconfig/servicemodel/configuration"
)

var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

type appliable[B any] interface {
	ApplyConfiguration(B) error
}

// applyParsed parses n with s and applies the result onto fresh().
func applyParsed[E appliable[B], B channels.Binding](t *testing.T, s *dsl.ElementSchema[E], n *svcconfig.Node, fresh func() B) B {
	t.Helper()
	e, err := s.Parse(context.Background(), n)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	b := fresh()
	if err := e.ApplyConfiguration(b); err != nil {
		t.Fatalf("apply: %v", err)
	}
	return b
}

func TestStandardBindings_EmptyElementMatchesRuntimeDefaults(t *testing.T) {
	empty := func() *svcconfig.Node { return svcconfig.NewNode("binding") }
	tests := []struct {
		name string
		got  func(*testing.T) channels.Binding
		want channels.Binding
	}{
		{"basicHttpBinding", func(t *testing.T) channels.Binding {
			return applyParsed(t, configuration.BasicHTTPBindingSchema(), empty(), channels.NewBasicHTTPBinding)
		}, channels.NewBasicHTTPBinding()},
		{"wsHttpBinding", func(t *testing.T) channels.Binding {
			return applyParsed(t, configuration.WSHTTPBindingSchema(), empty(), channels.NewWSHTTPBinding)
		}, channels.NewWSHTTPBinding()},
		{"netTcpBinding", func(t *testing.T) channels.Binding {
			return applyParsed(t, configuration.NetTCPBindingSchema(), empty(), channels.NewNetTCPBinding)
		}, channels.NewNetTCPBinding()},
		{"netNamedPipeBinding", func(t *testing.T) channels.Binding {
			return applyParsed(t, configuration.NetNamedPipeBindingSchema(), empty(), channels.NewNetNamedPipeBinding)
		}, channels.NewNetNamedPipeBinding()},
		{"webHttpBinding", func(t *testing.T) channels.Binding {
			return applyParsed(t, configuration.WebHTTPBindingSchema(), empty(), channels.NewWebHTTPBinding)
		}, channels.NewWebHTTPBinding()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.got(t), exportAll); diff != "" {
				t.Fatalf("defaults differ (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNetTCPBinding_RoundTrip(t *testing.T) {
	b := channels.NewNetTCPBinding()
	b.MaxConnections = 20
	b.MaxReceivedMessageSize = 1 << 20
	b.MaxBufferSize = 4096
	b.PortSharingEnabled = true
	b.ReliableSession.Enabled = true
	b.ReliableSession.InactivityTimeout = 3 * time.Minute
	b.ReaderQuotas.MaxDepth = 128
	b.Security.Mode = channels.SecurityMessage
	b.Timeouts().Send = 90 * time.Second

	var e configuration.NetTCPBindingElement
	e.InitializeFrom(b)
	got := channels.NewNetTCPBinding()
	if err := e.ApplyConfiguration(got); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if diff := cmp.Diff(b, got, exportAll); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestBasicHTTPBinding_RoundTrip(t *testing.T) {
	b := channels.NewBasicHTTPBinding()
	b.MaxReceivedMessageSize = 500000
	b.MaxBufferSize = 500000
	b.TransferMode = channels.StreamedResponse
	b.UseDefaultWebProxy = false
	b.ProxyAddress, _ = url.Parse("http://proxy:3128")
	b.Security.Mode = channels.BasicHTTPSecurityTransportCredentialOnly
	b.Security.Transport.ClientCredentialType = channels.HTTPCredentialBasic

	var e configuration.BasicHTTPBindingElement
	e.InitializeFrom(b)
	got := channels.NewBasicHTTPBinding()
	if err := e.ApplyConfiguration(got); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if diff := cmp.Diff(b, got, exportAll); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestMaxBufferSize_FollowsMaxReceivedMessageSize(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]string
		want  int
	}{
		{"derived", map[string]string{"maxReceivedMessageSize": "1000"}, 1000},
		{"explicit", map[string]string{"maxReceivedMessageSize": "1000", "maxBufferSize": "500"}, 500},
		{"streamed keeps default", map[string]string{"maxReceivedMessageSize": "1000", "transferMode": "Streamed"}, 65536},
		{"capped", map[string]string{"maxReceivedMessageSize": "9223372036854775807"}, 2147483647},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := svcconfig.NewNode("binding")
			for k, v := range tt.attrs {
				n.SetAttr(k, v)
			}
			b := applyParsed(t, configuration.NetTCPBindingSchema(), n, channels.NewNetTCPBinding)
			if b.MaxBufferSize != tt.want {
				t.Fatalf("maxBufferSize = %d, want %d", b.MaxBufferSize, tt.want)
			}
		})
	}
}

func TestHTTPTransport_ProxyRequiresNoDefaultProxy(t *testing.T) {
	ctx := context.Background()
	n := svcconfig.NewNode("httpTransport").SetAttr("proxyAddress", "http://proxy:8080")
	e, err := configuration.HTTPTransportSchema().Parse(ctx, n)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := e.ApplyConfiguration(channels.NewHTTPTransport()); !errors.Is(err, configuration.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
	n.SetAttr("useDefaultWebProxy", "false")
	if e, err = configuration.HTTPTransportSchema().Parse(ctx, n); err != nil {
		t.Fatalf("parse: %v", err)
	}
	tr := channels.NewHTTPTransport()
	if err := e.ApplyConfiguration(tr); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if tr.ProxyAddress.String() != "http://proxy:8080" {
		t.Fatalf("proxy not applied: %v", tr.ProxyAddress)
	}
	if err := e.ApplyConfiguration(channels.NewTCPTransport()); !errors.Is(err, configuration.ErrInvalidConfiguration) {
		t.Fatalf("applying onto the wrong element type should fail, got %v", err)
	}
}

func TestCustomBinding_StackChecks(t *testing.T) {
	tests := []struct {
		name  string
		inner string
		code  string
		path  string
	}{
		{
			name:  "no transport",
			inner: `<textMessageEncoding/>`,
			code:  svcconfig.CodeRequired,
			path:  "/bindings/customBinding/binding[name=b]",
		},
		{
			name:  "transport not last",
			inner: `<tcpTransport/><binaryMessageEncoding/>`,
			code:  svcconfig.CodeCustom,
			path:  "/bindings/customBinding/binding[name=b]/tcpTransport",
		},
		{
			name:  "two encoders",
			inner: `<binaryMessageEncoding/><textMessageEncoding/><tcpTransport/>`,
			code:  svcconfig.CodeCustom,
			path:  "/bindings/customBinding/binding[name=b]/textMessageEncoding",
		},
		{
			name:  "unknown element",
			inner: `<carrierPigeon/><tcpTransport/>`,
			code:  svcconfig.CodeUnknownExtension,
			path:  "/bindings/customBinding/binding[name=b]/carrierPigeon",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `<system.serviceModel><bindings><customBinding><binding name="b">` + tt.inner +
				`</binding></customBinding></bindings></system.serviceModel>`
			_, err := loadString(t, doc)
			iss, ok := svcconfig.AsIssues(err)
			if !ok {
				t.Fatalf("expected issues, got %v", err)
			}
			if iss[0].Code != tt.code || iss[0].Path != tt.path {
				t.Fatalf("got %s at %s, want %s at %s", iss[0].Code, iss[0].Path, tt.code, tt.path)
			}
		})
	}
}

func TestCustomBinding_RoundTrip(t *testing.T) {
	enc := channels.NewBinaryMessageEncoding()
	enc.MaxSessionSize = 8192
	tr := channels.NewTCPTransport()
	tr.MaxReceivedMessageSize = 1 << 16
	b := channels.NewCustomBinding(channels.NewTransactionFlow(), enc, tr)
	b.Timeouts().Open = 15 * time.Second

	var e configuration.CustomBindingElement
	if err := e.InitializeFrom(configuration.DefaultRegistry(), b); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if diff := cmp.Diff([]string{"transactionFlow", "binaryMessageEncoding", "tcpTransport"}, e.Elements.Names()); diff != "" {
		t.Fatalf("element names (-want +got):\n%s", diff)
	}
	got := e.NewBinding()
	if err := e.ApplyConfiguration(got); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if diff := cmp.Diff(b, got, exportAll); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestCustomBinding_UnregisteredElement(t *testing.T) {
	b := channels.NewCustomBinding(&channels.CompositeDuplex{}, channels.NewHTTPTransport())
	var e configuration.CustomBindingElement
	err := e.InitializeFrom(configuration.NewRegistry(), b)
	if !errors.Is(err, configuration.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from an empty registry, got %v", err)
	}
}
