package channels_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/svcconfig/servicemodel/channels"
)

func stackTypes(els []channels.BindingElement) []string {
	out := make([]string, len(els))
	for i, e := range els {
		out[i] = reflect.TypeOf(e).Elem().Name()
	}
	return out
}

func TestCustomBinding_Transport(t *testing.T) {
	b := channels.NewCustomBinding(channels.NewTextMessageEncoding())
	if _, err := b.Transport(); !errors.Is(err, channels.ErrNoTransport) {
		t.Fatalf("expected ErrNoTransport, got %v", err)
	}
	if b.Scheme() != "" {
		t.Fatalf("binding without transport has no scheme")
	}
	b.Elements = append(b.Elements, channels.NewNamedPipeTransport())
	if b.Scheme() != "net.pipe" {
		t.Fatalf("unexpected scheme %q", b.Scheme())
	}
}

func TestCustomBinding_CreateBindingElementsClones(t *testing.T) {
	tr := channels.NewTCPTransport()
	b := channels.NewCustomBinding(channels.NewBinaryMessageEncoding(), tr)
	els := b.CreateBindingElements()
	els[1].(*channels.TCPTransport).MaxReceivedMessageSize = 1
	if tr.MaxReceivedMessageSize == 1 {
		t.Fatalf("CreateBindingElements must return copies")
	}
}

func TestStandardBindings_Stacks(t *testing.T) {
	secureHTTP := channels.NewBasicHTTPBinding()
	secureHTTP.Security.Mode = channels.BasicHTTPSecurityTransport

	tcp := channels.NewNetTCPBinding()
	tcp.TransactionFlow = true
	tcp.ReliableSession.Enabled = true
	tcp.Security.Transport.ClientCredentialType = channels.TCPCredentialCertificate

	ws := channels.NewWSHTTPBinding()
	ws.Security.Mode = channels.SecurityNone

	tests := []struct {
		name   string
		b      channels.Binding
		scheme string
		want   []string
	}{
		{"basicHttp", channels.NewBasicHTTPBinding(), "http", []string{"TextMessageEncoding", "HTTPTransport"}},
		{"basicHttp transport", secureHTTP, "https", []string{"TextMessageEncoding", "HTTPSTransport"}},
		{"netTcp", channels.NewNetTCPBinding(), "net.tcp", []string{"BinaryMessageEncoding", "WindowsStreamSecurity", "TCPTransport"}},
		{"netTcp full", tcp, "net.tcp", []string{"TransactionFlow", "ReliableSession", "BinaryMessageEncoding", "SSLStreamSecurity", "TCPTransport"}},
		{"wsHttp none", ws, "http", []string{"TextMessageEncoding", "HTTPTransport"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.b.Scheme() != tt.scheme {
				t.Fatalf("scheme = %q, want %q", tt.b.Scheme(), tt.scheme)
			}
			if diff := cmp.Diff(tt.want, stackTypes(tt.b.CreateBindingElements())); diff != "" {
				t.Fatalf("stack (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNetTCPBinding_TransportCarriesSettings(t *testing.T) {
	b := channels.NewNetTCPBinding()
	b.MaxConnections = 42
	b.PortSharingEnabled = true
	els := b.CreateBindingElements()
	tr := els[len(els)-1].(*channels.TCPTransport)
	if tr.MaxPendingConnections != 42 || !tr.PortSharingEnabled {
		t.Fatalf("transport did not inherit binding settings: %+v", tr)
	}
	if tr.ConnectionPool.MaxOutboundConnectionsPerEndpoint != 42 {
		t.Fatalf("maxConnections should size the connection pool, got %d", tr.ConnectionPool.MaxOutboundConnectionsPerEndpoint)
	}
}

func TestBinding_NameAndNamespace(t *testing.T) {
	b := channels.NewWebHTTPBinding()
	if b.Namespace() != channels.DefaultNamespace {
		t.Fatalf("unexpected namespace %q", b.Namespace())
	}
	b.SetName("Rest")
	b.SetNamespace("urn:x")
	if b.Name() != "Rest" || b.Namespace() != "urn:x" {
		t.Fatalf("setters not applied")
	}
	if got := channels.DefaultTimeouts(); *b.Timeouts() != got {
		t.Fatalf("timeouts = %+v, want %+v", *b.Timeouts(), got)
	}
}
