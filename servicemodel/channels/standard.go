package channels

import (
	"net/url"
	"time"

	"github.com/reoring/svcconfig/codec"
)

// HTTPSettings are the transport settings the HTTP standard bindings share.
type HTTPSettings struct {
	AllowCookies           bool
	BypassProxyOnLocal     bool
	HostNameComparisonMode HostNameComparisonMode
	MaxBufferPoolSize      int64
	MaxBufferSize          int
	MaxReceivedMessageSize int64
	ProxyAddress           *url.URL
	ReaderQuotas           ReaderQuotas
	TextEncoding           codec.TextEncoding
	TransferMode           TransferMode
	UseDefaultWebProxy     bool
}

func defaultHTTPSettings() HTTPSettings {
	return HTTPSettings{
		HostNameComparisonMode: StrongWildcard,
		MaxBufferPoolSize:      524288,
		MaxBufferSize:          65536,
		MaxReceivedMessageSize: 65536,
		ReaderQuotas:           DefaultReaderQuotas(),
		TextEncoding:           codec.UTF8,
		TransferMode:           Buffered,
		UseDefaultWebProxy:     true,
	}
}

func (s HTTPSettings) transport(secure bool, sec HTTPTransportSecurity, useAuth bool) TransportBindingElement {
	t := NewHTTPTransport()
	t.AllowCookies = s.AllowCookies
	t.BypassProxyOnLocal = s.BypassProxyOnLocal
	t.HostNameComparisonMode = s.HostNameComparisonMode
	t.MaxBufferPoolSize = s.MaxBufferPoolSize
	t.MaxBufferSize = s.MaxBufferSize
	t.MaxReceivedMessageSize = s.MaxReceivedMessageSize
	t.ProxyAddress = cloneURL(s.ProxyAddress)
	t.TransferMode = s.TransferMode
	t.UseDefaultWebProxy = s.UseDefaultWebProxy
	if useAuth {
		t.AuthenticationScheme = sec.ClientCredentialType.scheme()
		t.ProxyAuthenticationScheme = HTTPClientCredentialType(sec.ProxyCredentialType).scheme()
		t.Realm = sec.Realm
	}
	if !secure {
		return t
	}
	return &HTTPSTransport{
		HTTPTransport:            *t,
		RequireClientCertificate: useAuth && sec.ClientCredentialType == HTTPCredentialCertificate,
	}
}

func (s HTTPSettings) encoder(enc MessageEncoding, v codec.MessageVersion) BindingElement {
	if enc == EncodingMtom {
		e := NewMTOMMessageEncoding()
		e.MessageVersion, e.WriteEncoding, e.ReaderQuotas, e.MaxBufferSize = v, s.TextEncoding, s.ReaderQuotas, s.MaxBufferSize
		return e
	}
	e := NewTextMessageEncoding()
	e.MessageVersion, e.WriteEncoding, e.ReaderQuotas = v, s.TextEncoding, s.ReaderQuotas
	return e
}

// scheme maps a client credential type to the HTTP authentication scheme.
func (c HTTPClientCredentialType) scheme() AuthenticationSchemes {
	switch c {
	case HTTPCredentialBasic:
		return AuthBasic
	case HTTPCredentialDigest:
		return AuthDigest
	case HTTPCredentialNtlm:
		return AuthNtlm
	case HTTPCredentialWindows:
		return AuthNegotiate
	default:
		return AuthAnonymous
	}
}

// HTTPTransportSecurity is the transport security of the HTTP bindings.
type HTTPTransportSecurity struct {
	ClientCredentialType HTTPClientCredentialType
	ProxyCredentialType  HTTPProxyCredentialType
	Realm                string
}

// BasicHTTPMessageSecurity is the message security of basicHttpBinding.
type BasicHTTPMessageSecurity struct {
	ClientCredentialType BasicHTTPMessageCredentialType
	AlgorithmSuite       codec.AlgorithmSuite
}

// BasicHTTPSecurity groups the security settings of basicHttpBinding.
type BasicHTTPSecurity struct {
	Mode      BasicHTTPSecurityMode
	Transport HTTPTransportSecurity
	Message   BasicHTTPMessageSecurity
}

// BasicHTTPBinding is a WS-I Basic Profile binding over HTTP.
type BasicHTTPBinding struct {
	bindingBase
	HTTPSettings
	MessageEncoding MessageEncoding
	Security        BasicHTTPSecurity
}

// NewBasicHTTPBinding returns a basicHttpBinding with default settings.
func NewBasicHTTPBinding() *BasicHTTPBinding {
	return &BasicHTTPBinding{
		bindingBase:     newBase("BasicHttpBinding"),
		HTTPSettings:    defaultHTTPSettings(),
		MessageEncoding: EncodingText,
		Security: BasicHTTPSecurity{
			Mode:      BasicHTTPSecurityNone,
			Transport: HTTPTransportSecurity{ClientCredentialType: HTTPCredentialNone, ProxyCredentialType: ProxyCredentialNone},
			Message:   BasicHTTPMessageSecurity{ClientCredentialType: BasicHTTPCredentialUserName, AlgorithmSuite: codec.DefaultAlgorithmSuite},
		},
	}
}

func (b *BasicHTTPBinding) secure() bool {
	return b.Security.Mode == BasicHTTPSecurityTransport || b.Security.Mode == BasicHTTPSecurityTransportWithMessageCredential
}

// Scheme is "https" under transport security and "http" otherwise.
func (b *BasicHTTPBinding) Scheme() string {
	if b.secure() {
		return "https"
	}
	return "http"
}

// CreateBindingElements returns [security] encoder transport.
func (b *BasicHTTPBinding) CreateBindingElements() []BindingElement {
	var out []BindingElement
	switch b.Security.Mode {
	case BasicHTTPSecurityMessage, BasicHTTPSecurityTransportWithMessageCredential:
		sec := NewSecurityBindingElement()
		sec.DefaultAlgorithmSuite = b.Security.Message.AlgorithmSuite
		sec.MessageSecurityVersion = codec.WSSecurity10WSTrustFebruary2005
		sec.RequireDerivedKeys = false
		sec.AuthenticationMode = basicHTTPAuthMode(b.Security.Mode, b.Security.Message.ClientCredentialType)
		out = append(out, sec)
	}
	out = append(out, b.encoder(b.MessageEncoding, codec.MessageVersionSoap11))
	useAuth := b.Security.Mode == BasicHTTPSecurityTransport || b.Security.Mode == BasicHTTPSecurityTransportCredentialOnly
	return append(out, b.transport(b.secure(), b.Security.Transport, useAuth))
}

func basicHTTPAuthMode(mode BasicHTTPSecurityMode, cred BasicHTTPMessageCredentialType) AuthenticationMode {
	overTransport := mode == BasicHTTPSecurityTransportWithMessageCredential
	switch {
	case overTransport && cred == BasicHTTPCredentialCertificate:
		return CertificateOverTransport
	case overTransport:
		return UserNameOverTransport
	default:
		return MutualCertificate
	}
}

// OptionalReliableSession is the reliableSession setting of standard bindings.
type OptionalReliableSession struct {
	Enabled           bool
	Ordered           bool
	InactivityTimeout time.Duration
}

func defaultOptionalReliableSession() OptionalReliableSession {
	return OptionalReliableSession{Ordered: true, InactivityTimeout: 10 * time.Minute}
}

func (r OptionalReliableSession) element() *ReliableSession {
	e := NewReliableSession()
	e.Ordered = r.Ordered
	e.InactivityTimeout = r.InactivityTimeout
	return e
}

// NonDualMessageSecurity is the message security of wsHttpBinding.
type NonDualMessageSecurity struct {
	ClientCredentialType       MessageCredentialType
	NegotiateServiceCredential bool
	AlgorithmSuite             codec.AlgorithmSuite
	EstablishSecurityContext   bool
}

// WSHTTPSecurity groups the security settings of wsHttpBinding.
type WSHTTPSecurity struct {
	Mode      SecurityMode
	Transport HTTPTransportSecurity
	Message   NonDualMessageSecurity
}

// WSHTTPBinding is an interoperable binding with WS-* support over HTTP.
type WSHTTPBinding struct {
	bindingBase
	HTTPSettings
	MessageEncoding MessageEncoding
	TransactionFlow bool
	ReliableSession OptionalReliableSession
	Security        WSHTTPSecurity
}

// NewWSHTTPBinding returns a wsHttpBinding with default settings.
func NewWSHTTPBinding() *WSHTTPBinding {
	return &WSHTTPBinding{
		bindingBase:     newBase("WSHttpBinding"),
		HTTPSettings:    defaultHTTPSettings(),
		MessageEncoding: EncodingText,
		ReliableSession: defaultOptionalReliableSession(),
		Security: WSHTTPSecurity{
			Mode:      SecurityMessage,
			Transport: HTTPTransportSecurity{ClientCredentialType: HTTPCredentialWindows, ProxyCredentialType: ProxyCredentialNone},
			Message: NonDualMessageSecurity{
				ClientCredentialType:       MessageCredentialWindows,
				NegotiateServiceCredential: true,
				AlgorithmSuite:             codec.DefaultAlgorithmSuite,
				EstablishSecurityContext:   true,
			},
		},
	}
}

func (b *WSHTTPBinding) secure() bool {
	return b.Security.Mode == SecurityTransport || b.Security.Mode == SecurityTransportWithMessageCredential
}

// Scheme is "https" under transport security and "http" otherwise.
func (b *WSHTTPBinding) Scheme() string {
	if b.secure() {
		return "https"
	}
	return "http"
}

// CreateBindingElements returns [transactionFlow] [reliableSession]
// [security] encoder transport.
func (b *WSHTTPBinding) CreateBindingElements() []BindingElement {
	var out []BindingElement
	if b.TransactionFlow {
		out = append(out, NewTransactionFlow())
	}
	if b.ReliableSession.Enabled {
		out = append(out, b.ReliableSession.element())
	}
	if b.Security.Mode == SecurityMessage || b.Security.Mode == SecurityTransportWithMessageCredential {
		out = append(out, messageSecurity(b.Security.Mode, b.Security.Message.ClientCredentialType, b.Security.Message.AlgorithmSuite, b.Security.Message.EstablishSecurityContext))
	}
	out = append(out, b.encoder(b.MessageEncoding, codec.MessageVersionSoap12WSAddressing10))
	return append(out, b.transport(b.secure(), b.Security.Transport, b.Security.Mode == SecurityTransport))
}

func messageSecurity(mode SecurityMode, cred MessageCredentialType, suite codec.AlgorithmSuite, secureConversation bool) *SecurityBindingElement {
	sec := NewSecurityBindingElement()
	sec.DefaultAlgorithmSuite = suite
	overTransport := mode == SecurityTransportWithMessageCredential
	switch {
	case overTransport && cred == MessageCredentialCertificate:
		sec.AuthenticationMode = CertificateOverTransport
	case overTransport && cred == MessageCredentialUserName:
		sec.AuthenticationMode = UserNameOverTransport
	case overTransport && cred == MessageCredentialIssuedToken:
		sec.AuthenticationMode = IssuedTokenOverTransport
	case overTransport:
		sec.AuthenticationMode = SspiNegotiatedOverTransport
	case cred == MessageCredentialCertificate:
		sec.AuthenticationMode = MutualCertificate
	case cred == MessageCredentialUserName:
		sec.AuthenticationMode = UserNameForSslNegotiated
	case cred == MessageCredentialIssuedToken:
		sec.AuthenticationMode = IssuedTokenForSslNegotiated
	case cred == MessageCredentialNone:
		sec.AuthenticationMode = AnonymousForSslNegotiated
	default:
		sec.AuthenticationMode = SspiNegotiated
	}
	if secureConversation && !overTransport {
		sec.AuthenticationMode = SecureConversation
	}
	return sec
}

// TCPTransportSecurity is the transport security of netTcpBinding.
type TCPTransportSecurity struct {
	ClientCredentialType TCPClientCredentialType
	ProtectionLevel      ProtectionLevel
	SSLProtocols         SSLProtocols
}

// MessageSecurityOverTCP is the message security of netTcpBinding.
type MessageSecurityOverTCP struct {
	ClientCredentialType MessageCredentialType
	AlgorithmSuite       codec.AlgorithmSuite
}

// NetTCPSecurity groups the security settings of netTcpBinding.
type NetTCPSecurity struct {
	Mode      SecurityMode
	Transport TCPTransportSecurity
	Message   MessageSecurityOverTCP
}

// NetTCPBinding is a binary binding over TCP.
type NetTCPBinding struct {
	bindingBase
	HostNameComparisonMode HostNameComparisonMode
	ListenBacklog          int
	MaxBufferPoolSize      int64
	MaxBufferSize          int
	MaxConnections         int
	MaxReceivedMessageSize int64
	PortSharingEnabled     bool
	ReaderQuotas           ReaderQuotas
	ReliableSession        OptionalReliableSession
	Security               NetTCPSecurity
	TransactionFlow        bool
	TransactionProtocol    codec.TransactionProtocol
	TransferMode           TransferMode
}

// NewNetTCPBinding returns a netTcpBinding with default settings.
func NewNetTCPBinding() *NetTCPBinding {
	return &NetTCPBinding{
		bindingBase:            newBase("NetTcpBinding"),
		HostNameComparisonMode: StrongWildcard,
		MaxBufferPoolSize:      524288,
		MaxBufferSize:          65536,
		MaxReceivedMessageSize: 65536,
		ReaderQuotas:           DefaultReaderQuotas(),
		ReliableSession:        defaultOptionalReliableSession(),
		Security: NetTCPSecurity{
			Mode: SecurityTransport,
			Transport: TCPTransportSecurity{
				ClientCredentialType: TCPCredentialWindows,
				ProtectionLevel:      ProtectionEncryptAndSign,
				SSLProtocols:         SSLDefault,
			},
			Message: MessageSecurityOverTCP{ClientCredentialType: MessageCredentialWindows, AlgorithmSuite: codec.DefaultAlgorithmSuite},
		},
		TransactionProtocol: codec.TransactionProtocolDefault,
		TransferMode:        Buffered,
	}
}

func (b *NetTCPBinding) Scheme() string { return "net.tcp" }

// CreateBindingElements returns [transactionFlow] [reliableSession]
// [security] binary encoder [stream security] transport.
func (b *NetTCPBinding) CreateBindingElements() []BindingElement {
	var out []BindingElement
	if b.TransactionFlow {
		tf := NewTransactionFlow()
		tf.TransactionProtocol = b.TransactionProtocol
		out = append(out, tf)
	}
	if b.ReliableSession.Enabled {
		out = append(out, b.ReliableSession.element())
	}
	if b.Security.Mode == SecurityMessage || b.Security.Mode == SecurityTransportWithMessageCredential {
		out = append(out, messageSecurity(b.Security.Mode, b.Security.Message.ClientCredentialType, b.Security.Message.AlgorithmSuite, true))
	}
	enc := NewBinaryMessageEncoding()
	enc.ReaderQuotas = b.ReaderQuotas
	out = append(out, enc)
	if b.Security.Mode == SecurityTransport || b.Security.Mode == SecurityTransportWithMessageCredential {
		if b.Security.Transport.ClientCredentialType == TCPCredentialWindows {
			out = append(out, &WindowsStreamSecurity{ProtectionLevel: b.Security.Transport.ProtectionLevel})
		} else {
			out = append(out, &SSLStreamSecurity{
				RequireClientCertificate: b.Security.Transport.ClientCredentialType == TCPCredentialCertificate,
				SSLProtocols:             b.Security.Transport.SSLProtocols,
			})
		}
	}
	t := NewTCPTransport()
	t.HostNameComparisonMode = b.HostNameComparisonMode
	t.ListenBacklog = b.ListenBacklog
	t.MaxBufferPoolSize = b.MaxBufferPoolSize
	t.MaxBufferSize = b.MaxBufferSize
	t.MaxPendingConnections = b.MaxConnections
	t.ConnectionPool.MaxOutboundConnectionsPerEndpoint = maxOr(b.MaxConnections, t.ConnectionPool.MaxOutboundConnectionsPerEndpoint)
	t.MaxReceivedMessageSize = b.MaxReceivedMessageSize
	t.PortSharingEnabled = b.PortSharingEnabled
	t.TransferMode = b.TransferMode
	return append(out, t)
}

// NetNamedPipeSecurity groups the security settings of netNamedPipeBinding.
type NetNamedPipeSecurity struct {
	Mode      NetNamedPipeSecurityMode
	Transport NamedPipeTransportSecurity
}

// NamedPipeTransportSecurity is the transport security of named pipes.
type NamedPipeTransportSecurity struct {
	ProtectionLevel ProtectionLevel
}

// NetNamedPipeBinding is a binary binding over named pipes.
type NetNamedPipeBinding struct {
	bindingBase
	HostNameComparisonMode HostNameComparisonMode
	MaxBufferPoolSize      int64
	MaxBufferSize          int
	MaxConnections         int
	MaxReceivedMessageSize int64
	ReaderQuotas           ReaderQuotas
	Security               NetNamedPipeSecurity
	TransactionFlow        bool
	TransactionProtocol    codec.TransactionProtocol
	TransferMode           TransferMode
}

// NewNetNamedPipeBinding returns a netNamedPipeBinding with default settings.
func NewNetNamedPipeBinding() *NetNamedPipeBinding {
	return &NetNamedPipeBinding{
		bindingBase:            newBase("NetNamedPipeBinding"),
		HostNameComparisonMode: StrongWildcard,
		MaxBufferPoolSize:      524288,
		MaxBufferSize:          65536,
		MaxReceivedMessageSize: 65536,
		ReaderQuotas:           DefaultReaderQuotas(),
		Security: NetNamedPipeSecurity{
			Mode:      NamedPipeSecurityTransport,
			Transport: NamedPipeTransportSecurity{ProtectionLevel: ProtectionEncryptAndSign},
		},
		TransactionProtocol: codec.TransactionProtocolDefault,
		TransferMode:        Buffered,
	}
}

func (b *NetNamedPipeBinding) Scheme() string { return "net.pipe" }

// CreateBindingElements returns [transactionFlow] binary encoder
// [stream security] transport.
func (b *NetNamedPipeBinding) CreateBindingElements() []BindingElement {
	var out []BindingElement
	if b.TransactionFlow {
		tf := NewTransactionFlow()
		tf.TransactionProtocol = b.TransactionProtocol
		out = append(out, tf)
	}
	enc := NewBinaryMessageEncoding()
	enc.ReaderQuotas = b.ReaderQuotas
	out = append(out, enc)
	if b.Security.Mode == NamedPipeSecurityTransport {
		out = append(out, &WindowsStreamSecurity{ProtectionLevel: b.Security.Transport.ProtectionLevel})
	}
	t := NewNamedPipeTransport()
	t.HostNameComparisonMode = b.HostNameComparisonMode
	t.MaxBufferPoolSize = b.MaxBufferPoolSize
	t.MaxBufferSize = b.MaxBufferSize
	t.MaxPendingConnections = b.MaxConnections
	t.ConnectionPool.MaxOutboundConnectionsPerEndpoint = maxOr(b.MaxConnections, t.ConnectionPool.MaxOutboundConnectionsPerEndpoint)
	t.MaxReceivedMessageSize = b.MaxReceivedMessageSize
	t.TransferMode = b.TransferMode
	return append(out, t)
}

// WebHTTPSecurity groups the security settings of webHttpBinding.
type WebHTTPSecurity struct {
	Mode      WebHTTPSecurityMode
	Transport HTTPTransportSecurity
}

// WebHTTPBinding is a plain HTTP binding for non-SOAP messages.
type WebHTTPBinding struct {
	bindingBase
	HTTPSettings
	CrossDomainScriptAccessEnabled bool
	ContentTypeMapper              string
	Security                       WebHTTPSecurity
}

// NewWebHTTPBinding returns a webHttpBinding with default settings.
func NewWebHTTPBinding() *WebHTTPBinding {
	return &WebHTTPBinding{
		bindingBase:  newBase("WebHttpBinding"),
		HTTPSettings: defaultHTTPSettings(),
		Security: WebHTTPSecurity{
			Mode:      WebHTTPSecurityNone,
			Transport: HTTPTransportSecurity{ClientCredentialType: HTTPCredentialNone, ProxyCredentialType: ProxyCredentialNone},
		},
	}
}

// Scheme is "https" under transport security and "http" otherwise.
func (b *WebHTTPBinding) Scheme() string {
	if b.Security.Mode == WebHTTPSecurityTransport {
		return "https"
	}
	return "http"
}

// CreateBindingElements returns a text encoder without SOAP envelope and
// the HTTP transport.
func (b *WebHTTPBinding) CreateBindingElements() []BindingElement {
	enc := b.encoder(EncodingText, codec.MessageVersionNone)
	useAuth := b.Security.Mode != WebHTTPSecurityNone
	return []BindingElement{enc, b.transport(b.Security.Mode == WebHTTPSecurityTransport, b.Security.Transport, useAuth)}
}

func maxOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
