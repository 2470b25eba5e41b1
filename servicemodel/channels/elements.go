package channels

import (
	"net/url"
	"time"

	"github.com/reoring/svcconfig/codec"
)

// BindingElement is one layer of a binding stack.
type BindingElement interface {
	Clone() BindingElement
}

// TransportBindingElement is the bottom layer of a stack.
type TransportBindingElement interface {
	BindingElement
	Scheme() string
}

// MessageEncodingBindingElement turns messages into bytes.
type MessageEncodingBindingElement interface {
	BindingElement
	Version() codec.MessageVersion
}

// TransportBase holds the settings every transport shares.
type TransportBase struct {
	ManualAddressing       bool
	MaxBufferPoolSize      int64
	MaxReceivedMessageSize int64
}

func defaultTransportBase() TransportBase {
	return TransportBase{MaxBufferPoolSize: 524288, MaxReceivedMessageSize: 65536}
}

// HTTPTransport is the HTTP transport binding element.
type HTTPTransport struct {
	TransportBase
	AllowCookies                       bool
	AuthenticationScheme               AuthenticationSchemes
	BypassProxyOnLocal                 bool
	DecompressionEnabled               bool
	HostNameComparisonMode             HostNameComparisonMode
	KeepAliveEnabled                   bool
	MaxBufferSize                      int
	MaxPendingAccepts                  int
	ProxyAddress                       *url.URL
	ProxyAuthenticationScheme          AuthenticationSchemes
	Realm                              string
	RequestInitializationTimeout       time.Duration
	TransferMode                       TransferMode
	UnsafeConnectionNtlmAuthentication bool
	UseDefaultWebProxy                 bool
}

// NewHTTPTransport returns an HTTP transport with default settings.
func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{
		TransportBase:             defaultTransportBase(),
		AuthenticationScheme:      AuthAnonymous,
		DecompressionEnabled:      true,
		HostNameComparisonMode:    StrongWildcard,
		KeepAliveEnabled:          true,
		MaxBufferSize:             65536,
		ProxyAuthenticationScheme: AuthAnonymous,
		TransferMode:              Buffered,
		UseDefaultWebProxy:        true,
	}
}

func (e *HTTPTransport) Scheme() string { return "http" }

func (e *HTTPTransport) Clone() BindingElement {
	c := *e
	c.ProxyAddress = cloneURL(e.ProxyAddress)
	return &c
}

// HTTPSTransport is the HTTP transport over TLS.
type HTTPSTransport struct {
	HTTPTransport
	RequireClientCertificate bool
}

// NewHTTPSTransport returns an HTTPS transport with default settings.
func NewHTTPSTransport() *HTTPSTransport {
	return &HTTPSTransport{HTTPTransport: *NewHTTPTransport()}
}

func (e *HTTPSTransport) Scheme() string { return "https" }

func (e *HTTPSTransport) Clone() BindingElement {
	c := *e
	c.ProxyAddress = cloneURL(e.ProxyAddress)
	return &c
}

// ConnectionOrientedTransport holds the settings of the TCP and named pipe
// transports.
type ConnectionOrientedTransport struct {
	TransportBase
	ChannelInitializationTimeout time.Duration
	ConnectionBufferSize         int
	HostNameComparisonMode       HostNameComparisonMode
	MaxBufferSize                int
	MaxOutputDelay               time.Duration
	MaxPendingAccepts            int
	MaxPendingConnections        int
	TransferMode                 TransferMode
}

func defaultConnectionOriented() ConnectionOrientedTransport {
	return ConnectionOrientedTransport{
		TransportBase:                defaultTransportBase(),
		ChannelInitializationTimeout: 30 * time.Second,
		ConnectionBufferSize:         8192,
		HostNameComparisonMode:       StrongWildcard,
		MaxBufferSize:                65536,
		MaxOutputDelay:               200 * time.Millisecond,
		TransferMode:                 Buffered,
	}
}

// TCPConnectionPool are the outbound connection pool settings of TCP.
type TCPConnectionPool struct {
	GroupName                         string
	IdleTimeout                       time.Duration
	LeaseTimeout                      time.Duration
	MaxOutboundConnectionsPerEndpoint int
}

// TCPTransport is the TCP transport binding element.
type TCPTransport struct {
	ConnectionOrientedTransport
	ConnectionPool     TCPConnectionPool
	ListenBacklog      int
	PortSharingEnabled bool
	TeredoEnabled      bool
}

// NewTCPTransport returns a TCP transport with default settings.
func NewTCPTransport() *TCPTransport {
	return &TCPTransport{
		ConnectionOrientedTransport: defaultConnectionOriented(),
		ConnectionPool: TCPConnectionPool{
			GroupName:                         "default",
			IdleTimeout:                       2 * time.Minute,
			LeaseTimeout:                      5 * time.Minute,
			MaxOutboundConnectionsPerEndpoint: 10,
		},
	}
}

func (e *TCPTransport) Scheme() string { return "net.tcp" }

func (e *TCPTransport) Clone() BindingElement {
	c := *e
	return &c
}

// NamedPipeConnectionPool are the outbound pool settings of named pipes.
type NamedPipeConnectionPool struct {
	GroupName                         string
	IdleTimeout                       time.Duration
	MaxOutboundConnectionsPerEndpoint int
}

// NamedPipeTransport is the named pipe transport binding element.
type NamedPipeTransport struct {
	ConnectionOrientedTransport
	ConnectionPool NamedPipeConnectionPool
}

// NewNamedPipeTransport returns a named pipe transport with default settings.
func NewNamedPipeTransport() *NamedPipeTransport {
	return &NamedPipeTransport{
		ConnectionOrientedTransport: defaultConnectionOriented(),
		ConnectionPool: NamedPipeConnectionPool{
			GroupName:                         "default",
			IdleTimeout:                       2 * time.Minute,
			MaxOutboundConnectionsPerEndpoint: 10,
		},
	}
}

func (e *NamedPipeTransport) Scheme() string { return "net.pipe" }

func (e *NamedPipeTransport) Clone() BindingElement {
	c := *e
	return &c
}

// TextMessageEncoding encodes messages as text XML.
type TextMessageEncoding struct {
	MaxReadPoolSize  int
	MaxWritePoolSize int
	MessageVersion   codec.MessageVersion
	ReaderQuotas     ReaderQuotas
	WriteEncoding    codec.TextEncoding
}

// NewTextMessageEncoding returns a text encoder with default settings.
func NewTextMessageEncoding() *TextMessageEncoding {
	return &TextMessageEncoding{
		MaxReadPoolSize:  64,
		MaxWritePoolSize: 16,
		MessageVersion:   codec.MessageVersionDefault,
		ReaderQuotas:     DefaultReaderQuotas(),
		WriteEncoding:    codec.UTF8,
	}
}

func (e *TextMessageEncoding) Version() codec.MessageVersion { return e.MessageVersion }

func (e *TextMessageEncoding) Clone() BindingElement {
	c := *e
	return &c
}

// BinaryMessageEncoding encodes messages in the binary XML format.
type BinaryMessageEncoding struct {
	CompressionFormat CompressionFormat
	MaxReadPoolSize   int
	MaxSessionSize    int
	MaxWritePoolSize  int
	ReaderQuotas      ReaderQuotas
}

// NewBinaryMessageEncoding returns a binary encoder with default settings.
func NewBinaryMessageEncoding() *BinaryMessageEncoding {
	return &BinaryMessageEncoding{
		CompressionFormat: CompressionNone,
		MaxReadPoolSize:   64,
		MaxSessionSize:    2048,
		MaxWritePoolSize:  16,
		ReaderQuotas:      DefaultReaderQuotas(),
	}
}

// Version is always SOAP 1.2 with WS-Addressing 1.0.
func (e *BinaryMessageEncoding) Version() codec.MessageVersion {
	return codec.MessageVersionSoap12WSAddressing10
}

func (e *BinaryMessageEncoding) Clone() BindingElement {
	c := *e
	return &c
}

// MTOMMessageEncoding encodes messages with MTOM.
type MTOMMessageEncoding struct {
	MaxBufferSize    int
	MaxReadPoolSize  int
	MaxWritePoolSize int
	MessageVersion   codec.MessageVersion
	ReaderQuotas     ReaderQuotas
	WriteEncoding    codec.TextEncoding
}

// NewMTOMMessageEncoding returns an MTOM encoder with default settings.
func NewMTOMMessageEncoding() *MTOMMessageEncoding {
	return &MTOMMessageEncoding{
		MaxBufferSize:    65536,
		MaxReadPoolSize:  64,
		MaxWritePoolSize: 16,
		MessageVersion:   codec.MessageVersionDefault,
		ReaderQuotas:     DefaultReaderQuotas(),
		WriteEncoding:    codec.UTF8,
	}
}

func (e *MTOMMessageEncoding) Version() codec.MessageVersion { return e.MessageVersion }

func (e *MTOMMessageEncoding) Clone() BindingElement {
	c := *e
	return &c
}

// ReliableSession adds WS-ReliableMessaging sessions.
type ReliableSession struct {
	AcknowledgementInterval  time.Duration
	FlowControlEnabled       bool
	InactivityTimeout        time.Duration
	MaxPendingChannels       int
	MaxRetryCount            int
	MaxTransferWindowSize    int
	Ordered                  bool
	ReliableMessagingVersion codec.ReliableMessagingVersion
}

// NewReliableSession returns reliable session settings with defaults.
func NewReliableSession() *ReliableSession {
	return &ReliableSession{
		AcknowledgementInterval:  200 * time.Millisecond,
		FlowControlEnabled:       true,
		InactivityTimeout:        10 * time.Minute,
		MaxPendingChannels:       4,
		MaxRetryCount:            8,
		MaxTransferWindowSize:    8,
		Ordered:                  true,
		ReliableMessagingVersion: codec.ReliableMessagingDefault,
	}
}

func (e *ReliableSession) Clone() BindingElement {
	c := *e
	return &c
}

// TransactionFlow flows transactions with messages.
type TransactionFlow struct {
	AllowWildcardAction bool
	TransactionProtocol codec.TransactionProtocol
}

// NewTransactionFlow returns transaction flow settings with defaults.
func NewTransactionFlow() *TransactionFlow {
	return &TransactionFlow{TransactionProtocol: codec.TransactionProtocolDefault}
}

func (e *TransactionFlow) Clone() BindingElement {
	c := *e
	return &c
}

// CompositeDuplex pairs two one-way channels into a duplex channel.
type CompositeDuplex struct {
	ClientBaseAddress *url.URL
}

func (e *CompositeDuplex) Clone() BindingElement {
	return &CompositeDuplex{ClientBaseAddress: cloneURL(e.ClientBaseAddress)}
}

// ChannelPool are the settings of the one-way channel pool.
type ChannelPool struct {
	IdleTimeout                    time.Duration
	LeaseTimeout                   time.Duration
	MaxOutboundChannelsPerEndpoint int
}

// OneWay layers one-way messaging over request/reply or duplex channels.
type OneWay struct {
	ChannelPool         ChannelPool
	MaxAcceptedChannels int
	PacketRoutable      bool
}

// NewOneWay returns one-way settings with defaults.
func NewOneWay() *OneWay {
	return &OneWay{
		ChannelPool: ChannelPool{
			IdleTimeout:                    2 * time.Minute,
			LeaseTimeout:                   10 * time.Minute,
			MaxOutboundChannelsPerEndpoint: 10,
		},
		MaxAcceptedChannels: 10,
	}
}

func (e *OneWay) Clone() BindingElement {
	c := *e
	return &c
}

// WindowsStreamSecurity upgrades a stream with SSPI.
type WindowsStreamSecurity struct {
	ProtectionLevel ProtectionLevel
}

// NewWindowsStreamSecurity returns SSPI stream security with defaults.
func NewWindowsStreamSecurity() *WindowsStreamSecurity {
	return &WindowsStreamSecurity{ProtectionLevel: ProtectionEncryptAndSign}
}

func (e *WindowsStreamSecurity) Clone() BindingElement {
	c := *e
	return &c
}

// SSLStreamSecurity upgrades a stream with TLS.
type SSLStreamSecurity struct {
	RequireClientCertificate bool
	SSLProtocols             SSLProtocols
}

// NewSSLStreamSecurity returns TLS stream security with defaults.
func NewSSLStreamSecurity() *SSLStreamSecurity {
	return &SSLStreamSecurity{SSLProtocols: SSLDefault}
}

func (e *SSLStreamSecurity) Clone() BindingElement {
	c := *e
	return &c
}

// SecurityBindingElement carries SOAP message security settings.
type SecurityBindingElement struct {
	AllowInsecureTransport             bool
	AllowSerializedSigningTokenOnReply bool
	AuthenticationMode                 AuthenticationMode
	CanRenewSecurityContextToken       bool
	DefaultAlgorithmSuite              codec.AlgorithmSuite
	EnableUnsecuredResponse            bool
	IncludeTimestamp                   bool
	KeyEntropyMode                     KeyEntropyMode
	MessageProtectionOrder             MessageProtectionOrder
	MessageSecurityVersion             codec.MessageSecurityVersion
	ProtectTokens                      bool
	RequireDerivedKeys                 bool
	RequireSecurityContextCancellation bool
	RequireSignatureConfirmation       bool
	SecurityHeaderLayout               SecurityHeaderLayout
}

// NewSecurityBindingElement returns message security settings with defaults.
func NewSecurityBindingElement() *SecurityBindingElement {
	return &SecurityBindingElement{
		AuthenticationMode:                 SspiNegotiated,
		CanRenewSecurityContextToken:       true,
		DefaultAlgorithmSuite:              codec.DefaultAlgorithmSuite,
		IncludeTimestamp:                   true,
		KeyEntropyMode:                     CombinedEntropy,
		MessageProtectionOrder:             SignBeforeEncryptAndEncryptSignature,
		MessageSecurityVersion:             codec.MessageSecurityVersionDefault,
		RequireDerivedKeys:                 true,
		RequireSecurityContextCancellation: true,
		SecurityHeaderLayout:               LayoutStrict,
	}
}

func (e *SecurityBindingElement) Clone() BindingElement {
	c := *e
	return &c
}

func cloneURL(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
