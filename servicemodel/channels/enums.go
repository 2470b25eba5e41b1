package channels

import "github.com/reoring/svcconfig/codec"

// HostNameComparisonMode selects how the host name of an incoming URI is
// matched against the listen address.
type HostNameComparisonMode string

const (
	StrongWildcard HostNameComparisonMode = "StrongWildcard"
	Exact          HostNameComparisonMode = "Exact"
	WeakWildcard   HostNameComparisonMode = "WeakWildcard"
)

// TransferMode selects buffered or streamed message transfer.
type TransferMode string

const (
	Buffered         TransferMode = "Buffered"
	Streamed         TransferMode = "Streamed"
	StreamedRequest  TransferMode = "StreamedRequest"
	StreamedResponse TransferMode = "StreamedResponse"
)

// MessageEncoding selects the encoder of the HTTP standard bindings.
type MessageEncoding string

const (
	EncodingText MessageEncoding = "Text"
	EncodingMtom MessageEncoding = "Mtom"
)

// ProtectionLevel is the protection applied to a message or stream.
type ProtectionLevel string

const (
	ProtectionNone           ProtectionLevel = "None"
	ProtectionSign           ProtectionLevel = "Sign"
	ProtectionEncryptAndSign ProtectionLevel = "EncryptAndSign"
)

// CompressionFormat is the compression of the binary encoder.
type CompressionFormat string

const (
	CompressionNone    CompressionFormat = "None"
	CompressionGZip    CompressionFormat = "GZip"
	CompressionDeflate CompressionFormat = "Deflate"
)

// AuthenticationSchemes is a set of HTTP authentication schemes.
type AuthenticationSchemes uint32

const (
	AuthNone      AuthenticationSchemes = 0
	AuthDigest    AuthenticationSchemes = 1 << 0
	AuthNegotiate AuthenticationSchemes = 1 << 1
	AuthNtlm      AuthenticationSchemes = 1 << 2
	AuthBasic     AuthenticationSchemes = 1 << 3
	AuthAnonymous AuthenticationSchemes = 1 << 15

	AuthIntegratedWindows = AuthNegotiate | AuthNtlm
)

var authSchemes = codec.NewFlags("authentication-schemes",
	codec.NameValue[AuthenticationSchemes]{Name: "None", Value: AuthNone},
	codec.NameValue[AuthenticationSchemes]{Name: "IntegratedWindowsAuthentication", Value: AuthIntegratedWindows},
	codec.NameValue[AuthenticationSchemes]{Name: "Digest", Value: AuthDigest},
	codec.NameValue[AuthenticationSchemes]{Name: "Negotiate", Value: AuthNegotiate},
	codec.NameValue[AuthenticationSchemes]{Name: "Ntlm", Value: AuthNtlm},
	codec.NameValue[AuthenticationSchemes]{Name: "Basic", Value: AuthBasic},
	codec.NameValue[AuthenticationSchemes]{Name: "Anonymous", Value: AuthAnonymous},
)

// AuthenticationSchemesCodec converts comma-separated scheme names.
func AuthenticationSchemesCodec() codec.Codec[AuthenticationSchemes] { return authSchemes }

// SSLProtocols is a set of TLS protocol versions.
type SSLProtocols uint32

const (
	SSLNone  SSLProtocols = 0
	SSLTls   SSLProtocols = 1 << 0
	SSLTls11 SSLProtocols = 1 << 1
	SSLTls12 SSLProtocols = 1 << 2
	SSLTls13 SSLProtocols = 1 << 3

	SSLDefault = SSLTls | SSLTls11 | SSLTls12
)

var sslProtocols = codec.NewFlags("ssl-protocols",
	codec.NameValue[SSLProtocols]{Name: "None", Value: SSLNone},
	codec.NameValue[SSLProtocols]{Name: "Tls", Value: SSLTls},
	codec.NameValue[SSLProtocols]{Name: "Tls11", Value: SSLTls11},
	codec.NameValue[SSLProtocols]{Name: "Tls12", Value: SSLTls12},
	codec.NameValue[SSLProtocols]{Name: "Tls13", Value: SSLTls13},
)

// SSLProtocolsCodec converts comma-separated protocol names.
func SSLProtocolsCodec() codec.Codec[SSLProtocols] { return sslProtocols }

// HTTPClientCredentialType is the client credential of HTTP transport security.
type HTTPClientCredentialType string

const (
	HTTPCredentialNone              HTTPClientCredentialType = "None"
	HTTPCredentialBasic             HTTPClientCredentialType = "Basic"
	HTTPCredentialDigest            HTTPClientCredentialType = "Digest"
	HTTPCredentialNtlm              HTTPClientCredentialType = "Ntlm"
	HTTPCredentialWindows           HTTPClientCredentialType = "Windows"
	HTTPCredentialCertificate       HTTPClientCredentialType = "Certificate"
	HTTPCredentialInheritedFromHost HTTPClientCredentialType = "InheritedFromHost"
)

// HTTPProxyCredentialType is the proxy credential of HTTP transport security.
type HTTPProxyCredentialType string

const (
	ProxyCredentialNone    HTTPProxyCredentialType = "None"
	ProxyCredentialBasic   HTTPProxyCredentialType = "Basic"
	ProxyCredentialDigest  HTTPProxyCredentialType = "Digest"
	ProxyCredentialNtlm    HTTPProxyCredentialType = "Ntlm"
	ProxyCredentialWindows HTTPProxyCredentialType = "Windows"
)

// SecurityMode is the security mode of wsHttpBinding and netTcpBinding.
type SecurityMode string

const (
	SecurityNone                           SecurityMode = "None"
	SecurityTransport                      SecurityMode = "Transport"
	SecurityMessage                        SecurityMode = "Message"
	SecurityTransportWithMessageCredential SecurityMode = "TransportWithMessageCredential"
)

// BasicHTTPSecurityMode is the security mode of basicHttpBinding.
type BasicHTTPSecurityMode string

const (
	BasicHTTPSecurityNone                           BasicHTTPSecurityMode = "None"
	BasicHTTPSecurityTransport                      BasicHTTPSecurityMode = "Transport"
	BasicHTTPSecurityMessage                        BasicHTTPSecurityMode = "Message"
	BasicHTTPSecurityTransportWithMessageCredential BasicHTTPSecurityMode = "TransportWithMessageCredential"
	BasicHTTPSecurityTransportCredentialOnly        BasicHTTPSecurityMode = "TransportCredentialOnly"
)

// WebHTTPSecurityMode is the security mode of webHttpBinding.
type WebHTTPSecurityMode string

const (
	WebHTTPSecurityNone                    WebHTTPSecurityMode = "None"
	WebHTTPSecurityTransport               WebHTTPSecurityMode = "Transport"
	WebHTTPSecurityTransportCredentialOnly WebHTTPSecurityMode = "TransportCredentialOnly"
)

// NetNamedPipeSecurityMode is the security mode of netNamedPipeBinding.
type NetNamedPipeSecurityMode string

const (
	NamedPipeSecurityNone      NetNamedPipeSecurityMode = "None"
	NamedPipeSecurityTransport NetNamedPipeSecurityMode = "Transport"
)

// BasicHTTPMessageCredentialType is the message credential of basicHttpBinding.
type BasicHTTPMessageCredentialType string

const (
	BasicHTTPCredentialUserName    BasicHTTPMessageCredentialType = "UserName"
	BasicHTTPCredentialCertificate BasicHTTPMessageCredentialType = "Certificate"
)

// MessageCredentialType is the client credential of message security.
type MessageCredentialType string

const (
	MessageCredentialNone        MessageCredentialType = "None"
	MessageCredentialWindows     MessageCredentialType = "Windows"
	MessageCredentialUserName    MessageCredentialType = "UserName"
	MessageCredentialCertificate MessageCredentialType = "Certificate"
	MessageCredentialIssuedToken MessageCredentialType = "IssuedToken"
)

// TCPClientCredentialType is the client credential of TCP transport security.
type TCPClientCredentialType string

const (
	TCPCredentialNone        TCPClientCredentialType = "None"
	TCPCredentialWindows     TCPClientCredentialType = "Windows"
	TCPCredentialCertificate TCPClientCredentialType = "Certificate"
)

// AuthenticationMode is the authentication mode of a security binding element.
type AuthenticationMode string

const (
	AnonymousForCertificate     AuthenticationMode = "AnonymousForCertificate"
	AnonymousForSslNegotiated   AuthenticationMode = "AnonymousForSslNegotiated"
	CertificateOverTransport    AuthenticationMode = "CertificateOverTransport"
	IssuedToken                 AuthenticationMode = "IssuedToken"
	IssuedTokenForCertificate   AuthenticationMode = "IssuedTokenForCertificate"
	IssuedTokenForSslNegotiated AuthenticationMode = "IssuedTokenForSslNegotiated"
	IssuedTokenOverTransport    AuthenticationMode = "IssuedTokenOverTransport"
	Kerberos                    AuthenticationMode = "Kerberos"
	KerberosOverTransport       AuthenticationMode = "KerberosOverTransport"
	MutualCertificate           AuthenticationMode = "MutualCertificate"
	MutualCertificateDuplex     AuthenticationMode = "MutualCertificateDuplex"
	MutualSslNegotiated         AuthenticationMode = "MutualSslNegotiated"
	SecureConversation          AuthenticationMode = "SecureConversation"
	SspiNegotiated              AuthenticationMode = "SspiNegotiated"
	UserNameForCertificate      AuthenticationMode = "UserNameForCertificate"
	UserNameForSslNegotiated    AuthenticationMode = "UserNameForSslNegotiated"
	UserNameOverTransport       AuthenticationMode = "UserNameOverTransport"
	SspiNegotiatedOverTransport AuthenticationMode = "SspiNegotiatedOverTransport"
)

// AuthenticationModes lists every authentication mode.
var AuthenticationModes = []AuthenticationMode{
	AnonymousForCertificate, AnonymousForSslNegotiated, CertificateOverTransport,
	IssuedToken, IssuedTokenForCertificate, IssuedTokenForSslNegotiated,
	IssuedTokenOverTransport, Kerberos, KerberosOverTransport, MutualCertificate,
	MutualCertificateDuplex, MutualSslNegotiated, SecureConversation, SspiNegotiated,
	UserNameForCertificate, UserNameForSslNegotiated, UserNameOverTransport,
	SspiNegotiatedOverTransport,
}

// SecurityHeaderLayout orders the elements of the security header.
type SecurityHeaderLayout string

const (
	LayoutStrict            SecurityHeaderLayout = "Strict"
	LayoutLax               SecurityHeaderLayout = "Lax"
	LayoutLaxTimestampFirst SecurityHeaderLayout = "LaxTimestampFirst"
	LayoutLaxTimestampLast  SecurityHeaderLayout = "LaxTimestampLast"
)

// KeyEntropyMode says which side contributes key entropy.
type KeyEntropyMode string

const (
	ClientEntropy   KeyEntropyMode = "ClientEntropy"
	ServerEntropy   KeyEntropyMode = "ServerEntropy"
	CombinedEntropy KeyEntropyMode = "CombinedEntropy"
)

// MessageProtectionOrder orders signing and encryption.
type MessageProtectionOrder string

const (
	SignBeforeEncrypt                    MessageProtectionOrder = "SignBeforeEncrypt"
	SignBeforeEncryptAndEncryptSignature MessageProtectionOrder = "SignBeforeEncryptAndEncryptSignature"
	EncryptBeforeSign                    MessageProtectionOrder = "EncryptBeforeSign"
)
