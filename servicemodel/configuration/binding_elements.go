package configuration

import (
	"net/url"
	"time"

	svcconfig "github.com/reoring/svcconfig"
	"github.com/reoring/svcconfig/codec"
	"github.com/reoring/svcconfig/dsl"
	"github.com/reoring/svcconfig/servicemodel/channels"
)

func mismatch(ext string, got channels.BindingElement) error {
	return invalidf("%s cannot be applied to %T", ext, got)
}

// copyFrom copies a T or *T into dst.
func copyFrom[T any](dst *T, from any) error {
	switch v := from.(type) {
	case T:
		*dst = v
	case *T:
		if v == nil {
			return invalidf("copy from nil %T", v)
		}
		*dst = *v
	default:
		return invalidf("cannot copy %T into %T", from, *dst)
	}
	return nil
}

// ---- transports ----

// TransportElement holds the attributes every transport element declares.
type TransportElement struct {
	ManualAddressing       bool
	MaxBufferPoolSize      int64
	MaxReceivedMessageSize int64

	Info svcconfig.ElementInfo
}

func transportAttrs[T any](b *dsl.ElementBuilder[T]) *dsl.ElementBuilder[T] {
	return b.
		Attr("manualAddressing", dsl.Bool()).Default(false).
		Attr("maxBufferPoolSize", dsl.Int64().Min(0)).Default(524288).
		Attr("maxReceivedMessageSize", dsl.Int64().Min(1)).Default(65536).
		ElementBuilder
}

func (e TransportElement) applyTo(t *channels.TransportBase) {
	t.ManualAddressing = e.ManualAddressing
	t.MaxBufferPoolSize = e.MaxBufferPoolSize
	t.MaxReceivedMessageSize = e.MaxReceivedMessageSize
}

func (e *TransportElement) initializeFrom(t channels.TransportBase) {
	e.ManualAddressing = t.ManualAddressing
	e.MaxBufferPoolSize = t.MaxBufferPoolSize
	e.MaxReceivedMessageSize = t.MaxReceivedMessageSize
}

// HTTPTransportElement is <httpTransport>.
type HTTPTransportElement struct {
	TransportElement
	AllowCookies                       bool
	AuthenticationScheme               channels.AuthenticationSchemes
	BypassProxyOnLocal                 bool
	DecompressionEnabled               bool
	HostNameComparisonMode             channels.HostNameComparisonMode
	KeepAliveEnabled                   bool
	MaxBufferSize                      int
	MaxPendingAccepts                  int
	ProxyAddress                       *url.URL
	ProxyAuthenticationScheme          channels.AuthenticationSchemes
	Realm                              string
	RequestInitializationTimeout       time.Duration
	TransferMode                       channels.TransferMode
	UnsafeConnectionNtlmAuthentication bool
	UseDefaultWebProxy                 bool
}

func httpTransportAttrs[T any](b *dsl.ElementBuilder[T]) *dsl.ElementBuilder[T] {
	schemes := dsl.Codec(channels.AuthenticationSchemesCodec())
	return transportAttrs(b).
		Attr("allowCookies", dsl.Bool()).Default(false).
		Attr("authenticationScheme", schemes).Default(channels.AuthAnonymous).
		Attr("bypassProxyOnLocal", dsl.Bool()).Default(false).
		Attr("decompressionEnabled", dsl.Bool()).Default(true).
		Attr("hostNameComparisonMode", hostNameComparisonModes).Default(channels.StrongWildcard).
		Attr("keepAliveEnabled", dsl.Bool()).Default(true).
		Attr("maxBufferSize", dsl.Int().Min(1)).Default(65536).
		Attr("maxPendingAccepts", dsl.Int().Min(0).Max(100000)).Default(0).
		Attr("proxyAddress", absoluteURI).
		Attr("proxyAuthenticationScheme", schemes).Default(channels.AuthAnonymous).
		Attr("realm", dsl.String()).Default("").
		Attr("requestInitializationTimeout", timeout()).Default("00:00:00").
		Attr("transferMode", transferModes).Default(channels.Buffered).
		Attr("unsafeConnectionNtlmAuthentication", dsl.Bool()).Default(false).
		Attr("useDefaultWebProxy", dsl.Bool()).Default(true).
		ElementBuilder
}

var httpTransportSchema = httpTransportAttrs(dsl.ElementOf[HTTPTransportElement]("httpTransport")).MustBuild()

// HTTPTransportSchema returns the <httpTransport> declaration.
func HTTPTransportSchema() *dsl.ElementSchema[HTTPTransportElement] { return httpTransportSchema }

func (HTTPTransportElement) CreateBindingElement() channels.BindingElement {
	return channels.NewHTTPTransport()
}

// ApplyConfiguration copies the configured values onto an *channels.HTTPTransport.
func (e HTTPTransportElement) ApplyConfiguration(be channels.BindingElement) error {
	t, ok := be.(*channels.HTTPTransport)
	if !ok {
		return mismatch("httpTransport", be)
	}
	return e.applyTo(t)
}

func (e HTTPTransportElement) applyTo(t *channels.HTTPTransport) error {
	if e.ProxyAddress != nil && e.UseDefaultWebProxy {
		return invalidf("proxyAddress %s requires useDefaultWebProxy=false", e.ProxyAddress)
	}
	e.TransportElement.applyTo(&t.TransportBase)
	t.AllowCookies = e.AllowCookies
	t.AuthenticationScheme = e.AuthenticationScheme
	t.BypassProxyOnLocal = e.BypassProxyOnLocal
	t.DecompressionEnabled = e.DecompressionEnabled
	t.HostNameComparisonMode = e.HostNameComparisonMode
	t.KeepAliveEnabled = e.KeepAliveEnabled
	t.MaxBufferSize = maxBufferSize(e.Info, e.MaxBufferSize, e.TransferMode, e.MaxReceivedMessageSize)
	t.MaxPendingAccepts = e.MaxPendingAccepts
	t.ProxyAddress = e.ProxyAddress
	t.ProxyAuthenticationScheme = e.ProxyAuthenticationScheme
	t.Realm = e.Realm
	t.RequestInitializationTimeout = e.RequestInitializationTimeout
	t.TransferMode = e.TransferMode
	t.UnsafeConnectionNtlmAuthentication = e.UnsafeConnectionNtlmAuthentication
	t.UseDefaultWebProxy = e.UseDefaultWebProxy
	return nil
}

// InitializeFrom sets the element from an *channels.HTTPTransport.
func (e *HTTPTransportElement) InitializeFrom(be channels.BindingElement) error {
	t, ok := be.(*channels.HTTPTransport)
	if !ok {
		return mismatch("httpTransport", be)
	}
	e.initializeFrom(t)
	return nil
}

func (e *HTTPTransportElement) initializeFrom(t *channels.HTTPTransport) {
	e.TransportElement.initializeFrom(t.TransportBase)
	e.AllowCookies = t.AllowCookies
	e.AuthenticationScheme = t.AuthenticationScheme
	e.BypassProxyOnLocal = t.BypassProxyOnLocal
	e.DecompressionEnabled = t.DecompressionEnabled
	e.HostNameComparisonMode = t.HostNameComparisonMode
	e.KeepAliveEnabled = t.KeepAliveEnabled
	e.MaxBufferSize = t.MaxBufferSize
	markMaxBufferSize(&e.Info, t.MaxBufferSize, t.TransferMode, t.MaxReceivedMessageSize)
	e.MaxPendingAccepts = t.MaxPendingAccepts
	e.ProxyAddress = t.ProxyAddress
	e.ProxyAuthenticationScheme = t.ProxyAuthenticationScheme
	e.Realm = t.Realm
	e.RequestInitializationTimeout = t.RequestInitializationTimeout
	e.TransferMode = t.TransferMode
	e.UnsafeConnectionNtlmAuthentication = t.UnsafeConnectionNtlmAuthentication
	e.UseDefaultWebProxy = t.UseDefaultWebProxy
}

func (e *HTTPTransportElement) CopyFrom(from any) error { return copyFrom(e, from) }

// HTTPSTransportElement is <httpsTransport>.
type HTTPSTransportElement struct {
	HTTPTransportElement
	RequireClientCertificate bool
}

var httpsTransportSchema = httpTransportAttrs(dsl.ElementOf[HTTPSTransportElement]("httpsTransport")).
	Attr("requireClientCertificate", dsl.Bool()).Default(false).
	MustBuild()

// HTTPSTransportSchema returns the <httpsTransport> declaration.
func HTTPSTransportSchema() *dsl.ElementSchema[HTTPSTransportElement] { return httpsTransportSchema }

func (HTTPSTransportElement) CreateBindingElement() channels.BindingElement {
	return channels.NewHTTPSTransport()
}

// ApplyConfiguration copies the configured values onto an *channels.HTTPSTransport.
func (e HTTPSTransportElement) ApplyConfiguration(be channels.BindingElement) error {
	t, ok := be.(*channels.HTTPSTransport)
	if !ok {
		return mismatch("httpsTransport", be)
	}
	if err := e.HTTPTransportElement.applyTo(&t.HTTPTransport); err != nil {
		return err
	}
	t.RequireClientCertificate = e.RequireClientCertificate
	return nil
}

// InitializeFrom sets the element from an *channels.HTTPSTransport.
func (e *HTTPSTransportElement) InitializeFrom(be channels.BindingElement) error {
	t, ok := be.(*channels.HTTPSTransport)
	if !ok {
		return mismatch("httpsTransport", be)
	}
	e.HTTPTransportElement.initializeFrom(&t.HTTPTransport)
	e.RequireClientCertificate = t.RequireClientCertificate
	return nil
}

func (e *HTTPSTransportElement) CopyFrom(from any) error { return copyFrom(e, from) }

// ConnectionOrientedTransportElement holds the attributes of the TCP and
// named pipe transports.
type ConnectionOrientedTransportElement struct {
	TransportElement
	ChannelInitializationTimeout time.Duration
	ConnectionBufferSize         int
	HostNameComparisonMode       channels.HostNameComparisonMode
	MaxBufferSize                int
	MaxOutputDelay               time.Duration
	MaxPendingAccepts            int
	MaxPendingConnections        int
	TransferMode                 channels.TransferMode
}

func connectionOrientedAttrs[T any](b *dsl.ElementBuilder[T]) *dsl.ElementBuilder[T] {
	return transportAttrs(b).
		Attr("channelInitializationTimeout", positiveTimeout()).Default("00:00:30").
		Attr("connectionBufferSize", dsl.Int().Min(1)).Default(8192).
		Attr("hostNameComparisonMode", hostNameComparisonModes).Default(channels.StrongWildcard).
		Attr("maxBufferSize", dsl.Int().Min(1)).Default(65536).
		Attr("maxOutputDelay", timeout()).Default("00:00:00.2").
		Attr("maxPendingAccepts", dsl.Int().Min(0)).Default(0).
		Attr("maxPendingConnections", dsl.Int().Min(0)).Default(0).
		Attr("transferMode", transferModes).Default(channels.Buffered).
		ElementBuilder
}

func (e ConnectionOrientedTransportElement) applyTo(t *channels.ConnectionOrientedTransport) {
	e.TransportElement.applyTo(&t.TransportBase)
	t.ChannelInitializationTimeout = e.ChannelInitializationTimeout
	t.ConnectionBufferSize = e.ConnectionBufferSize
	t.HostNameComparisonMode = e.HostNameComparisonMode
	t.MaxBufferSize = maxBufferSize(e.Info, e.MaxBufferSize, e.TransferMode, e.MaxReceivedMessageSize)
	t.MaxOutputDelay = e.MaxOutputDelay
	t.MaxPendingAccepts = e.MaxPendingAccepts
	t.MaxPendingConnections = e.MaxPendingConnections
	t.TransferMode = e.TransferMode
}

func (e *ConnectionOrientedTransportElement) initializeFrom(t channels.ConnectionOrientedTransport) {
	e.TransportElement.initializeFrom(t.TransportBase)
	e.ChannelInitializationTimeout = t.ChannelInitializationTimeout
	e.ConnectionBufferSize = t.ConnectionBufferSize
	e.HostNameComparisonMode = t.HostNameComparisonMode
	e.MaxBufferSize = t.MaxBufferSize
	markMaxBufferSize(&e.Info, t.MaxBufferSize, t.TransferMode, t.MaxReceivedMessageSize)
	e.MaxOutputDelay = t.MaxOutputDelay
	e.MaxPendingAccepts = t.MaxPendingAccepts
	e.MaxPendingConnections = t.MaxPendingConnections
	e.TransferMode = t.TransferMode
}

// TCPConnectionPoolElement is <tcpTransport><connectionPoolSettings>.
type TCPConnectionPoolElement struct {
	GroupName                         string
	IdleTimeout                       time.Duration
	LeaseTimeout                      time.Duration
	MaxOutboundConnectionsPerEndpoint int
}

var tcpConnectionPoolSchema = dsl.ElementOf[TCPConnectionPoolElement]("connectionPoolSettings").
	Attr("groupName", dsl.String().NonEmpty()).Default("default").
	Attr("idleTimeout", timeout()).Default("00:02:00").
	Attr("leaseTimeout", timeout()).Default("00:05:00").
	Attr("maxOutboundConnectionsPerEndpoint", dsl.Int().Min(0)).Default(10).
	MustBuild()

// TCPTransportElement is <tcpTransport>.
type TCPTransportElement struct {
	ConnectionOrientedTransportElement
	ConnectionPool     TCPConnectionPoolElement `config:"connectionPoolSettings"`
	ListenBacklog      int
	PortSharingEnabled bool
	TeredoEnabled      bool
}

var tcpTransportSchema = connectionOrientedAttrs(dsl.ElementOf[TCPTransportElement]("tcpTransport")).
	Attr("listenBacklog", dsl.Int().Min(0)).Default(0).
	Attr("portSharingEnabled", dsl.Bool()).Default(false).
	Attr("teredoEnabled", dsl.Bool()).Default(false).
	Child("connectionPoolSettings", tcpConnectionPoolSchema).
	MustBuild()

// TCPTransportSchema returns the <tcpTransport> declaration.
func TCPTransportSchema() *dsl.ElementSchema[TCPTransportElement] { return tcpTransportSchema }

func (TCPTransportElement) CreateBindingElement() channels.BindingElement {
	return channels.NewTCPTransport()
}

// ApplyConfiguration copies the configured values onto a *channels.TCPTransport.
func (e TCPTransportElement) ApplyConfiguration(be channels.BindingElement) error {
	t, ok := be.(*channels.TCPTransport)
	if !ok {
		return mismatch("tcpTransport", be)
	}
	e.ConnectionOrientedTransportElement.applyTo(&t.ConnectionOrientedTransport)
	t.ConnectionPool = channels.TCPConnectionPool(e.ConnectionPool)
	t.ListenBacklog = e.ListenBacklog
	t.PortSharingEnabled = e.PortSharingEnabled
	t.TeredoEnabled = e.TeredoEnabled
	return nil
}

// InitializeFrom sets the element from a *channels.TCPTransport.
func (e *TCPTransportElement) InitializeFrom(be channels.BindingElement) error {
	t, ok := be.(*channels.TCPTransport)
	if !ok {
		return mismatch("tcpTransport", be)
	}
	e.ConnectionOrientedTransportElement.initializeFrom(t.ConnectionOrientedTransport)
	e.ConnectionPool = TCPConnectionPoolElement(t.ConnectionPool)
	e.ListenBacklog = t.ListenBacklog
	e.PortSharingEnabled = t.PortSharingEnabled
	e.TeredoEnabled = t.TeredoEnabled
	return nil
}

func (e *TCPTransportElement) CopyFrom(from any) error { return copyFrom(e, from) }

// NamedPipeConnectionPoolElement is <namedPipeTransport><connectionPoolSettings>.
type NamedPipeConnectionPoolElement struct {
	GroupName                         string
	IdleTimeout                       time.Duration
	MaxOutboundConnectionsPerEndpoint int
}

var namedPipeConnectionPoolSchema = dsl.ElementOf[NamedPipeConnectionPoolElement]("connectionPoolSettings").
	Attr("groupName", dsl.String().NonEmpty()).Default("default").
	Attr("idleTimeout", timeout()).Default("00:02:00").
	Attr("maxOutboundConnectionsPerEndpoint", dsl.Int().Min(0)).Default(10).
	MustBuild()

// NamedPipeTransportElement is <namedPipeTransport>.
type NamedPipeTransportElement struct {
	ConnectionOrientedTransportElement
	ConnectionPool NamedPipeConnectionPoolElement `config:"connectionPoolSettings"`
}

var namedPipeTransportSchema = connectionOrientedAttrs(dsl.ElementOf[NamedPipeTransportElement]("namedPipeTransport")).
	Child("connectionPoolSettings", namedPipeConnectionPoolSchema).
	MustBuild()

// NamedPipeTransportSchema returns the <namedPipeTransport> declaration.
func NamedPipeTransportSchema() *dsl.ElementSchema[NamedPipeTransportElement] {
	return namedPipeTransportSchema
}

func (NamedPipeTransportElement) CreateBindingElement() channels.BindingElement {
	return channels.NewNamedPipeTransport()
}

// ApplyConfiguration copies the configured values onto a *channels.NamedPipeTransport.
func (e NamedPipeTransportElement) ApplyConfiguration(be channels.BindingElement) error {
	t, ok := be.(*channels.NamedPipeTransport)
	if !ok {
		return mismatch("namedPipeTransport", be)
	}
	e.ConnectionOrientedTransportElement.applyTo(&t.ConnectionOrientedTransport)
	t.ConnectionPool = channels.NamedPipeConnectionPool(e.ConnectionPool)
	return nil
}

// InitializeFrom sets the element from a *channels.NamedPipeTransport.
func (e *NamedPipeTransportElement) InitializeFrom(be channels.BindingElement) error {
	t, ok := be.(*channels.NamedPipeTransport)
	if !ok {
		return mismatch("namedPipeTransport", be)
	}
	e.ConnectionOrientedTransportElement.initializeFrom(t.ConnectionOrientedTransport)
	e.ConnectionPool = NamedPipeConnectionPoolElement(t.ConnectionPool)
	return nil
}

func (e *NamedPipeTransportElement) CopyFrom(from any) error { return copyFrom(e, from) }

// ---- encoders ----

// TextMessageEncodingElement is <textMessageEncoding>.
type TextMessageEncodingElement struct {
	MaxReadPoolSize  int
	MaxWritePoolSize int
	MessageVersion   codec.MessageVersion
	ReaderQuotas     ReaderQuotasElement
	WriteEncoding    codec.TextEncoding
}

var (
	messageVersions = dsl.Codec(codec.MessageVersionCodec())
	writeEncodings  = dsl.Codec(codec.Encoding())
)

var textMessageEncodingSchema = dsl.ElementOf[TextMessageEncodingElement]("textMessageEncoding").
	Attr("maxReadPoolSize", dsl.Int().Min(1)).Default(64).
	Attr("maxWritePoolSize", dsl.Int().Min(1)).Default(16).
	Attr("messageVersion", messageVersions).Default("Soap12WSAddressing10").
	Attr("writeEncoding", writeEncodings).Default("utf-8").
	Child("readerQuotas", readerQuotasSchema).
	MustBuild()

// TextMessageEncodingSchema returns the <textMessageEncoding> declaration.
func TextMessageEncodingSchema() *dsl.ElementSchema[TextMessageEncodingElement] {
	return textMessageEncodingSchema
}

func (TextMessageEncodingElement) CreateBindingElement() channels.BindingElement {
	return channels.NewTextMessageEncoding()
}

// ApplyConfiguration copies the configured values onto a *channels.TextMessageEncoding.
func (e TextMessageEncodingElement) ApplyConfiguration(be channels.BindingElement) error {
	t, ok := be.(*channels.TextMessageEncoding)
	if !ok {
		return mismatch("textMessageEncoding", be)
	}
	t.MaxReadPoolSize = e.MaxReadPoolSize
	t.MaxWritePoolSize = e.MaxWritePoolSize
	t.MessageVersion = e.MessageVersion
	e.ReaderQuotas.ApplyConfiguration(&t.ReaderQuotas)
	t.WriteEncoding = e.WriteEncoding
	return nil
}

// InitializeFrom sets the element from a *channels.TextMessageEncoding.
func (e *TextMessageEncodingElement) InitializeFrom(be channels.BindingElement) error {
	t, ok := be.(*channels.TextMessageEncoding)
	if !ok {
		return mismatch("textMessageEncoding", be)
	}
	e.MaxReadPoolSize = t.MaxReadPoolSize
	e.MaxWritePoolSize = t.MaxWritePoolSize
	e.MessageVersion = t.MessageVersion
	e.ReaderQuotas.InitializeFrom(t.ReaderQuotas)
	e.WriteEncoding = t.WriteEncoding
	return nil
}

func (e *TextMessageEncodingElement) CopyFrom(from any) error { return copyFrom(e, from) }

// BinaryMessageEncodingElement is <binaryMessageEncoding>.
type BinaryMessageEncodingElement struct {
	CompressionFormat channels.CompressionFormat
	MaxReadPoolSize   int
	MaxSessionSize    int
	MaxWritePoolSize  int
	ReaderQuotas      ReaderQuotasElement
}

var binaryMessageEncodingSchema = dsl.ElementOf[BinaryMessageEncodingElement]("binaryMessageEncoding").
	Attr("compressionFormat", dsl.Enum(channels.CompressionNone, channels.CompressionGZip, channels.CompressionDeflate)).
	Default(channels.CompressionNone).
	Attr("maxReadPoolSize", dsl.Int().Min(1)).Default(64).
	Attr("maxSessionSize", dsl.Int().Min(0)).Default(2048).
	Attr("maxWritePoolSize", dsl.Int().Min(1)).Default(16).
	Child("readerQuotas", readerQuotasSchema).
	MustBuild()

// BinaryMessageEncodingSchema returns the <binaryMessageEncoding> declaration.
func BinaryMessageEncodingSchema() *dsl.ElementSchema[BinaryMessageEncodingElement] {
	return binaryMessageEncodingSchema
}

func (BinaryMessageEncodingElement) CreateBindingElement() channels.BindingElement {
	return channels.NewBinaryMessageEncoding()
}

// ApplyConfiguration copies the configured values onto a *channels.BinaryMessageEncoding.
func (e BinaryMessageEncodingElement) ApplyConfiguration(be channels.BindingElement) error {
	t, ok := be.(*channels.BinaryMessageEncoding)
	if !ok {
		return mismatch("binaryMessageEncoding", be)
	}
	t.CompressionFormat = e.CompressionFormat
	t.MaxReadPoolSize = e.MaxReadPoolSize
	t.MaxSessionSize = e.MaxSessionSize
	t.MaxWritePoolSize = e.MaxWritePoolSize
	e.ReaderQuotas.ApplyConfiguration(&t.ReaderQuotas)
	return nil
}

// InitializeFrom sets the element from a *channels.BinaryMessageEncoding.
func (e *BinaryMessageEncodingElement) InitializeFrom(be channels.BindingElement) error {
	t, ok := be.(*channels.BinaryMessageEncoding)
	if !ok {
		return mismatch("binaryMessageEncoding", be)
	}
	e.CompressionFormat = t.CompressionFormat
	e.MaxReadPoolSize = t.MaxReadPoolSize
	e.MaxSessionSize = t.MaxSessionSize
	e.MaxWritePoolSize = t.MaxWritePoolSize
	e.ReaderQuotas.InitializeFrom(t.ReaderQuotas)
	return nil
}

func (e *BinaryMessageEncodingElement) CopyFrom(from any) error { return copyFrom(e, from) }

// MTOMMessageEncodingElement is <mtomMessageEncoding>.
type MTOMMessageEncodingElement struct {
	MaxBufferSize    int
	MaxReadPoolSize  int
	MaxWritePoolSize int
	MessageVersion   codec.MessageVersion
	ReaderQuotas     ReaderQuotasElement
	WriteEncoding    codec.TextEncoding
}

var mtomMessageEncodingSchema = dsl.ElementOf[MTOMMessageEncodingElement]("mtomMessageEncoding").
	Attr("maxBufferSize", dsl.Int().Min(1)).Default(65536).
	Attr("maxReadPoolSize", dsl.Int().Min(1)).Default(64).
	Attr("maxWritePoolSize", dsl.Int().Min(1)).Default(16).
	Attr("messageVersion", messageVersions).Default("Soap12WSAddressing10").
	Attr("writeEncoding", writeEncodings).Default("utf-8").
	Child("readerQuotas", readerQuotasSchema).
	MustBuild()

// MTOMMessageEncodingSchema returns the <mtomMessageEncoding> declaration.
func MTOMMessageEncodingSchema() *dsl.ElementSchema[MTOMMessageEncodingElement] {
	return mtomMessageEncodingSchema
}

func (MTOMMessageEncodingElement) CreateBindingElement() channels.BindingElement {
	return channels.NewMTOMMessageEncoding()
}

// ApplyConfiguration copies the configured values onto a *channels.MTOMMessageEncoding.
func (e MTOMMessageEncodingElement) ApplyConfiguration(be channels.BindingElement) error {
	t, ok := be.(*channels.MTOMMessageEncoding)
	if !ok {
		return mismatch("mtomMessageEncoding", be)
	}
	t.MaxBufferSize = e.MaxBufferSize
	t.MaxReadPoolSize = e.MaxReadPoolSize
	t.MaxWritePoolSize = e.MaxWritePoolSize
	t.MessageVersion = e.MessageVersion
	e.ReaderQuotas.ApplyConfiguration(&t.ReaderQuotas)
	t.WriteEncoding = e.WriteEncoding
	return nil
}

// InitializeFrom sets the element from a *channels.MTOMMessageEncoding.
func (e *MTOMMessageEncodingElement) InitializeFrom(be channels.BindingElement) error {
	t, ok := be.(*channels.MTOMMessageEncoding)
	if !ok {
		return mismatch("mtomMessageEncoding", be)
	}
	e.MaxBufferSize = t.MaxBufferSize
	e.MaxReadPoolSize = t.MaxReadPoolSize
	e.MaxWritePoolSize = t.MaxWritePoolSize
	e.MessageVersion = t.MessageVersion
	e.ReaderQuotas.InitializeFrom(t.ReaderQuotas)
	e.WriteEncoding = t.WriteEncoding
	return nil
}

func (e *MTOMMessageEncodingElement) CopyFrom(from any) error { return copyFrom(e, from) }

// ---- protocol channels ----

// ReliableSessionElement is <reliableSession> in a custom binding.
type ReliableSessionElement struct {
	AcknowledgementInterval  time.Duration
	FlowControlEnabled       bool
	InactivityTimeout        time.Duration
	MaxPendingChannels       int
	MaxRetryCount            int
	MaxTransferWindowSize    int
	Ordered                  bool
	ReliableMessagingVersion codec.ReliableMessagingVersion
}

var reliableSessionSchema = dsl.ElementOf[ReliableSessionElement]("reliableSession").
	Attr("acknowledgementInterval", positiveTimeout()).Default("00:00:00.2").
	Attr("flowControlEnabled", dsl.Bool()).Default(true).
	Attr("inactivityTimeout", positiveTimeout()).Default("00:10:00").
	Attr("maxPendingChannels", dsl.Int().Min(1).Max(16384)).Default(4).
	Attr("maxRetryCount", dsl.Int().Min(1)).Default(8).
	Attr("maxTransferWindowSize", dsl.Int().Min(1).Max(4096)).Default(8).
	Attr("ordered", dsl.Bool()).Default(true).
	Attr("reliableMessagingVersion", dsl.Codec(codec.ReliableMessagingVersionCodec())).Default(codec.ReliableMessagingDefault).
	MustBuild()

// ReliableSessionSchema returns the custom binding <reliableSession> declaration.
func ReliableSessionSchema() *dsl.ElementSchema[ReliableSessionElement] { return reliableSessionSchema }

func (ReliableSessionElement) CreateBindingElement() channels.BindingElement {
	return channels.NewReliableSession()
}

// ApplyConfiguration copies the configured values onto a *channels.ReliableSession.
func (e ReliableSessionElement) ApplyConfiguration(be channels.BindingElement) error {
	t, ok := be.(*channels.ReliableSession)
	if !ok {
		return mismatch("reliableSession", be)
	}
	*t = channels.ReliableSession(e)
	return nil
}

// InitializeFrom sets the element from a *channels.ReliableSession.
func (e *ReliableSessionElement) InitializeFrom(be channels.BindingElement) error {
	t, ok := be.(*channels.ReliableSession)
	if !ok {
		return mismatch("reliableSession", be)
	}
	*e = ReliableSessionElement(*t)
	return nil
}

func (e *ReliableSessionElement) CopyFrom(from any) error { return copyFrom(e, from) }

// TransactionFlowElement is <transactionFlow>.
type TransactionFlowElement struct {
	AllowWildcardAction bool
	TransactionProtocol codec.TransactionProtocol
}

var transactionFlowSchema = dsl.ElementOf[TransactionFlowElement]("transactionFlow").
	Attr("allowWildcardAction", dsl.Bool()).Default(false).
	Attr("transactionProtocol", dsl.Codec(codec.TransactionProtocolCodec())).Default(codec.OleTransactions).
	MustBuild()

func (TransactionFlowElement) CreateBindingElement() channels.BindingElement {
	return channels.NewTransactionFlow()
}

// ApplyConfiguration copies the configured values onto a *channels.TransactionFlow.
func (e TransactionFlowElement) ApplyConfiguration(be channels.BindingElement) error {
	t, ok := be.(*channels.TransactionFlow)
	if !ok {
		return mismatch("transactionFlow", be)
	}
	*t = channels.TransactionFlow(e)
	return nil
}

// InitializeFrom sets the element from a *channels.TransactionFlow.
func (e *TransactionFlowElement) InitializeFrom(be channels.BindingElement) error {
	t, ok := be.(*channels.TransactionFlow)
	if !ok {
		return mismatch("transactionFlow", be)
	}
	*e = TransactionFlowElement(*t)
	return nil
}

func (e *TransactionFlowElement) CopyFrom(from any) error { return copyFrom(e, from) }

// CompositeDuplexElement is <compositeDuplex>.
type CompositeDuplexElement struct {
	ClientBaseAddress *url.URL
}

var compositeDuplexSchema = dsl.ElementOf[CompositeDuplexElement]("compositeDuplex").
	Attr("clientBaseAddress", absoluteURI).
	MustBuild()

func (CompositeDuplexElement) CreateBindingElement() channels.BindingElement {
	return &channels.CompositeDuplex{}
}

// ApplyConfiguration copies the configured values onto a *channels.CompositeDuplex.
func (e CompositeDuplexElement) ApplyConfiguration(be channels.BindingElement) error {
	t, ok := be.(*channels.CompositeDuplex)
	if !ok {
		return mismatch("compositeDuplex", be)
	}
	t.ClientBaseAddress = e.ClientBaseAddress
	return nil
}

// InitializeFrom sets the element from a *channels.CompositeDuplex.
func (e *CompositeDuplexElement) InitializeFrom(be channels.BindingElement) error {
	t, ok := be.(*channels.CompositeDuplex)
	if !ok {
		return mismatch("compositeDuplex", be)
	}
	e.ClientBaseAddress = t.ClientBaseAddress
	return nil
}

func (e *CompositeDuplexElement) CopyFrom(from any) error { return copyFrom(e, from) }

// ChannelPoolElement is <oneWay><channelPoolSettings>.
type ChannelPoolElement struct {
	IdleTimeout                    time.Duration
	LeaseTimeout                   time.Duration
	MaxOutboundChannelsPerEndpoint int
}

var channelPoolSchema = dsl.ElementOf[ChannelPoolElement]("channelPoolSettings").
	Attr("idleTimeout", timeout()).Default("00:02:00").
	Attr("leaseTimeout", timeout()).Default("00:10:00").
	Attr("maxOutboundChannelsPerEndpoint", dsl.Int().Min(1)).Default(10).
	MustBuild()

// OneWayElement is <oneWay>.
type OneWayElement struct {
	ChannelPool         ChannelPoolElement `config:"channelPoolSettings"`
	MaxAcceptedChannels int
	PacketRoutable      bool
}

var oneWaySchema = dsl.ElementOf[OneWayElement]("oneWay").
	Attr("maxAcceptedChannels", dsl.Int().Min(1)).Default(10).
	Attr("packetRoutable", dsl.Bool()).Default(false).
	Child("channelPoolSettings", channelPoolSchema).
	MustBuild()

func (OneWayElement) CreateBindingElement() channels.BindingElement { return channels.NewOneWay() }

// ApplyConfiguration copies the configured values onto a *channels.OneWay.
func (e OneWayElement) ApplyConfiguration(be channels.BindingElement) error {
	t, ok := be.(*channels.OneWay)
	if !ok {
		return mismatch("oneWay", be)
	}
	t.ChannelPool = channels.ChannelPool(e.ChannelPool)
	t.MaxAcceptedChannels = e.MaxAcceptedChannels
	t.PacketRoutable = e.PacketRoutable
	return nil
}

// InitializeFrom sets the element from a *channels.OneWay.
func (e *OneWayElement) InitializeFrom(be channels.BindingElement) error {
	t, ok := be.(*channels.OneWay)
	if !ok {
		return mismatch("oneWay", be)
	}
	e.ChannelPool = ChannelPoolElement(t.ChannelPool)
	e.MaxAcceptedChannels = t.MaxAcceptedChannels
	e.PacketRoutable = t.PacketRoutable
	return nil
}

func (e *OneWayElement) CopyFrom(from any) error { return copyFrom(e, from) }

// ---- security ----

// WindowsStreamSecurityElement is <windowsStreamSecurity>.
type WindowsStreamSecurityElement struct {
	ProtectionLevel channels.ProtectionLevel
}

var windowsStreamSecuritySchema = dsl.ElementOf[WindowsStreamSecurityElement]("windowsStreamSecurity").
	Attr("protectionLevel", protectionLevels).Default(channels.ProtectionEncryptAndSign).
	MustBuild()

func (WindowsStreamSecurityElement) CreateBindingElement() channels.BindingElement {
	return channels.NewWindowsStreamSecurity()
}

// ApplyConfiguration copies the configured values onto a *channels.WindowsStreamSecurity.
func (e WindowsStreamSecurityElement) ApplyConfiguration(be channels.BindingElement) error {
	t, ok := be.(*channels.WindowsStreamSecurity)
	if !ok {
		return mismatch("windowsStreamSecurity", be)
	}
	t.ProtectionLevel = e.ProtectionLevel
	return nil
}

// InitializeFrom sets the element from a *channels.WindowsStreamSecurity.
func (e *WindowsStreamSecurityElement) InitializeFrom(be channels.BindingElement) error {
	t, ok := be.(*channels.WindowsStreamSecurity)
	if !ok {
		return mismatch("windowsStreamSecurity", be)
	}
	e.ProtectionLevel = t.ProtectionLevel
	return nil
}

func (e *WindowsStreamSecurityElement) CopyFrom(from any) error { return copyFrom(e, from) }

// SSLStreamSecurityElement is <sslStreamSecurity>.
type SSLStreamSecurityElement struct {
	RequireClientCertificate bool
	SSLProtocols             channels.SSLProtocols
}

var sslStreamSecuritySchema = dsl.ElementOf[SSLStreamSecurityElement]("sslStreamSecurity").
	Attr("requireClientCertificate", dsl.Bool()).Default(false).
	Attr("sslProtocols", dsl.Codec(channels.SSLProtocolsCodec())).Default(channels.SSLDefault).
	MustBuild()

func (SSLStreamSecurityElement) CreateBindingElement() channels.BindingElement {
	return channels.NewSSLStreamSecurity()
}

// ApplyConfiguration copies the configured values onto a *channels.SSLStreamSecurity.
func (e SSLStreamSecurityElement) ApplyConfiguration(be channels.BindingElement) error {
	t, ok := be.(*channels.SSLStreamSecurity)
	if !ok {
		return mismatch("sslStreamSecurity", be)
	}
	*t = channels.SSLStreamSecurity(e)
	return nil
}

// InitializeFrom sets the element from a *channels.SSLStreamSecurity.
func (e *SSLStreamSecurityElement) InitializeFrom(be channels.BindingElement) error {
	t, ok := be.(*channels.SSLStreamSecurity)
	if !ok {
		return mismatch("sslStreamSecurity", be)
	}
	*e = SSLStreamSecurityElement(*t)
	return nil
}

func (e *SSLStreamSecurityElement) CopyFrom(from any) error { return copyFrom(e, from) }

// SecurityElement is <security> in a custom binding.
type SecurityElement struct {
	AllowInsecureTransport             bool
	AllowSerializedSigningTokenOnReply bool
	AuthenticationMode                 channels.AuthenticationMode
	CanRenewSecurityContextToken       bool
	DefaultAlgorithmSuite              codec.AlgorithmSuite
	EnableUnsecuredResponse            bool
	IncludeTimestamp                   bool
	KeyEntropyMode                     channels.KeyEntropyMode
	MessageProtectionOrder             channels.MessageProtectionOrder
	MessageSecurityVersion             codec.MessageSecurityVersion
	ProtectTokens                      bool
	RequireDerivedKeys                 bool
	RequireSecurityContextCancellation bool
	RequireSignatureConfirmation       bool
	SecurityHeaderLayout               channels.SecurityHeaderLayout
}

var securitySchema = dsl.ElementOf[SecurityElement]("security").
	Attr("allowInsecureTransport", dsl.Bool()).Default(false).
	Attr("allowSerializedSigningTokenOnReply", dsl.Bool()).Default(false).
	Attr("authenticationMode", dsl.Enum(channels.AuthenticationModes...)).Default(channels.SspiNegotiated).
	Attr("canRenewSecurityContextToken", dsl.Bool()).Default(true).
	Attr("defaultAlgorithmSuite", algorithmSuites).Default("Default").
	Attr("enableUnsecuredResponse", dsl.Bool()).Default(false).
	Attr("includeTimestamp", dsl.Bool()).Default(true).
	Attr("keyEntropyMode", dsl.Enum(channels.ClientEntropy, channels.ServerEntropy, channels.CombinedEntropy)).
	Default(channels.CombinedEntropy).
	Attr("messageProtectionOrder", dsl.Enum(channels.SignBeforeEncrypt, channels.SignBeforeEncryptAndEncryptSignature, channels.EncryptBeforeSign)).
	Default(channels.SignBeforeEncryptAndEncryptSignature).
	Attr("messageSecurityVersion", dsl.Codec(codec.MessageSecurityVersionCodec())).Default(codec.MessageSecurityVersionDefault).
	Attr("protectTokens", dsl.Bool()).Default(false).
	Attr("requireDerivedKeys", dsl.Bool()).Default(true).
	Attr("requireSecurityContextCancellation", dsl.Bool()).Default(true).
	Attr("requireSignatureConfirmation", dsl.Bool()).Default(false).
	Attr("securityHeaderLayout", dsl.Enum(channels.LayoutStrict, channels.LayoutLax, channels.LayoutLaxTimestampFirst, channels.LayoutLaxTimestampLast)).
	Default(channels.LayoutStrict).
	MustBuild()

// SecuritySchema returns the custom binding <security> declaration.
func SecuritySchema() *dsl.ElementSchema[SecurityElement] { return securitySchema }

func (SecurityElement) CreateBindingElement() channels.BindingElement {
	return channels.NewSecurityBindingElement()
}

// ApplyConfiguration copies the configured values onto a *channels.SecurityBindingElement.
func (e SecurityElement) ApplyConfiguration(be channels.BindingElement) error {
	t, ok := be.(*channels.SecurityBindingElement)
	if !ok {
		return mismatch("security", be)
	}
	*t = channels.SecurityBindingElement(e)
	return nil
}

// InitializeFrom sets the element from a *channels.SecurityBindingElement.
func (e *SecurityElement) InitializeFrom(be channels.BindingElement) error {
	t, ok := be.(*channels.SecurityBindingElement)
	if !ok {
		return mismatch("security", be)
	}
	*e = SecurityElement(*t)
	return nil
}

func (e *SecurityElement) CopyFrom(from any) error { return copyFrom(e, from) }
