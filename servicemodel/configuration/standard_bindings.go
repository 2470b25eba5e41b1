package configuration

import (
	"fmt"

	"github.com/reoring/svcconfig/codec"
	"github.com/reoring/svcconfig/dsl"
	"github.com/reoring/svcconfig/servicemodel/channels"
)

// standardBindingElement is the contract of the <binding> items of a
// standard binding collection.
type standardBindingElement[B channels.Binding] interface {
	BindingName() string
	NewBinding() B
	ApplyConfiguration(B) error
}

// StandardBindingCollection is a standard binding collection element such as
// <basicHttpBinding>: the configured <binding> items of one binding type.
type StandardBindingCollection[E standardBindingElement[B], B channels.Binding] struct {
	Bindings dsl.Collection[E] `config:"binding"`
}

// NewBinding returns a binding with runtime defaults.
func (c StandardBindingCollection[E, B]) NewBinding() channels.Binding {
	var e E
	return e.NewBinding()
}

// ConfiguredNames lists the binding names in document order.
func (c StandardBindingCollection[E, B]) ConfiguredNames() []string {
	items := c.Bindings.Items()
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.BindingName()
	}
	return out
}

// Contains reports whether a binding named name is configured.
func (c StandardBindingCollection[E, B]) Contains(name string) bool {
	_, ok := c.Bindings.Get(name)
	return ok
}

// ApplyConfiguration applies the binding configured as name onto b.
func (c StandardBindingCollection[E, B]) ApplyConfiguration(name string, b channels.Binding) error {
	e, ok := c.Bindings.Get(name)
	if !ok {
		return fmt.Errorf("%w: binding configuration %q", ErrNotFound, name)
	}
	tb, ok := b.(B)
	if !ok {
		return invalidf("cannot apply %q to %T", name, b)
	}
	return e.ApplyConfiguration(tb)
}

func bindingCollectionSchema[E standardBindingElement[B], B channels.Binding](name string, item *dsl.ElementSchema[E]) *dsl.ElementSchema[StandardBindingCollection[E, B]] {
	return dsl.ElementOf[StandardBindingCollection[E, B]](name).
		Collection("binding", item).AddRemoveClear().
		MustBuild()
}

type (
	BasicHTTPBindingCollection    = StandardBindingCollection[BasicHTTPBindingElement, *channels.BasicHTTPBinding]
	WSHTTPBindingCollection       = StandardBindingCollection[WSHTTPBindingElement, *channels.WSHTTPBinding]
	NetTCPBindingCollection       = StandardBindingCollection[NetTCPBindingElement, *channels.NetTCPBinding]
	NetNamedPipeBindingCollection = StandardBindingCollection[NetNamedPipeBindingElement, *channels.NetNamedPipeBinding]
	WebHTTPBindingCollection      = StandardBindingCollection[WebHTTPBindingElement, *channels.WebHTTPBinding]
)

// ---- basicHttpBinding ----

// BasicHTTPBindingElement is <basicHttpBinding><binding>.
type BasicHTTPBindingElement struct {
	StandardBinding
	HTTPBindingSettings
	MessageEncoding channels.MessageEncoding
	Security        BasicHTTPSecurityElement
}

// BasicHTTPSecurityElement is <security> of basicHttpBinding.
type BasicHTTPSecurityElement struct {
	Mode      channels.BasicHTTPSecurityMode
	Transport HTTPTransportSecurityElement
	Message   BasicHTTPMessageSecurityElement
}

// BasicHTTPMessageSecurityElement is <security><message> of basicHttpBinding.
type BasicHTTPMessageSecurityElement struct {
	ClientCredentialType channels.BasicHTTPMessageCredentialType
	AlgorithmSuite       codec.AlgorithmSuite
}

var basicHTTPMessageSecuritySchema = dsl.ElementOf[BasicHTTPMessageSecurityElement]("message").
	Attr("clientCredentialType", dsl.Enum(channels.BasicHTTPCredentialUserName, channels.BasicHTTPCredentialCertificate)).
	Default(channels.BasicHTTPCredentialUserName).
	Attr("algorithmSuite", algorithmSuites).Default("Default").
	MustBuild()

var basicHTTPSecuritySchema = dsl.ElementOf[BasicHTTPSecurityElement]("security").
	Attr("mode", dsl.Enum(channels.BasicHTTPSecurityNone, channels.BasicHTTPSecurityTransport, channels.BasicHTTPSecurityMessage,
		channels.BasicHTTPSecurityTransportWithMessageCredential, channels.BasicHTTPSecurityTransportCredentialOnly)).
	Default(channels.BasicHTTPSecurityNone).
	Child("transport", httpTransportSecurity).
	Child("message", basicHTTPMessageSecuritySchema).
	MustBuild()

var basicHTTPBindingSchema = httpBindingAttrs(standardBinding[BasicHTTPBindingElement]()).
	Attr("messageEncoding", messageEncodings).Default(channels.EncodingText).
	Child("security", basicHTTPSecuritySchema).
	MustBuild()

// BasicHTTPBindingSchema returns the <basicHttpBinding><binding> declaration.
func BasicHTTPBindingSchema() *dsl.ElementSchema[BasicHTTPBindingElement] { return basicHTTPBindingSchema }

func (BasicHTTPBindingElement) NewBinding() *channels.BasicHTTPBinding {
	return channels.NewBasicHTTPBinding()
}

// ApplyConfiguration copies the configured values onto b.
func (e BasicHTTPBindingElement) ApplyConfiguration(b *channels.BasicHTTPBinding) error {
	e.applyTimeouts(b)
	if err := e.HTTPBindingSettings.apply(&b.HTTPSettings, e.Info); err != nil {
		return err
	}
	b.MessageEncoding = e.MessageEncoding
	b.Security.Mode = e.Security.Mode
	e.Security.Transport.apply(&b.Security.Transport)
	b.Security.Message.ClientCredentialType = e.Security.Message.ClientCredentialType
	b.Security.Message.AlgorithmSuite = e.Security.Message.AlgorithmSuite
	return nil
}

// InitializeFrom sets the element from the values of b.
func (e *BasicHTTPBindingElement) InitializeFrom(b *channels.BasicHTTPBinding) {
	e.initializeTimeouts(b)
	e.HTTPBindingSettings.initializeFrom(b.HTTPSettings, &e.Info)
	e.MessageEncoding = b.MessageEncoding
	e.Security.Mode = b.Security.Mode
	e.Security.Transport.initializeFrom(b.Security.Transport)
	e.Security.Message.ClientCredentialType = b.Security.Message.ClientCredentialType
	e.Security.Message.AlgorithmSuite = b.Security.Message.AlgorithmSuite
}

// ---- wsHttpBinding ----

// WSHTTPBindingElement is <wsHttpBinding><binding>.
type WSHTTPBindingElement struct {
	StandardBinding
	HTTPBindingSettings
	MessageEncoding channels.MessageEncoding
	TransactionFlow bool
	ReliableSession StandardReliableSessionElement
	Security        WSHTTPSecurityElement
}

// WSHTTPSecurityElement is <security> of wsHttpBinding.
type WSHTTPSecurityElement struct {
	Mode      channels.SecurityMode
	Transport HTTPTransportSecurityElement
	Message   NonDualMessageSecurityElement
}

// NonDualMessageSecurityElement is <security><message> of wsHttpBinding.
type NonDualMessageSecurityElement struct {
	ClientCredentialType       channels.MessageCredentialType
	NegotiateServiceCredential bool
	AlgorithmSuite             codec.AlgorithmSuite
	EstablishSecurityContext   bool
}

var nonDualMessageSecuritySchema = dsl.ElementOf[NonDualMessageSecurityElement]("message").
	Attr("clientCredentialType", messageCredentialTypes).Default(channels.MessageCredentialWindows).
	Attr("negotiateServiceCredential", dsl.Bool()).Default(true).
	Attr("algorithmSuite", algorithmSuites).Default("Default").
	Attr("establishSecurityContext", dsl.Bool()).Default(true).
	MustBuild()

var wsHTTPSecuritySchema = dsl.ElementOf[WSHTTPSecurityElement]("security").
	Attr("mode", securityModes).Default(channels.SecurityMessage).
	Child("transport", wsHTTPTransportSecurity).
	Child("message", nonDualMessageSecuritySchema).
	MustBuild()

var wsHTTPBindingSchema = httpBindingAttrs(standardBinding[WSHTTPBindingElement]()).
	Attr("messageEncoding", messageEncodings).Default(channels.EncodingText).
	Attr("transactionFlow", dsl.Bool()).Default(false).
	Child("reliableSession", standardReliableSessionSchema).
	Child("security", wsHTTPSecuritySchema).
	MustBuild()

// WSHTTPBindingSchema returns the <wsHttpBinding><binding> declaration.
func WSHTTPBindingSchema() *dsl.ElementSchema[WSHTTPBindingElement] { return wsHTTPBindingSchema }

func (WSHTTPBindingElement) NewBinding() *channels.WSHTTPBinding { return channels.NewWSHTTPBinding() }

// ApplyConfiguration copies the configured values onto b.
func (e WSHTTPBindingElement) ApplyConfiguration(b *channels.WSHTTPBinding) error {
	e.applyTimeouts(b)
	if err := e.HTTPBindingSettings.apply(&b.HTTPSettings, e.Info); err != nil {
		return err
	}
	b.MessageEncoding = e.MessageEncoding
	b.TransactionFlow = e.TransactionFlow
	e.ReliableSession.apply(&b.ReliableSession)
	b.Security.Mode = e.Security.Mode
	e.Security.Transport.apply(&b.Security.Transport)
	b.Security.Message = channels.NonDualMessageSecurity(e.Security.Message)
	return nil
}

// InitializeFrom sets the element from the values of b.
func (e *WSHTTPBindingElement) InitializeFrom(b *channels.WSHTTPBinding) {
	e.initializeTimeouts(b)
	e.HTTPBindingSettings.initializeFrom(b.HTTPSettings, &e.Info)
	e.MessageEncoding = b.MessageEncoding
	e.TransactionFlow = b.TransactionFlow
	e.ReliableSession.initializeFrom(b.ReliableSession)
	e.Security.Mode = b.Security.Mode
	e.Security.Transport.initializeFrom(b.Security.Transport)
	e.Security.Message = NonDualMessageSecurityElement(b.Security.Message)
}

// ---- netTcpBinding ----

// NetTCPBindingElement is <netTcpBinding><binding>.
type NetTCPBindingElement struct {
	StandardBinding
	HostNameComparisonMode channels.HostNameComparisonMode
	ListenBacklog          int
	MaxBufferPoolSize      int64
	MaxBufferSize          int
	MaxConnections         int
	MaxReceivedMessageSize int64
	PortSharingEnabled     bool
	TransactionFlow        bool
	TransactionProtocol    codec.TransactionProtocol
	TransferMode           channels.TransferMode
	ReaderQuotas           ReaderQuotasElement
	ReliableSession        StandardReliableSessionElement
	Security               NetTCPSecurityElement
}

// NetTCPSecurityElement is <security> of netTcpBinding.
type NetTCPSecurityElement struct {
	Mode      channels.SecurityMode
	Transport TCPTransportSecurityElement
	Message   MessageSecurityOverTCPElement
}

// TCPTransportSecurityElement is <security><transport> of netTcpBinding.
type TCPTransportSecurityElement struct {
	ClientCredentialType channels.TCPClientCredentialType
	ProtectionLevel      channels.ProtectionLevel
	SSLProtocols         channels.SSLProtocols
}

// MessageSecurityOverTCPElement is <security><message> of netTcpBinding.
type MessageSecurityOverTCPElement struct {
	ClientCredentialType channels.MessageCredentialType
	AlgorithmSuite       codec.AlgorithmSuite
}

var tcpTransportSecuritySchema = dsl.ElementOf[TCPTransportSecurityElement]("transport").
	Attr("clientCredentialType", dsl.Enum(channels.TCPCredentialNone, channels.TCPCredentialWindows, channels.TCPCredentialCertificate)).
	Default(channels.TCPCredentialWindows).
	Attr("protectionLevel", protectionLevels).Default(channels.ProtectionEncryptAndSign).
	Attr("sslProtocols", dsl.Codec(channels.SSLProtocolsCodec())).Default(channels.SSLDefault).
	MustBuild()

var messageSecurityOverTCPSchema = dsl.ElementOf[MessageSecurityOverTCPElement]("message").
	Attr("clientCredentialType", messageCredentialTypes).Default(channels.MessageCredentialWindows).
	Attr("algorithmSuite", algorithmSuites).Default("Default").
	MustBuild()

var netTCPSecuritySchema = dsl.ElementOf[NetTCPSecurityElement]("security").
	Attr("mode", securityModes).Default(channels.SecurityTransport).
	Child("transport", tcpTransportSecuritySchema).
	Child("message", messageSecurityOverTCPSchema).
	MustBuild()

var netTCPBindingSchema = standardBinding[NetTCPBindingElement]().
	Attr("hostNameComparisonMode", hostNameComparisonModes).Default(channels.StrongWildcard).
	Attr("listenBacklog", dsl.Int().Min(0)).Default(0).
	Attr("maxBufferPoolSize", dsl.Int64().Min(0)).Default(524288).
	Attr("maxBufferSize", dsl.Int().Min(1)).Default(65536).
	Attr("maxConnections", dsl.Int().Min(0)).Default(0).
	Attr("maxReceivedMessageSize", dsl.Int64().Min(1)).Default(65536).
	Attr("portSharingEnabled", dsl.Bool()).Default(false).
	Attr("transactionFlow", dsl.Bool()).Default(false).
	Attr("transactionProtocol", dsl.Codec(codec.TransactionProtocolCodec())).Default(codec.OleTransactions).
	Attr("transferMode", transferModes).Default(channels.Buffered).
	Child("readerQuotas", readerQuotasSchema).
	Child("reliableSession", standardReliableSessionSchema).
	Child("security", netTCPSecuritySchema).
	MustBuild()

// NetTCPBindingSchema returns the <netTcpBinding><binding> declaration.
func NetTCPBindingSchema() *dsl.ElementSchema[NetTCPBindingElement] { return netTCPBindingSchema }

func (NetTCPBindingElement) NewBinding() *channels.NetTCPBinding { return channels.NewNetTCPBinding() }

// ApplyConfiguration copies the configured values onto b.
func (e NetTCPBindingElement) ApplyConfiguration(b *channels.NetTCPBinding) error {
	e.applyTimeouts(b)
	b.HostNameComparisonMode = e.HostNameComparisonMode
	b.ListenBacklog = e.ListenBacklog
	b.MaxBufferPoolSize = e.MaxBufferPoolSize
	b.MaxBufferSize = maxBufferSize(e.Info, e.MaxBufferSize, e.TransferMode, e.MaxReceivedMessageSize)
	b.MaxConnections = e.MaxConnections
	b.MaxReceivedMessageSize = e.MaxReceivedMessageSize
	b.PortSharingEnabled = e.PortSharingEnabled
	b.TransactionFlow = e.TransactionFlow
	b.TransactionProtocol = e.TransactionProtocol
	b.TransferMode = e.TransferMode
	e.ReaderQuotas.ApplyConfiguration(&b.ReaderQuotas)
	e.ReliableSession.apply(&b.ReliableSession)
	b.Security.Mode = e.Security.Mode
	b.Security.Transport = channels.TCPTransportSecurity(e.Security.Transport)
	b.Security.Message = channels.MessageSecurityOverTCP(e.Security.Message)
	return nil
}

// InitializeFrom sets the element from the values of b.
func (e *NetTCPBindingElement) InitializeFrom(b *channels.NetTCPBinding) {
	e.initializeTimeouts(b)
	e.HostNameComparisonMode = b.HostNameComparisonMode
	e.ListenBacklog = b.ListenBacklog
	e.MaxBufferPoolSize = b.MaxBufferPoolSize
	e.MaxBufferSize = b.MaxBufferSize
	markMaxBufferSize(&e.Info, b.MaxBufferSize, b.TransferMode, b.MaxReceivedMessageSize)
	e.MaxConnections = b.MaxConnections
	e.MaxReceivedMessageSize = b.MaxReceivedMessageSize
	e.PortSharingEnabled = b.PortSharingEnabled
	e.TransactionFlow = b.TransactionFlow
	e.TransactionProtocol = b.TransactionProtocol
	e.TransferMode = b.TransferMode
	e.ReaderQuotas.InitializeFrom(b.ReaderQuotas)
	e.ReliableSession.initializeFrom(b.ReliableSession)
	e.Security.Mode = b.Security.Mode
	e.Security.Transport = TCPTransportSecurityElement(b.Security.Transport)
	e.Security.Message = MessageSecurityOverTCPElement(b.Security.Message)
}

// ---- netNamedPipeBinding ----

// NetNamedPipeBindingElement is <netNamedPipeBinding><binding>.
type NetNamedPipeBindingElement struct {
	StandardBinding
	HostNameComparisonMode channels.HostNameComparisonMode
	MaxBufferPoolSize      int64
	MaxBufferSize          int
	MaxConnections         int
	MaxReceivedMessageSize int64
	TransactionFlow        bool
	TransactionProtocol    codec.TransactionProtocol
	TransferMode           channels.TransferMode
	ReaderQuotas           ReaderQuotasElement
	Security               NetNamedPipeSecurityElement
}

// NetNamedPipeSecurityElement is <security> of netNamedPipeBinding.
type NetNamedPipeSecurityElement struct {
	Mode      channels.NetNamedPipeSecurityMode
	Transport NamedPipeTransportSecurityElement
}

// NamedPipeTransportSecurityElement is <security><transport> of netNamedPipeBinding.
type NamedPipeTransportSecurityElement struct {
	ProtectionLevel channels.ProtectionLevel
}

var namedPipeTransportSecuritySchema = dsl.ElementOf[NamedPipeTransportSecurityElement]("transport").
	Attr("protectionLevel", protectionLevels).Default(channels.ProtectionEncryptAndSign).
	MustBuild()

var netNamedPipeSecuritySchema = dsl.ElementOf[NetNamedPipeSecurityElement]("security").
	Attr("mode", dsl.Enum(channels.NamedPipeSecurityNone, channels.NamedPipeSecurityTransport)).
	Default(channels.NamedPipeSecurityTransport).
	Child("transport", namedPipeTransportSecuritySchema).
	MustBuild()

var netNamedPipeBindingSchema = standardBinding[NetNamedPipeBindingElement]().
	Attr("hostNameComparisonMode", hostNameComparisonModes).Default(channels.StrongWildcard).
	Attr("maxBufferPoolSize", dsl.Int64().Min(0)).Default(524288).
	Attr("maxBufferSize", dsl.Int().Min(1)).Default(65536).
	Attr("maxConnections", dsl.Int().Min(0)).Default(0).
	Attr("maxReceivedMessageSize", dsl.Int64().Min(1)).Default(65536).
	Attr("transactionFlow", dsl.Bool()).Default(false).
	Attr("transactionProtocol", dsl.Codec(codec.TransactionProtocolCodec())).Default(codec.OleTransactions).
	Attr("transferMode", transferModes).Default(channels.Buffered).
	Child("readerQuotas", readerQuotasSchema).
	Child("security", netNamedPipeSecuritySchema).
	MustBuild()

// NetNamedPipeBindingSchema returns the <netNamedPipeBinding><binding> declaration.
func NetNamedPipeBindingSchema() *dsl.ElementSchema[NetNamedPipeBindingElement] {
	return netNamedPipeBindingSchema
}

func (NetNamedPipeBindingElement) NewBinding() *channels.NetNamedPipeBinding {
	return channels.NewNetNamedPipeBinding()
}

// ApplyConfiguration copies the configured values onto b.
func (e NetNamedPipeBindingElement) ApplyConfiguration(b *channels.NetNamedPipeBinding) error {
	e.applyTimeouts(b)
	b.HostNameComparisonMode = e.HostNameComparisonMode
	b.MaxBufferPoolSize = e.MaxBufferPoolSize
	b.MaxBufferSize = maxBufferSize(e.Info, e.MaxBufferSize, e.TransferMode, e.MaxReceivedMessageSize)
	b.MaxConnections = e.MaxConnections
	b.MaxReceivedMessageSize = e.MaxReceivedMessageSize
	b.TransactionFlow = e.TransactionFlow
	b.TransactionProtocol = e.TransactionProtocol
	b.TransferMode = e.TransferMode
	e.ReaderQuotas.ApplyConfiguration(&b.ReaderQuotas)
	b.Security.Mode = e.Security.Mode
	b.Security.Transport.ProtectionLevel = e.Security.Transport.ProtectionLevel
	return nil
}

// InitializeFrom sets the element from the values of b.
func (e *NetNamedPipeBindingElement) InitializeFrom(b *channels.NetNamedPipeBinding) {
	e.initializeTimeouts(b)
	e.HostNameComparisonMode = b.HostNameComparisonMode
	e.MaxBufferPoolSize = b.MaxBufferPoolSize
	e.MaxBufferSize = b.MaxBufferSize
	markMaxBufferSize(&e.Info, b.MaxBufferSize, b.TransferMode, b.MaxReceivedMessageSize)
	e.MaxConnections = b.MaxConnections
	e.MaxReceivedMessageSize = b.MaxReceivedMessageSize
	e.TransactionFlow = b.TransactionFlow
	e.TransactionProtocol = b.TransactionProtocol
	e.TransferMode = b.TransferMode
	e.ReaderQuotas.InitializeFrom(b.ReaderQuotas)
	e.Security.Mode = b.Security.Mode
	e.Security.Transport.ProtectionLevel = b.Security.Transport.ProtectionLevel
}

// ---- webHttpBinding ----

// WebHTTPBindingElement is <webHttpBinding><binding>.
type WebHTTPBindingElement struct {
	StandardBinding
	HTTPBindingSettings
	CrossDomainScriptAccessEnabled bool
	ContentTypeMapper              string
	Security                       WebHTTPSecurityElement
}

// WebHTTPSecurityElement is <security> of webHttpBinding.
type WebHTTPSecurityElement struct {
	Mode      channels.WebHTTPSecurityMode
	Transport HTTPTransportSecurityElement
}

var webHTTPSecuritySchema = dsl.ElementOf[WebHTTPSecurityElement]("security").
	Attr("mode", dsl.Enum(channels.WebHTTPSecurityNone, channels.WebHTTPSecurityTransport, channels.WebHTTPSecurityTransportCredentialOnly)).
	Default(channels.WebHTTPSecurityNone).
	Child("transport", httpTransportSecurity).
	MustBuild()

var webHTTPBindingSchema = httpBindingAttrs(standardBinding[WebHTTPBindingElement]()).
	Attr("crossDomainScriptAccessEnabled", dsl.Bool()).Default(false).
	Attr("contentTypeMapper", dsl.String()).Default("").
	Child("security", webHTTPSecuritySchema).
	MustBuild()

// WebHTTPBindingSchema returns the <webHttpBinding><binding> declaration.
func WebHTTPBindingSchema() *dsl.ElementSchema[WebHTTPBindingElement] { return webHTTPBindingSchema }

func (WebHTTPBindingElement) NewBinding() *channels.WebHTTPBinding { return channels.NewWebHTTPBinding() }

// ApplyConfiguration copies the configured values onto b.
func (e WebHTTPBindingElement) ApplyConfiguration(b *channels.WebHTTPBinding) error {
	e.applyTimeouts(b)
	if err := e.HTTPBindingSettings.apply(&b.HTTPSettings, e.Info); err != nil {
		return err
	}
	b.CrossDomainScriptAccessEnabled = e.CrossDomainScriptAccessEnabled
	b.ContentTypeMapper = e.ContentTypeMapper
	b.Security.Mode = e.Security.Mode
	e.Security.Transport.apply(&b.Security.Transport)
	return nil
}

// InitializeFrom sets the element from the values of b.
func (e *WebHTTPBindingElement) InitializeFrom(b *channels.WebHTTPBinding) {
	e.initializeTimeouts(b)
	e.HTTPBindingSettings.initializeFrom(b.HTTPSettings, &e.Info)
	e.CrossDomainScriptAccessEnabled = b.CrossDomainScriptAccessEnabled
	e.ContentTypeMapper = b.ContentTypeMapper
	e.Security.Mode = b.Security.Mode
	e.Security.Transport.initializeFrom(b.Security.Transport)
}
