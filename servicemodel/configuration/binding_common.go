package configuration

import (
	"math"
	"net/url"
	"time"

	svcconfig "github.com/reoring/svcconfig"
	"github.com/reoring/svcconfig/codec"
	"github.com/reoring/svcconfig/dsl"
	"github.com/reoring/svcconfig/servicemodel/channels"
)

var (
	hostNameComparisonModes = dsl.Enum(channels.StrongWildcard, channels.Exact, channels.WeakWildcard)
	transferModes           = dsl.Enum(channels.Buffered, channels.Streamed, channels.StreamedRequest, channels.StreamedResponse)
	messageEncodings        = dsl.Enum(channels.EncodingText, channels.EncodingMtom)
	protectionLevels        = dsl.Enum(channels.ProtectionNone, channels.ProtectionSign, channels.ProtectionEncryptAndSign)
	httpCredentialTypes     = dsl.Enum(channels.HTTPCredentialNone, channels.HTTPCredentialBasic, channels.HTTPCredentialDigest,
		channels.HTTPCredentialNtlm, channels.HTTPCredentialWindows, channels.HTTPCredentialCertificate, channels.HTTPCredentialInheritedFromHost)
	proxyCredentialTypes = dsl.Enum(channels.ProxyCredentialNone, channels.ProxyCredentialBasic, channels.ProxyCredentialDigest,
		channels.ProxyCredentialNtlm, channels.ProxyCredentialWindows)
	messageCredentialTypes = dsl.Enum(channels.MessageCredentialNone, channels.MessageCredentialWindows, channels.MessageCredentialUserName,
		channels.MessageCredentialCertificate, channels.MessageCredentialIssuedToken)
	securityModes = dsl.Enum(channels.SecurityNone, channels.SecurityTransport, channels.SecurityMessage,
		channels.SecurityTransportWithMessageCredential)
	algorithmSuites = dsl.Codec(codec.SecurityAlgorithmSuite())
	absoluteURI     = dsl.Codec(codec.URI(codec.Absolute))
)

// timeout is a timespan attribute accepting 00:00:00 up to the largest
// finite timeout, or Infinite.
func timeout() dsl.AttrAdapter {
	return dsl.TimeSpan().MinDuration(0).MaxDuration(codec.MaxTimeout)
}

// positiveTimeout is timeout without zero.
func positiveTimeout() dsl.AttrAdapter {
	return dsl.TimeSpan().MinDuration(codec.Tick).MaxDuration(codec.MaxTimeout)
}

// StandardBinding holds the attributes every <binding> of a standard
// binding collection declares. Binding elements embed it.
type StandardBinding struct {
	Name           string
	CloseTimeout   time.Duration
	OpenTimeout    time.Duration
	ReceiveTimeout time.Duration
	SendTimeout    time.Duration

	Info svcconfig.ElementInfo
}

// BindingName returns the configured binding name ("" for the default binding).
func (s StandardBinding) BindingName() string { return s.Name }

func (s StandardBinding) applyTimeouts(b channels.Binding) {
	t := b.Timeouts()
	t.Close, t.Open, t.Receive, t.Send = s.CloseTimeout, s.OpenTimeout, s.ReceiveTimeout, s.SendTimeout
}

func (s *StandardBinding) initializeTimeouts(b channels.Binding) {
	t := b.Timeouts()
	s.CloseTimeout, s.OpenTimeout, s.ReceiveTimeout, s.SendTimeout = t.Close, t.Open, t.Receive, t.Send
}

// standardBinding starts a <binding> declaration with the common attributes.
func standardBinding[T any]() *dsl.ElementBuilder[T] {
	return dsl.ElementOf[T]("binding").
		Attr("name", dsl.String()).Key().
		Attr("closeTimeout", timeout()).Default("00:01:00").
		Attr("openTimeout", timeout()).Default("00:01:00").
		Attr("receiveTimeout", timeout()).Default("00:10:00").
		Attr("sendTimeout", timeout()).Default("00:01:00").
		ElementBuilder
}

// ReaderQuotasElement is <readerQuotas>. Zero means not configured; only
// non-zero quotas are applied.
type ReaderQuotasElement struct {
	MaxDepth               int
	MaxStringContentLength int
	MaxArrayLength         int
	MaxBytesPerRead        int
	MaxNameTableCharCount  int
}

var readerQuotasSchema = dsl.ElementOf[ReaderQuotasElement]("readerQuotas").
	Attr("maxDepth", dsl.Int().Min(0)).Default(0).
	Attr("maxStringContentLength", dsl.Int().Min(0)).Default(0).
	Attr("maxArrayLength", dsl.Int().Min(0)).Default(0).
	Attr("maxBytesPerRead", dsl.Int().Min(0)).Default(0).
	Attr("maxNameTableCharCount", dsl.Int().Min(0)).Default(0).
	MustBuild()

// ReaderQuotasSchema returns the <readerQuotas> declaration.
func ReaderQuotasSchema() *dsl.ElementSchema[ReaderQuotasElement] { return readerQuotasSchema }

// ApplyConfiguration copies the configured quotas onto q.
func (e ReaderQuotasElement) ApplyConfiguration(q *channels.ReaderQuotas) {
	setNonZero(&q.MaxDepth, e.MaxDepth)
	setNonZero(&q.MaxStringContentLength, e.MaxStringContentLength)
	setNonZero(&q.MaxArrayLength, e.MaxArrayLength)
	setNonZero(&q.MaxBytesPerRead, e.MaxBytesPerRead)
	setNonZero(&q.MaxNameTableCharCount, e.MaxNameTableCharCount)
}

// InitializeFrom records the quotas of q that differ from the encoder defaults.
func (e *ReaderQuotasElement) InitializeFrom(q channels.ReaderQuotas) {
	d := channels.DefaultReaderQuotas()
	*e = ReaderQuotasElement{}
	setChanged(&e.MaxDepth, q.MaxDepth, d.MaxDepth)
	setChanged(&e.MaxStringContentLength, q.MaxStringContentLength, d.MaxStringContentLength)
	setChanged(&e.MaxArrayLength, q.MaxArrayLength, d.MaxArrayLength)
	setChanged(&e.MaxBytesPerRead, q.MaxBytesPerRead, d.MaxBytesPerRead)
	setChanged(&e.MaxNameTableCharCount, q.MaxNameTableCharCount, d.MaxNameTableCharCount)
}

func setNonZero(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setChanged(dst *int, v, def int) {
	if v != def {
		*dst = v
	}
}

// HTTPBindingSettings are the attributes the HTTP standard bindings share.
type HTTPBindingSettings struct {
	AllowCookies           bool
	BypassProxyOnLocal     bool
	HostNameComparisonMode channels.HostNameComparisonMode
	MaxBufferPoolSize      int64
	MaxBufferSize          int
	MaxReceivedMessageSize int64
	ProxyAddress           *url.URL
	ReaderQuotas           ReaderQuotasElement
	TextEncoding           codec.TextEncoding
	TransferMode           channels.TransferMode
	UseDefaultWebProxy     bool
}

func httpBindingAttrs[T any](b *dsl.ElementBuilder[T]) *dsl.ElementBuilder[T] {
	return b.
		Attr("allowCookies", dsl.Bool()).Default(false).
		Attr("bypassProxyOnLocal", dsl.Bool()).Default(false).
		Attr("hostNameComparisonMode", hostNameComparisonModes).Default(channels.StrongWildcard).
		Attr("maxBufferPoolSize", dsl.Int64().Min(0)).Default(524288).
		Attr("maxBufferSize", dsl.Int().Min(1)).Default(65536).
		Attr("maxReceivedMessageSize", dsl.Int64().Min(1)).Default(65536).
		Attr("proxyAddress", absoluteURI).
		Attr("textEncoding", dsl.Codec(codec.Encoding())).Default("utf-8").
		Attr("transferMode", transferModes).Default(channels.Buffered).
		Attr("useDefaultWebProxy", dsl.Bool()).Default(true).
		Child("readerQuotas", readerQuotasSchema)
}

// apply copies the settings onto h.
func (s HTTPBindingSettings) apply(h *channels.HTTPSettings, info svcconfig.ElementInfo) error {
	if s.ProxyAddress != nil && s.UseDefaultWebProxy {
		return invalidf("proxyAddress %s requires useDefaultWebProxy=false", s.ProxyAddress)
	}
	h.AllowCookies = s.AllowCookies
	h.BypassProxyOnLocal = s.BypassProxyOnLocal
	h.HostNameComparisonMode = s.HostNameComparisonMode
	h.MaxBufferPoolSize = s.MaxBufferPoolSize
	h.MaxReceivedMessageSize = s.MaxReceivedMessageSize
	h.MaxBufferSize = maxBufferSize(info, s.MaxBufferSize, s.TransferMode, s.MaxReceivedMessageSize)
	h.ProxyAddress = s.ProxyAddress
	s.ReaderQuotas.ApplyConfiguration(&h.ReaderQuotas)
	h.TextEncoding = s.TextEncoding
	h.TransferMode = s.TransferMode
	h.UseDefaultWebProxy = s.UseDefaultWebProxy
	return nil
}

func (s *HTTPBindingSettings) initializeFrom(h channels.HTTPSettings, info *svcconfig.ElementInfo) {
	s.AllowCookies = h.AllowCookies
	s.BypassProxyOnLocal = h.BypassProxyOnLocal
	s.HostNameComparisonMode = h.HostNameComparisonMode
	s.MaxBufferPoolSize = h.MaxBufferPoolSize
	s.MaxBufferSize = h.MaxBufferSize
	s.MaxReceivedMessageSize = h.MaxReceivedMessageSize
	markMaxBufferSize(info, h.MaxBufferSize, h.TransferMode, h.MaxReceivedMessageSize)
	s.ProxyAddress = h.ProxyAddress
	s.ReaderQuotas.InitializeFrom(h.ReaderQuotas)
	s.TextEncoding = h.TextEncoding
	s.TransferMode = h.TransferMode
	s.UseDefaultWebProxy = h.UseDefaultWebProxy
}

// maxBufferSize returns size when it was configured and otherwise, for
// buffered transfers, maxReceived capped to 32 bits.
func maxBufferSize(info svcconfig.ElementInfo, size int, mode channels.TransferMode, maxReceived int64) int {
	if !info.IsSet("maxBufferSize") && mode == channels.Buffered {
		return bufferFor(maxReceived)
	}
	return size
}

func markMaxBufferSize(info *svcconfig.ElementInfo, size int, mode channels.TransferMode, maxReceived int64) {
	if mode != channels.Buffered || size != bufferFor(maxReceived) {
		info.MarkSet("maxBufferSize")
	}
}

func bufferFor(maxReceived int64) int {
	if maxReceived > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(maxReceived)
}

// HTTPTransportSecurityElement is <security><transport> of the HTTP bindings.
type HTTPTransportSecurityElement struct {
	ClientCredentialType channels.HTTPClientCredentialType
	ProxyCredentialType  channels.HTTPProxyCredentialType
	Realm                string
}

func httpTransportSecuritySchema(cred channels.HTTPClientCredentialType) *dsl.ElementSchema[HTTPTransportSecurityElement] {
	return dsl.ElementOf[HTTPTransportSecurityElement]("transport").
		Attr("clientCredentialType", httpCredentialTypes).Default(cred).
		Attr("proxyCredentialType", proxyCredentialTypes).Default(channels.ProxyCredentialNone).
		Attr("realm", dsl.String()).Default("").
		MustBuild()
}

var (
	httpTransportSecurity   = httpTransportSecuritySchema(channels.HTTPCredentialNone)
	wsHTTPTransportSecurity = httpTransportSecuritySchema(channels.HTTPCredentialWindows)
)

func (e HTTPTransportSecurityElement) apply(t *channels.HTTPTransportSecurity) {
	t.ClientCredentialType, t.ProxyCredentialType, t.Realm = e.ClientCredentialType, e.ProxyCredentialType, e.Realm
}

func (e *HTTPTransportSecurityElement) initializeFrom(t channels.HTTPTransportSecurity) {
	e.ClientCredentialType, e.ProxyCredentialType, e.Realm = t.ClientCredentialType, t.ProxyCredentialType, t.Realm
}

// StandardReliableSessionElement is <reliableSession> of the standard bindings.
type StandardReliableSessionElement struct {
	Enabled           bool
	Ordered           bool
	InactivityTimeout time.Duration
}

var standardReliableSessionSchema = dsl.ElementOf[StandardReliableSessionElement]("reliableSession").
	Attr("ordered", dsl.Bool()).Default(true).
	Attr("inactivityTimeout", positiveTimeout()).Default("00:10:00").
	Attr("enabled", dsl.Bool()).Default(false).
	MustBuild()

func (e StandardReliableSessionElement) apply(r *channels.OptionalReliableSession) {
	r.Enabled, r.Ordered, r.InactivityTimeout = e.Enabled, e.Ordered, e.InactivityTimeout
}

func (e *StandardReliableSessionElement) initializeFrom(r channels.OptionalReliableSession) {
	e.Enabled, e.Ordered, e.InactivityTimeout = r.Enabled, r.Ordered, r.InactivityTimeout
}
