package description

import (
	"fmt"
	"net/url"

	"github.com/reoring/svcconfig/codec"
	"github.com/reoring/svcconfig/servicemodel/channels"
)

// ImpersonationLevel is the impersonation level a client grants.
type ImpersonationLevel string

const (
	ImpersonationNone           ImpersonationLevel = "None"
	ImpersonationAnonymous      ImpersonationLevel = "Anonymous"
	ImpersonationIdentification ImpersonationLevel = "Identification"
	ImpersonationImpersonation  ImpersonationLevel = "Impersonation"
	ImpersonationDelegation     ImpersonationLevel = "Delegation"
)

// WindowsClientCredential are the Windows credential settings of a client.
type WindowsClientCredential struct {
	AllowNtlm                 bool
	AllowedImpersonationLevel ImpersonationLevel
}

// ServiceCertificateCredential is how a client finds and trusts the
// service certificate.
type ServiceCertificateCredential struct {
	Default        X509Certificate
	Authentication X509Authentication
}

// ClientCredentials configures the credentials a client presents.
type ClientCredentials struct {
	ClientCertificate        X509Certificate
	ServiceCertificate       ServiceCertificateCredential
	Windows                  WindowsClientCredential
	HTTPDigestImpersonation  ImpersonationLevel
	SupportInteractive       bool
	UseIdentityConfiguration bool
}

// NewClientCredentials returns client credentials with default settings.
func NewClientCredentials() *ClientCredentials {
	return &ClientCredentials{
		ClientCertificate: X509Certificate{StoreLocation: codec.CurrentUser, StoreName: codec.StoreMy, FindType: codec.FindBySubjectDistinguishedName},
		ServiceCertificate: ServiceCertificateCredential{
			Default: X509Certificate{StoreLocation: codec.CurrentUser, StoreName: codec.StoreMy, FindType: codec.FindBySubjectDistinguishedName},
			Authentication: X509Authentication{
				CertificateValidationMode: ValidationChainTrust,
				RevocationMode:            codec.RevocationOnline,
				TrustedStoreLocation:      codec.CurrentUser,
			},
		},
		Windows:                 WindowsClientCredential{AllowNtlm: true, AllowedImpersonationLevel: ImpersonationIdentification},
		HTTPDigestImpersonation: ImpersonationIdentification,
		SupportInteractive:      true,
	}
}

func (b *ClientCredentials) ValidateEndpoint(*ServiceEndpoint) error { return nil }

// ClientVia sends messages to an intermediary URI.
type ClientVia struct {
	URI *url.URL
}

// ValidateEndpoint requires a via URI whose scheme matches the binding.
func (b *ClientVia) ValidateEndpoint(ep *ServiceEndpoint) error {
	if b.URI == nil {
		return fmt.Errorf("clientVia: viaUri is required")
	}
	if ep.Binding != nil && b.URI.Scheme != ep.Binding.Scheme() {
		return fmt.Errorf("clientVia: scheme %q of %s does not match binding scheme %q", b.URI.Scheme, b.URI, ep.Binding.Scheme())
	}
	return nil
}

// CallbackDebug controls fault details on duplex callbacks.
type CallbackDebug struct {
	IncludeExceptionDetailInFaults bool
}

func (b *CallbackDebug) ValidateEndpoint(*ServiceEndpoint) error { return nil }

// SynchronousReceive makes the dispatcher receive synchronously.
type SynchronousReceive struct{}

func (b *SynchronousReceive) ValidateEndpoint(*ServiceEndpoint) error { return nil }

// DispatcherSynchronization controls pending receives and async sends.
type DispatcherSynchronization struct {
	AsynchronousSendEnabled bool
	MaxPendingReceives      int
}

// NewDispatcherSynchronization returns the default synchronization settings.
func NewDispatcherSynchronization() *DispatcherSynchronization {
	return &DispatcherSynchronization{MaxPendingReceives: 1}
}

func (b *DispatcherSynchronization) ValidateEndpoint(*ServiceEndpoint) error { return nil }

// WebMessageBodyStyle selects wrapping of web message bodies.
type WebMessageBodyStyle string

const (
	BodyBare            WebMessageBodyStyle = "Bare"
	BodyWrapped         WebMessageBodyStyle = "Wrapped"
	BodyWrappedRequest  WebMessageBodyStyle = "WrappedRequest"
	BodyWrappedResponse WebMessageBodyStyle = "WrappedResponse"
)

// WebMessageFormat selects XML or JSON web messages.
type WebMessageFormat string

const (
	FormatXML  WebMessageFormat = "Xml"
	FormatJSON WebMessageFormat = "Json"
)

// WebHTTP enables the web programming model on an endpoint.
type WebHTTP struct {
	AutomaticFormatSelectionEnabled bool
	DefaultBodyStyle                WebMessageBodyStyle
	DefaultOutgoingResponseFormat   WebMessageFormat
	FaultExceptionEnabled           bool
	HelpEnabled                     bool
}

// NewWebHTTP returns web settings with defaults.
func NewWebHTTP() *WebHTTP {
	return &WebHTTP{DefaultBodyStyle: BodyBare, DefaultOutgoingResponseFormat: FormatXML}
}

// ValidateEndpoint requires a binding whose encoder has no SOAP envelope.
func (b *WebHTTP) ValidateEndpoint(ep *ServiceEndpoint) error {
	if ep.Binding == nil {
		return nil
	}
	for _, e := range ep.Binding.CreateBindingElements() {
		if enc, ok := e.(channels.MessageEncodingBindingElement); ok && enc.Version() != codec.MessageVersionNone {
			return fmt.Errorf("webHttp: binding %q uses message version %s/%s; webHttp requires None", ep.Binding.Name(), enc.Version().Envelope, enc.Version().Addressing)
		}
	}
	return nil
}
