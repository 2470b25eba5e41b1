package configuration

import (
	"net/url"

	"github.com/reoring/svcconfig/codec"
	"github.com/reoring/svcconfig/dsl"
	"github.com/reoring/svcconfig/servicemodel/description"
)

var impersonationLevels = dsl.Enum(description.ImpersonationNone, description.ImpersonationAnonymous,
	description.ImpersonationIdentification, description.ImpersonationImpersonation, description.ImpersonationDelegation)

// ServiceCertificateCredentialElement is <clientCredentials><serviceCertificate>.
type ServiceCertificateCredentialElement struct {
	DefaultCertificate X509CertificateElement
	Authentication     X509AuthenticationElement
}

var serviceCertificateCredentialSchema = dsl.ElementOf[ServiceCertificateCredentialElement]("serviceCertificate").
	Child("defaultCertificate", x509CertificateSchema("defaultCertificate", codec.CurrentUser)).
	Child("authentication", x509AuthenticationSchema(codec.CurrentUser, false)).
	MustBuild()

// WindowsClientCredentialElement is <clientCredentials><windows>.
type WindowsClientCredentialElement struct {
	AllowNtlm                 bool
	AllowedImpersonationLevel description.ImpersonationLevel
}

var windowsClientCredentialSchema = dsl.ElementOf[WindowsClientCredentialElement]("windows").
	Attr("allowNtlm", dsl.Bool()).Default(true).
	Attr("allowedImpersonationLevel", impersonationLevels).Default(description.ImpersonationIdentification).
	MustBuild()

// HTTPDigestClientCredentialElement is <clientCredentials><httpDigest>.
type HTTPDigestClientCredentialElement struct {
	ImpersonationLevel description.ImpersonationLevel
}

var httpDigestClientCredentialSchema = dsl.ElementOf[HTTPDigestClientCredentialElement]("httpDigest").
	Attr("impersonationLevel", impersonationLevels).Default(description.ImpersonationIdentification).
	MustBuild()

// ClientCredentialsElement is <clientCredentials>.
type ClientCredentialsElement struct {
	ClientCertificate        X509CertificateElement
	ServiceCertificate       ServiceCertificateCredentialElement
	Windows                  WindowsClientCredentialElement
	HTTPDigest               HTTPDigestClientCredentialElement
	SupportInteractive       bool
	UseIdentityConfiguration bool
}

var clientCredentialsSchema = dsl.ElementOf[ClientCredentialsElement]("clientCredentials").
	Attr("supportInteractive", dsl.Bool()).Default(true).
	Attr("useIdentityConfiguration", dsl.Bool()).Default(false).
	Child("clientCertificate", x509CertificateSchema("clientCertificate", codec.CurrentUser)).
	Child("serviceCertificate", serviceCertificateCredentialSchema).
	Child("windows", windowsClientCredentialSchema).
	Child("httpDigest", httpDigestClientCredentialSchema).
	MustBuild()

// ClientCredentialsSchema returns the <clientCredentials> declaration.
func ClientCredentialsSchema() *dsl.ElementSchema[ClientCredentialsElement] {
	return clientCredentialsSchema
}

// CreateEndpointBehavior builds a *description.ClientCredentials.
func (e ClientCredentialsElement) CreateEndpointBehavior(BindingResolver) (description.EndpointBehavior, error) {
	return &description.ClientCredentials{
		ClientCertificate: e.ClientCertificate.certificate(),
		ServiceCertificate: description.ServiceCertificateCredential{
			Default:        e.ServiceCertificate.DefaultCertificate.certificate(),
			Authentication: e.ServiceCertificate.Authentication.authentication(),
		},
		Windows:                  description.WindowsClientCredential(e.Windows),
		HTTPDigestImpersonation:  e.HTTPDigest.ImpersonationLevel,
		SupportInteractive:       e.SupportInteractive,
		UseIdentityConfiguration: e.UseIdentityConfiguration,
	}, nil
}

func (e *ClientCredentialsElement) CopyFrom(from any) error { return copyFrom(e, from) }

// ClientViaElement is <clientVia>.
type ClientViaElement struct {
	ViaURI *url.URL `config:"viaUri"`
}

var clientViaSchema = dsl.ElementOf[ClientViaElement]("clientVia").
	Attr("viaUri", absoluteURI).Required().
	MustBuild()

// CreateEndpointBehavior builds a *description.ClientVia.
func (e ClientViaElement) CreateEndpointBehavior(BindingResolver) (description.EndpointBehavior, error) {
	return &description.ClientVia{URI: e.ViaURI}, nil
}

func (e *ClientViaElement) CopyFrom(from any) error { return copyFrom(e, from) }

// CallbackDebugElement is <callbackDebug>.
type CallbackDebugElement struct {
	IncludeExceptionDetailInFaults bool
}

var callbackDebugSchema = dsl.ElementOf[CallbackDebugElement]("callbackDebug").
	Attr("includeExceptionDetailInFaults", dsl.Bool()).Default(false).
	MustBuild()

// CreateEndpointBehavior builds a *description.CallbackDebug.
func (e CallbackDebugElement) CreateEndpointBehavior(BindingResolver) (description.EndpointBehavior, error) {
	return &description.CallbackDebug{IncludeExceptionDetailInFaults: e.IncludeExceptionDetailInFaults}, nil
}

func (e *CallbackDebugElement) CopyFrom(from any) error { return copyFrom(e, from) }

// SynchronousReceiveElement is <synchronousReceive/>.
type SynchronousReceiveElement struct{}

var synchronousReceiveSchema = dsl.ElementOf[SynchronousReceiveElement]("synchronousReceive").MustBuild()

// CreateEndpointBehavior builds a *description.SynchronousReceive.
func (SynchronousReceiveElement) CreateEndpointBehavior(BindingResolver) (description.EndpointBehavior, error) {
	return &description.SynchronousReceive{}, nil
}

func (e *SynchronousReceiveElement) CopyFrom(from any) error { return copyFrom(e, from) }

// DispatcherSynchronizationElement is <dispatcherSynchronization>.
type DispatcherSynchronizationElement struct {
	AsynchronousSendEnabled bool
	MaxPendingReceives      int
}

var dispatcherSynchronizationSchema = dsl.ElementOf[DispatcherSynchronizationElement]("dispatcherSynchronization").
	Attr("asynchronousSendEnabled", dsl.Bool()).Default(false).
	Attr("maxPendingReceives", dsl.Int().Min(1)).Default(1).
	MustBuild()

// CreateEndpointBehavior builds a *description.DispatcherSynchronization.
func (e DispatcherSynchronizationElement) CreateEndpointBehavior(BindingResolver) (description.EndpointBehavior, error) {
	b := description.DispatcherSynchronization(e)
	return &b, nil
}

func (e *DispatcherSynchronizationElement) CopyFrom(from any) error { return copyFrom(e, from) }

// WebHTTPElement is <webHttp>.
type WebHTTPElement struct {
	AutomaticFormatSelectionEnabled bool
	DefaultBodyStyle                description.WebMessageBodyStyle
	DefaultOutgoingResponseFormat   description.WebMessageFormat
	FaultExceptionEnabled           bool
	HelpEnabled                     bool
}

var webHTTPSchema = dsl.ElementOf[WebHTTPElement]("webHttp").
	Attr("automaticFormatSelectionEnabled", dsl.Bool()).Default(false).
	Attr("defaultBodyStyle", dsl.Enum(description.BodyBare, description.BodyWrapped,
		description.BodyWrappedRequest, description.BodyWrappedResponse)).
	Default(description.BodyBare).
	Attr("defaultOutgoingResponseFormat", dsl.Enum(description.FormatXML, description.FormatJSON)).
	Default(description.FormatXML).
	Attr("faultExceptionEnabled", dsl.Bool()).Default(false).
	Attr("helpEnabled", dsl.Bool()).Default(false).
	MustBuild()

// CreateEndpointBehavior builds a *description.WebHTTP.
func (e WebHTTPElement) CreateEndpointBehavior(BindingResolver) (description.EndpointBehavior, error) {
	b := description.WebHTTP(e)
	return &b, nil
}

func (e *WebHTTPElement) CopyFrom(from any) error { return copyFrom(e, from) }
