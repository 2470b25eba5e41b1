package configuration

import (
	"fmt"
	"net/url"
	"time"

	"github.com/reoring/svcconfig/codec"
	"github.com/reoring/svcconfig/dsl"
	"github.com/reoring/svcconfig/servicemodel/channels"
	"github.com/reoring/svcconfig/servicemodel/description"
)

var relativeOrAbsoluteURI = dsl.Codec(codec.URI(codec.RelativeOrAbsolute))

// lookupOptional resolves a binding reference of a behavior; an empty
// section means no binding.
func lookupOptional(r BindingResolver, section, name string) (channels.Binding, error) {
	if section == "" {
		return nil, nil
	}
	if r == nil {
		return nil, fmt.Errorf("%w: binding %s/%s referenced without a resolver", ErrNotFound, section, name)
	}
	return r.LookupBinding(section, name)
}

// ServiceMetadataElement is <serviceMetadata>.
type ServiceMetadataElement struct {
	ExternalMetadataLocation     *url.URL
	HTTPGetEnabled               bool
	HTTPGetURL                   *url.URL `config:"httpGetUrl"`
	HTTPGetBinding               string
	HTTPGetBindingConfiguration  string
	HTTPSGetEnabled              bool
	HTTPSGetURL                  *url.URL `config:"httpsGetUrl"`
	HTTPSGetBinding              string
	HTTPSGetBindingConfiguration string
	PolicyVersion                codec.PolicyVersion
}

var serviceMetadataSchema = dsl.ElementOf[ServiceMetadataElement]("serviceMetadata").
	Attr("externalMetadataLocation", relativeOrAbsoluteURI).
	Attr("httpGetEnabled", dsl.Bool()).Default(false).
	Attr("httpGetUrl", relativeOrAbsoluteURI).
	Attr("httpGetBinding", dsl.String()).Default("").
	Attr("httpGetBindingConfiguration", dsl.String()).Default("").
	Attr("httpsGetEnabled", dsl.Bool()).Default(false).
	Attr("httpsGetUrl", relativeOrAbsoluteURI).
	Attr("httpsGetBinding", dsl.String()).Default("").
	Attr("httpsGetBindingConfiguration", dsl.String()).Default("").
	Attr("policyVersion", dsl.Codec(codec.PolicyVersionCodec())).Default(codec.PolicyVersionDefault).
	MustBuild()

// ServiceMetadataSchema returns the <serviceMetadata> declaration.
func ServiceMetadataSchema() *dsl.ElementSchema[ServiceMetadataElement] { return serviceMetadataSchema }

// CreateServiceBehavior builds a *description.ServiceMetadata, resolving the
// GET bindings through r.
func (e ServiceMetadataElement) CreateServiceBehavior(r BindingResolver) (description.ServiceBehavior, error) {
	b := description.NewServiceMetadata()
	b.ExternalMetadataLocation = e.ExternalMetadataLocation
	b.HTTPGetEnabled = e.HTTPGetEnabled
	b.HTTPGetURL = e.HTTPGetURL
	b.HTTPSGetEnabled = e.HTTPSGetEnabled
	b.HTTPSGetURL = e.HTTPSGetURL
	b.PolicyVersion = e.PolicyVersion
	var err error
	if b.HTTPGetBinding, err = lookupOptional(r, e.HTTPGetBinding, e.HTTPGetBindingConfiguration); err != nil {
		return nil, fmt.Errorf("serviceMetadata httpGetBinding: %w", err)
	}
	if b.HTTPSGetBinding, err = lookupOptional(r, e.HTTPSGetBinding, e.HTTPSGetBindingConfiguration); err != nil {
		return nil, fmt.Errorf("serviceMetadata httpsGetBinding: %w", err)
	}
	return b, nil
}

func (e *ServiceMetadataElement) CopyFrom(from any) error { return copyFrom(e, from) }

// ServiceDebugElement is <serviceDebug>.
type ServiceDebugElement struct {
	HTTPHelpPageEnabled               bool
	HTTPHelpPageURL                   *url.URL `config:"httpHelpPageUrl"`
	HTTPHelpPageBinding               string
	HTTPHelpPageBindingConfiguration  string
	HTTPSHelpPageEnabled              bool
	HTTPSHelpPageURL                  *url.URL `config:"httpsHelpPageUrl"`
	HTTPSHelpPageBinding              string
	HTTPSHelpPageBindingConfiguration string
	IncludeExceptionDetailInFaults    bool
}

var serviceDebugSchema = dsl.ElementOf[ServiceDebugElement]("serviceDebug").
	Attr("httpHelpPageEnabled", dsl.Bool()).Default(true).
	Attr("httpHelpPageUrl", relativeOrAbsoluteURI).
	Attr("httpHelpPageBinding", dsl.String()).Default("").
	Attr("httpHelpPageBindingConfiguration", dsl.String()).Default("").
	Attr("httpsHelpPageEnabled", dsl.Bool()).Default(true).
	Attr("httpsHelpPageUrl", relativeOrAbsoluteURI).
	Attr("httpsHelpPageBinding", dsl.String()).Default("").
	Attr("httpsHelpPageBindingConfiguration", dsl.String()).Default("").
	Attr("includeExceptionDetailInFaults", dsl.Bool()).Default(false).
	MustBuild()

// CreateServiceBehavior builds a *description.ServiceDebug.
func (e ServiceDebugElement) CreateServiceBehavior(r BindingResolver) (description.ServiceBehavior, error) {
	b := description.NewServiceDebug()
	b.HTTPHelpPageEnabled = e.HTTPHelpPageEnabled
	b.HTTPHelpPageURL = e.HTTPHelpPageURL
	b.HTTPSHelpPageEnabled = e.HTTPSHelpPageEnabled
	b.HTTPSHelpPageURL = e.HTTPSHelpPageURL
	b.IncludeExceptionDetailInFaults = e.IncludeExceptionDetailInFaults
	var err error
	if b.HTTPHelpPageBinding, err = lookupOptional(r, e.HTTPHelpPageBinding, e.HTTPHelpPageBindingConfiguration); err != nil {
		return nil, fmt.Errorf("serviceDebug httpHelpPageBinding: %w", err)
	}
	if b.HTTPSHelpPageBinding, err = lookupOptional(r, e.HTTPSHelpPageBinding, e.HTTPSHelpPageBindingConfiguration); err != nil {
		return nil, fmt.Errorf("serviceDebug httpsHelpPageBinding: %w", err)
	}
	return b, nil
}

func (e *ServiceDebugElement) CopyFrom(from any) error { return copyFrom(e, from) }

// ServiceThrottlingElement is <serviceThrottling>.
type ServiceThrottlingElement struct {
	MaxConcurrentCalls     int
	MaxConcurrentSessions  int
	MaxConcurrentInstances int
}

var serviceThrottlingSchema = dsl.ElementOf[ServiceThrottlingElement]("serviceThrottling").
	Attr("maxConcurrentCalls", dsl.Int().Min(1)).Default(16).
	Attr("maxConcurrentSessions", dsl.Int().Min(1)).Default(100).
	Attr("maxConcurrentInstances", dsl.Int().Min(1)).Default(116).
	MustBuild()

// CreateServiceBehavior builds a *description.ServiceThrottling.
func (e ServiceThrottlingElement) CreateServiceBehavior(BindingResolver) (description.ServiceBehavior, error) {
	b := description.ServiceThrottling(e)
	return &b, nil
}

func (e *ServiceThrottlingElement) CopyFrom(from any) error { return copyFrom(e, from) }

// ServiceTimeoutsElement is <serviceTimeouts>.
type ServiceTimeoutsElement struct {
	TransactionTimeout time.Duration
}

var serviceTimeoutsSchema = dsl.ElementOf[ServiceTimeoutsElement]("serviceTimeouts").
	Attr("transactionTimeout", timeout()).Default("00:00:00").
	MustBuild()

// CreateServiceBehavior builds a *description.ServiceTimeouts.
func (e ServiceTimeoutsElement) CreateServiceBehavior(BindingResolver) (description.ServiceBehavior, error) {
	return &description.ServiceTimeouts{TransactionTimeout: e.TransactionTimeout}, nil
}

func (e *ServiceTimeoutsElement) CopyFrom(from any) error { return copyFrom(e, from) }

// ---- credentials ----

// X509CertificateElement locates a certificate: <serviceCertificate>,
// <clientCertificate> and friends.
type X509CertificateElement struct {
	StoreLocation codec.StoreLocation
	StoreName     codec.StoreName
	FindType      codec.FindType `config:"x509FindType"`
	FindValue     string
}

func x509CertificateSchema(name string, loc codec.StoreLocation) *dsl.ElementSchema[X509CertificateElement] {
	return dsl.ElementOf[X509CertificateElement](name).
		Attr("storeLocation", dsl.Codec(codec.StoreLocationCodec())).Default(loc).
		Attr("storeName", dsl.Codec(codec.StoreNameCodec())).Default(codec.StoreMy).
		Attr("x509FindType", dsl.Codec(codec.FindTypeCodec())).Default(codec.FindBySubjectDistinguishedName).
		Attr("findValue", dsl.String()).Default("").
		MustBuild()
}

func (e X509CertificateElement) certificate() description.X509Certificate {
	return description.X509Certificate(e)
}

var certificateValidationModes = dsl.Enum(description.ValidationNone, description.ValidationPeerTrust,
	description.ValidationChainTrust, description.ValidationPeerOrChainTrust, description.ValidationCustom)

// X509AuthenticationElement is the <authentication> child of the
// certificate credential elements.
type X509AuthenticationElement struct {
	CertificateValidationMode            description.CertificateValidationMode
	CustomCertificateValidatorType       string
	RevocationMode                       codec.RevocationMode
	TrustedStoreLocation                 codec.StoreLocation
	IncludeWindowsGroups                 bool
	MapClientCertificateToWindowsAccount bool
}

// x509AuthenticationSchema declares <authentication>. The Windows account
// mapping attributes exist only on the service side.
func x509AuthenticationSchema(loc codec.StoreLocation, service bool) *dsl.ElementSchema[X509AuthenticationElement] {
	b := dsl.ElementOf[X509AuthenticationElement]("authentication").
		Attr("certificateValidationMode", certificateValidationModes).Default(description.ValidationChainTrust).
		Attr("customCertificateValidatorType", dsl.String()).Default("").
		Attr("revocationMode", dsl.Codec(codec.RevocationModeCodec())).Default(codec.RevocationOnline).
		Attr("trustedStoreLocation", dsl.Codec(codec.StoreLocationCodec())).Default(loc).
		ElementBuilder
	if service {
		b = b.
			Attr("includeWindowsGroups", dsl.Bool()).Default(true).
			Attr("mapClientCertificateToWindowsAccount", dsl.Bool()).Default(false).
			ElementBuilder
	}
	return b.MustBuild()
}

func (e X509AuthenticationElement) authentication() description.X509Authentication {
	return description.X509Authentication(e)
}

// ClientCertificateCredentialElement is <serviceCredentials><clientCertificate>.
type ClientCertificateCredentialElement struct {
	Certificate    X509CertificateElement
	Authentication X509AuthenticationElement
}

var clientCertificateCredentialSchema = dsl.ElementOf[ClientCertificateCredentialElement]("clientCertificate").
	Child("certificate", x509CertificateSchema("certificate", codec.LocalMachine)).
	Child("authentication", x509AuthenticationSchema(codec.LocalMachine, true)).
	MustBuild()

var passwordValidationModes = dsl.Enum(description.PasswordWindows, description.PasswordMembershipProvider, description.PasswordCustom)

// UserNameAuthenticationElement is <userNameAuthentication>.
type UserNameAuthenticationElement struct {
	UserNamePasswordValidationMode      description.UserNamePasswordValidationMode
	IncludeWindowsGroups                bool
	MembershipProviderName              string
	CustomUserNamePasswordValidatorType string
	CacheLogonTokens                    bool
	MaxCachedLogonTokens                int
	CachedLogonTokenLifetime            time.Duration
}

var userNameAuthenticationSchema = dsl.ElementOf[UserNameAuthenticationElement]("userNameAuthentication").
	Attr("userNamePasswordValidationMode", passwordValidationModes).Default(description.PasswordWindows).
	Attr("includeWindowsGroups", dsl.Bool()).Default(true).
	Attr("membershipProviderName", dsl.String()).Default("").
	Attr("customUserNamePasswordValidatorType", dsl.String()).Default("").
	Attr("cacheLogonTokens", dsl.Bool()).Default(false).
	Attr("maxCachedLogonTokens", dsl.Int().Min(1)).Default(128).
	Attr("cachedLogonTokenLifetime", positiveTimeout()).Default("00:15:00").
	MustBuild()

// WindowsServiceCredentialElement is <serviceCredentials><windowsAuthentication>.
type WindowsServiceCredentialElement struct {
	IncludeWindowsGroups bool
	AllowAnonymousLogons bool
}

var windowsServiceCredentialSchema = dsl.ElementOf[WindowsServiceCredentialElement]("windowsAuthentication").
	Attr("includeWindowsGroups", dsl.Bool()).Default(true).
	Attr("allowAnonymousLogons", dsl.Bool()).Default(false).
	MustBuild()

// ServiceCredentialsElement is <serviceCredentials>.
type ServiceCredentialsElement struct {
	ServiceCertificate       X509CertificateElement
	ClientCertificate        ClientCertificateCredentialElement
	UserNameAuthentication   UserNameAuthenticationElement
	WindowsAuthentication    WindowsServiceCredentialElement
	UseIdentityConfiguration bool
	IdentityConfiguration    string
}

var serviceCredentialsSchema = dsl.ElementOf[ServiceCredentialsElement]("serviceCredentials").
	Attr("useIdentityConfiguration", dsl.Bool()).Default(false).
	Attr("identityConfiguration", dsl.String()).Default("").
	Child("serviceCertificate", x509CertificateSchema("serviceCertificate", codec.LocalMachine)).
	Child("clientCertificate", clientCertificateCredentialSchema).
	Child("userNameAuthentication", userNameAuthenticationSchema).
	Child("windowsAuthentication", windowsServiceCredentialSchema).
	MustBuild()

// ServiceCredentialsSchema returns the <serviceCredentials> declaration.
func ServiceCredentialsSchema() *dsl.ElementSchema[ServiceCredentialsElement] {
	return serviceCredentialsSchema
}

// CreateServiceBehavior builds a *description.ServiceCredentials.
func (e ServiceCredentialsElement) CreateServiceBehavior(BindingResolver) (description.ServiceBehavior, error) {
	return &description.ServiceCredentials{
		ServiceCertificate:       e.ServiceCertificate.certificate(),
		ClientCertificate:        e.ClientCertificate.Certificate.certificate(),
		ClientAuthentication:     e.ClientCertificate.Authentication.authentication(),
		UserNameAuthentication:   description.UserNameAuthentication(e.UserNameAuthentication),
		WindowsAuthentication:    description.WindowsAuthentication(e.WindowsAuthentication),
		UseIdentityConfiguration: e.UseIdentityConfiguration,
		IdentityConfiguration:    e.IdentityConfiguration,
	}, nil
}

func (e *ServiceCredentialsElement) CopyFrom(from any) error { return copyFrom(e, from) }

// ---- authorization ----

// AuthorizationPolicyElement is <authorizationPolicies><add>.
type AuthorizationPolicyElement struct {
	PolicyType string
}

var authorizationPolicySchema = dsl.ElementOf[AuthorizationPolicyElement]("add").
	Attr("policyType", dsl.String().NonEmpty()).Required().Key().
	MustBuild()

// ServiceAuthorizationElement is <serviceAuthorization>.
type ServiceAuthorizationElement struct {
	PrincipalPermissionMode           description.PrincipalPermissionMode
	RoleProviderName                  string
	ImpersonateCallerForAllOperations bool
	ImpersonateOnSerializingReply     bool
	ServiceAuthorizationManagerType   string
	AuthorizationPolicies             dsl.Collection[AuthorizationPolicyElement]
}

var serviceAuthorizationSchema = dsl.ElementOf[ServiceAuthorizationElement]("serviceAuthorization").
	Attr("principalPermissionMode", dsl.Enum(description.PrincipalNone, description.PrincipalUseWindowsGroups,
		description.PrincipalUseAspNetRoles, description.PrincipalCustom, description.PrincipalAlways)).
	Default(description.PrincipalUseWindowsGroups).
	Attr("roleProviderName", dsl.String()).Default("").
	Attr("impersonateCallerForAllOperations", dsl.Bool()).Default(false).
	Attr("impersonateOnSerializingReply", dsl.Bool()).Default(false).
	Attr("serviceAuthorizationManagerType", dsl.String()).Default("").
	Collection("authorizationPolicies", authorizationPolicySchema).Wrapped().AddRemoveClear().
	MustBuild()

// CreateServiceBehavior builds a *description.ServiceAuthorization.
func (e ServiceAuthorizationElement) CreateServiceBehavior(BindingResolver) (description.ServiceBehavior, error) {
	b := description.NewServiceAuthorization()
	b.PrincipalPermissionMode = e.PrincipalPermissionMode
	b.RoleProviderName = e.RoleProviderName
	b.ImpersonateCallerForAllOperations = e.ImpersonateCallerForAllOperations
	b.ImpersonateOnSerializingReply = e.ImpersonateOnSerializingReply
	b.ServiceAuthorizationManagerType = e.ServiceAuthorizationManagerType
	for _, p := range e.AuthorizationPolicies.Items() {
		b.AuthorizationPolicies = append(b.AuthorizationPolicies, p.PolicyType)
	}
	return b, nil
}

// CopyFrom copies another serviceAuthorization element, including its own
// copy of the policy list.
func (e *ServiceAuthorizationElement) CopyFrom(from any) error {
	if err := copyFrom(e, from); err != nil {
		return err
	}
	e.AuthorizationPolicies = e.AuthorizationPolicies.Clone()
	return nil
}

// ---- dataContractSerializer ----

// DataContractSerializerElement is <dataContractSerializer>, valid on both
// services and endpoints.
type DataContractSerializerElement struct {
	IgnoreExtensionDataObject bool
	MaxItemsInObjectGraph     int
}

var dataContractSerializerSchema = dsl.ElementOf[DataContractSerializerElement]("dataContractSerializer").
	Attr("ignoreExtensionDataObject", dsl.Bool()).Default(false).
	Attr("maxItemsInObjectGraph", dsl.Int().Min(0)).Default(2147483647).
	MustBuild()

func (e DataContractSerializerElement) behavior() *description.DataContractSerializer {
	b := description.DataContractSerializer(e)
	return &b
}

// CreateServiceBehavior builds a *description.DataContractSerializer.
func (e DataContractSerializerElement) CreateServiceBehavior(BindingResolver) (description.ServiceBehavior, error) {
	return e.behavior(), nil
}

// CreateEndpointBehavior builds a *description.DataContractSerializer.
func (e DataContractSerializerElement) CreateEndpointBehavior(BindingResolver) (description.EndpointBehavior, error) {
	return e.behavior(), nil
}

func (e *DataContractSerializerElement) CopyFrom(from any) error { return copyFrom(e, from) }
