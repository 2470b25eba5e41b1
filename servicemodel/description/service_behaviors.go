package description

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/reoring/svcconfig/codec"
	"github.com/reoring/svcconfig/servicemodel/channels"
)

// ServiceMetadata publishes service metadata over HTTP GET.
type ServiceMetadata struct {
	ExternalMetadataLocation *url.URL
	HTTPGetEnabled           bool
	HTTPGetURL               *url.URL
	HTTPGetBinding           channels.Binding
	HTTPSGetEnabled          bool
	HTTPSGetURL              *url.URL
	HTTPSGetBinding          channels.Binding
	PolicyVersion            codec.PolicyVersion
}

// NewServiceMetadata returns metadata publishing with GET disabled.
func NewServiceMetadata() *ServiceMetadata {
	return &ServiceMetadata{PolicyVersion: codec.PolicyVersionDefault}
}

// Validate requires an absolute GET URL or a base address of the matching
// scheme for every enabled GET endpoint.
func (b *ServiceMetadata) Validate(d *ServiceDescription) error {
	if b.HTTPGetEnabled && !reachable(b.HTTPGetURL, "http", d.BaseAddresses) {
		return errors.New("serviceMetadata: httpGetEnabled requires an absolute httpGetUrl or an http base address")
	}
	if b.HTTPSGetEnabled && !reachable(b.HTTPSGetURL, "https", d.BaseAddresses) {
		return errors.New("serviceMetadata: httpsGetEnabled requires an absolute httpsGetUrl or an https base address")
	}
	return nil
}

func reachable(u *url.URL, scheme string, bases []*url.URL) bool {
	if u != nil && u.IsAbs() {
		return u.Scheme == scheme
	}
	for _, b := range bases {
		if b.Scheme == scheme {
			return true
		}
	}
	return false
}

// ServiceDebug controls help pages and fault details.
type ServiceDebug struct {
	HTTPHelpPageEnabled            bool
	HTTPHelpPageURL                *url.URL
	HTTPHelpPageBinding            channels.Binding
	HTTPSHelpPageEnabled           bool
	HTTPSHelpPageURL               *url.URL
	HTTPSHelpPageBinding           channels.Binding
	IncludeExceptionDetailInFaults bool
}

// NewServiceDebug returns debug settings with both help pages enabled.
func NewServiceDebug() *ServiceDebug {
	return &ServiceDebug{HTTPHelpPageEnabled: true, HTTPSHelpPageEnabled: true}
}

func (b *ServiceDebug) Validate(*ServiceDescription) error { return nil }

// ServiceThrottling limits concurrent calls, sessions and instances.
type ServiceThrottling struct {
	MaxConcurrentCalls     int
	MaxConcurrentSessions  int
	MaxConcurrentInstances int
}

// NewServiceThrottling returns the default throttles.
func NewServiceThrottling() *ServiceThrottling {
	return &ServiceThrottling{MaxConcurrentCalls: 16, MaxConcurrentSessions: 100, MaxConcurrentInstances: 116}
}

func (b *ServiceThrottling) Validate(*ServiceDescription) error {
	if b.MaxConcurrentCalls < 1 || b.MaxConcurrentSessions < 1 || b.MaxConcurrentInstances < 1 {
		return fmt.Errorf("serviceThrottling: limits must be positive: %+v", *b)
	}
	return nil
}

// ServiceTimeouts holds the service transaction timeout.
type ServiceTimeouts struct {
	TransactionTimeout time.Duration
}

func (b *ServiceTimeouts) Validate(*ServiceDescription) error { return nil }

// X509Certificate locates a certificate by store and search criteria.
type X509Certificate struct {
	StoreLocation codec.StoreLocation
	StoreName     codec.StoreName
	FindType      codec.FindType
	FindValue     string
}

// CertificateValidationMode selects how peer certificates are trusted.
type CertificateValidationMode string

const (
	ValidationNone             CertificateValidationMode = "None"
	ValidationPeerTrust        CertificateValidationMode = "PeerTrust"
	ValidationChainTrust       CertificateValidationMode = "ChainTrust"
	ValidationPeerOrChainTrust CertificateValidationMode = "PeerOrChainTrust"
	ValidationCustom           CertificateValidationMode = "Custom"
)

// X509Authentication are the certificate validation settings.
type X509Authentication struct {
	CertificateValidationMode            CertificateValidationMode
	CustomCertificateValidatorType       string
	RevocationMode                       codec.RevocationMode
	TrustedStoreLocation                 codec.StoreLocation
	IncludeWindowsGroups                 bool
	MapClientCertificateToWindowsAccount bool
}

// UserNamePasswordValidationMode selects how user name credentials are checked.
type UserNamePasswordValidationMode string

const (
	PasswordWindows            UserNamePasswordValidationMode = "Windows"
	PasswordMembershipProvider UserNamePasswordValidationMode = "MembershipProvider"
	PasswordCustom             UserNamePasswordValidationMode = "Custom"
)

// UserNameAuthentication are the user name credential settings.
type UserNameAuthentication struct {
	UserNamePasswordValidationMode      UserNamePasswordValidationMode
	IncludeWindowsGroups                bool
	MembershipProviderName              string
	CustomUserNamePasswordValidatorType string
	CacheLogonTokens                    bool
	MaxCachedLogonTokens                int
	CachedLogonTokenLifetime            time.Duration
}

// WindowsAuthentication are the Windows credential settings of a service.
type WindowsAuthentication struct {
	IncludeWindowsGroups bool
	AllowAnonymousLogons bool
}

// ServiceCredentials configures the credentials a service presents and
// accepts.
type ServiceCredentials struct {
	ServiceCertificate       X509Certificate
	ClientCertificate        X509Certificate
	ClientAuthentication     X509Authentication
	UserNameAuthentication   UserNameAuthentication
	WindowsAuthentication    WindowsAuthentication
	UseIdentityConfiguration bool
	IdentityConfiguration    string
}

// NewServiceCredentials returns credentials with default settings.
func NewServiceCredentials() *ServiceCredentials {
	return &ServiceCredentials{
		ServiceCertificate: X509Certificate{StoreLocation: codec.LocalMachine, StoreName: codec.StoreMy, FindType: codec.FindBySubjectDistinguishedName},
		ClientCertificate:  X509Certificate{StoreLocation: codec.LocalMachine, StoreName: codec.StoreMy, FindType: codec.FindBySubjectDistinguishedName},
		ClientAuthentication: X509Authentication{
			CertificateValidationMode: ValidationChainTrust,
			RevocationMode:            codec.RevocationOnline,
			TrustedStoreLocation:      codec.LocalMachine,
			IncludeWindowsGroups:      true,
		},
		UserNameAuthentication: UserNameAuthentication{
			UserNamePasswordValidationMode: PasswordWindows,
			IncludeWindowsGroups:           true,
			MaxCachedLogonTokens:           128,
			CachedLogonTokenLifetime:       15 * time.Minute,
		},
		WindowsAuthentication: WindowsAuthentication{IncludeWindowsGroups: true},
	}
}

// Validate requires validator types for the custom validation modes.
func (b *ServiceCredentials) Validate(*ServiceDescription) error {
	if b.UserNameAuthentication.UserNamePasswordValidationMode == PasswordCustom && b.UserNameAuthentication.CustomUserNamePasswordValidatorType == "" {
		return errors.New("serviceCredentials: userNamePasswordValidationMode Custom requires customUserNamePasswordValidatorType")
	}
	if b.ClientAuthentication.CertificateValidationMode == ValidationCustom && b.ClientAuthentication.CustomCertificateValidatorType == "" {
		return errors.New("serviceCredentials: certificateValidationMode Custom requires customCertificateValidatorType")
	}
	return nil
}

// PrincipalPermissionMode selects how the caller principal is populated.
type PrincipalPermissionMode string

const (
	PrincipalNone             PrincipalPermissionMode = "None"
	PrincipalUseWindowsGroups PrincipalPermissionMode = "UseWindowsGroups"
	PrincipalUseAspNetRoles   PrincipalPermissionMode = "UseAspNetRoles"
	PrincipalCustom           PrincipalPermissionMode = "Custom"
	PrincipalAlways           PrincipalPermissionMode = "Always"
)

// ServiceAuthorization configures caller authorization.
type ServiceAuthorization struct {
	PrincipalPermissionMode           PrincipalPermissionMode
	RoleProviderName                  string
	ImpersonateCallerForAllOperations bool
	ImpersonateOnSerializingReply     bool
	ServiceAuthorizationManagerType   string
	AuthorizationPolicies             []string
}

// NewServiceAuthorization returns authorization using Windows groups.
func NewServiceAuthorization() *ServiceAuthorization {
	return &ServiceAuthorization{PrincipalPermissionMode: PrincipalUseWindowsGroups}
}

// Validate rejects impersonation on reply without impersonation of calls.
func (b *ServiceAuthorization) Validate(*ServiceDescription) error {
	if b.ImpersonateOnSerializingReply && !b.ImpersonateCallerForAllOperations {
		return errors.New("serviceAuthorization: impersonateOnSerializingReply requires impersonateCallerForAllOperations")
	}
	return nil
}

// DataContractSerializer bounds the serializer of a service or endpoint.
type DataContractSerializer struct {
	IgnoreExtensionDataObject bool
	MaxItemsInObjectGraph     int
}

// NewDataContractSerializer returns serializer settings with defaults.
func NewDataContractSerializer() *DataContractSerializer {
	return &DataContractSerializer{MaxItemsInObjectGraph: 2147483647}
}

func (b *DataContractSerializer) Validate(*ServiceDescription) error { return nil }

func (b *DataContractSerializer) ValidateEndpoint(*ServiceEndpoint) error { return nil }
