package configuration

import (
	"context"
	"net/url"
	"time"

	svcconfig "github.com/reoring/svcconfig"
	"github.com/reoring/svcconfig/codec"
	"github.com/reoring/svcconfig/dsl"
	"github.com/reoring/svcconfig/servicemodel/description"
)

// ---- identity ----

// IdentityValueElement is an identity claim carried in a value attribute
// (<userPrincipalName>, <servicePrincipalName>, <dns>, <rsa>).
type IdentityValueElement struct {
	Value string
}

func identityValueSchema(name string) *dsl.ElementSchema[IdentityValueElement] {
	return dsl.ElementOf[IdentityValueElement](name).
		Attr("value", dsl.String()).Default("").
		MustBuild()
}

// CertificateIdentityElement is <identity><certificate>.
type CertificateIdentityElement struct {
	EncodedValue string
}

var certificateIdentitySchema = dsl.ElementOf[CertificateIdentityElement]("certificate").
	Attr("encodedValue", dsl.String()).Default("").
	MustBuild()

// CertificateReferenceElement is <identity><certificateReference>.
type CertificateReferenceElement struct {
	StoreName       codec.StoreName
	StoreLocation   codec.StoreLocation
	FindType        codec.FindType `config:"x509FindType"`
	FindValue       string
	IsChainIncluded bool
}

var certificateReferenceSchema = dsl.ElementOf[CertificateReferenceElement]("certificateReference").
	Attr("storeName", dsl.Codec(codec.StoreNameCodec())).Default(codec.StoreMy).
	Attr("storeLocation", dsl.Codec(codec.StoreLocationCodec())).Default(codec.LocalMachine).
	Attr("x509FindType", dsl.Codec(codec.FindTypeCodec())).Default(codec.FindBySubjectDistinguishedName).
	Attr("findValue", dsl.String()).Default("").
	Attr("isChainIncluded", dsl.Bool()).Default(false).
	MustBuild()

// IdentityElement is <identity>. At most one claim is expected; when several
// are present the first in declaration order wins.
type IdentityElement struct {
	UserPrincipalName    *IdentityValueElement
	ServicePrincipalName *IdentityValueElement
	DNS                  *IdentityValueElement `config:"dns"`
	RSA                  *IdentityValueElement `config:"rsa"`
	Certificate          *CertificateIdentityElement
	CertificateReference *CertificateReferenceElement
}

var identitySchema = dsl.ElementOf[IdentityElement]("identity").
	Child("userPrincipalName", identityValueSchema("userPrincipalName")).
	Child("servicePrincipalName", identityValueSchema("servicePrincipalName")).
	Child("dns", identityValueSchema("dns")).
	Child("rsa", identityValueSchema("rsa")).
	Child("certificate", certificateIdentitySchema).
	Child("certificateReference", certificateReferenceSchema).
	MustBuild()

// Identity returns the configured identity, or nil when none is configured.
func (e *IdentityElement) Identity() *description.Identity {
	if e == nil {
		return nil
	}
	switch {
	case e.UserPrincipalName != nil:
		return &description.Identity{Kind: description.IdentityUPN, Value: e.UserPrincipalName.Value}
	case e.ServicePrincipalName != nil:
		return &description.Identity{Kind: description.IdentitySPN, Value: e.ServicePrincipalName.Value}
	case e.DNS != nil:
		return &description.Identity{Kind: description.IdentityDNS, Value: e.DNS.Value}
	case e.RSA != nil:
		return &description.Identity{Kind: description.IdentityRSA, Value: e.RSA.Value}
	case e.Certificate != nil:
		return &description.Identity{Kind: description.IdentityCertificate, Value: e.Certificate.EncodedValue}
	case e.CertificateReference != nil:
		ref := description.CertificateReference(*e.CertificateReference)
		return &description.Identity{Kind: description.IdentityCertificateReference, Value: ref.FindValue, Reference: &ref}
	}
	return nil
}

// InitializeFrom sets the claim matching id.
func (e *IdentityElement) InitializeFrom(id *description.Identity) {
	*e = IdentityElement{}
	if id == nil {
		return
	}
	v := &IdentityValueElement{Value: id.Value}
	switch id.Kind {
	case description.IdentityUPN:
		e.UserPrincipalName = v
	case description.IdentitySPN:
		e.ServicePrincipalName = v
	case description.IdentityDNS:
		e.DNS = v
	case description.IdentityRSA:
		e.RSA = v
	case description.IdentityCertificate:
		e.Certificate = &CertificateIdentityElement{EncodedValue: id.Value}
	case description.IdentityCertificateReference:
		if id.Reference != nil {
			ref := CertificateReferenceElement(*id.Reference)
			e.CertificateReference = &ref
		}
	}
}

// ---- services ----

var listenURIModes = dsl.Enum(description.ListenExplicit, description.ListenUnique)

// ServiceEndpointElement is <service><endpoint>.
type ServiceEndpointElement struct {
	Address               *url.URL
	BehaviorConfiguration string
	Binding               string
	BindingConfiguration  string
	BindingName           string
	BindingNamespace      string
	Contract              string
	EndpointConfiguration string
	IsSystemEndpoint      bool
	Kind                  string
	ListenURI             *url.URL                  `config:"listenUri"`
	ListenURIMode         description.ListenURIMode `config:"listenUriMode"`
	Name                  string
	Identity              *IdentityElement

	Info svcconfig.ElementInfo
}

// requireBinding requires binding unless a standard endpoint kind is named.
func requireBinding(_ context.Context, e ServiceEndpointElement) error {
	if e.Binding == "" && e.Kind == "" {
		return svcconfig.Issues{svcconfig.Root().Attr("binding").Issue(svcconfig.CodeRequired, "binding is required unless kind is set")}
	}
	return nil
}

var serviceEndpointSchema = dsl.ElementOf[ServiceEndpointElement]("endpoint").
	Attr("address", relativeOrAbsoluteURI).Key().
	Attr("behaviorConfiguration", dsl.String()).Default("").
	Attr("binding", dsl.String()).Default("").Key().
	Attr("bindingConfiguration", dsl.String()).Default("").Key().
	Attr("bindingName", dsl.String()).Default("").
	Attr("bindingNamespace", dsl.String()).Default("").
	Attr("contract", dsl.String()).Default("").Key().
	Attr("endpointConfiguration", dsl.String()).Default("").
	Attr("isSystemEndpoint", dsl.Bool()).Default(false).
	Attr("kind", dsl.String()).Default("").
	Attr("listenUri", relativeOrAbsoluteURI).Key().
	Attr("listenUriMode", listenURIModes).Default(description.ListenExplicit).
	Attr("name", dsl.String()).Default("").Key().
	Child("identity", identitySchema).
	Refine("binding", requireBinding).
	MustBuild()

// BaseAddressElement is <baseAddresses><add>.
type BaseAddressElement struct {
	BaseAddress *url.URL
}

var baseAddressSchema = dsl.ElementOf[BaseAddressElement]("add").
	Attr("baseAddress", absoluteURI).Required().Key().
	MustBuild()

// HostTimeoutsElement is <host><timeouts>.
type HostTimeoutsElement struct {
	CloseTimeout time.Duration
	OpenTimeout  time.Duration
}

var hostTimeoutsSchema = dsl.ElementOf[HostTimeoutsElement]("timeouts").
	Attr("closeTimeout", timeout()).Default("00:00:10").
	Attr("openTimeout", timeout()).Default("00:01:00").
	MustBuild()

// HostElement is <service><host>.
type HostElement struct {
	BaseAddresses dsl.Collection[BaseAddressElement]
	Timeouts      HostTimeoutsElement
}

var hostSchema = dsl.ElementOf[HostElement]("host").
	Collection("baseAddresses", baseAddressSchema).Wrapped().AddRemoveClear().
	Child("timeouts", hostTimeoutsSchema).
	MustBuild()

// ServiceElement is <services><service>.
type ServiceElement struct {
	Name                  string
	BehaviorConfiguration string
	Host                  HostElement
	Endpoints             dsl.Collection[ServiceEndpointElement] `config:"endpoint"`
}

var serviceSchema = dsl.ElementOf[ServiceElement]("service").
	Attr("name", dsl.String().NonEmpty()).Required().Key().
	Attr("behaviorConfiguration", dsl.String()).Default("").
	Child("host", hostSchema).
	Collection("endpoint", serviceEndpointSchema).
	MustBuild()

// ServiceSchema returns the <service> declaration.
func ServiceSchema() *dsl.ElementSchema[ServiceElement] { return serviceSchema }

// ServicesSection is <services>.
type ServicesSection struct {
	Services dsl.Collection[ServiceElement] `config:"service"`
}

var servicesSchema = dsl.ElementOf[ServicesSection]("services").
	Collection("service", serviceSchema).
	MustBuild()

// ---- client ----

// ChannelEndpointElement is <client><endpoint>.
type ChannelEndpointElement struct {
	Address               *url.URL
	BehaviorConfiguration string
	Binding               string
	BindingConfiguration  string
	Contract              string
	EndpointConfiguration string
	Kind                  string
	Name                  string
	Identity              *IdentityElement
}

var channelEndpointSchema = dsl.ElementOf[ChannelEndpointElement]("endpoint").
	Attr("address", relativeOrAbsoluteURI).
	Attr("behaviorConfiguration", dsl.String()).Default("").
	Attr("binding", dsl.String()).Default("").
	Attr("bindingConfiguration", dsl.String()).Default("").
	Attr("contract", dsl.String()).Default("").Key().
	Attr("endpointConfiguration", dsl.String()).Default("").
	Attr("kind", dsl.String()).Default("").
	Attr("name", dsl.String()).Default("").Key().
	Child("identity", identitySchema).
	MustBuild()

// ClientSection is <client>.
type ClientSection struct {
	Endpoints dsl.Collection[ChannelEndpointElement] `config:"endpoint"`
}

var clientSchema = dsl.ElementOf[ClientSection]("client").
	Collection("endpoint", channelEndpointSchema).
	MustBuild()

// ---- protocolMapping ----

// ProtocolMappingElement is <protocolMapping><add>.
type ProtocolMappingElement struct {
	Scheme               string
	Binding              string
	BindingConfiguration string
}

var protocolMappingItemSchema = dsl.ElementOf[ProtocolMappingElement]("add").
	Attr("scheme", dsl.String().Lower().NonEmpty()).Required().Key().
	Attr("binding", dsl.String().NonEmpty()).Required().
	Attr("bindingConfiguration", dsl.String()).Default("").
	MustBuild()

// ProtocolMappingSection is <protocolMapping>.
type ProtocolMappingSection struct {
	Mappings dsl.Collection[ProtocolMappingElement]
}

var protocolMappingSchema = dsl.ElementOf[ProtocolMappingSection]("protocolMapping").
	Collection("mappings", protocolMappingItemSchema).AddRemoveClear().Inherit(inheritedMappings()...).
	MustBuild()

func inheritedMappings() []any {
	var out []any
	for _, pm := range DefaultProtocolMappings() {
		out = append(out, pm)
	}
	return out
}

// DefaultProtocolMappings are the scheme mappings in effect before the
// document's <protocolMapping>. The section inherits them: <remove> and
// <clear/> drop them and <add> replaces them.
func DefaultProtocolMappings() []ProtocolMappingElement {
	return []ProtocolMappingElement{
		{Scheme: "http", Binding: "basicHttpBinding"},
		{Scheme: "https", Binding: "basicHttpBinding"},
		{Scheme: "net.tcp", Binding: "netTcpBinding"},
		{Scheme: "net.pipe", Binding: "netNamedPipeBinding"},
	}
}

// ---- extensions ----

// ExtensionElement is <extensions><...Extensions><add name type>.
type ExtensionElement struct {
	Name string
	Type string
}

var extensionItemSchema = dsl.ElementOf[ExtensionElement]("add").
	Attr("name", dsl.String().NonEmpty()).Required().Key().
	Attr("type", dsl.String().NonEmpty()).Required().
	MustBuild()

// ExtensionsSection is <extensions>.
type ExtensionsSection struct {
	BindingElementExtensions dsl.Collection[ExtensionElement]
	BindingExtensions        dsl.Collection[ExtensionElement]
	BehaviorExtensions       dsl.Collection[ExtensionElement]
}

var extensionsSchema = dsl.ElementOf[ExtensionsSection]("extensions").
	Collection("bindingElementExtensions", extensionItemSchema).Wrapped().AddRemoveClear().
	Collection("bindingExtensions", extensionItemSchema).Wrapped().AddRemoveClear().
	Collection("behaviorExtensions", extensionItemSchema).Wrapped().AddRemoveClear().
	MustBuild()

// ExtensionsSchema returns the <extensions> declaration.
func ExtensionsSchema() *dsl.ElementSchema[ExtensionsSection] { return extensionsSchema }

// byKind returns the entries registered under k.
func (s ExtensionsSection) byKind(k Kind) []ExtensionElement {
	switch k {
	case KindBinding:
		return s.BindingExtensions.Items()
	case KindBindingElement:
		return s.BindingElementExtensions.Items()
	case KindBehavior:
		return s.BehaviorExtensions.Items()
	}
	return nil
}

// ---- hosting and diagnostics ----

// ServiceHostingEnvironmentSection is <serviceHostingEnvironment>.
type ServiceHostingEnvironmentSection struct {
	AspNetCompatibilityEnabled               bool
	MinFreeMemoryPercentageToActivateService int
	MultipleSiteBindingsEnabled              bool
	CloseIdleServicesAtLowMemory             bool
}

var serviceHostingEnvironmentSchema = dsl.ElementOf[ServiceHostingEnvironmentSection]("serviceHostingEnvironment").
	Attr("aspNetCompatibilityEnabled", dsl.Bool()).Default(false).
	Attr("minFreeMemoryPercentageToActivateService", dsl.Int().Min(0).Max(99)).Default(5).
	Attr("multipleSiteBindingsEnabled", dsl.Bool()).Default(false).
	Attr("closeIdleServicesAtLowMemory", dsl.Bool()).Default(false).
	MustBuild()

// MessageLoggingElement is <diagnostics><messageLogging>.
type MessageLoggingElement struct {
	LogEntireMessage            bool
	LogKnownPii                 bool
	LogMalformedMessages        bool
	LogMessagesAtServiceLevel   bool
	LogMessagesAtTransportLevel bool
	MaxMessagesToLog            int
	MaxSizeOfMessageToLog       int
}

var messageLoggingSchema = dsl.ElementOf[MessageLoggingElement]("messageLogging").
	Attr("logEntireMessage", dsl.Bool()).Default(false).
	Attr("logKnownPii", dsl.Bool()).Default(false).
	Attr("logMalformedMessages", dsl.Bool()).Default(false).
	Attr("logMessagesAtServiceLevel", dsl.Bool()).Default(false).
	Attr("logMessagesAtTransportLevel", dsl.Bool()).Default(false).
	Attr("maxMessagesToLog", dsl.Int().Min(-1)).Default(10000).
	Attr("maxSizeOfMessageToLog", dsl.Int().Min(-1)).Default(262144).
	MustBuild()

// DiagnosticsSection is <diagnostics>.
type DiagnosticsSection struct {
	PerformanceCounters string
	WMIProviderEnabled  bool `config:"wmiProviderEnabled"`
	MessageLogging      MessageLoggingElement
}

var diagnosticsSchema = dsl.ElementOf[DiagnosticsSection]("diagnostics").
	Attr("performanceCounters", dsl.Enum("Off", "ServiceOnly", "All", "Default")).Default("Default").
	Attr("wmiProviderEnabled", dsl.Bool()).Default(false).
	Child("messageLogging", messageLoggingSchema).
	MustBuild()
