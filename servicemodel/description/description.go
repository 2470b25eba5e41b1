// Package description holds the runtime service, endpoint and behavior
// objects a configuration document is loaded into.
package description

import (
	"fmt"
	"net/url"
	"time"

	"github.com/reoring/svcconfig/codec"
	"github.com/reoring/svcconfig/servicemodel/channels"
)

// IdentityKind names the kind of an endpoint identity claim.
type IdentityKind string

const (
	IdentityUPN                  IdentityKind = "userPrincipalName"
	IdentitySPN                  IdentityKind = "servicePrincipalName"
	IdentityDNS                  IdentityKind = "dns"
	IdentityRSA                  IdentityKind = "rsa"
	IdentityCertificate          IdentityKind = "certificate"
	IdentityCertificateReference IdentityKind = "certificateReference"
)

// CertificateReference locates an X.509 certificate in a store.
type CertificateReference struct {
	StoreName       codec.StoreName
	StoreLocation   codec.StoreLocation
	FindType        codec.FindType
	FindValue       string
	IsChainIncluded bool
}

// Identity is the expected identity of the service behind an endpoint.
type Identity struct {
	Kind  IdentityKind
	Value string
	// Reference is set for certificateReference identities.
	Reference *CertificateReference
}

// EndpointAddress is the address of an endpoint plus its identity.
type EndpointAddress struct {
	URI      *url.URL
	Identity *Identity
	Headers  []string
}

func (a *EndpointAddress) String() string {
	if a == nil || a.URI == nil {
		return ""
	}
	return a.URI.String()
}

// ListenURIMode says whether the listen URI is used as is or made unique.
type ListenURIMode string

const (
	ListenExplicit ListenURIMode = "Explicit"
	ListenUnique   ListenURIMode = "Unique"
)

// ContractDescription identifies a service contract. ConfigurationName is
// the name endpoint elements refer to in their contract attribute.
type ContractDescription struct {
	Name              string
	Namespace         string
	ConfigurationName string
}

// MetadataExchangeContract is the built-in metadata exchange contract.
var MetadataExchangeContract = ContractDescription{
	Name:              "IMetadataExchange",
	Namespace:         "http://schemas.microsoft.com/2006/04/mex",
	ConfigurationName: "IMetadataExchange",
}

// ServiceEndpoint is one address, binding and contract triple.
type ServiceEndpoint struct {
	Name             string
	Address          *EndpointAddress
	ListenURI        *url.URL
	ListenURIMode    ListenURIMode
	Binding          channels.Binding
	Contract         *ContractDescription
	Behaviors        Behaviors[EndpointBehavior]
	IsSystemEndpoint bool
}

// ServiceDescription is a service with its endpoints and behaviors.
type ServiceDescription struct {
	Name              string
	Namespace         string
	ConfigurationName string
	BaseAddresses     []*url.URL
	OpenTimeout       time.Duration
	CloseTimeout      time.Duration
	Endpoints         []*ServiceEndpoint
	Behaviors         Behaviors[ServiceBehavior]
}

// NewServiceDescription returns a description carrying the behaviors every
// service host adds before configuration is applied.
func NewServiceDescription(configurationName string) *ServiceDescription {
	d := &ServiceDescription{
		Name:              configurationName,
		Namespace:         channels.DefaultNamespace,
		ConfigurationName: configurationName,
		OpenTimeout:       time.Minute,
		CloseTimeout:      10 * time.Second,
	}
	d.Behaviors.Set(NewServiceDebug())
	d.Behaviors.Set(NewServiceAuthorization())
	return d
}

// Validate runs every service behavior and then every endpoint behavior.
func (d *ServiceDescription) Validate() error {
	for _, b := range d.Behaviors.Items() {
		if err := b.Validate(d); err != nil {
			return fmt.Errorf("service %q: %w", d.ConfigurationName, err)
		}
	}
	for _, ep := range d.Endpoints {
		for _, b := range ep.Behaviors.Items() {
			if err := b.ValidateEndpoint(ep); err != nil {
				return fmt.Errorf("service %q: endpoint %s: %w", d.ConfigurationName, ep.Address, err)
			}
		}
	}
	return nil
}
