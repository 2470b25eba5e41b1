package configuration

import (
	"github.com/reoring/svcconfig/dsl"
)

// SectionName is the element name of the service model section.
const SectionName = "system.serviceModel"

// BindingsSection is <bindings>: one binding collection per binding
// extension name, such as <basicHttpBinding> or <customBinding>.
type BindingsSection struct {
	Collections dsl.Extensions[BindingCollectionElement]
}

// Collection returns the binding collection configured as section.
func (s BindingsSection) Collection(section string) (BindingCollectionElement, bool) {
	return s.Collections.Get(section)
}

func bindingsSchema(r *Registry) *dsl.ElementSchema[BindingsSection] {
	return dsl.ElementOf[BindingsSection]("bindings").
		Extensions("collections", r.Resolver(KindBinding, 0)).
		MustBuild()
}

// ServiceBehaviorElement is <serviceBehaviors><behavior>.
type ServiceBehaviorElement struct {
	Name      string
	Behaviors dsl.Extensions[ServiceBehaviorExtension]
}

// EndpointBehaviorElement is <endpointBehaviors><behavior>.
type EndpointBehaviorElement struct {
	Name      string
	Behaviors dsl.Extensions[EndpointBehaviorExtension]
}

// BehaviorsSection is <behaviors>.
type BehaviorsSection struct {
	ServiceBehaviors  dsl.Collection[ServiceBehaviorElement]
	EndpointBehaviors dsl.Collection[EndpointBehaviorElement]
}

func behaviorsSchema(r *Registry) *dsl.ElementSchema[BehaviorsSection] {
	service := dsl.ElementOf[ServiceBehaviorElement]("behavior").
		Attr("name", dsl.String()).Default("").Key().
		Extensions("behaviors", r.Resolver(KindBehavior, ScopeService)).
		MustBuild()
	endpoint := dsl.ElementOf[EndpointBehaviorElement]("behavior").
		Attr("name", dsl.String()).Default("").Key().
		Extensions("behaviors", r.Resolver(KindBehavior, ScopeEndpoint)).
		MustBuild()
	return dsl.ElementOf[BehaviorsSection]("behaviors").
		Collection("serviceBehaviors", service).Wrapped().AddRemoveClear().
		Collection("endpointBehaviors", endpoint).Wrapped().AddRemoveClear().
		MustBuild()
}

// ServiceModelSection is <system.serviceModel>.
type ServiceModelSection struct {
	Extensions                ExtensionsSection
	Bindings                  BindingsSection
	Behaviors                 BehaviorsSection
	Services                  ServicesSection
	Client                    ClientSection
	ProtocolMapping           ProtocolMappingSection
	ServiceHostingEnvironment ServiceHostingEnvironmentSection
	Diagnostics               DiagnosticsSection
}

// SectionSchema returns the <system.serviceModel> declaration whose
// bindings and behaviors resolve through r.
func SectionSchema(r *Registry) *dsl.ElementSchema[ServiceModelSection] {
	return dsl.ElementOf[ServiceModelSection](SectionName).
		Child("extensions", extensionsSchema).
		Child("bindings", bindingsSchema(r)).
		Child("behaviors", behaviorsSchema(r)).
		Child("services", servicesSchema).
		Child("client", clientSchema).
		Child("protocolMapping", protocolMappingSchema).
		Child("serviceHostingEnvironment", serviceHostingEnvironmentSchema).
		Child("diagnostics", diagnosticsSchema).
		MustBuild()
}
