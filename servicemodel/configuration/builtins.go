package configuration

import (
	"sync"

	"github.com/reoring/svcconfig/dsl"
	"github.com/reoring/svcconfig/servicemodel/channels"
)

// TypePrefix is the namespace of the built-in extension type names.
const TypePrefix = "System.ServiceModel.Configuration."

type builtin struct {
	name string
	t    ExtensionType
}

func builtins() []builtin {
	return []builtin{
		// bindings
		{"basicHttpBinding", NewExtensionType(TypePrefix+"BasicHttpBindingCollectionElement", KindBinding,
			bindingCollectionSchema[BasicHTTPBindingElement, *channels.BasicHTTPBinding]("basicHttpBinding", basicHTTPBindingSchema))},
		{"wsHttpBinding", NewExtensionType(TypePrefix+"WSHttpBindingCollectionElement", KindBinding,
			bindingCollectionSchema[WSHTTPBindingElement, *channels.WSHTTPBinding]("wsHttpBinding", wsHTTPBindingSchema))},
		{"netTcpBinding", NewExtensionType(TypePrefix+"NetTcpBindingCollectionElement", KindBinding,
			bindingCollectionSchema[NetTCPBindingElement, *channels.NetTCPBinding]("netTcpBinding", netTCPBindingSchema))},
		{"netNamedPipeBinding", NewExtensionType(TypePrefix+"NetNamedPipeBindingCollectionElement", KindBinding,
			bindingCollectionSchema[NetNamedPipeBindingElement, *channels.NetNamedPipeBinding]("netNamedPipeBinding", netNamedPipeBindingSchema))},
		{"webHttpBinding", NewExtensionType(TypePrefix+"WebHttpBindingCollectionElement", KindBinding,
			bindingCollectionSchema[WebHTTPBindingElement, *channels.WebHTTPBinding]("webHttpBinding", webHTTPBindingSchema))},
		{"customBinding", registryBound(TypePrefix+"CustomBindingCollectionElement", KindBinding, customBindingCollectionType,
			func(r *Registry) dsl.Element { return customBindingCollectionSchema(r) })},

		// binding elements
		{"httpTransport", NewExtensionType(TypePrefix+"HttpTransportElement", KindBindingElement, httpTransportSchema)},
		{"httpsTransport", NewExtensionType(TypePrefix+"HttpsTransportElement", KindBindingElement, httpsTransportSchema)},
		{"tcpTransport", NewExtensionType(TypePrefix+"TcpTransportElement", KindBindingElement, tcpTransportSchema)},
		{"namedPipeTransport", NewExtensionType(TypePrefix+"NamedPipeTransportElement", KindBindingElement, namedPipeTransportSchema)},
		{"textMessageEncoding", NewExtensionType(TypePrefix+"TextMessageEncodingElement", KindBindingElement, textMessageEncodingSchema)},
		{"binaryMessageEncoding", NewExtensionType(TypePrefix+"BinaryMessageEncodingElement", KindBindingElement, binaryMessageEncodingSchema)},
		{"mtomMessageEncoding", NewExtensionType(TypePrefix+"MtomMessageEncodingElement", KindBindingElement, mtomMessageEncodingSchema)},
		{"reliableSession", NewExtensionType(TypePrefix+"ReliableSessionElement", KindBindingElement, reliableSessionSchema)},
		{"transactionFlow", NewExtensionType(TypePrefix+"TransactionFlowElement", KindBindingElement, transactionFlowSchema)},
		{"compositeDuplex", NewExtensionType(TypePrefix+"CompositeDuplexElement", KindBindingElement, compositeDuplexSchema)},
		{"oneWay", NewExtensionType(TypePrefix+"OneWayElement", KindBindingElement, oneWaySchema)},
		{"windowsStreamSecurity", NewExtensionType(TypePrefix+"WindowsStreamSecurityElement", KindBindingElement, windowsStreamSecuritySchema)},
		{"sslStreamSecurity", NewExtensionType(TypePrefix+"SslStreamSecurityElement", KindBindingElement, sslStreamSecuritySchema)},
		{"security", NewExtensionType(TypePrefix+"SecurityElement", KindBindingElement, securitySchema)},

		// behaviors
		{"serviceMetadata", NewExtensionType(TypePrefix+"ServiceMetadataPublishingElement", KindBehavior, serviceMetadataSchema)},
		{"serviceDebug", NewExtensionType(TypePrefix+"ServiceDebugElement", KindBehavior, serviceDebugSchema)},
		{"serviceThrottling", NewExtensionType(TypePrefix+"ServiceThrottlingElement", KindBehavior, serviceThrottlingSchema)},
		{"serviceTimeouts", NewExtensionType(TypePrefix+"ServiceTimeoutsElement", KindBehavior, serviceTimeoutsSchema)},
		{"serviceCredentials", NewExtensionType(TypePrefix+"ServiceCredentialsElement", KindBehavior, serviceCredentialsSchema)},
		{"serviceAuthorization", NewExtensionType(TypePrefix+"ServiceAuthorizationElement", KindBehavior, serviceAuthorizationSchema)},
		{"dataContractSerializer", NewExtensionType(TypePrefix+"DataContractSerializerElement", KindBehavior, dataContractSerializerSchema)},
		{"clientCredentials", NewExtensionType(TypePrefix+"ClientCredentialsElement", KindBehavior, clientCredentialsSchema)},
		{"clientVia", NewExtensionType(TypePrefix+"ClientViaElement", KindBehavior, clientViaSchema)},
		{"callbackDebug", NewExtensionType(TypePrefix+"CallbackDebugElement", KindBehavior, callbackDebugSchema)},
		{"synchronousReceive", NewExtensionType(TypePrefix+"SynchronousReceiveElement", KindBehavior, synchronousReceiveSchema)},
		{"dispatcherSynchronization", NewExtensionType(TypePrefix+"DispatcherSynchronizationElement", KindBehavior, dispatcherSynchronizationSchema)},
		{"webHttp", NewExtensionType(TypePrefix+"WebHttpElement", KindBehavior, webHTTPSchema)},
	}
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// DefaultRegistry returns the shared registry preloaded with the built-in
// binding, binding element and behavior names. Load clones it before
// applying <extensions>; callers adding their own types should Clone it too.
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		defaultReg = NewBuiltinRegistry()
	})
	return defaultReg
}

// NewBuiltinRegistry returns a new registry holding the built-in names.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	for _, b := range builtins() {
		if err := r.RegisterType(b.t); err != nil {
			panic(err)
		}
		if err := r.Register(b.t.Kind, b.name, b.t.TypeName); err != nil {
			panic(err)
		}
	}
	return r
}
