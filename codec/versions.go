package codec

// EnvelopeVersion identifies a SOAP envelope version.
type EnvelopeVersion string

const (
	EnvelopeNone   EnvelopeVersion = "None"
	EnvelopeSoap11 EnvelopeVersion = "Soap11"
	EnvelopeSoap12 EnvelopeVersion = "Soap12"
)

// AddressingVersion identifies a WS-Addressing version.
type AddressingVersion string

const (
	AddressingNone         AddressingVersion = "None"
	AddressingAugust2004   AddressingVersion = "WSAddressingAugust2004"
	AddressingWSAddressing AddressingVersion = "WSAddressing10"
)

// MessageVersion pairs an envelope version with an addressing version.
type MessageVersion struct {
	Envelope   EnvelopeVersion
	Addressing AddressingVersion
}

var (
	MessageVersionNone                         = MessageVersion{EnvelopeNone, AddressingNone}
	MessageVersionSoap11                       = MessageVersion{EnvelopeSoap11, AddressingNone}
	MessageVersionSoap12                       = MessageVersion{EnvelopeSoap12, AddressingNone}
	MessageVersionSoap11WSAddressing10         = MessageVersion{EnvelopeSoap11, AddressingWSAddressing}
	MessageVersionSoap12WSAddressing10         = MessageVersion{EnvelopeSoap12, AddressingWSAddressing}
	MessageVersionSoap11WSAddressingAugust2004 = MessageVersion{EnvelopeSoap11, AddressingAugust2004}
	MessageVersionSoap12WSAddressingAugust2004 = MessageVersion{EnvelopeSoap12, AddressingAugust2004}
	MessageVersionDefault                      = MessageVersionSoap12WSAddressing10
)

var messageVersions = NewNamed("message-version",
	NameValue[MessageVersion]{"Soap12WSAddressing10", MessageVersionSoap12WSAddressing10},
	NameValue[MessageVersion]{"Default", MessageVersionDefault},
	NameValue[MessageVersion]{"Soap11", MessageVersionSoap11},
	NameValue[MessageVersion]{"Soap12", MessageVersionSoap12},
	NameValue[MessageVersion]{"Soap11WSAddressing10", MessageVersionSoap11WSAddressing10},
	NameValue[MessageVersion]{"Soap11WSAddressingAugust2004", MessageVersionSoap11WSAddressingAugust2004},
	NameValue[MessageVersion]{"Soap12WSAddressingAugust2004", MessageVersionSoap12WSAddressingAugust2004},
	NameValue[MessageVersion]{"None", MessageVersionNone},
)

// MessageVersionCodec returns the codec for message version names.
func MessageVersionCodec() Codec[MessageVersion] { return messageVersions }

// ReliableMessagingVersion names a WS-ReliableMessaging version.
type ReliableMessagingVersion string

const (
	ReliableMessagingFebruary2005 ReliableMessagingVersion = "WSReliableMessagingFebruary2005"
	ReliableMessaging11           ReliableMessagingVersion = "WSReliableMessaging11"
	ReliableMessagingDefault                               = ReliableMessagingFebruary2005
)

var reliableMessagingVersions = NewNamed("reliable-messaging-version",
	NameValue[ReliableMessagingVersion]{"WSReliableMessagingFebruary2005", ReliableMessagingFebruary2005},
	NameValue[ReliableMessagingVersion]{"WSReliableMessaging11", ReliableMessaging11},
	NameValue[ReliableMessagingVersion]{"Default", ReliableMessagingDefault},
)

// ReliableMessagingVersionCodec returns the codec for reliable messaging version names.
func ReliableMessagingVersionCodec() Codec[ReliableMessagingVersion] { return reliableMessagingVersions }

// TransactionProtocol names a transaction flow protocol.
type TransactionProtocol string

const (
	OleTransactions                TransactionProtocol = "OleTransactions"
	WSAtomicTransactionOctober2004 TransactionProtocol = "WSAtomicTransactionOctober2004"
	WSAtomicTransaction11          TransactionProtocol = "WSAtomicTransaction11"
	TransactionProtocolDefault                         = OleTransactions
)

var transactionProtocols = NewNamed("transaction-protocol",
	NameValue[TransactionProtocol]{"OleTransactions", OleTransactions},
	NameValue[TransactionProtocol]{"WSAtomicTransactionOctober2004", WSAtomicTransactionOctober2004},
	NameValue[TransactionProtocol]{"WSAtomicTransaction11", WSAtomicTransaction11},
	NameValue[TransactionProtocol]{"Default", TransactionProtocolDefault},
)

// TransactionProtocolCodec returns the codec for transaction protocol names.
func TransactionProtocolCodec() Codec[TransactionProtocol] { return transactionProtocols }

// PolicyVersion names a WS-Policy version.
type PolicyVersion string

const (
	Policy12             PolicyVersion = "Policy12"
	Policy15             PolicyVersion = "Policy15"
	PolicyVersionDefault               = Policy12
)

var policyVersions = NewNamed("policy-version",
	NameValue[PolicyVersion]{"Default", PolicyVersionDefault},
	NameValue[PolicyVersion]{"Policy12", Policy12},
	NameValue[PolicyVersion]{"Policy15", Policy15},
)

// PolicyVersionCodec returns the codec for policy version names.
// "Default" decodes to Policy12 and Policy12 encodes as "Default".
func PolicyVersionCodec() Codec[PolicyVersion] { return policyVersions }

// MessageSecurityVersion names a WS-Security message security version.
type MessageSecurityVersion string

const (
	WSSecurity10WSTrustFebruary2005 MessageSecurityVersion = "WSSecurity10WSTrustFebruary2005WSSecureConversationFebruary2005WSSecurityPolicy11BasicSecurityProfile10"
	WSSecurity11WSTrustFebruary2005 MessageSecurityVersion = "WSSecurity11WSTrustFebruary2005WSSecureConversationFebruary2005WSSecurityPolicy11"
	WSSecurity11WSTrust13           MessageSecurityVersion = "WSSecurity11WSTrust13WSSecureConversation13WSSecurityPolicy12"
	WSSecurity10WSTrust13           MessageSecurityVersion = "WSSecurity10WSTrust13WSSecureConversation13WSSecurityPolicy12BasicSecurityProfile10"
	MessageSecurityVersionDefault                          = WSSecurity11WSTrustFebruary2005
)

var messageSecurityVersions = NewNamed("message-security-version",
	NameValue[MessageSecurityVersion]{"Default", MessageSecurityVersionDefault},
	NameValue[MessageSecurityVersion]{string(WSSecurity10WSTrustFebruary2005), WSSecurity10WSTrustFebruary2005},
	NameValue[MessageSecurityVersion]{string(WSSecurity11WSTrustFebruary2005), WSSecurity11WSTrustFebruary2005},
	NameValue[MessageSecurityVersion]{string(WSSecurity11WSTrust13), WSSecurity11WSTrust13},
	NameValue[MessageSecurityVersion]{string(WSSecurity10WSTrust13), WSSecurity10WSTrust13},
)

// MessageSecurityVersionCodec returns the codec for message security version names.
func MessageSecurityVersionCodec() Codec[MessageSecurityVersion] { return messageSecurityVersions }
