package codec

// StoreLocation is an X.509 certificate store location.
type StoreLocation string

const (
	CurrentUser  StoreLocation = "CurrentUser"
	LocalMachine StoreLocation = "LocalMachine"
)

// StoreName is an X.509 certificate store name.
type StoreName string

const (
	StoreAddressBook          StoreName = "AddressBook"
	StoreAuthRoot             StoreName = "AuthRoot"
	StoreCertificateAuthority StoreName = "CertificateAuthority"
	StoreDisallowed           StoreName = "Disallowed"
	StoreMy                   StoreName = "My"
	StoreRoot                 StoreName = "Root"
	StoreTrustedPeople        StoreName = "TrustedPeople"
	StoreTrustedPublisher     StoreName = "TrustedPublisher"
)

// FindType selects how a certificate is looked up in a store.
type FindType string

const (
	FindByThumbprint               FindType = "FindByThumbprint"
	FindBySubjectName              FindType = "FindBySubjectName"
	FindBySubjectDistinguishedName FindType = "FindBySubjectDistinguishedName"
	FindByIssuerName               FindType = "FindByIssuerName"
	FindByIssuerDistinguishedName  FindType = "FindByIssuerDistinguishedName"
	FindBySerialNumber             FindType = "FindBySerialNumber"
	FindByTimeValid                FindType = "FindByTimeValid"
	FindByTimeNotYetValid          FindType = "FindByTimeNotYetValid"
	FindByTimeExpired              FindType = "FindByTimeExpired"
	FindByTemplateName             FindType = "FindByTemplateName"
	FindByApplicationPolicy        FindType = "FindByApplicationPolicy"
	FindByCertificatePolicy        FindType = "FindByCertificatePolicy"
	FindByExtension                FindType = "FindByExtension"
	FindByKeyUsage                 FindType = "FindByKeyUsage"
	FindBySubjectKeyIdentifier     FindType = "FindBySubjectKeyIdentifier"
)

// RevocationMode selects certificate revocation checking.
type RevocationMode string

const (
	RevocationNoCheck RevocationMode = "NoCheck"
	RevocationOnline  RevocationMode = "Online"
	RevocationOffline RevocationMode = "Offline"
)

func namedOf[T ~string](format string, values ...T) *Named[T] {
	pairs := make([]NameValue[T], 0, len(values))
	for _, v := range values {
		pairs = append(pairs, NameValue[T]{Name: string(v), Value: v})
	}
	return NewNamed(format, pairs...)
}

var (
	storeLocations = namedOf("x509-store-location", CurrentUser, LocalMachine)
	storeNames     = namedOf("x509-store-name", StoreAddressBook, StoreAuthRoot, StoreCertificateAuthority,
		StoreDisallowed, StoreMy, StoreRoot, StoreTrustedPeople, StoreTrustedPublisher)
	findTypes = namedOf("x509-find-type", FindByThumbprint, FindBySubjectName, FindBySubjectDistinguishedName,
		FindByIssuerName, FindByIssuerDistinguishedName, FindBySerialNumber, FindByTimeValid,
		FindByTimeNotYetValid, FindByTimeExpired, FindByTemplateName, FindByApplicationPolicy,
		FindByCertificatePolicy, FindByExtension, FindByKeyUsage, FindBySubjectKeyIdentifier)
	revocationModes = namedOf("x509-revocation-mode", RevocationNoCheck, RevocationOnline, RevocationOffline)
)

// StoreLocationCodec returns the codec for certificate store locations.
func StoreLocationCodec() Codec[StoreLocation] { return storeLocations }

// StoreNameCodec returns the codec for certificate store names.
func StoreNameCodec() Codec[StoreName] { return storeNames }

// FindTypeCodec returns the codec for certificate find types.
func FindTypeCodec() Codec[FindType] { return findTypes }

// RevocationModeCodec returns the codec for revocation modes.
func RevocationModeCodec() Codec[RevocationMode] { return revocationModes }
