package codec

import "strings"

// AlgorithmSuite describes the cryptographic algorithms of a security
// algorithm suite name.
type AlgorithmSuite struct {
	Name              string
	KeyLength         int    // symmetric key size in bits
	Encryption        string // "AES" or "TripleDES"
	Digest            string // "SHA1" or "SHA256"
	AsymmetricKeyWrap string // "RSA-OAEP" or "RSA-1_5"
}

func suite(name string, bits int, digest, wrap string) AlgorithmSuite {
	enc := "AES"
	if strings.HasPrefix(name, "TripleDes") {
		enc = "TripleDES"
	}
	return AlgorithmSuite{Name: name, KeyLength: bits, Encryption: enc, Digest: digest, AsymmetricKeyWrap: wrap}
}

var (
	Basic256              = suite("Basic256", 256, "SHA1", "RSA-OAEP")
	Basic192              = suite("Basic192", 192, "SHA1", "RSA-OAEP")
	Basic128              = suite("Basic128", 128, "SHA1", "RSA-OAEP")
	TripleDes             = suite("TripleDes", 192, "SHA1", "RSA-OAEP")
	Basic256Rsa15         = suite("Basic256Rsa15", 256, "SHA1", "RSA-1_5")
	Basic192Rsa15         = suite("Basic192Rsa15", 192, "SHA1", "RSA-1_5")
	Basic128Rsa15         = suite("Basic128Rsa15", 128, "SHA1", "RSA-1_5")
	TripleDesRsa15        = suite("TripleDesRsa15", 192, "SHA1", "RSA-1_5")
	Basic256Sha256        = suite("Basic256Sha256", 256, "SHA256", "RSA-OAEP")
	Basic192Sha256        = suite("Basic192Sha256", 192, "SHA256", "RSA-OAEP")
	Basic128Sha256        = suite("Basic128Sha256", 128, "SHA256", "RSA-OAEP")
	TripleDesSha256       = suite("TripleDesSha256", 192, "SHA256", "RSA-OAEP")
	Basic256Sha256Rsa15   = suite("Basic256Sha256Rsa15", 256, "SHA256", "RSA-1_5")
	Basic192Sha256Rsa15   = suite("Basic192Sha256Rsa15", 192, "SHA256", "RSA-1_5")
	Basic128Sha256Rsa15   = suite("Basic128Sha256Rsa15", 128, "SHA256", "RSA-1_5")
	TripleDesSha256Rsa15  = suite("TripleDesSha256Rsa15", 192, "SHA256", "RSA-1_5")
	DefaultAlgorithmSuite = Basic256
)

var algorithmSuites = NewNamed("algorithm-suite",
	NameValue[AlgorithmSuite]{"Default", DefaultAlgorithmSuite},
	NameValue[AlgorithmSuite]{"Basic256", Basic256},
	NameValue[AlgorithmSuite]{"Basic192", Basic192},
	NameValue[AlgorithmSuite]{"Basic128", Basic128},
	NameValue[AlgorithmSuite]{"TripleDes", TripleDes},
	NameValue[AlgorithmSuite]{"Basic256Rsa15", Basic256Rsa15},
	NameValue[AlgorithmSuite]{"Basic192Rsa15", Basic192Rsa15},
	NameValue[AlgorithmSuite]{"Basic128Rsa15", Basic128Rsa15},
	NameValue[AlgorithmSuite]{"TripleDesRsa15", TripleDesRsa15},
	NameValue[AlgorithmSuite]{"Basic256Sha256", Basic256Sha256},
	NameValue[AlgorithmSuite]{"Basic192Sha256", Basic192Sha256},
	NameValue[AlgorithmSuite]{"Basic128Sha256", Basic128Sha256},
	NameValue[AlgorithmSuite]{"TripleDesSha256", TripleDesSha256},
	NameValue[AlgorithmSuite]{"Basic256Sha256Rsa15", Basic256Sha256Rsa15},
	NameValue[AlgorithmSuite]{"Basic192Sha256Rsa15", Basic192Sha256Rsa15},
	NameValue[AlgorithmSuite]{"Basic128Sha256Rsa15", Basic128Sha256Rsa15},
	NameValue[AlgorithmSuite]{"TripleDesSha256Rsa15", TripleDesSha256Rsa15},
)

// SecurityAlgorithmSuite returns the codec for algorithm suite names.
// "Default" decodes to Basic256, which encodes back as "Default".
func SecurityAlgorithmSuite() Codec[AlgorithmSuite] { return algorithmSuites }
