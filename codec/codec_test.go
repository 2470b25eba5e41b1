package codec

import (
	"context"
	"testing"

	svcconfig "github.com/reoring/svcconfig"
)

func TestSecurityAlgorithmSuite_DefaultIsBasic256(t *testing.T) {
	ctx := context.Background()
	c := SecurityAlgorithmSuite()
	d, err := c.Decode(ctx, "default")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d != Basic256 {
		t.Fatalf("Default should be Basic256, got %+v", d)
	}
	s, err := c.Encode(ctx, Basic256)
	if err != nil || s != "Default" {
		t.Fatalf("Basic256 should encode as Default, got %q %v", s, err)
	}
	v, err := c.Decode(ctx, "TripleDesSha256Rsa15")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.Encryption != "TripleDES" || v.Digest != "SHA256" || v.AsymmetricKeyWrap != "RSA-1_5" {
		t.Fatalf("unexpected suite: %+v", v)
	}
}

func TestSecurityAlgorithmSuite_Unknown(t *testing.T) {
	_, err := SecurityAlgorithmSuite().Decode(context.Background(), "Basic512")
	iss, ok := svcconfig.AsIssues(err)
	if !ok || iss[0].Code != svcconfig.CodeInvalidEnum {
		t.Fatalf("expected invalid_enum, got %v", err)
	}
	if iss[0].Hint == "" {
		t.Fatalf("expected accepted names in hint")
	}
}

func TestEncoding_Names(t *testing.T) {
	ctx := context.Background()
	c := Encoding()
	for in, want := range map[string]string{
		"utf-8":       "utf-8",
		"UTF-16":      "utf-16",
		"unicodeFFFE": "unicodeFFFE",
		"utf-16BE":    "unicodeFFFE",
		"us-ascii":    "us-ascii",
		"iso-8859-1":  "iso-8859-1",
	} {
		e, err := c.Decode(ctx, in)
		if err != nil {
			t.Fatalf("decode %q: %v", in, err)
		}
		if e.Encoding == nil {
			t.Fatalf("decode %q: nil encoding", in)
		}
		got, _ := c.Encode(ctx, e)
		if got != want {
			t.Fatalf("encode %q: got %q want %q", in, got, want)
		}
	}
	if _, err := c.Decode(ctx, "klingon-1"); err == nil {
		t.Fatalf("expected error for unknown encoding")
	}
}

func TestMessageVersion_Default(t *testing.T) {
	ctx := context.Background()
	v, err := MessageVersionCodec().Decode(ctx, "Default")
	if err != nil || v != MessageVersionSoap12WSAddressing10 {
		t.Fatalf("unexpected %v %v", v, err)
	}
	s, _ := MessageVersionCodec().Encode(ctx, v)
	if s != "Soap12WSAddressing10" {
		t.Fatalf("unexpected canonical name %q", s)
	}
}

func TestStoreCodecs_CaseInsensitive(t *testing.T) {
	ctx := context.Background()
	loc, err := StoreLocationCodec().Decode(ctx, "localmachine")
	if err != nil || loc != LocalMachine {
		t.Fatalf("unexpected %v %v", loc, err)
	}
	name, err := StoreNameCodec().Decode(ctx, "trustedpeople")
	if err != nil || name != StoreTrustedPeople {
		t.Fatalf("unexpected %v %v", name, err)
	}
	ft, err := FindTypeCodec().Decode(ctx, "findbythumbprint")
	if err != nil || ft != FindByThumbprint {
		t.Fatalf("unexpected %v %v", ft, err)
	}
}

func TestURI_Kinds(t *testing.T) {
	ctx := context.Background()
	if u, err := URI(Absolute).Decode(ctx, "http://localhost:8080/svc"); err != nil || u.Host != "localhost:8080" {
		t.Fatalf("unexpected %v %v", u, err)
	}
	if _, err := URI(Absolute).Decode(ctx, "svc"); err == nil {
		t.Fatalf("relative URI should be rejected")
	}
	if _, err := URI(Relative).Decode(ctx, "http://x/"); err == nil {
		t.Fatalf("absolute URI should be rejected")
	}
	if u, err := URI(RelativeOrAbsolute).Decode(ctx, ""); err != nil || u != nil {
		t.Fatalf("empty URI should decode to nil, got %v %v", u, err)
	}
}
