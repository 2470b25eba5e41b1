package codec

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"

	js "github.com/reoring/svcconfig/jsonschema"
)

// TextEncoding is a character encoding named in configuration.
type TextEncoding struct {
	Name     string // canonical configuration name, e.g. "utf-8"
	Encoding encoding.Encoding
}

// Equal compares encodings by canonical name.
func (e TextEncoding) Equal(o TextEncoding) bool { return strings.EqualFold(e.Name, o.Name) }

func (e TextEncoding) String() string { return e.Name }

var (
	UTF8      = TextEncoding{Name: "utf-8", Encoding: unicode.UTF8}
	UTF16     = TextEncoding{Name: "utf-16", Encoding: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)}
	UTF16BE   = TextEncoding{Name: "unicodeFFFE", Encoding: unicode.UTF16(unicode.BigEndian, unicode.UseBOM)}
	wellKnown = map[string]TextEncoding{
		"utf-8":       UTF8,
		"utf-16":      UTF16,
		"unicode":     UTF16,
		"utf-16le":    UTF16,
		"unicodefffe": UTF16BE,
		"utf-16be":    UTF16BE,
	}
)

// LookupEncoding resolves an encoding name. The UTF-16 family follows the
// configuration conventions (utf-16 is little-endian, unicodeFFFE is
// big-endian); every other name goes through the IANA registry.
func LookupEncoding(name string) (TextEncoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if e, ok := wellKnown[key]; ok {
		return e, nil
	}
	enc, err := ianaindex.IANA.Encoding(key)
	if err != nil {
		return TextEncoding{}, err
	}
	if enc == nil {
		return TextEncoding{}, fmt.Errorf("encoding %q is not supported", name)
	}
	canonical, err := ianaindex.MIME.Name(enc)
	if err != nil {
		if canonical, err = ianaindex.IANA.Name(enc); err != nil {
			canonical = key
		}
	}
	return TextEncoding{Name: strings.ToLower(canonical), Encoding: enc}, nil
}

// Encoding returns the codec for encoding names.
func Encoding() Codec[TextEncoding] { return encodingCodec{} }

type encodingCodec struct{}

func (encodingCodec) Decode(_ context.Context, s string) (TextEncoding, error) {
	e, err := LookupEncoding(s)
	if err != nil {
		return TextEncoding{}, invalidFormat("encoding", s, err)
	}
	return e, nil
}

func (encodingCodec) Encode(_ context.Context, e TextEncoding) (string, error) {
	if e.Name == "" {
		return UTF8.Name, nil
	}
	return e.Name, nil
}

func (encodingCodec) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "string", Format: "encoding"}, nil
}
