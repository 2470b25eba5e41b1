package codec

import (
	"context"
	"errors"
	"net/url"
	"strings"

	js "github.com/reoring/svcconfig/jsonschema"
)

// URIKind restricts which URIs a codec accepts.
type URIKind int

const (
	RelativeOrAbsolute URIKind = iota
	Absolute
	Relative
)

// URI returns the codec for URI attributes. An empty attribute decodes to nil.
func URI(kind URIKind) Codec[*url.URL] { return uriCodec{kind: kind} }

type uriCodec struct{ kind URIKind }

func (c uriCodec) Decode(_ context.Context, s string) (*url.URL, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, invalidFormat("uri", s, err)
	}
	switch {
	case c.kind == Absolute && !u.IsAbs():
		return nil, invalidFormat("uri", s, errors.New("absolute URI required"))
	case c.kind == Relative && u.IsAbs():
		return nil, invalidFormat("uri", s, errors.New("relative URI required"))
	}
	return u, nil
}

func (uriCodec) Encode(_ context.Context, u *url.URL) (string, error) {
	if u == nil {
		return "", nil
	}
	return u.String(), nil
}

func (c uriCodec) JSONSchema() (*js.Schema, error) {
	if c.kind == Absolute {
		return &js.Schema{Type: "string", Format: "uri"}, nil
	}
	return &js.Schema{Type: "string", Format: "uri-reference"}, nil
}
