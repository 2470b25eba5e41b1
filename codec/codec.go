// Package codec holds the scalar converters used by configuration attributes:
// text <-> typed value, with JSON Schema projection.
package codec

import (
	"context"
	"sort"
	"strings"

	svcconfig "github.com/reoring/svcconfig"
	"github.com/reoring/svcconfig/i18n"
	js "github.com/reoring/svcconfig/jsonschema"
)

// Codec converts between the attribute text and the typed value T.
type Codec[T any] interface {
	Decode(ctx context.Context, s string) (T, error)
	Encode(ctx context.Context, v T) (string, error)
	JSONSchema() (*js.Schema, error)
}

// Func builds a Codec from plain functions.
func Func[T any](decode func(string) (T, error), encode func(T) (string, error), schema func() *js.Schema) Codec[T] {
	return funcCodec[T]{decode: decode, encode: encode, schema: schema}
}

type funcCodec[T any] struct {
	decode func(string) (T, error)
	encode func(T) (string, error)
	schema func() *js.Schema
}

func (c funcCodec[T]) Decode(_ context.Context, s string) (T, error) { return c.decode(s) }
func (c funcCodec[T]) Encode(_ context.Context, v T) (string, error) { return c.encode(v) }
func (c funcCodec[T]) JSONSchema() (*js.Schema, error) {
	if c.schema == nil {
		return &js.Schema{Type: "string"}, nil
	}
	return c.schema(), nil
}

// Named is a Codec over a fixed table of case-insensitive names.
// Several names may map to equal values; Encode uses the first name
// registered for a value.
type Named[T comparable] struct {
	format string
	names  []string
	byName map[string]T
	byVal  map[T]string
}

// NewNamed builds a name table. pairs are name/value entries in canonical order.
func NewNamed[T comparable](format string, pairs ...NameValue[T]) *Named[T] {
	n := &Named[T]{format: format, byName: map[string]T{}, byVal: map[T]string{}}
	for _, p := range pairs {
		n.names = append(n.names, p.Name)
		n.byName[strings.ToLower(p.Name)] = p.Value
		if _, ok := n.byVal[p.Value]; !ok {
			n.byVal[p.Value] = p.Name
		}
	}
	return n
}

// NameValue is one entry of a Named table.
type NameValue[T comparable] struct {
	Name  string
	Value T
}

// Names returns the accepted names in canonical order.
func (n *Named[T]) Names() []string { return append([]string(nil), n.names...) }

func (n *Named[T]) Decode(_ context.Context, s string) (T, error) {
	if v, ok := n.byName[strings.ToLower(strings.TrimSpace(s))]; ok {
		return v, nil
	}
	var zero T
	return zero, invalidEnum(s, n.names)
}

func (n *Named[T]) Encode(_ context.Context, v T) (string, error) {
	if s, ok := n.byVal[v]; ok {
		return s, nil
	}
	return "", svcconfig.Issues{{Path: "/", Code: svcconfig.CodeInvalidEnum, Message: i18n.T(svcconfig.CodeInvalidEnum, map[string]string{"value": "(unnamed)", "expected": strings.Join(n.names, ", ")})}}
}

func (n *Named[T]) JSONSchema() (*js.Schema, error) {
	enum := make([]any, 0, len(n.names))
	for _, s := range n.names {
		enum = append(enum, s)
	}
	return &js.Schema{Type: "string", Format: n.format, Enum: enum}, nil
}

func invalidEnum(got string, expected []string) svcconfig.Issues {
	exp := append([]string(nil), expected...)
	sort.Strings(exp)
	return svcconfig.Issues{{
		Path:    "/",
		Code:    svcconfig.CodeInvalidEnum,
		Message: i18n.T(svcconfig.CodeInvalidEnum, map[string]string{"value": got, "expected": strings.Join(exp, ", ")}),
		Hint:    "accepted: " + strings.Join(exp, ", "),
		Params:  map[string]any{"got": got, "expected": exp},
	}}
}

func invalidFormat(format, got string, cause error) svcconfig.Issues {
	return svcconfig.Issues{{
		Path:    "/",
		Code:    svcconfig.CodeInvalidFormat,
		Message: i18n.T(svcconfig.CodeInvalidFormat, map[string]string{"format": format, "value": got}),
		Cause:   cause,
		Params:  map[string]any{"format": format, "got": got},
	}}
}
