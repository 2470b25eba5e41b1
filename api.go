package svcconfig

import (
	"context"
	"errors"

	js "github.com/reoring/svcconfig/jsonschema"
)

// Schema describes one configuration element: how its attributes and children
// bind to T, how T is validated and how T is written back.
type Schema[T any] interface {
	// ElementName is the element name the schema binds (e.g. "binding").
	ElementName() string

	// Parse binds the element n into T: attributes, defaults, validators, then
	// the schema's normalize and refine hooks. It returns Issues on failure.
	Parse(ctx context.Context, n *Node) (T, error)
	// ParseWithMeta returns the typed value together with presence metadata.
	ParseWithMeta(ctx context.Context, n *Node) (Decoded[T], error)

	// ValidateValue verifies a value already typed as T (validators and Refine).
	ValidateValue(ctx context.Context, v T) error

	// Encode writes every attribute of v.
	Encode(ctx context.Context, v T) (*Node, error)
	// EncodePreserving omits attributes and children that only came from
	// defaults according to the presence metadata.
	EncodePreserving(ctx context.Context, d Decoded[T]) (*Node, error)

	// JSONSchema projects the schema into a JSON Schema representation.
	JSONSchema() (*js.Schema, error)
}

// EncodeMode exposes canonical vs preserving output intent at call sites.
type EncodeMode int

const (
	EncodeCanonical EncodeMode = iota
	EncodePreserve
)

// ErrEncodePreserveRequiresPresence indicates EncodePreserve was requested without presence metadata.
var ErrEncodePreserveRequiresPresence = errors.New("svcconfig: encode preserve requires presence; supply Decoded via EncodeWithDecoded")

// EncodeWithMode encodes v using the given mode. EncodePreserve needs presence
// metadata and therefore fails here; use EncodeWithDecoded.
func EncodeWithMode[T any](ctx context.Context, s Schema[T], v T, mode EncodeMode) (*Node, error) {
	if mode == EncodePreserve {
		return nil, ErrEncodePreserveRequiresPresence
	}
	return s.Encode(ctx, v)
}

// EncodeWithDecoded encodes a decoded value, honoring presence in EncodePreserve mode.
func EncodeWithDecoded[T any](ctx context.Context, s Schema[T], d Decoded[T], mode EncodeMode) (*Node, error) {
	if mode == EncodePreserve {
		return s.EncodePreserving(ctx, d)
	}
	return s.Encode(ctx, d.Value)
}

// SafeParse parses n into T, returning (zero, false) on validation error.
func SafeParse[T any](ctx context.Context, s Schema[T], n *Node) (T, bool) {
	val, err := s.Parse(ctx, n)
	if err != nil {
		var zero T
		return zero, false
	}
	return val, true
}

// ---- parse-time context options, read by dsl ----

type contextKey int

const (
	_ctxKeyFailFast contextKey = iota
	_ctxKeyUnknown
)

// WithFailFast returns a child context that marks fail-fast parsing behavior.
// This is set by ParseFrom based on ParseOpt and consumed by schema implementations.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether the current parse should stop on the first issue.
func IsFailFast(ctx context.Context) bool {
	b, _ := ctx.Value(_ctxKeyFailFast).(bool)
	return b
}

// WithUnknownPolicy forces an unknown policy on every element parsed with ctx.
func WithUnknownPolicy(ctx context.Context, p UnknownPolicy) context.Context {
	return context.WithValue(ctx, _ctxKeyUnknown, p)
}

// UnknownPolicyFrom returns the forced unknown policy, if any.
func UnknownPolicyFrom(ctx context.Context) (UnknownPolicy, bool) {
	p, ok := ctx.Value(_ctxKeyUnknown).(UnknownPolicy)
	return p, ok
}
