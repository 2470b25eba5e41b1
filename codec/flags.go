package codec

import (
	"context"
	"strings"

	svcconfig "github.com/reoring/svcconfig"
	"github.com/reoring/svcconfig/i18n"
	js "github.com/reoring/svcconfig/jsonschema"
)

// Flags is a Codec for bit sets written as comma-separated names, for
// example "Tls, Tls11, Tls12". A pair whose value is zero names the empty set.
type Flags[T ~uint32] struct {
	format string
	pairs  []NameValue[T]
}

// NewFlags builds a flag table. pairs are in canonical output order.
func NewFlags[T ~uint32](format string, pairs ...NameValue[T]) *Flags[T] {
	return &Flags[T]{format: format, pairs: pairs}
}

// Names returns the flag names in canonical order.
func (f *Flags[T]) Names() []string {
	out := make([]string, len(f.pairs))
	for i, p := range f.pairs {
		out[i] = p.Name
	}
	return out
}

func (f *Flags[T]) Decode(_ context.Context, s string) (T, error) {
	var v T
	if strings.TrimSpace(s) == "" {
		return v, invalidEnum(s, f.Names())
	}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		found := false
		for _, p := range f.pairs {
			if strings.EqualFold(p.Name, part) {
				v |= p.Value
				found = true
				break
			}
		}
		if !found {
			return 0, invalidEnum(part, f.Names())
		}
	}
	return v, nil
}

func (f *Flags[T]) Encode(_ context.Context, v T) (string, error) {
	var names []string
	rest := v
	for _, p := range f.pairs {
		switch {
		case p.Value == 0:
			if v == 0 {
				return p.Name, nil
			}
		case p.Value == v:
			return p.Name, nil
		case rest&p.Value == p.Value:
			names = append(names, p.Name)
			rest &^= p.Value
		}
	}
	if rest != 0 || len(names) == 0 {
		return "", svcconfig.Issues{{Path: "/", Code: svcconfig.CodeInvalidEnum, Message: i18n.T(svcconfig.CodeInvalidEnum, map[string]string{"value": "(unnamed)", "expected": strings.Join(f.Names(), ", ")})}}
	}
	return strings.Join(names, ", "), nil
}

func (f *Flags[T]) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "string", Format: f.format}, nil
}
