package dsl

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	svcconfig "github.com/reoring/svcconfig"
	"github.com/reoring/svcconfig/codec"
	"github.com/reoring/svcconfig/i18n"
	js "github.com/reoring/svcconfig/jsonschema"
)

// AttrAdapter is the untyped view of an attribute converter: text -> value,
// value -> text, value validation and JSON Schema. Chain methods add
// validators; each returns a new adapter.
type AttrAdapter struct {
	typ        reflect.Type
	parse      func(context.Context, string) (any, error)
	format     func(context.Context, any) (string, error)
	checks     []func(any) *svcconfig.Issue
	jsonSchema func() (*js.Schema, error)
}

func (ad AttrAdapter) with(check func(any) *svcconfig.Issue, schema func(*js.Schema)) AttrAdapter {
	out := ad
	out.checks = append(append([]func(any) *svcconfig.Issue(nil), ad.checks...), check)
	prev := ad.jsonSchema
	out.jsonSchema = func() (*js.Schema, error) {
		s := &js.Schema{}
		if prev != nil {
			ps, err := prev()
			if err != nil {
				return nil, err
			}
			if ps != nil {
				s = ps.Clone()
			}
		}
		schema(s)
		return s, nil
	}
	return out
}

// decode converts and validates raw text; issues are rooted at "/".
func (ad AttrAdapter) decode(ctx context.Context, raw string) (any, error) {
	v, err := ad.parse(ctx, raw)
	if err != nil {
		return nil, err
	}
	if iss := ad.validate(v); len(iss) > 0 {
		return nil, iss
	}
	return v, nil
}

func (ad AttrAdapter) validate(v any) svcconfig.Issues {
	var out svcconfig.Issues
	for _, c := range ad.checks {
		if it := c(v); it != nil {
			out = svcconfig.AppendIssues(out, *it)
		}
	}
	return out
}

func (ad AttrAdapter) encode(ctx context.Context, v any) (string, error) {
	return ad.format(ctx, v)
}

// AttrOf wraps a codec.Codec[T] as an attribute converter.
func AttrOf[T any](c codec.Codec[T]) AttrAdapter {
	var zero T
	return AttrAdapter{
		typ: reflect.TypeOf(&zero).Elem(),
		parse: func(ctx context.Context, s string) (any, error) {
			v, err := c.Decode(ctx, s)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
		format: func(ctx context.Context, v any) (string, error) {
			tv, ok := v.(T)
			if !ok {
				return "", fmt.Errorf("dsl: expected %T, got %T", zero, v)
			}
			return c.Encode(ctx, tv)
		},
		jsonSchema: c.JSONSchema,
	}
}

// String returns the string attribute converter.
func String() AttrAdapter {
	return AttrAdapter{
		typ:        reflect.TypeOf(""),
		parse:      func(_ context.Context, s string) (any, error) { return s, nil },
		format:     func(_ context.Context, v any) (string, error) { return fmt.Sprint(v), nil },
		jsonSchema: func() (*js.Schema, error) { return &js.Schema{Type: "string"}, nil },
	}
}

// Int returns the int attribute converter (32-bit range).
func Int() AttrAdapter { return intAdapter(reflect.TypeOf(0), 32) }

// Int64 returns the int64 attribute converter.
func Int64() AttrAdapter { return intAdapter(reflect.TypeOf(int64(0)), 64) }

func intAdapter(t reflect.Type, bits int) AttrAdapter {
	return AttrAdapter{
		typ: t,
		parse: func(_ context.Context, s string) (any, error) {
			n, err := strconv.ParseInt(strings.TrimSpace(s), 10, bits)
			if err != nil {
				return nil, svcconfig.Issues{{Path: "/", Code: svcconfig.CodeInvalidType, Message: i18n.T(svcconfig.CodeInvalidType, map[string]string{"value": strconv.Quote(s)}), Cause: err, Hint: "expected an integer"}}
			}
			return reflect.ValueOf(n).Convert(t).Interface(), nil
		},
		format: func(_ context.Context, v any) (string, error) {
			n, ok := asInt64(v)
			if !ok {
				return "", fmt.Errorf("dsl: expected integer, got %T", v)
			}
			return strconv.FormatInt(n, 10), nil
		},
		jsonSchema: func() (*js.Schema, error) { return &js.Schema{Type: "integer"}, nil },
	}
}

// Bool returns the boolean attribute converter (true/false, any case).
func Bool() AttrAdapter {
	return AttrAdapter{
		typ: reflect.TypeOf(false),
		parse: func(_ context.Context, s string) (any, error) {
			switch strings.ToLower(strings.TrimSpace(s)) {
			case "true":
				return true, nil
			case "false":
				return false, nil
			}
			return nil, svcconfig.Issues{{Path: "/", Code: svcconfig.CodeInvalidType, Message: i18n.T(svcconfig.CodeInvalidType, map[string]string{"value": strconv.Quote(s)}), Hint: "expected true or false"}}
		},
		format: func(_ context.Context, v any) (string, error) {
			b, ok := v.(bool)
			if !ok {
				return "", fmt.Errorf("dsl: expected bool, got %T", v)
			}
			return strconv.FormatBool(b), nil
		},
		jsonSchema: func() (*js.Schema, error) { return &js.Schema{Type: "boolean"}, nil },
	}
}

// TimeSpan returns the timespan attribute converter. Min/Max bounds do not
// apply to codec.Infinite.
func TimeSpan() AttrAdapter { return AttrOf(codec.TimeSpan()) }

// Enum returns a converter for string enums matched case-insensitively and
// written back canonically.
func Enum[T ~string](values ...T) AttrAdapter {
	pairs := make([]codec.NameValue[T], 0, len(values))
	for _, v := range values {
		pairs = append(pairs, codec.NameValue[T]{Name: string(v), Value: v})
	}
	return AttrOf[T](codec.NewNamed("", pairs...))
}

// Codec is an alias of AttrOf for call sites reading as dsl.Codec(codec.X()).
func Codec[T any](c codec.Codec[T]) AttrAdapter { return AttrOf(c) }

// ---- validators ----

// Min sets an inclusive lower bound for integers and timespans.
func (ad AttrAdapter) Min(n int64) AttrAdapter {
	return ad.with(func(v any) *svcconfig.Issue {
		if x, ok := asInt64(v); ok && x < n && !isInfinite(v) {
			return &svcconfig.Issue{Path: "/", Code: svcconfig.CodeTooSmall, Message: i18n.T(svcconfig.CodeTooSmall, map[string]string{"min": boundString(v, n)}), Params: map[string]any{"min": n, "got": x}}
		}
		return nil
	}, func(s *js.Schema) {
		if ad.typ == durationType {
			return
		}
		s.Minimum = js.Float(float64(n))
	})
}

// Max sets an inclusive upper bound for integers and timespans.
func (ad AttrAdapter) Max(n int64) AttrAdapter {
	return ad.with(func(v any) *svcconfig.Issue {
		if x, ok := asInt64(v); ok && x > n && !isInfinite(v) {
			return &svcconfig.Issue{Path: "/", Code: svcconfig.CodeTooBig, Message: i18n.T(svcconfig.CodeTooBig, map[string]string{"max": boundString(v, n)}), Params: map[string]any{"max": n, "got": x}}
		}
		return nil
	}, func(s *js.Schema) {
		if ad.typ == durationType {
			return
		}
		s.Maximum = js.Float(float64(n))
	})
}

// MinDuration and MaxDuration are the timespan spellings of Min and Max.
func (ad AttrAdapter) MinDuration(d time.Duration) AttrAdapter { return ad.Min(int64(d)) }
func (ad AttrAdapter) MaxDuration(d time.Duration) AttrAdapter { return ad.Max(int64(d)) }

// MinLength sets a minimum string length in characters.
func (ad AttrAdapter) MinLength(n int) AttrAdapter {
	return ad.with(func(v any) *svcconfig.Issue {
		if s, ok := v.(string); ok && utf8.RuneCountInString(s) < n {
			return &svcconfig.Issue{Path: "/", Code: svcconfig.CodeTooShort, Message: i18n.T(svcconfig.CodeTooShort, map[string]string{"min": strconv.Itoa(n)}), Params: map[string]any{"min": n}}
		}
		return nil
	}, func(s *js.Schema) { s.MinLength = js.Int(n) })
}

// MaxLength sets a maximum string length in characters.
func (ad AttrAdapter) MaxLength(n int) AttrAdapter {
	return ad.with(func(v any) *svcconfig.Issue {
		if s, ok := v.(string); ok && utf8.RuneCountInString(s) > n {
			return &svcconfig.Issue{Path: "/", Code: svcconfig.CodeTooLong, Message: i18n.T(svcconfig.CodeTooLong, map[string]string{"max": strconv.Itoa(n)}), Params: map[string]any{"max": n}}
		}
		return nil
	}, func(s *js.Schema) { s.MaxLength = js.Int(n) })
}

// NonEmpty is MinLength(1).
func (ad AttrAdapter) NonEmpty() AttrAdapter { return ad.MinLength(1) }

// Lower lowercases text before conversion, so values and keys compare
// case-insensitively.
func (ad AttrAdapter) Lower() AttrAdapter {
	out := ad
	parse := ad.parse
	out.parse = func(ctx context.Context, s string) (any, error) { return parse(ctx, strings.ToLower(s)) }
	return out
}

// Pattern requires string values to match expr. It panics on an invalid expression.
func (ad AttrAdapter) Pattern(expr string) AttrAdapter {
	re := regexp.MustCompile(expr)
	return ad.with(func(v any) *svcconfig.Issue {
		if s, ok := v.(string); ok && !re.MatchString(s) {
			return &svcconfig.Issue{Path: "/", Code: svcconfig.CodePattern, Message: i18n.T(svcconfig.CodePattern, map[string]string{"pattern": expr}), Params: map[string]any{"pattern": expr}}
		}
		return nil
	}, func(s *js.Schema) { s.Pattern = expr })
}

// Check adds a custom validator. fn returns a message for invalid values.
func (ad AttrAdapter) Check(fn func(any) string) AttrAdapter {
	return ad.with(func(v any) *svcconfig.Issue {
		if msg := fn(v); msg != "" {
			return &svcconfig.Issue{Path: "/", Code: svcconfig.CodeCustom, Message: msg}
		}
		return nil
	}, func(*js.Schema) {})
}

// ---- helpers ----

var durationType = reflect.TypeOf(time.Duration(0))

func asInt64(v any) (int64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	}
	return 0, false
}

func isInfinite(v any) bool {
	d, ok := v.(time.Duration)
	return ok && d == codec.Infinite
}

func boundString(v any, n int64) string {
	if _, ok := v.(time.Duration); ok {
		return codec.FormatTimeSpan(time.Duration(n))
	}
	return strconv.FormatInt(n, 10)
}
