package svcconfig

import (
	"fmt"
	"strconv"
	"strings"
)

// PathRef builds node paths in a chain-safe way and creates Issues.
//
// Paths look like /bindings/basicHttpBinding/binding[name=a]/security/@mode:
// element segments, keyed or indexed items, and a trailing @attribute.
type PathRef struct {
	parts []string
}

// Root returns the path of the document element.
func Root() PathRef { return PathRef{} }

// Elem appends a child element segment.
func (p PathRef) Elem(name string) PathRef {
	if name == "" {
		return p
	}
	return p.with(name)
}

// Index appends a positional item segment: name[i].
func (p PathRef) Index(name string, i int) PathRef {
	return p.with(name + "[" + strconv.Itoa(i) + "]")
}

// Keyed appends a keyed item segment from attribute/value pairs:
// name[a=1,b=2]. Empty values are skipped; with no non-empty value the
// segment falls back to the bare name.
func (p PathRef) Keyed(name string, pairs ...string) PathRef {
	var kv []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		kv = append(kv, pairs[i]+"="+pairs[i+1])
	}
	if len(kv) == 0 {
		return p.with(name)
	}
	return p.with(name + "[" + strings.Join(kv, ",") + "]")
}

// Attr appends an attribute segment.
func (p PathRef) Attr(name string) PathRef { return p.with("@" + name) }

func (p PathRef) with(seg string) PathRef {
	parts := make([]string, len(p.parts), len(p.parts)+1)
	copy(parts, p.parts)
	return PathRef{parts: append(parts, seg)}
}

// String renders the path; the root renders as "/".
func (p PathRef) String() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

// Issue creates an Issue at p. kv are alternating parameter names and values.
func (p PathRef) Issue(code, msg string, kv ...any) Issue {
	var m map[string]any
	if len(kv) > 1 {
		m = map[string]any{}
		for i := 0; i+1 < len(kv); i += 2 {
			m[fmt.Sprint(kv[i])] = kv[i+1]
		}
	}
	return Issue{Path: p.String(), Code: code, Message: msg, Params: m}
}

// JoinPath prefixes a relative path ("/" meaning the node itself) with base.
func JoinPath(base, rel string) string {
	base = normalizePath(base)
	rel = normalizePath(rel)
	switch {
	case rel == "/":
		return base
	case base == "/":
		return rel
	default:
		return base + rel
	}
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		return "/" + p
	}
	return p
}
