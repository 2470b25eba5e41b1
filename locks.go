package svcconfig

import "strings"

// Lock attribute names every element accepts besides its declared attributes.
const (
	LockAttributesAttr          = "lockAttributes"
	LockAllAttributesExceptAttr = "lockAllAttributesExcept"
	LockElementsAttr            = "lockElements"
	LockAllElementsExceptAttr   = "lockAllElementsExcept"
	LockItemAttr                = "lockItem"
)

// LockAll locks every attribute or element when listed in lockAttributes or
// lockElements.
const LockAll = "*"

// IsLockAttr reports whether name is one of the lock attributes.
func IsLockAttr(name string) bool {
	switch name {
	case LockAttributesAttr, LockAllAttributesExceptAttr, LockElementsAttr, LockAllElementsExceptAttr, LockItemAttr:
		return true
	}
	return false
}

// Locks are the lock attributes written on one element. Lists keep the
// document order of their names.
type Locks struct {
	Attributes          []string
	AllAttributesExcept []string
	Elements            []string
	AllElementsExcept   []string
	Item                bool
}

// IsZero reports whether no lock attribute was written.
func (l Locks) IsZero() bool {
	return len(l.Attributes) == 0 && len(l.AllAttributesExcept) == 0 &&
		len(l.Elements) == 0 && len(l.AllElementsExcept) == 0 && !l.Item
}

// AttributeLocked reports whether a nested scope may not override the
// attribute name.
func (l Locks) AttributeLocked(name string) bool {
	if contains(l.Attributes, name) || contains(l.Attributes, LockAll) {
		return true
	}
	return len(l.AllAttributesExcept) > 0 && !contains(l.AllAttributesExcept, name)
}

// ElementLocked reports whether a nested scope may not override the child
// element name.
func (l Locks) ElementLocked(name string) bool {
	if contains(l.Elements, name) || contains(l.Elements, LockAll) {
		return true
	}
	return len(l.AllElementsExcept) > 0 && !contains(l.AllElementsExcept, name)
}

// Attrs renders the locks as attributes in a fixed order.
func (l Locks) Attrs() []Attr {
	var out []Attr
	add := func(name string, list []string) {
		if len(list) > 0 {
			out = append(out, Attr{Name: name, Value: strings.Join(list, ",")})
		}
	}
	add(LockAttributesAttr, l.Attributes)
	add(LockAllAttributesExceptAttr, l.AllAttributesExcept)
	add(LockElementsAttr, l.Elements)
	add(LockAllElementsExceptAttr, l.AllElementsExcept)
	if l.Item {
		out = append(out, Attr{Name: LockItemAttr, Value: "true"})
	}
	return out
}

// SplitLockList splits a lock list on ',', ':' and ';', dropping blanks.
func SplitLockList(s string) []string {
	var out []string
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ':' || r == ';' }) {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
