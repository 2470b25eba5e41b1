package svcconfig

import (
	"slices"
	"sort"
	"strings"
)

// Presence is the bit flag collected by WithMeta APIs.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Attribute or element appeared in the input.
	PresenceDefaultApplied                      // Default value was applied.
)

// PresenceMap maps node paths to Presence flags.
type PresenceMap map[string]Presence

// Decoded carries the parsed value along with presence metadata.
type Decoded[T any] struct {
	Value    T
	Presence PresenceMap
	// Locks holds the lock attributes written in the document, keyed by
	// element path.
	Locks map[string]Locks
}

// ValueOrigin tells whether a value was written in the document or came from
// the schema default.
type ValueOrigin int

const (
	OriginDefault ValueOrigin = iota
	OriginSetHere
)

func (o ValueOrigin) String() string {
	if o == OriginSetHere {
		return "SetHere"
	}
	return "Default"
}

// Origin returns the origin of the value at path.
func (pm PresenceMap) Origin(path string) ValueOrigin {
	if pm[normalizePath(path)]&PresenceSeen != 0 {
		return OriginSetHere
	}
	return OriginDefault
}

// DefaultOnly reports whether path was materialized only by a default.
func (pm PresenceMap) DefaultOnly(path string) bool {
	p := pm[normalizePath(path)]
	return p&PresenceDefaultApplied != 0 && p&PresenceSeen == 0
}

// Mark ORs flags into path.
func (pm PresenceMap) Mark(path string, p Presence) { pm[normalizePath(path)] |= p }

// Merge copies every entry of child into pm, rebased under base.
func (pm PresenceMap) Merge(base string, child PresenceMap) {
	for k, v := range child {
		pm[JoinPath(base, k)] |= v
	}
}

// Sub returns the entries below base, relative to it.
func (pm PresenceMap) Sub(base string) PresenceMap {
	if pm == nil {
		return nil
	}
	base = normalizePath(base)
	out := PresenceMap{}
	for k, v := range pm {
		switch {
		case k == base:
			out["/"] |= v
		case base == "/":
			out[k] |= v
		case strings.HasPrefix(k, base+"/"):
			out[k[len(base):]] |= v
		}
	}
	return out
}

// Origin returns the origin of the value at path.
func (d Decoded[T]) Origin(path string) ValueOrigin { return d.Presence.Origin(path) }

func applyPresenceOptions(pm PresenceMap, popt PresenceOpt) PresenceMap {
	if pm == nil || !popt.Collect {
		return nil
	}
	if len(popt.Include) == 0 && len(popt.Exclude) == 0 {
		return pm
	}
	shouldInclude := func(path string) bool {
		if len(popt.Include) > 0 {
			ok := false
			for _, p := range popt.Include {
				if strings.HasPrefix(path, p) {
					ok = true
					break
				}
			}
			if !ok {
				return false
			}
		}
		for _, p := range popt.Exclude {
			if strings.HasPrefix(path, p) {
				return false
			}
		}
		return true
	}
	filtered := make(PresenceMap, len(pm))
	for k, v := range pm {
		if shouldInclude(k) {
			filtered[k] = v
		}
	}
	return filtered
}

// ElementInfo records which attributes and child elements of one element were
// written in the document. Element schemas fill a field of this type when the
// bound struct declares one.
type ElementInfo struct {
	Present bool     // The element itself appeared in the document.
	Set     []string // Attribute and child element names written, sorted.
	Locks   Locks
}

// IsSet reports whether name was written in the document.
func (e ElementInfo) IsSet(name string) bool {
	i := sort.SearchStrings(e.Set, name)
	return i < len(e.Set) && e.Set[i] == name
}

// Origin returns the origin of the attribute or child element name.
func (e ElementInfo) Origin(name string) ValueOrigin {
	if e.IsSet(name) {
		return OriginSetHere
	}
	return OriginDefault
}

// MarkSet records name as written. Set is copied first, so copies of an
// ElementInfo never share the insert.
func (e *ElementInfo) MarkSet(name string) {
	i := sort.SearchStrings(e.Set, name)
	if i < len(e.Set) && e.Set[i] == name {
		return
	}
	e.Set = append(slices.Clone(e.Set), "")
	copy(e.Set[i+1:], e.Set[i:])
	e.Set[i] = name
}
