package svcconfig

import (
	"reflect"
	"strings"
	"unicode"
)

// ResolveStructKey applies the repository-wide rule to resolve a struct
// field's configuration name used by the DSL and PresenceMap.
// Priority: config:"name" > lower-camel field name; "-" disables the field.
func ResolveStructKey(sf reflect.StructField) string {
	if ct, ok := sf.Tag.Lookup("config"); ok {
		if i := strings.IndexByte(ct, ','); i >= 0 {
			ct = ct[:i]
		}
		if ct != "" {
			return ct
		}
	}
	return lowerCamel(sf.Name)
}

// lowerCamel maps MaxBufferSize -> maxBufferSize and HTTPGetEnabled -> httpGetEnabled.
func lowerCamel(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	i := 0
	for i < len(runes) && unicode.IsUpper(runes[i]) {
		i++
	}
	if i == 0 {
		return s
	}
	if i > 1 && i < len(runes) {
		// the last upper letter of an acronym starts the next word
		i--
	}
	for j := 0; j < i; j++ {
		runes[j] = unicode.ToLower(runes[j])
	}
	return string(runes)
}
