package svcconfig

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType        = "invalid_type"
	CodeRequired           = "required"
	CodeUnknownAttribute   = "unknown_attribute"
	CodeUnknownElement     = "unknown_element"
	CodeDuplicateKey       = "duplicate_key"
	CodeDuplicateAttribute = "duplicate_attribute"
	CodeDuplicateElement   = "duplicate_element"
	CodeTooSmall           = "too_small"
	CodeTooBig             = "too_big"
	CodeTooShort           = "too_short"
	CodeTooLong            = "too_long"
	CodePattern            = "pattern"
	CodeInvalidEnum        = "invalid_enum"
	CodeInvalidFormat      = "invalid_format"
	CodeParseError         = "parse_error"
	CodeTruncated          = "truncated"
	// Extension dispatch
	CodeUnknownExtension  = "unknown_extension"
	CodeExtensionConflict = "extension_conflict"
	// Cross-element semantics
	CodeNotFound       = "not_found"
	CodeAmbiguousMatch = "ambiguous_match"
	CodeCustom         = "custom"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // Node path (for example: /services/service[name=S]/endpoint[0]/@binding).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, accepted values, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min":1, "got":0}) for i18n.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Message != "" {
			fmt.Fprintf(b, " (%s)", it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// RebaseIssues converts err into Issues whose paths are prefixed with base.
// Non-Issues errors become a single parse_error at base.
func RebaseIssues(base string, err error) Issues {
	if err == nil {
		return nil
	}
	child, ok := AsIssues(err)
	if !ok {
		return Issues{Issue{Path: normalizePath(base), Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	out := make(Issues, 0, len(child))
	for _, it := range child {
		it.Path = JoinPath(base, it.Path)
		out = append(out, it)
	}
	return out
}

// ToIssues wraps any error as Issues without changing paths of existing issues.
func ToIssues(err error) Issues {
	if err == nil {
		return nil
	}
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	return Issues{Issue{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
}

func singleIssue(code, msg string) Issues { return AppendIssues(nil, Issue{Path: "/", Code: code, Message: msg}) }
