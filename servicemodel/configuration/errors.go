package configuration

import (
	"errors"
	"fmt"
)

// Sentinel errors returned (wrapped) by the registry and the loader. Match
// them with errors.Is.
var (
	ErrNotFound             = errors.New("configuration: not found")
	ErrAmbiguousMatch       = errors.New("configuration: ambiguous match")
	ErrExtensionConflict    = errors.New("configuration: extension conflict")
	ErrInvalidConfiguration = errors.New("configuration: invalid configuration")
	ErrUnsupported          = errors.New("configuration: unsupported")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}
