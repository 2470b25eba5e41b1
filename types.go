package svcconfig

// UnknownPolicy controls how unknown attributes and elements are handled.
type UnknownPolicy int

const (
	UnknownDefault UnknownPolicy = iota // Element schema decides (strict unless declared otherwise).
	UnknownStrict                       // Reject unknown attributes and elements.
	UnknownStrip                        // Drop them silently.
)

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// PresenceOpt configures presence collection for WithMeta-style parsing.
type PresenceOpt struct {
	Collect bool
	Include []string // path prefixes to keep
	Exclude []string // path prefixes to drop
}

// ParseOpt bundles parsing options.
type ParseOpt struct {
	// DuplicateAttrs decides how repeated attribute names on one element are
	// reported. XML input cannot carry them; YAML and JSON mappings can.
	DuplicateAttrs Severity
	// Unknown overrides the unknown policy of every element schema.
	Unknown  UnknownPolicy
	MaxDepth int
	MaxNodes int
	MaxBytes int64
	Presence PresenceOpt
	FailFast bool
	// IssueSink receives warnings (Severity Warn) raised during enforcement.
	IssueSink func(Issue)
}
