// Package engine enforces structural limits on parsed configuration trees
// before they are bound to schemas.
package engine

// Tree is the minimal read-only view of a configuration element the engine
// walks. The root package adapts its Node type to it.
type Tree interface {
	Label() string
	AttrNames() []string
	Len() int
	At(i int) Tree
}

// DuplicateStrictness controls duplicate attribute handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// SimpleIssue is a minimal issue representation used by internal helpers.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
}
