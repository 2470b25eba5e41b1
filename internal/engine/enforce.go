package engine

import "strconv"

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int
	MaxNodes    int
	// IssueSink is an optional callback to receive warnings (DupWarn).
	// If nil, warnings are dropped.
	IssueSink func(SimpleIssue)
	// FailFast stops at the first error-level issue.
	FailFast bool
}

// Enforce walks root depth-first and returns error-level issues: duplicate
// attribute names (DupError), maximum depth and maximum node count. Exceeding
// a limit stops the walk.
func Enforce(root Tree, opt EnforceOptions) []SimpleIssue {
	if root == nil {
		return nil
	}
	w := &walker{opt: opt}
	w.visit(root, "", 1)
	return w.issues
}

type walker struct {
	opt    EnforceOptions
	issues []SimpleIssue
	nodes  int
	halt   bool
}

func (w *walker) visit(t Tree, path string, depth int) {
	if w.halt {
		return
	}
	w.nodes++
	if w.opt.MaxDepth > 0 && depth > w.opt.MaxDepth {
		w.fatal(SimpleIssue{Code: "parse_error", Path: normalizeIssuePath(path), Message: "max depth exceeded"})
		return
	}
	if w.opt.MaxNodes > 0 && w.nodes > w.opt.MaxNodes {
		w.fatal(SimpleIssue{Code: "truncated", Path: normalizeIssuePath(path), Message: "max nodes exceeded"})
		return
	}
	if w.opt.OnDuplicate != DupIgnore {
		seen := map[string]struct{}{}
		for _, a := range t.AttrNames() {
			if _, ok := seen[a]; ok {
				si := SimpleIssue{Code: "duplicate_attribute", Path: path + "/@" + a, Message: "attribute '" + a + "' duplicated"}
				if w.opt.OnDuplicate == DupWarn {
					if w.opt.IssueSink != nil {
						w.opt.IssueSink(si)
					}
				} else {
					w.issues = append(w.issues, si)
					if w.opt.FailFast {
						w.halt = true
						return
					}
				}
			}
			seen[a] = struct{}{}
		}
	}
	n := t.Len()
	counts := make(map[string]int, n)
	for i := 0; i < n; i++ {
		counts[t.At(i).Label()]++
	}
	pos := make(map[string]int, n)
	for i := 0; i < n; i++ {
		c := t.At(i)
		label := c.Label()
		seg := label
		if counts[label] > 1 {
			seg = label + "[" + strconv.Itoa(pos[label]) + "]"
		}
		pos[label]++
		w.visit(c, path+"/"+seg, depth+1)
		if w.halt {
			return
		}
	}
}

func (w *walker) fatal(si SimpleIssue) {
	w.issues = append(w.issues, si)
	w.halt = true
}

func normalizeIssuePath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
