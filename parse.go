package svcconfig

import (
	"bytes"
	"context"
	"io"

	eng "github.com/reoring/svcconfig/internal/engine"
)

// ParseFrom is the primary entry point. It reads the document element from
// the Source, enforces structural limits and delegates binding to the Schema.
func ParseFrom[T any](ctx context.Context, s Schema[T], src Source, opts ...ParseOpt) (T, error) {
	var zero T
	if s == nil {
		return zero, singleIssue(CodeParseError, "nil schema")
	}
	opt := lastOpt(opts)
	root, err := loadRoot(src, opt)
	if err != nil {
		return zero, err
	}
	return s.Parse(parseContext(ctx, opt), root)
}

// ParseFromWithMeta collects presence metadata alongside the parsed value.
// Presence collection is enabled unless the options configure it explicitly.
func ParseFromWithMeta[T any](ctx context.Context, s Schema[T], src Source, opts ...ParseOpt) (Decoded[T], error) {
	var zero Decoded[T]
	if s == nil {
		return zero, singleIssue(CodeParseError, "nil schema")
	}
	opt := normalizeWithMetaOpt(opts)
	root, err := loadRoot(src, opt)
	if err != nil {
		return zero, err
	}
	dm, err := s.ParseWithMeta(parseContext(ctx, opt), root)
	dm.Presence = applyPresenceOptions(dm.Presence, opt.Presence)
	return dm, err
}

// ParseReader reads r through driver d, enforcing MaxBytes up front.
func ParseReader[T any](ctx context.Context, s Schema[T], d Driver, r io.Reader, opts ...ParseOpt) (T, error) {
	var zero T
	if d == nil {
		return zero, singleIssue(CodeParseError, "nil driver")
	}
	opt := lastOpt(opts)
	if opt.MaxBytes > 0 {
		data, err := ReadLimited(r, opt.MaxBytes)
		if err != nil {
			return zero, err
		}
		return ParseFrom[T](ctx, s, d.NewBytes(data), opts...)
	}
	return ParseFrom[T](ctx, s, d.NewReader(r), opts...)
}

// ReadLimited reads r fully, failing with a truncated issue beyond max bytes.
func ReadLimited(r io.Reader, max int64) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(r, max+1)); err != nil {
		return nil, singleIssue(CodeParseError, err.Error())
	}
	if int64(buf.Len()) > max {
		return nil, singleIssue(CodeTruncated, "max bytes exceeded")
	}
	return buf.Bytes(), nil
}

// LoadRoot reads the document element of src and applies the structural
// enforcement of opt (depth, node count, duplicate attributes).
func LoadRoot(src Source, opts ...ParseOpt) (*Node, error) { return loadRoot(src, lastOpt(opts)) }

// ContextFor returns ctx carrying the parse-time options of opt.
func ContextFor(ctx context.Context, opts ...ParseOpt) context.Context {
	return parseContext(ctx, lastOpt(opts))
}

// ---- helpers (parse options, enforcement, error mapping) ----

func lastOpt(opts []ParseOpt) ParseOpt {
	var opt ParseOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	return opt
}

func normalizeWithMetaOpt(opts []ParseOpt) ParseOpt {
	opt := lastOpt(opts)
	if !opt.Presence.Collect && len(opt.Presence.Include) == 0 && len(opt.Presence.Exclude) == 0 {
		opt.Presence.Collect = true
	}
	return opt
}

func parseContext(ctx context.Context, opt ParseOpt) context.Context {
	if opt.FailFast {
		ctx = WithFailFast(ctx, true)
	}
	if opt.Unknown != UnknownDefault {
		ctx = WithUnknownPolicy(ctx, opt.Unknown)
	}
	return ctx
}

func loadRoot(src Source, opt ParseOpt) (*Node, error) {
	if src == nil {
		return nil, singleIssue(CodeParseError, "nil source")
	}
	root, err := src.Root()
	if err != nil {
		return nil, ToIssues(err)
	}
	if opt.DuplicateAttrs == Ignore && opt.MaxDepth == 0 && opt.MaxNodes == 0 {
		return root, nil
	}
	var sink func(eng.SimpleIssue)
	if opt.IssueSink != nil {
		sink = func(si eng.SimpleIssue) {
			opt.IssueSink(Issue{Path: si.Path, Code: si.Code, Message: si.Message})
		}
	}
	found := eng.Enforce(nodeView{root}, eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.DuplicateAttrs),
		MaxDepth:    opt.MaxDepth,
		MaxNodes:    opt.MaxNodes,
		IssueSink:   sink,
		FailFast:    opt.FailFast,
	})
	if len(found) == 0 {
		return root, nil
	}
	iss := make(Issues, 0, len(found))
	for _, si := range found {
		iss = append(iss, Issue{Path: si.Path, Code: si.Code, Message: si.Message})
	}
	return nil, iss
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Warn:
		return eng.DupWarn
	case Error:
		return eng.DupError
	default:
		return eng.DupIgnore
	}
}

// nodeView adapts *Node to engine.Tree.
type nodeView struct{ n *Node }

func (v nodeView) Label() string { return v.n.Name }
func (v nodeView) AttrNames() []string {
	out := make([]string, len(v.n.Attrs))
	for i, a := range v.n.Attrs {
		out[i] = a.Name
	}
	return out
}
func (v nodeView) Len() int             { return len(v.n.Children) }
func (v nodeView) At(i int) eng.Tree    { return nodeView{v.n.Children[i]} }
