package svcconfig_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	svcconfig "github.com/reoring/svcconfig"
	g "github.com/reoring/svcconfig/dsl"
	_ "github.com/reoring/svcconfig/source/xml"
)

type timeouts struct {
	Open  int `config:"openTimeout"`
	Close int `config:"closeTimeout"`
}

var timeoutsSchema = g.ElementOf[timeouts]("timeouts").
	Attr("openTimeout", g.Int().Min(0)).Default(60).
	Attr("closeTimeout", g.Int().Min(0)).Default(10).
	MustBuild()

func TestParseFrom_BindsDocumentElement(t *testing.T) {
	v, err := svcconfig.ParseFrom[timeouts](context.Background(), timeoutsSchema,
		svcconfig.XMLBytes([]byte(`<timeouts openTimeout="30"/>`)))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if diff := cmp.Diff(timeouts{Open: 30, Close: 10}, v); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFrom_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := svcconfig.ParseFrom[timeouts](ctx, nil, svcconfig.XMLBytes(nil)); err == nil {
		t.Fatalf("expected error for nil schema")
	}
	_, err := svcconfig.ParseFrom[timeouts](ctx, timeoutsSchema, svcconfig.XMLBytes([]byte(`<timeouts openTimeout="-1"/>`)))
	iss, ok := svcconfig.AsIssues(err)
	if !ok || iss[0].Code != svcconfig.CodeTooSmall || iss[0].Path != "/@openTimeout" {
		t.Fatalf("expected too_small at /@openTimeout, got %v", err)
	}
	if _, ok := svcconfig.SafeParse[timeouts](ctx, timeoutsSchema, svcconfig.NewNode("timeouts").SetAttr("closeTimeout", "x")); ok {
		t.Fatalf("SafeParse should report failure")
	}
}

func TestParseFromWithMeta_Presence(t *testing.T) {
	ctx := context.Background()
	dm, err := svcconfig.ParseFromWithMeta[timeouts](ctx, timeoutsSchema,
		svcconfig.NodeSource(svcconfig.NewNode("timeouts").SetAttr("closeTimeout", "5")))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if dm.Origin("/@closeTimeout") != svcconfig.OriginSetHere {
		t.Fatalf("closeTimeout should be set here: %v", dm.Presence)
	}
	if !dm.Presence.DefaultOnly("/@openTimeout") {
		t.Fatalf("openTimeout should come from its default: %v", dm.Presence)
	}

	n, err := svcconfig.EncodeWithDecoded[timeouts](ctx, timeoutsSchema, dm, svcconfig.EncodePreserve)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, ok := n.Attr("openTimeout"); ok {
		t.Fatalf("preserving encode wrote a default: %+v", n.Attrs)
	}
	if _, err := svcconfig.EncodeWithMode[timeouts](ctx, timeoutsSchema, dm.Value, svcconfig.EncodePreserve); !errors.Is(err, svcconfig.ErrEncodePreserveRequiresPresence) {
		t.Fatalf("expected ErrEncodePreserveRequiresPresence, got %v", err)
	}
}

func TestLoadRoot_Limits(t *testing.T) {
	deep := svcconfig.NewNode("a").AddChild(svcconfig.NewNode("b").AddChild(svcconfig.NewNode("c")))
	tests := []struct {
		name string
		opt  svcconfig.ParseOpt
		code string
		path string
	}{
		{"depth", svcconfig.ParseOpt{MaxDepth: 2}, svcconfig.CodeParseError, "/b/c"},
		{"nodes", svcconfig.ParseOpt{MaxNodes: 2}, svcconfig.CodeTruncated, "/b/c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svcconfig.LoadRoot(svcconfig.NodeSource(deep), tt.opt)
			iss, ok := svcconfig.AsIssues(err)
			if !ok || iss[0].Code != tt.code || iss[0].Path != tt.path {
				t.Fatalf("want %s at %s, got %v", tt.code, tt.path, err)
			}
		})
	}
	if _, err := svcconfig.LoadRoot(svcconfig.NodeSource(deep), svcconfig.ParseOpt{MaxDepth: 3, MaxNodes: 3}); err != nil {
		t.Fatalf("limits at the boundary should pass: %v", err)
	}
}

func TestLoadRoot_DuplicateAttributes(t *testing.T) {
	n := svcconfig.NewNode("binding")
	n.Attrs = []svcconfig.Attr{{Name: "name", Value: "a"}, {Name: "name", Value: "b"}}

	if _, err := svcconfig.LoadRoot(svcconfig.NodeSource(n)); err != nil {
		t.Fatalf("duplicates are ignored by default: %v", err)
	}
	_, err := svcconfig.LoadRoot(svcconfig.NodeSource(n), svcconfig.ParseOpt{DuplicateAttrs: svcconfig.Error})
	iss, ok := svcconfig.AsIssues(err)
	if !ok || iss[0].Code != svcconfig.CodeDuplicateAttribute || iss[0].Path != "/@name" {
		t.Fatalf("expected duplicate_attribute at /@name, got %v", err)
	}

	var warned []svcconfig.Issue
	opt := svcconfig.ParseOpt{DuplicateAttrs: svcconfig.Warn, IssueSink: func(i svcconfig.Issue) { warned = append(warned, i) }}
	if _, err := svcconfig.LoadRoot(svcconfig.NodeSource(n), opt); err != nil {
		t.Fatalf("warnings must not fail the load: %v", err)
	}
	if len(warned) != 1 {
		t.Fatalf("expected one warning, got %v", warned)
	}
}

func TestParseReader_MaxBytes(t *testing.T) {
	d, err := svcconfig.DriverFor("xml")
	if err != nil {
		t.Fatalf("driver: %v", err)
	}
	data := []byte(`<timeouts openTimeout="30"/>` + strings.Repeat(" ", 1024))
	_, err = svcconfig.ParseReader[timeouts](context.Background(), timeoutsSchema, d, bytes.NewReader(data), svcconfig.ParseOpt{MaxBytes: 64})
	iss, ok := svcconfig.AsIssues(err)
	if !ok || iss[0].Code != svcconfig.CodeTruncated {
		t.Fatalf("expected truncated, got %v", err)
	}
	if _, err := svcconfig.DriverFor("toml"); err == nil {
		t.Fatalf("expected error for an unregistered format")
	}
}

func TestPathRef(t *testing.T) {
	p := svcconfig.Root().Elem("bindings").Elem("netTcpBinding").Keyed("binding", "name", "secure").Attr("maxConnections")
	if got := p.String(); got != "/bindings/netTcpBinding/binding[name=secure]/@maxConnections" {
		t.Fatalf("unexpected path %q", got)
	}
	if got := svcconfig.Root().Keyed("add", "name", "").String(); got != "/add" {
		t.Fatalf("empty key should fall back to the bare name, got %q", got)
	}
	if got := svcconfig.Root().Index("endpoint", 2).String(); got != "/endpoint[2]" {
		t.Fatalf("unexpected index path %q", got)
	}
	is := p.Issue(svcconfig.CodeTooSmall, "below minimum", "min", 1)
	if is.Params["min"] != 1 {
		t.Fatalf("params lost: %+v", is)
	}
}

func TestRebaseIssues(t *testing.T) {
	err := svcconfig.Issues{{Path: "/@mode", Code: svcconfig.CodeInvalidEnum}, {Path: "/", Code: svcconfig.CodeRequired}}
	got := svcconfig.RebaseIssues("/bindings/basicHttpBinding/binding[name=a]/security", err)
	want := []string{
		"/bindings/basicHttpBinding/binding[name=a]/security/@mode",
		"/bindings/basicHttpBinding/binding[name=a]/security",
	}
	if diff := cmp.Diff(want, []string{got[0].Path, got[1].Path}); diff != "" {
		t.Fatalf("rebased paths (-want +got):\n%s", diff)
	}
	plain := svcconfig.RebaseIssues("/client", errors.New("boom"))
	if plain[0].Code != svcconfig.CodeParseError || plain[0].Path != "/client" {
		t.Fatalf("plain errors become parse_error at base: %+v", plain)
	}
}

func TestPresenceMap_SubAndMerge(t *testing.T) {
	pm := svcconfig.PresenceMap{}
	pm.Merge("/security", svcconfig.PresenceMap{"/@mode": svcconfig.PresenceSeen, "/": svcconfig.PresenceSeen})
	want := svcconfig.PresenceMap{"/@mode": svcconfig.PresenceSeen, "/": svcconfig.PresenceSeen}
	if diff := cmp.Diff(want, pm.Sub("/security")); diff != "" {
		t.Fatalf("sub (-want +got):\n%s", diff)
	}
}

func TestNode_FindAndClone(t *testing.T) {
	root := svcconfig.NewNode("configuration").AddChild(
		svcconfig.NewNode("system.serviceModel").AddChild(svcconfig.NewNode("bindings")))
	if root.Find("system.serviceModel/bindings") == nil {
		t.Fatalf("find failed")
	}
	if root.Find("system.serviceModel/client") != nil {
		t.Fatalf("find should return nil for a missing element")
	}
	c := root.Clone()
	c.Find("system.serviceModel").SetAttr("x", "1")
	if _, ok := root.Find("system.serviceModel").Attr("x"); ok {
		t.Fatalf("clone shares state with the original")
	}
}

func TestIssues_ErrorSummary(t *testing.T) {
	iss := svcconfig.Issues{
		{Path: "/a", Code: svcconfig.CodeInvalidType},
		{Path: "/b", Code: svcconfig.CodeUnknownAttribute},
		{Path: "/c", Code: svcconfig.CodeTooShort},
		{Path: "/d", Code: svcconfig.CodeTooLong},
	}
	if got := iss.Error(); !strings.Contains(got, "invalid_type at /a") || !strings.Contains(got, "(total 4)") {
		t.Fatalf("unexpected summary %q", got)
	}
}
