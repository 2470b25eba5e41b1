package dsl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	svcconfig "github.com/reoring/svcconfig"
	"github.com/reoring/svcconfig/codec"
	g "github.com/reoring/svcconfig/dsl"
)

type mode string

const (
	modeNone      mode = "None"
	modeTransport mode = "Transport"
)

type security struct {
	Mode mode
}

type binding struct {
	Info         svcconfig.ElementInfo
	Name         string
	SendTimeout  time.Duration
	MaxConns     int `config:"maxConnections"`
	Security     security
	TextEncoding codec.TextEncoding
}

type section struct {
	Bindings g.Collection[binding] `config:"binding"`
}

func schemas() (*g.ElementSchema[binding], *g.ElementSchema[section]) {
	sec := g.ElementOf[security]("security").
		Attr("mode", g.Enum(modeNone, modeTransport)).Default(modeNone).
		MustBuild()
	b := g.ElementOf[binding]("binding").
		Attr("name", g.String()).Key().Required().
		Attr("sendTimeout", g.TimeSpan().Min(0).MaxDuration(codec.MaxTimeout)).Default(time.Minute).
		Attr("maxConnections", g.Int().Min(0)).Default(10).
		Attr("textEncoding", g.AttrOf(codec.Encoding())).Default(codec.UTF8).
		Child("security", sec).
		MustBuild()
	s := g.ElementOf[section]("basicHttpBinding").
		Collection("binding", b).
		MustBuild()
	return b, s
}

func TestElement_DefaultsAndConversion(t *testing.T) {
	ctx := context.Background()
	b, _ := schemas()
	n := svcconfig.NewNode("binding").SetAttr("name", "a").SetAttr("sendTimeout", "00:00:30")
	n.AddChild(svcconfig.NewNode("security").SetAttr("mode", "transport"))

	got, err := b.Parse(ctx, n)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := binding{
		Info:         svcconfig.ElementInfo{Present: true, Set: []string{"name", "security", "sendTimeout"}},
		Name:         "a",
		SendTimeout:  30 * time.Second,
		MaxConns:     10,
		Security:     security{Mode: modeTransport},
		TextEncoding: codec.UTF8,
	}
	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b codec.TextEncoding) bool { return a.Equal(b) })); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if got.Info.Origin("maxConnections") != svcconfig.OriginDefault || got.Info.Origin("name") != svcconfig.OriginSetHere {
		t.Fatalf("unexpected origins: %+v", got.Info)
	}
}

func TestElement_IssuePaths(t *testing.T) {
	ctx := context.Background()
	_, s := schemas()
	root := svcconfig.NewNode("basicHttpBinding")
	root.AddChild(svcconfig.NewNode("binding").SetAttr("name", "a").SetAttr("maxConnections", "-1"))
	bad := root.AddChild(svcconfig.NewNode("binding").SetAttr("name", "b").SetAttr("bogus", "1"))
	bad.AddChild(svcconfig.NewNode("security").SetAttr("mode", "Message"))
	root.AddChild(svcconfig.NewNode("binding"))

	_, err := s.Parse(ctx, root)
	iss, ok := svcconfig.AsIssues(err)
	if !ok {
		t.Fatalf("expected Issues, got %v", err)
	}
	got := map[string]string{}
	for _, it := range iss {
		got[it.Path] = it.Code
	}
	want := map[string]string{
		"/binding[name=a]/@maxConnections": svcconfig.CodeTooSmall,
		"/binding[name=b]/@bogus":          svcconfig.CodeUnknownAttribute,
		"/binding[name=b]/security/@mode":  svcconfig.CodeInvalidEnum,
		"/binding[2]/@name":                svcconfig.CodeRequired,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestElement_FailFastStopsAtFirstIssue(t *testing.T) {
	ctx := svcconfig.WithFailFast(context.Background(), true)
	b, _ := schemas()
	n := svcconfig.NewNode("binding").SetAttr("x", "1").SetAttr("y", "2")
	_, err := b.Parse(ctx, n)
	iss, _ := svcconfig.AsIssues(err)
	if len(iss) != 1 {
		t.Fatalf("expected exactly one issue, got %v", err)
	}
}

func TestElement_UnknownStripFromContext(t *testing.T) {
	ctx := svcconfig.WithUnknownPolicy(context.Background(), svcconfig.UnknownStrip)
	b, _ := schemas()
	n := svcconfig.NewNode("binding").SetAttr("name", "a").SetAttr("x", "1").SetAttr("xmlns:q", "urn:q")
	n.AddChild(svcconfig.NewNode("unexpected"))
	if _, err := b.Parse(ctx, n); err != nil {
		t.Fatalf("strip policy should drop unknowns: %v", err)
	}
}

func TestCollection_DuplicateKey(t *testing.T) {
	_, s := schemas()
	root := svcconfig.NewNode("basicHttpBinding")
	root.AddChild(svcconfig.NewNode("binding").SetAttr("name", "a"))
	root.AddChild(svcconfig.NewNode("binding").SetAttr("name", "a"))
	_, err := s.Parse(context.Background(), root)
	iss, ok := svcconfig.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Code != svcconfig.CodeDuplicateKey || iss[0].Path != "/binding[name=a]" {
		t.Fatalf("expected duplicate_key at /binding[name=a], got %v", err)
	}
}

func TestCollection_GetAddRemove(t *testing.T) {
	_, s := schemas()
	root := svcconfig.NewNode("basicHttpBinding")
	root.AddChild(svcconfig.NewNode("binding").SetAttr("name", "a"))
	root.AddChild(svcconfig.NewNode("binding").SetAttr("name", "b"))
	sec, err := s.Parse(context.Background(), root)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if b, ok := sec.Bindings.Get("b"); !ok || b.Name != "b" {
		t.Fatalf("Get(b) = %+v, %v", b, ok)
	}
	if err := sec.Bindings.Add(binding{Name: "a"}); err == nil {
		t.Fatalf("Add should reject duplicate key")
	}
	if !sec.Bindings.Remove("a") || sec.Bindings.Len() != 1 {
		t.Fatalf("Remove(a) failed: %+v", sec.Bindings.Items())
	}
}

type host struct {
	BaseAddresses g.Collection[baseAddress] `config:"baseAddresses"`
}

type baseAddress struct {
	BaseAddress string
}

func TestCollection_AddRemoveClear(t *testing.T) {
	add := g.ElementOf[baseAddress]("add").
		Attr("baseAddress", g.String().NonEmpty()).Key().Required().
		MustBuild()
	h := g.ElementOf[host]("host").
		Collection("baseAddresses", add).Wrapped().AddRemoveClear().
		MustBuild()

	root := svcconfig.NewNode("host")
	w := root.AddChild(svcconfig.NewNode("baseAddresses"))
	w.AddChild(svcconfig.NewNode("add").SetAttr("baseAddress", "http://a/"))
	w.AddChild(svcconfig.NewNode("clear"))
	w.AddChild(svcconfig.NewNode("add").SetAttr("baseAddress", "http://b/"))
	w.AddChild(svcconfig.NewNode("add").SetAttr("baseAddress", "http://c/"))
	w.AddChild(svcconfig.NewNode("remove").SetAttr("baseAddress", "http://b/"))
	w.AddChild(svcconfig.NewNode("remove").SetAttr("baseAddress", "http://missing/"))

	got, err := h.Parse(context.Background(), root)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := []baseAddress{{BaseAddress: "http://c/"}}
	if diff := cmp.Diff(want, got.BaseAddresses.Items()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	out, err := h.Encode(context.Background(), got)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if a := out.Find("baseAddresses/add"); a == nil {
		t.Fatalf("expected wrapped add element, got %+v", out)
	} else if v, _ := a.Attr("baseAddress"); v != "http://c/" {
		t.Fatalf("unexpected add %+v", a)
	}
}

func TestEncodePreserving_DropsDefaults(t *testing.T) {
	ctx := context.Background()
	b, _ := schemas()
	n := svcconfig.NewNode("binding").SetAttr("name", "a").SetAttr("maxConnections", "10")
	d, err := b.ParseWithMeta(ctx, n)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if d.Origin("/@sendTimeout") != svcconfig.OriginDefault || d.Origin("/@maxConnections") != svcconfig.OriginSetHere {
		t.Fatalf("unexpected presence: %v", d.Presence)
	}
	out, err := b.EncodePreserving(ctx, d)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []svcconfig.Attr{{Name: "name", Value: "a"}, {Name: "maxConnections", Value: "10"}}
	if diff := cmp.Diff(want, out.Attrs); diff != "" {
		t.Fatalf("attrs mismatch (-want +got):\n%s", diff)
	}
	if len(out.Children) != 0 {
		t.Fatalf("defaulted security child should be omitted: %+v", out.Children)
	}

	canon, err := b.Encode(ctx, d.Value)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if v, _ := canon.Attr("sendTimeout"); v != "00:01:00" {
		t.Fatalf("canonical output should carry defaults, got %q", v)
	}
	if canon.Child("security") == nil {
		t.Fatalf("canonical output should carry security")
	}
	if _, err := b.EncodePreserving(ctx, svcconfig.Decoded[binding]{}); !errors.Is(err, svcconfig.ErrEncodePreserveRequiresPresence) {
		t.Fatalf("expected ErrEncodePreserveRequiresPresence, got %v", err)
	}
}

func TestElement_RefineRebased(t *testing.T) {
	type pool struct {
		Min int
		Max int
	}
	s := g.ElementOf[pool]("pool").
		Attr("min", g.Int()).Default(1).
		Attr("max", g.Int()).Default(10).
		Refine("min<=max", func(_ context.Context, p pool) error {
			if p.Min > p.Max {
				return svcconfig.Issues{{Path: "/@min", Code: svcconfig.CodeCustom, Message: "min exceeds max"}}
			}
			return nil
		}).
		MustBuild()
	_, err := s.Parse(context.Background(), svcconfig.NewNode("pool").SetAttr("min", "20"))
	iss, ok := svcconfig.AsIssues(err)
	if !ok || iss[0].Path != "/@min" || iss[0].Code != svcconfig.CodeCustom {
		t.Fatalf("unexpected %v", err)
	}
	if err := s.ValidateValue(context.Background(), pool{Min: 3, Max: 2}); err == nil {
		t.Fatalf("ValidateValue should run refine")
	}
}

func TestElement_NewAppliesDefaults(t *testing.T) {
	b, _ := schemas()
	v := b.New()
	if v.SendTimeout != time.Minute || v.MaxConns != 10 || v.Security.Mode != modeNone {
		t.Fatalf("unexpected defaults: %+v", v)
	}
	if v.Info.Present {
		t.Fatalf("New should not mark the element present")
	}
}

func TestElement_BuildErrors(t *testing.T) {
	type thing struct{ Count int }
	if _, err := g.ElementOf[thing]("thing").Attr("missing", g.Int()).Build(); err == nil {
		t.Fatalf("expected error for attribute without field")
	}
	if _, err := g.ElementOf[thing]("thing").Attr("count", g.String()).Build(); err == nil {
		t.Fatalf("expected error for incompatible field type")
	}
	if _, err := g.ElementOf[thing]("thing").Attr("count", g.Int()).Default("x").Build(); err == nil {
		t.Fatalf("expected error for unparsable default")
	}
}

func TestElement_WrongRootName(t *testing.T) {
	b, _ := schemas()
	_, err := b.Parse(context.Background(), svcconfig.NewNode("other"))
	iss, ok := svcconfig.AsIssues(err)
	if !ok || iss[0].Code != svcconfig.CodeUnknownElement {
		t.Fatalf("unexpected %v", err)
	}
}

func TestElement_JSONSchema(t *testing.T) {
	b, _ := schemas()
	js, err := b.JSONSchema()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if js.Properties["sendTimeout"].Default != "00:01:00" {
		t.Fatalf("timespan default should be text, got %#v", js.Properties["sendTimeout"].Default)
	}
	if js.Properties["maxConnections"].Default != 10 {
		t.Fatalf("int default should stay numeric, got %#v", js.Properties["maxConnections"].Default)
	}
	if diff := cmp.Diff([]string{"name"}, js.Required); diff != "" {
		t.Fatalf("required mismatch: %s", diff)
	}
	if js.Properties["security"].Properties["mode"].Enum == nil {
		t.Fatalf("enum values missing")
	}
}

type mapping struct {
	Scheme  string
	Binding string
}

type mappings struct {
	Items g.Collection[mapping]
}

func TestCollection_Inherit(t *testing.T) {
	ctx := context.Background()
	add := g.ElementOf[mapping]("add").
		Attr("scheme", g.String().Lower().NonEmpty()).Key().Required().
		Attr("binding", g.String()).Required().
		MustBuild()
	s := g.ElementOf[mappings]("protocolMapping").
		Collection("items", add).AddRemoveClear().Inherit(mapping{"http", "basic"}, mapping{"net.tcp", "tcp"}).
		MustBuild()

	empty, err := s.Parse(ctx, svcconfig.NewNode("protocolMapping"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff([]mapping{{"http", "basic"}, {"net.tcp", "tcp"}}, empty.Items.Items()); diff != "" {
		t.Fatalf("inherited items (-want +got):\n%s", diff)
	}

	root := svcconfig.NewNode("protocolMapping")
	root.AddChild(svcconfig.NewNode("add").SetAttr("scheme", "HTTP").SetAttr("binding", "ws"))
	root.AddChild(svcconfig.NewNode("remove").SetAttr("scheme", "Net.Tcp"))
	d, err := s.ParseWithMeta(ctx, root)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff([]mapping{{"http", "ws"}}, d.Value.Items.Items()); diff != "" {
		t.Fatalf("items (-want +got):\n%s", diff)
	}

	out, err := s.EncodePreserving(ctx, d)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var names []string
	for _, c := range out.Children {
		v, _ := c.Attr("scheme")
		names = append(names, c.Name+":"+v)
	}
	if diff := cmp.Diff([]string{"remove:net.tcp", "add:http"}, names); diff != "" {
		t.Fatalf("encoded children (-want +got):\n%s", diff)
	}

	root.AddChild(svcconfig.NewNode("add").SetAttr("scheme", "http").SetAttr("binding", "basic"))
	_, err = s.Parse(ctx, root)
	if iss, ok := svcconfig.AsIssues(err); !ok || iss[0].Code != svcconfig.CodeDuplicateKey {
		t.Fatalf("a second add of a replaced key is a duplicate, got %v", err)
	}
}

func TestCollection_InheritBuildErrors(t *testing.T) {
	add := g.ElementOf[mapping]("add").
		Attr("scheme", g.String()).Key().
		Attr("binding", g.String()).
		MustBuild()
	if _, err := g.ElementOf[mappings]("m").Collection("items", add).Inherit(mapping{"http", "b"}).Build(); err == nil {
		t.Fatalf("inheriting without add/remove/clear should fail")
	}
	if _, err := g.ElementOf[mappings]("m").Collection("items", add).AddRemoveClear().Inherit("http").Build(); err == nil {
		t.Fatalf("inheriting a value of the wrong type should fail")
	}
}

func TestElement_LocksRoundTrip(t *testing.T) {
	ctx := context.Background()
	b, s := schemas()
	n := svcconfig.NewNode("binding").SetAttr("name", "a").
		SetAttr("lockAttributes", "sendTimeout;maxConnections").
		SetAttr("lockAllElementsExcept", "security")
	v, err := b.Parse(ctx, n)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := svcconfig.Locks{Attributes: []string{"sendTimeout", "maxConnections"}, AllElementsExcept: []string{"security"}}
	if diff := cmp.Diff(want, v.Info.Locks); diff != "" {
		t.Fatalf("locks (-want +got):\n%s", diff)
	}

	out, err := b.Encode(ctx, v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got, _ := out.Attr("lockAttributes"); got != "sendTimeout,maxConnections" {
		t.Fatalf("lockAttributes not written: %+v", out.Attrs)
	}
	if got, _ := out.Attr("lockAllElementsExcept"); got != "security" {
		t.Fatalf("lockAllElementsExcept not written: %+v", out.Attrs)
	}

	// Elements without an Info field keep their locks through the decoded store.
	sec := svcconfig.NewNode("basicHttpBinding")
	sec.AddChild(svcconfig.NewNode("binding").SetAttr("name", "a").
		AddChild(svcconfig.NewNode("security").SetAttr("lockAttributes", "*")))
	d, err := s.ParseWithMeta(ctx, sec)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if l := d.Locks["/binding[name=a]/security"]; !l.AttributeLocked("mode") {
		t.Fatalf("security locks not recorded: %+v", d.Locks)
	}
	kept, err := s.EncodePreserving(ctx, d)
	if err != nil {
		t.Fatalf("encode preserving: %v", err)
	}
	if got, _ := kept.Find("binding/security").Attr("lockAttributes"); got != "*" {
		t.Fatalf("security lockAttributes not preserved: %+v", kept.Find("binding/security"))
	}
}

func TestElement_LockErrors(t *testing.T) {
	b, _ := schemas()
	tests := []struct {
		name, attr, value, code string
	}{
		{"unknown attribute", "lockAttributes", "colour", svcconfig.CodeInvalidFormat},
		{"required attribute", "lockAttributes", "name", svcconfig.CodeCustom},
		{"unknown element", "lockElements", "transport", svcconfig.CodeInvalidFormat},
		{"star outside lock list", "lockAllElementsExcept", "*", svcconfig.CodeInvalidFormat},
		{"lockItem", "lockItem", "maybe", svcconfig.CodeInvalidType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := svcconfig.NewNode("binding").SetAttr("name", "a").SetAttr(tt.attr, tt.value)
			_, err := b.Parse(context.Background(), n)
			iss, ok := svcconfig.AsIssues(err)
			if !ok || iss[0].Code != tt.code || iss[0].Path != "/@"+tt.attr {
				t.Fatalf("want %s at /@%s, got %v", tt.code, tt.attr, err)
			}
		})
	}
}
