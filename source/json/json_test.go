package json

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	svcconfig "github.com/reoring/svcconfig"
)

func TestRead_Layout(t *testing.T) {
	in := `{"system.serviceModel": {
	  "bindings": {"netTcpBinding": {"binding": [
	    {"name": "a", "maxConnections": 10, "portSharingEnabled": false},
	    {"name": "b", "security": {"mode": "None"}}
	  ]}},
	  "serviceHostingEnvironment": {"baseAddressPrefixFilters": {
	    "add": {"prefix": "http://a/"}, "clear": null, "add": {"prefix": "http://b/"}
	  }}
	}}`
	root, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	bs := root.Find("bindings/netTcpBinding").ChildrenNamed("binding")
	if len(bs) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(bs))
	}
	want := []svcconfig.Attr{{Name: "name", Value: "a"}, {Name: "maxConnections", Value: "10"}, {Name: "portSharingEnabled", Value: "false"}}
	if diff := cmp.Diff(want, bs[0].Attrs); diff != "" {
		t.Fatalf("attrs mismatch (-want +got):\n%s", diff)
	}
	var names []string
	for _, c := range root.Find("serviceHostingEnvironment/baseAddressPrefixFilters").Children {
		names = append(names, c.Name)
	}
	if diff := cmp.Diff([]string{"add", "clear", "add"}, names); diff != "" {
		t.Fatalf("member order lost (-want +got):\n%s", diff)
	}
}

func TestRead_DuplicateAttributesKept(t *testing.T) {
	root, err := Read(strings.NewReader(`{"binding": {"name": "a", "name": "b"}}`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(root.Attrs) != 2 {
		t.Fatalf("duplicate members should be kept for enforcement, got %+v", root.Attrs)
	}
	_, err = svcconfig.LoadRoot(Driver().NewBytes([]byte(`{"binding": {"name": "a", "name": "b"}}`)), svcconfig.ParseOpt{DuplicateAttrs: svcconfig.Error})
	iss, ok := svcconfig.AsIssues(err)
	if !ok || iss[0].Code != svcconfig.CodeDuplicateAttribute || iss[0].Path != "/@name" {
		t.Fatalf("expected duplicate_attribute at /@name, got %v", err)
	}
}

func TestRead_Errors(t *testing.T) {
	for _, in := range []string{``, `[]`, `{"a": 1}`, `{"a": {}, "b": {}}`, `{"a": {"b": [1]}}`, `{"a": {}} {}`, `{"a": {"b": `} {
		_, err := Read(strings.NewReader(in))
		iss, ok := svcconfig.AsIssues(err)
		if !ok || iss[0].Code != svcconfig.CodeParseError {
			t.Fatalf("%q: expected parse_error, got %v", in, err)
		}
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	root := svcconfig.NewNode("system.serviceModel")
	b := root.AddChild(svcconfig.NewNode("bindings")).AddChild(svcconfig.NewNode("basicHttpBinding"))
	b.AddChild(svcconfig.NewNode("binding").SetAttr("name", "a"))
	b.AddChild(svcconfig.NewNode("binding").SetAttr("name", "b").SetAttr("maxBufferSize", "10"))
	var buf bytes.Buffer
	if err := Write(&buf, root, 2); err != nil {
		t.Fatalf("write: %v", err)
	}
	again, err := Read(&buf)
	if err != nil {
		t.Fatalf("re-read: %v\n%s", err, buf.String())
	}
	setSource(root, "json")
	if diff := cmp.Diff(root, again); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func setSource(n *svcconfig.Node, s string) {
	n.Source = s
	for _, c := range n.Children {
		setSource(c, s)
	}
}
