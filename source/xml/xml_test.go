package xml

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	svcconfig "github.com/reoring/svcconfig"
)

const doc = `<?xml version="1.0" encoding="utf-8"?>
<configuration xmlns:x="urn:x">
  <system.serviceModel>
    <bindings>
      <basicHttpBinding>
        <binding name="a" maxBufferSize="1024" />
        <binding name="b">
          <security mode="Transport" />
        </binding>
      </basicHttpBinding>
    </bindings>
  </system.serviceModel>
</configuration>`

func TestRead_Tree(t *testing.T) {
	root, err := Read(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v, ok := root.Attr("xmlns:x"); !ok || v != "urn:x" {
		t.Fatalf("namespace attribute lost: %+v", root.Attrs)
	}
	bindings := root.Find("system.serviceModel/bindings/basicHttpBinding").ChildrenNamed("binding")
	if len(bindings) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(bindings))
	}
	want := []svcconfig.Attr{{Name: "name", Value: "a"}, {Name: "maxBufferSize", Value: "1024"}}
	if diff := cmp.Diff(want, bindings[0].Attrs); diff != "" {
		t.Fatalf("attrs mismatch (-want +got):\n%s", diff)
	}
	if m, _ := bindings[1].Child("security").Attr("mode"); m != "Transport" {
		t.Fatalf("unexpected security %+v", bindings[1].Child("security"))
	}
	if bindings[1].Text != "" {
		t.Fatalf("whitespace text should be trimmed, got %q", bindings[1].Text)
	}
}

func TestRead_Malformed(t *testing.T) {
	_, err := Read(strings.NewReader(`<configuration><a></configuration>`))
	iss, ok := svcconfig.AsIssues(err)
	if !ok || iss[0].Code != svcconfig.CodeParseError {
		t.Fatalf("expected parse_error, got %v", err)
	}
	if _, err := Read(strings.NewReader(``)); err == nil {
		t.Fatalf("expected error for empty document")
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	root, err := Read(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, root, 2); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.HasPrefix(buf.String(), `<?xml version="1.0" encoding="utf-8"?>`) {
		t.Fatalf("missing declaration:\n%s", buf.String())
	}
	again, err := Read(&buf)
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	if diff := cmp.Diff(root, again); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDriver_Registered(t *testing.T) {
	d, err := svcconfig.DriverFor("xml")
	if err != nil {
		t.Fatalf("xml driver not registered: %v", err)
	}
	root, err := d.NewBytes([]byte(`<a b="c"/>`)).Root()
	if err != nil || root.Name != "a" {
		t.Fatalf("unexpected %v %v", root, err)
	}
}
