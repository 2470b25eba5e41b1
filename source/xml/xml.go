// Package xml reads and writes configuration documents as XML using
// beevik/etree. Importing the package registers the "xml" driver.
package xml

import (
	"bytes"
	"io"
	"strings"

	"github.com/beevik/etree"

	svcconfig "github.com/reoring/svcconfig"
)

func init() { svcconfig.RegisterDriver("xml", Driver()) }

// Driver returns the etree-backed XML driver.
func Driver() svcconfig.Driver { return driver{} }

type driver struct{}

func (driver) NewReader(r io.Reader) svcconfig.Source { return source{r: r} }
func (driver) NewBytes(b []byte) svcconfig.Source     { return source{r: bytes.NewReader(b)} }
func (driver) Name() string                          { return "etree" }

type source struct{ r io.Reader }

func (s source) Root() (*svcconfig.Node, error) { return Read(s.r) }
func (source) Name() string                    { return "xml" }

// Read parses an XML document and returns its document element.
func Read(r io.Reader) (*svcconfig.Node, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, parseError(err)
	}
	root := doc.Root()
	if root == nil {
		return nil, svcconfig.Issues{{Path: "/", Code: svcconfig.CodeParseError, Message: "document has no root element"}}
	}
	return fromElement(root), nil
}

func fromElement(e *etree.Element) *svcconfig.Node {
	n := svcconfig.NewNode(e.Tag)
	n.Source = "xml"
	for _, a := range e.Attr {
		n.Attrs = append(n.Attrs, svcconfig.Attr{Name: a.FullKey(), Value: a.Value})
	}
	for _, c := range e.ChildElements() {
		n.Children = append(n.Children, fromElement(c))
	}
	n.Text = strings.TrimSpace(e.Text())
	return n
}

// Write renders n as an indented XML document with a declaration.
func Write(w io.Writer, n *svcconfig.Node, indent int) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	toElement(&doc.Element, n)
	doc.Indent(indent)
	_, err := doc.WriteTo(w)
	return err
}

func toElement(parent *etree.Element, n *svcconfig.Node) {
	e := parent.CreateElement(n.Name)
	for _, a := range n.Attrs {
		e.CreateAttr(a.Name, a.Value)
	}
	for _, c := range n.Children {
		toElement(e, c)
	}
	if n.Text != "" && len(n.Children) == 0 {
		e.SetText(n.Text)
	}
}

func parseError(err error) error {
	return svcconfig.Issues{{Path: "/", Code: svcconfig.CodeParseError, Message: err.Error(), Cause: err}}
}
