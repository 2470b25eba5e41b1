package svcconfig

import "strings"

// Attr is a single name/value attribute of a configuration element.
type Attr struct {
	Name  string
	Value string
}

// Node is one configuration element of a parsed document. Attribute and child
// order follow the document.
type Node struct {
	Name     string
	Attrs    []Attr
	Children []*Node
	Text     string
	// Source labels where the node came from (file name or driver name).
	Source string
}

// NewNode returns an empty element named name.
func NewNode(name string) *Node { return &Node{Name: name} }

// Attr returns the first attribute named name.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr replaces the value of an existing attribute or appends a new one.
func (n *Node) SetAttr(name, value string) *Node {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return n
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
	return n
}

// AddChild appends c and returns it.
func (n *Node) AddChild(c *Node) *Node {
	n.Children = append(n.Children, c)
	return c
}

// Child returns the first child element named name, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns all child elements named name in document order.
func (n *Node) ChildrenNamed(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Empty reports whether the node carries no attributes, children or text.
func (n *Node) Empty() bool {
	return n == nil || (len(n.Attrs) == 0 && len(n.Children) == 0 && strings.TrimSpace(n.Text) == "")
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Name: n.Name, Text: n.Text, Source: n.Source}
	if len(n.Attrs) > 0 {
		out.Attrs = append([]Attr(nil), n.Attrs...)
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, c.Clone())
	}
	return out
}

// Find walks slash separated element names from n, e.g. "system.serviceModel/bindings".
func (n *Node) Find(path string) *Node {
	cur := n
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		cur = cur.Child(part)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// IsNamespaceAttr reports whether an attribute name is an XML namespace
// declaration. Such attributes never bind to schema attributes.
func IsNamespaceAttr(name string) bool {
	return name == "xmlns" || strings.HasPrefix(name, "xmlns:")
}
