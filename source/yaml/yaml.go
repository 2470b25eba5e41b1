// Package yaml reads and writes configuration documents as YAML using
// gopkg.in/yaml.v3. Importing the package registers the "yaml" driver.
//
// The document is a mapping with a single key, the document element. Inside
// an element, scalar values are attributes, mappings are child elements and
// sequences repeat a child element once per item. A null value is an empty
// child element (for example "clear: ~").
package yaml

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	svcconfig "github.com/reoring/svcconfig"
)

func init() { svcconfig.RegisterDriver("yaml", Driver()) }

// Driver returns the yaml.v3-backed driver.
func Driver() svcconfig.Driver { return driver{} }

type driver struct{}

func (driver) NewReader(r io.Reader) svcconfig.Source { return source{r: r} }
func (driver) NewBytes(b []byte) svcconfig.Source     { return source{r: bytes.NewReader(b)} }
func (driver) Name() string                          { return "yaml.v3" }

type source struct{ r io.Reader }

func (s source) Root() (*svcconfig.Node, error) { return Read(s.r) }
func (source) Name() string                    { return "yaml" }

// Read decodes a YAML document into its document element.
func Read(r io.Reader) (*svcconfig.Node, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, issue("/", "empty document", nil)
		}
		return nil, issue("/", err.Error(), err)
	}
	top := &doc
	if top.Kind == yaml.DocumentNode && len(top.Content) > 0 {
		top = top.Content[0]
	}
	if top.Kind != yaml.MappingNode || len(top.Content) != 2 {
		return nil, issue("/", fmt.Sprintf("line %d: document must be a mapping with exactly one root element", top.Line), nil)
	}
	return element(top.Content[0].Value, top.Content[1], "/")
}

func element(name string, v *yaml.Node, path string) (*svcconfig.Node, error) {
	n := svcconfig.NewNode(name)
	n.Source = "yaml"
	v = resolveAlias(v)
	switch {
	case v.Kind == yaml.ScalarNode && v.Tag == "!!null":
		return n, nil
	case v.Kind != yaml.MappingNode:
		return nil, issue(path, fmt.Sprintf("line %d: element %q must be a mapping", v.Line, name), nil)
	}
	for i := 0; i+1 < len(v.Content); i += 2 {
		key := v.Content[i].Value
		val := resolveAlias(v.Content[i+1])
		childPath := svcconfig.JoinPath(path, "/"+key)
		switch {
		case val.Kind == yaml.ScalarNode && val.Tag != "!!null":
			n.Attrs = append(n.Attrs, svcconfig.Attr{Name: key, Value: val.Value})
		case val.Kind == yaml.SequenceNode:
			for j, item := range val.Content {
				c, err := element(key, item, fmt.Sprintf("%s[%d]", childPath, j))
				if err != nil {
					return nil, err
				}
				n.Children = append(n.Children, c)
			}
		default:
			c, err := element(key, val, childPath)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, c)
		}
	}
	return n, nil
}

func resolveAlias(v *yaml.Node) *yaml.Node {
	for v.Kind == yaml.AliasNode && v.Alias != nil {
		v = v.Alias
	}
	return v
}

// Write renders n in the mapping layout Read accepts. Children sharing a
// name are grouped into one sequence at the position of the first.
func Write(w io.Writer, n *svcconfig.Node, indent int) error {
	doc := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{scalar(n.Name), toYAML(n)}}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(indent)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func toYAML(n *svcconfig.Node) *yaml.Node {
	if len(n.Attrs) == 0 && len(n.Children) == 0 {
		return &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
	}
	m := &yaml.Node{Kind: yaml.MappingNode}
	for _, a := range n.Attrs {
		m.Content = append(m.Content, scalar(a.Name), scalar(a.Value))
	}
	groups := map[string]*yaml.Node{}
	counts := map[string]int{}
	for _, c := range n.Children {
		counts[c.Name]++
	}
	for _, c := range n.Children {
		if counts[c.Name] == 1 {
			m.Content = append(m.Content, scalar(c.Name), toYAML(c))
			continue
		}
		seq, ok := groups[c.Name]
		if !ok {
			seq = &yaml.Node{Kind: yaml.SequenceNode}
			groups[c.Name] = seq
			m.Content = append(m.Content, scalar(c.Name), seq)
		}
		seq.Content = append(seq.Content, toYAML(c))
	}
	return m
}

// scalar tags s as a string so "true" and "10" are written quoted.
func scalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func issue(path, msg string, cause error) error {
	return svcconfig.Issues{{Path: path, Code: svcconfig.CodeParseError, Message: msg, Cause: cause}}
}
