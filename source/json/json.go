// Package json reads and writes configuration documents as JSON using
// goccy/go-json. Importing the package registers the "json" driver.
//
// The layout matches the yaml driver: one top-level member naming the
// document element; scalars are attributes, objects are child elements,
// arrays repeat a child element and null is an empty child element.
// Repeated member names are kept in order, so an element may interleave
// "add", "remove" and "clear" members.
package json

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"

	svcconfig "github.com/reoring/svcconfig"
)

func init() { svcconfig.RegisterDriver("json", Driver()) }

// Driver returns the go-json-backed driver.
func Driver() svcconfig.Driver { return driver{} }

type driver struct{}

func (driver) NewReader(r io.Reader) svcconfig.Source { return source{r: r} }
func (driver) NewBytes(b []byte) svcconfig.Source     { return source{r: bytes.NewReader(b)} }
func (driver) Name() string                          { return "go-json" }

type source struct{ r io.Reader }

func (s source) Root() (*svcconfig.Node, error) { return Read(s.r) }
func (source) Name() string                    { return "json" }

// Read streams the document through the go-json tokenizer and builds the
// element tree.
func Read(r io.Reader) (*svcconfig.Node, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	t := &reader{dec: dec}
	if err := t.expectDelim('{'); err != nil {
		return nil, err
	}
	name, err := t.key()
	if err != nil {
		return nil, err
	}
	root, err := t.value(name, "/")
	if err != nil {
		return nil, err
	}
	if err := t.expectDelim('}'); err != nil {
		return nil, t.fail("/", "document must have exactly one root element")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, t.fail("/", "trailing data after document")
	}
	return root, nil
}

type reader struct {
	dec *j.Decoder
}

func (t *reader) fail(path, msg string) error {
	return svcconfig.Issues{{Path: path, Code: svcconfig.CodeParseError, Message: msg}}
}

func (t *reader) token(path string) (j.Token, error) {
	tok, err := t.dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, t.fail(path, "unexpected end of document")
		}
		return nil, svcconfig.Issues{{Path: path, Code: svcconfig.CodeParseError, Message: err.Error(), Cause: err}}
	}
	return tok, nil
}

func (t *reader) expectDelim(d j.Delim) error {
	tok, err := t.token("/")
	if err != nil {
		return err
	}
	if got, ok := tok.(j.Delim); !ok || got != d {
		return t.fail("/", fmt.Sprintf("expected %q", d))
	}
	return nil
}

func (t *reader) key() (string, error) {
	tok, err := t.token("/")
	if err != nil {
		return "", err
	}
	s, ok := tok.(string)
	if !ok {
		return "", t.fail("/", "expected member name")
	}
	return s, nil
}

// value reads the object value of the element named name.
func (t *reader) value(name, path string) (*svcconfig.Node, error) {
	tok, err := t.token(path)
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(j.Delim); ok && d == '{' {
		return t.object(name, path)
	}
	return nil, t.fail(path, fmt.Sprintf("element %q must be an object", name))
}

func (t *reader) object(name, path string) (*svcconfig.Node, error) {
	n := svcconfig.NewNode(name)
	n.Source = "json"
	for t.dec.More() {
		tok, err := t.token(path)
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, t.fail(path, "expected member name")
		}
		childPath := svcconfig.JoinPath(path, "/"+key)
		tok, err = t.token(childPath)
		if err != nil {
			return nil, err
		}
		switch v := tok.(type) {
		case j.Delim:
			switch v {
			case '{':
				c, err := t.object(key, childPath)
				if err != nil {
					return nil, err
				}
				n.Children = append(n.Children, c)
			case '[':
				if err := t.array(n, key, childPath); err != nil {
					return nil, err
				}
			default:
				return nil, t.fail(childPath, fmt.Sprintf("unexpected %q", v))
			}
		case nil:
			c := svcconfig.NewNode(key)
			c.Source = "json"
			n.Children = append(n.Children, c)
		default:
			n.Attrs = append(n.Attrs, svcconfig.Attr{Name: key, Value: scalarText(v)})
		}
	}
	if _, err := t.token(path); err != nil {
		return nil, err
	}
	return n, nil
}

func (t *reader) array(parent *svcconfig.Node, name, path string) error {
	for i := 0; t.dec.More(); i++ {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		tok, err := t.token(itemPath)
		if err != nil {
			return err
		}
		switch v := tok.(type) {
		case j.Delim:
			if v != '{' {
				return t.fail(itemPath, fmt.Sprintf("items of %q must be objects", name))
			}
			c, err := t.object(name, itemPath)
			if err != nil {
				return err
			}
			parent.Children = append(parent.Children, c)
		case nil:
			c := svcconfig.NewNode(name)
			c.Source = "json"
			parent.Children = append(parent.Children, c)
		default:
			return t.fail(itemPath, fmt.Sprintf("items of %q must be objects", name))
		}
	}
	_, err := t.token(path)
	return err
}

func scalarText(v j.Token) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case j.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// Write renders n in the layout Read accepts, indented by indent spaces.
// Children sharing a name become one array at the position of the first.
func Write(w io.Writer, n *svcconfig.Node, indent int) error {
	doc := object{{key: n.Name, value: toObject(n)}}
	b, err := j.MarshalIndent(doc, "", strings.Repeat(" ", indent))
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// object is an ordered JSON object.
type object []member

type member struct {
	key   string
	value any
}

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := j.Marshal(m.key)
		if err != nil {
			return nil, err
		}
		v, err := j.Marshal(m.value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func toObject(n *svcconfig.Node) object {
	o := object{}
	for _, a := range n.Attrs {
		o = append(o, member{key: a.Name, value: a.Value})
	}
	counts := map[string]int{}
	for _, c := range n.Children {
		counts[c.Name]++
	}
	groups := map[string]int{}
	for _, c := range n.Children {
		if counts[c.Name] == 1 {
			o = append(o, member{key: c.Name, value: toObject(c)})
			continue
		}
		i, ok := groups[c.Name]
		if !ok {
			i = len(o)
			groups[c.Name] = i
			o = append(o, member{key: c.Name, value: []object{}})
		}
		o[i].value = append(o[i].value.([]object), toObject(c))
	}
	return o
}
