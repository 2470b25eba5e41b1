package svcconfig

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

// Source abstracts over document formats. Root parses the input once and
// returns the document element.
type Source interface {
	Root() (*Node, error)
	Name() string
}

// Driver converts raw input of one document format into a Source. Drivers
// register themselves with RegisterDriver from their package init.
type Driver interface {
	NewReader(r io.Reader) Source
	NewBytes(b []byte) Source
	Name() string
}

var (
	driverMu sync.RWMutex
	drivers  = map[string]Driver{}
)

// RegisterDriver makes a driver available under format (e.g. "xml").
// A later registration for the same format replaces the earlier one; nil is
// ignored.
func RegisterDriver(format string, d Driver) {
	if d == nil || format == "" {
		return
	}
	driverMu.Lock()
	drivers[format] = d
	driverMu.Unlock()
}

// DriverFor returns the driver registered for format.
func DriverFor(format string) (Driver, error) {
	driverMu.RLock()
	d, ok := drivers[format]
	driverMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("svcconfig: no driver registered for format %q (import the source/%s package)", format, format)
	}
	return d, nil
}

// Formats lists the registered formats in sorted order.
func Formats() []string {
	driverMu.RLock()
	out := make([]string, 0, len(drivers))
	for k := range drivers {
		out = append(out, k)
	}
	driverMu.RUnlock()
	sort.Strings(out)
	return out
}

// XMLReader wraps an io.Reader as an XML Source using the registered xml driver.
func XMLReader(r io.Reader) Source { return formatSource("xml", func(d Driver) Source { return d.NewReader(r) }) }

// XMLBytes wraps a byte slice as an XML Source using the registered xml driver.
func XMLBytes(b []byte) Source { return formatSource("xml", func(d Driver) Source { return d.NewBytes(b) }) }

func formatSource(format string, mk func(Driver) Source) Source {
	d, err := DriverFor(format)
	if err != nil {
		return errSource{err: err}
	}
	return mk(d)
}

// NodeSource wraps an already built node tree as a Source.
func NodeSource(n *Node) Source { return nodeSource{n: n} }

type nodeSource struct{ n *Node }

func (s nodeSource) Root() (*Node, error) {
	if s.n == nil {
		return nil, fmt.Errorf("svcconfig: empty document")
	}
	return s.n, nil
}
func (nodeSource) Name() string { return "node" }

type errSource struct{ err error }

func (s errSource) Root() (*Node, error) { return nil, s.err }
func (errSource) Name() string           { return "error" }
