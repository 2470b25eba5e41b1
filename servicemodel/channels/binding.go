// Package channels holds the runtime binding and binding element objects that
// configuration is applied to. They carry settings only; no transport or
// encoder is implemented here.
//
// Every constructor supplies the same defaults the configuration elements
// declare, so applying an empty configuration element is a no-op.
package channels

import (
	"errors"
	"fmt"
	"time"
)

// Binding is a named, ordered stack of binding elements with timeouts.
type Binding interface {
	Name() string
	Namespace() string
	SetName(name string)
	SetNamespace(ns string)
	// Scheme is the URI scheme of the binding's transport.
	Scheme() string
	Timeouts() *Timeouts
	// CreateBindingElements returns the binding elements in stack order,
	// transport last.
	CreateBindingElements() []BindingElement
}

// DefaultNamespace is the namespace bindings start with.
const DefaultNamespace = "http://tempuri.org/"

// Timeouts are the four communication timeouts shared by every binding.
type Timeouts struct {
	Open    time.Duration
	Close   time.Duration
	Send    time.Duration
	Receive time.Duration
}

// DefaultTimeouts returns 1m open/close/send and 10m receive.
func DefaultTimeouts() Timeouts {
	return Timeouts{Open: time.Minute, Close: time.Minute, Send: time.Minute, Receive: 10 * time.Minute}
}

// bindingBase implements the naming and timeout half of Binding.
type bindingBase struct {
	name     string
	ns       string
	timeouts Timeouts
}

func newBase(name string) bindingBase {
	return bindingBase{name: name, ns: DefaultNamespace, timeouts: DefaultTimeouts()}
}

func (b *bindingBase) Name() string           { return b.name }
func (b *bindingBase) Namespace() string      { return b.ns }
func (b *bindingBase) SetName(name string)    { b.name = name }
func (b *bindingBase) SetNamespace(ns string) { b.ns = ns }
func (b *bindingBase) Timeouts() *Timeouts    { return &b.timeouts }

// ReaderQuotas bound the complexity of messages an encoder reads.
type ReaderQuotas struct {
	MaxDepth               int
	MaxStringContentLength int
	MaxArrayLength         int
	MaxBytesPerRead        int
	MaxNameTableCharCount  int
}

// DefaultReaderQuotas returns the encoder reader quotas.
func DefaultReaderQuotas() ReaderQuotas {
	return ReaderQuotas{
		MaxDepth:               32,
		MaxStringContentLength: 8192,
		MaxArrayLength:         16384,
		MaxBytesPerRead:        4096,
		MaxNameTableCharCount:  16384,
	}
}

// ErrNoTransport is returned when a custom binding stack has no transport.
var ErrNoTransport = errors.New("channels: binding has no transport element")

// CustomBinding is a binding assembled from an explicit element list.
type CustomBinding struct {
	bindingBase
	Elements []BindingElement
}

// NewCustomBinding returns an empty custom binding.
func NewCustomBinding(elements ...BindingElement) *CustomBinding {
	return &CustomBinding{bindingBase: newBase("CustomBinding"), Elements: elements}
}

// Scheme returns the scheme of the last transport element, or "".
func (b *CustomBinding) Scheme() string {
	if t, err := b.Transport(); err == nil {
		return t.Scheme()
	}
	return ""
}

// Transport returns the transport element of the stack.
func (b *CustomBinding) Transport() (TransportBindingElement, error) {
	if n := len(b.Elements); n > 0 {
		if t, ok := b.Elements[n-1].(TransportBindingElement); ok {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoTransport, b.Name())
}

// CreateBindingElements returns clones of the configured elements.
func (b *CustomBinding) CreateBindingElements() []BindingElement {
	out := make([]BindingElement, len(b.Elements))
	for i, e := range b.Elements {
		out[i] = e.Clone()
	}
	return out
}
