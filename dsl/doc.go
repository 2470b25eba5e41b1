// Package dsl declares configuration elements and binds them to Go structs.
//
// Overview
//   - Attributes: text converters (String/Int/Int64/Bool/TimeSpan/Enum/AttrOf) with
//     chainable validators (Min/Max/MinLength/MaxLength/Pattern/Check).
//   - Elements: ElementOf[T](name) declares attributes, nested children, keyed
//     collections and name-dispatched extensions, then Build/MustBuild returns an
//     *ElementSchema[T] implementing svcconfig.Schema[T].
//   - Collections: Collection[E] keeps document order and rejects duplicate keys;
//     AddRemoveClear accepts <add>/<remove>/<clear/> sequences.
//   - Extensions: Extensions[I] holds elements selected by name through a Resolver.
//   - Presence: ParseWithMeta records which attributes were written or defaulted;
//     EncodePreserving writes back only what the document carried.
//
// Struct binding
//
// Fields are matched by config:"name" tag or by the lower-camel field name
// (MaxBufferSize -> maxBufferSize). Embedded structs are flattened, so a binding
// type can embed its base element. A field of type svcconfig.ElementInfo
// receives the set of names written for that element.
//
// Example
//
//	type Timeouts struct {
//	    OpenTimeout  time.Duration
//	    CloseTimeout time.Duration
//	}
//
//	var timeouts = dsl.ElementOf[Timeouts]("timeouts").
//	    Attr("openTimeout", dsl.TimeSpan().Min(0)).Default(time.Minute).
//	    Attr("closeTimeout", dsl.TimeSpan().Min(0)).Default(10 * time.Second).
//	    MustBuild()
//
// Error model
//
// Every failure is reported as svcconfig.Issues with absolute paths such as
// /host/baseAddresses/add[baseAddress=http://x/]/@baseAddress. Parsing collects
// all issues unless fail-fast is set on the context.
package dsl
