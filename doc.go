// Package svcconfig binds service-model configuration documents to typed
// values.
//
// A document is read through a Source into a tree of Nodes, checked against
// structural limits (depth, node count, duplicate attributes) and bound by a
// Schema. Failures are reported as Issues, each carrying the path of the
// offending element or attribute:
//
//	/bindings/netTcpBinding/binding[name=secure]/@maxConnections
//
// Parsing with ParseFromWithMeta also records which attributes were written
// in the document and which came from defaults, so that a section can be
// encoded back without materializing every default.
//
// Typical usage:
//
//	import _ "github.com/reoring/svcconfig/source/xml"
//
//	v, err := svcconfig.ParseFrom(ctx, schema, svcconfig.XMLBytes(data))
//	dm, err := svcconfig.ParseFromWithMeta(ctx, schema, svcconfig.XMLBytes(data))
//	n, err := schema.EncodePreserving(ctx, dm)
//
// Element schemas are declared with package dsl; the service model itself
// (bindings, behaviors, services and clients) lives under servicemodel.
package svcconfig
