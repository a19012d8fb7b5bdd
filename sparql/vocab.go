// Package sparql holds the vocabulary shared by the query compiler layers:
// XSD datatype IRIs, the RDF terms used when assembling commands, and the
// system graph names the compiler falls back to.
package sparql

import "strings"

// Namespaces
const (
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	// JanusNamespace names the internal predicates and classes of the store
	JanusNamespace = "http://janus-datalog.dev/ns#"
)

// XSD datatypes
const (
	XSDString             = XSDNamespace + "string"
	XSDBoolean            = XSDNamespace + "boolean"
	XSDDecimal            = XSDNamespace + "decimal"
	XSDFloat              = XSDNamespace + "float"
	XSDDouble             = XSDNamespace + "double"
	XSDDateTime           = XSDNamespace + "dateTime"
	XSDInteger            = XSDNamespace + "integer"
	XSDNonPositiveInteger = XSDNamespace + "nonPositiveInteger"
	XSDNegativeInteger    = XSDNamespace + "negativeInteger"
	XSDLong               = XSDNamespace + "long"
	XSDInt                = XSDNamespace + "int"
	XSDShort              = XSDNamespace + "short"
	XSDByte               = XSDNamespace + "byte"
	XSDNonNegativeInteger = XSDNamespace + "nonNegativeInteger"
	XSDUnsignedLong       = XSDNamespace + "unsignedLong"
	XSDUnsignedInt        = XSDNamespace + "unsignedInt"
	XSDUnsignedShort      = XSDNamespace + "unsignedShort"
	XSDUnsignedByte       = XSDNamespace + "unsignedByte"
	XSDPositiveInteger    = XSDNamespace + "positiveInteger"
)

// RDF terms used by DESCRIBE and variable binding
const (
	RDFType      = RDFNamespace + "type"
	RDFSLiteral  = RDFSNamespace + "Literal"
	URIReference = JanusNamespace + "URIReference"
	// Is is the predicate of a variable-equals-value constraint
	Is = JanusNamespace + "is"
)

// System graphs
const (
	// FallbackDefaultGraph is used when neither the protocol, the query, nor
	// the system catalog names a default graph.
	FallbackDefaultGraph = "sys:default"
	// TypeModelGraph resolves rdf:type facts about node kinds (literal, URI).
	TypeModelGraph = "sys:type"
)

var numericTypes = map[string]bool{
	XSDDecimal:            true,
	XSDFloat:              true,
	XSDDouble:             true,
	XSDInteger:            true,
	XSDNonPositiveInteger: true,
	XSDNegativeInteger:    true,
	XSDLong:               true,
	XSDInt:                true,
	XSDShort:              true,
	XSDByte:               true,
	XSDNonNegativeInteger: true,
	XSDUnsignedLong:       true,
	XSDUnsignedInt:        true,
	XSDUnsignedShort:      true,
	XSDUnsignedByte:       true,
	XSDPositiveInteger:    true,
}

// IsNumericDatatype reports whether the datatype IRI is one of the XSD
// numeric types.
func IsNumericDatatype(iri string) bool {
	return numericTypes[iri]
}

// IsXSD reports whether the IRI is in the XSD namespace
func IsXSD(iri string) bool {
	return strings.HasPrefix(iri, XSDNamespace)
}

// Compact shortens IRIs in well-known namespaces for display
func Compact(iri string) string {
	switch {
	case strings.HasPrefix(iri, XSDNamespace):
		return "xsd:" + iri[len(XSDNamespace):]
	case strings.HasPrefix(iri, RDFNamespace):
		return "rdf:" + iri[len(RDFNamespace):]
	case strings.HasPrefix(iri, RDFSNamespace):
		return "rdfs:" + iri[len(RDFSNamespace):]
	case strings.HasPrefix(iri, JanusNamespace):
		return "janus:" + iri[len(JanusNamespace):]
	}
	return iri
}
