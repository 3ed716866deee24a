// Package strand is the object substrate of a compiler framework: a
// dynamic Any value over reflective typed objects, structural equality
// that understands sharing and variable binding, and graph-preserving
// JSON serialization.
//
// The value model lives in ir, reflection metadata in registry, and the
// wire format in graphjson; this package is the public surface.
package strand

import "github.com/strand-ir/go-strand/graphjson"

// Version is the framework version stamped into serialized graphs.
const Version = graphjson.Version
