package graphjson

import (
	"github.com/strand-ir/go-strand/ir"
	"github.com/strand-ir/go-strand/registry"
)

// findFieldDeps records, for a reflective node, the node ids referenced
// by its attrs. Containers carry their references in Data and need no
// scan; opaque nodes have no references at all.
func findFieldDeps(jn *Node) error {
	switch jn.TypeKey {
	case "", "Int", "Bool", "Float", "DataType", "Device",
		ir.StrTypeKey, ir.BytesTypeKey, ir.ShapeTypeKey,
		ir.ArrayTypeKey, ir.MapTypeKey, ir.NDArrayTypeKey:
		return nil
	}
	if jn.ReprStr != "" || jn.ReprB64 != "" {
		return nil
	}
	ti := registry.LookupKey(jn.TypeKey)
	if ti == nil || !ti.Reflective() {
		// createInitAny has already rejected unknown type keys
		return nil
	}
	for i := range ti.Fields {
		f := &ti.Fields[i]
		if !f.Static.IsNodeRef() {
			continue
		}
		v, err := jn.attr(f.Name)
		if err != nil {
			return err
		}
		id, ok, err := parseOptionalID(f.Name, v)
		if err != nil {
			return err
		}
		if ok {
			jn.fields = append(jn.fields, id)
		}
	}
	return nil
}
