package graphjson

import (
	"fmt"

	"github.com/strand-ir/go-strand/debug"
	"github.com/strand-ir/go-strand/ir"
	"github.com/strand-ir/go-strand/registry"
)

// indexer walks a live graph and assigns a stable integer id to every
// unique reachable value. Id 0 is the null sentinel. A node receives its
// id before its children are visited, so self-referencing structures
// index without recursing forever (they are rejected later, at load
// time, by the topological sort).
type indexer struct {
	index map[ir.Any]int
	list  []ir.Any
}

func newIndexer() *indexer {
	return &indexer{
		index: map[ir.Any]int{ir.None(): 0},
		list:  []ir.Any{ir.None()},
	}
}

func (x *indexer) makeNodeIndex(n ir.Any) {
	if n.IsNone() {
		return
	}
	if _, ok := x.index[n]; ok {
		return
	}
	id := len(x.list)
	x.index[n] = id
	x.list = append(x.list, n)
	if debug.Index() {
		debug.Logf("index %d: %s\n", id, n.TypeKey())
	}
}

func (x *indexer) makeIndex(n ir.Any) error {
	if n.IsNone() {
		return nil
	}
	if _, ok := x.index[n]; ok {
		return nil
	}
	x.makeNodeIndex(n)

	switch n.TypeIndex() {
	case ir.TypeIndexArray:
		for _, elem := range n.Obj().(*ir.Array).Elems {
			if err := x.makeIndex(elem); err != nil {
				return err
			}
		}
	case ir.TypeIndexMap:
		m := n.Obj().(*ir.Map)
		strKeys := m.AllStringKeys()
		var err error
		m.Each(func(k, v ir.Any) bool {
			if !strKeys {
				if err = x.makeIndex(k); err != nil {
					return false
				}
			}
			err = x.makeIndex(v)
			return err == nil
		})
		return err
	case ir.TypeIndexObject:
		return x.visitObjectFields(n.Obj())
	}
	return nil
}

func (x *indexer) visitObjectFields(obj ir.Object) error {
	// opaque objects index as a single node
	if _, ok := registry.GetReprBytes(obj); ok {
		return nil
	}
	ti := registry.LookupObject(obj)
	if ti == nil || !ti.Reflective() {
		return fmt.Errorf("%w: object %q does not support serialization",
			ErrNoReflection, obj.TypeKey())
	}
	for i := range ti.Fields {
		f := &ti.Fields[i]
		if !f.Static.IsNodeRef() {
			continue
		}
		if err := x.makeIndex(f.Get(obj)); err != nil {
			return err
		}
	}
	return nil
}
