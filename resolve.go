package strand

import (
	"fmt"

	"github.com/strand-ir/go-strand/ir"
	"github.com/strand-ir/go-strand/ir/apath"
	"github.com/strand-ir/go-strand/registry"
)

// Resolve descends from root along the path and returns the value it
// reaches. A missing step (ArrayIndexMissing, MapKeyMissing) cannot be
// descended and is an error, as is a step that does not fit the value it
// applies to.
func Resolve(root ir.Any, p *apath.Path) (ir.Any, error) {
	cur := root
	for _, step := range p.Steps {
		if step.IsMissing() {
			return ir.None(), fmt.Errorf("path stops at missing element %s", step)
		}
		switch step.Kind {
		case apath.ObjectField:
			obj := cur.Obj()
			if obj == nil || cur.TypeIndex() != ir.TypeIndexObject {
				return ir.None(), fmt.Errorf("cannot take field %q of %s", step.Field, cur.TypeKey())
			}
			ti := registry.LookupObject(obj)
			if ti == nil || !ti.Reflective() {
				return ir.None(), fmt.Errorf("type %q has no fields", obj.TypeKey())
			}
			f := ti.Field(step.Field)
			if f == nil {
				return ir.None(), fmt.Errorf("type %q has no field %q", ti.TypeKey, step.Field)
			}
			cur = f.Get(obj)
		case apath.ArrayIndex:
			arr, ok := cur.Obj().(*ir.Array)
			if !ok {
				return ir.None(), fmt.Errorf("cannot index %s", cur.TypeKey())
			}
			if step.Index < 0 || step.Index >= len(arr.Elems) {
				return ir.None(), fmt.Errorf("index %d out of bounds (len %d)", step.Index, len(arr.Elems))
			}
			cur = arr.Elems[step.Index]
		case apath.MapKey:
			m, ok := cur.Obj().(*ir.Map)
			if !ok {
				return ir.None(), fmt.Errorf("cannot key into %s", cur.TypeKey())
			}
			v, ok := m.Get(step.Key)
			if !ok {
				return ir.None(), fmt.Errorf("key %s not present", step.Key)
			}
			cur = v
		default:
			return ir.None(), fmt.Errorf("cannot resolve step %s", step)
		}
	}
	return cur, nil
}
