package graphjson

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/strand-ir/go-strand/ir"
	"github.com/strand-ir/go-strand/registry"
)

// attrGetter fills a Node record from a live value, resolving references
// through the indexer's table.
type attrGetter struct {
	index   map[ir.Any]int
	tensors *tensorTable
}

// tensorTable interns tensor blobs; each distinct tensor object encodes
// once.
type tensorTable struct {
	index map[*ir.NDArray]int
	blobs []string
}

func newTensorTable() *tensorTable {
	return &tensorTable{index: map[*ir.NDArray]int{}}
}

func (tt *tensorTable) add(t *ir.NDArray) (int, error) {
	if i, ok := tt.index[t]; ok {
		return i, nil
	}
	blob, err := encodeTensor(t)
	if err != nil {
		return 0, err
	}
	i := len(tt.blobs)
	tt.index[t] = i
	tt.blobs = append(tt.blobs, blob)
	return i, nil
}

func (g *attrGetter) nodeID(v ir.Any) (int, error) {
	id, ok := g.index[v]
	if !ok {
		return 0, fmt.Errorf("internal error: value %s not indexed", v.TypeKey())
	}
	return id, nil
}

func (g *attrGetter) get(n ir.Any, jn *Node) error {
	if n.IsNone() {
		return nil
	}
	jn.TypeKey = n.TypeKey()

	switch n.TypeIndex() {
	case ir.TypeIndexInt:
		v, _ := n.AsInt()
		jn.setAttr("v_int64", strconv.FormatInt(v, 10))
	case ir.TypeIndexBool:
		v, _ := n.AsBool()
		if v {
			jn.setAttr("v_int64", "1")
		} else {
			jn.setAttr("v_int64", "0")
		}
	case ir.TypeIndexFloat:
		v, _ := n.AsFloat()
		jn.setAttr("v_float64", formatDouble(v))
	case ir.TypeIndexDataType:
		v, _ := n.AsDataType()
		jn.setAttr("v_type", v.String())
	case ir.TypeIndexDevice:
		v, _ := n.AsDevice()
		jn.setAttr("v_device_type", strconv.Itoa(int(v.Type)))
		jn.setAttr("v_device_id", strconv.Itoa(int(v.ID)))
	case ir.TypeIndexStr:
		v, _ := n.AsString()
		jn.SetReprBytes([]byte(v))
	case ir.TypeIndexBytes:
		v, _ := n.AsBytes()
		jn.SetReprBytes(v)
	case ir.TypeIndexShape:
		jn.SetReprBytes(shapeRepr(n.Obj().(*ir.Shape)))
	case ir.TypeIndexArray:
		for _, elem := range n.Obj().(*ir.Array).Elems {
			id, err := g.nodeID(elem)
			if err != nil {
				return err
			}
			jn.Data = append(jn.Data, id)
		}
	case ir.TypeIndexMap:
		return g.getMap(n.Obj().(*ir.Map), jn)
	case ir.TypeIndexNDArray:
		i, err := g.tensors.add(n.Obj().(*ir.NDArray))
		if err != nil {
			return err
		}
		jn.Data = []int{i}
	default:
		return g.getObject(n.Obj(), jn)
	}
	return nil
}

func (g *attrGetter) getMap(m *ir.Map, jn *Node) error {
	var err error
	if m.AllStringKeys() {
		m.Each(func(k, v ir.Any) bool {
			s, _ := k.AsString()
			var id int
			if id, err = g.nodeID(v); err != nil {
				return false
			}
			jn.Keys = append(jn.Keys, s)
			jn.Data = append(jn.Data, id)
			return true
		})
		return err
	}
	m.Each(func(k, v ir.Any) bool {
		var kid, vid int
		if kid, err = g.nodeID(k); err != nil {
			return false
		}
		if vid, err = g.nodeID(v); err != nil {
			return false
		}
		jn.Data = append(jn.Data, kid, vid)
		return true
	})
	return err
}

func (g *attrGetter) getObject(obj ir.Object, jn *Node) error {
	if b, ok := registry.GetReprBytes(obj); ok {
		jn.SetReprBytes(b)
		return nil
	}
	ti := registry.LookupObject(obj)
	if ti == nil || !ti.Reflective() {
		return fmt.Errorf("%w: object %q does not support serialization",
			ErrNoReflection, obj.TypeKey())
	}
	for i := range ti.Fields {
		f := &ti.Fields[i]
		v := f.Get(obj)
		if v.IsNone() {
			jn.setAttr(f.Name, "null")
			continue
		}
		switch f.Static {
		case registry.StaticBool:
			b, _ := v.AsBool()
			if b {
				jn.setAttr(f.Name, "1")
			} else {
				jn.setAttr(f.Name, "0")
			}
		case registry.StaticInt:
			iv, _ := v.AsInt()
			jn.setAttr(f.Name, strconv.FormatInt(iv, 10))
		case registry.StaticFloat:
			fv, _ := v.AsFloat()
			jn.setAttr(f.Name, formatDouble(fv))
		case registry.StaticString:
			s, _ := v.AsString()
			jn.setAttr(f.Name, s)
		case registry.StaticDataType:
			dt, _ := v.AsDataType()
			jn.setAttr(f.Name, dt.String())
		case registry.StaticNDArray, registry.StaticObject, registry.StaticAny:
			id, err := g.nodeID(v)
			if err != nil {
				return err
			}
			jn.setAttr(f.Name, strconv.Itoa(id))
		default:
			return fmt.Errorf("cannot serialize field %q of %q: unsupported static type",
				f.Name, ti.TypeKey)
		}
	}
	return nil
}

func shapeRepr(s *ir.Shape) []byte {
	parts := make([]string, len(s.Dims))
	for i, d := range s.Dims {
		parts[i] = strconv.FormatInt(d, 10)
	}
	return []byte(strings.Join(parts, ","))
}

func parseShapeRepr(b []byte) (*ir.Shape, error) {
	s := string(b)
	if s == "" {
		return ir.NewShape(), nil
	}
	parts := strings.Split(s, ",")
	dims := make([]int64, len(parts))
	for i, p := range parts {
		d, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w for shape: %q", ErrBadAttr, s)
		}
		dims[i] = d
	}
	return ir.NewShape(dims...), nil
}
