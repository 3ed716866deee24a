package strand

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/strand-ir/go-strand/debug"
	"github.com/strand-ir/go-strand/ir"
	"github.com/strand-ir/go-strand/ir/apath"
	"github.com/strand-ir/go-strand/registry"
)

type EqConfig struct {
	MapFreeVars        bool
	SkipNDArrayContent bool
}

type EqOpt func(*EqConfig)

// MapFreeVars allows unbound free variables to map to each other, so
// that structurally isomorphic terms compare equal regardless of which
// variable objects they use.
func MapFreeVars(v bool) EqOpt {
	return func(c *EqConfig) { c.MapFreeVars = v }
}

// SkipNDArrayContent restricts tensor comparison to the header (shape
// and element type), ignoring the data bytes.
func SkipNDArrayContent(v bool) EqOpt {
	return func(c *EqConfig) { c.SkipNDArrayContent = v }
}

// Mismatch locates the first structural difference between two values:
// one access path per side, root to leaf.
type Mismatch struct {
	Lhs *apath.Path
	Rhs *apath.Path
}

func (m *Mismatch) String() string {
	return fmt.Sprintf("lhs at %s, rhs at %s", m.Lhs, m.Rhs)
}

// Equal reports whether lhs and rhs are structurally equal. It only
// errors on contract violations (comparing the content of non-CPU or
// non-contiguous tensors); every ordinary difference is a false return.
func Equal(lhs, rhs ir.Any, opts ...EqOpt) (bool, error) {
	c := newComparer(opts)
	return c.compareAny(lhs, rhs)
}

// FirstMismatch compares like Equal and, on difference, returns the pair
// of access paths locating the first mismatch from the two roots. Equal
// values yield a nil Mismatch.
func FirstMismatch(lhs, rhs ir.Any, opts ...EqOpt) (*Mismatch, error) {
	c := newComparer(opts)
	c.trace = true
	ok, err := c.compareAny(lhs, rhs)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, nil
	}
	return &Mismatch{
		Lhs: apath.FromReverse(c.lhsRev),
		Rhs: apath.FromReverse(c.rhsRev),
	}, nil
}

// comparer holds the per-call state of one equality run. The two
// mappings key by object identity and record, for DAG and free-var
// nodes, which object on the other side each object corresponds to.
type comparer struct {
	mapFreeVars bool
	skipNDArray bool

	trace  bool
	lhsRev []apath.Step
	rhsRev []apath.Step

	eqLR map[ir.Object]ir.Object
	eqRL map[ir.Object]ir.Object
}

func newComparer(opts []EqOpt) *comparer {
	cfg := &EqConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return &comparer{
		mapFreeVars: cfg.MapFreeVars,
		skipNDArray: cfg.SkipNDArrayContent,
		eqLR:        map[ir.Object]ir.Object{},
		eqRL:        map[ir.Object]ir.Object{},
	}
}

func (c *comparer) push(lhs, rhs apath.Step) {
	if !c.trace {
		return
	}
	c.lhsRev = append(c.lhsRev, lhs)
	c.rhsRev = append(c.rhsRev, rhs)
}

func (c *comparer) compareAny(lhs, rhs ir.Any) (bool, error) {
	if lhs.TypeIndex() != rhs.TypeIndex() {
		return false, nil
	}
	switch ti := lhs.TypeIndex(); {
	case ti < ir.StaticObjectBegin:
		// POD payloads compare bitwise
		return lhs == rhs, nil
	case ti == ir.TypeIndexStr || ti == ir.TypeIndexBytes:
		return lhs == rhs, nil
	case ti == ir.TypeIndexArray:
		return c.compareArray(lhs.Obj().(*ir.Array), rhs.Obj().(*ir.Array))
	case ti == ir.TypeIndexMap:
		return c.compareMap(lhs.Obj().(*ir.Map), rhs.Obj().(*ir.Map))
	case ti == ir.TypeIndexShape:
		return compareShape(lhs.Obj().(*ir.Shape), rhs.Obj().(*ir.Shape)), nil
	case ti == ir.TypeIndexNDArray:
		return c.compareNDArray(lhs.Obj().(*ir.NDArray), rhs.Obj().(*ir.NDArray))
	default:
		return c.compareObject(lhs.Obj(), rhs.Obj())
	}
}

func (c *comparer) compareObject(lhs, rhs ir.Object) (bool, error) {
	if reflect.TypeOf(lhs) != reflect.TypeOf(rhs) {
		return false, nil
	}
	ti := registry.LookupObject(lhs)
	if ti == nil || !ti.Reflective() ||
		ti.EqHash == registry.EqHashUnsupported ||
		ti.EqHash == registry.EqHashUniqueInstance {
		return lhs == rhs, nil
	}
	kind := ti.EqHash
	if kind == registry.EqHashConstTreeNode && lhs == rhs {
		return true, nil
	}
	if kind == registry.EqHashDAGNode || kind == registry.EqHashFreeVar {
		// a previously mapped lhs must keep mapping to the same rhs
		if mapped, ok := c.eqLR[lhs]; ok {
			return mapped == rhs, nil
		}
		// rhs taken but lhs unmapped: lhs is a free occurrence whose
		// counterpart is already used
		if _, ok := c.eqRL[rhs]; ok {
			return false, nil
		}
	}

	success := true
	if kind == registry.EqHashFreeVar {
		if lhs != rhs && !c.mapFreeVars {
			success = false
		}
	} else {
		for i := range ti.Fields {
			f := &ti.Fields[i]
			if f.Flags&registry.FieldSEqHashIgnore != 0 {
				continue
			}
			lv, rv := f.Get(lhs), f.Get(rhs)
			var ok bool
			var err error
			if f.Flags&registry.FieldSEqHashDef != 0 {
				// the field subtree introduces definitions
				saved := c.mapFreeVars
				c.mapFreeVars = true
				ok, err = c.compareAny(lv, rv)
				c.mapFreeVars = saved
			} else {
				ok, err = c.compareAny(lv, rv)
			}
			if err != nil {
				return false, err
			}
			if !ok {
				if debug.Eq() {
					debug.Logf("mismatch at field %q of %q\n", f.Name, ti.TypeKey)
				}
				c.push(apath.FieldStep(f.Name), apath.FieldStep(f.Name))
				success = false
				break
			}
		}
	}
	if !success {
		return false, nil
	}
	if kind == registry.EqHashDAGNode || kind == registry.EqHashFreeVar {
		c.eqLR[lhs] = rhs
		c.eqRL[rhs] = lhs
	}
	return true, nil
}

func (c *comparer) compareArray(lhs, rhs *ir.Array) (bool, error) {
	ln, rn := len(lhs.Elems), len(rhs.Elems)
	if ln != rn && !c.trace {
		return false, nil
	}
	for i := 0; i < min(ln, rn); i++ {
		ok, err := c.compareAny(lhs.Elems[i], rhs.Elems[i])
		if err != nil {
			return false, err
		}
		if !ok {
			c.push(apath.IndexStep(i), apath.IndexStep(i))
			return false, nil
		}
	}
	if ln == rn {
		return true, nil
	}
	if ln > rn {
		c.push(apath.IndexStep(rn), apath.IndexMissingStep(rn))
	} else {
		c.push(apath.IndexMissingStep(ln), apath.IndexStep(ln))
	}
	return false, nil
}

func (c *comparer) compareMap(lhs, rhs *ir.Map) (bool, error) {
	if lhs.Len() != rhs.Len() && !c.trace {
		return false, nil
	}
	equal := true
	var err error
	lhs.Each(func(k, v ir.Any) bool {
		rhsKey := c.mapLhsToRhs(k)
		rv, ok := rhs.Get(rhsKey)
		if !ok {
			c.push(apath.KeyStep(k), apath.KeyMissingStep(rhsKey))
			equal = false
			return false
		}
		var same bool
		same, err = c.compareAny(v, rv)
		if err != nil || !same {
			if err == nil {
				c.push(apath.KeyStep(k), apath.KeyStep(rhsKey))
			}
			equal = false
			return false
		}
		return true
	})
	if err != nil || !equal {
		return false, err
	}
	if lhs.Len() == rhs.Len() {
		return true, nil
	}
	// rhs is larger: scan it for the missing key to report
	rhs.Each(func(k, v ir.Any) bool {
		lhsKey := c.mapRhsToLhs(k)
		if _, ok := lhs.Get(lhsKey); !ok {
			c.push(apath.KeyMissingStep(lhsKey), apath.KeyStep(k))
			return false
		}
		return true
	})
	return false, nil
}

func (c *comparer) mapLhsToRhs(k ir.Any) ir.Any {
	o := k.Obj()
	if o == nil {
		return k
	}
	if mapped, ok := c.eqLR[o]; ok {
		return ir.FromObject(mapped)
	}
	return k
}

func (c *comparer) mapRhsToLhs(k ir.Any) ir.Any {
	o := k.Obj()
	if o == nil {
		return k
	}
	if mapped, ok := c.eqRL[o]; ok {
		return ir.FromObject(mapped)
	}
	return k
}

func compareShape(lhs, rhs *ir.Shape) bool {
	if len(lhs.Dims) != len(rhs.Dims) {
		return false
	}
	for i := range lhs.Dims {
		if lhs.Dims[i] != rhs.Dims[i] {
			return false
		}
	}
	return true
}

func (c *comparer) compareNDArray(lhs, rhs *ir.NDArray) (bool, error) {
	if lhs == rhs {
		return true, nil
	}
	if lhs.NDim() != rhs.NDim() {
		return false, nil
	}
	for i := range lhs.Dims {
		if lhs.Dims[i] != rhs.Dims[i] {
			return false, nil
		}
	}
	if lhs.DType != rhs.DType {
		return false, nil
	}
	if c.skipNDArray {
		return true, nil
	}
	for _, t := range []*ir.NDArray{lhs, rhs} {
		if !t.IsCPU() {
			return false, fmt.Errorf("can only compare CPU tensors, got %s", t.Dev)
		}
		if !t.Contig {
			return false, fmt.Errorf("can only compare contiguous tensors")
		}
	}
	size := lhs.ByteSize()
	return bytes.Equal(lhs.Data[:size], rhs.Data[:size]), nil
}
