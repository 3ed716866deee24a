package strand

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/strand-ir/go-strand/graphjson"
	"github.com/strand-ir/go-strand/ir"
)

func roundTrip(t *testing.T, v ir.Any, opts ...EqOpt) ir.Any {
	t.Helper()
	s, err := Serialize(v)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	back, err := Deserialize(s)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	eq, err := Equal(v, back, opts...)
	if err != nil {
		t.Fatalf("Equal: %v", err)
	}
	if !eq {
		m, _ := FirstMismatch(v, back, opts...)
		t.Fatalf("round trip of %s not equal: %s", v, m)
	}
	return back
}

func TestRoundTripScalars(t *testing.T) {
	tests := []struct {
		name string
		v    ir.Any
	}{
		{"none", ir.None()},
		{"int", ir.FromInt(-17)},
		{"bool", ir.FromBool(true)},
		{"float", ir.FromFloat(0.1)},
		{"float inf", ir.FromFloat(math.Inf(1))},
		{"float -inf", ir.FromFloat(math.Inf(-1))},
		{"float nan", ir.FromFloat(math.NaN())},
		{"string", ir.FromString("hello")},
		{"bytes", ir.FromBytes([]byte{0, 1, 0xfe})},
		{"dtype", ir.FromDataType(ir.Float32Type())},
		{"device", ir.FromDevice(ir.CPU(2))},
		{"shape", obj(ir.NewShape(1, 2, 3))},
		{"empty shape", obj(ir.NewShape())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roundTrip(t, tt.v)
		})
	}
}

func TestRoundTripContainers(t *testing.T) {
	roundTrip(t, arr())
	roundTrip(t, arr(ir.FromInt(1), ir.FromFloat(2.5), ir.FromString("x"), ir.None()))
	roundTrip(t, strMap("a", ir.FromInt(1), "b", arr(ir.FromInt(2))))

	// non-string keys exercise the alternating key/value encoding
	m := ir.NewMap()
	m.Set(ir.FromInt(3), ir.FromString("three"))
	m.Set(ir.FromDevice(ir.CPU(0)), ir.FromBool(true))
	m.Set(ir.FromString("mixed"), ir.FromFloat(0.25))
	roundTrip(t, obj(m))
}

func TestRoundTripObjects(t *testing.T) {
	// a reloaded free variable is a fresh object, so it only compares
	// equal under free-var mapping
	x := &testVar{Name: "x"}
	back := roundTrip(t, obj(x), MapFreeVars(true))
	if got := back.Obj().(*testVar).Name; got != "x" {
		t.Errorf("var name = %q", got)
	}
	roundTrip(t, obj(&testAdd{A: obj(x), B: ir.FromInt(2)}), MapFreeVars(true))

	// bound variables need no mapping option
	roundTrip(t, obj(&testLet{
		Var:   x,
		Value: ir.FromInt(1),
		Body:  obj(&testAdd{A: obj(x), B: obj(x)}),
	}))
	roundTrip(t, obj(&testConst{Value: 12, Note: "kept"}))
}

func TestRoundTripAttrKinds(t *testing.T) {
	data := ir.NewNDArray(ir.Int32Type(), 3)
	copy(data.Data, []byte{1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0})
	v := obj(&testAttrs{
		Flag:   true,
		Weight: math.Inf(-1),
		DType:  ir.Float64Type(),
		Data:   data,
		Extra:  ir.FromInt(9),
	})
	back := roundTrip(t, v)
	got := back.Obj().(*testAttrs)
	if !got.Flag || !math.IsInf(got.Weight, -1) || got.DType != ir.Float64Type() {
		t.Errorf("attrs lost: %+v", got)
	}
	if v, ok := got.Extra.AsInt(); !ok || v != 9 {
		t.Errorf("extra = %s", got.Extra)
	}
}

func TestRoundTripNilFields(t *testing.T) {
	back := roundTrip(t, obj(&testAttrs{Extra: ir.None()}))
	got := back.Obj().(*testAttrs)
	if got.Data != nil {
		t.Errorf("data = %v, want nil", got.Data)
	}
	if !got.Extra.IsNone() {
		t.Errorf("extra = %s, want None", got.Extra)
	}
}

func TestSharingPreserved(t *testing.T) {
	shared := &testAdd{A: ir.FromInt(1), B: ir.FromInt(2)}
	root := obj(&testAdd{A: obj(shared), B: obj(shared)})

	s, err := Serialize(root)
	if err != nil {
		t.Fatal(err)
	}
	g, err := graphjson.Unmarshal([]byte(s))
	if err != nil {
		t.Fatal(err)
	}
	adds := 0
	for _, n := range g.Nodes {
		if n.TypeKey == "test.Add" {
			adds++
		}
	}
	if adds != 2 {
		t.Errorf("graph has %d test.Add nodes, want 2 (one root, one shared child)", adds)
	}

	back, err := Deserialize(s)
	if err != nil {
		t.Fatal(err)
	}
	rootAdd := back.Obj().(*testAdd)
	if rootAdd.A.Obj() != rootAdd.B.Obj() {
		t.Error("shared child should deserialize to a single object")
	}
}

func TestTensorSharingOneBlob(t *testing.T) {
	tensor := ir.NewNDArray(ir.Float32Type(), 2)
	root := arr(obj(tensor), obj(tensor))
	s, err := Serialize(root)
	if err != nil {
		t.Fatal(err)
	}
	g, err := graphjson.Unmarshal([]byte(s))
	if err != nil {
		t.Fatal(err)
	}
	if len(g.B64NDArrays) != 1 {
		t.Errorf("blobs = %d, want 1", len(g.B64NDArrays))
	}
	back, err := Deserialize(s)
	if err != nil {
		t.Fatal(err)
	}
	elems := back.Obj().(*ir.Array).Elems
	if elems[0].Obj() != elems[1].Obj() {
		t.Error("shared tensor should deserialize to a single object")
	}
}

func TestVersionAttr(t *testing.T) {
	s, err := Serialize(ir.FromInt(1))
	if err != nil {
		t.Fatal(err)
	}
	g, err := graphjson.Unmarshal([]byte(s))
	if err != nil {
		t.Fatal(err)
	}
	if got := g.Attrs["strand_version"]; got != Version {
		t.Errorf("strand_version = %q, want %q", got, Version)
	}
}

func TestReprBytesRoundTrip(t *testing.T) {
	blob := &testBlob{payload: []byte("printable payload")}
	s, err := Serialize(obj(blob))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(s, `"repr_str":"printable payload"`) {
		t.Errorf("printable repr should use repr_str: %s", s)
	}
	back, err := Deserialize(s)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(back.Obj().(*testBlob).payload); got != "printable payload" {
		t.Errorf("payload = %q", got)
	}

	raw := &testBlob{payload: []byte{0x00, 0x1f, 0x80}}
	s, err = Serialize(obj(raw))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(s, `"repr_b64":`) || strings.Contains(s, `"repr_str":`) {
		t.Errorf("non-printable repr should use repr_b64 only: %s", s)
	}
	back, err = Deserialize(s)
	if err != nil {
		t.Fatal(err)
	}
	if got := back.Obj().(*testBlob).payload; string(got) != string(raw.payload) {
		t.Errorf("payload = %v", got)
	}
}

func TestSerializeUnreflectedFails(t *testing.T) {
	_, err := Serialize(obj(&notReflected{x: 1}))
	if !errors.Is(err, graphjson.ErrNoReflection) {
		t.Errorf("err = %v, want ErrNoReflection", err)
	}
}

func TestDeserializeCycleFails(t *testing.T) {
	cyclic := `{"root":1,"nodes":[{},{"type_key":"ir.Array","data":[2]},{"type_key":"ir.Array","data":[1]}],"b64ndarrays":[]}`
	_, err := Deserialize(cyclic)
	if !errors.Is(err, graphjson.ErrCyclicReference) {
		t.Errorf("err = %v, want ErrCyclicReference", err)
	}
}

func TestDeserializeBadInput(t *testing.T) {
	if _, err := Deserialize("not json"); err == nil {
		t.Error("garbage input should fail")
	}
	outOfRange := `{"root":9,"nodes":[{}],"b64ndarrays":[]}`
	if _, err := Deserialize(outOfRange); err == nil {
		t.Error("root out of range should fail")
	}
	badAttr := `{"root":1,"nodes":[{},{"type_key":"Int","attrs":{"v_int64":"xyz"}}],"b64ndarrays":[]}`
	if _, err := Deserialize(badAttr); err == nil {
		t.Error("malformed attr should fail")
	}
	unknown := `{"root":1,"nodes":[{},{"type_key":"no.Such"}],"b64ndarrays":[]}`
	if _, err := Deserialize(unknown); err == nil {
		t.Error("unknown type key should fail")
	}
}

func TestSerializeGolden(t *testing.T) {
	s, err := Serialize(arr(ir.FromInt(1), ir.FromString("hi")))
	if err != nil {
		t.Fatal(err)
	}
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "array_graph", []byte(s))
}

func TestPODsAsGraphEdges(t *testing.T) {
	// PODs inside containers become nodes of their own
	s, err := Serialize(arr(ir.FromFloat(0.5), ir.FromDevice(ir.CPU(1))))
	if err != nil {
		t.Fatal(err)
	}
	g, err := graphjson.Unmarshal([]byte(s))
	if err != nil {
		t.Fatal(err)
	}
	var keys []string
	for _, n := range g.Nodes {
		keys = append(keys, n.TypeKey)
	}
	want := []string{"", "ir.Array", "Float", "Device"}
	if len(keys) != len(want) {
		t.Fatalf("node keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("node keys = %v, want %v", keys, want)
		}
	}
}
