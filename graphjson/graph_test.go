package graphjson

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strand-ir/go-strand/ir"
)

func TestSaveRestoreContainers(t *testing.T) {
	m := ir.NewMap()
	m.Set(ir.FromString("k"), ir.FromInt(2))
	root := ir.FromObject(ir.NewArray(
		ir.FromInt(1),
		ir.FromObject(m),
		ir.None(),
	))

	g, err := Save(root)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Root)
	// sentinel + array + int + map + map value
	assert.Len(t, g.Nodes, 5)
	assert.Equal(t, "", g.Nodes[0].TypeKey)

	back, err := g.Restore()
	require.NoError(t, err)
	arr := back.Obj().(*ir.Array)
	require.Equal(t, 3, arr.Len())
	assert.Equal(t, ir.FromInt(1), arr.Elems[0])
	assert.True(t, arr.Elems[2].IsNone())
	gotMap := arr.Elems[1].Obj().(*ir.Map)
	v, ok := gotMap.Get(ir.FromString("k"))
	assert.True(t, ok)
	assert.Equal(t, ir.FromInt(2), v)
}

func TestStringKeyedMapUsesKeys(t *testing.T) {
	m := ir.NewMap()
	m.Set(ir.FromString("a"), ir.FromInt(1))
	m.Set(ir.FromString("b"), ir.FromInt(2))
	g, err := Save(ir.FromObject(m))
	require.NoError(t, err)

	var mapNode *Node
	for i := range g.Nodes {
		if g.Nodes[i].TypeKey == ir.MapTypeKey {
			mapNode = &g.Nodes[i]
		}
	}
	require.NotNil(t, mapNode)
	assert.Equal(t, []string{"a", "b"}, mapNode.Keys)
	assert.Len(t, mapNode.Data, 2)
}

func TestMixedKeyMapAlternates(t *testing.T) {
	m := ir.NewMap()
	m.Set(ir.FromInt(1), ir.FromString("one"))
	m.Set(ir.FromString("s"), ir.FromInt(2))
	g, err := Save(ir.FromObject(m))
	require.NoError(t, err)

	var mapNode *Node
	for i := range g.Nodes {
		if g.Nodes[i].TypeKey == ir.MapTypeKey {
			mapNode = &g.Nodes[i]
		}
	}
	require.NotNil(t, mapNode)
	assert.Empty(t, mapNode.Keys)
	assert.Len(t, mapNode.Data, 4)

	back, err := g.Restore()
	require.NoError(t, err)
	got := back.Obj().(*ir.Map)
	v, ok := got.Get(ir.FromInt(1))
	assert.True(t, ok)
	assert.Equal(t, ir.FromString("one"), v)
}

func TestTopoSortCycle(t *testing.T) {
	g := &Graph{
		Root: 1,
		Nodes: []Node{
			{},
			{TypeKey: ir.ArrayTypeKey, Data: []int{2}},
			{TypeKey: ir.ArrayTypeKey, Data: []int{1}},
		},
	}
	_, err := g.Restore()
	assert.ErrorIs(t, err, ErrCyclicReference)
}

func TestTopoSortSelfCycle(t *testing.T) {
	g := &Graph{
		Root: 1,
		Nodes: []Node{
			{},
			{TypeKey: ir.ArrayTypeKey, Data: []int{1}},
		},
	}
	_, err := g.Restore()
	assert.ErrorIs(t, err, ErrCyclicReference)
}

func TestBadNodeRef(t *testing.T) {
	g := &Graph{
		Root: 1,
		Nodes: []Node{
			{},
			{TypeKey: ir.ArrayTypeKey, Data: []int{7}},
		},
	}
	_, err := g.Restore()
	assert.ErrorIs(t, err, ErrBadNodeRef)
}

func TestRestorePODs(t *testing.T) {
	g := &Graph{
		Root: 1,
		Nodes: []Node{
			{},
			{TypeKey: ir.ArrayTypeKey, Data: []int{2, 3, 4, 5}},
			{TypeKey: "Float", Attrs: map[string]string{"v_float64": "inf"}},
			{TypeKey: "Float", Attrs: map[string]string{"v_float64": "-inf"}},
			{TypeKey: "Float", Attrs: map[string]string{"v_float64": "nan"}},
			{TypeKey: "Device", Attrs: map[string]string{"v_device_type": "1", "v_device_id": "4"}},
		},
	}
	back, err := g.Restore()
	require.NoError(t, err)
	elems := back.Obj().(*ir.Array).Elems
	f0, _ := elems[0].AsFloat()
	f1, _ := elems[1].AsFloat()
	assert.True(t, math.IsInf(f0, 1), "want +inf, got %v", f0)
	assert.True(t, math.IsInf(f1, -1), "want -inf, got %v", f1)
	f2, _ := elems[2].AsFloat()
	assert.True(t, math.IsNaN(f2), "want NaN, got %v", f2)
	dev, ok := elems[3].AsDevice()
	assert.True(t, ok)
	assert.Equal(t, ir.CPU(4), dev)
}

func TestRestoreRejectsCaseVariants(t *testing.T) {
	g := &Graph{
		Root: 1,
		Nodes: []Node{
			{},
			{TypeKey: "Float", Attrs: map[string]string{"v_float64": "Inf"}},
		},
	}
	_, err := g.Restore()
	assert.ErrorIs(t, err, ErrBadAttr)
}

func TestMapNodeShapeErrors(t *testing.T) {
	odd := &Graph{
		Root: 1,
		Nodes: []Node{
			{},
			{TypeKey: ir.MapTypeKey, Data: []int{0, 0, 0}},
		},
	}
	_, err := odd.Restore()
	assert.Error(t, err)

	misaligned := &Graph{
		Root: 1,
		Nodes: []Node{
			{},
			{TypeKey: ir.MapTypeKey, Keys: []string{"a", "b"}, Data: []int{0}},
		},
	}
	_, err = misaligned.Restore()
	assert.Error(t, err)
}

func TestMarshalUnmarshal(t *testing.T) {
	g, err := Save(ir.FromObject(ir.NewArray(ir.FromInt(1))))
	require.NoError(t, err)
	d, err := g.Marshal()
	require.NoError(t, err)
	back, err := Unmarshal(d)
	require.NoError(t, err)
	assert.Equal(t, g.Root, back.Root)
	require.Len(t, back.Nodes, len(g.Nodes))
	for i := range g.Nodes {
		assert.Equal(t, g.Nodes[i].TypeKey, back.Nodes[i].TypeKey)
	}

	_, err = Unmarshal([]byte("{"))
	assert.Error(t, err)
}

func TestGraphAttrsPreserved(t *testing.T) {
	d := []byte(`{"root":1,"nodes":[{},{"type_key":"Int","attrs":{"v_int64":"5"}}],"b64ndarrays":[],"attrs":{"strand_version":"0.0.1","custom":"kept"}}`)
	g, err := Unmarshal(d)
	require.NoError(t, err)
	assert.Equal(t, "kept", g.Attrs["custom"])
	back, err := g.Restore()
	require.NoError(t, err)
	assert.Equal(t, ir.FromInt(5), back)
}
