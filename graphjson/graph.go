package graphjson

import (
	"encoding/json"
	"fmt"

	"github.com/strand-ir/go-strand/debug"
	"github.com/strand-ir/go-strand/ir"
)

// Version is stamped into every saved graph under the version attr.
const Version = "0.4.0"

const versionAttr = "strand_version"

// Graph is the persisted form of an object graph. Nodes[0] is the null
// sentinel; Root indexes Nodes.
type Graph struct {
	Root        int               `json:"root"`
	Nodes       []Node            `json:"nodes"`
	B64NDArrays []string          `json:"b64ndarrays"`
	Attrs       map[string]string `json:"attrs,omitempty"`
}

// Save flattens the graph reachable from root into a Graph.
func Save(root ir.Any) (*Graph, error) {
	idx := newIndexer()
	if err := idx.makeIndex(root); err != nil {
		return nil, err
	}
	getter := &attrGetter{
		index:   idx.index,
		tensors: newTensorTable(),
	}
	g := &Graph{
		Nodes: make([]Node, 0, len(idx.list)),
	}
	for _, n := range idx.list {
		var jn Node
		if err := getter.get(n, &jn); err != nil {
			return nil, err
		}
		g.Nodes = append(g.Nodes, jn)
	}
	g.B64NDArrays = getter.tensors.blobs
	if g.B64NDArrays == nil {
		g.B64NDArrays = []string{}
	}
	g.Attrs = map[string]string{versionAttr: Version}
	g.Root = idx.index[root]
	if debug.Save() {
		debug.Logf("saved %d nodes, %d tensors, root %d\n",
			len(g.Nodes), len(g.B64NDArrays), g.Root)
	}
	return g, nil
}

// Marshal renders the graph in its wire form.
func (g *Graph) Marshal() ([]byte, error) {
	return json.Marshal(g)
}

// Unmarshal decodes a wire-form graph.
func Unmarshal(data []byte) (*Graph, error) {
	g := &Graph{}
	if err := json.Unmarshal(data, g); err != nil {
		return nil, fmt.Errorf("unparseable graph JSON: %w", err)
	}
	return g, nil
}

// depEdges returns the outgoing node references of a record. Tensor
// nodes have none: their data entry indexes the blob list, not the node
// table.
func (g *Graph) depEdges(jn *Node) []int {
	if jn.TypeKey == ir.NDArrayTypeKey {
		return jn.fields
	}
	if len(jn.fields) == 0 {
		return jn.Data
	}
	edges := make([]int, 0, len(jn.Data)+len(jn.fields))
	edges = append(edges, jn.Data...)
	return append(edges, jn.fields...)
}

// topoSort orders node ids so that every node precedes the nodes it
// references, then reverses: leaves first, root last. It fails on
// cycles.
func (g *Graph) topoSort() ([]int, error) {
	n := len(g.Nodes)
	inDegree := make([]int, n)
	for i := range g.Nodes {
		for _, e := range g.depEdges(&g.Nodes[i]) {
			if e < 0 || e >= n {
				return nil, fmt.Errorf("%w: %d of %d", ErrBadNodeRef, e, n)
			}
			inDegree[e]++
		}
	}
	order := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if inDegree[i] == 0 {
			order = append(order, i)
		}
	}
	for p := 0; p < len(order); p++ {
		for _, e := range g.depEdges(&g.Nodes[order[p]]) {
			inDegree[e]--
			if inDegree[e] == 0 {
				order = append(order, e)
			}
		}
	}
	if len(order) != n {
		return nil, ErrCyclicReference
	}
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

// Restore rebuilds the live graph and returns its root.
func (g *Graph) Restore() (ir.Any, error) {
	tensors := make([]*ir.NDArray, 0, len(g.B64NDArrays))
	for i, blob := range g.B64NDArrays {
		t, err := decodeTensor(blob)
		if err != nil {
			return ir.None(), fmt.Errorf("tensor blob %d: %w", i, err)
		}
		tensors = append(tensors, t)
	}
	setter := &attrSetter{
		nodes:   make([]ir.Any, len(g.Nodes)),
		tensors: tensors,
	}
	// pass 1: skeletons
	for i := range g.Nodes {
		n, err := setter.createInitAny(&g.Nodes[i])
		if err != nil {
			return ir.None(), err
		}
		setter.nodes[i] = n
	}
	// pass 2: attr-level dependencies
	for i := range g.Nodes {
		if err := findFieldDeps(&g.Nodes[i]); err != nil {
			return ir.None(), err
		}
	}
	// pass 3: order
	order, err := g.topoSort()
	if err != nil {
		return ir.None(), err
	}
	// pass 4: fill, leaves first
	for _, i := range order {
		if err := setter.setAttrs(i, &g.Nodes[i]); err != nil {
			return ir.None(), err
		}
	}
	if debug.Load() {
		debug.Logf("loaded %d nodes, root %d\n", len(g.Nodes), g.Root)
	}
	return setter.node(g.Root)
}
