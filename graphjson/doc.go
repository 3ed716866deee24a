// Package graphjson saves and loads object graphs as JSON.
//
// A graph is flattened into a node table: every reachable value appears
// exactly once, references between nodes are integer ids, and id 0 is
// the null sentinel. Loading reconstructs the graph bottom-up in
// topological order, so a node's children are fully populated before the
// node itself is filled in. Cyclic graphs are rejected.
//
// Tensor payloads travel out-of-band in a parallel list of base64 blobs;
// an NDArray node's data entry is an index into that list.
package graphjson
