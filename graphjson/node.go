package graphjson

import (
	"encoding/base64"
	"fmt"
)

// Node is the persisted record of one graph node.
//
// TypeKey is empty for the null sentinel. ReprStr and ReprB64 both carry
// the type's opaque repr bytes; printable reprs use ReprStr, anything
// else is base64 in ReprB64, and at most one of the two is set. Attrs
// holds field values as text. Keys and Data describe container contents:
// for arrays Data lists element ids, for string-keyed maps Keys and Data
// align, for other maps Data alternates key and value ids, and for
// tensors Data holds a single index into the graph's blob list.
type Node struct {
	TypeKey string            `json:"type_key,omitempty"`
	ReprStr string            `json:"repr_str,omitempty"`
	ReprB64 string            `json:"repr_b64,omitempty"`
	Attrs   map[string]string `json:"attrs,omitempty"`
	Keys    []string          `json:"keys,omitempty"`
	Data    []int             `json:"data,omitempty"`

	// fields holds attr-derived node dependencies discovered while
	// loading. It is never serialized.
	fields []int
}

// SetReprBytes stores repr bytes, choosing the printable or base64 wire
// form.
func (n *Node) SetReprBytes(b []byte) {
	if len(b) == 0 {
		return
	}
	if printable(b) {
		n.ReprStr = string(b)
		return
	}
	n.ReprB64 = base64.StdEncoding.EncodeToString(b)
}

// ReprBytes decodes the stored repr bytes. It returns nil when neither
// wire form is present and fails when both are.
func (n *Node) ReprBytes() ([]byte, error) {
	if n.ReprStr != "" {
		if n.ReprB64 != "" {
			return nil, fmt.Errorf("node %q carries both repr_str and repr_b64", n.TypeKey)
		}
		return []byte(n.ReprStr), nil
	}
	if n.ReprB64 == "" {
		return nil, nil
	}
	b, err := base64.StdEncoding.DecodeString(n.ReprB64)
	if err != nil {
		return nil, fmt.Errorf("node %q: bad repr_b64: %w", n.TypeKey, err)
	}
	return b, nil
}

func (n *Node) setAttr(key, val string) {
	if n.Attrs == nil {
		n.Attrs = map[string]string{}
	}
	n.Attrs[key] = val
}

func (n *Node) attr(key string) (string, error) {
	v, ok := n.Attrs[key]
	if !ok {
		return "", fmt.Errorf("node %q: cannot find field %q", n.TypeKey, key)
	}
	return v, nil
}

func printable(b []byte) bool {
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}
