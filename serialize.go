package strand

import (
	"github.com/strand-ir/go-strand/graphjson"
	"github.com/strand-ir/go-strand/ir"
)

// Serialize renders the object graph reachable from root as JSON. Every
// reachable type must either carry reflection metadata or provide repr
// bytes.
func Serialize(root ir.Any) (string, error) {
	g, err := graphjson.Save(root)
	if err != nil {
		return "", err
	}
	d, err := g.Marshal()
	if err != nil {
		return "", err
	}
	return string(d), nil
}

// Deserialize rebuilds an object graph from its JSON form.
func Deserialize(s string) (ir.Any, error) {
	g, err := graphjson.Unmarshal([]byte(s))
	if err != nil {
		return ir.None(), err
	}
	return g.Restore()
}
