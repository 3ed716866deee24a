// Package apath models access paths: typed step lists that locate a
// sub-value relative to a root value.
package apath

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/strand-ir/go-strand/ir"
)

type Kind int

const (
	ObjectField Kind = iota
	ArrayIndex
	ArrayIndexMissing
	MapKey
	MapKeyMissing
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		ObjectField:       "ObjectField",
		ArrayIndex:        "ArrayIndex",
		ArrayIndexMissing: "ArrayIndexMissing",
		MapKey:            "MapKey",
		MapKeyMissing:     "MapKeyMissing",
	}[k]
	if ok {
		return s
	}
	return "<unknown step kind>"
}

// Step is one path element. Field is set for ObjectField, Index for the
// array kinds, Key for the map kinds.
type Step struct {
	Kind  Kind
	Field string
	Index int
	Key   ir.Any
}

// IsMissing reports whether the step points past the end of a container
// rather than at an element.
func (s Step) IsMissing() bool {
	return s.Kind == ArrayIndexMissing || s.Kind == MapKeyMissing
}

func FieldStep(name string) Step { return Step{Kind: ObjectField, Field: name} }
func IndexStep(i int) Step       { return Step{Kind: ArrayIndex, Index: i} }
func IndexMissingStep(i int) Step {
	return Step{Kind: ArrayIndexMissing, Index: i}
}
func KeyStep(k ir.Any) Step        { return Step{Kind: MapKey, Key: k} }
func KeyMissingStep(k ir.Any) Step { return Step{Kind: MapKeyMissing, Key: k} }

// Path is a root-to-leaf list of steps.
type Path struct {
	Steps []Step
}

// FromReverse builds a Path from steps recorded leaf-first.
func FromReverse(rev []Step) *Path {
	steps := make([]Step, len(rev))
	for i, s := range rev {
		steps[len(rev)-1-i] = s
	}
	return &Path{Steps: steps}
}

func (s Step) String() string {
	switch s.Kind {
	case ObjectField:
		return "." + s.Field
	case ArrayIndex:
		return "[" + strconv.Itoa(s.Index) + "]"
	case ArrayIndexMissing:
		return "[" + strconv.Itoa(s.Index) + "<missing>]"
	case MapKey:
		return "[" + s.Key.String() + "]"
	case MapKeyMissing:
		return "[" + s.Key.String() + "<missing>]"
	default:
		return "<bad step>"
	}
}

// String renders the path root-first, starting from '$'.
func (p *Path) String() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, s := range p.Steps {
		b.WriteString(s.String())
	}
	return b.String()
}

// Parse parses field steps ".name", array index steps "[3]", and string
// map key steps "['key']" with backslash-escaped quotes. Missing steps
// and the double-quoted key form that String renders are not accepted.
func Parse(p string) (*Path, error) {
	if len(p) == 0 || p[0] != '$' {
		return nil, fmt.Errorf("path %q should start with '$'", p)
	}
	res := &Path{}
	rest := p[1:]
	for len(rest) > 0 {
		switch rest[0] {
		case '.':
			field, tail, err := parseField(rest[1:])
			if err != nil {
				return nil, err
			}
			res.Steps = append(res.Steps, FieldStep(field))
			rest = tail
		case '[':
			i := strings.IndexByte(rest, ']')
			if i == -1 {
				return nil, fmt.Errorf("expected ']' in %q", rest)
			}
			inner := rest[1:i]
			if len(inner) > 0 && inner[0] == '\'' {
				key, err := unquoteKey(inner)
				if err != nil {
					return nil, err
				}
				res.Steps = append(res.Steps, KeyStep(ir.FromString(key)))
			} else {
				idx, err := strconv.Atoi(inner)
				if err != nil {
					return nil, fmt.Errorf("bad index %q: %w", inner, err)
				}
				res.Steps = append(res.Steps, IndexStep(idx))
			}
			rest = rest[i+1:]
		default:
			return nil, fmt.Errorf("expected '.' or '[' at %q", rest)
		}
	}
	return res, nil
}

func parseField(frag string) (field, rest string, err error) {
	if len(frag) == 0 {
		return "", "", fmt.Errorf("expected field at end of path")
	}
	i := strings.IndexAny(frag, ".[")
	if i == -1 {
		return frag, "", nil
	}
	if i == 0 {
		return "", "", fmt.Errorf("empty field at %q", frag)
	}
	return frag[:i], frag[i:], nil
}

func unquoteKey(inner string) (string, error) {
	if len(inner) < 2 || inner[len(inner)-1] != '\'' {
		return "", fmt.Errorf("unterminated key %q", inner)
	}
	body := inner[1 : len(inner)-1]
	var b strings.Builder
	escaped := false
	for i := 0; i < len(body); i++ {
		c := body[i]
		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		b.WriteByte(c)
	}
	if escaped {
		return "", fmt.Errorf("trailing escape in key %q", inner)
	}
	return b.String(), nil
}
