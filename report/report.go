// Package report renders structural mismatches for humans.
package report

import (
	"fmt"
	"io"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	strand "github.com/strand-ir/go-strand"
	"github.com/strand-ir/go-strand/ir"
	"github.com/strand-ir/go-strand/ir/apath"
)

// Render writes a report of the mismatch between lhs and rhs: the two
// access paths, the diverging values, and for diverging strings an
// inline character diff.
func Render(w io.Writer, lhs, rhs ir.Any, m *strand.Mismatch, colors *Colors) error {
	if colors == nil {
		colors = NoColors()
	}
	if m == nil {
		_, err := fmt.Fprintln(w, "values are structurally equal")
		return err
	}
	fmt.Fprintf(w, "%s %s\n", colors.Label("lhs:"), colors.Path("%s", m.Lhs))
	fmt.Fprintf(w, "%s %s\n", colors.Label("rhs:"), colors.Path("%s", m.Rhs))

	lv, lok := valueAt(lhs, m.Lhs)
	rv, rok := valueAt(rhs, m.Rhs)
	switch {
	case !lok:
		fmt.Fprintf(w, "  %s\n", colors.Rhs("only rhs has %s", rv))
	case !rok:
		fmt.Fprintf(w, "  %s\n", colors.Lhs("only lhs has %s", lv))
	default:
		ls, lIsStr := lv.AsString()
		rs, rIsStr := rv.AsString()
		if lIsStr && rIsStr {
			fmt.Fprintf(w, "  %s\n", strDiff(ls, rs, colors))
		} else {
			fmt.Fprintf(w, "  %s != %s\n", colors.Lhs("%s", lv), colors.Rhs("%s", rv))
		}
	}
	return nil
}

// valueAt resolves a mismatch path; ok is false when the path stops at
// a missing element, i.e. the other side has a value here and this side
// does not.
func valueAt(root ir.Any, p *apath.Path) (ir.Any, bool) {
	if n := len(p.Steps); n > 0 && p.Steps[n-1].IsMissing() {
		return ir.None(), false
	}
	v, err := strand.Resolve(root, p)
	if err != nil {
		return ir.None(), false
	}
	return v, true
}

func strDiff(from, to string, colors *Colors) string {
	diffCfg := diffpatch.New()
	diffs := diffCfg.DiffMain(from, to, strings.Contains(from, "\n") && strings.Contains(to, "\n"))
	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffpatch.DiffInsert:
			b.WriteString(colors.Insert("%s", d.Text))
		case diffpatch.DiffDelete:
			b.WriteString(colors.Delete("%s", d.Text))
		default:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}
