package report

import (
	"bytes"
	"strings"
	"testing"

	strand "github.com/strand-ir/go-strand"
	"github.com/strand-ir/go-strand/ir"
)

func arr(elems ...ir.Any) ir.Any { return ir.FromObject(ir.NewArray(elems...)) }

func TestRenderEqual(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := Render(buf, ir.FromInt(1), ir.FromInt(1), nil, NoColors()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "structurally equal") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRenderValueMismatch(t *testing.T) {
	lhs := arr(ir.FromInt(1), ir.FromInt(2))
	rhs := arr(ir.FromInt(1), ir.FromInt(5))
	m, err := strand.FirstMismatch(lhs, rhs)
	if err != nil {
		t.Fatal(err)
	}
	buf := &bytes.Buffer{}
	if err := Render(buf, lhs, rhs, m, NoColors()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"$[1]", "2 != 5"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q should contain %q", out, want)
		}
	}
}

func TestRenderMissingElement(t *testing.T) {
	lhs := arr(ir.FromInt(1), ir.FromInt(2))
	rhs := arr(ir.FromInt(1))
	m, err := strand.FirstMismatch(lhs, rhs)
	if err != nil {
		t.Fatal(err)
	}
	buf := &bytes.Buffer{}
	if err := Render(buf, lhs, rhs, m, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "only lhs has 2") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRenderStringDiff(t *testing.T) {
	lhs := arr(ir.FromString("the quick fox"))
	rhs := arr(ir.FromString("the slow fox"))
	m, err := strand.FirstMismatch(lhs, rhs)
	if err != nil {
		t.Fatal(err)
	}
	buf := &bytes.Buffer{}
	if err := Render(buf, lhs, rhs, m, NoColors()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"quick", "slow", "fox"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q should contain %q", out, want)
		}
	}
}
