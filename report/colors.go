package report

import (
	"fmt"

	"github.com/fatih/color"
)

type sprintf func(string, ...any) string

// Colors selects the render functions for the parts of a mismatch
// report.
type Colors struct {
	Path   sprintf
	Lhs    sprintf
	Rhs    sprintf
	Insert sprintf
	Delete sprintf
	Label  sprintf
}

// NewColors returns the default colored palette.
func NewColors() *Colors {
	return &Colors{
		Path:   color.RGB(74, 92, 138).SprintfFunc(),
		Lhs:    color.RedString,
		Rhs:    color.GreenString,
		Insert: color.New(color.FgGreen, color.Bold).SprintfFunc(),
		Delete: color.New(color.FgRed, color.CrossedOut).SprintfFunc(),
		Label:  color.New(color.Bold).SprintfFunc(),
	}
}

// NoColors renders everything verbatim.
func NoColors() *Colors {
	return &Colors{
		Path:   fmt.Sprintf,
		Lhs:    fmt.Sprintf,
		Rhs:    fmt.Sprintf,
		Insert: fmt.Sprintf,
		Delete: fmt.Sprintf,
		Label:  fmt.Sprintf,
	}
}
