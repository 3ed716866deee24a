package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	strand "github.com/strand-ir/go-strand"
	"github.com/strand-ir/go-strand/report"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	lhs, err := loadValue(cc.In, args[0])
	if err != nil {
		return fmt.Errorf("error loading %s: %w", args[0], err)
	}
	rhs, err := loadValue(cc.In, args[1])
	if err != nil {
		return fmt.Errorf("error loading %s: %w", args[1], err)
	}
	m, err := strand.FirstMismatch(lhs, rhs)
	if err != nil {
		return err
	}
	if !cfg.Quiet {
		if err := report.Render(cc.Out, lhs, rhs, m, cfg.colors(cc.Out)); err != nil {
			return err
		}
	}
	if m != nil {
		return cli.ExitCodeErr(1)
	}
	return nil
}
