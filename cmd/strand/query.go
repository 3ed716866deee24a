package main

import (
	"encoding/json"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/scott-cotton/cli"

	"github.com/strand-ir/go-strand/graphjson"
)

func query(cfg *QueryConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Query.Parse(cc, args)
	if err != nil {
		cfg.Query.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: query requires an expression", cli.ErrUsage)
	}
	program, err := expr.Compile(args[0], expr.AllowUndefinedVariables())
	if err != nil {
		return fmt.Errorf("%w: bad expression: %w", cli.ErrUsage, err)
	}
	files := args[1:]
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, file := range files {
		g, err := loadGraph(cc.In, file)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}
		if err := queryGraph(cfg, cc, program, g); err != nil {
			return err
		}
	}
	return nil
}

func queryGraph(cfg *QueryConfig, cc *cli.Context, program *vm.Program, g *graphjson.Graph) error {
	for i := range g.Nodes {
		n := &g.Nodes[i]
		env := map[string]any{
			"id":       i,
			"root":     i == g.Root,
			"type_key": n.TypeKey,
			"attrs":    n.Attrs,
			"keys":     n.Keys,
			"data":     n.Data,
			"repr":     n.ReprStr,
		}
		out, err := expr.Run(program, env)
		if err != nil {
			return fmt.Errorf("error evaluating node %d: %w", i, err)
		}
		match, ok := out.(bool)
		if !ok {
			return fmt.Errorf("%w: expression must produce a bool, got %T", cli.ErrUsage, out)
		}
		if !match {
			continue
		}
		if cfg.IDs {
			fmt.Fprintln(cc.Out, i)
			continue
		}
		d, err := json.Marshal(n)
		if err != nil {
			return err
		}
		fmt.Fprintf(cc.Out, "%d\t%s\n", i, d)
	}
	return nil
}
