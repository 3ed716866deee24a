package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	strand "github.com/strand-ir/go-strand"
	"github.com/strand-ir/go-strand/ir/apath"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, an access path", cli.ErrUsage)
	}
	path := args[0]
	if path == "" {
		return fmt.Errorf("%w: invalid path %q", cli.ErrUsage, path)
	}
	if path[0] != '$' {
		path = "$" + path
	}
	p, err := apath.Parse(path)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	files := args[1:]
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, file := range files {
		root, err := loadValue(cc.In, file)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}
		v, err := strand.Resolve(root, p)
		if err != nil {
			return fmt.Errorf("error resolving %s in %s: %w", path, file, err)
		}
		fmt.Fprintln(cc.Out, v)
	}
	return nil
}
