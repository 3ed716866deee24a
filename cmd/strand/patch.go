package main

import (
	"bytes"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/scott-cotton/cli"

	"github.com/strand-ir/go-strand/graphjson"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: patch requires 2 args, got %v", cli.ErrUsage, args)
	}
	doc, err := readGraphBytes(cc.In, args[0])
	if err != nil {
		return err
	}
	pd, err := readGraphBytes(cc.In, args[1])
	if err != nil {
		return err
	}
	patched, err := applyPatch(doc, pd)
	if err != nil {
		return fmt.Errorf("error applying %s: %w", args[1], err)
	}
	// reject patches that break the graph before writing anything
	g, err := graphjson.Unmarshal(patched)
	if err != nil {
		return fmt.Errorf("patched graph is invalid: %w", err)
	}
	if _, err := g.Restore(); err != nil {
		return fmt.Errorf("patched graph does not load: %w", err)
	}
	return writeGraphBytes(cc.Out, cfg.Out, patched)
}

// applyPatch dispatches on the patch document shape: a JSON array is an
// RFC 6902 operation list, anything else is a merge patch.
func applyPatch(doc, pd []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(pd)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		p, err := jsonpatch.DecodePatch(trimmed)
		if err != nil {
			return nil, err
		}
		return p.Apply(doc)
	}
	return jsonpatch.MergePatch(doc, trimmed)
}
