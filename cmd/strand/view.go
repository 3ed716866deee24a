package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"

	"github.com/strand-ir/go-strand/format"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	for i, file := range args {
		if err := viewFile(cfg, cc, file); err != nil {
			return err
		}
		if i < len(args)-1 {
			cc.Out.Write([]byte("\n---\n"))
		}
	}
	return nil
}

func viewFile(cfg *ViewConfig, cc *cli.Context, file string) error {
	d, err := readGraphBytes(cc.In, file)
	if err != nil {
		return err
	}
	switch cfg.outFormat() {
	case format.YAMLFormat:
		return viewYAML(cc.Out, d)
	default:
		return viewJSON(cc.Out, d)
	}
}

func viewJSON(w io.Writer, d []byte) error {
	buf := &bytes.Buffer{}
	if err := json.Indent(buf, d, "", "  "); err != nil {
		return fmt.Errorf("error decoding graph: %w", err)
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

func viewYAML(w io.Writer, d []byte) error {
	var doc any
	if err := json.Unmarshal(d, &doc); err != nil {
		return fmt.Errorf("error decoding graph: %w", err)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
