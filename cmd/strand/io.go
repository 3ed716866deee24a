package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/strand-ir/go-strand/graphjson"
	"github.com/strand-ir/go-strand/ir"
)

// readGraphBytes reads a graph file, decompressing files with a .zst
// suffix. "-" reads stdin.
func readGraphBytes(in io.Reader, file string) ([]byte, error) {
	var r io.Reader
	if file == "-" {
		r = in
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("could not open %q: %w", file, err)
		}
		defer f.Close()
		r = f
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", file, err)
	}
	if strings.HasSuffix(file, ".zst") {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		d, err = dec.DecodeAll(d, nil)
		if err != nil {
			return nil, fmt.Errorf("error decompressing %s: %w", file, err)
		}
	}
	return d, nil
}

// writeGraphBytes writes d, compressing when the output file has a .zst
// suffix.
func writeGraphBytes(w io.Writer, outFile string, d []byte) error {
	if strings.HasSuffix(outFile, ".zst") {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return err
		}
		d = enc.EncodeAll(d, nil)
		if err := enc.Close(); err != nil {
			return err
		}
	}
	_, err := w.Write(d)
	return err
}

func loadGraph(in io.Reader, file string) (*graphjson.Graph, error) {
	d, err := readGraphBytes(in, file)
	if err != nil {
		return nil, err
	}
	return graphjson.Unmarshal(d)
}

func loadValue(in io.Reader, file string) (ir.Any, error) {
	g, err := loadGraph(in, file)
	if err != nil {
		return ir.None(), err
	}
	return g.Restore()
}
