package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/signadot/tony-format/go-produce/ir"
	"github.com/signadot/tony-format/go-produce/parse"

	"github.com/scott-cotton/cli"
)

func readArg(cc *cli.Context, path string) ([]byte, error) {
	var r io.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		r = cc.In
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}
	return d, nil
}

func getObjFile(cc *cli.Context, path string, opts ...parse.ParseOption) (*ir.Node, error) {
	d, err := readArg(cc, path)
	if err != nil {
		return nil, err
	}
	return parse.Parse(d, opts...)
}

// getDocs reads the documents of each file, or of the command input when
// there are no files. Documents in one file are separated by "\n---\n".
func getDocs(cc *cli.Context, files []string, opts ...parse.ParseOption) ([]*ir.Node, error) {
	if len(files) == 0 {
		files = []string{"-"}
	}
	var res []*ir.Node
	for _, file := range files {
		d, err := readArg(cc, file)
		if err != nil {
			return nil, err
		}
		for i, doc := range bytes.Split(d, []byte("\n---\n")) {
			node, err := parse.Parse(doc, opts...)
			if err != nil {
				return nil, fmt.Errorf("error decoding document %d of %s: %w", i, file, err)
			}
			res = append(res, node)
		}
	}
	return res, nil
}

func writeSep(w io.Writer, i int) error {
	if i == 0 {
		return nil
	}
	_, err := w.Write([]byte("---\n"))
	return err
}
