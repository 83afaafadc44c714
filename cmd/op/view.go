package main

import (
	"fmt"

	"github.com/signadot/tony-format/go-produce/encode"

	"github.com/scott-cotton/cli"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	docs, err := getDocs(cc, args, cfg.parseOpts()...)
	if err != nil {
		return err
	}
	opts := cfg.encOpts(cc.Out)
	for i, doc := range docs {
		if err := writeSep(cc.Out, i); err != nil {
			return err
		}
		if err := encode.Encode(doc, cc.Out, opts...); err != nil {
			return fmt.Errorf("error encoding document %d: %w", i, err)
		}
	}
	return nil
}
