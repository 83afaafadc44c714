package main

import (
	"fmt"

	"github.com/signadot/tony-format/go-produce/encode"
	"github.com/signadot/tony-format/go-produce/ir/kpath"

	"github.com/scott-cotton/cli"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, a kinded path", cli.ErrUsage)
	}
	p, err := kpath.Parse(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	docs, err := getDocs(cc, args[1:], cfg.parseOpts()...)
	if err != nil {
		return err
	}
	opts := cfg.encOpts(cc.Out)
	for i, doc := range docs {
		v, err := doc.Lookup(p)
		if err != nil {
			return fmt.Errorf("error getting %s from document %d: %w", p, i, err)
		}
		if err := writeSep(cc.Out, i); err != nil {
			return err
		}
		if err := encode.Encode(v, cc.Out, opts...); err != nil {
			return err
		}
	}
	return nil
}
