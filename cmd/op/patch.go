package main

import (
	"fmt"

	"github.com/signadot/tony-format/go-produce/encode"
	"github.com/signadot/tony-format/go-produce/patch"

	"github.com/scott-cotton/cli"
)

func patchMain(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: patch requires a patch list", cli.ErrUsage)
	}
	ps, err := getPatches(cc, args[0], cfg.String)
	if err != nil {
		return fmt.Errorf("error reading patches %s: %w", args[0], err)
	}
	if cfg.Reverse {
		ps = ps.Reverse()
	}
	docs, err := getDocs(cc, args[1:], cfg.parseOpts()...)
	if err != nil {
		return err
	}
	p := cfg.producer()
	opts := cfg.encOpts(cc.Out)
	for i, doc := range docs {
		res, err := p.ApplyPatches(doc, ps)
		if err != nil {
			return fmt.Errorf("error patching document %d: %w", i, err)
		}
		if err := writeSep(cc.Out, i); err != nil {
			return err
		}
		if err := encode.Encode(res, cc.Out, opts...); err != nil {
			return err
		}
	}
	return nil
}

func getPatches(cc *cli.Context, arg string, isString bool) (patch.Patches, error) {
	if isString {
		return patch.Parse([]byte(arg))
	}
	d, err := readArg(cc, arg)
	if err != nil {
		return nil, err
	}
	return patch.Parse(d)
}
