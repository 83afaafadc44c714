package main

import (
	"fmt"

	"github.com/signadot/tony-format/go-produce/encode"
	"github.com/signadot/tony-format/go-produce/ir"
	"github.com/signadot/tony-format/go-produce/patch"

	"github.com/scott-cotton/cli"
)

func jsonPatch(cfg *JSONPatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.JSONPatch.Parse(cc, args)
	if err != nil {
		return err
	}
	if !cfg.Apply {
		if len(args) != 1 {
			return fmt.Errorf("%w: jsonpatch requires a patch list", cli.ErrUsage)
		}
		ps, err := getPatches(cc, args[0], false)
		if err != nil {
			return err
		}
		d, err := ps.ToJSONPatch()
		if err != nil {
			return err
		}
		n, err := ir.FromJSON(d)
		if err != nil {
			return err
		}
		return encode.Encode(n, cc.Out, cfg.encOpts(cc.Out)...)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: jsonpatch -a requires an RFC 6902 document and a document", cli.ErrUsage)
	}
	rfc, err := getObjFile(cc, args[0], cfg.parseOpts()...)
	if err != nil {
		return err
	}
	doc, err := getObjFile(cc, args[1], cfg.parseOpts()...)
	if err != nil {
		return err
	}
	rfcJSON, err := rfc.MarshalJSON()
	if err != nil {
		return err
	}
	docJSON, err := doc.MarshalJSON()
	if err != nil {
		return err
	}
	out, err := patch.ApplyJSONPatch(docJSON, rfcJSON)
	if err != nil {
		return err
	}
	res, err := ir.FromJSON(out)
	if err != nil {
		return err
	}
	return encode.Encode(res, cc.Out, cfg.encOpts(cc.Out)...)
}
