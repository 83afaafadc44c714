package main

import (
	"fmt"
	"time"

	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		&cli.Opt{
			Name:        "I",
			Aliases:     []string{"ifmt"},
			Description: "input format: json/j, yaml/y",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.InFormat), "(format)"),
		}, &cli.Opt{
			Name:        "O",
			Aliases:     []string{"ofmt"},
			Description: "output format: json/j, yaml/y",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.OutFormat), "(format)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "op").
		WithSynopsis("op [opts] command [opts]").
		WithDescription("op edits documents immutably and records, applies and diffs patches.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return opMain(cfg, cc, args)
		}).
		WithSubs(
			ViewCommand(cfg),
			GetCommand(cfg),
			EditCommand(cfg),
			PatchCommand(cfg),
			DiffCommand(cfg),
			JSONPatchCommand(cfg))
}

func ViewCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ViewConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("view").
		WithAliases("v").
		WithOpts(opts...).
		WithSynopsis("view [files]").
		WithDescription("view documents, in color on a terminal").
		WithRun(func(cc *cli.Context, args []string) error {
			return view(cfg, cc, args)
		})
	cfg.View = cmd
	return cmd
}

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("get").
		WithAliases("g").
		WithSynopsis("get <kpath> [files]").
		WithDescription("get the value at a kinded path such as users[0].name").
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
	cfg.Get = cmd
	return cmd
}

func EditCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &EditConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts,
		&cli.Opt{
			Name:        "e",
			Description: "set the value at kpath to the result of expr",
			Type:        cli.NamedFuncOpt(cli.FuncOpt(cfg.editOpt(false)), "(kpath=expr)"),
		},
		&cli.Opt{
			Name:        "d",
			Description: "delete the value at kpath",
			Type:        cli.NamedFuncOpt(cli.FuncOpt(cfg.editOpt(true)), "(kpath)"),
		})
	cmd := cli.NewCommand("edit").
		WithAliases("e", "ed").
		WithSynopsis("edit [-e kpath=expr]... [-d kpath]... [file]").
		WithDescription(editDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return editMain(cfg, cc, args)
		})
	cfg.Edit = cmd
	return cmd
}

const editDescription = `edit applies edits to a document and outputs the result.

Each -e kpath=expr evaluates expr and writes the result at kpath. Setting an
array at its length appends, and setting a set adds a member. Each -d kpath
deletes. Edits apply in order and each sees the result of the ones before.

Expressions are expr-lang expressions. They see

  doc     the document as edited so far
  old     the value at kpath, or nil
  at(p)   the value at kinded path p

With -p or -u edit outputs the forward or inverse patches of the edit
instead of the result; they can be given to 'op patch'.`

func (cfg *EditConfig) editOpt(del bool) func(cc *cli.Context, a string) (any, error) {
	return func(_ *cli.Context, a string) (any, error) {
		e, err := parseEdit(a, del)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		cfg.Edits = append(cfg.Edits, e)
		return 0, nil
	}
}

func PatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PatchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("patch").
		WithAliases("p", "pa").
		WithSynopsis("patch [opts] <patchfile> [files]").
		WithDescription("apply a patch list to documents").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return patchMain(cfg, cc, args)
		})
	cfg.Patch = cmd
	return cmd
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg, LoopEvery: time.Second, LoopLim: -1}
	loopEveryOpt := &cli.Opt{
		Name: "loopEvery",
		Type: cli.FuncOpt(cfg.mkLoopEvery()),
	}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts, loopEveryOpt)

	cmd := cli.NewCommand("diff").
		WithAliases("d", "di").
		WithOpts(opts...).
		WithSynopsis("diff a b or diff -loop <cmd>").
		WithDescription("output the patches taking one document to another").
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
	cfg.Diff = cmd
	return cmd
}

func JSONPatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &JSONPatchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("jsonpatch").
		WithAliases("jp").
		WithSynopsis("jsonpatch <patchfile> or jsonpatch -a <rfc6902file> <file>").
		WithDescription("render a patch list as an RFC 6902 JSON Patch, or apply one").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return jsonPatch(cfg, cc, args)
		})
	cfg.JSONPatch = cmd
	return cmd
}
