package main

import (
	"fmt"
	"io"
	"os"
	"time"

	produce "github.com/signadot/tony-format/go-produce"
	"github.com/signadot/tony-format/go-produce/encode"
	"github.com/signadot/tony-format/go-produce/format"
	"github.com/signadot/tony-format/go-produce/parse"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color   bool `cli:"name=color desc='encode with color'"`
	WireOut bool `cli:"name=wire desc='output json on one line'"`
	NoMaps  bool `cli:"name=nomaps desc='refuse to edit int keyed maps and sets'"`

	J bool `cli:"name=j aliases=json desc='do i/o in json'"`
	Y bool `cli:"name=y aliases=yaml desc='do i/o in yaml'"`

	InFormat, OutFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

func (cfg *MainConfig) flagFormat() *format.Format {
	var f format.Format
	switch {
	case cfg.Y:
		f = format.YAMLFormat
	case cfg.J:
		f = format.JSONFormat
	default:
		return nil
	}
	return &f
}

// parseOpts leaves the input format to detection unless one was asked for.
func (cfg *MainConfig) parseOpts() []parse.ParseOption {
	f := cfg.flagFormat()
	if cfg.InFormat != nil {
		f = cfg.InFormat
	}
	if f == nil {
		return nil
	}
	return []parse.ParseOption{parse.ParseFormat(*f)}
}

func (cfg *MainConfig) outFormat() format.Format {
	if cfg.OutFormat != nil {
		return *cfg.OutFormat
	}
	if f := cfg.flagFormat(); f != nil {
		return *f
	}
	if f, ok := format.ForFile(cfg.Out); ok {
		return f
	}
	return format.YAMLFormat
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{
		encode.EncodeFormat(cfg.outFormat()),
		encode.EncodeWire(cfg.WireOut),
	}
	if cfg.Color {
		res = append(res, encode.EncodeColors(encode.NewColors()))
		return res
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return res
	}
	f, ok := w.(*os.File)
	if !ok {
		return res
	}
	if isatty.IsTerminal(f.Fd()) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

// isTerminal reports whether w is a terminal, for output other than
// encoded documents.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func (cfg *MainConfig) producer() *produce.Producer {
	return produce.New(
		produce.MapSet(!cfg.NoMaps),
		produce.Patches(true),
		produce.AutoFreeze(true))
}

type ViewConfig struct {
	*MainConfig

	View *cli.Command
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type EditConfig struct {
	*MainConfig
	Edits []edit

	Forward bool `cli:"name=p desc='print the forward patches instead of the result'"`
	Inverse bool `cli:"name=u desc='print the inverse patches instead of the result'"`

	Edit *cli.Command
}

type PatchConfig struct {
	*MainConfig
	Reverse bool `cli:"name=r desc='apply an inverse patch list, undoing an edit'"`
	String  bool `cli:"name=s desc='patch arg as string'"`

	Patch *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Reverse   bool   `cli:"name=r desc='reverse the diff'"`
	Text      bool   `cli:"name=text desc='show a line diff of the encoded documents'"`
	Loop      string `cli:"name=loop desc='command to produce objects to diff in a loop'"`
	LoopEvery time.Duration
	LoopLim   int  `cli:"name=loopLim desc='max number of times to loop'"`
	Gops      bool `cli:"name=gops desc='run a gops agent while looping'"`

	Diff *cli.Command
}

func (cfg *DiffConfig) mkLoopEvery() func(cc *cli.Context, a string) (any, error) {
	return func(_ *cli.Context, a string) (any, error) {
		d, err := time.ParseDuration(a)
		if err != nil {
			return nil, err
		}
		cfg.LoopEvery = d
		return d, nil
	}
}

type JSONPatchConfig struct {
	*MainConfig
	Apply bool `cli:"name=a aliases=apply desc='apply an RFC 6902 document to a JSON document'"`

	JSONPatch *cli.Command
}
