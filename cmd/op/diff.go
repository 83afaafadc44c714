package main

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/signadot/tony-format/go-produce/encode"
	"github.com/signadot/tony-format/go-produce/ir"
	"github.com/signadot/tony-format/go-produce/libdiff"
	"github.com/signadot/tony-format/go-produce/parse"

	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if cfg.Loop == "" {
		if len(args) != 2 {
			return fmt.Errorf("%w: diff (without -loop) requires 2 args, got %v", cli.ErrUsage, args)
		}
		y1, err := getObjFile(cc, args[0], cfg.parseOpts()...)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", args[0], err)
		}
		y2, err := getObjFile(cc, args[1], cfg.parseOpts()...)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", args[1], err)
		}
		diff, err := diffInputs(cfg, cc, y1, y2, false)
		if err != nil {
			return err
		}
		if diff {
			return cli.ExitCodeErr(1)
		}
		return nil
	}
	if cfg.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			fmt.Fprintf(cc.Out, "gops agent failed: %v\n", err)
		} else {
			defer agent.Close()
		}
	}
	return diffLoop(cfg, cc)
}

func diffLoop(cfg *DiffConfig, cc *cli.Context) error {
	i := 0
	var last *ir.Node
	ticker := time.NewTicker(cfg.LoopEvery)
	defer ticker.Stop()
	diffCount := 0
	for {
		if i == cfg.LoopLim {
			break
		}
		cmd := exec.Command("sh", "-c", cfg.Loop)
		r, err := cmd.StdoutPipe()
		if err != nil {
			return fmt.Errorf("unable to create pipe for command %q: %w", cfg.Loop, err)
		}
		cmd.WaitDelay = cfg.LoopEvery
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("unable to start %q: %w", cfg.Loop, err)
		}
		d, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		if err := cmd.Wait(); err != nil {
			return fmt.Errorf("command %q exited with an error: %w", cfg.Loop, err)
		}
		next, err := parse.Parse(d, cfg.parseOpts()...)
		if err != nil {
			return fmt.Errorf("error decoding command output: %w", err)
		}
		differs, err := diffInputs(cfg, cc, last, next, diffCount > 0)
		if err != nil {
			return err
		}
		if differs {
			diffCount++
		}
		last = next
		<-ticker.C
		i++
	}
	return nil
}

func diffInputs(cfg *DiffConfig, cc *cli.Context, a, b *ir.Node, sep bool) (bool, error) {
	if cfg.Reverse {
		a, b = b, a
	}
	ps := libdiff.Diff(a, b)
	if len(ps) == 0 {
		return false, nil
	}
	w := cc.Out
	if sep {
		if _, err := w.Write([]byte("---\n")); err != nil {
			return false, fmt.Errorf("unable to write separator: %w", err)
		}
	}
	if cfg.Loop != "" {
		when := time.Now().Format(time.RFC3339Nano)
		if _, err := w.Write([]byte("# difference found at " + when + "\n")); err != nil {
			return false, err
		}
	}
	if cfg.Text {
		return true, textDiff(cfg, w, a, b)
	}
	if err := encode.Encode(ps.ToIR(), w, cfg.encOpts(w)...); err != nil {
		return false, err
	}
	return true, nil
}

// textDiff writes a line diff of the two documents as encoded without
// color.
func textDiff(cfg *DiffConfig, w io.Writer, a, b *ir.Node) error {
	var ta, tb bytes.Buffer
	opts := []encode.EncodeOption{encode.EncodeFormat(cfg.outFormat())}
	if a != nil {
		if err := encode.Encode(a, &ta, opts...); err != nil {
			return err
		}
	}
	if b != nil {
		if err := encode.Encode(b, &tb, opts...); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, lineDiff(ta.String(), tb.String(), isTerminal(w)))
	return err
}

func lineDiff(a, b string, color bool) string {
	dmp := diffpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)
	if color {
		return dmp.DiffPrettyText(diffs)
	}
	var buf strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffpatch.DiffInsert:
			prefix = "+ "
		case diffpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			buf.WriteString(prefix)
			buf.WriteString(line)
		}
	}
	return buf.String()
}
