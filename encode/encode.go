package encode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/lexer"
	"github.com/goccy/go-yaml/printer"
	"github.com/signadot/tony-format/go-produce/format"
	"github.com/signadot/tony-format/go-produce/ir"
)

type EncState struct {
	depth, indent int
	wire          bool
	format        format.Format
	colors        *Colors
}

func (es *EncState) color(t ir.Type, a ColorAttr, s string) string {
	if es.colors == nil {
		return s
	}
	return es.colors.Color(t, a, s)
}

// Encode writes node followed by a newline.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{
		indent: 2,
	}
	for _, opt := range opts {
		opt(es)
	}
	switch es.format {
	case format.JSONFormat:
		buf := bytes.NewBuffer(nil)
		if err := encodeJSON(buf, node, es); err != nil {
			return err
		}
		buf.WriteByte('\n')
		_, err := w.Write(buf.Bytes())
		return err
	case format.YAMLFormat:
		return encodeYAML(w, node, es)
	}
	return fmt.Errorf("%w: %s", format.ErrBadFormat, es.format)
}

func writeNL(buf *bytes.Buffer, es *EncState) {
	if es.wire {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(" ", es.indent*es.depth))
}

func encodeJSON(buf *bytes.Buffer, node *ir.Node, es *EncState) error {
	if node == nil {
		buf.WriteString(es.color(ir.NullType, ValueColor, "null"))
		return nil
	}
	switch node.Type {
	case ir.ObjectType, ir.MapType:
		if len(node.Fields) == 0 {
			buf.WriteString(es.color(node.Type, SepColor, "{}"))
			return nil
		}
		buf.WriteString(es.color(node.Type, SepColor, "{"))
		es.depth++
		for i, f := range node.Fields {
			if i > 0 {
				buf.WriteString(es.color(node.Type, SepColor, ","))
			}
			writeNL(buf, es)
			d, err := json.Marshal(ir.KeyText(f))
			if err != nil {
				return err
			}
			buf.WriteString(es.color(node.Type, FieldColor, string(d)))
			sep := ": "
			if es.wire {
				sep = ":"
			}
			buf.WriteString(es.color(node.Type, SepColor, sep))
			if err := encodeJSON(buf, node.Values[i], es); err != nil {
				return err
			}
		}
		es.depth--
		writeNL(buf, es)
		buf.WriteString(es.color(node.Type, SepColor, "}"))
	case ir.ArrayType, ir.SetType:
		if len(node.Values) == 0 {
			buf.WriteString(es.color(node.Type, SepColor, "[]"))
			return nil
		}
		buf.WriteString(es.color(node.Type, SepColor, "["))
		es.depth++
		for i, v := range node.Values {
			if i > 0 {
				buf.WriteString(es.color(node.Type, SepColor, ","))
			}
			writeNL(buf, es)
			if err := encodeJSON(buf, v, es); err != nil {
				return err
			}
		}
		es.depth--
		writeNL(buf, es)
		buf.WriteString(es.color(node.Type, SepColor, "]"))
	default:
		d, err := node.MarshalJSON()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrEncoding, err)
		}
		buf.WriteString(es.color(node.Type, ValueColor, string(d)))
	}
	return nil
}

func encodeYAML(w io.Writer, node *ir.Node, es *EncState) error {
	d, err := yaml.MarshalWithOptions(toYAML(node), yaml.Indent(es.indent), yaml.IndentSequence(true))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	if es.colors == nil {
		_, err = w.Write(d)
		return err
	}
	p := yamlPrinter(es.colors)
	out := p.PrintTokens(lexer.Tokenize(string(d)))
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err = io.WriteString(w, out)
	return err
}

func yamlPrinter(c *Colors) *printer.Printer {
	prop := func(t ir.Type, a ColorAttr) func() *printer.Property {
		pre, suf := c.escapes(t, a)
		return func() *printer.Property {
			return &printer.Property{Prefix: pre, Suffix: suf}
		}
	}
	return &printer.Printer{
		MapKey: prop(ir.ObjectType, FieldColor),
		Bool:   prop(ir.BoolType, ValueColor),
		String: prop(ir.StringType, ValueColor),
		Number: prop(ir.NumberType, ValueColor),
	}
}

func toYAML(node *ir.Node) any {
	if node == nil {
		return nil
	}
	switch node.Type {
	case ir.ObjectType, ir.MapType:
		res := make(yaml.MapSlice, len(node.Fields))
		for i, f := range node.Fields {
			var k any = f.String
			if f.Type == ir.NumberType && f.Int64 != nil {
				k = *f.Int64
			}
			res[i] = yaml.MapItem{Key: k, Value: toYAML(node.Values[i])}
		}
		return res
	case ir.ArrayType, ir.SetType:
		res := make([]any, len(node.Values))
		for i, v := range node.Values {
			res[i] = toYAML(v)
		}
		return res
	case ir.NumberType:
		switch {
		case node.Int64 != nil:
			return *node.Int64
		case node.Float64 != nil:
			return *node.Float64
		}
		return node.Number
	}
	return ir.ToAny(node)
}
