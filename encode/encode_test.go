package encode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/signadot/tony-format/go-produce/format"
	"github.com/signadot/tony-format/go-produce/ir"
	"github.com/signadot/tony-format/go-produce/parse"
)

func sample(t *testing.T) *ir.Node {
	t.Helper()
	m, err := ir.NewMap([]ir.KeyVal{{Key: ir.FromInt(4), Val: ir.FromString("four")}})
	if err != nil {
		t.Fatal(err)
	}
	return ir.MustKeyVals(
		ir.KeyVal{Key: ir.FromString("name"), Val: ir.FromString("A")},
		ir.KeyVal{Key: ir.FromString("age"), Val: ir.FromInt(32)},
		ir.KeyVal{Key: ir.FromString("tags"), Val: ir.NewSet(ir.FromString("x"), ir.FromString("y"))},
		ir.KeyVal{Key: ir.FromString("ids"), Val: m},
		ir.KeyVal{Key: ir.FromString("empty"), Val: ir.FromSlice(nil)},
		ir.KeyVal{Key: ir.FromString("none"), Val: ir.Null()},
	)
}

func TestEncodeJSON(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	if err := Encode(sample(t), buf, EncodeFormat(format.JSONFormat)); err != nil {
		t.Fatal(err)
	}
	want := `{
  "name": "A",
  "age": 32,
  "tags": [
    "x",
    "y"
  ],
  "ids": {
    "4": "four"
  },
  "empty": [],
  "none": null
}
`
	if buf.String() != want {
		t.Errorf("got\n%s", buf.String())
	}
}

func TestMustString(t *testing.T) {
	got := MustString(sample(t))
	want := `{"name":"A","age":32,"tags":["x","y"],"ids":{"4":"four"},"empty":[],"none":null}`
	if got != want {
		t.Errorf("got %s", got)
	}
}

func TestEncodeYAMLRoundTrip(t *testing.T) {
	in := sample(t)
	buf := bytes.NewBuffer(nil)
	if err := Encode(in, buf); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "name: A\nage: 32\n") {
		t.Errorf("field order lost:\n%s", buf.String())
	}
	back, err := parse.Parse(buf.Bytes(), parse.ParseYAML())
	if err != nil {
		t.Fatalf("%v\n%s", err, buf.String())
	}
	// sets come back as arrays
	want := in.Clone()
	want.Values[2].Type = ir.ArrayType
	if !ir.Equal(want, back) {
		t.Errorf("round trip mismatch:\n%s", buf.String())
	}
}

func TestColorsOff(t *testing.T) {
	c := &Colors{Default: colorDefault}
	pre, suf := c.escapes(ir.StringType, ValueColor)
	if pre != "" || suf != "" {
		t.Errorf("default colors add escapes %q %q", pre, suf)
	}
	buf := bytes.NewBuffer(nil)
	if err := Encode(ir.FromInt(1), buf, EncodeFormat(format.JSONFormat), EncodeColors(c)); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "1\n" {
		t.Errorf("got %q", buf.String())
	}
}
