package encode

import (
	"bytes"
	"strings"

	"github.com/signadot/tony-format/go-produce/format"
	"github.com/signadot/tony-format/go-produce/ir"
)

// MustString renders node as one line of JSON.
func MustString(node *ir.Node) string {
	buf := bytes.NewBuffer(nil)
	if err := Encode(node, buf, EncodeFormat(format.JSONFormat), EncodeWire(true)); err != nil {
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}
