package debug

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/signadot/tony-format/go-produce/encode"
	"github.com/signadot/tony-format/go-produce/ir"
	"github.com/signadot/tony-format/go-produce/ir/kpath"
)

var out io.Writer = os.Stderr

// Logf writes a diagnostic line to stderr. *ir.Node and kpath.Path
// arguments are rendered as one line JSON.
func Logf(msg string, args ...any) {
	for i := range args {
		a := args[i]
		switch x := a.(type) {
		case map[string]any, []any, json.Number:
			d, err := json.MarshalIndent(a, "   |", "  ")
			if err != nil {
				args[i] = fmt.Sprintf("%v", a)
				continue
			}
			args[i] = string(d)
		case *ir.Node:
			args[i] = nodeString(x)
		case kpath.Path:
			args[i] = "[" + x.String() + "]"
		case bool, string, float64, int:

		default:
		}
	}
	fmt.Fprintf(out, msg, args...)
}

func nodeString(x *ir.Node) (res string) {
	if x == nil {
		return "<nil>"
	}
	defer func() {
		if r := recover(); r != nil {
			res = fmt.Sprintf("[raw *ir.Node] %v", x)
		}
	}()
	return encode.MustString(x)
}
