package encode

import "github.com/signadot/tony-format/go-produce/format"

type EncodeOption func(*EncState)

func EncodeFormat(f format.Format) EncodeOption {
	return func(es *EncState) { es.format = f }
}

// FormatFromOpts extracts the format from encode options.
func FormatFromOpts(opts ...EncodeOption) format.Format {
	es := &EncState{}
	for _, opt := range opts {
		opt(es)
	}
	return es.format
}

func Indent(n int) EncodeOption {
	return func(es *EncState) { es.indent = n }
}
func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) { es.colors = c }
}

// EncodeWire requests single line output. It applies to JSON only.
func EncodeWire(v bool) EncodeOption {
	return func(es *EncState) { es.wire = v }
}
