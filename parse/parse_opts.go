package parse

import "github.com/signadot/tony-format/go-produce/format"

type parseOpts struct {
	format *format.Format
}

type ParseOption func(*parseOpts)

func ParseYAML() ParseOption {
	return ParseFormat(format.YAMLFormat)
}
func ParseJSON() ParseOption {
	return ParseFormat(format.JSONFormat)
}

// ParseFormat fixes the input format. Without it, input whose first
// non-space byte is '{' or '[' is read as JSON and anything else as YAML.
func ParseFormat(f format.Format) ParseOption {
	return func(o *parseOpts) { o.format = &f }
}
