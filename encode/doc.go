// Package encode encodes IR nodes as JSON or YAML text.
//
// # Usage
//
//	// Encode as YAML
//	err := encode.Encode(node, os.Stdout)
//
//	// Encode as colored, indented JSON
//	err := encode.Encode(node, os.Stdout,
//	    encode.EncodeFormat(format.JSONFormat),
//	    encode.EncodeColors(encode.NewColors()))
//
//	// One line JSON
//	err := encode.Encode(node, w, encode.EncodeFormat(format.JSONFormat), encode.EncodeWire(true))
//
// Maps encode as mappings, with integer keys in YAML and decimal string
// keys in JSON. Sets encode as sequences.
package encode
