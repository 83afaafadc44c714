// Package parse reads JSON and YAML documents into ir.Node trees.
//
// Both readers keep mapping order. JSON numbers keep their integer or
// float nature. YAML mappings whose keys are all strings become objects;
// mappings with integer keys become maps.
//
//	node, err := parse.Parse(data)
//	node, err := parse.Parse(data, parse.ParseYAML())
package parse
