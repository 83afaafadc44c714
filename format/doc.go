// Package format names the document formats read and written by parse
// and encode.
package format
