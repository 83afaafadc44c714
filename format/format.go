package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
)

// Format selects the text form documents are read and written in.
type Format int

const (
	YAMLFormat Format = iota
	JSONFormat
)

var ErrBadFormat = errors.New("bad format")

// names lists the accepted spellings of each format, canonical first,
// and suffixes its file extensions.
var (
	names = [...][]string{
		YAMLFormat: {"yaml", "y", "yml"},
		JSONFormat: {"json", "j"},
	}
	suffixes = [...][]string{
		YAMLFormat: {".yaml", ".yml"},
		JSONFormat: {".json"},
	}
)

func (f Format) valid() bool {
	return f >= 0 && int(f) < len(names)
}

func ParseFormat(v string) (Format, error) {
	for f, ns := range names {
		if slices.Contains(ns, v) {
			return Format(f), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

func (f Format) String() string {
	if !f.valid() {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return names[f][0]
}

func (f Format) MarshalText() ([]byte, error) {
	if !f.valid() {
		return nil, fmt.Errorf("%w: %d", ErrBadFormat, int(f))
	}
	return []byte(names[f][0]), nil
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

// ForFile returns the format a file name's extension calls for.
func ForFile(name string) (Format, bool) {
	ext := filepath.Ext(name)
	for f, ss := range suffixes {
		if slices.Contains(ss, ext) {
			return Format(f), true
		}
	}
	return 0, false
}
