package main

import (
	"testing"

	"github.com/signadot/tony-format/go-produce/format"
)

func TestOutFormat(t *testing.T) {
	j := format.JSONFormat
	tests := []struct {
		name string
		cfg  MainConfig
		want format.Format
	}{
		{"default", MainConfig{}, format.YAMLFormat},
		{"out file", MainConfig{Out: "res.json"}, format.JSONFormat},
		{"flag over file", MainConfig{Out: "res.json", Y: true}, format.YAMLFormat},
		{"option over flag", MainConfig{J: false, Y: true, OutFormat: &j}, format.JSONFormat},
	}
	for _, tc := range tests {
		if got := tc.cfg.outFormat(); got != tc.want {
			t.Errorf("%s: got %s want %s", tc.name, got, tc.want)
		}
	}
}
