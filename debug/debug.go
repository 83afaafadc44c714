package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Draft    bool
	Finalize bool
	Patch    bool
	Apply    bool
	Diff     bool
	Produce  bool
}

var d *debug

func init() {
	d = &debug{}
	d.Draft = boolEnv("O_DEBUG_DRAFT")
	d.Finalize = boolEnv("O_DEBUG_FINALIZE")
	d.Patch = boolEnv("O_DEBUG_PATCH")
	d.Apply = boolEnv("O_DEBUG_APPLY")
	d.Diff = boolEnv("O_DEBUG_DIFF")
	d.Produce = boolEnv("O_DEBUG_PRODUCE")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Draft() bool {
	return d.Draft
}
func Finalize() bool {
	return d.Finalize
}
func Patch() bool {
	return d.Patch
}
func Apply() bool {
	return d.Apply
}
func Diff() bool {
	return d.Diff
}
func Produce() bool {
	return d.Produce
}
