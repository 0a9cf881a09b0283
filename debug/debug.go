// Package debug exposes environment-controlled trace switches.
package debug

import (
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Match   bool
	Merge   bool
	Records bool
}

var d *debug

func init() {
	d = &debug{}
	d.Match = boolEnv("XMERGE_DEBUG_MATCH")
	d.Merge = boolEnv("XMERGE_DEBUG_MERGE")
	d.Records = boolEnv("XMERGE_DEBUG_RECORDS")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

// Match traces child keying and pairing.
func Match() bool {
	return d.Match
}

// Merge traces per-key three-way decisions.
func Merge() bool {
	return d.Merge
}

// Records traces the flat record differ.
func Records() bool {
	return d.Records
}

func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}
