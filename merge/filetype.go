package merge

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultExtensions are the file extensions merged structurally by default.
var DefaultExtensions = []string{
	".xml",
	".lift",
	".lift-ranges",
	".ldml",
	".chorusnotes",
	".fwdata",
	".fwstub",
	".wesayconfig",
}

// FileTypes decides whether a file is merged structurally. The zero value
// and nil accept DefaultExtensions.
type FileTypes struct {
	exts []string
}

// NewFileTypes accepts the given extensions, compared without case. A
// missing leading dot is added.
func NewFileTypes(exts ...string) *FileTypes {
	ft := &FileTypes{}
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if !slices.Contains(ft.exts, e) {
			ft.exts = append(ft.exts, e)
		}
	}
	return ft
}

func (ft *FileTypes) Extensions() []string {
	if ft == nil || len(ft.exts) == 0 {
		return slices.Clone(DefaultExtensions)
	}
	return slices.Clone(ft.exts)
}

// Mergeable reports whether path with the given contents can be merged
// structurally, and if not, why.
func (ft *FileTypes) Mergeable(path string, contents ...[]byte) (bool, string) {
	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(ft.Extensions(), ext) {
		if ext == "" {
			return false, "file has no extension"
		}
		return false, "file type " + ext + " is not merged structurally"
	}
	for _, c := range contents {
		if bytes.IndexByte(c, 0) >= 0 {
			return false, "file has binary content"
		}
	}
	return true, ""
}
