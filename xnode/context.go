package xnode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// ContextDescriptor locates the node a change or conflict concerns.
type ContextDescriptor struct {
	// Path is an etree path from the document root.
	Path string
	// Label is a short user-facing name for the node.
	Label string
}

func (c ContextDescriptor) IsZero() bool {
	return c.Path == "" && c.Label == ""
}

func (c ContextDescriptor) String() string {
	if c.Label == "" {
		return c.Path
	}
	return fmt.Sprintf("%s (%s)", c.Label, c.Path)
}

// Resolve finds the element at c.Path in doc.
func (c ContextDescriptor) Resolve(doc *etree.Document) (*etree.Element, error) {
	if c.Path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrNoSuchElement)
	}
	p, err := etree.CompilePath(c.Path)
	if err != nil {
		return nil, fmt.Errorf("bad context path %q: %w", c.Path, err)
	}
	el := doc.FindElementPath(p)
	if el == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchElement, c.Path)
	}
	return el, nil
}

// TagStep is the path step for an element matched by tag alone.
func TagStep(tag string) string {
	return tag
}

// Quotable reports whether value can appear in a path predicate. An etree
// path quotes with ' or " and has no escape, so a value holding both has no
// path form.
func Quotable(value string) bool {
	return !strings.Contains(value, "'") || !strings.Contains(value, `"`)
}

// KeyedStep is the path step for an element identified by attr=value. value
// must be Quotable.
func KeyedStep(tag, attr, value string) string {
	q := "'"
	if strings.Contains(value, "'") {
		q = `"`
	}
	return tag + "[@" + attr + "=" + q + value + q + "]"
}

// IndexStep is the path step for the n-th (1-based) tag child.
func IndexStep(tag string, n int) string {
	return tag + "[" + strconv.Itoa(n) + "]"
}

// Join appends step to parent.
func Join(parent, step string) string {
	return parent + "/" + step
}

// KeyedLabel is the label paired with KeyedStep.
func KeyedLabel(tag, attr, value string) string {
	return tag + " " + attr + "=" + value
}

// IndexLabel is the label paired with IndexStep.
func IndexLabel(tag string, n int) string {
	if n == 1 {
		return tag
	}
	return tag + " #" + strconv.Itoa(n)
}
