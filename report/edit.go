package report

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/signadot/xmerge/repo"
	"github.com/signadot/xmerge/xnode"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// TextEdit reports an atomic element whose content changed.
type TextEdit struct{ base }

func NewTextEdit(parent, child repo.FileInRevision, before, after *etree.Element, ctx xnode.ContextDescriptor) *TextEdit {
	return &TextEdit{newBase(KindTextEdit, parent, child, ctx, before, after)}
}

func (e *TextEdit) ActionLabel() string { return "Edited" }
func (e *TextEdit) String() string      { return e.describe("Edited") }

// BeforeText and AfterText are the compared text: the character data of a
// leaf element, the canonical XML otherwise.
func (e *TextEdit) BeforeText() string { return textOf(e.before) }
func (e *TextEdit) AfterText() string  { return textOf(e.after) }

// Diffs returns a character-level diff from BeforeText to AfterText.
func (e *TextEdit) Diffs() []diffpatch.Diff {
	dmp := diffpatch.New()
	from, to := e.BeforeText(), e.AfterText()
	diffs := dmp.DiffMain(from, to, strings.Contains(from, "\n") && strings.Contains(to, "\n"))
	return dmp.DiffCleanupSemantic(diffs)
}

// PrettyDiff renders Diffs with ANSI colors.
func (e *TextEdit) PrettyDiff() string {
	return diffpatch.New().DiffPrettyText(e.Diffs())
}

func textOf(el *etree.Element) string {
	if el == nil {
		return ""
	}
	if xnode.IsLeaf(el) {
		return xnode.DirectText(el)
	}
	return xnode.Canonical(el)
}

// AttributeChange reports one attribute of an element added, removed or
// given a new value.
type AttributeChange struct {
	base
	attr             string
	oldValue, newVal string
	hadOld, hasNew   bool
}

// NewAttributeChange reports attr on the element before/after. A missing side
// of the attribute is signalled by hadOld or hasNew being false.
func NewAttributeChange(parent, child repo.FileInRevision, before, after *etree.Element, attr string, oldValue string, hadOld bool, newValue string, hasNew bool, ctx xnode.ContextDescriptor) *AttributeChange {
	return &AttributeChange{
		base:     newBase(KindAttributeChange, parent, child, ctx, before, after),
		attr:     attr,
		oldValue: oldValue,
		newVal:   newValue,
		hadOld:   hadOld,
		hasNew:   hasNew,
	}
}

func (a *AttributeChange) Attribute() string { return a.attr }

// OldValue returns the value before the change and whether it was set.
func (a *AttributeChange) OldValue() (string, bool) { return a.oldValue, a.hadOld }

// NewValue returns the value after the change and whether it is set.
func (a *AttributeChange) NewValue() (string, bool) { return a.newVal, a.hasNew }

func (a *AttributeChange) ActionLabel() string {
	switch {
	case !a.hadOld:
		return "Added attribute"
	case !a.hasNew:
		return "Removed attribute"
	default:
		return "Changed attribute"
	}
}

func (a *AttributeChange) String() string {
	return a.describe(a.ActionLabel() + " " + a.attr + " of")
}

// Reordered reports order-significant siblings whose relative order changed.
type Reordered struct {
	base
	moved []string
}

func NewReordered(parent, child repo.FileInRevision, before, after *etree.Element, moved []string, ctx xnode.ContextDescriptor) *Reordered {
	return &Reordered{
		base:  newBase(KindReordered, parent, child, ctx, before, after),
		moved: append([]string(nil), moved...),
	}
}

// Moved returns the path steps of the children that changed position.
func (r *Reordered) Moved() []string { return append([]string(nil), r.moved...) }

func (r *Reordered) ActionLabel() string { return "Reordered" }

func (r *Reordered) String() string {
	return r.describe("Reordered " + strings.Join(r.moved, ", ") + " under")
}
