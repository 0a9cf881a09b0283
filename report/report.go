// Package report defines the change reports produced for non-conflicting
// differences between two versions of a document.
//
// The set of reports is closed: [Addition], [Deletion], [TextEdit],
// [AttributeChange], [ChangedRecord] and [Reordered]. All of them implement
// [ChangeReport]. Reports copy the nodes they describe at construction and
// hand out copies, so a report cannot be altered once emitted.
package report

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/signadot/xmerge/repo"
	"github.com/signadot/xmerge/xnode"
)

type Kind int

const (
	KindAddition Kind = iota + 1
	KindDeletion
	KindTextEdit
	KindAttributeChange
	KindChangedRecord
	KindReordered
)

func (k Kind) String() string {
	switch k {
	case KindAddition:
		return "addition"
	case KindDeletion:
		return "deletion"
	case KindTextEdit:
		return "text-edit"
	case KindAttributeChange:
		return "attribute-change"
	case KindChangedRecord:
		return "changed-record"
	case KindReordered:
		return "reordered"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ChangeReport describes one detected non-conflicting difference.
type ChangeReport interface {
	Kind() Kind
	// ActionLabel is a short verb phrase for listings.
	ActionLabel() string
	// PathToFile is the repository-relative path of the file.
	PathToFile() string
	Context() xnode.ContextDescriptor
	// ParentFile is the file on the before side.
	ParentFile() repo.FileInRevision
	// ChildFile is the file on the after side.
	ChildFile() repo.FileInRevision
	// Before and After are the XML of the node before and after the change.
	// Before is empty for an addition, After is empty for a deletion.
	Before() string
	After() string
	String() string

	isChangeReport()
}

type base struct {
	kind          Kind
	parent, child repo.FileInRevision
	context       xnode.ContextDescriptor
	before, after *etree.Element
}

func newBase(kind Kind, parent, child repo.FileInRevision, ctx xnode.ContextDescriptor, before, after *etree.Element) base {
	b := base{kind: kind, parent: parent, child: child, context: ctx}
	if before != nil {
		b.before = before.Copy()
	}
	if after != nil {
		b.after = after.Copy()
	}
	return b
}

func (b *base) Kind() Kind                       { return b.kind }
func (b *base) Context() xnode.ContextDescriptor { return b.context }
func (b *base) ParentFile() repo.FileInRevision  { return b.parent }
func (b *base) ChildFile() repo.FileInRevision   { return b.child }
func (b *base) Before() string                   { return xnode.Outer(b.before) }
func (b *base) After() string                    { return xnode.Outer(b.after) }
func (b *base) isChangeReport()                  {}

func (b *base) PathToFile() string {
	if b.child.FullPath != "" {
		return b.child.FullPath
	}
	return b.parent.FullPath
}

// BeforeElement returns a copy of the before node, or nil.
func (b *base) BeforeElement() *etree.Element {
	if b.before == nil {
		return nil
	}
	return b.before.Copy()
}

// AfterElement returns a copy of the after node, or nil.
func (b *base) AfterElement() *etree.Element {
	if b.after == nil {
		return nil
	}
	return b.after.Copy()
}

func (b *base) describe(action string) string {
	s := action + " " + b.context.String()
	if p := b.PathToFile(); p != "" {
		s += " in " + p
	}
	return s
}

// Addition reports an element present only on the after side.
type Addition struct{ base }

func NewAddition(file repo.FileInRevision, added *etree.Element, ctx xnode.ContextDescriptor) *Addition {
	return &Addition{newBase(KindAddition, file, file, ctx, nil, added)}
}

func (a *Addition) ActionLabel() string { return "Added" }
func (a *Addition) String() string      { return a.describe("Added") }

// Deletion reports an element present only on the before side.
type Deletion struct{ base }

func NewDeletion(parent, child repo.FileInRevision, deleted *etree.Element, ctx xnode.ContextDescriptor) *Deletion {
	return &Deletion{newBase(KindDeletion, parent, child, ctx, deleted, nil)}
}

func (d *Deletion) ActionLabel() string { return "Deleted" }
func (d *Deletion) String() string      { return d.describe("Deleted") }

// ChangedRecord reports a flat record whose content differs.
type ChangedRecord struct{ base }

func NewChangedRecord(parent, child repo.FileInRevision, before, after *etree.Element, ctx xnode.ContextDescriptor) *ChangedRecord {
	return &ChangedRecord{newBase(KindChangedRecord, parent, child, ctx, before, after)}
}

func (c *ChangedRecord) ActionLabel() string { return "Changed" }
func (c *ChangedRecord) String() string      { return c.describe("Changed") }
