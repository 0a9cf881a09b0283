package conflict

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/signadot/xmerge/situation"
	"github.com/signadot/xmerge/xnode"
)

// AttrValue is an attribute value as one contributor had it.
type AttrValue struct {
	Value   string
	Present bool
}

func attrValue(el *etree.Element, key string) AttrValue {
	if el == nil {
		return AttrValue{}
	}
	for _, a := range el.Attr {
		if a.FullKey() == key {
			return AttrValue{Value: a.Value, Present: true}
		}
	}
	return AttrValue{}
}

func (v AttrValue) String() string {
	if !v.Present {
		return "(none)"
	}
	return fmt.Sprintf("%q", v.Value)
}

type attrBase struct {
	base
	attr string
	vals [3]AttrValue
}

func newAttrBase(k Kind, sit situation.MergeSituation, cd xnode.ContextDescriptor, attr string, ours, theirs, ancestor *etree.Element, extra ...string) attrBase {
	return attrBase{
		base: newBase(k, sit, cd, ours, theirs, ancestor, append([]string{attr}, extra...)...),
		attr: attr,
		vals: [3]AttrValue{
			situation.Ancestor: attrValue(ancestor, attr),
			situation.UserX:    attrValue(ours, attr),
			situation.UserY:    attrValue(theirs, attr),
		},
	}
}

// Attribute is the qualified name of the conflicting attribute.
func (c *attrBase) Attribute() string { return c.attr }

// Value returns the attribute as src had it.
func (c *attrBase) Value(src situation.Source) AttrValue {
	if int(src) < 0 || int(src) >= len(c.vals) {
		return AttrValue{}
	}
	return c.vals[src]
}

// BothEditedAttribute records that both users set the same attribute to
// different values.
type BothEditedAttribute struct{ attrBase }

func NewBothEditedAttribute(sit situation.MergeSituation, cd xnode.ContextDescriptor, attr string, ours, theirs, ancestor *etree.Element) *BothEditedAttribute {
	return &BothEditedAttribute{newAttrBase(KindBothEditedAttribute, sit, cd, attr, ours, theirs, ancestor)}
}

func (c *BothEditedAttribute) FullHumanReadableDescription() string {
	x, y := c.users()
	return fmt.Sprintf("%s set the %s attribute of %s to %s and %s set it to %s, in the file %s.\n\n%s",
		x, c.attr, c.label(), c.vals[situation.UserX],
		y, c.vals[situation.UserY],
		c.sit.PathToFileInRepository, c.notLost())
}

func (c *BothEditedAttribute) withCheckedIn(rev string) Conflict {
	cp := *c
	cp.checkedIn = rev
	return &cp
}

// RemovedVsEditedAttribute records that one user removed an attribute the
// other changed.
type RemovedVsEditedAttribute struct {
	attrBase
	remover situation.Source
}

func NewRemovedVsEditedAttribute(sit situation.MergeSituation, cd xnode.ContextDescriptor, attr string, remover situation.Source, ours, theirs, ancestor *etree.Element) *RemovedVsEditedAttribute {
	return &RemovedVsEditedAttribute{
		attrBase: newAttrBase(KindRemovedVsEditedAttribute, sit, cd, attr, ours, theirs, ancestor, remover.String()),
		remover:  remover,
	}
}

func (c *RemovedVsEditedAttribute) Remover() situation.Source { return c.remover }

func (c *RemovedVsEditedAttribute) FullHumanReadableDescription() string {
	editor := other(c.remover)
	return fmt.Sprintf("%s removed the %s attribute of %s, while %s changed it to %s, in the file %s.\n\n%s",
		c.sit.UserID(c.remover), c.attr, c.label(),
		c.sit.UserID(editor), c.vals[editor],
		c.sit.PathToFileInRepository, c.notLost())
}

func (c *RemovedVsEditedAttribute) withCheckedIn(rev string) Conflict {
	cp := *c
	cp.checkedIn = rev
	return &cp
}
