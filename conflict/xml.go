package conflict

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/signadot/xmerge/situation"
	"github.com/signadot/xmerge/xnode"
)

// Element and attribute names of the serialized form.
const (
	ElementTag    = "conflict"
	situationTag  = "MergeSituation"
	contextTag    = "ContextDescriptor"
	attributeTag  = "attribute"
	detailsTag    = "details"
	attrClass     = "class"
	attrTypeGUID  = "typeGuid"
	attrGUID      = "guid"
	attrWinner    = "winnerId"
	attrPath      = "relativeFilePath"
	attrCheckedIn = "revisionCheckedIn"
	attrHappened  = "whatHappened"
	attrRemover   = "remover"
	attrReason    = "reason"
)

func (b *base) writeCommon(el *etree.Element) {
	info := kindTable[b.kind]
	el.CreateAttr(attrClass, info.class)
	el.CreateAttr(attrTypeGUID, info.typeGUID)
	el.CreateAttr(attrGUID, b.id.String())
	el.CreateAttr(attrWinner, b.sit.WinnerID())
	el.CreateAttr(attrPath, b.sit.PathToFileInRepository)
	el.CreateAttr(attrCheckedIn, b.checkedIn)
	el.CreateAttr(attrHappened, info.description)

	ms := el.CreateElement(situationTag)
	ms.CreateAttr("path", b.sit.PathToFileInRepository)
	ms.CreateAttr("userXId", b.sit.UserXID)
	ms.CreateAttr("userXRevision", b.sit.UserXRevision)
	ms.CreateAttr("userYId", b.sit.UserYID)
	ms.CreateAttr("userYRevision", b.sit.UserYRevision)
	ms.CreateAttr("ancestorRevision", b.sit.AncestorRevision)
	ms.CreateAttr("policy", b.sit.Policy.String())

	cd := el.CreateElement(contextTag)
	cd.CreateAttr("path", b.ctx.Path)
	cd.CreateAttr("label", b.ctx.Label)

	for _, src := range []situation.Source{situation.UserX, situation.UserY, situation.Ancestor} {
		if s := b.Content(src); s != "" {
			el.CreateElement(src.String()).SetText(s)
		}
	}
}

func writeDetails(el *etree.Element, c Conflict) *etree.Element {
	el.CreateElement(detailsTag).SetText(c.FullHumanReadableDescription())
	return el
}

func (c *BothEditedText) WriteXML() *etree.Element {
	el := etree.NewElement(ElementTag)
	c.writeCommon(el)
	return writeDetails(el, c)
}

func (c *BothAdded) WriteXML() *etree.Element {
	el := etree.NewElement(ElementTag)
	c.writeCommon(el)
	return writeDetails(el, c)
}

func (c *BothReordered) WriteXML() *etree.Element {
	el := etree.NewElement(ElementTag)
	c.writeCommon(el)
	return writeDetails(el, c)
}

func (c *RemovedVsEdited) WriteXML() *etree.Element {
	el := etree.NewElement(ElementTag)
	c.writeCommon(el)
	el.CreateAttr(attrRemover, c.remover.String())
	return writeDetails(el, c)
}

func (c *UnmergableFileType) WriteXML() *etree.Element {
	el := etree.NewElement(ElementTag)
	c.writeCommon(el)
	if c.reason != "" {
		el.CreateAttr(attrReason, c.reason)
	}
	return writeDetails(el, c)
}

func (c *attrBase) writeAttr(el *etree.Element) {
	a := el.CreateElement(attributeTag)
	a.CreateAttr("name", c.attr)
	for _, src := range []situation.Source{situation.UserX, situation.UserY, situation.Ancestor} {
		if v := c.vals[src]; v.Present {
			a.CreateAttr(src.String(), v.Value)
		}
	}
}

func (c *BothEditedAttribute) WriteXML() *etree.Element {
	el := etree.NewElement(ElementTag)
	c.writeCommon(el)
	c.writeAttr(el)
	return writeDetails(el, c)
}

func (c *RemovedVsEditedAttribute) WriteXML() *etree.Element {
	el := etree.NewElement(ElementTag)
	c.writeCommon(el)
	el.CreateAttr(attrRemover, c.remover.String())
	c.writeAttr(el)
	return writeDetails(el, c)
}

// String renders c as XML text.
func String(c Conflict) string {
	return xnode.Outer(c.WriteXML())
}

// ReadXML reconstructs a conflict from the element WriteXML produced.
func ReadXML(el *etree.Element) (Conflict, error) {
	if el == nil || el.Tag != ElementTag {
		return nil, xnode.Malformed("", "expected <%s> element", ElementTag)
	}
	k, err := KindForGUID(el.SelectAttrValue(attrTypeGUID, ""))
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(el.SelectAttrValue(attrGUID, ""))
	if err != nil {
		return nil, xnode.Malformed("", "conflict guid: %v", err)
	}
	b := base{
		kind:      k,
		id:        id,
		checkedIn: el.SelectAttrValue(attrCheckedIn, ""),
	}
	ms := el.SelectElement(situationTag)
	if ms == nil {
		return nil, xnode.Malformed("", "conflict %s has no <%s>", id, situationTag)
	}
	pol, err := situation.ParsePolicy(ms.SelectAttrValue("policy", ""))
	if err != nil {
		return nil, xnode.Malformed("", "conflict %s: %v", id, err)
	}
	b.sit = situation.New(
		ms.SelectAttrValue("path", ""),
		ms.SelectAttrValue("userXId", ""),
		ms.SelectAttrValue("userXRevision", ""),
		ms.SelectAttrValue("userYId", ""),
		ms.SelectAttrValue("userYRevision", ""),
		ms.SelectAttrValue("ancestorRevision", ""),
		pol,
	)
	if cd := el.SelectElement(contextTag); cd != nil {
		b.ctx = xnode.ContextDescriptor{
			Path:  cd.SelectAttrValue("path", ""),
			Label: cd.SelectAttrValue("label", ""),
		}
	}
	for _, src := range []situation.Source{situation.UserX, situation.UserY, situation.Ancestor} {
		if c := el.SelectElement(src.String()); c != nil {
			switch src {
			case situation.UserX:
				b.ours = c.Text()
			case situation.UserY:
				b.theirs = c.Text()
			default:
				b.ancestor = c.Text()
			}
		}
	}

	remover := func() (situation.Source, error) {
		s, err := situation.ParseSource(el.SelectAttrValue(attrRemover, ""))
		if err != nil {
			return 0, xnode.Malformed("", "conflict %s: %v", id, err)
		}
		return s, nil
	}
	attr := func() (attrBase, error) {
		a := el.SelectElement(attributeTag)
		if a == nil {
			return attrBase{}, xnode.Malformed("", "conflict %s has no <%s>", id, attributeTag)
		}
		ab := attrBase{base: b, attr: a.SelectAttrValue("name", "")}
		for _, src := range []situation.Source{situation.UserX, situation.UserY, situation.Ancestor} {
			if at := a.SelectAttr(src.String()); at != nil {
				ab.vals[src] = AttrValue{Value: at.Value, Present: true}
			}
		}
		return ab, nil
	}

	switch k {
	case KindBothEditedText:
		return &BothEditedText{b}, nil
	case KindBothAdded:
		return &BothAdded{b}, nil
	case KindBothReordered:
		return &BothReordered{b}, nil
	case KindRemovedVsEdited:
		r, err := remover()
		if err != nil {
			return nil, err
		}
		return &RemovedVsEdited{base: b, remover: r}, nil
	case KindUnmergableFileType:
		return &UnmergableFileType{base: b, reason: el.SelectAttrValue(attrReason, "")}, nil
	case KindBothEditedAttribute:
		ab, err := attr()
		if err != nil {
			return nil, err
		}
		return &BothEditedAttribute{ab}, nil
	case KindRemovedVsEditedAttribute:
		ab, err := attr()
		if err != nil {
			return nil, err
		}
		r, err := remover()
		if err != nil {
			return nil, err
		}
		return &RemovedVsEditedAttribute{attrBase: ab, remover: r}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownKind, k)
}

// ReadXMLString parses s and reconstructs the conflict it holds.
func ReadXMLString(s string) (Conflict, error) {
	el, err := xnode.ParseElement(s)
	if err != nil {
		return nil, err
	}
	return ReadXML(el)
}
