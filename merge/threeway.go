package merge

import (
	"slices"

	"github.com/beevik/etree"

	"github.com/signadot/xmerge/conflict"
	"github.com/signadot/xmerge/debug"
	"github.com/signadot/xmerge/report"
	"github.com/signadot/xmerge/situation"
	"github.com/signadot/xmerge/xnode"
)

// pick returns the winning element of a conflict between ours and theirs.
func (p *pass) pick(ours, theirs *etree.Element) *etree.Element {
	if p.sit.Winner() == situation.UserY {
		return theirs
	}
	return ours
}

func copyOf(el *etree.Element) *etree.Element {
	if el == nil {
		return nil
	}
	return el.Copy()
}

// mergeKey resolves the elements ours, theirs and ancestor hold under one
// key. Any of them may be nil. A nil result means the key is absent from
// the merged tree.
func (p *pass) mergeKey(ours, theirs, anc *etree.Element, cd xnode.ContextDescriptor, b *buckets) (*etree.Element, error) {
	switch {
	case xnode.Equal(ours, anc):
		return p.take(theirs, anc, situation.UserY, cd, b)
	case xnode.Equal(theirs, anc):
		return p.take(ours, anc, situation.UserX, cd, b)
	case xnode.Equal(ours, theirs):
		if debug.Merge() {
			debug.Logf("merge: %s changed identically on both sides\n", cd.Path)
		}
		return p.take(ours, anc, situation.UserX, cd, b)
	}

	switch {
	case anc == nil:
		c := conflict.NewBothAdded(p.sit, cd, ours, theirs)
		b.adds = append(b.adds, event{conflict: c})
		p.traceConflict(c)
		return copyOf(p.pick(ours, theirs)), nil
	case ours == nil || theirs == nil:
		remover := situation.UserX
		if theirs == nil {
			remover = situation.UserY
		}
		c := conflict.NewRemovedVsEdited(p.sit, cd, remover, ours, theirs, anc)
		b.dels = append(b.dels, event{conflict: c})
		p.traceConflict(c)
		return copyOf(p.pick(ours, theirs)), nil
	case p.atomic(ours, theirs, anc):
		c := conflict.NewBothEditedText(p.sit, cd, ours, theirs, anc)
		b.conflict(c)
		p.traceConflict(c)
		return copyOf(p.pick(ours, theirs)), nil
	}
	return p.mergeElement(ours, theirs, anc, cd, b)
}

// take resolves a key to el, contributed by src, reporting how it differs
// from the ancestor.
func (p *pass) take(el, anc *etree.Element, src situation.Source, cd xnode.ContextDescriptor, b *buckets) (*etree.Element, error) {
	if err := p.diffKey(anc, el, cd, p.files(situation.Ancestor, src), b); err != nil {
		return nil, err
	}
	if debug.Merge() && !xnode.Equal(el, anc) {
		debug.Logf("merge: %s taken from %s\n", cd.Path, src)
	}
	return copyOf(el), nil
}

func (p *pass) traceConflict(c conflict.Conflict) {
	if debug.Merge() {
		debug.Logf("merge: %s at %s, winner %s\n", c.Kind(), c.Context().Path, c.WinnerID())
	}
}

// mergeElement merges three structural versions of one element, all
// present and all different, with no text conflict between them.
func (p *pass) mergeElement(ours, theirs, anc *etree.Element, cd xnode.ContextDescriptor, b *buckets) (*etree.Element, error) {
	merged := etree.NewElement(ours.Tag)
	merged.Space = ours.Space
	p.mergeAttrs(merged, ours, theirs, anc, cd, b)
	textSide := p.mergeText(ours, theirs, anc, cd, b)

	oi, err := buildIndex(p.reg, ours, cd.Path)
	if err != nil {
		return nil, err
	}
	ti, err := buildIndex(p.reg, theirs, cd.Path)
	if err != nil {
		return nil, err
	}
	ai, err := buildIndex(p.reg, anc, cd.Path)
	if err != nil {
		return nil, err
	}
	ixs := []*index{oi, ti, ai}

	var local buckets
	results := map[string]*etree.Element{}
	present := map[string]bool{}
	for _, k := range union(ixs...) {
		res, err := p.mergeKey(oi.get(k), ti.get(k), ai.get(k), childContext(cd.Path, ixs, k), &local)
		if err != nil {
			return nil, err
		}
		if res != nil {
			results[k] = res
			present[k] = true
		}
	}

	base := p.mergeOrder(ours, theirs, anc, oi, ti, ai, cd, &local)
	lay, lix := ours, oi
	if textSide == situation.UserY || (textSide == situation.Ancestor && base == ti) {
		lay, lix = theirs, ti
	}
	layout(merged, lay, lix, arrange(base, ixs, present), results)
	b.changes = append(b.changes, local.flatten()...)
	return merged, nil
}

// mergeText reports a one-sided or agreed change of the direct text and
// returns the side whose text the merged element keeps, Ancestor if neither
// side changed it.
func (p *pass) mergeText(ours, theirs, anc *etree.Element, cd xnode.ContextDescriptor, b *buckets) situation.Source {
	at := xnode.DirectText(anc)
	var src situation.Source
	var el *etree.Element
	switch {
	case xnode.DirectText(ours) != at:
		src, el = situation.UserX, ours
	case xnode.DirectText(theirs) != at:
		src, el = situation.UserY, theirs
	default:
		return situation.Ancestor
	}
	fp := p.files(situation.Ancestor, src)
	b.change(report.NewTextEdit(fp.old, fp.new, textOnly(anc), textOnly(el), cd))
	return src
}

// textOnly is el's tag and direct text.
func textOnly(el *etree.Element) *etree.Element {
	res := etree.NewElement(el.Tag)
	res.Space = el.Space
	if t := xnode.DirectText(el); t != "" {
		res.SetText(t)
	}
	return res
}

// layout fills merged with the non-element content of lay, in place, and
// the merged children in keys order. A child goes where lay has its key, or
// before the next key lay has. Children lay lacks at the end go last.
func layout(merged, lay *etree.Element, lix *index, keys []string, results map[string]*etree.Element) {
	pos := make(map[string]int, len(keys))
	for i, k := range keys {
		pos[k] = i
	}
	next := 0
	emit := func(end int) {
		for ; next < end; next++ {
			merged.AddChild(results[keys[next]])
		}
	}
	ei := 0
	for _, tok := range lay.Child {
		switch t := tok.(type) {
		case *etree.Element:
			if i, ok := pos[lix.keys[ei]]; ok && i >= next {
				emit(i + 1)
			}
			ei++
		case *etree.CharData:
			if t.IsCData() {
				merged.CreateCData(t.Data)
			} else {
				merged.CreateText(t.Data)
			}
		case *etree.Comment:
			merged.CreateComment(t.Data)
		case *etree.ProcInst:
			merged.CreateProcInst(t.Target, t.Inst)
		case *etree.Directive:
			merged.CreateDirective(t.Data)
		}
	}
	emit(len(keys))
}

// mergeOrder decides the order of the merged children and returns the
// index whose order the result follows.
func (p *pass) mergeOrder(ours, theirs, anc *etree.Element, oi, ti, ai *index, cd xnode.ContextDescriptor, b *buckets) *index {
	so := p.orderSeq(oi, ti, ai)
	st := p.orderSeq(ti, oi, ai)
	sa := p.orderSeq(ai, oi, ti)
	oursMoved := !slices.Equal(so, sa)
	theirsMoved := !slices.Equal(st, sa)
	reorder := func(to situation.Source, el *etree.Element, seq []string) {
		fp := p.files(situation.Ancestor, to)
		b.order = append(b.order, event{change: report.NewReordered(fp.old, fp.new, anc, el, moved(sa, seq), cd)})
	}
	switch {
	case !oursMoved && !theirsMoved:
		return oi
	case oursMoved && !theirsMoved:
		reorder(situation.UserX, ours, so)
		return oi
	case !oursMoved && theirsMoved:
		reorder(situation.UserY, theirs, st)
		return ti
	case slices.Equal(so, st):
		reorder(situation.UserX, ours, so)
		return oi
	}
	c := conflict.NewBothReordered(p.sit, cd, ours, theirs, anc)
	b.order = append(b.order, event{conflict: c})
	p.traceConflict(c)
	if p.sit.Winner() == situation.UserY {
		return ti
	}
	return oi
}

// mergeAttrs sets the merged attributes of merged.
func (p *pass) mergeAttrs(merged, ours, theirs, anc *etree.Element, cd xnode.ContextDescriptor, b *buckets) {
	oa, ta, aa := xnode.Attrs(ours), xnode.Attrs(theirs), xnode.Attrs(anc)
	for _, k := range attrUnion(ours, theirs, anc) {
		ov, oOK := oa[k]
		tv, tOK := ta[k]
		av, aOK := aa[k]
		var v string
		var ok bool
		switch {
		case sameAttr(ov, oOK, av, aOK):
			v, ok = tv, tOK
			if !sameAttr(tv, tOK, av, aOK) {
				fp := p.files(situation.Ancestor, situation.UserY)
				b.change(report.NewAttributeChange(fp.old, fp.new, anc, theirs, k, av, aOK, tv, tOK, cd))
			}
		case sameAttr(tv, tOK, av, aOK), sameAttr(ov, oOK, tv, tOK):
			v, ok = ov, oOK
			fp := p.files(situation.Ancestor, situation.UserX)
			b.change(report.NewAttributeChange(fp.old, fp.new, anc, ours, k, av, aOK, ov, oOK, cd))
		default:
			var c conflict.Conflict
			switch {
			case !oOK:
				c = conflict.NewRemovedVsEditedAttribute(p.sit, cd, k, situation.UserX, ours, theirs, anc)
			case !tOK:
				c = conflict.NewRemovedVsEditedAttribute(p.sit, cd, k, situation.UserY, ours, theirs, anc)
			default:
				c = conflict.NewBothEditedAttribute(p.sit, cd, k, ours, theirs, anc)
			}
			b.conflict(c)
			p.traceConflict(c)
			v, ok = ov, oOK
			if p.sit.Winner() == situation.UserY {
				v, ok = tv, tOK
			}
		}
		if ok {
			merged.CreateAttr(k, v)
		}
	}
}

func sameAttr(v string, ok bool, w string, wok bool) bool {
	return ok == wok && v == w
}
