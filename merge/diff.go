package merge

import (
	"slices"

	"github.com/beevik/etree"

	"github.com/signadot/xmerge/report"
	"github.com/signadot/xmerge/xnode"
)

// diffChildren compares the children of old and new, parents located at
// path.
func (p *pass) diffChildren(old, new *etree.Element, path string, fp filePair) (events, error) {
	oi, err := buildIndex(p.reg, old, path)
	if err != nil {
		return nil, err
	}
	ni, err := buildIndex(p.reg, new, path)
	if err != nil {
		return nil, err
	}
	ixs := []*index{ni, oi}
	var b buckets
	for _, k := range ni.order {
		if !oi.has(k) {
			b.adds = append(b.adds, event{change: report.NewAddition(fp.new, ni.get(k), childContext(path, ixs, k))})
		}
	}
	for _, k := range oi.order {
		if !ni.has(k) {
			b.dels = append(b.dels, event{change: report.NewDeletion(fp.old, fp.new, oi.get(k), childContext(path, ixs, k))})
		}
	}
	for _, k := range oi.order {
		if !ni.has(k) {
			continue
		}
		evs, err := p.diffPair(oi.get(k), ni.get(k), childContext(path, ixs, k), fp)
		if err != nil {
			return nil, err
		}
		b.changes = append(b.changes, evs...)
	}
	if moved := p.reordered(oi, ni); len(moved) > 0 {
		cd := xnode.ContextDescriptor{Path: path, Label: parentLabel(new)}
		b.order = append(b.order, event{change: report.NewReordered(fp.old, fp.new, old, new, moved, cd)})
	}
	return b.flatten(), nil
}

// diffKey reports the difference between the old and new element under one
// key, either of which may be nil.
func (p *pass) diffKey(old, new *etree.Element, cd xnode.ContextDescriptor, fp filePair, b *buckets) error {
	switch {
	case old == nil && new == nil:
		return nil
	case old == nil:
		b.adds = append(b.adds, event{change: report.NewAddition(fp.new, new, cd)})
		return nil
	case new == nil:
		b.dels = append(b.dels, event{change: report.NewDeletion(fp.old, fp.new, old, cd)})
		return nil
	}
	evs, err := p.diffPair(old, new, cd, fp)
	if err != nil {
		return err
	}
	b.changes = append(b.changes, evs...)
	return nil
}

// diffPair compares two elements matched under the same key.
func (p *pass) diffPair(old, new *etree.Element, cd xnode.ContextDescriptor, fp filePair) (events, error) {
	if xnode.Equal(old, new) {
		return nil, nil
	}
	if p.atomic(old, new) {
		return events{{change: report.NewTextEdit(fp.old, fp.new, old, new, cd)}}, nil
	}
	var res events
	oa, na := xnode.Attrs(old), xnode.Attrs(new)
	for _, k := range attrUnion(old, new) {
		ov, hadOld := oa[k]
		nv, hasNew := na[k]
		if hadOld == hasNew && ov == nv {
			continue
		}
		res = append(res, event{change: report.NewAttributeChange(fp.old, fp.new, old, new, k, ov, hadOld, nv, hasNew, cd)})
	}
	evs, err := p.diffChildren(old, new, cd.Path, fp)
	if err != nil {
		return nil, err
	}
	return append(res, evs...), nil
}

// atomic reports whether differing elements matched under one key are
// compared as a whole rather than child by child: the strategy says so, the
// tags differ, or the text conflicts. With three elements the order is ours,
// theirs, ancestor and the text conflicts only if all three differ.
func (p *pass) atomic(els ...*etree.Element) bool {
	var first *etree.Element
	for _, el := range els {
		if el == nil {
			continue
		}
		if p.reg.Get(el.FullTag()).Atomic {
			return true
		}
		if first == nil {
			first = el
		} else if el.FullTag() != first.FullTag() {
			return true
		}
	}
	return textConflict(els)
}

func textConflict(els []*etree.Element) bool {
	switch len(els) {
	case 2:
		return xnode.DirectText(els[0]) != xnode.DirectText(els[1])
	case 3:
		o, t, a := xnode.DirectText(els[0]), xnode.DirectText(els[1]), xnode.DirectText(els[2])
		return o != a && t != a && o != t
	}
	return false
}

func attrUnion(els ...*etree.Element) []string {
	var res []string
	for _, el := range els {
		if el == nil {
			continue
		}
		for _, k := range xnode.AttrKeys(el) {
			if !slices.Contains(res, k) {
				res = append(res, k)
			}
		}
	}
	return res
}

func parentLabel(el *etree.Element) string {
	if el == nil {
		return ""
	}
	return el.FullTag()
}
