package merge

import (
	"github.com/beevik/etree"

	"github.com/signadot/xmerge/debug"
	"github.com/signadot/xmerge/strategy"
	"github.com/signadot/xmerge/xnode"
)

type child struct {
	key   string
	label string
	el    *etree.Element
}

// index holds the children of one element by key. A key occurring more than
// once keeps its first position in order and its last element in byKey.
// keys has one entry per child element, in document order.
type index struct {
	order []string
	keys  []string
	byKey map[string]*child
}

func (ix *index) get(key string) *etree.Element {
	if ix == nil {
		return nil
	}
	if c, ok := ix.byKey[key]; ok {
		return c.el
	}
	return nil
}

func (ix *index) label(key string) string {
	if ix == nil {
		return ""
	}
	if c, ok := ix.byKey[key]; ok {
		return c.label
	}
	return ""
}

func (ix *index) has(key string) bool {
	if ix == nil {
		return false
	}
	_, ok := ix.byKey[key]
	return ok
}

func buildIndex(reg *strategy.Registry, parent *etree.Element, path string) (*index, error) {
	ix := &index{byKey: map[string]*child{}}
	if parent == nil {
		return ix, nil
	}
	counts := map[string]int{}
	for _, el := range parent.ChildElements() {
		tag := el.FullTag()
		s := reg.Get(tag)
		c := &child{el: el}
		switch s.Match {
		case strategy.MatchKeyed:
			a := el.SelectAttr(s.KeyAttr)
			if a == nil {
				return nil, xnode.Malformed(xnode.Join(path, tag), "keyed element missing %q attribute", s.KeyAttr)
			}
			if !xnode.Quotable(a.Value) {
				return nil, xnode.Malformed(xnode.Join(path, tag), "key %s=%q holds both quote characters and cannot be located by path", s.KeyAttr, a.Value)
			}
			c.key = xnode.KeyedStep(tag, s.KeyAttr, a.Value)
			c.label = xnode.KeyedLabel(tag, s.KeyAttr, a.Value)
		case strategy.MatchSingleton:
			c.key = xnode.TagStep(tag)
			c.label = tag
		default:
			counts[tag]++
			c.key = xnode.IndexStep(tag, counts[tag])
			c.label = xnode.IndexLabel(tag, counts[tag])
		}
		if _, dup := ix.byKey[c.key]; dup {
			if debug.Match() {
				debug.Logf("match: duplicate key %s under %s, last occurrence wins\n", c.key, path)
			}
		} else {
			ix.order = append(ix.order, c.key)
		}
		ix.byKey[c.key] = c
		ix.keys = append(ix.keys, c.key)
	}
	if debug.Match() {
		debug.Logf("match: %s keys %v\n", path, ix.order)
	}
	return ix, nil
}

// validate indexes every element under el, so input the pass would reject
// is rejected even where the sides agree.
func validate(reg *strategy.Registry, el *etree.Element, path string) error {
	if el == nil {
		return nil
	}
	ix, err := buildIndex(reg, el, path)
	if err != nil {
		return err
	}
	for i, c := range el.ChildElements() {
		if err := validate(reg, c, xnode.Join(path, ix.keys[i])); err != nil {
			return err
		}
	}
	return nil
}

// validateRoots validates each non-nil root from its own root path.
func validateRoots(reg *strategy.Registry, roots ...*etree.Element) error {
	for _, r := range roots {
		if err := validate(reg, r, rootContext(r).Path); err != nil {
			return err
		}
	}
	return nil
}

// union returns the keys of ixs in first-seen order across ixs.
func union(ixs ...*index) []string {
	seen := map[string]bool{}
	var res []string
	for _, ix := range ixs {
		if ix == nil {
			continue
		}
		for _, k := range ix.order {
			if !seen[k] {
				seen[k] = true
				res = append(res, k)
			}
		}
	}
	return res
}

func childContext(path string, ixs []*index, key string) xnode.ContextDescriptor {
	label := ""
	for _, ix := range ixs {
		if l := ix.label(key); l != "" {
			label = l
			break
		}
	}
	return xnode.ContextDescriptor{Path: xnode.Join(path, key), Label: label}
}

func rootContext(els ...*etree.Element) xnode.ContextDescriptor {
	for _, el := range els {
		if el != nil {
			tag := el.FullTag()
			return xnode.ContextDescriptor{Path: xnode.Join("", xnode.TagStep(tag)), Label: tag}
		}
	}
	return xnode.ContextDescriptor{}
}
