package merge

import (
	"slices"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// orderSeq returns the order-significant keys of ix, in ix's order, that
// every index in others also holds.
func (p *pass) orderSeq(ix *index, others ...*index) []string {
	var res []string
	for _, k := range ix.order {
		if !p.reg.Get(ix.byKey[k].el.FullTag()).OrderSignificant {
			continue
		}
		common := true
		for _, o := range others {
			if !o.has(k) {
				common = false
				break
			}
		}
		if common {
			res = append(res, k)
		}
	}
	return res
}

// reordered returns the keys whose relative order differs between oi and
// ni, or nil.
func (p *pass) reordered(oi, ni *index) []string {
	return moved(p.orderSeq(oi, ni), p.orderSeq(ni, oi))
}

// moved returns the keys of to which a minimal edit of from has to insert,
// that is, the keys that changed place.
func moved(from, to []string) []string {
	if slices.Equal(from, to) {
		return nil
	}
	m := map[string]rune{}
	var keys []string
	runes := func(seq []string) []rune {
		rs := make([]rune, len(seq))
		for i, k := range seq {
			r, ok := m[k]
			if !ok {
				r = rune(len(m))
				m[k] = r
				keys = append(keys, k)
			}
			rs[i] = r
		}
		return rs
	}
	fr, tr := runes(from), runes(to)
	diffs := diffpatch.New().DiffMainRunes(fr, tr, false)
	var res []string
	for _, d := range diffs {
		if d.Type != diffpatch.DiffInsert {
			continue
		}
		for _, r := range d.Text {
			res = append(res, keys[r])
		}
	}
	return res
}

// arrange orders the keys of results. Keys keep their order in base; a key
// base lacks goes right after its nearest preceding key in the first of
// sides holding it, or first if it has none.
func arrange(base *index, sides []*index, results map[string]bool) []string {
	var out []string
	placed := map[string]bool{}
	for _, k := range base.order {
		if results[k] {
			out = append(out, k)
			placed[k] = true
		}
	}
	for _, side := range sides {
		for i, k := range side.order {
			if !results[k] || placed[k] {
				continue
			}
			at := 0
			for j := i - 1; j >= 0; j-- {
				if pos := slices.Index(out, side.order[j]); pos >= 0 {
					at = pos + 1
					break
				}
			}
			out = slices.Insert(out, at, k)
			placed[k] = true
		}
	}
	return out
}
