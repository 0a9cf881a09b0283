// Package merge implements the structural diff and three-way merge of XML
// documents.
//
// Children of an element are matched by key. The strategy registered for a
// child's tag decides its key:
//
//	keyed       tag[@attr='value']
//	singleton   tag
//	positional  tag[n]   (n counts same-tag siblings from 1)
//
// A key is also the etree path step locating the child, so the context of
// every report and conflict is a path that resolves back into the document.
//
// A two-way diff classifies keys as added, deleted or present on both sides.
// Present pairs that differ produce a text edit when atomic and are recursed
// into otherwise. A three-way merge applies the same matching to ancestor,
// ours and theirs: a key changed on one side takes that side, a key changed
// identically on both is an agreed change, and anything else is a conflict
// resolved by the situation's policy.
//
// Events are queued while a pass runs and handed to the listener only when
// the pass succeeds. A file that turns out to be malformed delivers nothing.
package merge
