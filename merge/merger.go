package merge

import (
	"bytes"
	"log/slog"

	"github.com/beevik/etree"

	"github.com/signadot/xmerge/conflict"
	"github.com/signadot/xmerge/sink"
	"github.com/signadot/xmerge/situation"
	"github.com/signadot/xmerge/strategy"
	"github.com/signadot/xmerge/xnode"
)

// Merger runs diff and merge passes for one situation. A Merger holds no
// state between passes; separate Mergers may run concurrently over a shared
// registry.
type Merger struct {
	sit      situation.MergeSituation
	reg      *strategy.Registry
	listener sink.Listener
	logger   *slog.Logger
	types    *FileTypes
}

type Option func(*Merger)

func WithLogger(l *slog.Logger) Option {
	return func(m *Merger) {
		if l != nil {
			m.logger = l
		}
	}
}

func WithFileTypes(ft *FileTypes) Option {
	return func(m *Merger) { m.types = ft }
}

// New returns a Merger delivering events to l. A nil registry uses the
// positional strategy for every tag; a nil listener discards events.
func New(sit situation.MergeSituation, reg *strategy.Registry, l sink.Listener, opts ...Option) *Merger {
	if l == nil {
		l = sink.Null{}
	}
	m := &Merger{
		sit:      sit,
		reg:      reg,
		listener: l,
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Merger) Situation() situation.MergeSituation { return m.sit }

func (m *Merger) pass() *pass {
	return &pass{reg: m.reg, sit: m.sit}
}

// Result is the outcome of MergeFile.
type Result struct {
	// Content is the merged file.
	Content []byte
	// Doc is the merged document, nil when the file was not merged
	// structurally.
	Doc *etree.Document
	// Unmergable is set when the file was taken whole from the winner.
	Unmergable bool
	Changes    int
	Conflicts  int
}

// MergeDocuments merges ours and theirs against their common ancestor and
// returns a new document. The inputs are not modified.
func (m *Merger) MergeDocuments(ours, theirs, anc *etree.Document) (*etree.Document, error) {
	doc, evs, err := m.mergeDocuments(ours, theirs, anc)
	if err != nil {
		return nil, err
	}
	evs.deliver(m.listener)
	return doc, nil
}

func (m *Merger) mergeDocuments(ours, theirs, anc *etree.Document) (*etree.Document, events, error) {
	ro, rt, ra := root(ours), root(theirs), root(anc)
	p := m.pass()
	err := validateRoots(p.reg, ro, rt, ra)
	var b buckets
	var res *etree.Element
	if err == nil {
		res, err = p.mergeKey(ro, rt, ra, rootContext(ro, rt, ra), &b)
	}
	if err != nil {
		m.logger.Error("merge aborted", "path", m.sit.PathToFileInRepository, "error", err)
		return nil, nil, err
	}
	out := etree.NewDocument()
	for _, d := range []*etree.Document{ours, theirs, anc} {
		if root(d) != nil {
			out = d.Copy()
			break
		}
	}
	if res == nil {
		if r := out.Root(); r != nil {
			out.RemoveChild(r)
		}
	} else {
		out.SetRoot(res)
	}
	return out, b.flatten(), nil
}

func root(d *etree.Document) *etree.Element {
	if d == nil {
		return nil
	}
	return d.Root()
}

// MergeFile merges the contents of one file. A file that is not mergeable
// produces a single UnmergableFileType conflict and the winner's content.
// Malformed input aborts the pass: nothing is delivered and the error wraps
// xnode.ErrMalformedInput.
func (m *Merger) MergeFile(ours, theirs, anc []byte) (*Result, error) {
	path := m.sit.PathToFileInRepository
	if ok, reason := m.types.Mergeable(path, ours, theirs, anc); !ok {
		m.logger.Info("not merging file structurally", "path", path, "reason", reason)
		return m.unmergable(reason, ours, theirs), nil
	}
	var docs [3]*etree.Document
	for i, data := range [][]byte{ours, theirs, anc} {
		d, err := xnode.Parse(data)
		if err != nil {
			m.logger.Error("merge aborted", "path", path, "error", err)
			return nil, err
		}
		docs[i] = d
	}
	doc, evs, err := m.mergeDocuments(docs[0], docs[1], docs[2])
	if err != nil {
		return nil, err
	}
	if bytes.Contains(ours, []byte(">\n")) {
		doc.Indent(2)
	}
	content, err := doc.WriteToBytes()
	if err != nil {
		return nil, err
	}
	res := &Result{Content: content, Doc: doc}
	for _, e := range evs {
		if e.conflict != nil {
			res.Conflicts++
		} else {
			res.Changes++
		}
	}
	evs.deliver(m.listener)
	m.logger.Debug("merged file", "path", path, "changes", res.Changes, "conflicts", res.Conflicts)
	return res, nil
}

func (m *Merger) unmergable(reason string, ours, theirs []byte) *Result {
	c := conflict.NewUnmergableFileType(m.sit, reason)
	m.listener.OnConflict(c)
	content := ours
	if m.sit.Winner() == situation.UserY {
		content = theirs
	}
	return &Result{
		Content:    bytes.Clone(content),
		Unmergable: true,
		Conflicts:  1,
	}
}

// DiffChildren reports how the children of ours differ from those of
// ancestor.
func (m *Merger) DiffChildren(ours, anc *etree.Element) error {
	p := m.pass()
	if err := validateRoots(p.reg, anc, ours); err != nil {
		return err
	}
	evs, err := p.diffChildren(anc, ours, rootContext(anc, ours).Path, p.files(situation.Ancestor, situation.UserX))
	if err != nil {
		return err
	}
	evs.deliver(m.listener)
	return nil
}

// DiffDocuments reports how new differs from old. old is taken as the
// ancestor revision and new as ours.
func (m *Merger) DiffDocuments(old, new *etree.Document) error {
	p := m.pass()
	ro, rn := root(old), root(new)
	if err := validateRoots(p.reg, ro, rn); err != nil {
		return err
	}
	var b buckets
	if err := p.diffKey(ro, rn, rootContext(rn, ro), p.files(situation.Ancestor, situation.UserX), &b); err != nil {
		return err
	}
	b.flatten().deliver(m.listener)
	return nil
}

// DiffFile parses old and new and reports their differences.
func (m *Merger) DiffFile(old, new []byte) error {
	od, err := xnode.Parse(old)
	if err != nil {
		return err
	}
	nd, err := xnode.Parse(new)
	if err != nil {
		return err
	}
	return m.DiffDocuments(od, nd)
}
