// Package recdiff compares documents holding a flat collection of records
// with globally unique ids, such as FieldWorks data files.
//
// A record is a child of the document root with the record tag and an id
// attribute. Each side is indexed in a single scan and the ids are
// classified as added, deleted, or present on both sides with different
// content. Other children of the root are ignored.
package recdiff

import (
	"context"
	"log/slog"

	"github.com/beevik/etree"

	"github.com/signadot/xmerge/debug"
	"github.com/signadot/xmerge/repo"
	"github.com/signadot/xmerge/report"
	"github.com/signadot/xmerge/sink"
	"github.com/signadot/xmerge/strategy"
	"github.com/signadot/xmerge/xnode"
)

const (
	DefaultTag    = "rt"
	DefaultIDAttr = "guid"
)

type Differ struct {
	tag      string
	idAttr   string
	listener sink.Listener
	logger   *slog.Logger
}

type Option func(*Differ)

func WithTag(tag string) Option {
	return func(d *Differ) {
		if tag != "" {
			d.tag = tag
		}
	}
}

func WithIDAttr(attr string) Option {
	return func(d *Differ) {
		if attr != "" {
			d.idAttr = attr
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Differ) {
		if l != nil {
			d.logger = l
		}
	}
}

// FromConfig returns the options for a records section of a strategy
// configuration.
func FromConfig(rc strategy.RecordsConfig) []Option {
	return []Option{WithTag(rc.Tag), WithIDAttr(rc.ID)}
}

func New(l sink.Listener, opts ...Option) *Differ {
	if l == nil {
		l = sink.Null{}
	}
	d := &Differ{
		tag:      DefaultTag,
		idAttr:   DefaultIDAttr,
		listener: l,
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

type record struct {
	el  *etree.Element
	xml string
}

type records struct {
	order []string
	byID  map[string]*record
}

func (d *Differ) index(doc *etree.Document) (*records, string, error) {
	rs := &records{byID: map[string]*record{}}
	root := doc.Root()
	if root == nil {
		return rs, "", nil
	}
	path := xnode.Join("", root.FullTag())
	for _, el := range root.ChildElements() {
		if el.FullTag() != d.tag {
			continue
		}
		a := el.SelectAttr(d.idAttr)
		if a == nil {
			return nil, "", xnode.Malformed(xnode.Join(path, d.tag), "record missing %q attribute", d.idAttr)
		}
		if _, dup := rs.byID[a.Value]; !dup {
			rs.order = append(rs.order, a.Value)
		}
		rs.byID[a.Value] = &record{el: el, xml: xnode.Outer(el)}
	}
	return rs, path, nil
}

// DiffDocuments reports how the records of new differ from those of old.
// parent and child name the files the documents were read from.
func (d *Differ) DiffDocuments(parent, child repo.FileInRevision, old, new *etree.Document) error {
	oi, opath, err := d.index(old)
	if err != nil {
		return err
	}
	ni, npath, err := d.index(new)
	if err != nil {
		return err
	}
	path := npath
	if path == "" {
		path = opath
	}
	ctx := func(id string) xnode.ContextDescriptor {
		return xnode.ContextDescriptor{
			Path:  xnode.Join(path, xnode.KeyedStep(d.tag, d.idAttr, id)),
			Label: xnode.KeyedLabel(d.tag, d.idAttr, id),
		}
	}

	var adds, dels, changes []report.ChangeReport
	for _, id := range ni.order {
		if _, ok := oi.byID[id]; !ok {
			adds = append(adds, report.NewAddition(child, ni.byID[id].el, ctx(id)))
		}
	}
	for _, id := range oi.order {
		o := oi.byID[id]
		n, ok := ni.byID[id]
		if !ok {
			dels = append(dels, report.NewDeletion(parent, child, o.el, ctx(id)))
			continue
		}
		if o.xml == n.xml || xnode.Equal(o.el, n.el) {
			continue
		}
		if debug.Records() {
			debug.Logf("records: %s changed\n", id)
		}
		changes = append(changes, report.NewChangedRecord(parent, child, o.el, n.el, ctx(id)))
	}
	d.logger.Debug("diffed records", "file", child.FullPath,
		"added", len(adds), "deleted", len(dels), "changed", len(changes))
	for _, group := range [][]report.ChangeReport{adds, dels, changes} {
		for _, c := range group {
			d.listener.OnChange(c)
		}
	}
	return nil
}

// Diff parses old and new and reports their record differences.
func (d *Differ) Diff(parent, child repo.FileInRevision, old, new []byte) error {
	od, err := xnode.Parse(old)
	if err != nil {
		return err
	}
	nd, err := xnode.Parse(new)
	if err != nil {
		return err
	}
	return d.DiffDocuments(parent, child, od, nd)
}

// FromRevisions fetches parent and child through r and diffs them.
func (d *Differ) FromRevisions(ctx context.Context, r repo.Retriever, parent, child repo.FileInRevision) error {
	old, err := parent.Contents(ctx, r)
	if err != nil {
		return err
	}
	new, err := child.Contents(ctx, r)
	if err != nil {
		return err
	}
	return d.Diff(parent, child, old, new)
}
