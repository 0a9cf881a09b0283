package merge

import (
	"github.com/signadot/xmerge/conflict"
	"github.com/signadot/xmerge/repo"
	"github.com/signadot/xmerge/report"
	"github.com/signadot/xmerge/sink"
	"github.com/signadot/xmerge/situation"
	"github.com/signadot/xmerge/strategy"
)

type event struct {
	change   report.ChangeReport
	conflict conflict.Conflict
}

type events []event

func (evs events) deliver(l sink.Listener) {
	for _, e := range evs {
		if e.conflict != nil {
			l.OnConflict(e.conflict)
		} else {
			l.OnChange(e.change)
		}
	}
}

// buckets groups the events of one level: additions, then deletions, then
// changes, then order.
type buckets struct {
	adds, dels, changes, order events
}

func (b *buckets) change(c report.ChangeReport) { b.changes = append(b.changes, event{change: c}) }
func (b *buckets) conflict(c conflict.Conflict) { b.changes = append(b.changes, event{conflict: c}) }

func (b *buckets) flatten() events {
	res := make(events, 0, len(b.adds)+len(b.dels)+len(b.changes)+len(b.order))
	res = append(res, b.adds...)
	res = append(res, b.dels...)
	res = append(res, b.changes...)
	return append(res, b.order...)
}

// filePair names the before and after files of a two-way comparison.
type filePair struct {
	old, new repo.FileInRevision
}

// pass is the state of one diff or merge over one file. It only reads the
// registry and situation.
type pass struct {
	reg *strategy.Registry
	sit situation.MergeSituation
}

func (p *pass) file(src situation.Source) repo.FileInRevision {
	return repo.FileInRevision{
		FullPath: p.sit.PathToFileInRepository,
		Revision: p.sit.Revision(src),
		Action:   repo.ActionModified,
	}
}

func (p *pass) files(from, to situation.Source) filePair {
	return filePair{old: p.file(from), new: p.file(to)}
}
