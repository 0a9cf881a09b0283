package recdiff

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/xmerge/merge"
	"github.com/signadot/xmerge/repo"
	"github.com/signadot/xmerge/report"
	"github.com/signadot/xmerge/sink"
	"github.com/signadot/xmerge/situation"
	"github.com/signadot/xmerge/strategy"
	"github.com/signadot/xmerge/xnode"
)

const (
	oldData = `<languageproject>
<AdditionalFields/>
<rt class="LexEntry" guid="a"><Form>one</Form></rt>
<rt class="LexEntry" guid="b"><Form>two</Form></rt>
<rt class="LexEntry" guid="c" ownerguid="z"><Form>three</Form></rt>
</languageproject>`
	newData = `<languageproject>
<AdditionalFields><CustomField name="x"/></AdditionalFields>
<rt class="LexEntry" guid="d"><Form>four</Form></rt>
<rt class="LexEntry" guid="b"><Form>TWO</Form></rt>
<rt ownerguid="z" guid="c" class="LexEntry">
  <Form>three</Form>
</rt>
</languageproject>`
)

var (
	parent = repo.FileInRevision{FullPath: "Lexicon.fwdata", Revision: "r1"}
	child  = repo.FileInRevision{FullPath: "Lexicon.fwdata", Revision: "r2"}
)

func summary(cs []report.ChangeReport) []string {
	var res []string
	for _, c := range cs {
		res = append(res, c.Kind().String()+" "+c.Context().Path)
	}
	return res
}

func TestDiff(t *testing.T) {
	rec := &sink.Recorder{}
	if err := New(rec).Diff(parent, child, []byte(oldData), []byte(newData)); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"addition /languageproject/rt[@guid='d']",
		"deletion /languageproject/rt[@guid='a']",
		"changed-record /languageproject/rt[@guid='b']",
	}
	if diff := cmp.Diff(want, summary(rec.Changes())); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	cr := rec.Changes()[2]
	if !strings.Contains(cr.Before(), "two") || !strings.Contains(cr.After(), "TWO") {
		t.Errorf("changed record %s -> %s", cr.Before(), cr.After())
	}
	if cr.ParentFile() != parent || cr.ChildFile() != child {
		t.Errorf("files %v %v", cr.ParentFile(), cr.ChildFile())
	}
}

// recordOf maps a merge report context to the record it falls under.
func recordOf(path string) string {
	const root = "/languageproject/"
	rest := strings.TrimPrefix(path, root)
	if i := strings.Index(rest, "]/"); i >= 0 {
		rest = rest[:i+1]
	}
	return root + rest
}

func TestAgreesWithMerge(t *testing.T) {
	rec := &sink.Recorder{}
	if err := New(rec).Diff(parent, child, []byte(oldData), []byte(newData)); err != nil {
		t.Fatal(err)
	}
	got := map[string]string{}
	for _, c := range rec.Changes() {
		got[c.Context().Path] = map[report.Kind]string{
			report.KindAddition:      "added",
			report.KindDeletion:      "deleted",
			report.KindChangedRecord: "changed",
		}[c.Kind()]
	}

	reg := strategy.NewBuilder().
		Set("rt", strategy.Keyed("guid", false)).
		Set("AdditionalFields", strategy.Singleton().AsAtomic()).
		MustBuild()
	mrec := &sink.Recorder{}
	m := merge.New(situation.Null(), reg, mrec)
	if err := m.DiffFile([]byte(oldData), []byte(newData)); err != nil {
		t.Fatal(err)
	}
	want := map[string]string{}
	for _, c := range mrec.Changes() {
		p := recordOf(c.Context().Path)
		if !strings.Contains(p, "rt[") {
			continue
		}
		switch c.Kind() {
		case report.KindAddition:
			if p == c.Context().Path {
				want[p] = "added"
				continue
			}
		case report.KindDeletion:
			if p == c.Context().Path {
				want[p] = "deleted"
				continue
			}
		}
		want[p] = "changed"
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("classification mismatch (-merge +records):\n%s", diff)
	}
}

func TestOptions(t *testing.T) {
	rec := &sink.Recorder{}
	d := New(rec, FromConfig(strategy.RecordsConfig{Tag: "entry", ID: "id"})...)
	err := d.Diff(parent, child,
		[]byte(`<lift><entry id="1">a</entry></lift>`),
		[]byte(`<lift><entry id="1">b</entry><entry id="2"/></lift>`))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"addition /lift/entry[@id='2']", "changed-record /lift/entry[@id='1']"}
	if diff := cmp.Diff(want, summary(rec.Changes())); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestMissingID(t *testing.T) {
	rec := &sink.Recorder{}
	err := New(rec).Diff(parent, child, []byte(`<p><rt guid="a"/></p>`), []byte(`<p><rt/></p>`))
	if !errors.Is(err, xnode.ErrMalformedInput) {
		t.Fatalf("expected malformed input, got %v", err)
	}
	if len(rec.Events()) != 0 {
		t.Errorf("events delivered on malformed input")
	}
}

func TestFromRevisions(t *testing.T) {
	mem := repo.NewMemRetriever()
	mem.Put(parent.FullPath, parent.Revision, []byte(oldData))
	mem.Put(child.FullPath, child.Revision, []byte(newData))
	rec := &sink.Recorder{}
	if err := New(rec).FromRevisions(context.Background(), mem, parent, child); err != nil {
		t.Fatal(err)
	}
	if n := len(rec.Changes()); n != 3 {
		t.Errorf("%d changes", n)
	}
	missing := repo.FileInRevision{FullPath: "nope", Revision: "r9"}
	if err := New(nil).FromRevisions(context.Background(), mem, missing, child); !errors.Is(err, repo.ErrRepositoryAccess) {
		t.Errorf("expected repository access failure, got %v", err)
	}
}
