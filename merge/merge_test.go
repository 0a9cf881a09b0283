package merge

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"

	"github.com/signadot/xmerge/conflict"
	"github.com/signadot/xmerge/report"
	"github.com/signadot/xmerge/sink"
	"github.com/signadot/xmerge/situation"
	"github.com/signadot/xmerge/strategy"
	"github.com/signadot/xmerge/xnode"
)

func doc(t *testing.T, s string) *etree.Document {
	t.Helper()
	d, err := xnode.ParseString(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func sit(p situation.Policy) situation.MergeSituation {
	return situation.New("test.xml", "alice", "r1", "bob", "r2", "r0", p)
}

func keyed(ordered bool) *strategy.Registry {
	return strategy.NewBuilder().
		Set("b", strategy.Keyed("id", ordered)).
		Set("header", strategy.Singleton()).
		MustBuild()
}

func summary(r *sink.Recorder) []string {
	var res []string
	for _, e := range r.Events() {
		if e.Conflict != nil {
			res = append(res, "conflict "+e.Conflict.Kind().String()+" "+e.Conflict.Context().Path)
			continue
		}
		res = append(res, e.Change.Kind().String()+" "+e.Change.Context().Path)
	}
	return res
}

type mergeCase struct {
	name              string
	reg               *strategy.Registry
	policy            situation.Policy
	ours, theirs, anc string
	want              string
	events            []string
}

func TestMergeDocuments(t *testing.T) {
	tests := []mergeCase{
		{
			name:   "addition",
			ours:   `<a><b>new</b></a>`,
			theirs: `<a/>`,
			anc:    `<a/>`,
			want:   `<a><b>new</b></a>`,
			events: []string{"addition /a/b[1]"},
		},
		{
			name:   "keyed text edit",
			reg:    keyed(false),
			ours:   `<a><b id="x">new</b></a>`,
			theirs: `<a><b id="x">old</b></a>`,
			anc:    `<a><b id="x">old</b></a>`,
			want:   `<a><b id="x">new</b></a>`,
			events: []string{"text-edit /a/b[@id='x']"},
		},
		{
			name:   "deletion",
			ours:   `<a></a>`,
			theirs: `<a><b/></a>`,
			anc:    `<a><b/></a>`,
			want:   `<a/>`,
			events: []string{"deletion /a/b[1]"},
		},
		{
			name:   "singleton text edit",
			reg:    keyed(false),
			ours:   `<a><header>v1</header></a>`,
			theirs: `<a><header>v2</header></a>`,
			anc:    `<a><header>v1</header></a>`,
			want:   `<a><header>v2</header></a>`,
			events: []string{"text-edit /a/header"},
		},
		{
			name:   "edits to different keyed children",
			reg:    keyed(false),
			ours:   `<a><b id="x">x2</b><b id="y">y1</b></a>`,
			theirs: `<a><b id="x">x1</b><b id="y">y2</b></a>`,
			anc:    `<a><b id="x">x1</b><b id="y">y1</b></a>`,
			want:   `<a><b id="x">x2</b><b id="y">y2</b></a>`,
			events: []string{"text-edit /a/b[@id='x']", "text-edit /a/b[@id='y']"},
		},
		{
			name:   "both edited, ours wins",
			reg:    keyed(false),
			ours:   `<a><b id="x">A</b></a>`,
			theirs: `<a><b id="x">B</b></a>`,
			anc:    `<a><b id="x">old</b></a>`,
			want:   `<a><b id="x">A</b></a>`,
			events: []string{"conflict BothEditedTextConflict /a/b[@id='x']"},
		},
		{
			name:   "both edited, theirs wins",
			reg:    keyed(false),
			policy: situation.BWins,
			ours:   `<a><b id="x">A</b></a>`,
			theirs: `<a><b id="x">B</b></a>`,
			anc:    `<a><b id="x">old</b></a>`,
			want:   `<a><b id="x">B</b></a>`,
			events: []string{"conflict BothEditedTextConflict /a/b[@id='x']"},
		},
		{
			name:   "agreed change",
			reg:    keyed(false),
			ours:   `<a><b id="x">same</b></a>`,
			theirs: `<a><b id="x">same</b></a>`,
			anc:    `<a><b id="x">old</b></a>`,
			want:   `<a><b id="x">same</b></a>`,
			events: []string{"text-edit /a/b[@id='x']"},
		},
		{
			name:   "removed vs edited, remover wins",
			reg:    keyed(false),
			ours:   `<a><b id="y"/></a>`,
			theirs: `<a><b id="x">2</b><b id="y"/></a>`,
			anc:    `<a><b id="x">1</b><b id="y"/></a>`,
			want:   `<a><b id="y"/></a>`,
			events: []string{"conflict RemovedVsEditedElementConflict /a/b[@id='x']"},
		},
		{
			name:   "removed vs edited, editor wins",
			reg:    keyed(false),
			policy: situation.BWins,
			ours:   `<a><b id="y"/></a>`,
			theirs: `<a><b id="x">2</b><b id="y"/></a>`,
			anc:    `<a><b id="x">1</b><b id="y"/></a>`,
			want:   `<a><b id="x">2</b><b id="y"/></a>`,
			events: []string{"conflict RemovedVsEditedElementConflict /a/b[@id='x']"},
		},
		{
			name:   "both added",
			reg:    keyed(false),
			ours:   `<a><b id="n">1</b></a>`,
			theirs: `<a><b id="n">2</b></a>`,
			anc:    `<a/>`,
			want:   `<a><b id="n">1</b></a>`,
			events: []string{"conflict BothAddedElementConflict /a/b[@id='n']"},
		},
		{
			name:   "additions keep their neighbors",
			reg:    keyed(false),
			ours:   `<a><b id="x"/><b id="n"/><b id="y"/></a>`,
			theirs: `<a><b id="x"/><b id="y"/><b id="m"/></a>`,
			anc:    `<a><b id="x"/><b id="y"/></a>`,
			want:   `<a><b id="x"/><b id="n"/><b id="y"/><b id="m"/></a>`,
			events: []string{"addition /a/b[@id='n']", "addition /a/b[@id='m']"},
		},
		{
			name:   "attributes merge independently",
			reg:    keyed(false),
			ours:   `<a><b id="x" p="2" q="1"/></a>`,
			theirs: `<a><b id="x" p="1" q="2"/></a>`,
			anc:    `<a><b id="x" p="1" q="1"/></a>`,
			want:   `<a><b id="x" p="2" q="2"/></a>`,
			events: []string{"attribute-change /a/b[@id='x']", "attribute-change /a/b[@id='x']"},
		},
		{
			name:   "attribute conflict",
			reg:    keyed(false),
			ours:   `<a><b id="x" p="2"/></a>`,
			theirs: `<a><b id="x" p="3"/></a>`,
			anc:    `<a><b id="x" p="1"/></a>`,
			want:   `<a><b id="x" p="2"/></a>`,
			events: []string{"conflict BothEditedAttributeConflict /a/b[@id='x']"},
		},
		{
			name:   "attribute removed vs edited",
			reg:    keyed(false),
			policy: situation.BWins,
			ours:   `<a><b id="x"/></a>`,
			theirs: `<a><b id="x" p="3"/></a>`,
			anc:    `<a><b id="x" p="1"/></a>`,
			want:   `<a><b id="x" p="3"/></a>`,
			events: []string{"conflict RemovedVsEditedAttributeConflict /a/b[@id='x']"},
		},
		{
			name:   "unordered keyed children ignore order",
			reg:    keyed(false),
			ours:   `<a><b id="y"/><b id="x">x2</b></a>`,
			theirs: `<a><b id="x">x1</b><b id="y"/><b id="z"/></a>`,
			anc:    `<a><b id="x">x1</b><b id="y"/></a>`,
			want:   `<a><b id="y"/><b id="z"/><b id="x">x2</b></a>`,
			events: []string{"addition /a/b[@id='z']", "text-edit /a/b[@id='x']"},
		},
		{
			name:   "one side reorders ordered children",
			reg:    keyed(true),
			ours:   `<a><b id="x">x2</b><b id="y"/><b id="z"/></a>`,
			theirs: `<a><b id="z"/><b id="y"/><b id="x">x1</b></a>`,
			anc:    `<a><b id="x">x1</b><b id="y"/><b id="z"/></a>`,
			want:   `<a><b id="z"/><b id="y"/><b id="x">x2</b></a>`,
			events: []string{"text-edit /a/b[@id='x']", "reordered /a"},
		},
		{
			name:   "both reorder differently",
			reg:    keyed(true),
			ours:   `<a><b id="z"/><b id="x"/><b id="y"/></a>`,
			theirs: `<a><b id="y"/><b id="z"/><b id="x"/></a>`,
			anc:    `<a><b id="x"/><b id="y"/><b id="z"/></a>`,
			want:   `<a><b id="z"/><b id="x"/><b id="y"/></a>`,
			events: []string{"conflict BothReorderedElementsConflict /a"},
		},
		{
			name:   "nested structural change",
			reg:    keyed(false),
			ours:   `<a><b id="x"><c>1</c><d>2</d></b></a>`,
			theirs: `<a><b id="x"><c>0</c><d>9</d></b></a>`,
			anc:    `<a><b id="x"><c>0</c><d>2</d></b></a>`,
			want:   `<a><b id="x"><c>1</c><d>9</d></b></a>`,
			events: []string{"text-edit /a/b[@id='x']/c[1]", "text-edit /a/b[@id='x']/d[1]"},
		},
		{
			name:   "text edit beside an attribute edit",
			ours:   `<a k="1">bye<b/></a>`,
			theirs: `<a k="2">hello<b/></a>`,
			anc:    `<a k="1">hello<b/></a>`,
			want:   `<a k="2">bye<b/></a>`,
			events: []string{"attribute-change /a", "text-edit /a"},
		},
		{
			name:   "mixed content keeps its place",
			ours:   `<p>Hello <b>y</b> world</p>`,
			theirs: `<p>Hello <b>z</b> world</p>`,
			anc:    `<p>Hello <b>x</b> world</p>`,
			want:   `<p>Hello <b>y</b> world</p>`,
			events: []string{"conflict BothEditedTextConflict /p/b[1]"},
		},
		{
			name:   "mixed content text edit and addition",
			ours:   `<p>Hi <b>x</b> world</p>`,
			theirs: `<p>Hello <b>x</b> world<i/></p>`,
			anc:    `<p>Hello <b>x</b> world</p>`,
			want:   `<p>Hi <b>x</b> world<i/></p>`,
			events: []string{"text-edit /p", "addition /p/i[1]"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &sink.Recorder{}
			m := New(sit(tt.policy), tt.reg, rec)
			got, err := m.MergeDocuments(doc(t, tt.ours), doc(t, tt.theirs), doc(t, tt.anc))
			if err != nil {
				t.Fatal(err)
			}
			want := doc(t, tt.want)
			if !xnode.Equal(want.Root(), got.Root()) {
				t.Errorf("merged\n%s\nwant\n%s", xnode.Outer(got.Root()), xnode.Outer(want.Root()))
			}
			if diff := cmp.Diff(tt.events, summary(rec)); diff != "" {
				t.Errorf("events mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConflictWinnerID(t *testing.T) {
	for _, p := range []situation.Policy{situation.AWins, situation.BWins} {
		rec := &sink.Recorder{}
		m := New(sit(p), keyed(false), rec)
		_, err := m.MergeDocuments(
			doc(t, `<a><b id="x">A</b></a>`),
			doc(t, `<a><b id="x">B</b></a>`),
			doc(t, `<a><b id="x">old</b></a>`))
		if err != nil {
			t.Fatal(err)
		}
		cs := rec.Conflicts()
		if len(cs) != 1 {
			t.Fatalf("%v: %d conflicts", p, len(cs))
		}
		want := "alice"
		if p == situation.BWins {
			want = "bob"
		}
		if cs[0].WinnerID() != want {
			t.Errorf("%v: winner %q want %q", p, cs[0].WinnerID(), want)
		}
	}
}

func TestInputsNotModified(t *testing.T) {
	ours := doc(t, `<a><b id="x">A</b><b id="y"/></a>`)
	theirs := doc(t, `<a><b id="x">B</b></a>`)
	anc := doc(t, `<a><b id="x">old</b></a>`)
	before := []string{xnode.Outer(ours.Root()), xnode.Outer(theirs.Root()), xnode.Outer(anc.Root())}
	if _, err := New(sit(situation.AWins), keyed(false), nil).MergeDocuments(ours, theirs, anc); err != nil {
		t.Fatal(err)
	}
	after := []string{xnode.Outer(ours.Root()), xnode.Outer(theirs.Root()), xnode.Outer(anc.Root())}
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("inputs changed (-before +after):\n%s", diff)
	}
}

func TestIdentityNoOp(t *testing.T) {
	anc := `<a><b id="x">1</b><b id="y"><c>q</c></b></a>`
	other := `<a><b id="y"><c>r</c></b><b id="z"/><b id="x" k="v">2</b></a>`
	for _, oursIsAnc := range []bool{true, false} {
		ours, theirs := anc, other
		if !oursIsAnc {
			ours, theirs = other, anc
		}
		rec := &sink.Recorder{}
		got, err := New(sit(situation.AWins), keyed(false), rec).MergeDocuments(doc(t, ours), doc(t, theirs), doc(t, anc))
		if err != nil {
			t.Fatal(err)
		}
		if !xnode.Equal(doc(t, other).Root(), got.Root()) {
			t.Errorf("merged %s, want %s", xnode.Outer(got.Root()), other)
		}
		if n := len(rec.Conflicts()); n != 0 {
			t.Errorf("%d conflicts", n)
		}
	}
}

func TestDeterminism(t *testing.T) {
	ours := `<a><b id="x">A</b><b id="y" p="1"/><b id="n"/></a>`
	theirs := `<a><b id="x">B</b><b id="y" p="2"/></a>`
	anc := `<a><b id="x">old</b><b id="y"/></a>`
	run := func() (string, []string, []string) {
		rec := &sink.Recorder{}
		got, err := New(sit(situation.AWins), keyed(false), rec).MergeDocuments(doc(t, ours), doc(t, theirs), doc(t, anc))
		if err != nil {
			t.Fatal(err)
		}
		var ids []string
		for _, c := range rec.Conflicts() {
			ids = append(ids, c.ID().String())
		}
		return xnode.Outer(got.Root()), summary(rec), ids
	}
	o1, e1, i1 := run()
	for range 3 {
		o2, e2, i2 := run()
		if o1 != o2 {
			t.Errorf("output differs:\n%s\n%s", o1, o2)
		}
		if diff := cmp.Diff(e1, e2); diff != "" {
			t.Errorf("events differ (-first +again):\n%s", diff)
		}
		if diff := cmp.Diff(i1, i2); diff != "" {
			t.Errorf("conflict ids differ (-first +again):\n%s", diff)
		}
	}
}

func TestAdditivity(t *testing.T) {
	anc := `<a><b id="x">1</b><b id="y">1</b><b id="z">1</b></a>`
	oursX := `<a><b id="x">2</b><b id="y">1</b><b id="z">1</b></a>`
	theirsZ := `<a><b id="x">1</b><b id="y">1</b><b id="z">2</b></a>`
	merge := func(ours, theirs string) map[string]bool {
		rec := &sink.Recorder{}
		if _, err := New(sit(situation.AWins), keyed(false), rec).MergeDocuments(doc(t, ours), doc(t, theirs), doc(t, anc)); err != nil {
			t.Fatal(err)
		}
		set := map[string]bool{}
		for _, s := range summary(rec) {
			set[s] = true
		}
		return set
	}
	whole := merge(oursX, theirsZ)
	parts := merge(oursX, anc)
	for k := range merge(anc, theirsZ) {
		parts[k] = true
	}
	if diff := cmp.Diff(parts, whole); diff != "" {
		t.Errorf("event sets differ (-parts +whole):\n%s", diff)
	}
}

func TestDuplicateKeyLastWins(t *testing.T) {
	rec := &sink.Recorder{}
	m := New(sit(situation.AWins), keyed(false), rec)
	err := m.DiffDocuments(
		doc(t, `<a><b id="x">first</b></a>`),
		doc(t, `<a><b id="x">first</b><b id="x">second</b></a>`))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"text-edit /a/b[@id='x']"}, summary(rec)); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
	te := rec.Changes()[0].(*report.TextEdit)
	if te.AfterText() != "second" {
		t.Errorf("after text %q, want the last duplicate", te.AfterText())
	}
}

func TestMalformedAbortsWithoutEvents(t *testing.T) {
	rec := &sink.Recorder{}
	m := New(sit(situation.AWins), keyed(false), rec)
	res, err := m.MergeFile(
		[]byte(`<a><d>2</d><e><b>z</b></e></a>`),
		[]byte(`<a><d>1</d><e><b id="x">y</b></e></a>`),
		[]byte(`<a><d>1</d><e><b id="x">y</b></e></a>`))
	if !errors.Is(err, xnode.ErrMalformedInput) {
		t.Fatalf("expected malformed input, got %v", err)
	}
	var me *xnode.MalformedInputError
	if !errors.As(err, &me) || me.Path != "/a/e[1]/b" {
		t.Errorf("error path: %v", err)
	}
	if res != nil {
		t.Errorf("result on abort: %+v", res)
	}
	if n := len(rec.Events()); n != 0 {
		t.Errorf("%d events delivered by an aborted pass", n)
	}

	_, err = m.MergeFile([]byte(`<a>`), []byte(`<a/>`), []byte(`<a/>`))
	if !errors.Is(err, xnode.ErrMalformedInput) {
		t.Errorf("not well-formed: got %v", err)
	}
}

func TestMergeKeepsComments(t *testing.T) {
	got, err := New(sit(situation.AWins), nil, nil).MergeDocuments(
		doc(t, `<a><!-- keep --><c>1</c><?pi x?><d>2</d></a>`),
		doc(t, `<a><!-- keep --><c>0</c><?pi x?><d>3</d></a>`),
		doc(t, `<a><!-- keep --><c>0</c><?pi x?><d>2</d></a>`))
	if err != nil {
		t.Fatal(err)
	}
	want := `<a><!-- keep --><c>1</c><?pi x?><d>3</d></a>`
	if s := xnode.Outer(got.Root()); s != want {
		t.Errorf("merged %s, want %s", s, want)
	}
}

func TestMalformedWhereSidesAgree(t *testing.T) {
	for _, tt := range []struct {
		name              string
		ours, theirs, anc string
		path              string
	}{
		{
			name:   "identical inputs",
			ours:   `<a><b>v</b></a>`,
			theirs: `<a><b>v</b></a>`,
			anc:    `<a><b>v</b></a>`,
			path:   "/a/b",
		},
		{
			name:   "under an unchanged sibling",
			ours:   `<a><c>2</c><e><b>v</b></e></a>`,
			theirs: `<a><c>1</c><e><b>v</b></e></a>`,
			anc:    `<a><c>1</c><e><b>v</b></e></a>`,
			path:   "/a/e[1]/b",
		},
		{
			name:   "key with both quotes",
			ours:   `<a><b id="x'y&quot;z"/></a>`,
			theirs: `<a><b id="x'y&quot;z"/></a>`,
			anc:    `<a/>`,
			path:   "/a/b",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			rec := &sink.Recorder{}
			_, err := New(sit(situation.AWins), keyed(false), rec).MergeDocuments(doc(t, tt.ours), doc(t, tt.theirs), doc(t, tt.anc))
			var me *xnode.MalformedInputError
			if !errors.As(err, &me) || me.Path != tt.path {
				t.Fatalf("got %v, want malformed input at %s", err, tt.path)
			}
			if n := len(rec.Events()); n != 0 {
				t.Errorf("%d events delivered", n)
			}
		})
	}

	err := New(sit(situation.AWins), keyed(false), nil).DiffDocuments(doc(t, `<a><b>v</b></a>`), doc(t, `<a><b>v</b></a>`))
	if !errors.Is(err, xnode.ErrMalformedInput) {
		t.Errorf("diff of identical malformed documents: got %v", err)
	}
}

func TestUnmergableFileType(t *testing.T) {
	for _, tt := range []struct {
		path   string
		ours   string
		policy situation.Policy
		want   string
	}{
		{"picture.png", "A", situation.AWins, "A"},
		{"picture.png", "A", situation.BWins, "B"},
		{"data.xml", "A\x00", situation.AWins, "A\x00"},
	} {
		rec := &sink.Recorder{}
		s := sit(tt.policy)
		s.PathToFileInRepository = tt.path
		res, err := New(s, nil, rec).MergeFile([]byte(tt.ours), []byte("B"), []byte("O"))
		if err != nil {
			t.Fatal(err)
		}
		if !res.Unmergable || string(res.Content) != tt.want {
			t.Errorf("%s: unmergable=%v content=%q", tt.path, res.Unmergable, res.Content)
		}
		ev := rec.Events()
		if len(ev) != 1 || ev[0].Conflict == nil || ev[0].Conflict.Kind() != conflict.KindUnmergableFileType {
			t.Errorf("%s: events %v", tt.path, summary(rec))
		}
	}
}

func TestMergeFile(t *testing.T) {
	rec := &sink.Recorder{}
	res, err := New(sit(situation.AWins), keyed(false), rec).MergeFile(
		[]byte("<a>\n  <b id=\"x\">2</b>\n  <b id=\"y\">1</b>\n</a>\n"),
		[]byte("<a>\n  <b id=\"x\">1</b>\n  <b id=\"y\">2</b>\n</a>\n"),
		[]byte("<a>\n  <b id=\"x\">1</b>\n  <b id=\"y\">1</b>\n</a>\n"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Changes != 2 || res.Conflicts != 0 {
		t.Errorf("changes %d conflicts %d", res.Changes, res.Conflicts)
	}
	if !xnode.EqualXML(`<a><b id="x">2</b><b id="y">2</b></a>`, string(res.Content)) {
		t.Errorf("content %s", res.Content)
	}
	if !strings.Contains(string(res.Content), "\n  <b") {
		t.Errorf("indented input should give indented output:\n%s", res.Content)
	}
}

func TestDiffChildren(t *testing.T) {
	rec := &sink.Recorder{}
	m := New(sit(situation.AWins), keyed(false), rec)
	err := m.DiffChildren(
		doc(t, `<a><b id="n"/><b id="x">2</b></a>`).Root(),
		doc(t, `<a><b id="x">1</b><b id="d"/></a>`).Root())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"addition /a/b[@id='n']", "deletion /a/b[@id='d']", "text-edit /a/b[@id='x']"}
	if diff := cmp.Diff(want, summary(rec)); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestReportContextResolves(t *testing.T) {
	rec := &sink.Recorder{}
	after := doc(t, `<a><b id="x"><c>2</c></b><header>h</header></a>`)
	err := New(sit(situation.AWins), keyed(false), rec).DiffDocuments(
		doc(t, `<a><b id="x"><c>1</c></b></a>`), after)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range rec.Changes() {
		el, err := c.Context().Resolve(after)
		if err != nil {
			t.Errorf("%s: %v", c, err)
			continue
		}
		if !xnode.EqualXML(c.After(), xnode.Outer(el)) {
			t.Errorf("%s resolved to %s, report has %s", c, xnode.Outer(el), c.After())
		}
	}
}

func TestMoved(t *testing.T) {
	got := moved([]string{"x", "y", "z"}, []string{"z", "x", "y"})
	if diff := cmp.Diff([]string{"z"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if got := moved([]string{"x"}, []string{"x"}); got != nil {
		t.Errorf("unmoved: %v", got)
	}
}

func TestBatch(t *testing.T) {
	reg := keyed(false)
	good := &sink.Recorder{}
	bad := &sink.Recorder{}
	jobs := []Job{
		{
			Situation: sit(situation.AWins), Registry: reg, Listener: good,
			Ours: []byte(`<a><b id="x">2</b></a>`), Theirs: []byte(`<a><b id="x">1</b></a>`), Ancestor: []byte(`<a><b id="x">1</b></a>`),
		},
		{
			Situation: sit(situation.BWins), Registry: reg, Listener: bad,
			Ours: []byte(`<a><b>2</b></a>`), Theirs: []byte(`<a><b id="x">3</b></a>`), Ancestor: []byte(`<a><b id="x">1</b></a>`),
		},
	}
	res, err := Batch(context.Background(), jobs, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 2 {
		t.Fatalf("%d results", len(res))
	}
	if res[0].Failure != nil || res[0].Changes != 1 {
		t.Errorf("good job: %+v", res[0])
	}
	if !errors.Is(res[1].Failure, xnode.ErrMalformedInput) || !res[1].Unmergable {
		t.Errorf("bad job: %+v", res[1])
	}
	if string(res[1].Content) != `<a><b id="x">3</b></a>` {
		t.Errorf("bad job content %s", res[1].Content)
	}
	cs := bad.Conflicts()
	if len(cs) != 1 || cs[0].Kind() != conflict.KindUnmergableFileType {
		t.Errorf("bad job conflicts %v", summary(bad))
	}
	if len(good.Changes()) != 1 {
		t.Errorf("good job events %v", summary(good))
	}
}

func TestBatchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Batch(ctx, []Job{{Situation: sit(situation.AWins)}}, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
