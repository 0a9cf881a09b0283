package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/signadot/xmerge/conflict"
	"github.com/signadot/xmerge/report"
)

// printer is a listener writing one line per event.
type printer struct {
	w       io.Writer
	diffs   bool
	colored bool

	add, del, chg, bad *color.Color
}

func newPrinter(w io.Writer, colored, diffs bool) *printer {
	p := &printer{
		w:     w,
		diffs: diffs,
		add:   color.New(color.FgGreen),
		del:   color.New(color.FgRed),
		chg:   color.New(color.FgYellow),
		bad:   color.New(color.FgMagenta, color.Bold),
	}
	for _, c := range []*color.Color{p.add, p.del, p.chg, p.bad} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	p.colored = colored
	return p
}

func (p *printer) OnChange(c report.ChangeReport) {
	mark, col := "~", p.chg
	switch c.Kind() {
	case report.KindAddition:
		mark, col = "+", p.add
	case report.KindDeletion:
		mark, col = "-", p.del
	}
	fmt.Fprintf(p.w, "%s %s\n", col.Sprint(mark), c)
	if !p.diffs {
		return
	}
	switch r := c.(type) {
	case *report.TextEdit:
		if p.colored {
			fmt.Fprintf(p.w, "    %s\n", r.PrettyDiff())
		} else {
			fmt.Fprintf(p.w, "    %q -> %q\n", r.BeforeText(), r.AfterText())
		}
	case *report.AttributeChange:
		ov, _ := r.OldValue()
		nv, _ := r.NewValue()
		fmt.Fprintf(p.w, "    %s: %q -> %q\n", r.Attribute(), ov, nv)
	case *report.Reordered:
		fmt.Fprintf(p.w, "    moved: %s\n", strings.Join(r.Moved(), " "))
	}
}

func (p *printer) OnConflict(c conflict.Conflict) {
	fmt.Fprintf(p.w, "%s %s %s (winner %s)\n", p.bad.Sprint("!"), c.Description(), c.Context(), c.WinnerID())
}

func printConflict(w io.Writer, c conflict.Conflict, full bool) {
	fmt.Fprintf(w, "%s %s %s", c.ID(), c.Kind(), c.RelativeFilePath())
	if cd := c.Context(); !cd.IsZero() {
		fmt.Fprintf(w, " %s", cd)
	}
	fmt.Fprintf(w, " winner=%s", c.WinnerID())
	if rev := c.RevisionWhereMergeWasCheckedIn(); rev != "" {
		fmt.Fprintf(w, " checkedIn=%s", rev)
	}
	fmt.Fprintln(w)
	if full {
		for _, line := range strings.Split(c.FullHumanReadableDescription(), "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
}
