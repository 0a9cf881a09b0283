package conflict

import (
	"context"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/signadot/xmerge/repo"
	"github.com/signadot/xmerge/situation"
	"github.com/signadot/xmerge/xnode"
)

// Conflict is implemented by every concrete conflict type in this package.
type Conflict interface {
	ID() uuid.UUID
	Kind() Kind
	RelativeFilePath() string
	Context() xnode.ContextDescriptor
	WinnerID() string
	Situation() situation.MergeSituation
	// RevisionWhereMergeWasCheckedIn is empty until the merge result is
	// committed; see CheckedIn.
	RevisionWhereMergeWasCheckedIn() string
	Description() string
	FullHumanReadableDescription() string
	// Content returns the XML each contributor had at the conflict's
	// context, or "" if that contributor had nothing there.
	Content(src situation.Source) string
	// ConflictingRecord fetches the revision src contributed and returns
	// the XML of the node at the conflict's context.
	ConflictingRecord(ctx context.Context, r repo.Retriever, src situation.Source) (string, error)
	WriteXML() *etree.Element

	withCheckedIn(rev string) Conflict
}

var idNamespace = uuid.MustParse("6F1C3B2A-58D4-4E0A-9C77-0E5B8F2D4A91")

type base struct {
	kind      Kind
	id        uuid.UUID
	sit       situation.MergeSituation
	ctx       xnode.ContextDescriptor
	checkedIn string
	ours      string
	theirs    string
	ancestor  string
}

func newBase(k Kind, sit situation.MergeSituation, cd xnode.ContextDescriptor, ours, theirs, ancestor *etree.Element, extra ...string) base {
	b := base{
		kind:     k,
		sit:      sit,
		ctx:      cd,
		ours:     xnode.Outer(ours),
		theirs:   xnode.Outer(theirs),
		ancestor: xnode.Outer(ancestor),
	}
	b.id = b.computeID(extra...)
	return b
}

func (b *base) computeID(extra ...string) uuid.UUID {
	parts := []string{
		b.kind.TypeGUID(),
		b.sit.PathToFileInRepository,
		b.ctx.Path,
		b.sit.UserXRevision,
		b.sit.UserYRevision,
		b.sit.AncestorRevision,
		b.ours,
		b.theirs,
		b.ancestor,
	}
	parts = append(parts, extra...)
	return uuid.NewSHA1(idNamespace, []byte(strings.Join(parts, "\x00")))
}

func (b *base) ID() uuid.UUID { return b.id }
func (b *base) Kind() Kind { return b.kind }
func (b *base) RelativeFilePath() string { return b.sit.PathToFileInRepository }
func (b *base) Context() xnode.ContextDescriptor { return b.ctx }
func (b *base) WinnerID() string { return b.sit.WinnerID() }
func (b *base) Situation() situation.MergeSituation { return b.sit }
func (b *base) RevisionWhereMergeWasCheckedIn() string { return b.checkedIn }
func (b *base) Description() string { return kindTable[b.kind].description }

func (b *base) Content(src situation.Source) string {
	switch src {
	case situation.UserX:
		return b.ours
	case situation.UserY:
		return b.theirs
	default:
		return b.ancestor
	}
}

func (b *base) ConflictingRecord(ctx context.Context, r repo.Retriever, src situation.Source) (string, error) {
	f := repo.FileInRevision{FullPath: b.sit.PathToFileInRepository, Revision: b.sit.Revision(src)}
	data, err := f.Contents(ctx, r)
	if err != nil {
		return "", err
	}
	doc, err := xnode.Parse(data)
	if err != nil {
		return "", err
	}
	el, err := b.ctx.Resolve(doc)
	if err != nil {
		return "", fmt.Errorf("%w: %s in %s: %w", ErrRecordNotFound, b.ctx.Path, f, err)
	}
	return xnode.Outer(el), nil
}

// label is the user-facing name of the conflicting node.
func (b *base) label() string {
	if b.ctx.Label != "" {
		return b.ctx.Label
	}
	if b.ctx.Path != "" {
		return b.ctx.Path
	}
	return "the file"
}

func (b *base) notLost() string {
	return fmt.Sprintf("The automated merger kept the change made by %s. "+
		"The change made by %s is not lost: it is recorded in revision %q of %s "+
		"and can be recovered from there.",
		b.sit.WinnerID(), b.sit.LoserID(),
		b.sit.Revision(b.sit.Loser()), b.sit.PathToFileInRepository)
}

func (b *base) users() (string, string) {
	return b.sit.UserXID, b.sit.UserYID
}

// BothEditedText records that both users changed the text of the same node.
type BothEditedText struct{ base }

func NewBothEditedText(sit situation.MergeSituation, cd xnode.ContextDescriptor, ours, theirs, ancestor *etree.Element) *BothEditedText {
	return &BothEditedText{newBase(KindBothEditedText, sit, cd, ours, theirs, ancestor)}
}

func (c *BothEditedText) FullHumanReadableDescription() string {
	x, y := c.users()
	return fmt.Sprintf("%s and %s both edited %s in the file %s.\n\n%s",
		x, y, c.label(), c.sit.PathToFileInRepository, c.notLost())
}

func (c *BothEditedText) withCheckedIn(rev string) Conflict {
	cp := *c
	cp.checkedIn = rev
	return &cp
}

// BothAdded records that each user added a node with the same key but
// different content.
type BothAdded struct{ base }

func NewBothAdded(sit situation.MergeSituation, cd xnode.ContextDescriptor, ours, theirs *etree.Element) *BothAdded {
	return &BothAdded{newBase(KindBothAdded, sit, cd, ours, theirs, nil)}
}

func (c *BothAdded) FullHumanReadableDescription() string {
	x, y := c.users()
	return fmt.Sprintf("%s and %s both added %s to the file %s, with different contents.\n\n%s",
		x, y, c.label(), c.sit.PathToFileInRepository, c.notLost())
}

func (c *BothAdded) withCheckedIn(rev string) Conflict {
	cp := *c
	cp.checkedIn = rev
	return &cp
}

// RemovedVsEdited records that one user removed a node the other edited.
type RemovedVsEdited struct {
	base
	remover situation.Source
}

func NewRemovedVsEdited(sit situation.MergeSituation, cd xnode.ContextDescriptor, remover situation.Source, ours, theirs, ancestor *etree.Element) *RemovedVsEdited {
	return &RemovedVsEdited{
		base:    newBase(KindRemovedVsEdited, sit, cd, ours, theirs, ancestor, remover.String()),
		remover: remover,
	}
}

// Remover is the side that deleted the node.
func (c *RemovedVsEdited) Remover() situation.Source { return c.remover }

func (c *RemovedVsEdited) FullHumanReadableDescription() string {
	return fmt.Sprintf("%s removed %s from the file %s, while %s edited it.\n\n%s",
		c.sit.UserID(c.remover), c.label(), c.sit.PathToFileInRepository,
		c.sit.UserID(other(c.remover)), c.notLost())
}

func (c *RemovedVsEdited) withCheckedIn(rev string) Conflict {
	cp := *c
	cp.checkedIn = rev
	return &cp
}

// BothReordered records that both users reordered the same children
// differently.
type BothReordered struct{ base }

func NewBothReordered(sit situation.MergeSituation, cd xnode.ContextDescriptor, ours, theirs, ancestor *etree.Element) *BothReordered {
	return &BothReordered{newBase(KindBothReordered, sit, cd, ours, theirs, ancestor)}
}

func (c *BothReordered) FullHumanReadableDescription() string {
	x, y := c.users()
	return fmt.Sprintf("%s and %s both changed the order of the items in %s in the file %s, in different ways.\n\n%s",
		x, y, c.label(), c.sit.PathToFileInRepository, c.notLost())
}

func (c *BothReordered) withCheckedIn(rev string) Conflict {
	cp := *c
	cp.checkedIn = rev
	return &cp
}

// UnmergableFileType records that a file could not be merged structurally
// and the winner's bytes were kept whole.
type UnmergableFileType struct {
	base
	reason string
}

func NewUnmergableFileType(sit situation.MergeSituation, reason string) *UnmergableFileType {
	return &UnmergableFileType{
		base:   newBase(KindUnmergableFileType, sit, xnode.ContextDescriptor{}, nil, nil, nil, reason),
		reason: reason,
	}
}

// Reason says why the file was not merged.
func (c *UnmergableFileType) Reason() string { return c.reason }

func (c *UnmergableFileType) FullHumanReadableDescription() string {
	x, y := c.users()
	s := fmt.Sprintf("%s and %s both changed the file %s, which cannot be merged automatically.",
		x, y, c.sit.PathToFileInRepository)
	if c.reason != "" {
		s += " (" + c.reason + ")"
	}
	return s + "\n\n" + c.notLost()
}

// ConflictingRecord returns the whole file src contributed.
func (c *UnmergableFileType) ConflictingRecord(ctx context.Context, r repo.Retriever, src situation.Source) (string, error) {
	f := repo.FileInRevision{FullPath: c.sit.PathToFileInRepository, Revision: c.sit.Revision(src)}
	data, err := f.Contents(ctx, r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *UnmergableFileType) withCheckedIn(rev string) Conflict {
	cp := *c
	cp.checkedIn = rev
	return &cp
}

// CheckedIn returns a copy of c recording the revision in which the merge
// result was committed. c itself is not changed.
func CheckedIn(c Conflict, rev string) Conflict {
	return c.withCheckedIn(rev)
}

func other(s situation.Source) situation.Source {
	if s == situation.UserX {
		return situation.UserY
	}
	return situation.UserX
}
