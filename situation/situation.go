// Package situation describes who and what a merge pass is about: the three
// contributing revisions, the file being merged and the tie-break policy used
// when both sides changed the same thing.
package situation

import (
	"errors"
	"fmt"
	"strings"
)

var ErrBadPolicy = errors.New("bad tie-break policy")

// Policy selects the winner of a conflict.
type Policy int

const (
	// AWins gives conflicts to side A (ours, user X).
	AWins Policy = iota
	// BWins gives conflicts to side B (theirs, user Y).
	BWins
)

func (p Policy) String() string {
	switch p {
	case AWins:
		return "AWins"
	case BWins:
		return "BWins"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy accepts the String form as well as the short forms a, b, ours,
// theirs, wewin and theywin.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "awins", "a", "ours", "wewin":
		return AWins, nil
	case "bwins", "b", "theirs", "theywin":
		return BWins, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadPolicy, s)
}

// Source names one of the three contributors of a merge.
type Source int

const (
	Ancestor Source = iota
	UserX
	UserY
)

func (s Source) String() string {
	switch s {
	case Ancestor:
		return "ancestor"
	case UserX:
		return "ours"
	case UserY:
		return "theirs"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// ParseSource parses the String form, also accepting a/x and b/y.
func ParseSource(s string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ancestor", "base", "o":
		return Ancestor, nil
	case "ours", "a", "x", "userx":
		return UserX, nil
	case "theirs", "b", "y", "usery":
		return UserY, nil
	}
	return 0, fmt.Errorf("unknown merge source %q", s)
}

// MergeSituation identifies the contributors of one merge pass. It is a value
// type: copies handed to conflicts cannot alter the caller's situation.
type MergeSituation struct {
	// PathToFileInRepository is the repository-relative path of the file.
	PathToFileInRepository string

	UserXID       string
	UserXRevision string
	UserYID       string
	UserYRevision string

	AncestorRevision string

	Policy Policy
}

// New returns a situation for path where userX edited revision xRev and
// userY edited yRev.
func New(path, userX, xRev, userY, yRev, ancestorRev string, policy Policy) MergeSituation {
	return MergeSituation{
		PathToFileInRepository: path,
		UserXID:                userX,
		UserXRevision:          xRev,
		UserYID:                userY,
		UserYRevision:          yRev,
		AncestorRevision:       ancestorRev,
		Policy:                 policy,
	}
}

// Null is the situation used when no repository context exists, as in
// diff-only runs and tests.
func Null() MergeSituation {
	return New("unknown", "x", "", "y", "", "", AWins)
}

// Winner returns the source that wins conflicts under s.Policy.
func (s MergeSituation) Winner() Source {
	if s.Policy == BWins {
		return UserY
	}
	return UserX
}

// Loser returns the source that loses conflicts under s.Policy.
func (s MergeSituation) Loser() Source {
	if s.Winner() == UserX {
		return UserY
	}
	return UserX
}

// UserID returns the user id of src, or "ancestor".
func (s MergeSituation) UserID(src Source) string {
	switch src {
	case UserX:
		return s.UserXID
	case UserY:
		return s.UserYID
	default:
		return "ancestor"
	}
}

// Revision returns the revision of src.
func (s MergeSituation) Revision(src Source) string {
	switch src {
	case UserX:
		return s.UserXRevision
	case UserY:
		return s.UserYRevision
	default:
		return s.AncestorRevision
	}
}

// WinnerID is the user id of the winner.
func (s MergeSituation) WinnerID() string {
	return s.UserID(s.Winner())
}

// LoserID is the user id of the loser.
func (s MergeSituation) LoserID() string {
	return s.UserID(s.Loser())
}
