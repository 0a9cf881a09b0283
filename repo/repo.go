// Package repo defines the repository collaborator the merge engine relies on
// for historical content, and a git-backed implementation of it.
//
// The engine never writes to a repository. It only reads file content at a
// revision, and only when a caller asks to display a contributor's version of
// an already-resolved conflict or change.
package repo

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrRepositoryAccess  = errors.New("repository access failure")
	ErrDestinationExists = errors.New("clone destination exists")
)

// Retriever reads file content at a revision.
type Retriever interface {
	GetContent(ctx context.Context, path, revision string) ([]byte, error)
}

// Cloner makes a local clone of a repository.
type Cloner interface {
	CloneLocal(ctx context.Context, source, destination string) error
}

// AccessError reports a failed repository operation.
type AccessError struct {
	Op       string
	Path     string
	Revision string
	// Retryable is set when the failure may be transient, as with a locked
	// repository or an unreachable remote.
	Retryable bool
	Err       error
}

func (e *AccessError) Error() string {
	target := e.Path
	if e.Revision != "" {
		target = e.Revision + ":" + e.Path
	}
	return fmt.Sprintf("repository %s %s: %v", e.Op, target, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

func (e *AccessError) Is(target error) bool {
	return target == ErrRepositoryAccess
}

// IsRetryable reports whether err is a retryable *AccessError.
func IsRetryable(err error) bool {
	var ae *AccessError
	if errors.As(err, &ae) {
		return ae.Retryable
	}
	return false
}

// FileAction says what happened to a file in a revision.
type FileAction int

const (
	ActionUnknown FileAction = iota
	ActionAdded
	ActionModified
	ActionDeleted
)

func (a FileAction) String() string {
	switch a {
	case ActionAdded:
		return "added"
	case ActionModified:
		return "modified"
	case ActionDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// FileInRevision identifies a file's content at one revision. The content is
// fetched on each call to Contents and never cached.
type FileInRevision struct {
	FullPath string
	Revision string
	Action   FileAction
}

func (f FileInRevision) IsZero() bool {
	return f.FullPath == "" && f.Revision == ""
}

func (f FileInRevision) String() string {
	if f.Revision == "" {
		return f.FullPath
	}
	return f.FullPath + "@" + f.Revision
}

// Contents fetches the file content through r.
func (f FileInRevision) Contents(ctx context.Context, r Retriever) ([]byte, error) {
	if r == nil {
		return nil, &AccessError{Op: "read", Path: f.FullPath, Revision: f.Revision, Err: errors.New("no repository")}
	}
	return r.GetContent(ctx, f.FullPath, f.Revision)
}
