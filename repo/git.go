package repo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Git reads and clones repositories with the git command line.
type Git struct {
	// Dir is the working tree of the repository.
	Dir    string
	logger *slog.Logger
}

// NewGit returns a Git for the repository at dir. A nil logger means
// slog.Default().
func NewGit(dir string, logger *slog.Logger) *Git {
	if logger == nil {
		logger = slog.Default()
	}
	return &Git{Dir: dir, logger: logger}
}

// GetContent returns path as of revision. An empty revision reads the
// working tree.
func (g *Git) GetContent(ctx context.Context, path, revision string) ([]byte, error) {
	if revision == "" {
		data, err := os.ReadFile(filepath.Join(g.Dir, filepath.FromSlash(path)))
		if err != nil {
			return nil, &AccessError{Op: "read", Path: path, Err: err}
		}
		return data, nil
	}
	out, err := g.run(ctx, "show", revision+":"+path)
	if err != nil {
		return nil, &AccessError{Op: "show", Path: path, Revision: revision, Err: err, Retryable: isLockErr(err)}
	}
	return out, nil
}

// CloneLocal clones source into destination, which must not exist yet.
func (g *Git) CloneLocal(ctx context.Context, source, destination string) error {
	if _, err := os.Stat(destination); err == nil {
		return fmt.Errorf("%w: %s", ErrDestinationExists, destination)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return &AccessError{Op: "clone", Path: destination, Err: err}
	}
	if _, err := g.run(ctx, "clone", "--quiet", "--local", source, destination); err != nil {
		return &AccessError{Op: "clone", Path: source, Err: err, Retryable: isLockErr(err)}
	}
	g.logger.Info("cloned repository", "source", source, "destination", destination)
	return nil
}

// Head returns the commit id of HEAD.
func (g *Git) Head(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", &AccessError{Op: "rev-parse", Path: "HEAD", Err: err}
	}
	return strings.TrimSpace(string(out)), nil
}

func (g *Git) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.Dir
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("git %s: %w: %s", args[0], err, msg)
		}
		return nil, fmt.Errorf("git %s: %w", args[0], err)
	}
	return out, nil
}

func isLockErr(err error) bool {
	return strings.Contains(err.Error(), ".lock")
}
