package conflictlog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/beevik/etree"

	"github.com/signadot/xmerge/conflict"
	"github.com/signadot/xmerge/xnode"
)

// File is an append-only file of <conflict> elements, each followed by a
// newline. An entry spans several lines when its details do. The file holds
// no root element so appends never rewrite it.
type File struct {
	path   string
	mu     sync.Mutex
	closed bool
}

var _ Log = (*File)(nil)

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Path() string { return f.path }

func (f *File) Append(ctx context.Context, c conflict.Conflict) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	w, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open conflict log: %w", err)
	}
	if _, err := w.WriteString(conflict.String(c) + "\n"); err != nil {
		w.Close()
		return fmt.Errorf("write conflict log: %w", err)
	}
	return w.Close()
}

func (f *File) Entries(ctx context.Context) ([]conflict.Conflict, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	data, err := os.ReadFile(f.path)
	f.mu.Unlock()
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read conflict log: %w", err)
	}
	return ParseEntries(data)
}

func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// ParseEntries reads the rootless sequence of <conflict> elements a File
// holds.
func ParseEntries(data []byte) ([]conflict.Conflict, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var buf bytes.Buffer
	buf.WriteString("<conflicts>")
	buf.Write(data)
	buf.WriteString("</conflicts>")
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(buf.Bytes()); err != nil {
		return nil, xnode.Malformed("", "conflict log: %v", err)
	}
	var res []conflict.Conflict
	for _, el := range doc.Root().ChildElements() {
		c, err := conflict.ReadXML(el)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, nil
}
