package repo

import (
	"context"
	"fmt"
	"sync"
)

// MemRetriever is an in-memory Retriever.
type MemRetriever struct {
	mu      sync.RWMutex
	content map[memKey][]byte
}

type memKey struct {
	path, revision string
}

func NewMemRetriever() *MemRetriever {
	return &MemRetriever{content: map[memKey][]byte{}}
}

// Put stores content for path at revision.
func (m *MemRetriever) Put(path, revision string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content[memKey{path, revision}] = append([]byte(nil), content...)
}

func (m *MemRetriever) GetContent(ctx context.Context, path, revision string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.content[memKey{path, revision}]
	if !ok {
		return nil, &AccessError{Op: "read", Path: path, Revision: revision, Err: fmt.Errorf("not found")}
	}
	return append([]byte(nil), c...), nil
}
