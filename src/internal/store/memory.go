package store

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is a process-local Store. Documents are lost on restart.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]*memoryDoc
	seq         uint64
	now         func() time.Time
}

type memoryDoc struct {
	doc Document
	seq uint64
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]map[string]*memoryDoc),
		now:         time.Now,
	}
}

func (m *Memory) List(_ context.Context, collection string) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]*memoryDoc, 0, len(m.collections[collection]))
	for _, d := range m.collections[collection] {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].seq < docs[j].seq })

	out := make([]Document, len(docs))
	for i, d := range docs {
		out[i] = copyDocument(d.doc)
	}
	return out, nil
}

func (m *Memory) Get(_ context.Context, collection, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.collections[collection][id]
	if !ok {
		return Document{}, notFound(collection, id)
	}
	return copyDocument(d.doc), nil
}

func (m *Memory) Create(_ context.Context, collection string, data map[string]any) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	doc := Document{
		ID:        uuid.NewString(),
		Data:      merge(nil, data),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]*memoryDoc)
	}
	m.seq++
	m.collections[collection][doc.ID] = &memoryDoc{doc: doc, seq: m.seq}

	return copyDocument(doc), nil
}

func (m *Memory) Update(_ context.Context, collection, id string, data map[string]any) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.collections[collection][id]
	if !ok {
		return Document{}, notFound(collection, id)
	}
	d.doc.Data = merge(d.doc.Data, data)
	d.doc.UpdatedAt = m.now().UTC()

	return copyDocument(d.doc), nil
}

func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.collections[collection][id]; !ok {
		return notFound(collection, id)
	}
	delete(m.collections[collection], id)
	return nil
}

func (m *Memory) DeleteAll(_ context.Context, collection string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.collections[collection])
	delete(m.collections, collection)
	return n, nil
}

func (m *Memory) Ping(context.Context) error {
	return nil
}

func (m *Memory) Close() {}

func copyDocument(d Document) Document {
	d.Data = maps.Clone(d.Data)
	return d
}
