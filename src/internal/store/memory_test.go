package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/maksimkurb/restd/src/internal/config"
	"github.com/maksimkurb/restd/src/internal/errors"
)

func TestMemory_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	input := map[string]any{"title": "first"}
	doc, err := m.Create(ctx, "notes", input)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uuid.Parse(doc.ID); err != nil {
		t.Errorf("Expected uuid id, got %q", doc.ID)
	}
	if doc.CreatedAt.IsZero() || !doc.CreatedAt.Equal(doc.UpdatedAt) {
		t.Errorf("Expected timestamps to be set, got %v / %v", doc.CreatedAt, doc.UpdatedAt)
	}

	input["title"] = "mutated"
	got, err := m.Get(ctx, "notes", doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Data["title"] != "first" {
		t.Errorf("Expected stored copy, got %v", got.Data)
	}

	got.Data["title"] = "mutated"
	again, _ := m.Get(ctx, "notes", doc.ID)
	if again.Data["title"] != "first" {
		t.Error("Expected Get to return a copy")
	}
}

func TestMemory_NotFound(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	doc, _ := m.Create(ctx, "notes", nil)

	tests := []struct {
		name string
		call func() error
	}{
		{name: "get", call: func() error { _, err := m.Get(ctx, "notes", "missing"); return err }},
		{name: "get from other collection", call: func() error { _, err := m.Get(ctx, "tasks", doc.ID); return err }},
		{name: "update", call: func() error { _, err := m.Update(ctx, "notes", "missing", nil); return err }},
		{name: "delete", call: func() error { return m.Delete(ctx, "notes", "missing") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.HasCode(err, errors.ErrCodeNotFound) {
				t.Errorf("Expected NOT_FOUND, got %v", err)
			}
		})
	}
}

func TestMemory_UpdateMerges(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	doc, _ := m.Create(ctx, "notes", map[string]any{"title": "a", "body": "b", "tag": "x"})
	clock = clock.Add(time.Minute)

	updated, err := m.Update(ctx, "notes", doc.ID, map[string]any{"title": "A", "tag": nil, "pinned": true})
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]any{"title": "A", "body": "b", "pinned": true}
	if len(updated.Data) != len(want) {
		t.Fatalf("Data = %v, want %v", updated.Data, want)
	}
	for k, v := range want {
		if updated.Data[k] != v {
			t.Errorf("Data[%q] = %v, want %v", k, updated.Data[k], v)
		}
	}
	if !updated.UpdatedAt.Equal(clock) || updated.CreatedAt.Equal(clock) {
		t.Errorf("Expected only updated_at to move, got %v / %v", updated.CreatedAt, updated.UpdatedAt)
	}
}

func TestMemory_ListOrderAndDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var ids []string
	for _, title := range []string{"a", "b", "c"} {
		doc, _ := m.Create(ctx, "notes", map[string]any{"title": title})
		ids = append(ids, doc.ID)
	}
	m.Create(ctx, "tasks", map[string]any{"title": "other"})

	if err := m.Delete(ctx, "notes", ids[1]); err != nil {
		t.Fatal(err)
	}

	docs, _ := m.List(ctx, "notes")
	if len(docs) != 2 || docs[0].ID != ids[0] || docs[1].ID != ids[2] {
		t.Errorf("Expected insertion order without deleted doc, got %v", docs)
	}

	n, _ := m.DeleteAll(ctx, "notes")
	if n != 2 {
		t.Errorf("DeleteAll() = %d, want 2", n)
	}
	if docs, _ := m.List(ctx, "notes"); len(docs) != 0 {
		t.Errorf("Expected empty collection, got %v", docs)
	}
	if docs, _ := m.List(ctx, "tasks"); len(docs) != 1 {
		t.Error("DeleteAll should not touch other collections")
	}
}

func TestMemory_ListEmptyCollectionIsNotNil(t *testing.T) {
	docs, err := NewMemory().List(context.Background(), "nothing")
	if err != nil || docs == nil || len(docs) != 0 {
		t.Errorf("List() = %v, %v", docs, err)
	}
}

func TestMemory_Concurrent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := m.Create(ctx, "notes", map[string]any{"n": 1})
			if err != nil {
				t.Error(err)
				return
			}
			m.Update(ctx, "notes", doc.ID, map[string]any{"n": 2})
			m.List(ctx, "notes")
		}()
	}
	wg.Wait()

	docs, _ := m.List(ctx, "notes")
	if len(docs) != 50 {
		t.Errorf("Expected 50 documents, got %d", len(docs))
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.StoreConfig
		wantErr bool
	}{
		{name: "nil config", cfg: nil},
		{name: "memory", cfg: &config.StoreConfig{Driver: config.DriverMemory}},
		{name: "unknown driver", cfg: &config.StoreConfig{Driver: "sqlite"}, wantErr: true},
		{name: "invalid postgres dsn", cfg: &config.StoreConfig{Driver: config.DriverPostgres, DSN: "postgres://%zz"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(context.Background(), tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				defer s.Close()
				if err := s.Ping(context.Background()); err != nil {
					t.Errorf("Ping() error = %v", err)
				}
			}
		})
	}
}
