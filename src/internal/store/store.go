// Package store keeps the documents served by restd resources. Documents are
// schemaless JSON objects grouped into named collections; each resource maps
// to one collection.
package store

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/maksimkurb/restd/src/internal/config"
	"github.com/maksimkurb/restd/src/internal/errors"
)

// Document is a stored JSON object.
type Document struct {
	ID        string         `json:"id"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Store is implemented by every storage backend. Missing documents are
// reported with an errors.ErrCodeNotFound error.
type Store interface {
	List(ctx context.Context, collection string) ([]Document, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	Create(ctx context.Context, collection string, data map[string]any) (Document, error)
	// Update merges data into the document. A nil value removes the key.
	Update(ctx context.Context, collection, id string, data map[string]any) (Document, error)
	Delete(ctx context.Context, collection, id string) error
	// DeleteAll empties the collection and returns the number of removed documents.
	DeleteAll(ctx context.Context, collection string) (int, error)
	Ping(ctx context.Context) error
	Close()
}

// New opens the backend selected by cfg.
func New(ctx context.Context, cfg *config.StoreConfig) (Store, error) {
	if cfg == nil {
		return NewMemory(), nil
	}

	switch cfg.Driver {
	case config.DriverMemory, "":
		return NewMemory(), nil
	case config.DriverPostgres:
		pg, err := NewPostgres(ctx, cfg.DSN, cfg.MaxConns)
		if err != nil {
			return nil, err
		}
		return pg, nil
	default:
		return nil, errors.NewConfigError(fmt.Sprintf("unknown store driver: %s", cfg.Driver), nil)
	}
}

// merge applies a partial update to data and returns the result.
func merge(data, patch map[string]any) map[string]any {
	out := maps.Clone(data)
	if out == nil {
		out = make(map[string]any, len(patch))
	}
	for k, v := range patch {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

func notFound(collection, id string) error {
	return errors.NewNotFoundError(fmt.Sprintf("%s %s not found", collection, id))
}
