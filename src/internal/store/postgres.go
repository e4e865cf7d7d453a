package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maksimkurb/restd/src/internal/errors"
	"github.com/maksimkurb/restd/src/internal/log"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS restd_documents (
	collection TEXT        NOT NULL,
	id         TEXT        NOT NULL,
	data       JSONB       NOT NULL DEFAULT '{}'::jsonb,
	seq        BIGSERIAL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (collection, id)
)`

// Postgres stores documents in a single JSONB table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to dsn and creates the documents table when missing.
func NewPostgres(ctx context.Context, dsn string, maxConns int32) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.NewConfigError("invalid postgres dsn", err)
	}
	if maxConns > 0 {
		poolCfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.NewStoreError("failed to create postgres pool", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, errors.NewStoreError("failed to create documents table", err)
	}

	log.Infof("Connected to PostgreSQL %s/%s", poolCfg.ConnConfig.Host, poolCfg.ConnConfig.Database)
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) List(ctx context.Context, collection string) ([]Document, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, data, created_at, updated_at FROM restd_documents WHERE collection = $1 ORDER BY seq`,
		collection)
	if err != nil {
		return nil, errors.NewStoreError("failed to list documents", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreError("failed to list documents", err)
	}
	return docs, nil
}

func (p *Postgres) Get(ctx context.Context, collection, id string) (Document, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, data, created_at, updated_at FROM restd_documents WHERE collection = $1 AND id = $2`,
		collection, id)
	return p.one(row, collection, id)
}

func (p *Postgres) Create(ctx context.Context, collection string, data map[string]any) (Document, error) {
	raw, err := json.Marshal(merge(nil, data))
	if err != nil {
		return Document{}, errors.NewValidationError("document is not representable as JSON", err)
	}

	id := uuid.NewString()
	row := p.pool.QueryRow(ctx,
		`INSERT INTO restd_documents (collection, id, data) VALUES ($1, $2, $3)
		 RETURNING id, data, created_at, updated_at`,
		collection, id, raw)
	return p.one(row, collection, id)
}

func (p *Postgres) Update(ctx context.Context, collection, id string, data map[string]any) (Document, error) {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Document{}, errors.NewStoreError("failed to begin transaction", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !stderrors.Is(err, pgx.ErrTxClosed) {
			log.Warnf("Failed to roll back update of %s %s: %v", collection, id, err)
		}
	}()

	current, err := p.one(tx.QueryRow(ctx,
		`SELECT id, data, created_at, updated_at FROM restd_documents WHERE collection = $1 AND id = $2 FOR UPDATE`,
		collection, id), collection, id)
	if err != nil {
		return Document{}, err
	}

	raw, err := json.Marshal(merge(current.Data, data))
	if err != nil {
		return Document{}, errors.NewValidationError("document is not representable as JSON", err)
	}

	updated, err := p.one(tx.QueryRow(ctx,
		`UPDATE restd_documents SET data = $3, updated_at = $4 WHERE collection = $1 AND id = $2
		 RETURNING id, data, created_at, updated_at`,
		collection, id, raw, time.Now().UTC()), collection, id)
	if err != nil {
		return Document{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Document{}, errors.NewStoreError("failed to commit update", err)
	}
	return updated, nil
}

func (p *Postgres) Delete(ctx context.Context, collection, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM restd_documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return errors.NewStoreError("failed to delete document", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(collection, id)
	}
	return nil
}

func (p *Postgres) DeleteAll(ctx context.Context, collection string) (int, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM restd_documents WHERE collection = $1`, collection)
	if err != nil {
		return 0, errors.NewStoreError("failed to delete documents", err)
	}
	return int(tag.RowsAffected()), nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return errors.NewStoreError("postgres is unreachable", err)
	}
	return nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}

func (p *Postgres) one(row pgx.Row, collection, id string) (Document, error) {
	doc, err := scanDocument(row)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return Document{}, notFound(collection, id)
	}
	return doc, err
}

func scanDocument(row pgx.Row) (Document, error) {
	var (
		doc Document
		raw []byte
	)
	if err := row.Scan(&doc.ID, &raw, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return Document{}, err
		}
		return Document{}, errors.NewStoreError("failed to read document", err)
	}
	if err := json.Unmarshal(raw, &doc.Data); err != nil {
		return Document{}, errors.NewStoreError("stored document is not valid JSON", err)
	}
	return doc, nil
}
