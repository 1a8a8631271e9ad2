/*
 * Copyright (c) 2025 ElectroPrime
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2028-08-31
 * Change License: AGPL-3.0
 */

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/electroprime/storefront-core/internal/core/domain"
	"github.com/electroprime/storefront-core/internal/core/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	connectTimeout = 3 * time.Second
	queryTimeout   = 2 * time.Second
)

// ContentRepository is the single shared gateway to the document store. It
// fails soft: connection and query errors leave it disconnected and callers
// treat that as a normal state, not an exceptional one.
type ContentRepository struct {
	url       string
	log       *slog.Logger
	mu        sync.Mutex
	pool      *pgxpool.Pool
	connected atomic.Bool
}

// Ensure we implement the interface
var _ ports.ContentRepository = (*ContentRepository)(nil)

func NewContentRepository(url string, log *slog.Logger) *ContentRepository {
	return &ContentRepository{url: url, log: log}
}

// Connect establishes the pool, pings the server and creates the schema.
// Idempotent: a no-op once connected. Errors are returned for logging but
// never fatal; the gateway simply stays disconnected.
func (r *ContentRepository) Connect(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.connected.Load() {
		return nil
	}
	if r.url == "" {
		return fmt.Errorf("no database configured")
	}

	poolCfg, err := pgxpool.ParseConfig(r.url)
	if err != nil {
		return fmt.Errorf("parse database url: %w", err)
	}
	poolCfg.ConnConfig.ConnectTimeout = connectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	if err := ensureSchema(pingCtx, pool); err != nil {
		pool.Close()
		return fmt.Errorf("ensure schema: %w", err)
	}

	r.pool = pool
	r.connected.Store(true)
	r.log.Info("database connected")
	return nil
}

func (r *ContentRepository) Connected() bool {
	return r.connected.Load()
}

func (r *ContentRepository) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pool != nil {
		r.pool.Close()
		r.pool = nil
	}
	r.connected.Store(false)
}

func ensureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	ddl := `
		CREATE TABLE IF NOT EXISTS products (
			pk          BIGSERIAL PRIMARY KEY,
			id          TEXT NOT NULL UNIQUE,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price       DOUBLE PRECISION NOT NULL,
			image       TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS page_content (
			kind       TEXT PRIMARY KEY,
			body       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`
	_, err := pool.Exec(ctx, ddl)
	return err
}

// queryCtx bounds every live query so a degraded store cannot stall a
// request past a small constant.
func queryCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

func (r *ContentRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	ctx, cancel := queryCtx(ctx)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
		SELECT id, title, description, price, image
		FROM products
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Image); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *ContentRepository) InsertProduct(ctx context.Context, p domain.Product) error {
	ctx, cancel := queryCtx(ctx)
	defer cancel()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO products (id, title, description, price, image)
		VALUES ($1, $2, $3, $4, $5)
	`, p.ID, p.Title, p.Description, p.Price, p.Image)
	return err
}

// UpdateProduct applies only the supplied fields; nil patch fields leave the
// stored value untouched. Matches on the business id column, never on pk.
func (r *ContentRepository) UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	ctx, cancel := queryCtx(ctx)
	defer cancel()

	var p domain.Product
	err := r.pool.QueryRow(ctx, `
		UPDATE products SET
			title       = COALESCE($2, title),
			description = COALESCE($3, description),
			price       = COALESCE($4, price),
			image       = COALESCE($5, image),
			updated_at  = now()
		WHERE id = $1
		RETURNING id, title, description, price, image
	`, id, patch.Title, patch.Description, patch.Price, patch.Image).Scan(
		&p.ID, &p.Title, &p.Description, &p.Price, &p.Image,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return &p, nil
}

func (r *ContentRepository) DeleteProduct(ctx context.Context, id string) (int64, error) {
	ctx, cancel := queryCtx(ctx)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete product: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *ContentRepository) DeleteAllProducts(ctx context.Context) error {
	ctx, cancel := queryCtx(ctx)
	defer cancel()

	_, err := r.pool.Exec(ctx, `DELETE FROM products`)
	return err
}

func (r *ContentRepository) GetSingleton(ctx context.Context, kind domain.ContentKind) (json.RawMessage, error) {
	ctx, cancel := queryCtx(ctx)
	defer cancel()

	var body json.RawMessage
	err := r.pool.QueryRow(ctx, `SELECT body FROM page_content WHERE kind = $1`, string(kind)).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return body, nil
}

// UpsertSingleton is a single atomic statement keyed on kind, so two
// concurrent writers can never produce a second record; last write wins.
func (r *ContentRepository) UpsertSingleton(ctx context.Context, kind domain.ContentKind, body json.RawMessage) (json.RawMessage, error) {
	ctx, cancel := queryCtx(ctx)
	defer cancel()

	var stored json.RawMessage
	err := r.pool.QueryRow(ctx, `
		INSERT INTO page_content (kind, body, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (kind) DO UPDATE SET
			body       = EXCLUDED.body,
			updated_at = now()
		RETURNING body
	`, string(kind), body).Scan(&stored)
	if err != nil {
		return nil, fmt.Errorf("upsert %s content: %w", kind, err)
	}
	return stored, nil
}
