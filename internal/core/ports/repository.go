package ports

import (
	"context"
	"encoding/json"

	"github.com/electroprime/storefront-core/internal/core/domain"
)

type ContentRepository interface {
	// Connect establishes the shared connection. Idempotent; failure leaves
	// the gateway in a disconnected state rather than crashing the process.
	Connect(ctx context.Context) error

	// Connected is a cheap, non-blocking status query consulted by every
	// read path before attempting a live query.
	Connected() bool

	// ListProducts returns every catalogue entry.
	ListProducts(ctx context.Context) ([]domain.Product, error)

	// InsertProduct stores a new catalogue entry.
	InsertProduct(ctx context.Context, p domain.Product) error

	// UpdateProduct applies a partial patch to the product matching the
	// business id. Returns domain.ErrNotFound when no row matches.
	UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)

	// DeleteProduct removes the product matching the business id and
	// reports how many rows were removed (0 is not an error).
	DeleteProduct(ctx context.Context, id string) (int64, error)

	// DeleteAllProducts empties the catalogue.
	DeleteAllProducts(ctx context.Context) error

	// GetSingleton returns the one record for a singleton kind, or nil when
	// none has been written yet.
	GetSingleton(ctx context.Context, kind domain.ContentKind) (json.RawMessage, error)

	// UpsertSingleton replaces the one record for a singleton kind, creating
	// it if absent. Atomic: concurrent writers never produce two records.
	UpsertSingleton(ctx context.Context, kind domain.ContentKind, body json.RawMessage) (json.RawMessage, error)
}
