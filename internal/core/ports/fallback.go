package ports

import (
	"encoding/json"

	"github.com/electroprime/storefront-core/internal/core/domain"
)

// FallbackStore is the last-resort content source used when the database is
// unreachable or empty. It only reads; admin writes never touch it.
type FallbackStore interface {
	// Load returns the bundled snapshot for a singleton kind, or the
	// built-in default when no snapshot exists or parsing fails. Never nil.
	Load(kind domain.ContentKind) json.RawMessage

	// LoadProducts returns the bundled product list, or the built-in seed
	// catalogue. Never nil.
	LoadProducts() []domain.Product
}
