package ports

import (
	"context"
	"encoding/json"

	"github.com/electroprime/storefront-core/internal/core/domain"
)

// NewProduct is the admin input for a catalogue create. Image takes priority
// over ImageURL when both are supplied.
type NewProduct struct {
	Title       string
	Description string
	Price       string
	ImageURL    string
	Image       *domain.UploadedFile
}

// GlobalSettingsForm mirrors the multipart admin form for sitewide settings.
// Raw string values are normalized against the prior record by the service.
type GlobalSettingsForm struct {
	LogoText      string
	LogoAlignment string
	ShowLogoImage string
	Logo          *domain.UploadedFile
}

type ContentService interface {
	// Products returns live data when available and the bundled fallback
	// otherwise. Never errors.
	Products(ctx context.Context) []domain.Product

	CreateProduct(ctx context.Context, in NewProduct) (*domain.Product, error)

	// UpdateProduct applies the explicit partial patch to the product with
	// the given business id. An optional image upload replaces the stored
	// image URL.
	UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch, image *domain.UploadedFile) (*domain.Product, error)

	// DeleteProduct returns the number of records removed; 0 means the
	// product was already gone and is not an error.
	DeleteProduct(ctx context.Context, id string) (int64, error)

	ClearProducts(ctx context.Context) error

	// Content returns the singleton record for kind, degrading to the
	// bundled snapshot or built-in default. Never nil, never errors.
	Content(ctx context.Context, kind domain.ContentKind) json.RawMessage

	// SaveContent replaces the singleton record wholesale after schema
	// validation.
	SaveContent(ctx context.Context, kind domain.ContentKind, body json.RawMessage) (json.RawMessage, error)

	// SaveGlobalSettings merges the submitted form over the prior record,
	// preserving the stored logo image unless a new one is uploaded.
	SaveGlobalSettings(ctx context.Context, form GlobalSettingsForm) (*domain.GlobalSettings, error)

	Health(ctx context.Context) domain.Health
}
