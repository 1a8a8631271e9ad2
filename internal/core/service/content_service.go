/*
 * Copyright (c) 2025 ElectroPrime
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2028-08-31
 * Change License: AGPL-3.0
 */

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "embed"

	"github.com/electroprime/storefront-core/internal/core/domain"
	"github.com/electroprime/storefront-core/internal/core/ports"
	"github.com/electroprime/storefront-core/internal/platform/bus"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Embed the content schemas directly into the Go binary
//
//go:embed schemas/content/home.json
var homeSchemaRaw string

//go:embed schemas/content/about.json
var aboutSchemaRaw string

//go:embed schemas/content/footer.json
var footerSchemaRaw string

//go:embed schemas/content/global.json
var globalSchemaRaw string

const (
	cacheKeyPrefix = "content:"
	cacheTTL       = 30 * time.Second
)

// contentService owns the "prefer live data, degrade gracefully" policy:
// reads try the database first and silently fall back to bundled snapshots
// and defaults; writes are validated, require the database and always
// surface failures.
type contentService struct {
	repo    ports.ContentRepository
	fb      ports.FallbackStore
	blobs   ports.BlobStore       // nil when object storage is not configured
	cache   ports.CacheRepository // nil when no cache is configured
	events  ports.EventBus        // nil when no bus is configured
	log     *slog.Logger
	env     string
	schemas map[domain.ContentKind]*jsonschema.Schema
}

// Ensure interface implementation
var _ ports.ContentService = (*contentService)(nil)

func NewContentService(
	repo ports.ContentRepository,
	fb ports.FallbackStore,
	blobs ports.BlobStore,
	cache ports.CacheRepository,
	events ports.EventBus,
	env string,
	log *slog.Logger,
) (ports.ContentService, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	sources := map[domain.ContentKind]string{
		domain.KindHome:   homeSchemaRaw,
		domain.KindAbout:  aboutSchemaRaw,
		domain.KindFooter: footerSchemaRaw,
		domain.KindGlobal: globalSchemaRaw,
	}

	schemas := make(map[domain.ContentKind]*jsonschema.Schema, len(sources))
	for kind, raw := range sources {
		name := string(kind) + ".json"
		if err := compiler.AddResource(name, strings.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("failed to add %s schema: %w", kind, err)
		}
		schema, err := compiler.Compile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s schema: %w", kind, err)
		}
		schemas[kind] = schema
	}

	return &contentService{
		repo:    repo,
		fb:      fb,
		blobs:   blobs,
		cache:   cache,
		events:  events,
		env:     env,
		log:     log,
		schemas: schemas,
	}, nil
}

// --- Reads ---

// Products prefers the live catalogue. An empty live collection is treated
// as "not yet seeded", not as the true answer, so the fallback wins there
// too. Never errors: a degraded store must not fail a storefront read.
func (s *contentService) Products(ctx context.Context) []domain.Product {
	if raw, ok := s.cacheGet(ctx, domain.KindProducts); ok {
		var cached []domain.Product
		if err := json.Unmarshal(raw, &cached); err == nil && len(cached) > 0 {
			return cached
		}
	}

	if !s.repo.Connected() {
		return s.fb.LoadProducts()
	}

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		s.log.Warn("live product query failed, serving fallback", "error", err)
		return s.fb.LoadProducts()
	}
	if len(products) == 0 {
		return s.fb.LoadProducts()
	}

	s.cachePut(ctx, domain.KindProducts, mustJSON(products))
	return products
}

// Content returns the singleton record for kind, or the bundled snapshot /
// built-in default when the database is disconnected, errors out or simply
// has nothing yet. Never nil.
func (s *contentService) Content(ctx context.Context, kind domain.ContentKind) json.RawMessage {
	if raw, ok := s.cacheGet(ctx, kind); ok {
		return raw
	}

	if s.repo.Connected() {
		raw, err := s.repo.GetSingleton(ctx, kind)
		if err != nil {
			s.log.Warn("live content query failed, serving fallback", "kind", kind, "error", err)
		} else if raw != nil {
			s.cachePut(ctx, kind, raw)
			return raw
		}
	}

	return s.fb.Load(kind)
}

// --- Writes ---

func (s *contentService) CreateProduct(ctx context.Context, in ports.NewProduct) (*domain.Product, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Price) == "" {
		return nil, fmt.Errorf("%w: price is required", domain.ErrInvalidInput)
	}
	price, err := domain.ParsePrice(in.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	image, err := s.resolveImage(ctx, in.Image, in.ImageURL)
	if err != nil {
		return nil, err
	}

	if !s.repo.Connected() {
		return nil, fmt.Errorf("%w: cannot create product", domain.ErrUpstreamUnavailable)
	}

	product := domain.Product{
		ID:          domain.NewProductID(time.Now()),
		Title:       in.Title,
		Description: in.Description,
		Price:       price,
		Image:       image,
	}
	if err := s.repo.InsertProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to persist product: %w", err)
	}

	s.cacheDrop(ctx, domain.KindProducts)
	s.publish(ctx, domain.KindProducts, "created", product.ID)
	return &product, nil
}

func (s *contentService) UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch, image *domain.UploadedFile) (*domain.Product, error) {
	if image != nil && s.blobs != nil {
		url, err := s.blobs.Store(ctx, image.Name, image.Data)
		if err != nil {
			return nil, err
		}
		patch.Image = &url
	}

	if patch.IsZero() {
		return nil, fmt.Errorf("%w: no fields to update", domain.ErrInvalidInput)
	}
	if !s.repo.Connected() {
		return nil, fmt.Errorf("%w: cannot update product", domain.ErrUpstreamUnavailable)
	}

	product, err := s.repo.UpdateProduct(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.cacheDrop(ctx, domain.KindProducts)
	s.publish(ctx, domain.KindProducts, "updated", id)
	return product, nil
}

// DeleteProduct removes by business id. A zero count means the product was
// already gone, which is a valid outcome, not an error.
func (s *contentService) DeleteProduct(ctx context.Context, id string) (int64, error) {
	if !s.repo.Connected() {
		return 0, fmt.Errorf("%w: cannot delete product", domain.ErrUpstreamUnavailable)
	}

	count, err := s.repo.DeleteProduct(ctx, id)
	if err != nil {
		return 0, err
	}

	s.cacheDrop(ctx, domain.KindProducts)
	s.publish(ctx, domain.KindProducts, "deleted", id)
	return count, nil
}

func (s *contentService) ClearProducts(ctx context.Context) error {
	if !s.repo.Connected() {
		return fmt.Errorf("%w: cannot clear products", domain.ErrUpstreamUnavailable)
	}
	if err := s.repo.DeleteAllProducts(ctx); err != nil {
		return fmt.Errorf("failed to clear products: %w", err)
	}

	s.cacheDrop(ctx, domain.KindProducts)
	s.publish(ctx, domain.KindProducts, "cleared", "")
	return nil
}

// SaveContent replaces the singleton record wholesale: clients submit the
// full object they intend to persist.
func (s *contentService) SaveContent(ctx context.Context, kind domain.ContentKind, body json.RawMessage) (json.RawMessage, error) {
	if !kind.IsSingleton() {
		return nil, fmt.Errorf("%w: %s is not a singleton content kind", domain.ErrInvalidInput, kind)
	}
	if err := s.validate(kind, body); err != nil {
		return nil, err
	}
	if !s.repo.Connected() {
		return nil, fmt.Errorf("%w: cannot save %s content", domain.ErrUpstreamUnavailable, kind)
	}

	stored, err := s.repo.UpsertSingleton(ctx, kind, body)
	if err != nil {
		return nil, err
	}

	s.cacheDrop(ctx, kind)
	s.publish(ctx, kind, "updated", "")
	return stored, nil
}

// SaveGlobalSettings merges the form over the prior record: empty text
// fields keep their stored values, and the logo image survives unless a new
// upload replaces it in the same request.
func (s *contentService) SaveGlobalSettings(ctx context.Context, form ports.GlobalSettingsForm) (*domain.GlobalSettings, error) {
	if form.LogoAlignment != "" && form.LogoAlignment != domain.AlignLeft && form.LogoAlignment != domain.AlignCenter {
		return nil, fmt.Errorf("%w: logoAlignment must be left or center", domain.ErrInvalidInput)
	}

	settings := s.currentGlobal(ctx)
	if form.LogoText != "" {
		settings.LogoText = form.LogoText
	}
	if form.LogoAlignment != "" {
		settings.LogoAlignment = form.LogoAlignment
	}
	if settings.LogoAlignment == "" {
		settings.LogoAlignment = domain.AlignLeft
	}
	settings.ShowLogoImage = form.ShowLogoImage == "true"

	if form.Logo != nil && s.blobs != nil {
		url, err := s.blobs.Store(ctx, form.Logo.Name, form.Logo.Data)
		if err != nil {
			return nil, err
		}
		settings.LogoImage = url
	}

	if !s.repo.Connected() {
		return nil, fmt.Errorf("%w: cannot save global settings", domain.ErrUpstreamUnavailable)
	}
	if _, err := s.repo.UpsertSingleton(ctx, domain.KindGlobal, mustJSON(settings)); err != nil {
		return nil, err
	}

	s.cacheDrop(ctx, domain.KindGlobal)
	s.publish(ctx, domain.KindGlobal, "updated", "")
	return &settings, nil
}

func (s *contentService) Health(ctx context.Context) domain.Health {
	return domain.Health{
		Status:            "UP",
		DBConnected:       s.repo.Connected(),
		StorageConfigured: s.blobs != nil,
		CacheConfigured:   s.cache != nil,
		Environment:       s.env,
	}
}

// --- Helpers ---

// resolveImage uploads the file when object storage is configured; otherwise
// the client-supplied URL string (possibly empty) is persisted as-is. Upload
// failures are surfaced, never swallowed.
func (s *contentService) resolveImage(ctx context.Context, file *domain.UploadedFile, urlFallback string) (string, error) {
	if file == nil || s.blobs == nil {
		return urlFallback, nil
	}
	return s.blobs.Store(ctx, file.Name, file.Data)
}

func (s *contentService) currentGlobal(ctx context.Context) domain.GlobalSettings {
	var raw json.RawMessage
	if s.repo.Connected() {
		stored, err := s.repo.GetSingleton(ctx, domain.KindGlobal)
		if err == nil && stored != nil {
			raw = stored
		}
	}
	if raw == nil {
		raw = s.fb.Load(domain.KindGlobal)
	}

	var settings domain.GlobalSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		s.log.Warn("unreadable global settings record, starting fresh", "error", err)
	}
	return settings
}

func (s *contentService) validate(kind domain.ContentKind, body json.RawMessage) error {
	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", domain.ErrInvalidInput, err)
	}
	if err := s.schemas[kind].Validate(payload); err != nil {
		return fmt.Errorf("%w: %s content rejected: %v", domain.ErrInvalidInput, kind, err)
	}
	return nil
}

func (s *contentService) cacheGet(ctx context.Context, kind domain.ContentKind) (json.RawMessage, bool) {
	if s.cache == nil {
		return nil, false
	}
	val, err := s.cache.Get(ctx, cacheKeyPrefix+string(kind))
	if err != nil || !json.Valid([]byte(val)) {
		return nil, false
	}
	return json.RawMessage(val), true
}

func (s *contentService) cachePut(ctx context.Context, kind domain.ContentKind, raw json.RawMessage) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKeyPrefix+string(kind), string(raw), cacheTTL); err != nil {
		s.log.Warn("content cache write failed", "kind", kind, "error", err)
	}
}

func (s *contentService) cacheDrop(ctx context.Context, kind domain.ContentKind) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKeyPrefix+string(kind)); err != nil {
		s.log.Warn("content cache invalidation failed", "kind", kind, "error", err)
	}
}

func (s *contentService) publish(ctx context.Context, kind domain.ContentKind, action, productID string) {
	if s.events == nil {
		return
	}
	event := domain.ContentEvent{Kind: kind, Action: action, ProductID: productID, At: time.Now().UTC()}
	if err := s.events.Publish(ctx, bus.ContentChannel, event); err != nil {
		s.log.Warn("content event publish failed", "kind", kind, "error", err)
	}
}

func mustJSON(v interface{}) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		// Only reached for unmarshalable values, which our domain types are not.
		return json.RawMessage(`{}`)
	}
	return raw
}
