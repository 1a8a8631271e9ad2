/*
 * Copyright (c) 2025 ElectroPrime
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2028-08-31
 * Change License: AGPL-3.0
 */

package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/electroprime/storefront-core/internal/config"
	"github.com/electroprime/storefront-core/internal/core/domain"
	"github.com/electroprime/storefront-core/internal/core/ports"
	"github.com/electroprime/storefront-core/internal/transport/rest/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

type ContentHandler struct {
	service ports.ContentService
	cfg     *config.Config
	log     *slog.Logger
}

func NewContentHandler(s ports.ContentService, cfg *config.Config, log *slog.Logger) *ContentHandler {
	return &ContentHandler{service: s, cfg: cfg, log: log}
}

// RegisterRoutes wires up the endpoints to the router. Mutating routes sit
// behind the admin gate and a per-IP rate limit.
func (h *ContentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Post("/auth/token", h.ExchangeToken)

	r.Get("/products", h.ListProducts)
	r.Get("/products/{id}/qr", h.ProductQR)
	r.Get("/home", h.getContent(domain.KindHome))
	r.Get("/about", h.getContent(domain.KindAbout))
	r.Get("/footer", h.getContent(domain.KindFooter))
	r.Get("/global", h.getContent(domain.KindGlobal))

	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(60, time.Minute))
		r.Use(middleware.AdminAuth(h.cfg.AdminToken, h.log))

		r.Post("/products", h.CreateProduct)
		r.Put("/products/{id}", h.UpdateProduct)
		r.Delete("/products/{id}", h.DeleteProduct)
		r.Post("/products-clear-all", h.ClearProducts)

		r.Post("/home", h.saveContent(domain.KindHome))
		r.Post("/about", h.saveContent(domain.KindAbout))
		r.Post("/footer", h.saveContent(domain.KindFooter))
		r.Post("/global", h.SaveGlobalSettings)
	})
}

// Health handles GET /health. It never fails: diagnostics are reported even
// with every upstream down.
func (h *ContentHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Health(r.Context()))
}

// ExchangeToken handles POST /auth/token: the shared secret is traded for a
// short-lived bearer token so dashboards do not have to hold the secret for
// the whole session.
func (h *ContentHandler) ExchangeToken(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}
	if !middleware.TokenMatches(h.cfg.AdminToken, body.Token) {
		h.log.Warn("rejected token exchange")
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	now := time.Now()
	expiresAt := now.Add(h.cfg.SessionTTL)
	claims := jwt.MapClaims{
		"sub": "admin",
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.cfg.AdminToken))
	if err != nil {
		h.log.Error("failed to sign session token", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":     signed,
		"expiresAt": expiresAt.UTC().Format(time.RFC3339),
	})
}

// ListProducts handles GET /products. Always an array, never an error: the
// service degrades to the bundled catalogue on its own.
func (h *ContentHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products := h.service.Products(r.Context())
	if products == nil {
		products = []domain.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// CreateProduct handles POST /products (multipart form or JSON).
func (h *ContentHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	form, err := parseAdminForm(r, "image", "title", "description", "price", "imageUrl")
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), ports.NewProduct{
		Title:       form.get("title"),
		Description: form.get("description"),
		Price:       form.get("price"),
		ImageURL:    form.get("imageUrl"),
		Image:       form.file,
	})
	if err != nil {
		h.log.Error("failed to create product", "error", err)
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// UpdateProduct handles PUT /products/{id}. Empty form fields mean "leave
// unchanged"; there is no way to clear a field through this endpoint.
func (h *ContentHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	form, err := parseAdminForm(r, "image", "title", "description", "price", "imageUrl")
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	patch := domain.ProductPatch{
		Title:       form.stringPtr("title"),
		Description: form.stringPtr("description"),
		Image:       form.stringPtr("imageUrl"),
	}
	if form.nonEmpty("price") {
		price, err := domain.ParsePrice(form.get("price"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		patch.Price = &price
	}

	product, err := h.service.UpdateProduct(r.Context(), id, patch, form.file)
	if err != nil {
		h.log.Error("failed to update product", "id", id, "error", err)
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/{id}. Deleting an id that is
// already gone reports deletedCount 0 with success, not an error.
func (h *ContentHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	count, err := h.service.DeleteProduct(r.Context(), id)
	if err != nil {
		h.log.Error("failed to delete product", "id", id, "error", err)
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"deletedCount": count,
	})
}

// ClearProducts handles POST /products-clear-all.
func (h *ContentHandler) ClearProducts(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearProducts(r.Context()); err != nil {
		h.log.Error("failed to clear products", "error", err)
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *ContentHandler) getContent(kind domain.ContentKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := h.service.Content(r.Context(), kind)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(raw)
	}
}

func (h *ContentHandler) saveContent(kind domain.ContentKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := readJSONBody(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		stored, err := h.service.SaveContent(r.Context(), kind, body)
		if err != nil {
			h.log.Error("failed to save content", "kind", kind, "error", err)
			h.writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(stored)
	}
}

// SaveGlobalSettings handles POST /global (multipart with an optional logo
// upload).
func (h *ContentHandler) SaveGlobalSettings(w http.ResponseWriter, r *http.Request) {
	form, err := parseAdminForm(r, "logoImage", "logoText", "logoAlignment", "showLogoImage")
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	settings, err := h.service.SaveGlobalSettings(r.Context(), ports.GlobalSettingsForm{
		LogoText:      form.get("logoText"),
		LogoAlignment: form.get("logoAlignment"),
		ShowLogoImage: form.get("showLogoImage"),
		Logo:          form.file,
	})
	if err != nil {
		h.log.Error("failed to save global settings", "error", err)
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

// ProductQR handles GET /products/{id}/qr, rendering a QR code that points
// at the storefront product page.
func (h *ContentHandler) ProductQR(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	target := h.cfg.PublicBaseURL + "/product/" + id

	png, err := qrcode.Encode(target, qrcode.Medium, 256)
	if err != nil {
		h.log.Error("failed to render qr code", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render qr code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// --- Response helpers ---

func (h *ContentHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrImageTooLarge),
		errors.Is(err, domain.ErrUnsupportedImageType):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	default:
		// Write-path failures must stay visible to the admin actor.
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
