/*
 * Copyright (c) 2025 ElectroPrime
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2028-08-31
 * Change License: AGPL-3.0
 */

package domain

import (
	"errors"
	"math"
	"strconv"
	"time"
)

// ContentKind identifies one of the independently persisted content types.
// Products are a keyed collection; the other four are singletons of which at
// most one logical record may exist.
type ContentKind string

const (
	KindProducts ContentKind = "products"
	KindHome     ContentKind = "home"
	KindAbout    ContentKind = "about"
	KindFooter   ContentKind = "footer"
	KindGlobal   ContentKind = "global"
)

// SingletonKinds lists the upsert-only content kinds in a stable order.
var SingletonKinds = []ContentKind{KindHome, KindAbout, KindFooter, KindGlobal}

func (k ContentKind) IsSingleton() bool {
	return k == KindHome || k == KindAbout || k == KindFooter || k == KindGlobal
}

// Product is a storefront catalogue entry. ID is the externally visible
// business identifier (a unix-millisecond string assigned at creation) and is
// distinct from the storage engine's surrogate key. Lookups and deletes match
// on this field, never on storage identity.
type Product struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
}

// NewProductID derives a business id from the current clock, matching the
// identifiers already present in production data.
func NewProductID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

// ProductPatch is an explicit partial update. A nil field means "leave
// unchanged"; there is no way to clear a field to empty through the update
// endpoint.
type ProductPatch struct {
	Title       *string
	Description *string
	Price       *float64
	Image       *string
}

func (p ProductPatch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.Price == nil && p.Image == nil
}

// ParsePrice validates a client-supplied price string. Prices must parse to a
// finite, non-negative number.
func ParsePrice(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New("price must be a number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, errors.New("price must be a finite non-negative number")
	}
	return v, nil
}

// HomeContent is the hero block on the landing page.
type HomeContent struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	CTA         string `json:"cta"`
}

type AboutHero struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
}

type AboutValue struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type AboutStat struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type AboutContent struct {
	Hero   AboutHero    `json:"hero"`
	Values []AboutValue `json:"values"`
	Stats  []AboutStat  `json:"stats"`
}

type FooterContact struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type FooterContent struct {
	BrandName   string        `json:"brandName"`
	Description string        `json:"description"`
	Copyright   string        `json:"copyright"`
	Contact     FooterContact `json:"contact"`
}

// Logo alignment options accepted by GlobalSettings.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
)

// GlobalSettings is sitewide chrome configuration. LogoImage is preserved
// from the prior record unless a new image accompanies the write.
type GlobalSettings struct {
	LogoText      string `json:"logoText"`
	LogoAlignment string `json:"logoAlignment"`
	ShowLogoImage bool   `json:"showLogoImage"`
	LogoImage     string `json:"logoImage,omitempty"`
}

// UploadedFile is an image received on a multipart admin request.
type UploadedFile struct {
	Name string
	Data []byte
}

// ContentEvent is published on the event bus after every successful admin
// write so that sibling processes can drop cached copies.
type ContentEvent struct {
	Kind      ContentKind `json:"kind"`
	Action    string      `json:"action"`
	ProductID string      `json:"productId,omitempty"`
	At        time.Time   `json:"at"`
}

// Health is the diagnostics payload for GET /api/health.
type Health struct {
	Status            string `json:"status"`
	DBConnected       bool   `json:"dbConnected"`
	StorageConfigured bool   `json:"storageConfigured"`
	CacheConfigured   bool   `json:"cacheConfigured"`
	Environment       string `json:"env,omitempty"`
}
