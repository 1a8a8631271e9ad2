/*
 * Copyright (c) 2025 ElectroPrime
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2028-08-31
 * Change License: AGPL-3.0
 */

// Package fallback serves bundled JSON snapshots and built-in defaults so
// that content reads always yield something renderable, even with no
// database at all.
package fallback

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/electroprime/storefront-core/internal/core/domain"
	"github.com/electroprime/storefront-core/internal/core/ports"
)

type Store struct {
	dirs []string
	log  *slog.Logger
}

var _ ports.FallbackStore = (*Store)(nil)

// NewStore builds the ordered candidate directory list: an explicit content
// dir first, then the working directory, then the install directory. First
// existing snapshot wins; files are never merged.
func NewStore(contentDir string, log *slog.Logger) *Store {
	var dirs []string
	if contentDir != "" {
		dirs = append(dirs, contentDir)
	}
	dirs = append(dirs, "data")
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Join(filepath.Dir(exe), "data"))
	}
	return &Store{dirs: dirs, log: log}
}

// Load returns the first parseable snapshot for kind, or the built-in
// default. Never nil.
func (s *Store) Load(kind domain.ContentKind) json.RawMessage {
	if raw, ok := s.read(kind); ok {
		return raw
	}
	return defaultContent(kind)
}

// LoadProducts returns the bundled catalogue snapshot or the built-in seed
// list. Never nil and never empty: an empty live collection means "not yet
// seeded", so the fallback must always have something to show.
func (s *Store) LoadProducts() []domain.Product {
	if raw, ok := s.read(domain.KindProducts); ok {
		var products []domain.Product
		if err := json.Unmarshal(raw, &products); err == nil && len(products) > 0 {
			return products
		}
		s.log.Warn("products snapshot unusable, using seed catalogue")
	}
	return seedProducts()
}

func (s *Store) read(kind domain.ContentKind) (json.RawMessage, bool) {
	name := string(kind) + ".json"
	for _, dir := range s.dirs {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		if !json.Valid(data) {
			s.log.Warn("corrupt content snapshot", "path", filepath.Join(dir, name))
			continue
		}
		return json.RawMessage(data), true
	}
	return nil, false
}

func defaultContent(kind domain.ContentKind) json.RawMessage {
	var v interface{}
	switch kind {
	case domain.KindHome:
		v = domain.HomeContent{
			Title:       "The Future is Now.",
			Subtitle:    "Premium Engineering",
			Description: "Experience the pinnacle of technology. Meticulously crafted electronics designed to elevate your everyday.",
			CTA:         "Explore Collection",
		}
	case domain.KindAbout:
		v = domain.AboutContent{
			Hero: domain.AboutHero{
				Title:       "Our Story",
				Subtitle:    "Who We Are",
				Description: "ElectroPrime was founded on a simple idea: technology should feel effortless.",
			},
			Values: []domain.AboutValue{
				{Title: "Quality First", Description: "Every product is tested beyond industry standards."},
				{Title: "Design Driven", Description: "Hardware that looks as good as it performs."},
				{Title: "Customer Obsessed", Description: "Support that answers, replaces and refunds without friction."},
			},
			Stats: []domain.AboutStat{
				{Value: "10k+", Label: "Happy Customers"},
				{Value: "150+", Label: "Products Shipped"},
				{Value: "24/7", Label: "Support"},
			},
		}
	case domain.KindFooter:
		v = domain.FooterContent{
			BrandName:   "ElectroPrime",
			Description: "Powering your ideas with the latest in technology.",
			Copyright:   "© 2025 All Rights Reserved.",
			Contact: domain.FooterContact{
				Email: "support@electroprime.example",
				Phone: "+1 (555) 010-2040",
			},
		}
	case domain.KindGlobal:
		v = domain.GlobalSettings{
			LogoText:      "ElectroPrime",
			LogoAlignment: domain.AlignLeft,
			ShowLogoImage: false,
		}
	default:
		v = map[string]interface{}{}
	}

	raw, err := json.Marshal(v)
	if err != nil {
		// Defaults are static structs; this cannot fail at runtime.
		return json.RawMessage(`{}`)
	}
	return raw
}

func seedProducts() []domain.Product {
	return []domain.Product{
		{
			ID:          "1700000000001",
			Title:       "Aurora Wireless Headphones",
			Description: "Over-ear, 40h battery, adaptive noise cancelling.",
			Price:       199.99,
			Image:       "",
		},
		{
			ID:          "1700000000002",
			Title:       "Pulse Mechanical Keyboard",
			Description: "Hot-swappable switches with per-key RGB.",
			Price:       129.00,
			Image:       "",
		},
		{
			ID:          "1700000000003",
			Title:       "Volt 65W GaN Charger",
			Description: "Three ports, palm-sized, laptop ready.",
			Price:       49.50,
			Image:       "",
		},
	}
}
