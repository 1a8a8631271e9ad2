/*
 * Copyright (c) 2025 ElectroPrime
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2028-08-31
 * Change License: AGPL-3.0
 */

package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/electroprime/storefront-core/internal/config"
	"github.com/electroprime/storefront-core/internal/core/ports"
	"github.com/electroprime/storefront-core/internal/core/service"
	"github.com/electroprime/storefront-core/internal/platform/bus"
	"github.com/electroprime/storefront-core/internal/platform/cache"
	"github.com/electroprime/storefront-core/internal/platform/storage/fallback"
	"github.com/electroprime/storefront-core/internal/platform/storage/postgres"
	"github.com/electroprime/storefront-core/internal/platform/storage/s3"
	"github.com/electroprime/storefront-core/internal/transport/rest"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	// 1. Configuration
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 2. Infrastructure. Every upstream is optional: a missing database or
	// object store degrades the service, never prevents it from starting.
	ctx := context.Background()

	repo := postgres.NewContentRepository(cfg.DatabaseURL, logger)
	if cfg.IsDatabaseConfigured() {
		if err := repo.Connect(ctx); err != nil {
			logger.Warn("database unavailable, serving fallback content", "error", err)
		}
	} else {
		logger.Warn("no DATABASE_URL set, running in fallback-only mode")
	}
	defer repo.Close()

	var blobs ports.BlobStore
	if cfg.IsObjectStorageConfigured() {
		store, err := s3.NewBlobStore(ctx, s3.Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			logger.Warn("object storage unavailable, image uploads disabled", "error", err)
		} else {
			blobs = store
		}
	}

	var contentCache ports.CacheRepository
	var events ports.EventBus
	if cfg.IsCacheConfigured() {
		contentCache = cache.NewRedisStore(cfg.RedisAddr)
		events = bus.NewRedisEventBus(cfg.RedisAddr)
	}

	fb := fallback.NewStore(cfg.ContentDir, logger)

	// 3. Dependency Injection (Wiring)
	// Repo -> Service -> Handler
	svc, err := service.NewContentService(repo, fb, blobs, contentCache, events, cfg.Environment, logger)
	if err != nil {
		log.Fatalf("Failed to initialize service: %v", err)
	}

	handler := rest.NewContentHandler(svc, cfg, logger)

	// 4. Router Setup
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Admin-Token"},
	}))

	r.Route("/api", func(r chi.Router) {
		handler.RegisterRoutes(r)
	})

	// 5. Start Server
	addr := ":" + cfg.Port
	logger.Info("storefront API starting", "addr", addr, "env", cfg.Environment,
		"db", cfg.IsDatabaseConfigured(), "storage", cfg.IsObjectStorageConfigured())
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
