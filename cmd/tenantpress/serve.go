// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tenantpress/internal/cache"
	"tenantpress/internal/config"
	"tenantpress/internal/database"
	"tenantpress/internal/engine"
	"tenantpress/internal/handlers"
	"tenantpress/internal/middleware"
	"tenantpress/internal/render"
	"tenantpress/internal/resolver"
	"tenantpress/internal/router"
	"tenantpress/internal/storage"
	"tenantpress/internal/store"
)

// Domain-check API and admin sign-in share one per-IP budget.
const (
	apiRateLimit  = 60
	apiRateWindow = time.Minute
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server for every tenant and the admin app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			return runServe(cfg)
		},
	}
}

func runServe(cfg *config.Config) error {
	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"admin_domains", cfg.AdminDomains,
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		return err
	}

	// Seed the demo tenants (no-op if sites already exist).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return err
		}
	}

	// Connect to Valkey (shared page and domain-check cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
	if err != nil {
		return fmt.Errorf("connect to valkey: %w", err)
	}
	defer valkeyClient.Close()

	pageCache := cache.NewPageCache(valkeyClient, cfg.PageCacheTTL)
	domainCache := cache.NewDomainCache(valkeyClient, cfg.DomainCheckTTL)

	// Initialize data stores.
	siteStore := store.NewSiteStore(db)
	postStore := store.NewPostStore(db)
	cacheLogStore := store.NewCacheLogStore(db)

	// The domain-check API always answers from this instance's database.
	// Routing may instead ask a remote control plane; only then do the two
	// need separate caches, and a design save must purge both.
	localChecker := resolver.NewStoreChecker(siteStore, cfg.AdminDomains)
	var routeChecker resolver.Checker = localChecker
	if cfg.DomainCheckURL != "" {
		routeChecker = resolver.NewHTTPChecker(cfg.DomainCheckURL, resolver.DefaultLookupTimeout)
		slog.Info("domain checks delegated", "url", cfg.DomainCheckURL)
	}
	cachedRoute := resolver.NewCachedChecker(routeChecker, cfg.DomainCheckTTL, domainCache)
	cachedAPI := cachedRoute
	domainCaches := []handlers.DomainInvalidator{cachedRoute}
	if cfg.DomainCheckURL != "" {
		cachedAPI = resolver.NewCachedChecker(localChecker, cfg.DomainCheckTTL, nil)
		domainCaches = append(domainCaches, cachedAPI)
	}

	res := resolver.New(cachedRoute)
	res.SetScheme(cfg.PublicScheme)

	// Connect to S3-compatible object storage (optional, resolves bare
	// asset keys in post images).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3BucketPublic, cfg.S3PublicURL,
	)
	if err != nil {
		return fmt.Errorf("initialize s3 storage: %w", err)
	}
	if storageClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := storageClient.Check(ctx); err != nil {
			slog.Warn("s3 bucket not reachable", "error", err)
		}
		cancel()
		res.SetAssets(storageClient)
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", storageClient.Bucket())
	} else {
		slog.Warn("s3 storage not configured, asset keys stay relative")
	}

	eng, err := engine.New()
	if err != nil {
		return fmt.Errorf("initialize public renderers: %w", err)
	}
	renderer, err := render.New(cfg.IsDev())
	if err != nil {
		return fmt.Errorf("initialize admin templates: %w", err)
	}

	if cfg.AdminToken == "" {
		slog.Warn("ADMIN_TOKEN is empty, admin writes are unguarded")
	}

	publicHandlers := handlers.NewPublic(eng, postStore, pageCache)
	adminHandlers := handlers.NewAdmin(handlers.AdminDeps{
		Renderer:      renderer,
		Engine:        eng,
		Sites:         siteStore,
		Posts:         postStore,
		CacheLog:      cacheLogStore,
		Pages:         pageCache,
		Domains:       domainCaches,
		Token:         cfg.AdminToken,
		SecureCookies: !cfg.IsDev(),
	})

	limiter := middleware.NewRateLimiter(apiRateLimit, apiRateWindow)
	defer limiter.Stop()

	r := router.New(res, adminHandlers, publicHandlers, handlers.NewDomainCheck(cachedAPI), router.Options{
		AdminToken: cfg.AdminToken,
		APILimiter: limiter,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
