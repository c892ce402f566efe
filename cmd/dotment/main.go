// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/dotment-go/internal/analytics"
	"github.com/olegiv/dotment-go/internal/cache"
	"github.com/olegiv/dotment-go/internal/config"
	"github.com/olegiv/dotment-go/internal/geoip"
	"github.com/olegiv/dotment-go/internal/handler/api"
	"github.com/olegiv/dotment-go/internal/imaging"
	"github.com/olegiv/dotment-go/internal/logging"
	"github.com/olegiv/dotment-go/internal/middleware"
	"github.com/olegiv/dotment-go/internal/service"
	"github.com/olegiv/dotment-go/internal/session"
	"github.com/olegiv/dotment-go/internal/store"
	"github.com/olegiv/dotment-go/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Dotment - Internal Communications Portal\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DOTMENT_SESSION_SECRET   Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DOTMENT_DB_PATH          SQLite database path (default: ./data/dotment.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DOTMENT_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DOTMENT_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DOTMENT_UPLOADS_DIR      Upload directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DOTMENT_REDIS_URL        Redis URL for distributed view caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DOTMENT_GEOIP_DB_PATH    GeoLite2-Country.mmdb path (optional)\n")
	}

	flag.Parse()

	if *showVersion {
		info := version.Get()
		_, _ = fmt.Printf("dotment %s (commit: %s, built: %s)\n", info.Version, info.GitCommit, info.BuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the audit log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewAuditLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("audit log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if err := store.Seed(ctx, db); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}
	if err := store.SeedDemo(ctx, db, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding demo content: %w", err)
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	viewCache := cache.New(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	})
	defer func() {
		if err := viewCache.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()

	geo := geoip.NewLookup()
	if err := geo.Init(cfg.GeoIPDBPath); err != nil {
		slog.Warn("geoip initialization failed, lookups disabled", "error", err)
	}
	defer func() { _ = geo.Close() }()

	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}
	processor := imaging.NewProcessor(cfg.UploadsDir)

	viewTTL := time.Duration(cfg.CacheTTL) * time.Second
	auditService := service.NewAuditService(db)
	editorService := service.NewEditorService(db, viewCache)
	deliveryService := service.NewDeliveryService(db, viewCache, geo, viewTTL)
	shareService := service.NewShareService(db)
	aggregator := analytics.New(db)

	rollup := analytics.NewRollup(aggregator)
	rollup.Start()
	defer rollup.Stop()

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	slog.Info("login protection initialized",
		"ip_rate_limit", "0.5 req/s",
		"max_failed_attempts", 5,
		"lockout_duration", "15m",
	)

	apiHandler := api.NewHandler(api.Deps{
		DB:              db,
		Sessions:        sessionManager,
		Editor:          editorService,
		Delivery:        deliveryService,
		Share:           shareService,
		Audit:           auditService,
		Reports:         aggregator,
		Processor:       processor,
		Cache:           viewCache,
		LoginProtection: loginProtection,
	})

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(time.Duration(cfg.RequestTimeout) * time.Second))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.RequestPath)

	// Health check routes (no session state)
	r.Get("/health", apiHandler.Health)
	r.Get("/health/live", apiHandler.Liveness)
	r.Get("/health/ready", apiHandler.Readiness)

	csrfConfig := middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())
	csrfMiddleware := middleware.CSRF(csrfConfig)
	slog.Info("CSRF protection initialized", "secure", !cfg.IsDevelopment())

	r.Route("/api/v1", func(r chi.Router) {
		apiRateLimiter := middleware.NewGlobalRateLimiter(100, 200)
		r.Use(apiRateLimiter.Middleware())
		r.Use(sessionManager.LoadAndSave)
		// The skip marker must be set before the CSRF check runs
		r.Use(middleware.SkipCSRF("/api/v1/view/"))
		r.Use(csrfMiddleware)

		r.Get("/status", apiHandler.Status)

		// Public delivery gate. Tokens are the gate here; browser sessions
		// only carry the poll dedup flag.
		r.Group(func(r chi.Router) {
			publicRateLimiter := middleware.NewGlobalRateLimiter(10, 20)
			r.Use(publicRateLimiter.Middleware())
			r.Get("/view/{slug}", apiHandler.ViewPackage)
			r.Post("/view/{slug}/polls/{id}", apiHandler.SubmitPollOption)
		})

		// Authentication
		r.With(loginProtection.Middleware()).Post("/auth/login", apiHandler.Login)
		r.Post("/auth/logout", apiHandler.Logout)

		// Admin portal (authenticated operators)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(sessionManager))
			r.Use(middleware.LoadUser(sessionManager, db))
			r.Use(middleware.RequireRoleWithAudit(middleware.RoleAdmin, auditService))

			r.Get("/auth/session", apiHandler.Session)
			r.Get("/users/me", apiHandler.Me)
			r.Post("/users/me/password", apiHandler.ChangePassword)

			// Packages and content blocks
			r.Get("/packages", apiHandler.ListPackages)
			r.Post("/packages", apiHandler.CreatePackage)
			r.Get("/packages/recent", apiHandler.RecentPackages)
			r.Get("/packages/{id}", apiHandler.GetPackage)
			r.Put("/packages/{id}", apiHandler.UpdatePackage)
			r.Delete("/packages/{id}", apiHandler.DeletePackage)
			r.Post("/packages/{id}/status", apiHandler.SetPackageStatus)
			r.Get("/packages/{id}/blocks", apiHandler.GetBlocks)
			r.Put("/packages/{id}/blocks", apiHandler.SaveBlocks)

			// Analytics
			r.Get("/packages/{id}/analytics", apiHandler.GetAnalytics)
			r.Get("/packages/{id}/analytics/ledger.csv", apiHandler.ExportLedger)

			// Share links
			r.Get("/packages/{id}/share", apiHandler.ListShareLinks)
			r.Post("/packages/{id}/share", apiHandler.MintShareLink)
			r.Delete("/share-links/{id}", apiHandler.RevokeShareLink)

			// Employee directory
			r.Get("/employees", apiHandler.ListEmployees)
			r.Post("/employees", apiHandler.CreateEmployee)
			r.Get("/employees/departments", apiHandler.ListDepartments)
			r.Get("/employees/{id}", apiHandler.GetEmployee)
			r.Put("/employees/{id}", apiHandler.UpdateEmployee)
			r.Delete("/employees/{id}", apiHandler.DeleteEmployee)

			// Media library
			r.Get("/media", apiHandler.ListMedia)
			r.Post("/media", apiHandler.UploadMedia)
			r.Delete("/media/{uuid}", apiHandler.DeleteMedia)

			// Operator management (super_admin only)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireSuperAdmin())
				r.Get("/users", apiHandler.ListUsers)
				r.Post("/users", apiHandler.CreateUser)
				r.Get("/users/{id}", apiHandler.GetUser)
				r.Put("/users/{id}", apiHandler.UpdateUser)
				r.Delete("/users/{id}", apiHandler.DeleteUser)
				r.Get("/audit", apiHandler.ListAuditEvents)
			})
		})
	})
	slog.Info("REST API v1 mounted at /api/v1")

	// Serve uploaded media files
	uploadsHandler := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir)))
	r.Handle("/uploads/*", uploadsHandler)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
