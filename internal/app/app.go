// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/bloodhope/bloodhope-api/internal/blogs"
	blogspostgres "github.com/bloodhope/bloodhope-api/internal/blogs/postgres"
	"github.com/bloodhope/bloodhope-api/internal/config"
	"github.com/bloodhope/bloodhope-api/internal/domain"
	"github.com/bloodhope/bloodhope-api/internal/donations"
	donationspostgres "github.com/bloodhope/bloodhope-api/internal/donations/postgres"
	"github.com/bloodhope/bloodhope-api/internal/funding"
	fundingpostgres "github.com/bloodhope/bloodhope-api/internal/funding/postgres"
	"github.com/bloodhope/bloodhope-api/internal/geo"
	geopostgres "github.com/bloodhope/bloodhope-api/internal/geo/postgres"
	"github.com/bloodhope/bloodhope-api/internal/identity"
	identitypostgres "github.com/bloodhope/bloodhope-api/internal/identity/postgres"
	"github.com/bloodhope/bloodhope-api/internal/payments/stripe"
	"github.com/bloodhope/bloodhope-api/internal/pkg/ctxlog"
	"github.com/bloodhope/bloodhope-api/internal/pkg/httputil"
	"github.com/bloodhope/bloodhope-api/internal/pkg/metrics"
	"github.com/bloodhope/bloodhope-api/internal/pkg/postgres"
	"github.com/bloodhope/bloodhope-api/internal/reviews"
	reviewspostgres "github.com/bloodhope/bloodhope-api/internal/reviews/postgres"
	"github.com/bloodhope/bloodhope-api/internal/stats"
	statspostgres "github.com/bloodhope/bloodhope-api/internal/stats/postgres"
	"github.com/bloodhope/bloodhope-api/internal/version"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App represents the application instance.
type App struct {
	config        *config.Config
	logger        *slog.Logger
	db            *pgxpool.Pool
	server        *http.Server
	metricsServer *http.Server
	metricsCancel context.CancelFunc
	rateLimiter   *httputil.RateLimiter
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	logger := initLogger(cfg.Log)

	connectCtx, connectCancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	defer connectCancel()

	db, err := postgres.Connect(connectCtx, postgres.Config{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnectAttempts: cfg.Database.ConnectAttempts,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if cfg.Database.MigrationsPath != "" {
		if err := postgres.Migrate(cfg.Database.MigrationsPath, cfg.Database.URL); err != nil {
			db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	metricsCtx, metricsCancel := context.WithCancel(context.Background())

	app := &App{
		config:        cfg,
		logger:        logger,
		db:            db,
		metricsCancel: metricsCancel,
		rateLimiter:   httputil.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	}

	go app.collectDBMetrics(metricsCtx)

	app.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           app.setupRouter(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Metrics server on separate port
	metricsRouter := chi.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.Handler())

	app.metricsServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.MetricsPort),
		Handler:           metricsRouter,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return app, nil
}

// Run starts the HTTP servers.
func (a *App) Run() error {
	// Start metrics server in background
	go func() {
		a.logger.Info("starting metrics server",
			"host", a.config.Server.Host,
			"port", a.config.Server.MetricsPort,
		)
		if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("metrics server error", "error", err)
		}
	}()

	// Start main server
	a.logger.Info("starting server",
		"host", a.config.Server.Host,
		"port", a.config.Server.Port,
	)

	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down servers")

	a.metricsCancel()
	a.rateLimiter.Stop()

	// Shutdown both servers in parallel
	var wg sync.WaitGroup
	var errs []error
	var mu sync.Mutex

	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := a.server.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown server: %w", err))
			mu.Unlock()
		}
	}()

	go func() {
		defer wg.Done()
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown metrics server: %w", err))
			mu.Unlock()
		}
	}()

	wg.Wait()

	a.db.Close()

	return errors.Join(errs...)
}

func (a *App) collectDBMetrics(ctx context.Context) {
	// Collect immediately on start
	metrics.RecordDBPoolMetrics(a.db)

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			metrics.RecordDBPoolMetrics(a.db)
		case <-ctx.Done():
			return
		}
	}
}

// Router returns the HTTP handler for testing.
func (a *App) Router() http.Handler {
	return a.server.Handler
}

func (a *App) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware must be first to measure full request time
	r.Use(httputil.MetricsMiddleware)

	// CORS must be early to handle preflight requests before other middleware
	r.Use(httputil.CORSMiddleware(a.config.CORS.AllowedOrigins))
	r.Use(middleware.RequestID)
	r.Use(httputil.RequestLoggerMiddleware(a.logger))
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", a.healthzHandler)
	r.Get("/readyz", a.readyzHandler)
	r.Get("/version", a.versionHandler)

	r.Get("/api/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-yaml")
		http.ServeFile(w, r, "api/openapi/openapi.yaml")
	})

	r.Get("/docs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>BloodHope API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
        SwaggerUIBundle({
            url: "/api/openapi.yaml",
            dom_id: '#swagger-ui',
            presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
            layout: "BaseLayout"
        });
    </script>
</body>
</html>`))
	})

	tokens := identity.NewTokenAuthenticator(identity.TokenConfig{
		SecretKey:     a.config.JWT.SecretKey,
		TokenDuration: a.config.JWT.TokenDuration,
	})

	identityRepo := identitypostgres.NewRepository(a.db)
	identityService := identity.NewService(identityRepo)
	identityHandler := identity.NewHandler(identityService, tokens)

	donationsRepo := donationspostgres.NewRepository(a.db)
	donationsService := donations.NewService(donationsRepo, identityService)
	donationsHandler := donations.NewHandler(donationsService)

	blogsRepo := blogspostgres.NewRepository(a.db)
	blogsService := blogs.NewService(blogsRepo)
	blogsHandler := blogs.NewHandler(blogsService)

	stripeClient := stripe.NewClient(stripe.Config{
		SecretKey: a.config.Stripe.SecretKey,
		BaseURL:   a.config.Stripe.BaseURL,
		Timeout:   a.config.Stripe.Timeout,
	})

	fundingRepo := fundingpostgres.NewRepository(a.db)
	fundingService := funding.NewService(fundingRepo, stripeClient)
	fundingHandler := funding.NewHandler(fundingService)

	geoRepo := geopostgres.NewRepository(a.db)
	geoService := geo.NewService(geoRepo)
	geoHandler := geo.NewHandler(geoService)

	reviewsHandler := reviews.NewHandler(reviewspostgres.NewRepository(a.db))
	statsHandler := stats.NewHandler(statspostgres.NewRepository(a.db))

	// Open endpoints
	identityHandler.RegisterPublicRoutes(r)
	donationsHandler.RegisterPublicRoutes(r)
	blogsHandler.RegisterPublicRoutes(r)
	geoHandler.RegisterPublicRoutes(r)
	reviewsHandler.RegisterPublicRoutes(r)

	// Open but rate limited: token minting and the payment provider bridge
	r.Group(func(r chi.Router) {
		r.Use(a.rateLimiter.Middleware)

		identityHandler.RegisterTokenRoute(r)
		fundingHandler.RegisterPublicRoutes(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(httputil.AuthMiddleware(tokens))

		identityHandler.RegisterProtectedRoutes(r)
		donationsHandler.RegisterProtectedRoutes(r)
		fundingHandler.RegisterProtectedRoutes(r)
		statsHandler.RegisterProtectedRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(httputil.RequireRole(identityService, domain.RoleAdmin, domain.RoleVolunteer))

			donationsHandler.RegisterPrivilegedRoutes(r)
			blogsHandler.RegisterPrivilegedRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(httputil.RequireRole(identityService, domain.RoleAdmin))

			identityHandler.RegisterAdminRoutes(r)
			blogsHandler.RegisterAdminRoutes(r)
		})
	})

	return r
}

func (a *App) healthzHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) readyzHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := a.db.Ping(ctx); err != nil {
		ctxlog.FromContext(r.Context()).Error("readiness check failed", "error", err)
		httputil.Text(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) versionHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{
		"version":    version.Version,
		"commit":     version.GitCommit,
		"build_date": version.BuildDate,
	})
}

func initLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
