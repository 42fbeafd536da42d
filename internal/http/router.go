// Package httpapi wires the HTTP transport (Gin) to the dialogue engine,
// middleware, and route handlers. It centralizes cross-cutting concerns:
// tracing, correlation IDs, structured logging, panic recovery, metrics,
// CORS, and per-sender rate limiting.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip and metrics
//  7. Rate limiter (per WhatsApp sender, IP fallback)
//  8. CORS
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tiendabot/go-shop-assistant/internal/config"
	"github.com/tiendabot/go-shop-assistant/internal/http/handlers"
	"github.com/tiendabot/go-shop-assistant/internal/http/middleware"
)

// Deps bundles the collaborators the routes need. All fields are interfaces
// so tests can install fakes; Transport may be nil (inline TwiML replies).
type Deps struct {
	Engine    handlers.DialogueEngine
	Catalog   handlers.CatalogProvider
	Dedupe    handlers.Deduper
	Transport handlers.Transport
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given
// Gin engine.
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (64 KiB; webhook forms are tiny)
	r.Use(limitBody(64 << 10))

	// 6) Compression, Prometheus metrics, and the /metrics endpoint
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per sender
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyBySenderOrIP())
	r.Use(rl.Handler())

	// 8) CORS posture (allow all when no origins configured)
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"X-Request-ID", "Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Routes
	wh := &handlers.WebhookHandler{
		Engine:    deps.Engine,
		Dedupe:    deps.Dedupe,
		Transport: deps.Transport,
	}
	ph := &handlers.ProductsHandler{Catalog: deps.Catalog}

	r.POST("/whatsapp/webhook", wh.Handle)
	r.GET("/products", ph.List)
}

// limitBody caps the request body size for all routes. Oversized bodies
// surface as read errors in the handler rather than unbounded memory use.
func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
