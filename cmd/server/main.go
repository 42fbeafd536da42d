// Command server runs the WhatsApp shopping assistant: an HTTP server that
// receives Twilio webhooks, runs one dialogue turn per inbound message, and
// replies through TwiML or the Messages API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tiendabot/go-shop-assistant/internal/ai"
	"github.com/tiendabot/go-shop-assistant/internal/catalog"
	"github.com/tiendabot/go-shop-assistant/internal/config"
	httpapi "github.com/tiendabot/go-shop-assistant/internal/http"
	"github.com/tiendabot/go-shop-assistant/internal/observability"
	"github.com/tiendabot/go-shop-assistant/internal/services"
	"github.com/tiendabot/go-shop-assistant/internal/session"
	"github.com/tiendabot/go-shop-assistant/internal/twilio"
)

const version = "1.0.0"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown failed")
		}
	}()

	store, err := session.Open(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("session store setup failed")
	}
	defer store.Close()

	shop := catalog.NewClient(cfg.Shopify)
	brain := ai.NewClient(cfg.OpenAI)

	engine := &services.DialogueService{
		Catalog:    shop,
		Store:      store,
		Classifier: brain,
		Matcher:    brain,
		Generator:  brain,
		Links:      catalog.LinkBuilder{ShopDomain: cfg.Shopify.ShopDomain},
		StoreName:  cfg.StoreName,
	}

	deps := httpapi.Deps{
		Engine:  engine,
		Catalog: shop,
		Dedupe:  store,
	}
	// Replies go out over the Messages API only when the sender number is
	// configured; otherwise the webhook answers inline TwiML.
	if cfg.Twilio.WhatsAppNumber != "" {
		deps.Transport = twilio.NewClient(cfg.Twilio)
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, deps, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func setupLogger(cfg config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
