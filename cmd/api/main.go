package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"styleaiapi/config"
	"styleaiapi/controllers"
	"styleaiapi/logging"
	"styleaiapi/services"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config failed")
	}
	logging.Setup(cfg.LogLevel, cfg.IsLocal())

	err = sentry.Init(sentry.ClientOptions{
		// empty DSN disables sending
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Env,
		Release:          "styleai@1.0.0",
		Debug:            false,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("sentry.Init failed")
	}
	defer sentry.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := services.NewMetrics(registry)

	google, err := services.NewGoogleStylistGateway(ctx, services.GoogleStylistConfig{
		APIKey:     cfg.GoogleAPIKey,
		TextModel:  cfg.TextModel,
		ImageModel: cfg.ImageModel,
		BaseURL:    cfg.GoogleBaseURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("stylist gateway init failed")
	}
	if !google.Available() {
		log.Warn().Msg("GOOGLE_API_KEY is not set, every generation will fail as unavailable")
	}
	gateway := services.NewInstrumentedGateway(google, metrics)

	sessions, err := controllers.NewWizardSessions(gateway, metrics, cfg.SessionTTL, cfg.SessionCapacity)
	if err != nil {
		log.Fatal().Err(err).Msg("session store init failed")
	}
	defer sessions.Close()

	e := controllers.SetupServer(sessions, registry)
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimit))))
	e.Use(middleware.Recover())
	e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))

	go func() {
		log.Info().Str("address", cfg.Address).Str("text_model", cfg.TextModel).Str("image_model", cfg.ImageModel).Msg("starting server")
		if err := e.Start(cfg.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
