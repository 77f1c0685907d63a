package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"crm/internal/activity"
	"crm/internal/http/handlers"
	"crm/internal/http/httpapi"
	"crm/internal/infra"
	"crm/internal/infra/credentials"
	"crm/internal/infra/geoip"
	"crm/internal/infra/google"
	"crm/internal/metrics"
	"crm/internal/providers/payment"
)

const geoCacheSize = 4096

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	runner := infra.NewSQLRunner(dbpool, logger)
	credStore := credentials.NewStore(runner)

	geo := buildGeoResolver(cfg, logger)
	httpClient := &http.Client{Timeout: 30 * time.Second}

	paymentKey := strings.TrimSpace(cfg.PaymentServerKey)
	if paymentKey == "" {
		if key, err := credStore.PaymentServerKey(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to load payment server key from store")
		} else {
			paymentKey = key
		}
	}
	gateway, err := payment.NewClient(payment.Options{
		ServerKey:  paymentKey,
		BaseURL:    cfg.PaymentBaseURL,
		HTTPClient: httpClient,
		Logger:     &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure payment gateway")
	}

	metrics.Register()

	app := &handlers.App{
		SQL:            runner,
		Logger:         logger,
		JWTSecret:      cfg.JWTSecret,
		PublicBaseURL:  cfg.PublicBaseURL,
		Clock:          activity.RealClock{},
		Geo:            geo,
		Payments:       gateway,
		GoogleVerifier: google.NewVerifier(cfg.GoogleIssuer, cfg.GoogleClientID),
	}

	router := httpapi.NewRouter(app, cfg)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

func buildGeoResolver(cfg *infra.Config, logger infra.Logger) geoip.CountryResolver {
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable, click countries disabled")
		return nil
	}
	if resolver == nil {
		return nil
	}
	cached, err := geoip.NewCachingResolver(resolver, geoCacheSize)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip cache disabled")
		return resolver
	}
	return cached
}
