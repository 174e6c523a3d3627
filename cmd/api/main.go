package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"mealcheck/internal/adapter/repo"
	"mealcheck/internal/credits"
	"mealcheck/internal/http/handlers"
	"mealcheck/internal/http/httpapi"
	"mealcheck/internal/infra"
	"mealcheck/internal/infra/credentials"
	"mealcheck/internal/infra/geoip"
	"mealcheck/internal/infra/google"
	"mealcheck/internal/ledger"
	"mealcheck/internal/localstore"
	"mealcheck/internal/middleware"
	"mealcheck/internal/pipeline"
	"mealcheck/internal/provider"
	"mealcheck/internal/provider/gemini"
	"mealcheck/internal/provider/remote"
)

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

	store, err := localstore.New(cfg.LocalStorePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open local store")
	}

	var countryLookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip unavailable")
	} else if resolver != nil {
		defer resolver.Close()
		countryLookup = resolver.CountryCode
	}

	runner := infra.NewSQLRunner(dbpool, logger)
	profiles := repo.NewProfileRepository(runner)
	usage := repo.NewUsageRepository(runner)
	reconciler := credits.NewReconciler(profiles, ledger.New(store), usage, logger)

	httpClient := &http.Client{Timeout: cfg.HTTPWriteTimeout}
	analyzer := pipeline.NewAnalyzer(
		credentials.NewStore(store),
		reconciler,
		func(apiKey string) provider.Inference {
			return gemini.NewClient(gemini.Options{
				APIKey:     apiKey,
				BaseURL:    cfg.GeminiBaseURL,
				Model:      cfg.GeminiModel,
				HTTPClient: httpClient,
			})
		},
		func(sessionToken string) provider.Inference {
			return remote.NewClient(remote.Options{
				FunctionURL:  cfg.EdgeFunctionURL,
				AnonKey:      cfg.EdgeAnonKey,
				SessionToken: sessionToken,
				HTTPClient:   httpClient,
			})
		},
		logger,
	)

	app := &handlers.App{
		Logger:         logger,
		JWTSecret:      cfg.JWTSecret,
		CheckoutURL:    cfg.CheckoutURL,
		GoogleVerifier: google.NewVerifier(cfg.GoogleIssuer, cfg.GoogleClientID),
		Profiles:       profiles,
		Analyzer:       analyzer,
		Credits:        reconciler,
		Usage:          usage,
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		JWTSecret:          cfg.JWTSecret,
		AllowedOrigins:     cfg.AllowedOrigins,
		DefaultLocale:      cfg.DefaultLocale,
		CountryLookup:      countryLookup,
		RateLimitPerMinute: cfg.RateLimitPerMin,
	})

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
