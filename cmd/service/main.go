package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/zValkyrion/fullstack-challenge-weatherApp/internal/auth"
	"github.com/zValkyrion/fullstack-challenge-weatherApp/internal/cache"
	"github.com/zValkyrion/fullstack-challenge-weatherApp/internal/client"
	"github.com/zValkyrion/fullstack-challenge-weatherApp/internal/config"
	"github.com/zValkyrion/fullstack-challenge-weatherApp/internal/geocode"
	httphandler "github.com/zValkyrion/fullstack-challenge-weatherApp/internal/http"
	"github.com/zValkyrion/fullstack-challenge-weatherApp/internal/observability"
	"github.com/zValkyrion/fullstack-challenge-weatherApp/internal/service"
)

func main() {
	_ = godotenv.Load()

	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	userStore := auth.NewGormUserStore(db)
	if err := userStore.Migrate(); err != nil {
		logger.Fatal("database migrate", zap.Error(err))
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := auth.NewService(userStore, tokens)

	weatherClient, err := client.NewOpenWeatherClient(cfg.WeatherAPIKey, cfg.WeatherAPIURL, cfg.WeatherAPITimeout)
	if err != nil {
		logger.Fatal("weather client", zap.Error(err))
	}
	geocoder := geocode.NewClient(cfg.GeocodingAPIURL, cfg.GeocodingTimeout)

	var cacheSvc cache.Cache
	var memcacheCloser *cache.MemcachedCache
	switch cfg.CacheBackend {
	case "memcached":
		mc, err := cache.NewMemcachedCache(cfg.MemcachedAddrs, cfg.MemcachedTimeout, cfg.MemcachedMaxIdleConns)
		if err != nil {
			logger.Fatal("memcached cache", zap.Error(err))
		}
		memcacheCloser = mc
		cacheSvc = mc
		logger.Info("cache backend: memcached", zap.String("addrs", cfg.MemcachedAddrs))
	default:
		cacheSvc = cache.NewInMemoryCache()
		logger.Info("cache backend: in_memory")
	}

	weatherService := service.NewWeatherService(weatherClient, geocoder, cacheSvc, cfg.CacheTTL, cfg.WeatherIconURL)

	handler := httphandler.NewHandler(weatherService, authService, logger)
	if memcacheCloser != nil {
		handler.SetCachePing(memcacheCloser.Ping)
	}

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	if cfg.WarmCache && len(cfg.PopularCities) > 0 {
		warmer := cache.NewWarmer(weatherService, logger)
		if cfg.WarmInterval > 0 {
			// WarmPeriodic warms immediately before the first tick.
			go func() {
				if err := warmer.WarmPeriodic(context.Background(), cfg.PopularCities, cfg.WarmInterval); err != nil && err != context.Canceled {
					logger.Error("periodic cache warming stopped", zap.Error(err))
				}
			}()
		} else {
			warmCtx, warmCancel := context.WithTimeout(context.Background(), 30*time.Second)
			warmer.Warm(warmCtx, cfg.PopularCities)
			warmCancel()
		}
	}

	router := mux.NewRouter()
	router.Use(httphandler.CORSMiddleware(cfg.CORSOrigin))
	router.Use(httphandler.CorrelationIDMiddleware(logger))
	router.Use(httphandler.MetricsMiddleware)
	router.HandleFunc("/api/health", handler.GetHealth).Methods("GET")
	router.Handle("/metrics", observability.MetricsHandler())

	authRouter := router.PathPrefix("/api/auth").Subrouter()
	authRouter.HandleFunc("/signup", handler.Signup).Methods("POST")
	authRouter.HandleFunc("/login", handler.Login).Methods("POST")

	weatherRouter := router.PathPrefix("/api/weather").Subrouter()
	weatherRouter.Use(httphandler.RateLimitMiddleware(limiter))
	weatherRouter.Use(httphandler.TimeoutMiddleware(cfg.RequestTimeout))
	weatherRouter.Use(httphandler.ProtectMiddleware(authService))
	weatherRouter.HandleFunc("/cities", handler.GetCitiesWeather).Methods("GET")
	weatherRouter.HandleFunc("/forecast", handler.GetForecast).Methods("GET")
	weatherRouter.HandleFunc("/details-by-coords", handler.GetDetails).Methods("GET")

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", ":"+cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	<-ctx.Done()
	stop()

	logger.Info("graceful shutdown triggered")
	handler.SetShuttingDown(true)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	inFlight := httphandler.InFlightCount()
	logger.Info("waiting for in-flight requests", zap.Int64("count", inFlight))
	waitCtx, waitCancel := context.WithTimeout(context.Background(), cfg.ShutdownInFlightTimeout)
	defer waitCancel()
	if err := httphandler.WaitForInFlight(waitCtx, cfg.ShutdownInFlightCheckInterval); err != nil {
		logger.Warn("in-flight requests not completed", zap.Error(err), zap.Int64("remaining", httphandler.InFlightCount()))
	}

	observability.FlushTelemetry(logger)

	if memcacheCloser != nil {
		if err := memcacheCloser.Close(); err != nil {
			logger.Error("memcached close", zap.Error(err))
		}
	}
	logger.Info("shutdown complete")
}
