package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"

	"parkify/internal/api"
	"parkify/internal/config"
	"parkify/internal/database"
	"parkify/internal/events"
	"parkify/internal/logging"
	"parkify/internal/metrics"
	"parkify/internal/models"
	"parkify/internal/query"
	"parkify/internal/service"
	"parkify/internal/storage"
	"parkify/internal/worker"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := database.New(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	if err := seedSpots(db, &logger); err != nil {
		return err
	}

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	signer := storage.NewSigner(
		[]byte(cfg.Storage.HashKey),
		blockKey(cfg.Storage.BlockKey),
		redisClient,
		"/api/v1/files",
		&logger,
	)

	eventBus := events.NewEventBus()
	subscribeEventLog(eventBus, &logger)

	ratingsWorker := worker.NewRatingsWorker(db, worker.RetryPolicy{}, &logger)

	signTTL := time.Duration(cfg.Storage.SignedURLTTL) * time.Second
	parkingService := service.NewParkingService(
		db, signer, signTTL, eventBus, ratingsWorker, pageDefaults(cfg.Pagination.Spots), &logger)
	bookingService := service.NewBookingService(
		db, db, eventBus, pageDefaults(cfg.Pagination.Bookings), &logger)

	httpServer := api.NewHTTPServer(cfg.API, parkingService, bookingService, signer, cfg.Storage.FilesDir, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go ratingsWorker.Run(ctx)
	startMetrics(ctx, cfg, &logger)

	return startServer(ctx, httpServer, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

// seedSpots loads initial parking spots from a YAML file into an empty
// database. Missing seed file is not an error.
func seedSpots(db *database.DB, logger *zerolog.Logger) error {
	seedPath := os.Getenv("SPOTS_PATH")
	if seedPath == "" {
		seedPath = "configs/spots.yaml"
	}
	data, err := os.ReadFile(seedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		logger.Error().Err(err).Str("spots_path", seedPath).Msg("read spot seed")
		return err
	}

	var seed struct {
		Spots []models.ParkingSpot `yaml:"spots"`
	}
	if err := yaml.Unmarshal(data, &seed); err != nil {
		logger.Error().Err(err).Str("spots_path", seedPath).Msg("parse spot seed")
		return err
	}

	ctx := context.Background()
	existing, err := db.CountSpots(ctx, query.Descriptor{})
	if err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	for i := range seed.Spots {
		if err := db.CreateSpot(ctx, &seed.Spots[i]); err != nil {
			logger.Error().Err(err).Str("spot", seed.Spots[i].Name).Msg("seed spot failed")
			return err
		}
	}
	logger.Info().Int("spots", len(seed.Spots)).Msg("seeded parking spots")
	return nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// blockKey returns nil when no encryption key is configured.
func blockKey(key string) []byte {
	if key == "" {
		return nil
	}
	return []byte(key)
}

func pageDefaults(p config.PageConfig) query.Defaults {
	return query.Defaults{
		Limit:    p.Limit,
		MaxLimit: p.MaxLimit,
		Sort:     p.Ordering,
	}
}

func subscribeEventLog(bus *events.EventBus, logger *zerolog.Logger) {
	for _, eventType := range []string{
		events.EventBookingCreated,
		events.EventBookingConfirmed,
		events.EventBookingCancelled,
		events.EventBookingCompleted,
		events.EventReviewCreated,
	} {
		bus.Subscribe(eventType, func(event *events.Event) error {
			logger.Info().
				Str("event", event.Type).
				RawJSON("payload", event.Payload).
				Msg("domain event")
			return nil
		})
	}
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
