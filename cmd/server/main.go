package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/broker"
	"github.com/Nixie-Tech-LLC/minaret/internal/config"
	"github.com/Nixie-Tech-LLC/minaret/internal/redis"
	"github.com/Nixie-Tech-LLC/minaret/internal/scan"
	"github.com/Nixie-Tech-LLC/minaret/internal/stats"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogging(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = serve(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("server stopped")
}

// serve wires the backends and blocks until ctx is cancelled or the
// listener fails. Everything it opens is closed before it returns.
func serve(ctx context.Context, cfg *config.Config) error {
	ds, closeSource, err := LoadDataset(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to load mosque dataset: %w", err)
	}
	defer closeSource()

	var opts []stats.Option
	if cfg.RedisAddress != "" {
		rdb := redis.New(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
		if err := rdb.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("address", cfg.RedisAddress).Msg("redis unreachable, stats will not be shared")
			_ = rdb.Close()
		} else {
			log.Info().Str("address", cfg.RedisAddress).Msg("sharing stats snapshots through redis")
			opts = append(opts, stats.WithStore(rdb))
			defer rdb.Close()
		}
	}
	if cfg.MQTTBrokerURL != "" {
		pub, err := broker.Connect(cfg.MQTTBrokerURL, cfg.MQTTClientID, cfg.MQTTStatsTopic)
		if err != nil {
			log.Warn().Err(err).Str("broker", cfg.MQTTBrokerURL).Msg("mqtt unavailable, stats will not be published")
		} else {
			opts = append(opts, stats.WithPublisher(pub))
			defer pub.Close()
		}
	}

	scanner := scan.New(scan.Config{
		AdhanDuration: cfg.AdhanDuration,
		InactiveCap:   cfg.InactiveCap,
	}, scan.RandomSampler{})
	aggregator := stats.New(stats.Config{
		AdhanDuration:     cfg.AdhanDuration,
		TTL:               cfg.StatsTTL,
		ReferenceLatitude: cfg.ReferenceLatitude,
		Workers:           cfg.StatsWorkers,
	}, opts...)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	RegisterRoutes(r, cfg, ds, scanner, aggregator)

	log.Info().
		Str("address", cfg.ServerAddress).
		Int("mosques", ds.Len()).
		Dur("adhan_duration", cfg.AdhanDuration).
		Msg("listening")
	return run(ctx, &http.Server{Addr: cfg.ServerAddress, Handler: r})
}

// run serves until ctx is cancelled, then drains in-flight requests.
func run(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
