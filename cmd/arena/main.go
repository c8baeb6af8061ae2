package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arena/internal/api"
	"arena/internal/cache"
	"arena/internal/clock"
	"arena/internal/config"
	"arena/internal/database"
	"arena/internal/events"
	"arena/internal/logger"
	"arena/internal/metrics"
	"arena/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	bootLog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("ARENA_CONFIG_PATH"))
	if err != nil {
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log, closer, err := logger.New(cfg.Log, os.Stdout)
	if err != nil {
		bootLog.Fatal().Err(err).Msg("failed to init logger")
	}
	defer closer.Close()

	db, err := database.NewDB(cfg.Database.Path, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("open db error")
	}
	defer db.Close()

	var rdb *redis.Client
	if cfg.Redis.Address != "" && cfg.CacheTTL() > 0 {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
	}
	snapshots := cache.NewSnapshotCache(rdb, cfg.CacheTTL(), &log)

	bus := events.NewEventBus(&log)
	bus.Subscribe(events.AllTypes, db.RecordEvent)

	loc := cfg.Location()
	svc := service.NewCourtService(db, snapshots, bus, clock.System{Location: loc}, &log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Seed.Path != "" {
		err := config.WatchCourts(ctx, cfg.Seed.Path, cfg.SeedWatchInterval(), func(seed *config.CourtsConfig) {
			created, err := svc.ApplySeed(ctx, seed, loc)
			if err != nil {
				log.Error().Err(err).Str("path", cfg.Seed.Path).Msg("failed to apply court seed")
				return
			}
			log.Info().Int("created", created).Str("path", cfg.Seed.Path).Msg("court seed applied")
		})
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Seed.Path).Msg("failed to load court seed")
		}
	}

	if cfg.Backup.Enabled {
		go database.NewBackupService(db, cfg.Backup, &log).Start(ctx)
	}

	go startHealthServer(ctx, cfg.HealthCheckPort(), db, rdb, &log)

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		go startMetricsServer(ctx, cfg.PrometheusPort(), &log)
	}

	server := api.NewHTTPServer(api.Options{
		Port:           cfg.HTTPPort(),
		APIKey:         cfg.HTTP.APIKey,
		RateLimitRPS:   cfg.HTTP.RateLimitRPS,
		RateLimitBurst: cfg.HTTP.RateLimitBurst,
		Location:       loc,
	}, svc, db, &log)

	if err := server.Start(ctx); err != nil {
		log.Error().Err(err).Msg("http server error")
	}
	log.Info().Msg("arena stopped")
}

func startHealthServer(ctx context.Context, port int, db *database.DB, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := db.PingContext(ctxPing); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
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
