package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gobwas/ws"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mohitrana7/Stock-Predictor/cmd/server/internal/gateway"
	"github.com/mohitrana7/Stock-Predictor/cmd/server/internal/hub"
	"github.com/mohitrana7/Stock-Predictor/cmd/server/internal/quote"
	"github.com/mohitrana7/Stock-Predictor/cmd/server/internal/repository"
	"github.com/mohitrana7/Stock-Predictor/cmd/server/internal/scheduler"
	"github.com/mohitrana7/Stock-Predictor/cmd/server/internal/sink"
	"github.com/mohitrana7/Stock-Predictor/pkg/config"
	"github.com/mohitrana7/Stock-Predictor/pkg/roster"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	// A missing or broken roster file is not fatal: the server still serves
	// per-client selections, the broadcast schedule just has nothing to do.
	symbols, err := roster.Load(cfg.Stream.RosterPath)
	if err != nil {
		logger.Warn("Roster unavailable, starting with empty roster",
			zap.String("path", cfg.Stream.RosterPath), zap.Error(err))
	} else {
		logger.Info("Roster loaded", zap.Int("symbols", len(symbols)))
	}

	var store repository.PriceStore
	switch cfg.Store.Backend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		store = repository.NewRedisStore(rdb)
	default:
		store = repository.NewMemoryStore()
	}
	defer store.Close()

	fetcher := quote.NewFetcher(
		cfg.Upstream.APIKey,
		cfg.Upstream.BaseURL,
		&http.Client{Timeout: cfg.Upstream.Timeout()},
		store,
		logger,
	)

	wsHub := hub.NewHub(fetcher, cfg.Stream.DefaultSymbol, logger)

	var updateSink scheduler.UpdateSink
	if cfg.Kafka.Enabled {
		kafkaSink := sink.NewKafkaSink(sink.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		defer kafkaSink.Close()
		updateSink = kafkaSink
		logger.Info("Kafka sink enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.New(symbols, cfg.Scheduler.BatchSize, cfg.Scheduler.Interval(), fetcher, wsHub, updateSink, logger)
	go sched.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			return
		}

		client := gateway.NewClient(conn, wsHub, logger)
		client.Start()
	})

	srv := &http.Server{Addr: cfg.App.Port, Handler: mux}

	go func() {
		logger.Info("Server Started", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Fatal("HTTP Error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	cancel()
	srv.Shutdown(context.Background())
	logger.Info("Shutdown Complete")
}
