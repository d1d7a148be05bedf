package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mohitrana7/Stock-Predictor/cmd/stubfeed/internal/stubfeed"
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

	// Seed a base price per roster symbol so the walk starts somewhere
	// plausible instead of everything at the default.
	basePrices := make(map[string]float64)
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	if symbols, err := roster.Load(cfg.Stream.RosterPath); err == nil {
		for _, s := range symbols {
			basePrices[s] = 100 + r.Float64()*4900
		}
	} else {
		logger.Warn("Roster unavailable, all symbols start at the default base", zap.Error(err))
	}

	feed := stubfeed.New(logger, basePrices, stubfeed.RealRand{Rand: r}, stubfeed.RealClock{})

	mux := http.NewServeMux()
	mux.Handle("/query", feed)

	srv := &http.Server{Addr: cfg.Stubfeed.Port, Handler: mux}

	go func() {
		logger.Info("Stubfeed Started", zap.String("port", cfg.Stubfeed.Port))
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Fatal("HTTP Error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	srv.Shutdown(context.Background())
	logger.Info("Shutdown Complete")
}
