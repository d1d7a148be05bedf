package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/mohitrana7/Stock-Predictor/cmd/server/internal/repository"
	"github.com/mohitrana7/Stock-Predictor/pkg/models"
)

const maxResponseSize = 1 << 20

// ErrNoData marks a response that carried no usable time series. Rate
// limiting, an unknown symbol, and a provider outage all look the same on
// the wire, so they all map to this one recoverable condition.
var ErrNoData = errors.New("quote: no time series in response")

// intradayResponse mirrors the Alpha Vantage TIME_SERIES_INTRADAY payload.
// Only the open price and volume of each bucket are consumed.
type intradayResponse struct {
	TimeSeries map[string]bar `json:"Time Series (1min)"`
}

type bar struct {
	Open   string `json:"1. open"`
	Volume string `json:"5. volume"`
}

// Fetcher retrieves the latest intraday quote for a symbol and derives the
// percent change against the previous price held in the PriceStore.
type Fetcher struct {
	apiKey  string
	baseURL string
	client  *http.Client
	store   repository.PriceStore
	logger  *zap.Logger
}

func NewFetcher(apiKey, baseURL string, client *http.Client, store repository.PriceStore, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
		store:   store,
		logger:  logger,
	}
}

// Fetch returns the latest quote for symbol, or an error when no usable
// quote exists. Every failure is recoverable: callers skip the symbol and
// the next tick or select retries naturally. The fetcher logs failures
// itself so callers don't have to.
func (f *Fetcher) Fetch(ctx context.Context, symbol string) (*models.Quote, error) {
	q := url.Values{}
	q.Set("function", "TIME_SERIES_INTRADAY")
	q.Set("symbol", symbol)
	q.Set("interval", "1min")
	q.Set("apikey", f.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, f.absent(symbol, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, f.absent(symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, f.absent(symbol, err)
	}

	var payload intradayResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, f.absent(symbol, err)
	}
	if len(payload.TimeSeries) == 0 {
		return nil, f.absent(symbol, ErrNoData)
	}

	// Buckets are keyed by "YYYY-MM-DD HH:MM:SS" timestamps, so the
	// lexicographically greatest key is the newest one. (The upstream
	// serializes newest-first, but a decoded map has no order to rely on.)
	var latest string
	for ts := range payload.TimeSeries {
		if ts > latest {
			latest = ts
		}
	}
	entry := payload.TimeSeries[latest]

	open, err := strconv.ParseFloat(entry.Open, 64)
	if err != nil {
		return nil, f.absent(symbol, fmt.Errorf("parse open %q: %w", entry.Open, err))
	}
	price := round2(open)

	prev, ok, err := f.store.LastPrice(ctx, symbol)
	if err != nil {
		f.logger.Warn("Price store read failed", zap.String("symbol", symbol), zap.Error(err))
		ok = false
	}
	if !ok {
		// First observation: the previous price defaults to the new price,
		// so the symbol reads as 0.00% until the next fetch.
		prev = price
	}

	var pct float64
	if prev != 0 {
		pct = round2((price - prev) / prev * 100)
	}

	if err := f.store.SetLastPrice(ctx, symbol, price); err != nil {
		f.logger.Warn("Price store write failed", zap.String("symbol", symbol), zap.Error(err))
	}

	return &models.Quote{
		Symbol:        symbol,
		Price:         price,
		PercentChange: pct,
		Volume:        entry.Volume,
		Timestamp:     latest,
	}, nil
}

func (f *Fetcher) absent(symbol string, err error) error {
	f.logger.Warn("Quote fetch failed", zap.String("symbol", symbol), zap.Error(err))
	return err
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
