package stubfeed

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

// Feed serves synthetic TIME_SERIES_INTRADAY responses so the server can
// run against UPSTREAM_BASE_URL=http://localhost:8081/query without an API
// key. Each request advances a per-symbol random walk.
type Feed struct {
	logger *zap.Logger
	rand   Rand
	clock  Clock

	mu         sync.Mutex
	prices     map[string]float64
	basePrices map[string]float64
}

func New(logger *zap.Logger, basePrices map[string]float64, rnd Rand, clock Clock) *Feed {
	return &Feed{
		logger:     logger,
		rand:       rnd,
		clock:      clock,
		prices:     make(map[string]float64),
		basePrices: basePrices,
	}
}

func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		http.Error(w, "missing symbol", http.StatusBadRequest)
		return
	}

	price, volume := f.next(symbol)
	timestamp := f.clock.Now().Format("2006-01-02 15:04:05")

	resp := map[string]interface{}{
		"Meta Data": map[string]string{
			"2. Symbol":   symbol,
			"4. Interval": "1min",
		},
		"Time Series (1min)": map[string]map[string]string{
			timestamp: {
				"1. open":   strconv.FormatFloat(price, 'f', 2, 64),
				"5. volume": strconv.Itoa(volume),
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		f.logger.Error("Encode failed", zap.Error(err))
	}
	f.logger.Debug("Served tick", zap.String("symbol", symbol), zap.Float64("price", price))
}

// next advances the symbol's random walk by at most +/-5 and returns the new
// price with a synthetic volume.
func (f *Feed) next(symbol string) (float64, int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	last, ok := f.prices[symbol]
	if !ok {
		if base, has := f.basePrices[symbol]; has {
			last = base
		} else {
			last = 1000.0
		}
	}

	fluctuation := (f.rand.Float64() * 10) - 5
	price := last + fluctuation
	if price < 1 {
		price = 1
	}
	f.prices[symbol] = price

	volume := 10000 + int(f.rand.Float64()*90000)
	return price, volume
}
